package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
	Long: `Show the effective configuration, or change one setting in the config file.

Keys use dotted names, for example:
  octo config set focus.idle_threshold 10s
  octo config set remote.url http://10.0.0.2:7860`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowCmd.RunE(cmd, args)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print every setting",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		values := config.Values(app.config)
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), values)
		}

		path, err := configFile()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "# %s\n", path)

		keys := make([]string, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(out, "%-24s %v\n", k, values[k])
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Args:  cobra.ExactArgs(2),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return config.Keys(), cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configFile()
		if err != nil {
			return err
		}
		cfg, err := config.Set(path, args[0], args[1])
		if err != nil {
			return err
		}
		app.config = cfg

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), config.Values(cfg))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s = %v\n", args[0], config.Values(cfg)[args[0]])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func configFile() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}
