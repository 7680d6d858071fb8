package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/adapters/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tracker over HTTP",
	Long: `Serve the task tracker as a JSON API so other machines can run the board
with --remote or remote.url pointed here.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if app.storage == nil {
			return errNeedsLocal
		}
		addr := serveAddr
		if addr == "" {
			addr = app.config.Server.Addr
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Serving on http://%s (Ctrl+C to stop)\n", addr)
		server := httpapi.NewServer(app.tracker, app.history, app.logger)
		if err := server.Run(setupSignalHandler(), addr); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: server.addr from config)")
	rootCmd.AddCommand(serveCmd)
}
