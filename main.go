package main

import "github.com/Kyaw-Min-lwin/Octo-Task/cmd"

func main() {
	cmd.Execute()
}
