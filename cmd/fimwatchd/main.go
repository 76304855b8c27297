package main

import (
	"log"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fimwatchd [command]",
	Short: "fimwatchd: node-local file integrity monitoring agent",
	Long:  `fimwatchd attaches filesystem-notification watches to container root filesystems and streams matching events to a structured log.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
