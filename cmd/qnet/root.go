package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use: "qnet",
	Short: "QNet CLI tool can run quantum network timing experiments " +
		"built with the qnet packages.",
	Long: `QNet CLI tool can run quantum network timing experiments built ` +
		`with the qnet packages. Currently, it supports a set of built-in ` +
		`demo experiments.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		// A missing .env file is not an error.
		_ = godotenv.Load()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
