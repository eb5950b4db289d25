// Package main provides the entry point for the PathExplorer expertise
// engine HTTP API server and batch jobs.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pathexplorer",
	Short: "PathExplorer expertise engine",
	Long:  "PathExplorer scores employee expertise by area, ranks employees against their peers, and matches candidates to open project positions.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
