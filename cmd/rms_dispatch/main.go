// Package main provides the entry point for the recruitment dispatch HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rms_dispatch",
	Short: "Recruitment Document Dispatch HTTP API Server",
	Long:  "rms_dispatch selects, merges, and bulk-dispatches candidates' verified documents to clients and to processing, keeping an append-only forwarding ledger and the candidate pipeline status machine.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
