package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/config"
	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/server"
)

var (
	servePort    int
	serveConfig  string
	serveVerbose bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for dispatch batches, merges, the forwarding ledger, and pipeline status updates.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveConfig, "config", "", "Path to a JSON config file (overrides environment)")
	serveCmd.Flags().BoolVar(&serveVerbose, "verbose", false, "Print dispatch summaries to stdout")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg := config.FromEnv()
	if serveConfig != "" {
		fileCfg, err := config.LoadConfig(serveConfig)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = cfg.Merge(fileCfg)
	}
	if cfg.Port == 0 {
		cfg.Port = servePort
	}
	if serveVerbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
