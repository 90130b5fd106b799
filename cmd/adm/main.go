// Package main provides the entry point for the study CLI: paradigm and
// pillar printing, content validation, preference and database administration.
package main

import (
	"context"
	"fmt"
	"os"

	"studyapp/cmd/adm/commands"
	"studyapp/internal/config"
	"studyapp/internal/observability"

	"github.com/spf13/cobra"
)

func main() {
	ctx := context.Background()

	// Set default config file if not already set
	if os.Getenv(config.ConfigFileEnv) == "" {
		for _, path := range []string{"config.yaml", "../config.yaml", "../../config.yaml"} {
			if _, err := os.Stat(path); err == nil {
				if err := os.Setenv(config.ConfigFileEnv, path); err != nil {
					fmt.Fprintf(os.Stderr, "Failed to set %s environment variable: %v\n", config.ConfigFileEnv, err)
					os.Exit(1)
				}
				break
			}
		}
	}

	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Disable all OpenTelemetry features for the CLI to avoid connection errors
	cfg.OpenTelemetry.EnableTracing = false
	cfg.OpenTelemetry.EnableMetrics = false
	cfg.OpenTelemetry.EnableLogging = false

	var verbose bool
	logLevel := "error"
	for _, arg := range os.Args[1:] {
		if arg == "-v" || arg == "--verbose" {
			logLevel = "debug"
		}
	}

	_, _, logger, err := observability.SetupObservability(&cfg.OpenTelemetry, "study-adm", logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize observability: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	rootCmd := &cobra.Command{
		Use:   "adm",
		Short: "Study Application Tool",
		Long: `Study Application Tool

Prints generated paradigms and pillars, validates content documents,
manages stored preferences, synthesizes speech and migrates the database.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := cmd.Help(); err != nil {
				fmt.Printf("Error showing help: %v\n", err)
			}
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level")

	rootCmd.AddCommand(commands.ParadigmCommand(logger))
	rootCmd.AddCommand(commands.PillarsCommand())
	rootCmd.AddCommand(commands.ContentCommands(cfg, logger))
	rootCmd.AddCommand(commands.PreferenceCommands(cfg, logger))
	rootCmd.AddCommand(commands.SpeakCommand(cfg, logger))
	rootCmd.AddCommand(commands.DatabaseCommands(cfg, logger))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
