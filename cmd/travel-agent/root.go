package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ynakazat11/travel-agent/internal/config"
	"github.com/ynakazat11/travel-agent/internal/profile"
)

var rootCmd = &cobra.Command{
	Use:   "travel-agent",
	Short: "Travel Points Planner — CLI award travel optimizer",
	Long: `Plan award trips across Chase UR, Amex MR, Citi TY, Capital One and Bilt.
The planner gathers your preferences conversationally, searches flight and
hotel award space, and walks you through transfers and bookings step by step.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		mock, _ := cmd.Flags().GetBool("mock")
		if mock {
			cfg.Mock = true
		}
		if path, _ := cmd.Flags().GetString("profile"); path != "" {
			cfg.ProfilePath = path
		}
		if cfg.ProfilePath == "" {
			cfg.ProfilePath = profile.DefaultPath()
		}

		verbose, _ := cmd.Flags().GetBool("verbose")
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		app := newApp(cfg, logger)
		if setup, _ := cmd.Flags().GetBool("setup-profile"); setup {
			return app.runProfileSetup()
		}
		return app.run()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().Bool("mock", false, "Use mock search data (no API credentials required)")
	rootCmd.Flags().Bool("setup-profile", false, "Run the interactive profile setup wizard")
	rootCmd.Flags().String("profile", "", "Path to a custom profile YAML file")
	rootCmd.Flags().BoolP("verbose", "v", false, "Enable debug logging")
}
