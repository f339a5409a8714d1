package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "bgroup",
		Short: "CLI tool for the badminton session API",
		Long: `bgroup is a CLI tool for interacting with the badminton group session JSON API.

It supports session management, the rest/leave status workflow, matches,
and real-time SSE event streaming. Requests are identified by a per-device
id, generated on first use and persisted locally.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load or generate the device id if not provided via flag/env
			if err := cfg.LoadDeviceID(); err != nil {
				return err
			}

			// Create HTTP client
			client = NewClient(cfg.ServerURL)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: BGROUP_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.DeviceID, "device-id", cfg.DeviceID, "Device id (env: BGROUP_DEVICE_ID)")
	rootCmd.PersistentFlags().StringVar(&cfg.DeviceFile, "device-file", cfg.DeviceFile, "Device id file path (env: BGROUP_DEVICE_FILE)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newSessionCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newMatchCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
