package cmd

import (
	"github.com/spf13/cobra"

	"inv_hub_v1/internal/mockserver"
)

var mockAddr string

var mockserverCmd = &cobra.Command{
	Use:   "mockserver",
	Short: "Run a local stand-in for the webhook backend",
	Long: `mockserver serves the full webhook surface against an in-memory
store, with a cron loop that walks enrichment statuses forward so the
client's polling behavior can be exercised offline.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return mockserver.New().Run(mockAddr)
	},
	SilenceUsage: true,
}

func init() {
	mockserverCmd.Flags().StringVar(&mockAddr, "addr", ":8787", "listen address")
	rootCmd.AddCommand(mockserverCmd)
}
