package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan <upc>",
	Short: "Submit a UPC to the backend for ingestion",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := buildApp()

		msg, fail := app.Inventory.ScanUPC(context.Background(), args[0])
		if fail != nil {
			return fail
		}
		fmt.Printf("UPC %s: %s\n", args[0], msg)
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
