package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich [upc]",
	Short: "Queue AI enrichment for one product, or the whole backlog",
	Long: `enrich asks the backend to (re)generate optimized titles and
descriptions. With a UPC it targets that product; without one the
backend works through everything still pending.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := buildApp()

		upc := ""
		if len(args) == 1 {
			upc = args[0]
		}

		msg, fail := app.Inventory.TriggerEnrich(context.Background(), upc)
		if fail != nil {
			return fail
		}
		fmt.Println(msg)
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(enrichCmd)
}
