package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"inv_hub_v1/internal/model"
	"inv_hub_v1/internal/webhook"
)

var listSearch string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the inventory table once and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := buildApp()
		ctx := context.Background()

		var (
			products []model.Product
			fail     error
		)
		if listSearch != "" {
			p, f := app.Inventory.SearchByName(ctx, listSearch)
			products, fail = p, errOrNil(f)
		} else {
			p, f := app.Inventory.FetchInventory(ctx)
			products, fail = p, errOrNil(f)
		}
		if fail != nil {
			return fail
		}

		if len(products) == 0 {
			fmt.Println("No products found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "UPC/ID\tQTY\tTITLE\tVALUE\tSTATUS\tLISTING")
		for _, p := range products {
			value := "N/A"
			if p.MarketValue != nil {
				value = fmt.Sprintf("$%.2f", *p.MarketValue)
			}
			listing := p.EbayListingID
			if listing == "" {
				listing = "Not Listed"
			}
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n",
				p.DisplayKey(), p.Quantity, p.DisplayTitle(), value, p.EnrichmentStatus, listing)
		}
		return w.Flush()
	},
	SilenceUsage: true,
}

// errOrNil 带类型的空指针装进 error 接口就不再是 nil，这里拆开
func errOrNil(f *webhook.Failure) error {
	if f == nil {
		return nil
	}
	return f
}

func init() {
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "search by product name instead of listing everything")
	rootCmd.AddCommand(listCmd)
}
