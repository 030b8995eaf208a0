package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/client"
	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/ledger"
)

var itemCmd = &cobra.Command{
	Use:   "item",
	Short: "Manage inventory items",
}

var (
	itemAddName  string
	itemAddUnit  string
	itemAddRate  string
	itemAddStock float64
)

var itemAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new item",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer, flagCompany)

		created, err := c.CreateItem(context.Background(), itemAddName, itemAddUnit, itemAddRate, itemAddStock)
		if err != nil {
			return err
		}
		fmt.Printf("Item created: %s (%s) rate=%s stock=%.2f\n",
			created.Name, created.ID, ledger.FormatRupees(created.Rate), created.StockQty)
		return nil
	},
}

var itemListCmd = &cobra.Command{
	Use:   "list",
	Short: "List items with current stock",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer, flagCompany)

		items, err := c.ListItems(context.Background())
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("No items found.")
			return nil
		}

		fmt.Printf("%-38s %-30s %-8s %12s %10s\n", "ID", "NAME", "UNIT", "RATE", "STOCK")
		for _, it := range items {
			name := it.Name
			if len(name) > 28 {
				name = name[:28] + ".."
			}
			fmt.Printf("%-38s %-30s %-8s %12s %10.2f\n",
				it.ID, name, it.Unit, ledger.FormatRupees(it.Rate), it.StockQty)
		}
		return nil
	},
}

func init() {
	itemAddCmd.Flags().StringVar(&itemAddName, "name", "", "Item name")
	itemAddCmd.Flags().StringVar(&itemAddUnit, "unit", "", "Unit of measure (bag, kg, nos)")
	itemAddCmd.Flags().StringVar(&itemAddRate, "rate", "", "Default rate in rupees")
	itemAddCmd.Flags().Float64Var(&itemAddStock, "stock", 0, "Opening stock quantity")
	itemAddCmd.MarkFlagRequired("name")

	itemCmd.AddCommand(itemAddCmd)
	itemCmd.AddCommand(itemListCmd)

	rootCmd.AddCommand(itemCmd)
}
