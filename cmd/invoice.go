package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/client"
	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/ledger"
)

var invoiceCmd = &cobra.Command{
	Use:     "invoice",
	Aliases: []string{"inv"},
	Short:   "Manage invoices",
}

// invoice create
var (
	invCreateType  string
	invCreateParty string
	invCreateMode  string
	invCreateDate  string
	invCreateLines []string // format: "item_id:qty:rate[:tax%[:discount%]]"
)

// parseLine parses "item_id:qty:rate[:tax%[:discount%]]". The item id
// may be empty for free-form lines.
func parseLine(s string) (map[string]any, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 3 {
		return nil, fmt.Errorf("invalid line format %q, expected item_id:qty:rate[:tax%%[:discount%%]]", s)
	}
	qty, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid qty %q in line %q: %w", parts[1], s, err)
	}
	line := map[string]any{
		"item_id": parts[0],
		"qty":     qty,
		"rate":    parts[2],
	}
	if len(parts) > 3 {
		tax, err := strconv.ParseFloat(parts[3], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid tax%% %q in line %q: %w", parts[3], s, err)
		}
		line["tax_percent"] = tax
	}
	if len(parts) > 4 {
		disc, err := strconv.ParseFloat(parts[4], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid discount%% %q in line %q: %w", parts[4], s, err)
		}
		line["discount_percent"] = disc
	}
	return line, nil
}

var invoiceCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new invoice",
	Long: `Create a sales or purchase invoice. Each --line is formatted as
"item_id:qty:rate[:tax%[:discount%]]" (e.g. "cement-01:10:400.00:18").
Tax splits and the grand total are computed server-side.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer, flagCompany)

		lines := make([]map[string]any, 0, len(invCreateLines))
		for _, l := range invCreateLines {
			line, err := parseLine(l)
			if err != nil {
				return err
			}
			lines = append(lines, line)
		}

		body := map[string]any{
			"type":     strings.ToUpper(invCreateType),
			"party_id": invCreateParty,
			"lines":    lines,
		}
		if invCreateMode != "" {
			body["payment_mode"] = invCreateMode
		}
		if invCreateDate != "" {
			body["date"] = invCreateDate + "T00:00:00Z"
		}

		result, err := c.CreateInvoice(context.Background(), body)
		if err != nil {
			return err
		}

		inv := result.Invoice
		fmt.Printf("Invoice created: %s (%s)\n", inv.Number, inv.ID)
		fmt.Printf("Party:       %s\n", inv.PartyName)
		fmt.Printf("Subtotal:    %s\n", ledger.FormatRupees(inv.Subtotal))
		fmt.Printf("CGST:        %s\n", ledger.FormatRupees(inv.CGSTTotal))
		fmt.Printf("SGST:        %s\n", ledger.FormatRupees(inv.SGSTTotal))
		if inv.IGSTTotal != 0 {
			fmt.Printf("IGST:        %s\n", ledger.FormatRupees(inv.IGSTTotal))
		}
		fmt.Printf("Grand total: %s\n", ledger.FormatRupees(inv.GrandTotal))
		printWarnings(result.Warnings)
		return nil
	},
}

// invoice list
var (
	invListParty string
	invListType  string
)

var invoiceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List invoices",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer, flagCompany)

		invoices, err := c.ListInvoices(context.Background(), invListParty, strings.ToUpper(invListType))
		if err != nil {
			return err
		}
		if len(invoices) == 0 {
			fmt.Println("No invoices found.")
			return nil
		}

		fmt.Printf("%-8s %-10s %-12s %-26s %14s %14s %s\n", "NUMBER", "TYPE", "DATE", "PARTY", "TOTAL", "DUE", "MODE")
		for _, inv := range invoices {
			name := inv.PartyName
			if len(name) > 24 {
				name = name[:24] + ".."
			}
			fmt.Printf("%-8s %-10s %-12s %-26s %14s %14s %s\n",
				inv.Number, inv.Type, inv.Date.Format("2006-01-02"), name,
				ledger.FormatRupees(inv.GrandTotal), ledger.FormatRupees(inv.Due()), inv.PaymentMode)
		}
		return nil
	},
}

// invoice get
var invoiceGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Get invoice details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer, flagCompany)

		inv, err := c.GetInvoice(context.Background(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Number:      %s (%s)\n", inv.Number, inv.Type)
		fmt.Printf("Party:       %s\n", inv.PartyName)
		fmt.Printf("Date:        %s\n", inv.Date.Format("2006-01-02"))
		fmt.Printf("Mode:        %s\n", inv.PaymentMode)
		fmt.Printf("Lines:\n")
		fmt.Printf("  %-26s %8s %12s %6s %14s\n", "ITEM", "QTY", "RATE", "TAX%", "TAXABLE")
		for _, l := range inv.Lines {
			name := l.ItemName
			if name == "" {
				name = l.ItemID
			}
			fmt.Printf("  %-26s %8.2f %12s %6.1f %14s\n",
				name, l.Qty, ledger.FormatRupees(l.Rate), l.TaxPercent, ledger.FormatRupees(l.Amount))
		}
		fmt.Printf("Subtotal:    %s\n", ledger.FormatRupees(inv.Subtotal))
		fmt.Printf("CGST:        %s\n", ledger.FormatRupees(inv.CGSTTotal))
		fmt.Printf("SGST:        %s\n", ledger.FormatRupees(inv.SGSTTotal))
		if inv.IGSTTotal != 0 {
			fmt.Printf("IGST:        %s\n", ledger.FormatRupees(inv.IGSTTotal))
		}
		fmt.Printf("Grand total: %s\n", ledger.FormatRupees(inv.GrandTotal))
		fmt.Printf("Paid:        %s\n", ledger.FormatRupees(inv.PaidAmount))
		fmt.Printf("Due:         %s\n", ledger.FormatRupees(inv.Due()))
		return nil
	},
}

// invoice delete
var invoiceDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete an invoice (stock and allocations reversed best-effort)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer, flagCompany)
		if err := c.DeleteInvoice(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Invoice %s deleted\n", args[0])
		return nil
	},
}

func printWarnings(warnings []ledger.Warning) {
	for _, w := range warnings {
		fmt.Printf("warning [%s] %s: %s\n", w.Code, w.Ref, w.Msg)
	}
}

func init() {
	invoiceCreateCmd.Flags().StringVar(&invCreateType, "type", "sales", "Invoice type (sales or purchase)")
	invoiceCreateCmd.Flags().StringVar(&invCreateParty, "party", "", "Party ID")
	invoiceCreateCmd.Flags().StringVar(&invCreateMode, "mode", "credit", "Payment mode (cash, credit, bank, upi)")
	invoiceCreateCmd.Flags().StringVar(&invCreateDate, "date", "", "Invoice date (YYYY-MM-DD, default today)")
	invoiceCreateCmd.Flags().StringSliceVar(&invCreateLines, "line", nil, "Line in format item_id:qty:rate[:tax%[:discount%]] (can be repeated)")
	invoiceCreateCmd.MarkFlagRequired("party")
	invoiceCreateCmd.MarkFlagRequired("line")

	invoiceListCmd.Flags().StringVar(&invListParty, "party", "", "Filter by party ID")
	invoiceListCmd.Flags().StringVar(&invListType, "type", "", "Filter by type (sales or purchase)")

	invoiceCmd.AddCommand(invoiceCreateCmd)
	invoiceCmd.AddCommand(invoiceListCmd)
	invoiceCmd.AddCommand(invoiceGetCmd)
	invoiceCmd.AddCommand(invoiceDeleteCmd)

	rootCmd.AddCommand(invoiceCmd)
}
