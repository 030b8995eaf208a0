package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/client"
	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/ledger"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger [party-id]",
	Short: "Show a party's ledger with running balance and reconciliation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer, flagCompany)

		report, err := c.PartyLedger(context.Background(), args[0])
		if err != nil {
			return err
		}

		l := report.Ledger
		fmt.Printf("Ledger: %s\n", l.PartyName)
		fmt.Printf("Opening balance: %s\n\n", ledger.FormatRupees(l.OpeningBalance))
		fmt.Printf("%-12s %-10s %-10s %14s %14s %14s\n", "DATE", "REF", "KIND", "DEBIT", "CREDIT", "BALANCE")
		for _, row := range l.Rows {
			fmt.Printf("%-12s %-10s %-10s %14s %14s %14s\n",
				row.Date.Format("2006-01-02"), row.Ref, row.Kind,
				ledger.FormatRupees(row.Debit), ledger.FormatRupees(row.Credit),
				ledger.FormatRupees(row.Balance))
		}
		fmt.Printf("\nFinal balance: %s\n", ledger.FormatRupees(l.FinalBalance))

		out := report.Outstanding
		fmt.Printf("\nOutstanding: %s (dues %s, unallocated %s)\n",
			ledger.FormatRupees(out.CurrentBalance),
			ledger.FormatRupees(out.InvoiceDues),
			ledger.FormatRupees(out.Unallocated))
		printWarnings(l.Warnings)
		return nil
	},
}

var outstandingRole string

var outstandingCmd = &cobra.Command{
	Use:   "outstanding",
	Short: "Show current balances for every party",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer, flagCompany)

		results, err := c.Outstanding(context.Background(), outstandingRole)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Println("No parties found.")
			return nil
		}

		fmt.Printf("%-26s %14s %14s %14s %14s\n", "PARTY", "BILLED", "RECEIVED", "UNALLOCATED", "BALANCE")
		var total int64
		for _, o := range results {
			name := o.Name
			if len(name) > 24 {
				name = name[:24] + ".."
			}
			fmt.Printf("%-26s %14s %14s %14s %14s\n",
				name, ledger.FormatRupees(o.Billed), ledger.FormatRupees(o.TotalReceived),
				ledger.FormatRupees(o.Unallocated), ledger.FormatRupees(o.CurrentBalance))
			total += o.CurrentBalance
		}
		fmt.Printf("%-26s %14s %14s %14s %14s\n", "TOTAL", "", "", "", ledger.FormatRupees(total))
		return nil
	},
}

var pnlCmd = &cobra.Command{
	Use:   "pnl",
	Short: "Show the profit and loss statement",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer, flagCompany)

		pl, err := c.ProfitAndLoss(context.Background())
		if err != nil {
			return err
		}

		rule := strings.Repeat("-", 38)
		fmt.Printf("%-22s %15s\n", "Opening balance", ledger.FormatRupees(pl.OpeningBalance))
		fmt.Printf("%-22s %15s\n", "Sales", ledger.FormatRupees(pl.Sales))
		fmt.Printf("%-22s %15s\n", "Purchase", ledger.FormatRupees(pl.Purchase))
		fmt.Println(rule)
		fmt.Printf("%-22s %15s\n", "Gross profit", ledger.FormatRupees(pl.GrossProfit))
		fmt.Printf("%-22s %15s\n", "Other income", ledger.FormatRupees(pl.OtherIncome))
		fmt.Printf("%-22s %15s\n", "Other expense", ledger.FormatRupees(pl.OtherExpense))
		fmt.Println(rule)
		fmt.Printf("%-22s %15s\n", "Net profit", ledger.FormatRupees(pl.NetProfit))
		return nil
	},
}

var cashbookCmd = &cobra.Command{
	Use:   "cashbook",
	Short: "Show the cashbook: every cash inflow and outflow",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer, flagCompany)

		cb, err := c.Cashbook(context.Background())
		if err != nil {
			return err
		}
		if len(cb.Rows) == 0 {
			fmt.Println("No cash movements recorded.")
			return nil
		}

		fmt.Printf("%-12s %-36s %-10s %14s %14s\n", "DATE", "REF", "KIND", "IN", "OUT")
		for _, row := range cb.Rows {
			fmt.Printf("%-12s %-36s %-10s %14s %14s\n",
				row.Date.Format("2006-01-02"), row.Ref, row.Kind,
				ledger.FormatRupees(row.In), ledger.FormatRupees(row.Out))
		}
		fmt.Printf("\nTotal in:  %s\nTotal out: %s\nNet:       %s\n",
			ledger.FormatRupees(cb.TotalIn), ledger.FormatRupees(cb.TotalOut), ledger.FormatRupees(cb.Net))
		return nil
	},
}

func init() {
	outstandingCmd.Flags().StringVar(&outstandingRole, "role", "", "Filter by party role (customer, supplier)")

	rootCmd.AddCommand(ledgerCmd)
	rootCmd.AddCommand(outstandingCmd)
	rootCmd.AddCommand(pnlCmd)
	rootCmd.AddCommand(cashbookCmd)
}
