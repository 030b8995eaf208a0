package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/client"
	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/ledger"
)

var (
	dashMetric string
	dashYear   int
	dashMonth  int
	dashCSV    bool
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Drill-down business summary",
	Long: `Show the dashboard at one of three levels: all years (default),
the months of one year (--year), or the raw transactions of one month
(--year and --month). --csv emits the same rows as CSV.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer, flagCompany)
		ctx := context.Background()

		if dashCSV {
			data, err := c.DashboardCSV(ctx, dashMetric, dashYear, dashMonth)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		}

		resp, err := c.Dashboard(ctx, dashMetric, dashYear, dashMonth)
		if err != nil {
			return err
		}

		switch resp.Level {
		case "years":
			fmt.Printf("Metric: %s\n\n", resp.Metric)
			fmt.Printf("%-6s %6s %16s %16s %16s\n", "YEAR", "COUNT", "TOTAL", "PAID", "DUE")
			for _, r := range resp.YearRows {
				fmt.Printf("%-6d %6d %16s %16s %16s\n",
					r.Year, r.Count, ledger.FormatRupees(r.Total),
					ledger.FormatRupees(r.Paid), ledger.FormatRupees(r.Due))
			}
		case "months":
			fmt.Printf("Metric: %s, year %d\n\n", resp.Metric, resp.Year)
			fmt.Printf("%-10s %6s %16s %16s %16s\n", "MONTH", "COUNT", "TOTAL", "PAID", "DUE")
			for _, r := range resp.MonthRows {
				fmt.Printf("%-10s %6d %16s %16s %16s\n",
					time.Month(r.Month).String()[:3], r.Count, ledger.FormatRupees(r.Total),
					ledger.FormatRupees(r.Paid), ledger.FormatRupees(r.Due))
			}
		case "transactions":
			fmt.Printf("Metric: %s, %s %d\n\n", resp.Metric, time.Month(resp.Month), resp.Year)
			fmt.Printf("%-12s %-10s %-10s %-24s %16s %16s\n", "DATE", "REF", "TYPE", "PARTY", "AMOUNT", "DUE")
			for _, r := range resp.TxnRows {
				name := r.PartyName
				if len(name) > 22 {
					name = name[:22] + ".."
				}
				fmt.Printf("%-12s %-10s %-10s %-24s %16s %16s\n",
					r.Date.Format("2006-01-02"), r.Ref, r.Type, name,
					ledger.FormatRupees(r.Amount), ledger.FormatRupees(r.Due))
			}
			fmt.Printf("\n%d transaction(s), total %s, due %s\n",
				resp.Summary.TotalTransactions,
				ledger.FormatRupees(resp.Summary.TotalAmount),
				ledger.FormatRupees(resp.Summary.TotalDue))
			if len(resp.Breakdown) > 0 {
				fmt.Println("\nBy party:")
				for _, b := range resp.Breakdown {
					fmt.Printf("  %-26s %16s (%d)\n", b.Name, ledger.FormatRupees(b.Total), b.Count)
				}
			}
		}
		return nil
	},
}

func init() {
	dashboardCmd.Flags().StringVar(&dashMetric, "metric", "sales", "Metric (sales, purchase, profit, receivable, payable)")
	dashboardCmd.Flags().IntVar(&dashYear, "year", 0, "Drill into one year")
	dashboardCmd.Flags().IntVar(&dashMonth, "month", 0, "Drill into one month (requires --year)")
	dashboardCmd.Flags().BoolVar(&dashCSV, "csv", false, "Emit CSV instead of a table")

	rootCmd.AddCommand(dashboardCmd)
}
