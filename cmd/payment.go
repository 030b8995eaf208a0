package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/client"
	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/ledger"
)

var paymentCmd = &cobra.Command{
	Use:     "payment",
	Aliases: []string{"pay"},
	Short:   "Record payments and receipts",
}

var (
	payParty  string
	payAmount string
	payMode   string
	payDate   string
	payAllocs []string // format: "invoice_id:amount"
)

func runCreatePayment(payType string) error {
	c := client.New(flagServer, flagCompany)

	allocs := make([]map[string]any, 0, len(payAllocs))
	for _, a := range payAllocs {
		parts := strings.SplitN(a, ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid alloc format %q, expected invoice_id:amount", a)
		}
		allocs = append(allocs, map[string]any{
			"invoice_id":     parts[0],
			"applied_amount": parts[1],
		})
	}

	body := map[string]any{
		"type":     payType,
		"party_id": payParty,
		"amount":   payAmount,
	}
	if payMode != "" {
		body["mode"] = payMode
	}
	if payDate != "" {
		body["date"] = payDate + "T00:00:00Z"
	}
	if len(allocs) > 0 {
		body["allocations"] = allocs
	}

	p, err := c.CreatePayment(context.Background(), body)
	if err != nil {
		return err
	}

	fmt.Printf("Payment recorded: %s (%s)\n", p.Number, p.ID)
	fmt.Printf("Party:               %s\n", p.PartyName)
	fmt.Printf("Amount:              %s\n", ledger.FormatRupees(p.Amount))
	if alloc := p.AllocatedAmount(); alloc > 0 {
		fmt.Printf("Allocated:           %s across %d invoice(s)\n", ledger.FormatRupees(alloc), len(p.Allocs))
	} else {
		fmt.Println("Allocated:           none (advance/direct)")
	}
	fmt.Printf("Outstanding before:  %s\n", ledger.FormatRupees(p.OutstandingBefore))
	fmt.Printf("Outstanding after:   %s\n", ledger.FormatRupees(p.OutstandingAfter))
	return nil
}

var paymentReceiveCmd = &cobra.Command{
	Use:   "receive",
	Short: "Record money received from a party",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCreatePayment("receive")
	},
}

var paymentPayCmd = &cobra.Command{
	Use:   "pay",
	Short: "Record money paid to a party",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCreatePayment("pay")
	},
}

var (
	payListParty string
	payListType  string
)

var paymentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List payments",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer, flagCompany)

		payments, err := c.ListPayments(context.Background(), payListParty, payListType)
		if err != nil {
			return err
		}
		if len(payments) == 0 {
			fmt.Println("No payments found.")
			return nil
		}

		fmt.Printf("%-8s %-8s %-12s %-26s %14s %14s %s\n", "NUMBER", "TYPE", "DATE", "PARTY", "AMOUNT", "ALLOCATED", "MODE")
		for _, p := range payments {
			name := p.PartyName
			if len(name) > 24 {
				name = name[:24] + ".."
			}
			fmt.Printf("%-8s %-8s %-12s %-26s %14s %14s %s\n",
				p.Number, p.Type, p.Date.Format("2006-01-02"), name,
				ledger.FormatRupees(p.Amount), ledger.FormatRupees(p.AllocatedAmount()), p.Mode)
		}
		return nil
	},
}

// txn manages the manual income/expense book.
var txnCmd = &cobra.Command{
	Use:   "txn",
	Short: "Record income, expense and other non-party transactions",
}

var (
	txnKind   string
	txnAmount string
	txnFrom   string
	txnTo     string
	txnNote   string
	txnDate   string
)

var txnAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a transaction",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer, flagCompany)

		body := map[string]any{
			"kind":   txnKind,
			"amount": txnAmount,
		}
		if txnFrom != "" {
			body["from_id"] = txnFrom
		}
		if txnTo != "" {
			body["to_id"] = txnTo
		}
		if txnNote != "" {
			body["note"] = txnNote
		}
		if txnDate != "" {
			body["date"] = txnDate + "T00:00:00Z"
		}

		txn, err := c.CreateOtherTxn(context.Background(), body)
		if err != nil {
			return err
		}
		fmt.Printf("Transaction recorded: %s (%s, %s)\n", txn.ID, txn.Kind, ledger.FormatRupees(txn.Amount))
		return nil
	},
}

var txnListKind string

var txnListCmd = &cobra.Command{
	Use:   "list",
	Short: "List transactions",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer, flagCompany)

		txns, err := c.ListOtherTxns(context.Background(), txnListKind)
		if err != nil {
			return err
		}
		if len(txns) == 0 {
			fmt.Println("No transactions found.")
			return nil
		}

		fmt.Printf("%-10s %-12s %14s %-30s\n", "KIND", "DATE", "AMOUNT", "NOTE")
		for _, t := range txns {
			fmt.Printf("%-10s %-12s %14s %-30s\n",
				t.Kind, t.Date.Format("2006-01-02"), ledger.FormatRupees(t.Amount), t.Note)
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{paymentReceiveCmd, paymentPayCmd} {
		c.Flags().StringVar(&payParty, "party", "", "Party ID")
		c.Flags().StringVar(&payAmount, "amount", "", "Amount in rupees (e.g. 1000.00)")
		c.Flags().StringVar(&payMode, "mode", "cash", "Payment mode (cash, bank, upi)")
		c.Flags().StringVar(&payDate, "date", "", "Date (YYYY-MM-DD, default today)")
		c.Flags().StringSliceVar(&payAllocs, "alloc", nil, "Allocation in format invoice_id:amount (can be repeated)")
		c.MarkFlagRequired("party")
		c.MarkFlagRequired("amount")
	}

	paymentListCmd.Flags().StringVar(&payListParty, "party", "", "Filter by party ID")
	paymentListCmd.Flags().StringVar(&payListType, "type", "", "Filter by type (receive or pay)")

	paymentCmd.AddCommand(paymentReceiveCmd)
	paymentCmd.AddCommand(paymentPayCmd)
	paymentCmd.AddCommand(paymentListCmd)
	rootCmd.AddCommand(paymentCmd)

	txnAddCmd.Flags().StringVar(&txnKind, "kind", "", "Kind (income, expense, transfer, capital, drawings, contra)")
	txnAddCmd.Flags().StringVar(&txnAmount, "amount", "", "Amount in rupees")
	txnAddCmd.Flags().StringVar(&txnFrom, "from", "", "Source account/party ID")
	txnAddCmd.Flags().StringVar(&txnTo, "to", "", "Destination account/party ID")
	txnAddCmd.Flags().StringVar(&txnNote, "note", "", "Free-form note")
	txnAddCmd.Flags().StringVar(&txnDate, "date", "", "Date (YYYY-MM-DD, default today)")
	txnAddCmd.MarkFlagRequired("kind")
	txnAddCmd.MarkFlagRequired("amount")

	txnListCmd.Flags().StringVar(&txnListKind, "kind", "", "Filter by kind")

	txnCmd.AddCommand(txnAddCmd)
	txnCmd.AddCommand(txnListCmd)
	rootCmd.AddCommand(txnCmd)
}
