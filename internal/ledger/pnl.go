package ledger

import (
	"sort"
	"time"
)

// ProfitLoss is the P&L record consumed by the report layer.
// OpeningBalance is the signed opening position of the system accounts
// (cash/bank/upi), supplied by the caller alongside the documents.
type ProfitLoss struct {
	Sales          int64 `json:"sales"`
	Purchase       int64 `json:"purchase"`
	OtherIncome    int64 `json:"other_income"`
	OtherExpense   int64 `json:"other_expense"`
	GrossProfit    int64 `json:"gross_profit"`
	NetProfit      int64 `json:"net_profit"`
	OpeningBalance int64 `json:"opening_balance"`
}

// ProfitAndLoss derives the P&L from invoices and manual transactions.
// Transfer, contra, capital and drawings move money between accounts and
// stay out of profit.
func ProfitAndLoss(invoices []Invoice, txns []OtherTxn, opening int64) ProfitLoss {
	pl := ProfitLoss{OpeningBalance: opening}
	for i := range invoices {
		switch invoices[i].Type {
		case InvoiceSales:
			pl.Sales += invoices[i].GrandTotal
		case InvoicePurchase:
			pl.Purchase += invoices[i].GrandTotal
		}
	}
	for i := range txns {
		switch txns[i].Kind {
		case KindIncome:
			pl.OtherIncome += txns[i].Amount
		case KindExpense:
			pl.OtherExpense += txns[i].Amount
		}
	}
	pl.GrossProfit = pl.Sales - pl.Purchase
	pl.NetProfit = pl.GrossProfit + pl.OtherIncome - pl.OtherExpense
	return pl
}

// CashbookRow is one cash movement: an inflow or outflow through the
// cash drawer.
type CashbookRow struct {
	Date time.Time `json:"date"`
	Ref  string    `json:"ref"`
	Kind string    `json:"kind"`
	In   int64     `json:"in"`
	Out  int64     `json:"out"`
}

// CashbookResult is the cashbook view over a period.
type CashbookResult struct {
	Rows     []CashbookRow `json:"rows"`
	TotalIn  int64         `json:"total_in"`
	TotalOut int64         `json:"total_out"`
	Net      int64         `json:"net"`
}

// Cashbook builds the cash view from cash-flagged ledger entries plus
// manual transactions that touch a cash account. cashAccountIDs are the
// parties carrying the cash role.
func Cashbook(entries []LedgerEntry, txns []OtherTxn, cashAccountIDs map[string]bool) CashbookResult {
	var cb CashbookResult

	for _, e := range entries {
		if !e.Cash {
			continue
		}
		row := CashbookRow{Date: e.Date, Ref: e.Ref, Kind: string(e.Kind)}
		switch e.Kind {
		case EntrySale, EntryReceipt:
			row.In = valueOf(e)
		case EntryPurchase, EntryPayment:
			row.Out = valueOf(e)
		}
		cb.Rows = append(cb.Rows, row)
	}

	for i := range txns {
		t := &txns[i]
		row := CashbookRow{Date: t.Date, Ref: t.ID, Kind: string(t.Kind)}
		switch {
		case cashAccountIDs[t.ToID] && cashAccountIDs[t.FromID]:
			continue // cash-to-cash is a wash
		case cashAccountIDs[t.ToID]:
			row.In = t.Amount
		case cashAccountIDs[t.FromID]:
			row.Out = t.Amount
		default:
			continue
		}
		cb.Rows = append(cb.Rows, row)
	}

	sort.SliceStable(cb.Rows, func(i, j int) bool {
		return cb.Rows[i].Date.Before(cb.Rows[j].Date)
	})

	for _, r := range cb.Rows {
		cb.TotalIn += r.In
		cb.TotalOut += r.Out
	}
	cb.Net = cb.TotalIn - cb.TotalOut
	return cb
}

func valueOf(e LedgerEntry) int64 {
	if e.Debit != 0 {
		return e.Debit
	}
	return e.Credit
}
