package ledger

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"time"
)

// Metric selects what the dashboard drill-down measures.
type Metric string

const (
	MetricSales      Metric = "sales"
	MetricPurchase   Metric = "purchase"
	MetricProfit     Metric = "profit"
	MetricReceivable Metric = "receivable"
	MetricPayable    Metric = "payable"
)

func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricSales, MetricPurchase, MetricProfit, MetricReceivable, MetricPayable:
		return Metric(s), nil
	}
	return "", ErrUnknownMetric
}

// YearRow is one calendar year's bucket.
type YearRow struct {
	Year  int   `json:"year"`
	Total int64 `json:"total"`
	Due   int64 `json:"due"`
	Paid  int64 `json:"paid"`
	Count int   `json:"count"`
}

// MonthRow is one month's bucket within a year.
type MonthRow struct {
	Year  int   `json:"year"`
	Month int   `json:"month"`
	Total int64 `json:"total"`
	Due   int64 `json:"due"`
	Paid  int64 `json:"paid"`
	Count int   `json:"count"`
}

// TxnRow is a raw line at the transactions level.
type TxnRow struct {
	Date      time.Time   `json:"date"`
	Ref       string      `json:"ref"`
	Type      InvoiceType `json:"type"`
	PartyID   string      `json:"party_id"`
	PartyName string      `json:"party_name,omitempty"`
	Mode      PaymentMode `json:"mode"`
	Amount    int64       `json:"amount"`
	Due       int64       `json:"due"`
	Paid      int64       `json:"paid"`
}

// TxnSummary totals the transaction-level rows.
type TxnSummary struct {
	TotalAmount       int64 `json:"total_amount"`
	TotalDue          int64 `json:"total_due"`
	TotalTransactions int   `json:"total_transactions"`
}

// PartyTotal is the party-wise breakdown at the transactions level.
type PartyTotal struct {
	PartyID string `json:"party_id"`
	Name    string `json:"name,omitempty"`
	Total   int64  `json:"total"`
	Count   int    `json:"count"`
}

// contribution returns an invoice's (amount, due, paid) under a metric
// and whether the invoice is included at all. profit contributes sales
// positively and purchases negatively; it is derived, never stored.
// The same function drives every level, which is what guarantees that a
// year's total equals the sum of its months and a month's total equals
// the sum of its transactions.
func contribution(inv *Invoice, metric Metric) (amount, due, paid int64, ok bool) {
	switch metric {
	case MetricSales:
		if inv.Type != InvoiceSales {
			return 0, 0, 0, false
		}
		return inv.GrandTotal, inv.Due(), inv.PaidAmount, true
	case MetricPurchase:
		if inv.Type != InvoicePurchase {
			return 0, 0, 0, false
		}
		return inv.GrandTotal, inv.Due(), inv.PaidAmount, true
	case MetricProfit:
		if inv.Type == InvoicePurchase {
			return -inv.GrandTotal, -inv.Due(), -inv.PaidAmount, true
		}
		return inv.GrandTotal, inv.Due(), inv.PaidAmount, true
	case MetricReceivable:
		if inv.Type != InvoiceSales {
			return 0, 0, 0, false
		}
		return inv.Due(), inv.Due(), inv.PaidAmount, true
	case MetricPayable:
		if inv.Type != InvoicePurchase {
			return 0, 0, 0, false
		}
		return inv.Due(), inv.Due(), inv.PaidAmount, true
	}
	return 0, 0, 0, false
}

// AggregateYears buckets invoices into one row per calendar year.
func AggregateYears(invoices []Invoice, metric Metric) []YearRow {
	buckets := map[int]*YearRow{}
	for i := range invoices {
		amount, due, paid, ok := contribution(&invoices[i], metric)
		if !ok {
			continue
		}
		y := invoices[i].Date.Year()
		row, found := buckets[y]
		if !found {
			row = &YearRow{Year: y}
			buckets[y] = row
		}
		row.Total += amount
		row.Due += due
		row.Paid += paid
		row.Count++
	}

	rows := make([]YearRow, 0, len(buckets))
	for _, r := range buckets {
		rows = append(rows, *r)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Year > rows[j].Year })
	return rows
}

// AggregateMonths buckets one year's invoices into per-month rows.
func AggregateMonths(invoices []Invoice, metric Metric, year int) []MonthRow {
	buckets := map[int]*MonthRow{}
	for i := range invoices {
		if invoices[i].Date.Year() != year {
			continue
		}
		amount, due, paid, ok := contribution(&invoices[i], metric)
		if !ok {
			continue
		}
		m := int(invoices[i].Date.Month())
		row, found := buckets[m]
		if !found {
			row = &MonthRow{Year: year, Month: m}
			buckets[m] = row
		}
		row.Total += amount
		row.Due += due
		row.Paid += paid
		row.Count++
	}

	rows := make([]MonthRow, 0, len(buckets))
	for _, r := range buckets {
		rows = append(rows, *r)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Month < rows[j].Month })
	return rows
}

// AggregateTransactions returns the raw rows of one month plus a summary
// and a party-wise breakdown.
func AggregateTransactions(invoices []Invoice, metric Metric, year int, month int) ([]TxnRow, TxnSummary, []PartyTotal) {
	var rows []TxnRow
	var summary TxnSummary
	parties := map[string]*PartyTotal{}

	for i := range invoices {
		inv := &invoices[i]
		if inv.Date.Year() != year || int(inv.Date.Month()) != month {
			continue
		}
		amount, due, paid, ok := contribution(inv, metric)
		if !ok {
			continue
		}
		rows = append(rows, TxnRow{
			Date:      inv.Date,
			Ref:       inv.Number,
			Type:      inv.Type,
			PartyID:   inv.PartyID,
			PartyName: inv.PartyName,
			Mode:      inv.PaymentMode,
			Amount:    amount,
			Due:       due,
			Paid:      paid,
		})
		summary.TotalAmount += amount
		summary.TotalDue += due
		summary.TotalTransactions++

		pt, found := parties[inv.PartyID]
		if !found {
			pt = &PartyTotal{PartyID: inv.PartyID, Name: inv.PartyName}
			parties[inv.PartyID] = pt
		}
		pt.Total += amount
		pt.Count++
	}

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		return rows[i].Ref < rows[j].Ref
	})

	breakdown := make([]PartyTotal, 0, len(parties))
	for _, pt := range parties {
		breakdown = append(breakdown, *pt)
	}
	sort.Slice(breakdown, func(i, j int) bool { return breakdown[i].Total > breakdown[j].Total })

	return rows, summary, breakdown
}

// CSV export serializes whichever level's rows are currently displayed;
// there is no independent computation behind it.

func WriteYearCSV(w io.Writer, rows []YearRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"year", "total", "due", "paid", "count"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.Year),
			FormatRupees(r.Total),
			FormatRupees(r.Due),
			FormatRupees(r.Paid),
			strconv.Itoa(r.Count),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteMonthCSV(w io.Writer, rows []MonthRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"year", "month", "total", "due", "paid", "count"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.Year),
			strconv.Itoa(r.Month),
			FormatRupees(r.Total),
			FormatRupees(r.Due),
			FormatRupees(r.Paid),
			strconv.Itoa(r.Count),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteTxnCSV(w io.Writer, rows []TxnRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "ref", "type", "party", "mode", "amount", "due", "paid"}); err != nil {
		return err
	}
	for _, r := range rows {
		name := r.PartyName
		if name == "" {
			name = r.PartyID
		}
		rec := []string{
			r.Date.Format("2006-01-02"),
			r.Ref,
			string(r.Type),
			name,
			string(r.Mode),
			FormatRupees(r.Amount),
			FormatRupees(r.Due),
			FormatRupees(r.Paid),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
