package ledger

import "time"

// EntryKind identifies the source document of a derived ledger entry.
type EntryKind string

const (
	EntrySale     EntryKind = "sale"
	EntryPurchase EntryKind = "purchase"
	EntryReceipt  EntryKind = "receipt"
	EntryPayment  EntryKind = "payment"
)

// LedgerEntry is a derived debit/credit row. It is produced transiently
// for a single party/time-window query and never persisted, so every
// report is recomputed from current source documents.
type LedgerEntry struct {
	Date   time.Time `json:"date"`
	Ref    string    `json:"ref"`
	Kind   EntryKind `json:"kind"`
	Debit  int64     `json:"debit"`
	Credit int64     `json:"credit"`
	Cash   bool      `json:"cash"`
}

// NormalizeParty maps a party's invoices and payments to uniform ledger
// entries. Output order is arbitrary; the running balance calculator
// owns ordering. Documents referencing the wrong party are skipped with
// a warning so historical reports still render. OtherTxn records are out
// of scope here on purpose: they belong to P&L aggregation.
func NormalizeParty(partyID string, invoices []Invoice, payments []Payment) ([]LedgerEntry, []Warning) {
	entries := make([]LedgerEntry, 0, len(invoices)+len(payments))
	var warnings []Warning

	for i := range invoices {
		inv := &invoices[i]
		if inv.PartyID != partyID {
			warnings = append(warnings, warnf(WarnMissingParty, inv.Number,
				"invoice belongs to party %s, expected %s", inv.PartyID, partyID))
			continue
		}
		e, ok := entryFromInvoice(inv)
		if !ok {
			warnings = append(warnings, warnf(WarnMissingParty, inv.Number,
				"invoice has unknown type %q", inv.Type))
			continue
		}
		entries = append(entries, e)
	}

	for i := range payments {
		p := &payments[i]
		if p.PartyID != partyID {
			warnings = append(warnings, warnf(WarnMissingParty, p.Number,
				"payment belongs to party %s, expected %s", p.PartyID, partyID))
			continue
		}
		e, ok := entryFromPayment(p)
		if !ok {
			warnings = append(warnings, warnf(WarnMissingParty, p.Number,
				"payment has unknown type %q", p.Type))
			continue
		}
		entries = append(entries, e)
	}

	return entries, warnings
}

// NormalizeAll maps documents from every party, for company-wide views
// like the cashbook where per-party filtering does not apply. Unknown
// document types are silently dropped.
func NormalizeAll(invoices []Invoice, payments []Payment) []LedgerEntry {
	entries := make([]LedgerEntry, 0, len(invoices)+len(payments))
	for i := range invoices {
		if e, ok := entryFromInvoice(&invoices[i]); ok {
			entries = append(entries, e)
		}
	}
	for i := range payments {
		if e, ok := entryFromPayment(&payments[i]); ok {
			entries = append(entries, e)
		}
	}
	return entries
}

func entryFromInvoice(inv *Invoice) (LedgerEntry, bool) {
	e := LedgerEntry{
		Date: inv.Date,
		Ref:  inv.Number,
		Cash: inv.IsCash(),
	}
	switch inv.Type {
	case InvoiceSales:
		e.Kind = EntrySale
		e.Debit = inv.GrandTotal
	case InvoicePurchase:
		e.Kind = EntryPurchase
		e.Credit = inv.GrandTotal
	default:
		return LedgerEntry{}, false
	}
	return e, true
}

func entryFromPayment(p *Payment) (LedgerEntry, bool) {
	e := LedgerEntry{
		Date: p.Date,
		Ref:  p.Number,
		Cash: p.IsCash(),
	}
	switch p.Type {
	case PaymentReceive:
		e.Kind = EntryReceipt
		e.Credit = p.Amount
	case PaymentPay:
		e.Kind = EntryPayment
		e.Debit = p.Amount
	default:
		return LedgerEntry{}, false
	}
	return e, true
}
