package ledger

import "sort"

// BalanceRow is one line of the ledger preview table: the normalized
// entry plus the running balance after it.
type BalanceRow struct {
	LedgerEntry
	Balance int64 `json:"balance"`
}

// LedgerResult is the full ledger view for a party.
type LedgerResult struct {
	PartyID        string       `json:"party_id"`
	PartyName      string       `json:"party_name,omitempty"`
	OpeningBalance int64        `json:"opening_balance"`
	Rows           []BalanceRow `json:"rows"`
	FinalBalance   int64        `json:"final_balance"`
	Warnings       []Warning    `json:"warnings,omitempty"`
}

func entryKindOrder(k EntryKind) int {
	// Invoices sort before payments on the same date; the source left
	// this tie-break unspecified, so it is fixed here to keep the
	// preview reproducible.
	switch k {
	case EntrySale, EntryPurchase:
		return 0
	default:
		return 1
	}
}

// SortEntries orders ledger entries chronologically. Same-date ties:
// invoice before payment, then Ref ascending.
func SortEntries(entries []LedgerEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		oi, oj := entryKindOrder(entries[i].Kind), entryKindOrder(entries[j].Kind)
		if oi != oj {
			return oi < oj
		}
		return entries[i].Ref < entries[j].Ref
	})
}

// RunningBalance seeds the opening balance and accumulates each entry's
// signed effect. Customer-like parties: balance += debit - credit;
// supplier-like: balance += credit - debit. The final balance equals
// opening plus the net algebraic effect of every entry, exactly.
func RunningBalance(entries []LedgerEntry, opening int64, class PartyClass) ([]BalanceRow, int64) {
	sorted := make([]LedgerEntry, len(entries))
	copy(sorted, entries)
	SortEntries(sorted)

	balance := opening
	rows := make([]BalanceRow, 0, len(sorted))
	for _, e := range sorted {
		if class == SupplierLike {
			balance += e.Credit - e.Debit
		} else {
			balance += e.Debit - e.Credit
		}
		rows = append(rows, BalanceRow{LedgerEntry: e, Balance: balance})
	}
	return rows, balance
}

// PartyLedger runs the normalizer and the running balance calculator in
// one step, producing the ledger preview for a party.
func PartyLedger(party *Party, invoices []Invoice, payments []Payment) (*LedgerResult, error) {
	if party.Class() == SystemAccount {
		return nil, ErrSystemAccountLedger
	}

	entries, warnings := NormalizeParty(party.ID, invoices, payments)
	rows, final := RunningBalance(entries, party.OpeningAmount(), party.Class())

	return &LedgerResult{
		PartyID:        party.ID,
		PartyName:      party.Name,
		OpeningBalance: party.OpeningAmount(),
		Rows:           rows,
		FinalBalance:   final,
		Warnings:       warnings,
	}, nil
}
