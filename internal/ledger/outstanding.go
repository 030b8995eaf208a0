package ledger

// OutstandingResult is the reconciliation engine's view of a party: a
// single current-balance figure derived from invoice dues and unallocated
// payments, independent of the entry-by-entry ledger.
type OutstandingResult struct {
	PartyID        string `json:"party_id"`
	Name           string `json:"name"`
	Billed         int64  `json:"billed"`
	TotalReceived  int64  `json:"total_received"`
	InvoiceDues    int64  `json:"invoice_dues"`
	Unallocated    int64  `json:"unallocated"`
	CurrentBalance int64  `json:"current_balance"`
}

// Outstanding computes a party's current balance:
//
//	opening + Σ invoice dues − Σ unallocated payments of the matching type
//
// Only unallocated amounts are subtracted. Allocated payments are already
// reflected in each invoice's own due, so subtracting them again would
// double-count. That rule is the heart of this engine.
func Outstanding(party *Party, invoices []Invoice, payments []Payment) OutstandingResult {
	r := OutstandingResult{PartyID: party.ID, Name: party.Name}

	class := party.Class()
	naturalType := InvoiceSales
	matchingPayment := PaymentReceive
	if class == SupplierLike {
		naturalType = InvoicePurchase
		matchingPayment = PaymentPay
	}

	for _, inv := range invoices {
		if inv.PartyID != party.ID || inv.Type != naturalType {
			continue
		}
		r.Billed += inv.GrandTotal
		r.InvoiceDues += inv.Due()
	}

	for _, p := range payments {
		if p.PartyID != party.ID {
			continue
		}
		if p.Type == matchingPayment {
			r.TotalReceived += p.Amount
			if p.IsUnallocated() {
				r.Unallocated += p.Amount
			}
		}
	}

	r.CurrentBalance = party.OpeningAmount() + r.InvoiceDues - r.Unallocated
	return r
}

// CheckConsistency compares the running-balance view against the
// reconciliation view. The two derive the same economic fact and should
// converge for a party with fully-allocated payments; they may diverge by
// at most the unallocated amount. Anything beyond that is a data-quality
// condition surfaced as a warning, never a failure; historical data may
// predate stricter invariants.
func CheckConsistency(runningFinal int64, r OutstandingResult) *Warning {
	diff := runningFinal - r.CurrentBalance
	if diff < 0 {
		diff = -diff
	}
	allowed := r.Unallocated
	if allowed < 0 {
		allowed = -allowed
	}
	if diff <= allowed {
		return nil
	}
	w := warnf(WarnReconDiverged, r.PartyID,
		"running balance %s and outstanding %s diverge beyond unallocated %s",
		FormatRupees(runningFinal), FormatRupees(r.CurrentBalance), FormatRupees(r.Unallocated))
	return &w
}
