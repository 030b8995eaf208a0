package ledger

import "time"

type PaymentType string

const (
	PaymentReceive PaymentType = "receive"
	PaymentPay     PaymentType = "pay"
)

// Allocation ties part of a payment to a specific invoice. A payment with
// no allocations is an advance/direct payment; the reconciliation engine
// treats those two cases very differently.
type Allocation struct {
	InvoiceID     string `json:"invoice_id"`
	AppliedAmount int64  `json:"applied_amount"`
}

type Payment struct {
	ID        string       `json:"id"`
	CompanyID string       `json:"company_id"`
	Number    string       `json:"number"`
	Type      PaymentType  `json:"type"`
	PartyID   string       `json:"party_id"`
	PartyName string       `json:"party_name,omitempty"`
	Amount    int64        `json:"amount"`
	Mode      PaymentMode  `json:"mode"`
	Date      time.Time    `json:"date"`
	Allocs    []Allocation `json:"allocations,omitempty"`

	// Snapshots taken when the payment was posted. Deliberately never
	// re-derived: they record what the operator saw at the time.
	OutstandingBefore int64 `json:"outstanding_before"`
	OutstandingAfter  int64 `json:"outstanding_after"`

	CreatedAt time.Time `json:"created_at,omitempty"`
}

// AllocatedAmount is the portion of the payment tied to invoices.
func (p *Payment) AllocatedAmount() int64 {
	var sum int64
	for _, a := range p.Allocs {
		sum += a.AppliedAmount
	}
	return sum
}

// IsUnallocated reports whether the payment is an advance/direct payment
// not tied to any invoice.
func (p *Payment) IsUnallocated() bool {
	return len(p.Allocs) == 0
}

func (p *Payment) IsCash() bool {
	return p.Mode == ModeCash
}

func (p *Payment) Validate() error {
	if p.Type != PaymentReceive && p.Type != PaymentPay {
		return ErrInvalidPaymentType
	}
	if p.AllocatedAmount() > p.Amount {
		return ErrOverAllocated
	}
	return nil
}
