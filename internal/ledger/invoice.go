package ledger

import "time"

type InvoiceType string

const (
	InvoiceSales    InvoiceType = "SALES"
	InvoicePurchase InvoiceType = "PURCHASE"
)

type PaymentMode string

const (
	ModeCash   PaymentMode = "cash"
	ModeCredit PaymentMode = "credit"
	ModeBank   PaymentMode = "bank"
	ModeUPI    PaymentMode = "upi"
)

// InvoiceLine is one row of an invoice. Amount is the taxable value
// (after discount and carting, before GST), computed by the tax split
// calculator at save time and retained for audit even when the invoice
// carries a manual tax override.
type InvoiceLine struct {
	ItemID          string  `json:"item_id"`
	ItemName        string  `json:"item_name,omitempty"`
	Qty             float64 `json:"qty"`
	Rate            int64   `json:"rate"`
	DiscountPercent float64 `json:"discount_percent,omitempty"`
	TaxPercent      float64 `json:"tax_percent,omitempty"`
	TaxType         TaxType `json:"tax_type"`
	CartingAmount   int64   `json:"carting_amount,omitempty"`
	Amount          int64   `json:"amount"`
}

type Invoice struct {
	ID          string        `json:"id"`
	CompanyID   string        `json:"company_id"`
	Number      string        `json:"number"`
	Type        InvoiceType   `json:"type"`
	PartyID     string        `json:"party_id"`
	PartyName   string        `json:"party_name,omitempty"`
	Date        time.Time     `json:"date"`
	Lines       []InvoiceLine `json:"lines"`
	Subtotal    int64         `json:"subtotal"`
	CGSTTotal   int64         `json:"cgst_total"`
	SGSTTotal   int64         `json:"sgst_total"`
	IGSTTotal   int64         `json:"igst_total"`
	RoundOff    int64         `json:"round_off,omitempty"`
	GrandTotal  int64         `json:"grand_total"`
	PaidAmount  int64         `json:"paid_amount"`
	DueAmount   *int64        `json:"due_amount,omitempty"`
	PaymentMode PaymentMode   `json:"payment_mode"`
	Override    *TaxOverride  `json:"tax_override,omitempty"`
	CreatedAt   time.Time     `json:"created_at,omitempty"`
}

// Due returns the invoice's outstanding amount: the recorded dueAmount
// when present, else max(0, grandTotal - paidAmount).
func (inv *Invoice) Due() int64 {
	if inv.DueAmount != nil {
		return *inv.DueAmount
	}
	due := inv.GrandTotal - inv.PaidAmount
	if due < 0 {
		return 0
	}
	return due
}

func (inv *Invoice) IsCash() bool {
	return inv.PaymentMode == ModeCash
}

func (inv *Invoice) Validate() error {
	if inv.Type != InvoiceSales && inv.Type != InvoicePurchase {
		return ErrInvalidInvoiceType
	}
	if len(inv.Lines) == 0 {
		return ErrNoInvoiceLines
	}
	for _, l := range inv.Lines {
		if l.TaxType != TaxCGSTSGST && l.TaxType != TaxIGST {
			return ErrInvalidTaxType
		}
	}
	if inv.Override != nil {
		if inv.Override.Mode != TaxCGSTSGST && inv.Override.Mode != TaxIGST {
			return ErrInvalidTaxType
		}
	}
	return nil
}
