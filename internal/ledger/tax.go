package ledger

type TaxType string

const (
	TaxCGSTSGST TaxType = "CGST_SGST"
	TaxIGST     TaxType = "IGST"
)

// LineTax is the tax split calculator's output for a single invoice line.
type LineTax struct {
	Taxable int64 `json:"taxable"`
	CGST    int64 `json:"cgst"`
	SGST    int64 `json:"sgst"`
	IGST    int64 `json:"igst"`
}

// GST returns the line's total GST amount.
func (lt LineTax) GST() int64 {
	return lt.CGST + lt.SGST + lt.IGST
}

// Total returns taxable value plus GST for the line.
func (lt LineTax) Total() int64 {
	return lt.Taxable + lt.GST()
}

// ComputeLineTax derives the taxable value and GST split for one line.
// Carting is merged into the taxable base before tax. Missing rate or
// taxPercent are zero values and simply contribute zero; quantity
// validation happens before this package is reached.
func ComputeLineTax(line InvoiceLine) LineTax {
	base := mulQty(line.Rate, line.Qty)
	discount := applyPercent(base, line.DiscountPercent)
	taxable := base - discount + line.CartingAmount

	gst := applyPercent(taxable, line.TaxPercent)

	lt := LineTax{Taxable: taxable}
	if line.TaxType == TaxIGST {
		lt.IGST = gst
	} else {
		// Even split; CGST carries the odd paisa so the halves always
		// sum back to gst exactly.
		lt.SGST = gst / 2
		lt.CGST = gst - lt.SGST
	}
	return lt
}

// TaxOverride is the invoice-level manual GST entry. When present it
// replaces the computed per-line totals wholesale; the per-line amounts
// stay untouched for audit.
type TaxOverride struct {
	Amount int64   `json:"amount"`
	Mode   TaxType `json:"mode"`
}

// TaxTotals is the single resolved view of an invoice's tax. Exactly one
// of {CGST+SGST, IGST} is non-zero.
type TaxTotals struct {
	CGST int64 `json:"cgst"`
	SGST int64 `json:"sgst"`
	IGST int64 `json:"igst"`
}

func (t TaxTotals) Total() int64 {
	return t.CGST + t.SGST + t.IGST
}

// TaxResult holds the two competing computations of an invoice's tax:
// the per-line computed totals and, optionally, the operator override.
// Call sites never read the fields directly; Resolve picks the winner.
type TaxResult struct {
	Subtotal   int64
	computed   TaxTotals
	overridden *TaxOverride
}

// Overridden reports whether the manual override is active.
func (r TaxResult) Overridden() bool {
	return r.overridden != nil
}

// Computed exposes the per-line computed totals for audit display only.
func (r TaxResult) Computed() TaxTotals {
	return r.computed
}

// Resolve returns the totals every downstream consumer must use: the
// override when active, the computed split otherwise.
func (r TaxResult) Resolve() TaxTotals {
	if r.overridden == nil {
		return r.computed
	}
	if r.overridden.Mode == TaxIGST {
		return TaxTotals{IGST: r.overridden.Amount}
	}
	half := r.overridden.Amount / 2
	return TaxTotals{CGST: r.overridden.Amount - half, SGST: half}
}

// GrandTotal is subtotal + resolved tax + roundOff.
func (r TaxResult) GrandTotal(roundOff int64) int64 {
	return r.Subtotal + r.Resolve().Total() + roundOff
}

// ComputeInvoiceTax aggregates the per-line splits and records the
// override, if any. It also writes each line's taxable value back into
// line.Amount, which is what gets persisted.
func ComputeInvoiceTax(lines []InvoiceLine, override *TaxOverride) (TaxResult, []InvoiceLine) {
	out := make([]InvoiceLine, len(lines))
	copy(out, lines)

	var r TaxResult
	r.overridden = override
	for i := range out {
		lt := ComputeLineTax(out[i])
		out[i].Amount = lt.Taxable
		r.Subtotal += lt.Taxable
		r.computed.CGST += lt.CGST
		r.computed.SGST += lt.SGST
		r.computed.IGST += lt.IGST
	}
	return r, out
}

// ApplyTax fills an invoice's computed fields from its lines and
// override. The persistence layer calls this before every save.
func ApplyTax(inv *Invoice) {
	r, lines := ComputeInvoiceTax(inv.Lines, inv.Override)
	inv.Lines = lines
	inv.Subtotal = r.Subtotal
	totals := r.Resolve()
	inv.CGSTTotal = totals.CGST
	inv.SGSTTotal = totals.SGST
	inv.IGSTTotal = totals.IGST
	inv.GrandTotal = r.GrandTotal(inv.RoundOff)
}
