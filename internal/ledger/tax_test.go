package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeLineTax(t *testing.T) {
	tests := []struct {
		name string
		line InvoiceLine
		want LineTax
	}{
		{
			name: "intra-state split",
			line: InvoiceLine{Qty: 10, Rate: 40000, TaxPercent: 18, TaxType: TaxCGSTSGST},
			want: LineTax{Taxable: 400000, CGST: 36000, SGST: 36000},
		},
		{
			name: "inter-state",
			line: InvoiceLine{Qty: 10, Rate: 40000, TaxPercent: 18, TaxType: TaxIGST},
			want: LineTax{Taxable: 400000, IGST: 72000},
		},
		{
			name: "discount before tax",
			line: InvoiceLine{Qty: 2, Rate: 50000, DiscountPercent: 10, TaxPercent: 5, TaxType: TaxCGSTSGST},
			// base 1000.00, discount 100.00, taxable 900.00, gst 45.00
			want: LineTax{Taxable: 90000, CGST: 2250, SGST: 2250},
		},
		{
			name: "carting added to taxable base",
			line: InvoiceLine{Qty: 1, Rate: 100000, CartingAmount: 5000, TaxPercent: 12, TaxType: TaxCGSTSGST},
			want: LineTax{Taxable: 105000, CGST: 6300, SGST: 6300},
		},
		{
			name: "odd paise goes to CGST",
			line: InvoiceLine{Qty: 1, Rate: 1500, TaxPercent: 5, TaxType: TaxCGSTSGST},
			// gst = 75 paise; split 38/37
			want: LineTax{Taxable: 1500, CGST: 38, SGST: 37},
		},
		{
			name: "missing tax percent treated as zero",
			line: InvoiceLine{Qty: 3, Rate: 10000, TaxType: TaxCGSTSGST},
			want: LineTax{Taxable: 30000},
		},
		{
			name: "missing rate treated as zero",
			line: InvoiceLine{Qty: 3, TaxPercent: 18, TaxType: TaxIGST},
			want: LineTax{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeLineTax(tt.line)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Every line's splits must cover the full GST amount, and only one of
// {cgst+sgst, igst} may be non-zero.
func TestLineTaxCompleteness(t *testing.T) {
	lines := []InvoiceLine{
		{Qty: 7, Rate: 33333, TaxPercent: 18, TaxType: TaxCGSTSGST},
		{Qty: 0.5, Rate: 19999, TaxPercent: 5, TaxType: TaxCGSTSGST},
		{Qty: 13, Rate: 101, TaxPercent: 28, TaxType: TaxIGST},
		{Qty: 2.25, Rate: 4000, DiscountPercent: 3.5, TaxPercent: 12, TaxType: TaxCGSTSGST},
	}
	for _, line := range lines {
		lt := ComputeLineTax(line)
		gst := applyPercent(lt.Taxable, line.TaxPercent)
		assert.Equal(t, gst, lt.CGST+lt.SGST+lt.IGST, "split must sum to gst for %+v", line)
		if line.TaxType == TaxIGST {
			assert.Zero(t, lt.CGST+lt.SGST)
		} else {
			assert.Zero(t, lt.IGST)
		}
	}
}

func TestSpecimenLine(t *testing.T) {
	// qty 10 at 400.00, 18% CGST_SGST.
	lt := ComputeLineTax(InvoiceLine{Qty: 10, Rate: 40000, TaxPercent: 18, TaxType: TaxCGSTSGST})
	require.Equal(t, int64(400000), lt.Taxable)
	require.Equal(t, int64(72000), lt.GST())
	require.Equal(t, int64(36000), lt.CGST)
	require.Equal(t, int64(36000), lt.SGST)
	require.Zero(t, lt.IGST)
	require.Equal(t, int64(472000), lt.Total())
}

func TestComputeInvoiceTax(t *testing.T) {
	lines := []InvoiceLine{
		{Qty: 10, Rate: 40000, TaxPercent: 18, TaxType: TaxCGSTSGST},
		{Qty: 5, Rate: 20000, TaxPercent: 12, TaxType: TaxIGST},
	}

	r, out := ComputeInvoiceTax(lines, nil)
	require.Len(t, out, 2)
	assert.Equal(t, int64(400000), out[0].Amount)
	assert.Equal(t, int64(100000), out[1].Amount)
	assert.Equal(t, int64(500000), r.Subtotal)
	assert.False(t, r.Overridden())

	totals := r.Resolve()
	assert.Equal(t, int64(36000), totals.CGST)
	assert.Equal(t, int64(36000), totals.SGST)
	assert.Equal(t, int64(12000), totals.IGST)
	assert.Equal(t, int64(584000), r.GrandTotal(0))
}

func TestManualOverridePrecedence(t *testing.T) {
	lines := []InvoiceLine{
		{Qty: 10, Rate: 40000, TaxPercent: 18, TaxType: TaxCGSTSGST},
	}
	override := &TaxOverride{Amount: 50000, Mode: TaxIGST}

	r, out := ComputeInvoiceTax(lines, override)
	require.True(t, r.Overridden())

	// Resolved totals are the override, regardless of the computation.
	totals := r.Resolve()
	assert.Equal(t, int64(50000), totals.Total())
	assert.Equal(t, int64(50000), totals.IGST)
	assert.Zero(t, totals.CGST)

	// The computed view and per-line amounts are retained for audit.
	assert.Equal(t, int64(72000), r.Computed().Total())
	assert.Equal(t, int64(400000), out[0].Amount)
	assert.Equal(t, float64(18), out[0].TaxPercent)

	// Grand total uses the override too.
	assert.Equal(t, int64(450000), r.GrandTotal(0))
}

func TestOverrideSplitMode(t *testing.T) {
	r, _ := ComputeInvoiceTax(
		[]InvoiceLine{{Qty: 1, Rate: 100000, TaxType: TaxCGSTSGST}},
		&TaxOverride{Amount: 1001, Mode: TaxCGSTSGST},
	)
	totals := r.Resolve()
	assert.Equal(t, int64(501), totals.CGST)
	assert.Equal(t, int64(500), totals.SGST)
	assert.Equal(t, int64(1001), totals.Total())
}

func TestApplyTax(t *testing.T) {
	inv := &Invoice{
		Type: InvoiceSales,
		Lines: []InvoiceLine{
			{Qty: 10, Rate: 40000, TaxPercent: 18, TaxType: TaxCGSTSGST},
		},
		RoundOff: -50,
	}
	ApplyTax(inv)
	assert.Equal(t, int64(400000), inv.Subtotal)
	assert.Equal(t, int64(36000), inv.CGSTTotal)
	assert.Equal(t, int64(36000), inv.SGSTTotal)
	assert.Zero(t, inv.IGSTTotal)
	assert.Equal(t, int64(471950), inv.GrandTotal)
}
