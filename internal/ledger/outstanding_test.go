package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func customer(opening int64) *Party {
	return &Party{
		ID: "p1", Name: "Test", Roles: []Role{RoleCustomer},
		OpeningBalance: opening, OpeningBalanceType: BalanceDR,
	}
}

func due(v int64) *int64 { return &v }

// An invoice fully settled through an allocated payment contributes zero:
// the allocation is already inside the invoice's due, so the payment must
// not be subtracted a second time.
func TestNoDoubleCounting(t *testing.T) {
	invoices := []Invoice{
		{Type: InvoiceSales, PartyID: "p1", GrandTotal: 10000, PaidAmount: 10000, DueAmount: due(0)},
	}
	payments := []Payment{
		{Type: PaymentReceive, PartyID: "p1", Amount: 10000,
			Allocs: []Allocation{{InvoiceID: "i1", AppliedAmount: 10000}}},
	}

	r := Outstanding(customer(0), invoices, payments)
	assert.Equal(t, int64(10000), r.Billed)
	assert.Equal(t, int64(10000), r.TotalReceived)
	assert.Zero(t, r.Unallocated)
	assert.Zero(t, r.CurrentBalance)
}

func TestUnallocatedAdvanceSubtracted(t *testing.T) {
	invoices := []Invoice{
		{Type: InvoiceSales, PartyID: "p1", GrandTotal: 10000, DueAmount: due(10000)},
	}
	payments := []Payment{
		{Type: PaymentReceive, PartyID: "p1", Amount: 4000},
	}

	r := Outstanding(customer(0), invoices, payments)
	assert.Equal(t, int64(4000), r.Unallocated)
	assert.Equal(t, int64(6000), r.CurrentBalance)
}

func TestDueDefaultsFromGrandAndPaid(t *testing.T) {
	inv := Invoice{GrandTotal: 400000}
	assert.Equal(t, int64(400000), inv.Due())

	inv.PaidAmount = 450000
	assert.Zero(t, inv.Due(), "overpaid invoice clamps to zero")

	inv.DueAmount = due(12345)
	assert.Equal(t, int64(12345), inv.Due(), "recorded due wins")
}

func TestSupplierDirection(t *testing.T) {
	supplier := &Party{
		ID: "s1", Name: "Mill", Roles: []Role{RoleSupplier},
		OpeningBalance: 50000, OpeningBalanceType: BalanceDR,
	}
	invoices := []Invoice{
		{Type: InvoicePurchase, PartyID: "s1", GrandTotal: 200000},
		// Sales invoice to a supplier is not its natural direction.
		{Type: InvoiceSales, PartyID: "s1", GrandTotal: 99999},
	}
	payments := []Payment{
		{Type: PaymentPay, PartyID: "s1", Amount: 30000},
		// receive payments do not count against a supplier
		{Type: PaymentReceive, PartyID: "s1", Amount: 11111},
	}

	r := Outstanding(supplier, invoices, payments)
	assert.Equal(t, int64(200000), r.Billed)
	assert.Equal(t, int64(30000), r.Unallocated)
	assert.Equal(t, int64(50000+200000-30000), r.CurrentBalance)
}

func TestRameshTradersOutstanding(t *testing.T) {
	party := customer(250000)
	invoices := []Invoice{
		{Type: InvoiceSales, PartyID: "p1", GrandTotal: 400000, PaymentMode: ModeCash},
	}
	payments := []Payment{
		{Type: PaymentReceive, PartyID: "p1", Amount: 100000},
	}

	r := Outstanding(party, invoices, payments)
	assert.Equal(t, int64(400000), r.InvoiceDues)
	assert.Equal(t, int64(100000), r.Unallocated)
	assert.Equal(t, int64(550000), r.CurrentBalance)
}

func TestCheckConsistency(t *testing.T) {
	r := OutstandingResult{PartyID: "p1", CurrentBalance: 550000, Unallocated: 100000}

	assert.Nil(t, CheckConsistency(550000, r), "equal views are fine")
	assert.Nil(t, CheckConsistency(460000, r), "divergence within unallocated is allowed")

	w := CheckConsistency(400000, r)
	if assert.NotNil(t, w, "divergence beyond unallocated is a data-quality warning") {
		assert.Equal(t, WarnReconDiverged, w.Code)
		assert.Equal(t, "p1", w.Ref)
	}
}
