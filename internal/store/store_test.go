package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/ledger"
)

const testCompany = "gurukrupa"

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestParty(t *testing.T, s *Store, name string, roles ...ledger.Role) *ledger.Party {
	t.Helper()
	p := &ledger.Party{
		CompanyID:          testCompany,
		Name:               name,
		Roles:              roles,
		OpeningBalanceType: ledger.BalanceDR,
	}
	require.NoError(t, s.CreateParty(context.Background(), p))
	return p
}

func salesInvoice(partyID string, lines ...ledger.InvoiceLine) *ledger.Invoice {
	return &ledger.Invoice{
		CompanyID:   testCompany,
		Type:        ledger.InvoiceSales,
		PartyID:     partyID,
		Date:        time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Lines:       lines,
		PaymentMode: ledger.ModeCredit,
	}
}

func TestPartyRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := &ledger.Party{
		CompanyID:          testCompany,
		Name:               "Ramesh Traders",
		Contact:            "9876543210",
		Roles:              []ledger.Role{ledger.RoleCustomer, ledger.RoleSupplier},
		OpeningBalance:     250000,
		OpeningBalanceType: ledger.BalanceDR,
	}
	require.NoError(t, s.CreateParty(ctx, p))
	require.NotEmpty(t, p.ID)

	got, err := s.GetParty(ctx, testCompany, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ramesh Traders", got.Name)
	assert.Equal(t, []ledger.Role{ledger.RoleCustomer, ledger.RoleSupplier}, got.Roles)
	assert.Equal(t, int64(250000), got.OpeningBalance)
	assert.Equal(t, ledger.BalanceDR, got.OpeningBalanceType)

	// wrong company must not see the party
	_, err = s.GetParty(ctx, "other-co", p.ID)
	assert.ErrorIs(t, err, ledger.ErrPartyNotFound)
}

func TestListPartiesByRole(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	newTestParty(t, s, "Customer A", ledger.RoleCustomer)
	newTestParty(t, s, "Supplier B", ledger.RoleSupplier)
	newTestParty(t, s, "Cash", ledger.RoleCash)

	customers, err := s.ListParties(ctx, PartyFilter{CompanyID: testCompany, Role: ledger.RoleCustomer})
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "Customer A", customers[0].Name)

	all, err := s.ListParties(ctx, PartyFilter{CompanyID: testCompany})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestInvoiceNumberSequence(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	party := newTestParty(t, s, "Ramesh Traders", ledger.RoleCustomer)

	line := ledger.InvoiceLine{Qty: 1, Rate: 10000, TaxType: ledger.TaxCGSTSGST}

	inv1 := salesInvoice(party.ID, line)
	_, err := s.CreateInvoice(ctx, inv1)
	require.NoError(t, err)
	assert.Equal(t, "S-0001", inv1.Number)

	inv2 := salesInvoice(party.ID, line)
	_, err = s.CreateInvoice(ctx, inv2)
	require.NoError(t, err)
	assert.Equal(t, "S-0002", inv2.Number)

	purchase := salesInvoice(party.ID, line)
	purchase.Type = ledger.InvoicePurchase
	_, err = s.CreateInvoice(ctx, purchase)
	require.NoError(t, err)
	assert.Equal(t, "P-0001", purchase.Number)
}

func TestCreateInvoiceComputesTaxAndAdjustsStock(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	party := newTestParty(t, s, "Ramesh Traders", ledger.RoleCustomer)

	item := &ledger.Item{CompanyID: testCompany, Name: "Cement Bag", Unit: "bag", Rate: 40000, StockQty: 50}
	require.NoError(t, s.CreateItem(ctx, item))

	inv := salesInvoice(party.ID, ledger.InvoiceLine{
		ItemID: item.ID, Qty: 10, Rate: 40000, TaxPercent: 18, TaxType: ledger.TaxCGSTSGST,
	})
	warnings, err := s.CreateInvoice(ctx, inv)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	got, err := s.GetInvoice(ctx, testCompany, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(400000), got.Subtotal)
	assert.Equal(t, int64(36000), got.CGSTTotal)
	assert.Equal(t, int64(36000), got.SGSTTotal)
	assert.Equal(t, int64(472000), got.GrandTotal)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, int64(400000), got.Lines[0].Amount)

	stocked, err := s.GetItem(ctx, testCompany, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 40.0, stocked.StockQty)
}

func TestCreateInvoiceMissingItemWarns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	party := newTestParty(t, s, "Ramesh Traders", ledger.RoleCustomer)

	inv := salesInvoice(party.ID, ledger.InvoiceLine{
		ItemID: "no-such-item", Qty: 2, Rate: 5000, TaxType: ledger.TaxCGSTSGST,
	})
	warnings, err := s.CreateInvoice(ctx, inv)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, ledger.WarnMissingItem, warnings[0].Code)

	// the invoice itself still posted
	_, err = s.GetInvoice(ctx, testCompany, inv.ID)
	require.NoError(t, err)
}

func TestReplaceInvoiceReversesStock(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	party := newTestParty(t, s, "Ramesh Traders", ledger.RoleCustomer)

	item := &ledger.Item{CompanyID: testCompany, Name: "Cement Bag", Rate: 40000, StockQty: 50}
	require.NoError(t, s.CreateItem(ctx, item))

	inv := salesInvoice(party.ID, ledger.InvoiceLine{
		ItemID: item.ID, Qty: 10, Rate: 40000, TaxType: ledger.TaxCGSTSGST,
	})
	_, err := s.CreateInvoice(ctx, inv)
	require.NoError(t, err)

	// edit down to 4 units; net stock effect should be -4, not -14
	inv.Lines = []ledger.InvoiceLine{
		{ItemID: item.ID, Qty: 4, Rate: 40000, TaxType: ledger.TaxCGSTSGST},
	}
	_, err = s.ReplaceInvoice(ctx, inv)
	require.NoError(t, err)

	stocked, err := s.GetItem(ctx, testCompany, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 46.0, stocked.StockQty)

	got, err := s.GetInvoice(ctx, testCompany, inv.ID)
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, 4.0, got.Lines[0].Qty)
	assert.Equal(t, int64(160000), got.Subtotal)
	assert.Equal(t, "S-0001", got.Number, "number survives edit")
}

func TestDeleteInvoiceReversalAndDanglingAllocations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	party := newTestParty(t, s, "Ramesh Traders", ledger.RoleCustomer)

	item := &ledger.Item{CompanyID: testCompany, Name: "Cement Bag", Rate: 40000, StockQty: 50}
	require.NoError(t, s.CreateItem(ctx, item))

	inv := salesInvoice(party.ID, ledger.InvoiceLine{
		ItemID: item.ID, Qty: 10, Rate: 40000, TaxType: ledger.TaxCGSTSGST,
	})
	_, err := s.CreateInvoice(ctx, inv)
	require.NoError(t, err)

	pay := &ledger.Payment{
		CompanyID: testCompany,
		Type:      ledger.PaymentReceive,
		PartyID:   party.ID,
		Amount:    100000,
		Mode:      ledger.ModeCash,
		Allocs:    []ledger.Allocation{{InvoiceID: inv.ID, AppliedAmount: 100000}},
	}
	require.NoError(t, s.CreatePayment(ctx, pay))

	warnings, err := s.DeleteInvoice(ctx, testCompany, inv.ID)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, ledger.WarnDanglingAlloc, warnings[0].Code)

	// stock restored
	stocked, err := s.GetItem(ctx, testCompany, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, stocked.StockQty)

	// the payment is now an unallocated advance
	got, err := s.GetPayment(ctx, testCompany, pay.ID)
	require.NoError(t, err)
	assert.True(t, got.IsUnallocated())

	_, err = s.GetInvoice(ctx, testCompany, inv.ID)
	assert.ErrorIs(t, err, ledger.ErrInvoiceNotFound)
}

func TestPaymentAllocationUpdatesPaidAmount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	party := newTestParty(t, s, "Ramesh Traders", ledger.RoleCustomer)

	inv := salesInvoice(party.ID, ledger.InvoiceLine{Qty: 1, Rate: 472000, TaxType: ledger.TaxCGSTSGST})
	_, err := s.CreateInvoice(ctx, inv)
	require.NoError(t, err)

	pay := &ledger.Payment{
		CompanyID:         testCompany,
		Type:              ledger.PaymentReceive,
		PartyID:           party.ID,
		Amount:            100000,
		Mode:              ledger.ModeUPI,
		OutstandingBefore: 472000,
		OutstandingAfter:  372000,
		Allocs:            []ledger.Allocation{{InvoiceID: inv.ID, AppliedAmount: 100000}},
	}
	require.NoError(t, s.CreatePayment(ctx, pay))
	assert.Equal(t, "R-0001", pay.Number)

	got, err := s.GetInvoice(ctx, testCompany, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), got.PaidAmount)

	stored, err := s.GetPayment(ctx, testCompany, pay.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(472000), stored.OutstandingBefore)
	assert.Equal(t, int64(372000), stored.OutstandingAfter)
	require.Len(t, stored.Allocs, 1)
	assert.Equal(t, int64(100000), stored.Allocs[0].AppliedAmount)
}

func TestPaymentAllocationSettlesExplicitDue(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	party := newTestParty(t, s, "Ramesh Traders", ledger.RoleCustomer)

	due := int64(472000)
	inv := salesInvoice(party.ID, ledger.InvoiceLine{Qty: 1, Rate: 472000, TaxType: ledger.TaxCGSTSGST})
	inv.DueAmount = &due
	_, err := s.CreateInvoice(ctx, inv)
	require.NoError(t, err)

	receive := func(amount int64) {
		pay := &ledger.Payment{
			CompanyID: testCompany,
			Type:      ledger.PaymentReceive,
			PartyID:   party.ID,
			Amount:    amount,
			Mode:      ledger.ModeBank,
			Allocs:    []ledger.Allocation{{InvoiceID: inv.ID, AppliedAmount: amount}},
		}
		require.NoError(t, s.CreatePayment(ctx, pay))
	}

	receive(100000)
	got, err := s.GetInvoice(ctx, testCompany, inv.ID)
	require.NoError(t, err)
	require.NotNil(t, got.DueAmount)
	assert.Equal(t, int64(372000), *got.DueAmount)
	assert.Equal(t, int64(372000), got.Due())

	receive(372000)
	got, err = s.GetInvoice(ctx, testCompany, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(472000), got.PaidAmount)
	require.NotNil(t, got.DueAmount)
	assert.Equal(t, int64(0), *got.DueAmount)
	assert.Equal(t, int64(0), got.Due())

	// the settled invoice must not contribute to the balance any more
	invoices, err := s.ListInvoices(ctx, InvoiceFilter{CompanyID: testCompany, PartyID: party.ID})
	require.NoError(t, err)
	payments, err := s.ListPayments(ctx, PaymentFilter{CompanyID: testCompany, PartyID: party.ID})
	require.NoError(t, err)
	out := ledger.Outstanding(party, invoices, payments)
	assert.Equal(t, int64(0), out.CurrentBalance)
}

func TestOverAllocationRejected(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	party := newTestParty(t, s, "Ramesh Traders", ledger.RoleCustomer)

	inv := salesInvoice(party.ID, ledger.InvoiceLine{Qty: 1, Rate: 10000, TaxType: ledger.TaxCGSTSGST})
	_, err := s.CreateInvoice(ctx, inv)
	require.NoError(t, err)

	pay := &ledger.Payment{
		CompanyID: testCompany,
		Type:      ledger.PaymentReceive,
		PartyID:   party.ID,
		Amount:    5000,
		Mode:      ledger.ModeCash,
		Allocs:    []ledger.Allocation{{InvoiceID: inv.ID, AppliedAmount: 8000}},
	}
	err = s.CreatePayment(ctx, pay)
	assert.ErrorIs(t, err, ledger.ErrOverAllocated)
}

func TestPayVoucherNumbering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	party := newTestParty(t, s, "Shree Suppliers", ledger.RoleSupplier)

	pay := &ledger.Payment{
		CompanyID: testCompany,
		Type:      ledger.PaymentPay,
		PartyID:   party.ID,
		Amount:    25000,
		Mode:      ledger.ModeBank,
	}
	require.NoError(t, s.CreatePayment(ctx, pay))
	assert.Equal(t, "V-0001", pay.Number)
}

func TestDeletePartyWithDocumentsRefused(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	party := newTestParty(t, s, "Ramesh Traders", ledger.RoleCustomer)

	inv := salesInvoice(party.ID, ledger.InvoiceLine{Qty: 1, Rate: 10000, TaxType: ledger.TaxCGSTSGST})
	_, err := s.CreateInvoice(ctx, inv)
	require.NoError(t, err)

	err = s.DeleteParty(ctx, testCompany, party.ID)
	assert.ErrorIs(t, err, ledger.ErrPartyHasDocuments)

	_, err = s.DeleteInvoice(ctx, testCompany, inv.ID)
	require.NoError(t, err)
	require.NoError(t, s.DeleteParty(ctx, testCompany, party.ID))
}

func TestOtherTxnRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	txn := &ledger.OtherTxn{
		CompanyID: testCompany,
		Kind:      ledger.KindExpense,
		Amount:    150000,
		Note:      "shop rent",
		Date:      time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.CreateOtherTxn(ctx, txn))

	txns, err := s.ListOtherTxns(ctx, TxnFilter{CompanyID: testCompany, Kind: ledger.KindExpense})
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, int64(150000), txns[0].Amount)
	assert.Equal(t, "shop rent", txns[0].Note)
}

func TestListInvoicesDateRange(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	party := newTestParty(t, s, "Ramesh Traders", ledger.RoleCustomer)

	for _, d := range []time.Time{
		time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	} {
		inv := salesInvoice(party.ID, ledger.InvoiceLine{Qty: 1, Rate: 1000, TaxType: ledger.TaxCGSTSGST})
		inv.Date = d
		_, err := s.CreateInvoice(ctx, inv)
		require.NoError(t, err)
	}

	got, err := s.ListInvoices(ctx, InvoiceFilter{
		CompanyID: testCompany,
		From:      time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		To:        time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
