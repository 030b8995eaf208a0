package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeParty(t *testing.T) {
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	invoices := []Invoice{
		{Number: "S-0001", Type: InvoiceSales, PartyID: "p1", Date: date, GrandTotal: 472000, PaymentMode: ModeCash},
		{Number: "P-0001", Type: InvoicePurchase, PartyID: "p1", Date: date, GrandTotal: 90000, PaymentMode: ModeCredit},
	}
	payments := []Payment{
		{Number: "R-0001", Type: PaymentReceive, PartyID: "p1", Date: date, Amount: 100000, Mode: ModeUPI},
		{Number: "V-0001", Type: PaymentPay, PartyID: "p1", Date: date, Amount: 50000, Mode: ModeCash},
	}

	entries, warnings := NormalizeParty("p1", invoices, payments)
	require.Empty(t, warnings)
	require.Len(t, entries, 4)

	byRef := map[string]LedgerEntry{}
	for _, e := range entries {
		byRef[e.Ref] = e
	}

	sale := byRef["S-0001"]
	assert.Equal(t, EntrySale, sale.Kind)
	assert.Equal(t, int64(472000), sale.Debit)
	assert.Zero(t, sale.Credit)
	assert.True(t, sale.Cash)

	purchase := byRef["P-0001"]
	assert.Equal(t, EntryPurchase, purchase.Kind)
	assert.Equal(t, int64(90000), purchase.Credit)
	assert.Zero(t, purchase.Debit)
	assert.False(t, purchase.Cash)

	receipt := byRef["R-0001"]
	assert.Equal(t, int64(100000), receipt.Credit)
	assert.False(t, receipt.Cash, "UPI is not cash")

	pay := byRef["V-0001"]
	assert.Equal(t, int64(50000), pay.Debit)
	assert.True(t, pay.Cash)
}

// Documents that reference the wrong party are skipped with a warning;
// the report still renders from what remains.
func TestNormalizeSkipsMismatchedDocuments(t *testing.T) {
	invoices := []Invoice{
		{Number: "S-0001", Type: InvoiceSales, PartyID: "someone-else", GrandTotal: 100},
		{Number: "S-0002", Type: InvoiceSales, PartyID: "p1", GrandTotal: 200},
	}

	entries, warnings := NormalizeParty("p1", invoices, nil)
	require.Len(t, entries, 1)
	assert.Equal(t, "S-0002", entries[0].Ref)

	require.Len(t, warnings, 1)
	assert.Equal(t, WarnMissingParty, warnings[0].Code)
	assert.Equal(t, "S-0001", warnings[0].Ref)
}

func TestCashbook(t *testing.T) {
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	entries := []LedgerEntry{
		{Date: date, Ref: "S-0001", Kind: EntrySale, Debit: 400000, Cash: true},
		{Date: date, Ref: "S-0002", Kind: EntrySale, Debit: 100000, Cash: false},
		{Date: date, Ref: "V-0001", Kind: EntryPayment, Debit: 30000, Cash: true},
	}
	txns := []OtherTxn{
		{ID: "t1", Kind: KindExpense, Amount: 5000, FromID: "cash", Date: date},
		{ID: "t2", Kind: KindContra, Amount: 20000, FromID: "bank", ToID: "cash", Date: date},
		{ID: "t3", Kind: KindIncome, Amount: 999, ToID: "bank", Date: date},
	}

	cb := Cashbook(entries, txns, map[string]bool{"cash": true})
	assert.Equal(t, int64(400000+20000), cb.TotalIn)
	assert.Equal(t, int64(30000+5000), cb.TotalOut)
	assert.Equal(t, cb.TotalIn-cb.TotalOut, cb.Net)
	// credit-sale and bank income stay out
	assert.Len(t, cb.Rows, 4)
}
