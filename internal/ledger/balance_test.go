package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2025, 4, d, 0, 0, 0, 0, time.UTC)
}

func TestRunningBalanceContinuity(t *testing.T) {
	entries := []LedgerEntry{
		{Date: day(3), Ref: "S-0002", Kind: EntrySale, Debit: 150000},
		{Date: day(1), Ref: "S-0001", Kind: EntrySale, Debit: 400000},
		{Date: day(2), Ref: "R-0001", Kind: EntryReceipt, Credit: 100000},
	}

	t.Run("customer-like", func(t *testing.T) {
		rows, final := RunningBalance(entries, 250000, CustomerLike)
		require.Len(t, rows, 3)

		var net int64
		for _, e := range entries {
			net += e.Debit - e.Credit
		}
		assert.Equal(t, 250000+net, final)
		assert.Equal(t, final, rows[len(rows)-1].Balance)

		// Chronological order with per-row snapshots.
		assert.Equal(t, "S-0001", rows[0].Ref)
		assert.Equal(t, int64(650000), rows[0].Balance)
		assert.Equal(t, int64(550000), rows[1].Balance)
		assert.Equal(t, int64(700000), rows[2].Balance)
	})

	t.Run("supplier-like", func(t *testing.T) {
		_, final := RunningBalance(entries, 250000, SupplierLike)
		var net int64
		for _, e := range entries {
			net += e.Credit - e.Debit
		}
		assert.Equal(t, 250000+net, final)
	})
}

func TestRunningBalanceOpeningCR(t *testing.T) {
	p := &Party{
		ID: "p1", Name: "X", Roles: []Role{RoleCustomer},
		OpeningBalance: 5000, OpeningBalanceType: BalanceCR,
	}
	assert.Equal(t, int64(-5000), p.OpeningAmount())
}

func TestSortEntriesTieBreak(t *testing.T) {
	// Same date: invoices come before payments, then Ref ascending.
	entries := []LedgerEntry{
		{Date: day(5), Ref: "R-0009", Kind: EntryReceipt, Credit: 100},
		{Date: day(5), Ref: "S-0002", Kind: EntrySale, Debit: 100},
		{Date: day(5), Ref: "S-0001", Kind: EntrySale, Debit: 100},
		{Date: day(4), Ref: "R-0001", Kind: EntryReceipt, Credit: 100},
	}
	SortEntries(entries)

	refs := make([]string, len(entries))
	for i, e := range entries {
		refs[i] = e.Ref
	}
	assert.Equal(t, []string{"R-0001", "S-0001", "S-0002", "R-0009"}, refs)
}

// Customer with opening 2500 DR, one cash sale of 4000 and one unallocated
// receipt of 1000: running balance must land on 5500.
func TestRameshTradersLedger(t *testing.T) {
	party := &Party{
		ID:                 "ramesh",
		Name:               "Ramesh Traders",
		Roles:              []Role{RoleCustomer},
		OpeningBalance:     250000,
		OpeningBalanceType: BalanceDR,
	}
	invoices := []Invoice{
		{Number: "S-0001", Type: InvoiceSales, PartyID: "ramesh", Date: day(10),
			GrandTotal: 400000, PaymentMode: ModeCash},
	}
	payments := []Payment{
		{Number: "R-0001", Type: PaymentReceive, PartyID: "ramesh", Date: day(12),
			Amount: 100000, Mode: ModeCash},
	}

	lr, err := PartyLedger(party, invoices, payments)
	require.NoError(t, err)
	require.Empty(t, lr.Warnings)
	require.Len(t, lr.Rows, 2)
	assert.Equal(t, int64(550000), lr.FinalBalance)
	assert.True(t, lr.Rows[0].Cash)

	// The reconciliation view must agree here.
	out := Outstanding(party, invoices, payments)
	assert.Equal(t, int64(550000), out.CurrentBalance)
	assert.Nil(t, CheckConsistency(lr.FinalBalance, out))
}

func TestPartyLedgerSystemAccount(t *testing.T) {
	p := &Party{ID: "cash", Name: "Cash", Roles: []Role{RoleCash}, OpeningBalanceType: BalanceDR}
	_, err := PartyLedger(p, nil, nil)
	assert.ErrorIs(t, err, ErrSystemAccountLedger)
}
