package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		roles []Role
		want  PartyClass
	}{
		{"customer", []Role{RoleCustomer}, CustomerLike},
		{"supplier", []Role{RoleSupplier}, SupplierLike},
		{"partner", []Role{RolePartner}, SupplierLike},
		{"carting agent", []Role{RoleCarting}, SupplierLike},
		{"customer wins over supplier", []Role{RoleSupplier, RoleCustomer}, CustomerLike},
		{"cash account", []Role{RoleCash}, SystemAccount},
		{"bank account", []Role{RoleBank}, SystemAccount},
		{"upi account", []Role{RoleUPI}, SystemAccount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.roles))
		})
	}
}

func TestPartyValidate(t *testing.T) {
	valid := Party{
		ID: "p1", Name: "Ramesh Traders",
		Roles:              []Role{RoleCustomer},
		OpeningBalanceType: BalanceDR,
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		mutate  func(*Party)
		wantErr error
	}{
		{"empty id", func(p *Party) { p.ID = "" }, ErrInvalidPartyID},
		{"empty roles", func(p *Party) { p.Roles = nil }, ErrEmptyRoleSet},
		{"unknown role", func(p *Party) { p.Roles = []Role{"wholesaler"} }, ErrInvalidRole},
		{"mixed system and counter-party roles", func(p *Party) {
			p.Roles = []Role{RoleCash, RoleCustomer}
		}, ErrMixedSystemRoles},
		{"bad balance type", func(p *Party) { p.OpeningBalanceType = "DB" }, ErrInvalidBalanceType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			p.Roles = append([]Role{}, valid.Roles...)
			tt.mutate(&p)
			assert.ErrorIs(t, p.Validate(), tt.wantErr)
		})
	}
}

func TestPaymentValidate(t *testing.T) {
	p := Payment{Type: PaymentReceive, Amount: 1000,
		Allocs: []Allocation{{InvoiceID: "i1", AppliedAmount: 600}, {InvoiceID: "i2", AppliedAmount: 400}}}
	assert.NoError(t, p.Validate())

	p.Allocs = append(p.Allocs, Allocation{InvoiceID: "i3", AppliedAmount: 1})
	assert.ErrorIs(t, p.Validate(), ErrOverAllocated)

	p = Payment{Type: "settle", Amount: 10}
	assert.ErrorIs(t, p.Validate(), ErrInvalidPaymentType)
}

func TestCurrencyRoundTrip(t *testing.T) {
	tests := []struct {
		in    string
		paise int64
		out   string
	}{
		{"40.50", 4050, "40.50"},
		{"0.05", 5, "0.05"},
		{"-12.3", -1230, "-12.30"},
		{"4000", 400000, "4000.00"},
	}
	for _, tt := range tests {
		got, err := ToPaise(tt.in)
		assert.NoError(t, err)
		assert.Equal(t, tt.paise, got)
		assert.Equal(t, tt.out, FormatRupees(tt.paise))
	}

	_, err := ToPaise("abc")
	assert.Error(t, err)

	// sub-paise precision is rejected, not silently truncated
	_, err = ToPaise("1.999")
	assert.Error(t, err)

	assert.Equal(t, "(5.00)", FormatSigned(-500))
}

func TestProfitAndLoss(t *testing.T) {
	invoices := []Invoice{
		{Type: InvoiceSales, GrandTotal: 500000},
		{Type: InvoicePurchase, GrandTotal: 300000},
	}
	txns := []OtherTxn{
		{Kind: KindIncome, Amount: 20000},
		{Kind: KindExpense, Amount: 45000},
		{Kind: KindTransfer, Amount: 999999},
		{Kind: KindCapital, Amount: 888888},
	}
	pl := ProfitAndLoss(invoices, txns, 50000)
	assert.Equal(t, int64(200000), pl.GrossProfit)
	assert.Equal(t, int64(175000), pl.NetProfit)
	assert.Equal(t, int64(20000), pl.OtherIncome)
	assert.Equal(t, int64(45000), pl.OtherExpense)
	assert.Equal(t, int64(50000), pl.OpeningBalance)
}
