package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/ledger"
	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	srv := httptest.NewServer(New(st, "").Handler())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, srv *httptest.Server, method, path string, body any, out any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Company-ID", "testco")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func createTestParty(t *testing.T, srv *httptest.Server, name string, roles ...string) ledger.Party {
	t.Helper()
	var p ledger.Party
	resp := doJSON(t, srv, http.MethodPost, "/api/v1/parties", map[string]any{
		"name": name, "roles": roles, "opening_balance": "2500.00",
	}, &p)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return p
}

func TestPartyLifecycle(t *testing.T) {
	srv := newTestServer(t)

	p := createTestParty(t, srv, "Ramesh Traders", "customer")
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, int64(250000), p.OpeningBalance)

	var got ledger.Party
	resp := doJSON(t, srv, http.MethodGet, "/api/v1/parties/"+p.ID, nil, &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Ramesh Traders", got.Name)

	resp = doJSON(t, srv, http.MethodPatch, "/api/v1/parties/"+p.ID, map[string]any{
		"name": "Ramesh Traders & Sons", "contact": "9876543210",
	}, &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Ramesh Traders & Sons", got.Name)
}

func TestCreatePartyBadRole(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, srv, http.MethodPost, "/api/v1/parties", map[string]any{
		"name": "Bad", "roles": []string{"wizard"},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMixedSystemRolesRejected(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, srv, http.MethodPost, "/api/v1/parties", map[string]any{
		"name": "Bad", "roles": []string{"customer", "cash"},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestInvoiceEndToEnd(t *testing.T) {
	srv := newTestServer(t)
	p := createTestParty(t, srv, "Ramesh Traders", "customer")

	var created invoiceResponse
	resp := doJSON(t, srv, http.MethodPost, "/api/v1/invoices", map[string]any{
		"type":     "SALES",
		"party_id": p.ID,
		"date":     "2024-06-01T00:00:00Z",
		"lines": []map[string]any{
			{"qty": 10, "rate": "400.00", "tax_percent": 18, "tax_type": "CGST_SGST"},
		},
	}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotNil(t, created.Invoice)
	assert.Equal(t, "S-0001", created.Invoice.Number)
	assert.Equal(t, int64(400000), created.Invoice.Subtotal)
	assert.Equal(t, int64(36000), created.Invoice.CGSTTotal)
	assert.Equal(t, int64(36000), created.Invoice.SGSTTotal)
	assert.Equal(t, int64(472000), created.Invoice.GrandTotal)
	assert.Equal(t, "Ramesh Traders", created.Invoice.PartyName)

	var list []ledger.Invoice
	resp = doJSON(t, srv, http.MethodGet, "/api/v1/invoices?party_id="+p.ID, nil, &list)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, list, 1)
}

func TestInvoiceUnknownPartyRejected(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, srv, http.MethodPost, "/api/v1/invoices", map[string]any{
		"type":     "SALES",
		"party_id": "ghost",
		"lines":    []map[string]any{{"qty": 1, "rate": "100.00"}},
	}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPaymentSnapshots(t *testing.T) {
	srv := newTestServer(t)
	p := createTestParty(t, srv, "Ramesh Traders", "customer")

	var created invoiceResponse
	doJSON(t, srv, http.MethodPost, "/api/v1/invoices", map[string]any{
		"type": "SALES", "party_id": p.ID,
		"lines": []map[string]any{{"qty": 1, "rate": "4000.00", "tax_percent": 18}},
	}, &created)

	var pay ledger.Payment
	resp := doJSON(t, srv, http.MethodPost, "/api/v1/payments", map[string]any{
		"type": "receive", "party_id": p.ID, "amount": "1000.00", "mode": "cash",
		"allocations": []map[string]any{
			{"invoice_id": created.Invoice.ID, "applied_amount": "1000.00"},
		},
	}, &pay)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "R-0001", pay.Number)

	// opening 2500.00 + invoice 4720.00 due
	assert.Equal(t, int64(722000), pay.OutstandingBefore)
	assert.Equal(t, int64(622000), pay.OutstandingAfter)
}

func TestPartialAllocationSnapshotMatchesOutstanding(t *testing.T) {
	srv := newTestServer(t)
	p := createTestParty(t, srv, "Ramesh Traders", "customer")

	var created invoiceResponse
	doJSON(t, srv, http.MethodPost, "/api/v1/invoices", map[string]any{
		"type": "SALES", "party_id": p.ID,
		"lines": []map[string]any{{"qty": 1, "rate": "4000.00", "tax_percent": 18}},
	}, &created)

	// 1000.00 received but only 600.00 tied to the invoice: the 400.00
	// residue reduces neither dues nor the unallocated total.
	var pay ledger.Payment
	resp := doJSON(t, srv, http.MethodPost, "/api/v1/payments", map[string]any{
		"type": "receive", "party_id": p.ID, "amount": "1000.00", "mode": "cash",
		"allocations": []map[string]any{
			{"invoice_id": created.Invoice.ID, "applied_amount": "600.00"},
		},
	}, &pay)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	assert.Equal(t, int64(722000), pay.OutstandingBefore)
	assert.Equal(t, int64(662000), pay.OutstandingAfter)

	var report struct {
		Outstanding ledger.OutstandingResult `json:"outstanding"`
	}
	resp = doJSON(t, srv, http.MethodGet, "/api/v1/reports/ledger/"+p.ID, nil, &report)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, pay.OutstandingAfter, report.Outstanding.CurrentBalance)
}

func TestLedgerReportConsistency(t *testing.T) {
	srv := newTestServer(t)
	p := createTestParty(t, srv, "Ramesh Traders", "customer")

	var created invoiceResponse
	doJSON(t, srv, http.MethodPost, "/api/v1/invoices", map[string]any{
		"type": "SALES", "party_id": p.ID, "date": "2024-06-01T00:00:00Z",
		"lines": []map[string]any{{"qty": 1, "rate": "4000.00", "tax_percent": 18}},
	}, &created)

	doJSON(t, srv, http.MethodPost, "/api/v1/payments", map[string]any{
		"type": "receive", "party_id": p.ID, "amount": "1000.00",
		"date": "2024-06-05T00:00:00Z",
		"allocations": []map[string]any{
			{"invoice_id": created.Invoice.ID, "applied_amount": "1000.00"},
		},
	}, nil)

	var report struct {
		Ledger      ledger.LedgerResult      `json:"ledger"`
		Outstanding ledger.OutstandingResult `json:"outstanding"`
	}
	resp := doJSON(t, srv, http.MethodGet, "/api/v1/reports/ledger/"+p.ID, nil, &report)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// opening 2500 + sale 4720 - receipt 1000 = 6220
	assert.Equal(t, int64(622000), report.Ledger.FinalBalance)
	assert.Equal(t, int64(622000), report.Outstanding.CurrentBalance)
	require.Len(t, report.Ledger.Rows, 2)

	// fully allocated: the two views agree, no divergence warning
	for _, warn := range report.Ledger.Warnings {
		assert.NotEqual(t, ledger.WarnReconDiverged, warn.Code)
	}
}

func TestLedgerReportSystemAccountRejected(t *testing.T) {
	srv := newTestServer(t)
	p := createTestParty(t, srv, "Cash Drawer", "cash")

	resp := doJSON(t, srv, http.MethodGet, "/api/v1/reports/ledger/"+p.ID, nil, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestDashboardDrillDown(t *testing.T) {
	srv := newTestServer(t)
	p := createTestParty(t, srv, "Ramesh Traders", "customer")

	for _, d := range []string{"2024-04-01T00:00:00Z", "2024-04-15T00:00:00Z", "2024-07-01T00:00:00Z"} {
		doJSON(t, srv, http.MethodPost, "/api/v1/invoices", map[string]any{
			"type": "SALES", "party_id": p.ID, "date": d,
			"lines": []map[string]any{{"qty": 1, "rate": "1000.00", "tax_percent": 18}},
		}, nil)
	}

	var years struct {
		Rows []ledger.YearRow `json:"rows"`
	}
	resp := doJSON(t, srv, http.MethodGet, "/api/v1/reports/dashboard?metric=sales", nil, &years)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, years.Rows, 1)
	assert.Equal(t, 2024, years.Rows[0].Year)
	assert.Equal(t, 3, years.Rows[0].Count)

	var months struct {
		Rows []ledger.MonthRow `json:"rows"`
	}
	resp = doJSON(t, srv, http.MethodGet, "/api/v1/reports/dashboard?metric=sales&level=months&year=2024", nil, &months)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, months.Rows, 2)

	var monthTotal int64
	for _, m := range months.Rows {
		monthTotal += m.Total
	}
	assert.Equal(t, years.Rows[0].Total, monthTotal)

	// bad inputs
	resp = doJSON(t, srv, http.MethodGet, "/api/v1/reports/dashboard?metric=nonsense", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = doJSON(t, srv, http.MethodGet, "/api/v1/reports/dashboard?level=months", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDashboardExportCSV(t *testing.T) {
	srv := newTestServer(t)
	p := createTestParty(t, srv, "Ramesh Traders", "customer")
	doJSON(t, srv, http.MethodPost, "/api/v1/invoices", map[string]any{
		"type": "SALES", "party_id": p.ID, "date": "2024-06-01T00:00:00Z",
		"lines": []map[string]any{{"qty": 1, "rate": "1000.00"}},
	}, nil)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/reports/dashboard/export?metric=sales", nil)
	require.NoError(t, err)
	req.Header.Set("X-Company-ID", "testco")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
}

func TestCompanyIsolation(t *testing.T) {
	srv := newTestServer(t)
	p := createTestParty(t, srv, "Ramesh Traders", "customer")

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/parties/"+p.ID, nil)
	require.NoError(t, err)
	req.Header.Set("X-Company-ID", "other-co")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProfitAndLossReport(t *testing.T) {
	srv := newTestServer(t)
	p := createTestParty(t, srv, "Ramesh Traders", "customer")
	createTestParty(t, srv, "Cash Drawer", "cash")

	doJSON(t, srv, http.MethodPost, "/api/v1/invoices", map[string]any{
		"type": "SALES", "party_id": p.ID,
		"lines": []map[string]any{{"qty": 1, "rate": "5000.00"}},
	}, nil)
	doJSON(t, srv, http.MethodPost, "/api/v1/other-txns", map[string]any{
		"kind": "expense", "amount": "1500.00", "note": "shop rent",
	}, nil)

	var pl ledger.ProfitLoss
	resp := doJSON(t, srv, http.MethodGet, "/api/v1/reports/pnl", nil, &pl)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(500000), pl.Sales)
	assert.Equal(t, int64(150000), pl.OtherExpense)
	assert.Equal(t, int64(350000), pl.NetProfit)

	// opening position counts system accounts only, not the customer
	assert.Equal(t, int64(250000), pl.OpeningBalance)
}
