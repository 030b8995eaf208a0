package server

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/ledger"
	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/store"
)

func (s *Server) partyLedger(w http.ResponseWriter, r *http.Request) {
	partyID, _ := url.PathUnescape(chi.URLParam(r, "partyID"))
	cid := companyID(r)

	party, err := s.store.GetParty(r.Context(), cid, partyID)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}

	from, to := parseRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	invoices, err := s.store.ListInvoices(r.Context(), store.InvoiceFilter{
		CompanyID: cid, PartyID: partyID, From: from, To: to,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	payments, err := s.store.ListPayments(r.Context(), store.PaymentFilter{
		CompanyID: cid, PartyID: partyID, From: from, To: to,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	result, err := ledger.PartyLedger(party, invoices, payments)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}

	// Cross-check the running balance against the reconciliation view.
	// A divergence beyond the unallocated total is reported, never fatal.
	out := ledger.Outstanding(party, invoices, payments)
	if warn := ledger.CheckConsistency(result.FinalBalance, out); warn != nil {
		result.Warnings = append(result.Warnings, *warn)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ledger":      result,
		"outstanding": out,
	})
}

func (s *Server) outstanding(w http.ResponseWriter, r *http.Request) {
	cid := companyID(r)
	filter := store.PartyFilter{CompanyID: cid}
	if role := r.URL.Query().Get("role"); role != "" {
		filter.Role = ledger.Role(role)
	}

	parties, err := s.store.ListParties(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	results := []ledger.OutstandingResult{}
	for i := range parties {
		p := &parties[i]
		if p.Class() == ledger.SystemAccount {
			continue
		}
		invoices, err := s.store.ListInvoices(r.Context(), store.InvoiceFilter{CompanyID: cid, PartyID: p.ID})
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		payments, err := s.store.ListPayments(r.Context(), store.PaymentFilter{CompanyID: cid, PartyID: p.ID})
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		results = append(results, ledger.Outstanding(p, invoices, payments))
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) profitAndLoss(w http.ResponseWriter, r *http.Request) {
	cid := companyID(r)
	from, to := parseRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"))

	invoices, err := s.store.ListInvoices(r.Context(), store.InvoiceFilter{CompanyID: cid, From: from, To: to})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	txns, err := s.store.ListOtherTxns(r.Context(), store.TxnFilter{CompanyID: cid, From: from, To: to})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	opening, err := s.openingPosition(r.Context(), cid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, ledger.ProfitAndLoss(invoices, txns, opening))
}

// openingPosition sums the signed opening balances of the company's
// system accounts (cash, bank, upi).
func (s *Server) openingPosition(ctx context.Context, companyID string) (int64, error) {
	parties, err := s.store.ListParties(ctx, store.PartyFilter{CompanyID: companyID})
	if err != nil {
		return 0, err
	}
	var opening int64
	for i := range parties {
		if parties[i].Class() == ledger.SystemAccount {
			opening += parties[i].OpeningAmount()
		}
	}
	return opening, nil
}

func (s *Server) cashbook(w http.ResponseWriter, r *http.Request) {
	cid := companyID(r)
	from, to := parseRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"))

	invoices, err := s.store.ListInvoices(r.Context(), store.InvoiceFilter{CompanyID: cid, From: from, To: to})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	payments, err := s.store.ListPayments(r.Context(), store.PaymentFilter{CompanyID: cid, From: from, To: to})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	txns, err := s.store.ListOtherTxns(r.Context(), store.TxnFilter{CompanyID: cid, From: from, To: to})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	cashIDs, err := s.store.CashAccountIDs(r.Context(), cid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	entries := ledger.NormalizeAll(invoices, payments)
	writeJSON(w, http.StatusOK, ledger.Cashbook(entries, txns, cashIDs))
}

// dashboardParams resolves and validates the drill-down query. level
// defaults to years; months needs a year, transactions needs both.
type dashboardParams struct {
	level  string
	metric ledger.Metric
	year   int
	month  int
}

func (s *Server) dashboardParams(r *http.Request) (dashboardParams, error) {
	q := r.URL.Query()
	p := dashboardParams{level: q.Get("level")}
	if p.level == "" {
		p.level = "years"
	}

	metric := q.Get("metric")
	if metric == "" {
		metric = "sales"
	}
	m, err := ledger.ParseMetric(metric)
	if err != nil {
		return p, err
	}
	p.metric = m

	p.year, _ = strconv.Atoi(q.Get("year"))
	p.month, _ = strconv.Atoi(q.Get("month"))

	switch p.level {
	case "years":
	case "months":
		if p.year == 0 {
			return p, ledger.ErrUnknownLevel
		}
	case "transactions":
		if p.year == 0 || p.month == 0 {
			return p, ledger.ErrUnknownLevel
		}
	default:
		return p, ledger.ErrUnknownLevel
	}
	return p, nil
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	p, err := s.dashboardParams(r)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}

	invoices, err := s.store.ListInvoices(r.Context(), store.InvoiceFilter{CompanyID: companyID(r)})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	switch p.level {
	case "years":
		writeJSON(w, http.StatusOK, map[string]any{
			"level": "years", "metric": p.metric,
			"rows": ledger.AggregateYears(invoices, p.metric),
		})
	case "months":
		writeJSON(w, http.StatusOK, map[string]any{
			"level": "months", "metric": p.metric, "year": p.year,
			"rows": ledger.AggregateMonths(invoices, p.metric, p.year),
		})
	case "transactions":
		rows, summary, breakdown := ledger.AggregateTransactions(invoices, p.metric, p.year, p.month)
		writeJSON(w, http.StatusOK, map[string]any{
			"level": "transactions", "metric": p.metric, "year": p.year, "month": p.month,
			"rows": rows, "summary": summary, "breakdown": breakdown,
		})
	}
}

func (s *Server) dashboardExport(w http.ResponseWriter, r *http.Request) {
	p, err := s.dashboardParams(r)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}

	invoices, err := s.store.ListInvoices(r.Context(), store.InvoiceFilter{CompanyID: companyID(r)})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="dashboard.csv"`)

	switch p.level {
	case "years":
		err = ledger.WriteYearCSV(w, ledger.AggregateYears(invoices, p.metric))
	case "months":
		err = ledger.WriteMonthCSV(w, ledger.AggregateMonths(invoices, p.metric, p.year))
	case "transactions":
		rows, _, _ := ledger.AggregateTransactions(invoices, p.metric, p.year, p.month)
		err = ledger.WriteTxnCSV(w, rows)
	}
	if err != nil {
		s.log.Error().Err(err).Msg("csv export failed")
	}
}
