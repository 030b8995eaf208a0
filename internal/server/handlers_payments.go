package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/ledger"
	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/store"
)

type allocationRequest struct {
	InvoiceID     string `json:"invoice_id"`
	AppliedAmount string `json:"applied_amount"`
}

type createPaymentRequest struct {
	Type      string              `json:"type"`
	PartyID   string              `json:"party_id"`
	Amount    string              `json:"amount"`
	Mode      string              `json:"mode,omitempty"`
	Date      string              `json:"date,omitempty"`
	Allocs    []allocationRequest `json:"allocations,omitempty"`
}

func (s *Server) createPayment(w http.ResponseWriter, r *http.Request) {
	var req createPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	amount, err := ledger.ToPaise(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p := &ledger.Payment{
		CompanyID: companyID(r),
		Type:      ledger.PaymentType(req.Type),
		PartyID:   req.PartyID,
		Amount:    amount,
		Mode:      ledger.PaymentMode(req.Mode),
	}
	if p.Mode == "" {
		p.Mode = ledger.ModeCash
	}
	if req.Date != "" {
		d, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		p.Date = d
	}
	for _, ar := range req.Allocs {
		applied, err := ledger.ToPaise(ar.AppliedAmount)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		p.Allocs = append(p.Allocs, ledger.Allocation{InvoiceID: ar.InvoiceID, AppliedAmount: applied})
	}

	party, err := s.store.GetParty(r.Context(), p.CompanyID, p.PartyID)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	p.PartyName = party.Name

	// Snapshot the party's position as the operator sees it at posting
	// time. An allocated payment shrinks invoice dues by its allocated
	// sum; a fully-unallocated advance is subtracted whole. The residue
	// of a partial allocation touches neither side, so the snapshot
	// moves by the same delta a recomputed outstanding would.
	before, err := s.outstandingFor(r, party)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	p.OutstandingBefore = before.CurrentBalance
	p.OutstandingAfter = before.CurrentBalance
	matching := ledger.PaymentReceive
	if party.Class() == ledger.SupplierLike {
		matching = ledger.PaymentPay
	}
	if p.Type == matching {
		effect := p.Amount
		if !p.IsUnallocated() {
			effect = p.AllocatedAmount()
		}
		p.OutstandingAfter = before.CurrentBalance - effect
	}

	if err := s.store.CreatePayment(r.Context(), p); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) outstandingFor(r *http.Request, party *ledger.Party) (ledger.OutstandingResult, error) {
	cid := companyID(r)
	invoices, err := s.store.ListInvoices(r.Context(), store.InvoiceFilter{CompanyID: cid, PartyID: party.ID})
	if err != nil {
		return ledger.OutstandingResult{}, err
	}
	payments, err := s.store.ListPayments(r.Context(), store.PaymentFilter{CompanyID: cid, PartyID: party.ID})
	if err != nil {
		return ledger.OutstandingResult{}, err
	}
	return ledger.Outstanding(party, invoices, payments), nil
}

func (s *Server) listPayments(w http.ResponseWriter, r *http.Request) {
	filter := store.PaymentFilter{CompanyID: companyID(r)}
	q := r.URL.Query()
	filter.PartyID = q.Get("party_id")
	if t := q.Get("type"); t != "" {
		filter.Type = ledger.PaymentType(t)
	}
	filter.From, filter.To = parseRange(q.Get("from"), q.Get("to"))

	payments, err := s.store.ListPayments(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if payments == nil {
		payments = []ledger.Payment{}
	}
	writeJSON(w, http.StatusOK, payments)
}

func (s *Server) getPayment(w http.ResponseWriter, r *http.Request) {
	id, _ := url.PathUnescape(chi.URLParam(r, "id"))
	p, err := s.store.GetPayment(r.Context(), companyID(r), id)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type createOtherTxnRequest struct {
	Kind   string `json:"kind"`
	Amount string `json:"amount"`
	FromID string `json:"from_id,omitempty"`
	ToID   string `json:"to_id,omitempty"`
	Note   string `json:"note,omitempty"`
	Date   string `json:"date,omitempty"`
}

func (s *Server) createOtherTxn(w http.ResponseWriter, r *http.Request) {
	var req createOtherTxnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	amount, err := ledger.ToPaise(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	txn := &ledger.OtherTxn{
		CompanyID: companyID(r),
		Kind:      ledger.TxnKind(req.Kind),
		Amount:    amount,
		FromID:    req.FromID,
		ToID:      req.ToID,
		Note:      req.Note,
	}
	if req.Date != "" {
		d, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		txn.Date = d
	}

	if err := s.store.CreateOtherTxn(r.Context(), txn); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, txn)
}

func (s *Server) listOtherTxns(w http.ResponseWriter, r *http.Request) {
	filter := store.TxnFilter{CompanyID: companyID(r)}
	q := r.URL.Query()
	if k := q.Get("kind"); k != "" {
		filter.Kind = ledger.TxnKind(k)
	}
	filter.From, filter.To = parseRange(q.Get("from"), q.Get("to"))

	txns, err := s.store.ListOtherTxns(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if txns == nil {
		txns = []ledger.OtherTxn{}
	}
	writeJSON(w, http.StatusOK, txns)
}
