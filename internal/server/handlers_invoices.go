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

type invoiceLineRequest struct {
	ItemID          string  `json:"item_id,omitempty"`
	ItemName        string  `json:"item_name,omitempty"`
	Qty             float64 `json:"qty"`
	Rate            string  `json:"rate"`
	DiscountPercent float64 `json:"discount_percent,omitempty"`
	TaxPercent      float64 `json:"tax_percent,omitempty"`
	TaxType         string  `json:"tax_type,omitempty"`
	Carting         string  `json:"carting,omitempty"`
}

type createInvoiceRequest struct {
	Type        string               `json:"type"`
	PartyID     string               `json:"party_id"`
	PartyName   string               `json:"party_name,omitempty"`
	Date        string               `json:"date,omitempty"`
	Lines       []invoiceLineRequest `json:"lines"`
	PaymentMode string               `json:"payment_mode,omitempty"`
	DueAmount   *string              `json:"due_amount,omitempty"`
	Override    *struct {
		Amount string `json:"amount"`
		Mode   string `json:"mode"`
	} `json:"tax_override,omitempty"`
}

// invoiceResponse carries the saved document plus any non-fatal
// conditions hit while posting it.
type invoiceResponse struct {
	Invoice  *ledger.Invoice  `json:"invoice"`
	Warnings []ledger.Warning `json:"warnings,omitempty"`
}

func (req *createInvoiceRequest) toInvoice(companyID string) (*ledger.Invoice, error) {
	inv := &ledger.Invoice{
		CompanyID:   companyID,
		Type:        ledger.InvoiceType(req.Type),
		PartyID:     req.PartyID,
		PartyName:   req.PartyName,
		PaymentMode: ledger.PaymentMode(req.PaymentMode),
	}
	if inv.PaymentMode == "" {
		inv.PaymentMode = ledger.ModeCredit
	}
	if req.Date != "" {
		d, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			return nil, err
		}
		inv.Date = d
	}
	for _, lr := range req.Lines {
		rate, err := ledger.ToPaise(lr.Rate)
		if err != nil {
			return nil, err
		}
		var carting int64
		if lr.Carting != "" {
			carting, err = ledger.ToPaise(lr.Carting)
			if err != nil {
				return nil, err
			}
		}
		taxType := ledger.TaxType(lr.TaxType)
		if taxType == "" {
			taxType = ledger.TaxCGSTSGST
		}
		inv.Lines = append(inv.Lines, ledger.InvoiceLine{
			ItemID:          lr.ItemID,
			ItemName:        lr.ItemName,
			Qty:             lr.Qty,
			Rate:            rate,
			DiscountPercent: lr.DiscountPercent,
			TaxPercent:      lr.TaxPercent,
			TaxType:         taxType,
			CartingAmount:   carting,
		})
	}
	if req.DueAmount != nil {
		due, err := ledger.ToPaise(*req.DueAmount)
		if err != nil {
			return nil, err
		}
		inv.DueAmount = &due
	}
	if req.Override != nil {
		amt, err := ledger.ToPaise(req.Override.Amount)
		if err != nil {
			return nil, err
		}
		inv.Override = &ledger.TaxOverride{
			Amount: amt,
			Mode:   ledger.TaxType(req.Override.Mode),
		}
	}
	return inv, nil
}

func (s *Server) createInvoice(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	inv, err := req.toInvoice(companyID(r))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// party must exist and resolve the display name
	party, err := s.store.GetParty(r.Context(), inv.CompanyID, inv.PartyID)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	inv.PartyName = party.Name

	warnings, err := s.store.CreateInvoice(r.Context(), inv)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, invoiceResponse{Invoice: inv, Warnings: warnings})
}

func (s *Server) listInvoices(w http.ResponseWriter, r *http.Request) {
	filter := store.InvoiceFilter{CompanyID: companyID(r)}
	q := r.URL.Query()
	filter.PartyID = q.Get("party_id")
	if t := q.Get("type"); t != "" {
		filter.Type = ledger.InvoiceType(t)
	}
	filter.From, filter.To = parseRange(q.Get("from"), q.Get("to"))

	invoices, err := s.store.ListInvoices(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if invoices == nil {
		invoices = []ledger.Invoice{}
	}
	writeJSON(w, http.StatusOK, invoices)
}

func (s *Server) getInvoice(w http.ResponseWriter, r *http.Request) {
	id, _ := url.PathUnescape(chi.URLParam(r, "id"))
	inv, err := s.store.GetInvoice(r.Context(), companyID(r), id)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (s *Server) replaceInvoice(w http.ResponseWriter, r *http.Request) {
	id, _ := url.PathUnescape(chi.URLParam(r, "id"))
	var req createInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	inv, err := req.toInvoice(companyID(r))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	inv.ID = id

	warnings, err := s.store.ReplaceInvoice(r.Context(), inv)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	saved, err := s.store.GetInvoice(r.Context(), inv.CompanyID, id)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, invoiceResponse{Invoice: saved, Warnings: warnings})
}

func (s *Server) deleteInvoice(w http.ResponseWriter, r *http.Request) {
	id, _ := url.PathUnescape(chi.URLParam(r, "id"))
	warnings, err := s.store.DeleteInvoice(r.Context(), companyID(r), id)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	if len(warnings) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"warnings": warnings})
}

func parseRange(from, to string) (time.Time, time.Time) {
	var f, t time.Time
	if from != "" {
		f, _ = time.Parse(time.RFC3339, from)
		if f.IsZero() {
			f, _ = time.Parse("2006-01-02", from)
		}
	}
	if to != "" {
		t, _ = time.Parse(time.RFC3339, to)
		if t.IsZero() {
			t, _ = time.Parse("2006-01-02", to)
		}
	}
	return f, t
}
