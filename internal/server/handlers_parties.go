package server

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/ledger"
	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/store"
)

type createPartyRequest struct {
	Name               string             `json:"name"`
	Contact            string             `json:"contact,omitempty"`
	Roles              []ledger.Role      `json:"roles"`
	OpeningBalance     string             `json:"opening_balance,omitempty"`
	OpeningBalanceType ledger.BalanceType `json:"opening_balance_type,omitempty"`
}

func (s *Server) createParty(w http.ResponseWriter, r *http.Request) {
	var req createPartyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	if req.OpeningBalanceType == "" {
		req.OpeningBalanceType = ledger.BalanceDR
	}
	var opening int64
	if req.OpeningBalance != "" {
		var err error
		opening, err = ledger.ToPaise(req.OpeningBalance)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	p := &ledger.Party{
		CompanyID:          companyID(r),
		Name:               req.Name,
		Contact:            req.Contact,
		Roles:              req.Roles,
		OpeningBalance:     opening,
		OpeningBalanceType: req.OpeningBalanceType,
	}

	if err := s.store.CreateParty(r.Context(), p); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}

	created, err := s.store.GetParty(r.Context(), p.CompanyID, p.ID)
	if err != nil {
		writeJSON(w, http.StatusCreated, p)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) listParties(w http.ResponseWriter, r *http.Request) {
	filter := store.PartyFilter{CompanyID: companyID(r)}
	if role := r.URL.Query().Get("role"); role != "" {
		filter.Role = ledger.Role(role)
	}

	parties, err := s.store.ListParties(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if parties == nil {
		parties = []ledger.Party{}
	}
	writeJSON(w, http.StatusOK, parties)
}

func (s *Server) getParty(w http.ResponseWriter, r *http.Request) {
	id, _ := url.PathUnescape(chi.URLParam(r, "id"))
	p, err := s.store.GetParty(r.Context(), companyID(r), id)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) updatePartyContact(w http.ResponseWriter, r *http.Request) {
	id, _ := url.PathUnescape(chi.URLParam(r, "id"))
	var req struct {
		Name    string `json:"name"`
		Contact string `json:"contact"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := s.store.UpdatePartyContact(r.Context(), companyID(r), id, req.Name, req.Contact); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	p, err := s.store.GetParty(r.Context(), companyID(r), id)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) deleteParty(w http.ResponseWriter, r *http.Request) {
	id, _ := url.PathUnescape(chi.URLParam(r, "id"))
	if err := s.store.DeleteParty(r.Context(), companyID(r), id); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createItemRequest struct {
	Name     string  `json:"name"`
	Unit     string  `json:"unit,omitempty"`
	Rate     string  `json:"rate,omitempty"`
	StockQty float64 `json:"stock_qty,omitempty"`
}

func (s *Server) createItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	var rate int64
	if req.Rate != "" {
		var err error
		rate, err = ledger.ToPaise(req.Rate)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	item := &ledger.Item{
		CompanyID: companyID(r),
		Name:      req.Name,
		Unit:      req.Unit,
		Rate:      rate,
		StockQty:  req.StockQty,
	}
	if err := s.store.CreateItem(r.Context(), item); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.ListItems(r.Context(), companyID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if items == nil {
		items = []ledger.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) getItem(w http.ResponseWriter, r *http.Request) {
	id, _ := url.PathUnescape(chi.URLParam(r, "id"))
	item, err := s.store.GetItem(r.Context(), companyID(r), id)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, item)
}
