package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/ledger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func mapError(err error) int {
	switch {
	case errors.Is(err, ledger.ErrPartyNotFound),
		errors.Is(err, ledger.ErrItemNotFound),
		errors.Is(err, ledger.ErrInvoiceNotFound),
		errors.Is(err, ledger.ErrPaymentNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrDuplicateParty):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrInvalidPartyID),
		errors.Is(err, ledger.ErrEmptyRoleSet),
		errors.Is(err, ledger.ErrInvalidRole),
		errors.Is(err, ledger.ErrMixedSystemRoles),
		errors.Is(err, ledger.ErrInvalidBalanceType),
		errors.Is(err, ledger.ErrInvalidInvoiceType),
		errors.Is(err, ledger.ErrNoInvoiceLines),
		errors.Is(err, ledger.ErrInvalidTaxType),
		errors.Is(err, ledger.ErrInvalidPaymentType),
		errors.Is(err, ledger.ErrInvalidTxnKind),
		errors.Is(err, ledger.ErrUnknownMetric),
		errors.Is(err, ledger.ErrUnknownLevel):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrOverAllocated),
		errors.Is(err, ledger.ErrPartyHasDocuments),
		errors.Is(err, ledger.ErrSystemAccountLedger):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
