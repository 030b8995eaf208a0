package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPartyID       = errors.New("invalid party id")
	ErrEmptyRoleSet         = errors.New("party must have at least one role")
	ErrInvalidRole          = errors.New("invalid party role")
	ErrMixedSystemRoles     = errors.New("system-account roles cannot be combined with counter-party roles")
	ErrInvalidBalanceType   = errors.New("opening balance type must be DR or CR")
	ErrInvalidInvoiceType   = errors.New("invoice type must be SALES or PURCHASE")
	ErrNoInvoiceLines       = errors.New("invoice must have at least one line")
	ErrInvalidTaxType       = errors.New("tax type must be CGST_SGST or IGST")
	ErrInvalidPaymentType   = errors.New("payment type must be receive or pay")
	ErrOverAllocated        = errors.New("allocations exceed payment amount")
	ErrInvalidTxnKind       = errors.New("invalid transaction kind")
	ErrPartyNotFound        = errors.New("party not found")
	ErrItemNotFound         = errors.New("item not found")
	ErrInvoiceNotFound      = errors.New("invoice not found")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrPartyHasDocuments    = errors.New("party is referenced by posted documents")
	ErrDuplicateParty       = errors.New("party already exists")
	ErrSystemAccountLedger  = errors.New("ledger views are not defined for system accounts")
	ErrUnknownMetric        = errors.New("unknown dashboard metric")
	ErrUnknownLevel         = errors.New("unknown drill-down level")
)

// Warning codes returned alongside still-usable results.
const (
	WarnMissingParty   = "MISSING_PARTY"
	WarnMissingItem    = "MISSING_ITEM"
	WarnStockReversal  = "STOCK_REVERSAL_FAILED"
	WarnDanglingAlloc  = "DANGLING_ALLOCATION"
	WarnReconDiverged  = "RECONCILIATION_DIVERGENCE"
)

// Warning is a non-fatal condition surfaced to the operator. Historical
// data may predate stricter invariants, so these never abort a report.
type Warning struct {
	Code string `json:"code"`
	Ref  string `json:"ref,omitempty"`
	Msg  string `json:"msg"`
}

func warnf(code, ref, format string, args ...any) Warning {
	return Warning{Code: code, Ref: ref, Msg: fmt.Sprintf(format, args...)}
}
