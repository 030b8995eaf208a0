package ledger

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleSupplier Role = "supplier"
	RolePartner  Role = "partner"
	RoleOwner    Role = "owner"
	RoleEmployee Role = "employee"
	RoleCarting  Role = "carting"

	// System-account roles. Mutually exclusive with the counter-party
	// roles above: a party is either someone you trade with or an
	// internal money account, never both.
	RoleCash Role = "cash"
	RoleBank Role = "bank"
	RoleUPI  Role = "upi"
)

var AllRoles = []Role{
	RoleCustomer, RoleSupplier, RolePartner, RoleOwner,
	RoleEmployee, RoleCarting, RoleCash, RoleBank, RoleUPI,
}

// BalanceType is the DR/CR marker on a party's opening balance.
// DR is treated as a positive receivable.
type BalanceType string

const (
	BalanceDR BalanceType = "DR"
	BalanceCR BalanceType = "CR"
)

type Party struct {
	ID                 string      `json:"id"`
	CompanyID          string      `json:"company_id"`
	Name               string      `json:"name"`
	Contact            string      `json:"contact,omitempty"`
	Roles              []Role      `json:"roles"`
	OpeningBalance     int64       `json:"opening_balance"`
	OpeningBalanceType BalanceType `json:"opening_balance_type"`
	CreatedAt          time.Time   `json:"created_at,omitempty"`
}

// PartyClass drives the sign convention and direction filtering for every
// engine component. Role strings are classified exactly once, here.
type PartyClass int

const (
	CustomerLike PartyClass = iota
	SupplierLike
	SystemAccount
)

func (c PartyClass) String() string {
	switch c {
	case CustomerLike:
		return "customer-like"
	case SupplierLike:
		return "supplier-like"
	default:
		return "system-account"
	}
}

func isSystemRole(r Role) bool {
	return r == RoleCash || r == RoleBank || r == RoleUPI
}

// Classify maps a role set to its ledger class. Customer wins over
// supplier-like roles when both are present, matching the natural SALES
// direction of a party you both buy from and sell to.
func Classify(roles []Role) PartyClass {
	for _, r := range roles {
		if isSystemRole(r) {
			return SystemAccount
		}
	}
	for _, r := range roles {
		if r == RoleCustomer {
			return CustomerLike
		}
	}
	return SupplierLike
}

func (p *Party) Class() PartyClass {
	return Classify(p.Roles)
}

// OpeningAmount returns the signed opening balance: DR positive, CR negative.
func (p *Party) OpeningAmount() int64 {
	if p.OpeningBalanceType == BalanceCR {
		return -p.OpeningBalance
	}
	return p.OpeningBalance
}

func (p *Party) Validate() error {
	if p.ID == "" {
		return ErrInvalidPartyID
	}
	if p.Name == "" {
		return fmt.Errorf("party name is required")
	}
	if len(p.Roles) == 0 {
		return ErrEmptyRoleSet
	}
	system, counter := false, false
	for _, r := range p.Roles {
		if !validRole(r) {
			return ErrInvalidRole
		}
		if isSystemRole(r) {
			system = true
		} else {
			counter = true
		}
	}
	if system && counter {
		return ErrMixedSystemRoles
	}
	if p.OpeningBalanceType != BalanceDR && p.OpeningBalanceType != BalanceCR {
		return ErrInvalidBalanceType
	}
	return nil
}

func (p *Party) HasRole(role Role) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func validRole(r Role) bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}
