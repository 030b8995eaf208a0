package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/ledger"
)

func (s *Store) CreateParty(ctx context.Context, p *ledger.Party) error {
	if p.ID == "" {
		p.ID = uuid.Must(uuid.NewV7()).String()
	}
	if err := p.Validate(); err != nil {
		return err
	}

	roles := make([]string, len(p.Roles))
	for i, r := range p.Roles {
		roles[i] = string(r)
	}

	_, err := s.writer.ExecContext(ctx,
		`INSERT INTO parties (id, company_id, name, contact, roles, opening_balance, opening_type)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.CompanyID, p.Name, p.Contact, strings.Join(roles, ","),
		p.OpeningBalance, string(p.OpeningBalanceType),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return ledger.ErrDuplicateParty
		}
		return fmt.Errorf("insert party: %w", err)
	}
	return nil
}

func (s *Store) GetParty(ctx context.Context, companyID, id string) (*ledger.Party, error) {
	row := s.reader.QueryRowContext(ctx,
		`SELECT id, company_id, name, contact, roles, opening_balance, opening_type, created_at
		 FROM parties WHERE company_id = ? AND id = ?`, companyID, id)
	return scanParty(row.Scan)
}

func (s *Store) ListParties(ctx context.Context, filter PartyFilter) ([]ledger.Party, error) {
	query := `SELECT id, company_id, name, contact, roles, opening_balance, opening_type, created_at
		FROM parties WHERE company_id = ?`
	args := []any{filter.CompanyID}

	query += ` ORDER BY name`
	query = limitClause(query, filter.Limit, filter.Offset)

	rows, err := s.reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list parties: %w", err)
	}
	defer rows.Close()

	var parties []ledger.Party
	for rows.Next() {
		p, err := scanParty(rows.Scan)
		if err != nil {
			return nil, err
		}
		// Role filtering happens here rather than in SQL: the role set
		// is a small comma-joined list and the party table is small.
		if filter.Role != "" && !p.HasRole(filter.Role) {
			continue
		}
		parties = append(parties, *p)
	}
	return parties, rows.Err()
}

// DeleteParty refuses when posted documents reference the party.
func (s *Store) DeleteParty(ctx context.Context, companyID, id string) error {
	if _, err := s.GetParty(ctx, companyID, id); err != nil {
		return err
	}

	var count int
	err := s.reader.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM invoices WHERE company_id = ? AND party_id = ?)
		      + (SELECT COUNT(*) FROM payments WHERE company_id = ? AND party_id = ?)`,
		companyID, id, companyID, id).Scan(&count)
	if err != nil {
		return fmt.Errorf("check party documents: %w", err)
	}
	if count > 0 {
		return ledger.ErrPartyHasDocuments
	}

	_, err = s.writer.ExecContext(ctx,
		`DELETE FROM parties WHERE company_id = ? AND id = ?`, companyID, id)
	if err != nil {
		return fmt.Errorf("delete party: %w", err)
	}
	return nil
}

// UpdatePartyContact edits balance-irrelevant fields only; roles and
// opening balance are immutable once the party exists.
func (s *Store) UpdatePartyContact(ctx context.Context, companyID, id, name, contact string) error {
	res, err := s.writer.ExecContext(ctx,
		`UPDATE parties SET name = ?, contact = ? WHERE company_id = ? AND id = ?`,
		name, contact, companyID, id)
	if err != nil {
		return fmt.Errorf("update party: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ledger.ErrPartyNotFound
	}
	return nil
}

// CashAccountIDs returns the ids of the company's cash-role parties.
func (s *Store) CashAccountIDs(ctx context.Context, companyID string) (map[string]bool, error) {
	parties, err := s.ListParties(ctx, PartyFilter{CompanyID: companyID, Role: ledger.RoleCash})
	if err != nil {
		return nil, err
	}
	ids := make(map[string]bool, len(parties))
	for _, p := range parties {
		ids[p.ID] = true
	}
	return ids, nil
}

func scanParty(scan func(...any) error) (*ledger.Party, error) {
	var p ledger.Party
	var roles, openingType, createdAt string
	err := scan(&p.ID, &p.CompanyID, &p.Name, &p.Contact, &roles,
		&p.OpeningBalance, &openingType, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrPartyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan party: %w", err)
	}
	for _, r := range strings.Split(roles, ",") {
		if r != "" {
			p.Roles = append(p.Roles, ledger.Role(r))
		}
	}
	p.OpeningBalanceType = ledger.BalanceType(openingType)
	p.CreatedAt = parseTime(createdAt)
	return &p, nil
}
