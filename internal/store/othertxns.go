package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/ledger"
)

func (s *Store) CreateOtherTxn(ctx context.Context, t *ledger.OtherTxn) error {
	if t.ID == "" {
		t.ID = uuid.Must(uuid.NewV7()).String()
	}
	if t.Date.IsZero() {
		t.Date = time.Now().UTC()
	}
	if err := t.Validate(); err != nil {
		return err
	}

	_, err := s.writer.ExecContext(ctx,
		`INSERT INTO other_txns (id, company_id, kind, amount, from_id, to_id, note, date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.CompanyID, string(t.Kind), t.Amount, t.FromID, t.ToID, t.Note,
		t.Date.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert txn: %w", err)
	}
	return nil
}

func (s *Store) ListOtherTxns(ctx context.Context, filter TxnFilter) ([]ledger.OtherTxn, error) {
	query := `SELECT id, company_id, kind, amount, from_id, to_id, note, date, created_at
		FROM other_txns WHERE company_id = ?`
	args := []any{filter.CompanyID}

	if filter.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(filter.Kind))
	}
	query, args = rangeClause(query, args, "date", filter.From, filter.To)
	query += ` ORDER BY date, id`
	query = limitClause(query, filter.Limit, filter.Offset)

	rows, err := s.reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list txns: %w", err)
	}
	defer rows.Close()

	var txns []ledger.OtherTxn
	for rows.Next() {
		var t ledger.OtherTxn
		var kind, date, createdAt string
		if err := rows.Scan(&t.ID, &t.CompanyID, &kind, &t.Amount,
			&t.FromID, &t.ToID, &t.Note, &date, &createdAt); err != nil {
			return nil, fmt.Errorf("scan txn: %w", err)
		}
		t.Kind = ledger.TxnKind(kind)
		t.Date = parseTime(date)
		t.CreatedAt = parseTime(createdAt)
		txns = append(txns, t)
	}
	return txns, rows.Err()
}
