package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/ledger"
)

func paymentPrefix(t ledger.PaymentType) string {
	if t == ledger.PaymentPay {
		return "V"
	}
	return "R"
}

// CreatePayment posts a payment with its allocations. Each allocation
// bumps the target invoice's paid amount, and settles a recorded
// explicit due by the same amount, in the same transaction; the alloc
// trigger rejects over-allocation at the schema level too.
// Outstanding snapshots are stored exactly as given, never recomputed.
func (s *Store) CreatePayment(ctx context.Context, p *ledger.Payment) error {
	if p.ID == "" {
		p.ID = uuid.Must(uuid.NewV7()).String()
	}
	if p.Date.IsZero() {
		p.Date = time.Now().UTC()
	}
	if err := p.Validate(); err != nil {
		return err
	}

	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if p.Number == "" {
		p.Number, err = nextNumber(ctx, tx, "payments", p.CompanyID, string(p.Type), paymentPrefix(p.Type))
		if err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO payments (id, company_id, number, type, party_id, party_name,
			amount, mode, date, outstanding_before, outstanding_after)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.CompanyID, p.Number, string(p.Type), p.PartyID, p.PartyName,
		p.Amount, string(p.Mode), p.Date.Format(time.RFC3339Nano),
		p.OutstandingBefore, p.OutstandingAfter,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	for i, a := range p.Allocs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO payment_allocations (payment_id, invoice_id, applied_amount)
			 VALUES (?, ?, ?)`,
			p.ID, a.InvoiceID, a.AppliedAmount,
		); err != nil {
			return fmt.Errorf("insert allocation %d: %w", i, err)
		}

		// A recorded explicit due would otherwise shadow the growing
		// paid_amount in Invoice.Due and keep the invoice outstanding
		// after it is settled.
		res, err := tx.ExecContext(ctx,
			`UPDATE invoices SET
				paid_amount = paid_amount + ?,
				due_amount = CASE WHEN due_amount IS NULL THEN NULL
					ELSE MAX(0, due_amount - ?) END
			 WHERE company_id = ? AND id = ?`,
			a.AppliedAmount, a.AppliedAmount, p.CompanyID, a.InvoiceID,
		)
		if err != nil {
			return fmt.Errorf("apply allocation %d: %w", i, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("apply allocation %d: %w", i, err)
		}
		if n == 0 {
			return ledger.ErrInvoiceNotFound
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *Store) GetPayment(ctx context.Context, companyID, id string) (*ledger.Payment, error) {
	row := s.reader.QueryRowContext(ctx,
		`SELECT id, company_id, number, type, party_id, party_name, amount, mode, date,
			outstanding_before, outstanding_after, created_at
		 FROM payments WHERE company_id = ? AND id = ?`, companyID, id)

	p, err := scanPayment(row.Scan)
	if err != nil {
		return nil, err
	}
	p.Allocs, err = s.allocsFor(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) ListPayments(ctx context.Context, filter PaymentFilter) ([]ledger.Payment, error) {
	query := `SELECT id, company_id, number, type, party_id, party_name, amount, mode, date,
		outstanding_before, outstanding_after, created_at
		FROM payments WHERE company_id = ?`
	args := []any{filter.CompanyID}

	if filter.PartyID != "" {
		query += ` AND party_id = ?`
		args = append(args, filter.PartyID)
	}
	if filter.Type != "" {
		query += ` AND type = ?`
		args = append(args, string(filter.Type))
	}
	query, args = rangeClause(query, args, "date", filter.From, filter.To)
	query += ` ORDER BY date, number`
	query = limitClause(query, filter.Limit, filter.Offset)

	rows, err := s.reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []ledger.Payment
	for rows.Next() {
		p, err := scanPayment(rows.Scan)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range payments {
		payments[i].Allocs, err = s.allocsFor(ctx, payments[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return payments, nil
}

func (s *Store) allocsFor(ctx context.Context, paymentID string) ([]ledger.Allocation, error) {
	rows, err := s.reader.QueryContext(ctx,
		`SELECT invoice_id, applied_amount FROM payment_allocations
		 WHERE payment_id = ? ORDER BY id`, paymentID)
	if err != nil {
		return nil, fmt.Errorf("get allocations: %w", err)
	}
	defer rows.Close()

	var allocs []ledger.Allocation
	for rows.Next() {
		var a ledger.Allocation
		if err := rows.Scan(&a.InvoiceID, &a.AppliedAmount); err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		allocs = append(allocs, a)
	}
	return allocs, rows.Err()
}

func scanPayment(scan func(...any) error) (*ledger.Payment, error) {
	var p ledger.Payment
	var pType, mode, date, createdAt string

	err := scan(&p.ID, &p.CompanyID, &p.Number, &pType, &p.PartyID, &p.PartyName,
		&p.Amount, &mode, &date, &p.OutstandingBefore, &p.OutstandingAfter, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan payment: %w", err)
	}

	p.Type = ledger.PaymentType(pType)
	p.Mode = ledger.PaymentMode(mode)
	p.Date = parseTime(date)
	p.CreatedAt = parseTime(createdAt)
	return &p, nil
}
