package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/ledger"
)

func invoicePrefix(t ledger.InvoiceType) string {
	if t == ledger.InvoicePurchase {
		return "P"
	}
	return "S"
}

func nextNumber(ctx context.Context, tx *sql.Tx, table, companyID, typeColumnValue, prefix string) (string, error) {
	var count int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM `+table+` WHERE company_id = ? AND type = ?`,
		companyID, typeColumnValue).Scan(&count)
	if err != nil {
		return "", fmt.Errorf("next number: %w", err)
	}
	return fmt.Sprintf("%s-%04d", prefix, count+1), nil
}

// stockDelta is the +/- applied to item stock when an invoice posts.
// Sales ship goods out, purchases bring goods in.
func stockDelta(t ledger.InvoiceType, qty float64) float64 {
	if t == ledger.InvoiceSales {
		return -qty
	}
	return qty
}

// CreateInvoice runs the tax split calculator, assigns a number, posts
// the lines and adjusts stock. Stock problems come back as warnings;
// the invoice itself always posts atomically.
func (s *Store) CreateInvoice(ctx context.Context, inv *ledger.Invoice) ([]ledger.Warning, error) {
	if inv.ID == "" {
		inv.ID = uuid.Must(uuid.NewV7()).String()
	}
	if inv.Date.IsZero() {
		inv.Date = time.Now().UTC()
	}
	if err := inv.Validate(); err != nil {
		return nil, err
	}

	// Tax always runs before save; grand total is never taken from the
	// caller.
	ledger.ApplyTax(inv)

	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if inv.Number == "" {
		inv.Number, err = nextNumber(ctx, tx, "invoices", inv.CompanyID, string(inv.Type), invoicePrefix(inv.Type))
		if err != nil {
			return nil, err
		}
	}

	var overrideAmt sql.NullInt64
	var overrideMode sql.NullString
	if inv.Override != nil {
		overrideAmt = sql.NullInt64{Int64: inv.Override.Amount, Valid: true}
		overrideMode = sql.NullString{String: string(inv.Override.Mode), Valid: true}
	}
	var dueAmount sql.NullInt64
	if inv.DueAmount != nil {
		dueAmount = sql.NullInt64{Int64: *inv.DueAmount, Valid: true}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO invoices (id, company_id, number, type, party_id, party_name, date,
			subtotal, cgst_total, sgst_total, igst_total, round_off, grand_total,
			paid_amount, due_amount, payment_mode, override_amt, override_mode)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.CompanyID, inv.Number, string(inv.Type), inv.PartyID, inv.PartyName,
		inv.Date.Format(time.RFC3339Nano), inv.Subtotal, inv.CGSTTotal, inv.SGSTTotal,
		inv.IGSTTotal, inv.RoundOff, inv.GrandTotal, inv.PaidAmount, dueAmount,
		string(inv.PaymentMode), overrideAmt, overrideMode,
	)
	if err != nil {
		return nil, fmt.Errorf("insert invoice: %w", err)
	}

	warnings, err := insertLines(ctx, tx, inv, true)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return warnings, nil
}

func insertLines(ctx context.Context, tx *sql.Tx, inv *ledger.Invoice, adjust bool) ([]ledger.Warning, error) {
	var warnings []ledger.Warning
	for i, l := range inv.Lines {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO invoice_lines (invoice_id, item_id, item_name, qty, rate,
				discount_percent, tax_percent, tax_type, carting, amount)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			inv.ID, l.ItemID, l.ItemName, l.Qty, l.Rate,
			l.DiscountPercent, l.TaxPercent, string(l.TaxType), l.CartingAmount, l.Amount,
		)
		if err != nil {
			return nil, fmt.Errorf("insert line %d: %w", i, err)
		}
		if adjust && l.ItemID != "" {
			found, err := adjustStock(ctx, tx, inv.CompanyID, l.ItemID, stockDelta(inv.Type, l.Qty))
			if err != nil {
				return nil, err
			}
			if !found {
				warnings = append(warnings, ledger.Warning{
					Code: ledger.WarnMissingItem, Ref: inv.Number,
					Msg: fmt.Sprintf("line %d references unknown item %s; stock not adjusted", i+1, l.ItemID),
				})
			}
		}
	}
	return warnings, nil
}

func reverseLines(ctx context.Context, tx *sql.Tx, inv *ledger.Invoice) []ledger.Warning {
	var warnings []ledger.Warning
	for i, l := range inv.Lines {
		if l.ItemID == "" {
			continue
		}
		found, err := adjustStock(ctx, tx, inv.CompanyID, l.ItemID, -stockDelta(inv.Type, l.Qty))
		if err != nil || !found {
			warnings = append(warnings, ledger.Warning{
				Code: ledger.WarnStockReversal, Ref: inv.Number,
				Msg: fmt.Sprintf("stock reversal failed for line %d item %s", i+1, l.ItemID),
			})
		}
	}
	return warnings
}

// ReplaceInvoice is the full replace-on-edit path for the line list:
// reverse the old stock effect, drop the old lines, recompute tax and
// post the new ones. The party and number never change.
func (s *Store) ReplaceInvoice(ctx context.Context, inv *ledger.Invoice) ([]ledger.Warning, error) {
	existing, err := s.GetInvoice(ctx, inv.CompanyID, inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Number = existing.Number
	inv.PartyID = existing.PartyID
	inv.Type = existing.Type
	if err := inv.Validate(); err != nil {
		return nil, err
	}

	ledger.ApplyTax(inv)

	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	warnings := reverseLines(ctx, tx, existing)

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM invoice_lines WHERE invoice_id = ?`, inv.ID); err != nil {
		return nil, fmt.Errorf("clear lines: %w", err)
	}

	var overrideAmt sql.NullInt64
	var overrideMode sql.NullString
	if inv.Override != nil {
		overrideAmt = sql.NullInt64{Int64: inv.Override.Amount, Valid: true}
		overrideMode = sql.NullString{String: string(inv.Override.Mode), Valid: true}
	}
	var dueAmount sql.NullInt64
	if inv.DueAmount != nil {
		dueAmount = sql.NullInt64{Int64: *inv.DueAmount, Valid: true}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE invoices SET date = ?, subtotal = ?, cgst_total = ?, sgst_total = ?,
			igst_total = ?, round_off = ?, grand_total = ?, due_amount = ?,
			payment_mode = ?, override_amt = ?, override_mode = ?
		 WHERE company_id = ? AND id = ?`,
		inv.Date.Format(time.RFC3339Nano), inv.Subtotal, inv.CGSTTotal, inv.SGSTTotal,
		inv.IGSTTotal, inv.RoundOff, inv.GrandTotal, dueAmount,
		string(inv.PaymentMode), overrideAmt, overrideMode,
		inv.CompanyID, inv.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update invoice: %w", err)
	}

	more, err := insertLines(ctx, tx, inv, true)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, more...)

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return warnings, nil
}

// DeleteInvoice is a logical delete: reverse the stock effect, detach
// any payment allocations pointing at the invoice, then remove it.
// Partial failures come back as warnings: best-effort, not
// transactionally rolled back, matching the rest of the system.
func (s *Store) DeleteInvoice(ctx context.Context, companyID, id string) ([]ledger.Warning, error) {
	inv, err := s.GetInvoice(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	warnings := reverseLines(ctx, tx, inv)

	var dangling int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM payment_allocations WHERE invoice_id = ?`, id).Scan(&dangling); err != nil {
		return nil, fmt.Errorf("check allocations: %w", err)
	}
	if dangling > 0 {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM payment_allocations WHERE invoice_id = ?`, id); err != nil {
			return nil, fmt.Errorf("detach allocations: %w", err)
		}
		warnings = append(warnings, ledger.Warning{
			Code: ledger.WarnDanglingAlloc, Ref: inv.Number,
			Msg: fmt.Sprintf("%d payment allocation(s) detached; those payments are now unallocated", dangling),
		})
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM invoice_lines WHERE invoice_id = ?`, id); err != nil {
		return nil, fmt.Errorf("delete lines: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM invoices WHERE company_id = ? AND id = ?`, companyID, id); err != nil {
		return nil, fmt.Errorf("delete invoice: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return warnings, nil
}

func (s *Store) GetInvoice(ctx context.Context, companyID, id string) (*ledger.Invoice, error) {
	row := s.reader.QueryRowContext(ctx,
		`SELECT id, company_id, number, type, party_id, party_name, date,
			subtotal, cgst_total, sgst_total, igst_total, round_off, grand_total,
			paid_amount, due_amount, payment_mode, override_amt, override_mode, created_at
		 FROM invoices WHERE company_id = ? AND id = ?`, companyID, id)

	inv, err := scanInvoice(row.Scan)
	if err != nil {
		return nil, err
	}
	inv.Lines, err = s.linesFor(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *Store) ListInvoices(ctx context.Context, filter InvoiceFilter) ([]ledger.Invoice, error) {
	query := `SELECT id, company_id, number, type, party_id, party_name, date,
		subtotal, cgst_total, sgst_total, igst_total, round_off, grand_total,
		paid_amount, due_amount, payment_mode, override_amt, override_mode, created_at
		FROM invoices WHERE company_id = ?`
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
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []ledger.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows.Scan)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range invoices {
		invoices[i].Lines, err = s.linesFor(ctx, invoices[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return invoices, nil
}

func (s *Store) linesFor(ctx context.Context, invoiceID string) ([]ledger.InvoiceLine, error) {
	rows, err := s.reader.QueryContext(ctx,
		`SELECT item_id, item_name, qty, rate, discount_percent, tax_percent, tax_type, carting, amount
		 FROM invoice_lines WHERE invoice_id = ? ORDER BY id`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	defer rows.Close()

	var lines []ledger.InvoiceLine
	for rows.Next() {
		var l ledger.InvoiceLine
		var taxType string
		if err := rows.Scan(&l.ItemID, &l.ItemName, &l.Qty, &l.Rate,
			&l.DiscountPercent, &l.TaxPercent, &taxType, &l.CartingAmount, &l.Amount); err != nil {
			return nil, fmt.Errorf("scan line: %w", err)
		}
		l.TaxType = ledger.TaxType(taxType)
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func scanInvoice(scan func(...any) error) (*ledger.Invoice, error) {
	var inv ledger.Invoice
	var invType, mode, date, createdAt string
	var dueAmount, overrideAmt sql.NullInt64
	var overrideMode sql.NullString

	err := scan(&inv.ID, &inv.CompanyID, &inv.Number, &invType, &inv.PartyID, &inv.PartyName,
		&date, &inv.Subtotal, &inv.CGSTTotal, &inv.SGSTTotal, &inv.IGSTTotal,
		&inv.RoundOff, &inv.GrandTotal, &inv.PaidAmount, &dueAmount, &mode,
		&overrideAmt, &overrideMode, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrInvoiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan invoice: %w", err)
	}

	inv.Type = ledger.InvoiceType(invType)
	inv.PaymentMode = ledger.PaymentMode(mode)
	inv.Date = parseTime(date)
	inv.CreatedAt = parseTime(createdAt)
	if dueAmount.Valid {
		v := dueAmount.Int64
		inv.DueAmount = &v
	}
	if overrideAmt.Valid {
		inv.Override = &ledger.TaxOverride{
			Amount: overrideAmt.Int64,
			Mode:   ledger.TaxType(overrideMode.String),
		}
	}
	return &inv, nil
}
