package store

import (
	"context"
	"database/sql"
	"fmt"
)

func (s *Store) migrate(ctx context.Context) error {
	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)
	`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	var version int
	err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	if version < 1 {
		if err := migrateV1(ctx, tx); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return tx.Commit()
}

func migrateV1(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS parties (
			id              TEXT PRIMARY KEY,
			company_id      TEXT NOT NULL,
			name            TEXT NOT NULL,
			contact         TEXT NOT NULL DEFAULT '',
			roles           TEXT NOT NULL,
			opening_balance INTEGER NOT NULL DEFAULT 0,
			opening_type    TEXT NOT NULL DEFAULT 'DR' CHECK (opening_type IN ('DR','CR')),
			created_at      TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_parties_company ON parties(company_id)`,

		`CREATE TABLE IF NOT EXISTS items (
			id         TEXT PRIMARY KEY,
			company_id TEXT NOT NULL,
			name       TEXT NOT NULL,
			unit       TEXT NOT NULL DEFAULT '',
			rate       INTEGER NOT NULL DEFAULT 0,
			stock_qty  REAL NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_company ON items(company_id)`,

		`CREATE TABLE IF NOT EXISTS invoices (
			id            TEXT PRIMARY KEY,
			company_id    TEXT NOT NULL,
			number        TEXT NOT NULL,
			type          TEXT NOT NULL CHECK (type IN ('SALES','PURCHASE')),
			party_id      TEXT NOT NULL,
			party_name    TEXT NOT NULL DEFAULT '',
			date          TEXT NOT NULL,
			subtotal      INTEGER NOT NULL DEFAULT 0,
			cgst_total    INTEGER NOT NULL DEFAULT 0,
			sgst_total    INTEGER NOT NULL DEFAULT 0,
			igst_total    INTEGER NOT NULL DEFAULT 0,
			round_off     INTEGER NOT NULL DEFAULT 0,
			grand_total   INTEGER NOT NULL DEFAULT 0,
			paid_amount   INTEGER NOT NULL DEFAULT 0,
			due_amount    INTEGER,
			payment_mode  TEXT NOT NULL DEFAULT 'credit',
			override_amt  INTEGER,
			override_mode TEXT,
			created_at    TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_invoices_company_party ON invoices(company_id, party_id)`,
		`CREATE INDEX IF NOT EXISTS idx_invoices_company_date ON invoices(company_id, date)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_invoices_number ON invoices(company_id, number)`,

		`CREATE TABLE IF NOT EXISTS invoice_lines (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			invoice_id       TEXT NOT NULL REFERENCES invoices(id) ON DELETE CASCADE,
			item_id          TEXT NOT NULL,
			item_name        TEXT NOT NULL DEFAULT '',
			qty              REAL NOT NULL,
			rate             INTEGER NOT NULL DEFAULT 0,
			discount_percent REAL NOT NULL DEFAULT 0,
			tax_percent      REAL NOT NULL DEFAULT 0,
			tax_type         TEXT NOT NULL CHECK (tax_type IN ('CGST_SGST','IGST')),
			carting          INTEGER NOT NULL DEFAULT 0,
			amount           INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_lines_invoice ON invoice_lines(invoice_id)`,

		`CREATE TABLE IF NOT EXISTS payments (
			id                 TEXT PRIMARY KEY,
			company_id         TEXT NOT NULL,
			number             TEXT NOT NULL,
			type               TEXT NOT NULL CHECK (type IN ('receive','pay')),
			party_id           TEXT NOT NULL,
			party_name         TEXT NOT NULL DEFAULT '',
			amount             INTEGER NOT NULL,
			mode               TEXT NOT NULL DEFAULT 'cash',
			date               TEXT NOT NULL,
			outstanding_before INTEGER NOT NULL DEFAULT 0,
			outstanding_after  INTEGER NOT NULL DEFAULT 0,
			created_at         TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_company_party ON payments(company_id, party_id)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_payments_number ON payments(company_id, number)`,

		`CREATE TABLE IF NOT EXISTS payment_allocations (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			payment_id     TEXT NOT NULL REFERENCES payments(id) ON DELETE CASCADE,
			invoice_id     TEXT NOT NULL,
			applied_amount INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_allocs_payment ON payment_allocations(payment_id)`,
		`CREATE INDEX IF NOT EXISTS idx_allocs_invoice ON payment_allocations(invoice_id)`,

		`CREATE TABLE IF NOT EXISTS other_txns (
			id         TEXT PRIMARY KEY,
			company_id TEXT NOT NULL,
			kind       TEXT NOT NULL CHECK (kind IN ('income','expense','transfer','capital','drawings','contra')),
			amount     INTEGER NOT NULL,
			from_id    TEXT NOT NULL DEFAULT '',
			to_id      TEXT NOT NULL DEFAULT '',
			note       TEXT NOT NULL DEFAULT '',
			date       TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_txns_company_date ON other_txns(company_id, date)`,

		// Trigger: allocations may never exceed the payment amount
		`CREATE TRIGGER IF NOT EXISTS trg_alloc_within_amount
		BEFORE INSERT ON payment_allocations
		WHEN (
			SELECT COALESCE(SUM(applied_amount), 0) FROM payment_allocations
			WHERE payment_id = NEW.payment_id
		) + NEW.applied_amount > (SELECT amount FROM payments WHERE id = NEW.payment_id)
		BEGIN
			SELECT RAISE(ABORT, 'allocations exceed payment amount');
		END`,

		// Trigger: a posted invoice cannot be moved to another party
		`CREATE TRIGGER IF NOT EXISTS trg_invoice_party_locked
		BEFORE UPDATE OF party_id ON invoices
		WHEN NEW.party_id != OLD.party_id
		BEGIN
			SELECT RAISE(ABORT, 'invoice party cannot be changed');
		END`,

		`INSERT INTO schema_version (version) VALUES (1)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:60], err)
		}
	}

	return nil
}
