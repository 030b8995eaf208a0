package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/ledger"
)

func (s *Store) CreateItem(ctx context.Context, item *ledger.Item) error {
	if item.ID == "" {
		item.ID = uuid.Must(uuid.NewV7()).String()
	}
	if item.Name == "" {
		return fmt.Errorf("item name is required")
	}

	_, err := s.writer.ExecContext(ctx,
		`INSERT INTO items (id, company_id, name, unit, rate, stock_qty) VALUES (?, ?, ?, ?, ?, ?)`,
		item.ID, item.CompanyID, item.Name, item.Unit, item.Rate, item.StockQty,
	)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (s *Store) GetItem(ctx context.Context, companyID, id string) (*ledger.Item, error) {
	var item ledger.Item
	var createdAt string
	err := s.reader.QueryRowContext(ctx,
		`SELECT id, company_id, name, unit, rate, stock_qty, created_at
		 FROM items WHERE company_id = ? AND id = ?`, companyID, id,
	).Scan(&item.ID, &item.CompanyID, &item.Name, &item.Unit, &item.Rate, &item.StockQty, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	item.CreatedAt = parseTime(createdAt)
	return &item, nil
}

func (s *Store) ListItems(ctx context.Context, companyID string) ([]ledger.Item, error) {
	rows, err := s.reader.QueryContext(ctx,
		`SELECT id, company_id, name, unit, rate, stock_qty, created_at
		 FROM items WHERE company_id = ? ORDER BY name`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []ledger.Item
	for rows.Next() {
		var item ledger.Item
		var createdAt string
		if err := rows.Scan(&item.ID, &item.CompanyID, &item.Name, &item.Unit,
			&item.Rate, &item.StockQty, &createdAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		item.CreatedAt = parseTime(createdAt)
		items = append(items, item)
	}
	return items, rows.Err()
}

// adjustStock shifts an item's stock inside an open write transaction.
// A missing item is reported, not fatal: the invoice still posts and the
// caller surfaces the warning.
func adjustStock(ctx context.Context, tx *sql.Tx, companyID, itemID string, delta float64) (bool, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE items SET stock_qty = stock_qty + ? WHERE company_id = ? AND id = ?`,
		delta, companyID, itemID)
	if err != nil {
		return false, fmt.Errorf("adjust stock: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
