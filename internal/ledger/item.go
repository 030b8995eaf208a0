package ledger

import "time"

// Item is an inventory record. The engine only touches stock when an
// invoice is posted or deleted; everything else is collaborator territory.
type Item struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	Unit      string    `json:"unit,omitempty"`
	Rate      int64     `json:"rate"`
	StockQty  float64   `json:"stock_qty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}
