package ledger

import "time"

// TxnKind classifies manual income/expense transactions. These never
// become ledger entries for a counter-party; they feed the P&L and
// cashbook views only.
type TxnKind string

const (
	KindIncome   TxnKind = "income"
	KindExpense  TxnKind = "expense"
	KindTransfer TxnKind = "transfer"
	KindCapital  TxnKind = "capital"
	KindDrawings TxnKind = "drawings"
	KindContra   TxnKind = "contra"
)

var allTxnKinds = []TxnKind{
	KindIncome, KindExpense, KindTransfer, KindCapital, KindDrawings, KindContra,
}

type OtherTxn struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Kind      TxnKind   `json:"kind"`
	Amount    int64     `json:"amount"`
	FromID    string    `json:"from_id,omitempty"`
	ToID      string    `json:"to_id,omitempty"`
	Note      string    `json:"note,omitempty"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

func (t *OtherTxn) Validate() error {
	for _, k := range allTxnKinds {
		if t.Kind == k {
			return nil
		}
	}
	return ErrInvalidTxnKind
}
