package store

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"
	"time"

	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/ledger"
	_ "modernc.org/sqlite"
)

// Every filter carries the tenant explicitly. There is no ambient
// company context anywhere in this package.

type PartyFilter struct {
	CompanyID string
	Role      ledger.Role
	Limit     int
	Offset    int
}

type InvoiceFilter struct {
	CompanyID string
	PartyID   string
	Type      ledger.InvoiceType
	From      time.Time
	To        time.Time
	Limit     int
	Offset    int
}

type PaymentFilter struct {
	CompanyID string
	PartyID   string
	Type      ledger.PaymentType
	From      time.Time
	To        time.Time
	Limit     int
	Offset    int
}

type TxnFilter struct {
	CompanyID string
	Kind      ledger.TxnKind
	From      time.Time
	To        time.Time
	Limit     int
	Offset    int
}

type Store struct {
	writer *sql.DB
	reader *sql.DB
}

func Open(dbPath string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)", dbPath)

	writer, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open writer: %w", err)
	}
	writer.SetMaxOpenConns(1)

	reader, err := sql.Open("sqlite", dsn)
	if err != nil {
		writer.Close()
		return nil, fmt.Errorf("open reader: %w", err)
	}
	reader.SetMaxOpenConns(runtime.NumCPU())

	s := &Store{writer: writer, reader: reader}

	if err := s.migrate(context.Background()); err != nil {
		s.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *Store) Close() error {
	err1 := s.writer.Close()
	err2 := s.reader.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

func rangeClause(query string, args []any, column string, from, to time.Time) (string, []any) {
	if !from.IsZero() {
		query += ` AND ` + column + ` >= ?`
		args = append(args, from.Format(time.RFC3339Nano))
	}
	if !to.IsZero() {
		query += ` AND ` + column + ` <= ?`
		args = append(args, to.Format(time.RFC3339Nano))
	}
	return query, args
}

func limitClause(query string, limit, offset int) string {
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, limit)
		if offset > 0 {
			query += fmt.Sprintf(` OFFSET %d`, offset)
		}
	}
	return query
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
