package export

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kaustubhshukla9586/FinBuddy/internal/mirror"
	"github.com/kaustubhshukla9586/FinBuddy/internal/models"
)

// RawExporter reads the primary store's tables directly, bypassing the
// application layer, for one-time migration scenarios. A table missing from
// the source database is reported with a zero count and skipped; it never
// aborts the rest of the run.
type RawExporter struct {
	db    *sql.DB
	docs  mirror.DocumentStore
	colls mirror.Collections
	batch int
}

// NewRaw creates a RawExporter over an already-open database handle.
func NewRaw(db *sql.DB, docs mirror.DocumentStore, colls mirror.Collections, batch int) *RawExporter {
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	return &RawExporter{db: db, docs: docs, colls: colls, batch: batch}
}

// Run migrates every known table into its mirrored collection.
func (e *RawExporter) Run(ctx context.Context) (*Report, error) {
	report := &Report{Counts: make(map[string]int)}
	start := time.Now()

	steps := []struct {
		table string
		run   func(ctx context.Context, report *Report) error
	}{
		{"cash_transactions", e.migrateTransactions},
		{"people", e.migratePeople},
		{"bill_splits", e.migrateSplits},
		{"bill_split_items", e.migrateItems},
		{"bill_split_history", e.migrateHistory},
	}
	for _, step := range steps {
		if err := step.run(ctx, report); err != nil {
			if isMissingTable(err) {
				slog.Warn("source table missing, skipping", "table", step.table)
				continue
			}
			return nil, fmt.Errorf("failed to migrate %s: %w", step.table, err)
		}
	}

	report.RunID = "raw-migration"
	report.Duration = time.Since(start)
	return report, nil
}

func (e *RawExporter) migrateTransactions(ctx context.Context, report *Report) error {
	report.Counts[e.colls.Expenses] = 0
	report.Counts[e.colls.Incomes] = 0

	rows, err := e.db.QueryContext(ctx,
		`SELECT id, description, amount, type, source_or_destination, created_at FROM cash_transactions`)
	if err != nil {
		return err
	}
	defer rows.Close()

	var expenses, incomes []mirror.Document
	for rows.Next() {
		var (
			tx        models.CashTransaction
			amount    string
			createdAt int64
		)
		if err := rows.Scan(&tx.ID, &tx.Description, &amount, &tx.Type, &tx.SourceOrDestination, &createdAt); err != nil {
			return err
		}
		tx.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return fmt.Errorf("row %d: bad amount %q: %w", tx.ID, amount, err)
		}
		tx.CreatedAt = time.Unix(createdAt, 0).UTC()

		doc := mirror.NewCashDoc(&tx)
		if tx.Type == models.TransactionTypeExpense {
			expenses = append(expenses, doc)
		} else {
			incomes = append(incomes, doc)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if err := e.flush(ctx, report, e.colls.Expenses, expenses); err != nil {
		return err
	}
	return e.flush(ctx, report, e.colls.Incomes, incomes)
}

func (e *RawExporter) migratePeople(ctx context.Context, report *Report) error {
	report.Counts[e.colls.Users] = 0

	rows, err := e.db.QueryContext(ctx,
		`SELECT id, name, upi_id, phone, email, created_at, updated_at FROM people`)
	if err != nil {
		return err
	}
	defer rows.Close()

	var docs []mirror.Document
	for rows.Next() {
		var (
			p                    models.Person
			phone, email         sql.NullString
			createdAt, updatedAt int64
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.UPIID, &phone, &email, &createdAt, &updatedAt); err != nil {
			return err
		}
		p.Phone = phone.String
		p.Email = email.String
		p.CreatedAt = time.Unix(createdAt, 0).UTC()
		p.UpdatedAt = time.Unix(updatedAt, 0).UTC()
		docs = append(docs, mirror.NewUserDoc(&p))
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return e.flush(ctx, report, e.colls.Users, docs)
}

func (e *RawExporter) migrateSplits(ctx context.Context, report *Report) error {
	report.Counts[e.colls.Bills] = 0

	rows, err := e.db.QueryContext(ctx,
		`SELECT id, title, description, total_amount, split_type, is_settled, settled_at, created_at, updated_at FROM bill_splits`)
	if err != nil {
		return err
	}
	defer rows.Close()

	var docs []mirror.Document
	for rows.Next() {
		var (
			s                    models.BillSplit
			description          sql.NullString
			total                string
			isSettled            int
			settledAt            sql.NullInt64
			createdAt, updatedAt int64
		)
		if err := rows.Scan(&s.ID, &s.Title, &description, &total, &s.SplitType, &isSettled, &settledAt, &createdAt, &updatedAt); err != nil {
			return err
		}
		s.Description = description.String
		s.TotalAmount, err = decimal.NewFromString(total)
		if err != nil {
			return fmt.Errorf("row %d: bad total %q: %w", s.ID, total, err)
		}
		s.IsSettled = isSettled != 0
		if settledAt.Valid {
			t := time.Unix(settledAt.Int64, 0).UTC()
			s.SettledAt = &t
		}
		s.CreatedAt = time.Unix(createdAt, 0).UTC()
		s.UpdatedAt = time.Unix(updatedAt, 0).UTC()
		docs = append(docs, mirror.NewBillDoc(&s))
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return e.flush(ctx, report, e.colls.Bills, docs)
}

func (e *RawExporter) migrateItems(ctx context.Context, report *Report) error {
	report.Counts[e.colls.BillItems] = 0
	report.Counts[e.colls.Transactions] = 0

	rows, err := e.db.QueryContext(ctx,
		`SELECT id, split_id, person_id, amount, is_paid, paid_at, notes, created_at FROM bill_split_items`)
	if err != nil {
		return err
	}
	defer rows.Close()

	var items, payments []mirror.Document
	for rows.Next() {
		var (
			item      models.BillSplitItem
			amount    string
			isPaid    int
			paidAt    sql.NullInt64
			notes     sql.NullString
			createdAt int64
		)
		if err := rows.Scan(&item.ID, &item.SplitID, &item.PersonID, &amount, &isPaid, &paidAt, &notes, &createdAt); err != nil {
			return err
		}
		item.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return fmt.Errorf("row %d: bad amount %q: %w", item.ID, amount, err)
		}
		item.IsPaid = isPaid != 0
		if paidAt.Valid {
			t := time.Unix(paidAt.Int64, 0).UTC()
			item.PaidAt = &t
		}
		item.Notes = notes.String
		item.CreatedAt = time.Unix(createdAt, 0).UTC()

		items = append(items, mirror.NewBillItemDoc(&item))
		if item.IsPaid && item.PaidAt != nil {
			payments = append(payments, mirror.NewPaymentDoc(&item))
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if err := e.flush(ctx, report, e.colls.BillItems, items); err != nil {
		return err
	}
	return e.flush(ctx, report, e.colls.Transactions, payments)
}

func (e *RawExporter) migrateHistory(ctx context.Context, report *Report) error {
	report.Counts[e.colls.History] = 0

	rows, err := e.db.QueryContext(ctx,
		`SELECT id, split_id, action, description, created_at FROM bill_split_history`)
	if err != nil {
		return err
	}
	defer rows.Close()

	var docs []mirror.Document
	for rows.Next() {
		var (
			h         models.BillSplitHistory
			createdAt int64
		)
		if err := rows.Scan(&h.ID, &h.SplitID, &h.Action, &h.Description, &createdAt); err != nil {
			return err
		}
		h.CreatedAt = time.Unix(createdAt, 0).UTC()
		docs = append(docs, mirror.NewHistoryDoc(&h))
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return e.flush(ctx, report, e.colls.History, docs)
}

func (e *RawExporter) flush(ctx context.Context, report *Report, collection string, docs []mirror.Document) error {
	for start := 0; start < len(docs); start += e.batch {
		end := min(start+e.batch, len(docs))
		n, err := e.docs.BulkUpsert(ctx, collection, docs[start:end])
		if err != nil {
			return err
		}
		report.Counts[collection] += n
	}
	return nil
}

// isMissingTable reports whether err is sqlite's "no such table" error.
func isMissingTable(err error) bool {
	return err != nil && strings.Contains(err.Error(), "no such table")
}
