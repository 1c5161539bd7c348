package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kaustubhshukla9586/FinBuddy/internal/models"
	"github.com/kaustubhshukla9586/FinBuddy/internal/storage"
)

// CreateTransaction inserts a new cash transaction and populates its ID.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, tx *models.CashTransaction) error {
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO cash_transactions (description, amount, type, source_or_destination, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		tx.Description, tx.Amount.String(), tx.Type, tx.SourceOrDestination, tx.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read transaction id: %w", err)
	}
	tx.ID = id
	return nil
}

// GetTransaction retrieves a cash transaction by ID.
func (s *SQLiteStore) GetTransaction(ctx context.Context, id int64) (*models.CashTransaction, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, description, amount, type, source_or_destination, created_at
		 FROM cash_transactions WHERE id = ?`, id)

	tx, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("transaction %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return tx, nil
}

// UpdateTransaction updates an existing cash transaction.
func (s *SQLiteStore) UpdateTransaction(ctx context.Context, tx *models.CashTransaction) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE cash_transactions
		 SET description = ?, amount = ?, type = ?, source_or_destination = ?
		 WHERE id = ?`,
		tx.Description, tx.Amount.String(), tx.Type, tx.SourceOrDestination, tx.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %d: %w", tx.ID, storage.ErrNotFound)
	}
	return nil
}

// DeleteTransaction hard-deletes a cash transaction.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM cash_transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %d: %w", id, storage.ErrNotFound)
	}
	return nil
}

// ListTransactions returns all cash transactions, newest first.
func (s *SQLiteStore) ListTransactions(ctx context.Context) ([]*models.CashTransaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, description, amount, type, source_or_destination, created_at
		 FROM cash_transactions ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []*models.CashTransaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*models.CashTransaction, error) {
	tx := &models.CashTransaction{}
	var amount string
	var createdAt int64

	if err := row.Scan(&tx.ID, &tx.Description, &amount, &tx.Type, &tx.SourceOrDestination, &createdAt); err != nil {
		return nil, err
	}

	parsed, err := parseAmount(amount)
	if err != nil {
		return nil, err
	}
	tx.Amount = parsed
	tx.CreatedAt = time.Unix(createdAt, 0)
	return tx, nil
}
