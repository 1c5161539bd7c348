package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kaustubhshukla9586/FinBuddy/internal/models"
	"github.com/kaustubhshukla9586/FinBuddy/internal/storage"
)

// CreateSplit persists a split and its items in one transaction.
// IDs and creation timestamps are populated on the passed models.
func (s *SQLiteStore) CreateSplit(ctx context.Context, split *models.BillSplit, items []*models.BillSplitItem) error {
	now := time.Now()
	if split.CreatedAt.IsZero() {
		split.CreatedAt = now
	}
	split.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO bill_splits (title, description, total_amount, split_type, is_settled, settled_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		split.Title, nullableString(split.Description), split.TotalAmount.String(), split.SplitType,
		boolToInt(split.IsSettled), nullableUnix(split.SettledAt),
		split.CreatedAt.Unix(), split.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert split: %w", err)
	}
	splitID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read split id: %w", err)
	}
	split.ID = splitID

	for _, item := range items {
		item.SplitID = splitID
		if item.CreatedAt.IsZero() {
			item.CreatedAt = now
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO bill_split_items (split_id, person_id, amount, is_paid, paid_at, notes, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			item.SplitID, item.PersonID, item.Amount.String(),
			boolToInt(item.IsPaid), nullableUnix(item.PaidAt), nullableString(item.Notes),
			item.CreatedAt.Unix(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert split item: %w", err)
		}
		itemID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read split item id: %w", err)
		}
		item.ID = itemID
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetSplit retrieves a bill split by ID.
func (s *SQLiteStore) GetSplit(ctx context.Context, id int64) (*models.BillSplit, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, total_amount, split_type, is_settled, settled_at, created_at, updated_at
		 FROM bill_splits WHERE id = ?`, id)

	split, err := scanSplit(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("split %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get split: %w", err)
	}
	return split, nil
}

// UpdateSplit updates a split's mutable fields and bumps its updated timestamp.
func (s *SQLiteStore) UpdateSplit(ctx context.Context, split *models.BillSplit) error {
	split.UpdatedAt = time.Now()

	res, err := s.db.ExecContext(ctx,
		`UPDATE bill_splits
		 SET title = ?, description = ?, total_amount = ?, split_type = ?, is_settled = ?, settled_at = ?, updated_at = ?
		 WHERE id = ?`,
		split.Title, nullableString(split.Description), split.TotalAmount.String(), split.SplitType,
		boolToInt(split.IsSettled), nullableUnix(split.SettledAt), split.UpdatedAt.Unix(), split.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update split: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("split %d: %w", split.ID, storage.ErrNotFound)
	}
	return nil
}

// ListSplits returns all splits, newest first.
func (s *SQLiteStore) ListSplits(ctx context.Context) ([]*models.BillSplit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, total_amount, split_type, is_settled, settled_at, created_at, updated_at
		 FROM bill_splits ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list splits: %w", err)
	}
	defer rows.Close()

	var splits []*models.BillSplit
	for rows.Next() {
		split, err := scanSplit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		splits = append(splits, split)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}
	return splits, nil
}

// CreateItem inserts a single split item (adding a person to an existing split).
func (s *SQLiteStore) CreateItem(ctx context.Context, item *models.BillSplitItem) error {
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO bill_split_items (split_id, person_id, amount, is_paid, paid_at, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.SplitID, item.PersonID, item.Amount.String(),
		boolToInt(item.IsPaid), nullableUnix(item.PaidAt), nullableString(item.Notes),
		item.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert split item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read split item id: %w", err)
	}
	item.ID = id
	return nil
}

// GetItem retrieves a split item by ID.
func (s *SQLiteStore) GetItem(ctx context.Context, id int64) (*models.BillSplitItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, split_id, person_id, amount, is_paid, paid_at, notes, created_at
		 FROM bill_split_items WHERE id = ?`, id)

	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("split item %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get split item: %w", err)
	}
	return item, nil
}

// UpdateItem updates a split item's amount, payment state and notes.
func (s *SQLiteStore) UpdateItem(ctx context.Context, item *models.BillSplitItem) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE bill_split_items SET amount = ?, is_paid = ?, paid_at = ?, notes = ?
		 WHERE id = ?`,
		item.Amount.String(), boolToInt(item.IsPaid), nullableUnix(item.PaidAt),
		nullableString(item.Notes), item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update split item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("split item %d: %w", item.ID, storage.ErrNotFound)
	}
	return nil
}

// DeleteItem removes a split item (removing a person from a split).
func (s *SQLiteStore) DeleteItem(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM bill_split_items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete split item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("split item %d: %w", id, storage.ErrNotFound)
	}
	return nil
}

// ListItemsBySplit returns a split's items ordered by creation.
func (s *SQLiteStore) ListItemsBySplit(ctx context.Context, splitID int64) ([]*models.BillSplitItem, error) {
	return s.listItems(ctx,
		`SELECT id, split_id, person_id, amount, is_paid, paid_at, notes, created_at
		 FROM bill_split_items WHERE split_id = ? ORDER BY id`, splitID)
}

// ListItems returns every split item; used by the batch exporter.
func (s *SQLiteStore) ListItems(ctx context.Context) ([]*models.BillSplitItem, error) {
	return s.listItems(ctx,
		`SELECT id, split_id, person_id, amount, is_paid, paid_at, notes, created_at
		 FROM bill_split_items ORDER BY id`)
}

func (s *SQLiteStore) listItems(ctx context.Context, query string, args ...any) ([]*models.BillSplitItem, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list split items: %w", err)
	}
	defer rows.Close()

	var items []*models.BillSplitItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan split item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate split items: %w", err)
	}
	return items, nil
}

func scanSplit(row rowScanner) (*models.BillSplit, error) {
	split := &models.BillSplit{}
	var description sql.NullString
	var amount string
	var isSettled int
	var settledAt sql.NullInt64
	var createdAt, updatedAt int64

	if err := row.Scan(&split.ID, &split.Title, &description, &amount, &split.SplitType,
		&isSettled, &settledAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	parsed, err := parseAmount(amount)
	if err != nil {
		return nil, err
	}
	split.Description = description.String
	split.TotalAmount = parsed
	split.IsSettled = isSettled != 0
	split.SettledAt = timePtr(settledAt)
	split.CreatedAt = time.Unix(createdAt, 0)
	split.UpdatedAt = time.Unix(updatedAt, 0)
	return split, nil
}

func scanItem(row rowScanner) (*models.BillSplitItem, error) {
	item := &models.BillSplitItem{}
	var amount string
	var isPaid int
	var paidAt sql.NullInt64
	var notes sql.NullString
	var createdAt int64

	if err := row.Scan(&item.ID, &item.SplitID, &item.PersonID, &amount,
		&isPaid, &paidAt, &notes, &createdAt); err != nil {
		return nil, err
	}

	parsed, err := parseAmount(amount)
	if err != nil {
		return nil, err
	}
	item.Amount = parsed
	item.IsPaid = isPaid != 0
	item.PaidAt = timePtr(paidAt)
	item.Notes = notes.String
	item.CreatedAt = time.Unix(createdAt, 0)
	return item, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
