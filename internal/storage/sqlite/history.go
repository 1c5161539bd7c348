package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/kaustubhshukla9586/FinBuddy/internal/models"
)

// AppendHistory inserts a new history event. History rows are append-only;
// there is no corresponding update or delete.
func (s *SQLiteStore) AppendHistory(ctx context.Context, h *models.BillSplitHistory) error {
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO bill_split_history (split_id, action, description, created_at)
		 VALUES (?, ?, ?, ?)`,
		h.SplitID, h.Action, h.Description, h.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert history event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read history id: %w", err)
	}
	h.ID = id
	return nil
}

// ListHistoryBySplit returns a split's events newest first, for display.
func (s *SQLiteStore) ListHistoryBySplit(ctx context.Context, splitID int64) ([]*models.BillSplitHistory, error) {
	return s.listHistory(ctx,
		`SELECT id, split_id, action, description, created_at
		 FROM bill_split_history WHERE split_id = ? ORDER BY created_at DESC, id DESC`, splitID)
}

// ListHistory returns every event oldest first, for the batch exporter and
// causal reasoning.
func (s *SQLiteStore) ListHistory(ctx context.Context) ([]*models.BillSplitHistory, error) {
	return s.listHistory(ctx,
		`SELECT id, split_id, action, description, created_at
		 FROM bill_split_history ORDER BY created_at ASC, id ASC`)
}

func (s *SQLiteStore) listHistory(ctx context.Context, query string, args ...any) ([]*models.BillSplitHistory, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var events []*models.BillSplitHistory
	for rows.Next() {
		h := &models.BillSplitHistory{}
		var createdAt int64
		if err := rows.Scan(&h.ID, &h.SplitID, &h.Action, &h.Description, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan history event: %w", err)
		}
		h.CreatedAt = time.Unix(createdAt, 0)
		events = append(events, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}
	return events, nil
}
