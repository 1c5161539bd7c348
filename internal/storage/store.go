// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/kaustubhshukla9586/FinBuddy/internal/models"
)

// ErrNotFound is returned (wrapped) when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the write contract of the primary ledger store.
// Each method is a single transactional operation: atomic, and immediately
// visible to a subsequent read within the same process. This abstraction
// allows swapping storage backends without changing the service layer.
type Store interface {
	// Cash ledger.
	CreateTransaction(ctx context.Context, tx *models.CashTransaction) error
	GetTransaction(ctx context.Context, id int64) (*models.CashTransaction, error)
	UpdateTransaction(ctx context.Context, tx *models.CashTransaction) error
	DeleteTransaction(ctx context.Context, id int64) error
	// ListTransactions returns all cash transactions, newest first.
	ListTransactions(ctx context.Context) ([]*models.CashTransaction, error)

	// People.
	CreatePerson(ctx context.Context, p *models.Person) error
	GetPerson(ctx context.Context, id int64) (*models.Person, error)
	UpdatePerson(ctx context.Context, p *models.Person) error
	// ListPeople returns all people ordered by name.
	ListPeople(ctx context.Context) ([]*models.Person, error)

	// Bill splits. CreateSplit persists the split and its items in one
	// transaction; ID fields are populated by the store.
	CreateSplit(ctx context.Context, split *models.BillSplit, items []*models.BillSplitItem) error
	GetSplit(ctx context.Context, id int64) (*models.BillSplit, error)
	UpdateSplit(ctx context.Context, split *models.BillSplit) error
	// ListSplits returns all splits, newest first.
	ListSplits(ctx context.Context) ([]*models.BillSplit, error)

	// Split items.
	CreateItem(ctx context.Context, item *models.BillSplitItem) error
	GetItem(ctx context.Context, id int64) (*models.BillSplitItem, error)
	UpdateItem(ctx context.Context, item *models.BillSplitItem) error
	DeleteItem(ctx context.Context, id int64) error
	ListItemsBySplit(ctx context.Context, splitID int64) ([]*models.BillSplitItem, error)
	// ListItems returns every split item; used by the batch exporter.
	ListItems(ctx context.Context) ([]*models.BillSplitItem, error)

	// Audit history. Append-only: there is deliberately no update or delete.
	AppendHistory(ctx context.Context, h *models.BillSplitHistory) error
	// ListHistoryBySplit returns a split's events newest first, for display.
	ListHistoryBySplit(ctx context.Context, splitID int64) ([]*models.BillSplitHistory, error)
	// ListHistory returns every event oldest first; used by the exporter.
	ListHistory(ctx context.Context) ([]*models.BillSplitHistory, error)

	// Close releases any resources held by the store.
	Close() error
}
