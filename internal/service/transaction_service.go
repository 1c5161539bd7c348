// Package service implements the application write path: validation, the
// settlement lifecycle, audit history emission, and best-effort mirroring of
// every committed write.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kaustubhshukla9586/FinBuddy/internal/models"
	"github.com/kaustubhshukla9586/FinBuddy/internal/storage"
	"github.com/kaustubhshukla9586/FinBuddy/internal/sync"
)

// TransactionService manages the manual cash ledger.
type TransactionService struct {
	store storage.Store
	prop  *sync.Propagator
}

// NewTransactionService creates a TransactionService backed by the given
// store and propagator.
func NewTransactionService(store storage.Store, prop *sync.Propagator) *TransactionService {
	return &TransactionService{store: store, prop: prop}
}

// TransactionInput carries the fields of a cash ledger entry. Amount arrives
// as a string and is parsed to decimal so a non-numeric value is rejected
// before anything is persisted.
type TransactionInput struct {
	Description         string
	Amount              string
	Type                string
	SourceOrDestination string
}

func (in *TransactionInput) validate() (decimal.Decimal, error) {
	if strings.TrimSpace(in.Description) == "" {
		return decimal.Zero, fmt.Errorf("description is required")
	}
	if !models.ValidTransactionType(in.Type) {
		return decimal.Zero, fmt.Errorf("type must be %q or %q", models.TransactionTypeIncome, models.TransactionTypeExpense)
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(in.Amount))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", in.Amount)
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount cannot be negative")
	}
	return amount, nil
}

// Create records a new cash transaction and mirrors it.
func (s *TransactionService) Create(ctx context.Context, in TransactionInput) (*models.CashTransaction, error) {
	amount, err := in.validate()
	if err != nil {
		return nil, err
	}

	tx := &models.CashTransaction{
		Description:         strings.TrimSpace(in.Description),
		Amount:              amount,
		Type:                in.Type,
		SourceOrDestination: defaultString(in.SourceOrDestination, "Unknown"),
	}
	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	s.prop.TransactionSaved(ctx, tx)
	return tx, nil
}

// Update edits an existing cash transaction and mirrors the new state.
func (s *TransactionService) Update(ctx context.Context, id int64, in TransactionInput) (*models.CashTransaction, error) {
	amount, err := in.validate()
	if err != nil {
		return nil, err
	}

	tx, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	tx.Description = strings.TrimSpace(in.Description)
	tx.Amount = amount
	tx.Type = in.Type
	tx.SourceOrDestination = defaultString(in.SourceOrDestination, "Unknown")

	if err := s.store.UpdateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	s.prop.TransactionSaved(ctx, tx)
	return tx, nil
}

// Delete hard-deletes a cash transaction and removes its mirrored document.
func (s *TransactionService) Delete(ctx context.Context, id int64) error {
	tx, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return err
	}

	s.prop.TransactionDeleted(ctx, tx)
	return nil
}

// Get retrieves a cash transaction.
func (s *TransactionService) Get(ctx context.Context, id int64) (*models.CashTransaction, error) {
	return s.store.GetTransaction(ctx, id)
}

// List returns all cash transactions, newest first.
func (s *TransactionService) List(ctx context.Context) ([]*models.CashTransaction, error) {
	return s.store.ListTransactions(ctx)
}

// Totals sums the ledger into total income, total expense, and the balance.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

// Totals computes the ledger aggregates from all transactions.
func (s *TransactionService) Totals(ctx context.Context) (Totals, error) {
	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		return Totals{}, err
	}

	t := Totals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, tx := range txs {
		if tx.Type == models.TransactionTypeIncome {
			t.Income = t.Income.Add(tx.Amount)
		} else {
			t.Expense = t.Expense.Add(tx.Amount)
		}
	}
	t.Balance = t.Income.Sub(t.Expense)
	return t, nil
}

func defaultString(s, fallback string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	return s
}
