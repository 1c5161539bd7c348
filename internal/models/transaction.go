package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types for CashTransaction.
const (
	TransactionTypeIncome  = "income"
	TransactionTypeExpense = "expense"
)

// ValidTransactionType reports whether t is one of the known transaction types.
func ValidTransactionType(t string) bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// CashTransaction is a single entry in the manual cash ledger.
//
// Amount is a non-negative magnitude; the sign is implied by Type. An expense
// of 50.00 is stored as amount=50.00, type=expense.
type CashTransaction struct {
	// ID is the database-assigned row identifier.
	ID int64

	// Description is a short human-readable label for the entry.
	Description string

	// Amount is the monetary magnitude of the entry (always >= 0).
	Amount decimal.Decimal

	// Type is either "income" or "expense".
	Type string

	// SourceOrDestination records where the money came from or went to.
	SourceOrDestination string

	// CreatedAt is when the entry was recorded.
	CreatedAt time.Time
}
