package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Split strategies for BillSplit.
const (
	SplitTypeEqual  = "equal"
	SplitTypeCustom = "custom"
)

// ValidSplitType reports whether t is one of the known split strategies.
func ValidSplitType(t string) bool {
	return t == SplitTypeEqual || t == SplitTypeCustom
}

// BillSplit is a bill divided among people.
//
// Invariant: the sum of its items' amounts equals TotalAmount at creation
// time, within one minor currency unit.
type BillSplit struct {
	// ID is the database-assigned row identifier.
	ID int64

	// Title is a short name for the bill.
	Title string

	// Description is optional free text.
	Description string

	// TotalAmount is the full bill amount being split.
	TotalAmount decimal.Decimal

	// SplitType is "equal" or "custom".
	SplitType string

	// IsSettled marks the whole bill as settled.
	IsSettled bool

	// SettledAt is set when IsSettled becomes true.
	SettledAt *time.Time

	// CreatedAt is when the split was created.
	CreatedAt time.Time

	// UpdatedAt is when the split was last modified.
	UpdatedAt time.Time
}

// BillSplitItem is one person's share of a bill split.
//
// At most one item exists per (split, person) pair. An item is either Pending
// or Paid; PaidAt is set exactly when IsPaid is true.
type BillSplitItem struct {
	// ID is the database-assigned row identifier.
	ID int64

	// SplitID is the bill split this item belongs to.
	SplitID int64

	// PersonID is the person who owes this share.
	PersonID int64

	// Amount is the share owed by the person.
	Amount decimal.Decimal

	// IsPaid reports whether the share has been paid.
	IsPaid bool

	// PaidAt is when the share was paid; nil while pending.
	PaidAt *time.Time

	// Notes is optional free text.
	Notes string

	// CreatedAt is when the item was created.
	CreatedAt time.Time
}

// MarkPaid transitions the item from Pending to Paid, stamping the payment
// time. It returns the history action to record for the transition.
func (i *BillSplitItem) MarkPaid(now time.Time) (string, error) {
	if i.IsPaid {
		return "", fmt.Errorf("item %d is already paid", i.ID)
	}
	i.IsPaid = true
	paidAt := now
	i.PaidAt = &paidAt
	return HistoryActionPaid, nil
}

// MarkUnpaid transitions the item from Paid back to Pending, clearing the
// payment time. It returns the history action to record for the transition.
func (i *BillSplitItem) MarkUnpaid() (string, error) {
	if !i.IsPaid {
		return "", fmt.Errorf("item %d is not paid", i.ID)
	}
	i.IsPaid = false
	i.PaidAt = nil
	return HistoryActionAmountChanged, nil
}

// RemainingAmount computes the unpaid balance of a split: the total minus the
// sum of currently-paid item amounts. This is a derived read and must be
// recomputed from the items on every call.
func RemainingAmount(split *BillSplit, items []*BillSplitItem) decimal.Decimal {
	paid := decimal.Zero
	for _, item := range items {
		if item.IsPaid {
			paid = paid.Add(item.Amount)
		}
	}
	return split.TotalAmount.Sub(paid)
}
