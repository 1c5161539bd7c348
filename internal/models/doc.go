// Package models defines the core domain models for FinBuddy.
//
// # Primary entities
//
// These are the rows of the relational system of record:
//   - CashTransaction: a single income or expense entry in the cash ledger
//   - Person: someone bills can be split with, identified by a UPI handle
//   - BillSplit: a bill divided among people, equally or by custom amounts
//   - BillSplitItem: one person's share of a bill split
//   - BillSplitHistory: append-only audit trail of split lifecycle events
//
// Amounts are decimal.Decimal throughout. Floating point only appears at the
// mirror boundary, where documents for the secondary store are built.
//
// # Design principles
//
// 1. **Decimal money**: share amounts must sum back to the split total exactly
// 2. **Append-only history**: history rows are never updated or deleted
// 3. **Derived aggregates**: remaining amounts are recomputed, never cached
// 4. **ID references**: models reference each other by ID, not by pointer
package models
