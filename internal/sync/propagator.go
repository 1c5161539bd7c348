// Package sync implements the real-time propagator that mirrors primary
// ledger writes into the secondary document store.
//
// Propagation is strictly best-effort: it runs inline after the primary write
// has committed, bounded by a timeout, and every failure is swallowed at the
// point of origin. The primary write path never fails, blocks, or retries
// because of the mirror. Drift caused by swallowed failures is repaired by
// the batch exporter in internal/export.
package sync

import (
	"context"
	"log/slog"
	"time"

	"github.com/kaustubhshukla9586/FinBuddy/internal/mirror"
	"github.com/kaustubhshukla9586/FinBuddy/internal/models"
)

// DefaultTimeout bounds each propagation attempt when no timeout is
// configured.
const DefaultTimeout = 3 * time.Second

// Result reports the outcome of one propagation attempt. Callers must not
// treat a failed Result as a failure of the primary operation; the value
// exists so the outcome is observable, not actionable.
type Result struct {
	// Entity is the kind of document that was propagated.
	Entity string

	// Key is the derived business key of the document.
	Key string

	// Err is the swallowed propagation error, if any.
	Err error

	// Skipped is true when no secondary store is configured.
	Skipped bool
}

// Ok reports whether the document actually reached the secondary store.
func (r Result) Ok() bool {
	return r.Err == nil && !r.Skipped
}

// Propagator mirrors individual primary-store writes into the secondary
// store. A nil document store disables propagation; every call then returns
// a skipped Result.
type Propagator struct {
	docs    mirror.DocumentStore
	colls   mirror.Collections
	timeout time.Duration
	metrics *Metrics
}

// New creates a propagator writing through docs into the named collections.
// timeout <= 0 means DefaultTimeout; metrics may be nil.
func New(docs mirror.DocumentStore, colls mirror.Collections, timeout time.Duration, metrics *Metrics) *Propagator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Propagator{docs: docs, colls: colls, timeout: timeout, metrics: metrics}
}

// Enabled reports whether a secondary store is configured.
func (p *Propagator) Enabled() bool {
	return p != nil && p.docs != nil
}

// PersonSaved mirrors a created or updated person.
func (p *Propagator) PersonSaved(ctx context.Context, person *models.Person) Result {
	doc := mirror.NewUserDoc(person)
	return p.upsert(ctx, "person", p.colls.Users, doc)
}

// SplitSaved mirrors a created or updated bill split.
func (p *Propagator) SplitSaved(ctx context.Context, split *models.BillSplit) Result {
	doc := mirror.NewBillDoc(split)
	return p.upsert(ctx, "bill", p.colls.Bills, doc)
}

// ItemSaved mirrors a created or updated split item. When the item is
// currently paid it additionally synthesizes the derived payment transaction
// document. When the item has just flipped back to unpaid, any previously
// synthesized payment document is left behind on purpose: it is re-derived,
// not deleted, on the next reconciliation pass.
func (p *Propagator) ItemSaved(ctx context.Context, item *models.BillSplitItem) Result {
	res := p.upsert(ctx, "item", p.colls.BillItems, mirror.NewBillItemDoc(item))
	if !res.Ok() {
		return res
	}
	if item.IsPaid && item.PaidAt != nil {
		return p.upsert(ctx, "payment", p.colls.Transactions, mirror.NewPaymentDoc(item))
	}
	return res
}

// HistorySaved mirrors an appended history event.
func (p *Propagator) HistorySaved(ctx context.Context, h *models.BillSplitHistory) Result {
	doc := mirror.NewHistoryDoc(h)
	return p.upsert(ctx, "history", p.colls.History, doc)
}

// TransactionSaved mirrors a created or updated cash transaction into the
// collection matching its type.
func (p *Propagator) TransactionSaved(ctx context.Context, tx *models.CashTransaction) Result {
	return p.upsert(ctx, "cash", p.cashCollection(tx.Type), mirror.NewCashDoc(tx))
}

// TransactionDeleted removes the mirrored document of a deleted cash
// transaction. This is the only delete path the propagator has; all other
// entities are upsert-only.
func (p *Propagator) TransactionDeleted(ctx context.Context, tx *models.CashTransaction) Result {
	key := mirror.DeriveKey(mirror.KindCashTransaction, tx.ID)
	if !p.Enabled() {
		return Result{Entity: "cash", Key: key, Skipped: true}
	}

	p.metrics.Attempt("cash")
	opCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.docs.Delete(opCtx, p.cashCollection(tx.Type), "tx_id", key); err != nil {
		p.metrics.Failure("cash")
		slog.Warn("mirror delete failed", "entity", "cash", "key", key, "error", err)
		return Result{Entity: "cash", Key: key, Err: err}
	}
	return Result{Entity: "cash", Key: key}
}

func (p *Propagator) upsert(ctx context.Context, entity, collection string, doc mirror.Document) Result {
	if !p.Enabled() {
		return Result{Entity: entity, Key: doc.Key(), Skipped: true}
	}

	p.metrics.Attempt(entity)
	opCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.docs.Upsert(opCtx, collection, doc); err != nil {
		p.metrics.Failure(entity)
		slog.Warn("mirror sync failed", "entity", entity, "key", doc.Key(), "error", err)
		return Result{Entity: entity, Key: doc.Key(), Err: err}
	}
	return Result{Entity: entity, Key: doc.Key()}
}

func (p *Propagator) cashCollection(txType string) string {
	if txType == models.TransactionTypeIncome {
		return p.colls.Incomes
	}
	return p.colls.Expenses
}
