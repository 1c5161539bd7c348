// Package export implements the batch reconciliation job: a full regeneration
// of the secondary store's mirrored documents from the primary ledger.
//
// Every write is an upsert keyed by the derived business key, so the job is
// idempotent and safely re-runnable for backfill or repair. Documents absent
// from the source are not deleted, with one exception: derived payment
// documents are a projection and are regenerated, so stale ones for items no
// longer paid are removed.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kaustubhshukla9586/FinBuddy/internal/mirror"
	"github.com/kaustubhshukla9586/FinBuddy/internal/storage"
)

// DefaultBatchSize is the chunk size used when the caller does not set one.
const DefaultBatchSize = 100

// Report summarizes one exporter run.
type Report struct {
	// RunID identifies the run in logs.
	RunID string

	// Counts is the number of documents upserted per collection.
	Counts map[string]int

	// StalePayments is how many invalidated payment documents were removed.
	StalePayments int

	// Duration is the wall-clock time of the run.
	Duration time.Duration
}

// Total returns the number of documents upserted across all collections.
func (r *Report) Total() int {
	n := 0
	for _, c := range r.Counts {
		n += c
	}
	return n
}

// Exporter regenerates mirrored documents from the primary ledger store.
type Exporter struct {
	store storage.Store
	docs  mirror.DocumentStore
	colls mirror.Collections
	batch int
}

// New creates an Exporter writing through docs in chunks of batch documents.
// A non-positive batch falls back to DefaultBatchSize.
func New(store storage.Store, docs mirror.DocumentStore, colls mirror.Collections, batch int) *Exporter {
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	return &Exporter{store: store, docs: docs, colls: colls, batch: batch}
}

// ExportCashTransactions mirrors the full cash ledger into the expenses and
// incomes collections, shaped by transaction type.
func (e *Exporter) ExportCashTransactions(ctx context.Context) (*Report, error) {
	report := e.newReport()
	start := time.Now()

	txs, err := e.store.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	var expenses, incomes []mirror.Document
	for _, tx := range txs {
		doc := mirror.NewCashDoc(tx)
		if _, ok := doc.(mirror.ExpenseDoc); ok {
			expenses = append(expenses, doc)
		} else {
			incomes = append(incomes, doc)
		}
	}

	if err := e.upsertAll(ctx, report, e.colls.Expenses, expenses); err != nil {
		return nil, err
	}
	if err := e.upsertAll(ctx, report, e.colls.Incomes, incomes); err != nil {
		return nil, err
	}

	report.Duration = time.Since(start)
	slog.Info("cash transaction export complete",
		"run_id", report.RunID, "total", report.Total(), "duration", report.Duration)
	return report, nil
}

// ExportBillSplits mirrors people, bill splits, items, and history, then
// regenerates the derived payment documents: for every item, stale payment
// documents are removed and a fresh one is written if the item is currently
// paid.
func (e *Exporter) ExportBillSplits(ctx context.Context) (*Report, error) {
	report := e.newReport()
	start := time.Now()

	people, err := e.store.ListPeople(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	users := make([]mirror.Document, len(people))
	for i, p := range people {
		users[i] = mirror.NewUserDoc(p)
	}
	if err := e.upsertAll(ctx, report, e.colls.Users, users); err != nil {
		return nil, err
	}

	splits, err := e.store.ListSplits(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list splits: %w", err)
	}
	bills := make([]mirror.Document, len(splits))
	for i, s := range splits {
		bills[i] = mirror.NewBillDoc(s)
	}
	if err := e.upsertAll(ctx, report, e.colls.Bills, bills); err != nil {
		return nil, err
	}

	items, err := e.store.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	itemDocs := make([]mirror.Document, len(items))
	var payments []mirror.Document
	for i, item := range items {
		itemDocs[i] = mirror.NewBillItemDoc(item)

		// Payment docs are a projection keyed by (item, paid time). Drop
		// whatever payments this item had before writing the current one,
		// so an unpaid toggle leaves nothing stale behind.
		removed, err := e.docs.DeleteByKeyPrefix(ctx, e.colls.Transactions,
			"transaction_id", fmt.Sprintf("txn_%d_", item.ID))
		if err != nil {
			return nil, fmt.Errorf("failed to clear payments for item %d: %w", item.ID, err)
		}
		report.StalePayments += removed

		if item.IsPaid && item.PaidAt != nil {
			payments = append(payments, mirror.NewPaymentDoc(item))
		}
	}
	if err := e.upsertAll(ctx, report, e.colls.BillItems, itemDocs); err != nil {
		return nil, err
	}
	if err := e.upsertAll(ctx, report, e.colls.Transactions, payments); err != nil {
		return nil, err
	}

	history, err := e.store.ListHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	historyDocs := make([]mirror.Document, len(history))
	for i, h := range history {
		historyDocs[i] = mirror.NewHistoryDoc(h)
	}
	if err := e.upsertAll(ctx, report, e.colls.History, historyDocs); err != nil {
		return nil, err
	}

	report.Duration = time.Since(start)
	slog.Info("bill split export complete",
		"run_id", report.RunID, "total", report.Total(),
		"stale_payments", report.StalePayments, "duration", report.Duration)
	return report, nil
}

// upsertAll writes docs to the collection in chunks of the configured batch
// size. An empty slice still records a zero count for the collection.
func (e *Exporter) upsertAll(ctx context.Context, report *Report, collection string, docs []mirror.Document) error {
	if _, ok := report.Counts[collection]; !ok {
		report.Counts[collection] = 0
	}
	for start := 0; start < len(docs); start += e.batch {
		end := min(start+e.batch, len(docs))
		n, err := e.docs.BulkUpsert(ctx, collection, docs[start:end])
		if err != nil {
			return fmt.Errorf("failed to upsert batch into %s: %w", collection, err)
		}
		report.Counts[collection] += n
		slog.Debug("exported batch",
			"run_id", report.RunID, "collection", collection, "count", n)
	}
	return nil
}

func (e *Exporter) newReport() *Report {
	return &Report{
		RunID:  uuid.NewString(),
		Counts: make(map[string]int),
	}
}
