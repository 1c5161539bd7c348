package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kaustubhshukla9586/FinBuddy/internal/mirror"
	"github.com/kaustubhshukla9586/FinBuddy/internal/models"
	"github.com/kaustubhshukla9586/FinBuddy/internal/storage"
	"github.com/kaustubhshukla9586/FinBuddy/internal/storage/sqlite"
	"github.com/kaustubhshukla9586/FinBuddy/internal/sync"
)

type fixture struct {
	store        storage.Store
	docs         *mirror.MemoryStore
	colls        mirror.Collections
	transactions *TransactionService
	people       *PersonService
	splits       *SplitService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	docs := mirror.NewMemoryStore()
	colls := mirror.DefaultCollections()
	prop := sync.New(docs, colls, time.Second, nil)

	return &fixture{
		store:        store,
		docs:         docs,
		colls:        colls,
		transactions: NewTransactionService(store, prop),
		people:       NewPersonService(store, prop),
		splits:       NewSplitService(store, prop),
	}
}

func (f *fixture) addPerson(t *testing.T, name string) *models.Person {
	t.Helper()
	p, err := f.people.Create(t.Context(), PersonInput{Name: name, UPIID: name + "@upi"})
	if err != nil {
		t.Fatalf("failed to create person %s: %v", name, err)
	}
	return p
}

func TestCreateTransactionValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name  string
		input TransactionInput
	}{
		{"empty description", TransactionInput{Description: "", Amount: "10", Type: models.TransactionTypeExpense}},
		{"bad type", TransactionInput{Description: "x", Amount: "10", Type: "transfer"}},
		{"non-numeric amount", TransactionInput{Description: "x", Amount: "ten", Type: models.TransactionTypeExpense}},
		{"negative amount", TransactionInput{Description: "x", Amount: "-5", Type: models.TransactionTypeExpense}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.transactions.Create(t.Context(), tt.input); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}

	if n, _ := f.store.ListTransactions(t.Context()); len(n) != 0 {
		t.Errorf("rejected inputs must not persist, found %d rows", len(n))
	}
}

func TestTransactionLifecycleMirrors(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	tx, err := f.transactions.Create(ctx, TransactionInput{
		Description: "Groceries", Amount: "52.30", Type: models.TransactionTypeExpense,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	key := mirror.DeriveKey(mirror.KindCashTransaction, tx.ID)
	if _, ok := f.docs.Get(f.colls.Expenses, key); !ok {
		t.Fatalf("expected mirrored expense doc under %s", key)
	}

	if err := f.transactions.Delete(ctx, tx.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := f.docs.Get(f.colls.Expenses, key); ok {
		t.Error("expected mirrored doc removed after delete")
	}
	if _, err := f.transactions.Get(ctx, tx.ID); err == nil {
		t.Error("expected not-found after delete")
	}
}

func TestTotals(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	for _, in := range []TransactionInput{
		{Description: "Salary", Amount: "1000.00", Type: models.TransactionTypeIncome},
		{Description: "Rent", Amount: "400.00", Type: models.TransactionTypeExpense},
		{Description: "Food", Amount: "150.50", Type: models.TransactionTypeExpense},
	} {
		if _, err := f.transactions.Create(ctx, in); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	totals, err := f.transactions.Totals(ctx)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if got, want := totals.Income.StringFixed(2), "1000.00"; got != want {
		t.Errorf("income = %s, want %s", got, want)
	}
	if got, want := totals.Expense.StringFixed(2), "550.50"; got != want {
		t.Errorf("expense = %s, want %s", got, want)
	}
	if got, want := totals.Balance.StringFixed(2), "449.50"; got != want {
		t.Errorf("balance = %s, want %s", got, want)
	}
}

func TestCreateEqualSplit(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	a := f.addPerson(t, "Asha")
	b := f.addPerson(t, "Bela")
	c := f.addPerson(t, "Chit")

	split, err := f.splits.CreateSplit(ctx, CreateSplitInput{
		Title:       "Dinner",
		TotalAmount: "100.00",
		SplitType:   models.SplitTypeEqual,
		PersonIDs:   []int64{a.ID, b.ID, c.ID},
	})
	if err != nil {
		t.Fatalf("create split: %v", err)
	}

	detail, err := f.splits.GetSplit(ctx, split.ID)
	if err != nil {
		t.Fatalf("get split: %v", err)
	}
	if len(detail.Items) != 3 {
		t.Fatalf("got %d items, want 3", len(detail.Items))
	}

	sum := decimal.Zero
	for _, it := range detail.Items {
		sum = sum.Add(it.Item.Amount)
	}
	if !sum.Equal(split.TotalAmount) {
		t.Errorf("shares sum to %s, want %s", sum, split.TotalAmount)
	}
	if got, want := detail.Items[0].Item.Amount.StringFixed(2), "33.34"; got != want {
		t.Errorf("first share = %s, want %s", got, want)
	}
	if !detail.Remaining.Equal(split.TotalAmount) {
		t.Errorf("remaining = %s, want full total %s", detail.Remaining, split.TotalAmount)
	}

	if len(detail.History) != 1 || detail.History[0].Action != models.HistoryActionCreated {
		t.Fatalf("expected a single created history event, got %+v", detail.History)
	}

	if got := f.docs.Count(f.colls.BillItems); got != 3 {
		t.Errorf("mirrored %d item docs, want 3", got)
	}
	if _, ok := f.docs.Get(f.colls.Bills, mirror.DeriveKey(mirror.KindBill, split.ID)); !ok {
		t.Error("expected mirrored bill doc")
	}
}

func TestCreateCustomSplitEnforcesTotal(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	a := f.addPerson(t, "Asha")
	b := f.addPerson(t, "Bela")

	_, err := f.splits.CreateSplit(ctx, CreateSplitInput{
		Title:         "Cab",
		TotalAmount:   "30.00",
		SplitType:     models.SplitTypeCustom,
		PersonIDs:     []int64{a.ID, b.ID},
		CustomAmounts: []string{"10.00", "10.00"},
	})
	if err == nil {
		t.Fatal("expected error when custom shares do not sum to total")
	}

	split, err := f.splits.CreateSplit(ctx, CreateSplitInput{
		Title:         "Cab",
		TotalAmount:   "30.00",
		SplitType:     models.SplitTypeCustom,
		PersonIDs:     []int64{a.ID, b.ID},
		CustomAmounts: []string{"20.00", "10.00"},
	})
	if err != nil {
		t.Fatalf("create custom split: %v", err)
	}
	detail, err := f.splits.GetSplit(ctx, split.ID)
	if err != nil {
		t.Fatalf("get split: %v", err)
	}
	if got, want := detail.Items[0].Item.Amount.StringFixed(2), "20.00"; got != want {
		t.Errorf("first share = %s, want %s", got, want)
	}
}

func TestCreateSplitRejectsDuplicatePerson(t *testing.T) {
	f := newFixture(t)

	a := f.addPerson(t, "Asha")
	_, err := f.splits.CreateSplit(t.Context(), CreateSplitInput{
		Title:       "Dup",
		TotalAmount: "10.00",
		SplitType:   models.SplitTypeEqual,
		PersonIDs:   []int64{a.ID, a.ID},
	})
	if err == nil {
		t.Fatal("expected error for duplicated person")
	}
}

func TestCreateSplitFromTransaction(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	a := f.addPerson(t, "Asha")
	b := f.addPerson(t, "Bela")
	tx, err := f.transactions.Create(ctx, TransactionInput{
		Description: "Hotel", Amount: "240.00", Type: models.TransactionTypeExpense,
	})
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	split, err := f.splits.CreateSplitFromTransaction(ctx, tx.ID, models.SplitTypeEqual, []int64{a.ID, b.ID}, nil)
	if err != nil {
		t.Fatalf("create split from transaction: %v", err)
	}
	if split.Title != "Split: Hotel" {
		t.Errorf("title = %q", split.Title)
	}
	if !split.TotalAmount.Equal(decimal.RequireFromString("240.00")) {
		t.Errorf("total = %s, want 240.00", split.TotalAmount)
	}
}

func TestMarkPaymentToggle(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	a := f.addPerson(t, "Asha")
	b := f.addPerson(t, "Bela")
	split, err := f.splits.CreateSplit(ctx, CreateSplitInput{
		Title:       "Lunch",
		TotalAmount: "40.00",
		SplitType:   models.SplitTypeEqual,
		PersonIDs:   []int64{a.ID, b.ID},
	})
	if err != nil {
		t.Fatalf("create split: %v", err)
	}
	detail, _ := f.splits.GetSplit(ctx, split.ID)
	itemID := detail.Items[0].Item.ID

	item, err := f.splits.MarkPayment(ctx, itemID, true)
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if !item.IsPaid || item.PaidAt == nil {
		t.Fatal("expected paid item with PaidAt set")
	}

	// A payment transaction document is synthesized next to the item doc.
	payKey := mirror.PaymentKey(item.ID, *item.PaidAt)
	if _, ok := f.docs.Get(f.colls.Transactions, payKey); !ok {
		t.Errorf("expected synthesized payment doc under %s", payKey)
	}

	detail, _ = f.splits.GetSplit(ctx, split.ID)
	if got, want := detail.Remaining.StringFixed(2), "20.00"; got != want {
		t.Errorf("remaining = %s, want %s", got, want)
	}

	// Double payment is rejected.
	if _, err := f.splits.MarkPayment(ctx, itemID, true); err == nil {
		t.Error("expected error marking an already-paid item paid")
	}

	item, err = f.splits.MarkPayment(ctx, itemID, false)
	if err != nil {
		t.Fatalf("mark unpaid: %v", err)
	}
	if item.IsPaid || item.PaidAt != nil {
		t.Fatal("expected pending item with PaidAt cleared")
	}

	detail, _ = f.splits.GetSplit(ctx, split.ID)
	if !detail.Remaining.Equal(split.TotalAmount) {
		t.Errorf("remaining = %s, want restored total %s", detail.Remaining, split.TotalAmount)
	}

	// One event per toggle, plus the created event, newest first.
	history, err := f.splits.History(ctx, split.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("got %d history events, want 3", len(history))
	}
	if history[0].Action != models.HistoryActionAmountChanged {
		t.Errorf("latest action = %q, want %q", history[0].Action, models.HistoryActionAmountChanged)
	}
	if history[1].Action != models.HistoryActionPaid {
		t.Errorf("second action = %q, want %q", history[1].Action, models.HistoryActionPaid)
	}
}

func TestSettleSplit(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	a := f.addPerson(t, "Asha")
	split, err := f.splits.CreateSplit(ctx, CreateSplitInput{
		Title:       "Tickets",
		TotalAmount: "15.00",
		SplitType:   models.SplitTypeEqual,
		PersonIDs:   []int64{a.ID},
	})
	if err != nil {
		t.Fatalf("create split: %v", err)
	}

	settled, err := f.splits.SettleSplit(ctx, split.ID)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if !settled.IsSettled || settled.SettledAt == nil {
		t.Fatal("expected settled split with SettledAt set")
	}

	if _, err := f.splits.SettleSplit(ctx, split.ID); err == nil {
		t.Error("expected error settling twice")
	}

	history, _ := f.splits.History(ctx, split.ID)
	if history[0].Action != models.HistoryActionSettled {
		t.Errorf("latest action = %q, want %q", history[0].Action, models.HistoryActionSettled)
	}
}

func TestAddAndRemovePerson(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	a := f.addPerson(t, "Asha")
	b := f.addPerson(t, "Bela")
	split, err := f.splits.CreateSplit(ctx, CreateSplitInput{
		Title:       "Groceries",
		TotalAmount: "60.00",
		SplitType:   models.SplitTypeEqual,
		PersonIDs:   []int64{a.ID},
	})
	if err != nil {
		t.Fatalf("create split: %v", err)
	}

	item, err := f.splits.AddPerson(ctx, split.ID, b.ID, "20.00")
	if err != nil {
		t.Fatalf("add person: %v", err)
	}

	// The same person cannot be added twice.
	if _, err := f.splits.AddPerson(ctx, split.ID, b.ID, "5.00"); err == nil {
		t.Error("expected unique constraint error adding person twice")
	}

	detail, _ := f.splits.GetSplit(ctx, split.ID)
	if len(detail.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(detail.Items))
	}

	if err := f.splits.RemovePerson(ctx, item.ID); err != nil {
		t.Fatalf("remove person: %v", err)
	}
	detail, _ = f.splits.GetSplit(ctx, split.ID)
	if len(detail.Items) != 1 {
		t.Fatalf("got %d items after removal, want 1", len(detail.Items))
	}

	history, _ := f.splits.History(ctx, split.ID)
	if history[0].Action != models.HistoryActionPersonRemoved {
		t.Errorf("latest action = %q, want %q", history[0].Action, models.HistoryActionPersonRemoved)
	}
	if history[1].Action != models.HistoryActionPersonAdded {
		t.Errorf("second action = %q, want %q", history[1].Action, models.HistoryActionPersonAdded)
	}
}

func TestMirrorFailureDoesNotFailWrites(t *testing.T) {
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	prop := sync.New(failingDocs{}, mirror.DefaultCollections(), time.Second, nil)
	svc := NewTransactionService(store, prop)

	tx, err := svc.Create(t.Context(), TransactionInput{
		Description: "Coffee", Amount: "4.50", Type: models.TransactionTypeExpense,
	})
	if err != nil {
		t.Fatalf("create must succeed despite mirror failure: %v", err)
	}
	if _, err := svc.Get(t.Context(), tx.ID); err != nil {
		t.Fatalf("row must be committed: %v", err)
	}
}

type failingDocs struct{}

func (failingDocs) Upsert(context.Context, string, mirror.Document) error {
	return context.DeadlineExceeded
}

func (failingDocs) Delete(context.Context, string, string, string) error {
	return context.DeadlineExceeded
}

func (failingDocs) BulkUpsert(context.Context, string, []mirror.Document) (int, error) {
	return 0, context.DeadlineExceeded
}

func (failingDocs) DeleteByKeyPrefix(context.Context, string, string, string) (int, error) {
	return 0, context.DeadlineExceeded
}

func (failingDocs) Ping(context.Context) error  { return context.DeadlineExceeded }
func (failingDocs) Close(context.Context) error { return nil }
