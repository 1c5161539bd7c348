package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kaustubhshukla9586/FinBuddy/internal/models"
	"github.com/kaustubhshukla9586/FinBuddy/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestTransactions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("create assigns ID and timestamp", func(t *testing.T) {
		tx := &models.CashTransaction{
			Description:         "Coffee",
			Amount:              dec("4.50"),
			Type:                models.TransactionTypeExpense,
			SourceOrDestination: "Cafe",
		}
		if err := store.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}
		if tx.ID == 0 {
			t.Error("expected transaction ID to be assigned")
		}
		if tx.CreatedAt.IsZero() {
			t.Error("expected CreatedAt to be set")
		}
	})

	t.Run("amounts round-trip without drift", func(t *testing.T) {
		tx := &models.CashTransaction{
			Description:         "Rent",
			Amount:              dec("1234.56"),
			Type:                models.TransactionTypeExpense,
			SourceOrDestination: "Landlord",
		}
		if err := store.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}
		got, err := store.GetTransaction(ctx, tx.ID)
		if err != nil {
			t.Fatalf("GetTransaction failed: %v", err)
		}
		if !got.Amount.Equal(dec("1234.56")) {
			t.Errorf("amount = %s, want 1234.56", got.Amount)
		}
	})

	t.Run("update and delete", func(t *testing.T) {
		tx := &models.CashTransaction{
			Description:         "Lunch",
			Amount:              dec("12.00"),
			Type:                models.TransactionTypeExpense,
			SourceOrDestination: "Diner",
		}
		if err := store.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}

		tx.Amount = dec("15.00")
		if err := store.UpdateTransaction(ctx, tx); err != nil {
			t.Fatalf("UpdateTransaction failed: %v", err)
		}
		got, err := store.GetTransaction(ctx, tx.ID)
		if err != nil {
			t.Fatalf("GetTransaction failed: %v", err)
		}
		if !got.Amount.Equal(dec("15.00")) {
			t.Errorf("amount after update = %s, want 15.00", got.Amount)
		}

		if err := store.DeleteTransaction(ctx, tx.ID); err != nil {
			t.Fatalf("DeleteTransaction failed: %v", err)
		}
		if _, err := store.GetTransaction(ctx, tx.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("not found errors", func(t *testing.T) {
		if _, err := store.GetTransaction(ctx, 99999); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		if err := store.DeleteTransaction(ctx, 99999); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestPeople(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	p := &models.Person{Name: "Asha", UPIID: "asha@upi", Phone: "555-0101"}
	if err := store.CreatePerson(ctx, p); err != nil {
		t.Fatalf("CreatePerson failed: %v", err)
	}
	if p.ID == 0 {
		t.Error("expected person ID to be assigned")
	}

	got, err := store.GetPerson(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPerson failed: %v", err)
	}
	if got.Name != "Asha" || got.UPIID != "asha@upi" || got.Phone != "555-0101" {
		t.Errorf("unexpected person: %+v", got)
	}
	if got.Email != "" {
		t.Errorf("expected empty email, got %q", got.Email)
	}

	got.Email = "asha@example.com"
	if err := store.UpdatePerson(ctx, got); err != nil {
		t.Fatalf("UpdatePerson failed: %v", err)
	}

	// Listing is ordered by name.
	if err := store.CreatePerson(ctx, &models.Person{Name: "Zoya", UPIID: "zoya@upi"}); err != nil {
		t.Fatalf("CreatePerson failed: %v", err)
	}
	if err := store.CreatePerson(ctx, &models.Person{Name: "Arjun", UPIID: "arjun@upi"}); err != nil {
		t.Fatalf("CreatePerson failed: %v", err)
	}
	people, err := store.ListPeople(ctx)
	if err != nil {
		t.Fatalf("ListPeople failed: %v", err)
	}
	if len(people) != 3 {
		t.Fatalf("expected 3 people, got %d", len(people))
	}
	if people[0].Name != "Arjun" || people[2].Name != "Zoya" {
		t.Errorf("unexpected order: %s, %s, %s", people[0].Name, people[1].Name, people[2].Name)
	}
}

func TestSplits(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := &models.Person{Name: "Alice", UPIID: "alice@upi"}
	bob := &models.Person{Name: "Bob", UPIID: "bob@upi"}
	for _, p := range []*models.Person{alice, bob} {
		if err := store.CreatePerson(ctx, p); err != nil {
			t.Fatalf("CreatePerson failed: %v", err)
		}
	}

	split := &models.BillSplit{
		Title:       "Dinner",
		TotalAmount: dec("100.00"),
		SplitType:   models.SplitTypeEqual,
	}
	items := []*models.BillSplitItem{
		{PersonID: alice.ID, Amount: dec("50.00")},
		{PersonID: bob.ID, Amount: dec("50.00")},
	}

	t.Run("CreateSplit populates IDs transactionally", func(t *testing.T) {
		if err := store.CreateSplit(ctx, split, items); err != nil {
			t.Fatalf("CreateSplit failed: %v", err)
		}
		if split.ID == 0 {
			t.Error("expected split ID to be assigned")
		}
		for i, item := range items {
			if item.ID == 0 {
				t.Errorf("item %d: expected ID to be assigned", i)
			}
			if item.SplitID != split.ID {
				t.Errorf("item %d: SplitID = %d, want %d", i, item.SplitID, split.ID)
			}
		}
	})

	t.Run("duplicate person in split is rejected", func(t *testing.T) {
		dup := &models.BillSplitItem{SplitID: split.ID, PersonID: alice.ID, Amount: dec("1.00")}
		if err := store.CreateItem(ctx, dup); err == nil {
			t.Error("expected unique constraint violation for (split, person)")
		}
	})

	t.Run("payment toggle persists", func(t *testing.T) {
		item, err := store.GetItem(ctx, items[0].ID)
		if err != nil {
			t.Fatalf("GetItem failed: %v", err)
		}
		if _, err := item.MarkPaid(time.Now()); err != nil {
			t.Fatalf("MarkPaid failed: %v", err)
		}
		if err := store.UpdateItem(ctx, item); err != nil {
			t.Fatalf("UpdateItem failed: %v", err)
		}

		got, err := store.GetItem(ctx, item.ID)
		if err != nil {
			t.Fatalf("GetItem failed: %v", err)
		}
		if !got.IsPaid || got.PaidAt == nil {
			t.Errorf("expected paid item with timestamp, got %+v", got)
		}

		if _, err := got.MarkUnpaid(); err != nil {
			t.Fatalf("MarkUnpaid failed: %v", err)
		}
		if err := store.UpdateItem(ctx, got); err != nil {
			t.Fatalf("UpdateItem failed: %v", err)
		}
		got, err = store.GetItem(ctx, item.ID)
		if err != nil {
			t.Fatalf("GetItem failed: %v", err)
		}
		if got.IsPaid || got.PaidAt != nil {
			t.Errorf("expected pending item with no timestamp, got %+v", got)
		}
	})

	t.Run("settle persists", func(t *testing.T) {
		now := time.Now()
		split.IsSettled = true
		split.SettledAt = &now
		if err := store.UpdateSplit(ctx, split); err != nil {
			t.Fatalf("UpdateSplit failed: %v", err)
		}
		got, err := store.GetSplit(ctx, split.ID)
		if err != nil {
			t.Fatalf("GetSplit failed: %v", err)
		}
		if !got.IsSettled || got.SettledAt == nil {
			t.Errorf("expected settled split, got %+v", got)
		}
	})

	t.Run("deleting a split cascades to items", func(t *testing.T) {
		if err := store.DeleteItem(ctx, items[1].ID); err != nil {
			t.Fatalf("DeleteItem failed: %v", err)
		}
		left, err := store.ListItemsBySplit(ctx, split.ID)
		if err != nil {
			t.Fatalf("ListItemsBySplit failed: %v", err)
		}
		if len(left) != 1 {
			t.Errorf("expected 1 item left, got %d", len(left))
		}
	})
}

func TestHistory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	p := &models.Person{Name: "Alice", UPIID: "alice@upi"}
	if err := store.CreatePerson(ctx, p); err != nil {
		t.Fatalf("CreatePerson failed: %v", err)
	}
	split := &models.BillSplit{Title: "Trip", TotalAmount: dec("60.00"), SplitType: models.SplitTypeEqual}
	if err := store.CreateSplit(ctx, split, []*models.BillSplitItem{{PersonID: p.ID, Amount: dec("60.00")}}); err != nil {
		t.Fatalf("CreateSplit failed: %v", err)
	}

	base := time.Now().Add(-time.Hour)
	events := []*models.BillSplitHistory{
		{SplitID: split.ID, Action: models.HistoryActionCreated, Description: "created", CreatedAt: base},
		{SplitID: split.ID, Action: models.HistoryActionPaid, Description: "paid", CreatedAt: base.Add(time.Minute)},
		{SplitID: split.ID, Action: models.HistoryActionSettled, Description: "settled", CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, e := range events {
		if err := store.AppendHistory(ctx, e); err != nil {
			t.Fatalf("AppendHistory failed: %v", err)
		}
	}

	t.Run("per-split listing is newest first", func(t *testing.T) {
		got, err := store.ListHistoryBySplit(ctx, split.ID)
		if err != nil {
			t.Fatalf("ListHistoryBySplit failed: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("expected 3 events, got %d", len(got))
		}
		if got[0].Action != models.HistoryActionSettled || got[2].Action != models.HistoryActionCreated {
			t.Errorf("unexpected order: %s, %s, %s", got[0].Action, got[1].Action, got[2].Action)
		}
	})

	t.Run("full listing is oldest first", func(t *testing.T) {
		got, err := store.ListHistory(ctx)
		if err != nil {
			t.Fatalf("ListHistory failed: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("expected 3 events, got %d", len(got))
		}
		if got[0].Action != models.HistoryActionCreated {
			t.Errorf("expected created first, got %s", got[0].Action)
		}
	})
}
