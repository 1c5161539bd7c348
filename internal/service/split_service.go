package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kaustubhshukla9586/FinBuddy/internal/calculator"
	"github.com/kaustubhshukla9586/FinBuddy/internal/models"
	"github.com/kaustubhshukla9586/FinBuddy/internal/storage"
	"github.com/kaustubhshukla9586/FinBuddy/internal/sync"
)

// SplitService manages bill splits: creation, the payment lifecycle of their
// items, settlement, and the audit history trail.
type SplitService struct {
	store storage.Store
	prop  *sync.Propagator
	now   func() time.Time
}

// NewSplitService creates a SplitService backed by the given store and
// propagator.
func NewSplitService(store storage.Store, prop *sync.Propagator) *SplitService {
	return &SplitService{store: store, prop: prop, now: time.Now}
}

// CreateSplitInput carries the fields for a new bill split. For a custom
// split, CustomAmounts pairs with PersonIDs by position; missing trailing
// amounts default to zero.
type CreateSplitInput struct {
	Title         string
	Description   string
	TotalAmount   string
	SplitType     string
	PersonIDs     []int64
	CustomAmounts []string
}

// SplitDetail is a split with its items resolved to people, the remaining
// unpaid balance, and the audit trail newest first.
type SplitDetail struct {
	Split     *models.BillSplit
	Items     []*ItemDetail
	Remaining decimal.Decimal
	History   []*models.BillSplitHistory
}

// ItemDetail is a split item joined with its person.
type ItemDetail struct {
	Item   *models.BillSplitItem
	Person *models.Person
}

// CreateSplit validates the input, computes per-person shares, and persists
// the split with its items in one transaction. A "created" history event is
// appended and everything is mirrored.
func (s *SplitService) CreateSplit(ctx context.Context, in CreateSplitInput) (*models.BillSplit, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("title is required")
	}
	if !models.ValidSplitType(in.SplitType) {
		return nil, fmt.Errorf("split type must be %q or %q", models.SplitTypeEqual, models.SplitTypeCustom)
	}
	if len(in.PersonIDs) == 0 {
		return nil, fmt.Errorf("at least one person is required")
	}
	total, err := decimal.NewFromString(strings.TrimSpace(in.TotalAmount))
	if err != nil {
		return nil, fmt.Errorf("invalid total amount %q", in.TotalAmount)
	}
	if total.IsNegative() {
		return nil, fmt.Errorf("total amount cannot be negative")
	}

	// Each person may appear at most once per split.
	seen := make(map[int64]bool, len(in.PersonIDs))
	people := make([]*models.Person, 0, len(in.PersonIDs))
	for _, id := range in.PersonIDs {
		if seen[id] {
			return nil, fmt.Errorf("person %d listed more than once", id)
		}
		seen[id] = true
		p, err := s.store.GetPerson(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("person %d: %w", id, err)
		}
		people = append(people, p)
	}

	shares, err := s.computeShares(in, total)
	if err != nil {
		return nil, err
	}

	split := &models.BillSplit{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		TotalAmount: total,
		SplitType:   in.SplitType,
	}
	items := make([]*models.BillSplitItem, len(people))
	for i, p := range people {
		items[i] = &models.BillSplitItem{
			PersonID: p.ID,
			Amount:   shares[i],
		}
	}
	if err := s.store.CreateSplit(ctx, split, items); err != nil {
		return nil, err
	}

	s.appendHistory(ctx, split.ID, models.HistoryActionCreated,
		fmt.Sprintf("Bill split %q created with %d people, total %s", split.Title, len(items), total.StringFixed(2)))

	s.prop.SplitSaved(ctx, split)
	for _, item := range items {
		s.prop.ItemSaved(ctx, item)
	}
	return split, nil
}

// CreateSplitFromTransaction builds a split whose total is the absolute
// amount of an existing cash transaction.
func (s *SplitService) CreateSplitFromTransaction(ctx context.Context, txID int64, splitType string, personIDs []int64, customAmounts []string) (*models.BillSplit, error) {
	tx, err := s.store.GetTransaction(ctx, txID)
	if err != nil {
		return nil, err
	}
	return s.CreateSplit(ctx, CreateSplitInput{
		Title:         fmt.Sprintf("Split: %s", tx.Description),
		Description:   fmt.Sprintf("Split from transaction %d", tx.ID),
		TotalAmount:   tx.Amount.Abs().StringFixed(2),
		SplitType:     splitType,
		PersonIDs:     personIDs,
		CustomAmounts: customAmounts,
	})
}

func (s *SplitService) computeShares(in CreateSplitInput, total decimal.Decimal) ([]decimal.Decimal, error) {
	n := len(in.PersonIDs)
	if in.SplitType == models.SplitTypeEqual {
		return calculator.EqualSplit(total, n)
	}

	amounts := make([]decimal.Decimal, len(in.CustomAmounts))
	for i, raw := range in.CustomAmounts {
		a, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("invalid amount %q at position %d", raw, i)
		}
		amounts[i] = a
	}
	shares, err := calculator.CustomSplit(amounts, n)
	if err != nil {
		return nil, err
	}
	if err := calculator.CheckTotal(total, shares); err != nil {
		return nil, err
	}
	return shares, nil
}

// GetSplit returns a split with its items, people, remaining balance, and
// history. The remaining balance is recomputed from the items on every call.
func (s *SplitService) GetSplit(ctx context.Context, id int64) (*SplitDetail, error) {
	split, err := s.store.GetSplit(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.store.ListItemsBySplit(ctx, id)
	if err != nil {
		return nil, err
	}
	history, err := s.store.ListHistoryBySplit(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &SplitDetail{
		Split:     split,
		Items:     make([]*ItemDetail, len(items)),
		Remaining: models.RemainingAmount(split, items),
		History:   history,
	}
	for i, item := range items {
		p, err := s.store.GetPerson(ctx, item.PersonID)
		if err != nil {
			return nil, fmt.Errorf("person %d: %w", item.PersonID, err)
		}
		detail.Items[i] = &ItemDetail{Item: item, Person: p}
	}
	return detail, nil
}

// ListSplits returns all splits, newest first.
func (s *SplitService) ListSplits(ctx context.Context) ([]*models.BillSplit, error) {
	return s.store.ListSplits(ctx)
}

// MarkPayment toggles the payment state of a split item. Marking paid stamps
// the payment time; marking unpaid clears it. Each toggle records exactly one
// history event.
func (s *SplitService) MarkPayment(ctx context.Context, itemID int64, paid bool) (*models.BillSplitItem, error) {
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	person, err := s.store.GetPerson(ctx, item.PersonID)
	if err != nil {
		return nil, err
	}

	var action string
	if paid {
		action, err = item.MarkPaid(s.now())
	} else {
		action, err = item.MarkUnpaid()
	}
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	state := "unpaid"
	if item.IsPaid {
		state = "paid"
	}
	s.appendHistory(ctx, item.SplitID, action,
		fmt.Sprintf("%s marked as %s - $%s", person.Name, state, item.Amount.StringFixed(2)))

	s.prop.ItemSaved(ctx, item)
	return item, nil
}

// SettleSplit marks the whole split as settled, stamping the settlement time.
func (s *SplitService) SettleSplit(ctx context.Context, id int64) (*models.BillSplit, error) {
	split, err := s.store.GetSplit(ctx, id)
	if err != nil {
		return nil, err
	}
	if split.IsSettled {
		return nil, fmt.Errorf("split %d is already settled", id)
	}

	settledAt := s.now()
	split.IsSettled = true
	split.SettledAt = &settledAt
	if err := s.store.UpdateSplit(ctx, split); err != nil {
		return nil, err
	}

	s.appendHistory(ctx, split.ID, models.HistoryActionSettled,
		fmt.Sprintf("Bill split %q settled", split.Title))

	s.prop.SplitSaved(ctx, split)
	return split, nil
}

// AddPerson adds a participant to an existing split with the given share.
// The split total is not recomputed; the remaining balance simply grows.
func (s *SplitService) AddPerson(ctx context.Context, splitID, personID int64, amount string) (*models.BillSplitItem, error) {
	split, err := s.store.GetSplit(ctx, splitID)
	if err != nil {
		return nil, err
	}
	person, err := s.store.GetPerson(ctx, personID)
	if err != nil {
		return nil, err
	}
	share, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q", amount)
	}
	if share.IsNegative() {
		return nil, fmt.Errorf("amount cannot be negative")
	}

	item := &models.BillSplitItem{
		SplitID:  split.ID,
		PersonID: person.ID,
		Amount:   share,
	}
	if err := s.store.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	s.appendHistory(ctx, split.ID, models.HistoryActionPersonAdded,
		fmt.Sprintf("%s added with share $%s", person.Name, share.StringFixed(2)))

	s.prop.ItemSaved(ctx, item)
	return item, nil
}

// RemovePerson removes a participant's item from a split. The mirrored item
// document is not deleted; reconciliation cleanup is a manual operation.
func (s *SplitService) RemovePerson(ctx context.Context, itemID int64) error {
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return err
	}
	person, err := s.store.GetPerson(ctx, item.PersonID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteItem(ctx, itemID); err != nil {
		return err
	}

	s.appendHistory(ctx, item.SplitID, models.HistoryActionPersonRemoved,
		fmt.Sprintf("%s removed from the split", person.Name))
	return nil
}

// History returns a split's audit trail, newest first.
func (s *SplitService) History(ctx context.Context, splitID int64) ([]*models.BillSplitHistory, error) {
	if _, err := s.store.GetSplit(ctx, splitID); err != nil {
		return nil, err
	}
	return s.store.ListHistoryBySplit(ctx, splitID)
}

// appendHistory records an audit event and mirrors it. The write path never
// fails on history problems alone; the event is logged and mirrored best
// effort after the primary row is committed.
func (s *SplitService) appendHistory(ctx context.Context, splitID int64, action, description string) {
	h := &models.BillSplitHistory{
		SplitID:     splitID,
		Action:      action,
		Description: description,
	}
	if err := s.store.AppendHistory(ctx, h); err != nil {
		slog.Warn("failed to record history event", "split_id", splitID, "action", action, "error", err)
		return
	}
	s.prop.HistorySaved(ctx, h)
}
