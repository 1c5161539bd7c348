package mirror

import (
	"time"

	"github.com/kaustubhshukla9586/FinBuddy/internal/models"
)

// Documents carry the primary row id under source_id, alongside the derived
// business key, so downstream consumers can join back to the source of truth.
// Amounts are float-converted here and nowhere else.

// UserDoc mirrors a Person.
type UserDoc struct {
	UserID    string  `bson:"user_id" json:"user_id"`
	SourceID  int64   `bson:"source_id" json:"source_id"`
	Name      string  `bson:"name" json:"name"`
	UPIID     string  `bson:"upi_id" json:"upi_id"`
	Phone     *string `bson:"phone" json:"phone"`
	Email     *string `bson:"email" json:"email"`
	CreatedAt string  `bson:"created_at" json:"created_at"`
	UpdatedAt string  `bson:"updated_at" json:"updated_at"`
}

func (d UserDoc) Key() string      { return d.UserID }
func (d UserDoc) KeyField() string { return "user_id" }

// NewUserDoc builds the mirrored document for a person.
func NewUserDoc(p *models.Person) UserDoc {
	return UserDoc{
		UserID:    DeriveKey(KindUser, p.ID),
		SourceID:  p.ID,
		Name:      p.Name,
		UPIID:     p.UPIID,
		Phone:     optional(p.Phone),
		Email:     optional(p.Email),
		CreatedAt: isoTime(p.CreatedAt),
		UpdatedAt: isoTime(p.UpdatedAt),
	}
}

// BillDoc mirrors a BillSplit.
type BillDoc struct {
	BillID      string  `bson:"bill_id" json:"bill_id"`
	SourceID    int64   `bson:"source_id" json:"source_id"`
	Title       string  `bson:"title" json:"title"`
	Description *string `bson:"description" json:"description"`
	TotalAmount float64 `bson:"total_amount" json:"total_amount"`
	SplitType   string  `bson:"split_type" json:"split_type"`
	IsSettled   bool    `bson:"is_settled" json:"is_settled"`
	CreatedAt   string  `bson:"created_at" json:"created_at"`
	UpdatedAt   string  `bson:"updated_at" json:"updated_at"`
	SettledAt   *string `bson:"settled_at" json:"settled_at"`
}

func (d BillDoc) Key() string      { return d.BillID }
func (d BillDoc) KeyField() string { return "bill_id" }

// NewBillDoc builds the mirrored document for a bill split.
func NewBillDoc(s *models.BillSplit) BillDoc {
	return BillDoc{
		BillID:      DeriveKey(KindBill, s.ID),
		SourceID:    s.ID,
		Title:       s.Title,
		Description: optional(s.Description),
		TotalAmount: s.TotalAmount.InexactFloat64(),
		SplitType:   s.SplitType,
		IsSettled:   s.IsSettled,
		CreatedAt:   isoTime(s.CreatedAt),
		UpdatedAt:   isoTime(s.UpdatedAt),
		SettledAt:   optionalTime(s.SettledAt),
	}
}

// BillItemDoc mirrors a BillSplitItem, referencing the mirrored bill and user
// by their derived keys.
type BillItemDoc struct {
	ItemID    string  `bson:"item_id" json:"item_id"`
	SourceID  int64   `bson:"source_id" json:"source_id"`
	BillID    string  `bson:"bill_id" json:"bill_id"`
	UserID    string  `bson:"user_id" json:"user_id"`
	Amount    float64 `bson:"amount" json:"amount"`
	IsPaid    bool    `bson:"is_paid" json:"is_paid"`
	PaidAt    *string `bson:"paid_at" json:"paid_at"`
	Notes     *string `bson:"notes" json:"notes"`
	CreatedAt string  `bson:"created_at" json:"created_at"`
}

func (d BillItemDoc) Key() string      { return d.ItemID }
func (d BillItemDoc) KeyField() string { return "item_id" }

// NewBillItemDoc builds the mirrored document for a split item.
func NewBillItemDoc(i *models.BillSplitItem) BillItemDoc {
	return BillItemDoc{
		ItemID:    DeriveKey(KindBillItem, i.ID),
		SourceID:  i.ID,
		BillID:    DeriveKey(KindBill, i.SplitID),
		UserID:    DeriveKey(KindUser, i.PersonID),
		Amount:    i.Amount.InexactFloat64(),
		IsPaid:    i.IsPaid,
		PaidAt:    optionalTime(i.PaidAt),
		Notes:     optional(i.Notes),
		CreatedAt: isoTime(i.CreatedAt),
	}
}

// HistoryDoc mirrors a BillSplitHistory event.
type HistoryDoc struct {
	HistoryID   string `bson:"history_id" json:"history_id"`
	SourceID    int64  `bson:"source_id" json:"source_id"`
	BillID      string `bson:"bill_id" json:"bill_id"`
	Action      string `bson:"action" json:"action"`
	Description string `bson:"description" json:"description"`
	CreatedAt   string `bson:"created_at" json:"created_at"`
}

func (d HistoryDoc) Key() string      { return d.HistoryID }
func (d HistoryDoc) KeyField() string { return "history_id" }

// NewHistoryDoc builds the mirrored document for a history event.
func NewHistoryDoc(h *models.BillSplitHistory) HistoryDoc {
	return HistoryDoc{
		HistoryID:   DeriveKey(KindHistory, h.ID),
		SourceID:    h.ID,
		BillID:      DeriveKey(KindBill, h.SplitID),
		Action:      h.Action,
		Description: h.Description,
		CreatedAt:   isoTime(h.CreatedAt),
	}
}

// PaymentDoc is a derived transaction document, synthesized for every split
// item that is currently paid. It is a projection of the payment event, not a
// copy of any primary row: when an item flips back to unpaid the document is
// simply re-derived (or not) on the next reconciliation pass.
type PaymentDoc struct {
	TransactionID string  `bson:"transaction_id" json:"transaction_id"`
	SourceID      int64   `bson:"source_id" json:"source_id"`
	UserID        string  `bson:"user_id" json:"user_id"`
	BillID        string  `bson:"bill_id" json:"bill_id"`
	Amount        float64 `bson:"amount" json:"amount"`
	Type          string  `bson:"type" json:"type"`
	Status        string  `bson:"status" json:"status"`
	CreatedAt     string  `bson:"created_at" json:"created_at"`
}

func (d PaymentDoc) Key() string      { return d.TransactionID }
func (d PaymentDoc) KeyField() string { return "transaction_id" }

// NewPaymentDoc builds the derived payment document for a paid item.
// The item must be paid; callers check IsPaid and PaidAt first.
func NewPaymentDoc(i *models.BillSplitItem) PaymentDoc {
	return PaymentDoc{
		TransactionID: PaymentKey(i.ID, *i.PaidAt),
		SourceID:      i.ID,
		UserID:        DeriveKey(KindUser, i.PersonID),
		BillID:        DeriveKey(KindBill, i.SplitID),
		Amount:        i.Amount.InexactFloat64(),
		Type:          "payment",
		Status:        "completed",
		CreatedAt:     isoTime(*i.PaidAt),
	}
}

// ExpenseDoc mirrors an expense CashTransaction. The amount is stored
// negated, the category field is present (null until categorized) and the
// source field is absent. IncomeDoc shapes the opposite way; downstream
// consumers rely on this asymmetry.
type ExpenseDoc struct {
	TxID        string  `bson:"tx_id" json:"tx_id"`
	SourceID    int64   `bson:"source_id" json:"source_id"`
	Date        string  `bson:"date" json:"date"`
	Description string  `bson:"description" json:"description"`
	Amount      float64 `bson:"amount" json:"amount"`
	Category    *string `bson:"category" json:"category"`
	Method      string  `bson:"method" json:"method"`
	Type        string  `bson:"type" json:"type"`
}

func (d ExpenseDoc) Key() string      { return d.TxID }
func (d ExpenseDoc) KeyField() string { return "tx_id" }

// IncomeDoc mirrors an income CashTransaction.
type IncomeDoc struct {
	TxID        string  `bson:"tx_id" json:"tx_id"`
	SourceID    int64   `bson:"source_id" json:"source_id"`
	Date        string  `bson:"date" json:"date"`
	Description string  `bson:"description" json:"description"`
	Amount      float64 `bson:"amount" json:"amount"`
	Method      string  `bson:"method" json:"method"`
	Source      string  `bson:"source" json:"source"`
	Type        string  `bson:"type" json:"type"`
}

func (d IncomeDoc) Key() string      { return d.TxID }
func (d IncomeDoc) KeyField() string { return "tx_id" }

// NewCashDoc builds the mirrored document for a cash transaction, shaped by
// its type.
func NewCashDoc(tx *models.CashTransaction) Document {
	key := DeriveKey(KindCashTransaction, tx.ID)
	date := tx.CreatedAt.Format("2006-01-02")
	if tx.Type == models.TransactionTypeExpense {
		return ExpenseDoc{
			TxID:        key,
			SourceID:    tx.ID,
			Date:        date,
			Description: tx.Description,
			Amount:      tx.Amount.Neg().InexactFloat64(),
			Category:    nil,
			Method:      "cash",
			Type:        tx.Type,
		}
	}
	return IncomeDoc{
		TxID:        key,
		SourceID:    tx.ID,
		Date:        date,
		Description: tx.Description,
		Amount:      tx.Amount.InexactFloat64(),
		Method:      "cash",
		Source:      tx.SourceOrDestination,
		Type:        tx.Type,
	}
}

func isoTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := isoTime(*t)
	return &s
}
