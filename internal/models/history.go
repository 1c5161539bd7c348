package models

import "time"

// History actions form a closed set; every mutation of a split or its items
// records exactly one of these.
const (
	HistoryActionCreated       = "created"
	HistoryActionPersonAdded   = "person_added"
	HistoryActionPersonRemoved = "person_removed"
	HistoryActionAmountChanged = "amount_changed"
	HistoryActionPaid          = "paid"
	HistoryActionSettled       = "settled"
)

// BillSplitHistory is one event in the audit trail of a bill split.
// History rows are append-only: there is no update or delete path.
type BillSplitHistory struct {
	// ID is the database-assigned row identifier.
	ID int64

	// SplitID is the bill split the event belongs to.
	SplitID int64

	// Action is one of the HistoryAction constants.
	Action string

	// Description is a human-readable summary of what happened.
	Description string

	// CreatedAt is when the event was recorded.
	CreatedAt time.Time
}
