package mirror

import (
	"fmt"
	"time"
)

// Kind identifies which primary entity a mirrored document derives from.
// The kind is the prefix of the derived business key.
type Kind string

const (
	KindUser            Kind = "user"
	KindBill            Kind = "bill"
	KindBillItem        Kind = "item"
	KindHistory         Kind = "hist"
	KindCashTransaction Kind = "cash"
)

// DeriveKey maps a primary row to its stable business key. The key embeds the
// primary id but is a string of its own, so it survives a primary-store
// migration that renumbers nothing visible to downstream consumers.
func DeriveKey(kind Kind, id int64) string {
	return fmt.Sprintf("%s_%d", kind, id)
}

// PaymentKey derives the key of a synthesized payment transaction document:
// a composite of the split item and the moment it was paid. A later payment
// of the same item (after an unpaid toggle) yields a distinct key.
func PaymentKey(itemID int64, paidAt time.Time) string {
	return fmt.Sprintf("txn_%d_%d", itemID, paidAt.Unix())
}
