package models

import "time"

// Person is someone bills can be split with.
//
// Identity is the UPI handle combined with the stable row ID; the ID is what
// split items reference and what mirrored documents derive their business key
// from.
type Person struct {
	// ID is the database-assigned row identifier.
	ID int64

	// Name is the display name of the person.
	Name string

	// UPIID is the payment-routing handle used to request payment.
	UPIID string

	// Phone is an optional contact number.
	Phone string

	// Email is an optional contact address.
	Email string

	// CreatedAt is when the person was added.
	CreatedAt time.Time

	// UpdatedAt is when the person was last edited.
	UpdatedAt time.Time
}
