package mirror

// Collections maps logical collection roles to concrete collection names in
// the secondary store. The mapping comes from configuration so downstream
// consumers can point roles at whatever collections they already read.
type Collections struct {
	Expenses     string
	Incomes      string
	Users        string
	Bills        string
	BillItems    string
	Transactions string
	History      string
}

// DefaultCollections returns the role-to-name mapping used when the
// configuration does not override one.
func DefaultCollections() Collections {
	return Collections{
		Expenses:     "expenses",
		Incomes:      "incomes",
		Users:        "users",
		Bills:        "bills",
		BillItems:    "bill_items",
		Transactions: "transactions",
		History:      "history",
	}
}
