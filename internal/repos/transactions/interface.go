package transactions

import (
	"context"
	"database/sql"
	"time"
)

// Transaction is one immutable ledger entry. Amount is always the positive
// magnitude of the movement; Type says which direction it went.
type Transaction struct {
	TransactionID int64
	UserID        string
	Amount        int64 // cents
	Type          string
	CreatedAt     time.Time
}

type Transactions interface {
	// Insert appends a ledger entry inside tx and returns the assigned
	// transaction_id.
	Insert(tx *sql.Tx, userID string, amount int64, entryType string) (int64, error)
	// ListByUser returns all entries for the account in ascending
	// transaction_id order.
	ListByUser(ctx context.Context, userID string) ([]Transaction, error)
}
