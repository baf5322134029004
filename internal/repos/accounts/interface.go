package accounts

import (
	"context"
	"database/sql"
	"errors"
)

var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

type Accounts interface {
	// GetPINHash returns the stored bcrypt hash for the account's PIN.
	GetPINHash(ctx context.Context, userID string) (string, error)
	// GetBalance reads the balance without locking (suitable for plain reads).
	GetBalance(ctx context.Context, userID string) (int64, error)
	// LockAndGetBalance reads the balance under FOR UPDATE; the row stays
	// locked until tx commits or rolls back.
	LockAndGetBalance(tx *sql.Tx, userID string) (int64, error)
	// Credit adds amount to the balance. ErrAccountNotFound if no row matched.
	Credit(tx *sql.Tx, userID string, amount int64) error
	// Debit subtracts amount, guarded by balance >= amount.
	// ErrInsufficientFunds if no row matched.
	Debit(tx *sql.Tx, userID string, amount int64) error
}
