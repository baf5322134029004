// Package ledger implements the account ledger service: PIN authentication
// plus balance-mutating operations that pair every debit/credit with an
// append-only transaction record.
//
// Every mutation runs as one database transaction: the account row is locked
// with FOR UPDATE, the sufficiency check happens against the locked balance,
// and the balance update and ledger entry commit together or not at all.
// Concurrent sessions touching the same account serialize on the row lock.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/atmbank/atm/internal/infra/pgutils"
	"github.com/atmbank/atm/internal/repos/accounts"
	pgaccounts "github.com/atmbank/atm/internal/repos/accounts/postgres"
	"github.com/atmbank/atm/internal/repos/transactions"
	pgtransactions "github.com/atmbank/atm/internal/repos/transactions/postgres"
)

type Service struct {
	db       *sql.DB
	accounts accounts.Accounts
	txns     transactions.Transactions
}

func New(db *sql.DB) *Service {
	return &Service{
		db:       db,
		accounts: pgaccounts.New(db),
		txns:     pgtransactions.New(db),
	}
}

// Authenticate reports whether the PIN matches the account's stored bcrypt
// hash. An unknown account and a wrong PIN are both (false, nil); the error
// is reserved for store failures.
func (s *Service) Authenticate(ctx context.Context, userID, pin string) (bool, error) {
	hash, err := s.accounts.GetPINHash(ctx, userID)
	if err != nil {
		if errors.Is(err, accounts.ErrAccountNotFound) {
			return false, nil
		}

		return false, fmt.Errorf("get pin hash: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin))
	if err != nil {
		return false, nil
	}

	return true, nil
}

// Balance returns the account's current balance in cents.
func (s *Service) Balance(ctx context.Context, userID string) (int64, error) {
	balance, err := s.accounts.GetBalance(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}

	return balance, nil
}

// History returns all ledger entries for the account in ascending
// transaction_id order. Unknown accounts fail with ErrAccountNotFound rather
// than returning an empty list.
func (s *Service) History(ctx context.Context, userID string) ([]transactions.Transaction, error) {
	_, err := s.accounts.GetBalance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check account: %w", err)
	}

	list, err := s.txns.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	return list, nil
}

// Withdraw debits the account and logs a Withdrawal entry, returning the new
// balance.
func (s *Service) Withdraw(ctx context.Context, userID string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	var newBalance int64

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		balance, err := s.accounts.LockAndGetBalance(tx, userID)
		if err != nil {
			return fmt.Errorf("lock and get balance: %w", err)
		}

		// pre-check against the locked balance
		if balance < amount {
			return fmt.Errorf("pre-check debit: %w", accounts.ErrInsufficientFunds)
		}

		err = s.accounts.Debit(tx, userID, amount)
		if err != nil {
			return fmt.Errorf("debit: %w", err)
		}

		_, err = s.txns.Insert(tx, userID, amount, TypeWithdrawal)
		if err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}

		newBalance = balance - amount

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("withdraw: %w", err)
	}

	return newBalance, nil
}

// Deposit credits the account and logs a Deposit entry, returning the new
// balance. Depositing to an unknown account fails with ErrAccountNotFound
// and logs nothing.
func (s *Service) Deposit(ctx context.Context, userID string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	var newBalance int64

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		balance, err := s.accounts.LockAndGetBalance(tx, userID)
		if err != nil {
			return fmt.Errorf("lock and get balance: %w", err)
		}

		err = s.accounts.Credit(tx, userID, amount)
		if err != nil {
			return fmt.Errorf("credit: %w", err)
		}

		_, err = s.txns.Insert(tx, userID, amount, TypeDeposit)
		if err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}

		newBalance = balance + amount

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("deposit: %w", err)
	}

	return newBalance, nil
}

// Transfer moves amount from sender to recipient and logs a reciprocal pair
// of entries. The debit, credit, and both entries commit atomically; any
// failure, including an unknown recipient, rolls the whole operation back.
// Returns the sender's new balance.
func (s *Service) Transfer(ctx context.Context, senderID, recipientID string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	if senderID == recipientID {
		return 0, ErrSameAccount
	}

	var newBalance int64

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		senderBalance, err := s.lockBothAccounts(tx, senderID, recipientID)
		if err != nil {
			return err
		}

		if senderBalance < amount {
			return fmt.Errorf("pre-check debit: %w", accounts.ErrInsufficientFunds)
		}

		err = s.accounts.Debit(tx, senderID, amount)
		if err != nil {
			return fmt.Errorf("debit sender: %w", err)
		}

		err = s.accounts.Credit(tx, recipientID, amount)
		if err != nil {
			return fmt.Errorf("credit recipient: %w", err)
		}

		_, err = s.txns.Insert(tx, senderID, amount, TransferToType(recipientID))
		if err != nil {
			return fmt.Errorf("insert sender transaction: %w", err)
		}

		_, err = s.txns.Insert(tx, recipientID, amount, TransferFromType(senderID))
		if err != nil {
			return fmt.Errorf("insert recipient transaction: %w", err)
		}

		newBalance = senderBalance - amount

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("transfer: %w", err)
	}

	return newBalance, nil
}

// lockBothAccounts locks the sender and recipient rows in lexicographic
// user-ID order so two opposite transfers cannot deadlock, and returns the
// sender's locked balance. A missing recipient maps to ErrRecipientNotFound.
func (s *Service) lockBothAccounts(tx *sql.Tx, senderID, recipientID string) (int64, error) {
	first, second := senderID, recipientID
	if recipientID < senderID {
		first, second = recipientID, senderID
	}

	var senderBalance int64

	for _, id := range []string{first, second} {
		balance, err := s.accounts.LockAndGetBalance(tx, id)
		if err != nil {
			if id == recipientID && errors.Is(err, accounts.ErrAccountNotFound) {
				return 0, fmt.Errorf("lock recipient: %w", ErrRecipientNotFound)
			}

			return 0, fmt.Errorf("lock account %s: %w", id, err)
		}

		if id == senderID {
			senderBalance = balance
		}
	}

	return senderBalance, nil
}
