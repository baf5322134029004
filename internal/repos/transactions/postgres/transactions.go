package transactions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/atmbank/atm/internal/repos/accounts"
	"github.com/atmbank/atm/internal/repos/transactions"
)

var _ transactions.Transactions = (*transactionsRepo)(nil)

type transactionsRepo struct{ db *sql.DB }

func New(db *sql.DB) *transactionsRepo {
	return &transactionsRepo{db: db}
}

func (r *transactionsRepo) Insert(tx *sql.Tx, userID string, amount int64, entryType string) (int64, error) {
	var id int64

	err := tx.QueryRow(`
		INSERT INTO transactions (user_id, amount, type)
		VALUES ($1, $2, $3)
		RETURNING transaction_id
	`, userID, amount, entryType).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23503" { // foreign_key_violation
				return 0, accounts.ErrAccountNotFound
			}
		}

		return 0, fmt.Errorf("insert transaction: %w", err)
	}

	return id, nil
}

func (r *transactionsRepo) ListByUser(ctx context.Context, userID string) ([]transactions.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT transaction_id, user_id, amount, type, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY transaction_id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []transactions.Transaction

	for rows.Next() {
		var t transactions.Transaction

		err = rows.Scan(&t.TransactionID, &t.UserID, &t.Amount, &t.Type, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}

		out = append(out, t)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	return out, nil
}
