package accounts

import (
	"database/sql"
	"fmt"

	"github.com/atmbank/atm/internal/repos/accounts"
)

func (r *accountsRepo) Credit(tx *sql.Tx, userID string, amount int64) error {
	res, err := tx.Exec(`
		UPDATE accounts
		SET balance = balance + $2
		WHERE user_id = $1
	`, userID, amount)
	if err != nil {
		return fmt.Errorf("credit balance: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return accounts.ErrAccountNotFound
	}

	return nil
}
