package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atmbank/atm/internal/repos/accounts"
)

func (r *accountsRepo) GetPINHash(ctx context.Context, userID string) (string, error) {
	var hash string

	err := r.db.QueryRowContext(ctx, `
		SELECT pin_hash
		FROM accounts
		WHERE user_id = $1
	`, userID).Scan(&hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", accounts.ErrAccountNotFound
		}

		return "", fmt.Errorf("get pin hash: %w", err)
	}

	return hash, nil
}
