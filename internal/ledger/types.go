package ledger

import (
	"errors"
	"fmt"
)

// Ledger entry types, written verbatim into the transactions table.
const (
	TypeWithdrawal = "Withdrawal"
	TypeDeposit    = "Deposit"
)

// TransferToType annotates the sender's entry with the recipient account.
func TransferToType(recipientID string) string {
	return fmt.Sprintf("Transfer (To: %s)", recipientID)
}

// TransferFromType annotates the recipient's entry with the sender account.
func TransferFromType(senderID string) string {
	return fmt.Sprintf("Transfer (From: %s)", senderID)
}

var (
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrSameAccount       = errors.New("sender and recipient are the same account")
	ErrRecipientNotFound = errors.New("recipient account not found")
)
