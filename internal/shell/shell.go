// Package shell is the interactive console front-end: it authenticates one
// user, then loops on the ATM menu dispatching to the ledger core. All domain
// errors are reported to the user and the menu continues; unexpected store
// errors abort the session.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/atmbank/atm/internal/ledger"
	"github.com/atmbank/atm/internal/repos/accounts"
	"github.com/atmbank/atm/internal/repos/transactions"
	"github.com/atmbank/atm/pkg/money"
)

// ErrAuthFailed ends the session before the menu is shown; the process
// should exit non-zero.
var ErrAuthFailed = errors.New("invalid user ID or PIN")

// Core is the slice of the ledger service the shell drives.
type Core interface {
	Authenticate(ctx context.Context, userID, pin string) (bool, error)
	History(ctx context.Context, userID string) ([]transactions.Transaction, error)
	Withdraw(ctx context.Context, userID string, amount int64) (int64, error)
	Deposit(ctx context.Context, userID string, amount int64) (int64, error)
	Transfer(ctx context.Context, senderID, recipientID string, amount int64) (int64, error)
}

type Shell struct {
	core      Core
	in        *bufio.Scanner
	out       io.Writer
	opTimeout time.Duration
}

func New(core Core, in io.Reader, out io.Writer, opTimeout time.Duration) *Shell {
	return &Shell{
		core:      core,
		in:        bufio.NewScanner(in),
		out:       out,
		opTimeout: opTimeout,
	}
}

// Run drives one session: authenticate once, then loop on the menu until
// quit (nil), input ends (nil), or an unexpected error occurs. EOF at any
// prompt is a clean session end, not an error.
func (s *Shell) Run(ctx context.Context) error {
	userID, err := s.prompt("User ID: ")
	if err != nil {
		return ignoreEOF(err)
	}

	pin, err := s.prompt("PIN: ")
	if err != nil {
		return ignoreEOF(err)
	}

	ok, err := s.authenticate(ctx, userID, pin)
	if err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}

	if !ok {
		fmt.Fprintln(s.out, "Invalid user ID or PIN. Exiting...")

		return ErrAuthFailed
	}

	for {
		fmt.Fprintln(s.out)
		fmt.Fprintln(s.out, "ATM Menu:")
		fmt.Fprintln(s.out, "1. Transaction History")
		fmt.Fprintln(s.out, "2. Withdraw")
		fmt.Fprintln(s.out, "3. Deposit")
		fmt.Fprintln(s.out, "4. Transfer")
		fmt.Fprintln(s.out, "5. Quit")

		choice, err := s.prompt("Enter your choice (1-5): ")
		if err != nil {
			return ignoreEOF(err)
		}

		switch choice {
		case "1":
			err = s.showHistory(ctx, userID)
		case "2":
			err = s.withdraw(ctx, userID)
		case "3":
			err = s.deposit(ctx, userID)
		case "4":
			err = s.transfer(ctx, userID)
		case "5":
			fmt.Fprintln(s.out, "Thank you for using the ATM. Goodbye!")

			return nil
		default:
			fmt.Fprintln(s.out, "Invalid choice. Please try again.")

			continue
		}

		if err != nil {
			return ignoreEOF(err)
		}
	}
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}

	return err
}

func (s *Shell) authenticate(ctx context.Context, userID, pin string) (bool, error) {
	octx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	return s.core.Authenticate(octx, userID, pin)
}

func (s *Shell) showHistory(ctx context.Context, userID string) error {
	octx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	list, err := s.core.History(octx, userID)
	if err != nil {
		return s.reportError(err)
	}

	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "Transaction History:")

	for _, tr := range list {
		fmt.Fprintf(s.out, "Transaction ID: %d\n", tr.TransactionID)
		fmt.Fprintf(s.out, "Amount: %s\n", money.Format(tr.Amount))
		fmt.Fprintf(s.out, "Type: %s\n", tr.Type)
		fmt.Fprintf(s.out, "Date: %s\n", tr.CreatedAt.Format(time.DateTime))
		fmt.Fprintln(s.out, "--------------------")
	}

	return nil
}

func (s *Shell) withdraw(ctx context.Context, userID string) error {
	amount, err := s.promptAmount("Enter the amount to withdraw: ")
	if err != nil {
		return err
	}
	if amount == 0 {
		return nil // already reported
	}

	octx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	newBalance, err := s.core.Withdraw(octx, userID, amount)
	if err != nil {
		return s.reportError(err)
	}

	fmt.Fprintf(s.out, "Withdrawal successful. Updated balance: %s\n", money.Format(newBalance))

	return nil
}

func (s *Shell) deposit(ctx context.Context, userID string) error {
	amount, err := s.promptAmount("Enter the amount: ")
	if err != nil {
		return err
	}
	if amount == 0 {
		return nil
	}

	octx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	newBalance, err := s.core.Deposit(octx, userID, amount)
	if err != nil {
		return s.reportError(err)
	}

	fmt.Fprintf(s.out, "Deposit successful. Updated balance: %s\n", money.Format(newBalance))

	return nil
}

func (s *Shell) transfer(ctx context.Context, userID string) error {
	recipientID, err := s.prompt("Enter the recipient's user ID: ")
	if err != nil {
		return err
	}

	amount, err := s.promptAmount("Enter the amount to transfer: ")
	if err != nil {
		return err
	}
	if amount == 0 {
		return nil
	}

	octx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	newBalance, err := s.core.Transfer(octx, userID, recipientID, amount)
	if err != nil {
		return s.reportError(err)
	}

	fmt.Fprintf(s.out, "Transfer successful. Updated balance: %s\n", money.Format(newBalance))

	return nil
}

func (s *Shell) prompt(message string) (string, error) {
	fmt.Fprint(s.out, message)

	if !s.in.Scan() {
		err := s.in.Err()
		if err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}

		return "", io.EOF
	}

	return s.in.Text(), nil
}

// promptAmount reads and parses an amount. Invalid input is reported to the
// user and signalled with (0, nil) so the caller returns to the menu.
func (s *Shell) promptAmount(message string) (int64, error) {
	raw, err := s.prompt(message)
	if err != nil {
		return 0, err
	}

	amount, err := money.ParseAmount(raw)
	if err != nil {
		fmt.Fprintln(s.out, "Invalid amount. Please enter a positive number with at most 2 decimals.")

		return 0, nil
	}

	return amount, nil
}

// reportError prints recoverable domain errors and swallows them so the menu
// loop continues; anything else propagates and ends the session.
func (s *Shell) reportError(err error) error {
	switch {
	case errors.Is(err, accounts.ErrInsufficientFunds):
		fmt.Fprintln(s.out, "Insufficient balance. Transaction failed.")
	case errors.Is(err, ledger.ErrRecipientNotFound):
		fmt.Fprintln(s.out, "Recipient user ID not found. Transfer failed.")
	case errors.Is(err, ledger.ErrSameAccount):
		fmt.Fprintln(s.out, "Cannot transfer to the same account.")
	case errors.Is(err, accounts.ErrAccountNotFound):
		fmt.Fprintln(s.out, "Account not found. Transaction failed.")
	case errors.Is(err, ledger.ErrInvalidAmount):
		fmt.Fprintln(s.out, "Invalid amount. Transaction failed.")
	default:
		return err
	}

	return nil
}
