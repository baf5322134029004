package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/atmbank/atm/internal/ledger"
	"github.com/atmbank/atm/internal/repos/accounts"
	"github.com/atmbank/atm/internal/repos/transactions"
	"github.com/atmbank/atm/pkg/money"
)

// LedgerService is the slice of the ledger core the API exposes.
type LedgerService interface {
	Balance(ctx context.Context, userID string) (int64, error)
	History(ctx context.Context, userID string) ([]transactions.Transaction, error)
	Withdraw(ctx context.Context, userID string, amount int64) (int64, error)
	Deposit(ctx context.Context, userID string, amount int64) (int64, error)
	Transfer(ctx context.Context, senderID, recipientID string, amount int64) (int64, error)
}

// HandlerProvider wraps a LedgerService and exposes HTTP handlers.
// Every store call runs under storeTimeout so a blocked row lock cannot
// hold a handler for longer than the configured bound.
type HandlerProvider struct {
	svc          LedgerService
	storeTimeout time.Duration
}

// NewHandler returns a new Handler provider.
func NewHandler(svc LedgerService, storeTimeout time.Duration) *HandlerProvider {
	return &HandlerProvider{svc: svc, storeTimeout: storeTimeout}
}

func (h *HandlerProvider) opCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.storeTimeout)
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps ledger/repo errors to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount), errors.Is(err, ledger.ErrSameAccount):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrRecipientNotFound):
		writeError(w, http.StatusNotFound, "recipient not found")
	case errors.Is(err, accounts.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, "account not found")
	case errors.Is(err, accounts.ErrInsufficientFunds):
		writeError(w, http.StatusConflict, "insufficient balance")
	default:
		slog.Error("ledger operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB cap
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		if errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "empty body")
			return false
		}

		writeError(w, http.StatusBadRequest, "invalid JSON")
		return false
	}

	return true
}

type amountRequest struct {
	Amount string `json:"amount"`
}

type transferRequest struct {
	RecipientID string `json:"recipientId"`
	Amount      string `json:"amount"`
}

type balanceResponse struct {
	UserID  string `json:"userId"`
	Balance string `json:"balance"`
}

type transactionResponse struct {
	TransactionID int64  `json:"transactionId"`
	UserID        string `json:"userId"`
	Amount        string `json:"amount"`
	Type          string `json:"type"`
	CreatedAt     string `json:"createdAt"`
}

// --- Handlers ---

// GetBalanceHandler handles GET /account/{userID}/balance
func (h *HandlerProvider) GetBalanceHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing userID in path")
		return
	}

	ctx, cancel := h.opCtx(r)
	defer cancel()

	bal, err := h.svc.Balance(ctx, userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, balanceResponse{UserID: userID, Balance: money.Format(bal)})
}

// GetHistoryHandler handles GET /account/{userID}/transactions
func (h *HandlerProvider) GetHistoryHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing userID in path")
		return
	}

	ctx, cancel := h.opCtx(r)
	defer cancel()

	list, err := h.svc.History(ctx, userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]transactionResponse, 0, len(list))
	for _, tr := range list {
		out = append(out, transactionResponse{
			TransactionID: tr.TransactionID,
			UserID:        tr.UserID,
			Amount:        money.Format(tr.Amount),
			Type:          tr.Type,
			CreatedAt:     tr.CreatedAt.Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, out)
}

// WithdrawHandler handles POST /account/{userID}/withdraw
func (h *HandlerProvider) WithdrawHandler(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.svc.Withdraw)
}

// DepositHandler handles POST /account/{userID}/deposit
func (h *HandlerProvider) DepositHandler(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.svc.Deposit)
}

func (h *HandlerProvider) mutate(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, userID string, amount int64) (int64, error),
) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing userID in path")
		return
	}

	var req amountRequest
	if !decodeBody(w, r, &req) {
		return
	}

	amount, err := money.ParseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := h.opCtx(r)
	defer cancel()

	newBalance, err := op(ctx, userID, amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, balanceResponse{UserID: userID, Balance: money.Format(newBalance)})
}

// TransferHandler handles POST /account/{userID}/transfer
func (h *HandlerProvider) TransferHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing userID in path")
		return
	}

	var req transferRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.RecipientID == "" {
		writeError(w, http.StatusBadRequest, "recipientId required")
		return
	}

	amount, err := money.ParseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := h.opCtx(r)
	defer cancel()

	newBalance, err := h.svc.Transfer(ctx, userID, req.RecipientID, amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, balanceResponse{UserID: userID, Balance: money.Format(newBalance)})
}
