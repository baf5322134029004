package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/atmbank/atm/internal/ledger"
	"github.com/atmbank/atm/internal/repos/accounts"
	"github.com/atmbank/atm/internal/repos/transactions"
)

type stubService struct {
	balance     int64
	balanceErr  error
	history     []transactions.Transaction
	historyErr  error
	mutateErr   error
	transferErr error
}

func (s *stubService) Balance(context.Context, string) (int64, error) {
	return s.balance, s.balanceErr
}

func (s *stubService) History(context.Context, string) ([]transactions.Transaction, error) {
	return s.history, s.historyErr
}

func (s *stubService) Withdraw(_ context.Context, _ string, amount int64) (int64, error) {
	if s.mutateErr != nil {
		return 0, s.mutateErr
	}
	return s.balance - amount, nil
}

func (s *stubService) Deposit(_ context.Context, _ string, amount int64) (int64, error) {
	if s.mutateErr != nil {
		return 0, s.mutateErr
	}
	return s.balance + amount, nil
}

func (s *stubService) Transfer(_ context.Context, _, _ string, amount int64) (int64, error) {
	if s.transferErr != nil {
		return 0, s.transferErr
	}
	return s.balance - amount, nil
}

func doRequest(t *testing.T, svc LedgerService, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var rdr *strings.Reader
	if body == "" {
		rdr = strings.NewReader("")
	} else {
		rdr = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	NewRouter(svc, time.Second).ServeHTTP(rec, req)

	return rec
}

// deadlineCaptureService records whether the context handed to the store
// layer carries a deadline.
type deadlineCaptureService struct {
	stubService
	hadDeadline bool
}

func (s *deadlineCaptureService) Balance(ctx context.Context, _ string) (int64, error) {
	_, s.hadDeadline = ctx.Deadline()
	return s.balance, nil
}

func (s *deadlineCaptureService) Withdraw(ctx context.Context, _ string, amount int64) (int64, error) {
	_, s.hadDeadline = ctx.Deadline()
	return s.balance - amount, nil
}

func TestHandlers_StoreCallsAreBounded(t *testing.T) {
	t.Parallel()

	t.Run("balance", func(t *testing.T) {
		t.Parallel()

		svc := &deadlineCaptureService{}
		rec := doRequest(t, svc, http.MethodGet, "/account/user1/balance", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status: want 200, got %d", rec.Code)
		}
		if !svc.hadDeadline {
			t.Fatal("store call ran without a deadline")
		}
	})

	t.Run("withdraw", func(t *testing.T) {
		t.Parallel()

		svc := &deadlineCaptureService{stubService: stubService{balance: 10_000}}
		rec := doRequest(t, svc, http.MethodPost, "/account/user1/withdraw", `{"amount":"1.00"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status: want 200, got %d", rec.Code)
		}
		if !svc.hadDeadline {
			t.Fatal("store call ran without a deadline")
		}
	})
}

func TestGetBalanceHandler(t *testing.T) {
	t.Parallel()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()

		rec := doRequest(t, &stubService{balance: 15_000}, http.MethodGet, "/account/user1/balance", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status: want 200, got %d (%s)", rec.Code, rec.Body.String())
		}

		var resp struct {
			UserID  string `json:"userId"`
			Balance string `json:"balance"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.UserID != "user1" || resp.Balance != "150.00" {
			t.Fatalf("unexpected response: %+v", resp)
		}
	})

	t.Run("account_not_found", func(t *testing.T) {
		t.Parallel()

		rec := doRequest(t, &stubService{balanceErr: accounts.ErrAccountNotFound},
			http.MethodGet, "/account/ghost/balance", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status: want 404, got %d", rec.Code)
		}
	})
}

func TestGetHistoryHandler(t *testing.T) {
	t.Parallel()

	svc := &stubService{history: []transactions.Transaction{
		{
			TransactionID: 7,
			UserID:        "user1",
			Amount:        5_000,
			Type:          "Transfer (To: user2)",
			CreatedAt:     time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		},
	}}

	rec := doRequest(t, svc, http.MethodGet, "/account/user1/transactions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want 200, got %d", rec.Code)
	}

	var resp []struct {
		TransactionID int64  `json:"transactionId"`
		Amount        string `json:"amount"`
		Type          string `json:"type"`
		CreatedAt     string `json:"createdAt"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp) != 1 {
		t.Fatalf("want 1 entry, got %d", len(resp))
	}
	if resp[0].TransactionID != 7 || resp[0].Amount != "50.00" || resp[0].Type != "Transfer (To: user2)" {
		t.Fatalf("unexpected entry: %+v", resp[0])
	}
}

func TestWithdrawHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		svc        *stubService
		body       string
		wantStatus int
	}{
		{
			name:       "ok",
			svc:        &stubService{balance: 30_000},
			body:       `{"amount":"100.00"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "insufficient",
			svc:        &stubService{mutateErr: accounts.ErrInsufficientFunds},
			body:       `{"amount":"9999.00"}`,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "bad_amount",
			svc:        &stubService{},
			body:       `{"amount":"1.234"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "empty_body",
			svc:        &stubService{},
			body:       "",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown_field",
			svc:        &stubService{},
			body:       `{"amount":"1.00","bogus":true}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "account_not_found",
			svc:        &stubService{mutateErr: accounts.ErrAccountNotFound},
			body:       `{"amount":"1.00"}`,
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := doRequest(t, tt.svc, http.MethodPost, "/account/user1/withdraw", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status: want %d, got %d (%s)", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestTransferHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		svc        *stubService
		body       string
		wantStatus int
	}{
		{
			name:       "ok",
			svc:        &stubService{balance: 20_000},
			body:       `{"recipientId":"user2","amount":"50.00"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing_recipient",
			svc:        &stubService{},
			body:       `{"amount":"50.00"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "recipient_not_found",
			svc:        &stubService{transferErr: ledger.ErrRecipientNotFound},
			body:       `{"recipientId":"ghost","amount":"50.00"}`,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "same_account",
			svc:        &stubService{transferErr: ledger.ErrSameAccount},
			body:       `{"recipientId":"user1","amount":"50.00"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := doRequest(t, tt.svc, http.MethodPost, "/account/user1/transfer", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status: want %d, got %d (%s)", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	rec := doRequest(t, &stubService{}, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want 200, got %d", rec.Code)
	}
}
