package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// NewRouter constructs the router with all API endpoints registered.
func NewRouter(svc LedgerService, storeTimeout time.Duration) http.Handler {
	h := NewHandler(svc, storeTimeout)
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/account/{userID}/balance", h.GetBalanceHandler)
	r.Get("/account/{userID}/transactions", h.GetHistoryHandler)
	r.Post("/account/{userID}/withdraw", h.WithdrawHandler)
	r.Post("/account/{userID}/deposit", h.DepositHandler)
	r.Post("/account/{userID}/transfer", h.TransferHandler)

	return r
}
