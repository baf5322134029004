package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/atmbank/atm/internal/infra/logging"
	"github.com/atmbank/atm/internal/infra/pgutils"
	"github.com/atmbank/atm/internal/ledger"
	"github.com/atmbank/atm/internal/shell"
	"github.com/atmbank/atm/pkg/envconf"
	"github.com/atmbank/atm/pkg/shutdownqueue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		// the shell already printed the user-facing auth message
		if !errors.Is(err, shell.ErrAuthFailed) {
			fmt.Fprintf(os.Stderr, "error running atm: %v\n", err)
		}
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context) (retErr error) {
	cfg := new(atmConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logging.SetupJSON(cfg.LogLevel)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := shutdownqueue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Infra ---
	dbConns, err := pgutils.OpenDB(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	shutdownqueue.Add(func(context.Context) error {
		cerr := dbConns.Close()
		if cerr != nil {
			return fmt.Errorf("close db: %w", cerr)
		}

		return nil
	})

	ledgerSrv := ledger.New(dbConns)

	// --- Interactive session ---
	sh := shell.New(ledgerSrv, os.Stdin, os.Stdout, cfg.StoreTimeout)

	return sh.Run(ctx)
}
