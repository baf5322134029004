package main

import (
	"log/slog"
	"time"

	"github.com/atmbank/atm/internal/config"
)

type atmConfig struct {
	// WARN by default: JSON logs share stderr with nothing, but the
	// interactive session should stay quiet unless something is wrong.
	LogLevel        slog.Level    `env:"APP_LOG_LEVEL" default:"WARN"`
	StoreTimeout    time.Duration `env:"STORE_TIMEOUT" default:"5s"`
	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT" default:"10s"`
	Postgres        config.PostgresConfig
}
