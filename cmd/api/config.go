package main

import (
	"log/slog"
	"time"

	"github.com/atmbank/atm/internal/config"
)

type apiConfig struct {
	Port            uint16        `env:"APP_PORT" default:"8080"`
	LogLevel        slog.Level    `env:"APP_LOG_LEVEL" default:"INFO"`
	StoreTimeout    time.Duration `env:"STORE_TIMEOUT" default:"5s"`
	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT" default:"10s"`
	Postgres        config.PostgresConfig
}
