package logging

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/edvin/mabruk/internal/config"
)

// NewLogger creates a JSON zerolog.Logger on stdout tagged with the service
// name. Unknown levels fall back to info.
func NewLogger(cfg *config.Config) zerolog.Logger {
	ctx := zerolog.New(os.Stdout).With().Timestamp()

	if cfg.ServiceName != "" {
		ctx = ctx.Str("service", cfg.ServiceName)
	}
	if cfg.StoreDriver != "" {
		ctx = ctx.Str("store", cfg.StoreDriver)
	}

	logger := ctx.Logger()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}

	return logger.Level(level)
}
