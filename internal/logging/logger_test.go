package logging

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/edvin/mabruk/internal/config"
)

func TestNewLogger_Level(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, NewLogger(&config.Config{LogLevel: "debug"}).GetLevel())
	assert.Equal(t, zerolog.InfoLevel, NewLogger(&config.Config{LogLevel: "loud"}).GetLevel())
	assert.Equal(t, zerolog.InfoLevel, NewLogger(&config.Config{}).GetLevel())
}
