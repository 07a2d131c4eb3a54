package observability

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestInitLogger_LevelPerEnvironment(t *testing.T) {
	InitLogger("directory-api", "1.0.0", "development")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	InitLogger("directory-api", "1.0.0", "production")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestLoggerFromContext_NoSpan(t *testing.T) {
	logger := LoggerFromContext(context.Background())
	assert.NotNil(t, logger)
}
