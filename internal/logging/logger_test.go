package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestFromContextFallsBack(t *testing.T) {
	var buf bytes.Buffer
	fallback := zerolog.New(&buf).With().Str("from", "fallback").Logger()

	logger := FromContext(context.Background(), fallback)
	logger.Info().Msg("hello")
	assert.Contains(t, buf.String(), `"from":"fallback"`)
}

func TestIntoContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	scoped := zerolog.New(&buf).With().Str("request_id", "abc").Logger()
	ctx := IntoContext(context.Background(), scoped)

	logger := FromContext(ctx, zerolog.Nop())
	logger.Warn().Msg("scoped")
	assert.Contains(t, buf.String(), `"request_id":"abc"`)
}

func TestNewProductionLevel(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, New("ingenieras", "production").GetLevel())
	assert.Equal(t, zerolog.DebugLevel, New("ingenieras", "development").GetLevel())
}
