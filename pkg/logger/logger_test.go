package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerDefaultsToNop(t *testing.T) {
	require.NotNil(t, Logger())
	assert.NotPanics(t, func() { Logger().Info("nothing to see") })
}

func TestInitialize(t *testing.T) {
	restore := Replace(Logger())
	defer restore()

	assert.NoError(t, Initialize("debug"))
	assert.True(t, Logger().Core().Enabled(zap.DebugLevel))

	assert.Error(t, Initialize("loud"))
}

func TestReplace(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	restore := Replace(zap.New(core))

	Logger().Info("hello", zap.Int64("chat_id", 7))
	restore()
	Logger().Info("dropped")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "hello", logs.All()[0].Message)
	assert.Equal(t, int64(7), logs.All()[0].ContextMap()["chat_id"])
}
