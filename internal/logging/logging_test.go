package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/notexe/dayplan/internal/config"
)

func TestNew(t *testing.T) {
	logger, err := New(config.LogConfig{Level: "warn"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	logger, err = New(config.LogConfig{Level: "DEBUG", Development: true})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	_, err = New(config.LogConfig{Level: "chatty"})
	assert.Error(t, err)
}
