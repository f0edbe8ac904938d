package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitAndSetLevel(t *testing.T) {
	require.NoError(t, Init("production"))
	assert.Equal(t, zapcore.InfoLevel, level.Level())

	require.NoError(t, SetLevel("warn"))
	assert.Equal(t, zapcore.WarnLevel, level.Level())

	assert.Error(t, SetLevel("loud"))
	assert.Equal(t, zapcore.WarnLevel, level.Level())

	require.NoError(t, Init("development"))
	assert.Equal(t, zapcore.DebugLevel, level.Level())
}
