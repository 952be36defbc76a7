package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		logger, err := New("debug", format)
		require.NoError(t, err, format)
		require.NotNil(t, logger)
		logger.Debug("probe")
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New("shouty", "json")
	assert.Error(t, err)

	_, err = New("info", "xml")
	assert.Error(t, err)
}

func TestTestLoggerObserves(t *testing.T) {
	tl := NewTestLogger()
	tl.Logger.Info("something happened")
	tl.Logger.Debug("fine detail")

	assert.Len(t, tl.All(), 2)
	tl.AssertLogged(t, zapcore.InfoLevel, "something happened")
	tl.AssertLogged(t, zapcore.DebugLevel, "fine detail")
}
