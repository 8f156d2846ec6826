package logger

import (
	"path/filepath"
	"testing"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewRootLogger(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "qf.log")

	log, err := NewRootLogger(Config{
		Level:       "debug",
		Encoding:    "json",
		OutputPaths: []string{outputPath},
	})
	require.NoError(t, err)
	require.True(t, log.Desugar().Core().Enabled(zapcore.DebugLevel))

	log, err = NewRootLogger(Config{})
	require.NoError(t, err)
	require.False(t, log.Desugar().Core().Enabled(zapcore.DebugLevel))
	require.True(t, log.Desugar().Core().Enabled(zapcore.InfoLevel))
}

func TestNewRootLoggerInvalidConfig(t *testing.T) {
	_, err := NewRootLogger(Config{Level: "verbose"})
	require.True(t, ierrors.Is(err, ErrInvalidConfig))

	_, err = NewRootLogger(Config{Encoding: "xml"})
	require.True(t, ierrors.Is(err, ErrInvalidConfig))
}

func TestWrappedLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	wrapped := NewWrappedLogger(zap.New(core).Sugar())

	wrapped.LogDebugf("recomputed %d projects", 3)
	wrapped.LogWarnw("stale projects", "count", 2)
	wrapped.LogDebugw("recomputed projects", "count", 4)

	require.Equal(t, 3, logs.Len())
	require.Equal(t, "recomputed 3 projects", logs.All()[0].Message)
	require.Equal(t, int64(2), logs.All()[1].ContextMap()["count"])
	require.Equal(t, int64(4), logs.All()[2].ContextMap()["count"])
}

func TestWrappedLoggerWithoutLogger(t *testing.T) {
	wrapped := NewWrappedLogger(nil)

	require.NotPanics(t, func() {
		wrapped.LogDebugf("ignored")
		wrapped.LogInfof("ignored")
		wrapped.LogWarnf("ignored")
		wrapped.LogErrorf("ignored")
		wrapped.LogWarnw("ignored", "key", "value")
		wrapped.LogDebugw("ignored")
	})
}
