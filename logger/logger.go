package logger

import (
	"github.com/iotaledger/hive.go/ierrors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logger type used throughout the allocation engine.
type Logger = zap.SugaredLogger

// ErrInvalidConfig is returned if the logger configuration can not be turned into a logger.
var ErrInvalidConfig = ierrors.New("invalid logger config")

// NewRootLogger creates a new root logger from the provided configuration. Empty settings fall back to the values of
// DefaultConfig.
func NewRootLogger(cfg Config) (*Logger, error) {
	defaults := DefaultConfig()
	if cfg.Level == "" {
		cfg.Level = defaults.Level
	}
	if cfg.Encoding == "" {
		cfg.Encoding = defaults.Encoding
	}
	if len(cfg.OutputPaths) == 0 {
		cfg.OutputPaths = defaults.OutputPaths
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, ierrors.Wrapf(ErrInvalidConfig, "unknown level %q", cfg.Level)
	}

	if cfg.Encoding != "console" && cfg.Encoding != "json" {
		return nil, ierrors.Wrapf(ErrInvalidConfig, "unknown encoding %q", cfg.Encoding)
	}

	zapCfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		DisableCaller:     cfg.DisableCaller,
		DisableStacktrace: cfg.DisableStacktrace,
		Encoding:          cfg.Encoding,
		EncoderConfig:     defaultEncoderConfig,
		OutputPaths:       cfg.OutputPaths,
		ErrorOutputPaths:  []string{"stderr"},
	}

	zapLogger, err := zapCfg.Build()
	if err != nil {
		return nil, ierrors.Wrap(err, "failed to build logger")
	}

	return zapLogger.Sugar(), nil
}
