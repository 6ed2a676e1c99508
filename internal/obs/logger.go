package obs

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LogConfig struct {
	Level  string
	Pretty bool
	App    string
	Env    string
	Ver    string
}

// NewLogger builds the process logger. An unknown level falls back to info;
// empty env and version are left out of every entry.
func NewLogger(c LogConfig) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if c.Pretty {
		cfg = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.InitialFields = processFields(c)

	return cfg.Build()
}

func processFields(c LogConfig) map[string]any {
	f := map[string]any{"service": c.App}
	if c.Env != "" {
		f["env"] = c.Env
	}
	if c.Ver != "" {
		f["version"] = c.Ver
	}
	return f
}

// Component scopes log to one part of the watchbot. A nil log yields a no-op
// logger so constructors can take an optional one.
func Component(log *zap.Logger, name string) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log.With(zap.String("component", name))
}
