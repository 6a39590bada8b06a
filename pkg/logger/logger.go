package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	ServiceName   string
	IsDevelopment bool
	IsDebug       bool
	// Console switches to a human readable encoder on stderr, used by the
	// CLI so that stdout only carries collected data.
	Console       bool
	InitialFields []zap.Field
}

func New(cfg Config) (*zap.Logger, error) {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if cfg.IsDebug {
		level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	encoding := "json"
	lineEnding := zapcore.DefaultLineEnding
	outputs := []string{"stdout"}
	if cfg.Console {
		encoding = "console"
		outputs = []string{"stderr"}
	}

	zapCfg := zap.Config{
		Level:             level,
		Development:       cfg.IsDevelopment,
		DisableStacktrace: !cfg.IsDebug,
		Encoding:          encoding,
		EncoderConfig:     EncoderConfig(lineEnding),
		OutputPaths:       outputs,
		ErrorOutputPaths:  []string{"stderr"},
	}

	l, err := zapCfg.Build(
		zap.Fields(
			zap.String("service", cfg.ServiceName),
			zap.Int("pid", os.Getpid()),
		),
		zap.Fields(cfg.InitialFields...),
	)
	if err != nil {
		return nil, fmt.Errorf("error building logger: %w", err)
	}

	return l, nil
}

func EncoderConfig(lineEnding string) zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:       "timestamp",
		MessageKey:    "message",
		LevelKey:      "level",
		EncodeLevel:   zapcore.LowercaseLevelEncoder,
		NameKey:       "logger",
		StacktraceKey: "stacktrace",
		EncodeTime:    zapcore.RFC3339TimeEncoder,
		LineEnding:    lineEnding,
	}
}
