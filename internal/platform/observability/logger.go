package observability

import (
	"context"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lechem-bakery/storefront/internal/platform/requestctx"
)

const defaultLogLevel = "info"

// LoggerOption customises NewLogger.
type LoggerOption func(*loggerOptions)

type loggerOptions struct {
	file       string
	maxSizeMB  int
	maxAgeDays int
}

// WithRotatingFile mirrors log output into a size rotated file next to stdout.
func WithRotatingFile(path string, maxSizeMB, maxAgeDays int) LoggerOption {
	return func(o *loggerOptions) {
		o.file = strings.TrimSpace(path)
		o.maxSizeMB = maxSizeMB
		o.maxAgeDays = maxAgeDays
	}
}

// NewLogger constructs a zap logger emitting structured JSON at the given level.
func NewLogger(level string, opts ...LoggerOption) (*zap.Logger, error) {
	var options loggerOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	atomic := zap.NewAtomicLevel()
	if err := atomic.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil || strings.TrimSpace(level) == "" {
		_ = atomic.UnmarshalText([]byte(defaultLogLevel))
	}

	encoderCfg := zapcore.EncoderConfig{
		MessageKey: "message",
		TimeKey:    "timestamp",
		LevelKey:   "severity",
		NameKey:    "logger",
		EncodeTime: zapcore.RFC3339NanoTimeEncoder,
		EncodeLevel: func(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(strings.ToUpper(level.String()))
		},
		EncodeDuration: zapcore.StringDurationEncoder,
		CallerKey:      "caller",
		EncodeCaller:   zapcore.ShortCallerEncoder,
		StacktraceKey:  "stacktrace",
	}

	if options.file == "" {
		cfg := zap.Config{
			Level:             atomic,
			Encoding:          "json",
			EncoderConfig:     encoderCfg,
			OutputPaths:       []string{"stdout"},
			ErrorOutputPaths:  []string{"stderr"},
			DisableStacktrace: true,
		}
		return cfg.Build()
	}

	rotator := &lumberjack.Logger{
		Filename:  options.file,
		MaxSize:   options.maxSizeMB,
		MaxAge:    options.maxAgeDays,
		Compress:  true,
		LocalTime: true,
	}
	sink := zapcore.NewMultiWriteSyncer(zapcore.Lock(os.Stdout), zapcore.AddSync(rotator))
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), sink, atomic)
	return zap.New(core, zap.AddCaller(), zap.ErrorOutput(zapcore.Lock(os.Stderr))), nil
}

// WithLogger injects the logger into the provided context.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return requestctx.WithLogger(ctx, logger)
}

// WithRequestFields augments the logger with standard request-scoped fields.
func WithRequestFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger.With(fields...)
}
