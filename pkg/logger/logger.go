package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	base *zap.Logger
	once sync.Once
)

// Init configures the process-wide logger. Safe to call more than once;
// only the first call takes effect. LOG_FORMAT=console switches away from
// the default JSON encoding for local development.
func Init() {
	once.Do(func() {
		encoderCfg := zap.NewProductionEncoderConfig()
		encoderCfg.TimeKey = "ts"
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

		var encoder zapcore.Encoder
		if os.Getenv("LOG_FORMAT") == "console" {
			encoder = zapcore.NewConsoleEncoder(encoderCfg)
		} else {
			encoder = zapcore.NewJSONEncoder(encoderCfg)
		}

		level := zapcore.InfoLevel
		if os.Getenv("LOG_LEVEL") == "debug" {
			level = zapcore.DebugLevel
		}

		core := zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level)
		base = zap.New(core)
	})
}

func fieldsOf(fields map[string]interface{}) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for key, value := range fields {
		out = append(out, zap.Any(key, value))
	}
	return out
}

func ensure() *zap.Logger {
	if base == nil {
		Init()
	}
	return base
}

func Info(event string, fields map[string]interface{}) {
	ensure().Info(event, fieldsOf(fields)...)
}

func Warn(event string, fields map[string]interface{}) {
	ensure().Warn(event, fieldsOf(fields)...)
}

func Error(event string, fields map[string]interface{}) {
	ensure().Error(event, fieldsOf(fields)...)
}

// InfoWithUser tags an event with the acting user's id.
func InfoWithUser(userID, event string, fields map[string]interface{}) {
	logFields := fieldsOf(fields)
	logFields = append(logFields, zap.String("user_id", userID))
	ensure().Info(event, logFields...)
}

// Sync flushes buffered log entries. Called on shutdown.
func Sync() {
	if base != nil {
		_ = base.Sync()
	}
}
