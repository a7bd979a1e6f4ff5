package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Silent until Init runs, so packages under test log nothing by default.
var globalLogger = zap.NewNop().Sugar()

// Init builds the JSON logger. Production gets info level and sampling,
// anything else debug. level, when set, overrides either default.
func Init(appEnv, level string) error {
	config := zap.NewDevelopmentConfig()
	if appEnv == "production" {
		config = zap.NewProductionConfig()
	}
	config.Encoding = "json"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
		}
		config.Level = zap.NewAtomicLevelAt(lvl)
	}

	logger, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	globalLogger = logger.Sugar().With("service", "skydesk", "env", appEnv)
	return nil
}

func GetLogger() *zap.SugaredLogger {
	return globalLogger
}

// SetLogger swaps the global logger; tests use it with zaptest/observer.
func SetLogger(l *zap.SugaredLogger) {
	globalLogger = l
}

// Close flushes buffered entries.
func Close() error {
	return globalLogger.Sync()
}

func Info(message string, fields ...interface{}) {
	globalLogger.Infow(message, fields...)
}

func Debug(message string, fields ...interface{}) {
	globalLogger.Debugw(message, fields...)
}

func Warn(message string, fields ...interface{}) {
	globalLogger.Warnw(message, fields...)
}

func Error(message string, fields ...interface{}) {
	globalLogger.Errorw(message, fields...)
}

// WithRequest tags a logger with the request id and, when signed in, the
// portal session and backend user id.
func WithRequest(requestID, sessionID string, userID int, endpoint string) *zap.SugaredLogger {
	fields := []interface{}{"request_id", requestID, "endpoint", endpoint}
	if sessionID != "" {
		fields = append(fields, "session_id", sessionID, "user_id", userID)
	}
	return globalLogger.With(fields...)
}
