package logging

import "go.uber.org/zap"

// KVLogger adapts a zap logger to the key/value logging interface the
// HTTP adapter consumes.
type KVLogger struct {
	sugar *zap.SugaredLogger
}

// NewKV wraps a zap logger in a key/value adapter
func NewKV(logger *zap.Logger) *KVLogger {
	return &KVLogger{sugar: logger.Sugar()}
}

// Info logs at info level with alternating key/value pairs
func (l *KVLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Infow(msg, keysAndValues...)
}

// Error logs at error level with alternating key/value pairs
func (l *KVLogger) Error(msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, keysAndValues...)
}
