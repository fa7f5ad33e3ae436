package alloc

import (
	"os"
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the alloc package's logger instance.
// It uses a no-op logger unless HEAP_LOG_ALLOC is set.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger != nil {
			return
		}
		if os.Getenv("HEAP_LOG_ALLOC") != "" {
			if l, err := zap.NewDevelopment(); err == nil {
				logger = l.Named("alloc")
				return
			}
		}
		logger = zap.NewNop()
	})
	return logger
}

// SetLogger configures the alloc package's logger.
// This must be called before any allocator operations.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}
