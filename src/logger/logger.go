package logger

import (
	"context"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
)

const DefaultSlowThreshold = 200 * time.Millisecond

// SQLTracer logs executed statements. Statements slower than SlowThreshold are
// logged as warnings, failed statements as errors, everything else at debug.
type SQLTracer struct {
	logger        *log.Logger
	SlowThreshold time.Duration
}

func NewSQLTracer(logger *log.Logger, slowThreshold time.Duration) *SQLTracer {
	if logger == nil {
		logger = log.StandardLogger()
	}

	if slowThreshold <= 0 {
		slowThreshold = DefaultSlowThreshold
	}

	return &SQLTracer{
		logger:        logger,
		SlowThreshold: slowThreshold,
	}
}

func (l *SQLTracer) Trace(ctx context.Context, begin time.Time, sql string, rows int64, err error) {
	elapsed := time.Since(begin)
	if err == nil && elapsed <= l.SlowThreshold && !l.logger.IsLevelEnabled(log.DebugLevel) {
		return
	}

	entry := l.logger.WithContext(ctx).WithFields(log.Fields{
		"elapsed": elapsed,
		"rows":    rows,
		"sql":     sql,
	})

	if err != nil {
		entry.Error(err)
	} else if elapsed > l.SlowThreshold {
		entry.Warnf("SLOW SQL >= %v", l.SlowThreshold)
	} else {
		entry.Debug("SQL")
	}
}

// Setup configures the standard logrus logger.
func Setup(level string, json bool) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	log.SetOutput(os.Stderr)
	log.SetLevel(lvl)

	if json {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	return nil
}
