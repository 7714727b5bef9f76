// logging.go - package-level structured logging for the GS translator core

package gs

import "sync/atomic"

// Logger is the minimal structured-logging surface the core uses. It is
// satisfied by *zap.SugaredLogger among others; callers who don't want
// logging never need to implement it since the default is a discard
// logger.
type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
}

type discardLogger struct{}

func (discardLogger) Debugw(string, ...interface{}) {}
func (discardLogger) Infow(string, ...interface{})  {}
func (discardLogger) Warnw(string, ...interface{})  {}
func (discardLogger) Errorw(string, ...interface{}) {}

var globalLogger atomic.Pointer[Logger]

func init() {
	var l Logger = discardLogger{}
	globalLogger.Store(&l)
}

// SetLogger installs the package-wide logger that every Translator and
// package-level helper writes through, including translators created
// before the call. Passing nil restores the
// discard logger. Not safe to call concurrently with active translator
// use, matching the single-threaded core contract in SPEC_FULL.md §5a.
func SetLogger(l Logger) {
	if l == nil {
		l = discardLogger{}
	}
	globalLogger.Store(&l)
}

func logger() Logger {
	return *globalLogger.Load()
}
