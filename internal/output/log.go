package output

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// LogConfig controls how SetupLogging configures the logger.
type LogConfig struct {
	// Verbose enables debug level, timestamps and caller reporting.
	Verbose bool

	// Writer receives log output. Defaults to os.Stderr.
	Writer io.Writer
}

var logger = newLogger(LogConfig{})

func newLogger(cfg LogConfig) *log.Logger {
	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}
	level := log.InfoLevel
	if cfg.Verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: cfg.Verbose,
		ReportCaller:    cfg.Verbose,
		TimeFormat:      "15:04:05",
	})
}

// SetupLogging replaces the global logger. It is called once from the root
// command's PersistentPreRunE after flags are parsed.
func SetupLogging(cfg LogConfig) {
	logger = newLogger(cfg)
}

// Logger returns the global logger.
func Logger() *log.Logger {
	return logger
}

// Debug logs a debug message.
func Debug(msg string, keyvals ...interface{}) {
	logger.Helper()
	logger.Debug(msg, keyvals...)
}

// Info logs an info message.
func Info(msg string, keyvals ...interface{}) {
	logger.Helper()
	logger.Info(msg, keyvals...)
}

// Warn logs a warning message.
func Warn(msg string, keyvals ...interface{}) {
	logger.Helper()
	logger.Warn(msg, keyvals...)
}

// Error logs an error message.
func Error(msg string, keyvals ...interface{}) {
	logger.Helper()
	logger.Error(msg, keyvals...)
}
