// Package telemetry carries driftlens's ambient logging and metrics surface.
//
// Logger is grounded directly on yairfalse-vaino's internal/logger.Logger:
// same shape (Info/Error/WithField/WithFields), widened with Warn and Debug
// since the analyzer error taxonomy (spec §7) distinguishes a parse failure
// (log, skip the file) from a fatal error (abort the run) from domain
// absence (not logged as an error at all).
package telemetry

import (
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the logging surface every driftlens component depends on.
// Analyzers and the orchestrator accept a Logger rather than reaching for a
// package-level global, so tests can inject a silent or recording
// implementation.
type Logger interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string, err error)
	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
}

// SimpleLogger writes to the standard library's log/os.Stderr with no
// external dependency. Useful for tests and for driftlens-fixtures, where a
// structured logger would be overkill.
type SimpleLogger struct {
	fields map[string]interface{}
}

// NewSimple returns a Logger backed by the standard library logger.
func NewSimple() Logger {
	return &SimpleLogger{fields: make(map[string]interface{})}
}

func (l *SimpleLogger) Debug(msg string) { l.logf("DEBUG", msg) }
func (l *SimpleLogger) Info(msg string)  { l.logf("INFO", msg) }
func (l *SimpleLogger) Warn(msg string)  { l.logf("WARN", msg) }

func (l *SimpleLogger) Error(msg string, err error) {
	if len(l.fields) > 0 {
		fmt.Fprintf(os.Stderr, "ERROR: %s: %v %v\n", msg, err, l.fields)
		return
	}
	fmt.Fprintf(os.Stderr, "ERROR: %s: %v\n", msg, err)
}

func (l *SimpleLogger) logf(level, msg string) {
	if len(l.fields) > 0 {
		log.Printf("%s: %s %v", level, msg, l.fields)
		return
	}
	log.Printf("%s: %s", level, msg)
}

func (l *SimpleLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

func (l *SimpleLogger) WithFields(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &SimpleLogger{fields: merged}
}

// LogrusLogger is the production Logger, backed by sirupsen/logrus with
// structured fields and leveled output.
type LogrusLogger struct {
	logger *logrus.Logger
	entry  *logrus.Entry
}

// NewLogrus returns a Logger backed by a fresh logrus.Logger writing JSON to
// stderr, the format driftlens-server aggregates run logs from.
func NewLogrus() Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	return &LogrusLogger{logger: logger, entry: logrus.NewEntry(logger)}
}

func (l *LogrusLogger) Debug(msg string)        { l.entry.Debug(msg) }
func (l *LogrusLogger) Info(msg string)         { l.entry.Info(msg) }
func (l *LogrusLogger) Warn(msg string)         { l.entry.Warn(msg) }
func (l *LogrusLogger) Error(msg string, err error) {
	l.entry.WithError(err).Error(msg)
}

func (l *LogrusLogger) WithField(key string, value interface{}) Logger {
	return &LogrusLogger{logger: l.logger, entry: l.entry.WithField(key, value)}
}

func (l *LogrusLogger) WithFields(fields map[string]interface{}) Logger {
	return &LogrusLogger{logger: l.logger, entry: l.entry.WithFields(fields)}
}
