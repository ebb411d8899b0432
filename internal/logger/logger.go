// Package logger provides structured logging for mintconv.
package logger

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log with conversion-specific helpers.
type Logger struct {
	*log.Logger
}

// New creates a logger writing to w at info level.
func New(w io.Writer) *Logger {
	return NewWithLevel(w, log.InfoLevel)
}

// NewWithLevel creates a logger with a specific level.
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// LevelFor maps the --verbose/--quiet flags to a log level. Quiet wins.
func LevelFor(verbose, quiet bool) log.Level {
	switch {
	case quiet:
		return log.ErrorLevel
	case verbose:
		return log.DebugLevel
	default:
		return log.InfoLevel
	}
}

// ForFlags creates a logger whose level follows the --verbose/--quiet flags.
func ForFlags(w io.Writer, verbose, quiet bool) *Logger {
	return NewWithLevel(w, LevelFor(verbose, quiet))
}

// Discard returns a logger that drops all output.
func Discard() *Logger {
	return New(io.Discard)
}

// ConfigLoaded logs the effective configuration source.
func (l *Logger) ConfigLoaded(path, sourceDir, outputDir string) {
	l.Debug("config loaded",
		"path", path,
		"source_dir", sourceDir,
		"output_dir", outputDir)
}

// DocumentConverted logs a successfully converted document.
func (l *Logger) DocumentConverted(source, dest string, changed bool) {
	l.Debug("document converted",
		"source", source,
		"dest", dest,
		"changed", changed)
}

// DocumentSkipped logs a document left out of a batch.
func (l *Logger) DocumentSkipped(source, reason string) {
	l.Debug("document skipped",
		"source", source,
		"reason", reason)
}

// DocumentFailed logs a conversion failure for one document.
func (l *Logger) DocumentFailed(source string, err error) {
	l.Error("conversion failed",
		"source", source,
		"error", err)
}

// LinksRewritten logs link suffixes dropped from a document.
func (l *Logger) LinksRewritten(source string, count int) {
	l.Debug("links rewritten",
		"source", source,
		"count", count)
}

// BatchCompleted logs the summary of a batch run.
func (l *Logger) BatchCompleted(converted, failed int, duration time.Duration) {
	l.Info("batch completed",
		"converted", converted,
		"failed", failed,
		"duration", duration.Round(time.Millisecond))
}

// DocumentMoved logs a document rename and the number of links kept in step.
func (l *Logger) DocumentMoved(from, to string, links int) {
	l.Info("document moved",
		"from", from,
		"to", to,
		"links", links)
}
