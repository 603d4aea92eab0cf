package main

import (
	"io"

	"github.com/sirupsen/logrus"
)

// DebugLogger provides structured debug output for sandbox lifecycle steps.
// It is disabled by default (when output is nil) and formats through a
// logrus.Logger so each line carries a level and timestamp when piped to a
// file via --debug-log.
type DebugLogger struct {
	log *logrus.Logger
}

// NewDebugLogger creates a new debug logger writing to output. If output is
// nil, the logger is disabled and all methods are no-ops.
func NewDebugLogger(output io.Writer) *DebugLogger {
	if output == nil {
		return &DebugLogger{}
	}

	log := logrus.New()
	log.SetOutput(output)
	log.SetLevel(logrus.DebugLevel)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: false, FullTimestamp: true})

	return &DebugLogger{log: log}
}

// Enabled returns true if debug logging is enabled.
func (d *DebugLogger) Enabled() bool {
	return d != nil && d.log != nil
}

// Section logs a lifecycle section header (e.g. "privilege gate", "mount
// assembly").
func (d *DebugLogger) Section(name string) {
	if !d.Enabled() {
		return
	}

	d.log.Debug("=== " + name + " ===")
}

// Logf logs a formatted debug message.
func (d *DebugLogger) Logf(format string, args ...any) {
	if !d.Enabled() {
		return
	}

	d.log.Debugf(format, args...)
}

// Step logs one named lifecycle step with structured key/value fields,
// e.g. Step("mount overlay", "dir", dir).
func (d *DebugLogger) Step(name string, kv ...any) {
	if !d.Enabled() {
		return
	}

	fields := logrus.Fields{}

	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}

		fields[key] = kv[i+1]
	}

	d.log.WithFields(fields).Debug(name)
}
