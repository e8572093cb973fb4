// Package util carries small timing and trace helpers shared across the
// ingest and transport layers.
package util

import (
	"time"

	"github.com/sirupsen/logrus"
)

// TickGet returns the current tick count in milliseconds.
func TickGet() uint32 {
	return uint32(time.Now().UnixNano() / int64(time.Millisecond))
}

// Sleepms sleeps for the specified number of milliseconds.
func Sleepms(ms int) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

// traceLogger is nil until SetTraceLogger is called; Tracet is then a
// no-op, matching the original trace function's silent-by-default
// behavior without needing a global log level.
var traceLogger logrus.FieldLogger

// SetTraceLogger wires Tracet's output to logger. Callers typically do
// this once at startup with the same logrus instance used elsewhere in
// the process.
func SetTraceLogger(logger logrus.FieldLogger) {
	traceLogger = logger
}

// Tracet reports a low-level trace message at a given verbosity level,
// mirroring the RTKLIB-style Tracet(level, fmt, args...) call sites
// carried over from the teacher. Level is attached as a field rather than
// mapped to a logrus level, since these call sites log far more
// frequently than a typical Debug/Info/Warn split assumes.
func Tracet(level int, format string, args ...interface{}) {
	if traceLogger == nil {
		return
	}
	traceLogger.WithField("trace_level", level).Debugf(format, args...)
}
