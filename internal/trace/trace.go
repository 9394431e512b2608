/*
 * classplanner - a profiler class-instrumentation planner
 */

// Package trace is the planner's logging surface, styled after Jacobin's
// jacobin/trace package (a package-level Init plus Trace/Error helpers)
// but backed by github.com/go-kit/log the way the parca-agent profiler
// wires its logger, since the teacher itself carries no logging
// dependency to imitate directly.
package trace

import (
	"os"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

var base kitlog.Logger

func init() {
	Init()
}

// Init (re)creates the base logger writing structured logfmt lines to
// stderr, matching jacobin/trace.Init()'s role of resetting logging
// state at the start of a session.
func Init() {
	l := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
	base = level.NewFilter(l, level.AllowInfo())
}

// SetDebug widens the filter to include debug-level lines, mirroring
// jacobin's log.SetLogLevel(log.FINE) used by its tests.
func SetDebug(on bool) {
	l := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
	if on {
		base = level.NewFilter(l, level.AllowDebug())
	} else {
		base = level.NewFilter(l, level.AllowInfo())
	}
}

// With returns a logger annotated with the given keyvals, for example
// a planner session id: trace.With("session", sessionID.String()).
func With(keyvals ...interface{}) kitlog.Logger {
	return kitlog.With(base, keyvals...)
}

// Debug, Info, Warn and Error log msg plus keyvals on l at the named
// level; pass Base() or a logger from With as l.
func Debug(l kitlog.Logger, msg string, keyvals ...interface{}) {
	_ = level.Debug(l).Log(append([]interface{}{"msg", msg}, keyvals...)...)
}

func Info(l kitlog.Logger, msg string, keyvals ...interface{}) {
	_ = level.Info(l).Log(append([]interface{}{"msg", msg}, keyvals...)...)
}

func Warn(l kitlog.Logger, msg string, keyvals ...interface{}) {
	_ = level.Warn(l).Log(append([]interface{}{"msg", msg}, keyvals...)...)
}

func Error(l kitlog.Logger, msg string, keyvals ...interface{}) {
	_ = level.Error(l).Log(append([]interface{}{"msg", msg}, keyvals...)...)
}

// Base returns the process-wide root logger, for components that have
// no session context of their own (e.g. the repository's byte-fetch
// path, which spec §5 says must not hold the planner lock).
func Base() kitlog.Logger {
	return base
}
