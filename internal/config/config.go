/*
 * classplanner - a profiler class-instrumentation planner
 */

// Package config holds the planner's tunables. Jacobin keeps a single
// process-global "globals" struct (jacobin/globals, InitGlobals/
// GetGlobalRef); spec §9 explicitly calls that discipline out as
// planner-scoped rather than process-scoped for this system, so Config
// is an ordinary value threaded into the planner at construction time
// instead of a package-level singleton.
package config

// Config collects the planner's behavioral switches, all of which
// spec §4.5 and §6 describe as agent-supplied.
type Config struct {
	// InstrumentSpawnedThreads enables the Runnable.run implicit-root
	// heuristic even when explicit roots were declared (spec §4.5 step 2).
	InstrumentSpawnedThreads bool

	// DontInstrumentEmpty marks a method UNSCANNABLE when its body is a
	// single trivial return (spec §4.5 reachability check).
	DontInstrumentEmpty bool

	// DontScanGetterSetter marks a method UNSCANNABLE when its body is a
	// trivial getter/setter shape (load this, get/put field, return).
	DontScanGetterSetter bool

	// SkipConstructorInstrumentation, when true, marks <init> methods
	// UNSCANNABLE on class files with major version > 50.
	SkipConstructorInstrumentation bool

	// Debug turns on fine-grained tracing, mirroring jacobin's
	// log.SetLogLevel(log.FINE) used throughout its test suite.
	Debug bool
}

// Default returns the conservative defaults: no implicit thread
// rooting, nothing skipped, no constructor carve-out, quiet logging.
func Default() Config {
	return Config{}
}
