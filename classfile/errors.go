/*
 * classplanner - a profiler class-instrumentation planner
 * Fault reporting modeled on artipop-jacobin/src/classloader/classloader.go's cfe().
 */

package classfile

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/pkg/errors"
)

// Fault is a fatal class-file format error (spec §4.1, §7 "Fatal format
// error"). It carries the byte offset at which the problem was
// detected, and — like jacobin's cfe() — the file/line of the Go
// function that raised it, for engineer-facing diagnostics.
type Fault struct {
	Msg       string
	Offset    int
	DetectedAt string
	cause     error
}

func (f *Fault) Error() string {
	if f.DetectedAt != "" {
		return fmt.Sprintf("class format error at offset %d: %s (detected by %s)", f.Offset, f.Msg, f.DetectedAt)
	}
	return fmt.Sprintf("class format error at offset %d: %s", f.Offset, f.Msg)
}

func (f *Fault) Unwrap() error { return f.cause }

// fault builds a Fault the way jacobin's cfe() builds its message:
// walking one frame up the call stack to record the file:line that
// raised it.
func fault(offset int, msg string) error {
	f := &Fault{Msg: msg, Offset: offset}
	if pc, _, _, ok := runtime.Caller(1); ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			file, line := fn.FileLine(pc)
			f.DetectedAt = filepath.Base(file) + ":" + strconv.Itoa(line)
		}
	}
	return errors.WithStack(f)
}

// NameMismatch is the distinct "name/location mismatch" fault called
// out by spec §4.1 when this_class disagrees with the name the
// repository expected to load.
type NameMismatch struct {
	Expected string
	Found    string
}

func (e *NameMismatch) Error() string {
	return fmt.Sprintf("class name/location mismatch: expected %q, found %q", e.Expected, e.Found)
}
