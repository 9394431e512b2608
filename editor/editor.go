/*
 * classplanner - a profiler class-instrumentation planner
 * Collaborator-interface shape modeled on artipop-jacobin's
 * ClassBytesProvider-equivalent pattern in src/classloader/classloader.go
 * (a small interface the loader consults, with the real fetch living
 * outside this module); errors wrapped with github.com/pkg/errors the
 * way saferwall-pe's cmd/file.go annotates I/O failures.
 */

// Package editor defines the external bytecode-editor collaborator
// the planner hands reachable methods to for probe injection (spec
// §6), plus reference implementations used by tests and by the CLI's
// run command.
package editor

import "github.com/pkg/errors"

// Result is what a successful edit produces: the spliced method_info
// buffer plus however many constant-pool entries the editor appended
// while injecting probes (spec §4.5's "update current_cp_count with
// whatever the editor appended"). An editor that wraps the method body
// in a global catch block (spec §4.2's "global-catch stack-map entry")
// reports where that handler ends so the planner can record the
// synthetic stack-map frame against the class's own CP-growth
// accounting, which the editor has no access to.
type Result struct {
	ModifiedInfo     []byte
	CPEntriesAdded   int
	AddedGlobalCatch bool
	GlobalCatchEndPC int
}

// Request carries everything an editor needs to splice probes into
// one method, without exposing classrecord's internals to the
// collaborator boundary.
type Request struct {
	ClassName   string
	MethodName  string
	Descriptor  string
	InstrID     uint16
	OriginalInfo []byte
	IsRoot      bool
	IsMarker    bool
}

// Editor is the out-of-module bytecode splicer (spec §1 "treat as
// external collaborators with the interfaces defined in §6"). A
// refusal (err != nil) demotes the method to UNSCANNABLE without
// reversing any prior state transition (spec §7).
type Editor interface {
	Inject(req Request) (Result, error)
}

// ErrRefused is wrapped by implementations that decline to instrument
// a method for reasons specific to their splicing strategy (e.g. a
// body shape they don't support).
var ErrRefused = errors.New("editor: refused to instrument method")

// PassthroughEditor is a reference Editor that performs no real
// splicing: it returns the original method_info unchanged and reports
// zero constant-pool growth. It never refuses. Useful for exercising
// the planner's state machine, and it is the editor the CLI's run
// command uses, since the actual instrumentation backend lives outside
// this module.
type PassthroughEditor struct{}

func (PassthroughEditor) Inject(req Request) (Result, error) {
	buf := make([]byte, len(req.OriginalInfo))
	copy(buf, req.OriginalInfo)
	return Result{ModifiedInfo: buf, CPEntriesAdded: 0}, nil
}

// RefusingEditor is a reference Editor used to exercise the "editor
// failure demotes to UNSCANNABLE" path (spec §7) in tests: it refuses
// every method whose name is in Refuse.
type RefusingEditor struct {
	Refuse map[string]bool
}

func (r RefusingEditor) Inject(req Request) (Result, error) {
	if r.Refuse[req.MethodName] {
		return Result{}, errors.Wrapf(ErrRefused, "method %s.%s%s", req.ClassName, req.MethodName, req.Descriptor)
	}
	buf := make([]byte, len(req.OriginalInfo))
	copy(buf, req.OriginalInfo)
	return Result{ModifiedInfo: buf, CPEntriesAdded: 0}, nil
}

// GlobalCatchEditor is a reference Editor that simulates the common
// profiler splicing strategy of wrapping every instrumented method body
// in a catch-all exception handler (to record exception exits), the way
// spec §4.2's global-catch stack-map entry exists to support. It copies
// the original method_info unchanged, like PassthroughEditor, but also
// reports the synthetic handler's end_pc so the planner can drive
// ClassRecord's stack-map bookkeeping.
type GlobalCatchEditor struct{}

func (GlobalCatchEditor) Inject(req Request) (Result, error) {
	buf := make([]byte, len(req.OriginalInfo))
	copy(buf, req.OriginalInfo)
	return Result{
		ModifiedInfo:     buf,
		CPEntriesAdded:   0,
		AddedGlobalCatch: true,
		GlobalCatchEndPC: len(req.OriginalInfo),
	}, nil
}
