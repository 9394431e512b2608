/*
 * classplanner - a profiler class-instrumentation planner
 * Test style (direct struct-literal construction of the parsed class,
 * skipping the decoder) mirrors
 * artipop-jacobin/src/classloader/formatCheck_test.go's klass :=
 * ParsedClass{} pattern.
 */

package classrecord

import (
	"testing"

	"classplanner/classfile"
	"classplanner/internal/classid"
)

func newTestRecord(t *testing.T) (*ClassRecord, *classid.Pool) {
	t.Helper()
	raw := []byte{0, 0, 0, 0, 0, 0, 0, 0, 0xb1, 0, 0, 0, 0}
	cf := &classfile.ClassFile{
		MajorVersion: 52,
		ThisClass:    "com/app/Worker",
		SuperClass:   "java/lang/Object",
		Methods: []classfile.MethodRecord{
			{
				Name:       "run",
				Descriptor: "()V",
				HasCode:    true,
				CodeOffset: 8,
				CodeLength: 1,
				InfoOffset: 0,
				InfoLength: len(raw),
			},
			{
				Name:        "<init>",
				Descriptor:  "()V",
				AccessFlags: 0,
			},
		},
		Raw: raw,
	}
	pool := classid.New()
	return New(cf, 0, pool), pool
}

func TestReachabilityIdempotent(t *testing.T) {
	cr, _ := newTestRecord(t)
	cr.SetMethodReachable(0)
	cr.SetMethodInstrumented(0)
	before := cr.NInstrumentedMethods
	bitsBefore := cr.ScanBits(0)

	// invoking again must not double count or change the bits
	cr.SetMethodReachable(0)
	cr.SetMethodInstrumented(0)

	if cr.NInstrumentedMethods != before {
		t.Errorf("NInstrumentedMethods changed on repeat: got %d, want %d", cr.NInstrumentedMethods, before)
	}
	if cr.ScanBits(0) != bitsBefore {
		t.Errorf("ScanBits changed on repeat: got %v, want %v", cr.ScanBits(0), bitsBefore)
	}
}

func TestInstrumentedAccountingInvariant(t *testing.T) {
	cr, _ := newTestRecord(t)
	cr.SetMethodInstrumented(0)
	cr.SetMethodInstrumented(1)
	if cr.NInstrumentedMethods != 2 {
		t.Fatalf("NInstrumentedMethods = %d, want 2", cr.NInstrumentedMethods)
	}
	cr.UnsetMethodInstrumented(0)
	if cr.NInstrumentedMethods != 1 {
		t.Errorf("NInstrumentedMethods after unset = %d, want 1", cr.NInstrumentedMethods)
	}
	if cr.IsMethodInstrumented(0) {
		t.Error("method 0 still reports instrumented after unset")
	}
}

func TestMethodBytecodeRoutesToOriginalFile(t *testing.T) {
	cr, _ := newTestRecord(t)
	bc := cr.MethodBytecode(0)
	if len(bc) != 1 || bc[0] != 0xb1 {
		t.Errorf("MethodBytecode(0) = %v, want [0xb1]", bc)
	}
}

func TestMonotonicUninstrumentedFlags(t *testing.T) {
	cr, _ := newTestRecord(t)
	cr.SetMethodMarker(0)
	if !cr.HasUninstrumentedMarkerMethods {
		t.Fatal("HasUninstrumentedMarkerMethods not set after SetMethodMarker")
	}
	// nothing in the public API clears it; assert it survives further mutation
	cr.SetMethodInstrumented(0)
	if !cr.HasUninstrumentedMarkerMethods {
		t.Error("HasUninstrumentedMarkerMethods must remain true (monotonic)")
	}
}

func TestCurrentCPCountNonDecreasing(t *testing.T) {
	cr, _ := newTestRecord(t)
	start := cr.GetCurrentCPCount()
	cr.SetCurrentCPCount(start + 5)
	if cr.GetCurrentCPCount() != start+5 {
		t.Fatalf("GetCurrentCPCount() = %d, want %d", cr.GetCurrentCPCount(), start+5)
	}
	cr.SetCurrentCPCount(start) // attempt to shrink
	if cr.GetCurrentCPCount() != start+5 {
		t.Errorf("current_cp_count must not decrease, got %d", cr.GetCurrentCPCount())
	}
}

func TestSubclassGraphAndTransitiveQueries(t *testing.T) {
	objPool := classid.New()
	object := New(&classfile.ClassFile{ThisClass: "java/lang/Object"}, 0, objPool)

	runnable := New(&classfile.ClassFile{
		ThisClass:   "java/lang/Runnable",
		AccessFlags: classfile.AccInterface,
	}, 0, objPool)
	runnable.SetSuper(nil)

	worker := New(&classfile.ClassFile{
		ThisClass:  "com/app/Worker",
		SuperClass: "java/lang/Object",
		Interfaces: []string{"java/lang/Runnable"},
	}, 0, objPool)
	worker.SetSuper(object)
	worker.SetSuperInterface(runnable, 0)

	object.AddSubclass(worker)
	runnable.AddSubclass(worker)
	runnable.AddSubclass(worker) // duplicate: interface lists must dedupe

	if len(runnable.Subclasses) != 1 {
		t.Errorf("interface subclass list has %d entries, want 1 (deduped)", len(runnable.Subclasses))
	}
	if !worker.IsSubclassOf(object.NameID) {
		t.Error("worker should be a subclass of java/lang/Object")
	}
	if !worker.ImplementsInterface(runnable.NameID) {
		t.Error("worker should transitively implement java/lang/Runnable")
	}
	if worker.ImplementsInterface(objPool.Intern("java/lang/Comparable")) {
		t.Error("worker should not implement an interface it never declared")
	}
}

func TestAddGlobalCatchStackMapEntryLocalsSets(t *testing.T) {
	pool := classid.New()
	cf := &classfile.ClassFile{
		MajorVersion:   52,
		ThisClass:      "com/app/Worker",
		SuperClass:     "java/lang/Object",
		ThisClassIndex: 7,
		Methods: []classfile.MethodRecord{
			{Name: "run", Descriptor: "()V", AccessFlags: 0},
			{Name: "main", Descriptor: "([Ljava/lang/String;)V", AccessFlags: classfile.AccStatic},
			{Name: "<init>", Descriptor: "()V", AccessFlags: 0},
		},
	}
	cr := New(cf, 0, pool)

	cr.AddGlobalCatchStackMapEntry(0, 10) // instance method
	cr.AddGlobalCatchStackMapEntry(1, 20) // static method
	cr.AddGlobalCatchStackMapEntry(2, 5)  // constructor

	instanceFrames := cr.GlobalCatchFrames(0)
	if len(instanceFrames) != 1 || len(instanceFrames[0].Locals) != 1 || instanceFrames[0].Locals[0] != 7 {
		t.Errorf("instance method locals = %v, want [ThisClassIndex]", instanceFrames)
	}
	staticFrames := cr.GlobalCatchFrames(1)
	if len(staticFrames) != 1 || staticFrames[0].Locals != nil {
		t.Errorf("static method locals = %v, want nil (empty)", staticFrames)
	}
	ctorFrames := cr.GlobalCatchFrames(2)
	if len(ctorFrames) != 1 || len(ctorFrames[0].Locals) != 1 || ctorFrames[0].Locals[0] != 0 {
		t.Errorf("constructor locals = %v, want [0] (uninitialized_this)", ctorFrames)
	}
	for _, frames := range [][]StackMapFrame{instanceFrames, staticFrames, ctorFrames} {
		if len(frames[0].Stack) != 1 {
			t.Errorf("stack = %v, want exactly one Throwable entry", frames[0].Stack)
		}
	}
	if len(cr.GlobalCatchFrames(0)) != 1 {
		t.Error("GlobalCatchFrames must only return frames for the requested method index")
	}
}

func TestAddGlobalCatchStackMapEntryNoOpBeforeVersion50(t *testing.T) {
	pool := classid.New()
	cf := &classfile.ClassFile{
		MajorVersion: 49,
		ThisClass:    "com/app/Legacy",
		SuperClass:   "java/lang/Object",
		Methods:      []classfile.MethodRecord{{Name: "run", Descriptor: "()V"}},
	}
	cr := New(cf, 0, pool)
	cr.AddGlobalCatchStackMapEntry(0, 10)
	if len(cr.GlobalCatchFrames(0)) != 0 {
		t.Error("major version < 50 must not record a stack-map entry (StackMapTable doesn't exist yet)")
	}
}

func TestSaveMethodInfoResetsAllOffsetCaches(t *testing.T) {
	cr, _ := newTestRecord(t)
	cr.modLVTOff[1] = 42 // pretend method 1 already had a cached offset
	cr.SaveMethodInfo(0, []byte{0, 0, 0, 0, 0, 0, 0, 1, 0, 0})
	if cr.modLVTOff[1] != 0 {
		t.Error("SaveMethodInfo must zero every method's offset caches, not just the saved one")
	}
}
