/*
 * classplanner - a profiler class-instrumentation planner
 * Test fixtures bypass the decoder the same way
 * classrecord/record_test.go does, seeding the repository directly
 * (repository.Seed) instead of round-tripping synthetic class bytes.
 */

package planner

import (
	"testing"

	"classplanner/classfile"
	"classplanner/classrecord"
	"classplanner/editor"
	"classplanner/internal/classid"
	"classplanner/repository"
	"classplanner/resultpack"
	"classplanner/rootmodel"
)

// methodSpec describes one method for buildRecord, with a single-byte
// "return" body by default. That body is the trivial-return shape, so
// it is instrumented only while Config.DontInstrumentEmpty is off, as
// it is in every test here.
type methodSpec struct {
	name, descriptor string
	accessFlags      int
	code             []byte
}

func buildRecord(t *testing.T, pool *classid.Pool, name, super string, interfaces []string, specs []methodSpec) *classrecord.ClassRecord {
	t.Helper()
	var raw []byte
	methods := make([]classfile.MethodRecord, len(specs))
	for i, s := range specs {
		code := s.code
		if code == nil {
			code = []byte{0xb1} // return
		}
		off := len(raw)
		raw = append(raw, code...)
		methods[i] = classfile.MethodRecord{
			Name:        s.name,
			Descriptor:  s.descriptor,
			AccessFlags: s.accessFlags,
			HasCode:     s.accessFlags&(classfile.AccNative|classfile.AccAbstract) == 0,
			CodeOffset:  off,
			CodeLength:  len(code),
			InfoOffset:  0,
			InfoLength:  len(raw),
		}
	}
	cf := &classfile.ClassFile{
		MajorVersion: 52,
		ThisClass:    name,
		SuperClass:   super,
		Interfaces:   interfaces,
		Methods:      methods,
		Raw:          raw,
	}
	return classrecord.New(cf, 0, pool)
}

func newTestPlanner(t *testing.T, roots rootmodel.RootSet, filter rootmodel.Filter, cfg Config) (*Planner, *repository.Repository, *classid.Pool) {
	t.Helper()
	pool := classid.New()
	repo := repository.New(repository.NewPreloadedProvider(nil), pool, "", nil)
	p := New(repo, pool, roots, filter, editor.PassthroughEditor{}, cfg, nil)
	return p, repo, pool
}

func seedObjectAndRunnable(t *testing.T, repo *repository.Repository, pool *classid.Pool) (*classrecord.ClassRecord, *classrecord.ClassRecord) {
	t.Helper()
	object := buildRecord(t, pool, "java/lang/Object", "", nil, nil)
	runnable := buildRecord(t, pool, "java/lang/Runnable", "", nil, []methodSpec{{name: "run", descriptor: "()V"}})
	repo.Seed(object)
	repo.Seed(runnable)
	return object, runnable
}

func findEntry(entries []resultpack.Entry, class string, idx int) (resultpack.Entry, bool) {
	for _, e := range entries {
		if e.ClassName == class && e.MethodIndex == idx {
			return e, true
		}
	}
	return resultpack.Entry{}, false
}

func TestNoRootsSimpleMain(t *testing.T) {
	p, repo, pool := newTestPlanner(t, rootmodel.RootSet{}, rootmodel.Filter{}, Config{})
	seedObjectAndRunnable(t, repo, pool)

	main := buildRecord(t, pool, "Main", "java/lang/Object", nil, []methodSpec{
		{name: "main", descriptor: "([Ljava/lang/String;)V", accessFlags: classfile.AccPublic | classfile.AccStatic},
	})
	repo.Seed(main)

	if !p.noExplicitRoots {
		t.Fatal("noExplicitRoots should be true with an empty root set")
	}

	results := p.OnClassLoad("Main", 0)

	if !main.IsMethodRoot(0) || !main.IsMethodReachable(0) || !main.IsMethodLeaf(0) || !main.IsMethodInstrumented(0) {
		t.Errorf("Main.main scan_bits = %v, want ROOT|REACHABLE|LEAF|INSTRUMENTED", main.ScanBits(0))
	}
	if !p.mainInstrumented {
		t.Error("mainInstrumented should be true after a conforming main loads")
	}
	if _, ok := findEntry(results, "Main", 0); !ok {
		t.Error("expected Main.main in the packed result")
	}
}

func TestSunLauncherCarveOut(t *testing.T) {
	p, repo, pool := newTestPlanner(t, rootmodel.RootSet{}, rootmodel.Filter{}, Config{})
	seedObjectAndRunnable(t, repo, pool)

	launcher := buildRecord(t, pool, "sun/launcher/Launcher", "java/lang/Object", nil, []methodSpec{
		{name: "main", descriptor: "([Ljava/lang/String;)V", accessFlags: classfile.AccPublic | classfile.AccStatic},
	})
	app := buildRecord(t, pool, "com/app/App", "java/lang/Object", nil, []methodSpec{
		{name: "main", descriptor: "([Ljava/lang/String;)V", accessFlags: classfile.AccPublic | classfile.AccStatic},
	})
	repo.Seed(launcher)
	repo.Seed(app)

	p.OnClassLoad("sun/launcher/Launcher", 0)
	if p.mainInstrumented {
		t.Error("loading sun/launcher/Launcher must not consume the one-shot main flag")
	}
	if !launcher.IsMethodInstrumented(0) {
		t.Error("sun/launcher/Launcher.main should still be instrumented")
	}

	p.OnClassLoad("com/app/App", 0)
	if !p.mainInstrumented {
		t.Error("mainInstrumented should become true only after the real app main loads")
	}
	if !app.IsMethodInstrumented(0) {
		t.Error("com/app/App.main should be instrumented")
	}
}

func TestRunnableAutoRoot(t *testing.T) {
	p, repo, pool := newTestPlanner(t, rootmodel.RootSet{}, rootmodel.Filter{}, Config{InstrumentSpawnedThreads: true})
	object, runnable := seedObjectAndRunnable(t, repo, pool)
	_ = object

	thread := buildRecord(t, pool, "java/lang/Thread", "java/lang/Object", []string{"java/lang/Runnable"}, []methodSpec{
		{name: "run", descriptor: "()V"},
	})
	thread.SetSuper(object)
	thread.SetSuperInterface(runnable, 0)
	repo.Seed(thread)

	worker := buildRecord(t, pool, "com/app/Worker", "java/lang/Object", []string{"java/lang/Runnable"}, []methodSpec{
		{name: "run", descriptor: "()V"},
	})
	worker.SetSuper(object)
	worker.SetSuperInterface(runnable, 0)
	repo.Seed(worker)

	p.OnClassLoad("java/lang/Thread", 0)
	if thread.IsMethodRoot(0) {
		t.Error("loading java/lang/Thread must not auto-root its own run method")
	}

	p.OnClassLoad("com/app/Worker", 0)
	if !worker.IsMethodRoot(0) || !worker.IsMethodReachable(0) || !worker.IsMethodLeaf(0) || !worker.IsMethodInstrumented(0) {
		t.Errorf("Worker.run scan_bits = %v, want ROOT|REACHABLE|LEAF|INSTRUMENTED", worker.ScanBits(0))
	}
}

func TestFilterGated(t *testing.T) {
	roots := rootmodel.RootSet{Entries: []rootmodel.Entry{
		{ClassName: "com/app/*", ClassWildcard: true},
	}}
	filter := rootmodel.Filter{Exclude: []string{"com/util/*"}}
	p, repo, pool := newTestPlanner(t, roots, filter, Config{})
	seedObjectAndRunnable(t, repo, pool)

	helper := buildRecord(t, pool, "com/util/Helper", "java/lang/Object", nil, []methodSpec{
		{name: "help", descriptor: "()V"},
	})
	repo.Seed(helper)

	results := p.OnClassLoad("com/util/Helper", 0)

	if helper.IsMethodReachable(0) {
		t.Error("com/util/Helper.help must not become reachable: filtered and not a root class")
	}
	if len(results) != 0 {
		t.Errorf("expected no packed entries for a filtered class, got %d", len(results))
	}
	if !helper.Loaded {
		t.Error("com/util/Helper should still be marked loaded")
	}
}

// TestPackageWildcardMarker builds its root entry from only the
// spec-documented RootSet fields (class name, class wildcard, marker) —
// no method name, the way an honest serializer of scenario 8.5 would
// produce it — to confirm a package wildcard alone, without any
// method-specific field, still marks every method of the class.
func TestPackageWildcardMarker(t *testing.T) {
	roots := rootmodel.RootSet{Entries: []rootmodel.Entry{
		{ClassName: "com/app/*", ClassWildcard: true, Marker: true},
	}}
	p, repo, pool := newTestPlanner(t, roots, rootmodel.Filter{}, Config{})
	seedObjectAndRunnable(t, repo, pool)

	svc := buildRecord(t, pool, "com/app/Svc", "java/lang/Object", nil, []methodSpec{
		{name: "a", descriptor: "()V"},
		{name: "b", descriptor: "()V"},
		{name: "c", descriptor: "()V"},
	})
	repo.Seed(svc)

	p.OnClassLoad("com/app/Svc", 0)

	if !svc.AllMethodsMarkers {
		t.Fatal("all_methods_markers should be set after a package-wildcard marker match")
	}
	for i := 0; i < 3; i++ {
		if !svc.IsMethodMarker(i) || !svc.IsMethodReachable(i) || !svc.IsMethodInstrumented(i) {
			t.Errorf("method %d scan_bits = %v, want MARKER|REACHABLE|INSTRUMENTED", i, svc.ScanBits(i))
		}
	}
}

func TestIdempotentReachabilityCheck(t *testing.T) {
	p, repo, pool := newTestPlanner(t, rootmodel.RootSet{}, rootmodel.Filter{}, Config{})
	seedObjectAndRunnable(t, repo, pool)

	main := buildRecord(t, pool, "Main", "java/lang/Object", nil, []methodSpec{
		{name: "main", descriptor: "([Ljava/lang/String;)V", accessFlags: classfile.AccPublic | classfile.AccStatic},
	})
	repo.Seed(main)

	p.OnClassLoad("Main", 0)
	before := main.NInstrumentedMethods
	bits := main.ScanBits(0)

	p.checkMethodReachability(main, 0)

	if main.NInstrumentedMethods != before {
		t.Errorf("NInstrumentedMethods changed on repeat reachability check: got %d, want %d", main.NInstrumentedMethods, before)
	}
	if main.ScanBits(0) != bits {
		t.Errorf("scan_bits changed on repeat reachability check: got %v, want %v", main.ScanBits(0), bits)
	}
}

func TestGlobalCatchEditorRecordsStackMapEntry(t *testing.T) {
	p, repo, pool := newTestPlanner(t, rootmodel.RootSet{}, rootmodel.Filter{}, Config{})
	p.editor = editor.GlobalCatchEditor{}
	seedObjectAndRunnable(t, repo, pool)

	main := buildRecord(t, pool, "Main", "java/lang/Object", nil, []methodSpec{
		{name: "main", descriptor: "([Ljava/lang/String;)V", accessFlags: classfile.AccPublic | classfile.AccStatic},
	})
	repo.Seed(main)

	p.OnClassLoad("Main", 0)

	if !main.IsMethodInstrumented(0) {
		t.Fatal("main should have been instrumented")
	}
	frames := main.GlobalCatchFrames(0)
	if len(frames) != 1 {
		t.Fatalf("GlobalCatchFrames(0) = %v, want exactly one synthetic frame", frames)
	}
	if frames[0].Locals != nil {
		t.Errorf("static method's global-catch frame locals = %v, want nil", frames[0].Locals)
	}
}

func TestEditorFailureDemotesToUnscannable(t *testing.T) {
	p, repo, pool := newTestPlanner(t, rootmodel.RootSet{}, rootmodel.Filter{}, Config{})
	p.editor = editor.RefusingEditor{Refuse: map[string]bool{"main": true}}
	seedObjectAndRunnable(t, repo, pool)

	main := buildRecord(t, pool, "Main", "java/lang/Object", nil, []methodSpec{
		{name: "main", descriptor: "([Ljava/lang/String;)V", accessFlags: classfile.AccPublic | classfile.AccStatic},
	})
	repo.Seed(main)

	p.OnClassLoad("Main", 0)

	if !main.IsMethodUnscannable(0) {
		t.Error("a refused method must be demoted to UNSCANNABLE")
	}
	if main.IsMethodInstrumented(0) {
		t.Error("a refused method must not be marked INSTRUMENTED")
	}
	if !main.IsMethodReachable(0) {
		t.Error("the REACHABLE transition must not be reversed on editor failure")
	}
}
