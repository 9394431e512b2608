/*
 * classplanner - a profiler class-instrumentation planner
 * State-machine shape grounded on artipop-jacobin/src/classloader/classloader.go's
 * class-load dispatch (lookup-or-parse, then drive per-class setup) and
 * on jacobin/src/gfunction's table-driven method lookup for the
 * implicit-root checks. Session-scoped globals (main_instrumented,
 * no_explicit_roots) are fields of Planner per spec §9's design note,
 * not package-level state.
 */

// Package planner implements the reachability/instrumentation planner
// (spec component C5): the state machine that, per class-load event,
// marks methods reachable, decides leaf vs. unscannable, hands
// surviving methods to the bytecode editor, and drains a packed
// result.
package planner

import (
	"strings"

	"classplanner/classrecord"
	"classplanner/editor"
	"classplanner/internal/classid"
	"classplanner/internal/metrics"
	"classplanner/internal/trace"
	"classplanner/repository"
	"classplanner/resultpack"
	"classplanner/rootmodel"

	kitlog "github.com/go-kit/log"
	"github.com/google/uuid"
)

// Config holds the agent-configured toggles the reachability check
// consults (spec §4.5 step 2, "Otherwise, read the bytecode").
type Config struct {
	InstrumentSpawnedThreads bool
	SkipConstructors         bool
	DontInstrumentEmpty      bool
	DontScanGetterSetter     bool
	Location                 string
}

// Planner owns the per-session mutable state the specification
// describes as process-global: whether a main method has already been
// captured, and whether the session has any explicit roots at all.
type Planner struct {
	SessionID uuid.UUID

	repo    *repository.Repository
	pool    *classid.Pool
	roots   rootmodel.RootSet
	filter  rootmodel.Filter
	editor  editor.Editor
	pack    *resultpack.Pack
	cfg     Config
	metrics *metrics.Planner
	log     kitlog.Logger

	noExplicitRoots bool
	mainInstrumented bool
}

// New builds a planner over repo, wired to ed for probe injection and
// reporting through m (nil disables metrics, e.g. in tests). Every
// planner gets its own session id, attached to its logger so that
// multiple concurrent agent attachments stay distinguishable in logs.
func New(repo *repository.Repository, pool *classid.Pool, roots rootmodel.RootSet, filter rootmodel.Filter, ed editor.Editor, cfg Config, m *metrics.Planner) *Planner {
	sessionID := uuid.New()
	return &Planner{
		SessionID:       sessionID,
		repo:            repo,
		pool:            pool,
		roots:           roots,
		filter:          filter,
		editor:          ed,
		pack:            resultpack.New(),
		cfg:             cfg,
		metrics:         m,
		log:             trace.With("session", sessionID.String()),
		noExplicitRoots: rootmodel.NoExplicitRoots(roots),
	}
}

const (
	runnableName  = "java/lang/Runnable"
	threadName    = "java/lang/Thread"
	objectName    = "java/lang/Object"
	classLoaderName = "java/lang/ClassLoader"
	sunLauncherPrefix = "sun/launcher/Launcher"
)

// LoadedClass is one already-loaded (class_name, loader_id) pair
// supplied at attach time, per spec §6's "root-classes-loaded command".
type LoadedClass struct {
	ClassName string
	LoaderID  int
}

// Initial replays already-loaded classes and roots captured at attach
// time (spec §4.5 "initial"). It must be called exactly once, before
// any OnClassLoad.
func (p *Planner) Initial(snapshot []LoadedClass, roots rootmodel.RootSet) []resultpack.Entry {
	p.roots = roots
	p.noExplicitRoots = rootmodel.NoExplicitRoots(roots)

	for _, lc := range snapshot {
		cr := p.repo.LookupOrCreate(lc.ClassName, lc.LoaderID)
		if cr == nil {
			continue
		}
		cr.Loaded = true
		p.linkAncestors(cr)
		p.runnableAutoRoot(cr)
		p.matchExplicitRoots(cr)
		p.markAllMethodsInstrumentable(cr)
	}

	// Unconditionally mark ClassLoader.loadClass(String) reachable so
	// class-load timing is measured from the start (spec §4.5).
	if cl := p.repo.LookupOrCreate(classLoaderName, 0); cl != nil {
		if i := cl.FindMethod("loadClass", "(Ljava/lang/String;)Ljava/lang/Class;"); i >= 0 {
			p.checkMethodReachability(cl, i)
		}
	}

	return p.pack.Drain()
}

// OnClassLoad processes one class-load event (spec §4.5 "on_class_load").
func (p *Planner) OnClassLoad(className string, loaderID int) []resultpack.Entry {
	if p.metrics != nil {
		p.metrics.ClassesLoaded.Inc()
	}
	name := repository.Canonicalize(className)

	cr := p.repo.LookupOrCreate(name, loaderID)
	if cr == nil {
		return p.pack.Drain()
	}
	cr.Loaded = true
	p.linkAncestors(cr)

	if cr.IsInterface() {
		return p.pack.Drain()
	}

	// Step 1: profile-point injection is a feature of the external
	// agent's configuration surface, out of scope here (spec §1); no
	// profile points are configured in this planner.

	// Step 2: implicit Runnable root.
	if p.cfg.InstrumentSpawnedThreads || p.noExplicitRoots {
		p.runnableAutoRoot(cr)
	}

	// Step 3: implicit main, with the sun/launcher/Launcher carve-out.
	if p.noExplicitRoots && !p.mainInstrumented {
		if i := cr.FindMethod("main", "([Ljava/lang/String;)V"); i >= 0 {
			m := &cr.Methods[i]
			if m.IsPublic() && m.IsStatic() {
				cr.SetMethodRoot(i)
				p.checkMethodReachability(cr, i)
				if !strings.HasPrefix(cr.Name, sunLauncherPrefix) {
					p.mainInstrumented = true
				}
			}
		}
	}

	// Step 4: explicit-root match pass 1 (status).
	isRootClass := p.roots.Matches(cr.Name)

	// Step 5: filter gate.
	if !isRootClass && !p.filter.Accepts(cr.Name) {
		return p.pack.Drain()
	}

	// Step 6: explicit-root match pass 2 (mark).
	for _, e := range p.roots.MatchingEntries(cr.Name) {
		p.applyRootEntry(cr, e)
	}

	// Step 7: full-class sweep.
	if p.filter.Accepts(cr.Name) || cr.AllMethodsMarkers || cr.AllMethodsRoots {
		p.markAllMethodsInstrumentable(cr)
	}

	return p.pack.Drain()
}

// OnMethodInvoke and OnReflectInvoke exist only because the abstract
// planner API includes them; in this total-instrumentation variant
// they never add work (spec §4.5).
func (p *Planner) OnMethodInvoke(classInternalName string, loaderID, methodIndex int) []resultpack.Entry {
	return p.pack.Drain()
}

func (p *Planner) OnReflectInvoke(classInternalName string, loaderID, methodIndex int) []resultpack.Entry {
	return p.pack.Drain()
}

func (p *Planner) applyRootEntry(cr *classrecord.ClassRecord, e rootmodel.Entry) {
	if e.AllMethods() {
		for i := range cr.Methods {
			if e.Marker {
				cr.SetMethodMarker(i)
			} else {
				cr.SetMethodRoot(i)
			}
		}
		if e.Marker {
			cr.SetAllMethodsMarkers()
		} else {
			cr.SetAllMethodsRoots()
		}
		return
	}

	i := cr.FindMethod(e.MethodName, e.MethodSignature)
	if i < 0 {
		// Missing method in root: silently ignored (spec §7).
		return
	}
	if e.Marker {
		cr.SetMethodMarker(i)
	} else {
		cr.SetMethodRoot(i)
	}
}

// runnableAutoRoot marks run()V ROOT when cr transitively implements
// Runnable and is not Thread itself (spec §4.5 step 2, scenario 3).
func (p *Planner) runnableAutoRoot(cr *classrecord.ClassRecord) {
	if cr.Name == threadName {
		return
	}
	runnableID, ok := p.pool.Lookup(runnableName)
	if !ok {
		return
	}
	if !cr.ImplementsInterface(runnableID) {
		return
	}
	i := cr.FindMethod("run", "()V")
	if i < 0 {
		return
	}
	cr.SetMethodRoot(i)
	p.checkMethodReachability(cr, i)
}

// linkAncestors resolves cr's super/interface references and inserts
// cr into every ancestor's subclass list, walking up before any
// root-matching happens so ImplementsInterface reflects the current
// class (spec §5 ordering guarantee).
func (p *Planner) linkAncestors(cr *classrecord.ClassRecord) {
	if cr.SuperName != "" && cr.SuperRef == nil {
		if super := p.repo.LookupOrCreate(cr.SuperName, cr.LoaderID); super != nil {
			cr.SetSuper(super)
			p.linkAncestors(super)
			super.AddSubclass(cr)
		}
	}
	for idx, iface := range cr.Interfaces {
		if idx < len(cr.InterfaceRefs) && cr.InterfaceRefs[idx] != nil {
			continue
		}
		if ref := p.repo.LookupOrCreate(iface, cr.LoaderID); ref != nil {
			cr.SetSuperInterface(ref, idx)
			p.linkAncestors(ref)
			ref.AddSubclass(cr)
		}
	}
}

func (p *Planner) markAllMethodsInstrumentable(cr *classrecord.ClassRecord) {
	for i := range cr.Methods {
		p.checkMethodReachability(cr, i)
	}
}

// checkMethodReachability is the per-method reachability check (spec
// §4.5). It is idempotent: a method already REACHABLE is left
// untouched.
func (p *Planner) checkMethodReachability(cr *classrecord.ClassRecord, i int) {
	if cr.IsMethodReachable(i) {
		return
	}
	cr.SetMethodReachable(i)
	if p.metrics != nil {
		p.metrics.MethodsReachable.Inc()
	}

	m := &cr.Methods[i]

	switch {
	case m.IsNative() || m.IsAbstract():
		cr.SetMethodUnscannable(i)
	case !cr.IsMethodRoot(i) && !cr.IsMethodMarker(i) && !p.filter.Accepts(cr.Name):
		cr.SetMethodUnscannable(i)
	case cr.Name == objectName:
		cr.SetMethodUnscannable(i)
	case m.Name == "<init>" && cr.MajorVersion() > 50 && p.cfg.SkipConstructors:
		cr.SetMethodUnscannable(i)
	default:
		bc := cr.MethodBytecode(i)
		switch {
		case p.cfg.DontInstrumentEmpty && isTrivialReturn(bc):
			cr.SetMethodUnscannable(i)
		case p.cfg.DontScanGetterSetter && isGetterSetterShape(bc):
			cr.SetMethodUnscannable(i)
		default:
			cr.SetMethodLeaf(i)
		}
	}

	if cr.IsMethodUnscannable(i) {
		if p.metrics != nil {
			p.metrics.MethodsUnscannable.Inc()
		}
		return
	}

	p.instrument(cr, i)
}

// instrument hands method i to the external bytecode editor and
// records the outcome (spec §4.5's final paragraph, §7 "editor failure").
func (p *Planner) instrument(cr *classrecord.ClassRecord, i int) {
	m := &cr.Methods[i]
	req := editor.Request{
		ClassName:    cr.Name,
		MethodName:   m.Name,
		Descriptor:   m.Descriptor,
		OriginalInfo: cr.MethodInfo(i),
		IsRoot:       cr.IsMethodRoot(i),
		IsMarker:     cr.IsMethodMarker(i),
	}
	res, err := p.editor.Inject(req)
	if err != nil {
		trace.Warn(p.log, "editor refused method", "class", cr.Name, "method", m.Name, "descriptor", m.Descriptor, "err", err)
		cr.UnsetMethodLeaf(i)
		cr.SetMethodUnscannable(i)
		if p.metrics != nil {
			p.metrics.EditorFailures.Inc()
			p.metrics.MethodsUnscannable.Inc()
		}
		return
	}

	cr.SaveMethodInfo(i, res.ModifiedInfo)
	cr.SetCurrentCPCount(cr.GetCurrentCPCount() + res.CPEntriesAdded)
	if res.AddedGlobalCatch {
		cr.AddGlobalCatchStackMapEntry(i, res.GlobalCatchEndPC)
	}
	cr.SetMethodInstrumented(i)
	if p.metrics != nil {
		p.metrics.MethodsInstrumented.Inc()
		if res.CPEntriesAdded > 0 {
			p.metrics.ConstantPoolGrowth.WithLabelValues("instrument").Add(float64(res.CPEntriesAdded))
		}
	}

	p.pack.Add(resultpack.Entry{
		ClassName:    cr.Name,
		LoaderID:     cr.LoaderID,
		MethodIndex:  i,
		ModifiedInfo: res.ModifiedInfo,
	})
	if p.metrics != nil {
		p.metrics.ResultsPacked.Inc()
	}
}

// matchExplicitRoots runs OnClassLoad's marking pass (step 6) for the
// Initial snapshot path. There is no separate status pass (step 4)
// because this path has no filter-gate short-circuit: the initial
// snapshot always runs the full sweep once root marks are applied.
func (p *Planner) matchExplicitRoots(cr *classrecord.ClassRecord) {
	for _, e := range p.roots.MatchingEntries(cr.Name) {
		p.applyRootEntry(cr, e)
	}
}
