/*
 * classplanner - a profiler class-instrumentation planner
 * Identity-map shape grounded on artipop-jacobin/src/classloader/classloader.go's
 * MethAreaFetch-style lookup-or-load pattern: a map keyed by class name,
 * consulted before falling back to the loader.
 */

// Package repository implements the class-record identity map (spec
// component C3): one ClassRecord per (internal_name, loader_id),
// created on first reference by fetching bytes from an external
// BytesProvider and invoking the C1 decoder.
package repository

import (
	"strings"
	"sync"

	"classplanner/classfile"
	"classplanner/classrecord"
	"classplanner/internal/classid"
	"classplanner/internal/metrics"
	"classplanner/internal/trace"

	kitlog "github.com/go-kit/log"
)

type key struct {
	name     string
	loaderID int
}

// Repository is the (internal_name, loader_id) -> ClassRecord identity
// map. Its own mutex guards only the map itself, not the planner's
// state machine, so the first-touch fetch+parse in LookupOrCreate does
// not need to hold whatever lock the caller uses to serialize planner
// entry points (spec §5).
type Repository struct {
	mu       sync.Mutex
	classes  map[key]*classrecord.ClassRecord
	provider BytesProvider
	pool     *classid.Pool
	location string
	metrics  *metrics.Planner
	log      kitlog.Logger
}

// New builds an empty repository. location is passed through to the
// provider as the default classpath root; pool is the process-wide
// name interning table shared with the planner's hot-path comparisons.
func New(provider BytesProvider, pool *classid.Pool, location string, m *metrics.Planner) *Repository {
	return &Repository{
		classes:  make(map[key]*classrecord.ClassRecord),
		provider: provider,
		pool:     pool,
		location: location,
		metrics:  m,
		log:      trace.Base(),
	}
}

// Canonicalize converts a dotted or slash-form class name to internal
// (slash) form, per spec §6 "the planner converts to slash-form and interns".
func Canonicalize(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}

// LookupOrCreate returns the ClassRecord for (name, loaderID), parsing
// it from provider bytes on first reference. An unresolvable or
// malformed class returns nil: per spec §4.3/§7, lookup misses
// and parse faults are tolerated silently by the caller, which may
// inspect the repository's logs but must not treat a nil record as fatal.
func (r *Repository) LookupOrCreate(name string, loaderID int) *classrecord.ClassRecord {
	name = Canonicalize(name)
	k := key{name, loaderID}

	r.mu.Lock()
	if cr, ok := r.classes[k]; ok {
		r.mu.Unlock()
		return cr
	}
	r.mu.Unlock()

	// The fetch and parse happen outside r.mu so a slow provider never
	// blocks unrelated lookups, matching spec §5's requirement that the
	// first-touch fetch not be held under a coarser lock than necessary.
	raw, err := r.provider.Fetch(name, r.location)
	if err != nil {
		if r.metrics != nil {
			r.metrics.LookupMisses.Inc()
		}
		trace.Warn(r.log, "class lookup miss", "class", name, "loader", loaderID, "err", err)
		return nil
	}

	cf, err := classfile.Parse(raw, name)
	if err != nil {
		if r.metrics != nil {
			r.metrics.ParseFaults.Inc()
		}
		trace.Error(r.log, "class parse fault", "class", name, "loader", loaderID, "err", err)
		return nil
	}

	cr := classrecord.New(cf, loaderID, r.pool)

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.classes[k]; ok {
		// lost a race with a concurrent first-touch; keep the winner
		return existing
	}
	r.classes[k] = cr
	return cr
}

// Lookup returns the already-created record for (name, loaderID)
// without fetching, or nil if none exists yet.
func (r *Repository) Lookup(name string, loaderID int) *classrecord.ClassRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.classes[key{Canonicalize(name), loaderID}]
}

// Seed installs a pre-parsed record directly, without fetching or
// parsing bytes. The planner's Initial pass does not call it: it
// resolves snapshot classes through LookupOrCreate.
func (r *Repository) Seed(cr *classrecord.ClassRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classes[key{cr.Name, cr.LoaderID}] = cr
}

// All returns every record currently in the repository. Callers must
// not mutate the returned slice's backing records without holding
// whatever lock guards planner state.
func (r *Repository) All() []*classrecord.ClassRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*classrecord.ClassRecord, 0, len(r.classes))
	for _, cr := range r.classes {
		out = append(out, cr)
	}
	return out
}
