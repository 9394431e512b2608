/*
 * classplanner - a profiler class-instrumentation planner
 * Modeled after the Jacobin JVM's string-pool interning discipline.
 */

// Package classid interns internal (slash-form) class names into a
// process-wide table so that hot-path identity comparisons in the
// reachability planner (see package planner) can compare indices or
// pointers instead of doing repeated string comparisons.
//
// This makes concrete the "interned name identity" design note in the
// planner specification: callers that need isSubclassOf-style identity
// semantics must go through Intern and compare the returned index, not
// the raw string.
package classid

import "sync"

// Pool is a thread-safe name interner. The zero value is not usable;
// construct one with New.
type Pool struct {
	mu      sync.RWMutex
	byName  map[string]uint32
	byIndex []string
}

// New returns an empty, ready-to-use Pool. Index 0 is reserved and
// always resolves to the empty string, mirroring the convention that 0
// is never a valid interned-name result.
func New() *Pool {
	return &Pool{
		byName:  map[string]uint32{"": 0},
		byIndex: []string{""},
	}
}

// Intern returns the stable index for name, assigning a new one on
// first sight. Internal names must already be in slash form
// (java/lang/String) before interning; the pool does not canonicalize.
func (p *Pool) Intern(name string) uint32 {
	p.mu.RLock()
	if idx, ok := p.byName[name]; ok {
		p.mu.RUnlock()
		return idx
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()
	// re-check: another goroutine may have interned it while we waited
	// for the write lock. Note the planner itself is single-threaded
	// per spec §5; this guards the pool for use by auxiliary readers
	// (e.g. result-pack serialization) that may run concurrently.
	if idx, ok := p.byName[name]; ok {
		return idx
	}
	idx := uint32(len(p.byIndex))
	p.byIndex = append(p.byIndex, name)
	p.byName[name] = idx
	return idx
}

// Lookup returns the index already assigned to name, and whether it
// has been interned at all.
func (p *Pool) Lookup(name string) (uint32, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	idx, ok := p.byName[name]
	return idx, ok
}

// MustName returns the interned string for idx. It panics on an
// out-of-range index, since every caller is expected to have obtained
// idx from Intern or Lookup on this same pool.
func (p *Pool) MustName(idx uint32) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.byIndex[idx]
}

// Size reports the number of distinct names interned, including the
// reserved empty-string slot at index 0.
func (p *Pool) Size() uint32 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return uint32(len(p.byIndex))
}

// Same reports whether a and b are the same interned index, which for
// indices from one Pool means they were interned from equal strings.
// ClassRecord.IsSubclassOf and ImplementsInterface make the same
// comparison directly on NameID values with ==.
func Same(a, b uint32) bool {
	return a == b
}
