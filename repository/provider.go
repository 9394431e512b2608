/*
 * classplanner - a profiler class-instrumentation planner
 * mmap-backed file access grounded on saferwall-pe/file.go's New():
 * os.Open followed by mmap.Map(f, mmap.RDONLY, 0), keeping the handle
 * and the mapping alive together so repeated fetches of the same
 * on-disk class are zero-copy.
 */

package repository

import (
	"os"
	"path/filepath"
	"sync"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
)

// BytesProvider is the external class-file bytes source C3 consults on
// a cache miss (spec §6 "fetch(name, location) -> bytes"). location is
// opaque to the repository; a disk-backed provider treats it as a
// classpath root.
type BytesProvider interface {
	Fetch(name, location string) ([]byte, error)
}

// DirProvider is a reference BytesProvider that mmaps
// "<location>/<name>.class" files, one mapping per distinct path,
// kept open for the lifetime of the provider so that repeated
// lookups of the same custom-loader class are free.
type DirProvider struct {
	mu       sync.Mutex
	mappings map[string]mmap.MMap
	files    map[string]*os.File
}

// NewDirProvider returns an empty DirProvider ready for Fetch calls.
func NewDirProvider() *DirProvider {
	return &DirProvider{
		mappings: make(map[string]mmap.MMap),
		files:    make(map[string]*os.File),
	}
}

// Fetch memory-maps name's class file under location, reusing an
// existing mapping if one is already open for that path.
func (p *DirProvider) Fetch(name, location string) ([]byte, error) {
	path := filepath.Join(location, name+".class")

	p.mu.Lock()
	defer p.mu.Unlock()

	if data, ok := p.mappings[path]; ok {
		return data, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch class bytes for %s", name)
	}
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "mmap class file %s", path)
	}

	p.mappings[path] = data
	p.files[path] = f
	return data, nil
}

// Close unmaps and closes every file the provider opened. Safe to call
// once at session teardown; the provider must not be used afterward.
func (p *DirProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for path, data := range p.mappings {
		if err := data.Unmap(); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := p.files[path].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	p.mappings = make(map[string]mmap.MMap)
	p.files = make(map[string]*os.File)
	return firstErr
}

// PreloadedProvider is a reference BytesProvider backed by an in-memory
// map of class bytes registered up front (through the seed map or Put),
// used by tests that don't want real files on disk. Planner.Initial
// takes no class bytes, so the planner never fills it itself.
type PreloadedProvider struct {
	mu    sync.RWMutex
	bytes map[string][]byte
}

// NewPreloadedProvider returns a provider seeded with name -> bytes.
func NewPreloadedProvider(seed map[string][]byte) *PreloadedProvider {
	p := &PreloadedProvider{bytes: make(map[string][]byte, len(seed))}
	for k, v := range seed {
		p.bytes[k] = v
	}
	return p
}

// Put registers (or replaces) the bytes for name, independent of location.
func (p *PreloadedProvider) Put(name string, data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bytes[name] = data
}

// Fetch returns the preloaded bytes for name, ignoring location.
func (p *PreloadedProvider) Fetch(name, _ string) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	data, ok := p.bytes[name]
	if !ok {
		return nil, errors.Errorf("no preloaded bytes for class %s", name)
	}
	return data, nil
}
