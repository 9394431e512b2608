/*
 * classplanner - a profiler class-instrumentation planner
 * Struct shape modeled on artipop-jacobin/src/classloader/classloader.go's
 * ParsedClass, collapsed to the single-struct-with-mutable-state design
 * spec §9 calls for (no ClassInfo/ClassRecord inheritance split).
 */

// Package classrecord implements the per-class metadata store (spec
// component C2): one ClassRecord per (internal name, loader id),
// owning the method scan-state bitmasks, the original and
// re-instrumented method_info buffers, the subclass/supertype graph,
// and the constant-pool growth counters.
//
// Every accessor is deterministic and thread-compatible: callers
// (the planner) must serialize access, per spec §5.
package classrecord

import (
	"classplanner/classfile"
	"classplanner/internal/classid"
)

// ClassRecord is one loaded (or load-in-progress) class's full
// planner-visible state.
type ClassRecord struct {
	// Identity
	Name     string
	NameID   uint32
	LoaderID int

	// Structural, immutable after parse
	file    *classfile.ClassFile
	Methods []classfile.MethodRecord

	SuperName  string
	SuperID    uint32
	Interfaces []string

	// Resolved links, filled post-parse
	SuperRef      *ClassRecord
	InterfaceRefs []*ClassRecord // nullable per slot; same length as Interfaces
	Subclasses    []*ClassRecord

	// Per-method mutable state, parallel arrays of length m
	scanBits     []Bit
	instrID      []uint16
	modifiedInfo [][]byte
	modBCLen     []int
	modLVTOff    []int
	modLVTTOff   []int
	modSMTOff    []int

	// Constant-pool growth
	currentCPCount     int
	baseCPCount        [injKindMax]int
	globalCatchFrames  []methodFrame

	// Class-level flags
	Loaded                         bool
	AllMethodsMarkers              bool
	AllMethodsRoots                bool
	HasUninstrumentedMarkerMethods bool
	HasUninstrumentedRootMethods   bool
	HasMethodReachable             bool
	ServletDoScanned               bool
	throwableCPIndex               int // -1 = unset

	// Aggregate counters
	NInstrumentedMethods int
}

// New builds a ClassRecord skeleton from a decoded class file (spec
// §4.1's decoder output), interning the class's own name and its
// superclass name in pool (interface names are interned only when their
// own records are built). Mutable arrays are allocated to
// method-table length and zeroed; base_cp_count entries start at the
// unset sentinel; current_cp_count starts at the original CP size.
func New(cf *classfile.ClassFile, loaderID int, pool *classid.Pool) *ClassRecord {
	m := len(cf.Methods)
	cr := &ClassRecord{
		Name:           cf.ThisClass,
		NameID:         pool.Intern(cf.ThisClass),
		LoaderID:       loaderID,
		file:           cf,
		Methods:        cf.Methods,
		SuperName:      cf.SuperClass,
		Interfaces:     cf.Interfaces,
		InterfaceRefs:  make([]*ClassRecord, len(cf.Interfaces)),
		scanBits:       make([]Bit, m),
		instrID:        make([]uint16, m),
		modifiedInfo:   make([][]byte, m),
		modBCLen:       make([]int, m),
		modLVTOff:      make([]int, m),
		modLVTTOff:     make([]int, m),
		modSMTOff:      make([]int, m),
		currentCPCount: cf.CP.Count(),
		throwableCPIndex: -1,
	}
	if cf.SuperClass != "" {
		cr.SuperID = pool.Intern(cf.SuperClass)
	}
	for i := range cr.baseCPCount {
		cr.baseCPCount[i] = unsetBaseCPCount
	}
	// java/lang/Object's subclass list is pre-sized large, since
	// nearly every loaded class eventually appears in it (spec §4.2).
	if cf.ThisClass == "java/lang/Object" {
		cr.Subclasses = make([]*ClassRecord, 0, 500)
	}
	return cr
}

// MajorVersion reports the class file's major version, used by the
// planner's constructor-skip and StackMapTable-era checks (spec §4.2,
// §4.5).
func (c *ClassRecord) MajorVersion() int { return c.file.MajorVersion }

// AccessFlags exposes the class's own access flags.
func (c *ClassRecord) AccessFlags() int { return c.file.AccessFlags }

// IsInterface reports whether this class file describes an interface.
func (c *ClassRecord) IsInterface() bool { return c.file.IsInterface() }

// MethodCount returns m, the length every per-method parallel array shares.
func (c *ClassRecord) MethodCount() int { return len(c.Methods) }

// FindMethod returns the index of the method with the given name and
// descriptor, or -1 if none matches (spec §7: "missing method in
// root" is a silent no-op at the caller).
func (c *ClassRecord) FindMethod(name, descriptor string) int {
	for i, m := range c.Methods {
		if m.Name == name && m.Descriptor == descriptor {
			return i
		}
	}
	return -1
}
