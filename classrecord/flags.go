/*
 * classplanner - a profiler class-instrumentation planner
 */

package classrecord

// Bit is one flag in a method's scan_bits mask. The encoding is part
// of the external contract (spec §6): the bytecode editor reads these
// same bits.
type Bit uint16

const (
	Reachable   Bit = 1 << 0
	Unscannable Bit = 1 << 1
	Scanned     Bit = 1 << 2
	Instrumented Bit = 1 << 3
	Leaf        Bit = 1 << 4
	Virtual     Bit = 1 << 5
	Root        Bit = 1 << 6
	Special     Bit = 1 << 7
	Marker      Bit = 1 << 8
)

// InjKind indexes base_cp_count (spec §6). The exact count is
// injKindMax.
type InjKind int

const (
	InjRecursiveNormalMethod InjKind = iota
	InjRecursiveRootMethod
	InjRecursiveMarkerMethod
	InjCodeRegion
	InjStackmap
	InjThrowable
	injKindMax
)

// unsetBaseCPCount is the "not yet sized" sentinel for base_cp_count entries.
const unsetBaseCPCount = -1
