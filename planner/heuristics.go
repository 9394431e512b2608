/*
 * classplanner - a profiler class-instrumentation planner
 */

package planner

// JVM opcodes relevant to the trivial-body heuristics (spec §4.5 step
// 2's "dont_instrument_empty" / "dont_scan_getter_setter" checks).
const (
	opAload0    = 0x2a
	opGetfield  = 0xb4
	opPutfield  = 0xb5
	opIreturnLo = 0xac // ireturn
	opReturnHi  = 0xb1 // return (void)
)

// isTrivialReturn reports whether bc is a single return instruction
// with no other bytecode, the "single trivial return" shape of spec
// §4.5.
func isTrivialReturn(bc []byte) bool {
	return len(bc) == 1 && bc[0] >= opIreturnLo && bc[0] <= opReturnHi
}

// isGetterSetterShape reports whether bc matches the canonical getter
// ("aload_0, getfield, idx(2), <return>", 5 bytes) or setter
// ("aload_0, <load arg>, putfield, idx(2), return", 6 bytes) shape
// spec §4.5 names.
func isGetterSetterShape(bc []byte) bool {
	if len(bc) == 0 || bc[0] != opAload0 {
		return false
	}
	if len(bc) == 5 && bc[1] == opGetfield {
		ret := bc[4]
		return ret >= opIreturnLo && ret <= opReturnHi
	}
	if len(bc) == 6 && isLoadOpcode(bc[1]) && bc[2] == opPutfield {
		return bc[5] == opReturnHi
	}
	return false
}

// isLoadOpcode reports whether op is one of the single-byte local-load
// opcodes (iload_n/lload_n/fload_n/dload_n/aload_n, n in 0..3).
func isLoadOpcode(op byte) bool {
	return op >= 0x1a && op <= 0x2d
}
