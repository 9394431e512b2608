/*
 * classplanner - a profiler class-instrumentation planner
 */

package classrecord

// GetBaseCPCount and SetBaseCPCount maintain the per-injection-kind
// allocation record; unsetBaseCPCount (-1) means "not yet sized".
func (c *ClassRecord) GetBaseCPCount(k InjKind) int     { return c.baseCPCount[k] }
func (c *ClassRecord) SetBaseCPCount(k InjKind, v int)  { c.baseCPCount[k] = v }

// GetCurrentCPCount reports the constant pool's current size,
// including every entry appended due to instrumentation so far.
func (c *ClassRecord) GetCurrentCPCount() int { return c.currentCPCount }

// SetCurrentCPCount grows current_cp_count; per spec §3/§8 it is
// monotonically non-decreasing, so a smaller value is ignored rather
// than silently corrupting the invariant.
func (c *ClassRecord) SetCurrentCPCount(v int) {
	if v > c.currentCPCount {
		c.currentCPCount = v
	}
}

// allocateCPSlot reserves (once) the constant-pool index the editor
// will use for a given injection kind's supporting name, recording it
// in base_cp_count and advancing current_cp_count. Later calls for the
// same kind reuse the first allocation.
func (c *ClassRecord) allocateCPSlot(k InjKind) int {
	if c.baseCPCount[k] == unsetBaseCPCount {
		c.baseCPCount[k] = c.currentCPCount
		c.currentCPCount++
	}
	return c.baseCPCount[k]
}

// stackMapTableNameIndex returns the CP index to use for the
// "StackMapTable" attribute name, reusing one already present in the
// original file or allocating a fresh growth slot otherwise.
func (c *ClassRecord) stackMapTableNameIndex() int {
	if idx, ok := c.file.CPIndexOfUTF8("StackMapTable"); ok {
		return idx
	}
	return c.allocateCPSlot(InjStackmap)
}

// throwableIndex returns the CP index for java/lang/Throwable,
// caching it the way spec §3 describes ("cached CP index for
// java/lang/Throwable").
func (c *ClassRecord) throwableIndex() int {
	if c.throwableCPIndex != -1 {
		return c.throwableCPIndex
	}
	if idx, ok := c.file.FindClassRef("java/lang/Throwable"); ok {
		c.throwableCPIndex = idx
		return idx
	}
	idx := c.allocateCPSlot(InjThrowable)
	c.throwableCPIndex = idx
	return idx
}

// StackMapFrame is a "full frame" entry as spec §4.2's
// add_global_catch_stack_map_entry constructs it: the locals set
// depends on whether the method is static, a constructor, or neither,
// and the operand stack always holds exactly the Throwable reference.
type StackMapFrame struct {
	EndPC  int
	Locals []int
	Stack  []int
}

// AddGlobalCatchStackMapEntry appends a synthetic "full frame" stack
// map entry covering a globally-injected catch block for method i,
// ending at endPC. It is a no-op on class files older than major
// version 50 (StackMapTable did not exist yet).
func (c *ClassRecord) AddGlobalCatchStackMapEntry(i, endPC int) {
	if c.MajorVersion() < 50 {
		return
	}
	m := &c.Methods[i]

	var locals []int
	switch {
	case m.IsStatic():
		locals = nil
	case m.Name == "<init>":
		locals = []int{0} // uninitialized_this
	default:
		locals = []int{c.file.ThisClassIndex}
	}

	frame := StackMapFrame{
		EndPC:  endPC,
		Locals: locals,
		Stack:  []int{c.throwableIndex()},
	}

	_ = c.stackMapTableNameIndex() // ensures the attribute name is reserved in the growing CP
	c.globalCatchFrames = append(c.globalCatchFrames, methodFrame{method: i, frame: frame})
}

type methodFrame struct {
	method int
	frame  StackMapFrame
}

// GlobalCatchFrames returns every synthetic stack-map frame recorded
// for method i, in insertion order, for the bytecode editor to splice
// into the method's StackMapTable attribute.
func (c *ClassRecord) GlobalCatchFrames(i int) []StackMapFrame {
	var out []StackMapFrame
	for _, mf := range c.globalCatchFrames {
		if mf.method == i {
			out = append(out, mf.frame)
		}
	}
	return out
}
