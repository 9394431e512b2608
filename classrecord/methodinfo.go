/*
 * classplanner - a profiler class-instrumentation planner
 * Routing discipline per spec §4.2: every accessor checks
 * modified_info[i] first, falling back to the original file's
 * structural offsets only when no re-instrumented buffer exists.
 */

package classrecord

// MethodInfo returns the method_info bytes for method i: the
// re-instrumented buffer if one has been saved, otherwise a slice of
// the original file.
func (c *ClassRecord) MethodInfo(i int) []byte {
	if c.modifiedInfo[i] != nil {
		return c.modifiedInfo[i]
	}
	m := &c.Methods[i]
	return c.file.Raw[m.InfoOffset : m.InfoOffset+m.InfoLength]
}

// MethodInfoLen returns len(MethodInfo(i)) without materializing the slice twice.
func (c *ClassRecord) MethodInfoLen(i int) int {
	if c.modifiedInfo[i] != nil {
		return len(c.modifiedInfo[i])
	}
	return c.Methods[i].InfoLength
}

// MethodBytecode returns method i's bytecode, reading from
// modified_info[i] when present and from the original file otherwise
// (spec §8 "Routing" testable property).
func (c *ClassRecord) MethodBytecode(i int) []byte {
	if buf := c.modifiedInfo[i]; buf != nil {
		loc := c.locateModifiedCode(i, buf)
		if loc == nil {
			return nil
		}
		return buf[loc.CodeOffset : loc.CodeOffset+loc.CodeLength]
	}
	m := &c.Methods[i]
	if !m.HasCode {
		return nil
	}
	return c.file.Raw[m.CodeOffset : m.CodeOffset+m.CodeLength]
}

// MethodBytecodeLen mirrors MethodBytecode's routing. For the
// modified path it is mod_bc_len[i], lazily derived "from the u4 just
// before the bytecode" per spec §4.2, and cached thereafter.
func (c *ClassRecord) MethodBytecodeLen(i int) int {
	if buf := c.modifiedInfo[i]; buf != nil {
		if c.modBCLen[i] != 0 {
			return c.modBCLen[i]
		}
		loc := c.locateModifiedCode(i, buf)
		if loc == nil {
			return 0
		}
		c.modBCLen[i] = loc.CodeLength
		return loc.CodeLength
	}
	return c.Methods[i].CodeLength
}

// ExceptionTableStart returns the absolute offset of method i's
// exception table within whichever buffer is authoritative.
func (c *ClassRecord) ExceptionTableStart(i int) int {
	if buf := c.modifiedInfo[i]; buf != nil {
		loc := c.locateModifiedCode(i, buf)
		if loc == nil {
			return 0
		}
		return loc.ExceptionOffset
	}
	return c.Methods[i].ExceptionOffset
}

// LocalVariableTableStart, LocalVariableTypeTableStart and
// StackMapTableStart are the three lazily-resolved sub-attribute
// offsets. Each checks its 0-sentinel cache first; save_method_info
// zeroes all three caches together (spec §4.2, §9 open question).
func (c *ClassRecord) LocalVariableTableStart(i int) (int, bool) {
	return c.subAttrStart(i, "LocalVariableTable", &c.modLVTOff[i])
}

func (c *ClassRecord) LocalVariableTypeTableStart(i int) (int, bool) {
	return c.subAttrStart(i, "LocalVariableTypeTable", &c.modLVTTOff[i])
}

func (c *ClassRecord) StackMapTableStart(i int) (int, bool) {
	return c.subAttrStart(i, "StackMapTable", &c.modSMTOff[i])
}

func (c *ClassRecord) subAttrStart(i int, attrName string, cache *int) (int, bool) {
	if *cache != 0 {
		return *cache, true
	}
	nameIdx, ok := c.file.CPIndexOfUTF8(attrName)
	if !ok {
		return 0, false
	}

	if buf := c.modifiedInfo[i]; buf != nil {
		loc := c.locateModifiedCode(i, buf)
		if loc == nil {
			return 0, false
		}
		off, found, err := locateSubAttributeSafe(buf, loc.SubAttrOffset, nameIdx)
		if err != nil || !found {
			return 0, false
		}
		*cache = off
		return off, true
	}

	m := &c.Methods[i]
	if !m.HasCode {
		return 0, false
	}
	off, found, err := locateSubAttributeSafe(c.file.Raw, m.CodeAttrOffset, nameIdx)
	if err != nil || !found {
		return 0, false
	}
	*cache = off
	return off, true
}

// SaveMethodInfo stores buf as method i's re-instrumented method_info
// and reallocates the four lazy-offset caches to method-table length.
//
// Per spec §4.2 and the §9 open question, this deliberately zeroes the
// caches for every method, not just i — a prior implementation detail
// preserved here rather than "fixed", since downstream code may depend
// on the forced re-validation after any editor pass.
func (c *ClassRecord) SaveMethodInfo(i int, buf []byte) {
	c.modifiedInfo[i] = buf
	m := len(c.Methods)
	c.modBCLen = make([]int, m)
	c.modLVTOff = make([]int, m)
	c.modLVTTOff = make([]int, m)
	c.modSMTOff = make([]int, m)
}

// ResetTables clears the per-method offset tables derived from the
// original file. It is a no-op once any method carries modified_info,
// since the modified path never shares those tables (spec §4.2).
func (c *ClassRecord) ResetTables() {
	for i := range c.modifiedInfo {
		if c.modifiedInfo[i] != nil {
			return
		}
	}
	for i := range c.Methods {
		c.Methods[i].CodeAttrOffset = 0
	}
}
