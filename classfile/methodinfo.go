/*
 * classplanner - a profiler class-instrumentation planner
 */

package classfile

// LocatedCode describes where a method's Code attribute and its three
// interesting sub-attributes live within a byte buffer. All offsets
// are absolute within the buffer LocateCode was given.
type LocatedCode struct {
	CodeOffset      int
	CodeLength      int
	ExceptionOffset int
	SubAttrOffset   int // offset of the u2 count starting Code's own attribute table
}

// LocateCode walks a standalone method_info buffer (access_flags,
// name_index, descriptor_index, attributes_count, attributes...) to
// find its Code attribute, the way classrecord.ClassRecord must when
// modified_info[i] is present and the structural offsets computed at
// parse time are no longer valid (spec §4.2). codeNameIndex and the
// other three attribute-name indices are CP indices that remain valid
// across re-instrumentation, since the editor only appends CP entries.
func LocateCode(buf []byte, codeNameIndex int) (LocatedCode, bool, error) {
	c := newCursor(buf)
	if err := c.skip(6); err != nil { // access_flags, name_index, descriptor_index
		return LocatedCode{}, false, err
	}
	attrCount, err := c.u2()
	if err != nil {
		return LocatedCode{}, false, err
	}
	for i := 0; i < attrCount; i++ {
		nameIdx, err := c.u2()
		if err != nil {
			return LocatedCode{}, false, err
		}
		length, err := c.u4()
		if err != nil {
			return LocatedCode{}, false, err
		}
		attrBodyStart := c.pos
		if nameIdx == codeNameIndex {
			loc, err := locateCodeBody(c)
			if err != nil {
				return LocatedCode{}, false, err
			}
			return loc, true, nil
		}
		if err := c.skip(int(length)); err != nil {
			return LocatedCode{}, false, err
		}
		_ = attrBodyStart
	}
	return LocatedCode{}, false, nil
}

func locateCodeBody(c *cursor) (LocatedCode, error) {
	if err := c.skip(2); err != nil { // max_stack
		return LocatedCode{}, err
	}
	if err := c.skip(2); err != nil { // max_locals
		return LocatedCode{}, err
	}
	codeLen, err := c.u4()
	if err != nil {
		return LocatedCode{}, err
	}
	loc := LocatedCode{CodeOffset: c.pos, CodeLength: int(codeLen)}
	if err := c.skip(int(codeLen)); err != nil {
		return LocatedCode{}, err
	}
	loc.ExceptionOffset = c.pos
	excCount, err := c.u2()
	if err != nil {
		return LocatedCode{}, err
	}
	if err := c.skip(excCount * 8); err != nil {
		return LocatedCode{}, err
	}
	loc.SubAttrOffset = c.pos
	return loc, nil
}

// LocateSubAttribute walks the sub-attribute table starting at
// tableOffset (the absolute offset of its u2 count field) looking for
// nameIndex, returning the payload offset two bytes past that
// attribute's own length-prefixed count field, per spec §4.2: "storing
// the payload offset + 2 (skip the u2 count prefix)".
func LocateSubAttribute(buf []byte, tableOffset, nameIndex int) (int, bool, error) {
	c := newCursor(buf)
	c.pos = tableOffset
	count, err := c.u2()
	if err != nil {
		return 0, false, err
	}
	for i := 0; i < count; i++ {
		idx, err := c.u2()
		if err != nil {
			return 0, false, err
		}
		length, err := c.u4()
		if err != nil {
			return 0, false, err
		}
		bodyStart := c.pos
		if idx == nameIndex {
			return bodyStart + 2, true, nil
		}
		if err := c.skip(int(length)); err != nil {
			return 0, false, err
		}
	}
	return 0, false, nil
}
