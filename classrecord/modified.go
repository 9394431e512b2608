/*
 * classplanner - a profiler class-instrumentation planner
 */

package classrecord

import "classplanner/classfile"

// locateModifiedCode finds method i's Code attribute inside its own
// re-instrumented method_info buffer. CP numbering is preserved across
// re-instrumentation (the editor only appends entries), so the
// original file's cached "Code" attribute-name index is still valid.
func (c *ClassRecord) locateModifiedCode(i int, buf []byte) *classfile.LocatedCode {
	codeIdx, ok := c.file.CPIndexOfUTF8("Code")
	if !ok {
		return nil
	}
	loc, found, err := classfile.LocateCode(buf, codeIdx)
	if err != nil || !found {
		return nil
	}
	return &loc
}

func locateSubAttributeSafe(buf []byte, tableOffset, nameIndex int) (int, bool, error) {
	return classfile.LocateSubAttribute(buf, tableOffset, nameIndex)
}
