/*
 * classplanner - a profiler class-instrumentation planner
 * Exported wrappers around the routines CPutils.go uses internally in
 * artipop-jacobin, kept here so classrecord doesn't need to re-walk CP
 * entry tags itself.
 */

package classfile

// ResolveClassName resolves a ClassRef constant-pool index to its
// internal (slash-form) name.
func (cf *ClassFile) ResolveClassName(cpIndex int) (string, error) {
	return classNameAt(cf, cpIndex)
}

// ResolveUTF8 resolves a UTF8 constant-pool index to its string value.
func (cf *ClassFile) ResolveUTF8(cpIndex int) (string, error) {
	return utf8At(cf, cpIndex)
}

// FindClassRef returns the CP index of the ClassRef entry naming
// internalName, if the original constant pool already contains one.
func (cf *ClassFile) FindClassRef(internalName string) (int, bool) {
	for idx, e := range cf.CP.Entries {
		if e.Tag != TagClassRef {
			continue
		}
		name, err := cf.ResolveClassName(idx)
		if err == nil && name == internalName {
			return idx, true
		}
	}
	return 0, false
}
