/*
 * classplanner - a profiler class-instrumentation planner
 */

package classrecord

// AddSubclass appends s to this class's subclass list. For interface
// receivers the list is deduplicated (spec §3 invariant: "subclasses
// of an interface contains each implementor at most once"); for
// non-interfaces duplicates are tolerated since in practice a class
// loads at most once per loader.
func (c *ClassRecord) AddSubclass(s *ClassRecord) {
	if c.Subclasses == nil {
		if c.Name == "java/lang/Object" {
			c.Subclasses = make([]*ClassRecord, 0, 500)
		} else {
			c.Subclasses = make([]*ClassRecord, 0, 4)
		}
	}
	if c.IsInterface() {
		for _, existing := range c.Subclasses {
			if existing.NameID == s.NameID {
				return
			}
		}
	}
	c.Subclasses = append(c.Subclasses, s)
}

// SetSuper wires the resolved superclass reference.
func (c *ClassRecord) SetSuper(s *ClassRecord) { c.SuperRef = s }

// SetSuperInterface wires the resolved reference for interface slot idx.
func (c *ClassRecord) SetSuperInterface(s *ClassRecord, idx int) {
	if idx < 0 || idx >= len(c.InterfaceRefs) {
		return
	}
	c.InterfaceRefs[idx] = s
}

// IsSubclassOf reports whether nameID equals this class's own
// interned name or recursively appears on the super_ref chain. A
// self-referential super_ref (a cycle) terminates the walk with
// false, rather than looping (spec §3 invariant).
func (c *ClassRecord) IsSubclassOf(nameID uint32) bool {
	if c.NameID == nameID {
		return true
	}
	cur := c.SuperRef
	for cur != nil && cur != c {
		if cur.NameID == nameID {
			return true
		}
		if cur.SuperRef == cur {
			break
		}
		cur = cur.SuperRef
	}
	return false
}

// ImplementsInterface is the transitive closure over interfaces_ref ∪
// super_ref.implementsInterface(I), stopping at java/lang/Object
// (spec §3).
func (c *ClassRecord) ImplementsInterface(nameID uint32) bool {
	if c.Name == "java/lang/Object" {
		return false
	}
	for _, ref := range c.InterfaceRefs {
		if ref == nil {
			continue
		}
		if ref.NameID == nameID {
			return true
		}
		if ref.ImplementsInterface(nameID) {
			return true
		}
	}
	if c.SuperRef != nil && c.SuperRef != c {
		return c.SuperRef.ImplementsInterface(nameID)
	}
	return false
}
