/*
 * classplanner - a profiler class-instrumentation planner
 * Parse order modeled on tarczynskitomek-jacobin/src/classloader/parser.go's
 * parse(): magic, version, constant pool, access flags, this/super,
 * interfaces, fields, methods, attributes — the canonical JVMS §4 order.
 */

package classfile

const magic = 0xCAFEBABE

// Parse decodes a compliant .class file byte buffer into a ClassFile
// skeleton. expectedName is the internal (slash-form) name the
// repository looked the bytes up under; a mismatch against this_class
// is reported as a *NameMismatch, distinct from ordinary format faults
// (spec §4.1).
func Parse(raw []byte, expectedName string) (*ClassFile, error) {
	c := newCursor(raw)

	if err := parseMagic(c); err != nil {
		return nil, err
	}

	cf := &ClassFile{Raw: raw}

	minor, err := c.u2()
	if err != nil {
		return nil, err
	}
	major, err := c.u2()
	if err != nil {
		return nil, err
	}
	cf.MinorVersion, cf.MajorVersion = minor, major

	if err := parseConstantPool(c, cf); err != nil {
		return nil, err
	}

	accessFlags, err := c.u2()
	if err != nil {
		return nil, err
	}
	cf.AccessFlags = accessFlags

	thisIdx, err := c.u2()
	if err != nil {
		return nil, err
	}
	thisName, err := classNameAt(cf, thisIdx)
	if err != nil {
		return nil, err
	}
	if expectedName != "" && thisName != expectedName {
		return nil, &NameMismatch{Expected: expectedName, Found: thisName}
	}
	cf.ThisClass = thisName
	cf.ThisClassIndex = thisIdx

	superIdx, err := c.u2()
	if err != nil {
		return nil, err
	}
	if superIdx != 0 {
		superName, err := classNameAt(cf, superIdx)
		if err != nil {
			return nil, err
		}
		cf.SuperClass = superName
	}

	if err := parseInterfaces(c, cf); err != nil {
		return nil, err
	}

	if err := skipFields(c, cf); err != nil {
		return nil, err
	}

	if err := parseMethods(c, cf); err != nil {
		return nil, err
	}

	if err := parseClassAttributes(c, cf); err != nil {
		return nil, err
	}

	return cf, nil
}

func parseMagic(c *cursor) error {
	v, err := c.u4()
	if err != nil {
		return err
	}
	if v != magic {
		return fault(0, "invalid magic number")
	}
	return nil
}

func classNameAt(cf *ClassFile, cpIndex int) (string, error) {
	if cpIndex < 1 || cpIndex >= len(cf.CP.Entries) {
		return "", fault(cpIndex, "class-name constant-pool index out of range")
	}
	e := cf.CP.Entries[cpIndex]
	if e.Tag != TagClassRef {
		return "", fault(cpIndex, "expected a ClassRef constant-pool entry")
	}
	utf8Idx := cf.CP.ClassRefs[e.Slot]
	return utf8At(cf, utf8Idx)
}

func utf8At(cf *ClassFile, cpIndex int) (string, error) {
	if cpIndex < 1 || cpIndex >= len(cf.CP.Entries) {
		return "", fault(cpIndex, "UTF8 constant-pool index out of range")
	}
	e := cf.CP.Entries[cpIndex]
	if e.Tag != TagUTF8 {
		return "", fault(cpIndex, "expected a UTF8 constant-pool entry")
	}
	return cf.CP.Utf8Refs[e.Slot], nil
}

func parseInterfaces(c *cursor, cf *ClassFile) error {
	n, err := c.u2()
	if err != nil {
		return err
	}
	cf.Interfaces = make([]string, 0, n)
	for i := 0; i < n; i++ {
		idx, err := c.u2()
		if err != nil {
			return err
		}
		name, err := classNameAt(cf, idx)
		if err != nil {
			return err
		}
		cf.Interfaces = append(cf.Interfaces, name)
	}
	return nil
}

// skipFields consumes the field table without retaining per-field
// detail: the planner operates on methods, and field layout is the
// bytecode editor's concern, not this component's (spec §1 scope).
func skipFields(c *cursor, cf *ClassFile) error {
	n, err := c.u2()
	if err != nil {
		return err
	}
	cf.FieldCount = n
	for i := 0; i < n; i++ {
		if err := c.skip(6); err != nil { // access_flags, name_index, descriptor_index
			return err
		}
		if err := skipAttributeTable(c); err != nil {
			return err
		}
	}
	return nil
}

func skipAttributeTable(c *cursor) error {
	n, err := c.u2()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := c.skip(2); err != nil { // attribute_name_index
			return err
		}
		length, err := c.u4()
		if err != nil {
			return err
		}
		if err := c.skip(int(length)); err != nil {
			return fault(c.pos, "attribute length overflow")
		}
	}
	return nil
}

func parseClassAttributes(c *cursor, cf *ClassFile) error {
	n, err := c.u2()
	if err != nil {
		return err
	}
	cf.Attributes = make([]Attribute, 0, n)
	for i := 0; i < n; i++ {
		nameIdx, err := c.u2()
		if err != nil {
			return err
		}
		length, err := c.u4()
		if err != nil {
			return err
		}
		raw, err := c.bytes(int(length))
		if err != nil {
			return fault(c.pos, "attribute length overflow")
		}
		cf.Attributes = append(cf.Attributes, Attribute{NameIndex: nameIdx, Raw: raw})
	}
	return nil
}

func parseMethods(c *cursor, cf *ClassFile) error {
	n, err := c.u2()
	if err != nil {
		return err
	}
	cf.Methods = make([]MethodRecord, 0, n)
	codeIdx, hasCode := cf.CPIndexOfUTF8("Code")

	for i := 0; i < n; i++ {
		infoStart := c.pos
		accessFlags, err := c.u2()
		if err != nil {
			return err
		}
		nameIdx, err := c.u2()
		if err != nil {
			return err
		}
		name, err := utf8At(cf, nameIdx)
		if err != nil {
			return err
		}
		descIdx, err := c.u2()
		if err != nil {
			return err
		}
		desc, err := utf8At(cf, descIdx)
		if err != nil {
			return err
		}

		m := MethodRecord{Name: name, Descriptor: desc, AccessFlags: accessFlags}

		attrCount, err := c.u2()
		if err != nil {
			return err
		}
		m.Attributes = make([]Attribute, 0, attrCount)
		for j := 0; j < attrCount; j++ {
			attrNameIdx, err := c.u2()
			if err != nil {
				return err
			}
			length, err := c.u4()
			if err != nil {
				return err
			}
			attrStart := c.pos

			if hasCode && attrNameIdx == codeIdx && !m.HasCode {
				if err := parseCodeAttribute(c, &m, attrStart, int(length)); err != nil {
					return err
				}
			} else {
				raw, err := c.bytes(int(length))
				if err != nil {
					return fault(c.pos, "attribute length overflow")
				}
				m.Attributes = append(m.Attributes, Attribute{NameIndex: attrNameIdx, Raw: raw})
			}
		}

		m.InfoOffset = infoStart
		m.InfoLength = c.pos - infoStart
		cf.Methods = append(cf.Methods, m)
	}
	return nil
}

// parseCodeAttribute records absolute offsets only — it does not copy
// the bytecode or exception table, matching the decoder's mandate
// (spec §4.1) to locate, not own, the original-file regions.
func parseCodeAttribute(c *cursor, m *MethodRecord, attrStart, length int) error {
	if err := c.skip(2); err != nil { // max_stack
		return err
	}
	if err := c.skip(2); err != nil { // max_locals
		return err
	}
	codeLen, err := c.u4()
	if err != nil {
		return err
	}
	m.CodeOffset = c.pos
	m.CodeLength = int(codeLen)
	if err := c.skip(int(codeLen)); err != nil {
		return fault(c.pos, "code length overflow")
	}

	m.ExceptionOffset = c.pos
	excCount, err := c.u2()
	if err != nil {
		return err
	}
	if err := c.skip(excCount * 8); err != nil {
		return fault(c.pos, "exception table overflow")
	}

	m.CodeAttrOffset = c.pos // start of Code's own sub-attribute table
	if err := skipAttributeTable(c); err != nil {
		return err
	}

	m.HasCode = true
	_ = attrStart
	_ = length
	return nil
}
