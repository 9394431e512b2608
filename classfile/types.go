/*
 * classplanner - a profiler class-instrumentation planner
 * Field layout modeled on artipop-jacobin/src/classloader/classloader.go's ParsedClass.
 */

package classfile

// CPEntry is one tagged constant-pool slot. Slot indexes into the
// type-specific side table (ClassRefs, Utf8Refs, ...) the way
// artipop-jacobin's cpEntry{Type, Slot} does, instead of a discriminated
// union, so that FetchCPEntry-style lookups stay branch-free per type.
type CPEntry struct {
	Tag  int
	Slot int
}

// NameAndTypeEntry resolves a CONSTANT_NameAndType_info.
type NameAndTypeEntry struct {
	NameIndex int // CP index of a UTF8 entry
	DescIndex int // CP index of a UTF8 entry
}

// MethodRefEntry resolves a CONSTANT_Methodref_info (also used for
// interface method refs; Interface distinguishes them).
type MethodRefEntry struct {
	ClassIndex     int // CP index of a ClassRef entry
	NameAndType    int // CP index of a NameAndType entry
	Interface      bool
}

// FieldRefEntry resolves a CONSTANT_Fieldref_info.
type FieldRefEntry struct {
	ClassIndex  int
	NameAndType int
}

// MethodHandleEntry resolves a CONSTANT_MethodHandle_info.
type MethodHandleEntry struct {
	RefKind  int
	RefIndex int
}

// InvokeDynamicEntry resolves a CONSTANT_InvokeDynamic_info / Dynamic.
type InvokeDynamicEntry struct {
	BootstrapMethodAttrIndex int
	NameAndType              int
}

// ConstantPool is the parsed, still-immutable constant pool of the
// original class file. ClassRecord grows a separate, mutable counter
// set on top of this (current_cp_count / base_cp_count); ConstantPool
// itself never changes after Parse returns.
type ConstantPool struct {
	Entries        []CPEntry // index 0 is the unused dummy entry
	Utf8Refs       []string
	ClassRefs      []int // CP index of the owning UTF8 name entry
	StringRefs     []int // CP index of the owning UTF8 entry
	IntConsts      []int32
	FloatConsts    []float32
	LongConsts     []int64
	DoubleConsts   []float64
	NameAndTypes   []NameAndTypeEntry
	FieldRefs      []FieldRefEntry
	MethodRefs     []MethodRefEntry
	MethodHandles  []MethodHandleEntry
	MethodTypes    []int // CP index of a UTF8 descriptor
	InvokeDynamics []InvokeDynamicEntry
	Dynamics       []InvokeDynamicEntry
}

// Count returns the CP's reported entry count, including the reserved
// slot 0 and the phantom slot following 8-byte constants.
func (cp *ConstantPool) Count() int { return len(cp.Entries) }

// Attribute is the generic (name-index, raw-bytes) shape most class
// and field attributes share; Code and the three lazily-scanned
// Code sub-attributes get their own offset bookkeeping instead (see
// MethodRecord).
type Attribute struct {
	NameIndex int
	Raw       []byte
}

// MethodRecord is one entry of the method table, holding everything
// C1 can determine purely from the file layout: name/descriptor,
// access flags, and offsets into the original byte buffer for the
// Code attribute's bytecode and exception table. The three
// sub-attributes of Code (LocalVariableTable, LocalVariableTypeTable,
// StackMapTable) are deliberately NOT located here — spec §4.1 requires
// they be found lazily on first access.
type MethodRecord struct {
	Name            string
	Descriptor      string
	AccessFlags     int
	HasCode         bool
	CodeOffset      int // absolute offset of the Code attribute's bytecode
	CodeLength      int
	ExceptionOffset int // absolute offset of the exception table within Code
	CodeAttrOffset  int // absolute offset of the u2 count starting Code's own sub-attribute table (for sub-attribute scans)
	Attributes      []Attribute

	// InfoOffset/InfoLength bound the method_info structure itself
	// (access_flags..attributes) within the original file, so that
	// classrecord can hand out a self-contained method_info slice via
	// MethodInfo(i) without re-deriving offsets.
	InfoOffset int
	InfoLength int
}

func (m *MethodRecord) IsNative() bool   { return m.AccessFlags&AccNative != 0 }
func (m *MethodRecord) IsAbstract() bool { return m.AccessFlags&AccAbstract != 0 }
func (m *MethodRecord) IsStatic() bool   { return m.AccessFlags&AccStatic != 0 }
func (m *MethodRecord) IsPublic() bool   { return m.AccessFlags&AccPublic != 0 }

// ClassFile is the fully-decoded, immutable skeleton C1 hands to
// classrecord.New. Everything here is structural; per-method mutable
// planner state lives in classrecord.ClassRecord instead.
type ClassFile struct {
	MinorVersion int
	MajorVersion int
	CP           ConstantPool
	AccessFlags    int
	ThisClass      string // interned-form (slash) internal name
	ThisClassIndex int    // CP index of the this_class ClassRef entry
	SuperClass     string // "" for java/lang/Object
	Interfaces   []string
	Methods      []MethodRecord
	FieldCount   int
	Attributes   []Attribute
	// Raw holds the original file bytes, retained so that
	// classrecord's original-file accessors (§4.2) can read code
	// regions and sub-attributes directly instead of re-parsing.
	Raw []byte

	// cached CP indices of interest, mirroring the decoder's own
	// attribute-name caching (spec §4.1).
	cpIndexCache map[string]int
}

func (c *ClassFile) IsInterface() bool { return c.AccessFlags&AccInterface != 0 }

// CPIndexOfUTF8 returns the CP index whose UTF8 value equals s, caching
// the common attribute-name lookups the way the decoder caches them.
func (c *ClassFile) CPIndexOfUTF8(s string) (int, bool) {
	if c.cpIndexCache == nil {
		c.cpIndexCache = make(map[string]int)
	}
	if idx, ok := c.cpIndexCache[s]; ok {
		return idx, idx != -1
	}
	for i, u := range c.CP.Utf8Refs {
		if u == s {
			// Utf8Refs is a side table; find the owning CP slot.
			for cpIdx, e := range c.CP.Entries {
				if e.Tag == TagUTF8 && e.Slot == i {
					c.cpIndexCache[s] = cpIdx
					return cpIdx, true
				}
			}
		}
	}
	c.cpIndexCache[s] = -1
	return 0, false
}
