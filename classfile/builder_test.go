/*
 * classplanner - a profiler class-instrumentation planner
 */

package classfile

import "encoding/binary"

// classBuilder assembles a minimal synthetic .class byte buffer for
// tests. It is not exported: production code never constructs class
// files, only parses them.
type classBuilder struct {
	major, minor int
	cpEntries    [][]byte // each entry is tag byte + payload, in final CP order
	accessFlags  int
	thisIdx      int
	superIdx     int
	interfaces   []int
	methods      []methodSpec
}

type methodSpec struct {
	accessFlags      int
	nameIdx, descIdx int
	code             []byte // nil = no Code attribute (native/abstract)
	codeNameIdx      int
}

func newClassBuilder() *classBuilder {
	return &classBuilder{major: 52, minor: 0}
}

// addUTF8 appends a CONSTANT_Utf8 entry and returns its 1-based CP index.
func (b *classBuilder) addUTF8(s string) int {
	buf := []byte{TagUTF8}
	buf = append(buf, u2bytes(len(s))...)
	buf = append(buf, []byte(s)...)
	b.cpEntries = append(b.cpEntries, buf)
	return len(b.cpEntries) // 1-based: dummy slot 0 is implicit
}

func (b *classBuilder) addClassRef(nameIdx int) int {
	buf := append([]byte{TagClassRef}, u2bytes(nameIdx)...)
	b.cpEntries = append(b.cpEntries, buf)
	return len(b.cpEntries)
}

func u2bytes(v int) []byte {
	out := make([]byte, 2)
	binary.BigEndian.PutUint16(out, uint16(v))
	return out
}

func u4bytes(v int) []byte {
	out := make([]byte, 4)
	binary.BigEndian.PutUint32(out, uint32(v))
	return out
}

func (b *classBuilder) build() []byte {
	var out []byte
	out = append(out, 0xCA, 0xFE, 0xBA, 0xBE)
	out = append(out, u2bytes(b.minor)...)
	out = append(out, u2bytes(b.major)...)

	out = append(out, u2bytes(len(b.cpEntries)+1)...) // constant_pool_count
	for _, e := range b.cpEntries {
		out = append(out, e...)
	}

	out = append(out, u2bytes(b.accessFlags)...)
	out = append(out, u2bytes(b.thisIdx)...)
	out = append(out, u2bytes(b.superIdx)...)

	out = append(out, u2bytes(len(b.interfaces))...)
	for _, i := range b.interfaces {
		out = append(out, u2bytes(i)...)
	}

	out = append(out, u2bytes(0)...) // fields_count

	out = append(out, u2bytes(len(b.methods))...)
	for _, m := range b.methods {
		out = append(out, u2bytes(m.accessFlags)...)
		out = append(out, u2bytes(m.nameIdx)...)
		out = append(out, u2bytes(m.descIdx)...)
		if m.code == nil {
			out = append(out, u2bytes(0)...) // attributes_count
			continue
		}
		out = append(out, u2bytes(1)...) // attributes_count = 1 (Code)
		out = append(out, u2bytes(m.codeNameIdx)...)

		var code []byte
		code = append(code, u2bytes(4)...)           // max_stack
		code = append(code, u2bytes(4)...)           // max_locals
		code = append(code, u4bytes(len(m.code))...) // code_length
		code = append(code, m.code...)
		code = append(code, u2bytes(0)...) // exception_table_length
		code = append(code, u2bytes(0)...) // code attributes_count

		out = append(out, u4bytes(len(code))...)
		out = append(out, code...)
	}

	out = append(out, u2bytes(0)...) // class attributes_count
	return out
}
