/*
 * classplanner - a profiler class-instrumentation planner
 */

package classfile

import "math"

// parseConstantPool reads the constant_pool_count-1 entries of JVMS §4.4,
// allocating the dummy entry 0 and the phantom slot that follows every
// 8-byte (Long/Double) constant, matching the "unusable slot" rule the
// format checker in the teacher's formatCheck family enforces.
func parseConstantPool(c *cursor, cf *ClassFile) error {
	count, err := c.u2()
	if err != nil {
		return err
	}
	if count < 1 {
		return fault(c.pos, "invalid constant pool count")
	}

	cp := &cf.CP
	cp.Entries = make([]CPEntry, count)
	cp.Entries[0] = CPEntry{Tag: 0, Slot: 0} // reserved dummy slot

	for i := 1; i < count; i++ {
		tag, err := c.u1()
		if err != nil {
			return err
		}
		switch tag {
		case TagUTF8:
			length, err := c.u2()
			if err != nil {
				return err
			}
			s, err := c.utf8(length)
			if err != nil {
				return err
			}
			cp.Entries[i] = CPEntry{Tag: TagUTF8, Slot: len(cp.Utf8Refs)}
			cp.Utf8Refs = append(cp.Utf8Refs, s)

		case TagIntConst:
			v, err := c.u4()
			if err != nil {
				return err
			}
			cp.Entries[i] = CPEntry{Tag: TagIntConst, Slot: len(cp.IntConsts)}
			cp.IntConsts = append(cp.IntConsts, int32(v))

		case TagFloatConst:
			v, err := c.u4()
			if err != nil {
				return err
			}
			cp.Entries[i] = CPEntry{Tag: TagFloatConst, Slot: len(cp.FloatConsts)}
			cp.FloatConsts = append(cp.FloatConsts, bitsToFloat32(v))

		case TagLongConst:
			hi, err := c.u4()
			if err != nil {
				return err
			}
			lo, err := c.u4()
			if err != nil {
				return err
			}
			cp.Entries[i] = CPEntry{Tag: TagLongConst, Slot: len(cp.LongConsts)}
			cp.LongConsts = append(cp.LongConsts, int64(uint64(hi)<<32|uint64(lo)))
			i++ // longs/doubles occupy the next index too (JVMS §4.4.5)
			if i < count {
				cp.Entries[i] = CPEntry{Tag: 0, Slot: 0}
			}

		case TagDoubleConst:
			hi, err := c.u4()
			if err != nil {
				return err
			}
			lo, err := c.u4()
			if err != nil {
				return err
			}
			cp.Entries[i] = CPEntry{Tag: TagDoubleConst, Slot: len(cp.DoubleConsts)}
			cp.DoubleConsts = append(cp.DoubleConsts, bitsToFloat64(uint64(hi)<<32|uint64(lo)))
			i++
			if i < count {
				cp.Entries[i] = CPEntry{Tag: 0, Slot: 0}
			}

		case TagClassRef:
			nameIdx, err := c.u2()
			if err != nil {
				return err
			}
			cp.Entries[i] = CPEntry{Tag: TagClassRef, Slot: len(cp.ClassRefs)}
			cp.ClassRefs = append(cp.ClassRefs, nameIdx)

		case TagStringConst:
			utf8Idx, err := c.u2()
			if err != nil {
				return err
			}
			cp.Entries[i] = CPEntry{Tag: TagStringConst, Slot: len(cp.StringRefs)}
			cp.StringRefs = append(cp.StringRefs, utf8Idx)

		case TagFieldRef:
			classIdx, err := c.u2()
			if err != nil {
				return err
			}
			ntIdx, err := c.u2()
			if err != nil {
				return err
			}
			cp.Entries[i] = CPEntry{Tag: TagFieldRef, Slot: len(cp.FieldRefs)}
			cp.FieldRefs = append(cp.FieldRefs, FieldRefEntry{ClassIndex: classIdx, NameAndType: ntIdx})

		case TagMethodRef, TagInterfaceMethodRef:
			classIdx, err := c.u2()
			if err != nil {
				return err
			}
			ntIdx, err := c.u2()
			if err != nil {
				return err
			}
			cp.Entries[i] = CPEntry{Tag: tag, Slot: len(cp.MethodRefs)}
			cp.MethodRefs = append(cp.MethodRefs, MethodRefEntry{
				ClassIndex:  classIdx,
				NameAndType: ntIdx,
				Interface:   tag == TagInterfaceMethodRef,
			})

		case TagNameAndType:
			nameIdx, err := c.u2()
			if err != nil {
				return err
			}
			descIdx, err := c.u2()
			if err != nil {
				return err
			}
			cp.Entries[i] = CPEntry{Tag: TagNameAndType, Slot: len(cp.NameAndTypes)}
			cp.NameAndTypes = append(cp.NameAndTypes, NameAndTypeEntry{NameIndex: nameIdx, DescIndex: descIdx})

		case TagMethodHandle:
			refKind, err := c.u1()
			if err != nil {
				return err
			}
			refIdx, err := c.u2()
			if err != nil {
				return err
			}
			cp.Entries[i] = CPEntry{Tag: TagMethodHandle, Slot: len(cp.MethodHandles)}
			cp.MethodHandles = append(cp.MethodHandles, MethodHandleEntry{RefKind: refKind, RefIndex: refIdx})

		case TagMethodType:
			descIdx, err := c.u2()
			if err != nil {
				return err
			}
			cp.Entries[i] = CPEntry{Tag: TagMethodType, Slot: len(cp.MethodTypes)}
			cp.MethodTypes = append(cp.MethodTypes, descIdx)

		case TagDynamic:
			bsmIdx, err := c.u2()
			if err != nil {
				return err
			}
			ntIdx, err := c.u2()
			if err != nil {
				return err
			}
			cp.Entries[i] = CPEntry{Tag: TagDynamic, Slot: len(cp.Dynamics)}
			cp.Dynamics = append(cp.Dynamics, InvokeDynamicEntry{BootstrapMethodAttrIndex: bsmIdx, NameAndType: ntIdx})

		case TagInvokeDynamic:
			bsmIdx, err := c.u2()
			if err != nil {
				return err
			}
			ntIdx, err := c.u2()
			if err != nil {
				return err
			}
			cp.Entries[i] = CPEntry{Tag: TagInvokeDynamic, Slot: len(cp.InvokeDynamics)}
			cp.InvokeDynamics = append(cp.InvokeDynamics, InvokeDynamicEntry{BootstrapMethodAttrIndex: bsmIdx, NameAndType: ntIdx})

		case TagModule, TagPackage:
			if err := c.skip(2); err != nil {
				return err
			}
			cp.Entries[i] = CPEntry{Tag: tag, Slot: 0}

		default:
			return fault(c.pos-1, "unknown constant-pool tag used during skip")
		}
	}
	return nil
}

func bitsToFloat32(bits uint32) float32 {
	return math.Float32frombits(bits)
}

func bitsToFloat64(bits uint64) float64 {
	return math.Float64frombits(bits)
}
