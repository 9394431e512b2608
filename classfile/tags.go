/*
 * classplanner - a profiler class-instrumentation planner
 */

package classfile

// Constant-pool tag values, per JVMS §4.4. Named the way
// artipop-jacobin names its CP entry types (ClassRef, MethodRef, ...)
// rather than the raw CONSTANT_* spelling.
const (
	TagUTF8               = 1
	TagIntConst           = 3
	TagFloatConst         = 4
	TagLongConst          = 5
	TagDoubleConst        = 6
	TagClassRef           = 7
	TagStringConst        = 8
	TagFieldRef           = 9
	TagMethodRef          = 10
	TagInterfaceMethodRef = 11
	TagNameAndType        = 12
	TagMethodHandle       = 15
	TagMethodType         = 16
	TagDynamic            = 17
	TagInvokeDynamic      = 18
	TagModule             = 19
	TagPackage            = 20
)

// Access-flag bits shared between classes and methods (only the
// subset the planner inspects).
const (
	AccPublic    = 0x0001
	AccStatic    = 0x0020
	AccFinal     = 0x0010
	AccInterface = 0x0200
	AccAbstract  = 0x0400
	AccSynthetic = 0x1000
	AccNative    = 0x0100
)
