/*
 * classplanner - a profiler class-instrumentation planner
 */

package classrecord

// ScanBits returns the raw flag mask for method i, for callers (the
// bytecode editor, result packer) that need the whole word rather than
// a single-bit query.
func (c *ClassRecord) ScanBits(i int) Bit { return c.scanBits[i] }

func (c *ClassRecord) set(i int, b Bit)   { c.scanBits[i] |= b }
func (c *ClassRecord) unset(i int, b Bit) { c.scanBits[i] &^= b }
func (c *ClassRecord) has(i int, b Bit) bool { return c.scanBits[i]&b != 0 }

func (c *ClassRecord) SetMethodReachable(i int)   { c.set(i, Reachable); c.HasMethodReachable = true }
func (c *ClassRecord) UnsetMethodReachable(i int) { c.unset(i, Reachable) }
func (c *ClassRecord) IsMethodReachable(i int) bool { return c.has(i, Reachable) }

func (c *ClassRecord) SetMethodUnscannable(i int)   { c.set(i, Unscannable) }
func (c *ClassRecord) UnsetMethodUnscannable(i int) { c.unset(i, Unscannable) }
func (c *ClassRecord) IsMethodUnscannable(i int) bool { return c.has(i, Unscannable) }

func (c *ClassRecord) SetMethodScanned(i int)   { c.set(i, Scanned) }
func (c *ClassRecord) UnsetMethodScanned(i int) { c.unset(i, Scanned) }
func (c *ClassRecord) IsMethodScanned(i int) bool { return c.has(i, Scanned) }

// SetMethodInstrumented marks method i instrumented and keeps
// NInstrumentedMethods consistent with the INSTRUMENTED bit (spec's
// accounting invariant). Calling it twice on an already-instrumented
// method is a no-op on the counter, preserving idempotence.
func (c *ClassRecord) SetMethodInstrumented(i int) {
	if c.has(i, Instrumented) {
		return
	}
	c.set(i, Instrumented)
	c.NInstrumentedMethods++
}

func (c *ClassRecord) UnsetMethodInstrumented(i int) {
	if !c.has(i, Instrumented) {
		return
	}
	c.unset(i, Instrumented)
	c.NInstrumentedMethods--
}

func (c *ClassRecord) IsMethodInstrumented(i int) bool { return c.has(i, Instrumented) }

func (c *ClassRecord) SetMethodLeaf(i int)   { c.set(i, Leaf) }
func (c *ClassRecord) UnsetMethodLeaf(i int) { c.unset(i, Leaf) }
func (c *ClassRecord) IsMethodLeaf(i int) bool { return c.has(i, Leaf) }

func (c *ClassRecord) SetMethodVirtual(i int)   { c.set(i, Virtual) }
func (c *ClassRecord) UnsetMethodVirtual(i int) { c.unset(i, Virtual) }
func (c *ClassRecord) IsMethodVirtual(i int) bool { return c.has(i, Virtual) }

func (c *ClassRecord) SetMethodSpecial(i int)   { c.set(i, Special) }
func (c *ClassRecord) UnsetMethodSpecial(i int) { c.unset(i, Special) }
func (c *ClassRecord) IsMethodSpecial(i int) bool { return c.has(i, Special) }

func (c *ClassRecord) SetMethodRoot(i int) {
	c.set(i, Root)
	c.HasUninstrumentedRootMethods = true
}
func (c *ClassRecord) UnsetMethodRoot(i int) { c.unset(i, Root) }

// IsMethodRoot reports ROOT for method i, or true for every method
// once SetAllMethodsRoots was called (spec §4.2).
func (c *ClassRecord) IsMethodRoot(i int) bool {
	return c.AllMethodsRoots || c.has(i, Root)
}

func (c *ClassRecord) SetMethodMarker(i int) {
	c.set(i, Marker)
	c.HasUninstrumentedMarkerMethods = true
}
func (c *ClassRecord) UnsetMethodMarker(i int) { c.unset(i, Marker) }

// IsMethodMarker reports MARKER for method i, or true for every
// method once SetAllMethodsMarkers was called (spec §4.2).
func (c *ClassRecord) IsMethodMarker(i int) bool {
	return c.AllMethodsMarkers || c.has(i, Marker)
}

// SetAllMethodsMarkers flips the class-wide marker flag, the
// "monotonically set" half of spec §3's invariant: it is never
// cleared once true.
func (c *ClassRecord) SetAllMethodsMarkers() {
	c.AllMethodsMarkers = true
	c.HasUninstrumentedMarkerMethods = true
}

// SetAllMethodsRoots is the ROOT analogue of SetAllMethodsMarkers.
func (c *ClassRecord) SetAllMethodsRoots() {
	c.AllMethodsRoots = true
	c.HasUninstrumentedRootMethods = true
}
