/*
 * classplanner - a profiler class-instrumentation planner
 */

package rootmodel

import "strings"

// Filter is the include/exclude instrumentation filter gating classes
// that are not themselves root classes (spec §4.5 step 5). It is
// encoded as glob-style include/exclude prefix lists, per spec §4.4's
// suggestion ("implementers may encode it as include/exclude globs").
type Filter struct {
	Include []string `json:"include,omitempty"`
	Exclude []string `json:"exclude,omitempty"`
}

// Accepts reports whether className passes the filter: it must match
// an include pattern (or Include is empty, meaning "everything") and
// must not match any exclude pattern. Exclude always wins over
// Include on overlap.
func (f Filter) Accepts(className string) bool {
	if matchesAny(f.Exclude, className) {
		return false
	}
	if len(f.Include) == 0 {
		return true
	}
	return matchesAny(f.Include, className)
}

func matchesAny(patterns []string, className string) bool {
	for _, p := range patterns {
		if globMatch(p, className) {
			return true
		}
	}
	return false
}

// globMatch supports a single trailing "*" meaning "this package and
// everything under it", the same syntax RootSet wildcards use.
func globMatch(pattern, className string) bool {
	if !strings.Contains(pattern, "*") {
		return pattern == className
	}
	prefix := strings.TrimSuffix(pattern, "*")
	prefix = strings.TrimSuffix(prefix, "/")
	return className == prefix || strings.HasPrefix(className, prefix+"/")
}
