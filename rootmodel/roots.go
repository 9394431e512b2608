/*
 * classplanner - a profiler class-instrumentation planner
 * Table-driven matching idiom adapted from
 * artipop-jacobin/src/gfunction/javaLangThread.go's MethodSignatures
 * map (one flat table keyed by class/method, looked up by the
 * planner on every class/method event) — here a slice, since root
 * rules are matched by wildcard as well as exact name.
 */

// Package rootmodel holds the compiled representation of user-declared
// root patterns and the include/exclude instrumentation filter (spec
// component C4).
package rootmodel

import "strings"

// Entry is one compiled root/marker declaration.
//
//   - ClassWildcard true means ClassName is a package/subtree prefix
//     ("com/app/*" or "com/app*" meaning everything under com/app).
//   - MethodName empty means every method of a matched class is
//     affected (spec §4.4's five-field model has no separate method
//     wildcard bit: a root with no declared method name already means
//     "every method").
//   - Marker true means the declaration is a marker root rather than
//     an ordinary root (spec §4.4).
type Entry struct {
	ClassName       string `json:"class_name"`
	ClassWildcard   bool   `json:"class_wildcard"`
	MethodName      string `json:"method_name,omitempty"`
	MethodSignature string `json:"method_signature,omitempty"`
	Marker          bool   `json:"marker,omitempty"`
}

// AllMethods reports whether e affects every method of a matched class,
// rather than one named method: either because it is a package/subtree
// wildcard, or because it names no specific method (spec §4.5 step 6,
// "if the root is a package or method wildcard, mark all methods").
func (e Entry) AllMethods() bool {
	return e.ClassWildcard || e.MethodName == ""
}

// RootSet is the compiled set of root declarations handed to the
// planner at session start or attach time (spec §6 "root-classes-loaded
// command").
type RootSet struct {
	Entries []Entry `json:"entries"`
}

// NoExplicitRoots reports true if roots is empty or every entry is a
// marker — the trigger for the planner's implicit-root heuristics
// (main and Runnable.run), per spec §4.4.
func NoExplicitRoots(roots RootSet) bool {
	if len(roots.Entries) == 0 {
		return true
	}
	for _, e := range roots.Entries {
		if !e.Marker {
			return false
		}
	}
	return true
}

// classMatches reports whether e's class pattern matches internal
// class name. A class wildcard is recognized by a trailing "/*" or a
// bare "*" (spec §4.4's fixed wildcard syntax).
func (e Entry) classMatches(className string) bool {
	if !e.ClassWildcard {
		return e.ClassName == className
	}
	prefix := strings.TrimSuffix(e.ClassName, "*")
	prefix = strings.TrimSuffix(prefix, "/")
	return className == prefix || strings.HasPrefix(className, prefix+"/")
}

// Matches reports whether any entry in the set matches className —
// the "status" pass of spec §4.5 step 4, used to decide root-class
// status without yet marking individual methods.
func (rs RootSet) Matches(className string) bool {
	for _, e := range rs.Entries {
		if e.classMatches(className) {
			return true
		}
	}
	return false
}

// MatchingEntries returns every entry whose class pattern matches
// className, for the "mark" pass of spec §4.5 step 6.
func (rs RootSet) MatchingEntries(className string) []Entry {
	var out []Entry
	for _, e := range rs.Entries {
		if e.classMatches(className) {
			out = append(out, e)
		}
	}
	return out
}
