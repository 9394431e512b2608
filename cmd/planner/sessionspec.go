/*
 * classplanner - a profiler class-instrumentation planner
 */

package main

import (
	"encoding/json"
	"os"

	"classplanner/rootmodel"
)

// sessionSpec is the on-disk shape of the --roots file: the compiled
// root declarations plus the include/exclude instrumentation filter
// (spec components C4), loaded together since a session always needs
// both.
type sessionSpec struct {
	Roots  rootmodel.RootSet  `json:"roots"`
	Filter rootmodel.Filter   `json:"filter"`
}

func loadSessionSpec(path string) (sessionSpec, error) {
	if path == "" {
		return sessionSpec{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return sessionSpec{}, err
	}
	var spec sessionSpec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return sessionSpec{}, err
	}
	return spec, nil
}
