/*
 * classplanner - a profiler class-instrumentation planner
 */

// Package metrics registers the planner's Prometheus instrumentation,
// following the registration style of the parca-agent profiler (one
// promauto.With(reg) block per component, counters keyed by label for
// the per-injection-kind constant-pool growth).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Planner holds every metric the instrumentation planner emits. A
// fresh Planner must be built per prometheus.Registerer, matching the
// one-session-one-registry discipline the CLI uses.
type Planner struct {
	ClassesLoaded          prometheus.Counter
	ParseFaults            prometheus.Counter
	LookupMisses           prometheus.Counter
	MethodsReachable       prometheus.Counter
	MethodsUnscannable     prometheus.Counter
	MethodsInstrumented    prometheus.Gauge
	EditorFailures         prometheus.Counter
	ConstantPoolGrowth     *prometheus.CounterVec
	ResultsPacked          prometheus.Counter
}

// New registers and returns the planner's metric set against reg.
func New(reg prometheus.Registerer) *Planner {
	f := promauto.With(reg)
	return &Planner{
		ClassesLoaded: f.NewCounter(prometheus.CounterOpts{
			Name: "classplanner_classes_loaded_total",
			Help: "Number of class-load events processed by the planner.",
		}),
		ParseFaults: f.NewCounter(prometheus.CounterOpts{
			Name: "classplanner_parse_faults_total",
			Help: "Number of fatal class-file format errors encountered.",
		}),
		LookupMisses: f.NewCounter(prometheus.CounterOpts{
			Name: "classplanner_lookup_misses_total",
			Help: "Number of class lookups that resolved to no class.",
		}),
		MethodsReachable: f.NewCounter(prometheus.CounterOpts{
			Name: "classplanner_methods_reachable_total",
			Help: "Number of methods that transitioned to REACHABLE.",
		}),
		MethodsUnscannable: f.NewCounter(prometheus.CounterOpts{
			Name: "classplanner_methods_unscannable_total",
			Help: "Number of methods marked UNSCANNABLE.",
		}),
		MethodsInstrumented: f.NewGauge(prometheus.GaugeOpts{
			Name: "classplanner_methods_instrumented",
			Help: "Current count of INSTRUMENTED methods across all loaded classes.",
		}),
		EditorFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "classplanner_editor_failures_total",
			Help: "Number of bytecode-editor failures that demoted a method to UNSCANNABLE.",
		}),
		ConstantPoolGrowth: f.NewCounterVec(prometheus.CounterOpts{
			Name: "classplanner_constant_pool_growth_total",
			Help: "Constant-pool entries appended, by injection kind.",
		}, []string{"kind"}),
		ResultsPacked: f.NewCounter(prometheus.CounterOpts{
			Name: "classplanner_results_packed_total",
			Help: "Number of methods drained by pack() across all calls.",
		}),
	}
}
