/*
 * classplanner - a profiler class-instrumentation planner
 * Directory-walk driven by saferwall-pe/cmd/dump.go's filepath.Walk
 * loop ("walk recursively through all files" under a classpath root).
 */

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	kitlog "github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"classplanner/editor"
	"classplanner/internal/classid"
	"classplanner/internal/config"
	"classplanner/internal/metrics"
	"classplanner/internal/trace"
	"classplanner/planner"
	"classplanner/repository"
	"classplanner/resultpack"
)

func newRunCommand() *cobra.Command {
	var (
		classpath  string
		rootsFile  string
		metricsAddr string
		instrumentSpawned bool
		dontInstrumentEmpty bool
		dontScanGetterSetter bool
		skipConstructors bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Replay every .class file under a classpath root and print the instrumentation plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				trace.SetDebug(true)
			}
			log := trace.Base()

			spec, err := loadSessionSpec(rootsFile)
			if err != nil {
				return fmt.Errorf("load roots file: %w", err)
			}

			cfg := config.Default()
			cfg.InstrumentSpawnedThreads = instrumentSpawned
			cfg.DontInstrumentEmpty = dontInstrumentEmpty
			cfg.DontScanGetterSetter = dontScanGetterSetter
			cfg.SkipConstructorInstrumentation = skipConstructors
			cfg.Debug = verbose

			reg := prometheus.NewRegistry()
			m := metrics.New(reg)

			if metricsAddr != "" {
				go serveMetrics(metricsAddr, reg, log)
			}

			pool := classid.New()
			provider := repository.NewDirProvider()
			defer provider.Close()
			repo := repository.New(provider, pool, classpath, m)

			p := planner.New(repo, pool, spec.Roots, spec.Filter, editor.PassthroughEditor{}, toPlannerConfig(cfg), m)

			classNames, err := discoverClasses(classpath)
			if err != nil {
				return fmt.Errorf("discover classes under %s: %w", classpath, err)
			}

			var all []resultpack.Entry
			for _, name := range classNames {
				all = append(all, p.OnClassLoad(name, 0)...)
			}

			return json.NewEncoder(os.Stdout).Encode(all)
		},
	}

	cmd.Flags().StringVar(&classpath, "classpath", ".", "directory tree to walk for .class files")
	cmd.Flags().StringVar(&rootsFile, "roots", "", "path to a JSON roots/filter session spec")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "if set, serve Prometheus metrics on this address (e.g. :9090)")
	cmd.Flags().BoolVar(&instrumentSpawned, "instrument-spawned-threads", false, "auto-root Runnable.run even with explicit roots declared")
	cmd.Flags().BoolVar(&dontInstrumentEmpty, "dont-instrument-empty", false, "skip methods whose body is a single trivial return")
	cmd.Flags().BoolVar(&dontScanGetterSetter, "dont-scan-getter-setter", false, "skip methods matching the trivial getter/setter shape")
	cmd.Flags().BoolVar(&skipConstructors, "skip-constructors", false, "skip <init> on class files newer than major version 50")
	return cmd
}

func toPlannerConfig(c config.Config) planner.Config {
	return planner.Config{
		InstrumentSpawnedThreads: c.InstrumentSpawnedThreads,
		SkipConstructors:         c.SkipConstructorInstrumentation,
		DontInstrumentEmpty:      c.DontInstrumentEmpty,
		DontScanGetterSetter:     c.DontScanGetterSetter,
	}
}

// discoverClasses walks root and returns every .class file's internal
// (slash-form) name, derived from its path relative to root.
func discoverClasses(root string) ([]string, error) {
	var names []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".class") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = strings.TrimSuffix(rel, ".class")
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	return names, err
}

func serveMetrics(addr string, reg *prometheus.Registry, log kitlog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	if err := http.ListenAndServe(addr, mux); err != nil {
		trace.Error(log, "metrics server exited", "addr", addr, "err", err)
	}
}
