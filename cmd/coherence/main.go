// Package main provides the entry point for the coherence simulator.
// It replays a trace of per-processor memory accesses against a
// directory-based MESI cache coherence model and reports the result.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/bharathi2203/418-Directory-Based-Cache-Coherence/config"
	"github.com/bharathi2203/418-Directory-Based-Cache-Coherence/coherence/network"
	"github.com/bharathi2203/418-Directory-Based-Cache-Coherence/metrics"
	"github.com/bharathi2203/418-Directory-Based-Cache-Coherence/report"
	"github.com/bharathi2203/418-Directory-Based-Cache-Coherence/trace"
)

var (
	configPath  = flag.String("config", "", "Path to a cluster/cache configuration JSON file")
	csvPath     = flag.String("csv", "", "Write per-node counters as CSV to this path")
	metricsAddr = flag.String("metrics-addr", "", "Serve Prometheus metrics on this address after the run (e.g. :9090)")
	verbose     = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: coherence [options] <trace-file>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	tracePath := flag.Arg(0)

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	events, err := trace.Load(tracePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading trace: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("Loaded: %s\n", tracePath)
		fmt.Printf("Events: %d\n", len(events))
		fmt.Printf("Processors: %d, directory lines: %d\n", cfg.NumProcessors, cfg.NumLines)
	}

	ic := network.New(cfg.Network())
	for _, e := range events {
		ic.Step(e.Kind, e.ProcessorID, e.Address)
	}

	metrics.Update(ic.Stats())
	report.Print(os.Stdout, ic)

	if *csvPath != "" {
		if err := writeCSV(*csvPath, ic); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing CSV: %v\n", err)
			os.Exit(1)
		}
	}

	if *metricsAddr != "" {
		fmt.Printf("\nServing metrics on %s (Ctrl-C to exit)\n", *metricsAddr)
		if err := metrics.Serve(context.Background(), *metricsAddr); err != nil {
			fmt.Fprintf(os.Stderr, "Error serving metrics: %v\n", err)
			os.Exit(1)
		}
	}
}

func writeCSV(path string, ic *network.Interconnect) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating CSV file: %w", err)
	}
	defer f.Close()

	return report.WriteCSV(f, ic)
}
