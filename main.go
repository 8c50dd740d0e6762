// Package main provides a banner entry point. The simulator itself lives
// in cmd/coherence; this file exists so `go run .` still prints something
// useful rather than silently doing nothing.
//
// For the full CLI, use: go run ./cmd/coherence
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("coherence - directory-based MESI cache coherence simulator")
	fmt.Println("")
	fmt.Println("Usage: coherence [options] <trace-file>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -config        Path to a cluster/cache configuration JSON file")
	fmt.Println("  -csv           Write per-node counters as CSV to this path")
	fmt.Println("  -metrics-addr  Serve Prometheus metrics on this address after the run")
	fmt.Println("  -v             Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/coherence' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/coherence' instead.")
	}
}
