// Package trace reads a coherence trace file: one memory access per line,
// "<processor> <R|W> <address>", address always taken as hex ("0x..." or
// bare hex digits; decimal is not recognized). Malformed or unrecognized
// lines are reported to stderr and skipped rather than aborting the run.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/bharathi2203/418-Directory-Based-Cache-Coherence/message"
)

// Event is one parsed trace-file line.
type Event struct {
	ProcessorID int
	Kind        message.Kind
	Address     uint64
}

// Load reads every event from the trace file at path. Lines that fail to
// parse are reported to stderr and do not appear in the returned slice.
func Load(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening trace file: %w", err)
	}
	defer f.Close()

	return Read(f, path)
}

// Read parses every event out of r. name is used only to label diagnostics
// printed for malformed lines.
func Read(r io.Reader, name string) ([]Event, error) {
	var events []Event

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		event, err := parseLine(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s:%d: %v: %q\n", name, lineNo, err, line)
			continue
		}
		events = append(events, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading trace file: %w", err)
	}

	return events, nil
}

func parseLine(line string) (Event, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return Event{}, fmt.Errorf("expected 3 fields, got %d", len(fields))
	}

	procID, err := strconv.Atoi(fields[0])
	if err != nil {
		return Event{}, fmt.Errorf("invalid processor id %q", fields[0])
	}

	var kind message.Kind
	switch strings.ToUpper(fields[1]) {
	case "R":
		kind = message.ReadRequest
	case "W":
		kind = message.WriteRequest
	default:
		return Event{}, fmt.Errorf("unknown operation %q", fields[1])
	}

	address, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(fields[2]), "0x"), 16, 64)
	if err != nil {
		return Event{}, fmt.Errorf("invalid address %q", fields[2])
	}

	return Event{ProcessorID: procID, Kind: kind, Address: address}, nil
}
