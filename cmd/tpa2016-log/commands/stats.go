package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/mash-protocol/tpa2016-go/pkg/log"
	"github.com/mash-protocol/tpa2016-go/pkg/tpa2016"
)

// Stats holds aggregate statistics about a trace file.
type Stats struct {
	TotalEvents int
	Reads       int
	Writes      int
	Errors      int
	ByRegister  map[uint8]*RegisterStats
	Sessions    map[string]int
	Operations  map[string]int
	TimeRange   struct {
		Start time.Time
		End   time.Time
	}
}

// RegisterStats holds per-register counts and the last value written.
type RegisterStats struct {
	Reads     int
	Writes    int
	Errors    int
	LastWrite *uint8
}

// Collect reads every event of the trace file into a Stats.
func Collect(path string) (*Stats, error) {
	reader, err := log.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		ByRegister: make(map[uint8]*RegisterStats),
		Sessions:   make(map[string]int),
		Operations: make(map[string]int),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		reg, ok := stats.ByRegister[event.Register]
		if !ok {
			reg = &RegisterStats{}
			stats.ByRegister[event.Register] = reg
		}

		switch event.Direction {
		case log.DirectionRead:
			stats.Reads++
			reg.Reads++
		case log.DirectionWrite:
			stats.Writes++
			reg.Writes++
			if !event.Failed() {
				v := event.Value
				reg.LastWrite = &v
			}
		}
		if event.Failed() {
			stats.Errors++
			reg.Errors++
		}

		stats.Sessions[event.SessionID]++
		if event.Operation != "" {
			stats.Operations[event.Operation]++
		}
	}

	return stats, nil
}

// RunStats analyzes the trace file and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := Collect(path)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== TPA2016 Register Trace Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Millisecond))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d (reads %d, writes %d, errors %d)\n",
		stats.TotalEvents, stats.Reads, stats.Writes, stats.Errors)
	fmt.Fprintf(w, "Sessions:     %d\n", len(stats.Sessions))
	fmt.Fprintln(w)

	regs := make([]uint8, 0, len(stats.ByRegister))
	for reg := range stats.ByRegister {
		regs = append(regs, reg)
	}
	sort.Slice(regs, func(i, j int) bool { return regs[i] < regs[j] })

	fmt.Fprintln(w, "By Register:")
	for _, reg := range regs {
		rs := stats.ByRegister[reg]
		last := "-"
		if rs.LastWrite != nil {
			last = fmt.Sprintf("0x%02X", *rs.LastWrite)
		}
		fmt.Fprintf(w, "  %-9s: reads %d, writes %d, errors %d, last write %s\n",
			tpa2016.RegisterName(reg), rs.Reads, rs.Writes, rs.Errors, last)
	}

	if len(stats.Operations) > 0 {
		ops := make([]string, 0, len(stats.Operations))
		for op := range stats.Operations {
			ops = append(ops, op)
		}
		sort.Strings(ops)

		fmt.Fprintln(w)
		fmt.Fprintln(w, "By Operation:")
		for _, op := range ops {
			fmt.Fprintf(w, "  %-18s: %d\n", op, stats.Operations[op])
		}
	}
}
