// Command tpa2016-log views and analyzes register trace files.
//
// Trace files are written by tpa2016 when run with the -trace flag.
//
// Usage:
//
//	tpa2016-log <command> [flags] <file.trace>
//
// Commands:
//
//	view     View trace file in human-readable format
//	export   Export trace file to JSON or CSV format
//	filter   Filter trace file and write to new file
//	stats    Show statistics about the trace file
//
// Examples:
//
//	# View all writes to the gain register
//	tpa2016-log view -direction write -register GAIN amp.trace
//
//	# Show only failed transactions
//	tpa2016-log view -errors amp.trace
//
//	# Export to CSV
//	tpa2016-log export -format csv -o amp.csv amp.trace
//
//	# Keep one session
//	tpa2016-log filter -session 4f1c2a9e -o session.trace amp.trace
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mash-protocol/tpa2016-go/cmd/tpa2016-log/commands"
)

const usage = `tpa2016-log - TPA2016 Register Trace Analyzer

Usage:
  tpa2016-log <command> [flags] <file.trace>

Commands:
  view     View trace file in human-readable format
  export   Export trace file to JSON or CSV format
  filter   Filter trace file and write to new file
  stats    Show statistics about the trace file

Use "tpa2016-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func filterFlags(fs *flag.FlagSet) *commands.FilterOptions {
	opts := &commands.FilterOptions{}
	fs.StringVar(&opts.SessionID, "session", "", "Filter by session ID")
	fs.StringVar(&opts.Direction, "direction", "", "Filter by direction (read, write)")
	fs.StringVar(&opts.Register, "register", "", "Filter by register name or address")
	fs.StringVar(&opts.Operation, "operation", "", "Filter by driver operation (e.g. SetGain)")
	fs.BoolVar(&opts.ErrorsOnly, "errors", false, "Only failed transactions")
	fs.StringVar(&opts.TimeStart, "time-start", "", "Filter by start time (RFC3339)")
	fs.StringVar(&opts.TimeEnd, "time-end", "", "Filter by end time (RFC3339)")
	return opts
}

func newFlagSet(name, synopsis, args string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `tpa2016-log %s - %s

Usage:
  tpa2016-log %s %s

Flags:
`, name, synopsis, name, args)
		fs.PrintDefaults()
	}
	return fs
}

func tracePath(fs *flag.FlagSet, args []string) string {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: trace file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func runView(args []string) {
	fs := newFlagSet("view", "View trace file in human-readable format", "[flags] <file.trace>")
	opts := filterFlags(fs)
	path := tracePath(fs, args)

	if err := commands.RunView(path, *opts, os.Stdout); err != nil {
		fail(err)
	}
}

func runExport(args []string) {
	fs := newFlagSet("export", "Export trace file to JSON or CSV format", "[flags] <file.trace>")
	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")
	path := tracePath(fs, args)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fail(err)
	}
}

func runFilter(args []string) {
	fs := newFlagSet("filter", "Filter trace file and write to new file", "[flags] <file.trace>")
	output := fs.String("o", "", "Output file (required)")
	opts := filterFlags(fs)
	path := tracePath(fs, args)

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	if err := commands.RunFilter(path, *output, *opts, os.Stdout); err != nil {
		fail(err)
	}
}

func runStats(args []string) {
	fs := newFlagSet("stats", "Show statistics about the trace file", "<file.trace>")
	path := tracePath(fs, args)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fail(err)
	}
}
