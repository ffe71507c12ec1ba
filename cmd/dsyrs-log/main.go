// Command dsyrs-log views and analyzes DSY-RS bus trace files.
//
// Trace files are written by dsyrsctl when run with -protocol-log, or by any
// bus manager given a log.FileLogger.
//
// Usage:
//
//	dsyrs-log <command> [flags] <file.blog>
//
// Commands:
//
//	view     View trace in human-readable format
//	export   Export trace to JSONL or CSV
//	filter   Filter trace and write to new file
//	stats    Show per-slave statistics
//
// Examples:
//
//	# View all events of slave 3
//	dsyrs-log view -slave 3 bus.blog
//
//	# View only failed transactions
//	dsyrs-log view -errors bus.blog
//
//	# Export to CSV
//	dsyrs-log export -format csv -o bus.csv bus.blog
//
//	# Keep the writes of one slave
//	dsyrs-log filter -slave 3 -op write -o slave3.blog bus.blog
//
//	# Show statistics
//	dsyrs-log stats bus.blog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/FrenchPOC/dsyrs-go/cmd/dsyrs-log/commands"
)

const usage = `dsyrs-log - DSY-RS Bus Trace Analyzer

Usage:
  dsyrs-log <command> [flags] <file.blog>

Commands:
  view     View trace in human-readable format
  export   Export trace to JSONL or CSV
  filter   Filter trace and write to new file
  stats    Show per-slave statistics

Use "dsyrs-log <command> -help" for more information about a command.
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

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func newFlagSet(name, synopsis string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "dsyrs-log %s - %s\n\nUsage:\n  dsyrs-log %s [flags] <file.blog>\n\nFlags:\n", name, synopsis, name)
		fs.PrintDefaults()
	}
	return fs
}

func pathArg(fs *flag.FlagSet, args []string) string {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func runView(args []string) {
	fs := newFlagSet("view", "View trace in human-readable format")
	slave := fs.String("slave", "", "Filter by slave address")
	op := fs.String("op", "", "Filter by operation (read, write)")
	category := fs.String("category", "", "Filter by category (transaction, slave, error)")
	errorsOnly := fs.Bool("errors", false, "Show only failed events")
	path := pathArg(fs, args)

	filter := commands.ViewFilter{ErrorsOnly: *errorsOnly}
	if *slave != "" {
		id, err := commands.ParseSlaveFlag(*slave)
		if err != nil {
			fail(err)
		}
		filter.SlaveID = &id
	}
	if *op != "" {
		o, err := commands.ParseOpFlag(*op)
		if err != nil {
			fail(err)
		}
		filter.Op = &o
	}
	if *category != "" {
		c, err := commands.ParseCategoryFlag(*category)
		if err != nil {
			fail(err)
		}
		filter.Category = &c
	}

	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fail(err)
	}
}

func runExport(args []string) {
	fs := newFlagSet("export", "Export trace to JSONL or CSV")
	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")
	path := pathArg(fs, args)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fail(err)
	}
}

func runFilter(args []string) {
	fs := newFlagSet("filter", "Filter trace and write to new file")
	output := fs.String("o", "", "Output file (required)")
	busID := fs.String("bus-id", "", "Filter by bus manager ID")
	slave := fs.String("slave", "", "Filter by slave address")
	op := fs.String("op", "", "Filter by operation (read, write)")
	category := fs.String("category", "", "Filter by category (transaction, slave, error)")
	errorsOnly := fs.Bool("errors", false, "Keep only failed events")
	timeStart := fs.String("time-start", "", "Filter by start time (RFC3339)")
	timeEnd := fs.String("time-end", "", "Filter by end time (RFC3339)")
	path := pathArg(fs, args)

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	n, err := commands.RunFilter(path, commands.FilterOptions{
		Output:     *output,
		BusID:      *busID,
		Slave:      *slave,
		Op:         *op,
		Category:   *category,
		ErrorsOnly: *errorsOnly,
		TimeStart:  *timeStart,
		TimeEnd:    *timeEnd,
	})
	if err != nil {
		fail(err)
	}
	fmt.Printf("Filtered %d events to %s\n", n, *output)
}

func runStats(args []string) {
	fs := newFlagSet("stats", "Show per-slave statistics")
	path := pathArg(fs, args)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fail(err)
	}
}
