// flylog is the operator tool for flight telemetry logs.
//
// Subcommands:
//
//	flylog print <file>     print every record of a log file
//	flylog stats <file>     per-field summary of a log file
//	flylog browse <file>    interactive log inspector
//	flylog selftest [flags] exercise the logging pipeline end to end
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/faerietree/fly/internal/logging"
	"github.com/faerietree/fly/internal/telemetry"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	verbose := flag.Bool("v", false, "debug logging")
	jsonLog := flag.Bool("json", false, "JSON log format")
	flag.Usage = usage
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logging.Init(level, *jsonLog)

	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}

	var err error
	switch args[0] {
	case "print":
		err = runPrint(args[1:])
	case "stats":
		err = runStats(args[1:])
	case "browse":
		err = runBrowse(args[1:])
	case "selftest":
		err = runSelftest(args[1:])
	case "version":
		fmt.Printf("flylog %s\n", Version)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", args[0])
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "flylog: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: flylog [-v] [-json] <command> [args]

Commands:
  print <file>      print every record of a log file
  stats <file>      per-field summary of a log file
  browse <file>     interactive log inspector
  selftest [flags]  exercise the logging pipeline end to end
  version           print version
`)
}

func runPrint(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: flylog print <file>")
	}

	records, err := telemetry.ReadFile(args[0])
	if err != nil {
		return err
	}

	for i := range records {
		telemetry.Print(&records[i])
	}
	return nil
}

func runStats(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: flylog stats <file>")
	}

	records, err := telemetry.ReadFile(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d records\n", args[0], len(records))
	if len(records) == 0 {
		return nil
	}

	printFieldSummary(os.Stdout, records)
	return nil
}

// printFieldSummary prints min/mean/max for every schema field.
func printFieldSummary(w io.Writer, records []telemetry.Record) {
	if len(records) == 0 {
		return
	}
	for _, f := range telemetry.Schema() {
		min := math.MaxFloat64
		max := -math.MaxFloat64
		sum := 0.0
		for i := range records {
			v := fieldValue(&f, &records[i])
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
			sum += v
		}
		mean := sum / float64(len(records))
		fmt.Fprintf(w, "  %-14s min=%-14.4f mean=%-14.4f max=%-14.4f\n",
			f.Name, min, mean, max)
	}
}

// fieldValue reads a field of a record as float64 regardless of kind.
func fieldValue(f *telemetry.Field, r *telemetry.Record) float64 {
	if f.Kind == telemetry.KindUint {
		return float64(f.Uint(r))
	}
	return f.Float(r)
}
