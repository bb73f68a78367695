package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/c-bata/go-prompt"

	"github.com/faerietree/fly/internal/telemetry"
)

// browser is the interactive log inspector session state.
type browser struct {
	path    string
	records []telemetry.Record
}

func runBrowse(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: flylog browse <file>")
	}

	records, err := telemetry.ReadFile(args[0])
	if err != nil {
		return err
	}

	b := &browser{path: args[0], records: records}
	fmt.Printf("%s: %d records (type 'help' for commands)\n", b.path, len(b.records))

	p := prompt.New(
		b.execute,
		b.complete,
		prompt.OptionTitle("flylog"),
		prompt.OptionPrefix("flylog> "),
		prompt.OptionSetExitCheckerOnInput(func(in string, breakline bool) bool {
			in = strings.TrimSpace(in)
			return breakline && (in == "quit" || in == "exit")
		}),
	)
	p.Run()
	return nil
}

func (b *browser) execute(in string) {
	fields := strings.Fields(strings.TrimSpace(in))
	if len(fields) == 0 {
		return
	}

	switch fields[0] {
	case "help":
		fmt.Print(`Commands:
  head [n]       print the first n records (default 10)
  tail [n]       print the last n records (default 10)
  row <n>        print record n (1-based)
  field <name>   summarize one field
  stats          per-field summary
  quit           leave the browser
`)
	case "head":
		n := argCount(fields, 10)
		if n > len(b.records) {
			n = len(b.records)
		}
		b.printRange(0, n)
	case "tail":
		n := argCount(fields, 10)
		if n > len(b.records) {
			n = len(b.records)
		}
		b.printRange(len(b.records)-n, len(b.records))
	case "row":
		if len(fields) != 2 {
			fmt.Println("usage: row <n>")
			return
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 1 || n > len(b.records) {
			fmt.Printf("row must be 1-%d\n", len(b.records))
			return
		}
		telemetry.Print(&b.records[n-1])
	case "field":
		if len(fields) != 2 {
			fmt.Println("usage: field <name>")
			return
		}
		b.summarizeField(fields[1])
	case "stats":
		printFieldSummary(os.Stdout, b.records)
	case "quit", "exit":
		// Handled by the exit checker
	default:
		fmt.Printf("unknown command %q (type 'help')\n", fields[0])
	}
}

func (b *browser) complete(d prompt.Document) []prompt.Suggest {
	line := d.TextBeforeCursor()

	if strings.HasPrefix(line, "field ") {
		var s []prompt.Suggest
		for _, name := range telemetry.FieldNames() {
			s = append(s, prompt.Suggest{Text: name})
		}
		return prompt.FilterHasPrefix(s, d.GetWordBeforeCursor(), true)
	}

	s := []prompt.Suggest{
		{Text: "head", Description: "print the first records"},
		{Text: "tail", Description: "print the last records"},
		{Text: "row", Description: "print one record"},
		{Text: "field", Description: "summarize one field"},
		{Text: "stats", Description: "per-field summary"},
		{Text: "help", Description: "list commands"},
		{Text: "quit", Description: "leave the browser"},
	}
	return prompt.FilterHasPrefix(s, d.GetWordBeforeCursor(), true)
}

func (b *browser) printRange(from, to int) {
	for i := from; i < to; i++ {
		telemetry.Print(&b.records[i])
	}
}

func (b *browser) summarizeField(name string) {
	if len(b.records) == 0 {
		fmt.Println("no records")
		return
	}
	for _, f := range telemetry.Schema() {
		if f.Name != name {
			continue
		}
		min, max, sum := fieldValue(&f, &b.records[0]), fieldValue(&f, &b.records[0]), 0.0
		for i := range b.records {
			v := fieldValue(&f, &b.records[i])
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
			sum += v
		}
		fmt.Printf("%s: min=%.4f mean=%.4f max=%.4f over %d records\n",
			name, min, sum/float64(len(b.records)), max, len(b.records))
		return
	}
	fmt.Printf("unknown field %q\n", name)
}

func argCount(fields []string, def int) int {
	if len(fields) < 2 {
		return def
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 1 {
		return def
	}
	return n
}
