package telemetry

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	fcerrors "github.com/faerietree/fly/internal/errors"
)

// Reader reads records back out of a log file. It verifies the header
// against the compiled-in schema before yielding any data, so a file
// written by a different build of the record shape is rejected up
// front instead of producing garbage values.
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

// NewReader wraps r, consuming and checking the header line.
func NewReader(r io.Reader) (*Reader, error) {
	scanner := bufio.NewScanner(r)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, fcerrors.Wrap(fcerrors.ErrSchemaMismatch, "empty file")
	}
	if got := scanner.Text(); got != Header() {
		return nil, fcerrors.Wrap(fcerrors.ErrSchemaMismatch, "header %q", got)
	}

	return &Reader{scanner: scanner, line: 1}, nil
}

// Next returns the next record, or io.EOF after the last one.
func (r *Reader) Next() (Record, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return Record{}, err
		}
		return Record{}, io.EOF
	}
	r.line++

	rec, err := ParseLine(r.scanner.Text())
	if err != nil {
		return Record{}, fmt.Errorf("line %d: %w", r.line, err)
	}
	return rec, nil
}

// ParseLine parses one data line into a Record.
func ParseLine(line string) (Record, error) {
	parts := strings.Split(line, Delimiter)
	if len(parts) != len(schema) {
		return Record{}, fcerrors.Wrap(fcerrors.ErrMalformedLine,
			"%d fields, want %d", len(parts), len(schema))
	}

	var rec Record
	for i := range schema {
		switch schema[i].Kind {
		case KindUint:
			u, err := strconv.ParseUint(parts[i], 10, 64)
			if err != nil {
				return Record{}, fcerrors.Wrap(fcerrors.ErrMalformedLine,
					"field %s", schema[i].Name)
			}
			setters[i](&rec, u, 0)
		case KindFloat:
			f, err := strconv.ParseFloat(parts[i], 64)
			if err != nil {
				return Record{}, fcerrors.Wrap(fcerrors.ErrMalformedLine,
					"field %s", schema[i].Name)
			}
			setters[i](&rec, 0, f)
		}
	}
	return rec, nil
}

// ReadFile reads all records from the log file at path.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var records []Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		records = append(records, rec)
	}
}
