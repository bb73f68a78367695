package telemetry

import (
	"fmt"
	"io"
	"os"
	"strconv"
)

// Fprint writes a human-readable rendering of one record to w: every
// schema field as name=value on a single line. The format is for
// operator eyes, not for the log file.
func Fprint(w io.Writer, r *Record) {
	for i := range schema {
		f := &schema[i]
		if i > 0 {
			fmt.Fprint(w, " ")
		}
		switch f.Kind {
		case KindUint:
			fmt.Fprintf(w, "%s=%d", f.Name, f.Uint(r))
		case KindFloat:
			fmt.Fprintf(w, "%s=%s", f.Name, strconv.FormatFloat(f.Float(r), 'f', 3, 64))
		}
	}
	fmt.Fprintln(w)
}

// Print writes a record rendering to stdout. Synchronous; not for use
// on the control loop's timing-critical path at high rates.
func Print(r *Record) {
	Fprint(os.Stdout, r)
}

// Print writes a debug rendering of one record to stdout. It does not
// touch the buffer or the log file.
func (s *Session) Print(r Record) {
	Fprint(os.Stdout, &r)
}
