package telemetry

import (
	"strconv"
	"strings"
)

// Delimiter separates fields in the log file header and data lines.
const Delimiter = ","

// FieldKind indicates how a field is rendered and parsed.
type FieldKind int

const (
	// KindUint is an unsigned 64-bit counter or timestamp, rendered as
	// a decimal integer.
	KindUint FieldKind = iota
	// KindFloat is a 64-bit physical quantity, rendered with six
	// decimal places.
	KindFloat
)

// Field describes one column of the log schema. The accessor matching
// the kind extracts the value from a Record; the other is nil.
type Field struct {
	Name  string
	Kind  FieldKind
	Uint  func(*Record) uint64
	Float func(*Record) float64
}

// schema is the single definition of the record shape. The file header,
// the data line formatter, the console printer, and the log reader all
// derive from this table, so the field list can never drift between
// them. Order is the on-disk column order.
var schema = []Field{
	{Name: "loop_index", Kind: KindUint, Uint: func(r *Record) uint64 { return r.LoopIndex }},
	{Name: "last_step_us", Kind: KindUint, Uint: func(r *Record) uint64 { return r.LastStepUs }},

	{Name: "altitude", Kind: KindFloat, Float: func(r *Record) float64 { return r.Altitude }},
	{Name: "roll", Kind: KindFloat, Float: func(r *Record) float64 { return r.Roll }},
	{Name: "pitch", Kind: KindFloat, Float: func(r *Record) float64 { return r.Pitch }},
	{Name: "yaw", Kind: KindFloat, Float: func(r *Record) float64 { return r.Yaw }},

	{Name: "u_x", Kind: KindFloat, Float: func(r *Record) float64 { return r.UX }},
	{Name: "u_y", Kind: KindFloat, Float: func(r *Record) float64 { return r.UY }},
	{Name: "u_z", Kind: KindFloat, Float: func(r *Record) float64 { return r.UZ }},
	{Name: "u_roll", Kind: KindFloat, Float: func(r *Record) float64 { return r.URoll }},
	{Name: "u_pitch", Kind: KindFloat, Float: func(r *Record) float64 { return r.UPitch }},
	{Name: "u_yaw", Kind: KindFloat, Float: func(r *Record) float64 { return r.UYaw }},

	{Name: "mot_1", Kind: KindFloat, Float: func(r *Record) float64 { return r.Mot1 }},
	{Name: "mot_2", Kind: KindFloat, Float: func(r *Record) float64 { return r.Mot2 }},
	{Name: "mot_3", Kind: KindFloat, Float: func(r *Record) float64 { return r.Mot3 }},
	{Name: "mot_4", Kind: KindFloat, Float: func(r *Record) float64 { return r.Mot4 }},
	{Name: "mot_5", Kind: KindFloat, Float: func(r *Record) float64 { return r.Mot5 }},
	{Name: "mot_6", Kind: KindFloat, Float: func(r *Record) float64 { return r.Mot6 }},

	{Name: "v_batt", Kind: KindFloat, Float: func(r *Record) float64 { return r.VBatt }},
}

// setters mirrors schema for the reader path. Indexed identically.
var setters = []func(r *Record, u uint64, f float64){
	func(r *Record, u uint64, _ float64) { r.LoopIndex = u },
	func(r *Record, u uint64, _ float64) { r.LastStepUs = u },
	func(r *Record, _ uint64, f float64) { r.Altitude = f },
	func(r *Record, _ uint64, f float64) { r.Roll = f },
	func(r *Record, _ uint64, f float64) { r.Pitch = f },
	func(r *Record, _ uint64, f float64) { r.Yaw = f },
	func(r *Record, _ uint64, f float64) { r.UX = f },
	func(r *Record, _ uint64, f float64) { r.UY = f },
	func(r *Record, _ uint64, f float64) { r.UZ = f },
	func(r *Record, _ uint64, f float64) { r.URoll = f },
	func(r *Record, _ uint64, f float64) { r.UPitch = f },
	func(r *Record, _ uint64, f float64) { r.UYaw = f },
	func(r *Record, _ uint64, f float64) { r.Mot1 = f },
	func(r *Record, _ uint64, f float64) { r.Mot2 = f },
	func(r *Record, _ uint64, f float64) { r.Mot3 = f },
	func(r *Record, _ uint64, f float64) { r.Mot4 = f },
	func(r *Record, _ uint64, f float64) { r.Mot5 = f },
	func(r *Record, _ uint64, f float64) { r.Mot6 = f },
	func(r *Record, _ uint64, f float64) { r.VBatt = f },
}

// Schema returns the ordered field list. The returned slice is shared;
// callers must not modify it.
func Schema() []Field {
	return schema
}

// FieldNames returns the schema column names in order.
func FieldNames() []string {
	names := make([]string, len(schema))
	for i, f := range schema {
		names[i] = f.Name
	}
	return names
}

// Header returns the header line (without trailing newline) naming each
// field in schema order.
func Header() string {
	return strings.Join(FieldNames(), Delimiter)
}

// AppendLine appends one record as a delimited data line, newline
// terminated, and returns the extended slice. It allocates nothing
// beyond growth of dst.
func AppendLine(dst []byte, r *Record) []byte {
	for i := range schema {
		if i > 0 {
			dst = append(dst, Delimiter...)
		}
		f := &schema[i]
		switch f.Kind {
		case KindUint:
			dst = strconv.AppendUint(dst, f.Uint(r), 10)
		case KindFloat:
			dst = strconv.AppendFloat(dst, f.Float(r), 'f', 6, 64)
		}
	}
	return append(dst, '\n')
}

// FormatLine renders one record as a data line without the trailing
// newline.
func FormatLine(r *Record) string {
	b := AppendLine(nil, r)
	return string(b[:len(b)-1])
}
