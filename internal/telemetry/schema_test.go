package telemetry

import (
	"strings"
	"testing"
)

func testRecord() Record {
	return Record{
		LoopIndex:  42,
		LastStepUs: 10000,
		Altitude:   1.25,
		Roll:       -0.031,
		Pitch:      0.017,
		Yaw:        3.14159,
		UX:         0.1,
		UY:         -0.2,
		UZ:         0.45,
		URoll:      0.001,
		UPitch:     -0.002,
		UYaw:       0.003,
		Mot1:       0.40,
		Mot2:       0.41,
		Mot3:       0.39,
		Mot4:       0.40,
		Mot5:       0.42,
		Mot6:       0.38,
		VBatt:      7.38,
	}
}

func TestHeader_MatchesSchema(t *testing.T) {
	header := Header()
	names := strings.Split(header, Delimiter)

	if len(names) != len(Schema()) {
		t.Fatalf("header has %d fields, schema has %d", len(names), len(Schema()))
	}
	for i, f := range Schema() {
		if names[i] != f.Name {
			t.Errorf("header field %d: got %q, want %q", i, names[i], f.Name)
		}
	}
}

func TestHeader_FirstFields(t *testing.T) {
	if !strings.HasPrefix(Header(), "loop_index,last_step_us,altitude") {
		t.Errorf("unexpected header prefix: %q", Header())
	}
	if !strings.HasSuffix(Header(), "mot_6,v_batt") {
		t.Errorf("unexpected header suffix: %q", Header())
	}
}

func TestAppendLine_FieldCountMatchesHeader(t *testing.T) {
	r := testRecord()
	line := FormatLine(&r)

	headerFields := strings.Split(Header(), Delimiter)
	dataFields := strings.Split(line, Delimiter)
	if len(dataFields) != len(headerFields) {
		t.Fatalf("data line has %d fields, header has %d", len(dataFields), len(headerFields))
	}
}

func TestAppendLine_NewlineTerminated(t *testing.T) {
	r := testRecord()
	b := AppendLine(nil, &r)
	if b[len(b)-1] != '\n' {
		t.Error("data line must be newline terminated")
	}
	if strings.Count(string(b), "\n") != 1 {
		t.Error("data line must contain exactly one newline")
	}
}

func TestParseLine_RoundTrip(t *testing.T) {
	r := testRecord()
	parsed, err := ParseLine(FormatLine(&r))
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	if parsed != r {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", parsed, r)
	}
}

func TestParseLine_Malformed(t *testing.T) {
	cases := []string{
		"",
		"1,2,3",
		strings.Repeat("x,", len(schema)-1) + "x",
	}
	for _, line := range cases {
		if _, err := ParseLine(line); err == nil {
			t.Errorf("ParseLine(%q) should fail", line)
		}
	}
}

func TestFprint_IncludesAllFields(t *testing.T) {
	r := testRecord()
	var sb strings.Builder
	Fprint(&sb, &r)

	out := sb.String()
	for _, name := range FieldNames() {
		if !strings.Contains(out, name+"=") {
			t.Errorf("console rendering missing field %q: %s", name, out)
		}
	}
	if strings.Count(out, "\n") != 1 {
		t.Error("console rendering should be a single line")
	}
}
