package telemetry

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	fcerrors "github.com/faerietree/fly/internal/errors"
)

func TestReader_RoundTrip(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(Header() + "\n")

	want := []Record{
		{LoopIndex: 1, LastStepUs: 10000, Altitude: 1.5, VBatt: 7.4},
		{LoopIndex: 2, LastStepUs: 10050, Roll: -0.25, VBatt: 7.39},
		{LoopIndex: 3, LastStepUs: 9980, Yaw: 3.1, VBatt: 7.38},
	}
	for i := range want {
		sb.Write(AppendLine(nil, &want[i]))
	}

	r, err := NewReader(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}

	for i := range want {
		got, err := r.Next()
		if err != nil {
			t.Fatalf("Next %d: %v", i, err)
		}
		if got != want[i] {
			t.Errorf("record %d mismatch:\n got %+v\nwant %+v", i, got, want[i])
		}
	}

	if _, err := r.Next(); err != io.EOF {
		t.Errorf("expected io.EOF after last record, got %v", err)
	}
}

func TestReader_RejectsWrongHeader(t *testing.T) {
	cases := map[string]string{
		"empty":           "",
		"missing header":  "1,2,3\n",
		"reordered":       "last_step_us,loop_index\n",
		"foreign columns": "time,altitude,speed\n",
	}
	for name, content := range cases {
		if _, err := NewReader(strings.NewReader(content)); !fcerrors.Is(err, fcerrors.ErrSchemaMismatch) {
			t.Errorf("%s: expected ErrSchemaMismatch, got %v", name, err)
		}
	}
}

func TestReader_MalformedLineReportsLineNumber(t *testing.T) {
	content := Header() + "\n" + "not,a,record\n"

	r, err := NewReader(strings.NewReader(content))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}

	_, err = r.Next()
	if !fcerrors.Is(err, fcerrors.ErrMalformedLine) {
		t.Fatalf("expected ErrMalformedLine, got %v", err)
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error should name the line: %v", err)
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "00001.csv")

	r := Record{LoopIndex: 7, Altitude: 2.5, VBatt: 7.2}
	content := Header() + "\n" + FormatLine(&r) + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	records, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(records) != 1 || records[0] != r {
		t.Errorf("unexpected records: %+v", records)
	}
}

func TestReadFile_Missing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}
