package engine_steps_by_golang

import (
	"encoding/json"
	"testing"
)

func TestDialectString(t *testing.T) {
	if DialectRegexp.String() != "regular expression" {
		t.Fatalf("regexp dialect: %s", DialectRegexp)
	}
	if DialectCucumber.String() != "cucumber expression" {
		t.Fatalf("cucumber dialect: %s", DialectCucumber)
	}
	if Dialect(7).String() != "Dialect(7)" {
		t.Fatalf("unknown dialect string")
	}
}

func TestParseDialect(t *testing.T) {
	cases := []struct {
		in      string
		want    Dialect
		wantErr bool
	}{
		{"", DialectCucumber, false},
		{"cucumber", DialectCucumber, false},
		{"regexp", DialectRegexp, false},
		{"regex", DialectRegexp, false},
		{"perl", 0, true},
	}
	for _, c := range cases {
		got, err := ParseDialect(c.in)
		if c.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error", c.in)
			}
			continue
		}
		if err != nil || got != c.want {
			t.Fatalf("%q: got %v, err %v", c.in, got, err)
		}
	}
}

func TestStringArg(t *testing.T) {
	a := StringArg("cucumber", 7, 15)
	if a.Value != "cucumber" || a.Text != "cucumber" {
		t.Fatalf("arg = %+v", a)
	}
	if a.Start != 7 || a.End != 15 {
		t.Fatalf("span = %d..%d", a.Start, a.End)
	}
}

func TestLocation(t *testing.T) {
	var zero Location
	if !zero.IsZero() {
		t.Fatalf("zero location")
	}
	loc := Location{File: "steps/basket.go", Line: 42}
	if loc.IsZero() {
		t.Fatalf("non-zero location")
	}
	if loc.String() != "steps/basket.go:42" {
		t.Fatalf("string = %q", loc)
	}
}

func TestDescriptorJSON(t *testing.T) {
	d := Descriptor{
		Source: SourceDescriptor{Type: "cucumber expression", Expression: "I have {int} cucumbers"},
		Regexp: RegexpDescriptor{Source: `^I have ([+-]?\d+) cucumbers$`, Flags: ""},
	}
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Descriptor
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != d {
		t.Fatalf("roundtrip mismatch: %+v", back)
	}
	// key names cố định cho external tooling
	raw := map[string]any{}
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}
	src, ok := raw["source"].(map[string]any)
	if !ok || src["type"] != "cucumber expression" {
		t.Fatalf("descriptor JSON shape: %s", b)
	}
}
