package expression

import (
	"testing"
)

func mustRegexp(t *testing.T, src string, opts RegexpOptions) *RegexpExpression {
	t.Helper()
	e, err := CompileRegexp(src, opts)
	if err != nil {
		t.Fatalf("CompileRegexp(%q): %v", src, err)
	}
	return e
}

func TestRegexpCaptures(t *testing.T) {
	e := mustRegexp(t, `^I have (\d+) cucumbers? in my (belly|stomach)$`, RegexpOptions{})

	args, ok, err := e.Match("I have 12 cucumbers in my stomach")
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if !ok {
		t.Fatal("expected match")
	}
	if len(args) != 2 {
		t.Fatalf("len(args) = %d, want 2", len(args))
	}
	if args[0].Value != "12" || args[1].Value != "stomach" {
		t.Fatalf("args = %v", args)
	}
	if args[0].Start != 7 || args[0].End != 9 {
		t.Fatalf("args[0] span = [%d,%d), want [7,9)", args[0].Start, args[0].End)
	}

	if _, ok, _ := e.Match("I have no cucumbers in my belly"); ok {
		t.Fatal("expected no match")
	}
}

func TestRegexpUnmatchedGroup(t *testing.T) {
	e := mustRegexp(t, `^a(x)?(b)$`, RegexpOptions{})
	args, ok, _ := e.Match("ab")
	if !ok {
		t.Fatal("expected match")
	}
	if args[0].Value != nil || args[0].Start != -1 {
		t.Fatalf("unmatched group should have nil value, got %#v", args[0])
	}
	if args[1].Value != "b" {
		t.Fatalf("args[1] = %#v", args[1])
	}
}

func TestRegexpFlagsOrdering(t *testing.T) {
	cases := []struct {
		opts RegexpOptions
		want string
	}{
		{RegexpOptions{}, ""},
		{RegexpOptions{Multiline: true}, "m"},
		{RegexpOptions{CaseInsensitive: true}, "i"},
		{RegexpOptions{Multiline: true, CaseInsensitive: true}, "mi"},
		{RegexpOptions{Multiline: true, CaseInsensitive: true, Extended: true}, "mix"},
		{RegexpOptions{CaseInsensitive: true, Extended: true}, "ix"},
	}
	for _, tc := range cases {
		if got := tc.opts.Flags(); got != tc.want {
			t.Fatalf("Flags(%+v) = %q, want %q", tc.opts, got, tc.want)
		}
	}
}

func TestRegexpCaseInsensitiveAndMultiline(t *testing.T) {
	e := mustRegexp(t, `^i have (\d+) cucumbers$`, RegexpOptions{Multiline: true, CaseInsensitive: true})

	if _, ok, _ := e.Match("I HAVE 3 CUCUMBERS"); !ok {
		t.Fatal("case-insensitive flag should apply")
	}
	if _, ok, _ := e.Match("prefix\ni have 3 cucumbers"); !ok {
		t.Fatal("multiline flag should let ^ match at line start")
	}

	d := e.Descriptor()
	if d.Regexp.Flags != "mi" {
		t.Fatalf("Flags = %q, want %q", d.Regexp.Flags, "mi")
	}
	if d.Source.Type != "regular expression" {
		t.Fatalf("Source.Type = %q", d.Source.Type)
	}
}

func TestRegexpExtended(t *testing.T) {
	src := `^I \ have \s+ (\d+)   # count
 \s+ cucumbers$`
	e := mustRegexp(t, src, RegexpOptions{Extended: true})

	args, ok, _ := e.Match("I have  42  cucumbers")
	if !ok {
		t.Fatal("extended pattern should match after whitespace stripping")
	}
	if args[0].Value != "42" {
		t.Fatalf("args[0] = %#v", args[0])
	}
	if e.Descriptor().Regexp.Flags != "x" {
		t.Fatalf("Flags = %q, want %q", e.Descriptor().Regexp.Flags, "x")
	}
}

func TestStripExtended(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`a b`, `ab`},
		{`a\ b`, `a\ b`},
		{`a # comment
b`, `ab`},
		{`[a b]`, `[a b]`},
		{`[#]x`, `[#]x`},
	}
	for _, tc := range cases {
		if got := stripExtended(tc.in); got != tc.want {
			t.Fatalf("stripExtended(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRegexpCompileError(t *testing.T) {
	if _, err := CompileRegexp(`(`, RegexpOptions{}); err == nil {
		t.Fatal("expected compile error")
	}
}

func TestRequiredLiterals(t *testing.T) {
	cases := []struct {
		pattern string
		want    []string
	}{
		{`^I have (\d+) cucumbers$`, []string{"I have ", " cucumbers"}},
		{`belly|stomach`, nil},
		{`^(?:optional)?required$`, []string{"required"}},
	}
	for _, tc := range cases {
		got := requiredLiterals(tc.pattern)
		if len(got) != len(tc.want) {
			t.Fatalf("requiredLiterals(%q) = %v, want %v", tc.pattern, got, tc.want)
		}
		for i := range tc.want {
			if got[i] != tc.want[i] {
				t.Fatalf("requiredLiterals(%q)[%d] = %q, want %q", tc.pattern, i, got[i], tc.want[i])
			}
		}
	}
}
