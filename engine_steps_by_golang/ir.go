package engine_steps_by_golang

import (
	"fmt"
)

type DefinitionId = uint32

// -------------------- Dialect --------------------

// Dialect xác định ngôn ngữ biểu thức của một step pattern.
type Dialect int

const (
	// DialectRegexp: pattern là regular expression thuần.
	DialectRegexp Dialect = iota
	// DialectCucumber: pattern là cucumber expression ({int}, {word}, ...).
	DialectCucumber
)

func (d Dialect) String() string {
	switch d {
	case DialectRegexp:
		return "regular expression"
	case DialectCucumber:
		return "cucumber expression"
	default:
		return fmt.Sprintf("Dialect(%d)", int(d))
	}
}

// ParseDialect maps a config/profile string onto a Dialect.
func ParseDialect(s string) (Dialect, error) {
	switch s {
	case "", "cucumber":
		return DialectCucumber, nil
	case "regexp", "regex":
		return DialectRegexp, nil
	default:
		return 0, fmt.Errorf("ConfigError: unknown dialect %q", s)
	}
}

// -------------------- Arg --------------------

// Arg là một đối số đã trích xuất từ step text.
// Text giữ nguyên chuỗi capture gốc; Value là giá trị sau transform
// (int64/float64/string... tuỳ parameter type).
type Arg struct {
	Value any    `json:"value"`
	Text  string `json:"text"`
	// Vị trí byte [Start, End) trong step text, cùng format với
	// regexp.FindStringSubmatchIndex.
	Start int `json:"start"`
	End   int `json:"end"`
}

func StringArg(text string, start, end int) Arg {
	return Arg{Value: text, Text: text, Start: start, End: end}
}

// -------------------- Location --------------------

// Location là vị trí nguồn (file, line) của một step definition.
type Location struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

func (l Location) IsZero() bool { return l.File == "" && l.Line == 0 }

func (l Location) String() string {
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// -------------------- Descriptor --------------------

// SourceDescriptor mô tả pattern gốc cho external reporting.
type SourceDescriptor struct {
	Type       string `json:"type"`
	Expression string `json:"expression"`
}

// RegexpDescriptor mô tả regexp đã compile (source + flags "m"/"i"/"x").
type RegexpDescriptor struct {
	Source string `json:"source"`
	Flags  string `json:"flags"`
}

// Descriptor là bản tóm tắt serializable của một step definition,
// dùng cho snapshot/reporting tooling bên ngoài.
type Descriptor struct {
	Source SourceDescriptor `json:"source"`
	Regexp RegexpDescriptor `json:"regexp"`
}
