package expression

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	ir "github.com/PhucNguyen204/BDD_V1/engine_steps_by_golang"
)

// RegexpOptions là các cờ tác động lên regexp dialect.
type RegexpOptions struct {
	Multiline       bool
	CaseInsensitive bool
	// Extended (free-spacing): whitespace không escape và comment `#` bị
	// loại bỏ trước khi compile. RE2 không có cờ x gốc nên xử lý ở đây.
	Extended bool
}

// Flags trả về chuỗi cờ cho descriptor, thứ tự cố định m < i < x.
func (o RegexpOptions) Flags() string {
	var b strings.Builder
	if o.Multiline {
		b.WriteByte('m')
	}
	if o.CaseInsensitive {
		b.WriteByte('i')
	}
	if o.Extended {
		b.WriteByte('x')
	}
	return b.String()
}

func (o RegexpOptions) inlinePrefix() string {
	var b strings.Builder
	if o.Multiline {
		b.WriteByte('m')
	}
	if o.CaseInsensitive {
		b.WriteByte('i')
	}
	if b.Len() == 0 {
		return ""
	}
	return "(?" + b.String() + ")"
}

// RegexpExpression là pattern dialect regular-expression đã compile.
// Immutable sau khi compile.
type RegexpExpression struct {
	source   string
	opts     RegexpOptions
	re       *regexp.Regexp
	literals []string
}

// CompileRegexp biên dịch pattern regexp với options.
// Pattern dùng nguyên văn (không tự động neo ^$ — tác giả step tự neo).
func CompileRegexp(source string, opts RegexpOptions) (*RegexpExpression, error) {
	pat := source
	if opts.Extended {
		pat = stripExtended(pat)
	}
	if prefix := opts.inlinePrefix(); prefix != "" {
		pat = prefix + pat
	}
	re, err := regexp.Compile(pat)
	if err != nil {
		return nil, fmt.Errorf("CompilationError: %q: %v", source, err)
	}
	return &RegexpExpression{
		source:   source,
		opts:     opts,
		re:       re,
		literals: requiredLiterals(pat),
	}, nil
}

// Match khớp step text; mỗi capture group là một đối số string.
// Group không tham gia match (nhánh alternation không chọn) có Value nil.
func (e *RegexpExpression) Match(text string) ([]ir.Arg, bool, error) {
	idx := e.re.FindStringSubmatchIndex(text)
	if idx == nil {
		return nil, false, nil
	}
	n := e.re.NumSubexp()
	args := make([]ir.Arg, 0, n)
	for g := 1; g <= n; g++ {
		start, end := idx[2*g], idx[2*g+1]
		if start < 0 {
			args = append(args, ir.Arg{Start: -1, End: -1})
			continue
		}
		args = append(args, ir.StringArg(text[start:end], start, end))
	}
	return args, true, nil
}

func (e *RegexpExpression) Source() string { return e.source }

func (e *RegexpExpression) Dialect() ir.Dialect { return ir.DialectRegexp }

func (e *RegexpExpression) CaptureCount() int { return e.re.NumSubexp() }

func (e *RegexpExpression) Literals() []string {
	return append([]string(nil), e.literals...)
}

func (e *RegexpExpression) Options() RegexpOptions { return e.opts }

func (e *RegexpExpression) Descriptor() ir.Descriptor {
	return ir.Descriptor{
		Source: ir.SourceDescriptor{
			Type:       ir.DialectRegexp.String(),
			Expression: e.source,
		},
		Regexp: ir.RegexpDescriptor{
			Source: e.re.String(),
			Flags:  e.opts.Flags(),
		},
	}
}

func (e *RegexpExpression) String() string {
	return fmt.Sprintf("RegexpExpression{source=%q, flags=%q, captures=%d}",
		e.source, e.opts.Flags(), e.re.NumSubexp())
}

// stripExtended loại bỏ whitespace không escape và comment `#` đến hết dòng,
// trừ bên trong character class [...].
func stripExtended(src string) string {
	var b strings.Builder
	inClass := false
	escaped := false
	inComment := false
	for _, r := range src {
		if inComment {
			if r == '\n' {
				inComment = false
			}
			continue
		}
		if escaped {
			b.WriteRune('\\')
			b.WriteRune(r)
			escaped = false
			continue
		}
		switch {
		case r == '\\':
			escaped = true
		case r == '[' && !inClass:
			inClass = true
			b.WriteRune(r)
		case r == ']' && inClass:
			inClass = false
			b.WriteRune(r)
		case !inClass && r == '#':
			inComment = true
		case !inClass && unicode.IsSpace(r):
			// drop
		default:
			b.WriteRune(r)
		}
	}
	if escaped {
		b.WriteRune('\\')
	}
	return b.String()
}
