package expression

import (
	"fmt"
	"regexp"
	"strings"

	ir "github.com/PhucNguyen204/BDD_V1/engine_steps_by_golang"
)

// CucumberExpression là pattern dialect cucumber đã compile sang regexp.
// Immutable sau khi compile.
type CucumberExpression struct {
	source   string
	re       *regexp.Regexp
	params   []ParameterType
	literals []string
}

// CompileCucumber biên dịch cucumber expression với registry parameter type.
// reg = nil dùng registry mặc định (chỉ built-ins).
func CompileCucumber(source string, reg *ParameterTypeRegistry) (*CucumberExpression, error) {
	if reg == nil {
		reg = NewParameterTypeRegistry()
	}
	toks, err := tokenizeCucumber(source)
	if err != nil {
		return nil, err
	}

	var (
		b        strings.Builder
		params   []ParameterType
		literals []string
	)
	b.WriteString("^")
	for _, t := range toks {
		switch t.kind {
		case tokText:
			b.WriteString(regexp.QuoteMeta(t.text))
			if w := strings.TrimSpace(t.text); w != "" {
				literals = append(literals, w)
			}
		case tokOptional:
			b.WriteString("(?:" + regexp.QuoteMeta(t.text) + ")?")
		case tokAlternation:
			branches := make([]string, 0, len(t.alts))
			for _, a := range t.alts {
				branches = append(branches, regexp.QuoteMeta(a))
			}
			b.WriteString("(?:" + strings.Join(branches, "|") + ")")
		case tokParameter:
			pt, ok := reg.Lookup(t.text)
			if !ok {
				return nil, fmt.Errorf("CompilationError: undefined parameter type {%s} in %q", t.text, source)
			}
			b.WriteString(pt.captureGroup())
			params = append(params, pt)
		}
	}
	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("CompilationError: %q: %v", source, err)
	}
	return &CucumberExpression{
		source:   source,
		re:       re,
		params:   params,
		literals: literals,
	}, nil
}

// Match khớp step text, trả về đối số đã transform theo thứ tự parameter.
func (e *CucumberExpression) Match(text string) ([]ir.Arg, bool, error) {
	idx := e.re.FindStringSubmatchIndex(text)
	if idx == nil {
		return nil, false, nil
	}
	args := make([]ir.Arg, 0, len(e.params))
	for g := 1; g <= len(e.params); g++ {
		start, end := idx[2*g], idx[2*g+1]
		if start < 0 {
			args = append(args, ir.Arg{Start: -1, End: -1})
			continue
		}
		captured := text[start:end]
		v, err := e.params[g-1].transform(captured)
		if err != nil {
			return nil, false, err
		}
		args = append(args, ir.Arg{Value: v, Text: captured, Start: start, End: end})
	}
	return args, true, nil
}

func (e *CucumberExpression) Source() string { return e.source }

func (e *CucumberExpression) Dialect() ir.Dialect { return ir.DialectCucumber }

func (e *CucumberExpression) CaptureCount() int { return len(e.params) }

func (e *CucumberExpression) Literals() []string {
	return append([]string(nil), e.literals...)
}

func (e *CucumberExpression) Descriptor() ir.Descriptor {
	return ir.Descriptor{
		Source: ir.SourceDescriptor{
			Type:       ir.DialectCucumber.String(),
			Expression: e.source,
		},
		Regexp: ir.RegexpDescriptor{
			Source: e.re.String(),
			Flags:  "",
		},
	}
}

func (e *CucumberExpression) String() string {
	return fmt.Sprintf("CucumberExpression{source=%q, regexp=%q, params=%d}",
		e.source, e.re.String(), len(e.params))
}
