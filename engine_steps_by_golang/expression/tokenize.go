package expression

import (
	"fmt"
	"strings"
	"unicode"
)

// ---------------- Tokens ----------------

type tokenKind int

const (
	tokText tokenKind = iota
	tokParameter
	tokOptional
	tokAlternation
)

type token struct {
	kind tokenKind
	text string   // tokText: literal; tokParameter: tên; tokOptional: phần thân
	alts []string // tokAlternation: các nhánh
}

// tokenizeCucumber tách cucumber expression thành tokens.
// Escape: \{ \( \/ \\ cho ký tự literal. Alternation this/that áp dụng trong
// một "word" (chuỗi không có whitespace). Optional (text) không lồng nhau.
func tokenizeCucumber(src string) ([]token, error) {
	var (
		toks []token
		cur  strings.Builder
		alts []string
	)

	flushWord := func() error {
		word := cur.String()
		cur.Reset()
		if len(alts) > 0 {
			alts = append(alts, word)
			for _, a := range alts {
				if a == "" {
					return fmt.Errorf("CompilationError: empty alternation branch in %q", src)
				}
			}
			toks = append(toks, token{kind: tokAlternation, alts: alts})
			alts = nil
			return nil
		}
		if word != "" {
			toks = append(toks, token{kind: tokText, text: word})
		}
		return nil
	}

	runes := []rune(src)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case r == '\\':
			if i+1 >= len(runes) {
				return nil, fmt.Errorf("CompilationError: trailing escape in %q", src)
			}
			cur.WriteRune(runes[i+1])
			i += 2

		case r == '{':
			if len(alts) > 0 {
				return nil, fmt.Errorf("CompilationError: alternation may only contain plain text in %q", src)
			}
			if err := flushWord(); err != nil {
				return nil, err
			}
			end := -1
			for j := i + 1; j < len(runes); j++ {
				if runes[j] == '}' {
					end = j
					break
				}
			}
			if end < 0 {
				return nil, fmt.Errorf("CompilationError: unterminated parameter in %q", src)
			}
			toks = append(toks, token{kind: tokParameter, text: string(runes[i+1 : end])})
			i = end + 1

		case r == '(':
			if len(alts) > 0 {
				return nil, fmt.Errorf("CompilationError: alternation may only contain plain text in %q", src)
			}
			if err := flushWord(); err != nil {
				return nil, err
			}
			var body strings.Builder
			j := i + 1
			closed := false
			for j < len(runes) {
				switch runes[j] {
				case '\\':
					if j+1 >= len(runes) {
						return nil, fmt.Errorf("CompilationError: trailing escape in %q", src)
					}
					body.WriteRune(runes[j+1])
					j += 2
					continue
				case '(':
					return nil, fmt.Errorf("CompilationError: nested optional in %q", src)
				case ')':
					closed = true
				}
				if closed {
					break
				}
				body.WriteRune(runes[j])
				j++
			}
			if !closed {
				return nil, fmt.Errorf("CompilationError: unterminated optional in %q", src)
			}
			if body.Len() == 0 {
				return nil, fmt.Errorf("CompilationError: empty optional in %q", src)
			}
			toks = append(toks, token{kind: tokOptional, text: body.String()})
			i = j + 1

		case r == '/':
			alts = append(alts, cur.String())
			cur.Reset()
			i++

		case unicode.IsSpace(r):
			if err := flushWord(); err != nil {
				return nil, err
			}
			toks = append(toks, token{kind: tokText, text: string(r)})
			i++

		default:
			cur.WriteRune(r)
			i++
		}
	}
	if err := flushWord(); err != nil {
		return nil, err
	}
	return toks, nil
}
