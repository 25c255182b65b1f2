package features

import (
	"bufio"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// StepLine là một dòng step trích từ feature file: chỉ file/line/keyword/text,
// không parse cấu trúc Gherkin đầy đủ (scenario/outline/table).
type StepLine struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Keyword string `json:"keyword"`
	Text    string `json:"text"`
}

var stepKeywords = []string{"Given ", "When ", "Then ", "And ", "But ", "* "}

func isFeature(p string) bool {
	return strings.HasSuffix(strings.ToLower(p), ".feature")
}

// stepFromLine tách keyword + text nếu dòng là một step.
func stepFromLine(line string) (keyword, text string, ok bool) {
	trimmed := strings.TrimSpace(line)
	for _, kw := range stepKeywords {
		if strings.HasPrefix(trimmed, kw) {
			return strings.TrimSpace(kw), strings.TrimSpace(trimmed[len(kw):]), true
		}
	}
	return "", "", false
}

// LoadFile trích các step line từ một feature file.
// Bỏ qua comment (#) và nội dung docstring (""" / ```).
func LoadFile(path string) ([]StepLine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []StepLine
	inDocString := false
	docDelim := ""

	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		trimmed := strings.TrimSpace(sc.Text())

		if inDocString {
			if trimmed == docDelim {
				inDocString = false
			}
			continue
		}
		if strings.HasPrefix(trimmed, `"""`) || strings.HasPrefix(trimmed, "```") {
			inDocString = true
			docDelim = trimmed[:3]
			continue
		}
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if kw, text, ok := stepFromLine(trimmed); ok && text != "" {
			out = append(out, StepLine{File: path, Line: lineNo, Keyword: kw, Text: text})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadDirRecursive quét đệ quy root lấy step line từ mọi *.feature.
func LoadDirRecursive(root string) ([]StepLine, error) {
	var out []StepLine
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isFeature(p) {
			return nil
		}
		steps, err := LoadFile(p)
		if err != nil {
			return err
		}
		out = append(out, steps...)
		return nil
	})
	return out, err
}
