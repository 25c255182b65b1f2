package expression

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// TransformFn chuyển chuỗi capture thành giá trị có kiểu.
type TransformFn func(text string) (any, error)

// ParameterType mô tả một kiểu tham số cucumber expression ({int}, {word}, ...).
type ParameterType struct {
	// Tên dùng trong pattern: {name}. Tên rỗng là anonymous parameter {}.
	Name string
	// Các nhánh regexp; KHÔNG được chứa capturing group.
	Regexps []string
	// Transform áp dụng lên text đã capture. nil = giữ nguyên string.
	Transform TransformFn
}

// captureGroup phát sinh đúng MỘT capturing group cho parameter này.
func (pt ParameterType) captureGroup() string {
	if len(pt.Regexps) == 1 {
		return "(" + pt.Regexps[0] + ")"
	}
	branches := make([]string, 0, len(pt.Regexps))
	for _, r := range pt.Regexps {
		branches = append(branches, "(?:"+r+")")
	}
	return "(" + strings.Join(branches, "|") + ")"
}

func (pt ParameterType) transform(text string) (any, error) {
	if pt.Transform == nil {
		return text, nil
	}
	return pt.Transform(text)
}

// ParameterTypeRegistry là registry các parameter type theo tên.
// Pattern giống match/modifier registry: đăng ký mặc định lúc khởi tạo,
// cho phép ghi đè/bổ sung trước khi compile expression.
type ParameterTypeRegistry struct {
	mu     sync.RWMutex
	byName map[string]ParameterType
}

// NewParameterTypeRegistry tạo registry với các kiểu built-in:
// int, float, word, string, any, regex và anonymous {}.
func NewParameterTypeRegistry() *ParameterTypeRegistry {
	r := &ParameterTypeRegistry{byName: make(map[string]ParameterType)}
	r.registerDefaults()
	return r
}

func (r *ParameterTypeRegistry) registerDefaults() {
	defaults := []ParameterType{
		{Name: "int", Regexps: []string{`[+-]?\d+`}, Transform: createIntTransform()},
		{Name: "float", Regexps: []string{`[+-]?(?:\d+\.\d*|\.\d+|\d+)`}, Transform: createFloatTransform()},
		{Name: "word", Regexps: []string{`[^\s]+`}},
		{Name: "string", Regexps: []string{
			`"[^"\\]*(?:\\.[^"\\]*)*"`,
			`'[^'\\]*(?:\\.[^'\\]*)*'`,
		}, Transform: createStringTransform()},
		{Name: "any", Regexps: []string{`.*`}},
		{Name: "", Regexps: []string{`.*`}},
		{Name: "regex", Regexps: []string{`.+`}, Transform: createRegexTransform()},
	}
	for _, pt := range defaults {
		// built-ins luôn hợp lệ
		r.byName[pt.Name] = pt
	}
}

// Register thêm một parameter type. Ghi đè tên đã tồn tại là lỗi:
// va chạm tên là authoring mistake, phải nổi lên trước khi scenario chạy.
func (r *ParameterTypeRegistry) Register(pt ParameterType) error {
	if len(pt.Regexps) == 0 {
		return fmt.Errorf("CompilationError: parameter type {%s} has no regexp", pt.Name)
	}
	for _, raw := range pt.Regexps {
		re, err := regexp.Compile(raw)
		if err != nil {
			return fmt.Errorf("CompilationError: parameter type {%s}: %v", pt.Name, err)
		}
		if re.NumSubexp() > 0 {
			return fmt.Errorf("CompilationError: parameter type {%s} must not contain capturing groups", pt.Name)
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[pt.Name]; exists {
		return fmt.Errorf("CompilationError: parameter type {%s} already registered", pt.Name)
	}
	r.byName[pt.Name] = pt
	return nil
}

// Lookup tìm parameter type theo tên ({} tra với tên rỗng).
func (r *ParameterTypeRegistry) Lookup(name string) (ParameterType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pt, ok := r.byName[name]
	return pt, ok
}

func (r *ParameterTypeRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}

// -------------------- Built-in transforms --------------------

func createIntTransform() TransformFn {
	return func(text string) (any, error) {
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("TransformError: {int} %q: %v", text, err)
		}
		return n, nil
	}
}

func createFloatTransform() TransformFn {
	return func(text string) (any, error) {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("TransformError: {float} %q: %v", text, err)
		}
		return f, nil
	}
}

// createStringTransform bỏ dấu nháy bao ngoài và unescape \" \' \\.
func createStringTransform() TransformFn {
	return func(text string) (any, error) {
		if len(text) < 2 {
			return text, nil
		}
		quote := text[0]
		if (quote != '"' && quote != '\'') || text[len(text)-1] != quote {
			return text, nil
		}
		inner := text[1 : len(text)-1]
		var b strings.Builder
		escaped := false
		for _, r := range inner {
			if escaped {
				b.WriteRune(r)
				escaped = false
				continue
			}
			if r == '\\' {
				escaped = true
				continue
			}
			b.WriteRune(r)
		}
		return b.String(), nil
	}
}

func createRegexTransform() TransformFn {
	return func(text string) (any, error) {
		re, err := regexp.Compile(text)
		if err != nil {
			return nil, fmt.Errorf("TransformError: {regex} %q: %v", text, err)
		}
		return re, nil
	}
}
