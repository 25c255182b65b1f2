// Package expression compiles step patterns into matchers.
//
// Hai dialect được hỗ trợ: regular expression thuần và cucumber expression
// ({int}, {word}, ...). Mọi expression là immutable sau khi compile; Match là
// pure function, an toàn khi gọi đồng thời.
package expression

import (
	"fmt"

	ir "github.com/PhucNguyen204/BDD_V1/engine_steps_by_golang"
)

// Expression là contract chung cho cả hai dialect.
type Expression interface {
	// Match trả về danh sách đối số theo thứ tự capture, hoặc (nil, false)
	// nếu text không khớp. error chỉ xảy ra khi transform giá trị thất bại.
	Match(text string) ([]ir.Arg, bool, error)

	// Source trả về pattern text gốc (dùng cho equality và diagnostics).
	Source() string

	Dialect() ir.Dialect

	// CaptureCount là số capture group đã khai báo trong pattern.
	CaptureCount() int

	// Literals trả về các đoạn text bắt buộc phải xuất hiện trong step text
	// để pattern có thể khớp. Dùng cho literal prefilter.
	Literals() []string

	// Descriptor trả về bản tóm tắt serializable cho external reporting.
	Descriptor() ir.Descriptor
}

// Compile biên dịch pattern theo dialect.
// reg chỉ dùng cho DialectCucumber (nil = registry mặc định);
// opts chỉ dùng cho DialectRegexp.
func Compile(source string, dialect ir.Dialect, reg *ParameterTypeRegistry, opts RegexpOptions) (Expression, error) {
	switch dialect {
	case ir.DialectRegexp:
		return CompileRegexp(source, opts)
	case ir.DialectCucumber:
		return CompileCucumber(source, reg)
	default:
		return nil, fmt.Errorf("CompilationError: unknown dialect %v", dialect)
	}
}
