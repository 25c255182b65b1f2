package registry

import (
	"fmt"

	ir "github.com/PhucNguyen204/BDD_V1/engine_steps_by_golang"
	"github.com/PhucNguyen204/BDD_V1/engine_steps_by_golang/stepdef"
)

// Hook được gọi tại các pha đăng ký/index khác nhau.
// Trả về error nếu hook thất bại; lỗi hook làm hỏng registration/build.
type RegistrationHookFn func(ctx *RegistrationContext) error

// Các pha nơi hook có thể được đăng ký.
type RegistrationPhase int

const (
	// DefinitionDiscovery: chạy ngay sau khi một definition được đăng ký.
	DefinitionDiscovery RegistrationPhase = iota
	// PreIndex: trước khi build lookup index + prefilter.
	PreIndex
	// PostIndex: sau khi engine build xong.
	PostIndex
)

// RegistrationContext là ngữ cảnh truyền cho hook.
type RegistrationContext struct {
	// Definition đang xử lý; nil cho context dạng tóm tắt (Pre/PostIndex).
	Definition *stepdef.Definition

	Source  string
	Dialect ir.Dialect

	// Literal bắt buộc trích từ expression (nguyên liệu cho prefilter).
	Literals []string

	CaptureCount int

	// Tổng số definition đã đăng ký (dùng cho summary context).
	DefinitionCount int
}

// NewRegistrationContext tạo context cho một definition cụ thể.
func NewRegistrationContext(d *stepdef.Definition) *RegistrationContext {
	expr := d.Expression()
	return &RegistrationContext{
		Definition:   d,
		Source:       expr.Source(),
		Dialect:      expr.Dialect(),
		Literals:     expr.Literals(),
		CaptureCount: expr.CaptureCount(),
	}
}

// NewSummaryContext tạo context tóm tắt cho pre/post index.
func NewSummaryContext(definitionCount int) *RegistrationContext {
	return &RegistrationContext{DefinitionCount: definitionCount}
}

// Có phải context dạng tóm tắt?
func (c *RegistrationContext) IsSummary() bool { return c.Definition == nil }

func (c *RegistrationContext) LiteralCount() int { return len(c.Literals) }

// Mô tả ngắn gọn context (debug/log).
func (c *RegistrationContext) Description() string {
	if c.IsSummary() {
		return fmt.Sprintf("Summary context (%d definitions)", c.DefinitionCount)
	}
	return fmt.Sprintf("Definition context: %q (%s, %d captures, %d literals)",
		c.Source, c.Dialect, c.CaptureCount, len(c.Literals))
}
