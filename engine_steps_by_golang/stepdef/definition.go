package stepdef

import (
	"errors"
	"fmt"
	"sync"

	ir "github.com/PhucNguyen204/BDD_V1/engine_steps_by_golang"
	"github.com/PhucNguyen204/BDD_V1/engine_steps_by_golang/expression"
)

// Definition bind một pattern expression với một target invocable.
// Immutable sau khi construct; match an toàn cho concurrent, invoke phải
// tuần tự theo từng active context.
type Definition struct {
	expr   expression.Expression
	target Invocable

	// Vị trí chụp lúc đăng ký (fallback cho deferred invocable).
	registeredAt ir.Location

	locOnce sync.Once
	loc     ir.Location
}

// NewDefinition tạo step definition. Invocable vắng mặt là lỗi cấu hình
// fatal: setup phải dừng ngay, không được âm thầm bỏ qua.
func NewDefinition(expr expression.Expression, target Invocable, registeredAt ir.Location) (*Definition, error) {
	if expr == nil {
		return nil, fmt.Errorf("ConfigurationError: step definition has no expression")
	}
	if target.IsZero() {
		return nil, &MissingInvocableError{Expression: expr.Source()}
	}
	return &Definition{expr: expr, target: target, registeredAt: registeredAt}, nil
}

// ArgumentsFrom match step text qua expression. Không match trả về
// (nil, false, nil) thay vì lỗi.
func (d *Definition) ArgumentsFrom(text string) ([]ir.Arg, bool, error) {
	return d.expr.Match(text)
}

// Invoke resolve target invocable trên activeContext rồi dispatch với args.
// Arity mismatch được bắt, gắn synthetic frame từ vị trí + expression của
// definition, rồi trả về cùng kiểu lỗi để caller phân biệt với failure
// thường. Mọi lỗi khác propagate nguyên vẹn.
func (d *Definition) Invoke(ctx *Context, args []ir.Arg) (any, error) {
	if ctx == nil {
		return nil, fmt.Errorf("DispatchError: nil active context for step %q", d.expr.Source())
	}

	switch {
	case d.target.IsDirect():
		if want := d.target.handler.NArgs; want != len(args) {
			return nil, d.arityError(want, len(args), nil)
		}
		ctx.noteInvocation(len(args))
		result, err := d.target.handler.Fn(ctx, args)
		return result, d.annotateArity(err)

	case d.target.IsDeferred():
		recv, err := d.target.resolveReceiver(ctx)
		if err != nil {
			// receiver-resolution error: lỗi invoke thường, không annotate
			return nil, err
		}
		if want, known := recv.Arity(d.target.message); known && want != len(args) {
			return nil, d.arityError(want, len(args), nil)
		}
		ctx.noteInvocation(len(args))
		result, err := recv.Call(d.target.message, ctx, args)
		return result, d.annotateArity(err)

	default:
		return nil, &MissingInvocableError{Expression: d.expr.Source()}
	}
}

// Equal: hai definition bằng nhau khi source text của expression trùng
// từng ký tự, bất kể target. Dùng cho dedup lúc đăng ký.
func (d *Definition) Equal(other *Definition) bool {
	if other == nil {
		return false
	}
	return d.expr.Source() == other.expr.Source()
}

func (d *Definition) Expression() expression.Expression { return d.expr }

func (d *Definition) Source() string { return d.expr.Source() }

func (d *Definition) Literals() []string { return d.expr.Literals() }

func (d *Definition) Target() Invocable { return d.target }

func (d *Definition) Descriptor() ir.Descriptor { return d.expr.Descriptor() }

// Location resolve vị trí nguồn của definition, lazy và cache.
// Direct invocable dùng vị trí khai báo của chính handler; deferred không
// có origin tự nhiên nên fallback vị trí chụp lúc đăng ký.
func (d *Definition) Location() ir.Location {
	d.locOnce.Do(func() {
		if d.target.IsDirect() {
			if loc, ok := funcOrigin(d.target.handler.Fn); ok {
				d.loc = loc
				return
			}
		}
		d.loc = d.registeredAt
	})
	return d.loc
}

// FileColonLine là dạng chuỗi gọn của vị trí: "<file>:<line>" cho direct,
// ":<message>" cho deferred (không có line chính xác).
func (d *Definition) FileColonLine() string {
	if d.target.IsDeferred() {
		return ":" + d.target.message
	}
	return d.Location().String()
}

func (d *Definition) String() string {
	return fmt.Sprintf("StepDefinition{expression=%q, dialect=%s, target=%s}",
		d.expr.Source(), d.expr.Dialect(), d.targetLabel())
}

func (d *Definition) targetLabel() string {
	if d.target.IsDeferred() {
		return fmt.Sprintf("deferred(%s, %s)", d.target.message, d.target.strategy)
	}
	return "direct"
}

func (d *Definition) arityError(expected, got int, wrapped error) *ArityError {
	return &ArityError{
		Expected: expected,
		Got:      got,
		Frames:   []string{d.syntheticFrame()},
		wrapped:  wrapped,
	}
}

func (d *Definition) syntheticFrame() string {
	loc := d.Location()
	return fmt.Sprintf("%s:%d:in '%s'", loc.File, loc.Line, d.expr.Source())
}

// annotateArity: ArityError nổi lên từ bên trong behavior cũng được gắn
// synthetic frame của definition này lên đầu backtrace, giữ nguyên kiểu lỗi.
func (d *Definition) annotateArity(err error) error {
	if err == nil {
		return nil
	}
	var ae *ArityError
	if errors.As(err, &ae) {
		ae.Frames = append([]string{d.syntheticFrame()}, ae.Frames...)
	}
	return err
}
