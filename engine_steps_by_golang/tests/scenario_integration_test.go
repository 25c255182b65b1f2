package tests

import (
	"errors"
	"strings"
	"testing"

	ir "github.com/PhucNguyen204/BDD_V1/engine_steps_by_golang"
	"github.com/PhucNguyen204/BDD_V1/engine_steps_by_golang/registry"
	"github.com/PhucNguyen204/BDD_V1/engine_steps_by_golang/stepdef"
)

// Dựng engine với bộ step "cucumber basket" dùng cả hai dialect.
func buildBasketEngine(t *testing.T, cfg ir.EngineConfig) *registry.Engine {
	t.Helper()
	b := registry.NewBuilderWithConfig(cfg)

	reg := func(pattern string, dialect ir.Dialect, spec any, opts ...registry.RegisterOption) {
		t.Helper()
		if _, err := b.Register(pattern, dialect, spec, opts...); err != nil {
			t.Fatalf("register %q: %v", pattern, err)
		}
	}

	reg("I have {int} cucumbers in my belly/stomach", ir.DialectCucumber, stepdef.Handler{
		NArgs: 1,
		Fn: func(ctx *stepdef.Context, args []ir.Arg) (any, error) {
			ctx.Set("count", args[0].Value)
			return args[0].Value, nil
		},
	})
	reg("I eat {int} cucumber(s)", ir.DialectCucumber, stepdef.Handler{
		NArgs: 1,
		Fn: func(ctx *stepdef.Context, args []ir.Arg) (any, error) {
			have, _ := ctx.Get("count")
			left := have.(int64) - args[0].Value.(int64)
			ctx.Set("count", left)
			return left, nil
		},
	})
	reg(`^my belly is (empty|full)$`, ir.DialectRegexp, stepdef.Handler{
		NArgs: 1,
		Fn: func(ctx *stepdef.Context, args []ir.Arg) (any, error) {
			have, _ := ctx.Get("count")
			wantEmpty := args[0].Value == "empty"
			if wantEmpty != (have == int64(0)) {
				return nil, errors.New("belly state mismatch")
			}
			return true, nil
		},
	})
	reg("the basket is labeled {string}", ir.DialectCucumber, "label", registry.On("basket"))

	eng, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return eng
}

type basket struct {
	label string
}

func (bk *basket) Arity(message string) (int, bool) {
	if message == "label" {
		return 1, true
	}
	return 0, false
}

func (bk *basket) Call(message string, ctx *stepdef.Context, args []ir.Arg) (any, error) {
	if message != "label" {
		return nil, errors.New("unknown message: " + message)
	}
	bk.label = args[0].Value.(string)
	return bk.label, nil
}

func TestScenarioEndToEnd(t *testing.T) {
	eng := buildBasketEngine(t, ir.DefaultEngineConfig())

	bk := &basket{}
	ctx := stepdef.NewContext()
	ctx.RegisterReceiver("basket", bk)

	steps := []struct {
		text string
		want any
	}{
		{"I have 5 cucumbers in my belly", int64(5)},
		{"I eat 1 cucumber", int64(4)},
		{"I eat 4 cucumbers", int64(0)},
		{"my belly is empty", true},
		{`the basket is labeled "pickles"`, "pickles"},
	}
	for _, s := range steps {
		got, err := eng.Run(ctx, s.text)
		if err != nil {
			t.Fatalf("step %q: %v", s.text, err)
		}
		if got != s.want {
			t.Fatalf("step %q = %v, want %v", s.text, got, s.want)
		}
	}

	if bk.label != "pickles" {
		t.Fatalf("deferred receiver not invoked: %q", bk.label)
	}
	if ctx.StepsInvoked() != len(steps) {
		t.Fatalf("steps_invoked = %d, want %d", ctx.StepsInvoked(), len(steps))
	}
}

func TestScenarioUndefinedStep(t *testing.T) {
	eng := buildBasketEngine(t, ir.DefaultEngineConfig())
	ctx := stepdef.NewContext()

	// "five" không phải số -> {int} không khớp
	_, err := eng.Run(ctx, "I have five cucumbers in my belly")
	var undef *registry.UndefinedStepError
	if !errors.As(err, &undef) {
		t.Fatalf("expected UndefinedStepError, got %v", err)
	}
	if ctx.StepsInvoked() != 0 {
		t.Fatalf("no handler should have run")
	}
}

func TestScenarioArityAnnotation(t *testing.T) {
	b := registry.NewBuilder()
	def, err := b.Register("I have {int} cucumbers", ir.DialectCucumber, stepdef.Handler{
		// khai báo 2 args nhưng expression chỉ capture 1
		NArgs: 2,
		Fn: func(ctx *stepdef.Context, args []ir.Arg) (any, error) {
			return nil, nil
		},
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	eng, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	ctx := stepdef.NewContext()
	_, err = eng.Run(ctx, "I have 5 cucumbers")
	var ae *stepdef.ArityError
	if !errors.As(err, &ae) {
		t.Fatalf("expected ArityError, got %v", err)
	}
	if ae.Expected != 2 || ae.Got != 1 {
		t.Fatalf("arity %d/%d", ae.Got, ae.Expected)
	}
	if len(ae.Frames) != 1 || !strings.Contains(ae.Frames[0], "in 'I have {int} cucumbers'") {
		t.Fatalf("frames = %v", ae.Frames)
	}
	// frame trỏ về file đăng ký definition
	if !strings.Contains(ae.Frames[0], "scenario_integration_test.go") {
		t.Fatalf("frame should carry registration file: %v", ae.Frames)
	}
	_ = def
}

func TestScenarioDescriptors(t *testing.T) {
	eng := buildBasketEngine(t, ir.DefaultEngineConfig())

	for _, d := range eng.Definitions() {
		desc := d.Descriptor()
		switch d.Expression().Dialect() {
		case ir.DialectCucumber:
			if desc.Source.Type != "cucumber expression" {
				t.Fatalf("type = %q", desc.Source.Type)
			}
		case ir.DialectRegexp:
			if desc.Source.Type != "regular expression" {
				t.Fatalf("type = %q", desc.Source.Type)
			}
		}
		if desc.Source.Expression != d.Source() {
			t.Fatalf("expression mismatch: %q vs %q", desc.Source.Expression, d.Source())
		}
		if desc.Regexp.Source == "" {
			t.Fatalf("descriptor must expose compiled regexp source")
		}
	}
}
