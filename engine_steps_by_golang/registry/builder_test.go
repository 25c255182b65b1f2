package registry

import (
	"errors"
	"strings"
	"testing"

	ir "github.com/PhucNguyen204/BDD_V1/engine_steps_by_golang"
	"github.com/PhucNguyen204/BDD_V1/engine_steps_by_golang/expression"
	"github.com/PhucNguyen204/BDD_V1/engine_steps_by_golang/stepdef"
)

func echoHandler(nargs int) stepdef.Handler {
	return stepdef.Handler{
		NArgs: nargs,
		Fn: func(ctx *stepdef.Context, args []ir.Arg) (any, error) {
			return len(args), nil
		},
	}
}

func TestBuilderRegisterDirect(t *testing.T) {
	b := NewBuilder()
	def, err := b.Register("I have {int} cucumbers", ir.DialectCucumber, echoHandler(1))
	if err != nil {
		t.Fatalf("register err: %v", err)
	}
	if def.Source() != "I have {int} cucumbers" {
		t.Fatalf("source = %q", def.Source())
	}
	if !def.Target().IsDirect() {
		t.Fatalf("expected direct invocable")
	}
	if b.Len() != 1 {
		t.Fatalf("len = %d, want 1", b.Len())
	}
}

func TestBuilderDuplicateDefinition(t *testing.T) {
	b := NewBuilder()
	if _, err := b.Register("I have {int} cucumbers", ir.DialectCucumber, echoHandler(1)); err != nil {
		t.Fatalf("first register err: %v", err)
	}
	// cùng source text, target khác -> vẫn là duplicate
	_, err := b.Register("I have {int} cucumbers", ir.DialectCucumber, "eat")
	var dup *DuplicateDefinitionError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateDefinitionError, got %v", err)
	}
	if dup.Source != "I have {int} cucumbers" {
		t.Fatalf("dup source = %q", dup.Source)
	}
	// khác một ký tự -> không duplicate
	if _, err := b.Register("I have {int}  cucumbers", ir.DialectCucumber, echoHandler(1)); err != nil {
		t.Fatalf("near-duplicate should register: %v", err)
	}
}

func TestBuilderMissingHandlerIsFatal(t *testing.T) {
	b := NewBuilder()
	_, err := b.Register("I have {int} cucumbers", ir.DialectCucumber, nil)
	var missing *stepdef.MissingInvocableError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingInvocableError, got %v", err)
	}
	if missing.Expression != "I have {int} cucumbers" {
		t.Fatalf("expression = %q", missing.Expression)
	}
	if b.Len() != 0 {
		t.Fatalf("failed registration must not be kept")
	}
}

func TestBuilderCompileErrorPropagates(t *testing.T) {
	b := NewBuilder()
	_, err := b.Register("I have {int cucumbers", ir.DialectCucumber, echoHandler(1))
	if err == nil || !strings.Contains(err.Error(), "CompilationError") {
		t.Fatalf("expected CompilationError, got %v", err)
	}
}

func TestBuilderDeferredStrategies(t *testing.T) {
	b := NewBuilder()

	selfDef, err := b.Register("I eat {int} cucumbers", ir.DialectCucumber, "eat")
	if err != nil {
		t.Fatalf("self register err: %v", err)
	}
	if selfDef.Target().Strategy() != stepdef.ReceiveSelf {
		t.Fatalf("strategy = %s, want self", selfDef.Target().Strategy())
	}
	if selfDef.FileColonLine() != ":eat" {
		t.Fatalf("file:line = %q", selfDef.FileColonLine())
	}

	namedDef, err := b.Register("the belly holds {int}", ir.DialectCucumber, "count", On("belly"))
	if err != nil {
		t.Fatalf("named register err: %v", err)
	}
	if namedDef.Target().Strategy() != stepdef.ReceiveNamed {
		t.Fatalf("strategy = %s, want named", namedDef.Target().Strategy())
	}

	fn := func(ctx *stepdef.Context) (stepdef.Receiver, error) { return ctx, nil }
	callDef, err := b.Register("the basket holds {int}", ir.DialectCucumber, "count", On(fn))
	if err != nil {
		t.Fatalf("callable register err: %v", err)
	}
	if callDef.Target().Strategy() != stepdef.ReceiveCallable {
		t.Fatalf("strategy = %s, want callable", callDef.Target().Strategy())
	}
}

func TestBuilderInvalidOnTarget(t *testing.T) {
	b := NewBuilder()
	_, err := b.Register("I eat {int} cucumbers", ir.DialectCucumber, "eat", On(42))
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}

	// `on` không áp dụng cho direct handler
	_, err = b.Register("I eat {int} cucumbers", ir.DialectCucumber, echoHandler(1), On("belly"))
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError for on+handler, got %v", err)
	}

	// spec type lạ cũng fatal
	_, err = b.Register("I eat {int} cucumbers", ir.DialectCucumber, 3.14)
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError for bad spec, got %v", err)
	}
}

func TestBuilderHooks(t *testing.T) {
	b := NewBuilder()

	var discovered []string
	summaries := 0
	b.RegisterHook(DefinitionDiscovery, func(ctx *RegistrationContext) error {
		if ctx.IsSummary() {
			t.Fatalf("discovery hook got summary context")
		}
		discovered = append(discovered, ctx.Source)
		return nil
	})
	b.RegisterHook(PreIndex, func(ctx *RegistrationContext) error {
		if !ctx.IsSummary() || ctx.DefinitionCount != 2 {
			t.Fatalf("pre-index context: %s", ctx.Description())
		}
		summaries++
		return nil
	})
	b.RegisterHook(PostIndex, func(ctx *RegistrationContext) error {
		summaries++
		return nil
	})

	if _, err := b.Register("I have {int} cucumbers", ir.DialectCucumber, echoHandler(1)); err != nil {
		t.Fatalf("register err: %v", err)
	}
	if _, err := b.Register("I eat {int} cucumbers", ir.DialectCucumber, "eat"); err != nil {
		t.Fatalf("register err: %v", err)
	}

	if _, err := b.Build(); err != nil {
		t.Fatalf("build err: %v", err)
	}
	if len(discovered) != 2 || discovered[0] != "I have {int} cucumbers" {
		t.Fatalf("discovered = %v", discovered)
	}
	if summaries != 2 {
		t.Fatalf("summary hooks ran %d times, want 2", summaries)
	}
}

func TestBuilderHookFailureStopsRegistration(t *testing.T) {
	b := NewBuilder()
	b.RegisterHook(DefinitionDiscovery, func(ctx *RegistrationContext) error {
		return errors.New("boom")
	})
	_, err := b.Register("I have {int} cucumbers", ir.DialectCucumber, echoHandler(1))
	if err == nil || !strings.Contains(err.Error(), "HookError") {
		t.Fatalf("expected HookError, got %v", err)
	}
}

func TestBuilderCustomParameterType(t *testing.T) {
	b := NewBuilder()
	err := b.ParameterTypes().Register(expression.ParameterType{
		Name:    "color",
		Regexps: []string{"red|green|blue"},
	})
	if err != nil {
		t.Fatalf("param register err: %v", err)
	}
	def, err := b.Register("I pick the {color} basket", ir.DialectCucumber, echoHandler(1))
	if err != nil {
		t.Fatalf("register err: %v", err)
	}
	args, ok, err := def.ArgumentsFrom("I pick the green basket")
	if err != nil || !ok {
		t.Fatalf("match: ok=%v err=%v", ok, err)
	}
	if args[0].Value != "green" {
		t.Fatalf("arg = %v", args[0].Value)
	}
}
