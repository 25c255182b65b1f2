package registry

import (
	"fmt"
	"sync"

	ir "github.com/PhucNguyen204/BDD_V1/engine_steps_by_golang"
	"github.com/PhucNguyen204/BDD_V1/engine_steps_by_golang/expression"
	"github.com/PhucNguyen204/BDD_V1/engine_steps_by_golang/stepdef"
)

// registrationDepth: số stack frame cố định phía trên lời gọi Register,
// để vị trí chụp được là chỗ tác giả step gọi đăng ký chứ không phải
// machinery bên trong.
const registrationDepth = 1

// Builder là builder theo registry pattern cho step definitions:
// đăng ký pattern + invocable, dedup theo source text, chạy hooks,
// cuối cùng Build() ra Engine bất biến.
type Builder struct {
	cfg    ir.EngineConfig
	params *expression.ParameterTypeRegistry

	defs  []*stepdef.Definition
	hooks map[RegistrationPhase][]RegistrationHookFn

	prefilterCfg PrefilterConfig

	mu sync.Mutex
}

// NewBuilder tạo builder với config và parameter types mặc định.
func NewBuilder() *Builder {
	return NewBuilderWithConfig(ir.DefaultEngineConfig())
}

func NewBuilderWithConfig(cfg ir.EngineConfig) *Builder {
	pcfg := DefaultPrefilterConfig()
	pcfg.MinLiteralLength = cfg.MinLiteralLength
	pcfg.Enabled = cfg.EnablePrefilter
	return &Builder{
		cfg:          cfg,
		params:       expression.NewParameterTypeRegistry(),
		hooks:        make(map[RegistrationPhase][]RegistrationHookFn),
		prefilterCfg: pcfg,
	}
}

// ParameterTypes trả về registry parameter type dùng cho cucumber dialect;
// đăng ký custom type trước khi Register các pattern dùng nó.
func (b *Builder) ParameterTypes() *expression.ParameterTypeRegistry {
	return b.params
}

// RegisterHook đăng ký 1 hook chạy ở pha tương ứng.
func (b *Builder) RegisterHook(phase RegistrationPhase, hook RegistrationHookFn) *Builder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hooks[phase] = append(b.hooks[phase], hook)
	return b
}

// WithPrefilterConfig ghi đè cấu hình prefilter (mặc định lấy từ EngineConfig).
func (b *Builder) WithPrefilterConfig(cfg PrefilterConfig) *Builder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.prefilterCfg = cfg
	return b
}

// -------------------- Register options --------------------

type registerOptions struct {
	on     any
	onSet  bool
	reOpts expression.RegexpOptions
	loc    ir.Location
	locSet bool
}

type RegisterOption func(*registerOptions)

// On chọn receiver cho deferred invocable: callable resolve receiver từ
// active context, hoặc message name tra cứu trên active context.
// Vắng mặt = receiver là chính active context.
func On(target any) RegisterOption {
	return func(o *registerOptions) {
		o.on = target
		o.onSet = true
	}
}

// WithRegexpOptions đặt cờ cho regexp dialect (m/i/x).
func WithRegexpOptions(opts expression.RegexpOptions) RegisterOption {
	return func(o *registerOptions) { o.reOpts = opts }
}

// At ghi đè vị trí đăng ký (dùng khi registration đi qua wrapper riêng).
func At(loc ir.Location) RegisterOption {
	return func(o *registerOptions) {
		o.loc = loc
		o.locSet = true
	}
}

// -------------------- Register --------------------

// Register đăng ký một step definition.
//
// invocableSpec:
//   - stepdef.Handler  -> direct invocable
//   - stepdef.Invocable -> dùng nguyên
//   - string           -> deferred dispatch với message name đó; chiến lược
//     receiver lấy từ option On (mặc định self)
//   - nil              -> MissingInvocableError (lỗi cấu hình, fatal)
func (b *Builder) Register(pattern string, dialect ir.Dialect, invocableSpec any, opts ...RegisterOption) (*stepdef.Definition, error) {
	o := &registerOptions{}
	for _, apply := range opts {
		apply(o)
	}
	if !o.locSet {
		o.loc = stepdef.CallerLocation(registrationDepth)
	}

	expr, err := expression.Compile(pattern, dialect, b.params, o.reOpts)
	if err != nil {
		return nil, err
	}

	target, err := b.resolveInvocableSpec(pattern, invocableSpec, o)
	if err != nil {
		return nil, err
	}

	def, err := stepdef.NewDefinition(expr, target, o.loc)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	for _, existing := range b.defs {
		if existing.Equal(def) {
			b.mu.Unlock()
			return nil, &DuplicateDefinitionError{Source: pattern, Existing: existing.FileColonLine()}
		}
	}
	b.defs = append(b.defs, def)
	discovery := append([]RegistrationHookFn(nil), b.hooks[DefinitionDiscovery]...)
	b.mu.Unlock()

	rctx := NewRegistrationContext(def)
	for _, hook := range discovery {
		if err := hook(rctx); err != nil {
			return nil, fmt.Errorf("HookError: definition discovery: %w", err)
		}
	}
	return def, nil
}

func (b *Builder) resolveInvocableSpec(pattern string, spec any, o *registerOptions) (stepdef.Invocable, error) {
	switch v := spec.(type) {
	case nil:
		// để NewDefinition báo MissingInvocableError với expression đầy đủ
		return stepdef.Invocable{}, nil

	case stepdef.Invocable:
		if o.onSet {
			return stepdef.Invocable{}, &ConfigError{Reason: fmt.Sprintf("step %q: `on` cannot be combined with a prebuilt invocable", pattern)}
		}
		return v, nil

	case stepdef.Handler:
		if o.onSet {
			return stepdef.Invocable{}, &ConfigError{Reason: fmt.Sprintf("step %q: `on` only applies to deferred message targets", pattern)}
		}
		return stepdef.Direct(v), nil

	case string:
		return b.resolveDeferred(pattern, v, o)

	default:
		return stepdef.Invocable{}, &ConfigError{Reason: fmt.Sprintf("step %q: unsupported invocable spec type %T", pattern, spec)}
	}
}

func (b *Builder) resolveDeferred(pattern, message string, o *registerOptions) (stepdef.Invocable, error) {
	if !o.onSet || o.on == nil {
		return stepdef.DeferredSelf(message), nil
	}
	switch on := o.on.(type) {
	case string:
		return stepdef.DeferredNamed(message, on), nil
	case stepdef.ReceiverFn:
		return stepdef.DeferredCallable(message, on), nil
	case func(*stepdef.Context) (stepdef.Receiver, error):
		return stepdef.DeferredCallable(message, on), nil
	default:
		return stepdef.Invocable{}, &ConfigError{Reason: fmt.Sprintf("step %q: invalid `on` target type %T", pattern, o.on)}
	}
}

// -------------------- Convenience wrappers --------------------

// RegisterFunc đăng ký direct handler với arity khai báo.
func (b *Builder) RegisterFunc(pattern string, dialect ir.Dialect, nargs int, fn stepdef.HandlerFn, opts ...RegisterOption) (*stepdef.Definition, error) {
	opts = append(opts, b.callerLocationOpt())
	return b.Register(pattern, dialect, stepdef.Handler{NArgs: nargs, Fn: fn}, opts...)
}

// RegisterMessage đăng ký deferred dispatch theo message name.
func (b *Builder) RegisterMessage(pattern string, dialect ir.Dialect, message string, opts ...RegisterOption) (*stepdef.Definition, error) {
	opts = append(opts, b.callerLocationOpt())
	return b.Register(pattern, dialect, message, opts...)
}

// callerLocationOpt chụp vị trí của caller wrapper (sâu hơn 1 frame).
func (b *Builder) callerLocationOpt() RegisterOption {
	return At(stepdef.CallerLocation(registrationDepth + 1))
}

// -------------------- Build --------------------

// Definitions trả về snapshot các definition đã đăng ký.
func (b *Builder) Definitions() []*stepdef.Definition {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*stepdef.Definition(nil), b.defs...)
}

func (b *Builder) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.defs)
}

// Build đóng băng registry thành Engine: chạy PreIndex hooks, build literal
// prefilter, chạy PostIndex hooks.
func (b *Builder) Build() (*Engine, error) {
	if err := b.cfg.Validate(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defs := append([]*stepdef.Definition(nil), b.defs...)
	pre := append([]RegistrationHookFn(nil), b.hooks[PreIndex]...)
	post := append([]RegistrationHookFn(nil), b.hooks[PostIndex]...)
	pcfg := b.prefilterCfg
	cfg := b.cfg
	b.mu.Unlock()

	summary := NewSummaryContext(len(defs))
	for _, hook := range pre {
		if err := hook(summary); err != nil {
			return nil, fmt.Errorf("HookError: pre-index: %w", err)
		}
	}

	eng := &Engine{
		cfg:       cfg,
		defs:      defs,
		prefilter: buildPrefilter(defs, pcfg),
	}

	for _, hook := range post {
		if err := hook(summary); err != nil {
			return nil, fmt.Errorf("HookError: post-index: %w", err)
		}
	}
	return eng, nil
}
