package registry

import (
	"fmt"
	"strings"
)

// ConfigError: đăng ký sai kiểu (invocable spec hoặc `on` target không hợp
// lệ). Fatal: dừng registration, phải nổi lên trước khi scenario chạy.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "ConfigurationError: " + e.Reason
}

// DuplicateDefinitionError: pattern trùng source text với definition đã có.
type DuplicateDefinitionError struct {
	Source   string
	Existing string // FileColonLine của definition đã đăng ký trước
}

func (e *DuplicateDefinitionError) Error() string {
	return fmt.Sprintf("DuplicateStepDefinition: %q already registered at %s", e.Source, e.Existing)
}

// UndefinedStepError: không definition nào khớp step text.
type UndefinedStepError struct {
	Text string
}

func (e *UndefinedStepError) Error() string {
	return fmt.Sprintf("UndefinedStep: no step definition matches %q", e.Text)
}

// AmbiguousStepError: nhiều definition cùng khớp một step text.
type AmbiguousStepError struct {
	Text       string
	Candidates []string // FileColonLine của từng definition khớp
}

func (e *AmbiguousStepError) Error() string {
	return fmt.Sprintf("AmbiguousStep: %q matches %d definitions:\n\t%s",
		e.Text, len(e.Candidates), strings.Join(e.Candidates, "\n\t"))
}
