package engine_steps_by_golang

// Unified configuration for the step matching engine.

import "fmt"

// -------------------- Enums --------------------

type MatchStrategy int

const (
	// Đặt Adaptive = 0 để zero-value hữu ích
	MatchAdaptive MatchStrategy = iota
	MatchDevelopment
	MatchProduction
)

func (s MatchStrategy) String() string {
	switch s {
	case MatchAdaptive:
		return "Adaptive"
	case MatchDevelopment:
		return "Development"
	case MatchProduction:
		return "Production"
	default:
		return fmt.Sprintf("MatchStrategy(%d)", int(s))
	}
}

// -------------------- EngineConfig --------------------

type EngineConfig struct {
	// Batch size cho match theo lô (coverage scan)
	BatchSize int `json:"batch_size"`

	// Chiến lược match: mặc định Adaptive
	Strategy MatchStrategy `json:"match_strategy"`

	// Bật prefilter literal (aho-corasick) trước khi thử regexp
	EnablePrefilter bool `json:"enable_prefilter"`

	// Quét toàn bộ definitions để phát hiện step nhập nhằng.
	// Tắt đi thì definition match đầu tiên thắng (first-wins).
	DetectAmbiguity bool `json:"detect_ambiguity"`

	// Độ dài literal tối thiểu đưa vào prefilter
	MinLiteralLength int `json:"min_literal_length"`
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		BatchSize:        100,
		Strategy:         MatchAdaptive,
		EnablePrefilter:  true,
		DetectAmbiguity:  true,
		MinLiteralLength: 3,
	}
}

func NewEngineConfig() EngineConfig {
	return DefaultEngineConfig()
}

// ProductionConfig: suite lớn, ưu tiên throughput.
func ProductionConfig() EngineConfig {
	return EngineConfig{
		BatchSize:        1000,
		Strategy:         MatchProduction,
		EnablePrefilter:  true,
		DetectAmbiguity:  false,
		MinLiteralLength: 3,
	}
}

// DevelopmentConfig: suite nhỏ, ưu tiên chẩn đoán.
func DevelopmentConfig() EngineConfig {
	return EngineConfig{
		BatchSize:        10,
		Strategy:         MatchDevelopment,
		EnablePrefilter:  false,
		DetectAmbiguity:  true,
		MinLiteralLength: 1,
	}
}

func (c EngineConfig) WithBatchSize(size int) EngineConfig {
	c.BatchSize = size
	return c
}

func (c EngineConfig) WithMatchStrategy(s MatchStrategy) EngineConfig {
	c.Strategy = s
	return c
}

func (c EngineConfig) WithPrefilter(enable bool) EngineConfig {
	c.EnablePrefilter = enable
	return c
}

func (c EngineConfig) WithAmbiguityDetection(enable bool) EngineConfig {
	c.DetectAmbiguity = enable
	return c
}

func (c EngineConfig) WithMinLiteralLength(n int) EngineConfig {
	c.MinLiteralLength = n
	return c
}

// Validate kiểm tra config hợp lệ.
func (c EngineConfig) Validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("ConfigError: batch_size must be positive, got %d", c.BatchSize)
	}
	if c.MinLiteralLength < 1 {
		return fmt.Errorf("ConfigError: min_literal_length must be >= 1, got %d", c.MinLiteralLength)
	}
	return nil
}
