package suite

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	ir "github.com/PhucNguyen204/BDD_V1/engine_steps_by_golang"
)

// Profile là một cấu hình suite: chỗ tìm feature files, dialect mặc định
// cho step patterns, công tắc prefilter, DSN ghi usage (rỗng = tắt).
type Profile struct {
	Paths     []string `yaml:"paths"`
	Dialect   string   `yaml:"dialect"`
	Prefilter *bool    `yaml:"prefilter"`
	UsageDSN  string   `yaml:"usage_dsn"`
}

// DialectValue parse field dialect ("", "cucumber", "regexp", "regex").
func (p Profile) DialectValue() (ir.Dialect, error) {
	return ir.ParseDialect(p.Dialect)
}

// PrefilterEnabled: mặc định bật khi không khai báo.
func (p Profile) PrefilterEnabled() bool {
	if p.Prefilter == nil {
		return true
	}
	return *p.Prefilter
}

type Config struct {
	DefaultProfile string             `yaml:"default_profile"`
	Profiles       map[string]Profile `yaml:"profiles"`
}

// Load parse YAML suite config và validate.
func Load(b []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("ConfigError: suite yaml: %w", err)
	}
	if len(cfg.Profiles) == 0 {
		return Config{}, errors.New("ConfigError: suite config has no profiles")
	}
	if cfg.DefaultProfile == "" {
		if _, ok := cfg.Profiles["default"]; ok {
			cfg.DefaultProfile = "default"
		} else {
			return Config{}, errors.New("ConfigError: default_profile not set and no \"default\" profile")
		}
	}
	if _, ok := cfg.Profiles[cfg.DefaultProfile]; !ok {
		return Config{}, fmt.Errorf("ConfigError: default_profile %q not defined", cfg.DefaultProfile)
	}
	for name, p := range cfg.Profiles {
		if strings.TrimSpace(name) == "" {
			return Config{}, errors.New("ConfigError: empty profile name")
		}
		if _, err := p.DialectValue(); err != nil {
			return Config{}, fmt.Errorf("profile %q: %w", name, err)
		}
	}
	return cfg, nil
}

func LoadFile(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Load(b)
}

// Profile trả về profile theo tên; tên rỗng lấy default.
func (c Config) Profile(name string) (Profile, error) {
	if name == "" {
		name = c.DefaultProfile
	}
	p, ok := c.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("ConfigError: unknown profile %q", name)
	}
	return p, nil
}
