package registry

import (
	"fmt"
	"strings"

	ac "github.com/petar-dambovaliev/aho-corasick"

	ir "github.com/PhucNguyen204/BDD_V1/engine_steps_by_golang"
	"github.com/PhucNguyen204/BDD_V1/engine_steps_by_golang/stepdef"
)

//
// Literal prefilter cho step matching: dùng Aho–Corasick để loại nhanh
// những text không chứa bất kỳ literal bắt buộc nào của tập definition.
//

// -------------------- Statistics --------------------

type PrefilterStats struct {
	// Tổng số literal trong automaton
	LiteralCount int `json:"literal_count"`
	// Số definition đã quét khi build
	DefinitionCount int `json:"definition_count"`
	// Số definition đóng góp ít nhất 1 literal
	CoveredDefinitions int `json:"covered_definitions"`
	// Ước tính selectivity (0.0 = rất chọn lọc, 1.0 = khớp tất)
	EstimatedSelectivity float64 `json:"estimated_selectivity"`
	// Ước lượng footprint bộ nhớ
	MemoryUsage int `json:"memory_usage"`
}

func (s PrefilterStats) IsEffective() bool {
	// >= 5 literal và selectivity < 0.7
	return s.LiteralCount >= 5 && s.EstimatedSelectivity < 0.7
}

func (s PrefilterStats) PerformanceSummary() string {
	if s.LiteralCount == 0 {
		return "No literals - prefilter disabled"
	}
	gain := (1.0 - s.EstimatedSelectivity) * 100.0
	switch {
	case s.EstimatedSelectivity < 0.3:
		return fmt.Sprintf("High selectivity (%.1f%%) - excellent performance gains expected", gain)
	case s.EstimatedSelectivity < 0.6:
		return fmt.Sprintf("Medium selectivity (%.1f%%) - good performance gains expected", gain)
	default:
		return fmt.Sprintf("Low selectivity (%.1f%%) - minimal performance gains expected", gain)
	}
}

func (s PrefilterStats) StrategyName() string {
	return fmt.Sprintf("AhoCorasick (%d literals)", s.LiteralCount)
}

// -------------------- Config --------------------

type PrefilterConfig struct {
	// Bật khớp ASCII case-insensitive trong AC
	CaseInsensitive bool `json:"case_insensitive"`
	// Bỏ qua literal quá ngắn
	MinLiteralLength int `json:"min_literal_length"`
	// Giới hạn số literal (nil = no limit)
	MaxLiterals *int `json:"max_literals"`
	// Công tắc tổng
	Enabled bool `json:"enabled"`
}

func DefaultPrefilterConfig() PrefilterConfig {
	max := 1000
	return PrefilterConfig{
		// Step text thường viết hoa tùy nghi ("Given I have" / "given i have")
		CaseInsensitive:  true,
		MinLiteralLength: 3,
		MaxLiterals:      &max,
		Enabled:          true,
	}
}

func DisabledPrefilterConfig() PrefilterConfig {
	cfg := DefaultPrefilterConfig()
	cfg.Enabled = false
	return cfg
}

// -------------------- Prefilter --------------------

type LiteralPrefilter struct {
	// Automaton AC (nil nếu không có literal)
	ac *ac.AhoCorasick
	// Toàn bộ literal (giữ nguyên raw để debug/hiển thị)
	literals []string
	// Map: chỉ số literal (theo mảng literals) -> danh sách definition dùng literal
	literalToDefs map[int][]ir.DefinitionId
	// true nếu MỌI definition đều đóng góp ít nhất 1 literal; chỉ khi đó
	// "không khớp literal nào" mới suy ra được "không definition nào khớp"
	covered bool
	// Thống kê
	stats PrefilterStats
	// Cấu hình đã dùng để build
	cfg PrefilterConfig
}

func (p *LiteralPrefilter) Stats() PrefilterStats { return p.stats }

// Covered báo prefilter có thể dùng làm cổng loại trừ hay không.
func (p *LiteralPrefilter) Covered() bool { return p.covered }

func (p *LiteralPrefilter) Literals() []string {
	return append([]string(nil), p.literals...)
}

// -------------------- Builder nội bộ --------------------

type literalBuilder struct {
	cfg PrefilterConfig

	// Dedupe theo "literal key" (phân biệt hoa/thường tùy CaseInsensitive)
	dedupe map[string]int // key -> index in combined
	// Mảng literal raw (đưa vào AC theo thứ tự đã push)
	combined []string
	// Mapping từ chỉ số combined -> các DefinitionId
	literalToDefs map[int][]ir.DefinitionId

	definitionCount int
	coveredDefs     int
}

func newLiteralBuilder(cfg PrefilterConfig) *literalBuilder {
	return &literalBuilder{
		cfg:           cfg,
		dedupe:        make(map[string]int),
		combined:      make([]string, 0),
		literalToDefs: make(map[int][]ir.DefinitionId),
	}
}

func (lb *literalBuilder) keyFor(literal string) string {
	if lb.cfg.CaseInsensitive {
		return strings.ToLower(literal)
	}
	return literal
}

// addDefinition đưa các literal bắt buộc của một definition vào automaton.
// Trả về true nếu definition đóng góp được ít nhất 1 literal.
func (lb *literalBuilder) addDefinition(defID ir.DefinitionId, literals []string) bool {
	lb.definitionCount++

	contributed := false
	for _, lit := range literals {
		lit = strings.TrimSpace(lit)
		if len(lit) < lb.cfg.MinLiteralLength {
			continue
		}
		key := lb.keyFor(lit)

		idx, ok := lb.dedupe[key]
		if !ok {
			// enforce max literals nếu có
			if lb.cfg.MaxLiterals != nil && len(lb.combined) >= *lb.cfg.MaxLiterals {
				continue
			}
			idx = len(lb.combined)
			lb.combined = append(lb.combined, lit)
			lb.dedupe[key] = idx
		}
		lb.literalToDefs[idx] = append(lb.literalToDefs[idx], defID)
		contributed = true
	}
	if contributed {
		lb.coveredDefs++
	}
	return contributed
}

func (lb *literalBuilder) build(covered bool) *LiteralPrefilter {
	total := len(lb.combined)

	stats := PrefilterStats{
		LiteralCount:         total,
		DefinitionCount:      lb.definitionCount,
		CoveredDefinitions:   lb.coveredDefs,
		EstimatedSelectivity: estimateSelectivity(total),
		MemoryUsage:          estimateMemoryUsage(total),
	}

	var automaton *ac.AhoCorasick
	if lb.cfg.Enabled && total > 0 {
		opts := ac.Opts{
			AsciiCaseInsensitive: lb.cfg.CaseInsensitive,
			MatchKind:            ac.LeftMostLongestMatch,
		}
		builder := ac.NewAhoCorasickBuilder(opts)
		acBuilt := builder.Build(lb.combined) // index pattern của AC == index trong combined
		automaton = &acBuilt
	}

	return &LiteralPrefilter{
		ac:            automaton,
		literals:      append([]string(nil), lb.combined...),
		literalToDefs: lb.literalToDefs,
		covered:       covered && automaton != nil,
		stats:         stats,
		cfg:           lb.cfg,
	}
}

// -------------------- Build --------------------

// buildPrefilter quét literal bắt buộc của từng definition và đóng gói
// thành automaton. Definition không có literal nào (pattern toàn wildcard)
// làm mất tính "covered": prefilter lúc đó chỉ còn giá trị thống kê.
func buildPrefilter(defs []*stepdef.Definition, cfg PrefilterConfig) *LiteralPrefilter {
	if !cfg.Enabled {
		return &LiteralPrefilter{
			literalToDefs: map[int][]ir.DefinitionId{},
			stats:         PrefilterStats{EstimatedSelectivity: 1.0},
			cfg:           cfg,
		}
	}

	lb := newLiteralBuilder(cfg)
	covered := true
	for i, d := range defs {
		if !lb.addDefinition(ir.DefinitionId(i), d.Literals()) {
			covered = false
		}
	}
	return lb.build(covered)
}

// -------------------- Public API --------------------

// HasMatch: fast path boolean, true nếu text chứa ít nhất 1 literal.
func (p *LiteralPrefilter) HasMatch(text string) bool {
	if p.stats.LiteralCount == 0 || p.ac == nil {
		return false
	}
	return len(p.ac.FindAll(text)) > 0
}

// FindMatches trả về danh sách match (debug/analysis).
func (p *LiteralPrefilter) FindMatches(text string) []PrefilterMatch {
	out := make([]PrefilterMatch, 0)
	if p.stats.LiteralCount == 0 || p.ac == nil {
		return out
	}
	for _, m := range p.ac.FindAll(text) {
		idx := m.Pattern()
		lit := ""
		if idx >= 0 && idx < len(p.literals) {
			lit = p.literals[idx]
		}
		ids := p.literalToDefs[idx]
		out = append(out, PrefilterMatch{
			Literal:       lit,
			Start:         m.Start(),
			End:           m.End(),
			DefinitionIDs: append([]ir.DefinitionId(nil), ids...),
		})
	}
	return out
}

// -------------------- Helpers --------------------

type PrefilterMatch struct {
	Literal       string            `json:"literal"`
	Start         int               `json:"start"`
	End           int               `json:"end"`
	DefinitionIDs []ir.DefinitionId `json:"definition_ids"`
}

func (m PrefilterMatch) Len() int      { return m.End - m.Start }
func (m PrefilterMatch) IsEmpty() bool { return m.Start == m.End }
func (m PrefilterMatch) MatchedText(src string) (string, bool) {
	if m.Start < 0 || m.End > len(src) || m.Start > m.End {
		return "", false
	}
	return src[m.Start:m.End], true
}

func estimateSelectivity(literalCount int) float64 {
	switch {
	case literalCount == 0:
		return 1.0
	case literalCount >= 50:
		return 0.05
	case literalCount >= 20:
		return 0.10
	case literalCount >= 10:
		return 0.20
	case literalCount >= 5:
		return 0.40
	default:
		return 0.70
	}
}

func estimateMemoryUsage(literalCount int) int {
	stateCount := literalCount * 2
	transitionOverhead := stateCount * 256
	stateOverhead := stateCount * 32
	literalOverhead := literalCount * 20
	return literalOverhead + transitionOverhead + stateOverhead
}
