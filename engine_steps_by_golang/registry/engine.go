package registry

import (
	"sync"

	ir "github.com/PhucNguyen204/BDD_V1/engine_steps_by_golang"
	"github.com/PhucNguyen204/BDD_V1/engine_steps_by_golang/stepdef"
)

// MatchResult: definition khớp + args đã trích theo thứ tự capture.
type MatchResult struct {
	Definition *stepdef.Definition
	Args       []ir.Arg
}

// BatchItem: kết quả match của một text trong FindBatch.
type BatchItem struct {
	Text   string
	Result *MatchResult
	Err    error
}

// EngineStats: bộ đếm tích lũy của engine.
type EngineStats struct {
	TextsEvaluated       uint64 `json:"texts_evaluated"`
	ExpressionsEvaluated uint64 `json:"expressions_evaluated"`
	PrefilterHits        uint64 `json:"prefilter_hits"`
	PrefilterMisses      uint64 `json:"prefilter_misses"`
}

// Engine là registry đã đóng băng: tập definition bất biến + prefilter.
// Match được gọi đồng thời an toàn; stats được bảo vệ bằng mutex riêng.
type Engine struct {
	cfg       ir.EngineConfig
	defs      []*stepdef.Definition
	prefilter *LiteralPrefilter

	mu    sync.Mutex
	stats EngineStats
}

func (e *Engine) Config() ir.EngineConfig { return e.cfg }

func (e *Engine) Len() int { return len(e.defs) }

// Definitions trả về snapshot slice (các phần tử dùng chung, bất biến).
func (e *Engine) Definitions() []*stepdef.Definition {
	return append([]*stepdef.Definition(nil), e.defs...)
}

func (e *Engine) Stats() EngineStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

func (e *Engine) PrefilterStats() PrefilterStats {
	return e.prefilter.Stats()
}

// Find tìm definition khớp text.
//
// Prefilter chỉ là cổng loại trừ: khi mọi definition đều đóng góp literal
// và text không chứa literal nào thì chắc chắn undefined, khỏi quét regex.
// Không bao giờ dùng prefilter để thu hẹp danh sách ứng viên — match
// LeftMostLongest không chồng lắp nên literal có thể bị literal dài hơn
// che mất.
//
// DetectAmbiguity bật: quét hết, >1 khớp -> AmbiguousStepError.
// Tắt: trả definition đầu tiên khớp theo thứ tự đăng ký.
func (e *Engine) Find(text string) (*MatchResult, error) {
	e.mu.Lock()
	e.stats.TextsEvaluated++
	e.mu.Unlock()

	if e.cfg.EnablePrefilter && e.prefilter.Covered() {
		if !e.prefilter.HasMatch(text) {
			e.mu.Lock()
			e.stats.PrefilterMisses++
			e.mu.Unlock()
			return nil, &UndefinedStepError{Text: text}
		}
		e.mu.Lock()
		e.stats.PrefilterHits++
		e.mu.Unlock()
	}

	var (
		first      *MatchResult
		candidates []string
		scanned    uint64
	)
	for _, d := range e.defs {
		scanned++
		args, ok, err := d.ArgumentsFrom(text)
		if err != nil {
			e.bumpScanned(scanned)
			return nil, err
		}
		if !ok {
			continue
		}
		if first == nil {
			first = &MatchResult{Definition: d, Args: args}
			if !e.cfg.DetectAmbiguity {
				break
			}
		}
		candidates = append(candidates, d.Source()+" ("+d.FileColonLine()+")")
	}
	e.bumpScanned(scanned)

	if first == nil {
		return nil, &UndefinedStepError{Text: text}
	}
	if e.cfg.DetectAmbiguity && len(candidates) > 1 {
		return nil, &AmbiguousStepError{Text: text, Candidates: candidates}
	}
	return first, nil
}

func (e *Engine) bumpScanned(n uint64) {
	e.mu.Lock()
	e.stats.ExpressionsEvaluated += n
	e.mu.Unlock()
}

// Run match rồi invoke luôn trên context đã cho.
func (e *Engine) Run(ctx *stepdef.Context, text string) (any, error) {
	res, err := e.Find(text)
	if err != nil {
		return nil, err
	}
	return res.Definition.Invoke(ctx, res.Args)
}

// FindBatch match một loạt text, trả kết quả theo thứ tự input.
// Batch size của config chỉ là gợi ý chia khối cho caller; ở đây quét thẳng.
func (e *Engine) FindBatch(texts []string) []BatchItem {
	out := make([]BatchItem, 0, len(texts))
	for _, t := range texts {
		res, err := e.Find(t)
		out = append(out, BatchItem{Text: t, Result: res, Err: err})
	}
	return out
}
