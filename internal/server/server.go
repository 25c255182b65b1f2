package server

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/google/uuid"

	ir "github.com/PhucNguyen204/BDD_V1/engine_steps_by_golang"
	"github.com/PhucNguyen204/BDD_V1/engine_steps_by_golang/registry"
	"github.com/PhucNguyen204/BDD_V1/internal/features"
)

// AppServer exposes the step engine over HTTP: match dry-runs, definition
// listing, usage recording and coverage reports. db may be nil, in which
// case usage endpoints report 503.
type AppServer struct {
	db     *sql.DB
	engine *registry.Engine
	mu     sync.RWMutex // protects engine swap
}

func NewAppServer(db *sql.DB, engine *registry.Engine) *AppServer {
	return &AppServer{db: db, engine: engine}
}

// RegisterRoutes wires HTTP handlers.
func (s *AppServer) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/v1/stats", s.handleStats)
	mux.HandleFunc("/api/v1/definitions", s.handleDefinitions)
	mux.HandleFunc("/api/v1/match", s.handleMatch)
	mux.HandleFunc("/api/v1/usage", s.handleUsage)
	mux.HandleFunc("/api/v1/coverage", s.handleCoverage)
}

func (s *AppServer) currentEngine() *registry.Engine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// SwapEngine replaces the live engine (suite reload).
func (s *AppServer) SwapEngine(e *registry.Engine) {
	s.mu.Lock()
	s.engine = e
	s.mu.Unlock()
}

// ---- Handlers ----

func (s *AppServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *AppServer) handleStats(w http.ResponseWriter, r *http.Request) {
	type statsResp struct {
		TextsEvaluated       uint64 `json:"texts_evaluated"`
		ExpressionsEvaluated uint64 `json:"expressions_evaluated"`
		PrefilterHits        uint64 `json:"prefilter_hits"`
		PrefilterMisses      uint64 `json:"prefilter_misses"`
		DefinitionCount      int    `json:"definition_count"`
		PrefilterLiterals    int    `json:"prefilter_literals"`
		PrefilterSummary     string `json:"prefilter_summary"`
	}
	eng := s.currentEngine()
	es := eng.Stats()
	ps := eng.PrefilterStats()
	writeJSON(w, http.StatusOK, statsResp{
		TextsEvaluated:       es.TextsEvaluated,
		ExpressionsEvaluated: es.ExpressionsEvaluated,
		PrefilterHits:        es.PrefilterHits,
		PrefilterMisses:      es.PrefilterMisses,
		DefinitionCount:      eng.Len(),
		PrefilterLiterals:    ps.LiteralCount,
		PrefilterSummary:     ps.PerformanceSummary(),
	})
}

type definitionView struct {
	Source     string        `json:"source"`
	Dialect    string        `json:"dialect"`
	Location   string        `json:"location"`
	Descriptor ir.Descriptor `json:"descriptor"`
}

func (s *AppServer) handleDefinitions(w http.ResponseWriter, r *http.Request) {
	eng := s.currentEngine()
	out := []definitionView{}
	for _, d := range eng.Definitions() {
		out = append(out, definitionView{
			Source:     d.Source(),
			Dialect:    d.Expression().Dialect().String(),
			Location:   d.FileColonLine(),
			Descriptor: d.Descriptor(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleMatch: dry-run match một loạt step text, không invoke handler.
// POST body: { texts: [...], run_id: "...", record: true }
func (s *AppServer) handleMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Texts  []string `json:"texts"`
		RunID  string   `json:"run_id"`
		Record bool     `json:"record"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid JSON: %w", err))
		return
	}
	if len(req.Texts) == 0 {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("texts must not be empty"))
		return
	}
	if req.Record && s.db == nil {
		writeErr(w, http.StatusServiceUnavailable, fmt.Errorf("usage recording requires a database"))
		return
	}
	runID := req.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	type matchView struct {
		Text     string   `json:"text"`
		Matched  bool     `json:"matched"`
		Source   string   `json:"source,omitempty"`
		Location string   `json:"location,omitempty"`
		Args     []ir.Arg `json:"args,omitempty"`
		Error    string   `json:"error,omitempty"`
	}

	eng := s.currentEngine()
	out := make([]matchView, 0, len(req.Texts))
	for _, item := range eng.FindBatch(req.Texts) {
		mv := matchView{Text: item.Text}
		rec := usageRecord{RunID: runID, StepText: item.Text}
		if item.Err != nil {
			mv.Error = item.Err.Error()
		} else {
			mv.Matched = true
			mv.Source = item.Result.Definition.Source()
			mv.Location = item.Result.Definition.FileColonLine()
			mv.Args = item.Result.Args
			rec.Matched = true
			rec.Source = mv.Source
			rec.Location = mv.Location
			if b, err := json.Marshal(item.Result.Args); err == nil {
				rec.Args = string(b)
			}
		}
		if req.Record {
			if err := s.insertUsage(r.Context(), rec); err != nil {
				log.Printf("insert usage: %v", err)
			}
		}
		out = append(out, mv)
	}
	writeJSON(w, http.StatusOK, map[string]any{"run_id": runID, "results": out})
}

func (s *AppServer) handleUsage(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeErr(w, http.StatusServiceUnavailable, fmt.Errorf("usage store not configured"))
		return
	}
	q := r.URL.Query()
	limit := 200
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}
	rows, err := s.listUsage(r.Context(), q.Get("run_id"), limit)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// handleCoverage: POST { root: "features/" } — quét feature files, match
// từng step, báo step chưa có definition + hit count theo definition.
func (s *AppServer) handleCoverage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Root string `json:"root"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid JSON: %w", err))
		return
	}
	if req.Root == "" {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("root must not be empty"))
		return
	}
	steps, err := features.LoadDirRecursive(req.Root)
	if err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("load features: %w", err))
		return
	}

	type undefinedView struct {
		File string `json:"file"`
		Line int    `json:"line"`
		Text string `json:"text"`
	}
	eng := s.currentEngine()
	hits := map[string]int{}
	undefined := []undefinedView{}
	for _, st := range steps {
		res, err := eng.Find(st.Text)
		if err != nil {
			undefined = append(undefined, undefinedView{File: st.File, Line: st.Line, Text: st.Text})
			continue
		}
		hits[res.Definition.Source()]++
	}

	type coverageView struct {
		Source string `json:"source"`
		Hits   int    `json:"hits"`
	}
	covered := []coverageView{}
	unused := []coverageView{}
	for _, d := range eng.Definitions() {
		cv := coverageView{Source: d.Source(), Hits: hits[d.Source()]}
		if cv.Hits > 0 {
			covered = append(covered, cv)
		} else {
			unused = append(unused, cv)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"steps_total": len(steps),
		"matched":     len(steps) - len(undefined),
		"undefined":   undefined,
		"covered":     covered,
		"unused":      unused,
	})
}

// ---- Helpers ----

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writeJSON error: %v", err)
	}
}

func writeErr(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]any{"error": err.Error()})
}
