package server

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Schema mặc định khi không có thư mục migrations.
const defaultSchema = `
CREATE TABLE IF NOT EXISTS step_usage (
	id BIGSERIAL PRIMARY KEY,
	run_id TEXT NOT NULL,
	recorded_at TIMESTAMPTZ NOT NULL,
	step_text TEXT NOT NULL,
	matched BOOLEAN NOT NULL,
	definition_source TEXT NOT NULL DEFAULT '',
	definition_location TEXT NOT NULL DEFAULT '',
	args TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS step_usage_run_idx ON step_usage (run_id);
CREATE INDEX IF NOT EXISTS step_usage_source_idx ON step_usage (definition_source)
`

// InitSchema chạy migrations nếu có (STEPS_MIGRATIONS_PATH hoặc ./migrations),
// không thì exec schema mặc định.
func (s *AppServer) InitSchema() error {
	candidates := []string{}
	if mp := os.Getenv("STEPS_MIGRATIONS_PATH"); mp != "" {
		candidates = append(candidates, mp)
	}
	candidates = append(candidates, "./migrations")
	for _, p := range candidates {
		if _, statErr := os.Stat(p); statErr != nil {
			continue
		}
		return s.RunMigrations(p)
	}
	return s.execStatements(defaultSchema)
}

// RunMigrations executes all SQL files in the given directory in lexicographic order.
// Each file may contain multiple statements separated by ';'.
func (s *AppServer) RunMigrations(dir string) error {
	entries := make([]string, 0)
	walkFn := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(strings.ToLower(d.Name()), ".sql") {
			entries = append(entries, path)
		}
		return nil
	}
	if err := filepath.WalkDir(dir, walkFn); err != nil {
		return err
	}
	sort.Strings(entries)
	for _, p := range entries {
		b, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", p, err)
		}
		if err := s.execStatements(string(b)); err != nil {
			return fmt.Errorf("exec migration %s: %w", p, err)
		}
	}
	return nil
}

// execStatements tách theo ';' rồi exec từng câu, bỏ chunk rỗng.
func (s *AppServer) execStatements(sqlText string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, c := range strings.Split(sqlText, ";") {
		stmt := strings.TrimSpace(c)
		if stmt == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
