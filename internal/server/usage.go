package server

import (
	"context"
	"fmt"
	"time"
)

// usageRecord là một dòng ghi nhận match: step text nào chạy trong run nào,
// khớp definition nào (nếu có).
type usageRecord struct {
	ID         int64     `json:"id,omitempty"`
	RunID      string    `json:"run_id"`
	RecordedAt time.Time `json:"recorded_at"`
	StepText   string    `json:"step_text"`
	Matched    bool      `json:"matched"`
	Source     string    `json:"definition_source,omitempty"`
	Location   string    `json:"definition_location,omitempty"`
	Args       string    `json:"args,omitempty"` // JSON của []Arg
}

func (s *AppServer) insertUsage(ctx context.Context, rec usageRecord) error {
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO step_usage(run_id, recorded_at, step_text, matched, definition_source, definition_location, args)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		rec.RunID, rec.RecordedAt, rec.StepText, rec.Matched, rec.Source, rec.Location, rec.Args,
	)
	return err
}

func (s *AppServer) listUsage(ctx context.Context, runID string, limit int) ([]usageRecord, error) {
	query := `SELECT id, run_id, recorded_at, step_text, matched, definition_source, definition_location, args
		FROM step_usage`
	args := []any{}
	if runID != "" {
		query += ` WHERE run_id = $1`
		args = append(args, runID)
	}
	query += fmt.Sprintf(` ORDER BY id DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []usageRecord{}
	for rows.Next() {
		var rec usageRecord
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.RecordedAt, &rec.StepText, &rec.Matched, &rec.Source, &rec.Location, &rec.Args); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
