package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultListLimit caps ListGenerations when no limit is given.
const DefaultListLimit = 20

// Generation is one recorded catalog outcome.
type Generation struct {
	ID              int64
	RunID           string
	Catalog         string
	OutputPath      string
	State           string
	Entries         int
	ArchivesSkipped int
	ErrorMessage    string
	StartedAt       time.Time
	FinishedAt      time.Time
}

// Duration returns how long the generation took.
func (g Generation) Duration() time.Duration {
	if g.StartedAt.IsZero() || g.FinishedAt.Before(g.StartedAt) {
		return 0
	}
	return g.FinishedAt.Sub(g.StartedAt)
}

const generationColumns = "id, run_id, catalog, output_path, state, entries, archives_skipped, error_message, started_at, finished_at"

// RecordGeneration inserts gen and returns its assigned identifier.
func (s *Store) RecordGeneration(ctx context.Context, gen Generation) (int64, error) {
	if strings.TrimSpace(gen.RunID) == "" {
		return 0, errors.New("record generation: run id is required")
	}
	if strings.TrimSpace(gen.Catalog) == "" {
		return 0, errors.New("record generation: catalog is required")
	}
	if gen.FinishedAt.IsZero() {
		gen.FinishedAt = time.Now()
	}
	if gen.StartedAt.IsZero() {
		gen.StartedAt = gen.FinishedAt
	}

	res, err := s.exec(ctx,
		`INSERT INTO generations (
            run_id, catalog, output_path, state, entries, archives_skipped,
            error_message, started_at, finished_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		gen.RunID,
		gen.Catalog,
		nullableString(gen.OutputPath),
		gen.State,
		gen.Entries,
		gen.ArchivesSkipped,
		nullableString(gen.ErrorMessage),
		formatTime(gen.StartedAt),
		formatTime(gen.FinishedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("insert generation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// ListGenerations returns the most recent generations, newest first. A
// non-positive limit selects DefaultListLimit.
func (s *Store) ListGenerations(ctx context.Context, limit int) ([]Generation, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+generationColumns+` FROM generations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list generations: %w", err)
	}
	defer rows.Close()
	return collectGenerations(rows)
}

// ListRun returns the generations recorded for one run, in insertion order.
func (s *Store) ListRun(ctx context.Context, runID string) ([]Generation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+generationColumns+` FROM generations WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list run: %w", err)
	}
	defer rows.Close()
	return collectGenerations(rows)
}

func collectGenerations(rows *sql.Rows) ([]Generation, error) {
	var out []Generation
	for rows.Next() {
		gen, err := scanGeneration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan generation: %w", err)
		}
		out = append(out, gen)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate generations: %w", err)
	}
	return out, nil
}

func scanGeneration(scanner interface{ Scan(dest ...any) error }) (Generation, error) {
	var (
		gen         Generation
		outputPath  sql.NullString
		errorMsg    sql.NullString
		startedRaw  string
		finishedRaw string
	)
	if err := scanner.Scan(
		&gen.ID,
		&gen.RunID,
		&gen.Catalog,
		&outputPath,
		&gen.State,
		&gen.Entries,
		&gen.ArchivesSkipped,
		&errorMsg,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return Generation{}, err
	}
	gen.OutputPath = outputPath.String
	gen.ErrorMessage = errorMsg.String
	if t, err := parseTimeString(startedRaw); err == nil {
		gen.StartedAt = t
	}
	if t, err := parseTimeString(finishedRaw); err == nil {
		gen.FinishedAt = t
	}
	return gen, nil
}
