// Package store handles SQLite persistence of random draws.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/primedial/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for draw history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS draws (
			id INTEGER PRIMARY KEY,
			range_min INTEGER NOT NULL,
			range_max INTEGER NOT NULL,
			value INTEGER NOT NULL,
			drawn_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_draws_drawn_at ON draws(drawn_at);`,
		`CREATE INDEX IF NOT EXISTS idx_draws_range ON draws(range_min, range_max);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertDraw records a random pick and returns its id.
func (s *Store) InsertDraw(ctx context.Context, draw model.Draw) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO draws (range_min, range_max, value, drawn_at) VALUES (?, ?, ?, ?)`,
		draw.Min,
		draw.Max,
		draw.Value,
		draw.DrawnAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListDraws returns draws matching filter, oldest first. When filter.Last is
// positive only the most recent Last draws are returned.
func (s *Store) ListDraws(ctx context.Context, filter model.HistoryFilter) ([]model.Draw, error) {
	where, args := filterClauses(filter)
	query := fmt.Sprintf(`SELECT id, range_min, range_max, value, drawn_at
		FROM draws
		WHERE %s
		ORDER BY drawn_at DESC, id DESC`, where)
	if filter.Last > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Last)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var draws []model.Draw
	for rows.Next() {
		var d model.Draw
		var drawnAt string
		if err := rows.Scan(&d.ID, &d.Min, &d.Max, &d.Value, &drawnAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, drawnAt)
		if err != nil {
			return nil, err
		}
		d.DrawnAt = parsed
		draws = append(draws, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, j := 0, len(draws)-1; i < j; i, j = i+1, j-1 {
		draws[i], draws[j] = draws[j], draws[i]
	}
	return draws, nil
}

// DrawCounts aggregates how often each value was drawn, most frequent first.
func (s *Store) DrawCounts(ctx context.Context, filter model.HistoryFilter) ([]model.DrawCount, error) {
	where, args := filterClauses(filter)
	query := fmt.Sprintf(`SELECT value, COUNT(*) AS n
		FROM draws
		WHERE %s
		GROUP BY value
		ORDER BY n DESC, value ASC`, where)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var counts []model.DrawCount
	for rows.Next() {
		var c model.DrawCount
		if err := rows.Scan(&c.Value, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

func filterClauses(filter model.HistoryFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Range != nil {
		clauses = append(clauses, "range_min = ?", "range_max = ?")
		args = append(args, filter.Range.Min, filter.Range.Max)
	}
	if filter.Since != nil {
		clauses = append(clauses, "drawn_at >= ?")
		args = append(args, filter.Since.UTC().Format(timeLayout))
	}
	return strings.Join(clauses, " AND "), args
}
