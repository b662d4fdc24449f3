package scores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"
)

// Leaderboard runs ranking queries over one or more history parquet files
// with an in-memory DuckDB.
type Leaderboard struct {
	db *sql.DB
}

type Entry struct {
	Rank       int
	GameID     string
	Variant    string
	Difficulty string
	Score      int
	Length     int
	Ticks      int64
	Outcome    string
	EndedAtNs  int64
}

type Summary struct {
	Games            int64
	Best             int
	Average          float64
	BestByDifficulty map[string]int
}

// OpenLeaderboard creates a view over the given history files. Missing files
// are skipped; ErrNoHistory is returned when none exist.
func OpenLeaderboard(paths ...string) (*Leaderboard, error) {
	arr := make([]string, 0, len(paths))
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			continue
		}
		arr = append(arr, "'"+escapeSQLString(p)+"'")
	}
	if len(arr) == 0 {
		return nil, ErrNoHistory
	}

	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, err
	}
	_, _ = db.Exec("PRAGMA threads=2")

	sqlText := "CREATE OR REPLACE VIEW games AS SELECT * FROM read_parquet([" + strings.Join(arr, ",") + "], union_by_name=true)"
	if _, err := db.Exec(sqlText); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create games view: %w", err)
	}
	return &Leaderboard{db: db}, nil
}

func (l *Leaderboard) Close() error { return l.db.Close() }

// Top returns the n best games. Ties go to the shorter game, then the
// earlier finish.
func (l *Leaderboard) Top(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}
	rows, err := l.db.QueryContext(ctx, `
		SELECT game_id, variant, difficulty, score, length, ticks, outcome, ended_at_ns
		FROM games
		ORDER BY score DESC, ticks ASC, ended_at_ns ASC
		LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query top: %w", err)
	}
	defer rows.Close()

	out := make([]Entry, 0, n)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.GameID, &e.Variant, &e.Difficulty, &e.Score, &e.Length, &e.Ticks, &e.Outcome, &e.EndedAtNs); err != nil {
			return nil, fmt.Errorf("scan top: %w", err)
		}
		e.Rank = len(out) + 1
		out = append(out, e)
	}
	return out, rows.Err()
}

func (l *Leaderboard) Summary(ctx context.Context) (Summary, error) {
	var s Summary
	var best sql.NullInt64
	var avg sql.NullFloat64
	if err := l.db.QueryRowContext(ctx, `SELECT COUNT(*), MAX(score), AVG(score) FROM games`).Scan(&s.Games, &best, &avg); err != nil {
		return Summary{}, fmt.Errorf("query summary: %w", err)
	}
	s.Best = int(best.Int64)
	s.Average = avg.Float64

	rows, err := l.db.QueryContext(ctx, `SELECT difficulty, MAX(score) FROM games GROUP BY difficulty ORDER BY difficulty`)
	if err != nil {
		return Summary{}, fmt.Errorf("query difficulty: %w", err)
	}
	defer rows.Close()

	s.BestByDifficulty = make(map[string]int)
	for rows.Next() {
		var d string
		var v int
		if err := rows.Scan(&d, &v); err != nil {
			return Summary{}, fmt.Errorf("scan difficulty: %w", err)
		}
		s.BestByDifficulty[d] = v
	}
	return s, rows.Err()
}

func escapeSQLString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// FileRanker answers Top by opening a fresh leaderboard per call, so every
// query sees games appended since the last one.
type FileRanker struct {
	Paths []string
}

func (f FileRanker) Top(ctx context.Context, n int) ([]Entry, error) {
	lb, err := OpenLeaderboard(f.Paths...)
	if errors.Is(err, ErrNoHistory) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer lb.Close()
	return lb.Top(ctx, n)
}
