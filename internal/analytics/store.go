// Package analytics records privacy-conscious visitor and puzzle statistics.
//
// Client IPs are never stored: they are hashed with a per-process salt, so a
// visitor is only recognisable within one server run.
package analytics

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Visit is one tracked page view.
type Visit struct {
	ID        int       `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// Solve is one completed puzzle round.
type Solve struct {
	SessionID string    `json:"session_id"`
	Level     int       `json:"level"`
	Nodes     int       `json:"nodes"`
	Edges     int       `json:"edges"`
	Moves     int       `json:"moves"`
	Timestamp time.Time `json:"timestamp"`
}

// LevelStat counts solves of one level.
type LevelStat struct {
	Level    int     `json:"level"`
	Solves   int64   `json:"solves"`
	AvgMoves float64 `json:"avg_moves"`
}

// Stats is the admin dashboard summary.
type Stats struct {
	TotalVisitors    int64       `json:"total_visitors"`
	UniqueVisitors   int64       `json:"unique_visitors"`
	VisitorsToday    int64       `json:"visitors_today"`
	VisitorsThisWeek int64       `json:"visitors_this_week"`
	TotalSolves      int64       `json:"total_solves"`
	SolvesByLevel    []LevelStat `json:"solves_by_level"`
	RecentVisitors   []Visit     `json:"recent_visitors"`
}

// Store is a SQLite-backed analytics store.
type Store struct {
	db   *sql.DB
	salt string
	now  func() time.Time
}

// Open opens (creating if needed) the analytics database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	salt, err := randomHex(32)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("generating salt: %w", err)
	}

	s := &Store{db: db, salt: salt, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS visitors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		hashed_ip TEXT NOT NULL,
		user_agent TEXT,
		path TEXT,
		timestamp DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS solves (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		level INTEGER NOT NULL,
		nodes INTEGER NOT NULL,
		edges INTEGER NOT NULL,
		moves INTEGER NOT NULL,
		timestamp DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_visitors_timestamp ON visitors(timestamp);
	CREATE INDEX IF NOT EXISTS idx_solves_level ON solves(level);
	`
	_, err := s.db.Exec(schema)
	return err
}

// HashIP returns a short salted hash of ip, stable for this store's lifetime.
func (s *Store) HashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + s.salt))
	return hex.EncodeToString(sum[:])[:16]
}

// RecordVisit stores a page view under the hashed client IP.
func (s *Store) RecordVisit(ctx context.Context, ip, userAgent, path string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO visitors (hashed_ip, user_agent, path, timestamp)
		VALUES (?, ?, ?, ?)
	`, s.HashIP(ip), userAgent, path, s.now().UTC())
	if err != nil {
		return fmt.Errorf("recording visit: %w", err)
	}
	return nil
}

// RecordSolve stores a completed puzzle round.
func (s *Store) RecordSolve(ctx context.Context, solve Solve) error {
	if solve.Timestamp.IsZero() {
		solve.Timestamp = s.now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO solves (session_id, level, nodes, edges, moves, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`, solve.SessionID, solve.Level, solve.Nodes, solve.Edges, solve.Moves, solve.Timestamp.UTC())
	if err != nil {
		return fmt.Errorf("recording solve: %w", err)
	}
	return nil
}

// Cleanup deletes visits older than maxAge and returns how many were removed.
func (s *Store) Cleanup(ctx context.Context, maxAge time.Duration) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM visitors WHERE timestamp < ?`, s.now().Add(-maxAge).UTC())
	if err != nil {
		return 0, fmt.Errorf("cleaning up visitors: %w", err)
	}
	return result.RowsAffected()
}

// RecentVisitors returns the newest visits first.
func (s *Store) RecentVisitors(ctx context.Context, limit int) ([]Visit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), timestamp
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying visitors: %w", err)
	}
	defer rows.Close()

	var visits []Visit
	for rows.Next() {
		var v Visit
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &v.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning visitor: %w", err)
		}
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

// Stats gathers the dashboard summary.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{today}},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{now.Add(-7 * 24 * time.Hour)}},
		{&stats.TotalSolves, `SELECT COUNT(*) FROM solves`, nil},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("counting: %w", err)
		}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT level, COUNT(*), AVG(moves)
		FROM solves
		GROUP BY level
		ORDER BY level
	`)
	if err != nil {
		return nil, fmt.Errorf("querying solves: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ls LevelStat
		if err := rows.Scan(&ls.Level, &ls.Solves, &ls.AvgMoves); err != nil {
			return nil, fmt.Errorf("scanning solves: %w", err)
		}
		stats.SolvesByLevel = append(stats.SolvesByLevel, ls)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stats.RecentVisitors, err = s.RecentVisitors(ctx, 50)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
