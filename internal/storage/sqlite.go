// Package storage provides SQLite-based persistence for finished runs and
// death events. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// DeathCause tells a deadly contact from a fall off the board.
type DeathCause string

const (
	CauseDeadly  DeathCause = "deadly"
	CauseFellOut DeathCause = "fell_out"
)

// RunEntry represents one finished level.
type RunEntry struct {
	ID         int64
	LevelID    string
	Player     string // Local user or SSH user name
	Difficulty string
	Attempts   int
	Deaths     int
	Elapsed    time.Duration
	CreatedAt  time.Time
}

// DeathEntry represents a single death.
type DeathEntry struct {
	LevelID string
	Player  string
	Cause   DeathCause
	X, Y    float64
}

// LevelStats contains aggregated statistics for a level.
type LevelStats struct {
	LevelID      string
	Runs         int
	BestAttempts int
	BestElapsed  time.Duration
	Deaths       int
	LastPlayed   time.Time
}

const timeLayout = "2006-01-02 15:04:05"

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level_id TEXT NOT NULL,
			player TEXT NOT NULL DEFAULT '',
			difficulty TEXT NOT NULL DEFAULT 'normal',
			attempts INTEGER NOT NULL,
			deaths INTEGER NOT NULL,
			elapsed_ms INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_level_id ON runs(level_id);
		CREATE INDEX IF NOT EXISTS idx_runs_best ON runs(level_id, attempts, elapsed_ms);

		CREATE TABLE IF NOT EXISTS deaths (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level_id TEXT NOT NULL,
			player TEXT NOT NULL DEFAULT '',
			cause TEXT NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_deaths_level_id ON deaths(level_id, cause);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a finished level. Returns the ID of the inserted record.
func (s *Store) SaveRun(r RunEntry) (int64, error) {
	if r.Difficulty == "" {
		r.Difficulty = "normal"
	}
	result, err := s.db.Exec(
		`INSERT INTO runs (level_id, player, difficulty, attempts, deaths, elapsed_ms)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.LevelID, r.Player, r.Difficulty, r.Attempts, r.Deaths, r.Elapsed.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// BestRuns retrieves the best N runs for a level: fewest attempts first,
// then fastest.
func (s *Store) BestRuns(levelID string, limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT id, level_id, player, difficulty, attempts, deaths, elapsed_ms, created_at
		 FROM runs
		 WHERE level_id = ?
		 ORDER BY attempts ASC, elapsed_ms ASC, id ASC
		 LIMIT ?`,
		levelID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	return scanRuns(rows)
}

// RecentRuns retrieves the most recent runs across all levels.
func (s *Store) RecentRuns(limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, level_id, player, difficulty, attempts, deaths, elapsed_ms, created_at
		 FROM runs
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	return scanRuns(rows)
}

// BestRun returns the best run for a level, or nil if it was never finished.
func (s *Store) BestRun(levelID string) (*RunEntry, error) {
	runs, err := s.BestRuns(levelID, 1)
	if err != nil || len(runs) == 0 {
		return nil, err
	}
	return &runs[0], nil
}

func scanRuns(rows *sql.Rows) ([]RunEntry, error) {
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		var e RunEntry
		var elapsedMS int64
		var createdAt any
		if err := rows.Scan(&e.ID, &e.LevelID, &e.Player, &e.Difficulty, &e.Attempts, &e.Deaths, &elapsedMS, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// SaveDeath records one death event.
func (s *Store) SaveDeath(d DeathEntry) error {
	if d.Cause != CauseDeadly && d.Cause != CauseFellOut {
		return fmt.Errorf("storage: unknown death cause %q", d.Cause)
	}
	_, err := s.db.Exec(
		"INSERT INTO deaths (level_id, player, cause, x, y) VALUES (?, ?, ?, ?, ?)",
		d.LevelID, d.Player, string(d.Cause), d.X, d.Y,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save death: %w", err)
	}
	return nil
}

// DeathCounts returns the number of deaths per cause for a level.
func (s *Store) DeathCounts(levelID string) (map[DeathCause]int, error) {
	rows, err := s.db.Query(
		"SELECT cause, COUNT(*) FROM deaths WHERE level_id = ? GROUP BY cause",
		levelID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query deaths: %w", err)
	}
	defer rows.Close()

	counts := make(map[DeathCause]int)
	for rows.Next() {
		var cause string
		var n int
		if err := rows.Scan(&cause, &n); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		counts[DeathCause(cause)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return counts, nil
}

// LevelStats retrieves aggregated statistics for a level.
func (s *Store) LevelStats(levelID string) (*LevelStats, error) {
	stats := &LevelStats{LevelID: levelID}

	var bestMS int64
	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MIN(attempts), 0), COALESCE(MIN(elapsed_ms), 0), MAX(created_at)
		 FROM runs WHERE level_id = ?`,
		levelID,
	).Scan(&stats.Runs, &stats.BestAttempts, &bestMS, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get level stats: %w", err)
	}
	stats.BestElapsed = time.Duration(bestMS) * time.Millisecond
	stats.LastPlayed = parseTime(lastPlayed)

	err = s.db.QueryRow("SELECT COUNT(*) FROM deaths WHERE level_id = ?", levelID).Scan(&stats.Deaths)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot count deaths: %w", err)
	}
	return stats, nil
}

// AllLevelStats retrieves statistics for every level with a finished run.
func (s *Store) AllLevelStats() (map[string]*LevelStats, error) {
	rows, err := s.db.Query(
		`SELECT r.level_id, COUNT(*), MIN(r.attempts), MIN(r.elapsed_ms), MAX(r.created_at),
		        (SELECT COUNT(*) FROM deaths d WHERE d.level_id = r.level_id)
		 FROM runs r
		 GROUP BY r.level_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all level stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*LevelStats)
	for rows.Next() {
		var st LevelStats
		var bestMS int64
		var lastPlayed any
		if err := rows.Scan(&st.LevelID, &st.Runs, &st.BestAttempts, &bestMS, &lastPlayed, &st.Deaths); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.BestElapsed = time.Duration(bestMS) * time.Millisecond
		st.LastPlayed = parseTime(lastPlayed)
		stats[st.LevelID] = &st
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

// ClearRuns deletes all runs and deaths for the given level.
func (s *Store) ClearRuns(levelID string) error {
	if _, err := s.db.Exec("DELETE FROM runs WHERE level_id = ?", levelID); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM deaths WHERE level_id = ?", levelID); err != nil {
		return fmt.Errorf("storage: cannot clear deaths: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse(timeLayout, v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
