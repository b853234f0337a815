package recorder

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists ranking history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ranking_runs (
			id        TEXT PRIMARY KEY,
			timestamp INTEGER NOT NULL,
			target    TEXT NOT NULL,
			policy    TEXT NOT NULL,
			lookback  INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_target ON ranking_runs(target, policy, timestamp)`,

		`CREATE TABLE IF NOT EXISTS ranking_results (
			run_id     TEXT NOT NULL REFERENCES ranking_runs(id),
			position   INTEGER NOT NULL,
			ticker     TEXT NOT NULL,
			pearson    REAL,
			similarity REAL,
			PRIMARY KEY (run_id, position)
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRanking stores a run and its results in one transaction. A missing RunID or
// timestamp is filled in.
func (r *SQLiteRecorder) RecordRanking(snap *RankingSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if snap.RunID == "" {
		snap.RunID = uuid.NewString()
	}
	if snap.At.IsZero() {
		snap.At = time.Now()
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO ranking_runs (id, timestamp, target, policy, lookback) VALUES (?,?,?,?,?)`,
		snap.RunID, snap.At.UnixNano(), strings.ToUpper(snap.Target), snap.Policy, snap.Lookback,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	for i, res := range snap.Results {
		if _, err := tx.Exec(`INSERT INTO ranking_results (run_id, position, ticker, pearson, similarity) VALUES (?,?,?,?,?)`,
			snap.RunID, i, res.Ticker, res.Pearson, res.Similarity,
		); err != nil {
			return fmt.Errorf("insert result: %w", err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) LastRanking(target, policy string) ([]string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var runID string
	err := r.db.QueryRow(`SELECT id FROM ranking_runs WHERE target = ? AND policy = ?
		ORDER BY timestamp DESC LIMIT 1`, strings.ToUpper(target), policy).Scan(&runID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query last run: %w", err)
	}

	rows, err := r.db.Query(`SELECT ticker FROM ranking_results WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, false, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	tickers := []string{}
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, false, err
		}
		tickers = append(tickers, t)
	}
	return tickers, true, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
