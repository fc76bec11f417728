// Package persistence provides a SQLite ledger of search run summaries.
// Grids themselves are never stored.
package persistence

import (
	"database/sql"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/hexpath/internal/search"
	"github.com/talgya/hexpath/internal/world"
)

// DB wraps a SQLite connection for the run ledger.
type DB struct {
	conn *sqlx.DB
}

// RunRecord is one finished search as stored in the ledger.
type RunRecord struct {
	ID        uuid.UUID
	Algorithm string // Algorithm key: ucs, greedy, astar
	Shape     string
	Width     int
	Height    int
	Seed      int64
	Reached   bool
	Cost      float64 // +Inf when the goal was not reached
	PathLen   int
	Visited   int
	Frontier  int
	CreatedAt time.Time
}

// runRow is the column mapping of the runs table.
type runRow struct {
	ID        string          `db:"id"`
	Algorithm string          `db:"algorithm"`
	Shape     string          `db:"shape"`
	Width     int             `db:"width"`
	Height    int             `db:"height"`
	Seed      int64           `db:"seed"`
	Reached   bool            `db:"reached"`
	Cost      sql.NullFloat64 `db:"cost"`
	PathLen   int             `db:"path_len"`
	Visited   int             `db:"visited"`
	Frontier  int             `db:"frontier"`
	CreatedAt int64           `db:"created_at"`
}

// NewRunRecord summarizes a finished trace searched over g.
func NewRunRecord(tr search.Trace, g *world.Grid, seed int64) RunRecord {
	return RunRecord{
		ID:        tr.RunID,
		Algorithm: tr.Algorithm.Key(),
		Shape:     g.Shape.String(),
		Width:     g.Dims.Width,
		Height:    g.Dims.Height,
		Seed:      seed,
		Reached:   tr.Result.Reached,
		Cost:      tr.Result.Cost,
		PathLen:   len(tr.Result.Path),
		Visited:   tr.Stats.Visited,
		Frontier:  tr.Stats.Frontier,
		CreatedAt: time.Now(),
	}
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		algorithm TEXT NOT NULL,
		shape TEXT NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		reached INTEGER NOT NULL,
		cost REAL,
		path_len INTEGER NOT NULL,
		visited INTEGER NOT NULL,
		frontier INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS ledger_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_algorithm ON runs(algorithm);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

const insertRun = `INSERT OR REPLACE INTO runs
	(id, algorithm, shape, width, height, seed, reached, cost,
	 path_len, visited, frontier, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// SaveRun writes a single run.
func (db *DB) SaveRun(r RunRecord) error {
	row := toRow(r)
	_, err := db.conn.Exec(insertRun,
		row.ID, row.Algorithm, row.Shape, row.Width, row.Height, row.Seed,
		row.Reached, row.Cost, row.PathLen, row.Visited, row.Frontier, row.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", r.ID, err)
	}
	return nil
}

// SaveRuns writes a batch of runs in one transaction.
func (db *DB) SaveRuns(runs []RunRecord) error {
	if len(runs) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(insertRun)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range runs {
		row := toRow(r)
		_, err := stmt.Exec(
			row.ID, row.Algorithm, row.Shape, row.Width, row.Height, row.Seed,
			row.Reached, row.Cost, row.PathLen, row.Visited, row.Frontier, row.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert run %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("runs saved", "count", len(runs))
	return nil
}

// RecentRuns returns the most recent runs, newest first.
func (db *DB) RecentRuns(limit int) ([]RunRecord, error) {
	var rows []runRow
	err := db.conn.Select(&rows,
		"SELECT * FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	return fromRows(rows)
}

// RunsByAlgorithm returns every run of one algorithm, oldest first.
func (db *DB) RunsByAlgorithm(alg search.Algorithm) ([]RunRecord, error) {
	var rows []runRow
	err := db.conn.Select(&rows,
		"SELECT * FROM runs WHERE algorithm = ? ORDER BY created_at, rowid",
		alg.Key(),
	)
	if err != nil {
		return nil, err
	}
	return fromRows(rows)
}

// SaveMeta stores a key-value pair in ledger metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO ledger_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM ledger_meta WHERE key = ?", key)
	return value, err
}

func toRow(r RunRecord) runRow {
	row := runRow{
		ID:        r.ID.String(),
		Algorithm: r.Algorithm,
		Shape:     r.Shape,
		Width:     r.Width,
		Height:    r.Height,
		Seed:      r.Seed,
		Reached:   r.Reached,
		PathLen:   r.PathLen,
		Visited:   r.Visited,
		Frontier:  r.Frontier,
		CreatedAt: r.CreatedAt.UnixNano(),
	}
	// SQLite has no infinity literal; an unreachable goal is stored as NULL.
	if !math.IsInf(r.Cost, 0) && !math.IsNaN(r.Cost) {
		row.Cost = sql.NullFloat64{Float64: r.Cost, Valid: true}
	}
	return row
}

func fromRows(rows []runRow) ([]RunRecord, error) {
	out := make([]RunRecord, 0, len(rows))
	for _, row := range rows {
		id, err := uuid.Parse(row.ID)
		if err != nil {
			return nil, fmt.Errorf("run id %q: %w", row.ID, err)
		}
		cost := math.Inf(1)
		if row.Cost.Valid {
			cost = row.Cost.Float64
		}
		out = append(out, RunRecord{
			ID:        id,
			Algorithm: row.Algorithm,
			Shape:     row.Shape,
			Width:     row.Width,
			Height:    row.Height,
			Seed:      row.Seed,
			Reached:   row.Reached,
			Cost:      cost,
			PathLen:   row.PathLen,
			Visited:   row.Visited,
			Frontier:  row.Frontier,
			CreatedAt: time.Unix(0, row.CreatedAt),
		})
	}
	return out, nil
}
