// ABOUTME: SQLite implementation of ObservationStore using modernc.org/sqlite
// ABOUTME: Reads the master_plan table; creates it empty if the database is new

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements ObservationStore over the master_plan table
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

const observationColumns = `id, start_time_utc, duration, date, team, spass_type, target,
	request_name, library_definition, title, description`

// NewSQLiteStore opens the master plan database at the given path.
// The table and its indexes are created if they don't exist so a fresh
// database opens cleanly. Parent directories are created if needed.
// A nil logger falls back to slog.Default.
func NewSQLiteStore(path string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if path == ":memory:" {
		// Each pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the master_plan table if it doesn't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS master_plan (
			id                 INTEGER PRIMARY KEY,
			start_time_utc     TEXT NOT NULL,
			duration           TEXT,
			date               TEXT,
			team               TEXT,
			spass_type         TEXT,
			target             TEXT,
			request_name       TEXT,
			library_definition TEXT,
			title              TEXT,
			description        TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_date ON master_plan(date);
		CREATE INDEX IF NOT EXISTS idx_spass_type ON master_plan(spass_type);
		CREATE INDEX IF NOT EXISTS idx_target ON master_plan(target);
		CREATE INDEX IF NOT EXISTS idx_team ON master_plan(team);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// GetAll returns every observation ordered by id
func (s *SQLiteStore) GetAll(ctx context.Context) ([]*Observation, error) {
	query := `SELECT ` + observationColumns + ` FROM master_plan ORDER BY id`
	return s.queryObservations(ctx, query)
}

// GetByID retrieves a single observation
func (s *SQLiteStore) GetByID(ctx context.Context, id int) (*Observation, error) {
	query := `SELECT ` + observationColumns + ` FROM master_plan WHERE id = ?`

	obs, err := scanObservation(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying observation %d: %w", id, err)
	}
	return obs, nil
}

// GetByTeam returns observations whose team equals team exactly
func (s *SQLiteStore) GetByTeam(ctx context.Context, team string) ([]*Observation, error) {
	query := `SELECT ` + observationColumns + ` FROM master_plan WHERE team = ? ORDER BY id`
	return s.queryObservations(ctx, query, team)
}

// GetByTarget returns observations whose target equals target exactly
func (s *SQLiteStore) GetByTarget(ctx context.Context, target string) ([]*Observation, error) {
	query := `SELECT ` + observationColumns + ` FROM master_plan WHERE target = ? ORDER BY id`
	return s.queryObservations(ctx, query, target)
}

// Count returns the total number of observations
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM master_plan`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting observations: %w", err)
	}
	return n, nil
}

// Insert adds observations. The tools never write; this exists for loading
// datasets and for tests.
func (s *SQLiteStore) Insert(ctx context.Context, observations ...*Observation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO master_plan (`+observationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range observations {
		_, err := stmt.ExecContext(ctx,
			o.ID, o.StartTimeUTC, o.Duration, o.Date, o.Team, o.SpassType, o.Target,
			o.RequestName, o.LibraryDefinition, o.Title, o.Description,
		)
		if err != nil {
			return fmt.Errorf("inserting observation %d: %w", o.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing insert: %w", err)
	}
	return nil
}

func (s *SQLiteStore) queryObservations(ctx context.Context, query string, args ...any) ([]*Observation, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying observations: %w", err)
	}
	defer rows.Close()

	var observations []*Observation
	for rows.Next() {
		obs, err := scanObservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning observation: %w", err)
		}
		observations = append(observations, obs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating observations: %w", err)
	}

	return observations, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanObservation(row scanner) (*Observation, error) {
	var (
		obs                                                   Observation
		duration, date, team, spassType, target, requestName sql.NullString
		libraryDefinition, title, description                 sql.NullString
	)

	err := row.Scan(
		&obs.ID, &obs.StartTimeUTC, &duration, &date, &team, &spassType, &target,
		&requestName, &libraryDefinition, &title, &description,
	)
	if err != nil {
		return nil, err
	}

	obs.Duration = nullable(duration)
	obs.Date = nullable(date)
	obs.Team = nullable(team)
	obs.SpassType = nullable(spassType)
	obs.Target = nullable(target)
	obs.RequestName = nullable(requestName)
	obs.LibraryDefinition = nullable(libraryDefinition)
	obs.Title = nullable(title)
	obs.Description = nullable(description)

	return &obs, nil
}

func nullable(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
