// Package sqlite implements the durable timetable store. The schema and the
// composite-key convention ("{namespace}_{id}") are fixed: existing data
// files must stay readable across versions.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// Store owns the database connection. Writes are expected from a single
// goroutine (the ingestion consumer); loads happen once at startup.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// Open opens (or creates) the database at path, enables WAL journal mode and
// applies the schema.
func Open(path string, log zerolog.Logger) (*Store, error) {
	// ensure parent directory exists to avoid SQLITE_CANTOPEN errors
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{db: db, log: log}
	if err := s.initTables(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) initTables() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS namespace(
			id TEXT NOT NULL PRIMARY KEY
		);`,
		`CREATE TABLE IF NOT EXISTS timetable(
			id TEXT NOT NULL PRIMARY KEY,
			timetable_id TEXT NOT NULL,
			name TEXT NOT NULL,
			variant TEXT NOT NULL,
			variant_value INTEGER,
			update_time INTEGER NOT NULL,
			namespace_id TEXT NOT NULL,
			FOREIGN KEY(namespace_id) REFERENCES namespace(id)
		);`,
		`CREATE TABLE IF NOT EXISTS activity(
			id TEXT NOT NULL PRIMARY KEY,
			activity_id TEXT NOT NULL,
			timetable_id TEXT NOT NULL,
			name TEXT NOT NULL,
			teacher TEXT,
			occurrence TEXT NOT NULL,
			occurrence_weekday INTEGER,
			occurrence_date TEXT,
			group_symbol TEXT NOT NULL,
			group_id TEXT NOT NULL,
			group_name TEXT NOT NULL,
			group_number TEXT,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			duration TEXT NOT NULL,
			room TEXT,
			FOREIGN KEY(timetable_id) REFERENCES timetable(id)
		);`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("init tables: %w", err)
		}
	}
	return nil
}
