// Package store persists classified sensor readings in an append-only
// SQLite relation ordered by an autoincrement id.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/couchcryptid/flood-watch/internal/domain"
	_ "github.com/mattn/go-sqlite3"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS sensor_data (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp TEXT NOT NULL,
	flow_rate REAL NOT NULL,
	water_level REAL NOT NULL,
	rain_level REAL NOT NULL,
	risk TEXT NOT NULL
);`

// SQLiteStore implements the pipeline's Store seam on a local SQLite file.
type SQLiteStore struct {
	db   *sql.DB
	Path string
}

// Open creates or opens the database at path and bootstraps the schema.
// An empty path defaults to data/flood_data.db. The busy timeout makes
// concurrent inserts queue on SQLite's write lock instead of failing.
func Open(path string) (*SQLiteStore, error) {
	if path == "" {
		dir := "data"
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
		path = filepath.Join(dir, "flood_data.db")
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create sensor_data table: %w", err)
	}

	return &SQLiteStore{db: db, Path: path}, nil
}

// Insert appends a record and returns its assigned id. Ids are strictly
// increasing and unique across concurrent writers; records are never
// updated or deleted afterward.
func (s *SQLiteStore) Insert(ctx context.Context, rec domain.SensorRecord) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sensor_data (timestamp, flow_rate, water_level, rain_level, risk)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.Timestamp, rec.FlowRate, rec.WaterLevel, rec.RainLevel, string(rec.Risk),
	)
	if err != nil {
		return 0, fmt.Errorf("insert sensor record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted id: %w", err)
	}
	return id, nil
}

// Recent returns the limit most-recently-inserted records, reordered so the
// oldest of the window comes first (append-friendly for time-series charts).
// Every committed Insert is visible to a subsequent Recent call.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]domain.SensorRecord, error) {
	if limit < 1 {
		return nil, fmt.Errorf("recent: limit must be >= 1, got %d", limit)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, timestamp, flow_rate, water_level, rain_level, risk
		 FROM sensor_data ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent records: %w", err)
	}
	defer rows.Close()

	var records []domain.SensorRecord
	for rows.Next() {
		var rec domain.SensorRecord
		var risk string
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &rec.FlowRate, &rec.WaterLevel, &rec.RainLevel, &risk); err != nil {
			return nil, fmt.Errorf("scan sensor record: %w", err)
		}
		rec.Risk = domain.Risk(risk)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sensor records: %w", err)
	}

	// The query walks newest-first for the LIMIT; reverse to oldest-first.
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

// CheckReadiness pings the database, wired to the readiness endpoint.
func (s *SQLiteStore) CheckReadiness(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
