package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"pcprep/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  variant TEXT NOT NULL,
  inputPath TEXT NOT NULL,
  inputHash TEXT NOT NULL,
  outputPath TEXT NOT NULL,
  status TEXT NOT NULL,
  timingsJson TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_runs_variant ON runs(variant);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) InsertRun(run internal.RunRecord) error {
	timingsJSON, _ := json.Marshal(run.Timings)
	countsJSON, _ := json.Marshal(run.Stats)
	_, err := d.conn.Exec(`
INSERT INTO runs (traceId, variant, inputPath, inputHash, outputPath, status, timingsJson, countsJson)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.TraceID, run.Variant, run.InputPath, run.InputHash, run.OutputPath, run.Status,
		string(timingsJSON), string(countsJSON))
	return err
}

func (d *DB) ListRuns(limit int) ([]internal.RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.conn.Query(`
SELECT id, traceId, variant, inputPath, inputHash, outputPath, status, timingsJson, countsJson, createdAt
FROM runs
ORDER BY id DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.RunRecord
	for rows.Next() {
		var run internal.RunRecord
		var timingsJSON, countsJSON string
		if err := rows.Scan(
			&run.ID, &run.TraceID, &run.Variant, &run.InputPath, &run.InputHash, &run.OutputPath,
			&run.Status, &timingsJSON, &countsJSON, &run.CreatedAt,
		); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(timingsJSON), &run.Timings)
		_ = json.Unmarshal([]byte(countsJSON), &run.Stats)
		out = append(out, run)
	}

	return out, rows.Err()
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}
