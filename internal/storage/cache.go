// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/Andriykkk/ai-cli/internal/api"
)

// Schema mirrors the server's chat_history table. Record ids are the
// server's, so (project_id, id) is the natural key for upserts.
const Schema = `
CREATE TABLE IF NOT EXISTS chat_history (
    id INTEGER NOT NULL,
    project_id INTEGER NOT NULL,
    message TEXT NOT NULL,
    response TEXT NOT NULL,
    timestamp TEXT NOT NULL,
    PRIMARY KEY (project_id, id)
);

CREATE INDEX IF NOT EXISTS idx_chat_history_project ON chat_history(project_id);
`

// HistoryCache is the offline mirror of fetched history records.
type HistoryCache struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the cache database at path.
func Open(path string) (*HistoryCache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}

	return &HistoryCache{db: db, path: path}, nil
}

// Close releases the database.
func (c *HistoryCache) Close() error {
	return c.db.Close()
}

// Path returns the database file location.
func (c *HistoryCache) Path() string {
	return c.path
}

// Mirror upserts freshly fetched records for one project. The server copy
// is authoritative, so existing rows are replaced.
func (c *HistoryCache) Mirror(projectID int, records []api.HistoryRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin cache transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO chat_history (id, project_id, message, response, timestamp)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.Exec(rec.ID, projectID, rec.Message, rec.Response, rec.Timestamp); err != nil {
			return fmt.Errorf("failed to upsert record %d: %w", rec.ID, err)
		}
	}
	return tx.Commit()
}

// ProjectHistory returns cached records for one project in server order.
// limit <= 0 returns everything.
func (c *HistoryCache) ProjectHistory(projectID, limit int) ([]api.HistoryRecord, error) {
	query := `
		SELECT id, project_id, message, response, timestamp
		FROM chat_history WHERE project_id = ? ORDER BY id`
	args := []interface{}{projectID}
	if limit > 0 {
		// Keep the most recent rows when limiting.
		query = `
			SELECT id, project_id, message, response, timestamp FROM (
				SELECT id, project_id, message, response, timestamp
				FROM chat_history WHERE project_id = ? ORDER BY id DESC LIMIT ?
			) ORDER BY id`
		args = append(args, limit)
	}

	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cache: %w", err)
	}
	defer rows.Close()

	var records []api.HistoryRecord
	for rows.Next() {
		var rec api.HistoryRecord
		if err := rows.Scan(&rec.ID, &rec.ProjectID, &rec.Message, &rec.Response, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan cached record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear removes one project's cached records, mirroring a server-side
// history clear.
func (c *HistoryCache) Clear(projectID int) (int, error) {
	result, err := c.db.Exec("DELETE FROM chat_history WHERE project_id = ?", projectID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cache: %w", err)
	}
	n, _ := result.RowsAffected()
	return int(n), nil
}

// Count returns the number of cached records for one project.
func (c *HistoryCache) Count(projectID int) (int, error) {
	var n int
	err := c.db.QueryRow("SELECT COUNT(*) FROM chat_history WHERE project_id = ?", projectID).Scan(&n)
	return n, err
}
