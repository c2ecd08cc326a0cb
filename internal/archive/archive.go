package archive

import (
	"database/sql"
	"fmt"
	"strings"

	"carevoice/internal/models"
)

// Archive wraps the database connection with dialect support
type Archive struct {
	db      *sql.DB
	dialect Dialect
}

// Open creates the archive connection for the given database type (sqlite,
// postgres, or mysql) and ensures the archived events table exists.
func Open(archiveType string, cfg DialectConfig) (*Archive, error) {
	var dialect Dialect

	switch strings.ToLower(archiveType) {
	case "postgres", "postgresql":
		dialect = NewPostgresDialect()
	case "mysql":
		dialect = NewMySQLDialect()
	case "sqlite", "sqlite3", "":
		dialect = NewSQLiteDialect()
	default:
		return nil, fmt.Errorf("unsupported archive type: %s", archiveType)
	}

	db, err := sql.Open(dialect.DriverName(), dialect.DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping archive: %w", err)
	}

	if err := dialect.ConfigureConnection(db); err != nil {
		return nil, fmt.Errorf("failed to configure archive connection: %w", err)
	}

	if _, err := db.Exec(dialect.CreateTableQuery()); err != nil {
		return nil, fmt.Errorf("failed to create archive table: %w", err)
	}

	return &Archive{db: db, dialect: dialect}, nil
}

// Close closes the archive connection
func (a *Archive) Close() error {
	return a.db.Close()
}

// Store inserts events dropped by a prune pass.
func (a *Archive) Store(events []models.Event) error {
	if len(events) == 0 {
		return nil
	}

	query := a.dialect.RewriteQuery(`
		INSERT INTO archived_events (ts, source, button, language, text, device_id, user_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)

	tx, err := a.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin archive transaction: %w", err)
	}

	for _, evt := range events {
		if _, err := tx.Exec(query, evt.TS, evt.Source, evt.Button, evt.Language, evt.Text, evt.DeviceID, evt.UserID); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to archive event: %w", err)
		}
	}

	return tx.Commit()
}

// EventsForUser returns archived events for a user, newest first, up to limit.
func (a *Archive) EventsForUser(userID string, limit int) ([]models.Event, error) {
	query := a.dialect.RewriteQuery(`
		SELECT ts, source, button, language, text, device_id, user_id
		FROM archived_events
		WHERE user_id = ?
		ORDER BY ts DESC
		LIMIT ?
	`)

	rows, err := a.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query archive: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var evt models.Event
		if err := rows.Scan(&evt.TS, &evt.Source, &evt.Button, &evt.Language, &evt.Text, &evt.DeviceID, &evt.UserID); err != nil {
			return nil, fmt.Errorf("failed to scan archived event: %w", err)
		}
		events = append(events, evt)
	}

	return events, rows.Err()
}

// Count returns the total number of archived events.
func (a *Archive) Count() (int64, error) {
	var count int64
	err := a.db.QueryRow("SELECT COUNT(*) FROM archived_events").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count archived events: %w", err)
	}
	return count, nil
}
