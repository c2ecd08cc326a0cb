package archive

import (
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLDialect implements Dialect for MySQL
type MySQLDialect struct{}

// NewMySQLDialect creates a new MySQL dialect
func NewMySQLDialect() *MySQLDialect {
	return &MySQLDialect{}
}

func (d *MySQLDialect) DriverName() string {
	return "mysql"
}

func (d *MySQLDialect) DSN(config DialectConfig) string {
	return config.URL
}

func (d *MySQLDialect) RewriteQuery(query string) string {
	// MySQL uses ? placeholders like SQLite, no rewrite needed
	return query
}

func (d *MySQLDialect) ConfigureConnection(db *sql.DB) error {
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)
	return nil
}

func (d *MySQLDialect) CreateTableQuery() string {
	return `
		CREATE TABLE IF NOT EXISTS archived_events (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			ts VARCHAR(19) NOT NULL,
			source VARCHAR(16) NOT NULL,
			button VARCHAR(16) NOT NULL,
			language VARCHAR(8) NOT NULL,
			text TEXT NOT NULL,
			device_id VARCHAR(128) NOT NULL,
			user_id VARCHAR(64) NOT NULL,
			archived_at DATETIME(6) DEFAULT CURRENT_TIMESTAMP(6)
		);
	`
}
