package archive

import "testing"

func TestDialectSQLite(t *testing.T) {
	dialect := NewSQLiteDialect()

	if got := dialect.DriverName(); got != "sqlite3" {
		t.Errorf("DriverName() = %v, want sqlite3", got)
	}

	query := "SELECT * FROM archived_events WHERE user_id = ? AND button = ?"
	if got := dialect.RewriteQuery(query); got != query {
		t.Errorf("RewriteQuery() should not rewrite for sqlite, got %v", got)
	}

	if got := dialect.DSN(DialectConfig{Path: "./archive.db"}); got != "./archive.db" {
		t.Errorf("DSN() = %v, want ./archive.db", got)
	}
}

func TestDialectPostgres(t *testing.T) {
	dialect := NewPostgresDialect()

	if got := dialect.DriverName(); got != "postgres" {
		t.Errorf("DriverName() = %v, want postgres", got)
	}

	query := "INSERT INTO archived_events (ts, user_id) VALUES (?, ?)"
	want := "INSERT INTO archived_events (ts, user_id) VALUES ($1, $2)"
	if got := dialect.RewriteQuery(query); got != want {
		t.Errorf("RewriteQuery() = %v, want %v", got, want)
	}
}

func TestDialectMySQL(t *testing.T) {
	dialect := NewMySQLDialect()

	if got := dialect.DriverName(); got != "mysql" {
		t.Errorf("DriverName() = %v, want mysql", got)
	}

	query := "SELECT COUNT(*) FROM archived_events WHERE user_id = ?"
	if got := dialect.RewriteQuery(query); got != query {
		t.Errorf("RewriteQuery() should not rewrite for mysql, got %v", got)
	}
}
