package sqlite_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/EvanFarrier/Timekeep/server/internal/db"
)

// openTestDB returns an in-memory SQLite connection with the same PRAGMAs
// and schema as production.  The connection is closed automatically when the
// test finishes.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// Each call gets a unique in-memory database.  The shared-cache URI
	// keeps the database alive for the lifetime of the connection pool
	// (important because sql.DB may close/reopen the underlying conn).
	dsn := fmt.Sprintf(
		"file:test_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)",
		t.Name(),
	)

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("openTestDB: sql.Open: %v", err)
	}

	// Match production: single connection for SQLite safety.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	if err := conn.Ping(); err != nil {
		conn.Close()
		t.Fatalf("openTestDB: ping: %v", err)
	}

	// Apply the same migrations as production.
	if err := db.Migrate(context.Background(), conn); err != nil {
		conn.Close()
		t.Fatalf("openTestDB: migrate: %v", err)
	}

	t.Cleanup(func() { conn.Close() })
	return conn
}

// newTestWriter returns a db.Worker backed by conn.  The worker is closed
// automatically when the test finishes.
func newTestWriter(t *testing.T, conn *sql.DB) *db.Worker {
	t.Helper()

	w := db.NewWorker(conn)
	t.Cleanup(func() { w.Close() })
	return w
}

// seedUser inserts an enrolled user and returns its row id.
func seedUser(t *testing.T, conn *sql.DB, deviceUserID int64, first, last string) int64 {
	t.Helper()

	nowMs := time.Now().UTC().UnixMilli()
	res, err := conn.ExecContext(context.Background(), `
INSERT INTO users(device_user_id, first_name, last_name, timekeeper, created_at_ms, updated_at_ms)
VALUES (?, ?, ?, 1, ?, ?);`, deviceUserID, first, last, nowMs, nowMs)
	if err != nil {
		t.Fatalf("seedUser(%d): %v", deviceUserID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("seedUser(%d) id: %v", deviceUserID, err)
	}
	return id
}

// seedPunch inserts a punch row directly, bypassing the store, so boundary
// query tests control the raw table contents exactly.
func seedPunch(t *testing.T, conn *sql.DB, userID any, deviceUserID int64, at time.Time, state string) int64 {
	t.Helper()

	nowMs := time.Now().UTC().UnixMilli()
	res, err := conn.ExecContext(context.Background(), `
INSERT INTO punch_events(user_id, device_user_id, punched_at_ms, state, type, device_name, created_at_ms)
VALUES (?, ?, ?, ?, 'fingerprint', 'reader-lobby', ?);`,
		userID, deviceUserID, at.UTC().UnixMilli(), state, nowMs)
	if err != nil {
		t.Fatalf("seedPunch(%d @ %s): %v", deviceUserID, at, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("seedPunch id: %v", err)
	}
	return id
}
