package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type SeedDevOptions struct {
	// Optional: pre-commission these devices so dev punches register as known.
	KnownDevices []string
}

func SeedDev(ctx context.Context, db *sql.DB, opt SeedDevOptions) error {
	now := time.Now().UTC().UnixMilli()

	// Minimal "starter reader"
	if _, err := db.ExecContext(ctx, `
INSERT INTO devices(device_name, enabled, commissioned_at_ms, created_at_ms, updated_at_ms)
VALUES ('reader-lobby', 1, ?, ?, ?)
ON CONFLICT(device_name) DO UPDATE SET
  enabled = 1,
  commissioned_at_ms = COALESCE(devices.commissioned_at_ms, excluded.commissioned_at_ms),
  updated_at_ms = excluded.updated_at_ms;
`, now, now, now); err != nil {
		return fmt.Errorf("seed device reader-lobby: %w", err)
	}

	for _, name := range opt.KnownDevices {
		if name == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, `
INSERT INTO devices(device_name, enabled, commissioned_at_ms, created_at_ms, updated_at_ms)
VALUES (?, 1, ?, ?, ?)
ON CONFLICT(device_name) DO UPDATE SET
  enabled = 1,
  commissioned_at_ms = COALESCE(devices.commissioned_at_ms, excluded.commissioned_at_ms),
  updated_at_ms = excluded.updated_at_ms;
`, name, now, now, now); err != nil {
			return fmt.Errorf("seed device %s: %w", name, err)
		}
	}

	// A couple of enrolled users so boundary queries have profiles to join.
	seedUsers := []struct {
		deviceUserID int64
		first, last  string
	}{
		{1001, "Ada", "Moreno"},
		{1002, "Ben", "Castillo"},
	}
	for _, u := range seedUsers {
		if _, err := db.ExecContext(ctx, `
INSERT INTO users(device_user_id, first_name, last_name, timekeeper, created_at_ms, updated_at_ms)
VALUES (?, ?, ?, 1, ?, ?)
ON CONFLICT(device_user_id) DO UPDATE SET
  first_name = excluded.first_name,
  last_name = excluded.last_name,
  updated_at_ms = excluded.updated_at_ms;
`, u.deviceUserID, u.first, u.last, now, now); err != nil {
			return fmt.Errorf("seed user %d: %w", u.deviceUserID, err)
		}
	}

	return nil
}
