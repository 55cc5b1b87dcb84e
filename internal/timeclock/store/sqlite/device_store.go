package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	dbpkg "github.com/EvanFarrier/Timekeep/server/internal/db"
)

type DeviceStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewDeviceStore(db *sql.DB, writer *dbpkg.Worker) *DeviceStore {
	return &DeviceStore{db: db, writer: writer}
}

// IsKnown: a reader is "known" once it is commissioned and enabled.
// Readers appear in the table as soon as they first contact the server,
// but stay unknown until an admin commissions them.
func (s *DeviceStore) IsKnown(ctx context.Context, deviceName string) (bool, error) {
	deviceName = strings.TrimSpace(deviceName)
	if deviceName == "" {
		return false, nil
	}

	var enabled int
	var commissioned sql.NullInt64

	err := s.db.QueryRowContext(ctx, `
SELECT enabled, commissioned_at_ms
FROM devices
WHERE device_name = ?;
`, deviceName).Scan(&enabled, &commissioned)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("IsKnown query: %w", err)
	}

	return enabled == 1 && commissioned.Valid, nil
}

// MarkSeen: ensure the device row exists (even if unknown) and update last_seen.
func (s *DeviceStore) MarkSeen(ctx context.Context, deviceName string, _ bool, t time.Time) error {
	deviceName = strings.TrimSpace(deviceName)
	if deviceName == "" {
		return nil
	}
	if t.IsZero() {
		t = time.Now().UTC()
	}
	ms := t.UTC().UnixMilli()

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := ensureDevice(ctx, tx, deviceName, ms); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
UPDATE devices
SET last_seen_at_ms = ?,
    updated_at_ms   = ?
WHERE device_name = ?;
`, ms, ms, deviceName); err != nil {
			return fmt.Errorf("MarkSeen update device: %w", err)
		}

		return nil
	})
}
