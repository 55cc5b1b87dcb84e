package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	dbpkg "github.com/EvanFarrier/Timekeep/server/internal/db"
	"github.com/EvanFarrier/Timekeep/server/internal/timeclock/store"
)

type HeartbeatStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewHeartbeatStore(db *sql.DB, writer *dbpkg.Worker) *HeartbeatStore {
	return &HeartbeatStore{db: db, writer: writer}
}

func (s *HeartbeatStore) RecordHeartbeat(ctx context.Context, deviceName string, rec store.HeartbeatRecord) error {
	deviceName = strings.TrimSpace(deviceName)
	if deviceName == "" {
		return nil
	}

	if rec.ReceivedAt.IsZero() {
		rec.ReceivedAt = time.Now().UTC()
	}
	recvMs := rec.ReceivedAt.UTC().UnixMilli()

	fw := strings.TrimSpace(rec.Request.FirmwareVersion)
	ip := strings.TrimSpace(rec.Request.IP)

	// UptimeSeconds -> uptime_ms
	uptimeMs := any(nil)
	if rec.Request.UptimeSeconds != 0 {
		uptimeMs = int64(rec.Request.UptimeSeconds) * 1000
	}

	var enrolled any
	if rec.Request.EnrolledUsers != nil {
		enrolled = *rec.Request.EnrolledUsers
	}

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := ensureDevice(ctx, tx, deviceName, recvMs); err != nil {
			return err
		}

		// Insert heartbeat event (append-only)
		if _, err := tx.ExecContext(ctx, `
INSERT INTO device_heartbeats(
  device_name, received_at_ms, uptime_ms, fw_version, ip, enrolled_users
) VALUES (?, ?, ?, ?, ?, ?);
`, deviceName, recvMs, uptimeMs, fw, ip, enrolled); err != nil {
			return fmt.Errorf("RecordHeartbeat insert heartbeat: %w", err)
		}

		// Update device snapshot (fast "current status" queries)
		if _, err := tx.ExecContext(ctx, `
UPDATE devices
SET last_seen_at_ms = ?,
    last_ip = ?,
    last_fw_version = ?,
    updated_at_ms = ?
WHERE device_name = ?;
`, recvMs, ip, fw, recvMs, deviceName); err != nil {
			return fmt.Errorf("RecordHeartbeat update device snapshot: %w", err)
		}

		return nil
	})
}

// PruneOlderThan deletes heartbeat rows with received_at_ms before the given
// cutoff time.  Returns the number of rows deleted.
//
// Uses the idx_device_heartbeats_time index for an efficient range scan.
func (s *HeartbeatStore) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	cutoffMs := cutoff.UTC().UnixMilli()

	var deleted int64
	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
DELETE FROM device_heartbeats
WHERE received_at_ms < ?;
`, cutoffMs)
		if err != nil {
			return fmt.Errorf("PruneOlderThan: %w", err)
		}
		deleted, _ = res.RowsAffected()
		return nil
	})
	return deleted, err
}
