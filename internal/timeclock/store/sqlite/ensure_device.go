package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// ensureDevice guarantees a devices row exists for the given name so that
// foreign-key constraints from heartbeats are satisfied and punches from
// not-yet-commissioned readers still land in the audit log.
//
// New rows start disabled and uncommissioned — only an admin action (or the
// dev seeder) should set enabled=1 and commissioned_at_ms.
//
// Must be called inside an existing transaction.
func ensureDevice(ctx context.Context, tx *sql.Tx, deviceName string, nowMs int64) error {
	if _, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO devices(
  device_name, enabled, created_at_ms, updated_at_ms
) VALUES (?, 0, ?, ?);
`, deviceName, nowMs, nowMs); err != nil {
		return fmt.Errorf("ensureDevice %s: %w", deviceName, err)
	}
	return nil
}
