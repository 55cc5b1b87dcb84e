package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	dbpkg "github.com/EvanFarrier/Timekeep/server/internal/db"
	"github.com/EvanFarrier/Timekeep/server/internal/timeclock/store"
	"github.com/EvanFarrier/Timekeep/server/internal/timeclock/types"
)

type PunchStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewPunchStore(db *sql.DB, writer *dbpkg.Worker) *PunchStore {
	return &PunchStore{db: db, writer: writer}
}

func (s *PunchStore) RecordPunch(ctx context.Context, rec store.PunchRecord) (store.PunchInsert, error) {
	if rec.PunchedAt.IsZero() {
		rec.PunchedAt = time.Now().UTC()
	}
	punchedMs := rec.PunchedAt.UTC().UnixMilli()
	nowMs := time.Now().UTC().UnixMilli()

	var out store.PunchInsert
	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := ensureDevice(ctx, tx, rec.DeviceName, nowMs); err != nil {
			return err
		}

		// Resolve the owning user from the device-side identifier.
		// NULL user_id is fine — the punch is still part of the audit log,
		// it just cannot contribute to a session until the user enrolls.
		var userID any
		var resolved int64
		err := tx.QueryRowContext(ctx, `
SELECT id FROM users WHERE device_user_id = ?;
`, rec.DeviceUserID).Scan(&resolved)
		switch {
		case err == sql.ErrNoRows:
			userID = nil
		case err != nil:
			return fmt.Errorf("RecordPunch resolve user: %w", err)
		default:
			userID = resolved
			out.UserID = &resolved
		}

		res, err := tx.ExecContext(ctx, `
INSERT INTO punch_events(
  user_id, device_user_id, punched_at_ms, state, type, device_name, created_at_ms
) VALUES (?, ?, ?, ?, ?, ?, ?);
`,
			userID, rec.DeviceUserID, punchedMs, rec.State, rec.Type, rec.DeviceName, nowMs,
		)
		if err != nil {
			return fmt.Errorf("RecordPunch insert: %w", err)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("RecordPunch last insert id: %w", err)
		}
		out.PunchID = id

		return nil
	})
	if err != nil {
		return store.PunchInsert{}, err
	}
	return out, nil
}

// QueryBoundaryPunches selects, per (user, UTC day) group inside the window,
// only the earliest and latest punch rows, joined with the user profile.
//
// The two-stage shape matters: bounds computes MIN/MAX per group over the
// windowed rows, edges pins each bound to a concrete row id (ties on the
// timestamp resolve to the lowest id for the opening punch and the highest
// for the closing one), and the outer select rehydrates those rows.  The
// store therefore ships at most 2 rows per group no matter how many taps a
// day recorded.
func (s *PunchStore) QueryBoundaryPunches(ctx context.Context, q store.BoundaryQuery) ([]store.BoundaryRow, error) {
	fromMs := q.DateFrom.UTC().UnixMilli()
	toMs := q.DateTo.UTC().AddDate(0, 0, 1).UnixMilli() // inclusive whole day

	dir := "DESC"
	if q.Direction == types.SortAsc {
		dir = "ASC"
	}

	args := []any{fromMs, toMs}
	userFilter := ""
	if len(q.UserIDs) > 0 {
		userFilter = "\n    AND user_id IN (?" + strings.Repeat(", ?", len(q.UserIDs)-1) + ")"
		for _, id := range q.UserIDs {
			args = append(args, id)
		}
	}

	query := fmt.Sprintf(`
WITH windowed AS (
  SELECT id, user_id, device_user_id, punched_at_ms, state, type, device_name,
         strftime('%%Y-%%m-%%d', punched_at_ms / 1000, 'unixepoch') AS day
  FROM punch_events
  WHERE punched_at_ms >= ? AND punched_at_ms < ?
    AND user_id IS NOT NULL%s
),
bounds AS (
  SELECT user_id, day,
         MIN(punched_at_ms) AS min_ms,
         MAX(punched_at_ms) AS max_ms
  FROM windowed
  GROUP BY user_id, day
),
edges AS (
  SELECT b.user_id, b.day,
         (SELECT MIN(w.id) FROM windowed w
           WHERE w.user_id = b.user_id AND w.day = b.day AND w.punched_at_ms = b.min_ms) AS first_id,
         (SELECT MAX(w.id) FROM windowed w
           WHERE w.user_id = b.user_id AND w.day = b.day AND w.punched_at_ms = b.max_ms) AS last_id
  FROM bounds b
)
SELECT w.id, w.user_id, w.device_user_id, w.punched_at_ms, w.day,
       w.state, w.type, w.device_name,
       u.first_name, u.last_name
FROM windowed w
JOIN edges e ON w.user_id = e.user_id AND w.day = e.day
            AND (w.id = e.first_id OR w.id = e.last_id)
JOIN users u ON u.id = w.user_id
ORDER BY w.punched_at_ms %s, LOWER(u.last_name) %s, LOWER(u.first_name) %s;
`, userFilter, dir, dir, dir)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("QueryBoundaryPunches query: %w", err)
	}
	defer rows.Close()

	var out []store.BoundaryRow
	for rows.Next() {
		var (
			r  store.BoundaryRow
			ms int64
		)
		if err := rows.Scan(
			&r.PunchID, &r.UserID, &r.DeviceUserID, &ms, &r.Day,
			&r.State, &r.Type, &r.DeviceName,
			&r.FirstName, &r.LastName,
		); err != nil {
			return nil, fmt.Errorf("QueryBoundaryPunches scan: %w", err)
		}
		r.Time = time.UnixMilli(ms).UTC()
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("QueryBoundaryPunches rows: %w", err)
	}
	return out, nil
}
