package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/EvanFarrier/Timekeep/server/internal/timeclock/store"
	sqlitestore "github.com/EvanFarrier/Timekeep/server/internal/timeclock/store/sqlite"
	"github.com/EvanFarrier/Timekeep/server/internal/timeclock/types"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ═══════════════════════════════════════════════════════════════════════════
// RecordPunch — user resolution
// ═══════════════════════════════════════════════════════════════════════════

func TestPunchStore_RecordPunch_ResolvesUser(t *testing.T) {
	conn := openTestDB(t)
	w := newTestWriter(t, conn)
	uid := seedUser(t, conn, 1001, "Ada", "Moreno")
	ps := sqlitestore.NewPunchStore(conn, w)

	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	ins, err := ps.RecordPunch(context.Background(), store.PunchRecord{
		DeviceUserID: 1001,
		PunchedAt:    at,
		State:        types.PunchStateCheckIn,
		Type:         types.PunchTypeFingerprint,
		DeviceName:   "reader-lobby",
	})
	if err != nil {
		t.Fatalf("RecordPunch: %v", err)
	}
	if ins.PunchID == 0 {
		t.Error("expected a punch id")
	}
	if ins.UserID == nil || *ins.UserID != uid {
		t.Errorf("expected user id %d, got %v", uid, ins.UserID)
	}

	var gotUser sql.NullInt64
	var gotMs int64
	err = conn.QueryRowContext(context.Background(),
		`SELECT user_id, punched_at_ms FROM punch_events WHERE id = ?`, ins.PunchID,
	).Scan(&gotUser, &gotMs)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if !gotUser.Valid || gotUser.Int64 != uid {
		t.Errorf("expected user_id=%d, got %v", uid, gotUser)
	}
	if gotMs != at.UnixMilli() {
		t.Errorf("expected punched_at_ms=%d, got %d", at.UnixMilli(), gotMs)
	}
}

func TestPunchStore_RecordPunch_UnknownUserKeepsRow(t *testing.T) {
	conn := openTestDB(t)
	w := newTestWriter(t, conn)
	ps := sqlitestore.NewPunchStore(conn, w)

	ins, err := ps.RecordPunch(context.Background(), store.PunchRecord{
		DeviceUserID: 9999,
		PunchedAt:    time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		State:        types.PunchStateCheckIn,
		Type:         types.PunchTypeCard,
		DeviceName:   "reader-lobby",
	})
	if err != nil {
		t.Fatalf("RecordPunch: %v", err)
	}
	if ins.UserID != nil {
		t.Errorf("expected nil user id, got %d", *ins.UserID)
	}

	var userID sql.NullInt64
	err = conn.QueryRowContext(context.Background(),
		`SELECT user_id FROM punch_events WHERE id = ?`, ins.PunchID,
	).Scan(&userID)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if userID.Valid {
		t.Error("expected user_id to be NULL")
	}
}

func TestPunchStore_RecordPunch_EnsuresDeviceRow(t *testing.T) {
	conn := openTestDB(t)
	w := newTestWriter(t, conn)
	ps := sqlitestore.NewPunchStore(conn, w)

	_, err := ps.RecordPunch(context.Background(), store.PunchRecord{
		DeviceUserID: 1001,
		PunchedAt:    time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		State:        types.PunchStateCheckIn,
		Type:         types.PunchTypeFingerprint,
		DeviceName:   "reader-new",
	})
	if err != nil {
		t.Fatalf("RecordPunch: %v", err)
	}

	var enabled int
	err = conn.QueryRowContext(context.Background(),
		`SELECT enabled FROM devices WHERE device_name = ?`, "reader-new",
	).Scan(&enabled)
	if err != nil {
		t.Fatalf("query device: %v", err)
	}
	if enabled != 0 {
		t.Errorf("expected new device to start disabled, got enabled=%d", enabled)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// QueryBoundaryPunches — boundary-row bound
// ═══════════════════════════════════════════════════════════════════════════

func TestQueryBoundaryPunches_AtMostTwoRowsPerDay(t *testing.T) {
	conn := openTestDB(t)
	uid := seedUser(t, conn, 1001, "Ada", "Moreno")

	// Six taps in one day; only the 08:00 and 19:30 rows may come back.
	d := day(2024, 3, 1)
	for _, hm := range []struct{ h, m int }{
		{8, 0}, {10, 15}, {12, 0}, {12, 45}, {17, 0}, {19, 30},
	} {
		seedPunch(t, conn, uid, 1001, d.Add(time.Duration(hm.h)*time.Hour+time.Duration(hm.m)*time.Minute), "check_in")
	}

	ps := sqlitestore.NewPunchStore(conn, newTestWriter(t, conn))
	rows, err := ps.QueryBoundaryPunches(context.Background(), store.BoundaryQuery{
		DateFrom: d, DateTo: d,
	})
	if err != nil {
		t.Fatalf("QueryBoundaryPunches: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 boundary rows, got %d", len(rows))
	}

	// Default direction is descending: latest first.
	if got := rows[0].Time.Format("15:04"); got != "19:30" {
		t.Errorf("expected first row 19:30, got %s", got)
	}
	if got := rows[1].Time.Format("15:04"); got != "08:00" {
		t.Errorf("expected second row 08:00, got %s", got)
	}
}

func TestQueryBoundaryPunches_SinglePunchYieldsOneRow(t *testing.T) {
	conn := openTestDB(t)
	uid := seedUser(t, conn, 1001, "Ada", "Moreno")
	d := day(2024, 3, 2)
	seedPunch(t, conn, uid, 1001, d.Add(9*time.Hour+15*time.Minute), "check_in")

	ps := sqlitestore.NewPunchStore(conn, newTestWriter(t, conn))
	rows, err := ps.QueryBoundaryPunches(context.Background(), store.BoundaryQuery{
		DateFrom: d, DateTo: d,
	})
	if err != nil {
		t.Fatalf("QueryBoundaryPunches: %v", err)
	}

	if len(rows) != 1 {
		t.Fatalf("expected 1 boundary row (min and max coincide), got %d", len(rows))
	}
	if got := rows[0].Time.Format("15:04:05"); got != "09:15:00" {
		t.Errorf("expected 09:15:00, got %s", got)
	}
}

func TestQueryBoundaryPunches_TimestampTiesStayBounded(t *testing.T) {
	conn := openTestDB(t)
	uid := seedUser(t, conn, 1001, "Ada", "Moreno")

	// Three taps at the exact same millisecond (double-read glitch).
	d := day(2024, 3, 3)
	at := d.Add(9 * time.Hour)
	first := seedPunch(t, conn, uid, 1001, at, "check_in")
	seedPunch(t, conn, uid, 1001, at, "check_in")
	last := seedPunch(t, conn, uid, 1001, at, "check_in")

	ps := sqlitestore.NewPunchStore(conn, newTestWriter(t, conn))
	rows, err := ps.QueryBoundaryPunches(context.Background(), store.BoundaryQuery{
		DateFrom: d, DateTo: d,
	})
	if err != nil {
		t.Fatalf("QueryBoundaryPunches: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows under a timestamp tie, got %d", len(rows))
	}
	ids := map[int64]bool{rows[0].PunchID: true, rows[1].PunchID: true}
	if !ids[first] || !ids[last] {
		t.Errorf("expected rows %d and %d, got %v", first, last, ids)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// QueryBoundaryPunches — filtering
// ═══════════════════════════════════════════════════════════════════════════

func TestQueryBoundaryPunches_WindowExcludesOutsideDays(t *testing.T) {
	conn := openTestDB(t)
	uid := seedUser(t, conn, 1001, "Ada", "Moreno")

	seedPunch(t, conn, uid, 1001, day(2024, 2, 29).Add(9*time.Hour), "check_in")
	seedPunch(t, conn, uid, 1001, day(2024, 3, 1).Add(9*time.Hour), "check_in")
	seedPunch(t, conn, uid, 1001, day(2024, 3, 2).Add(23*time.Hour+59*time.Minute), "check_out")
	seedPunch(t, conn, uid, 1001, day(2024, 3, 3).Add(0*time.Hour), "check_in")

	ps := sqlitestore.NewPunchStore(conn, newTestWriter(t, conn))
	rows, err := ps.QueryBoundaryPunches(context.Background(), store.BoundaryQuery{
		DateFrom: day(2024, 3, 1), DateTo: day(2024, 3, 2),
	})
	if err != nil {
		t.Fatalf("QueryBoundaryPunches: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows (one per in-window day), got %d", len(rows))
	}
	for _, r := range rows {
		if r.Day != "2024-03-01" && r.Day != "2024-03-02" {
			t.Errorf("row outside window: day=%s", r.Day)
		}
	}
}

func TestQueryBoundaryPunches_UserFilter(t *testing.T) {
	conn := openTestDB(t)
	ada := seedUser(t, conn, 1001, "Ada", "Moreno")
	ben := seedUser(t, conn, 1002, "Ben", "Castillo")

	d := day(2024, 3, 1)
	seedPunch(t, conn, ada, 1001, d.Add(9*time.Hour), "check_in")
	seedPunch(t, conn, ben, 1002, d.Add(10*time.Hour), "check_in")

	ps := sqlitestore.NewPunchStore(conn, newTestWriter(t, conn))
	rows, err := ps.QueryBoundaryPunches(context.Background(), store.BoundaryQuery{
		DateFrom: d, DateTo: d, UserIDs: []int64{ben},
	})
	if err != nil {
		t.Fatalf("QueryBoundaryPunches: %v", err)
	}

	if len(rows) != 1 {
		t.Fatalf("expected 1 row for the filtered user, got %d", len(rows))
	}
	if rows[0].UserID != ben {
		t.Errorf("expected user %d, got %d", ben, rows[0].UserID)
	}
}

func TestQueryBoundaryPunches_UnresolvedPunchesExcluded(t *testing.T) {
	conn := openTestDB(t)
	uid := seedUser(t, conn, 1001, "Ada", "Moreno")

	d := day(2024, 3, 1)
	seedPunch(t, conn, uid, 1001, d.Add(9*time.Hour), "check_in")
	seedPunch(t, conn, nil, 7777, d.Add(10*time.Hour), "check_in") // no enrolled user

	ps := sqlitestore.NewPunchStore(conn, newTestWriter(t, conn))
	rows, err := ps.QueryBoundaryPunches(context.Background(), store.BoundaryQuery{
		DateFrom: d, DateTo: d,
	})
	if err != nil {
		t.Fatalf("QueryBoundaryPunches: %v", err)
	}

	if len(rows) != 1 {
		t.Fatalf("expected only the resolved punch, got %d rows", len(rows))
	}
	if rows[0].UserID != uid {
		t.Errorf("expected user %d, got %d", uid, rows[0].UserID)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// QueryBoundaryPunches — ordering
// ═══════════════════════════════════════════════════════════════════════════

func TestQueryBoundaryPunches_OrderedByTimeThenName(t *testing.T) {
	conn := openTestDB(t)
	ada := seedUser(t, conn, 1001, "ada", "moreno")
	ben := seedUser(t, conn, 1002, "Ben", "Castillo")

	// Same punch instant for both users: the name tie-breakers decide,
	// case-insensitively.
	d := day(2024, 3, 1)
	at := d.Add(9 * time.Hour)
	seedPunch(t, conn, ada, 1001, at, "check_in")
	seedPunch(t, conn, ben, 1002, at, "check_in")

	ps := sqlitestore.NewPunchStore(conn, newTestWriter(t, conn))

	rows, err := ps.QueryBoundaryPunches(context.Background(), store.BoundaryQuery{
		DateFrom: d, DateTo: d, Direction: types.SortAsc,
	})
	if err != nil {
		t.Fatalf("QueryBoundaryPunches asc: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].UserID != ben || rows[1].UserID != ada {
		t.Errorf("asc: expected castillo before moreno, got %d then %d", rows[0].UserID, rows[1].UserID)
	}

	rows, err = ps.QueryBoundaryPunches(context.Background(), store.BoundaryQuery{
		DateFrom: d, DateTo: d, Direction: types.SortDesc,
	})
	if err != nil {
		t.Fatalf("QueryBoundaryPunches desc: %v", err)
	}
	if rows[0].UserID != ada || rows[1].UserID != ben {
		t.Errorf("desc: expected moreno before castillo, got %d then %d", rows[0].UserID, rows[1].UserID)
	}
}

func TestQueryBoundaryPunches_EmptyWindowIsNotAnError(t *testing.T) {
	conn := openTestDB(t)
	seedUser(t, conn, 1001, "Ada", "Moreno")

	ps := sqlitestore.NewPunchStore(conn, newTestWriter(t, conn))
	rows, err := ps.QueryBoundaryPunches(context.Background(), store.BoundaryQuery{
		DateFrom: day(2024, 3, 1), DateTo: day(2024, 3, 31),
	})
	if err != nil {
		t.Fatalf("QueryBoundaryPunches: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}
