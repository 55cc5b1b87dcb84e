package store

import (
	"context"
	"time"

	"github.com/EvanFarrier/Timekeep/server/internal/timeclock/types"
)

// PunchRecord is one raw reader tap headed for the append-only log.
type PunchRecord struct {
	DeviceUserID int64
	PunchedAt    time.Time
	State        string
	Type         string
	DeviceName   string
}

// PunchInsert reports what an append produced.  UserID is nil when the
// device-side identifier matched no enrolled user; the row is written anyway.
type PunchInsert struct {
	PunchID int64
	UserID  *int64
}

// BoundaryQuery restricts the boundary selection to a UTC calendar-day
// window, and optionally to a set of users.  Both dates are inclusive whole
// days.  Direction orders the result rows by punch time, with
// case-insensitive last/first name as tie-breakers in the same direction.
type BoundaryQuery struct {
	DateFrom  time.Time
	DateTo    time.Time
	UserIDs   []int64
	Direction types.SortDirection
}

// BoundaryRow is a punch that is the earliest or the latest of its
// (user, day) group, joined with the profile fields the listing displays
// and sorts by.  Day is the UTC calendar date in YYYY-MM-DD form.
type BoundaryRow struct {
	PunchID      int64
	UserID       int64
	DeviceUserID int64
	Day          string
	Time         time.Time
	State        string
	Type         string
	DeviceName   string
	FirstName    string
	LastName     string
}

// PunchStore is the engine's only view of punch persistence.
//
// QueryBoundaryPunches returns at most two rows per (user, day) group: the
// earliest and the latest punch of that day.  A day with a single punch
// yields exactly one row.  Rows for punches that resolved to no enrolled
// user are excluded — they cannot form a user session.
type PunchStore interface {
	RecordPunch(ctx context.Context, rec PunchRecord) (PunchInsert, error)
	QueryBoundaryPunches(ctx context.Context, q BoundaryQuery) ([]BoundaryRow, error)
}
