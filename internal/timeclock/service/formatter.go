package service

import (
	"fmt"
	"time"

	"github.com/EvanFarrier/Timekeep/server/internal/timeclock/types"
)

const (
	dayKeyLayout = "2006-01-02"
	dateLayout   = "02/01/2006"
	clockLayout  = "15:04:05"
)

// renderSession converts a derived session into its wire form.  The id is
// the check-in punch row id — sessions have no identity of their own.
func renderSession(s Session) types.Session {
	out := types.Session{
		ID:   s.CheckIn.PunchID,
		Date: formatDay(s.CheckIn.Day),
		User: types.SessionUser{
			ID:           s.CheckIn.UserID,
			DeviceUserID: s.CheckIn.DeviceUserID,
			FirstName:    s.CheckIn.FirstName,
			LastName:     s.CheckIn.LastName,
		},
		CheckIn: formatClock(s.CheckIn.Time),
	}

	if s.CheckOut != nil {
		v := formatClock(s.CheckOut.Time)
		out.CheckOut = &v
	}
	if s.TotalPresence != nil {
		v := formatPresence(*s.TotalPresence)
		out.TotalPresence = &v
	}
	return out
}

// formatDay converts a YYYY-MM-DD day key to the DD/MM/YYYY display form.
func formatDay(day string) string {
	t, err := time.Parse(dayKeyLayout, day)
	if err != nil {
		return day
	}
	return t.Format(dateLayout)
}

func formatClock(t time.Time) string {
	return t.UTC().Format(clockLayout)
}

// formatPresence renders an elapsed duration as HH:MM:SS.  Hours do not
// wrap at 24: a 27h15m session renders as "27:15:00" rather than spilling
// into the next calendar day.
func formatPresence(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
