package service

import (
	"sort"
	"time"

	"github.com/EvanFarrier/Timekeep/server/internal/timeclock/store"
)

// sessionKey identifies one derived session: one user on one UTC day.
type sessionKey struct {
	userID int64
	day    string
}

// orderedGroups maps session keys to their boundary rows while preserving
// the first-occurrence order of keys.  The boundary query already ordered
// rows by recency and name, so discovery order IS the session ordering —
// no second sort pass happens after grouping.  The explicit key slice makes
// that an invariant instead of a property of map iteration.
type orderedGroups struct {
	keys []sessionKey
	rows map[sessionKey][]store.BoundaryRow
}

func groupBoundaryRows(rows []store.BoundaryRow) *orderedGroups {
	g := &orderedGroups{rows: make(map[sessionKey][]store.BoundaryRow)}
	for _, r := range rows {
		k := sessionKey{userID: r.UserID, day: r.Day}
		if _, ok := g.rows[k]; !ok {
			g.keys = append(g.keys, k)
		}
		g.rows[k] = append(g.rows[k], r)
	}
	return g
}

func (g *orderedGroups) len() int { return len(g.keys) }

// Session is one derived per-user, per-day presence record.  CheckIn and
// CheckOut come from MIN/MAX boundary rows, never from the punch state
// field, so TotalPresence is non-negative by construction.
type Session struct {
	CheckIn       store.BoundaryRow
	CheckOut      *store.BoundaryRow
	TotalPresence *time.Duration
}

// session derives the Session for key k.  The group holds one or two rows;
// the earliest opens the session and, when a second row exists, the latest
// closes it.
func (g *orderedGroups) session(k sessionKey) Session {
	rows := g.rows[k]
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Time.Equal(rows[j].Time) {
			return rows[i].Time.Before(rows[j].Time)
		}
		return rows[i].PunchID < rows[j].PunchID
	})

	s := Session{CheckIn: rows[0]}
	if len(rows) > 1 {
		out := rows[len(rows)-1]
		s.CheckOut = &out
		d := out.Time.Sub(rows[0].Time)
		s.TotalPresence = &d
	}
	return s
}
