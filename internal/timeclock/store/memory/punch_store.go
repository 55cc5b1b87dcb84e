package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/EvanFarrier/Timekeep/server/internal/timeclock/store"
	"github.com/EvanFarrier/Timekeep/server/internal/timeclock/types"
)

// User is an enrolled employee profile for the in-memory store.
type User struct {
	ID           int64
	DeviceUserID int64
	FirstName    string
	LastName     string
}

type punchRow struct {
	id           int64
	userID       *int64
	deviceUserID int64
	punchedAt    time.Time
	state        string
	ptype        string
	deviceName   string
}

// PunchStore is an in-memory PunchStore for tests and dev environments.
// Its boundary selection mirrors the SQL store exactly: at most two rows per
// (user, UTC day), timestamp ties resolved by row id (lowest opens, highest
// closes), results ordered by time then case-insensitive names.
type PunchStore struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]User // keyed by user id
	byDUID map[int64]int64
	rows   []punchRow
}

func NewPunchStore(users []User) *PunchStore {
	s := &PunchStore{
		users:  make(map[int64]User, len(users)),
		byDUID: make(map[int64]int64, len(users)),
	}
	for _, u := range users {
		s.users[u.ID] = u
		s.byDUID[u.DeviceUserID] = u.ID
	}
	return s
}

func (s *PunchStore) RecordPunch(_ context.Context, rec store.PunchRecord) (store.PunchInsert, error) {
	if rec.PunchedAt.IsZero() {
		rec.PunchedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	row := punchRow{
		id:           s.nextID,
		deviceUserID: rec.DeviceUserID,
		punchedAt:    rec.PunchedAt.UTC(),
		state:        rec.State,
		ptype:        rec.Type,
		deviceName:   rec.DeviceName,
	}

	out := store.PunchInsert{PunchID: row.id}
	if uid, ok := s.byDUID[rec.DeviceUserID]; ok {
		row.userID = &uid
		out.UserID = &uid
	}

	s.rows = append(s.rows, row)
	return out, nil
}

func (s *PunchStore) QueryBoundaryPunches(_ context.Context, q store.BoundaryQuery) ([]store.BoundaryRow, error) {
	fromMs := q.DateFrom.UTC().UnixMilli()
	toMs := q.DateTo.UTC().AddDate(0, 0, 1).UnixMilli()

	wanted := make(map[int64]struct{}, len(q.UserIDs))
	for _, id := range q.UserIDs {
		wanted[id] = struct{}{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	type groupKey struct {
		userID int64
		day    string
	}
	first := make(map[groupKey]punchRow)
	last := make(map[groupKey]punchRow)

	for _, r := range s.rows {
		if r.userID == nil {
			continue
		}
		ms := r.punchedAt.UnixMilli()
		if ms < fromMs || ms >= toMs {
			continue
		}
		if len(wanted) > 0 {
			if _, ok := wanted[*r.userID]; !ok {
				continue
			}
		}

		k := groupKey{userID: *r.userID, day: r.punchedAt.Format("2006-01-02")}

		if f, ok := first[k]; !ok || r.punchedAt.Before(f.punchedAt) ||
			(r.punchedAt.Equal(f.punchedAt) && r.id < f.id) {
			first[k] = r
		}
		if l, ok := last[k]; !ok || r.punchedAt.After(l.punchedAt) ||
			(r.punchedAt.Equal(l.punchedAt) && r.id > l.id) {
			last[k] = r
		}
	}

	var out []store.BoundaryRow
	for k, f := range first {
		out = append(out, s.boundaryRow(f, k.day))
		if l := last[k]; l.id != f.id {
			out = append(out, s.boundaryRow(l, k.day))
		}
	}

	desc := q.Direction != types.SortAsc
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if desc {
			a, b = b, a
		}
		if !a.Time.Equal(b.Time) {
			return a.Time.Before(b.Time)
		}
		al, bl := strings.ToLower(a.LastName), strings.ToLower(b.LastName)
		if al != bl {
			return al < bl
		}
		af, bf := strings.ToLower(a.FirstName), strings.ToLower(b.FirstName)
		if af != bf {
			return af < bf
		}
		return a.PunchID < b.PunchID
	})

	return out, nil
}

func (s *PunchStore) boundaryRow(r punchRow, day string) store.BoundaryRow {
	u := s.users[*r.userID]
	return store.BoundaryRow{
		PunchID:      r.id,
		UserID:       *r.userID,
		DeviceUserID: r.deviceUserID,
		Day:          day,
		Time:         r.punchedAt,
		State:        r.state,
		Type:         r.ptype,
		DeviceName:   r.deviceName,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
	}
}
