package service

import (
	"testing"
	"time"

	"github.com/EvanFarrier/Timekeep/server/internal/timeclock/store"
)

func row(id, userID int64, day string, at time.Time) store.BoundaryRow {
	return store.BoundaryRow{PunchID: id, UserID: userID, Day: day, Time: at}
}

// ═══════════════════════════════════════════════════════════════════════════
// Grouping
// ═══════════════════════════════════════════════════════════════════════════

func TestGroupBoundaryRows_FirstOccurrenceOrder(t *testing.T) {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	// Rows arrive interleaved across three groups; key order must follow the
	// first time each group is seen, not the row order within a group.
	rows := []store.BoundaryRow{
		row(10, 2, "2024-03-02", base.AddDate(0, 0, 1).Add(9*time.Hour)),
		row(11, 1, "2024-03-02", base.AddDate(0, 0, 1).Add(8*time.Hour)),
		row(12, 2, "2024-03-02", base.AddDate(0, 0, 1).Add(17*time.Hour)),
		row(13, 1, "2024-03-01", base),
	}

	g := groupBoundaryRows(rows)
	if g.len() != 3 {
		t.Fatalf("expected 3 groups, got %d", g.len())
	}

	want := []sessionKey{
		{userID: 2, day: "2024-03-02"},
		{userID: 1, day: "2024-03-02"},
		{userID: 1, day: "2024-03-01"},
	}
	for i, k := range g.keys {
		if k != want[i] {
			t.Errorf("key[%d] = %+v, want %+v", i, k, want[i])
		}
	}
}

func TestSession_TwoRows(t *testing.T) {
	in := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	out := in.Add(8*time.Hour + 30*time.Minute)

	g := groupBoundaryRows([]store.BoundaryRow{
		row(2, 1, "2024-03-01", out), // descending query yields the later row first
		row(1, 1, "2024-03-01", in),
	})

	s := g.session(sessionKey{userID: 1, day: "2024-03-01"})
	if s.CheckIn.PunchID != 1 {
		t.Errorf("expected check-in row 1, got %d", s.CheckIn.PunchID)
	}
	if s.CheckOut == nil || s.CheckOut.PunchID != 2 {
		t.Fatalf("expected check-out row 2, got %+v", s.CheckOut)
	}
	if s.TotalPresence == nil || *s.TotalPresence != 8*time.Hour+30*time.Minute {
		t.Errorf("expected 8h30m presence, got %v", s.TotalPresence)
	}
}

func TestSession_SingleRow(t *testing.T) {
	g := groupBoundaryRows([]store.BoundaryRow{
		row(1, 1, "2024-03-01", time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)),
	})

	s := g.session(sessionKey{userID: 1, day: "2024-03-01"})
	if s.CheckOut != nil {
		t.Errorf("expected no check-out, got %+v", s.CheckOut)
	}
	if s.TotalPresence != nil {
		t.Errorf("expected no presence, got %v", *s.TotalPresence)
	}
}

func TestSession_TimestampTieOrdersByRowID(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	g := groupBoundaryRows([]store.BoundaryRow{
		row(9, 1, "2024-03-01", at),
		row(4, 1, "2024-03-01", at),
	})

	s := g.session(sessionKey{userID: 1, day: "2024-03-01"})
	if s.CheckIn.PunchID != 4 {
		t.Errorf("expected lowest row id to open the session, got %d", s.CheckIn.PunchID)
	}
	if s.CheckOut == nil || s.CheckOut.PunchID != 9 {
		t.Errorf("expected highest row id to close the session, got %+v", s.CheckOut)
	}
	if s.TotalPresence == nil || *s.TotalPresence != 0 {
		t.Errorf("expected zero presence, got %v", s.TotalPresence)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Pagination
// ═══════════════════════════════════════════════════════════════════════════

func keysOf(n int) []sessionKey {
	keys := make([]sessionKey, n)
	for i := range keys {
		keys[i] = sessionKey{userID: int64(i + 1), day: "2024-03-01"}
	}
	return keys
}

func TestPaginate(t *testing.T) {
	cases := []struct {
		name      string
		total     int
		page      int
		pageSize  int
		wantLen   int
		wantPages int
		wantNext  bool
		wantPrev  bool
	}{
		{"first of many", 5, 1, 2, 2, 3, true, false},
		{"middle", 5, 2, 2, 2, 3, true, true},
		{"last partial", 5, 3, 2, 1, 3, false, true},
		{"exact fit", 4, 2, 2, 2, 2, false, true},
		{"past the end", 3, 7, 2, 0, 2, false, true},
		{"empty input", 0, 1, 10, 0, 0, false, false},
		{"single page", 3, 1, 10, 3, 1, false, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, meta := paginate(keysOf(tc.total), tc.page, tc.pageSize)
			if len(got) != tc.wantLen {
				t.Errorf("len = %d, want %d", len(got), tc.wantLen)
			}
			if meta.ItemCount != tc.total {
				t.Errorf("ItemCount = %d, want %d", meta.ItemCount, tc.total)
			}
			if meta.PageCount != tc.wantPages {
				t.Errorf("PageCount = %d, want %d", meta.PageCount, tc.wantPages)
			}
			if meta.HasNextPage != tc.wantNext {
				t.Errorf("HasNextPage = %v, want %v", meta.HasNextPage, tc.wantNext)
			}
			if meta.HasPreviousPage != tc.wantPrev {
				t.Errorf("HasPreviousPage = %v, want %v", meta.HasPreviousPage, tc.wantPrev)
			}
		})
	}
}

func TestPaginate_WindowContents(t *testing.T) {
	keys := keysOf(5)
	got, _ := paginate(keys, 2, 2)
	if len(got) != 2 || got[0].userID != 3 || got[1].userID != 4 {
		t.Errorf("page 2 of size 2 should hold keys 3 and 4, got %+v", got)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Rendering
// ═══════════════════════════════════════════════════════════════════════════

func TestFormatPresence(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{45 * time.Second, "00:00:45"},
		{9 * time.Hour, "09:00:00"},
		{8*time.Hour + 30*time.Minute + 5*time.Second, "08:30:05"},
		// Hours keep counting past a day instead of wrapping.
		{27*time.Hour + 15*time.Minute, "27:15:00"},
		{-time.Hour, "00:00:00"},
	}
	for _, tc := range cases {
		if got := formatPresence(tc.d); got != tc.want {
			t.Errorf("formatPresence(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestFormatDay(t *testing.T) {
	if got := formatDay("2024-03-09"); got != "09/03/2024" {
		t.Errorf("formatDay = %q, want 09/03/2024", got)
	}
	// Malformed keys pass through untouched rather than rendering garbage.
	if got := formatDay("not-a-day"); got != "not-a-day" {
		t.Errorf("formatDay passthrough = %q", got)
	}
}

func TestRenderSession(t *testing.T) {
	in := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	out := in.Add(9 * time.Hour)
	d := out.Sub(in)

	ses := Session{
		CheckIn: store.BoundaryRow{
			PunchID: 41, UserID: 7, DeviceUserID: 1007, Day: "2024-03-01",
			Time: in, FirstName: "Ada", LastName: "Moreno",
		},
		CheckOut:      &store.BoundaryRow{PunchID: 42, Time: out},
		TotalPresence: &d,
	}

	got := renderSession(ses)
	if got.ID != 41 {
		t.Errorf("ID = %d, want the check-in row id 41", got.ID)
	}
	if got.Date != "01/03/2024" || got.CheckIn != "09:00:00" {
		t.Errorf("unexpected date/check-in: %s / %s", got.Date, got.CheckIn)
	}
	if got.CheckOut == nil || *got.CheckOut != "18:00:00" {
		t.Errorf("unexpected check-out: %v", got.CheckOut)
	}
	if got.TotalPresence == nil || *got.TotalPresence != "09:00:00" {
		t.Errorf("unexpected presence: %v", got.TotalPresence)
	}
	if got.User.FirstName != "Ada" || got.User.DeviceUserID != 1007 {
		t.Errorf("unexpected user: %+v", got.User)
	}
}
