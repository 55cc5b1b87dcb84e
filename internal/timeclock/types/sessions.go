package types

// SortDirection orders session listings by punch time.  Names always break
// ties case-insensitively in the same direction.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SessionUser is the profile slice of the employee a session belongs to.
type SessionUser struct {
	ID           int64  `json:"id"`
	DeviceUserID int64  `json:"device_user_id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
}

// Session is one derived per-user, per-day presence record.  ID is the id of
// the check-in punch row; the session itself is never persisted.
type Session struct {
	ID   int64       `json:"id"`
	Date string      `json:"date"` // DD/MM/YYYY
	User SessionUser `json:"user"`

	CheckIn string `json:"check_in"` // HH:MM:SS

	// Absent when the day holds a single punch.
	CheckOut      *string `json:"check_out"`
	TotalPresence *string `json:"total_presence"` // elapsed HH:MM:SS
}

// RosterEntry is one timekeeper-enabled user as reported by the remote
// device registry.
type RosterEntry struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SessionsResponse is the paginated session listing.  Roster is present only
// when the caller asked for it and the registry gateway answered in time.
type SessionsResponse struct {
	Items           []Session     `json:"items"`
	Page            int           `json:"page"`
	PageSize        int           `json:"page_size"`
	ItemCount       int           `json:"item_count"`
	PageCount       int           `json:"page_count"`
	HasNextPage     bool          `json:"has_next_page"`
	HasPreviousPage bool          `json:"has_previous_page"`
	Roster          []RosterEntry `json:"roster,omitempty"`
}
