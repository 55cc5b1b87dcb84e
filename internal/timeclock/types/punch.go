package types

// Punch states as reported by the reader.  Informational only: session
// boundaries are derived from timestamps, never from this field, so a
// mislabeled punch cannot corrupt a session.
const (
	PunchStateCheckIn  = "check_in"
	PunchStateCheckOut = "check_out"
)

// Capture methods.
const (
	PunchTypeFingerprint = "fingerprint"
	PunchTypeCard        = "card"
	PunchTypeManual      = "manual"
)

type PunchRequest struct {
	DeviceUserID int64  `json:"device_user_id"`
	State        string `json:"state"`
	Type         string `json:"type,omitempty"`
	DeviceName   string `json:"device_name"`
	PunchedAt    string `json:"punched_at,omitempty"` // optional device timestamp, RFC3339
}

type PunchResponse struct {
	OK          bool   `json:"ok"`
	KnownDevice bool   `json:"known_device"`
	KnownUser   bool   `json:"known_user"`
	PunchID     int64  `json:"punch_id"`
	ServerTime  string `json:"server_time"`
}
