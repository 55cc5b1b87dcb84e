package types

type HeartbeatRequest struct {
	DeviceName      string `json:"device_name"`
	FirmwareVersion string `json:"firmware_version,omitempty"`
	UptimeSeconds   uint64 `json:"uptime_s,omitempty"`
	IP              string `json:"ip,omitempty"`
	EnrolledUsers   *int   `json:"enrolled_users,omitempty"`
}

type HeartbeatResponse struct {
	OK         bool   `json:"ok"`
	Known      bool   `json:"known"`
	DeviceName string `json:"device_name"`
	ServerTime string `json:"server_time"`
}
