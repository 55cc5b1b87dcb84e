package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/EvanFarrier/Timekeep/server/internal/metrics"
	"github.com/EvanFarrier/Timekeep/server/internal/timeclock/store"
	"github.com/EvanFarrier/Timekeep/server/internal/timeclock/types"
)

var (
	ErrInvalidDeviceName   = errors.New("device_name is required")
	ErrInvalidDeviceUserID = errors.New("device_user_id is required")
	ErrInvalidPunchState   = errors.New("state must be check_in or check_out")
	ErrInvalidPunchType    = errors.New("type must be fingerprint, card or manual")
)

// PunchService accepts raw taps from the device-sync path and appends them
// to the punch log.  Unlike session derivation, this is a plain write path:
// a failed append is a hard error because the punch itself is the payload.
type PunchService struct {
	directory *DeviceDirectory
	punches   store.PunchStore
	metrics   *metrics.Metrics
}

func NewPunchService(dir *DeviceDirectory, ps store.PunchStore, m *metrics.Metrics) *PunchService {
	return &PunchService{directory: dir, punches: ps, metrics: m}
}

func (s *PunchService) Record(ctx context.Context, req types.PunchRequest) (types.PunchResponse, error) {
	now := time.Now().UTC()

	deviceName := strings.TrimSpace(req.DeviceName)
	if deviceName == "" {
		return types.PunchResponse{}, ErrInvalidDeviceName
	}
	if req.DeviceUserID <= 0 {
		return types.PunchResponse{}, ErrInvalidDeviceUserID
	}

	state := strings.TrimSpace(req.State)
	if state != types.PunchStateCheckIn && state != types.PunchStateCheckOut {
		return types.PunchResponse{}, ErrInvalidPunchState
	}

	ptype := strings.TrimSpace(req.Type)
	if ptype == "" {
		ptype = types.PunchTypeFingerprint
	}
	switch ptype {
	case types.PunchTypeFingerprint, types.PunchTypeCard, types.PunchTypeManual:
	default:
		return types.PunchResponse{}, ErrInvalidPunchType
	}

	known, err := s.directory.IsKnown(ctx, deviceName)
	if err != nil {
		return types.PunchResponse{}, err
	}
	_ = s.directory.NoteSeen(ctx, deviceName, known)

	// Prefer the device-reported capture time; fall back to receipt time.
	punchedAt := now
	if t := parseOptionalTimestamp(req.PunchedAt); t != nil {
		punchedAt = *t
	}

	ins, err := s.punches.RecordPunch(ctx, store.PunchRecord{
		DeviceUserID: req.DeviceUserID,
		PunchedAt:    punchedAt,
		State:        state,
		Type:         ptype,
		DeviceName:   deviceName,
	})
	if err != nil {
		return types.PunchResponse{}, err
	}

	if s.metrics != nil {
		s.metrics.PunchesRecorded.Inc()
	}

	return types.PunchResponse{
		OK:          true,
		KnownDevice: known,
		KnownUser:   ins.UserID != nil,
		PunchID:     ins.PunchID,
		ServerTime:  now.Format(time.RFC3339Nano),
	}, nil
}

// parseOptionalTimestamp attempts to parse a device-reported timestamp.
// Returns nil if the string is empty or unparseable.
func parseOptionalTimestamp(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	// Try RFC3339 first (most likely from a well-behaved device).
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		u := t.UTC()
		return &u
	}
	// Try RFC3339Nano as a fallback.
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		u := t.UTC()
		return &u
	}
	return nil
}
