package service

import (
	"context"
	"strings"
	"time"

	"github.com/EvanFarrier/Timekeep/server/internal/timeclock/store"
)

// DeviceDirectory tracks which attendance readers the server trusts.
// Distinct from the remote registry gateway: this is local state about the
// readers themselves, not about the users enrolled on them.
type DeviceDirectory struct {
	store store.DeviceStore
}

func NewDeviceDirectory(st store.DeviceStore) *DeviceDirectory {
	return &DeviceDirectory{store: st}
}

func (d *DeviceDirectory) IsKnown(ctx context.Context, deviceName string) (bool, error) {
	deviceName = strings.TrimSpace(deviceName)
	if deviceName == "" {
		return false, nil
	}
	return d.store.IsKnown(ctx, deviceName)
}

func (d *DeviceDirectory) NoteSeen(ctx context.Context, deviceName string, known bool) error {
	deviceName = strings.TrimSpace(deviceName)
	if deviceName == "" {
		return nil
	}
	return d.store.MarkSeen(ctx, deviceName, known, time.Now().UTC())
}
