package store

import (
	"context"
	"time"
)

type DeviceStore interface {
	IsKnown(ctx context.Context, deviceName string) (bool, error)
	MarkSeen(ctx context.Context, deviceName string, known bool, t time.Time) error
}
