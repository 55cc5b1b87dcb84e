package store

import (
	"context"
	"time"

	"github.com/EvanFarrier/Timekeep/server/internal/timeclock/types"
)

type HeartbeatRecord struct {
	ReceivedAt time.Time
	Request    types.HeartbeatRequest
}

type HeartbeatStore interface {
	RecordHeartbeat(ctx context.Context, deviceName string, rec HeartbeatRecord) error
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
