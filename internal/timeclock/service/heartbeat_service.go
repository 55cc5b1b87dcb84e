package service

import (
	"context"
	"strings"
	"time"

	"github.com/EvanFarrier/Timekeep/server/internal/metrics"
	"github.com/EvanFarrier/Timekeep/server/internal/timeclock/store"
	"github.com/EvanFarrier/Timekeep/server/internal/timeclock/types"
)

type HeartbeatService struct {
	heartbeats store.HeartbeatStore
	directory  *DeviceDirectory
	metrics    *metrics.Metrics
}

func NewHeartbeatService(hs store.HeartbeatStore, dir *DeviceDirectory, m *metrics.Metrics) *HeartbeatService {
	return &HeartbeatService{heartbeats: hs, directory: dir, metrics: m}
}

func (s *HeartbeatService) Record(ctx context.Context, req types.HeartbeatRequest) (types.HeartbeatResponse, error) {
	deviceName := strings.TrimSpace(req.DeviceName)
	if deviceName == "" {
		return types.HeartbeatResponse{}, ErrInvalidDeviceName
	}

	known, err := s.directory.IsKnown(ctx, deviceName)
	if err != nil {
		return types.HeartbeatResponse{}, err
	}
	_ = s.directory.NoteSeen(ctx, deviceName, known)

	rec := store.HeartbeatRecord{
		ReceivedAt: time.Now().UTC(),
		Request:    req,
	}

	if err := s.heartbeats.RecordHeartbeat(ctx, deviceName, rec); err != nil {
		return types.HeartbeatResponse{}, err
	}

	if s.metrics != nil {
		s.metrics.HeartbeatsSeen.Inc()
	}

	return types.HeartbeatResponse{
		OK:         true,
		Known:      known,
		DeviceName: deviceName,
		ServerTime: time.Now().UTC().Format(time.RFC3339Nano),
	}, nil
}
