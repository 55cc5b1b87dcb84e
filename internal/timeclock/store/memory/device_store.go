package memory

import (
	"context"
	"strings"
	"sync"
	"time"
)

type DeviceStore struct {
	mu    sync.RWMutex
	known map[string]struct{}
	seen  map[string]time.Time
}

func NewDeviceStore(knownDevices []string) *DeviceStore {
	k := make(map[string]struct{}, len(knownDevices))
	for _, d := range knownDevices {
		d = strings.TrimSpace(d)
		if d != "" {
			k[d] = struct{}{}
		}
	}
	return &DeviceStore{
		known: k,
		seen:  make(map[string]time.Time),
	}
}

func (s *DeviceStore) IsKnown(_ context.Context, deviceName string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.known[deviceName]
	return ok, nil
}

func (s *DeviceStore) MarkSeen(_ context.Context, deviceName string, _ bool, t time.Time) error {
	if t.IsZero() {
		t = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[deviceName] = t
	return nil
}
