package memory

import (
	"context"
	"sync"
	"time"

	"github.com/EvanFarrier/Timekeep/server/internal/timeclock/store"
)

// HeartbeatStore is an in-memory append-only heartbeat log for tests and
// dev environments.
type HeartbeatStore struct {
	mu   sync.Mutex
	recs []store.HeartbeatRecord
}

func NewHeartbeatStore() *HeartbeatStore {
	return &HeartbeatStore{}
}

func (s *HeartbeatStore) RecordHeartbeat(_ context.Context, _ string, rec store.HeartbeatRecord) error {
	if rec.ReceivedAt.IsZero() {
		rec.ReceivedAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs, rec)
	return nil
}

func (s *HeartbeatStore) PruneOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.recs[:0]
	var deleted int64
	for _, r := range s.recs {
		if r.ReceivedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	s.recs = kept
	return deleted, nil
}

// Heartbeats returns a copy of all recorded heartbeats.  Test-only helper.
func (s *HeartbeatStore) Heartbeats() []store.HeartbeatRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.HeartbeatRecord, len(s.recs))
	copy(out, s.recs)
	return out
}
