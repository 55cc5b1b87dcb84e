package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/EvanFarrier/Timekeep/server/internal/metrics"
	"github.com/EvanFarrier/Timekeep/server/internal/timeclock/store"
	"github.com/EvanFarrier/Timekeep/server/internal/timeclock/types"
)

var (
	ErrInvalidDateRange  = errors.New("date_from must not be after date_to")
	ErrInvalidPagination = errors.New("page and page_size must be at least 1")
)

// SessionQuery is a validated session listing request.  DateFrom and DateTo
// are inclusive UTC calendar days (midnight instants).
type SessionQuery struct {
	DateFrom  time.Time
	DateTo    time.Time
	UserIDs   []int64
	Page      int
	PageSize  int
	Direction types.SortDirection
}

// SessionService derives per-user, per-day presence sessions from the punch
// log.  Stateless per request: each call reads a bounded window of boundary
// rows, groups them in memory and discards everything after rendering.
type SessionService struct {
	punches  store.PunchStore
	registry RegistryClient
	logger   *log.Logger
	metrics  *metrics.Metrics
}

func NewSessionService(ps store.PunchStore, reg RegistryClient, logger *log.Logger, m *metrics.Metrics) *SessionService {
	return &SessionService{punches: ps, registry: reg, logger: logger, metrics: m}
}

// ListSessions runs the full derivation pipeline: boundary query, grouping,
// pagination, rendering.  Validation failures surface before any I/O.
func (s *SessionService) ListSessions(ctx context.Context, q SessionQuery) (types.SessionsResponse, error) {
	if q.Page < 1 || q.PageSize < 1 {
		return types.SessionsResponse{}, ErrInvalidPagination
	}

	from := q.DateFrom.UTC().Truncate(24 * time.Hour)
	to := q.DateTo.UTC().Truncate(24 * time.Hour)
	if from.After(to) {
		return types.SessionsResponse{}, ErrInvalidDateRange
	}

	dir := q.Direction
	if dir != types.SortAsc {
		dir = types.SortDesc
	}

	start := time.Now()
	rows, err := s.punches.QueryBoundaryPunches(ctx, store.BoundaryQuery{
		DateFrom:  from,
		DateTo:    to,
		UserIDs:   q.UserIDs,
		Direction: dir,
	})
	if err != nil {
		return types.SessionsResponse{}, fmt.Errorf("boundary query: %w", err)
	}

	groups := groupBoundaryRows(rows)
	pageKeys, meta := paginate(groups.keys, q.Page, q.PageSize)

	items := make([]types.Session, 0, len(pageKeys))
	for _, k := range pageKeys {
		items = append(items, renderSession(groups.session(k)))
	}

	if s.metrics != nil {
		s.metrics.SessionQueries.Inc()
		s.metrics.SessionQuerySecs.Observe(time.Since(start).Seconds())
	}

	return types.SessionsResponse{
		Items:           items,
		Page:            q.Page,
		PageSize:        q.PageSize,
		ItemCount:       meta.ItemCount,
		PageCount:       meta.PageCount,
		HasNextPage:     meta.HasNextPage,
		HasPreviousPage: meta.HasPreviousPage,
	}, nil
}

// ListSessionsWithRoster additionally fetches the timekeeper roster from
// the registry gateway, concurrently with the boundary query.  A gateway
// failure only costs the roster annotation: the session listing itself is
// unaffected and the failure is logged, not returned.
func (s *SessionService) ListSessionsWithRoster(ctx context.Context, q SessionQuery) (types.SessionsResponse, error) {
	rosterCh := make(chan []types.RosterEntry, 1)
	go func() {
		entries, err := s.Roster(ctx)
		if err != nil {
			if s.logger != nil {
				s.logger.Printf("roster fetch failed: %v", err)
			}
			if s.metrics != nil {
				s.metrics.RegistryFailures.Inc()
			}
			rosterCh <- nil
			return
		}
		rosterCh <- entries
	}()

	resp, err := s.ListSessions(ctx, q)
	if err != nil {
		// The roster goroutine finishes on its own; the buffered channel
		// keeps it from leaking.
		return types.SessionsResponse{}, err
	}

	resp.Roster = <-rosterCh
	return resp, nil
}

// Roster fetches the timekeeper-enabled users from the registry gateway.
func (s *SessionService) Roster(ctx context.Context) ([]types.RosterEntry, error) {
	if s.registry == nil {
		return nil, ErrRegistryUnavailable
	}
	return s.registry.FetchTimekeeperRoster(ctx)
}
