package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/EvanFarrier/Timekeep/server/internal/metrics"
	"github.com/EvanFarrier/Timekeep/server/internal/timeclock/service"
	"github.com/EvanFarrier/Timekeep/server/internal/timeclock/types"
)

type Dependencies struct {
	Logger           *log.Logger
	Addr             string
	Metrics          *metrics.Metrics
	PunchService     *service.PunchService
	HeartbeatService *service.HeartbeatService
	SessionService   *service.SessionService

	// Session listing page size policy.
	DefaultPageSize int
	MaxPageSize     int
}

type Server struct {
	httpServer       *http.Server
	logger           *log.Logger
	mux              *http.ServeMux
	punchService     *service.PunchService
	heartbeatService *service.HeartbeatService
	sessionService   *service.SessionService
	defaultPageSize  int
	maxPageSize      int
}

func NewServer(d Dependencies) *Server {
	mux := http.NewServeMux()

	s := &Server{
		logger:           d.Logger,
		mux:              mux,
		punchService:     d.PunchService,
		heartbeatService: d.HeartbeatService,
		sessionService:   d.SessionService,
		defaultPageSize:  d.DefaultPageSize,
		maxPageSize:      d.MaxPageSize,
	}
	if s.defaultPageSize < 1 {
		s.defaultPageSize = 10
	}
	if s.maxPageSize < s.defaultPageSize {
		s.maxPageSize = s.defaultPageSize
	}

	mux.HandleFunc("POST /v1/punches", s.handlePunch)
	mux.HandleFunc("POST /v1/heartbeat", s.handleHeartbeat)
	mux.HandleFunc("GET /v1/sessions", s.handleSessions)
	mux.HandleFunc("GET /v1/timekeepers", s.handleTimekeepers)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	if d.Metrics != nil {
		mux.Handle("GET /metrics", d.Metrics.Handler())
	}

	handler := loggingMiddleware(d.Logger, d.Metrics, mux)

	s.httpServer = &http.Server{
		Addr:              d.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handlePunch(w http.ResponseWriter, r *http.Request) {
	var req types.PunchRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}

	resp, err := s.punchService.Record(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDeviceName):
			writeError(w, http.StatusBadRequest, "invalid_device_name", err.Error())
		case errors.Is(err, service.ErrInvalidDeviceUserID):
			writeError(w, http.StatusBadRequest, "invalid_device_user_id", err.Error())
		case errors.Is(err, service.ErrInvalidPunchState):
			writeError(w, http.StatusBadRequest, "invalid_state", err.Error())
		case errors.Is(err, service.ErrInvalidPunchType):
			writeError(w, http.StatusBadRequest, "invalid_type", err.Error())
		default:
			s.logger.Printf("punch error: %v", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHeartbeat(w http.ResponseWriter, r *http.Request) {
	var req types.HeartbeatRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}

	resp, err := s.heartbeatService.Record(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDeviceName) {
			writeError(w, http.StatusBadRequest, "invalid_device_name", err.Error())
			return
		}
		s.logger.Printf("heartbeat error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	q, withRoster, apiErr := s.parseSessionsParams(r)
	if apiErr != nil {
		writeError(w, apiErr.status, apiErr.code, apiErr.msg)
		return
	}

	var (
		resp types.SessionsResponse
		err  error
	)
	if withRoster {
		resp, err = s.sessionService.ListSessionsWithRoster(r.Context(), q)
	} else {
		resp, err = s.sessionService.ListSessions(r.Context(), q)
	}
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDateRange):
			writeError(w, http.StatusBadRequest, "invalid_date_range", err.Error())
		case errors.Is(err, service.ErrInvalidPagination):
			writeError(w, http.StatusBadRequest, "invalid_pagination", err.Error())
		default:
			s.logger.Printf("sessions error: %v", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTimekeepers(w http.ResponseWriter, r *http.Request) {
	roster, err := s.sessionService.Roster(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrRegistryUnavailable) {
			writeError(w, http.StatusBadGateway, "registry_unavailable", err.Error())
			return
		}
		s.logger.Printf("timekeepers error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
		return
	}

	writeJSON(w, http.StatusOK, roster)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
