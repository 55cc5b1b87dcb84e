package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/EvanFarrier/Timekeep/server/internal/timeclock/service"
	"github.com/EvanFarrier/Timekeep/server/internal/timeclock/types"
)

type apiError struct {
	status int
	code   string
	msg    string
}

func badParam(code, msg string) *apiError {
	return &apiError{status: http.StatusBadRequest, code: code, msg: msg}
}

// parseSessionsParams validates the session listing query string.
// date_from and date_to are required YYYY-MM-DD values; user_ids is an
// optional comma-separated list; page defaults to 1 and page_size to the
// configured default, capped at the configured maximum.
func (s *Server) parseSessionsParams(r *http.Request) (service.SessionQuery, bool, *apiError) {
	qs := r.URL.Query()
	var q service.SessionQuery

	from, err := time.ParseInLocation("2006-01-02", qs.Get("date_from"), time.UTC)
	if err != nil {
		return q, false, badParam("bad_date_from", "date_from must be YYYY-MM-DD")
	}
	to, err := time.ParseInLocation("2006-01-02", qs.Get("date_to"), time.UTC)
	if err != nil {
		return q, false, badParam("bad_date_to", "date_to must be YYYY-MM-DD")
	}
	q.DateFrom, q.DateTo = from, to

	if raw := strings.TrimSpace(qs.Get("user_ids")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil || id < 1 {
				return q, false, badParam("bad_user_ids", "user_ids must be a comma-separated list of positive integers")
			}
			q.UserIDs = append(q.UserIDs, id)
		}
	}

	q.Page = 1
	if raw := qs.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return q, false, badParam("bad_page", "page must be a positive integer")
		}
		q.Page = n
	}

	q.PageSize = s.defaultPageSize
	if raw := qs.Get("page_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return q, false, badParam("bad_page_size", "page_size must be a positive integer")
		}
		q.PageSize = n
	}
	if q.PageSize > s.maxPageSize {
		q.PageSize = s.maxPageSize
	}

	switch strings.ToLower(qs.Get("sort_direction")) {
	case "", "desc":
		q.Direction = types.SortDesc
	case "asc":
		q.Direction = types.SortAsc
	default:
		return q, false, badParam("bad_sort_direction", "sort_direction must be asc or desc")
	}

	withRoster := false
	switch qs.Get("with_roster") {
	case "1", "true":
		withRoster = true
	}

	return q, withRoster, nil
}
