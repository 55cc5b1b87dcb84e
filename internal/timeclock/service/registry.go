package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/EvanFarrier/Timekeep/server/internal/timeclock/types"
)

// ErrRegistryUnavailable marks a failed or timed-out registry gateway call.
// Callers need to tell "no users" from "registry unreachable", so the
// client never degrades a failure into an empty roster.
var ErrRegistryUnavailable = errors.New("device registry unavailable")

// RegistryClient is the engine's view of the remote device registry, the
// service that knows which users are enrolled on the readers.
type RegistryClient interface {
	FetchTimekeeperRoster(ctx context.Context) ([]types.RosterEntry, error)
}

// HTTPRegistryClient talks to the registry over plain HTTP/JSON.  One
// attempt per call with a bounded timeout — retrying a stale roster buys
// no correctness and risks cascading latency into the request path.
type HTTPRegistryClient struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

func NewHTTPRegistryClient(baseURL string, timeout time.Duration) *HTTPRegistryClient {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &HTTPRegistryClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		timeout: timeout,
	}
}

func (c *HTTPRegistryClient) FetchTimekeeperRoster(ctx context.Context) ([]types.RosterEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/timekeepers", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrRegistryUnavailable, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRegistryUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrRegistryUnavailable, resp.StatusCode)
	}

	var wire []rosterEntryWire
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrRegistryUnavailable, err)
	}

	out := make([]types.RosterEntry, 0, len(wire))
	for _, e := range wire {
		out = append(out, types.RosterEntry{ID: int64(e.ID), Name: e.Name})
	}
	return out, nil
}

type rosterEntryWire struct {
	ID   flexID `json:"id"`
	Name string `json:"name"`
}

// flexID accepts both 42 and "42" — some registry firmwares quote the
// device-side numeric identifier.
type flexID int64

func (f *flexID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	s = strings.Trim(s, `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("registry id %q is not numeric", s)
	}
	*f = flexID(n)
	return nil
}
