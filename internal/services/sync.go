// Client for the shared playlist backend
//
// Every call sends and expects JSON. Any non-2xx status is a failure regardless of body.
// Tracked calls flip the shared online flag: true on success, false on transport or status failure.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/waitroom/internal/metrics"
	"github.com/desertthunder/waitroom/internal/models"
	"github.com/desertthunder/waitroom/internal/shared"
	"golang.org/x/time/rate"
)

const defaultSyncBaseURL string = "http://localhost:5000/api"

// SyncClientOpts configures a [SyncClient].
type SyncClientOpts struct {
	BaseURL           string
	HTTPClient        *http.Client
	RequestsPerSecond float64 // 0 disables throttling
	SessionID         string  // sent as global_session_id when creating the session
	DisplayID         string  // sent as X-Display-ID on every request
	Status            *Status
	Logger            *log.Logger
}

// SyncClient wraps the backend REST contract. It performs no retries.
type SyncClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	sessionID  string
	displayID  string
	status     *Status
	logger     *log.Logger
}

// NewSyncClient creates a backend client.
func NewSyncClient(opts SyncClientOpts) *SyncClient {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultSyncBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Status == nil {
		opts.Status = NewStatus()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		burst := max(1, int(opts.RequestsPerSecond))
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	return &SyncClient{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: opts.HTTPClient,
		limiter:    limiter,
		sessionID:  opts.SessionID,
		displayID:  opts.DisplayID,
		status:     opts.Status,
		logger:     shared.WithLogger(opts.Logger, "component", "remote"),
	}
}

// Status returns the shared flags this client updates.
func (c *SyncClient) Status() *Status { return c.status }

// State returns a snapshot of the online/syncing flags.
func (c *SyncClient) State() models.SyncState { return c.status.State() }

// CreateSession creates or fetches the shared session. The id is advisory; later calls do not need it.
func (c *SyncClient) CreateSession(ctx context.Context) (string, error) {
	var resp sessionResponse
	err := c.doRequest(ctx, "create_session", http.MethodPost, "/global-session", sessionRequest{GlobalSessionID: c.sessionID}, &resp)
	if err := c.track("create_session", err); err != nil {
		return "", err
	}
	return resp.Session.SessionID, nil
}

// FetchAllPlaylists returns every playlist and the remote current-playlist pointer.
func (c *SyncClient) FetchAllPlaylists(ctx context.Context) (*models.Snapshot, error) {
	snap, err := c.fetch(ctx, "fetch_playlists")
	if err := c.track("fetch_playlists", err); err != nil {
		return nil, err
	}
	return snap, nil
}

// PollPlaylists is FetchAllPlaylists for the periodic pull: failures are returned but
// leave the online flag alone.
func (c *SyncClient) PollPlaylists(ctx context.Context) (*models.Snapshot, error) {
	snap, err := c.fetch(ctx, "poll_playlists")
	c.record("poll_playlists", err)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func (c *SyncClient) fetch(ctx context.Context, op string) (*models.Snapshot, error) {
	var resp playlistsResponse
	if err := c.doRequest(ctx, op, http.MethodGet, "/global-playlists", nil, &resp); err != nil {
		return nil, err
	}
	return &models.Snapshot{
		Playlists:       resp.Playlists,
		CurrentPlaylist: resp.CurrentPlaylist,
	}, nil
}

// SavePlaylist replaces the items of a playlist, creating it when missing.
//
// The syncing flag is raised for the duration of the call.
func (c *SyncClient) SavePlaylist(ctx context.Context, name string, items []models.PlaylistItem) error {
	c.status.setSyncing(true)
	defer c.status.setSyncing(false)

	if items == nil {
		items = []models.PlaylistItem{}
	}

	var resp envelope
	err := c.doRequest(ctx, "save_playlist", http.MethodPut, "/global-playlists/"+url.PathEscape(name), savePlaylistRequest{Items: items}, &resp)
	return c.track("save_playlist", err)
}

// SetCurrentPlaylist moves the shared current-playlist pointer.
func (c *SyncClient) SetCurrentPlaylist(ctx context.Context, name string) error {
	var resp envelope
	err := c.doRequest(ctx, "set_current", http.MethodPut, "/global-current-playlist", currentPlaylistRequest{PlaylistName: name}, &resp)
	return c.track("set_current", err)
}

// DeletePlaylist removes a playlist from the backend.
func (c *SyncClient) DeletePlaylist(ctx context.Context, name string) error {
	var resp envelope
	err := c.doRequest(ctx, "delete_playlist", http.MethodDelete, "/global-playlists/"+url.PathEscape(name), nil, &resp)
	return c.track("delete_playlist", err)
}

// track records the call and updates the online flag.
//
// A 2xx response reporting success=false leaves the flag unchanged; so does cancellation.
func (c *SyncClient) track(op string, err error) error {
	c.record(op, err)

	switch {
	case err == nil:
		c.status.SetOnline(true)
	case errors.Is(err, shared.ErrUnsuccessful), errors.Is(err, context.Canceled):
	default:
		c.status.SetOnline(false)
	}
	return err
}

func (c *SyncClient) record(op string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, shared.ErrUnsuccessful):
		result = "unsuccessful"
		c.logger.Warn("backend reported failure", "op", op, "err", err)
	default:
		result = "failed"
		c.logger.Warn("backend call failed", "op", op, "err", err)
	}
	metrics.RemoteRequestsTotal.WithLabelValues(op, result).Inc()
}

func (c *SyncClient) doRequest(ctx context.Context, op, method, endpoint string, body, result any) error {
	start := time.Now()
	defer func() {
		metrics.RemoteRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %s: %w", shared.ErrAPIRequest, op, err)
		}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %w", shared.ErrAPIRequest, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.displayID != "" {
		req.Header.Set("X-Display-ID", c.displayID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", shared.ErrAPIRequest, op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: %s: status %d", shared.ErrAPIRequest, op, resp.StatusCode)
	}

	if result == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: %s: failed to decode response: %w", shared.ErrAPIRequest, op, err)
	}

	if s, ok := result.(successer); ok && !s.succeeded() {
		return fmt.Errorf("%w: %s", shared.ErrUnsuccessful, op)
	}

	return nil
}
