package testing

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/waitroom/internal/models"
)

// Call is one request received by a [FakeBackend].
type Call struct {
	Method string
	Path   string // unescaped, relative to /api
	Body   map[string]json.RawMessage
}

// FakeBackend serves the shared playlist API from memory.
//
// Set Down to answer every request with 503. Set Unsuccessful to answer 200 with success=false.
type FakeBackend struct {
	Server *httptest.Server

	mu           sync.Mutex
	playlists    models.Playlists
	current      string
	calls        []Call
	down         bool
	unsuccessful bool
	rejected     map[string]bool
	onRequest    func(Call)
}

// NewFakeBackend starts a backend seeded with an empty default playlist. It is closed on test cleanup.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()
	b := &FakeBackend{
		playlists: models.Playlists{models.DefaultPlaylist: {}},
		current:   models.DefaultPlaylist,
	}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Server.Close)
	return b
}

// URL is the API base URL to hand to a sync client.
func (b *FakeBackend) URL() string { return b.Server.URL + "/api" }

// Seed replaces the stored state.
func (b *FakeBackend) Seed(playlists models.Playlists, current string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.playlists = playlists.Clone()
	b.current = current
}

// Snapshot returns the stored state.
func (b *FakeBackend) Snapshot() models.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return models.Snapshot{Playlists: b.playlists.Clone(), CurrentPlaylist: b.current}
}

// SetDown toggles the outage simulation.
func (b *FakeBackend) SetDown(down bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.down = down
}

// SetUnsuccessful toggles success=false responses.
func (b *FakeBackend) SetUnsuccessful(v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.unsuccessful = v
}

// Reject answers success=false for one route only, leaving the others working.
func (b *FakeBackend) Reject(method, path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.rejected == nil {
		b.rejected = map[string]bool{}
	}
	b.rejected[method+" "+path] = true
}

// OnRequest registers a hook run before each request is handled. The hook must not call
// back into the backend's locking methods.
func (b *FakeBackend) OnRequest(fn func(Call)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onRequest = fn
}

// Calls returns the recorded requests.
func (b *FakeBackend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Call, len(b.calls))
	copy(out, b.calls)
	return out
}

// CallsTo returns the recorded requests matching method and path.
func (b *FakeBackend) CallsTo(method, path string) []Call {
	var out []Call
	for _, c := range b.Calls() {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

// ResetCalls clears the request log.
func (b *FakeBackend) ResetCalls() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = nil
}

func (b *FakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	path, _ := url.PathUnescape(strings.TrimPrefix(r.URL.EscapedPath(), "/api"))
	call := Call{Method: r.Method, Path: path}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&call.Body)
	}

	b.mu.Lock()
	hook := b.onRequest
	b.mu.Unlock()
	if hook != nil {
		hook(call)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, call)

	if b.down {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	if b.unsuccessful || b.rejected[r.Method+" "+path] {
		reply(w, http.StatusOK, map[string]any{"success": false, "error": "rejected"})
		return
	}

	switch {
	case r.Method == http.MethodPost && path == "/global-session":
		reply(w, http.StatusOK, map[string]any{
			"success": true,
			"session": map[string]string{"session_id": "global_default", "current_playlist": b.current},
		})
	case r.Method == http.MethodGet && path == "/global-playlists":
		reply(w, http.StatusOK, map[string]any{
			"success":          true,
			"playlists":        b.playlists,
			"current_playlist": b.current,
		})
	case r.Method == http.MethodPut && path == "/global-current-playlist":
		var name string
		json.Unmarshal(call.Body["playlist_name"], &name)
		b.current = name
		reply(w, http.StatusOK, map[string]any{"success": true})
	case r.Method == http.MethodPut && strings.HasPrefix(path, "/global-playlists/"):
		var items []models.PlaylistItem
		json.Unmarshal(call.Body["items"], &items)
		if items == nil {
			items = []models.PlaylistItem{}
		}
		b.playlists[strings.TrimPrefix(path, "/global-playlists/")] = items
		reply(w, http.StatusOK, map[string]any{"success": true})
	case r.Method == http.MethodDelete && strings.HasPrefix(path, "/global-playlists/"):
		name := strings.TrimPrefix(path, "/global-playlists/")
		if _, ok := b.playlists[name]; !ok {
			reply(w, http.StatusNotFound, map[string]any{"success": false, "error": "not found"})
			return
		}
		delete(b.playlists, name)
		reply(w, http.StatusOK, map[string]any{"success": true})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func reply(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
