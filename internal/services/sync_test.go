package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/waitroom/internal/models"
	"github.com/desertthunder/waitroom/internal/shared"
	tu "github.com/desertthunder/waitroom/internal/testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*SyncClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewSyncClient(SyncClientOpts{
		BaseURL:    server.URL + "/api",
		HTTPClient: server.Client(),
		DisplayID:  "display-1",
		SessionID:  "global_default",
	})
	return client, server
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func TestSyncClient(t *testing.T) {
	t.Run("CreateSession", func(t *testing.T) {
		t.Run("returns session id and sends configured id", func(t *testing.T) {
			var got map[string]string
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/api/global-session" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				json.NewDecoder(r.Body).Decode(&got)
				writeJSON(w, http.StatusOK, map[string]any{
					"success": true,
					"session": map[string]string{"session_id": "global_default", "current_playlist": "default"},
				})
			})

			id, err := client.CreateSession(context.Background())
			if err != nil {
				t.Fatalf("CreateSession() error = %v", err)
			}
			if id != "global_default" {
				t.Errorf("session id = %q, want global_default", id)
			}
			if got["global_session_id"] != "global_default" {
				t.Errorf("request body = %v", got)
			}
		})

		t.Run("server error flips offline", func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			})

			if _, err := client.CreateSession(context.Background()); !errors.Is(err, shared.ErrAPIRequest) {
				t.Fatalf("expected ErrAPIRequest, got %v", err)
			}
			if client.Status().Online() {
				t.Error("expected offline after failed session call")
			}
		})
	})

	t.Run("FetchAllPlaylists", func(t *testing.T) {
		t.Run("decodes playlists and current pointer", func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("Content-Type") != "application/json" {
					t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
				}
				if r.Header.Get("X-Display-ID") != "display-1" {
					t.Errorf("X-Display-ID = %q", r.Header.Get("X-Display-ID"))
				}
				writeJSON(w, http.StatusOK, map[string]any{
					"success": true,
					"playlists": map[string]any{
						"default": []map[string]any{{"id": 1, "type": "image", "url": "https://a/1.png", "title": "", "duration": 5000}},
						"lobby":   []map[string]any{},
					},
					"current_playlist": "lobby",
				})
			})
			client.Status().SetOnline(false)

			snap, err := client.FetchAllPlaylists(context.Background())
			if err != nil {
				t.Fatalf("FetchAllPlaylists() error = %v", err)
			}
			if snap.CurrentPlaylist != "lobby" {
				t.Errorf("CurrentPlaylist = %q, want lobby", snap.CurrentPlaylist)
			}
			if len(snap.Playlists["default"]) != 1 || snap.Playlists["default"][0].Duration != 5000 {
				t.Errorf("default playlist = %+v", snap.Playlists["default"])
			}
			if !client.Status().Online() {
				t.Error("expected online after successful fetch")
			}
		})

		t.Run("undecodable body fails", func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<html>"))
			})

			if _, err := client.FetchAllPlaylists(context.Background()); !errors.Is(err, shared.ErrAPIRequest) {
				t.Fatalf("expected ErrAPIRequest, got %v", err)
			}
			if client.Status().Online() {
				t.Error("expected offline")
			}
		})

		t.Run("transport failure", func(t *testing.T) {
			client := NewSyncClient(SyncClientOpts{
				HTTPClient: &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))},
			})

			if _, err := client.FetchAllPlaylists(context.Background()); !errors.Is(err, shared.ErrAPIRequest) {
				t.Fatalf("expected ErrAPIRequest, got %v", err)
			}
			if client.Status().Online() {
				t.Error("expected offline after transport failure")
			}
		})

		t.Run("body read failure", func(t *testing.T) {
			resp := &http.Response{StatusCode: http.StatusOK, Body: &tu.FCloser{}, Header: http.Header{}}
			client := NewSyncClient(SyncClientOpts{
				HTTPClient: &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)},
			})

			if _, err := client.FetchAllPlaylists(context.Background()); !errors.Is(err, shared.ErrAPIRequest) {
				t.Fatalf("expected ErrAPIRequest, got %v", err)
			}
		})
	})

	t.Run("PollPlaylists leaves online flag alone", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		if _, err := client.PollPlaylists(context.Background()); err == nil {
			t.Fatal("expected error")
		}
		if !client.Status().Online() {
			t.Error("poll failure should not flip the online flag")
		}
	})

	t.Run("SavePlaylist", func(t *testing.T) {
		t.Run("sends items and raises syncing flag", func(t *testing.T) {
			var client *SyncClient
			var body struct {
				Items []models.PlaylistItem `json:"items"`
			}
			var path string
			var syncing bool
			client, _ = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				path = r.URL.EscapedPath()
				syncing = client.Status().Syncing()
				json.NewDecoder(r.Body).Decode(&body)
				writeJSON(w, http.StatusOK, map[string]any{"success": true})
			})

			items := []models.PlaylistItem{{ID: 7, Type: models.TypeImage, URL: "https://a/7.png", Duration: 5000}}
			if err := client.SavePlaylist(context.Background(), "front desk", items); err != nil {
				t.Fatalf("SavePlaylist() error = %v", err)
			}
			if path != "/api/global-playlists/front%20desk" {
				t.Errorf("path = %q", path)
			}
			if !syncing {
				t.Error("expected syncing during request")
			}
			if client.Status().Syncing() {
				t.Error("expected syncing cleared after request")
			}
			if !models.ItemsEqual(body.Items, items) {
				t.Errorf("items = %+v", body.Items)
			}
		})

		t.Run("nil items encode as empty array", func(t *testing.T) {
			var raw []byte
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				raw, _ = io.ReadAll(r.Body)
				writeJSON(w, http.StatusOK, map[string]any{"success": true})
			})

			if err := client.SavePlaylist(context.Background(), "default", nil); err != nil {
				t.Fatalf("SavePlaylist() error = %v", err)
			}
			if string(raw) != `{"items":[]}` {
				t.Errorf("body = %s", raw)
			}
		})

		t.Run("unsuccessful response keeps flag", func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": "nope"})
			})

			err := client.SavePlaylist(context.Background(), "default", nil)
			if !errors.Is(err, shared.ErrUnsuccessful) {
				t.Fatalf("expected ErrUnsuccessful, got %v", err)
			}
			if !client.Status().Online() {
				t.Error("success=false should not flip offline")
			}
		})
	})

	t.Run("SetCurrentPlaylist", func(t *testing.T) {
		var body map[string]string
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut || r.URL.Path != "/api/global-current-playlist" {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			json.NewDecoder(r.Body).Decode(&body)
			writeJSON(w, http.StatusOK, map[string]any{"success": true})
		})

		if err := client.SetCurrentPlaylist(context.Background(), "lobby"); err != nil {
			t.Fatalf("SetCurrentPlaylist() error = %v", err)
		}
		if body["playlist_name"] != "lobby" {
			t.Errorf("body = %v", body)
		}
	})

	t.Run("DeletePlaylist", func(t *testing.T) {
		t.Run("success", func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodDelete || r.URL.Path != "/api/global-playlists/lobby" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				writeJSON(w, http.StatusOK, map[string]any{"success": true})
			})

			if err := client.DeletePlaylist(context.Background(), "lobby"); err != nil {
				t.Fatalf("DeletePlaylist() error = %v", err)
			}
		})

		t.Run("not found flips offline", func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusNotFound, map[string]any{"success": false})
			})

			if err := client.DeletePlaylist(context.Background(), "lobby"); !errors.Is(err, shared.ErrAPIRequest) {
				t.Fatalf("expected ErrAPIRequest, got %v", err)
			}
			if client.Status().Online() {
				t.Error("expected offline")
			}
		})
	})

	t.Run("canceled context keeps flag", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"success": true})
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if err := client.SetCurrentPlaylist(ctx, "default"); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if !client.Status().Online() {
			t.Error("cancellation should not flip offline")
		}
	})
}

func TestStatus(t *testing.T) {
	s := NewStatus()
	if !s.Online() {
		t.Error("new status should start online")
	}
	s.SetOnline(false)
	s.setSyncing(true)

	state := s.State()
	if state.IsOnline || !state.IsSyncing {
		t.Errorf("State() = %+v", state)
	}
}
