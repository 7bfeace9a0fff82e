package tasks

import (
	"github.com/desertthunder/waitroom/internal/content"
	"github.com/desertthunder/waitroom/internal/models"
)

// View is a read-only copy of engine state for rendering.
type View struct {
	Current  string                `json:"current_playlist"`
	Names    []string              `json:"playlists"`
	Counts   map[string]int        `json:"item_counts"`
	Items    []models.PlaylistItem `json:"items"`
	Playable []models.PlaylistItem `json:"-"`
	Ticker   *models.PlaylistItem  `json:"ticker,omitempty"`
	Index    int                   `json:"index"`
	Playing  bool                  `json:"playing"`
	Sync     models.SyncState      `json:"sync"`
	NowShown *models.PlaylistItem  `json:"now_showing,omitempty"`
}

// View returns a snapshot of the current state.
func (e *Engine) View() View {
	e.mu.Lock()
	reg := e.state.Registry
	items := reg.Items()
	playable := content.Playable(items)
	v := View{
		Current:  reg.Current(),
		Names:    reg.Names(),
		Counts:   make(map[string]int),
		Items:    items,
		Playable: playable,
		Index:    e.state.Cursor.Index(),
		Playing:  e.state.Cursor.Playing(),
	}
	for name, list := range reg.Playlists() {
		v.Counts[name] = len(list)
	}
	if now, ok := e.state.Cursor.Current(playable); ok {
		v.NowShown = &now
	}
	e.mu.Unlock()

	if ticker, ok := content.Ticker(items); ok {
		v.Ticker = &ticker
	}
	if e.remote != nil {
		v.Sync = e.remote.State()
	}
	return v
}

// Snapshot returns the full registry in wire shape.
func (e *Engine) Snapshot() models.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return models.Snapshot{
		Playlists:       e.state.Registry.Playlists(),
		CurrentPlaylist: e.state.Registry.Current(),
	}
}

// Current returns the selected playlist name.
func (e *Engine) Current() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Registry.Current()
}

// Items returns the selected playlist's items.
func (e *Engine) Items() []models.PlaylistItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Registry.Items()
}

// SyncState returns the backend flags, or offline when no backend is configured.
func (e *Engine) SyncState() models.SyncState {
	if e.remote == nil {
		return models.SyncState{}
	}
	return e.remote.State()
}
