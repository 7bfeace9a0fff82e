// package services implements the HTTP clients the display talks to: the shared playlist backend and RSS feeds
package services

import (
	"github.com/desertthunder/waitroom/internal/models"
)

// Every backend response carries a success flag.
type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func (e envelope) succeeded() bool { return e.Success }

type successer interface {
	succeeded() bool
}

type sessionResponse struct {
	envelope
	Session struct {
		SessionID       string `json:"session_id"`
		CurrentPlaylist string `json:"current_playlist"`
	} `json:"session"`
}

type playlistsResponse struct {
	envelope
	Playlists       models.Playlists `json:"playlists"`
	CurrentPlaylist string           `json:"current_playlist"`
}

type sessionRequest struct {
	GlobalSessionID string `json:"global_session_id,omitempty"`
}

type savePlaylistRequest struct {
	Items []models.PlaylistItem `json:"items"`
}

type currentPlaylistRequest struct {
	PlaylistName string `json:"playlist_name"`
}
