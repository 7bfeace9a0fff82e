package repositories

import (
	"database/sql"
	"encoding/json"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/waitroom/internal/models"
	"github.com/desertthunder/waitroom/internal/shared"
)

// Keys in the kv_store table.
const (
	KeyPlaylists       = "playlists"
	KeyCurrentPlaylist = "currentPlaylist"
	KeyLegacyPlaylist  = "playlist"
	KeyDisplayID       = "displayId"
)

// LocalStore persists the playlist registry on this display.
//
// Both Load and Save are best-effort: failures are logged and never returned.
type LocalStore struct {
	kv     *KVRepository
	logger *log.Logger
}

// NewLocalStore creates a LocalStore backed by db.
func NewLocalStore(db *sql.DB, logger *log.Logger) *LocalStore {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &LocalStore{
		kv:     NewKVRepository(db),
		logger: shared.WithLogger(logger, "component", "store"),
	}
}

// Load returns the stored playlists and current playlist name.
//
// A nil mapping means "no data". A legacy single-playlist record is migrated to
// {default: items} the first time it is seen, then erased.
func (s *LocalStore) Load() (models.Playlists, string) {
	raw, ok, err := s.kv.Get(KeyPlaylists)
	if err != nil {
		s.logger.Warn("failed to read playlists", "err", err)
		return nil, ""
	}
	if !ok {
		return s.migrateLegacy()
	}

	var playlists models.Playlists
	if err := json.Unmarshal([]byte(raw), &playlists); err != nil {
		s.logger.Warn("discarding malformed playlists record", "err", err)
		return nil, ""
	}

	current, ok, err := s.kv.Get(KeyCurrentPlaylist)
	if err != nil {
		s.logger.Warn("failed to read current playlist", "err", err)
	}
	if !ok || current == "" {
		current = models.DefaultPlaylist
	}

	return playlists, current
}

func (s *LocalStore) migrateLegacy() (models.Playlists, string) {
	raw, ok, err := s.kv.Get(KeyLegacyPlaylist)
	if err != nil {
		s.logger.Warn("failed to read legacy playlist", "err", err)
		return nil, ""
	}
	if !ok {
		return nil, ""
	}

	var items []models.PlaylistItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Warn("discarding malformed legacy playlist", "err", err)
		return nil, ""
	}
	if len(items) == 0 {
		return nil, ""
	}

	playlists := models.Playlists{models.DefaultPlaylist: items}
	data, err := json.Marshal(playlists)
	if err != nil {
		s.logger.Warn("failed to encode migrated playlist", "err", err)
		return playlists, models.DefaultPlaylist
	}
	if err := s.kv.Set(KeyPlaylists, string(data)); err != nil {
		s.logger.Warn("failed to store migrated playlist", "err", err)
		return playlists, models.DefaultPlaylist
	}
	if err := s.kv.Delete(KeyLegacyPlaylist); err != nil {
		s.logger.Warn("failed to erase legacy playlist", "err", err)
	}

	s.logger.Info("migrated legacy playlist", "items", len(items))
	return playlists, models.DefaultPlaylist
}

// Save writes the full mapping and the current playlist name.
func (s *LocalStore) Save(playlists models.Playlists, current string) {
	data, err := json.Marshal(playlists)
	if err != nil {
		s.logger.Warn("failed to encode playlists", "err", err)
		return
	}

	if err := s.kv.SetMany(map[string]string{
		KeyPlaylists:       string(data),
		KeyCurrentPlaylist: current,
	}); err != nil {
		s.logger.Warn("failed to save playlists", "err", err)
	}
}

// DisplayID returns this display's identity, creating and storing one on first use.
func (s *LocalStore) DisplayID() string {
	id, ok, err := s.kv.Get(KeyDisplayID)
	if err == nil && ok && id != "" {
		return id
	}

	id = shared.GenerateID()
	if err := s.kv.Set(KeyDisplayID, id); err != nil {
		s.logger.Warn("failed to store display id", "err", err)
	}
	return id
}
