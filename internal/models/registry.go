package models

import (
	"slices"
	"strings"

	"github.com/desertthunder/waitroom/internal/shared"
)

// DefaultPlaylist is the protected playlist that always exists.
const DefaultPlaylist = "default"

// Registry is the named collection of playlists plus the current-selection pointer.
//
// The pointer always resolves to an existing playlist. Mutators return one of the
// rejection errors from [shared] instead of changing anything when the input is invalid.
type Registry struct {
	playlists Playlists
	current   string
}

// NewRegistry returns a registry holding only an empty default playlist.
func NewRegistry() *Registry {
	return &Registry{
		playlists: Playlists{DefaultPlaylist: {}},
		current:   DefaultPlaylist,
	}
}

// RegistryFrom builds a registry from stored or remote state.
func RegistryFrom(playlists Playlists, current string) *Registry {
	r := &Registry{playlists: playlists.Clone(), current: current}
	r.normalize()
	return r
}

func (r *Registry) normalize() {
	if r.playlists == nil {
		r.playlists = Playlists{}
	}
	if _, ok := r.playlists[DefaultPlaylist]; !ok {
		r.playlists[DefaultPlaylist] = []PlaylistItem{}
	}
	for name, items := range r.playlists {
		if items == nil {
			r.playlists[name] = []PlaylistItem{}
		}
	}
	if _, ok := r.playlists[r.current]; !ok {
		r.current = DefaultPlaylist
	}
}

// Current returns the name of the selected playlist.
func (r *Registry) Current() string { return r.current }

// Items returns a copy of the selected playlist's items.
func (r *Registry) Items() []PlaylistItem {
	return CloneItems(r.playlists[r.current])
}

// Playlists returns a deep copy of every playlist.
func (r *Registry) Playlists() Playlists {
	return r.playlists.Clone()
}

// Has reports whether a playlist called name exists.
func (r *Registry) Has(name string) bool {
	_, ok := r.playlists[name]
	return ok
}

// Names returns playlist names sorted alphabetically with the default first.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.playlists))
	for name := range r.playlists {
		if name != DefaultPlaylist {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return append([]string{DefaultPlaylist}, names...)
}

// Create inserts an empty playlist and selects it.
func (r *Registry) Create(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.ErrBlankName
	}
	if r.Has(name) {
		return shared.ErrDuplicateName
	}
	r.playlists[name] = []PlaylistItem{}
	r.current = name
	return nil
}

// Switch selects an existing playlist.
func (r *Registry) Switch(name string) error {
	if !r.Has(name) {
		return shared.ErrUnknownPlaylist
	}
	r.current = name
	return nil
}

// Delete removes a playlist, moving the pointer to the default when it was selected.
// It reports whether the deleted playlist was the current one.
func (r *Registry) Delete(name string) (bool, error) {
	if name == DefaultPlaylist {
		return false, shared.ErrProtectedPlaylist
	}
	if !r.Has(name) {
		return false, shared.ErrUnknownPlaylist
	}
	delete(r.playlists, name)
	if r.current != name {
		return false, nil
	}
	r.current = DefaultPlaylist
	return true, nil
}

// SetItems replaces the selected playlist's items.
func (r *Registry) SetItems(items []PlaylistItem) {
	r.playlists[r.current] = CloneItems(items)
}

// Append adds item to the end of the selected playlist.
func (r *Registry) Append(item PlaylistItem) {
	r.playlists[r.current] = append(r.playlists[r.current], item)
}

// Remove deletes the item with the given id from the selected playlist.
func (r *Registry) Remove(id int64) error {
	items := r.playlists[r.current]
	idx := slices.IndexFunc(items, func(it PlaylistItem) bool { return it.ID == id })
	if idx < 0 {
		return shared.ErrItemNotFound
	}
	r.playlists[r.current] = slices.Delete(CloneItems(items), idx, idx+1)
	return nil
}

// Replace adopts a whole mapping and pointer, as remote state does on pull.
func (r *Registry) Replace(playlists Playlists, current string) {
	r.playlists = playlists.Clone()
	r.current = current
	r.normalize()
}
