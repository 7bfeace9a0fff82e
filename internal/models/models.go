// package models defines the data model for the waiting-room display
package models

import (
	"slices"
)

// ItemType names the kind of content a [PlaylistItem] points at.
type ItemType string

const (
	TypeImage       ItemType = "image"
	TypeWebsite     ItemType = "website"
	TypeSlide       ItemType = "slide" // PDF slide deck
	TypeSpreadsheet ItemType = "spreadsheet"
	TypeRSSTicker   ItemType = "rss-ticker"
)

// ItemTypes lists every known type in display order.
var ItemTypes = []ItemType{TypeImage, TypeWebsite, TypeSlide, TypeSpreadsheet, TypeRSSTicker}

// Valid reports whether t is one of [ItemTypes].
func (t ItemType) Valid() bool {
	return slices.Contains(ItemTypes, t)
}

// Playable reports whether items of this type take part in the slide rotation.
func (t ItemType) Playable() bool {
	return t != TypeRSSTicker
}

func (t ItemType) String() string { return string(t) }

// PlaylistItem is a single piece of content, in its wire/storage shape.
//
// Duration is the dwell time in milliseconds and is ignored for [TypeRSSTicker].
type PlaylistItem struct {
	ID       int64    `json:"id"`
	Type     ItemType `json:"type"`
	URL      string   `json:"url"`
	Title    string   `json:"title"`
	Duration int64    `json:"duration"`
}

// Label returns the title, or the URL for untitled items.
func (i PlaylistItem) Label() string {
	if i.Title != "" {
		return i.Title
	}
	return i.URL
}

// Playlists maps playlist names to their ordered items.
type Playlists map[string][]PlaylistItem

// Clone returns a deep copy.
func (p Playlists) Clone() Playlists {
	if p == nil {
		return nil
	}
	out := make(Playlists, len(p))
	for name, items := range p {
		out[name] = CloneItems(items)
	}
	return out
}

// ItemCount returns the number of items across all playlists.
func (p Playlists) ItemCount() int {
	n := 0
	for _, items := range p {
		n += len(items)
	}
	return n
}

// CloneItems copies items into a non-nil slice.
func CloneItems(items []PlaylistItem) []PlaylistItem {
	out := make([]PlaylistItem, len(items))
	copy(out, items)
	return out
}

// ItemsEqual compares two item sequences field by field; nil and empty are equal.
func ItemsEqual(a, b []PlaylistItem) bool {
	return slices.Equal(a, b)
}

// Snapshot is the full remote state as returned by the backend.
type Snapshot struct {
	Playlists       Playlists
	CurrentPlaylist string
}

// SyncState is the process-wide remote reachability indicator. It is never persisted.
type SyncState struct {
	IsOnline  bool `json:"online"`
	IsSyncing bool `json:"syncing"`
}
