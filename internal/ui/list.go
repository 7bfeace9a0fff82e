package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/waitroom/internal/formatter"
	"github.com/desertthunder/waitroom/internal/models"
)

var (
	_ list.Item = playlistEntry{}
	_ list.Item = contentEntry{}
)

// playlistEntry is one playlist in the settings list.
type playlistEntry struct {
	name    string
	count   int
	current bool
}

func (i playlistEntry) FilterValue() string { return i.name }
func (i playlistEntry) Title() string {
	if i.current {
		return "● " + i.name
	}
	return i.name
}
func (i playlistEntry) Description() string {
	desc := fmt.Sprintf("%d items", i.count)
	if i.name == models.DefaultPlaylist {
		desc += " • protected"
	}
	return desc
}

// contentEntry wraps [models.PlaylistItem] to implement [list.Item].
type contentEntry struct {
	item models.PlaylistItem
}

func (i contentEntry) FilterValue() string { return i.item.Label() }
func (i contentEntry) Title() string       { return i.item.Label() }
func (i contentEntry) Description() string {
	if i.item.Type == models.TypeRSSTicker {
		return fmt.Sprintf("%s • overlay", i.item.Type)
	}
	return fmt.Sprintf("%s • %s", i.item.Type, formatter.FormatDuration(i.item.Duration))
}
