package tasks

import "github.com/desertthunder/waitroom/internal/models"

// Decision is the outcome of comparing a pulled snapshot with local state.
type Decision struct {
	AdoptItems   bool // remote items for the local current playlist differ
	AdoptPointer bool // remote current-playlist pointer differs
	Playlists    models.Playlists
	Current      string
}

// Changed reports whether local state must be replaced.
func (d Decision) Changed() bool { return d.AdoptItems || d.AdoptPointer }

// Reconcile decides what a pull adopts. Remote always wins; there is no merge.
//
// When the items for the local current playlist differ, the whole remote mapping is
// adopted. When the remote pointer differs, the pointer and that playlist's remote items are
// adopted. Both can apply in one pull. An empty remote pointer carries no information.
func Reconcile(playlists models.Playlists, current string, snap models.Snapshot) Decision {
	d := Decision{Playlists: playlists, Current: current}

	remoteItems := models.CloneItems(snap.Playlists[current])
	if !models.ItemsEqual(remoteItems, playlists[current]) {
		d.AdoptItems = true
		d.Playlists = snap.Playlists.Clone()
		if d.Playlists == nil {
			d.Playlists = models.Playlists{}
		}
		d.Playlists[current] = remoteItems
	}

	if snap.CurrentPlaylist != "" && snap.CurrentPlaylist != current {
		d.AdoptPointer = true
		if !d.AdoptItems {
			d.Playlists = playlists.Clone()
		}
		d.Current = snap.CurrentPlaylist
		d.Playlists[d.Current] = models.CloneItems(snap.Playlists[d.Current])
	}

	return d
}
