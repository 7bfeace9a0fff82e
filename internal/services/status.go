package services

import (
	"sync/atomic"

	"github.com/desertthunder/waitroom/internal/metrics"
	"github.com/desertthunder/waitroom/internal/models"
)

// Status holds the shared online/syncing flags.
//
// Displays start optimistic: online until a tracked call fails.
type Status struct {
	online  atomic.Bool
	syncing atomic.Bool
}

// NewStatus returns a Status that reports online.
func NewStatus() *Status {
	s := &Status{}
	s.SetOnline(true)
	return s
}

// Online reports whether the most recent tracked call succeeded.
func (s *Status) Online() bool { return s.online.Load() }

// Syncing reports whether a playlist save is in flight.
func (s *Status) Syncing() bool { return s.syncing.Load() }

// SetOnline records the outcome of a tracked call.
func (s *Status) SetOnline(v bool) {
	s.online.Store(v)
	if v {
		metrics.RemoteOnline.Set(1)
	} else {
		metrics.RemoteOnline.Set(0)
	}
}

func (s *Status) setSyncing(v bool) { s.syncing.Store(v) }

// State returns a snapshot of both flags.
func (s *Status) State() models.SyncState {
	return models.SyncState{IsOnline: s.Online(), IsSyncing: s.Syncing()}
}
