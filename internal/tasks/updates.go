package tasks

import (
	"fmt"

	"github.com/desertthunder/waitroom/internal/models"
)

// Update is an event emitted after the engine changes state or talks to the backend.
//
// Sent on a buffered channel so the display can redraw without polling the engine.
type Update struct {
	Phase   Phase  // Which protocol produced the update
	Message string // Human-readable message for display
	Err     error  // Set when the step failed or was rejected
	Data    any    // Optional phase-specific data
}

// Phase identifies the engine protocol an [Update] came from.
type Phase int

const (
	PhaseStartup Phase = iota
	PhaseMutation
	PhasePush
	PhasePull
	PhaseReconnect
	PhaseExport
)

func (p Phase) String() string {
	switch p {
	case PhaseStartup:
		return "startup"
	case PhaseMutation:
		return "mutation"
	case PhasePush:
		return "push"
	case PhasePull:
		return "pull"
	case PhaseReconnect:
		return "reconnect"
	case PhaseExport:
		return "export"
	default:
		return ""
	}
}

func startupUpdate(source Source, current string, count int) Update {
	return Update{
		Phase:   PhaseStartup,
		Message: fmt.Sprintf("Loaded %d playlist(s) from %s, current: %s", count, source, current),
		Data:    source,
	}
}

func rejectedUpdate(op string, err error) Update {
	return Update{
		Phase:   PhaseMutation,
		Message: fmt.Sprintf("%s ignored: %v", op, err),
		Err:     err,
	}
}

func mutationUpdate(format string, args ...any) Update {
	return Update{Phase: PhaseMutation, Message: fmt.Sprintf(format, args...)}
}

func pushUpdate(current string, remote bool, err error) Update {
	if err != nil {
		return Update{
			Phase:   PhasePush,
			Message: fmt.Sprintf("Saved %s locally; backend push failed", current),
			Err:     err,
		}
	}
	if !remote {
		return Update{Phase: PhasePush, Message: fmt.Sprintf("Saved %s locally (offline)", current)}
	}
	return Update{Phase: PhasePush, Message: fmt.Sprintf("Synced %s", current)}
}

func pullUpdate(d Decision) Update {
	switch {
	case d.AdoptPointer:
		return Update{
			Phase:   PhasePull,
			Message: fmt.Sprintf("Switched to %s from backend", d.Current),
			Data:    d,
		}
	default:
		return Update{
			Phase:   PhasePull,
			Message: fmt.Sprintf("Adopted %d item(s) for %s from backend", len(d.Playlists[d.Current]), d.Current),
			Data:    d,
		}
	}
}

func pullFailedUpdate(err error) Update {
	return Update{Phase: PhasePull, Message: "Pull failed", Err: err}
}

func reconnectUpdate(snap *models.Snapshot, err error) Update {
	if err != nil {
		return Update{Phase: PhaseReconnect, Message: "Backend still unreachable", Err: err}
	}
	return Update{
		Phase:   PhaseReconnect,
		Message: fmt.Sprintf("Reconnected, %d playlist(s) on backend", len(snap.Playlists)),
	}
}

func exportCompletedUpdate(step, total int, name string, files int) Update {
	return Update{
		Phase:   PhaseExport,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, name, files),
	}
}

func exportFailedUpdate(step, total int, name string, err error) Update {
	return Update{
		Phase:   PhaseExport,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
		Err:     err,
	}
}
