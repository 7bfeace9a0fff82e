package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/waitroom/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgAdvance MsgKind = iota
	MsgEngineUpdate
	MsgActionDone
	MsgUpdatesClosed
)

// advanceMsg is the constructor for [MsgAdvance]. seq identifies the dwell timer that fired.
func advanceMsg(seq int) Msg {
	return Msg{kind: MsgAdvance, data: seq}
}

// engineUpdateMsg is the constructor for [MsgEngineUpdate]
func engineUpdateMsg(update tasks.Update) Msg {
	return Msg{kind: MsgEngineUpdate, data: update}
}

type actionResult struct {
	op  string
	err error
}

// actionDoneMsg is the constructor for [MsgActionDone]
func actionDoneMsg(op string, err error) Msg {
	return Msg{kind: MsgActionDone, data: actionResult{op: op, err: err}}
}

func updatesClosedMsg() Msg {
	return Msg{kind: MsgUpdatesClosed}
}
