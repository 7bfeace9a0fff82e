// Package ui implements the display's terminal interface using bubbletea's Elm architecture.
//
// Two views are provided:
//  1. [DisplayView] : the stage showing the current item, the ticker overlay and the sync badge
//  2. [SettingsView] : playlist and content management
//
// The [Model] drives a [Controller] (normally a [tasks.Engine]). Dwell timers are scheduled with
// tea.Tick and tagged with a sequence number so that a timer made stale by a manual skip, a pause
// or a remote change is ignored when it fires. Engine events arrive on the update channel and cause
// a refresh; the timer restarts only when the item on screen changes.
//
// Mutations run as commands off the update loop and report failures in the status line.
package ui
