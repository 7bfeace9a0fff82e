package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/waitroom/internal/content"
	"github.com/desertthunder/waitroom/internal/formatter"
	"github.com/desertthunder/waitroom/internal/models"
	"github.com/desertthunder/waitroom/internal/shared"
	"github.com/desertthunder/waitroom/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	DisplayView ViewState = iota
	SettingsView
)

type inputMode int

const (
	inputNone inputMode = iota
	inputCreate
	inputAdd
)

type pane int

const (
	playlistsPane pane = iota
	itemsPane
)

const defaultDwell = 5 * time.Second

// Controller is the part of [tasks.Engine] the display drives.
type Controller interface {
	View() tasks.View
	Advance() (models.PlaylistItem, bool)
	TogglePlay() bool
	Reconnect(ctx context.Context) error
	CreatePlaylist(ctx context.Context, name string) error
	SwitchPlaylist(ctx context.Context, name string) error
	DeletePlaylist(ctx context.Context, name string) error
	AddItem(ctx context.Context, d content.Draft) (models.PlaylistItem, error)
	RemoveItem(ctx context.Context, id int64) error
	ClearPlaylist(ctx context.Context) error
}

var _ Controller = (*tasks.Engine)(nil)

// Options configures a [Model].
type Options struct {
	Controller      Controller
	Updates         <-chan tasks.Update // engine events; nil disables live refresh
	DefaultDuration time.Duration       // dwell for items without a duration and for added items
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	ctrl     Controller
	updates  <-chan tasks.Update
	dwell    time.Duration
	view     ViewState
	state    tasks.View
	width    int
	height   int
	seq      int
	shownID  int64
	status   string
	statusOK bool
	mode     inputMode
	focus    pane
	itemType models.ItemType
	input    textinput.Model
	lists    [2]list.Model
	spinner  spinner.Model
	help     help.Model
	keys     keyMap
}

// NewModel creates a new TUI model.
func NewModel(ctx context.Context, opts Options) *Model {
	if opts.DefaultDuration <= 0 {
		opts.DefaultDuration = defaultDwell
	}

	input := textinput.New()
	input.CharLimit = 2048

	m := &Model{
		ctx:      ctx,
		ctrl:     opts.Controller,
		updates:  opts.Updates,
		dwell:    opts.DefaultDuration,
		itemType: models.TypeImage,
		input:    input,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:     help.New(),
		keys:     newKeyMap(),
	}
	for i := range m.lists {
		l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
		l.SetShowHelp(false)
		l.SetFilteringEnabled(false)
		l.SetShowStatusBar(false)
		m.lists[i] = l
	}
	m.lists[playlistsPane].Title = "Playlists"
	m.refresh()
	return m
}

// Init starts the dwell timer, the spinner and the engine event listener.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.schedule(), m.spinner.Tick, m.waitForUpdate())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.mode != inputNone {
			return m.handleInputKeys(msg)
		}
		switch m.view {
		case SettingsView:
			return m.handleSettingsKeys(msg)
		default:
			return m.handleDisplayKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgAdvance:
		if msg.data.(int) != m.seq || !m.state.Playing {
			return m, nil
		}
		m.ctrl.Advance()
		m.refresh()
		return m, m.schedule()

	case MsgEngineUpdate:
		update := msg.data.(tasks.Update)
		// mutations report through MsgActionDone
		if update.Phase != tasks.PhaseMutation {
			m.setStatus(update.Message, update.Err == nil)
		}
		return m, tea.Batch(m.refreshAndReschedule(), m.waitForUpdate())

	case MsgActionDone:
		res := msg.data.(actionResult)
		if res.err != nil && !rejected(res.err) {
			m.setStatus(fmt.Sprintf("%s: %v", res.op, res.err), false)
		}
		return m, m.refreshAndReschedule()

	case MsgUpdatesClosed:
		m.updates = nil
		return m, nil
	}
	return m, nil
}

// rejected reports whether err is an invalid operator action, which the display ignores.
func rejected(err error) bool {
	return errors.Is(err, shared.ErrInvalidInput)
}

func (m *Model) handleDisplayKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.play):
		if m.ctrl.TogglePlay() {
			m.setStatus("Playing", true)
		} else {
			m.setStatus("Paused", true)
		}
		m.refresh()
		return m, m.schedule()
	case key.Matches(msg, m.keys.next):
		m.ctrl.Advance()
		m.refresh()
		return m, m.schedule()
	case key.Matches(msg, m.keys.reconnect):
		m.setStatus("Reconnecting...", true)
		return m, m.run("reconnect", m.ctrl.Reconnect)
	case key.Matches(msg, m.keys.settings):
		m.view = SettingsView
		m.refresh()
		return m, nil
	}
	return m, nil
}

func (m *Model) handleSettingsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = DisplayView
		return m, nil
	case key.Matches(msg, m.keys.focus):
		m.focus = 1 - m.focus
		return m, nil
	case key.Matches(msg, m.keys.create):
		return m, m.startInput(inputCreate, "new playlist name")
	case key.Matches(msg, m.keys.add):
		m.itemType = models.TypeImage
		return m, m.startInput(inputAdd, "https://...")
	case key.Matches(msg, m.keys.clear):
		return m, m.run("clear playlist", m.ctrl.ClearPlaylist)
	case key.Matches(msg, m.keys.enter) && m.focus == playlistsPane:
		if entry, ok := m.lists[playlistsPane].SelectedItem().(playlistEntry); ok {
			name := entry.name
			return m, m.run("switch playlist", func(ctx context.Context) error {
				return m.ctrl.SwitchPlaylist(ctx, name)
			})
		}
		return m, nil
	case key.Matches(msg, m.keys.remove):
		return m, m.removeSelected()
	}

	var cmd tea.Cmd
	m.lists[m.focus], cmd = m.lists[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) removeSelected() tea.Cmd {
	switch m.focus {
	case playlistsPane:
		entry, ok := m.lists[playlistsPane].SelectedItem().(playlistEntry)
		if !ok {
			return nil
		}
		name := entry.name
		return m.run("delete playlist", func(ctx context.Context) error {
			return m.ctrl.DeletePlaylist(ctx, name)
		})
	default:
		entry, ok := m.lists[itemsPane].SelectedItem().(contentEntry)
		if !ok {
			return nil
		}
		id := entry.item.ID
		return m.run("remove item", func(ctx context.Context) error {
			return m.ctrl.RemoveItem(ctx, id)
		})
	}
}

func (m *Model) startInput(mode inputMode, placeholder string) tea.Cmd {
	m.mode = mode
	m.input.Reset()
	m.input.Placeholder = placeholder
	return m.input.Focus()
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.mode = inputNone
		m.input.Blur()
		return m, nil
	case m.mode == inputAdd && key.Matches(msg, m.keys.cycle):
		m.itemType = nextType(m.itemType)
		return m, nil
	case key.Matches(msg, m.keys.enter):
		return m, m.submitInput()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submitInput() tea.Cmd {
	value := m.input.Value()
	mode := m.mode
	m.mode = inputNone
	m.input.Blur()

	switch mode {
	case inputCreate:
		return m.run("create playlist", func(ctx context.Context) error {
			return m.ctrl.CreatePlaylist(ctx, value)
		})
	case inputAdd:
		draft := content.Draft{
			Type:            m.itemType,
			URL:             value,
			DurationSeconds: int(m.dwell / time.Second),
		}
		return m.run("add content", func(ctx context.Context) error {
			_, err := m.ctrl.AddItem(ctx, draft)
			return err
		})
	}
	return nil
}

// nextType cycles through the user-selectable item types.
func nextType(t models.ItemType) models.ItemType {
	selectable := []models.ItemType{models.TypeImage, models.TypeWebsite, models.TypeSlide, models.TypeSpreadsheet}
	for i, s := range selectable {
		if s == t {
			return selectable[(i+1)%len(selectable)]
		}
	}
	return selectable[0]
}

// run executes a controller call off the update loop.
func (m *Model) run(op string, fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return actionDoneMsg(op, fn(ctx))
	}
}

func (m *Model) waitForUpdate() tea.Cmd {
	ch := m.updates
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		update, ok := <-ch
		if !ok {
			return updatesClosedMsg()
		}
		return engineUpdateMsg(update)
	}
}

// schedule starts a dwell timer for the item on screen. Older timers are invalidated by seq.
func (m *Model) schedule() tea.Cmd {
	m.seq++
	if !m.state.Playing || m.state.NowShown == nil {
		return nil
	}

	dwell := time.Duration(m.state.NowShown.Duration) * time.Millisecond
	if dwell <= 0 {
		dwell = m.dwell
	}
	seq := m.seq
	return tea.Tick(dwell, func(time.Time) tea.Msg { return advanceMsg(seq) })
}

// refreshAndReschedule reloads state and restarts the dwell timer only when the item on
// screen changed.
func (m *Model) refreshAndReschedule() tea.Cmd {
	prev := m.shownID
	m.refresh()
	if m.shownID == prev {
		return nil
	}
	return m.schedule()
}

func (m *Model) refresh() {
	if m.ctrl == nil {
		return
	}
	m.state = m.ctrl.View()
	m.shownID = 0
	if m.state.NowShown != nil {
		m.shownID = m.state.NowShown.ID
	}

	entries := make([]list.Item, 0, len(m.state.Names))
	for _, name := range m.state.Names {
		entries = append(entries, playlistEntry{name: name, count: m.state.Counts[name], current: name == m.state.Current})
	}
	m.lists[playlistsPane].SetItems(entries)

	items := make([]list.Item, 0, len(m.state.Items))
	for _, it := range m.state.Items {
		items = append(items, contentEntry{item: it})
	}
	m.lists[itemsPane].SetItems(items)
	m.lists[itemsPane].Title = fmt.Sprintf("Content in '%s'", m.state.Current)
}

func (m *Model) setStatus(s string, ok bool) {
	m.status = s
	m.statusOK = ok
}

func (m *Model) resizeLists() {
	w := max(20, m.width/2-4)
	h := max(5, m.height-10)
	for i := range m.lists {
		m.lists[i].SetSize(w, h)
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case SettingsView:
		return m.renderSettings()
	default:
		return m.renderDisplay()
	}
}

func (m *Model) renderBadge() string {
	sync := m.state.Sync
	switch {
	case sync.IsSyncing:
		return styles.online.Render(m.spinner.View() + " syncing")
	case sync.IsOnline:
		return styles.online.Render("● online")
	default:
		return styles.offline.Render("○ offline")
	}
}

func (m *Model) renderHeader() string {
	playState := "▶ playing"
	if !m.state.Playing {
		playState = "⏸ paused"
	}
	position := "0/0"
	if n := len(m.state.Playable); n > 0 {
		position = fmt.Sprintf("%d/%d", m.state.Index+1, n)
	}
	return fmt.Sprintf("%s  %s  %s  %s  %s",
		styles.title.UnsetMarginBottom().Render("WAITROOM"),
		m.renderBadge(),
		styles.ok.Render(m.state.Current),
		position,
		playState,
	)
}

func (m *Model) renderDisplay() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	stage := styles.stage
	if m.width > 4 {
		stage = stage.Width(m.width - 4)
	}

	if now := m.state.NowShown; now != nil {
		tag := styles.As(fmt.Sprintf("[%s]", now.Type), typeColors[now.Type.String()])
		body := fmt.Sprintf("%s %s\n\n%s\n\n%s",
			tag,
			lipgloss.NewStyle().Bold(true).Render(now.Label()),
			styles.help.Render(now.URL),
			fmt.Sprintf("dwell %s", formatter.FormatDuration(now.Duration)),
		)
		b.WriteString(stage.Render(body))
	} else {
		b.WriteString(stage.Render(styles.warn.Render("No content in this playlist. Press s to add some.")))
	}
	b.WriteString("\n")

	if t := m.state.Ticker; t != nil {
		b.WriteString(styles.ticker.Render("📰 " + t.Label() + "  " + t.URL))
		b.WriteString("\n")
	}

	b.WriteString(m.renderStatus())
	keys := []key.Binding{m.keys.play, m.keys.next, m.keys.reconnect, m.keys.settings, m.keys.quit}
	b.WriteString("\n" + m.help.ShortHelpView(keys))
	return b.String()
}

func (m *Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusOK {
		return styles.help.Render(m.status)
	}
	return styles.err.Render(m.status)
}

func (m *Model) renderSettings() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	left, right := styles.blurred, styles.blurred
	if m.focus == playlistsPane {
		left = styles.focused
	} else {
		right = styles.focused
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		left.Render(m.lists[playlistsPane].View()),
		right.Render(m.lists[itemsPane].View()),
	))
	b.WriteString("\n")

	switch m.mode {
	case inputCreate:
		b.WriteString("New playlist: " + m.input.View())
	case inputAdd:
		b.WriteString(m.renderAddInput())
	default:
		b.WriteString(m.renderStatus())
		keys := []key.Binding{m.keys.enter, m.keys.focus, m.keys.create, m.keys.add, m.keys.remove, m.keys.clear, m.keys.back}
		b.WriteString("\n" + m.help.ShortHelpView(keys))
	}
	return b.String()
}

// renderAddInput shows the URL field with live ticker detection.
func (m *Model) renderAddInput() string {
	effective := content.Classify(m.input.Value(), m.itemType)
	line := fmt.Sprintf("Add %s: %s", styles.As(m.itemType.String(), typeColors[m.itemType.String()]), m.input.View())
	if effective != m.itemType {
		line += "\n" + styles.ok.Render("✓ RSS ticker detected, will be shown as an overlay")
	}
	keys := []key.Binding{m.keys.cycle, m.keys.enter, m.keys.back}
	return line + "\n" + m.help.ShortHelpView(keys)
}
