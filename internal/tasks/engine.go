package tasks

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/waitroom/internal/content"
	"github.com/desertthunder/waitroom/internal/metrics"
	"github.com/desertthunder/waitroom/internal/models"
	"github.com/desertthunder/waitroom/internal/shared"
)

// Remote is the backend as seen by the engine. [services.SyncClient] implements it.
type Remote interface {
	CreateSession(ctx context.Context) (string, error)
	FetchAllPlaylists(ctx context.Context) (*models.Snapshot, error)
	PollPlaylists(ctx context.Context) (*models.Snapshot, error)
	SavePlaylist(ctx context.Context, name string, items []models.PlaylistItem) error
	SetCurrentPlaylist(ctx context.Context, name string) error
	DeletePlaylist(ctx context.Context, name string) error
	State() models.SyncState
}

// Store is the local fallback. [repositories.LocalStore] implements it.
type Store interface {
	Load() (models.Playlists, string)
	Save(playlists models.Playlists, current string)
}

// Source names where startup state came from.
type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
	SourceEmpty  Source = "empty"
)

// PullOutcome describes what a single pull did.
type PullOutcome string

const (
	PullSkippedOffline PullOutcome = "skipped_offline"
	PullSkippedBusy    PullOutcome = "skipped_busy"
	PullFailed         PullOutcome = "failed"
	PullStale          PullOutcome = "stale"
	PullUnchanged      PullOutcome = "unchanged"
	PullAdopted        PullOutcome = "adopted"
)

// State is the application state shared by the display and the operator surface.
type State struct {
	Registry *models.Registry
	Cursor   models.Cursor
}

func newState(r *models.Registry) State {
	s := State{Registry: r}
	s.Cursor.SetPlaying(true)
	return s
}

// EngineOpts configures an [Engine].
type EngineOpts struct {
	Remote  Remote
	Store   Store
	Logger  *log.Logger
	Updates chan<- Update // optional; sends never block

	FeedDuration time.Duration // dwell for imported feed entries; 0 keeps the default
}

// Engine reconciles the playlist registry between the backend and the local store.
//
// The mutex guards state only and is never held across a network call.
type Engine struct {
	remote  Remote
	store   Store
	logger  *log.Logger
	updates chan<- Update
	feedMs  int64

	mu         sync.Mutex
	state      State
	generation uint64
	pulling    atomic.Bool
	pushing    atomic.Int32 // pushes whose remote writes have not finished
}

// NewEngine creates an engine holding an empty registry. Call [Engine.Start] to load state.
func NewEngine(opts EngineOpts) *Engine {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	return &Engine{
		remote:  opts.Remote,
		store:   opts.Store,
		logger:  shared.WithLogger(opts.Logger, "component", "engine"),
		updates: opts.Updates,
		feedMs:  opts.FeedDuration.Milliseconds(),
		state:   newState(models.NewRegistry()),
	}
}

func (e *Engine) send(u Update) { e.sendTo(e.updates, u) }

// online reports whether remote calls should be attempted.
func (e *Engine) online() bool {
	return e.remote != nil && e.remote.State().IsOnline
}

// Start performs the startup load: session, then remote fetch, then local fallback.
//
// Remote state wins whenever it holds at least one playlist. Failures are never fatal.
// Start does not start the periodic pull; see [Engine.Watch].
func (e *Engine) Start(ctx context.Context) Source {
	var snap *models.Snapshot
	if e.remote != nil {
		if _, err := e.remote.CreateSession(ctx); err != nil {
			e.logger.Warn("session creation failed", "err", err)
		}
		var err error
		if snap, err = e.remote.FetchAllPlaylists(ctx); err != nil {
			e.logger.Warn("initial fetch failed, falling back to local store", "err", err)
		}
	}

	var (
		source   Source
		registry *models.Registry
	)
	switch {
	case snap != nil && len(snap.Playlists) > 0:
		source = SourceRemote
		registry = models.RegistryFrom(snap.Playlists, snap.CurrentPlaylist)
	default:
		playlists, current := e.load()
		if len(playlists) > 0 {
			source = SourceLocal
			registry = models.RegistryFrom(playlists, current)
		} else {
			source = SourceEmpty
			registry = models.NewRegistry()
		}
	}

	e.mu.Lock()
	e.state = newState(registry)
	e.generation++
	playlists, current := registry.Playlists(), registry.Current()
	e.recordItems()
	e.mu.Unlock()

	e.logger.Info("playlists loaded", "source", source, "current", current, "playlists", len(playlists))
	e.send(startupUpdate(source, current, len(playlists)))

	switch {
	case source == SourceRemote:
		e.save(playlists, current)
	case source == SourceLocal && e.online():
		// backend answered with nothing; seed it from the local copy
		e.pushing.Add(1)
		e.push(ctx)
	}
	return source
}

func (e *Engine) load() (models.Playlists, string) {
	if e.store == nil {
		return nil, ""
	}
	return e.store.Load()
}

func (e *Engine) save(playlists models.Playlists, current string) {
	if e.store == nil {
		return
	}
	e.store.Save(playlists, current)
}

// mutate applies fn under the lock and, when it succeeds, bumps the generation and
// marks a push in flight. The caller must follow a successful mutate with [Engine.push].
func (e *Engine) mutate(op string, fn func(s *State) error) error {
	e.mu.Lock()
	err := fn(&e.state)
	if err == nil {
		e.generation++
		e.pushing.Add(1)
		e.recordItems()
	}
	e.mu.Unlock()

	if err != nil {
		e.logger.Debug("rejected", "op", op, "err", err)
		e.send(rejectedUpdate(op, err))
	}
	return err
}

// push sends the current playlist and pointer to the backend when online, then
// persists the whole registry locally regardless of the remote outcome. It releases
// the in-flight mark taken by mutate.
//
// Remote failures surface through the online flag and the returned error is informational.
func (e *Engine) push(ctx context.Context) error {
	defer e.pushing.Add(-1)

	e.mu.Lock()
	current := e.state.Registry.Current()
	items := e.state.Registry.Items()
	all := e.state.Registry.Playlists()
	e.mu.Unlock()

	if len(all) == 0 && all.ItemCount() == 0 {
		return nil
	}

	var err error
	remote := e.online()
	if remote {
		saveErr := e.remote.SavePlaylist(ctx, current, items)
		setErr := e.remote.SetCurrentPlaylist(ctx, current)
		err = errors.Join(saveErr, setErr)
		metrics.PushesTotal.WithLabelValues("remote").Inc()
	} else {
		metrics.PushesTotal.WithLabelValues("local_only").Inc()
	}

	e.mu.Lock()
	playlists, current := e.state.Registry.Playlists(), e.state.Registry.Current()
	e.mu.Unlock()
	e.save(playlists, current)

	e.send(pushUpdate(current, remote, err))
	return err
}

// CreatePlaylist adds an empty playlist and selects it.
func (e *Engine) CreatePlaylist(ctx context.Context, name string) error {
	err := e.mutate("create playlist", func(s *State) error {
		if err := s.Registry.Create(name); err != nil {
			return err
		}
		s.Cursor.Reset()
		return nil
	})
	if err != nil {
		return err
	}
	e.send(mutationUpdate("Created playlist %s", e.Current()))
	e.push(ctx)
	return nil
}

// SwitchPlaylist selects an existing playlist.
func (e *Engine) SwitchPlaylist(ctx context.Context, name string) error {
	err := e.mutate("switch playlist", func(s *State) error {
		if err := s.Registry.Switch(name); err != nil {
			return err
		}
		s.Cursor.Reset()
		return nil
	})
	if err != nil {
		return err
	}
	e.send(mutationUpdate("Switched to %s", name))
	e.push(ctx)
	return nil
}

// DeletePlaylist removes a playlist. The default playlist is protected.
func (e *Engine) DeletePlaylist(ctx context.Context, name string) error {
	err := e.mutate("delete playlist", func(s *State) error {
		wasCurrent, err := s.Registry.Delete(name)
		if err != nil {
			return err
		}
		if wasCurrent {
			s.Cursor.Reset()
		}
		return nil
	})
	if err != nil {
		return err
	}
	e.send(mutationUpdate("Deleted playlist %s", name))

	// hold pulls off until the backend has dropped the playlist too
	e.pushing.Add(1)
	defer e.pushing.Add(-1)
	e.push(ctx)
	if e.online() {
		if err := e.remote.DeletePlaylist(ctx, name); err != nil {
			e.logger.Warn("remote delete failed", "playlist", name, "err", err)
		}
	}
	return nil
}

// AddItem builds an item from d and appends it to the current playlist.
func (e *Engine) AddItem(ctx context.Context, d content.Draft) (models.PlaylistItem, error) {
	item, err := content.BuildItem(d)
	if err != nil {
		e.logger.Debug("rejected", "op", "add item", "err", err)
		e.send(rejectedUpdate("add item", err))
		return models.PlaylistItem{}, err
	}

	e.mutate("add item", func(s *State) error {
		s.Registry.Append(item)
		return nil
	})
	e.send(mutationUpdate("Added %s: %s", item.Type, item.Label()))
	e.push(ctx)
	return item, nil
}

// ImportFeedEntry appends a feed entry as a ticker or website item.
func (e *Engine) ImportFeedEntry(ctx context.Context, entry content.FeedEntry) (models.PlaylistItem, error) {
	item := content.FromFeedEntry(entry)
	if e.feedMs > 0 && item.Type != models.TypeRSSTicker {
		item.Duration = e.feedMs
	}
	e.mutate("import feed entry", func(s *State) error {
		s.Registry.Append(item)
		return nil
	})
	e.send(mutationUpdate("Imported %s: %s", item.Type, item.Label()))
	e.push(ctx)
	return item, nil
}

// RemoveItem deletes an item by id from the current playlist.
func (e *Engine) RemoveItem(ctx context.Context, id int64) error {
	err := e.mutate("remove item", func(s *State) error {
		if err := s.Registry.Remove(id); err != nil {
			return err
		}
		s.Cursor.Clamp(len(content.Playable(s.Registry.Items())))
		return nil
	})
	if err != nil {
		return err
	}
	e.send(mutationUpdate("Removed item %d", id))
	e.push(ctx)
	return nil
}

// ClearPlaylist empties the current playlist.
func (e *Engine) ClearPlaylist(ctx context.Context) error {
	e.mutate("clear playlist", func(s *State) error {
		s.Registry.SetItems(nil)
		s.Cursor.Reset()
		return nil
	})
	e.send(mutationUpdate("Cleared %s", e.Current()))
	e.push(ctx)
	return nil
}

// Advance moves the cursor to the next playable item and returns it.
func (e *Engine) Advance() (models.PlaylistItem, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	playable := content.Playable(e.state.Registry.Items())
	e.state.Cursor.Advance(len(playable))
	return e.state.Cursor.Current(playable)
}

// TogglePlay flips play/pause and returns the new state.
func (e *Engine) TogglePlay() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Cursor.Toggle()
}

// Pull fetches remote state and adopts it when it differs. It runs only while online,
// skips when another pull or a push is outstanding, and never changes the online flag.
func (e *Engine) Pull(ctx context.Context) (PullOutcome, error) {
	outcome, err := e.pull(ctx)
	metrics.PullsTotal.WithLabelValues(string(outcome)).Inc()
	return outcome, err
}

func (e *Engine) pull(ctx context.Context) (PullOutcome, error) {
	if !e.online() {
		return PullSkippedOffline, nil
	}
	if e.pushing.Load() > 0 || !e.pulling.CompareAndSwap(false, true) {
		return PullSkippedBusy, nil
	}
	defer e.pulling.Store(false)

	e.mu.Lock()
	gen := e.generation
	e.mu.Unlock()

	snap, err := e.remote.PollPlaylists(ctx)
	if err != nil {
		e.logger.Warn("pull failed", "err", err)
		e.send(pullFailedUpdate(err))
		return PullFailed, err
	}

	e.mu.Lock()
	if e.generation != gen || e.pushing.Load() > 0 {
		e.mu.Unlock()
		e.logger.Debug("discarding pull, local state changed while fetching")
		return PullStale, nil
	}

	d := Reconcile(e.state.Registry.Playlists(), e.state.Registry.Current(), *snap)
	if !d.Changed() {
		e.mu.Unlock()
		return PullUnchanged, nil
	}

	e.state.Registry.Replace(d.Playlists, d.Current)
	if d.AdoptPointer {
		e.state.Cursor.Reset()
	} else {
		e.state.Cursor.Clamp(len(content.Playable(e.state.Registry.Items())))
	}
	playlists, current := e.state.Registry.Playlists(), e.state.Registry.Current()
	e.recordItems()
	e.mu.Unlock()

	e.save(playlists, current)
	e.logger.Info("adopted remote state", "current", current, "items", d.AdoptItems, "pointer", d.AdoptPointer)
	e.send(pullUpdate(d))
	return PullAdopted, nil
}

// Reconnect retries the backend with a tracked fetch, so success flips the display back
// online. Non-empty remote state is adopted; otherwise local state is pushed.
func (e *Engine) Reconnect(ctx context.Context) error {
	if e.remote == nil {
		return shared.ErrServiceUnavailable
	}

	snap, err := e.remote.FetchAllPlaylists(ctx)
	e.send(reconnectUpdate(snap, err))
	if err != nil {
		return err
	}

	if len(snap.Playlists) == 0 {
		e.pushing.Add(1)
		return e.push(ctx)
	}

	e.mu.Lock()
	e.state.Registry.Replace(snap.Playlists, snap.CurrentPlaylist)
	e.state.Cursor.Clamp(len(content.Playable(e.state.Registry.Items())))
	e.generation++
	playlists, current := e.state.Registry.Playlists(), e.state.Registry.Current()
	e.recordItems()
	e.mu.Unlock()

	e.save(playlists, current)
	return nil
}

// Watch returns a stopped poller that pulls every interval.
func (e *Engine) Watch(interval time.Duration) *Poller {
	return NewPoller(interval, func(ctx context.Context) { e.Pull(ctx) })
}

// recordItems updates item gauges. Callers hold the lock.
func (e *Engine) recordItems() {
	items := e.state.Registry.Items()
	playable := len(content.Playable(items))
	metrics.PlaylistItems.WithLabelValues("playable").Set(float64(playable))
	metrics.PlaylistItems.WithLabelValues("ticker").Set(float64(len(items) - playable))
}
