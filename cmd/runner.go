package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/waitroom/internal/repositories"
	"github.com/desertthunder/waitroom/internal/services"
	"github.com/desertthunder/waitroom/internal/shared"
	"github.com/desertthunder/waitroom/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The database, backend client and engine are opened lazily so commands that never touch
// playlists (classify, setup) do not need a reachable backend.
type Runner struct {
	config     *shared.Config
	configPath string
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer

	db     *sql.DB
	store  *repositories.LocalStore
	remote *services.SyncClient
	engine *tasks.Engine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Config.RemoteTimeout()}
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, displayCommand, playlistsCommand, itemsCommand, feedCommand, classifyCommand, syncCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger used by the runner and anything it opens afterwards.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// openStore opens the local database once.
func (r *Runner) openStore() (*repositories.LocalStore, error) {
	if r.store != nil {
		return r.store, nil
	}

	db, err := shared.OpenStore(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	r.db = db
	r.store = repositories.NewLocalStore(db, r.logger)
	return r.store, nil
}

// open builds the engine and performs the startup load. updates may be nil.
func (r *Runner) open(ctx context.Context, updates chan<- tasks.Update) (*tasks.Engine, error) {
	if r.engine != nil {
		return r.engine, nil
	}

	store, err := r.openStore()
	if err != nil {
		return nil, err
	}

	displayID := store.DisplayID()
	logger := shared.WithLogger(r.logger, "display_id", displayID)

	r.remote = services.NewSyncClient(services.SyncClientOpts{
		BaseURL:           r.config.Remote.BaseURL,
		HTTPClient:        r.httpClient,
		RequestsPerSecond: r.config.Remote.RequestsPerSecond,
		SessionID:         r.config.Remote.SessionID,
		DisplayID:         displayID,
		Logger:            logger,
	})

	r.engine = tasks.NewEngine(tasks.EngineOpts{
		Remote:       r.remote,
		Store:        store,
		Logger:       logger,
		Updates:      updates,
		FeedDuration: time.Duration(r.config.Feed.DurationSeconds) * time.Second,
	})

	source := r.engine.Start(ctx)
	r.logger.Debug("engine started", "source", source, "online", r.remote.State().IsOnline)
	return r.engine, nil
}

// feeds creates a feed fetcher with its own timeout.
func (r *Runner) feeds() *services.FeedService {
	client := &http.Client{Timeout: r.config.FeedTimeout()}
	return services.NewFeedService(client, r.config.Feed.MaxItems, r.logger)
}

// Close releases the local database.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	r.store = nil
	r.engine = nil
	return err
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
