package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/desertthunder/waitroom/internal/formatter"
)

// ExportOpts configures [Engine.Export].
type ExportOpts struct {
	Format     string // txt, csv, markdown or json (default)
	OutputDir  string // default: waitroom_export_{epoch}
	NumWorkers int    // default 4, capped at 8
}

// PlaylistExportResult is the outcome for one playlist.
type PlaylistExportResult struct {
	Playlist string `json:"playlist"`
	File     string `json:"file,omitempty"`
	Items    int    `json:"items"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

// ExportResult summarizes an export run.
type ExportResult struct {
	Format          string                 `json:"format"`
	OutputDirectory string                 `json:"output_directory"`
	Current         string                 `json:"current_playlist"`
	Total           int                    `json:"total"`
	Succeeded       int                    `json:"succeeded"`
	Failed          int                    `json:"failed"`
	Results         []PlaylistExportResult `json:"results"`
	ManifestPath    string                 `json:"-"`
}

type exportJob struct {
	export   *formatter.PlaylistExport
	filename string
}

// Export writes every playlist to its own file using a small worker pool, then writes
// export_manifest.json. Files are written from a snapshot, so the display keeps running.
func (e *Engine) Export(ctx context.Context, progress chan<- Update, opts ExportOpts) (*ExportResult, error) {
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("waitroom_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 8 {
		opts.NumWorkers = 8
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	snap := e.Snapshot()
	names := make([]string, 0, len(snap.Playlists))
	for name := range snap.Playlists {
		names = append(names, name)
	}
	sort.Strings(names)

	result := &ExportResult{
		Format:          opts.Format,
		OutputDirectory: opts.OutputDir,
		Current:         snap.CurrentPlaylist,
		Total:           len(names),
		Results:         make([]PlaylistExportResult, 0, len(names)),
	}

	jobs := make(chan exportJob, len(names))
	results := make(chan PlaylistExportResult, len(names))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go exportWorker(ctx, &wg, jobs, results, opts)
	}

	seen := make(map[string]int)
	for _, name := range names {
		filename := formatter.Filename(name)
		if n := seen[filename]; n > 0 {
			seen[filename] = n + 1
			filename = fmt.Sprintf("%s-%d", filename, n+1)
		} else {
			seen[filename] = 1
		}
		jobs <- exportJob{
			export:   &formatter.PlaylistExport{Name: name, Items: snap.Playlists[name]},
			filename: filename,
		}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)
		if res.Success {
			result.Succeeded++
			e.sendTo(progress, exportCompletedUpdate(completed, result.Total, res.Playlist, 1))
		} else {
			result.Failed++
			e.sendTo(progress, exportFailedUpdate(completed, result.Total, res.Playlist, fmt.Errorf("%s", res.Error)))
		}
	}
	sort.Slice(result.Results, func(i, j int) bool { return result.Results[i].Playlist < result.Results[j].Playlist })

	if err := ctx.Err(); err != nil {
		return result, err
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

func exportWorker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan exportJob, results chan<- PlaylistExportResult, opts ExportOpts) {
	defer wg.Done()

	for job := range jobs {
		res := PlaylistExportResult{Playlist: job.export.Name, Items: len(job.export.Items)}
		if err := ctx.Err(); err != nil {
			res.Error = err.Error()
			results <- res
			continue
		}

		path, err := formatter.WriteExport(job.export, opts.Format, opts.OutputDir, job.filename)
		if err != nil {
			res.Error = err.Error()
			results <- res
			continue
		}

		res.File = path
		res.Success = true
		results <- res
	}
}

// sendTo is the non-blocking send used for caller-supplied progress channels.
func (e *Engine) sendTo(ch chan<- Update, u Update) {
	if ch == nil {
		return
	}
	select {
	case ch <- u:
	default:
	}
}
