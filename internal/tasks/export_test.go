package tasks

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/waitroom/internal/models"
	th "github.com/desertthunder/waitroom/internal/testing"
)

func TestEngine_Export(t *testing.T) {
	ctx := context.Background()
	remote := newMockRemote(&models.Snapshot{
		Playlists: models.Playlists{
			"default":    {item(1, "https://a/1.png")},
			"Front Desk": {item(2, "https://a/2.png"), item(3, "https://a/3.png")},
			"front desk": {},
		},
		CurrentPlaylist: "default",
	})
	e := newTestEngine(t, remote, &memStore{})
	e.Start(ctx)

	t.Run("writes one file per playlist and a manifest", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "out")
		progress := make(chan Update, 10)

		result, err := e.Export(ctx, progress, ExportOpts{Format: "csv", OutputDir: dir, NumWorkers: 2})
		if err != nil {
			t.Fatalf("Export() error = %v", err)
		}
		if result.Total != 3 || result.Succeeded != 3 || result.Failed != 0 {
			t.Errorf("result = %+v", result)
		}

		files := map[string]bool{}
		for _, res := range result.Results {
			th.AssertFileExists(t, res.File)
			files[filepath.Base(res.File)] = true
		}
		for _, want := range []string{"default.csv", "front_desk.csv", "front_desk-2.csv"} {
			if !files[want] {
				t.Errorf("missing %s in %v", want, files)
			}
		}

		var manifest ExportResult
		if err := json.Unmarshal([]byte(th.MustReadFile(t, result.ManifestPath)), &manifest); err != nil {
			t.Fatalf("manifest is not JSON: %v", err)
		}
		if manifest.Current != "default" || manifest.Succeeded != 3 {
			t.Errorf("manifest = %+v", manifest)
		}

		if len(progress) != 3 {
			t.Errorf("progress updates = %d, want 3", len(progress))
		}
		u := <-progress
		if u.Phase != PhaseExport || !strings.Contains(u.Message, "✓") {
			t.Errorf("update = %+v", u)
		}
	})

	t.Run("invalid output directory", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := e.Export(ctx, nil, ExportOpts{OutputDir: filepath.Join(file, "sub")}); err == nil {
			t.Error("expected error for output directory under a file")
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		result, err := e.Export(cctx, nil, ExportOpts{OutputDir: t.TempDir()})
		if err == nil {
			t.Fatal("expected context error")
		}
		if result.Failed != result.Total {
			t.Errorf("result = %+v", result)
		}
	})
}
