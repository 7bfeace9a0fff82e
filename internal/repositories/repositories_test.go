package repositories

import (
	"bytes"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/waitroom/internal/models"
	"github.com/desertthunder/waitroom/internal/shared"
)

// setupTestDB creates a temporary SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.OpenStore(shared.DatabaseConfig{
		Path:         filepath.Join(t.TempDir(), "waitroom.db"),
		MaxOpenConns: 1,
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func sampleItems() []models.PlaylistItem {
	return []models.PlaylistItem{
		{ID: 1700000000001, Type: models.TypeImage, URL: "https://example.com/a.png", Title: "A", Duration: 5000},
		{ID: 1700000000002, Type: models.TypeRSSTicker, URL: "https://rss.app/embed/v1/ticker/x", Duration: 10000},
	}
}

func TestKVRepository(t *testing.T) {
	t.Run("Set And Get", func(t *testing.T) {
		repo := NewKVRepository(setupTestDB(t))

		if err := repo.Set("k", "v1"); err != nil {
			t.Fatalf("failed to set: %v", err)
		}
		if err := repo.Set("k", "v2"); err != nil {
			t.Fatalf("failed to overwrite: %v", err)
		}

		got, ok, err := repo.Get("k")
		if err != nil || !ok {
			t.Fatalf("expected key to exist, ok=%v err=%v", ok, err)
		}
		if got != "v2" {
			t.Errorf("expected v2, got %q", got)
		}
	})

	t.Run("Get Missing", func(t *testing.T) {
		repo := NewKVRepository(setupTestDB(t))

		_, ok, err := repo.Get("missing")
		if err != nil || ok {
			t.Errorf("expected missing key without error, ok=%v err=%v", ok, err)
		}
	})

	t.Run("SetMany And Delete", func(t *testing.T) {
		repo := NewKVRepository(setupTestDB(t))

		if err := repo.SetMany(map[string]string{"a": "1", "b": "2"}); err != nil {
			t.Fatalf("failed to set many: %v", err)
		}
		if err := repo.Delete("a"); err != nil {
			t.Fatalf("failed to delete: %v", err)
		}
		if err := repo.Delete("never-existed"); err != nil {
			t.Errorf("deleting a missing key should not fail: %v", err)
		}

		if _, ok, _ := repo.Get("a"); ok {
			t.Error("expected a to be deleted")
		}
		if v, ok, _ := repo.Get("b"); !ok || v != "2" {
			t.Errorf("expected b=2, got %q ok=%v", v, ok)
		}
	})

	t.Run("Closed Database", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewKVRepository(db)
		db.Close()

		if _, _, err := repo.Get("k"); err == nil {
			t.Error("expected error reading from closed database")
		}
		if err := repo.Set("k", "v"); err == nil {
			t.Error("expected error writing to closed database")
		}
	})
}

func TestLocalStore(t *testing.T) {
	t.Run("Empty Store", func(t *testing.T) {
		store := NewLocalStore(setupTestDB(t), nil)

		playlists, current := store.Load()
		if playlists != nil || current != "" {
			t.Errorf("expected no data, got %v current=%q", playlists, current)
		}
	})

	t.Run("Round Trip", func(t *testing.T) {
		store := NewLocalStore(setupTestDB(t), nil)
		want := models.Playlists{
			models.DefaultPlaylist: sampleItems(),
			"promo":                {},
		}

		store.Save(want, "promo")
		got, current := store.Load()

		if current != "promo" {
			t.Errorf("expected current promo, got %q", current)
		}
		if len(got) != len(want) {
			t.Fatalf("expected %d playlists, got %d", len(want), len(got))
		}
		for name, items := range want {
			if !models.ItemsEqual(got[name], items) {
				t.Errorf("playlist %q: expected %v, got %v", name, items, got[name])
			}
		}
	})

	t.Run("Missing Current Defaults", func(t *testing.T) {
		db := setupTestDB(t)
		if err := NewKVRepository(db).Set(KeyPlaylists, `{"default":[]}`); err != nil {
			t.Fatalf("failed to seed: %v", err)
		}

		_, current := NewLocalStore(db, nil).Load()
		if current != models.DefaultPlaylist {
			t.Errorf("expected default, got %q", current)
		}
	})

	t.Run("Malformed Record Is Logged And Ignored", func(t *testing.T) {
		db := setupTestDB(t)
		if err := NewKVRepository(db).Set(KeyPlaylists, `{not json`); err != nil {
			t.Fatalf("failed to seed: %v", err)
		}

		var buf bytes.Buffer
		playlists, current := NewLocalStore(db, shared.NewLogger(&buf)).Load()

		if playlists != nil || current != "" {
			t.Errorf("expected no data, got %v current=%q", playlists, current)
		}
		if !strings.Contains(buf.String(), "malformed") {
			t.Errorf("expected a warning to be logged, got %q", buf.String())
		}
	})

	t.Run("Legacy Migration", func(t *testing.T) {
		db := setupTestDB(t)
		kv := NewKVRepository(db)
		if err := kv.Set(KeyLegacyPlaylist, `[{"id":1,"type":"image","url":"https://example.com/x.png","title":"","duration":5000}]`); err != nil {
			t.Fatalf("failed to seed: %v", err)
		}

		store := NewLocalStore(db, nil)
		playlists, current := store.Load()

		if current != models.DefaultPlaylist {
			t.Errorf("expected default, got %q", current)
		}
		if len(playlists) != 1 || len(playlists[models.DefaultPlaylist]) != 1 {
			t.Fatalf("expected legacy items wrapped in default, got %v", playlists)
		}
		if _, ok, _ := kv.Get(KeyLegacyPlaylist); ok {
			t.Error("expected legacy record to be erased")
		}
		if _, ok, _ := kv.Get(KeyPlaylists); !ok {
			t.Error("expected multi-playlist record to be written")
		}

		again, _ := store.Load()
		if len(again[models.DefaultPlaylist]) != 1 {
			t.Errorf("expected migrated data on reload, got %v", again)
		}
	})

	t.Run("Legacy Ignored When Playlists Exist", func(t *testing.T) {
		db := setupTestDB(t)
		kv := NewKVRepository(db)
		if err := kv.Set(KeyPlaylists, `{"default":[],"promo":[]}`); err != nil {
			t.Fatalf("failed to seed: %v", err)
		}
		if err := kv.Set(KeyLegacyPlaylist, `[{"id":1,"type":"image","url":"u","title":"","duration":5000}]`); err != nil {
			t.Fatalf("failed to seed: %v", err)
		}

		playlists, _ := NewLocalStore(db, nil).Load()
		if len(playlists) != 2 || len(playlists[models.DefaultPlaylist]) != 0 {
			t.Errorf("expected multi-playlist record to win, got %v", playlists)
		}
		if _, ok, _ := kv.Get(KeyLegacyPlaylist); !ok {
			t.Error("legacy record should be left alone when playlists exist")
		}
	})

	t.Run("Empty Legacy Is Not Migrated", func(t *testing.T) {
		db := setupTestDB(t)
		if err := NewKVRepository(db).Set(KeyLegacyPlaylist, `[]`); err != nil {
			t.Fatalf("failed to seed: %v", err)
		}

		if playlists, _ := NewLocalStore(db, nil).Load(); playlists != nil {
			t.Errorf("expected no data, got %v", playlists)
		}
	})

	t.Run("Save On Closed Database Does Not Panic", func(t *testing.T) {
		db := setupTestDB(t)
		var buf bytes.Buffer
		store := NewLocalStore(db, shared.NewLogger(&buf))
		db.Close()

		store.Save(models.Playlists{models.DefaultPlaylist: {}}, models.DefaultPlaylist)
		if playlists, _ := store.Load(); playlists != nil {
			t.Errorf("expected no data from closed database, got %v", playlists)
		}
		if !strings.Contains(buf.String(), "failed to save playlists") {
			t.Errorf("expected save failure to be logged, got %q", buf.String())
		}
	})

	t.Run("DisplayID Is Stable", func(t *testing.T) {
		store := NewLocalStore(setupTestDB(t), nil)

		first := store.DisplayID()
		if first == "" {
			t.Fatal("expected a display id")
		}
		if second := store.DisplayID(); second != first {
			t.Errorf("expected stable id %q, got %q", first, second)
		}
	})
}
