package shared

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrationRunner(t *testing.T) {
	t.Run("loadMigrations", func(t *testing.T) {
		migrations, err := loadMigrations()
		if err != nil {
			t.Fatalf("failed to load migrations: %v", err)
		}

		if len(migrations) == 0 {
			t.Fatal("expected at least one migration")
		}

		for i := 1; i < len(migrations); i++ {
			if migrations[i].Version <= migrations[i-1].Version {
				t.Errorf("migrations not sorted: version %d comes after %d", migrations[i].Version, migrations[i-1].Version)
			}
		}

		for _, m := range migrations {
			if m.Up == "" {
				t.Errorf("migration version %d missing up SQL", m.Version)
			}
			if m.Down == "" {
				t.Errorf("migration version %d missing down SQL", m.Version)
			}
		}
	})

	t.Run("RunMigrations Is Idempotent", func(t *testing.T) {
		db := openTestDB(t)

		for range 2 {
			if err := RunMigrations(db); err != nil {
				t.Fatalf("failed to run migrations: %v", err)
			}
		}

		if _, err := db.Exec("SELECT key, value FROM kv_store LIMIT 1"); err != nil {
			t.Errorf("kv_store table should exist after migrations: %v", err)
		}

		version, err := CurrentVersion(db)
		if err != nil {
			t.Fatalf("failed to read version: %v", err)
		}
		if version != 1 {
			t.Errorf("expected version 1, got %d", version)
		}
	})

	t.Run("ResetDatabase Clears Data", func(t *testing.T) {
		db := openTestDB(t)
		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		if _, err := db.Exec("INSERT INTO kv_store (key, value) VALUES ('playlists', '{}')"); err != nil {
			t.Fatalf("failed to seed kv_store: %v", err)
		}

		if err := ResetDatabase(db); err != nil {
			t.Fatalf("failed to reset database: %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM kv_store").Scan(&count); err != nil {
			t.Fatalf("failed to count kv_store rows: %v", err)
		}
		if count != 0 {
			t.Errorf("expected empty kv_store after reset, got %d rows", count)
		}
	})

	t.Run("stripComments", func(t *testing.T) {
		got := stripComments("-- header\nCREATE TABLE x (id INTEGER); -- trailing\n\n")
		if got != "CREATE TABLE x (id INTEGER);" {
			t.Errorf("unexpected stripped statement %q", got)
		}
	})
}

func TestOpenStore(t *testing.T) {
	db, err := OpenStore(DatabaseConfig{Path: filepath.Join(t.TempDir(), "store.db"), MaxOpenConns: 1})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec("SELECT COUNT(*) FROM kv_store"); err != nil {
		t.Errorf("expected migrated kv_store: %v", err)
	}
}
