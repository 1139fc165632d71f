package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Fatal("database file should exist after creating store")
	}
	if s.Path() != dbPath {
		t.Errorf("Path() = %q, want %q", s.Path(), dbPath)
	}
}

func TestNewStore_RunsMigrations(t *testing.T) {
	s := newTestStore(t)

	for _, table := range []string{"settings", "overlays"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q should exist after migrations: %v", table, err)
		}
	}

	var idx string
	err := s.DB().QueryRow(
		"SELECT name FROM sqlite_master WHERE type='index' AND name=?",
		"idx_overlays_created_at",
	).Scan(&idx)
	if err != nil {
		t.Errorf("index should exist after migrations: %v", err)
	}
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if err := s.Settings().Set("k", "v"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	s.Close()

	s, err = New(dbPath)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer s.Close()

	if v, err := s.Settings().Get("k"); err != nil || v != "v" {
		t.Errorf("Get() = %q, %v after reopen", v, err)
	}
}

func TestStore_Close(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Errorf("close should not return error: %v", err)
	}

	if _, err := s.DB().Exec("SELECT 1"); err == nil {
		t.Error("DB operations should fail after close")
	}
}

func TestSettings(t *testing.T) {
	s := newTestStore(t)
	settings := s.Settings()

	if _, err := settings.Get(SettingActiveOverlay); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() missing key error = %v, want ErrNotFound", err)
	}

	if err := settings.Set(SettingActiveOverlay, "a"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := settings.Set(SettingActiveOverlay, "b"); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}
	if v, _ := settings.Get(SettingActiveOverlay); v != "b" {
		t.Errorf("Get() = %q, want %q", v, "b")
	}

	if err := settings.Delete(SettingActiveOverlay); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := settings.Delete(SettingActiveOverlay); err != nil {
		t.Errorf("Delete() of missing key error = %v", err)
	}
	if _, err := settings.Get(SettingActiveOverlay); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
}

func TestSettings_Bool(t *testing.T) {
	s := newTestStore(t)
	settings := s.Settings()

	if !settings.GetBool(SettingOverlayEnabled, true) {
		t.Error("missing key should return the default")
	}

	settings.SetBool(SettingOverlayEnabled, false)
	if settings.GetBool(SettingOverlayEnabled, true) {
		t.Error("GetBool() = true after SetBool(false)")
	}

	settings.Set(SettingOverlayEnabled, "maybe")
	if !settings.GetBool(SettingOverlayEnabled, true) {
		t.Error("unparsable value should return the default")
	}
}
