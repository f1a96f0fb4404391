package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "state.json")

	s := NewFile(path)

	// Initially should not exist
	if s.Exists() {
		t.Error("Exists() = true, want false for new store")
	}

	_, ok, err := s.Get("player")
	if err != nil {
		t.Errorf("Get() error = %v", err)
	}
	if ok {
		t.Error("Get() ok = true for missing key")
	}

	if err := s.Set("player", `{"volume":0.5}`); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Set("other", "x"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if !s.Exists() {
		t.Error("Exists() = false after set, want true")
	}

	// A fresh handle sees the persisted values
	reopened := NewFile(path)
	v, ok, err := reopened.Get("player")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok || v != `{"volume":0.5}` {
		t.Errorf("Get() = %q, %v, want persisted value", v, ok)
	}

	// Verify file permissions
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		t.Errorf("File permissions = %o, want 0600", mode)
	}

	if err := s.Delete("player"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := s.Get("player"); ok {
		t.Error("Get() ok = true after delete")
	}
	if v, ok, _ := s.Get("other"); !ok || v != "x" {
		t.Errorf("Get(other) = %q, %v, want untouched value", v, ok)
	}
}

func TestFileStoreNestedDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "state.json")
	s := NewFile(path)

	if err := s.Set("k", "v"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if !s.Exists() {
		t.Error("state file not created in nested directory")
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	s := NewFile(path)
	if _, _, err := s.Get("player"); err == nil {
		t.Error("Get() error = nil for corrupt file, want error")
	}

	// Writing recovers the file
	if err := s.Set("player", "fresh"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if v, ok, err := s.Get("player"); err != nil || !ok || v != "fresh" {
		t.Errorf("Get() = %q, %v, %v, want recovered value", v, ok, err)
	}
}

func TestFileStoreDeleteNonExistent(t *testing.T) {
	s := NewFile(filepath.Join(t.TempDir(), "nonexistent.json"))
	if err := s.Delete("missing"); err != nil {
		t.Errorf("Delete() on missing key error = %v", err)
	}
}

func TestFileStorePath(t *testing.T) {
	path := "/custom/path/state.json"
	if got := NewFile(path).Path(); got != path {
		t.Errorf("Path() = %q, want %q", got, path)
	}
}

func TestMemoryStore(t *testing.T) {
	m := NewMemory()
	if _, ok, _ := m.Get("k"); ok {
		t.Error("Get() ok = true on empty store")
	}
	_ = m.Set("k", "v")
	if v, ok, _ := m.Get("k"); !ok || v != "v" {
		t.Errorf("Get() = %q, %v, want %q, true", v, ok, "v")
	}
	_ = m.Delete("k")
	if _, ok, _ := m.Get("k"); ok {
		t.Error("Get() ok = true after delete")
	}
}
