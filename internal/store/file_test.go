package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFile_ReadMissing(t *testing.T) {
	f, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	if _, err := f.Read("nope"); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("Read error = %v, want ErrNoSnapshot", err)
	}
}

func TestFile_WriteRead(t *testing.T) {
	dir := t.TempDir()
	f, _ := NewFile(dir)

	if err := f.Write("requests-storage", []byte(`{"v":1}`)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := f.Read("requests-storage")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != `{"v":1}` {
		t.Errorf("Read = %s, want {\"v\":1}", data)
	}
	if _, err := os.Stat(filepath.Join(dir, "requests-storage.json")); err != nil {
		t.Errorf("snapshot file missing: %v", err)
	}
}

func TestFile_WriteKeepsBackup(t *testing.T) {
	dir := t.TempDir()
	f, _ := NewFile(dir)
	f.Write("s", []byte(`{"v":1}`))
	f.Write("s", []byte(`{"v":2}`))

	bak, err := os.ReadFile(filepath.Join(dir, "s.json.bak"))
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if string(bak) != `{"v":1}` {
		t.Errorf("backup = %s, want {\"v\":1}", bak)
	}
}

func TestFile_CorruptRestoresBackup(t *testing.T) {
	dir := t.TempDir()
	f, _ := NewFile(dir)
	f.Write("s", []byte(`{"v":1}`))
	f.Write("s", []byte(`{"v":2}`))
	os.WriteFile(filepath.Join(dir, "s.json"), []byte("{truncated"), 0o644)

	data, err := f.Read("s")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != `{"v":1}` {
		t.Errorf("Read = %s, want backup contents", data)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "quarantine"))
	if err != nil {
		t.Fatalf("read quarantine dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("quarantined files = %d, want 1", len(entries))
	}
}

func TestFile_CorruptWithoutBackup(t *testing.T) {
	dir := t.TempDir()
	f, _ := NewFile(dir)
	os.WriteFile(filepath.Join(dir, "s.json"), []byte("garbage"), 0o644)

	if _, err := f.Read("s"); err == nil {
		t.Fatal("expected error for corrupt snapshot without backup")
	}
	if _, err := os.Stat(filepath.Join(dir, "s.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("corrupt file still in place: %v", err)
	}
}
