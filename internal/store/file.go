package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// File keeps each slot as <dir>/<name>.json. Writes go through a temp file
// and rename, keeping the previous version as <name>.json.bak.
type File struct {
	dir string
}

// NewFile creates dir if needed and returns a File store rooted there.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create %s: %w", dir, err)
	}
	return &File{dir: dir}, nil
}

func (f *File) path(name string) string {
	return filepath.Join(f.dir, name+".json")
}

// Read implements Store. A file that is not valid JSON is moved to the
// quarantine directory and the backup is restored in its place if usable.
func (f *File) Read(name string) ([]byte, error) {
	path := f.path(name)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if json.Valid(data) {
		return data, nil
	}

	if err := f.quarantine(path); err != nil {
		return nil, err
	}
	bak, err := os.ReadFile(path + ".bak")
	if err != nil || !json.Valid(bak) {
		return nil, fmt.Errorf("corrupt snapshot %s and no usable backup", path)
	}
	if err := writeAtomic(path, bak); err != nil {
		return nil, fmt.Errorf("restore %s from backup: %w", path, err)
	}
	log.Printf("store: restored %s from backup", path)
	return bak, nil
}

// Write implements Store.
func (f *File) Write(name string, data []byte) error {
	path := f.path(name)
	if _, err := os.Stat(path); err == nil {
		if err := copyFile(path, path+".bak"); err != nil {
			return fmt.Errorf("create backup: %w", err)
		}
	}
	return writeAtomic(path, data)
}

func (f *File) quarantine(path string) error {
	dir := filepath.Join(f.dir, "quarantine")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create quarantine dir: %w", err)
	}
	dest := filepath.Join(dir, fmt.Sprintf("%s.%s.corrupt", filepath.Base(path), time.Now().Format("20060102T150405")))
	if err := os.Rename(path, dest); err != nil {
		return fmt.Errorf("move to quarantine: %w", err)
	}
	log.Printf("store: quarantined corrupt snapshot %s → %s", path, dest)
	return nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".wardroom-tmp-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
