package kv

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// envelope is the on-disk shape of a slot: the document plus its version.
type envelope struct {
	Version int64           `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// File stores each key as a JSON envelope file under dir. Writes go
// through a temp file and rename so a crash never leaves a torn slot.
type File struct {
	dir string
	mu  sync.Mutex
}

func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &File{dir: dir}, nil
}

func (f *File) Get(_ context.Context, key string) ([]byte, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, &ReadError{Key: key, Err: err}
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, 0, &ReadError{Key: key, Err: err}
	}
	return env.Data, env.Version, nil
}

func (f *File) Put(ctx context.Context, key string, data []byte, version int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	// re-read under the lock for the version check
	raw, err := os.ReadFile(f.path(key))
	switch {
	case os.IsNotExist(err):
		if version != 0 {
			return ErrVersionMismatch
		}
	case err != nil:
		return &WriteError{Key: key, Err: err}
	default:
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return &WriteError{Key: key, Err: err}
		}
		if env.Version != version {
			return ErrVersionMismatch
		}
	}

	out, err := json.Marshal(envelope{Version: version + 1, Data: data})
	if err != nil {
		return &WriteError{Key: key, Err: err}
	}

	tmp := f.path(key) + ".tmp"
	if err := os.WriteFile(tmp, out, 0o644); err != nil {
		return &WriteError{Key: key, Err: err}
	}
	if err := os.Rename(tmp, f.path(key)); err != nil {
		os.Remove(tmp)
		return &WriteError{Key: key, Err: err}
	}
	return nil
}

// path maps a key like "@MedicalApp:appointments" to a safe filename.
func (f *File) path(key string) string {
	name := strings.NewReplacer("@", "", ":", "_", "/", "_").Replace(key)
	return filepath.Join(f.dir, name+".json")
}
