// Package repository defines the race store interface and errors.
package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/okian/carrera/internal/domain/model"
	"github.com/okian/carrera/pkg/metrics"
)

// File defaults.
const (
	defaultFileMode = 0o600
	defaultIndent   = "  "
	dirPermission   = 0o750
)

// FileStore keeps the race collection in a single JSON document on disk.
//
// Every Load reads the whole file and every Save rewrites it through a
// temporary file and a rename, so readers never observe a partial write.
type FileStore struct {
	mu     sync.Mutex
	path   string
	mode   os.FileMode
	indent string
}

// NewFileStore creates a store backed by the document at path.
// The file is not touched until the first Load or Save.
func NewFileStore(path string, opts ...Option) *FileStore {
	s := &FileStore{
		path:   path,
		mode:   defaultFileMode,
		indent: defaultIndent,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Path returns the location of the persisted document.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the full collection, creating {"carreras": []} when absent.
func (s *FileStore) Load(_ context.Context) (model.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	defer func() {
		metrics.RecordStoreLoadLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		empty := model.Collection{Races: []model.Race{}}
		if err := s.write(empty); err != nil {
			return model.Collection{}, err
		}
		return empty, nil
	}
	if err != nil {
		return model.Collection{}, s.fault("read", err)
	}

	var c model.Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return model.Collection{}, s.fault("decode", err)
	}
	if c.Races == nil {
		c.Races = []model.Race{}
	}
	return c, nil
}

// Save replaces the persisted document with c.
func (s *FileStore) Save(_ context.Context, c model.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	defer func() {
		metrics.RecordStoreSaveLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if c.Races == nil {
		c.Races = []model.Race{}
	}
	return s.write(c)
}

// write must be called with mu held.
func (s *FileStore) write(c model.Collection) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", s.indent)
	if err := enc.Encode(c); err != nil {
		return s.fault("encode", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, dirPermission); err != nil {
		return s.fault("mkdir", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return s.fault("create temp", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		cleanup()
		return s.fault("write", err)
	}
	if err := tmp.Chmod(s.mode); err != nil {
		_ = tmp.Close()
		cleanup()
		return s.fault("chmod", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return s.fault("close", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return s.fault("rename", err)
	}
	return nil
}

func (s *FileStore) fault(op string, err error) error {
	metrics.RecordStoreFault(op)
	return fmt.Errorf("%w: %s %s: %w", ErrStoreFault, op, s.path, err)
}
