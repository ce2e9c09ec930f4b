// Package storage provides the flat string-keyed key-value mediums the shop
// persists its records in.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Medium is a flat string-keyed key-value store.
//
// Get reports ok == false for a missing key; a missing key is never an error.
// Set overwrites any previous value.
type Medium interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Memory is an in-process Medium. The zero value is ready to use.
type Memory struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMemory returns an empty in-memory medium.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = make(map[string]string)
	}
	m.data[key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// File keeps the whole keyspace in a single JSON document on disk.
// Every mutation rewrites the file.
type File struct {
	Path string
	mu   sync.Mutex
	data map[string]string
}

// DefaultFile is the document OpenFile uses when no path is given.
const DefaultFile = "storage.json"

// OpenFile loads the document at path. A missing file yields an empty store.
func OpenFile(path string) (*File, error) {
	if path == "" {
		path = DefaultFile
	}
	f := &File{Path: path}
	if err := f.Load(); err != nil {
		return nil, err
	}
	return f, nil
}

// Load (re)reads the document from disk, replacing the in-memory copy.
func (f *File) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	fh, err := os.Open(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			f.data = make(map[string]string)
			return nil
		}
		return err
	}
	defer fh.Close()

	data := make(map[string]string)
	if err := json.NewDecoder(fh).Decode(&data); err != nil {
		return fmt.Errorf("decode %s: %w", f.Path, err)
	}
	f.data = data
	return nil
}

// save writes the document to a temporary file next to Path and renames it
// into place, so a failed write never leaves a truncated document behind.
// It must be called with mu held.
func (f *File) save() error {
	tmp, err := os.CreateTemp(filepath.Dir(f.Path), filepath.Base(f.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("save %s: %w", f.Path, err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("save %s: %w", f.Path, err)
	}
	if err := json.NewEncoder(tmp).Encode(f.data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode %s: %w", f.Path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save %s: %w", f.Path, err)
	}
	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		return fmt.Errorf("save %s: %w", f.Path, err)
	}
	return nil
}

func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *File) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.data == nil {
		f.data = make(map[string]string)
	}
	f.data[key] = value
	return f.save()
}

func (f *File) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[key]; !ok {
		return nil
	}
	delete(f.data, key)
	return f.save()
}
