// Package localstore persists the client's collections between runs. Each
// collection is one JSON document; writes replace it whole, so the last
// writer wins.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
)

// Collection names used by the shop client.
const (
	Session  = "session"
	Carts    = "carts"
	Orders   = "orders"
	Reviews  = "reviews"
	Products = "products"
)

// Store gets and sets whole collections by name. Get reports false when the
// collection has never been written.
type Store interface {
	Get(collection string, v any) (bool, error)
	Set(collection string, v any) error
	Delete(collection string) error
}

var validName = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

func checkName(collection string) error {
	if !validName.MatchString(collection) {
		return fmt.Errorf("localstore: invalid collection name %q", collection)
	}
	return nil
}

// Dir keeps each collection in <dir>/<collection>.json.
type Dir struct {
	mu   sync.Mutex
	path string
}

func Open(path string) (*Dir, error) {
	if err := os.MkdirAll(path, 0o700); err != nil {
		return nil, fmt.Errorf("localstore: create %s: %w", path, err)
	}
	return &Dir{path: path}, nil
}

func (d *Dir) file(collection string) string {
	return filepath.Join(d.path, collection+".json")
}

func (d *Dir) Get(collection string, v any) (bool, error) {
	if err := checkName(collection); err != nil {
		return false, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	data, err := os.ReadFile(d.file(collection))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("localstore: decode %s: %w", collection, err)
	}
	return true, nil
}

// Set writes to a temp file and renames it over the old one, so a crash
// leaves either the previous or the new document.
func (d *Dir) Set(collection string, v any) error {
	if err := checkName(collection); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("localstore: encode %s: %w", collection, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	tmp, err := os.CreateTemp(d.path, collection+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), d.file(collection))
}

func (d *Dir) Delete(collection string) error {
	if err := checkName(collection); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := os.Remove(d.file(collection)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Memory keeps encoded collections in a map. Values round-trip through JSON
// so callers never share memory with the store.
type Memory struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(collection string, v any) (bool, error) {
	m.mu.Lock()
	raw, ok := m.data[collection]
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, v)
}

func (m *Memory) Set(collection string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[collection] = raw
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(collection string) error {
	m.mu.Lock()
	delete(m.data, collection)
	m.mu.Unlock()
	return nil
}
