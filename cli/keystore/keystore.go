// Package keystore provides encrypted local storage for Synthesia API keys.
package keystore

import (
	"path/filepath"
	"sort"
	"sync"

	"github.com/petal-labs/reel/cli/config"
)

// Keystore defines the interface for secure key storage.
type Keystore interface {
	// Set stores a key-value pair.
	Set(name, value string) error
	// Get retrieves a value by name. Returns *ErrKeyNotFound if absent.
	Get(name string) (string, error)
	// Delete removes a key by name.
	Delete(name string) error
	// List returns all stored key names, sorted.
	List() ([]string, error)
}

// ErrKeyNotFound is returned when a requested key does not exist.
type ErrKeyNotFound struct {
	Name string
}

func (e *ErrKeyNotFound) Error() string {
	return "key not found: " + e.Name
}

// DefaultKeystorePath returns ~/.reel/keys.enc.
func DefaultKeystorePath() string {
	return filepath.Join(config.Dir(), "keys.enc")
}

// NewKeystore opens the default keystore. The master key comes from
// REEL_MASTER_KEY when set, otherwise from machine identity.
func NewKeystore() (Keystore, error) {
	return NewFileKeystoreWithSource(DefaultKeystorePath(), DefaultMasterKeySource())
}

// MemoryKeystore is an unencrypted in-process Keystore, used in tests and
// as a scratch store.
type MemoryKeystore struct {
	mu   sync.RWMutex
	keys map[string]string
}

// NewMemoryKeystore returns an empty MemoryKeystore.
func NewMemoryKeystore() *MemoryKeystore {
	return &MemoryKeystore{keys: make(map[string]string)}
}

func (m *MemoryKeystore) Set(name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[name] = value
	return nil
}

func (m *MemoryKeystore) Get(name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.keys[name]
	if !ok {
		return "", &ErrKeyNotFound{Name: name}
	}
	return v, nil
}

func (m *MemoryKeystore) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.keys[name]; !ok {
		return &ErrKeyNotFound{Name: name}
	}
	delete(m.keys, name)
	return nil
}

func (m *MemoryKeystore) List() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.keys))
	for name := range m.keys {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

var _ Keystore = (*MemoryKeystore)(nil)
