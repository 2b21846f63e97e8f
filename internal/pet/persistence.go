package pet

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/quasilyte/gdata/v2"
)

// Store loads and saves the pet's stats. Saving is best-effort: callers log
// failures and carry on with the in-memory stats.
type Store interface {
	Load() (Stats, error)
	Save(Stats) error
}

// DecodeStats merges a saved record over the defaults. Fields missing from
// the record keep their default values; out-of-range values are clamped.
func DecodeStats(data []byte) (Stats, error) {
	s := NewStats()
	if err := json.Unmarshal(data, &s); err != nil {
		return NewStats(), fmt.Errorf("failed to unmarshal stats: %w", err)
	}
	return s.Clamp(), nil
}

// EncodeStats serializes stats as a flat JSON record
func EncodeStats(s Stats) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal stats: %w", err)
	}
	return data, nil
}

// KVStore keeps the stats record under one key of a gdata store. A nil
// manager puts the store in degraded mode: stats live only in memory.
type KVStore struct {
	mu      sync.Mutex
	manager *gdata.Manager
	mem     *Stats
}

// NewKVStore wraps a gdata manager, which may be nil. The store is safe for
// concurrent use.
func NewKVStore(manager *gdata.Manager) *KVStore {
	return &KVStore{manager: manager}
}

// Persistent reports whether saves reach disk
func (s *KVStore) Persistent() bool {
	return s.manager != nil
}

// Load reads the saved record. A missing key yields the defaults.
func (s *KVStore) Load() (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.manager == nil {
		if s.mem != nil {
			return *s.mem, nil
		}
		return NewStats(), nil
	}

	if !s.manager.ObjectPropExists(StoreObject, StoreProperty) {
		return NewStats(), nil
	}

	data, err := s.manager.LoadObjectProp(StoreObject, StoreProperty)
	if err != nil {
		return NewStats(), fmt.Errorf("failed to load stats: %w", err)
	}
	return DecodeStats(data)
}

// Save writes the record
func (s *KVStore) Save(stats Stats) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.manager == nil {
		s.mem = &stats
		return nil
	}

	data, err := EncodeStats(stats)
	if err != nil {
		return err
	}
	if err := s.manager.SaveObjectProp(StoreObject, StoreProperty, data); err != nil {
		return fmt.Errorf("failed to save stats: %w", err)
	}
	return nil
}

// FileStore keeps the stats record in a JSON file
type FileStore struct {
	Path string
}

// DefaultStatePath returns ~/.config/hoppet/pet.json
func DefaultStatePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "hoppet", "pet.json"), nil
}

// Load reads the file. A missing file yields the defaults.
func (f FileStore) Load() (Stats, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return NewStats(), nil
	}
	if err != nil {
		return NewStats(), fmt.Errorf("failed to read state file: %w", err)
	}
	return DecodeStats(data)
}

// Save writes the file, creating its directory if needed
func (f FileStore) Save(s Stats) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := os.WriteFile(f.Path, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}

// LoadOrDefault loads from store, logging and falling back to the defaults on
// error
func LoadOrDefault(store Store) Stats {
	s, err := store.Load()
	if err != nil {
		log.Printf("Error loading state: %v. Starting with default stats.", err)
		return NewStats()
	}
	return s
}

// SaveOrLog saves to store and logs any failure
func SaveOrLog(store Store, s Stats) {
	if err := store.Save(s); err != nil {
		log.Printf("Error saving state: %v", err)
	}
}
