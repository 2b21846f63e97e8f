package offline

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	indexObject   = "cache"
	indexProperty = "versions"
	versionPrefix = "cache-"
)

// Storage holds every cache version. With a gdata manager each version is
// one save-data object, so installed assets survive a restart.
type Storage struct {
	mu       sync.Mutex
	versions map[string]map[string][]byte
	manager  *gdata.Manager
}

// NewStorage creates memory-only storage
func NewStorage() *Storage {
	return &Storage{versions: make(map[string]map[string][]byte)}
}

// OpenStorage loads the versions saved under manager. A nil manager gives
// memory-only storage.
func OpenStorage(manager *gdata.Manager) (*Storage, error) {
	s := NewStorage()
	if manager == nil {
		return s, nil
	}
	s.manager = manager

	versions, err := s.loadIndex()
	if err != nil {
		return nil, err
	}
	for _, v := range versions {
		bucket, err := s.loadVersion(v)
		if err != nil {
			return nil, err
		}
		s.versions[v] = bucket
	}
	return s, nil
}

func (s *Storage) loadIndex() ([]string, error) {
	data, err := s.manager.LoadObjectProp(indexObject, indexProperty)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache index: %w", err)
	}
	if data == nil {
		return nil, nil
	}
	var versions []string
	if err := yaml.Unmarshal(data, &versions); err != nil {
		return nil, fmt.Errorf("failed to parse cache index: %w", err)
	}
	return versions, nil
}

func (s *Storage) saveIndex() error {
	data, err := yaml.Marshal(s.sortedVersions())
	if err != nil {
		return err
	}
	if err := s.manager.SaveObjectProp(indexObject, indexProperty, data); err != nil {
		return fmt.Errorf("failed to write cache index: %w", err)
	}
	return nil
}

func (s *Storage) loadVersion(version string) (map[string][]byte, error) {
	obj := versionObject(version)
	bucket := make(map[string][]byte)
	if !s.manager.ObjectExists(obj) {
		return bucket, nil
	}
	props, err := s.manager.ListObjectProps(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", version, err)
	}
	for _, prop := range props {
		path, err := decodeKey(prop)
		if err != nil {
			log.Printf("[Cache] Skipping unknown entry %q in %s", prop, version)
			continue
		}
		data, err := s.manager.LoadObjectProp(obj, prop)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s from %s: %w", path, version, err)
		}
		bucket[path] = data
	}
	return bucket, nil
}

// Versions lists the stored versions in order
func (s *Storage) Versions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedVersions()
}

func (s *Storage) sortedVersions() []string {
	out := make([]string, 0, len(s.versions))
	for v := range s.versions {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (s *Storage) get(version, path string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.versions[version][path]
	return data, ok
}

// put merges entries into a version. Memory is updated even when the write
// to save data fails.
func (s *Storage) put(version string, entries map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket, ok := s.versions[version]
	if !ok {
		bucket = make(map[string][]byte)
		s.versions[version] = bucket
	}
	for path, data := range entries {
		bucket[path] = data
	}
	if s.manager == nil {
		return nil
	}

	obj := versionObject(version)
	for path, data := range entries {
		if err := s.manager.SaveObjectProp(obj, encodeKey(path), data); err != nil {
			return fmt.Errorf("failed to save %s: %w", path, err)
		}
	}
	if !ok {
		return s.saveIndex()
	}
	return nil
}

// purgeExcept drops every version other than keep and returns them in order
func (s *Storage) purgeExcept(keep string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var purged []string
	for v := range s.versions {
		if v != keep {
			purged = append(purged, v)
		}
	}
	sort.Strings(purged)
	for _, v := range purged {
		delete(s.versions, v)
	}
	if s.manager == nil || len(purged) == 0 {
		return purged, nil
	}

	var errs []error
	for _, v := range purged {
		if err := s.manager.DeleteObject(versionObject(v)); err != nil {
			errs = append(errs, fmt.Errorf("failed to delete %s: %w", v, err))
		}
	}
	if err := s.saveIndex(); err != nil {
		errs = append(errs, err)
	}
	return purged, errors.Join(errs...)
}

// Save data keys are directory and file names, so versions and paths are
// stored base64 encoded.
func versionObject(version string) string {
	return versionPrefix + encodeKey(version)
}

func encodeKey(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func decodeKey(key string) (string, error) {
	b, err := base64.RawURLEncoding.DecodeString(key)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
