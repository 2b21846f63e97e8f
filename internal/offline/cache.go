// Package offline caches versioned assets so the pet can start without its
// asset origin. A new version is populated on Install and older versions are
// purged on Activate.
package offline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
)

// Strategy selects where Fetch looks first
type Strategy string

const (
	CacheFirst   Strategy = "cache-first"
	NetworkFirst Strategy = "network-first"
)

// ErrNotCached is returned when an asset is neither cached nor reachable
var ErrNotCached = errors.New("asset not cached")

// Manifest names a cache version and the assets it pre-fetches
type Manifest struct {
	Version string   `toml:"version"`
	Assets  []string `toml:"assets"`
}

// Cache serves assets for one manifest version
type Cache struct {
	storage  *Storage
	manifest Manifest
	origin   fs.FS
	strategy Strategy
}

// New creates a cache for manifest backed by storage, fetching misses from
// origin
func New(storage *Storage, manifest Manifest, origin fs.FS, strategy Strategy) (*Cache, error) {
	if manifest.Version == "" {
		return nil, fmt.Errorf("cache manifest needs a version")
	}
	switch strategy {
	case CacheFirst, NetworkFirst:
	case "":
		strategy = CacheFirst
	default:
		return nil, fmt.Errorf("unknown cache strategy %q", strategy)
	}
	if storage == nil {
		storage = NewStorage()
	}
	return &Cache{
		storage:  storage,
		manifest: manifest,
		origin:   origin,
		strategy: strategy,
	}, nil
}

// Version returns the manifest version this cache serves
func (c *Cache) Version() string {
	return c.manifest.Version
}

// Install pre-fetches every manifest asset. Nothing is stored unless every
// asset was fetched.
func (c *Cache) Install(ctx context.Context) error {
	entries := make(map[string][]byte, len(c.manifest.Assets))
	for _, asset := range c.manifest.Assets {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := cleanPath(asset)
		data, err := c.fromOrigin(path)
		if err != nil {
			return fmt.Errorf("failed to install %s: %w", c.manifest.Version, err)
		}
		entries[path] = data
	}

	if err := c.storage.put(c.manifest.Version, entries); err != nil {
		return fmt.Errorf("failed to persist %s: %w", c.manifest.Version, err)
	}
	log.Printf("[Cache] Installed %s (%d assets)", c.manifest.Version, len(entries))
	return nil
}

// Activate drops every version except this one and returns what it dropped
func (c *Cache) Activate() []string {
	purged, err := c.storage.purgeExcept(c.manifest.Version)
	if err != nil {
		log.Printf("[Cache] Purge incomplete: %v", err)
	}
	for _, v := range purged {
		log.Printf("[Cache] Purged stale version %s", v)
	}
	log.Printf("[Cache] Activated %s", c.manifest.Version)
	return purged
}

// Fetch returns an asset using the cache strategy
func (c *Cache) Fetch(ctx context.Context, asset string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := cleanPath(asset)

	if c.strategy == CacheFirst {
		if data, ok := c.storage.get(c.manifest.Version, path); ok {
			return data, nil
		}
	}

	data, err := c.fromOrigin(path)
	if err == nil {
		if err := c.storage.put(c.manifest.Version, map[string][]byte{path: data}); err != nil {
			log.Printf("[Cache] Failed to store %s: %v", path, err)
		}
		return data, nil
	}

	if c.strategy == NetworkFirst {
		if cached, ok := c.storage.get(c.manifest.Version, path); ok {
			log.Printf("[Cache] Origin failed for %s, serving cached copy: %v", path, err)
			return cached, nil
		}
	}
	return nil, fmt.Errorf("%w: %s: %v", ErrNotCached, path, err)
}

// Cached reports whether the current version holds asset
func (c *Cache) Cached(asset string) bool {
	_, ok := c.storage.get(c.manifest.Version, cleanPath(asset))
	return ok
}

func (c *Cache) fromOrigin(path string) ([]byte, error) {
	if c.origin == nil {
		return nil, fmt.Errorf("no asset origin")
	}
	return fs.ReadFile(c.origin, path)
}

func cleanPath(p string) string {
	return strings.TrimPrefix(strings.TrimPrefix(p, "./"), "/")
}
