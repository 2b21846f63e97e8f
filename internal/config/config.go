package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"hoppet/internal/offline"
)

// Config is the application config, read from config.toml
type Config struct {
	Canvas     CanvasConfig `toml:"canvas"`
	Sprite     SpriteConfig `toml:"sprite"`
	MotionFile string       `toml:"motion_file"`
	Decay      DecayConfig  `toml:"decay"`
	Store      StoreConfig  `toml:"store"`
	Cache      CacheConfig  `toml:"cache"`
	Push       PushConfig   `toml:"push"`
	Sync       SyncConfig   `toml:"sync"`
}

type CanvasConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

type SpriteConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Path   string `toml:"path"`
}

type DecayConfig struct {
	Interval string `toml:"interval"`
	Amount   int    `toml:"amount"`
}

// StoreConfig picks where stats are saved. StateFile, when set, replaces the
// platform save directory with a plain JSON file.
type StoreConfig struct {
	AppName   string `toml:"app_name"`
	StateFile string `toml:"state_file"`
}

type CacheConfig struct {
	Version  string           `toml:"version"`
	Strategy offline.Strategy `toml:"strategy"`
	AssetDir string           `toml:"asset_dir"`
	Assets   []string         `toml:"assets"`
}

type PushConfig struct {
	Enabled  bool   `toml:"enabled"`
	VAPIDKey string `toml:"vapid_key"`
}

type SyncConfig struct {
	Enabled bool `toml:"enabled"`
}

// DefaultVAPIDKey is the application server key the pet ships with
const DefaultVAPIDKey = "BOrX-ZnfnDcU7wXcmnI7kVvIVFQeZzxpDvLrFqXdeB-lKQAzP8Hy2LqzWdN-s2Yfr3Kr-Q8OjQ_k3X1KNk1-7LI"

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Canvas: CanvasConfig{Width: 600, Height: 300},
		Sprite: SpriteConfig{Width: 100, Height: 100, Path: "pet.txt"},
		Decay:  DecayConfig{Interval: "30s", Amount: 1},
		Store:  StoreConfig{AppName: "hoppet"},
		Cache: CacheConfig{
			Version:  "hoppet-v1",
			Strategy: offline.CacheFirst,
			Assets:   []string{"pet.txt"},
		},
		Push: PushConfig{Enabled: true, VAPIDKey: DefaultVAPIDKey},
		Sync: SyncConfig{Enabled: true},
	}
}

// Dir returns ~/.config/hoppet
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "hoppet"), nil
}

// Path returns the default config file location
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	// arrays replace the default list rather than extending it
	cfg.Cache.Assets = nil
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Cache.Assets == nil {
		cfg.Cache.Assets = Default().Cache.Assets
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes cfg as TOML
func Save(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DecayInterval parses the decay interval
func (c Config) DecayInterval() time.Duration {
	d, err := time.ParseDuration(c.Decay.Interval)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(Default().Decay.Interval)
	}
	return d
}

// Manifest builds the offline cache manifest
func (c Config) Manifest() offline.Manifest {
	assets := append([]string(nil), c.Cache.Assets...)
	found := false
	for _, a := range assets {
		if a == c.Sprite.Path {
			found = true
			break
		}
	}
	if !found && c.Sprite.Path != "" {
		assets = append(assets, c.Sprite.Path)
	}
	return offline.Manifest{Version: c.Cache.Version, Assets: assets}
}

// Validate checks the config values
func (c Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("canvas must have positive size, got %dx%d", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Sprite.Width <= 0 || c.Sprite.Height <= 0 {
		return fmt.Errorf("sprite must have positive size, got %dx%d", c.Sprite.Width, c.Sprite.Height)
	}
	if c.Sprite.Width > c.Canvas.Width || c.Sprite.Height > c.Canvas.Height {
		return fmt.Errorf("sprite %dx%d does not fit canvas %dx%d",
			c.Sprite.Width, c.Sprite.Height, c.Canvas.Width, c.Canvas.Height)
	}
	if c.Sprite.Path == "" {
		return fmt.Errorf("sprite path is empty")
	}
	if d, err := time.ParseDuration(c.Decay.Interval); err != nil || d <= 0 {
		return fmt.Errorf("decay interval %q is not a positive duration", c.Decay.Interval)
	}
	if c.Decay.Amount < 1 || c.Decay.Amount > 2 {
		return fmt.Errorf("decay amount must be 1 or 2, got %d", c.Decay.Amount)
	}
	if c.Store.AppName == "" && c.Store.StateFile == "" {
		return fmt.Errorf("store needs an app_name or a state_file")
	}
	if c.Cache.Version == "" {
		return fmt.Errorf("cache version is empty")
	}
	switch c.Cache.Strategy {
	case offline.CacheFirst, offline.NetworkFirst:
	default:
		return fmt.Errorf("unknown cache strategy %q", c.Cache.Strategy)
	}
	if c.Push.Enabled && c.Push.VAPIDKey == "" {
		return fmt.Errorf("push is enabled but vapid_key is empty")
	}
	return nil
}
