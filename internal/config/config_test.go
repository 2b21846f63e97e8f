package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"hoppet/internal/offline"
	"hoppet/internal/platform"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestDefaultPushKey(t *testing.T) {
	cfg := Default()
	if !cfg.Push.Enabled {
		t.Fatal("push should be enabled by default")
	}
	key, err := platform.DecodeVAPIDKey(cfg.Push.VAPIDKey)
	if err != nil {
		t.Fatalf("DecodeVAPIDKey(default) error = %v", err)
	}
	// Uncompressed P-256 point
	if len(key) != 65 || key[0] != 0x04 {
		t.Errorf("default key is %d bytes starting %#x, want 65 starting 0x04", len(key), key[0])
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
motion_file = "/tmp/motion.yaml"

[canvas]
width = 800

[decay]
interval = "1m"
amount = 2

[cache]
strategy = "network-first"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Canvas.Width != 800 || cfg.Canvas.Height != 300 {
		t.Errorf("canvas = %+v, want 800x300", cfg.Canvas)
	}
	if cfg.MotionFile != "/tmp/motion.yaml" {
		t.Errorf("MotionFile = %q", cfg.MotionFile)
	}
	if cfg.DecayInterval() != time.Minute || cfg.Decay.Amount != 2 {
		t.Errorf("decay = %v/%d, want 1m/2", cfg.DecayInterval(), cfg.Decay.Amount)
	}
	if cfg.Cache.Strategy != offline.NetworkFirst {
		t.Errorf("strategy = %q", cfg.Cache.Strategy)
	}
	if cfg.Cache.Version != Default().Cache.Version {
		t.Errorf("cache version = %q, want default", cfg.Cache.Version)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed", "[canvas\nwidth = 1"},
		{"zero canvas", "[canvas]\nwidth = 0"},
		{"sprite too big", "[sprite]\nwidth = 1000"},
		{"bad interval", "[decay]\ninterval = \"soon\""},
		{"decay amount", "[decay]\namount = 5"},
		{"bad strategy", "[cache]\nstrategy = \"random\""},
		{"push without key", "[push]\nenabled = true\nvapid_key = \"\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("Load() error = nil, want error")
			}
			if !reflect.DeepEqual(cfg, Default()) {
				t.Error("failed load should return defaults")
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg := Default()
	cfg.Push = PushConfig{Enabled: true, VAPIDKey: "AQID"}
	cfg.Decay.Interval = "2m"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(loaded, cfg) {
		t.Errorf("Load() = %+v, want %+v", loaded, cfg)
	}
}

func TestManifestIncludesSprite(t *testing.T) {
	cfg := Default()
	cfg.Sprite.Path = "custom.txt"
	m := cfg.Manifest()
	if m.Version != cfg.Cache.Version {
		t.Errorf("Version = %q", m.Version)
	}
	if !reflect.DeepEqual(m.Assets, []string{"pet.txt", "custom.txt"}) {
		t.Errorf("Assets = %v", m.Assets)
	}

	if got := Default().Manifest().Assets; !reflect.DeepEqual(got, []string{"pet.txt"}) {
		t.Errorf("default Assets = %v, want no duplicate", got)
	}
}
