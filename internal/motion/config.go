package motion

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Model selects the motion family
type Model string

const (
	// ModelHop is projectile motion with gravity and relaunch on landing
	ModelHop Model = "hop"
	// ModelArc reads the arc off a phase value instead of integrating gravity
	ModelArc Model = "arc"
)

// PhaseMode selects how the arc phase behaves at the ends of [0,1]
type PhaseMode string

const (
	PhasePingPong PhaseMode = "pingpong"
	PhaseWrap     PhaseMode = "wrap"
)

// Config is the physics tuning. Distances are pixels, rates are per tick.
//
// Config file location: ~/.config/hoppet/motion.yaml
type Config struct {
	Model Model `yaml:"model"`

	// Projectile hop
	Gravity     float64 `yaml:"gravity"`
	LaunchSpeed float64 `yaml:"launchSpeed"`
	LaunchAngle float64 `yaml:"launchAngle"` // degrees above horizontal

	// Entrance slide before the first hop
	SlideIn    bool    `yaml:"slideIn"`
	SlideSpeed float64 `yaml:"slideSpeed"`
	SlideInset float64 `yaml:"slideInset"`

	// Arc-interpolated hop
	PhaseStep float64   `yaml:"phaseStep"`
	PhaseMode PhaseMode `yaml:"phaseMode"`
	ArcSpeed  float64   `yaml:"arcSpeed"`
	HopHeight float64   `yaml:"hopHeight"`

	GroundMargin float64 `yaml:"groundMargin"`
}

// DefaultConfig returns the tuning the pet ships with
func DefaultConfig() Config {
	return Config{
		Model:        ModelHop,
		Gravity:      0.4,
		LaunchSpeed:  6,
		LaunchAngle:  65,
		SlideIn:      true,
		SlideSpeed:   2,
		SlideInset:   10,
		PhaseStep:    0.008,
		PhaseMode:    PhasePingPong,
		ArcSpeed:     2,
		HopHeight:    60,
		GroundMargin: 20,
	}
}

// LoadConfig reads a YAML tuning file. Fields absent from the file keep their
// defaults. A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read motion config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse motion config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("invalid motion config: %w", err)
	}

	return cfg, nil
}

// Bounds builds the reflection box for a canvas and sprite using the
// configured ground margin
func (c Config) Bounds(width, height, spriteWidth, spriteHeight float64) Bounds {
	return Bounds{
		Width:        width,
		Height:       height,
		SpriteWidth:  spriteWidth,
		SpriteHeight: spriteHeight,
		GroundMargin: c.GroundMargin,
	}
}

// Validate checks the tuning is usable
func (c Config) Validate() error {
	switch c.Model {
	case ModelHop:
		if c.Gravity <= 0 {
			return fmt.Errorf("gravity must be positive, got %.2f", c.Gravity)
		}
		if c.LaunchSpeed <= 0 {
			return fmt.Errorf("launchSpeed must be positive, got %.2f", c.LaunchSpeed)
		}
		if c.LaunchAngle <= 0 || c.LaunchAngle >= 90 {
			return fmt.Errorf("launchAngle must be in (0, 90), got %.1f", c.LaunchAngle)
		}
		if c.SlideIn && c.SlideSpeed <= 0 {
			return fmt.Errorf("slideSpeed must be positive when slideIn is set, got %.2f", c.SlideSpeed)
		}
	case ModelArc:
		if c.PhaseStep <= 0 || c.PhaseStep > 1 {
			return fmt.Errorf("phaseStep must be in (0, 1], got %.4f", c.PhaseStep)
		}
		if c.PhaseMode != PhasePingPong && c.PhaseMode != PhaseWrap {
			return fmt.Errorf("unknown phaseMode %q", c.PhaseMode)
		}
		if c.ArcSpeed < 0 || c.HopHeight < 0 {
			return fmt.Errorf("arcSpeed and hopHeight must not be negative")
		}
	default:
		return fmt.Errorf("unknown motion model %q", c.Model)
	}

	if c.GroundMargin < 0 {
		return fmt.Errorf("groundMargin must not be negative, got %.1f", c.GroundMargin)
	}
	return nil
}
