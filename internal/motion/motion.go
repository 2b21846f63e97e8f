package motion

import (
	"fmt"
	"math"
)

// Direction is a horizontal heading. The sprite art faces Left natively.
type Direction int

const (
	Left  Direction = -1
	Right Direction = 1
)

// Flip returns the opposite direction
func (d Direction) Flip() Direction {
	if d == Right {
		return Left
	}
	return Right
}

// Sign returns -1 for Left and +1 for Right
func (d Direction) Sign() float64 {
	if d == Right {
		return 1
	}
	return -1
}

func (d Direction) String() string {
	if d == Right {
		return "right"
	}
	return "left"
}

// Vec is a 2D vector in pixel units
type Vec struct {
	X, Y float64
}

// State is the sprite's motion state for one frame
type State struct {
	Pos    Vec
	Vel    Vec
	Facing Direction
	Moving Direction

	// Arc model only
	Phase    float64
	PhaseDir float64

	SlidingIn bool
	Tick      int
}

// Bounds describes the drawing surface and the sprite box moving on it
type Bounds struct {
	Width        float64
	Height       float64
	SpriteWidth  float64
	SpriteHeight float64
	GroundMargin float64
}

// MaxX is the right-most x the sprite's left edge may take
func (b Bounds) MaxX() float64 {
	return math.Max(0, b.Width-b.SpriteWidth)
}

// GroundY is the y of the sprite's top edge when standing on the ground
func (b Bounds) GroundY() float64 {
	return math.Max(0, b.Height-b.SpriteHeight-b.GroundMargin)
}

// Simulator advances a State one tick at a time using the configured model
type Simulator struct {
	cfg    Config
	bounds Bounds
	angle  float64
}

// New creates a simulator for the given tuning and surface
func New(cfg Config, bounds Bounds) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return nil, fmt.Errorf("canvas must have positive size, got %.0fx%.0f", bounds.Width, bounds.Height)
	}
	if bounds.SpriteWidth <= 0 || bounds.SpriteHeight <= 0 {
		return nil, fmt.Errorf("sprite must have positive size, got %.0fx%.0f", bounds.SpriteWidth, bounds.SpriteHeight)
	}
	return &Simulator{
		cfg:    cfg,
		bounds: bounds,
		angle:  cfg.LaunchAngle * math.Pi / 180,
	}, nil
}

// Bounds returns the surface the simulator reflects against
func (s *Simulator) Bounds() Bounds {
	return s.bounds
}

// Config returns the simulator's tuning
func (s *Simulator) Config() Config {
	return s.cfg
}

// Start returns the state the sprite begins in
func (s *Simulator) Start() State {
	st := State{
		Facing:   Left,
		Moving:   Left,
		PhaseDir: 1,
	}

	switch s.cfg.Model {
	case ModelArc:
		st.Pos = Vec{X: s.bounds.MaxX() / 2, Y: s.bounds.GroundY()}
	default:
		if s.cfg.SlideIn {
			st.Pos = Vec{X: s.bounds.Width, Y: s.bounds.GroundY()}
			st.SlidingIn = true
		} else {
			st.Pos = Vec{X: s.bounds.MaxX() / 2, Y: s.bounds.GroundY()}
			st.Vel = Launch(st.Moving, s.cfg.LaunchSpeed, s.angle)
		}
	}
	return st
}

// Step produces the next state from prev. It is pure: prev is not modified.
func (s *Simulator) Step(prev State) State {
	next := prev
	next.Tick++
	switch s.cfg.Model {
	case ModelArc:
		s.stepArc(&next)
	default:
		s.stepHop(&next)
	}
	return next
}

// reflectX clamps x into [0, MaxX]. When the sprite is pushed past a wall
// while heading into it, movement and facing flip and vx is pointed away.
func (s *Simulator) reflectX(st *State) bool {
	maxX := s.bounds.MaxX()
	hit := false
	switch {
	case st.Pos.X <= 0:
		st.Pos.X = 0
		if st.Moving == Left {
			st.Moving = Right
			hit = true
		}
	case st.Pos.X >= maxX:
		st.Pos.X = maxX
		if st.Moving == Right {
			st.Moving = Left
			hit = true
		}
	}
	if hit {
		st.Facing = st.Moving
		st.Vel.X = st.Moving.Sign() * math.Abs(st.Vel.X)
	}
	return hit
}

// clampY keeps y within [0, GroundY]
func (s *Simulator) clampY(st *State) {
	if st.Pos.Y < 0 {
		st.Pos.Y = 0
		if st.Vel.Y < 0 {
			st.Vel.Y = 0
		}
	}
	if ground := s.bounds.GroundY(); st.Pos.Y > ground {
		st.Pos.Y = ground
	}
}
