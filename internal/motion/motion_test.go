package motion

import (
	"math"
	"testing"
)

const eps = 1e-9

func testBounds() Bounds {
	return DefaultConfig().Bounds(600, 300, 100, 100)
}

func newSim(t *testing.T, cfg Config) *Simulator {
	t.Helper()
	sim, err := New(cfg, testBounds())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return sim
}

func checkInBounds(t *testing.T, b Bounds, st State) {
	t.Helper()
	if st.Pos.X < 0 || st.Pos.X > b.MaxX() {
		t.Fatalf("tick %d: x = %f outside [0, %f]", st.Tick, st.Pos.X, b.MaxX())
	}
	if st.Pos.Y < 0 || st.Pos.Y > b.GroundY() {
		t.Fatalf("tick %d: y = %f outside [0, %f]", st.Tick, st.Pos.Y, b.GroundY())
	}
}

func TestBounds(t *testing.T) {
	b := testBounds()
	if b.MaxX() != 500 {
		t.Errorf("MaxX() = %f, want 500", b.MaxX())
	}
	if b.GroundY() != 180 {
		t.Errorf("GroundY() = %f, want 180", b.GroundY())
	}

	tiny := Bounds{Width: 50, Height: 50, SpriteWidth: 100, SpriteHeight: 100}
	if tiny.MaxX() != 0 || tiny.GroundY() != 0 {
		t.Errorf("sprite larger than canvas should clamp to 0, got MaxX=%f GroundY=%f", tiny.MaxX(), tiny.GroundY())
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		bounds Bounds
	}{
		{"zero canvas", DefaultConfig(), Bounds{SpriteWidth: 10, SpriteHeight: 10}},
		{"zero sprite", DefaultConfig(), Bounds{Width: 100, Height: 100}},
		{"bad model", Config{Model: "teleport"}, testBounds()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg, tt.bounds); err == nil {
				t.Error("New() error = nil, want error")
			}
		})
	}
}

func TestDirection(t *testing.T) {
	if Left.Flip() != Right || Right.Flip() != Left {
		t.Error("Flip() should swap Left and Right")
	}
	if Left.Sign() != -1 || Right.Sign() != 1 {
		t.Errorf("Sign() = %v/%v, want -1/1", Left.Sign(), Right.Sign())
	}
	if Left.String() != "left" || Right.String() != "right" {
		t.Errorf("String() = %q/%q", Left.String(), Right.String())
	}
}

func TestLaunch(t *testing.T) {
	angle := 65 * math.Pi / 180
	v := Launch(Right, 6, angle)

	if math.Abs(v.X-6*math.Cos(angle)) > eps {
		t.Errorf("vx = %f, want %f", v.X, 6*math.Cos(angle))
	}
	if math.Abs(v.Y+6*math.Sin(angle)) > eps {
		t.Errorf("vy = %f, want %f", v.Y, -6*math.Sin(angle))
	}

	left := Launch(Left, 6, angle)
	if left.X >= 0 || left.Y != v.Y {
		t.Errorf("left launch = %+v, want mirrored vx and same vy", left)
	}
}

func TestStepIsPure(t *testing.T) {
	sim := newSim(t, DefaultConfig())
	start := sim.Start()
	copyOf := start

	a := sim.Step(start)
	b := sim.Step(start)

	if start != copyOf {
		t.Error("Step() modified its input")
	}
	if a != b {
		t.Errorf("Step() not deterministic: %+v vs %+v", a, b)
	}
}

func TestSlideIn(t *testing.T) {
	sim := newSim(t, DefaultConfig())
	b := sim.Bounds()
	st := sim.Start()

	if !st.SlidingIn {
		t.Fatal("Start() with slideIn should begin sliding")
	}
	if st.Pos.X != b.Width {
		t.Errorf("slide starts at x = %f, want off-screen %f", st.Pos.X, b.Width)
	}

	stop := b.Width - b.SpriteWidth - 10
	prevX := st.Pos.X
	ticks := 0
	for st.SlidingIn {
		st = sim.Step(st)
		ticks++
		if st.Pos.Y != b.GroundY() {
			t.Fatalf("slide-in moved vertically: y = %f", st.Pos.Y)
		}
		if st.SlidingIn && math.Abs(prevX-st.Pos.X-2) > eps {
			t.Fatalf("slide-in step = %f, want 2", prevX-st.Pos.X)
		}
		if st.Pos.X < stop {
			t.Fatalf("slide-in overshot: x = %f < %f", st.Pos.X, stop)
		}
		prevX = st.Pos.X
		if ticks > 1000 {
			t.Fatal("slide-in never finished")
		}
	}

	if st.Pos.X != stop {
		t.Errorf("slide-in ended at x = %f, want %f", st.Pos.X, stop)
	}
	if st.Moving != Left || st.Facing != Left {
		t.Errorf("after slide-in moving=%v facing=%v, want left/left", st.Moving, st.Facing)
	}
	if st.Vel.X >= 0 || st.Vel.Y >= 0 {
		t.Errorf("after slide-in velocity = %+v, want a leftward launch", st.Vel)
	}
}

func TestHopStaysInBounds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"default", func(c *Config) {}},
		{"no slide-in", func(c *Config) { c.SlideIn = false }},
		{"fast flat hops", func(c *Config) { c.LaunchSpeed = 25; c.LaunchAngle = 20 }},
		{"high hops", func(c *Config) { c.LaunchSpeed = 30; c.LaunchAngle = 85; c.Gravity = 0.1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			sim := newSim(t, cfg)
			b := sim.Bounds()

			st := sim.Start()
			for i := 0; i < 20000; i++ {
				st = sim.Step(st)
				if st.SlidingIn {
					continue
				}
				checkInBounds(t, b, st)
				if st.Facing != st.Moving {
					t.Fatalf("tick %d: facing %v != moving %v", st.Tick, st.Facing, st.Moving)
				}
			}
		})
	}
}

func TestHopVelocityMatchesDirectionAfterClamp(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SlideIn = false
	cfg.LaunchSpeed = 20
	cfg.LaunchAngle = 30
	sim := newSim(t, cfg)
	b := sim.Bounds()

	st := sim.Start()
	flips := 0
	for i := 0; i < 5000; i++ {
		prev := st
		st = sim.Step(st)
		atWall := st.Pos.X == 0 || st.Pos.X == b.MaxX()
		if atWall && st.Moving != prev.Moving {
			flips++
		}
		if atWall && st.Vel.X != 0 && math.Signbit(st.Vel.X) != (st.Moving == Left) {
			t.Fatalf("tick %d: vx = %f does not match moving %v", st.Tick, st.Vel.X, st.Moving)
		}
	}
	if flips == 0 {
		t.Error("expected the sprite to reach a wall and flip at least once")
	}
}

func TestHopGroundContactAtLeftWall(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SlideIn = false
	sim := newSim(t, cfg)
	b := sim.Bounds()

	st := State{
		Pos:    Vec{X: 0, Y: b.GroundY()},
		Vel:    Vec{X: -2.5, Y: 0},
		Moving: Left,
		Facing: Left,
	}

	next := sim.Step(st)

	if next.Moving != Right {
		t.Errorf("moving = %v, want right", next.Moving)
	}
	if next.Facing != Right {
		t.Errorf("facing = %v, want right", next.Facing)
	}
	if next.Vel.X <= 0 {
		t.Errorf("vx = %f, want > 0", next.Vel.X)
	}
	if next.Vel.Y >= 0 {
		t.Errorf("vy = %f, want a fresh upward launch", next.Vel.Y)
	}
	if next.Pos.X != 0 || next.Pos.Y != b.GroundY() {
		t.Errorf("pos = %+v, want clamped to (0, %f)", next.Pos, b.GroundY())
	}
}

func TestHopRightWallFlipsLeft(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SlideIn = false
	sim := newSim(t, cfg)
	b := sim.Bounds()

	st := State{
		Pos:    Vec{X: b.MaxX() - 1, Y: 100},
		Vel:    Vec{X: 3, Y: -1},
		Moving: Right,
		Facing: Right,
	}

	next := sim.Step(st)
	if next.Pos.X != b.MaxX() {
		t.Errorf("x = %f, want %f", next.Pos.X, b.MaxX())
	}
	if next.Moving != Left || next.Facing != Left {
		t.Errorf("moving=%v facing=%v, want left/left", next.Moving, next.Facing)
	}
	if next.Vel.X != -3 {
		t.Errorf("vx = %f, want -3", next.Vel.X)
	}
	if math.Abs(next.Vel.Y-(-1+cfg.Gravity)) > eps {
		t.Errorf("vy = %f, want gravity applied mid-air", next.Vel.Y)
	}
}

func TestHopGravityAccumulates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SlideIn = false
	sim := newSim(t, cfg)

	st := State{Pos: Vec{X: 250, Y: 50}, Vel: Vec{X: 1, Y: -3}, Moving: Right, Facing: Right}
	for i := 1; i <= 5; i++ {
		st = sim.Step(st)
		want := -3 + float64(i)*cfg.Gravity
		if math.Abs(st.Vel.Y-want) > eps {
			t.Fatalf("after %d ticks vy = %f, want %f", i, st.Vel.Y, want)
		}
	}
}

func arcConfig(mode PhaseMode) Config {
	cfg := DefaultConfig()
	cfg.Model = ModelArc
	cfg.PhaseMode = mode
	return cfg
}

func TestArcPhasePingPong(t *testing.T) {
	sim := newSim(t, arcConfig(PhasePingPong))
	st := sim.Start()

	if st.Phase != 0 {
		t.Fatalf("start phase = %f, want 0", st.Phase)
	}

	n := 0
	for st.Phase < 1-1e-6 {
		st = sim.Step(st)
		n++
		if st.Phase < 1-1e-6 && math.Abs(st.Phase-0.008*float64(n)) > 1e-9 {
			t.Fatalf("after %d ticks phase = %.12f, want %.12f", n, st.Phase, 0.008*float64(n))
		}
		if n > 200 {
			t.Fatal("phase never reached 1")
		}
	}
	if n != 125 && n != 126 {
		t.Errorf("phase reached 1 after %d ticks, want ~125", n)
	}

	peak := st.Phase
	st = sim.Step(st)
	if st.Phase >= peak {
		t.Errorf("phase should decrease after reaching 1: %f -> %f", peak, st.Phase)
	}
}

func TestArcInvariants(t *testing.T) {
	for _, mode := range []PhaseMode{PhasePingPong, PhaseWrap} {
		t.Run(string(mode), func(t *testing.T) {
			cfg := arcConfig(mode)
			cfg.ArcSpeed = 7
			sim := newSim(t, cfg)
			b := sim.Bounds()

			st := sim.Start()
			flips := 0
			for i := 0; i < 20000; i++ {
				prev := st
				st = sim.Step(st)
				if st.Phase < 0 || st.Phase > 1 {
					t.Fatalf("tick %d: phase = %f outside [0,1]", st.Tick, st.Phase)
				}
				if m := SpeedMultiplier(st.Phase); m < 0 || m > 1 {
					t.Fatalf("tick %d: speed multiplier = %f outside [0,1]", st.Tick, m)
				}
				checkInBounds(t, b, st)
				if st.Moving != prev.Moving {
					flips++
				}
			}
			if flips == 0 {
				t.Error("expected direction to flip at a wall")
			}
		})
	}
}

func TestArcHeightFollowsPhase(t *testing.T) {
	cfg := arcConfig(PhasePingPong)
	sim := newSim(t, cfg)
	b := sim.Bounds()

	st := sim.Start()
	for i := 0; i < 62; i++ {
		st = sim.Step(st)
	}
	want := b.GroundY() - math.Sin(math.Pi*st.Phase)*cfg.HopHeight
	if math.Abs(st.Pos.Y-want) > eps {
		t.Errorf("y = %f, want %f", st.Pos.Y, want)
	}
	if st.Pos.Y >= b.GroundY() {
		t.Error("sprite should be airborne mid-arc")
	}
}

func TestSpeedMultiplier(t *testing.T) {
	tests := []struct {
		phase float64
		want  float64
	}{
		{0, 1},
		{0.5, 0},
		{1, 1},
		{0.25, math.Sqrt2 / 2},
	}
	for _, tt := range tests {
		if got := SpeedMultiplier(tt.phase); math.Abs(got-tt.want) > eps {
			t.Errorf("SpeedMultiplier(%v) = %f, want %f", tt.phase, got, tt.want)
		}
	}
}
