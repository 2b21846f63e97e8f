package motion

import "math"

// Launch returns the take-off velocity of a hop. Angle is in radians.
func Launch(dir Direction, speed, angle float64) Vec {
	return Vec{
		X: dir.Sign() * speed * math.Cos(angle),
		Y: -speed * math.Sin(angle),
	}
}

// slideInStop is where the entrance slide ends and hopping begins
func (s *Simulator) slideInStop() float64 {
	return math.Max(0, s.bounds.Width-s.bounds.SpriteWidth-s.cfg.SlideInset)
}

// stepHop is the projectile model: gravity, wall reflection, relaunch on landing
func (s *Simulator) stepHop(st *State) {
	if st.SlidingIn {
		st.Pos.X -= s.cfg.SlideSpeed
		st.Pos.Y = s.bounds.GroundY()
		st.Vel = Vec{X: -s.cfg.SlideSpeed}
		if stop := s.slideInStop(); st.Pos.X <= stop {
			st.Pos.X = stop
			st.SlidingIn = false
			st.Moving = Left
			st.Facing = Left
			st.Vel = Launch(st.Moving, s.cfg.LaunchSpeed, s.angle)
		}
		return
	}

	st.Vel.Y += s.cfg.Gravity
	st.Pos.X += st.Vel.X
	st.Pos.Y += st.Vel.Y

	s.reflectX(st)
	s.clampY(st)

	if st.Pos.Y >= s.bounds.GroundY() {
		st.Pos.Y = s.bounds.GroundY()
		st.Vel = Launch(st.Moving, s.cfg.LaunchSpeed, s.angle)
	}
}
