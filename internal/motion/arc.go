package motion

import "math"

// phaseEpsilon absorbs float drift so a phase accumulated in equal steps
// lands exactly on the ends of [0,1]
const phaseEpsilon = 1e-9

// SpeedMultiplier scales horizontal speed through a hop: full at the ends of
// the arc, zero at its peak.
func SpeedMultiplier(phase float64) float64 {
	return math.Abs(math.Cos(math.Pi * phase))
}

// ArcOffset is how far above the baseline the sprite sits at phase
func ArcOffset(phase, hopHeight float64) float64 {
	return math.Sin(math.Pi*phase) * hopHeight
}

func (s *Simulator) advancePhase(st *State) {
	if st.PhaseDir == 0 {
		st.PhaseDir = 1
	}
	st.Phase += s.cfg.PhaseStep * st.PhaseDir

	switch s.cfg.PhaseMode {
	case PhaseWrap:
		st.PhaseDir = 1
		if st.Phase >= 1-phaseEpsilon {
			st.Phase = math.Max(0, st.Phase-1)
		}
		st.Phase = math.Max(0, st.Phase)
	default:
		if st.Phase >= 1-phaseEpsilon {
			st.Phase = 1
			st.PhaseDir = -1
		} else if st.Phase <= phaseEpsilon {
			st.Phase = 0
			st.PhaseDir = 1
		}
	}
}

// stepArc is the interpolated model: no gravity, the arc is read off the phase
func (s *Simulator) stepArc(st *State) {
	s.advancePhase(st)

	prevY := st.Pos.Y
	st.Vel.X = st.Moving.Sign() * s.cfg.ArcSpeed * SpeedMultiplier(st.Phase)
	st.Pos.X += st.Vel.X
	st.Pos.Y = s.bounds.GroundY() - ArcOffset(st.Phase, s.cfg.HopHeight)

	s.reflectX(st)
	s.clampY(st)
	st.Vel.Y = st.Pos.Y - prevY
}
