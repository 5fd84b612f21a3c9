// Event phases — the fixed cycle the match day moves through, each with a
// tick duration and an ambient crowd-density hint.
// See design doc Section 7.
package engine

import (
	"fmt"

	"github.com/talgya/crowd-sentinel/internal/venue"
)

// Phase is one named interval of the event cycle.
type Phase struct {
	Name     string  `json:"name"`
	Duration int     `json:"duration_ticks"`
	Density  float64 `json:"density"`
}

// PhaseHalftime is the phase that biases arrival resampling toward the
// concourses and raises concession probability.
const PhaseHalftime = "HALFTIME"

// BuildPhases converts loaded phase specs into the engine cycle.
func BuildPhases(specs []venue.PhaseSpec) ([]Phase, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("phase cycle is empty")
	}
	phases := make([]Phase, 0, len(specs))
	for _, sp := range specs {
		if sp.DurationTicks <= 0 {
			return nil, fmt.Errorf("phase %q: non-positive duration", sp.Name)
		}
		phases = append(phases, Phase{
			Name:     sp.Name,
			Duration: sp.DurationTicks,
			Density:  sp.Density,
		})
	}
	return phases, nil
}

// advancePhase moves the phase timer one tick, wrapping the cycle after the
// final phase. Returns true when a phase boundary was crossed.
func (s *Simulation) advancePhase() bool {
	s.phaseTicks++
	if s.phaseTicks < s.Phases[s.phaseIdx].Duration {
		return false
	}
	s.phaseTicks = 0
	s.phaseIdx = (s.phaseIdx + 1) % len(s.Phases)
	return true
}

// CurrentPhase returns the active phase.
func (s *Simulation) CurrentPhase() Phase {
	return s.Phases[s.phaseIdx]
}
