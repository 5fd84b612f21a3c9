package engine

import (
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"

	"github.com/talgya/crowd-sentinel/internal/agents"
	"github.com/talgya/crowd-sentinel/internal/entropy"
	"github.com/talgya/crowd-sentinel/internal/venue"
)

func pt(x, y float64) orb.Point { return orb.Point{x, y} }

// scriptSource is an entropy source for tests: Float64 pops scripted values
// and falls back to 0.99 (suppressing every probabilistic branch) when the
// script runs out. Intn always returns 0.
type scriptSource struct {
	floats []float64
	idx    int
}

func (s *scriptSource) Float64() float64 {
	if s.idx < len(s.floats) {
		v := s.floats[s.idx]
		s.idx++
		return v
	}
	return 0.99
}

func (s *scriptSource) Intn(n int) int { return 0 }

func (s *scriptSource) Range(min, max float64) float64 {
	return min + s.Float64()*(max-min)
}

func testLayout(t *testing.T) (*venue.Layout, []Phase) {
	t.Helper()
	layout, specs, err := venue.Load("")
	require.NoError(t, err)
	phases, err := BuildPhases(specs)
	require.NoError(t, err)
	return layout, phases
}

func phaseNamed(t *testing.T, phases []Phase, name string) Phase {
	t.Helper()
	for _, p := range phases {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("phase %q not in cycle", name)
	return Phase{}
}

// testSim builds a simulation over the default layout with the given agents
// and entropy source.
func testSim(t *testing.T, src entropy.Source, crowd ...*agents.Agent) *Simulation {
	t.Helper()
	layout, phases := testLayout(t)
	if src == nil {
		src = entropy.NewSeeded(7)
	}
	sim := NewSimulation(layout, crowd, phases, src, 11)
	return sim
}

// testAgent returns a minimal general-admission agent parked in a seating
// area with no elevated history.
func testAgent(id agents.AgentID) *agents.Agent {
	return &agents.Agent{
		ID:             id,
		Name:           "Test Attendee",
		Credential:     agents.CredentialGeneral,
		Position:       pt(50, 25),
		Target:         pt(50, 25),
		Behavior:       agents.BehaviorNormal,
		WatchlistTier:  agents.WatchlistNone,
		AlcoholPattern: agents.AlcoholNormal,
		RegionsVisited: map[string]bool{},
		RiskTier:       agents.TierLow,
	}
}

// fixedNow pins a simulation clock that tests can advance manually.
type fixedNow struct {
	now time.Time
}

func (f *fixedNow) fn() time.Time { return f.now }

func (f *fixedNow) advance(d time.Duration) { f.now = f.now.Add(d) }
