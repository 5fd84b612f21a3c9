package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/crowd-sentinel/internal/agents"
	"github.com/talgya/crowd-sentinel/internal/entropy"
	"github.com/talgya/crowd-sentinel/internal/venue"
)

func TestPhaseCycleWraps(t *testing.T) {
	layout, _, err := venue.Load("")
	require.NoError(t, err)
	phases := []Phase{
		{Name: "PRE_GAME", Duration: 2, Density: 0.5},
		{Name: "KICKOFF", Duration: 2, Density: 0.8},
		{Name: "POST_GAME", Duration: 2, Density: 0.6},
	}
	sim := NewSimulation(layout, nil, phases, entropy.NewSeeded(1), 1)

	seen := []string{}
	for tick := uint64(1); tick <= 7; tick++ {
		sim.Tick(tick)
		seen = append(seen, sim.CurrentPhase().Name)
	}
	assert.Equal(t, []string{
		"PRE_GAME", "KICKOFF", "KICKOFF", "POST_GAME", "POST_GAME",
		"PRE_GAME", "PRE_GAME",
	}, seen)
}

func TestSystemTierAggregation(t *testing.T) {
	calm := testAgent(1)
	sim := testSim(t, entropy.NewSeeded(3), calm)

	sim.Tick(1)
	assert.Equal(t, agents.TierLow, sim.SystemTier)

	// One critical-history agent elevates the whole venue.
	hot := testAgent(2)
	hot.WatchlistTier = agents.WatchlistHigh
	hot.PriorIncidents = 3
	hot.AlcoholPattern = agents.AlcoholHeavy
	sim2 := testSim(t, entropy.NewSeeded(3), calm, hot)

	sim2.Tick(1)
	assert.Equal(t, agents.TierCritical, sim2.SystemTier)
}

func TestSystemTierMediumCollapsesToLow(t *testing.T) {
	// A MEDIUM-scoring agent (low watchlist + heavy history = 25) must not
	// elevate the aggregate.
	a := testAgent(1)
	a.WatchlistTier = agents.WatchlistLow
	a.AlcoholPattern = agents.AlcoholHeavy
	a.IdleTicks = 5
	sim := testSim(t, &scriptSource{}, a)

	sim.Tick(1)

	assert.Equal(t, agents.TierMedium, a.RiskTier)
	assert.Equal(t, agents.TierLow, sim.SystemTier)
}

func TestDerivedRiskRefreshesEachTick(t *testing.T) {
	a := testAgent(1)
	a.IdleTicks = 10
	sim := testSim(t, &scriptSource{}, a)

	sim.Tick(1)
	assert.Equal(t, 0, a.RiskScore)

	a.FlaggedByOperator = true
	sim.Tick(2)
	assert.Equal(t, 5, a.RiskScore)
	assert.Contains(t, a.RiskFactors, "User Flagged")
}

func TestEventFeedBounded(t *testing.T) {
	sim := testSim(t, &scriptSource{})

	for i := 0; i < 55; i++ {
		sim.EmitEvent(Event{Description: fmt.Sprintf("event %d", i), Category: CategoryZone})
	}

	events := sim.SnapshotEvents()
	require.Len(t, events, maxFeedEvents)
	assert.Equal(t, "event 54", events[len(events)-1].Description)
	assert.Equal(t, "event 15", events[0].Description)
}

func TestSnapshotsAreCopies(t *testing.T) {
	a := testAgent(1)
	a.IdleTicks = 10
	sim := testSim(t, &scriptSource{}, a)
	sim.Tick(1)

	snap := sim.SnapshotAgents()
	require.Len(t, snap, 1)
	snap[0].Name = "Imposter"
	assert.Equal(t, "Test Attendee", sim.Agents[0].Name)

	got, ok := sim.SnapshotAgent(1)
	require.True(t, ok)
	got.DrinksConsumed = 99
	assert.Equal(t, 0, sim.Agents[0].DrinksConsumed)

	_, ok = sim.SnapshotAgent(404)
	assert.False(t, ok)
}

func TestDrainArchive(t *testing.T) {
	a := testAgent(1)
	sim := testSim(t, &scriptSource{floats: []float64{0.0}}, a)
	sim.EmitEvent(Event{Description: "something notable", Category: CategoryZone})
	sim.maybePredict(a, ScoreResult{Value: 45})

	events, preds := sim.DrainArchive()
	assert.NotEmpty(t, events)
	require.Len(t, preds, 1)

	// Buffers are cleared; the live queue is untouched.
	events, preds = sim.DrainArchive()
	assert.Empty(t, events)
	assert.Empty(t, preds)
	assert.Len(t, sim.Predictions, 1)
}

func TestToggleWatchlistCommand(t *testing.T) {
	a := testAgent(1)
	sim := testSim(t, &scriptSource{}, a)

	flagged, ok := sim.ToggleWatchlist(1)
	assert.True(t, ok)
	assert.True(t, flagged)

	flagged, ok = sim.ToggleWatchlist(1)
	assert.True(t, ok)
	assert.False(t, flagged)

	_, ok = sim.ToggleWatchlist(999)
	assert.False(t, ok)
}

func TestSelectAgentCommand(t *testing.T) {
	a := testAgent(1)
	sim := testSim(t, &scriptSource{}, a)

	assert.True(t, sim.SelectAgent(1))
	assert.Equal(t, agents.AgentID(1), sim.SnapshotStatus().Selected)

	assert.False(t, sim.SelectAgent(42))
	assert.Equal(t, agents.AgentID(1), sim.SnapshotStatus().Selected)

	assert.True(t, sim.SelectAgent(0))
	assert.Equal(t, agents.AgentID(0), sim.SnapshotStatus().Selected)
}

func TestStatsRefresh(t *testing.T) {
	a := testAgent(1)
	a.WatchlistTier = agents.WatchlistHigh
	a.PriorIncidents = 1
	a.IdleTicks = 10
	b := testAgent(2)
	b.IdleTicks = 10
	sim := testSim(t, &scriptSource{}, a, b)

	sim.Tick(1)

	st := sim.SnapshotStatus()
	assert.Equal(t, 2, st.Stats.Population)
	// a scores 47 (HIGH), b scores 0 (LOW).
	assert.Equal(t, 1, st.Stats.TierCounts[agents.TierHigh])
	assert.Equal(t, 1, st.Stats.TierCounts[agents.TierLow])
	assert.InDelta(t, 23.5, st.Stats.AvgScore, 1e-9)
	assert.Equal(t, agents.TierHigh, st.SystemTier)
}
