// Simulation ties the venue, population, scorer and prediction systems
// together and runs them each tick. All mutation — ticks and operator
// commands alike — serializes on one mutex, so a command can never observe
// a half-finished tick.
// See design doc Sections 4–7.
package engine

import (
	"log/slog"
	"sync"
	"time"

	"github.com/talgya/crowd-sentinel/internal/agents"
	"github.com/talgya/crowd-sentinel/internal/density"
	"github.com/talgya/crowd-sentinel/internal/entropy"
	"github.com/talgya/crowd-sentinel/internal/venue"
)

// summaryEveryTicks paces the periodic operational log line.
const summaryEveryTicks = 120

// Simulation holds the complete venue state and wires systems together.
type Simulation struct {
	mu sync.Mutex

	Layout     *venue.Layout
	Agents     []*agents.Agent
	AgentIndex map[agents.AgentID]*agents.Agent
	Phases     []Phase

	LastTick   uint64
	SystemTier agents.RiskTier // aggregate; LOW unless some agent is HIGH+

	Predictions []*Prediction // live queue, newest first, bounded
	Events      []Event       // live feed, bounded

	// Selected agent for the console detail pane. View-state only; never
	// read by the tick. Zero means none.
	SelectedAgent agents.AgentID

	Stats SimStats

	phaseIdx   int
	phaseTicks int

	src     entropy.Source
	density *density.Field
	nowFn   func() time.Time

	// Archive buffers drained by the persistence flush loop between ticks.
	pendingEvents      []Event
	pendingPredictions []*Prediction
}

// SimStats tracks aggregate venue statistics, refreshed each tick.
type SimStats struct {
	Population        int                     `json:"population"`
	AvgScore          float64                 `json:"avg_score"`
	TierCounts        map[agents.RiskTier]int `json:"tier_counts"`
	TotalDrinks       int                     `json:"total_drinks"`
	PredictionsRaised uint64                  `json:"predictions_raised"`
}

// NewSimulation assembles a simulation from its loaded components. The
// entropy source drives every stochastic branch; seed it for reproducible
// runs.
func NewSimulation(layout *venue.Layout, population []*agents.Agent, phases []Phase, src entropy.Source, densitySeed int64) *Simulation {
	index := make(map[agents.AgentID]*agents.Agent, len(population))
	for _, a := range population {
		index[a.ID] = a
	}
	return &Simulation{
		Layout:     layout,
		Agents:     population,
		AgentIndex: index,
		Phases:     phases,
		SystemTier: agents.TierLow,
		src:        src,
		density:    density.New(densitySeed),
		nowFn:      time.Now,
	}
}

// SetNow overrides the simulation's wall clock. Tests pin it to step
// simulated time through the prediction dedup window.
func (s *Simulation) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nowFn = now
}

// Tick advances the simulation one step: phase timer, then the
// motion→score→predict pipeline for every agent, then the aggregate tier.
func (s *Simulation) Tick(tick uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.LastTick = tick

	if s.advancePhase() {
		phase := s.CurrentPhase()
		s.EmitEvent(Event{
			Description: "Event phase: " + phase.Name,
			Category:    CategoryPhase,
		})
		slog.Info("phase change", "tick", tick, "phase", phase.Name, "density_hint", phase.Density)
	}
	phase := s.CurrentPhase()

	maxTier := agents.TierLow
	totalScore := 0
	totalDrinks := 0
	tierCounts := map[agents.RiskTier]int{}

	for _, a := range s.Agents {
		s.moveAgent(a, phase)

		region := s.Layout.RegionAt(a.Position)
		prev := a.RiskTier
		res := Score(a, phase, region)
		a.RiskScore = res.Value
		a.RiskTier = res.Tier
		a.RiskFactors = res.Factors

		if res.Tier.Rank() >= agents.TierHigh.Rank() && res.Tier.Rank() > prev.Rank() {
			s.EmitEvent(Event{
				AgentID:     a.ID,
				AgentName:   a.Name,
				Description: a.Name + " escalated to " + string(res.Tier) + " in " + region.Name,
				Category:    CategoryZone,
			})
		}

		s.maybePredict(a, res)

		maxTier = agents.MaxTier(maxTier, res.Tier)
		totalScore += res.Value
		totalDrinks += a.DrinksConsumed
		tierCounts[res.Tier]++
	}

	// Aggregate: only HIGH and CRITICAL count as elevated; everything else
	// collapses to LOW.
	if maxTier.Rank() < agents.TierHigh.Rank() {
		maxTier = agents.TierLow
	}
	s.SystemTier = maxTier

	s.Stats.Population = len(s.Agents)
	s.Stats.TierCounts = tierCounts
	s.Stats.TotalDrinks = totalDrinks
	if len(s.Agents) > 0 {
		s.Stats.AvgScore = float64(totalScore) / float64(len(s.Agents))
	}

	if tick%summaryEveryTicks == 0 {
		slog.Info("tick summary",
			"tick", tick,
			"phase", phase.Name,
			"system_tier", s.SystemTier,
			"avg_score", s.Stats.AvgScore,
			"high", tierCounts[agents.TierHigh],
			"critical", tierCounts[agents.TierCritical],
			"live_predictions", len(s.Predictions),
			"total_drinks", totalDrinks,
		)
	}
}

// Status is the aggregate snapshot served to the console.
type Status struct {
	Tick       uint64          `json:"tick"`
	Phase      Phase           `json:"phase"`
	SystemTier agents.RiskTier `json:"system_tier"`
	Stats      SimStats        `json:"stats"`
	Selected   agents.AgentID  `json:"selected_agent,omitempty"`
}

// SnapshotStatus returns the aggregate view under the lock.
func (s *Simulation) SnapshotStatus() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Tick:       s.LastTick,
		Phase:      s.CurrentPhase(),
		SystemTier: s.SystemTier,
		Stats:      s.Stats,
		Selected:   s.SelectedAgent,
	}
}

// SnapshotAgents returns a read-only copy of the agent collection.
func (s *Simulation) SnapshotAgents() []agents.Agent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]agents.Agent, 0, len(s.Agents))
	for _, a := range s.Agents {
		out = append(out, *a)
	}
	return out
}

// SnapshotAgent returns a copy of one agent. ok is false for unknown ids.
func (s *Simulation) SnapshotAgent(id agents.AgentID) (agents.Agent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.AgentIndex[id]
	if !ok {
		return agents.Agent{}, false
	}
	return *a, true
}

// SnapshotPredictions returns the live prediction queue, newest first.
func (s *Simulation) SnapshotPredictions() []Prediction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Prediction, 0, len(s.Predictions))
	for _, p := range s.Predictions {
		out = append(out, *p)
	}
	return out
}

// SnapshotEvents returns the live event feed, oldest first.
func (s *Simulation) SnapshotEvents() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.Events...)
}

// DrainArchive hands the buffered events and predictions to the archive
// flush loop and clears the buffers. Called between ticks, never inside one.
func (s *Simulation) DrainArchive() ([]Event, []Prediction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.pendingEvents
	s.pendingEvents = nil
	preds := make([]Prediction, 0, len(s.pendingPredictions))
	for _, p := range s.pendingPredictions {
		preds = append(preds, *p)
	}
	s.pendingPredictions = nil
	return events, preds
}
