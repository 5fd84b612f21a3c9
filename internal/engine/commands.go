// Operator commands — the console's write surface. Each command takes the
// simulation mutex, so commands serialize against in-flight ticks and are
// safe to issue at any time. Unknown ids are no-ops, never failures.
// See design doc Section 7.
package engine

import (
	"log/slog"

	"github.com/talgya/crowd-sentinel/internal/agents"
)

// ToggleWatchlist flips the operator flag on an agent. Returns the new flag
// state and false when the agent is unknown.
func (s *Simulation) ToggleWatchlist(id agents.AgentID) (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.AgentIndex[id]
	if !ok {
		return false, false
	}
	a.FlaggedByOperator = !a.FlaggedByOperator

	verb := "flagged"
	if !a.FlaggedByOperator {
		verb = "cleared"
	}
	s.EmitEvent(Event{
		AgentID:     a.ID,
		AgentName:   a.Name,
		Description: "Operator " + verb + " " + a.Name,
		Category:    CategoryCommand,
	})
	slog.Info("watchlist toggled", "agent_id", id, "flagged", a.FlaggedByOperator)
	return a.FlaggedByOperator, true
}

// DismissPrediction removes a prediction by id immediately and
// unconditionally. Returns false when the id is not live.
func (s *Simulation) DismissPrediction(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.Predictions {
		if p.ID != id {
			continue
		}
		s.Predictions = append(s.Predictions[:i], s.Predictions[i+1:]...)
		s.EmitEvent(Event{
			AgentID:     p.AgentID,
			AgentName:   p.AgentName,
			Description: "Operator dismissed " + string(p.Kind) + " for " + p.AgentName,
			Category:    CategoryCommand,
		})
		slog.Info("prediction dismissed", "prediction_id", id, "kind", p.Kind)
		return true
	}
	return false
}

// SelectAgent records the console's focused agent. Pure view-state: the
// tick never reads it. Selecting id 0 clears the selection; unknown ids
// are no-ops.
func (s *Simulation) SelectAgent(id agents.AgentID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != 0 {
		if _, ok := s.AgentIndex[id]; !ok {
			return false
		}
	}
	s.SelectedAgent = id
	return true
}
