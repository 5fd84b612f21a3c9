// Event feed — the advisory, append-only stream of notable occurrences the
// operator console tails. Bounded; oldest entries drop off.
// See design doc Section 7.
package engine

import (
	"time"

	"github.com/talgya/crowd-sentinel/internal/agents"
)

// maxFeedEvents caps the live feed; the archive keeps the full history.
const maxFeedEvents = 40

// Event is a notable occurrence in the venue.
type Event struct {
	Tick        uint64         `json:"tick"`
	At          time.Time      `json:"at"`
	AgentID     agents.AgentID `json:"agent_id,omitempty"`
	AgentName   string         `json:"agent_name,omitempty"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Icon        string         `json:"icon"`
}

// Event categories.
const (
	CategoryPhase       = "phase"
	CategoryZone        = "zone"
	CategoryPrediction  = "prediction"
	CategoryCommand     = "command"
	CategoryConcession  = "concession"
	CategoryContainment = "containment"
)

var categoryIcons = map[string]string{
	CategoryPhase:       "🕐",
	CategoryZone:        "🚧",
	CategoryPrediction:  "🚨",
	CategoryCommand:     "🎛",
	CategoryConcession:  "🍺",
	CategoryContainment: "🧲",
}

// EmitEvent appends an event to the live feed and the archive buffer.
// Caller must hold the simulation mutex.
func (s *Simulation) EmitEvent(e Event) {
	if e.Icon == "" {
		e.Icon = categoryIcons[e.Category]
	}
	if e.At.IsZero() {
		e.At = s.nowFn()
	}
	e.Tick = s.LastTick

	s.Events = append(s.Events, e)
	if len(s.Events) > maxFeedEvents {
		s.Events = s.Events[len(s.Events)-maxFeedEvents:]
	}
	s.pendingEvents = append(s.pendingEvents, e)
}
