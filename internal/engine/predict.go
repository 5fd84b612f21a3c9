// Prediction generator — turns elevated risk into a deduplicated, capped,
// prioritized alert queue for the operator console.
// See design doc Section 6.
package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/crowd-sentinel/internal/agents"
)

// PredictionKind enumerates the risk patterns a prediction can carry.
type PredictionKind string

const (
	ZoneBreachImminent     PredictionKind = "ZONE_BREACH_IMMINENT"
	AltercationRisk        PredictionKind = "ALTERCATION_RISK"
	FieldRushVector        PredictionKind = "FIELD_RUSH_VECTOR"
	IntoxicationMonitor    PredictionKind = "INTOXICATION_MONITOR"
	BehavioralPatternMatch PredictionKind = "BEHAVIORAL_PATTERN_MATCH"
	AnomalyDetected        PredictionKind = "ANOMALY_DETECTED"
)

// Prediction is a generated alert suggesting an operator action.
type Prediction struct {
	ID              string          `json:"id"`
	CreatedAt       time.Time       `json:"created_at"`
	AgentID         agents.AgentID  `json:"agent_id"`
	AgentName       string          `json:"agent_name"`
	Kind            PredictionKind  `json:"kind"`
	Confidence      int             `json:"confidence"`
	SnapshotFactors []string        `json:"snapshot_factors,omitempty"`
	SuggestedAction string          `json:"suggested_action"`
	Priority        agents.RiskTier `json:"priority"`
	Acknowledged    bool            `json:"acknowledged"`
}

// Generator tuning.
const (
	predictMinScore    = 40
	predictSampleProb  = 0.04
	dedupWindow        = 10 * time.Second
	maxLivePredictions = 5
)

// response maps a prediction kind to the operator guidance it ships with.
type response struct {
	action   string
	priority agents.RiskTier
}

var responses = map[PredictionKind]response{
	ZoneBreachImminent:     {"Dispatch security to intercept", agents.TierCritical},
	AltercationRisk:        {"Position stewards within sight line", agents.TierHigh},
	FieldRushVector:        {"Alert field-line stewards", agents.TierCritical},
	IntoxicationMonitor:    {"Suspend alcohol service; observe", agents.TierMedium},
	BehavioralPatternMatch: {"Review incident history; shadow discreetly", agents.TierHigh},
	AnomalyDetected:        {"Monitor situation", agents.TierLow},
}

// defaultResponse covers kinds missing from the table.
var defaultResponse = response{"Monitor situation", agents.TierLow}

// maybePredict samples one agent's scored state into the alert queue.
// Gated on score and a fixed sampling probability so alert volume stays
// independent of population size. Caller holds the simulation mutex.
func (s *Simulation) maybePredict(a *agents.Agent, res ScoreResult) {
	if res.Value < predictMinScore {
		return
	}
	if s.src.Float64() >= predictSampleProb {
		return
	}

	kind, confidence := s.selectPattern(a, res)
	if s.isDuplicate(a.ID, kind) {
		return
	}

	resp, ok := responses[kind]
	if !ok {
		resp = defaultResponse
	}

	p := &Prediction{
		ID:              uuid.NewString(),
		CreatedAt:       s.nowFn(),
		AgentID:         a.ID,
		AgentName:       a.Name,
		Kind:            kind,
		Confidence:      confidence,
		SnapshotFactors: append([]string(nil), res.Factors...),
		SuggestedAction: resp.action,
		Priority:        resp.priority,
	}

	// Prepend, then truncate to the newest entries. Insertion order governs
	// eviction; priority does not rescue an old alert.
	s.Predictions = append([]*Prediction{p}, s.Predictions...)
	if len(s.Predictions) > maxLivePredictions {
		s.Predictions = s.Predictions[:maxLivePredictions]
	}
	s.pendingPredictions = append(s.pendingPredictions, p)
	s.Stats.PredictionsRaised++

	s.EmitEvent(Event{
		AgentID:     a.ID,
		AgentName:   a.Name,
		Description: fmt.Sprintf("%s: %s (%d%% confidence)", a.Name, kind, confidence),
		Category:    CategoryPrediction,
	})
}

// selectPattern walks the decision list top-down; first match wins.
func (s *Simulation) selectPattern(a *agents.Agent, res ScoreResult) (PredictionKind, int) {
	switch {
	case res.Value >= 60:
		kinds := [...]PredictionKind{ZoneBreachImminent, AltercationRisk, FieldRushVector}
		return kinds[s.src.Intn(len(kinds))], 70 + s.src.Intn(26)
	case a.DrinksConsumed >= 3:
		conf := 50 + 8*a.DrinksConsumed
		if conf > 100 {
			conf = 100
		}
		return IntoxicationMonitor, conf
	case a.PriorIncidents > 0:
		return BehavioralPatternMatch, 45 + s.src.Intn(31)
	default:
		return AnomalyDetected, 40 + s.src.Intn(26)
	}
}

// isDuplicate suppresses a new (agent, pattern) alert while an
// unacknowledged one from the last dedup window is still live.
func (s *Simulation) isDuplicate(id agents.AgentID, kind PredictionKind) bool {
	cutoff := s.nowFn().Add(-dedupWindow)
	for _, p := range s.Predictions {
		if p.AgentID == id && p.Kind == kind && !p.Acknowledged && p.CreatedAt.After(cutoff) {
			return true
		}
	}
	return false
}
