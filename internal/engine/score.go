// Risk scoring — the pure per-agent threat function. Additive independent
// contributions, total clamped to [0, 100], tier thresholds at 25/45/70.
// See design doc Section 5.
package engine

import (
	"fmt"

	"github.com/talgya/crowd-sentinel/internal/agents"
	"github.com/talgya/crowd-sentinel/internal/venue"
)

// ScoreResult is the scorer's verdict on one agent for one tick.
type ScoreResult struct {
	Value   int
	Tier    agents.RiskTier
	Factors []string
}

// Score thresholds for tier mapping.
const (
	tierMediumAt   = 25
	tierHighAt     = 45
	tierCriticalAt = 70
)

// Score evaluates an agent's instantaneous risk. Pure and idempotent: no
// randomness, no mutation of the agent, identical inputs yield identical
// output. The region must be the agent's current region; unknown enum
// values degrade to the least-privileged/default contribution.
func Score(a *agents.Agent, phase Phase, region *venue.Region) ScoreResult {
	var res ScoreResult
	add := func(points int, factor string) {
		res.Value += points
		res.Factors = append(res.Factors, factor)
	}

	switch a.WatchlistTier {
	case agents.WatchlistHigh:
		add(35, "HIGH WATCHLIST")
	case agents.WatchlistLow:
		add(15, "LOW WATCHLIST")
	}

	if a.PriorIncidents > 0 {
		add(12*a.PriorIncidents, fmt.Sprintf("%d Prior Incident(s)", a.PriorIncidents))
	}

	if a.AlcoholPattern == agents.AlcoholHeavy {
		add(10, "Heavy Alcohol History")
	}

	// Highest drink threshold wins; the bands never stack.
	switch {
	case a.DrinksConsumed >= 6:
		add(30, fmt.Sprintf("%d Drinks This Session", a.DrinksConsumed))
	case a.DrinksConsumed >= 4:
		add(18, fmt.Sprintf("%d Drinks This Session", a.DrinksConsumed))
	case a.DrinksConsumed >= 3:
		add(8, fmt.Sprintf("%d Drinks This Session", a.DrinksConsumed))
	}

	// One region, one contribution.
	if region != nil {
		switch {
		case region.Kind == venue.KindCritical && a.Credential != agents.CredentialStaff:
			add(45, "CRITICAL ZONE VIOLATION")
		case region.Kind == venue.KindRestricted && !a.Privileged():
			add(30, "RESTRICTED ZONE VIOLATION")
		case region.Kind == venue.KindVIP && !a.VIPCleared():
			add(20, "VIP ZONE MISMATCH")
		}
	}

	if a.Behavior == agents.BehaviorRushing {
		add(15, "Rushing Through Crowd")
	}
	if a.Behavior == agents.BehaviorLoitering && (region == nil || region.Kind != venue.KindConcourse) {
		add(10, "Loitering Outside Concourse")
	}

	if a.FlaggedByOperator {
		add(5, "User Flagged")
	}

	if res.Value > 100 {
		res.Value = 100
	}
	res.Tier = TierForScore(res.Value)
	return res
}

// TierForScore maps a clamped score onto its risk tier.
func TierForScore(value int) agents.RiskTier {
	switch {
	case value >= tierCriticalAt:
		return agents.TierCritical
	case value >= tierHighAt:
		return agents.TierHigh
	case value >= tierMediumAt:
		return agents.TierMedium
	default:
		return agents.TierLow
	}
}
