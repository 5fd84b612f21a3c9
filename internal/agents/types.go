// Package agents provides the attendee data model and the population
// spawner.
// See design doc Section 3.
package agents

import (
	"github.com/paulmach/orb"
)

// AgentID is a unique identifier for an agent. Stable for the process
// lifetime; agents are never destroyed.
type AgentID uint64

// Credential is an agent's access level, fixed at creation.
type Credential string

const (
	CredentialGeneral Credential = "general"
	CredentialVIP     Credential = "vip"
	CredentialStaff   Credential = "staff"
	CredentialMedia   Credential = "media"
	CredentialVendor  Credential = "vendor"
)

// Behavior is an agent's current movement mode.
type Behavior string

const (
	BehaviorNormal    Behavior = "normal"
	BehaviorLoitering Behavior = "loitering"
	BehaviorRushing   Behavior = "rushing"
)

// WatchlistTier is the agent's standing on the security watchlist.
type WatchlistTier string

const (
	WatchlistNone WatchlistTier = "none"
	WatchlistLow  WatchlistTier = "low"
	WatchlistHigh WatchlistTier = "high"
)

// AlcoholPattern is the agent's background drinking profile.
type AlcoholPattern string

const (
	AlcoholNormal AlcoholPattern = "normal"
	AlcoholHeavy  AlcoholPattern = "heavy"
)

// RiskTier buckets a risk score for display and aggregation.
type RiskTier string

const (
	TierLow      RiskTier = "LOW"
	TierMedium   RiskTier = "MEDIUM"
	TierHigh     RiskTier = "HIGH"
	TierCritical RiskTier = "CRITICAL"
)

// Rank orders tiers for max-severity aggregation. Unknown tiers rank lowest.
func (t RiskTier) Rank() int {
	switch t {
	case TierCritical:
		return 3
	case TierHigh:
		return 2
	case TierMedium:
		return 1
	default:
		return 0
	}
}

// MaxTier returns the more severe of two tiers.
func MaxTier(a, b RiskTier) RiskTier {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// Agent is one simulated attendee.
type Agent struct {
	ID         AgentID    `json:"id"`
	Name       string     `json:"name"`
	Credential Credential `json:"credential"`

	// Kinematics
	Position  orb.Point `json:"position"`
	Target    orb.Point `json:"target"`
	IdleTicks int       `json:"idle_ticks"` // ticks remaining in a paused state
	Behavior  Behavior  `json:"behavior"`

	// Possessions — ordered; souvenirs unique per label, consumables repeat.
	CarriedItems []string `json:"carried_items,omitempty"`

	// History — immutable background, set at creation.
	PriorIncidents int            `json:"prior_incidents"`
	WatchlistTier  WatchlistTier  `json:"watchlist_tier"`
	AlcoholPattern AlcoholPattern `json:"alcohol_pattern"`

	// Session — accumulates for the process lifetime, never resets.
	DrinksConsumed    int             `json:"drinks_consumed"`
	RegionsVisited    map[string]bool `json:"regions_visited"`
	FlaggedByOperator bool            `json:"flagged_by_operator"`

	// Derived — recomputed every tick by the scorer, never authoritative.
	RiskScore   int      `json:"risk_score"`
	RiskTier    RiskTier `json:"risk_tier"`
	RiskFactors []string `json:"risk_factors,omitempty"`
}

// Privileged reports whether the agent may occupy the field exclusion zone.
// Unknown credentials are treated as the least-privileged case.
func (a *Agent) Privileged() bool {
	return a.Credential == CredentialStaff || a.Credential == CredentialMedia
}

// VIPCleared reports whether the agent belongs in VIP space for scoring
// purposes: VIP ticket holders plus working staff and media.
func (a *Agent) VIPCleared() bool {
	return a.Credential == CredentialVIP || a.Privileged()
}

// HasItem reports whether the agent already carries an item with the label.
func (a *Agent) HasItem(label string) bool {
	for _, it := range a.CarriedItems {
		if it == label {
			return true
		}
	}
	return false
}

// VisitRegion records a region in the agent's visited set. Returns true the
// first time a region is seen.
func (a *Agent) VisitRegion(regionID string) bool {
	if a.RegionsVisited == nil {
		a.RegionsVisited = make(map[string]bool)
	}
	if a.RegionsVisited[regionID] {
		return false
	}
	a.RegionsVisited[regionID] = true
	return true
}
