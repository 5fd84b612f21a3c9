// Agent spawning — creates the fixed attendee population with credentials,
// history, and starting positions.
// See design doc Section 3.
package agents

import (
	"fmt"

	"github.com/talgya/crowd-sentinel/internal/entropy"
	"github.com/talgya/crowd-sentinel/internal/venue"
)

// Spawner creates agents for the simulation. Deterministic for a given seed.
type Spawner struct {
	src    entropy.Source
	nextID AgentID
}

// NewSpawner creates an agent spawner with the given seed.
func NewSpawner(seed int64) *Spawner {
	return &Spawner{
		src:    entropy.NewSeeded(seed + 300),
		nextID: 1,
	}
}

// SpawnPopulation creates the full attendee population. Positions and
// targets land in seating areas, which are legal for every credential.
func (s *Spawner) SpawnPopulation(count int, layout *venue.Layout) []*Agent {
	out := make([]*Agent, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, s.spawnOne(layout))
	}
	return out
}

func (s *Spawner) spawnOne(layout *venue.Layout) *Agent {
	id := s.nextID
	s.nextID++

	a := &Agent{
		ID:             id,
		Name:           s.name(),
		Credential:     s.credential(),
		Behavior:       BehaviorNormal,
		WatchlistTier:  s.watchlistTier(),
		PriorIncidents: s.priorIncidents(),
		AlcoholPattern: s.alcoholPattern(),
		RegionsVisited: make(map[string]bool),
		RiskTier:       TierLow,
	}
	a.Position = layout.RandomSeatingPoint(s.src)
	a.Target = layout.RandomSeatingPoint(s.src)
	return a
}

// credential rolls the attendee mix: mostly general admission, a thin layer
// of VIP, staff, media and vendors.
func (s *Spawner) credential() Credential {
	r := s.src.Float64()
	switch {
	case r < 0.78:
		return CredentialGeneral
	case r < 0.86:
		return CredentialVIP
	case r < 0.94:
		return CredentialStaff
	case r < 0.97:
		return CredentialMedia
	default:
		return CredentialVendor
	}
}

func (s *Spawner) watchlistTier() WatchlistTier {
	r := s.src.Float64()
	switch {
	case r < 0.88:
		return WatchlistNone
	case r < 0.96:
		return WatchlistLow
	default:
		return WatchlistHigh
	}
}

func (s *Spawner) priorIncidents() int {
	r := s.src.Float64()
	switch {
	case r < 0.80:
		return 0
	case r < 0.92:
		return 1
	case r < 0.97:
		return 2
	default:
		return 3
	}
}

func (s *Spawner) alcoholPattern() AlcoholPattern {
	if s.src.Float64() < 0.20 {
		return AlcoholHeavy
	}
	return AlcoholNormal
}

var firstNames = []string{
	"Marcus", "Elena", "Jamal", "Sofia", "Derek", "Priya", "Tomas", "Aisha",
	"Victor", "Lena", "Oscar", "Maya", "Felix", "Nadia", "Ruben", "Carla",
	"Dmitri", "Ingrid", "Kofi", "Yuki",
}

var lastNames = []string{
	"Reyes", "Okafor", "Lindqvist", "Tanaka", "Moretti", "Haddad", "Novak",
	"Fernandez", "Osei", "Kovacs", "Brennan", "Silva", "Petrov", "Andersson",
	"Diallo", "Marsh",
}

func (s *Spawner) name() string {
	first := firstNames[s.src.Intn(len(firstNames))]
	last := lastNames[s.src.Intn(len(lastNames))]
	return fmt.Sprintf("%s %s", first, last)
}
