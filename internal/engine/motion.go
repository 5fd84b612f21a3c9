// Motion model — advances one agent one tick. A fixed-order state machine:
// containment correction, target sanitation, idle hold/onset, arrival
// handling, validated step, region bookkeeping, concession behavior, and
// behavior relapse. Every randomized branch has a resample fallback, so an
// agent can never stay outside legal space for more than one tick.
// See design doc Section 4.
package engine

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"github.com/talgya/crowd-sentinel/internal/agents"
	"github.com/talgya/crowd-sentinel/internal/venue"
)

// Motion tuning.
const (
	stepSize              = 1.8  // plane units per tick
	rushMultiplier        = 2.0  // rushing agents cover double ground
	idleOnsetProb         = 0.03 // normal → loitering each tick
	rushOnsetProb         = 0.004
	rushCalmProb          = 0.02
	halftimeConcourseBias = 0.6

	maxDrinksPerSession = 8
	baseBuyProb         = 0.04
	halftimeBuyProb     = 0.12
)

// moveAgent runs the per-tick motion state machine for one agent.
// Caller holds the simulation mutex.
func (s *Simulation) moveAgent(a *agents.Agent, phase Phase) {
	// 1. Containment correction: heal any previous-tick invariant violation
	// before anything else runs.
	if s.Layout.InExclusionZone(a.Position) && !a.Privileged() {
		a.Position = s.Layout.RandomSeatingPoint(s.src)
		a.Target = s.sampleTarget(phase)
		s.EmitEvent(Event{
			AgentID:     a.ID,
			AgentName:   a.Name,
			Description: fmt.Sprintf("%s was escorted off the field perimeter", a.Name),
			Category:    CategoryContainment,
		})
	}

	// 2. Target sanitation: never steer an unprivileged agent toward the field.
	if s.Layout.InExclusionZone(a.Target) && !a.Privileged() {
		a.Target = s.sampleTarget(phase)
	}

	// 3. Idle hold.
	if a.IdleTicks > 0 {
		a.IdleTicks--
		if a.IdleTicks == 0 && a.Behavior == agents.BehaviorLoitering {
			a.Behavior = agents.BehaviorNormal
		}
	} else if a.Behavior == agents.BehaviorNormal && s.src.Float64() < idleOnsetProb {
		// 4. Idle onset.
		a.Behavior = agents.BehaviorLoitering
		a.IdleTicks = 2 + s.src.Intn(5)
	} else if dist(a.Position, a.Target) <= 2*stepSize {
		// 5. Arrived: pick somewhere new to head.
		a.Target = s.sampleTarget(phase)
	} else {
		// 6. Step toward the target, re-validating before committing.
		step := stepSize
		if a.Behavior == agents.BehaviorRushing {
			step *= rushMultiplier
		}
		next := stepToward(a.Position, a.Target, step)
		switch {
		case s.Layout.InExclusionZone(next) && !a.Privileged():
			a.Target = s.sampleTarget(phase)
		case s.regionKindAt(next) == venue.KindVIP && !a.VIPCleared():
			a.Target = s.sampleTarget(phase)
		default:
			a.Position = next
		}
	}

	// 7. Region-visit bookkeeping on the finalized position.
	region := s.Layout.RegionAt(a.Position)
	a.VisitRegion(region.ID)

	// 8. Concession behavior, concourse only.
	if region.Kind == venue.KindConcourse {
		s.maybeBuy(a, phase)
	}

	// 9. Behavior relapse, independent of position.
	switch a.Behavior {
	case agents.BehaviorNormal:
		if s.src.Float64() < rushOnsetProb {
			a.Behavior = agents.BehaviorRushing
		}
	case agents.BehaviorRushing:
		if s.src.Float64() < rushCalmProb {
			a.Behavior = agents.BehaviorNormal
		}
	}
}

// sampleTarget picks a fresh movement target: concourse-biased during
// halftime, otherwise uniform over the seating areas.
func (s *Simulation) sampleTarget(phase Phase) orb.Point {
	if phase.Name == PhaseHalftime && s.src.Float64() < halftimeConcourseBias {
		return s.Layout.RandomConcoursePoint(s.src)
	}
	return s.Layout.RandomSeatingPoint(s.src)
}

// maybeBuy rolls the concession purchase for an agent standing in a
// concourse. Purchase probability follows the phase and the local crowd
// density; item category follows the agent's drinking profile.
func (s *Simulation) maybeBuy(a *agents.Agent, phase Phase) {
	prob := baseBuyProb
	if phase.Name == PhaseHalftime {
		prob = halftimeBuyProb
	}
	// Busier concourses sell more: scale by local density around the hint.
	prob *= 0.5 + s.density.At(a.Position, s.LastTick, phase.Density)
	if s.src.Float64() >= prob {
		return
	}

	alcoholWeight := 0.45
	if a.AlcoholPattern == agents.AlcoholHeavy {
		alcoholWeight = 0.75
	}
	wantAlcohol := s.src.Float64() < alcoholWeight && a.DrinksConsumed < maxDrinksPerSession

	item, ok := s.pickItem(a, wantAlcohol)
	if !ok {
		return
	}
	a.CarriedItems = append(a.CarriedItems, item.Label)
	if item.Alcohol {
		a.DrinksConsumed++
		if a.DrinksConsumed == 6 {
			s.EmitEvent(Event{
				AgentID:     a.ID,
				AgentName:   a.Name,
				Description: fmt.Sprintf("%s is on their 6th drink of the session", a.Name),
				Category:    CategoryConcession,
			})
		}
	}
}

// pickItem selects a concession item of the requested category. Souvenirs
// the agent already owns are skipped; consumables may repeat.
func (s *Simulation) pickItem(a *agents.Agent, alcohol bool) (venue.Item, bool) {
	var pool []venue.Item
	for _, it := range s.Layout.Items {
		if it.Alcohol != alcohol {
			continue
		}
		if it.Souvenir && a.HasItem(it.Label) {
			continue
		}
		pool = append(pool, it)
	}
	if len(pool) == 0 {
		return venue.Item{}, false
	}
	return pool[s.src.Intn(len(pool))], true
}

// regionKindAt is the region lookup used for step validation.
func (s *Simulation) regionKindAt(p orb.Point) venue.RegionKind {
	return s.Layout.RegionAt(p).Kind
}

// dist is the Euclidean distance between two plane points.
func dist(a, b orb.Point) float64 {
	dx := a.X() - b.X()
	dy := a.Y() - b.Y()
	return math.Hypot(dx, dy)
}

// stepToward moves from p a fixed distance toward target, clamping at the
// target itself.
func stepToward(p, target orb.Point, step float64) orb.Point {
	d := dist(p, target)
	if d <= step {
		return target
	}
	f := step / d
	return orb.Point{
		p.X() + (target.X()-p.X())*f,
		p.Y() + (target.Y()-p.Y())*f,
	}
}
