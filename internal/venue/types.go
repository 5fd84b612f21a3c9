// Package venue models the stadium floor plan: polygonal regions with a
// fixed lookup priority, the hard-excluded field rectangle, and the seating
// areas agents pick movement targets from.
// See design doc Section 2.
package venue

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/talgya/crowd-sentinel/internal/entropy"
)

// RegionKind categorizes a region for access control and risk scoring.
type RegionKind string

const (
	KindPublic     RegionKind = "public"
	KindConcourse  RegionKind = "concourse"
	KindVIP        RegionKind = "vip"
	KindRestricted RegionKind = "restricted"
	KindCritical   RegionKind = "critical"
	KindOutside    RegionKind = "outside"
)

// Region is a named polygonal area of the venue. Immutable after load.
type Region struct {
	ID       string
	Name     string
	Kind     RegionKind
	Boundary orb.Polygon
}

// SeatingArea is a rectangular sub-area of the bowl that agents sample
// movement targets from.
type SeatingArea struct {
	Name   string
	Bounds orb.Bound
}

// Item is a concession product agents can acquire while in a concourse.
type Item struct {
	Label    string
	Alcohol  bool
	Souvenir bool // recorded at most once per agent; non-souvenirs may repeat
}

// Layout is the loaded, validated venue geometry. The region slice order is
// the lookup priority order — it is load-bearing: overlaps resolve to the
// earliest declared region.
type Layout struct {
	Bounds    orb.Bound
	Regions   []*Region
	Exclusion orb.Bound // the field; axis-aligned fast path
	Seating   []SeatingArea
	Items     []Item

	outside *Region
}

// Outside returns the synthetic region for points matching no polygon.
func (l *Layout) Outside() *Region { return l.outside }

// RegionAt returns the first region (in priority order) containing p, or the
// synthetic outside region. Even-odd ray-casting per polygon; cheap enough
// to call several times per agent per tick.
func (l *Layout) RegionAt(p orb.Point) *Region {
	for _, r := range l.Regions {
		if planar.PolygonContains(r.Boundary, p) {
			return r
		}
	}
	return l.outside
}

// InExclusionZone reports whether p falls inside the field rectangle. This
// is the hot-path check consulted every tick for every agent, so it is an
// axis-aligned bound test, never the polygon walk.
func (l *Layout) InExclusionZone(p orb.Point) bool {
	return l.Exclusion.Contains(p)
}

// Region returns the region with the given id, or nil.
func (l *Layout) Region(id string) *Region {
	for _, r := range l.Regions {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// RandomPointIn samples a uniform point inside b.
func RandomPointIn(b orb.Bound, src entropy.Source) orb.Point {
	return orb.Point{
		src.Range(b.Min.X(), b.Max.X()),
		src.Range(b.Min.Y(), b.Max.Y()),
	}
}

// RandomSeatingPoint samples a uniform seating area, then a uniform point
// inside it. Seating areas never overlap the field, so the result is always
// a legal position for any credential.
func (l *Layout) RandomSeatingPoint(src entropy.Source) orb.Point {
	area := l.Seating[src.Intn(len(l.Seating))]
	return RandomPointIn(area.Bounds, src)
}

// RandomConcoursePoint samples a point inside one of the concourse regions.
func (l *Layout) RandomConcoursePoint(src entropy.Source) orb.Point {
	var bounds []orb.Bound
	for _, r := range l.Regions {
		if r.Kind == KindConcourse {
			bounds = append(bounds, r.Boundary.Bound())
		}
	}
	if len(bounds) == 0 {
		return l.RandomSeatingPoint(src)
	}
	return RandomPointIn(bounds[src.Intn(len(bounds))], src)
}
