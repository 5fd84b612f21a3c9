// Layout configuration — yaml schema, loading, and geometry validation.
// See design doc Section 2.
package venue

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"gopkg.in/yaml.v3"
)

// maxVertices bounds polygon complexity so the per-tick lookup stays cheap.
const maxVertices = 8

// Config is the on-disk venue description.
type Config struct {
	Bounds    RectSpec     `yaml:"bounds"`
	Exclusion RectSpec     `yaml:"exclusion"`
	Regions   []RegionSpec `yaml:"regions"` // declared order = lookup priority
	Seating   []RectSpec   `yaml:"seating"`
	Items     []ItemSpec   `yaml:"items"`
	Phases    []PhaseSpec  `yaml:"phases"`
}

// RegionSpec describes one polygonal region.
type RegionSpec struct {
	ID       string       `yaml:"id"`
	Name     string       `yaml:"name"`
	Kind     string       `yaml:"kind"`
	Vertices [][2]float64 `yaml:"vertices"`
}

// RectSpec is an axis-aligned rectangle.
type RectSpec struct {
	Name string  `yaml:"name,omitempty"`
	MinX float64 `yaml:"min_x"`
	MinY float64 `yaml:"min_y"`
	MaxX float64 `yaml:"max_x"`
	MaxY float64 `yaml:"max_y"`
}

// ItemSpec describes a concession product.
type ItemSpec struct {
	Label    string `yaml:"label"`
	Alcohol  bool   `yaml:"alcohol,omitempty"`
	Souvenir bool   `yaml:"souvenir,omitempty"`
}

// PhaseSpec describes one entry of the event phase cycle.
type PhaseSpec struct {
	Name          string  `yaml:"name"`
	DurationTicks int     `yaml:"duration_ticks"`
	Density       float64 `yaml:"density"` // ambient crowd-density hint, 0–1
}

// Load reads a venue config from path, or returns the built-in default
// layout when path is empty. The returned layout is validated.
func Load(path string) (*Layout, []PhaseSpec, error) {
	cfg := defaultConfig()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("read venue config: %w", err)
		}
		cfg = Config{}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, nil, fmt.Errorf("venue config: %w", err)
		}
	}

	layout, err := buildLayout(cfg)
	if err != nil {
		return nil, nil, err
	}
	return layout, cfg.Phases, nil
}

func (r RectSpec) bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{r.MinX, r.MinY},
		Max: orb.Point{r.MaxX, r.MaxY},
	}
}

func buildLayout(cfg Config) (*Layout, error) {
	if cfg.Bounds.MaxX <= cfg.Bounds.MinX || cfg.Bounds.MaxY <= cfg.Bounds.MinY {
		return nil, fmt.Errorf("venue config: degenerate bounds")
	}
	if cfg.Exclusion.MaxX <= cfg.Exclusion.MinX || cfg.Exclusion.MaxY <= cfg.Exclusion.MinY {
		return nil, fmt.Errorf("venue config: degenerate exclusion zone")
	}
	if len(cfg.Regions) == 0 {
		return nil, fmt.Errorf("venue config: no regions declared")
	}
	if len(cfg.Seating) == 0 {
		return nil, fmt.Errorf("venue config: no seating areas declared")
	}
	if len(cfg.Phases) == 0 {
		return nil, fmt.Errorf("venue config: no phases declared")
	}
	for _, p := range cfg.Phases {
		if p.DurationTicks <= 0 {
			return nil, fmt.Errorf("venue config: phase %q has non-positive duration", p.Name)
		}
	}

	layout := &Layout{
		Bounds:    cfg.Bounds.bound(),
		Exclusion: cfg.Exclusion.bound(),
		outside:   &Region{ID: "outside", Name: "Outside Venue", Kind: KindOutside},
	}

	seen := make(map[string]bool, len(cfg.Regions))
	for _, rs := range cfg.Regions {
		if rs.ID == "" {
			return nil, fmt.Errorf("venue config: region with empty id")
		}
		if seen[rs.ID] {
			return nil, fmt.Errorf("venue config: duplicate region id %q", rs.ID)
		}
		seen[rs.ID] = true

		kind := RegionKind(rs.Kind)
		switch kind {
		case KindPublic, KindConcourse, KindVIP, KindRestricted, KindCritical:
		default:
			return nil, fmt.Errorf("venue config: region %q has unknown kind %q", rs.ID, rs.Kind)
		}

		ring, err := buildRing(rs.ID, rs.Vertices)
		if err != nil {
			return nil, err
		}
		layout.Regions = append(layout.Regions, &Region{
			ID:       rs.ID,
			Name:     rs.Name,
			Kind:     kind,
			Boundary: orb.Polygon{ring},
		})
	}

	for _, ss := range cfg.Seating {
		b := ss.bound()
		if b.Max.X() <= b.Min.X() || b.Max.Y() <= b.Min.Y() {
			return nil, fmt.Errorf("venue config: degenerate seating area %q", ss.Name)
		}
		layout.Seating = append(layout.Seating, SeatingArea{Name: ss.Name, Bounds: b})
	}

	for _, is := range cfg.Items {
		if is.Label == "" {
			return nil, fmt.Errorf("venue config: item with empty label")
		}
		layout.Items = append(layout.Items, Item{
			Label:    is.Label,
			Alcohol:  is.Alcohol,
			Souvenir: is.Souvenir,
		})
	}

	return layout, nil
}

// buildRing normalizes a vertex list into a closed orb.Ring and rejects
// degenerate or self-intersecting outlines.
func buildRing(regionID string, verts [][2]float64) (orb.Ring, error) {
	// Drop an explicit closing vertex; we re-close below.
	if len(verts) > 1 && verts[0] == verts[len(verts)-1] {
		verts = verts[:len(verts)-1]
	}
	if len(verts) < 3 {
		return nil, fmt.Errorf("venue config: region %q needs at least 3 vertices", regionID)
	}
	if len(verts) > maxVertices {
		return nil, fmt.Errorf("venue config: region %q exceeds %d vertices", regionID, maxVertices)
	}

	ring := make(orb.Ring, 0, len(verts)+1)
	for _, v := range verts {
		ring = append(ring, orb.Point{v[0], v[1]})
	}
	ring = append(ring, ring[0]) // close

	if selfIntersects(ring) {
		return nil, fmt.Errorf("venue config: region %q boundary self-intersects", regionID)
	}
	return ring, nil
}

// selfIntersects checks every non-adjacent segment pair of a closed ring for
// a proper crossing.
func selfIntersects(ring orb.Ring) bool {
	n := len(ring) - 1 // segment count
	for i := 0; i < n; i++ {
		for j := i + 2; j < n; j++ {
			// Skip the wrap-around adjacency between the last and first segment.
			if i == 0 && j == n-1 {
				continue
			}
			if segmentsCross(ring[i], ring[i+1], ring[j], ring[j+1]) {
				return true
			}
		}
	}
	return false
}

// segmentsCross reports a proper intersection between segments ab and cd.
func segmentsCross(a, b, c, d orb.Point) bool {
	o1 := orientation(a, b, c)
	o2 := orientation(a, b, d)
	o3 := orientation(c, d, a)
	o4 := orientation(c, d, b)
	return o1*o2 < 0 && o3*o4 < 0
}

// orientation returns >0 if p→q→r turns counter-clockwise, <0 clockwise,
// 0 collinear.
func orientation(p, q, r orb.Point) float64 {
	return (q.X()-p.X())*(r.Y()-p.Y()) - (q.Y()-p.Y())*(r.X()-p.X())
}
