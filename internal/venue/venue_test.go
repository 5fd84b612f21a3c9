package venue

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/talgya/crowd-sentinel/internal/entropy"
)

func defaultLayout(t *testing.T) *Layout {
	t.Helper()
	layout, _, err := Load("")
	require.NoError(t, err)
	return layout
}

func TestDefaultLayoutLoads(t *testing.T) {
	layout, phases, err := Load("")
	require.NoError(t, err)

	assert.Len(t, layout.Regions, 7)
	assert.Len(t, phases, 8)
	assert.Equal(t, "PRE_GAME", phases[0].Name)
	assert.Equal(t, "POST_GAME", phases[len(phases)-1].Name)
	assert.NotEmpty(t, layout.Seating)
	assert.NotEmpty(t, layout.Items)
}

func TestRegionPriorityOrder(t *testing.T) {
	layout := defaultLayout(t)

	ids := make([]string, 0, len(layout.Regions))
	for _, r := range layout.Regions {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{
		"bowl", "field", "vip-north", "vip-south", "tunnel",
		"concourse-east", "concourse-west",
	}, ids)
}

func TestRegionAt(t *testing.T) {
	layout := defaultLayout(t)

	cases := []struct {
		name string
		p    orb.Point
		want string
	}{
		{"mid-field", orb.Point{50, 50}, "field"},
		{"north stand", orb.Point{50, 25}, "bowl"},
		{"south stand", orb.Point{50, 75}, "bowl"},
		{"east band", orb.Point{75, 50}, "bowl"},
		{"west tunnel", orb.Point{20, 50}, "tunnel"},
		{"vip north box", orb.Point{50, 11}, "vip-north"},
		{"vip south box", orb.Point{50, 88}, "vip-south"},
		{"east concourse", orb.Point{95, 50}, "concourse-east"},
		{"west concourse", orb.Point{5, 50}, "concourse-west"},
		{"beyond the gates", orb.Point{50, 98}, "outside"},
		{"corner void", orb.Point{2, 2}, "outside"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, layout.RegionAt(tc.p).ID)
		})
	}
}

func TestOutsideRegionKind(t *testing.T) {
	layout := defaultLayout(t)
	r := layout.RegionAt(orb.Point{2, 2})
	assert.Equal(t, KindOutside, r.Kind)
	assert.Same(t, layout.Outside(), r)
}

func TestExclusionZone(t *testing.T) {
	layout := defaultLayout(t)

	assert.True(t, layout.InExclusionZone(orb.Point{50, 50}))
	assert.True(t, layout.InExclusionZone(orb.Point{33, 39}))
	assert.False(t, layout.InExclusionZone(orb.Point{50, 25}))
	assert.False(t, layout.InExclusionZone(orb.Point{20, 50})) // tunnel
	assert.False(t, layout.InExclusionZone(orb.Point{95, 50}))
}

func TestSeatingPointsAreLegal(t *testing.T) {
	layout := defaultLayout(t)
	src := entropy.NewSeeded(5)

	for i := 0; i < 500; i++ {
		p := layout.RandomSeatingPoint(src)
		require.False(t, layout.InExclusionZone(p), "sample %d landed on the field: %v", i, p)
		require.Equal(t, "bowl", layout.RegionAt(p).ID, "sample %d: %v", i, p)
	}
}

func TestConcoursePointsLandInConcourses(t *testing.T) {
	layout := defaultLayout(t)
	src := entropy.NewSeeded(6)

	for i := 0; i < 200; i++ {
		p := layout.RandomConcoursePoint(src)
		kind := layout.RegionAt(p).Kind
		require.Equalf(t, KindConcourse, kind, "sample %d: %v resolved to %s", i, p, kind)
	}
}

func TestRegionLookupById(t *testing.T) {
	layout := defaultLayout(t)
	assert.Equal(t, KindCritical, layout.Region("field").Kind)
	assert.Nil(t, layout.Region("moon-base"))
}

func writeConfig(t *testing.T, mutate func(*Config)) (*Layout, []PhaseSpec, error) {
	t.Helper()
	cfg := defaultConfig()
	mutate(&cfg)
	raw, err := yaml.Marshal(cfg)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "venue.yaml")
	require.NoError(t, os.WriteFile(path, raw, 0644))
	return Load(path)
}

func TestLoadRejectsBadGeometry(t *testing.T) {
	t.Run("too few vertices", func(t *testing.T) {
		_, _, err := writeConfig(t, func(c *Config) {
			c.Regions[1].Vertices = [][2]float64{{0, 0}, {1, 1}}
		})
		assert.ErrorContains(t, err, "at least 3 vertices")
	})

	t.Run("too many vertices", func(t *testing.T) {
		_, _, err := writeConfig(t, func(c *Config) {
			verts := make([][2]float64, 9)
			for i := range verts {
				verts[i] = [2]float64{float64(i), float64(i * i)}
			}
			c.Regions[1].Vertices = verts
		})
		assert.ErrorContains(t, err, "exceeds 8 vertices")
	})

	t.Run("self-intersecting bowtie", func(t *testing.T) {
		_, _, err := writeConfig(t, func(c *Config) {
			c.Regions[1].Vertices = [][2]float64{{0, 0}, {10, 10}, {10, 0}, {0, 10}}
		})
		assert.ErrorContains(t, err, "self-intersects")
	})

	t.Run("duplicate region id", func(t *testing.T) {
		_, _, err := writeConfig(t, func(c *Config) {
			c.Regions[1].ID = c.Regions[0].ID
		})
		assert.ErrorContains(t, err, "duplicate region id")
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, _, err := writeConfig(t, func(c *Config) {
			c.Regions[1].Kind = "lava"
		})
		assert.ErrorContains(t, err, "unknown kind")
	})

	t.Run("no phases", func(t *testing.T) {
		_, _, err := writeConfig(t, func(c *Config) {
			c.Phases = nil
		})
		assert.ErrorContains(t, err, "no phases")
	})
}

func TestLoadAcceptsExplicitlyClosedRing(t *testing.T) {
	layout, _, err := writeConfig(t, func(c *Config) {
		// Re-state the field with a closing vertex; the loader normalizes.
		c.Regions[1].Vertices = [][2]float64{
			{32, 38}, {68, 38}, {68, 62}, {32, 62}, {32, 38},
		}
	})
	require.NoError(t, err)
	assert.Equal(t, "field", layout.RegionAt(orb.Point{50, 50}).ID)
}

func TestLoadMissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
