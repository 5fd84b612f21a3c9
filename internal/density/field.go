// Package density models ambient crowd density as a smooth noise field over
// the venue plane. The field perturbs each phase's density hint so crowd
// pressure varies organically across space and time instead of jumping at
// phase boundaries.
// See design doc Section 8.
package density

import (
	opensimplex "github.com/ojrac/opensimplex-go"
	"github.com/paulmach/orb"
)

// Spatial and temporal noise frequencies, tuned so adjacent concourses can
// sit in different pockets of crowding within a single phase.
const (
	spatialFreq  = 0.035
	temporalFreq = 0.004
)

// Field is an immutable noise field. Safe for concurrent reads.
type Field struct {
	noise opensimplex.Noise
}

// New creates a density field from a seed. The same seed reproduces the
// same field.
func New(seed int64) *Field {
	return &Field{noise: opensimplex.NewNormalized(seed)}
}

// At returns the local crowd density in [0, 1] around the phase hint: the
// hint contributes 70%, local noise the remaining 30%.
func (f *Field) At(p orb.Point, tick uint64, phaseHint float64) float64 {
	n := f.noise.Eval3(p.X()*spatialFreq, p.Y()*spatialFreq, float64(tick)*temporalFreq)
	d := phaseHint*0.7 + n*0.3
	if d < 0 {
		return 0
	}
	if d > 1 {
		return 1
	}
	return d
}
