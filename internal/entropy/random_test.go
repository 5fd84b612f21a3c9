package entropy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeededReproducible(t *testing.T) {
	a := NewSeeded(17)
	b := NewSeeded(17)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
		assert.Equal(t, a.Intn(50), b.Intn(50))
	}
}

func TestSeededRangeBounds(t *testing.T) {
	src := NewSeeded(23)
	for i := 0; i < 500; i++ {
		v := src.Range(10, 20)
		assert.GreaterOrEqual(t, v, 10.0)
		assert.Less(t, v, 20.0)
	}
}

func TestSystemSourceBounds(t *testing.T) {
	src := NewSystem()
	for i := 0; i < 100; i++ {
		f := src.Float64()
		assert.GreaterOrEqual(t, f, 0.0)
		assert.Less(t, f, 1.0)

		n := src.Intn(8)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 8)
	}
}
