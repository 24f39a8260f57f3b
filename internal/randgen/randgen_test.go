package randgen

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandom(t *testing.T) {
	t.Run("uniform int; should stay in range and repeat with the same seed", func(t *testing.T) {
		r1 := NewUniform(1000, 9999)
		r2 := NewUniform(1000, 9999)
		for i := 0; i < 1000; i++ {
			n := r1.Int()
			assert.GreaterOrEqual(t, n, 1000)
			assert.LessOrEqual(t, n, 9999)
			assert.Equal(t, n, r2.Int())
		}
	})

	t.Run("normal; should stay in range", func(t *testing.T) {
		r := New(0, 100, Normal, 50, 20)
		for i := 0; i < 1000; i++ {
			n := r.Int()
			assert.GreaterOrEqual(t, n, 0)
			assert.LessOrEqual(t, n, 100)
		}
	})

	t.Run("real; should have two decimals at most", func(t *testing.T) {
		r := New(10, 20, UniformReal, 0, 0)
		for i := 0; i < 100; i++ {
			v := r.Real()
			assert.GreaterOrEqual(t, v, 10.0)
			assert.Less(t, v, 20.0)
			assert.InDelta(t, v*100, float64(int(v*100+0.5)), 1e-6)
		}
	})

	t.Run("permutation; should contain every number once", func(t *testing.T) {
		r := New(5, 24, Shuffle, 0, 0)
		p := r.Permutation()
		assert.Len(t, p, 20)
		sorted := slices.Sorted(slices.Values(p))
		for i, n := range sorted {
			assert.Equal(t, 5+i, n)
		}
	})

	t.Run("string; should be lowercase letters", func(t *testing.T) {
		r := NewUniform('a', 'z')
		s := r.String(12)
		assert.Len(t, s, 12)
		for _, c := range s {
			assert.True(t, c >= 'a' && c <= 'z', "char %q", c)
		}
	})

	t.Run("reseed; should restart the sequence", func(t *testing.T) {
		r := NewUniform(0, 1<<20)
		first := []int{r.Int(), r.Int(), r.Int()}
		r.SetSeed(DefaultSeed)
		assert.Equal(t, first, []int{r.Int(), r.Int(), r.Int()})
	})
}
