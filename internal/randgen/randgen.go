// Package randgen generates reproducible pseudo-random test data.
package randgen

import (
	"encoding/binary"
	"math"
	"math/rand/v2"
)

// Distribution selects what kind of numbers a Random produces.
type Distribution int

const (
	UniformInt Distribution = iota
	UniformReal
	Normal
	Shuffle
)

// DefaultSeed gives the same sequence on every run.
const DefaultSeed = 10

// Random produces numbers from range [min, max] with the given distribution.
type Random struct {
	min, max     int
	distribution Distribution
	mean, stdev  float64
	rnd          *rand.Rand
}

// New creates a generator seeded with DefaultSeed. Mean and standard deviation are used only by Normal.
func New(minValue, maxValue int, distribution Distribution, mean, stdev float64) *Random {
	r := &Random{
		min:          minValue,
		max:          maxValue,
		distribution: distribution,
		mean:         mean,
		stdev:        stdev,
	}
	r.SetSeed(DefaultSeed)
	return r
}

// NewUniform is New with UniformInt distribution.
func NewUniform(minValue, maxValue int) *Random {
	return New(minValue, maxValue, UniformInt, 50, 20)
}

// SetSeed restarts the sequence from the given seed.
func (r *Random) SetSeed(seed uint64) {
	var s [32]byte
	binary.BigEndian.PutUint64(s[:], seed)
	r.rnd = rand.New(rand.NewChaCha8(s))
}

// Int returns a number in [min, max]. Normal numbers out of the range are drawn again. Returns 0 for UniformReal and
// Shuffle generators.
func (r *Random) Int() int {
	switch r.distribution {
	case UniformInt:
		return r.min + r.rnd.IntN(r.max-r.min+1)
	case Normal:
		for {
			n := int(math.Round(r.rnd.NormFloat64()*r.stdev + r.mean))
			if n >= r.min && n <= r.max {
				return n
			}
		}
	}
	return 0
}

// Real returns a number in [min, max) truncated to two decimals.
func (r *Random) Real() float64 {
	v := float64(r.min) + r.rnd.Float64()*float64(r.max-r.min)
	return math.Floor(v*100) / 100
}

// Permutation returns every number of [min, max] once, in random order.
func (r *Random) Permutation() []int {
	res := make([]int, 0, r.max-r.min+1)
	for i := r.min; i <= r.max; i++ {
		res = append(res, i)
	}
	r.rnd.Shuffle(len(res), func(i, j int) { res[i], res[j] = res[j], res[i] })
	return res
}

// String returns a string of given length made of Int() values as bytes. Use range 'a'..'z' for lowercase words.
func (r *Random) String(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = byte(r.Int())
	}
	return string(b)
}
