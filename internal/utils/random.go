package utils

import (
	"hash/fnv"
	"math/rand/v2"
	"sort"

	"github.com/flexprice/saaskpi/internal/types"
)

// Random is an explicitly seeded source of randomness. It is never shared
// between goroutines: per-entity work derives its own stream with Stream.
type Random struct {
	rng  *rand.Rand
	seed uint64
}

// NewRandom returns the root stream of a run seed.
func NewRandom(seed uint64) *Random {
	return newStream(seed, 0)
}

func newStream(seed, stream uint64) *Random {
	return &Random{
		rng:  rand.New(rand.NewPCG(seed, splitmix64(stream))),
		seed: seed,
	}
}

// Stream derives the sub-stream of entity index. The result only depends on
// the run seed and the index, never on draws already taken from r.
func (r *Random) Stream(index int) *Random {
	return newStream(r.seed, uint64(index)+1)
}

// Named derives a sub-stream for a stage-wide draw sequence.
func (r *Random) Named(name string) *Random {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return newStream(r.seed, h.Sum64()|1<<63)
}

// Float64 returns a value in [0, 1).
func (r *Random) Float64() float64 {
	return r.rng.Float64()
}

// IntRange returns a uniform integer in [lo, hi].
func (r *Random) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.rng.IntN(hi-lo+1)
}

// IntBetween samples an inclusive configured range.
func (r *Random) IntBetween(rg types.IntRange) int {
	return r.IntRange(rg.Min, rg.Max)
}

// Uniform returns a value in [lo, hi).
func (r *Random) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*r.rng.Float64()
}

// UniformBetween samples a configured float range.
func (r *Random) UniformBetween(rg types.FloatRange) float64 {
	return r.Uniform(rg.Min, rg.Max)
}

// Bernoulli returns true with probability p.
func (r *Random) Bernoulli(p float64) bool {
	return r.rng.Float64() < p
}

// PickIndex draws an index according to probs, which must sum to one.
func (r *Random) PickIndex(probs []float64) int {
	u := r.rng.Float64()
	acc := 0.0
	for i, p := range probs {
		acc += p
		if u < acc {
			return i
		}
	}
	// floating point shortfall: fall back to the last label with weight
	for i := len(probs) - 1; i >= 0; i-- {
		if probs[i] > 0 {
			return i
		}
	}
	return len(probs) - 1
}

// Pick draws a label from a validated mix.
func (r *Random) Pick(m types.Mix) string {
	return m[r.PickIndex(m.Probabilities())].Label
}

// PickCumulative draws an index from a precomputed, non-decreasing cumulative
// weight table whose last element is the total weight.
func (r *Random) PickCumulative(cumulative []float64) int {
	total := cumulative[len(cumulative)-1]
	u := r.rng.Float64() * total
	i := sort.SearchFloat64s(cumulative, u)
	for i < len(cumulative)-1 && cumulative[i] <= u {
		i++
	}
	return i
}

// Weights returns n positive random weights summing to one.
func (r *Random) Weights(n int) []float64 {
	w := make([]float64, n)
	total := 0.0
	for i := range w {
		// (0, 1] keeps every weight strictly positive
		w[i] = 1 - r.rng.Float64()
		total += w[i]
	}
	for i := range w {
		w[i] /= total
	}
	return w
}

// Sample returns k distinct indices drawn from [0, n) in draw order.
func (r *Random) Sample(n, k int) []int {
	if k > n {
		k = n
	}
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + r.rng.IntN(n-i)
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm[:k]
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
