package utils

import (
	"testing"

	"github.com/flexprice/saaskpi/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draws(r *Random, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = r.Float64()
	}
	return out
}

func TestRandomDeterminism(t *testing.T) {
	a := NewRandom(42)
	b := NewRandom(42)
	assert.Equal(t, draws(a, 20), draws(b, 20))

	c := NewRandom(43)
	assert.NotEqual(t, draws(NewRandom(42), 20), draws(c, 20))
}

func TestRandomStreamsIndependentOfParentDraws(t *testing.T) {
	root := NewRandom(7)
	first := draws(root.Stream(3), 10)

	other := NewRandom(7)
	_ = draws(other, 100)
	assert.Equal(t, first, draws(other.Stream(3), 10))

	assert.NotEqual(t, first, draws(root.Stream(4), 10))
	assert.NotEqual(t, draws(root.Named("refunds"), 5), draws(root.Named("other"), 5))
}

func TestRandomRanges(t *testing.T) {
	r := NewRandom(1)
	for i := 0; i < 1000; i++ {
		v := r.IntRange(3, 18)
		require.GreaterOrEqual(t, v, 3)
		require.LessOrEqual(t, v, 18)

		f := r.Uniform(0.05, 0.20)
		require.GreaterOrEqual(t, f, 0.05)
		require.Less(t, f, 0.20)
	}
	assert.Equal(t, 30, r.IntRange(30, 30))
}

func TestRandomPick(t *testing.T) {
	r := NewRandom(99)
	mix := types.Mix{{Label: "never", Weight: 0}, {Label: "a", Weight: 1}, {Label: "b", Weight: 3}}
	counts := map[string]int{}
	for i := 0; i < 4000; i++ {
		counts[r.Pick(mix)]++
	}
	assert.Zero(t, counts["never"])
	assert.InDelta(t, 0.25, float64(counts["a"])/4000, 0.05)
	assert.InDelta(t, 0.75, float64(counts["b"])/4000, 0.05)
}

func TestRandomPickCumulative(t *testing.T) {
	r := NewRandom(5)
	cumulative := []float64{1, 1, 3}
	counts := make([]int, 3)
	for i := 0; i < 3000; i++ {
		counts[r.PickCumulative(cumulative)]++
	}
	assert.Zero(t, counts[1])
	assert.InDelta(t, 1000, counts[0], 150)
}

func TestRandomWeightsAndSample(t *testing.T) {
	r := NewRandom(11)
	w := r.Weights(3)
	require.Len(t, w, 3)
	sum := 0.0
	for _, x := range w {
		assert.Greater(t, x, 0.0)
		sum += x
	}
	assert.InDelta(t, 1.0, sum, 1e-9)

	idx := r.Sample(10, 4)
	require.Len(t, idx, 4)
	seen := map[int]bool{}
	for _, i := range idx {
		assert.False(t, seen[i])
		assert.True(t, i >= 0 && i < 10)
		seen[i] = true
	}
	assert.Len(t, r.Sample(3, 5), 3)
}
