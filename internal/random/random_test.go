package random_test

import (
	"testing"

	"github.com/myrjola/avalanchemystery/internal/random"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLetters(t *testing.T) {
	tests := []struct {
		name   string
		length uint
	}{
		{name: "zero length", length: 0},
		{name: "32 length", length: 32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := random.Letters(tt.length)
			require.NoError(t, err)
			require.Len(t, got, int(tt.length))
			for _, r := range got {
				assert.True(t, (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'), "unexpected rune %q", r)
			}
		})
	}
}

// fixedSource always returns the same draw.
type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }
func (f fixedSource) IntN(n int) int   { return int(float64(f) * float64(n)) }

func TestChoice(t *testing.T) {
	options := []random.Weighted[string]{
		{Label: "common", Weight: 60},
		{Label: "uncommon", Weight: 25},
		{Label: "rare", Weight: 12},
		{Label: "legendary", Weight: 3},
	}
	tests := []struct {
		name string
		draw float64
		want string
	}{
		{name: "start of range", draw: 0, want: "common"},
		{name: "just below first threshold", draw: 0.599, want: "common"},
		{name: "first threshold", draw: 0.6, want: "uncommon"},
		{name: "rare band", draw: 0.9, want: "rare"},
		{name: "top of range", draw: 0.999, want: "legendary"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := random.Choice(fixedSource(tt.draw), options)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChoiceSkipsZeroWeights(t *testing.T) {
	got, err := random.Choice(fixedSource(0), []random.Weighted[int]{{Label: 1, Weight: 0}, {Label: 2, Weight: 5}})
	require.NoError(t, err)
	assert.Equal(t, 2, got)

	_, err = random.Choice(fixedSource(0), []random.Weighted[int]{{Label: 1, Weight: 0}})
	require.ErrorIs(t, err, random.ErrNoWeights)
}

func TestChoiceConverges(t *testing.T) {
	src := random.NewSeededSource(42)
	options := []random.Weighted[string]{
		{Label: "a", Weight: 60},
		{Label: "b", Weight: 25},
		{Label: "c", Weight: 12},
		{Label: "d", Weight: 3},
	}
	const draws = 100_000
	counts := map[string]int{}
	for range draws {
		label, err := random.Choice(src, options)
		require.NoError(t, err)
		counts[label]++
	}
	for _, o := range options {
		assert.InDelta(t, o.Weight/100, float64(counts[o.Label])/draws, 0.01, o.Label)
	}
}

func TestPick(t *testing.T) {
	_, ok := random.Pick[int](random.NewSource(), nil)
	require.False(t, ok)

	got, ok := random.Pick(fixedSource(0.5), []string{"a", "b", "c", "d"})
	require.True(t, ok)
	assert.Equal(t, "c", got)
}
