package random

import "github.com/myrjola/avalanchemystery/internal/errors"

// ErrNoWeights is returned when a weighted choice has no positive total weight.
var ErrNoWeights = errors.NewSentinel("no positive weights")

// Weighted is a label with a relative weight.
type Weighted[T any] struct {
	Label  T
	Weight float64
}

// Choice draws one label from an ordered list of weighted labels. A single uniform sample r in [0, total) is taken
// and the first label whose cumulative weight exceeds r wins. Order therefore matters only for reproducibility with
// a seeded source, never for the resulting distribution.
func Choice[T any](src Source, options []Weighted[T]) (T, error) {
	var (
		zero  T
		total float64
	)
	for _, o := range options {
		if o.Weight > 0 {
			total += o.Weight
		}
	}
	if total <= 0 {
		return zero, ErrNoWeights
	}

	r := src.Float64() * total
	var cumulative float64
	for _, o := range options {
		if o.Weight <= 0 {
			continue
		}
		cumulative += o.Weight
		if r < cumulative {
			return o.Label, nil
		}
	}

	// Floating point rounding can leave r == total; the last positive option owns that edge.
	for i := len(options) - 1; i >= 0; i-- {
		if options[i].Weight > 0 {
			return options[i].Label, nil
		}
	}
	return zero, ErrNoWeights
}

// Pick returns a uniformly chosen element of items. ok is false for an empty slice.
func Pick[T any](src Source, items []T) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	return items[src.IntN(len(items))], true
}
