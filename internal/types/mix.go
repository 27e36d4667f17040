package types

import (
	"fmt"

	ierr "github.com/flexprice/saaskpi/internal/errors"
)

// WeightedLabel is one entry of a categorical mix.
type WeightedLabel struct {
	Label  string  `mapstructure:"label" json:"label" validate:"required"`
	Weight float64 `mapstructure:"weight" json:"weight" validate:"gte=0"`
}

// Mix is an ordered categorical distribution. Weights need not sum to one;
// they are normalized before sampling. Order is significant for reproducible
// sampling, which is why mixes are lists rather than maps.
type Mix []WeightedLabel

// Validate rejects empty mixes, duplicate or blank labels, negative weights and
// mixes whose weights do not sum to a positive number.
func (m Mix) Validate(name string) error {
	if len(m) == 0 {
		return ierr.NewErrorf("%s mix is empty", name).
			WithHintf("Configure at least one label for %s", name).
			Mark(ierr.ErrValidation)
	}

	seen := make(map[string]struct{}, len(m))
	total := 0.0
	for _, wl := range m {
		if wl.Label == "" {
			return ierr.NewErrorf("%s mix has a blank label", name).
				Mark(ierr.ErrValidation)
		}
		if _, ok := seen[wl.Label]; ok {
			return ierr.NewErrorf("%s mix lists %q twice", name, wl.Label).
				Mark(ierr.ErrValidation)
		}
		seen[wl.Label] = struct{}{}
		if wl.Weight < 0 {
			return ierr.NewErrorf("%s mix has negative weight for %q", name, wl.Label).
				Mark(ierr.ErrValidation)
		}
		total += wl.Weight
	}

	if total <= 0 {
		return ierr.NewErrorf("%s mix weights sum to %v", name, total).
			WithHint("Mix weights must sum to a positive number").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Labels returns the labels in configured order.
func (m Mix) Labels() []string {
	out := make([]string, len(m))
	for i, wl := range m {
		out[i] = wl.Label
	}
	return out
}

// Probabilities returns the normalized weights in configured order.
func (m Mix) Probabilities() []float64 {
	total := 0.0
	for _, wl := range m {
		total += wl.Weight
	}
	out := make([]float64, len(m))
	for i, wl := range m {
		out[i] = wl.Weight / total
	}
	return out
}

// Contains reports whether label is part of the mix.
func (m Mix) Contains(label string) bool {
	for _, wl := range m {
		if wl.Label == label {
			return true
		}
	}
	return false
}

// IntRange is an inclusive integer range.
type IntRange struct {
	Min int `mapstructure:"min" json:"min"`
	Max int `mapstructure:"max" json:"max"`
}

func (r IntRange) Validate(name string) error {
	if r.Min > r.Max {
		return ierr.NewErrorf("%s range is inverted: min %d > max %d", name, r.Min, r.Max).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (r IntRange) String() string {
	return fmt.Sprintf("%d..%d", r.Min, r.Max)
}

// FloatRange is a closed range of reals.
type FloatRange struct {
	Min float64 `mapstructure:"min" json:"min"`
	Max float64 `mapstructure:"max" json:"max"`
}

func (r FloatRange) Validate(name string) error {
	if r.Min > r.Max {
		return ierr.NewErrorf("%s range is inverted: min %v > max %v", name, r.Min, r.Max).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ValidateProbability checks that p lies in [0, 1].
func ValidateProbability(name string, p float64) error {
	if p < 0 || p > 1 {
		return ierr.NewErrorf("%s must be within [0, 1], got %v", name, p).
			Mark(ierr.ErrValidation)
	}
	return nil
}
