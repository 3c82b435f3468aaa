package breeds

import "math/rand"

// FloatSource yields uniform floats in [0, 1). *rand.Rand satisfies it; tests
// substitute fixed sequences to pin down draw outcomes.
type FloatSource interface {
	Float64() float64
}

// Sampler selects breeds with probability proportional to their spawn weight.
// It has no mutable state of its own; concurrent use is safe as long as the
// random source is not shared across goroutines.
type Sampler struct {
	cat *Catalog
	rng FloatSource
}

// NewSampler creates a sampler over the given catalog using the given random
// source.
func NewSampler(cat *Catalog, rng FloatSource) *Sampler {
	return &Sampler{cat: cat, rng: rng}
}

// NewSeededSampler creates a sampler with a deterministic source, for replays
// and tests.
func NewSeededSampler(cat *Catalog, seed int64) *Sampler {
	return NewSampler(cat, rand.New(rand.NewSource(seed)))
}

// Sample draws one breed. It walks the catalog in order, consuming each
// breed's weight from a uniform draw in [0, totalWeight). If floating-point
// drift leaves the draw unconsumed after the walk, the first catalog entry is
// returned rather than failing.
func (s *Sampler) Sample() Breed {
	r := s.rng.Float64() * s.cat.totalWeight

	for _, b := range s.cat.list {
		if r < b.Weight {
			return b
		}
		r -= b.Weight
	}

	return s.cat.list[0]
}
