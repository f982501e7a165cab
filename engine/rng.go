package engine

import "math/rand"

// RNG is the engine's state.Random: math/rand seeded once per run, with a
// call counter that diagnostics report after every command.
type RNG struct {
	src *rand.Rand
	pos int64
}

// NewRNG creates a new deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	return &RNG{src: rand.New(rand.NewSource(seed))}
}

// Intn returns a random integer in [0, n). n <= 0 yields 0.
func (r *RNG) Intn(n int) int {
	r.pos++
	if n <= 0 {
		return 0
	}
	return r.src.Intn(n)
}

// Float64 returns a random float in [0, 1).
func (r *RNG) Float64() float64 {
	r.pos++
	return r.src.Float64()
}

// Shuffle performs a uniform Fisher-Yates permutation.
func (r *RNG) Shuffle(n int, swap func(i, j int)) {
	r.pos++
	r.src.Shuffle(n, swap)
}

// WeightedSelect returns an index chosen by weighted random selection.
// Zero weights are never chosen; if every weight is zero, index 0 is returned.
func (r *RNG) WeightedSelect(weights []int) int {
	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	r.pos++
	if total == 0 {
		return 0
	}
	roll := r.src.Intn(total)
	cumulative := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		cumulative += w
		if roll < cumulative {
			return i
		}
	}
	return len(weights) - 1
}

// Position returns the number of RNG calls made since creation.
func (r *RNG) Position() int64 {
	return r.pos
}
