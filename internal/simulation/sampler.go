package simulation

import (
	"math/rand"
)

// Sampler is the only source of randomness the generator and engine see.
type Sampler interface {
	// Chance reports true with probability p.
	Chance(p float64) bool
	// Pick returns an index drawn with probability proportional to weights[i].
	Pick(weights []float64) int
	// Intn returns a uniform integer in [0, n).
	Intn(n int) int
}

type RandSampler struct {
	rng *rand.Rand
}

func NewRandSampler(seed int64) *RandSampler {
	return &RandSampler{rng: rand.New(rand.NewSource(seed))}
}

// NewLoanSampler derives an independent stream for one loan so that loans
// can be simulated in any order and still reproduce.
func NewLoanSampler(seed int64, index int) *RandSampler {
	return NewRandSampler(int64(splitmix64(uint64(seed) ^ splitmix64(uint64(index)))))
}

func (s *RandSampler) Chance(p float64) bool {
	return s.rng.Float64() < p
}

func (s *RandSampler) Pick(weights []float64) int {
	var total float64
	for _, w := range weights {
		total += w
	}
	r := s.rng.Float64() * total
	var cum float64
	for i, w := range weights {
		cum += w
		if r < cum {
			return i
		}
	}
	return len(weights) - 1
}

func (s *RandSampler) Intn(n int) int {
	return s.rng.Intn(n)
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
