package sim

import (
	"math"
	"math/rand"
	"time"
)

// Noise supplies the disturbance added to each period's spend.
type Noise interface {
	Sample() float64
}

// SignedNoise draws a magnitude floor(r*amplitude)+1 and an independent fair
// sign, so samples lie in [-amplitude, -1] ∪ [1, amplitude] and never hit 0.
type SignedNoise struct {
	amplitude int
	rng       *rand.Rand
}

// NewSignedNoise seeds from the clock when seed is 0. An amplitude <= 0
// produces no noise at all.
func NewSignedNoise(amplitude int, seed int64) *SignedNoise {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &SignedNoise{
		amplitude: amplitude,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

func (n *SignedNoise) Sample() float64 {
	if n.amplitude <= 0 {
		return 0
	}
	mag := math.Floor(n.rng.Float64()*float64(n.amplitude)) + 1
	if n.rng.Float64() > 0.5 {
		return mag
	}
	return -mag
}

// FixedNoise returns the same value every period.
type FixedNoise float64

func (f FixedNoise) Sample() float64 { return float64(f) }

// SequenceNoise replays values in order and wraps around.
type SequenceNoise struct {
	values []float64
	next   int
}

func NewSequenceNoise(values ...float64) *SequenceNoise {
	return &SequenceNoise{values: values}
}

func (s *SequenceNoise) Sample() float64 {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}
