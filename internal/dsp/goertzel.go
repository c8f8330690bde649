package dsp

import "math"

// Goertzel is the single-bin tone-power estimator of spec.md §4.3, ported
// from original_source/src/goertzel.c.
type Goertzel struct {
	q1, q2, coeff float32
	n, N          int
}

// NewGoertzel initializes a Goertzel detector for the given tone frequency,
// sample rate, and block size N: k = round(N*freq/sampleRate),
// coeff = 2*cos(2*pi*k/N).
func NewGoertzel(freq, sampleRate float64, N int) *Goertzel {
	k := math.Floor(0.5 + float64(N)*freq/sampleRate)
	return &Goertzel{
		coeff: float32(2 * math.Cos(2*math.Pi*k/float64(N))),
		N:     N,
	}
}

// Execute feeds one sample into the recursion. When n reaches N it returns
// the accumulated power and true, and resets (n, q1, q2) to zero; otherwise
// it returns (0, false).
func (g *Goertzel) Execute(x float32) (float32, bool) {
	q0 := g.coeff*g.q1 - g.q2 + x
	g.q2 = g.q1
	g.q1 = q0
	g.n++

	if g.n == g.N {
		power := g.q1*g.q1 + g.q2*g.q2 - g.coeff*g.q1*g.q2
		g.q1, g.q2, g.n = 0, 0, 0
		return power, true
	}
	return 0, false
}
