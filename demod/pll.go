// Package demod implements the second-order PLL FM discriminator of
// spec.md §4.4, ported from original_source/src/input.c's input_fm_demod
// (the "#if 1" branch only — see DESIGN.md for why the cross-product
// alternative is excluded).
package demod

import (
	"math"
	"math/cmplx"

	"hz.tools/fmradio"
)

const tau = 2 * math.Pi

// loop constants, fixed at compile time for the canonical intermediate
// rate (spec.md §4.4).
var (
	damping = math.Sqrt2 / 2
	loopBW  = tau / 20
	alpha   = 4 * damping * loopBW / (1 + 2*damping*loopBW + loopBW*loopBW)
	beta    = 4 * loopBW * loopBW / (1 + 2*damping*loopBW + loopBW*loopBW)
	// fmax = 2*pi*90000 / (Fi/2), spec.md §3.
	fmax = tau * fmradio.MaxDeviationHz / (fmradio.SampleRate / 2)
)

// PLL is the second-order phase-locked-loop FM discriminator. Its state,
// (phase, freq), is normalized every step: phase wraps into [-2pi, 2pi] and
// freq clamps into [-fmax, +fmax] (spec.md §3).
type PLL struct {
	phase float64
	freq  float64
}

// NewPLL returns a PLL with zeroed phase and frequency.
func NewPLL() *PLL {
	return &PLL{}
}

// Reset zeroes the loop state, per input_reset's
// "st->fm_demod_phase = 0; st->fm_demod_freq = 0;".
func (p *PLL) Reset() {
	p.phase = 0
	p.freq = 0
}

// Step runs one IQ sample through the discriminator and returns the
// demodulated output y = freq / (pi/2) — a fraction of pi/2 radians per
// sample, computed from the *previous* freq state before this step's
// update (spec.md §4.4 step 1), matching the original's
// "y = st->fm_demod_freq / (M_PI / 2);" which reads freq before updating it.
func (p *PLL) Step(x complex128) float64 {
	y := p.freq / (math.Pi / 2)

	errv := cmplx.Phase(x) - p.phase
	if errv > math.Pi {
		errv -= tau
	}
	if errv < -math.Pi {
		errv += tau
	}

	p.freq += beta * errv
	p.phase += p.freq + alpha*errv

	for p.phase > tau {
		p.phase -= tau
	}
	for p.phase < -tau {
		p.phase += tau
	}

	if p.freq > fmax {
		p.freq = fmax
	} else if p.freq < -fmax {
		p.freq = -fmax
	}

	return y
}

// legacyCrossProductDemod is the simpler, non-PLL discriminator from the
// "#else" branch of input_fm_demod, explicitly excluded from the
// specification (spec.md §9's second open question). It is kept,
// unexercised by the pipeline, purely as a documented reference: it is
// also almost exactly what the teacher's original demodulator.go computed
// (cmplx.Phase(phasor * cmplx.Conj(lastPhasor))) before this module
// replaced that call site with PLL.Step.
func legacyCrossProductDemod(prev, cur complex128) float64 {
	return 0.5 * imag(cur*cmplx.Conj(prev))
}
