package dsp

import "hz.tools/fmradio/internal/ring"

// IIRTaps is the fixed-point tap table for one direct-form-I biquad cascade
// parameterization, reproduced verbatim from original_source/src/fm_audio.c.
type IIRTaps struct {
	Gain  float32
	ATaps []float32 // feedback (y-history), length npoles
	BTaps []float32 // feedforward (x-history), length npoles+1
}

// IIR is the direct-form-I biquad cascade of spec.md §4.2:
//
//	x' = x / gain
//	y  = sum_{i=0..npoles}   x_{-npoles+i} * b[i]
//	   + sum_{i=0..npoles-1} y_{-npoles+i} * a[i]
//
// x- and y-history are kept in separate compacting ring windows with the
// identical invariant as the halfband's (spec.md §3).
type IIR struct {
	npoles  int
	gain    float32
	ataps   []float32
	btaps   []float32
	xwindow *ring.Window[float32]
	ywindow *ring.Window[float32]
}

// NewIIR builds a cascade from a fixed tap table.
func NewIIR(taps IIRTaps) *IIR {
	npoles := len(taps.ATaps)
	return &IIR{
		npoles:  npoles,
		gain:    taps.Gain,
		ataps:   append([]float32(nil), taps.ATaps...),
		btaps:   append([]float32(nil), taps.BTaps...),
		xwindow: ring.NewWindow[float32](windowSize, npoles),
		ywindow: ring.NewWindow[float32](windowSize, npoles),
	}
}

// Reset zeroes the filter history and rewinds both windows, per
// iir_f_reset in the original.
func (f *IIR) Reset() {
	f.xwindow.Clear(f.npoles)
	f.ywindow.Clear(f.npoles)
	f.xwindow.Reset()
	f.ywindow.Reset()
}

// Execute runs one sample through the recurrence and returns the filtered
// output.
func (f *IIR) Execute(x float32) float32 {
	at := f.xwindow.Push(x / f.gain)
	// Reserve the y slot in lockstep with x's push, so both windows compact
	// together at the wrap boundary instead of one call apart (matching
	// original_source/src/iir_f.c:40-49, which compacts both windows before
	// computing). The placeholder is overwritten below once y is known.
	f.ywindow.Push(0)
	xs := f.xwindow.Slice()
	ys := f.ywindow.Slice()

	var y float32
	for i := 0; i <= f.npoles; i++ {
		y += xs[at-f.npoles+i] * f.btaps[i]
	}
	for i := 0; i < f.npoles; i++ {
		y += ys[at-f.npoles+i] * f.ataps[i]
	}

	ys[at] = y
	return y
}
