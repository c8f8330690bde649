// Package dsp holds the bit-exact filter cores spec.md §4.1-§4.3 pins to
// specific recurrences: the halfband FIR, the direct-form-I IIR cascade, and
// the Goertzel tone-power estimator. Ported from original_source/src/fir_f.c,
// iir_f.c and goertzel.c; no suitable third-party DSP library reproduces these
// exact tap-table contracts (see DESIGN.md).
package dsp

import (
	"hz.tools/fmradio/internal/ring"
	"hz.tools/fmradio/iq"
)

// windowSize is the ring capacity for the FIR/IIR windows (spec.md §3: "a
// ring window of capacity W (W >= several hundred x ntaps)").
const windowSize = 1024

// HalfbandF32 is the real-valued halfband decimator of spec.md §4.1,
// operating on float32 pairs (used throughout the audio post-chain).
type HalfbandF32 struct {
	taps   []float32 // time-reversed at init, per fir_f_init
	ntaps  int
	window *ring.Window[float32]
}

// NewHalfbandF32 builds a halfband filter from a tap table holding the
// nonzero off-centre taps of one side, innermost first (the fixed nrsc5
// decim_taps table has 4). The filter spans 4*len(taps)-1 samples: the
// centre tap plus the listed taps at odd offsets on either side.
func NewHalfbandF32(taps []float32) *HalfbandF32 {
	ntaps := 4*len(taps) - 1
	rev := make([]float32, len(taps))
	for i := range taps {
		rev[i] = taps[len(taps)-1-i]
	}
	return &HalfbandF32{
		taps:   rev,
		ntaps:  ntaps,
		window: ring.NewWindow[float32](windowSize, ntaps-1),
	}
}

// Reset rewinds the filter to its initial (zeroed-history) state.
func (h *HalfbandF32) Reset() {
	h.window.Clear(h.ntaps - 1)
	h.window.Reset()
}

func dotHalfbandF32(a []float32, tapsRev []float32, ntaps int) float32 {
	var sum float32
	for i := 0; i < ntaps/2; i += 2 {
		sum += (a[i] + a[ntaps-1-i]) * tapsRev[i/2]
	}
	sum += a[ntaps/2]
	return sum / 2
}

// Execute consumes two input samples and produces one decimated output,
// per spec.md §4.1's execute_halfband(in[2]) -> out contract.
func (h *HalfbandF32) Execute(x0, x1 float32) float32 {
	h.window.Push(x0)
	idx := h.window.Idx()
	a := h.window.Slice()[idx-h.ntaps : idx]
	y := dotHalfbandF32(a, h.taps, h.ntaps)
	h.window.Push(x1)
	return y
}

// HalfbandIQ is the same halfband structure operating on interleaved
// complex-int16 pairs (spec.md §4.1's "interleaved integer-complex pairs"
// variant, used by the IQ decimation cascade). I and Q are filtered
// independently through the identical real-tap dot product, then rounded
// back to int16.
type HalfbandIQ struct {
	taps    []float32
	ntaps   int
	windowI *ring.Window[float32]
	windowQ *ring.Window[float32]
}

// NewHalfbandIQ builds a complex halfband filter from a (real) tap table,
// laid out as for NewHalfbandF32.
func NewHalfbandIQ(taps []float32) *HalfbandIQ {
	ntaps := 4*len(taps) - 1
	rev := make([]float32, len(taps))
	for i := range taps {
		rev[i] = taps[len(taps)-1-i]
	}
	return &HalfbandIQ{
		taps:    rev,
		ntaps:   ntaps,
		windowI: ring.NewWindow[float32](windowSize, ntaps-1),
		windowQ: ring.NewWindow[float32](windowSize, ntaps-1),
	}
}

// Reset rewinds both channels' filter state.
func (h *HalfbandIQ) Reset() {
	h.windowI.Clear(h.ntaps - 1)
	h.windowQ.Clear(h.ntaps - 1)
	h.windowI.Reset()
	h.windowQ.Reset()
}

// Execute consumes two interleaved IQ samples and produces one decimated
// IQ sample, per spec.md §4.5.
func (h *HalfbandIQ) Execute(x0, x1 iq.Sample) iq.Sample {
	h.windowI.Push(float32(x0.I))
	h.windowQ.Push(float32(x0.Q))
	idxI := h.windowI.Idx()
	idxQ := h.windowQ.Idx()
	yi := dotHalfbandF32(h.windowI.Slice()[idxI-h.ntaps:idxI], h.taps, h.ntaps)
	yq := dotHalfbandF32(h.windowQ.Slice()[idxQ-h.ntaps:idxQ], h.taps, h.ntaps)
	h.windowI.Push(float32(x1.I))
	h.windowQ.Push(float32(x1.Q))
	return iq.Sample{I: int16(yi), Q: int16(yq)}
}
