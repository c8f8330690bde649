package decimate

import (
	"math"
	"math/cmplx"

	"hz.tools/fmradio"
	"hz.tools/fmradio/iq"
)

// offsetTuner advances a unit-modulus complex phasor each sample to correct
// the frequency offset introduced by offset tuning (spec.md §4.5 step 3).
// It is refreshed to the base increment once per Fi samples to stop phase
// error from accumulating, per original_source/src/input.c's input_cb:
// "if (++st->phase_idx == (unsigned int)(SAMPLE_RATE * 2 / FREQ_OFFSET_FACTOR))".
type offsetTuner struct {
	increment complex128
	phase     complex128
	idx       int
	period    int
}

func newOffsetTuner() *offsetTuner {
	inc := cmplx.Exp(complex(0, tau*float64(fmradio.FreqOffset)/(fmradio.SampleRate*2)))
	return &offsetTuner{
		increment: inc,
		phase:     inc,
		period:    fmradio.SampleRate * 2 / fmradio.FreqOffsetFactor,
	}
}

const tau = 2 * math.Pi

func (o *offsetTuner) reset() {
	o.phase = o.increment
	o.idx = 0
}

// mix advances the phasor and multiplies it into s, returning the corrected
// sample.
func (o *offsetTuner) mix(s iq.Sample) iq.Sample {
	o.phase *= o.increment
	corrected := s.Complex128() * o.phase
	o.idx++
	if o.idx == o.period {
		o.idx = 0
		o.phase = o.increment
	}
	return iq.Sample{I: int16(real(corrected)), Q: int16(imag(corrected))}
}
