// Package decimate implements the IQ decimation cascade of spec.md §4.5:
// amplitude halving, a configurable x2..x16 cascade of halfband stages,
// optional offset-tuning phase correction, and a final halfband stage to
// reach the canonical intermediate rate Fi, with conjugation on copy-out.
package decimate

import (
	"fmt"

	"hz.tools/fmradio"
	"hz.tools/fmradio/internal/dsp"
	"hz.tools/fmradio/iq"
)

// log2Decimation maps the supported decimation factors to their log2,
// matching original_source/src/input.c's input_set_decimation.
func log2Decimation(decimation int) (int, error) {
	switch decimation {
	case 2:
		return 1, nil
	case 4:
		return 2, nil
	case 8:
		return 3, nil
	case 16:
		return 4, nil
	default:
		return 0, fmt.Errorf("decimate: unsupported decimation %d", decimation)
	}
}

// Cascade holds the ordered halfband stages of spec.md §3: the first
// filter is always present, and additional stages engage for higher device
// decimation factors. A final halfband ("fm" stage) reaches Fi.
type Cascade struct {
	decimation int
	log2       int
	stages     [fmradio.MaxDecimLog2]*dsp.HalfbandIQ
	final      *dsp.HalfbandIQ

	offsetTuning bool
	offset       *offsetTuner
}

// New builds a Cascade for the given decimation factor (one of
// {2,4,8,16}), with offset tuning enabled by default (matching
// input_init's "st->offset_tuning = 1").
func New(decimation int) (*Cascade, error) {
	log2, err := log2Decimation(decimation)
	if err != nil {
		return nil, err
	}
	c := &Cascade{
		decimation:   decimation,
		log2:         log2,
		final:        dsp.NewHalfbandIQ(dsp.DecimTaps),
		offsetTuning: true,
		offset:       newOffsetTuner(),
	}
	for i := range c.stages {
		c.stages[i] = dsp.NewHalfbandIQ(dsp.DecimTaps)
	}
	return c, nil
}

// SetOffsetTuning enables or disables the offset-tuning phasor (disabled
// for IQ-file sources per original_source/src/nrsc5.c's nrsc5_open_iq:
// "input_set_offset_tuning(&st->input, 0)").
func (c *Cascade) SetOffsetTuning(enabled bool) {
	c.offsetTuning = enabled
}

// Reset rewinds every stage's filter state and the offset phasor, per
// input_reset.
func (c *Cascade) Reset() {
	for _, s := range c.stages {
		s.Reset()
	}
	c.final.Reset()
	c.offset.reset()
}

// PreFinal runs the amplitude-halve, log2-cascade, and offset-tuning stages
// only, without the final halfband that reaches Fi — the exact point at
// which original_source/src/input.c's input_cb branches into measure_snr
// when an SNR callback is installed, instead of continuing on to the ring
// buffer. The snr package drives its own final halfband/PLL path from this
// output. The input slice is consumed and mutated in place as scratch
// space, matching the original's in-place buffer reuse.
func (c *Cascade) PreFinal(buf []iq.Sample) []iq.Sample {
	for i := range buf {
		buf[i] = buf[i].Halve()
	}

	n := len(buf)
	for stage := 1; stage < c.log2; stage++ {
		out := n / 2
		for i := 0; i < n; i += 2 {
			buf[i/2] = c.stages[stage].Execute(buf[i], buf[i+1])
		}
		n = out
	}
	buf = buf[:n]

	if c.offsetTuning {
		for i := range buf {
			buf[i] = c.offset.mix(buf[i])
		}
	}
	return buf
}

// Final runs the final halfband stage over a PreFinal-decimated buffer,
// returning the conjugated output ready for the intermediate ring buffer.
// Split out from Process so callers that need the pre-final buffer too
// (the worker's IQ event/SNR-estimator branch point, input.c:262-267) can
// compute it once and feed it to both.
func (c *Cascade) Final(buf []iq.Sample) []iq.Sample {
	n := len(buf)
	result := make([]iq.Sample, n/2)
	for i := 0; i < n; i += 2 {
		y := c.final.Execute(buf[i], buf[i+1])
		result[i/2] = y.Conj()
	}
	return result
}

// Process runs one input frame through the full cascade, returning the
// decimated, conjugated output ready for the intermediate ring buffer
// (spec.md §4.5 step 4).
func (c *Cascade) Process(buf []iq.Sample) []iq.Sample {
	return c.Final(c.PreFinal(buf))
}
