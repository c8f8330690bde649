// Package audio implements the mono audio post-chain of spec.md §4.6: a
// halfband decimator, pilot band-stop and low-pass IIR stages, a further
// x4 decimation (expressed, like the original, as two more halfband stages
// fed through a length-4 pre-decimation buffer, for x8 across all three
// halfbands), +20dB gain,
// de-emphasis, int16 clamping, fractional resampling to 44100Hz, stereo
// duplication, and 4096-sample block emission. Ported bit-for-bit from
// original_source/src/fm_audio.c — including the §9 open question's data
// dependency graph, not "fixed".
package audio

import (
	"hz.tools/fmradio/internal/dsp"
)

// BlockSize is the stereo int16 pair count spec.md §4.6 step 4 emits at
// (original_source/src/fm_audio.c: "if (st->samples_idx == 4096)").
const BlockSize = 4096

// PostChain is the mono audio post-chain state, one per demodulated
// program.
type PostChain struct {
	bbDecim    *dsp.HalfbandF32
	pilotBSF   *dsp.IIR
	monoLPF    *dsp.IIR
	monoDecim0 *dsp.HalfbandF32
	monoDecim1 *dsp.HalfbandF32
	deemph     *dsp.IIR

	predecim    [4]float32
	predecimIdx int

	resampler Resampler

	samples    [BlockSize]int16
	samplesIdx int
}

// NewPostChain builds a post-chain with fresh filter state, driving the
// resampler with (1, 135, 128, 46512, 44100, 1) per spec.md §6.
func NewPostChain() *PostChain {
	return &PostChain{
		bbDecim:    dsp.NewHalfbandF32(dsp.DecimTaps),
		pilotBSF:   dsp.NewIIR(dsp.FMBandstopTaps),
		monoLPF:    dsp.NewIIR(dsp.FMLowpassTaps),
		monoDecim0: dsp.NewHalfbandF32(dsp.DecimTaps),
		monoDecim1: dsp.NewHalfbandF32(dsp.DecimTaps),
		deemph:     dsp.NewIIR(dsp.FMDeemphTaps),
		resampler:  NewRationalResampler(1, 135, 128, 46512, 44100, 1),
	}
}

// SetResampler overrides the default resampler (used by tests driving the
// chain with a deterministic fixture resampler).
func (c *PostChain) SetResampler(r Resampler) {
	c.resampler = r
}

func clampI16(x float32) int16 {
	if x > 32767 {
		return 32767
	}
	if x < -32768 {
		return -32768
	}
	return int16(x)
}

// Push feeds two real samples — the FM-demod outputs at Fi/2 — through the
// chain, per fm_audio_push(const float input[2]). When the stereo block
// reaches BlockSize samples, it returns the completed block and true, and
// resets its internal cursor; otherwise it returns (nil, false).
func (c *PostChain) Push(x0, x1 float32) ([]int16, bool) {
	y := c.bbDecim.Execute(x0, x1)
	y = c.pilotBSF.Execute(y)
	y = c.monoLPF.Execute(y)

	c.predecim[c.predecimIdx] = y
	c.predecimIdx++
	if c.predecimIdx != 4 {
		return nil, false
	}
	c.predecimIdx = 0

	var x [2]float32
	x[0] = c.monoDecim0.Execute(c.predecim[0], c.predecim[1])
	x[1] = c.monoDecim0.Execute(c.predecim[2], c.predecim[3])
	y = c.monoDecim1.Execute(x[0], x[1])

	y *= 10 // +20dB
	y = c.deemph.Execute(y)

	sampleIn := clampI16(y * 32768.0)

	sampleOut, ok := c.resampler.Process(sampleIn)
	if !ok {
		return nil, false
	}

	c.samples[c.samplesIdx] = sampleOut
	c.samplesIdx++
	c.samples[c.samplesIdx] = sampleOut
	c.samplesIdx++

	if c.samplesIdx != BlockSize {
		return nil, false
	}
	c.samplesIdx = 0
	block := make([]int16, BlockSize)
	copy(block, c.samples[:])
	return block, true
}

// Reset rewinds all filter state and block-assembly cursors, used when the
// pipeline resets after a gain/frequency change (spec.md §4.8).
func (c *PostChain) Reset() {
	c.bbDecim.Reset()
	c.pilotBSF.Reset()
	c.monoLPF.Reset()
	c.monoDecim0.Reset()
	c.monoDecim1.Reset()
	c.deemph.Reset()
	c.predecimIdx = 0
	c.samplesIdx = 0
}
