package pipeline

import (
	"hz.tools/fmradio/audio"
	"hz.tools/fmradio/demod"
	"hz.tools/fmradio/internal/dsp"
	"hz.tools/fmradio/iq"
)

// FMPath is the per-program analog branch of the main data flow: a final
// x2 halfband reaching Fi/2, the PLL FM discriminator, and the audio
// post-chain, run four samples at a time over whatever span the
// intermediate ring has ready. Grounded on original_source/src/nrsc5.c's
// input_cb main loop:
//
//	halfband(fm_firdecim, &buffer[i], &z); x[0] = input_fm_demod(st, z);
//	halfband(fm_firdecim, &buffer[i+2], &z); x[1] = input_fm_demod(st, z);
//	fm_audio_push(&fm_audio, x);
type FMPath struct {
	firdecim *dsp.HalfbandIQ
	pll      *demod.PLL
	audio    *audio.PostChain
}

// NewFMPath builds an FMPath with fresh filter state.
func NewFMPath() *FMPath {
	return &FMPath{
		firdecim: dsp.NewHalfbandIQ(dsp.DecimTaps),
		pll:      demod.NewPLL(),
		audio:    audio.NewPostChain(),
	}
}

// Reset rewinds all filter/discriminator/post-chain state.
func (f *FMPath) Reset() {
	f.firdecim.Reset()
	f.pll.Reset()
	f.audio.Reset()
}

// Process runs buf (a span of decimated IQ, processed in groups of 4)
// through the discriminator and audio chain, calling emit with each
// completed stereo block. len(buf) need not be a multiple of 4; any
// remainder is left unconsumed by the caller's ring-consume accounting.
func (f *FMPath) Process(buf []iq.Sample, emit func([]int16)) {
	for i := 0; i+4 <= len(buf); i += 4 {
		z0 := f.firdecim.Execute(buf[i], buf[i+1])
		x0 := f.pll.Step(z0.Complex128())
		z1 := f.firdecim.Execute(buf[i+2], buf[i+3])
		x1 := f.pll.Step(z1.Complex128())

		if block, ok := f.audio.Push(float32(x0), float32(x1)); ok {
			emit(block)
		}
	}
}
