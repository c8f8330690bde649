// Package legacy adapts the teacher's generic hz.tools/sdr-based FM
// modulator/demodulator fixture pair into test-signal tooling for this
// module's end-to-end scenarios (spec.md §8's literal scenarios 2 and 3):
// Modulator synthesizes IQ from a baseband waveform (optionally with a
// pilot tone), and Demodulator discriminates it back, now through the same
// demod.PLL this module's production audio path uses, rather than the
// teacher's plain cross-product discriminator. The scenario tests use
// Modulator only and feed its output to the production pipeline.FMPath and
// snr.Estimator; no test calls Demodulate.
//
// Grounded on hztools-go-fm's demodulator.go and modulator.go.
package legacy

import (
	"hz.tools/fftw"
	"hz.tools/fmradio/demod"
	"hz.tools/rf"
	"hz.tools/sdr"
	"hz.tools/sdr/fft"
	"hz.tools/sdr/stream"
)

// Reader allows reading FM-demodulated audio samples from an IQ stream.
type Reader interface {
	Read([]float32) (int, error)
}

var (
	// BroadcastDeviation is the max deviation for FM broadcast (150kHz
	// bandwidth).
	BroadcastDeviation rf.Hz = rf.KHz * 75

	// NarrowbandDeviation is the max deviation for FM narrowband radio.
	NarrowbandDeviation rf.Hz = rf.KHz * 2.5
)

// DemodulatorConfig defines how the demodulator should decode audio from
// the IQ data.
type DemodulatorConfig struct {
	// CenterFrequency is the center frequency of the signal in the IQ
	// data.
	CenterFrequency rf.Hz

	// Deviation is the maximum difference between modulated and carrier
	// frequencies (half the total bandwidth).
	Deviation rf.Hz

	// Downsample defines the rate to downsample to a sensible audio
	// sample rate.
	Downsample int
}

// Demodulator reads FM-demodulated float32 audio from an underlying
// band-selected, downsampled IQ reader.
type Demodulator struct {
	reader sdr.Reader
	config DemodulatorConfig
	pll    *demod.PLL
}

// Reader returns the underlying IQ reader.
func (d *Demodulator) Reader() sdr.Reader {
	return d.reader
}

// SampleRate returns the audio sample rate.
func (d *Demodulator) SampleRate() uint {
	return uint(d.reader.SampleRate())
}

// Read fills audio with demod.PLL's discriminator output, normalized the
// same way the production audio path is (y = freq/(pi/2)), rather than the
// teacher's raw cmplx.Phase(phasor*conj(lastPhasor)) cross product — the
// two agree in the small-deviation limit, but only the PLL form is part of
// this module's specification (spec.md §9's second open question).
func (d *Demodulator) Read(audio []float32) (int, error) {
	buf := make(sdr.SamplesC64, len(audio))
	n, err := sdr.ReadFull(d.reader, buf)
	if err != nil {
		return 0, err
	}
	buf = buf[:n]

	for i, s := range buf {
		audio[i] = float32(d.pll.Step(complex128(s)))
	}
	return len(buf), nil
}

// Demodulate creates a new Demodulator reading FM audio from an IQ stream,
// band-selecting around CenterFrequency±Deviation and downsampling before
// the PLL runs.
func Demodulate(reader sdr.Reader, cfg DemodulatorConfig) (*Demodulator, error) {
	if reader.SampleFormat() != sdr.SampleFormatC64 {
		return nil, sdr.ErrSampleFormatMismatch
	}

	taps := make([]complex64, 1024*64)
	if err := filter(
		taps,
		reader.SampleRate(),
		fft.ZeroFirst,
		cfg.CenterFrequency,
		cfg.Deviation,
	); err != nil {
		return nil, err
	}

	reader, err := stream.ConvolutionReader(reader, fftw.Plan, taps)
	if err != nil {
		return nil, err
	}

	reader, err = stream.DownsampleReader(reader, cfg.Downsample)
	if err != nil {
		return nil, err
	}

	return &Demodulator{
		reader: reader,
		config: cfg,
		pll:    demod.NewPLL(),
	}, nil
}
