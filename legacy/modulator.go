package legacy

import (
	"fmt"
	"math"

	"hz.tools/rf"
	"hz.tools/sdr"
)

const tau = math.Pi * 2

// EstimateBeta estimates a modulation index achieving desiredBandwidth at
// the given modulating frequency.
func EstimateBeta(desiredBandwidth rf.Hz, audioFrequency float64) float64 {
	return float64(desiredBandwidth) / audioFrequency
}

// Writer receives synthesized IQ as Modulator produces it — the one
// method of hz.tools/sdr.Writer this fixture actually drives, narrowed to
// a local interface so callers (notably the scenario-2/3 signal-driven
// tests in package pipeline and package snr) can supply a destination
// without depending on the rest of that interface's method set.
type Writer interface {
	Write(sdr.SamplesC64) (int, error)
}

// ModulatorConfig configures a Modulator.
type ModulatorConfig struct {
	// AudioSampleRate is the number of audio samples per second.
	AudioSampleRate uint

	// IqBufferLength is the amount of data to allocate to process incoming
	// audio data.
	IqBufferLength uint

	// IqSamplesPerAudioSample controls how many IQ samples are generated
	// for each audio sample that comes in.
	IqSamplesPerAudioSample uint

	// CarrierFrequency is the frequency of the carrier modulated by
	// incoming data.
	CarrierFrequency rf.Hz

	// Beta controls the deviation from the carrier based on the
	// modulating signal amplitude. See EstimateBeta.
	Beta float64

	// Dest is where IQ samples are written as audio data is written to
	// the Modulator.
	Dest Writer
}

// NewModulator allocates a Modulator from cfg.
func NewModulator(cfg ModulatorConfig) (*Modulator, error) {
	iqSampleRate := cfg.AudioSampleRate * cfg.IqSamplesPerAudioSample

	return &Modulator{
		Config:       cfg,
		iqSampleRate: uint(iqSampleRate),
		iqBuffer:     make(sdr.SamplesC64, cfg.IqBufferLength),
	}, nil
}

// Modulator synthesizes FM-modulated IQ from a baseband audio waveform, the
// test-fixture counterpart to Demodulator used to build spec.md §8's
// end-to-end scenarios.
type Modulator struct {
	Config ModulatorConfig

	iqSampleRate uint
	iqBuffer     sdr.SamplesC64
	timeOffset   uint
}

// SampleRate implements sdr.Writer.
func (m *Modulator) SampleRate() uint {
	return m.iqSampleRate
}

// Write FM-modulates audioSamples against the carrier and writes the
// resulting IQ to Config.Dest.
func (m *Modulator) Write(audioSamples []float32) (int, error) {
	iqBufLen := len(m.iqBuffer) / int(m.Config.IqSamplesPerAudioSample)

	var fn int
	for i := 0; i < len(audioSamples); i += iqBufLen {
		audioEnd := i + iqBufLen
		if audioEnd > len(audioSamples) {
			audioEnd = len(audioSamples)
		}

		n, err := m.write(audioSamples[i:audioEnd])
		if err != nil {
			return n, err
		}
		fn += n

		if n != (audioEnd - i) {
			return fn, fmt.Errorf("legacy: incomplete write call")
		}
	}
	return fn, nil
}

// WriteMultiplex FM-modulates a composite baseband signal made of
// audioSamples plus a continuous pilot tone at pilotFreq with amplitude
// pilotAmplitude, the fixture spec.md §8 scenario 3 needs ("Feed a 19kHz
// pilot at amplitude A, nothing else"): calling WriteMultiplex with a
// zeroed audioSamples slice and pilotFreq=19000 synthesizes exactly that
// scenario's input.
func (m *Modulator) WriteMultiplex(audioSamples []float32, pilotFreq rf.Hz, pilotAmplitude float64) (int, error) {
	composite := make([]float32, len(audioSamples))
	for i := range audioSamples {
		t := float64(i) / float64(m.Config.AudioSampleRate)
		composite[i] = audioSamples[i] + float32(pilotAmplitude*math.Cos(tau*float64(pilotFreq)*t))
	}
	return m.Write(composite)
}

// perform the actual write
func (m *Modulator) write(audioSamples []float32) (int, error) {
	iqPerA := int(m.Config.IqSamplesPerAudioSample)

	if len(m.iqBuffer) < len(audioSamples)*iqPerA {
		return 0, fmt.Errorf("legacy: iq buffer is too short for audio buffer")
	}

	timeOffset := float64(m.timeOffset)
	beta := m.Config.Beta

	for audioStep := range audioSamples {
		var (
			audioSample = float64(audioSamples[audioStep])
			iqStepStart = audioStep * iqPerA
			iqStepEnd   = iqStepStart + iqPerA
		)

		for iqStep := iqStepStart; iqStep < iqStepEnd; iqStep++ {
			var (
				now        = timeOffset / float64(m.iqSampleRate)
				realSample = math.Cos(tau*float64(m.Config.CarrierFrequency)*now + beta*audioSample)
				imagSample = math.Sin(tau*float64(m.Config.CarrierFrequency)*now + beta*audioSample)
			)
			m.iqBuffer[iqStep] = complex(float32(realSample), float32(imagSample))
			timeOffset = timeOffset + 1
		}
	}

	expectedSamples := len(audioSamples) * iqPerA

	n, err := m.Config.Dest.Write(m.iqBuffer[:expectedSamples])
	if err != nil {
		return n / iqPerA, err
	}

	if n != expectedSamples {
		return n / iqPerA, fmt.Errorf("legacy: wrote a bad count, %d vs %d", n, expectedSamples)
	}

	timeTicks := uint(timeOffset) - m.timeOffset
	if timeTicks != uint(expectedSamples) {
		return n / iqPerA, fmt.Errorf("legacy: timeTick mismatch %d vs %d", timeTicks, expectedSamples)
	}

	m.timeOffset = uint(timeOffset)
	return expectedSamples / iqPerA, err
}
