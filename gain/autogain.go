// Package gain implements the gain controller and frequency scanner of
// spec.md §4.8, ported from original_source/src/nrsc5.c's do_auto_gain,
// snr_callback, worker_thread's auto-gain-on-start branch, and nrsc5_scan.
package gain

import (
	"hz.tools/fmradio/decimate"
	"hz.tools/fmradio/iq"
	"hz.tools/fmradio/snr"
)

// Tuning constants, reproduced verbatim from nrsc5.c.
const (
	TransitionSamples = 81920
	AutoGainStep      = 4.0
	AutoGainMinPilot  = 10.0
	ScanMinSNR        = 2.0
	ScanAutoGainStep  = 20.0

	// rxBufferFFT is the per-readStream sample count do_auto_gain requests
	// (RX_BUFFER_FFT in the original), scaled by the device's decimation.
	rxBufferFFT = 16384
)

// Source is the minimal device control surface AutoGain needs: gain
// control and raw IQ delivery, standing in for the SoapySDRDevice_setGain /
// SoapySDRDevice_readStream calls of the original (the device itself is
// out of scope per spec.md's "external collaborators").
type Source interface {
	SetGain(gain float64) error
	GainRange() (min, max float64)
	// ReadIQ fills buf with raw device-rate IQ samples (pre-halve,
	// pre-cascade) and returns the count actually read.
	ReadIQ(buf []iq.Sample) (int, error)
	Decimation() int
}

// AutoGain sweeps a device's gain range, selecting the gain that maximizes
// SNR subject to a pilot floor, per do_auto_gain.
type AutoGain struct {
	src     Source
	cascade *decimate.Cascade
	est     *snr.Estimator

	snrReady bool
	snr      float64
}

// NewAutoGain builds an AutoGain driving src's gain and reading its IQ
// stream through cascade's pre-final stages into est.
func NewAutoGain(src Source, cascade *decimate.Cascade, est *snr.Estimator) *AutoGain {
	return &AutoGain{src: src, cascade: cascade, est: est}
}

func (a *AutoGain) onSNR(snrRatio, pilotDB float64) bool {
	a.snrReady = true
	if pilotDB < AutoGainMinPilot {
		snrRatio = 0
	}
	a.snr = snrRatio
	return true
}

// Sweep runs one gain sweep at the given step size, returning the best SNR
// observed and leaving the device set to the gain that produced it (per
// do_auto_gain; step is AUTO_GAIN_STEP on normal start, SCAN_AUTO_GAIN_STEP
// or AUTO_GAIN_STEP*2 during a scan per spec.md §4.8).
func (a *AutoGain) Sweep(step float64) (float64, error) {
	min, max := a.src.GainRange()

	a.est.SetCallback(a.onSNR)
	defer a.est.SetCallback(nil)

	buf := make([]iq.Sample, rxBufferFFT*a.src.Decimation())

	bestGain, bestSNR, err := selectBestGain(min, max, step, func(g float64) (float64, error) {
		if err := a.src.SetGain(g); err != nil {
			return 0, errSkipGain
		}

		a.cascade.Reset()
		a.est.Reset()
		a.snrReady = false

		ignore := TransitionSamples * a.src.Decimation()
		for !a.snrReady {
			n, err := a.src.ReadIQ(buf)
			if err != nil {
				return 0, err
			}
			if ignore >= n {
				ignore -= n
				continue
			}
			pre := a.cascade.PreFinal(buf[ignore:n])
			a.est.Push(pre)
			ignore = 0
		}

		a.cascade.Reset()
		return a.snr, nil
	})
	if err != nil {
		return 0, err
	}

	a.src.SetGain(bestGain)
	return bestSNR, nil
}

// errSkipGain signals snrAt to skip a gain step that failed to set (a
// device rejecting a particular gain value), without aborting the sweep,
// matching do_auto_gain's "continue" on a failed SoapySDRDevice_setGain.
var errSkipGain = &skipGainError{}

type skipGainError struct{}

func (*skipGainError) Error() string { return "gain: step skipped" }

// selectBestGain walks [min, max] in step increments (clamping the final
// step to max, per do_auto_gain's loop), calling snrAt at each gain and
// keeping the (gain, snr) pair with the highest snr. snrAt returning
// errSkipGain skips that step without failing the sweep; any other error
// aborts it immediately. Factored out of Sweep so the pure argmax-over-steps
// logic is testable without a live device or decimation cascade.
func selectBestGain(min, max, step float64, snrAt func(gain float64) (snr float64, err error)) (bestGain, bestSNR float64, err error) {
	for g := min; g < max+step-0.1; g += step {
		if g > max {
			g = max
		}

		snr, err := snrAt(g)
		if err == errSkipGain {
			continue
		}
		if err != nil {
			return 0, 0, err
		}

		if snr > bestSNR {
			bestSNR = snr
			bestGain = g
		}
	}
	return bestGain, bestSNR, nil
}
