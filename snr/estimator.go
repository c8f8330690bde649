// Package snr implements the SNR/pilot-tone estimator of spec.md §4.7: a
// windowed 64-point FFT accumulated over a fixed window count, plus a pair
// of Goertzel detectors (pilot vs. adjacent band) driven by the estimator's
// own halfband-decimate-and-demodulate path, reported through a
// zero-to-detach callback. Ported from original_source/src/input.c's
// measure_snr, which reuses the cascade's final halfband stage and FM
// discriminator for this purpose; here the estimator owns its own halfband
// and PLL instances instead of sharing the main pipeline's, since the two
// paths are never active concurrently (spec.md §4.7: "Runs instead of
// normal audio delivery while snr_cb is set") and separate state is
// clearer in Go than aliasing the same filter struct for two call sites.
package snr

import (
	"math"

	"hz.tools/fftw"
	"hz.tools/fmradio"
	"hz.tools/fmradio/demod"
	"hz.tools/fmradio/internal/dsp"
	"hz.tools/fmradio/iq"
)

// FFTSize is the window length of the signal-power FFT (spec.md §4.7).
const FFTSize = 64

// FFTCount is the number of FFTSize windows accumulated before an SNR
// report is produced (SNR_FFT_COUNT in the original).
const FFTCount = 8

// FMPilotLimit bounds the per-window Goertzel power before accumulation,
// so a single strong burst cannot dominate the running pilot/not-pilot
// average (original_source/src/input.c: "#define FM_PILOT_LIMIT 1000.0").
const FMPilotLimit = 1000.0

// Callback receives an SNR report. Returning false detaches the
// subscription (spec.md §4.7: "a zero return detaches the callback").
type Callback func(snrRatio, pilotDB float64) (keep bool)

// Estimator accumulates FFT power and pilot/adjacent Goertzel energy
// across the pre-final-decimation IQ stream. At the end of each Push that
// leaves at least FFTCount windows accumulated, it reports once via
// Callback, averaged over all accumulated windows, and starts over.
type Estimator struct {
	in, out []complex64
	plan    fftw.Plan

	power [FFTSize]float32
	count int

	firdecim0  *dsp.HalfbandIQ
	fmFirdecim *dsp.HalfbandIQ
	pll        *demod.PLL

	pilot    *dsp.Goertzel
	notPilot *dsp.Goertzel

	pilotSum    float64
	pilotIdx    int
	notPilotSum float64
	notPilotIdx int

	cb Callback
}

// New builds an Estimator. The Goertzel windows are sized exactly as the
// original: 19kHz pilot at N=372*4=1488, 17kHz adjacent at N=372/4=93,
// both at SampleRate/2.
func New() (*Estimator, error) {
	in := make([]complex64, FFTSize)
	out := make([]complex64, FFTSize)
	plan, err := fftw.Plan(in, out)
	if err != nil {
		return nil, err
	}
	return &Estimator{
		in:         in,
		out:        out,
		plan:       plan,
		firdecim0:  dsp.NewHalfbandIQ(dsp.DecimTaps),
		fmFirdecim: dsp.NewHalfbandIQ(dsp.DecimTaps),
		pll:        demod.NewPLL(),
		pilot:      dsp.NewGoertzel(19000, fmradio.SampleRate/2, 372*4),
		notPilot:   dsp.NewGoertzel(17000, fmradio.SampleRate/2, 372/4),
	}, nil
}

// SetCallback installs (or, with nil, clears) the SNR report subscriber.
func (e *Estimator) SetCallback(cb Callback) {
	e.cb = cb
}

// Active reports whether a callback is currently installed; pipeline code
// uses this to decide whether to route samples through the estimator
// instead of the normal audio delivery path.
func (e *Estimator) Active() bool {
	return e.cb != nil
}

// Reset rewinds all estimator state, including the halfband/PLL filters,
// per input_reset's goertzel_init calls and zeroing of the snr accumulators.
func (e *Estimator) Reset() {
	e.firdecim0.Reset()
	e.fmFirdecim.Reset()
	e.pll.Reset()
	e.count = 0
	for i := range e.power {
		e.power[i] = 0
	}
	e.pilotSum, e.pilotIdx = 0, 0
	e.notPilotSum, e.notPilotIdx = 0, 0
}

func fftshift(buf []complex64) {
	n := len(buf)
	half := n / 2
	tmp := make([]complex64, half)
	copy(tmp, buf[:half])
	copy(buf[:n-half], buf[half:])
	copy(buf[n-half:], tmp)
}

// Push feeds one callback's worth of pre-final-decimation IQ — the output
// of decimate.Cascade.PreFinal, the exact point original_source/src/input.c's
// input_cb diverts to measure_snr instead of the ring buffer when an SNR
// callback is installed (spec.md §4.7: "over each 64-sample window of the
// pre-decimation buffer"). len(buf) must be a multiple of 4 (the demod
// path's granularity); partial 64-sample windows at the tail of buf are not
// accumulated until a subsequent call completes them.
func (e *Estimator) Push(buf []iq.Sample) {
	for start := FFTSize; start <= len(buf); start += FFTSize {
		for i := 0; i < FFTSize; i++ {
			w := math.Sin(math.Pi * float64(i) / 63)
			w *= w
			s := buf[i+start-FFTSize]
			e.in[i] = complex64(complex(float64(s.I)*w, float64(s.Q)*w))
		}
		e.plan.Execute()
		fftshift(e.out)
		for i := 0; i < FFTSize; i++ {
			c := e.out[i]
			e.power[i] += real(c)*real(c) + imag(c)*imag(c)
		}
		e.count++
	}

	for i := 0; i+4 <= len(buf); i += 4 {
		y0 := e.firdecim0.Execute(buf[i], buf[i+1])
		y1 := e.firdecim0.Execute(buf[i+2], buf[i+3])
		z := e.fmFirdecim.Execute(y0, y1)
		angle := e.pll.Step(z.Complex128())

		if mag, ok := e.pilot.Execute(float32(angle / math.Pi)); ok {
			mag = float32(math.Min(FMPilotLimit, float64(mag)))
			e.pilotSum += float64(mag) * float64(mag)
			e.pilotIdx++
		}
		if mag, ok := e.notPilot.Execute(float32(angle / math.Pi)); ok {
			mag = float32(math.Min(FMPilotLimit, float64(mag))) * 16
			e.notPilotSum += float64(mag) * float64(mag)
			e.notPilotIdx++
		}
	}

	if e.count >= FFTCount {
		e.report()
	}
}

func (e *Estimator) report() {
	var noiseLo, noiseHi float32
	for i := 19; i < 23; i++ {
		noiseLo += e.power[i]
	}
	noiseLo /= 4
	for i := 41; i < 45; i++ {
		noiseHi += e.power[i]
	}
	noiseHi /= 4

	signalLo := (e.power[24] + e.power[25]) / 2
	signalHi := (e.power[39] + e.power[40]) / 2

	signal := float64(signalLo+signalHi) / 2 / float64(e.count)
	noise := float64(noiseLo+noiseHi) / 2 / float64(e.count)
	snrRatio := signal / noise

	pilotAvg := e.pilotSum / float64(e.pilotIdx)
	notPilotAvg := e.notPilotSum / float64(e.notPilotIdx)
	pilotDB := 10 * math.Log10(pilotAvg/notPilotAvg)

	keep := true
	if e.cb != nil {
		keep = e.cb(snrRatio, pilotDB)
	}
	if !keep {
		e.cb = nil
	}

	e.count = 0
	for i := range e.power {
		e.power[i] = 0
	}
	e.pilotSum, e.pilotIdx = 0, 0
	e.notPilotSum, e.notPilotIdx = 0, 0
}
