package pipeline

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"hz.tools/fmradio/decimate"
	"hz.tools/fmradio/device"
	"hz.tools/fmradio/gain"
	"hz.tools/fmradio/iq"
	"hz.tools/fmradio/snr"
)

// Tuning constants reproduced from original_source/src/nrsc5.c.
const (
	rxBufferFFT = 16384
	rxBuffer    = rxBufferFFT * 4
	rxTimeout   = 5 * time.Second
)

// driverSource adapts a device.Driver to gain.Source, so AutoGain can sweep
// it without knowing about the rest of the Driver capability set.
type driverSource struct {
	d          device.Driver
	decimation int
}

func (s driverSource) SetGain(g float64) error      { return s.d.SetGain(g) }
func (s driverSource) GainRange() (float64, float64) { return s.d.GainRange() }
func (s driverSource) Decimation() int               { return s.decimation }
func (s driverSource) ReadIQ(buf []iq.Sample) (int, error) {
	return s.d.Read(buf, rxTimeout)
}

// Worker is the single worker-thread state machine of spec.md §5, owning
// the SDR read loop and the full signal-processing pipeline. Grounded on
// original_source/src/nrsc5.c's worker_thread / nrsc5_start / nrsc5_stop /
// nrsc5_close / nrsc5_set_frequency / nrsc5_set_gain.
type Worker struct {
	mu   sync.Mutex
	cond *sync.Cond

	stopped       bool
	workerStopped bool
	closed        bool

	autoGainEnabled bool
	gain            float64
	freq            float64
	skip            int

	driver     device.Driver
	decimation int

	cascade   *decimate.Cascade
	fmPath    *FMPath
	estimator *snr.Estimator
	autoGain  *gain.AutoGain
	ring      *IQRing
	sink      Sink

	buffer []iq.Sample
	log    *log.Logger
}

// NewWorker builds a Worker around driver at the given decimation factor,
// delivering events to sink. Auto-gain starts enabled with gain unset
// (matching nrsc5_init's "st->auto_gain = 1; st->gain = -1;").
func NewWorker(driver device.Driver, decimation int, sink Sink) (*Worker, error) {
	cascade, err := decimate.New(decimation)
	if err != nil {
		return nil, err
	}
	estimator, err := snr.New()
	if err != nil {
		return nil, err
	}

	w := &Worker{
		stopped:         true,
		workerStopped:   true,
		autoGainEnabled: true,
		gain:            -1,
		driver:          driver,
		decimation:      decimation,
		cascade:         cascade,
		fmPath:          NewFMPath(),
		estimator:       estimator,
		ring:            NewIQRing(rxBuffer * decimation),
		sink:            sink,
		buffer:          make([]iq.Sample, rxBuffer*decimation),
		log:             log.New(os.Stderr),
	}
	w.cond = sync.NewCond(&w.mu)
	w.autoGain = gain.NewAutoGain(driverSource{d: driver, decimation: decimation}, cascade, estimator)

	go w.run()
	return w, nil
}

// Start signals the worker to begin streaming; it does not block for the
// worker to actually start (matching nrsc5_start, which only broadcasts).
func (w *Worker) Start() {
	w.mu.Lock()
	w.stopped = false
	w.cond.Broadcast()
	w.mu.Unlock()
}

// Stop signals the worker to stop and blocks until it has drained and
// deactivated the stream (nrsc5_stop's "wait for worker to stop" loop).
func (w *Worker) Stop() {
	w.mu.Lock()
	w.stopped = true
	w.cond.Broadcast()
	for w.stopped != w.workerStopped {
		w.cond.Wait()
	}
	w.mu.Unlock()
}

// Close signals the worker to exit permanently; the worker finishes its
// current read (if any) and returns (nrsc5_close's "signal the worker to
// exit" / "wait for worker to finish").
func (w *Worker) Close() {
	w.mu.Lock()
	w.closed = true
	w.cond.Broadcast()
	w.mu.Unlock()
}

// SetFrequency changes the tuned frequency. It is rejected (ok=false)
// unless the pipeline is currently stopped, per spec.md §5's "set_frequency
// ... rejected unless the pipeline is stopped". A successful change
// re-arms auto-gain (clears the cached gain) when auto-gain is enabled,
// and resets the cascade/demod/audio state, matching nrsc5_set_frequency.
// Requesting the frequency already in effect returns ok=true without
// touching the device, even while streaming.
func (w *Worker) SetFrequency(hz float64) (ok bool, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.freq == hz {
		return true, nil
	}
	if !w.stopped {
		return false, nil
	}

	if err := w.driver.SetFrequency(hz); err != nil {
		return false, err
	}
	if w.autoGainEnabled {
		w.gain = -1
	}
	w.cascade.Reset()
	w.fmPath.Reset()
	w.estimator.Reset()

	w.freq = hz
	return true, nil
}

// SetGain changes the tuner gain, rejected unless the pipeline is stopped
// (nrsc5_set_gain). Requesting the gain already in effect returns ok=true
// without touching the device, even while streaming.
func (w *Worker) SetGain(db float64) (ok bool, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.gain == db {
		return true, nil
	}
	if !w.stopped {
		return false, nil
	}
	if err := w.driver.SetGain(db); err != nil {
		return false, err
	}
	w.gain = db
	return true, nil
}

// SetSNRCallback installs or clears the SNR subscription (input_set_snr_callback).
func (w *Worker) SetSNRCallback(cb snr.Callback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.estimator.SetCallback(cb)
}

// Skip accumulates n samples to be silently dropped from the intermediate
// ring before further processing, matching input_set_skip's
// "st->skip += skip" (the external digital decoder's resync mechanism
// after an acquisition).
func (w *Worker) Skip(n int) {
	w.mu.Lock()
	w.skip += n
	w.mu.Unlock()
}

func (w *Worker) run() {
	w.mu.Lock()
	for !w.closed {
		if w.stopped && !w.workerStopped {
			if err := w.driver.Deactivate(); err != nil {
				w.log.Error("deactivate stream failed", "err", err)
			}
			w.workerStopped = true
			w.cond.Broadcast()
		} else if !w.stopped && w.workerStopped {
			w.workerStopped = false
			w.cond.Broadcast()

			if err := w.driver.Activate(); err != nil {
				w.log.Error("activate stream failed", "err", err)
			}

			if w.autoGainEnabled && w.gain < 0 {
				w.mu.Unlock()
				_, err := w.autoGain.Sweep(gain.AutoGainStep)
				w.mu.Lock()
				if err != nil {
					w.driver.Deactivate()
					w.stopped = true
					w.workerStopped = true
					w.cond.Broadcast()
				}
			}
		}

		if w.stopped {
			w.cond.Wait()
		} else {
			w.mu.Unlock()
			w.doWork()
			w.mu.Lock()
		}
	}
	w.mu.Unlock()
}

// doWork reads one block of raw IQ and runs it through the pipeline,
// matching do_work's stream-reading branch.
func (w *Worker) doWork() {
	n, err := w.driver.Read(w.buffer, rxTimeout)
	if err != nil {
		w.log.Error("read failed", "err", err)
		return
	}
	if n == 0 {
		return
	}
	w.ingest(w.buffer[:n])
}

// ingest runs one raw IQ block through the cascade and either the SNR
// estimator (when a callback is installed, matching input_cb's snr_cb
// diversion) or the IQ-report/full FM-audio path, per input_cb.
func (w *Worker) ingest(buf []iq.Sample) {
	pre := w.cascade.PreFinal(buf)

	if w.estimator.Active() {
		w.estimator.Push(pre)
		return
	}

	if w.sink != nil {
		w.sink.OnEvent(Event{Kind: KindIQ, IQ: IQEvent{Samples: pre}})
	}

	decimated := w.cascade.Final(pre)
	if !w.ring.Push(decimated) {
		w.log.Error(fmt.Sprintf("IQ ring overflow, dropping %d samples", len(decimated)))
		return
	}

	if w.skip > 0 {
		unconsumed := w.ring.Unconsumed()
		if w.skip >= len(unconsumed) {
			w.skip -= len(unconsumed)
			w.ring.Consume(len(unconsumed))
			return
		}
		w.ring.Consume(w.skip)
		w.skip = 0
	}

	unconsumed := w.ring.Unconsumed()
	n4 := len(unconsumed) - len(unconsumed)%4
	if n4 == 0 {
		return
	}
	w.fmPath.Process(unconsumed[:n4], func(block []int16) {
		if w.sink != nil {
			w.sink.OnEvent(Event{Kind: KindAudio, Audio: AudioEvent{Program: 0, Samples: block}})
		}
	})
	w.ring.Consume(n4)
}
