package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hz.tools/fmradio/iq"
)

// fakeDriver is a device.Driver that delivers silence instantly, standing
// in for a real SoapySDR-backed device in worker lifecycle tests.
type fakeDriver struct {
	gain float64
	freq float64
}

func (d *fakeDriver) SetSampleRate(float64) error         { return nil }
func (d *fakeDriver) SetBandwidth(float64) error          { return nil }
func (d *fakeDriver) SetGainMode(bool) error              { return nil }
func (d *fakeDriver) SetGain(g float64) error             { d.gain = g; return nil }
func (d *fakeDriver) GainRange() (float64, float64)       { return 0, 0 }
func (d *fakeDriver) SetFrequency(hz float64) error       { d.freq = hz; return nil }
func (d *fakeDriver) SetupStream(string) error            { return nil }
func (d *fakeDriver) Activate() error                     { return nil }
func (d *fakeDriver) Deactivate() error                   { return nil }
func (d *fakeDriver) Read(buf []iq.Sample, _ time.Duration) (int, error) {
	for i := range buf {
		buf[i] = iq.Sample{}
	}
	return len(buf), nil
}

type collectingSink struct {
	events []Event
}

func (s *collectingSink) OnEvent(e Event) { s.events = append(s.events, e) }

// spec.md §8 scenario 5: "Issue set_frequency while Streaming ... expect
// the call rejected (ok=false) and state unchanged."
func TestWorkerRejectsFrequencyChangeWhileStreaming(t *testing.T) {
	driver := &fakeDriver{}
	sink := &collectingSink{}
	w, err := NewWorker(driver, 2, sink)
	require.NoError(t, err)
	defer w.Close()

	ok, err := w.SetFrequency(98_500_000)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 98_500_000.0, driver.freq)

	w.Start()
	ok, err = w.SetFrequency(101_100_000)
	require.NoError(t, err)
	assert.False(t, ok, "frequency change must be rejected while streaming")
	assert.Equal(t, 98_500_000.0, driver.freq, "state must be unchanged on rejection")

	w.Stop()

	ok, err = w.SetFrequency(101_100_000)
	require.NoError(t, err)
	assert.True(t, ok, "frequency change must succeed once stopped again")
	assert.Equal(t, 101_100_000.0, driver.freq)
}

func TestWorkerRejectsGainChangeWhileStreaming(t *testing.T) {
	driver := &fakeDriver{}
	w, err := NewWorker(driver, 2, &collectingSink{})
	require.NoError(t, err)
	defer w.Close()

	w.Start()
	ok, err := w.SetGain(20)
	require.NoError(t, err)
	assert.False(t, ok)
	w.Stop()

	ok, err = w.SetGain(20)
	require.NoError(t, err)
	assert.True(t, ok)
}

// Silence delivered end to end through a live Worker only ever produces
// zero-valued audio blocks (spec.md §8 scenario 1), exercised at the full
// pipeline-wiring level rather than just PostChain's in isolation.
func TestWorkerSilenceProducesOnlyZeroAudioBlocks(t *testing.T) {
	driver := &fakeDriver{}
	sink := &collectingSink{}
	w, err := NewWorker(driver, 2, sink)
	require.NoError(t, err)
	defer w.Close()

	w.Start()
	time.Sleep(50 * time.Millisecond)
	w.Stop()

	for _, e := range sink.events {
		if e.Kind != KindAudio {
			continue
		}
		for _, s := range e.Audio.Samples {
			assert.Zero(t, s)
		}
	}
}
