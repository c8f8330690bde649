package gain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanBandConstantsCoverUSFMBand(t *testing.T) {
	assert.Equal(t, 87_900_000.0, ScanBegin)
	assert.Equal(t, 107_900_000.0, ScanEnd)
	assert.Equal(t, 200_000.0, ScanSkip)

	channels := int((ScanEnd - ScanBegin) / ScanSkip)
	assert.Equal(t, 100, channels)
}

type fakeWorker struct {
	freqs []float64
	calls int
}

func (w *fakeWorker) SetFrequency(freq float64) error {
	w.freqs = append(w.freqs, freq)
	return nil
}

func (w *fakeWorker) DoWork() (int, error) {
	w.calls++
	// A large per-call sample count so the 30s/10s device-rate budgets in
	// Scan are reached in a handful of calls rather than needing millions
	// of iterations in tests that exhaust the give-up budget.
	return 2_000_000, nil
}

type fakeDecoder struct {
	resetCount int
	synced     bool
	name       string
}

func (d *fakeDecoder) Reset()       { d.resetCount++; d.synced = false; d.name = "" }
func (d *fakeDecoder) Synced() bool { return d.synced }
func (d *fakeDecoder) Name() string { return d.name }

// zeroSweeper always reports SNR 0, simulating a channel with no pilot
// lock at all (spec.md §4.8's pilot-floor-gated SNR).
type zeroSweeper struct{}

func (zeroSweeper) Sweep(float64) (float64, error) { return 0, nil }

// A frequency whose coarse sweep reports SNR 0 is skipped before the fine
// sweep or decoder ever runs.
func TestScanSkipsFrequenciesWithZeroCoarseSNR(t *testing.T) {
	worker := &fakeWorker{}
	decoder := &fakeDecoder{}
	s := NewScanner(worker, nil, 2)
	s.auto = zeroSweeper{}

	_, found, next, err := s.Scan(100_000_000, 100_000_000+ScanSkip, ScanSkip, decoder)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, 100_000_000.0+2*ScanSkip, next)
	assert.Zero(t, decoder.resetCount, "decoder must never be touched when every frequency is skipped")
	assert.Len(t, worker.freqs, 2, "both frequencies in range must still be tried")
}

// fineBelowThresholdSweeper passes the coarse gate (nonzero) but fails the
// fine one (below ScanMinSNR).
type fineBelowThresholdSweeper struct{ calls int }

func (s *fineBelowThresholdSweeper) Sweep(float64) (float64, error) {
	s.calls++
	if s.calls == 1 {
		return 5, nil
	}
	return 1, nil
}

func TestScanSkipsFrequenciesBelowMinSNR(t *testing.T) {
	worker := &fakeWorker{}
	decoder := &fakeDecoder{}
	s := NewScanner(worker, nil, 2)
	s.auto = &fineBelowThresholdSweeper{}

	_, found, _, err := s.Scan(100_000_000, 100_000_000, ScanSkip, decoder)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, decoder.resetCount)
}

type alwaysGoodSweeper struct{}

func (alwaysGoodSweeper) Sweep(float64) (float64, error) { return 5, nil }

// syncingWorker syncs its decoder and names the station on the second
// DoWork call, simulating the external digital decoder acquiring lock
// partway through the sample budget.
type syncingWorker struct {
	decoder *fakeDecoder
	calls   int
}

func (w *syncingWorker) SetFrequency(float64) error { return nil }

func (w *syncingWorker) DoWork() (int, error) {
	w.calls++
	if w.calls == 2 {
		w.decoder.synced = true
		w.decoder.name = "Found Station"
	}
	return 1_000_000, nil
}

// Once both SNR gates pass, the scanner runs the decoder's acquisition
// loop and reports the station once Synced and Name are both set.
func TestScanFindsStationOnceDecoderSyncsAndNames(t *testing.T) {
	decoder := &fakeDecoder{}
	worker := &syncingWorker{decoder: decoder}
	s := NewScanner(worker, nil, 2)
	s.auto = alwaysGoodSweeper{}

	result, found, next, err := s.Scan(100_000_000, 100_000_000, ScanSkip, decoder)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 100_000_000.0, result.Frequency)
	assert.Equal(t, "Found Station", result.Name)
	assert.Equal(t, 100_000_000.0+ScanSkip, next)
	assert.Equal(t, 1, decoder.resetCount)
}

// A decoder that never syncs exhausts the 10s give-up budget and the
// scanner moves on without reporting a station.
func TestScanGivesUpWhenDecoderNeverSyncs(t *testing.T) {
	worker := &fakeWorker{}
	decoder := &fakeDecoder{}
	s := NewScanner(worker, nil, 2)
	s.auto = alwaysGoodSweeper{}

	_, found, _, err := s.Scan(100_000_000, 100_000_000, ScanSkip, decoder)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, 1, decoder.resetCount)
}

type erroringSweeper struct{ err error }

func (s erroringSweeper) Sweep(float64) (float64, error) { return 0, s.err }

func TestScanPropagatesSweepError(t *testing.T) {
	worker := &fakeWorker{}
	decoder := &fakeDecoder{}
	s := NewScanner(worker, nil, 2)
	wantErr := errors.New("device gone")
	s.auto = erroringSweeper{err: wantErr}

	_, found, _, err := s.Scan(100_000_000, 100_000_000, ScanSkip, decoder)
	assert.False(t, found)
	assert.ErrorIs(t, err, wantErr)
}
