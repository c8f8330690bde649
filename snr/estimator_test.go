package snr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hz.tools/fmradio/iq"
)

func TestFftshiftSwapsHalves(t *testing.T) {
	buf := []complex64{1, 2, 3, 4}
	fftshift(buf)
	assert.Equal(t, []complex64{3, 4, 1, 2}, buf)
}

func TestFftshiftOddLength(t *testing.T) {
	buf := []complex64{1, 2, 3, 4, 5}
	fftshift(buf)
	// half=2: tmp=[1,2]; buf[:3]=buf[2:]=[3,4,5]; buf[3:]=tmp=[1,2]
	assert.Equal(t, []complex64{3, 4, 5, 1, 2}, buf)
}

// A fresh Estimator has no callback installed, and Push accumulates
// silently (not reporting) until FFTCount windows have been seen (spec.md
// §4.7: "Runs instead of normal audio delivery while snr_cb is set").
func TestEstimatorReportsAfterFFTCountWindowsAndHonorsDetach(t *testing.T) {
	e, err := New()
	require.NoError(t, err)

	var calls int
	e.SetCallback(func(snrRatio, pilotDB float64) bool {
		calls++
		return calls < 2 // detach after the second report
	})
	require.True(t, e.Active())

	buf := make([]iq.Sample, FFTSize*FFTCount)

	e.Push(buf)
	assert.Equal(t, 1, calls)
	assert.True(t, e.Active())

	e.Push(buf)
	assert.Equal(t, 2, calls)
	assert.False(t, e.Active())
}

func TestEstimatorPushBelowFFTCountDoesNotReport(t *testing.T) {
	e, err := New()
	require.NoError(t, err)

	var calls int
	e.SetCallback(func(snrRatio, pilotDB float64) bool {
		calls++
		return true
	})

	buf := make([]iq.Sample, FFTSize*(FFTCount-1))
	e.Push(buf)
	assert.Zero(t, calls)
}

func TestEstimatorResetClearsAccumulators(t *testing.T) {
	e, err := New()
	require.NoError(t, err)

	buf := make([]iq.Sample, FFTSize*4)
	e.Push(buf)
	e.Reset()

	fresh, err := New()
	require.NoError(t, err)

	var gotFresh, gotReset bool
	fresh.SetCallback(func(float64, float64) bool { gotFresh = true; return true })
	e.SetCallback(func(float64, float64) bool { gotReset = true; return true })

	full := make([]iq.Sample, FFTSize*FFTCount)
	fresh.Push(full)
	e.Push(full)
	assert.Equal(t, gotFresh, gotReset)
}
