package legacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hz.tools/rf"
	"hz.tools/sdr/fft"
)

func TestFilterSetsPassbandBinsToUnity(t *testing.T) {
	dst := make([]complex64, 1024)
	err := filter(dst, 48000, fft.ZeroFirst, 0, rf.KHz*10)
	require.NoError(t, err)

	var setCount int
	for _, v := range dst {
		if v == complex64(complex(1, 0)) {
			setCount++
		}
	}
	assert.Greater(t, setCount, 0, "at least one bin in the passband should be set")
	assert.Less(t, setCount, len(dst), "a band-select filter should not set every bin")
}

func TestFilterLeavesLengthUnchanged(t *testing.T) {
	dst := make([]complex64, 256)
	require.NoError(t, filter(dst, 48000, fft.ZeroFirst, 0, rf.KHz*5))
	assert.Len(t, dst, 256)
}
