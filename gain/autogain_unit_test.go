package gain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spec.md §8 scenario 4: "Feed a synthetic per-gain SNR table {2, 5, 9, 6,
// 3} ... expect the controller to select the gain index that produced the
// maximum (index 2, value 9)."
func TestSelectBestGainPicksArgmaxOfSyntheticTable(t *testing.T) {
	table := []float64{2, 5, 9, 6, 3}
	var calls int

	bestGain, bestSNR, err := selectBestGain(0, 4, 1, func(gain float64) (float64, error) {
		idx := int(gain)
		calls++
		return table[idx], nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2.0, bestGain)
	assert.Equal(t, 9.0, bestSNR)
	assert.Equal(t, 5, calls)
}

func TestSelectBestGainSkipsFailedSteps(t *testing.T) {
	bestGain, bestSNR, err := selectBestGain(0, 3, 1, func(gain float64) (float64, error) {
		if gain == 1 {
			return 0, errSkipGain
		}
		return gain, nil
	})

	require.NoError(t, err)
	// gain=1 is skipped (never considered), so the best of {0:0, 2:2, 3:3}
	// is gain=3.
	assert.Equal(t, 3.0, bestGain)
	assert.Equal(t, 3.0, bestSNR)
}

func TestSelectBestGainPropagatesHardErrors(t *testing.T) {
	wantErr := errors.New("device gone")
	_, _, err := selectBestGain(0, 2, 1, func(gain float64) (float64, error) {
		return 0, wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}

func TestSelectBestGainClampsFinalStepToMax(t *testing.T) {
	var seen []float64
	selectBestGain(0, 5, 2, func(gain float64) (float64, error) {
		seen = append(seen, gain)
		return 0, nil
	})
	// steps at 0, 2, 4, then the final partial step clamps to max (5)
	// rather than overshooting to 6.
	assert.Equal(t, []float64{0, 2, 4, 5}, seen)
}
