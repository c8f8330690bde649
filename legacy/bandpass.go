package legacy

import (
	"hz.tools/rf"
	"hz.tools/sdr/fft"
)

// filter designs a brick-wall band-select filter in frequency space, used
// to isolate the channel of interest before the fixture demodulator
// downsamples it. Unchanged from the teacher's internal/bandpass.go.
func filter(
	dst []complex64,
	sampleRate uint,
	order fft.Order,
	cf rf.Hz,
	dv rf.Hz,
) error {
	bins, err := fft.BinsByRange(dst, sampleRate, order, rf.Range{cf - dv, cf + dv})
	if err != nil {
		return err
	}

	for _, idx := range bins {
		dst[idx] = complex64(complex(1, 0))
	}

	return nil
}
