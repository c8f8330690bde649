package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestIIRZeroInputStaysZero(t *testing.T) {
	f := NewIIR(FMDeemphTaps)
	for i := 0; i < 32; i++ {
		y := f.Execute(0)
		assert.Zero(t, y)
	}
}

func TestIIRResetMatchesFreshFilter(t *testing.T) {
	f := NewIIR(FMLowpassTaps)
	for i := 0; i < 100; i++ {
		f.Execute(float32(i % 7))
	}
	f.Reset()

	fresh := NewIIR(FMLowpassTaps)
	for i := 0; i < 16; i++ {
		assert.Equal(t, fresh.Execute(3), f.Execute(3))
	}
}

// A single-pole de-emphasis filter driven by a bounded input never
// produces NaN or Inf output (spec.md §8: boundedness of the IIR cascade).
func TestIIRBoundedInputNeverProducesNaNOrInf(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := NewIIR(FMDeemphTaps)
		n := rapid.IntRange(1, 500).Draw(t, "samples")
		for i := 0; i < n; i++ {
			x := float32(rapid.Float64Range(-32768, 32767).Draw(t, "x"))
			y := f.Execute(x)
			assert.False(t, math.IsNaN(float64(y)))
			assert.False(t, math.IsInf(float64(y), 0))
		}
	})
}

func TestIIRLowpassBandstopNeverProduceNaNOrInf(t *testing.T) {
	for _, taps := range []IIRTaps{FMLowpassTaps, FMBandstopTaps, FMDeemphTaps} {
		f := NewIIR(taps)
		for i := 0; i < 1000; i++ {
			x := float32(math.Sin(float64(i) * 0.1))
			y := f.Execute(x)
			assert.False(t, math.IsNaN(float64(y)))
			assert.False(t, math.IsInf(float64(y), 0))
		}
	}
}
