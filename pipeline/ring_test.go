package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hz.tools/fmradio/iq"
)

// spec.md §8 scenario 6: "Push 1.1x the ring's capacity in one call ...
// expect a single overflow report and the pipeline still live (a
// subsequent push at a normal size succeeds)."
func TestIQRingOverflowThenRecovers(t *testing.T) {
	const capacity = 1000
	q := NewIQRing(capacity)

	over := make([]iq.Sample, int(float64(capacity)*1.1))
	for i := range over {
		over[i] = iq.Sample{I: int16(i), Q: int16(-i)}
	}

	ok := q.Push(over)
	assert.False(t, ok, "a push larger than capacity must report overflow")

	// The ring must still be usable afterward.
	normal := make([]iq.Sample, capacity/2)
	for i := range normal {
		normal[i] = iq.Sample{I: 7, Q: 7}
	}
	ok = q.Push(normal)
	require.True(t, ok, "pipeline must still be live after an overflow report")
	assert.Equal(t, normal, q.Unconsumed())
}

func TestIQRingConsumeAdvancesUnconsumedWindow(t *testing.T) {
	q := NewIQRing(16)
	samples := make([]iq.Sample, 8)
	for i := range samples {
		samples[i] = iq.Sample{I: int16(i)}
	}
	require.True(t, q.Push(samples))

	q.Consume(3)
	assert.Equal(t, samples[3:], q.Unconsumed())
}

func TestIQRingResetEmptiesBuffer(t *testing.T) {
	q := NewIQRing(16)
	q.Push(make([]iq.Sample, 4))
	q.Reset()
	assert.Empty(t, q.Unconsumed())
}
