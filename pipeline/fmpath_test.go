package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hz.tools/fmradio/iq"
)

func TestFMPathSilenceEventuallyEmitsZeroBlock(t *testing.T) {
	f := NewFMPath()
	buf := make([]iq.Sample, 4000)

	var gotBlock []int16
	for i := 0; i < 50 && gotBlock == nil; i++ {
		f.Process(buf, func(block []int16) {
			if gotBlock == nil {
				gotBlock = block
			}
		})
	}

	if assert.NotNil(t, gotBlock) {
		for _, s := range gotBlock {
			assert.Zero(t, s)
		}
	}
}

func TestFMPathResetMatchesFreshPath(t *testing.T) {
	f := NewFMPath()
	buf := make([]iq.Sample, 400)
	for i := range buf {
		buf[i] = iq.Sample{I: int16(i % 50), Q: int16(-(i % 37))}
	}
	f.Process(buf, func([]int16) {})
	f.Reset()

	fresh := NewFMPath()
	probe := []iq.Sample{{I: 1000, Q: -1000}, {I: 1000, Q: -1000}, {I: 1000, Q: -1000}, {I: 1000, Q: -1000}}

	var a, b []int16
	fresh.Process(probe, func(block []int16) { a = block })
	f.Process(probe, func(block []int16) { b = block })
	assert.Equal(t, a, b)
}
