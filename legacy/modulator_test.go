package legacy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hz.tools/rf"
)

func TestEstimateBeta(t *testing.T) {
	// A 75kHz-deviation broadcast signal modulating a 15kHz audio tone
	// needs a modulation index of 5.
	beta := EstimateBeta(rf.KHz*75, 15000)
	assert.InDelta(t, 5.0, beta, 1e-9)
}

func TestEstimateBetaScalesWithBandwidth(t *testing.T) {
	narrow := EstimateBeta(rf.KHz*25, 15000)
	wide := EstimateBeta(rf.KHz*75, 15000)
	assert.Less(t, narrow, wide)
}
