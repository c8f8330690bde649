package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// silence in, silence out, in stereo-duplicated 4096-sample blocks (spec.md
// §8 scenario 1): every completed block is BlockSize samples long and all
// zero, and at least one block is produced.
func TestPostChainSilenceProducesZeroBlocks(t *testing.T) {
	c := NewPostChain()

	var blocks int
	for i := 0; i < 200000; i += 2 {
		if block, ok := c.Push(0, 0); ok {
			blocks++
			for _, s := range block {
				assert.Zero(t, s)
			}
			require.Len(t, block, BlockSize)
		}
	}
	assert.Greater(t, blocks, 0)
}

// Every completed block is stereo-duplicated: consecutive pairs are equal
// (spec.md §4.6 step 4, "L,R,L,R,..." with L==R since this core only
// produces mono audio).
func TestPostChainBlocksAreStereoDuplicated(t *testing.T) {
	c := NewPostChain()

	var gotBlock bool
	for i := 0; i < 400000 && !gotBlock; i += 2 {
		x := float32(1000 * ((i/2)%7 - 3))
		if block, ok := c.Push(x, -x); ok {
			gotBlock = true
			for j := 0; j+1 < len(block); j += 2 {
				assert.Equal(t, block[j], block[j+1])
			}
		}
	}
	require.True(t, gotBlock)
}

func TestPostChainResetMatchesFreshChain(t *testing.T) {
	c := NewPostChain()
	for i := 0; i < 5000; i++ {
		c.Push(float32(i%11), float32(-(i % 7)))
	}
	c.Reset()

	fresh := NewPostChain()
	for i := 0; i < 1000; i++ {
		b1, ok1 := fresh.Push(5, -5)
		b2, ok2 := c.Push(5, -5)
		assert.Equal(t, ok1, ok2)
		assert.Equal(t, b1, b2)
	}
}

func TestClampI16(t *testing.T) {
	assert.Equal(t, int16(32767), clampI16(1e9))
	assert.Equal(t, int16(-32768), clampI16(-1e9))
	assert.Equal(t, int16(100), clampI16(100))
}
