package clock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClock_StartsAtZero(t *testing.T) {
	c := New()
	assert.Equal(t, uint64(0), c.Ticks())
}

func TestClock_AdvanceIsMonotonic(t *testing.T) {
	c := New()
	prev := c.Ticks()
	for i := 0; i < 100; i++ {
		now := c.Advance()
		require.Greater(t, now, prev)
		prev = now
	}
	assert.Equal(t, uint64(100), c.Ticks())
}

func TestClock_ConcurrentAdvance(t *testing.T) {
	c := New()
	const workers = 8
	const perWorker = 1000

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				c.Advance()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(workers*perWorker), c.Ticks())
}
