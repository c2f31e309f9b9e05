package ratelimit

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterSpacesConcurrentStarts(t *testing.T) {
	const delay = 50 * time.Millisecond
	const callers = 5

	l := New(delay)

	var mu sync.Mutex
	var starts []time.Time

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := l.Do(func() error {
				mu.Lock()
				starts = append(starts, time.Now())
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Len(t, starts, callers)
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })

	// allow a little scheduling jitter between wait returning and the
	// start timestamp being taken
	const epsilon = 10 * time.Millisecond
	for i := 1; i < len(starts); i++ {
		gap := starts[i].Sub(starts[i-1])
		assert.GreaterOrEqual(t, gap, delay-epsilon,
			"starts %d and %d only %v apart", i-1, i, gap)
	}
}

func TestLimiterFirstCallDoesNotWait(t *testing.T) {
	l := New(time.Hour)

	slept := false
	l.now = func() time.Time { return time.Unix(1000, 0) }
	l.sleep = func(time.Duration) { slept = true }

	err := l.Do(func() error { return nil })
	require.NoError(t, err)
	assert.False(t, slept)
}

func TestLimiterAdvancesToWakeTarget(t *testing.T) {
	const delay = time.Second

	l := New(delay)

	current := time.Unix(1000, 0)
	var sleeps []time.Duration
	l.now = func() time.Time { return current }
	l.sleep = func(d time.Duration) {
		sleeps = append(sleeps, d)
		// simulate the sleep waking 3ms late
		current = current.Add(d + 3*time.Millisecond)
	}

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Do(func() error { return nil }))
	}

	require.Len(t, sleeps, 2)
	assert.Equal(t, delay, sleeps[0])
	// the recorded last-start is the wake target, so the late wake-up is
	// credited against the next wait instead of accumulating
	assert.Equal(t, delay-3*time.Millisecond, sleeps[1])
}

func TestLimiterPropagatesActionError(t *testing.T) {
	l := New(0)
	wantErr := assert.AnError
	err := l.Do(func() error { return wantErr })
	assert.ErrorIs(t, err, wantErr)
}
