package middleware

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCountMemorySurvivesSweep(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	config := RateLimitConfig{Limit: 1000, Window: time.Minute}
	const requests = 50

	for round := 0; round < 20; round++ {
		l := NewRateLimiter(nil, zap.NewNop())
		l.now = func() time.Time { return start }
		l.entries.Store("k", &rateLimitEntry{resetAt: start.Add(-time.Second)})

		var wg sync.WaitGroup
		for i := 0; i < requests; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				l.countMemory("k", config)
			}()
			go func() {
				defer wg.Done()
				l.sweep()
			}()
		}
		wg.Wait()

		value, ok := l.entries.Load("k")
		require.True(t, ok)
		assert.Equal(t, requests, value.(*rateLimitEntry).count, "round %d", round)
	}
}

func TestSweepDropsOnlyExpired(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewRateLimiter(nil, zap.NewNop())
	l.now = func() time.Time { return now }
	config := RateLimitConfig{Limit: 10, Window: time.Minute}

	l.countMemory("old", config)
	now = now.Add(2 * time.Minute)
	l.countMemory("new", config)
	l.sweep()

	_, oldKept := l.entries.Load("old")
	_, newKept := l.entries.Load("new")
	assert.False(t, oldKept)
	assert.True(t, newKept)

	count, _ := l.countMemory("old", config)
	assert.Equal(t, 1, count)
}
