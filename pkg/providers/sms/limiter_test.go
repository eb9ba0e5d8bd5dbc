package sms

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notifykit/notifykit/pkg/notification"
)

func TestLimiter_Ceilings(t *testing.T) {
	t.Parallel()

	t.Run("hourly count ceiling", func(t *testing.T) {
		t.Parallel()

		l := NewLimiter(3, 100, 0.01)
		for i := 0; i < 3; i++ {
			require.NoError(t, l.Reserve("u-1"))
		}

		err := l.Reserve("u-1")
		require.Error(t, err)
		assert.True(t, notification.IsPolicyRejection(err))

		u := l.Usage("u-1")
		assert.Equal(t, 3, u.HourlySent)
		assert.Equal(t, 0, u.RemainingHourly)
		// A rejected attempt must not move the counters.
		assert.Equal(t, 3, l.Usage("u-1").HourlySent)
	})

	t.Run("daily cost ceiling", func(t *testing.T) {
		t.Parallel()

		l := NewLimiter(100, 0.05, 0.02)
		require.NoError(t, l.Reserve("u-1"))
		require.NoError(t, l.Reserve("u-1"))

		// Third send would take spend to 0.06, above the 0.05 ceiling.
		err := l.Reserve("u-1")
		require.Error(t, err)
		assert.True(t, notification.IsPolicyRejection(err))

		u := l.Usage("u-1")
		assert.InDelta(t, 0.04, u.DailyCost, 1e-9)
		assert.InDelta(t, 0.01, u.RemainingDailyCost, 1e-9)
	})

	t.Run("users do not share windows", func(t *testing.T) {
		t.Parallel()

		l := NewLimiter(1, 100, 0.01)
		require.NoError(t, l.Reserve("u-1"))
		require.Error(t, l.Reserve("u-1"))
		require.NoError(t, l.Reserve("u-2"))
	})

	t.Run("both counters advance together", func(t *testing.T) {
		t.Parallel()

		l := NewLimiter(10, 1.00, 0.05)
		for i := 0; i < 4; i++ {
			require.NoError(t, l.Reserve("u-1"))
		}

		u := l.Usage("u-1")
		assert.Equal(t, 4, u.HourlySent)
		assert.InDelta(t, 0.20, u.DailyCost, 1e-9)
	})
}

func TestLimiter_Release(t *testing.T) {
	t.Parallel()

	t.Run("hands back both counters", func(t *testing.T) {
		t.Parallel()

		l := NewLimiter(1, 0.05, 0.05)
		require.NoError(t, l.Reserve("u-1"))
		l.Release("u-1")

		u := l.Usage("u-1")
		assert.Equal(t, 0, u.HourlySent)
		assert.Zero(t, u.DailyCost)
		// The released quota is reservable again.
		require.NoError(t, l.Reserve("u-1"))
	})

	t.Run("clamps at zero after lazy reset", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
		l := NewLimiter(2, 100, 0.01)
		l.now = func() time.Time { return now }

		require.NoError(t, l.Reserve("u-1"))

		// The hourly window elapses in flight; the late release must
		// not push the fresh counter negative.
		now = now.Add(time.Hour)
		l.Release("u-1")

		u := l.Usage("u-1")
		assert.Equal(t, 0, u.HourlySent)
		assert.Equal(t, 2, u.RemainingHourly)
	})
}

func TestLimiter_ConcurrentReserve(t *testing.T) {
	t.Parallel()

	const ceiling = 5
	l := NewLimiter(ceiling, 100, 0.01)

	var wg sync.WaitGroup
	granted := make(chan struct{}, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Reserve("u-1") == nil {
				granted <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(granted)

	assert.Len(t, granted, ceiling)
	assert.Equal(t, ceiling, l.Usage("u-1").HourlySent)
}

func TestLimiter_LazyReset(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	l := NewLimiter(3, 0.25, 0.05)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Reserve("u-1"))
	}
	require.Error(t, l.Reserve("u-1"))

	// The hourly window elapses; daily spend carries over at 0.15.
	now = now.Add(time.Hour)
	require.NoError(t, l.Reserve("u-1"))
	u := l.Usage("u-1")
	assert.Equal(t, 1, u.HourlySent)
	assert.InDelta(t, 0.20, u.DailyCost, 1e-9)

	// Spend reaches the 0.25 daily ceiling and the next reserve is a
	// daily rejection despite hourly headroom.
	require.NoError(t, l.Reserve("u-1"))
	err := l.Reserve("u-1")
	require.Error(t, err)
	assert.True(t, notification.IsPolicyRejection(err))
	assert.InDelta(t, 0.25, l.Usage("u-1").DailyCost, 1e-9)

	// After the daily window elapses both ceilings are fresh.
	now = now.Add(24 * time.Hour)
	require.NoError(t, l.Reserve("u-1"))
	fresh := l.Usage("u-1")
	assert.Equal(t, 1, fresh.HourlySent)
	assert.InDelta(t, 0.05, fresh.DailyCost, 1e-9)
}
