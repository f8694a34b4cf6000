package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, max int, window time.Duration) (*Limiter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := Connect(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewLimiter(client, max, window), mr
}

func TestLimiter_BlocksAfterMax(t *testing.T) {
	ctx := context.Background()
	limiter, _ := newTestLimiter(t, 3, time.Minute)

	for i := 0; i < 3; i++ {
		allowed, err := limiter.AllowIPRequestWithPurpose(ctx, "10.0.0.1", "login")
		require.NoError(t, err)
		assert.True(t, allowed, "request %d", i+1)
	}

	allowed, err := limiter.AllowIPRequestWithPurpose(ctx, "10.0.0.1", "login")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestLimiter_ConcurrentBurstNeverExceedsMax(t *testing.T) {
	ctx := context.Background()
	limiter, _ := newTestLimiter(t, 5, time.Minute)

	const callers = 40
	var (
		wg      sync.WaitGroup
		granted atomic.Int32
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed, err := limiter.AllowIPRequestWithPurpose(ctx, "10.0.0.1", "register")
			if assert.NoError(t, err) && allowed {
				granted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(5), granted.Load())
}

func TestLimiter_KeysArePerPurposeAndIP(t *testing.T) {
	ctx := context.Background()
	limiter, _ := newTestLimiter(t, 1, time.Minute)

	allowed, err := limiter.AllowIPRequestWithPurpose(ctx, "10.0.0.1", "login")
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = limiter.AllowIPRequestWithPurpose(ctx, "10.0.0.1", "register")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = limiter.AllowIPRequestWithPurpose(ctx, "10.0.0.2", "login")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = limiter.AllowIPRequestWithPurpose(ctx, "10.0.0.1", "login")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestLimiter_WindowExpires(t *testing.T) {
	ctx := context.Background()
	limiter, mr := newTestLimiter(t, 1, time.Minute)

	allowed, err := limiter.AllowIPRequestWithPurpose(ctx, "10.0.0.1", "login")
	require.NoError(t, err)
	require.True(t, allowed)
	assert.Equal(t, time.Minute, mr.TTL(getIPKey("10.0.0.1", "login")))

	allowed, err = limiter.AllowIPRequestWithPurpose(ctx, "10.0.0.1", "login")
	require.NoError(t, err)
	require.False(t, allowed)
	assert.Equal(t, time.Minute, mr.TTL(getIPKey("10.0.0.1", "login")), "later requests keep the window")

	mr.FastForward(time.Minute + time.Second)

	allowed, err = limiter.AllowIPRequestWithPurpose(ctx, "10.0.0.1", "login")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestConnect_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := Connect(context.Background(), addr, "", 0)
	assert.Error(t, err)
}
