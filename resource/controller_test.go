package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Memory(t *testing.T) {
	// Test with limit
	c := NewController(Config{MemoryLimitBytes: 100})
	assert.Equal(t, int64(100), c.MemoryLimit())

	// Acquire 50
	err := c.AcquireMemory(50)
	require.NoError(t, err)
	assert.Equal(t, int64(50), c.MemoryUsage())

	// Acquire 40
	err = c.AcquireMemory(40)
	require.NoError(t, err)
	assert.Equal(t, int64(90), c.MemoryUsage())

	// Acquire 20 (should fail - limit exceeded)
	err = c.AcquireMemory(20)
	assert.ErrorIs(t, err, ErrMemoryLimitExceeded)
	assert.Equal(t, int64(90), c.MemoryUsage())

	// Release 50
	c.ReleaseMemory(50)
	assert.Equal(t, int64(40), c.MemoryUsage())

	// Now Acquire 20 should succeed
	err = c.AcquireMemory(20)
	require.NoError(t, err)
	assert.Equal(t, int64(60), c.MemoryUsage())
}

func TestController_UnlimitedMemory(t *testing.T) {
	c := NewController(Config{})

	require.NoError(t, c.AcquireMemory(1000))
	assert.Equal(t, int64(1000), c.MemoryUsage())

	c.ReleaseMemory(500)
	assert.Equal(t, int64(500), c.MemoryUsage())
}

func TestController_Pending(t *testing.T) {
	c := NewController(Config{MaxPending: 2})

	require.NoError(t, c.AcquirePending(context.Background()))
	require.True(t, c.TryAcquirePending())
	assert.Equal(t, int64(2), c.Pending())

	// Third slot is not available.
	assert.False(t, c.TryAcquirePending())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.AcquirePending(ctx), context.DeadlineExceeded)

	c.ReleasePending()
	assert.True(t, c.TryAcquirePending())
	assert.Equal(t, int64(2), c.Pending())
}

func TestController_UnlimitedPending(t *testing.T) {
	c := NewController(Config{})
	for i := 0; i < 100; i++ {
		require.True(t, c.TryAcquirePending())
	}
	assert.Equal(t, int64(100), c.Pending())
}

func TestController_Admission(t *testing.T) {
	c := NewController(Config{RequestsPerSecond: 1, Burst: 2})

	assert.True(t, c.TryAdmit())
	cancelAdmit, ok := c.ReserveAdmission()
	assert.True(t, ok)
	cancelAdmit()
	assert.True(t, c.TryAdmit())
	assert.False(t, c.TryAdmit())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, c.Admit(ctx))

	// A canceled reservation returns its token.
	c3 := NewController(Config{RequestsPerSecond: 0.001, Burst: 1})
	cancelAdmit, ok = c3.ReserveAdmission()
	require.True(t, ok)
	cancelAdmit()
	cancelAdmit, ok = c3.ReserveAdmission()
	require.True(t, ok)
	_, ok = c3.ReserveAdmission()
	assert.False(t, ok)
	cancelAdmit()
	assert.True(t, c3.TryAdmit())

	// Unlimited
	c2 := NewController(Config{})
	for i := 0; i < 1000; i++ {
		require.True(t, c2.TryAdmit())
	}
	require.NoError(t, c2.Admit(context.Background()))
}

func TestController_NilChecks(t *testing.T) {
	var c *Controller
	assert.NoError(t, c.AcquireMemory(10))
	c.ReleaseMemory(10) // Should not panic
	assert.Zero(t, c.MemoryUsage())
	assert.Zero(t, c.MemoryLimit())
	assert.NoError(t, c.AcquirePending(context.Background()))
	assert.True(t, c.TryAcquirePending())
	c.ReleasePending()
	assert.Zero(t, c.Pending())
	assert.NoError(t, c.Admit(context.Background()))
	assert.True(t, c.TryAdmit())
}
