package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventLoopRunsInOrder(t *testing.T) {
	loop := NewEventLoop(8)
	defer loop.Close()

	var got []int
	for i := 0; i < 100; i++ {
		i := i
		require.True(t, loop.Post(func() { got = append(got, i) }))
	}
	require.NoError(t, loop.Do(context.Background(), func() {}))

	require.Len(t, got, 100)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestEventLoopAfter(t *testing.T) {
	loop := NewEventLoop(1)
	defer loop.Close()

	fired := make(chan struct{})
	loop.After(5*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("timer never fired")
	}
	assert.Eventually(t, func() bool { return loop.Pending() == 0 }, time.Second, 5*time.Millisecond)
}

func TestEventLoopCloseStopsTimers(t *testing.T) {
	loop := NewEventLoop(1)

	loop.After(time.Hour, func() { t.Error("timer fired after close") })
	assert.Equal(t, 1, loop.Pending())
	assert.True(t, loop.Alive())

	loop.Close()
	loop.Close()

	assert.False(t, loop.Alive())
	assert.Equal(t, 0, loop.Pending())
	assert.False(t, loop.Post(func() {}))
	assert.ErrorIs(t, loop.Do(context.Background(), func() {}), ErrLoopClosed)

	loop.After(time.Millisecond, func() { t.Error("timer armed after close") })
	assert.Equal(t, 0, loop.Pending())
}

func TestEventLoopDoHonoursContext(t *testing.T) {
	loop := NewEventLoop(1)
	defer loop.Close()

	release := make(chan struct{})
	require.True(t, loop.Post(func() { <-release }))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := loop.Do(ctx, func() {})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
}
