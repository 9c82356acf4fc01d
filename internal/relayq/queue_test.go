package relayq_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skellylogs/internal/record"
	"skellylogs/internal/relayq"
)

func rec(msg string) record.FlatRecord {
	return record.FlatRecord{Message: msg, LevelName: "INFO", LevelNo: 20}
}

func TestQueueFIFO(t *testing.T) {
	q := relayq.NewQueue(3)
	require.NoError(t, q.TryPush(rec("a")))
	require.NoError(t, q.TryPush(rec("b")))
	assert.Equal(t, 2, q.Len())
	assert.Equal(t, 3, q.Cap())

	got, ok := q.TryPop()
	require.True(t, ok)
	assert.Equal(t, "a", got.Message)
	got, ok = q.TryPop()
	require.True(t, ok)
	assert.Equal(t, "b", got.Message)
	_, ok = q.TryPop()
	assert.False(t, ok)
}

func TestQueueFullRejectsNewestAndKeepsOrder(t *testing.T) {
	q := relayq.NewQueue(2)
	require.NoError(t, q.TryPush(rec("first")))
	require.NoError(t, q.TryPush(rec("second")))

	done := make(chan error, 1)
	go func() { done <- q.TryPush(rec("third")) }()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, relayq.ErrFull)
	case <-time.After(time.Second):
		t.Fatal("TryPush blocked on a full queue")
	}

	drained := q.Drain(0)
	require.Len(t, drained, 2)
	assert.Equal(t, "first", drained[0].Message)
	assert.Equal(t, "second", drained[1].Message)
}

func TestQueueWrapsAround(t *testing.T) {
	q := relayq.NewQueue(2)
	for i, msg := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, q.TryPush(rec(msg)), i)
		got, ok := q.TryPop()
		require.True(t, ok)
		assert.Equal(t, msg, got.Message)
	}
}

func TestQueueDefaultCapacity(t *testing.T) {
	assert.Equal(t, relayq.DefaultCapacity, relayq.NewQueue(0).Cap())
	assert.NotEmpty(t, relayq.NewQueue(1).ID())
	assert.NotEqual(t, relayq.NewQueue(1).ID(), relayq.NewQueue(1).ID())
}

func TestPopWaitsForPush(t *testing.T) {
	q := relayq.NewQueue(1)
	got := make(chan record.FlatRecord, 1)
	go func() {
		r, err := q.Pop(context.Background())
		if err == nil {
			got <- r
		}
	}()
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, q.TryPush(rec("late")))
	select {
	case r := <-got:
		assert.Equal(t, "late", r.Message)
	case <-time.After(2 * time.Second):
		t.Fatal("Pop did not wake")
	}
}

func TestPopHonoursContext(t *testing.T) {
	q := relayq.NewQueue(1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := q.Pop(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestCloseDrainsThenFails(t *testing.T) {
	q := relayq.NewQueue(2)
	require.NoError(t, q.TryPush(rec("kept")))
	require.NoError(t, q.Close())
	assert.ErrorIs(t, q.TryPush(rec("late")), relayq.ErrClosed)

	r, err := q.Pop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "kept", r.Message)
	_, err = q.Pop(context.Background())
	assert.ErrorIs(t, err, relayq.ErrClosed)
}

func TestDrainLimit(t *testing.T) {
	q := relayq.NewQueue(5)
	for _, m := range []string{"a", "b", "c"} {
		require.NoError(t, q.TryPush(rec(m)))
	}
	assert.Len(t, q.Drain(2), 2)
	assert.Equal(t, 1, q.Len())
}
