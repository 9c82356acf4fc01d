package relayq_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skellylogs/internal/relayq"
)

func TestGetBeforeCreate(t *testing.T) {
	m := relayq.NewManager(true)
	_, err := m.Get()
	assert.ErrorIs(t, err, relayq.ErrNotCreated)
}

func TestCreateOrGetReturnsSameHandle(t *testing.T) {
	m := relayq.NewManager(true)
	first, err := m.CreateOrGet()
	require.NoError(t, err)
	second, err := m.CreateOrGet()
	require.NoError(t, err)
	assert.Equal(t, first.ID(), second.ID())

	got, err := m.Get()
	require.NoError(t, err)
	assert.Equal(t, first.ID(), got.ID())

	q, err := m.Queue()
	require.NoError(t, err)
	assert.Equal(t, relayq.DefaultCapacity, q.Cap())
}

func TestWorkerManagerDoesNotCreate(t *testing.T) {
	m := relayq.NewManager(false)
	_, err := m.CreateOrGet()
	assert.ErrorIs(t, err, relayq.ErrNotOwner)
	_, err = m.Get()
	assert.ErrorIs(t, err, relayq.ErrNotCreated)

	parent := relayq.NewQueue(4)
	require.NoError(t, m.Adopt(parent))
	h, err := m.CreateOrGet()
	require.NoError(t, err)
	assert.Equal(t, parent.ID(), h.ID())
}

func TestAdoptRejectsDifferentHandle(t *testing.T) {
	m := relayq.NewManager(true)
	require.NoError(t, m.Adopt(relayq.NewQueue(1)))
	assert.ErrorIs(t, m.Adopt(relayq.NewQueue(1)), relayq.ErrHandleSet)
	assert.Error(t, m.Adopt(nil))
}

func TestCapacityFixedUntilReset(t *testing.T) {
	m := relayq.NewManager(true)
	require.NoError(t, m.SetCapacity(10))
	_, err := m.CreateOrGet()
	require.NoError(t, err)
	q, err := m.Queue()
	require.NoError(t, err)
	assert.Equal(t, 10, q.Cap())

	assert.NoError(t, m.SetCapacity(10))
	assert.ErrorIs(t, m.SetCapacity(20), relayq.ErrCapacityFixed)

	m.Reset()
	_, err = m.Get()
	assert.ErrorIs(t, err, relayq.ErrNotCreated)
	require.NoError(t, m.SetCapacity(20))
	_, err = m.CreateOrGet()
	require.NoError(t, err)
	q, err = m.Queue()
	require.NoError(t, err)
	assert.Equal(t, 20, q.Cap())
	assert.Error(t, m.SetCapacity(0))
}

func TestQueueOnForwardingHandle(t *testing.T) {
	m := relayq.NewManager(false)
	w := relayq.NewLineWriter(discard{}, 1)
	defer w.Close()
	require.NoError(t, m.Adopt(w))
	_, err := m.Queue()
	assert.Error(t, err)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
