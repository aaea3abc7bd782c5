package room

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manty98/lakdi/internal/apperrors"
	"github.com/manty98/lakdi/internal/config"
	"github.com/manty98/lakdi/internal/server/storage"
	"github.com/manty98/lakdi/internal/testutil"
)

func newTestManager(t *testing.T, store *storage.RedisStore) *Manager {
	t.Helper()
	m := NewManager(config.Default(), store)
	t.Cleanup(m.Shutdown)
	return m
}

func TestCreateAndJoinRoom(t *testing.T) {
	m := newTestManager(t, nil)

	host := testutil.NewFakeClient("p1", "alice")
	r, err := m.CreateRoom(host, "alice")
	require.NoError(t, err)

	assert.Len(t, r.Code, codeLength)
	for _, ch := range r.Code {
		assert.Contains(t, codeAlphabet, string(ch))
	}
	assert.Equal(t, r.Code, host.GetRoom())
	assert.Equal(t, 1, m.RoomCount())

	// codes are case-insensitive on join
	joined, err := m.JoinRoom(testutil.NewFakeClient("p2", "bob"), strings.ToLower(r.Code), "bob")
	require.NoError(t, err)
	assert.Same(t, r, joined)
	assert.Equal(t, 2, r.PlayerCount())
}

func TestJoinUnknownRoom(t *testing.T) {
	m := newTestManager(t, nil)

	_, err := m.JoinRoom(testutil.NewFakeClient("p1", "alice"), "ZZZZ", "alice")
	assert.ErrorIs(t, err, apperrors.ErrRoomNotFound)
}

func TestJoinFullRoomLeavesRegistryIntact(t *testing.T) {
	m := newTestManager(t, nil)

	host := testutil.NewFakeClient("p1", "alice")
	r, err := m.CreateRoom(host, "alice")
	require.NoError(t, err)

	_, err = m.JoinRoom(testutil.NewFakeClient("p2", "alice"), r.Code, "alice")
	assert.ErrorIs(t, err, apperrors.ErrNameTaken)
	assert.Equal(t, 1, m.RoomCount())
}

func TestDisconnectRemovesEmptyRoom(t *testing.T) {
	m := newTestManager(t, nil)

	host := testutil.NewFakeClient("p1", "alice")
	r, err := m.CreateRoom(host, "alice")
	require.NoError(t, err)

	m.HandleDisconnect(host)

	assert.Equal(t, 0, m.RoomCount())
	_, err = m.GetRoom(r.Code)
	assert.ErrorIs(t, err, apperrors.ErrRoomNotFound)
}

func TestEvictStale(t *testing.T) {
	m := newTestManager(t, nil)

	host := testutil.NewFakeClient("p1", "alice")
	r, err := m.CreateRoom(host, "alice")
	require.NoError(t, err)

	// a finished game that nobody touched for ages
	r.mu.Lock()
	r.phase = PhaseGameOver
	r.lastActivity = time.Now().Add(-time.Hour)
	r.mu.Unlock()

	m.evictStale()
	assert.Equal(t, 0, m.RoomCount())
}

func TestMirrorSavedToRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := storage.NewRedisStore(mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	m := newTestManager(t, store)

	host := testutil.NewFakeClient("p1", "alice")
	r, err := m.CreateRoom(host, "alice")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		state, err := store.LoadRoom(context.Background(), r.Code)
		return err == nil && state != nil
	}, time.Second, 10*time.Millisecond)

	state, err := store.LoadRoom(context.Background(), r.Code)
	require.NoError(t, err)
	assert.Equal(t, "lobby", state.Phase)
	require.Len(t, state.Players, 1)
	assert.Equal(t, "alice", state.Players[0].Name)

	// removal drops the mirror too
	m.RemoveRoom(r.Code)
	state, err = store.LoadRoom(context.Background(), r.Code)
	require.NoError(t, err)
	assert.Nil(t, state)
}
