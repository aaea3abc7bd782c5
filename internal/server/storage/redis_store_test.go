package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store, err := NewRedisStore(mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func sampleRoom() *RoomState {
	return &RoomState{
		Code:         "AB12",
		Phase:        "playing",
		Round:        2,
		EndThreshold: 200,
		Players: []PlayerState{
			{ID: "p1", Name: "Alice", Score: 63, Connected: true},
			{ID: "b1", Name: "CPU-1 (hard)", Score: 105, Connected: true, IsBot: true},
		},
	}
}

func TestSaveAndLoadRoom(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRoom(ctx, sampleRoom()))

	loaded, err := store.LoadRoom(ctx, "AB12")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "playing", loaded.Phase)
	assert.Equal(t, 2, loaded.Round)
	assert.Len(t, loaded.Players, 2)
	assert.Equal(t, 105, loaded.Players[1].Score)
	assert.False(t, loaded.UpdatedAt.IsZero())
}

func TestLoadMissingRoom(t *testing.T) {
	store, _ := newTestStore(t)

	loaded, err := store.LoadRoom(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestDeleteRoom(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRoom(ctx, sampleRoom()))
	require.NoError(t, store.DeleteRoom(ctx, "AB12"))

	loaded, err := store.LoadRoom(ctx, "AB12")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRoomExpiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRoom(ctx, sampleRoom()))
	mr.FastForward(roomTTL + time.Minute)

	loaded, err := store.LoadRoom(ctx, "AB12")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestLeaderboard(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordWin(ctx, "Alice"))
	require.NoError(t, store.RecordWin(ctx, "Alice"))
	require.NoError(t, store.RecordWin(ctx, "Bob"))

	top, err := store.TopPlayers(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, LeaderboardEntry{Name: "Alice", Wins: 2}, top[0])
	assert.Equal(t, LeaderboardEntry{Name: "Bob", Wins: 1}, top[1])
}
