package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	roomKeyPrefix  = "lakdi:room:"
	leaderboardKey = "lakdi:leaderboard"

	// abandoned rooms linger in Redis long enough for a reconnect wave
	roomTTL = 2 * time.Hour
)

// PlayerState is the persisted view of a seat.
type PlayerState struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Score     int    `json:"score"`
	Connected bool   `json:"connected"`
	IsBot     bool   `json:"is_bot"`
}

// RoomState is the persisted room mirror: roster and scores, not the
// live card state. The authoritative game lives in memory; the mirror
// exists for observability and post-crash inspection.
type RoomState struct {
	Code         string        `json:"code"`
	Phase        string        `json:"phase"`
	Round        int           `json:"round"`
	EndThreshold int           `json:"end_threshold"`
	Players      []PlayerState `json:"players"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// LeaderboardEntry is one line of the cross-room win tally.
type LeaderboardEntry struct {
	Name string
	Wins int
}

// RedisStore mirrors room state into Redis and keeps the win
// leaderboard.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects and pings. Callers may treat failure as
// non-fatal and run without a mirror.
func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &RedisStore{client: client}, nil
}

// SaveRoom writes the room mirror with a sliding TTL.
func (s *RedisStore) SaveRoom(ctx context.Context, state *RoomState) error {
	state.UpdatedAt = time.Now()
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal room %s: %w", state.Code, err)
	}
	return s.client.Set(ctx, roomKeyPrefix+state.Code, data, roomTTL).Err()
}

// LoadRoom reads a room mirror. A missing key returns (nil, nil).
func (s *RedisStore) LoadRoom(ctx context.Context, code string) (*RoomState, error) {
	data, err := s.client.Get(ctx, roomKeyPrefix+code).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var state RoomState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("unmarshal room %s: %w", code, err)
	}
	return &state, nil
}

// DeleteRoom drops a room mirror.
func (s *RedisStore) DeleteRoom(ctx context.Context, code string) error {
	return s.client.Del(ctx, roomKeyPrefix+code).Err()
}

// RecordWin bumps a player's tally on the global leaderboard.
func (s *RedisStore) RecordWin(ctx context.Context, playerName string) error {
	return s.client.ZIncrBy(ctx, leaderboardKey, 1, playerName).Err()
}

// TopPlayers returns the n best win tallies, best first.
func (s *RedisStore) TopPlayers(ctx context.Context, n int) ([]LeaderboardEntry, error) {
	zs, err := s.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(zs))
	for _, z := range zs {
		name, _ := z.Member.(string)
		entries = append(entries, LeaderboardEntry{Name: name, Wins: int(z.Score)})
	}
	return entries, nil
}

// Close releases the connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
