package room

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/manty98/lakdi/internal/apperrors"
	"github.com/manty98/lakdi/internal/config"
	"github.com/manty98/lakdi/internal/logger"
	"github.com/manty98/lakdi/internal/server/storage"
	"github.com/manty98/lakdi/internal/types"
)

// room codes avoid 0/O and 1/I, people read these out loud
const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 4

	cleanupInterval = time.Minute
	saveTimeout     = 3 * time.Second
)

// Manager owns the live room registry. Persistence is asynchronous: a
// change enqueues the room code and a worker mirrors it to Redis, so
// the game loop never waits on the network.
type Manager struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	cfg   *config.Config
	store *storage.RedisStore // nil when running without Redis

	saveCh chan string
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewManager starts the registry with its cleanup and save workers.
func NewManager(cfg *config.Config, store *storage.RedisStore) *Manager {
	m := &Manager{
		rooms:  make(map[string]*Room),
		cfg:    cfg,
		store:  store,
		saveCh: make(chan string, 64),
		stopCh: make(chan struct{}),
	}
	m.wg.Add(2)
	go m.cleanupLoop()
	go m.saveLoop()
	return m
}

// CreateRoom opens a fresh room and seats the creator as host.
func (m *Manager) CreateRoom(client types.ClientInterface, name string) (*Room, error) {
	m.mu.Lock()
	code := m.generateCode()
	r := NewRoom(code, &m.cfg.Game)
	r.SetOnChange(m.enqueueSave)
	r.SetOnGameOver(m.recordWin)
	m.rooms[code] = r
	m.mu.Unlock()

	logger.LogInfo("Room %s created", code)
	if err := r.Join(client, name); err != nil {
		m.RemoveRoom(code)
		return nil, err
	}
	return r, nil
}

// JoinRoom seats a player in an existing room by code.
func (m *Manager) JoinRoom(client types.ClientInterface, code, name string) (*Room, error) {
	r, err := m.GetRoom(code)
	if err != nil {
		return nil, err
	}
	if err := r.Join(client, name); err != nil {
		return nil, err
	}
	return r, nil
}

// GetRoom looks up a room by its code, case-insensitively.
func (m *Manager) GetRoom(code string) (*Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[strings.ToUpper(code)]
	if !ok {
		return nil, apperrors.ErrRoomNotFound
	}
	return r, nil
}

// RoomCount returns the number of live rooms.
func (m *Manager) RoomCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// HandleDisconnect flips the client's seat offline and drops the room
// if that emptied it.
func (m *Manager) HandleDisconnect(client types.ClientInterface) {
	code := client.GetRoom()
	if code == "" {
		return
	}
	r, err := m.GetRoom(code)
	if err != nil {
		return
	}

	r.MarkDisconnected(client.GetID())
	if r.PlayerCount() == 0 {
		m.RemoveRoom(code)
	}
}

// RemoveRoom stops a room's timers and drops it from the registry and
// the mirror.
func (m *Manager) RemoveRoom(code string) {
	m.mu.Lock()
	r, ok := m.rooms[code]
	if ok {
		delete(m.rooms, code)
	}
	m.mu.Unlock()
	if !ok {
		return
	}

	r.Stop()
	logger.LogInfo("Room %s removed", code)
	if m.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := m.store.DeleteRoom(ctx, code); err != nil {
			logger.LogError("Room %s: mirror delete failed: %v", code, err)
		}
	}
}

// Shutdown stops every room and the background workers.
func (m *Manager) Shutdown() {
	close(m.stopCh)
	m.wg.Wait()

	m.mu.Lock()
	for code, r := range m.rooms {
		r.Stop()
		delete(m.rooms, code)
	}
	m.mu.Unlock()
}

func (m *Manager) generateCode() string {
	for {
		b := make([]byte, codeLength)
		for i := range b {
			b[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
		}
		code := string(b)
		if _, exists := m.rooms[code]; !exists {
			return code
		}
	}
}

// enqueueSave is called from inside a room with its lock held; it must
// never block, a dropped save just means the next change mirrors sooner.
func (m *Manager) enqueueSave(code string) {
	select {
	case m.saveCh <- code:
	default:
	}
}

func (m *Manager) recordWin(winnerName string) {
	if m.store == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := m.store.RecordWin(ctx, winnerName); err != nil {
			logger.LogError("Leaderboard update failed for %s: %v", winnerName, err)
		}
	}()
}

func (m *Manager) saveLoop() {
	defer m.wg.Done()
	for {
		select {
		case <-m.stopCh:
			return
		case code := <-m.saveCh:
			if m.store == nil {
				continue
			}
			r, err := m.GetRoom(code)
			if err != nil {
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
			if err := m.store.SaveRoom(ctx, r.PersistState()); err != nil {
				logger.LogError("Room %s: mirror save failed: %v", code, err)
			}
			cancel()
		}
	}
}

func (m *Manager) cleanupLoop() {
	defer m.wg.Done()
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.evictStale()
		}
	}
}

// evictStale removes rooms nobody is listening to anymore: empty
// lobbies, finished games and tables whose humans all walked away.
func (m *Manager) evictStale() {
	timeout := m.cfg.Game.RoomTimeoutDuration()

	m.mu.RLock()
	candidates := make([]*Room, 0)
	for _, r := range m.rooms {
		candidates = append(candidates, r)
	}
	m.mu.RUnlock()

	for _, r := range candidates {
		idle := time.Since(r.LastActivity())
		switch {
		case r.PlayerCount() == 0:
			m.RemoveRoom(r.Code)
		case !r.HasConnectedHumans() && idle > timeout:
			m.RemoveRoom(r.Code)
		case r.Phase() == PhaseGameOver && idle > timeout:
			m.RemoveRoom(r.Code)
		}
	}
}
