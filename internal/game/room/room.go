package room

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/manty98/lakdi/internal/apperrors"
	"github.com/manty98/lakdi/internal/config"
	"github.com/manty98/lakdi/internal/game/bot"
	"github.com/manty98/lakdi/internal/game/card"
	"github.com/manty98/lakdi/internal/logger"
	"github.com/manty98/lakdi/internal/server/storage"
	"github.com/manty98/lakdi/internal/types"
)

const (
	MinPlayers = 2
	MaxPlayers = 6

	// slack added on top of the player-visible turn deadline so that a
	// discard arriving on the wire at the last moment still lands
	timerGrace = 25 * time.Millisecond
)

// Room is a single game table. One mutex serializes every mutation:
// player commands, timer callbacks and bot turns all funnel through it,
// so the state machine never sees concurrent writers.
type Room struct {
	Code string

	mu sync.Mutex

	phase   Phase
	players []*Player

	round        int
	startIdx     int // seat that opens the current round, rotates each round
	activeIdx    int
	stage        TurnStage
	turnsElapsed int

	stock     card.Deck
	immediate []card.Card // active player's face-up discard, draw not yet taken
	past      []card.Card // previous player's completed discard
	retired   []card.Card // replaced past piles, out of circulation this round

	declaration *Declaration

	handSize     int
	turnDuration time.Duration
	cutWindow    time.Duration
	cutFallback  time.Duration
	botDelay     time.Duration
	reshuffle    bool
	endThreshold int

	turnDeadline time.Time
	turnTimer    *time.Timer
	declTimer    *time.Timer
	turnSeq      int // bumped on every turn transition; stale timers check it and bail

	createdAt    time.Time
	lastActivity time.Time

	onChange   func(code string)       // manager hook for the persistence mirror
	onGameOver func(winnerName string) // manager hook for the leaderboard
}

// NewRoom creates an empty lobby with the configured rule parameters.
func NewRoom(code string, cfg *config.GameConfig) *Room {
	now := time.Now()
	return &Room{
		Code:         code,
		phase:        PhaseLobby,
		handSize:     cfg.HandSize,
		turnDuration: cfg.TurnDuration(),
		cutWindow:    cfg.CutWindow(),
		cutFallback:  cfg.CutFallback(),
		botDelay:     cfg.BotDelay(),
		reshuffle:    cfg.ReshuffleStock,
		endThreshold: cfg.EndThreshold,
		createdAt:    now,
		lastActivity: now,
	}
}

// Join seats a new player, or reattaches a disconnected one whose name
// matches after the game has started.
func (r *Room) Join(client types.ClientInterface, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()

	if seat := r.playerByName(name); seat != nil {
		if seat.Connected || seat.IsBot {
			return apperrors.ErrNameTaken
		}
		r.reattach(seat, client)
		return nil
	}

	if r.phase != PhaseLobby {
		return apperrors.ErrGameStarted
	}
	if len(r.players) >= MaxPlayers {
		return apperrors.ErrRoomFull
	}

	p := &Player{
		ID:        client.GetID(),
		Name:      name,
		Connected: true,
		IsHost:    len(r.players) == 0,
		Client:    client,
	}
	r.players = append(r.players, p)
	client.SetRoom(r.Code)

	logger.LogInfo("Player %s joined room %s (%d/%d)", name, r.Code, len(r.players), MaxPlayers)
	r.pushState()
	r.notifyChange()
	return nil
}

// reattach hands an abandoned seat to a fresh connection. The seat
// adopts the new client ID, so any keys indexed by the old one move too.
func (r *Room) reattach(seat *Player, client types.ClientInterface) {
	oldID := seat.ID
	seat.ID = client.GetID()
	seat.Client = client
	seat.Connected = true
	client.SetRoom(r.Code)

	if d := r.declaration; d != nil {
		if total, ok := d.HandTotals[oldID]; ok {
			delete(d.HandTotals, oldID)
			d.HandTotals[seat.ID] = total
		}
		if d.Responded[oldID] {
			delete(d.Responded, oldID)
			d.Responded[seat.ID] = true
		}
		if d.CallerID == oldID {
			d.CallerID = seat.ID
		}
	}

	logger.LogInfo("Player %s reconnected to room %s", seat.Name, r.Code)
	r.pushState()
	r.notifyChange()
}

// AddBot seats a bot. Host only, lobby only.
func (r *Room) AddBot(requesterID string, difficulty bot.Difficulty) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()

	if err := r.requireHost(requesterID); err != nil {
		return err
	}
	if r.phase != PhaseLobby {
		return apperrors.ErrGameStarted
	}
	if len(r.players) >= MaxPlayers {
		return apperrors.ErrRoomFull
	}

	p := &Player{
		ID:        uuid.New().String(),
		Name:      r.nextBotName(difficulty),
		Connected: true,
		IsBot:     true,
		Brain:     bot.New(difficulty),
	}
	r.players = append(r.players, p)

	logger.LogInfo("Bot %s joined room %s (%d/%d)", p.Name, r.Code, len(r.players), MaxPlayers)
	r.pushState()
	r.notifyChange()
	return nil
}

func (r *Room) nextBotName(difficulty bot.Difficulty) string {
	n := 1
	for _, p := range r.players {
		if p.IsBot {
			n++
		}
	}
	return fmt.Sprintf("CPU-%d (%s)", n, difficulty)
}

// MarkDisconnected flips a seat offline. In the lobby the seat is
// removed outright; mid-game it persists so the player can rejoin.
func (r *Room) MarkDisconnected(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()

	idx := r.playerIndex(playerID)
	if idx < 0 {
		return
	}
	p := r.players[idx]

	if r.phase == PhaseLobby {
		r.players = append(r.players[:idx], r.players[idx+1:]...)
		if p.IsHost && len(r.players) > 0 {
			r.players[0].IsHost = true
		}
		logger.LogInfo("Player %s left lobby %s", p.Name, r.Code)
	} else {
		p.Connected = false
		p.Client = nil
		logger.LogInfo("Player %s disconnected from room %s", p.Name, r.Code)
	}

	r.pushState()
	r.notifyChange()
}

// HasConnectedHumans reports whether anyone is still listening.
func (r *Room) HasConnectedHumans() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.players {
		if !p.IsBot && p.Connected {
			return true
		}
	}
	return false
}

// Phase returns the current lifecycle phase.
func (r *Room) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

// PlayerCount returns the number of seats, bots included.
func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

// LastActivity returns when the room last processed a command.
func (r *Room) LastActivity() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastActivity
}

// SetOnChange installs the persistence hook. Called once by the
// manager before the room is shared.
func (r *Room) SetOnChange(fn func(code string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = fn
}

// SetOnGameOver installs the leaderboard hook.
func (r *Room) SetOnGameOver(fn func(winnerName string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onGameOver = fn
}

// PersistState builds the persisted mirror of the room: roster, scores
// and phase, not the live card state.
func (r *Room) PersistState() *storage.RoomState {
	r.mu.Lock()
	defer r.mu.Unlock()

	players := make([]storage.PlayerState, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, storage.PlayerState{
			ID:        p.ID,
			Name:      p.Name,
			Score:     p.Score,
			Connected: p.Connected,
			IsBot:     p.IsBot,
		})
	}
	return &storage.RoomState{
		Code:         r.Code,
		Phase:        r.phase.String(),
		Round:        r.round,
		EndThreshold: r.endThreshold,
		Players:      players,
	}
}

// Stop cancels pending timers. The room must not be used afterwards.
func (r *Room) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.turnSeq++
	if r.turnTimer != nil {
		r.turnTimer.Stop()
	}
	if r.declTimer != nil {
		r.declTimer.Stop()
	}
}

func (r *Room) touch() {
	r.lastActivity = time.Now()
}

func (r *Room) notifyChange() {
	if r.onChange != nil {
		r.onChange(r.Code)
	}
}

func (r *Room) requireHost(playerID string) error {
	p := r.playerByID(playerID)
	if p == nil {
		return apperrors.ErrNotInRoom
	}
	if !p.IsHost {
		return apperrors.ErrNotHost
	}
	return nil
}

func (r *Room) playerByID(id string) *Player {
	for _, p := range r.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *Room) playerIndex(id string) int {
	for i, p := range r.players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (r *Room) playerByName(name string) *Player {
	for _, p := range r.players {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}

func (r *Room) activePlayer() *Player {
	if r.activeIdx < 0 || r.activeIdx >= len(r.players) {
		return nil
	}
	return r.players[r.activeIdx]
}
