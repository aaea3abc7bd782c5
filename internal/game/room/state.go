package room

import (
	"time"

	"github.com/manty98/lakdi/internal/game/bot"
	"github.com/manty98/lakdi/internal/game/card"
	"github.com/manty98/lakdi/internal/types"
)

// Phase is the room lifecycle state.
type Phase int

const (
	PhaseLobby Phase = iota
	PhasePlaying
	PhaseDeclared
	PhaseRoundOver
	PhaseGameOver
)

// phaseNames maps phases to wire strings
var phaseNames = map[Phase]string{
	PhaseLobby:     "lobby",
	PhasePlaying:   "playing",
	PhaseDeclared:  "declared",
	PhaseRoundOver: "round_over",
	PhaseGameOver:  "game_over",
}

func (p Phase) String() string {
	return phaseNames[p]
}

// TurnStage is the sub-phase of the active player's turn.
type TurnStage int

const (
	StageDiscard TurnStage = iota // must discard 1-3 same-rank cards
	StageDraw                     // discard made, must draw one card
)

func (s TurnStage) String() string {
	if s == StageDraw {
		return "draw"
	}
	return "discard"
}

// Draw sources.
const (
	SourceStock = "stock"
	SourcePast  = "past"
)

// Player is a seat in the room. The seat, hand and score persist across
// disconnects; only Connected flips. Bot seats have no Client and carry
// a Brain instead.
type Player struct {
	ID        string
	Name      string
	Hand      []card.Card
	Score     int
	Connected bool
	IsHost    bool
	IsBot     bool

	Client types.ClientInterface // nil for bots
	Brain  bot.Brain             // nil for humans
}

// HandTotal returns the current point total of the player's hand.
func (p *Player) HandTotal() int {
	return card.Total(p.Hand)
}

// Declaration is the state of an open Lakdi call. Resolved is the sole
// guard against the race between a cut, unanimous passes and the
// timeout fallback: the first path to flip it wins, the rest no-op.
type Declaration struct {
	CallerID   string
	HandTotals map[string]int // snapshot at call time, playerID -> total
	OpenedAt   time.Time
	Deadline   time.Time // player-visible window end
	Responded  map[string]bool
	Resolved   bool
}
