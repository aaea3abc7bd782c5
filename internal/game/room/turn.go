package room

import (
	"sort"
	"time"

	"github.com/manty98/lakdi/internal/apperrors"
	"github.com/manty98/lakdi/internal/config"
	"github.com/manty98/lakdi/internal/game/bot"
	"github.com/manty98/lakdi/internal/game/card"
	"github.com/manty98/lakdi/internal/logger"
)

// StartOptions are the host's per-game rule overrides. Zero values keep
// the room's configured defaults.
type StartOptions struct {
	HandSize     int
	TurnSeconds  int
	EndThreshold int
}

// StartRound begins the first round. Host only, lobby only, and the
// table needs at least two seats.
func (r *Room) StartRound(requesterID string, opts StartOptions) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()

	if err := r.requireHost(requesterID); err != nil {
		return err
	}
	if r.phase != PhaseLobby {
		return apperrors.ErrGameStarted
	}
	if len(r.players) < MinPlayers {
		return apperrors.ErrInsufficientPlayers
	}

	if opts.HandSize > 0 {
		r.handSize = config.ClampHandSize(opts.HandSize)
	}
	if opts.TurnSeconds > 0 {
		r.turnDuration = time.Duration(config.ClampTurnSeconds(opts.TurnSeconds)) * time.Second
	}
	if opts.EndThreshold > 0 {
		r.endThreshold = config.NormalizeEndThreshold(opts.EndThreshold)
	}

	logger.LogInfo("Room %s: game started with %d players", r.Code, len(r.players))
	r.dealRound()
	return nil
}

// dealRound shuffles fresh decks, deals every seat and opens the turn
// cycle at the rotating start seat. Caller holds the lock.
func (r *Room) dealRound() {
	r.round++
	r.stock = card.BuildDecks(len(r.players))

	// the deal plus the past-pile seed must fit the merged decks
	if maxHand := (len(r.stock) - 1) / len(r.players); r.handSize > maxHand {
		r.handSize = maxHand
	}
	r.immediate = nil
	r.past = nil
	r.retired = nil
	r.declaration = nil

	for _, p := range r.players {
		p.Hand = make([]card.Card, 0, r.handSize)
		for i := 0; i < r.handSize; i++ {
			p.Hand = append(p.Hand, r.popStock())
		}
	}

	// seed the past pile so the first player already has a visible draw
	r.past = []card.Card{r.popStock()}

	r.phase = PhasePlaying
	r.activeIdx = r.startIdx % len(r.players)
	r.stage = StageDiscard
	r.turnsElapsed = 0

	logger.LogInfo("Room %s: round %d dealt, %d cards in stock", r.Code, r.round, len(r.stock))
	r.armTurnTimer()
	r.pushState()
	r.notifyChange()
	r.scheduleBotTurn()
}

func (r *Room) popStock() card.Card {
	c := r.stock[len(r.stock)-1]
	r.stock = r.stock[:len(r.stock)-1]
	return c
}

// Discard places 1-3 same-rank cards face up as the active player's
// immediate discard. The turn deadline keeps running; only a completed
// draw advances the turn.
func (r *Room) Discard(playerID string, indices []int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	return r.discardLocked(playerID, indices)
}

func (r *Room) discardLocked(playerID string, indices []int) error {
	if err := r.requireActive(playerID, StageDiscard); err != nil {
		return err
	}
	p := r.activePlayer()

	picked, err := selectCards(p.Hand, indices)
	if err != nil {
		return err
	}

	// remove from the back so earlier indices stay valid
	sorted := append([]int(nil), indices...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	for _, i := range sorted {
		p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
	}

	r.immediate = picked
	r.stage = StageDraw

	logger.LogInfo("Room %s: %s discarded %d card(s)", r.Code, p.Name, len(picked))
	r.pushState()
	r.notifyChange()
	return nil
}

// selectCards validates a discard selection: 1-3 indices, distinct, in
// range, all one rank.
func selectCards(hand []card.Card, indices []int) ([]card.Card, error) {
	if len(indices) < 1 || len(indices) > 3 {
		return nil, apperrors.ErrInvalidDiscard
	}
	seen := make(map[int]bool, len(indices))
	picked := make([]card.Card, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(hand) || seen[i] {
			return nil, apperrors.ErrInvalidDiscard
		}
		seen[i] = true
		picked = append(picked, hand[i])
	}
	if !card.SameRank(picked) {
		return nil, apperrors.ErrInvalidDiscard
	}
	return picked, nil
}

// Draw completes the active player's turn with one card from the stock
// or the past pile. Completion retires the old past pile, promotes the
// immediate discard in its place and passes the turn.
func (r *Room) Draw(playerID string, source string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	return r.drawLocked(playerID, source)
}

func (r *Room) drawLocked(playerID string, source string) error {
	if err := r.requireActive(playerID, StageDraw); err != nil {
		return err
	}
	p := r.activePlayer()

	var drawn card.Card
	switch source {
	case SourcePast:
		if len(r.past) == 0 {
			return apperrors.ErrPastEmpty
		}
		drawn = r.past[len(r.past)-1]
		r.past = r.past[:len(r.past)-1]
	default:
		if len(r.stock) == 0 {
			if !r.tryReshuffle() {
				return apperrors.ErrStockEmpty
			}
		}
		drawn = r.popStock()
	}

	p.Hand = append(p.Hand, drawn)
	logger.LogInfo("Room %s: %s drew from %s", r.Code, p.Name, source)
	r.completeTurn()
	return nil
}

// tryReshuffle refills an empty stock from the past pile, keeping its
// top card visible. Disabled unless the variant is configured on.
func (r *Room) tryReshuffle() bool {
	if !r.reshuffle || len(r.past) < 2 {
		return false
	}
	top := r.past[len(r.past)-1]
	r.stock = card.Deck(r.past[:len(r.past)-1])
	r.stock.Shuffle()
	r.past = []card.Card{top}
	logger.LogInfo("Room %s: stock reshuffled from past pile (%d cards)", r.Code, len(r.stock))
	return true
}

// completeTurn retires the past pile, promotes the immediate discard
// and hands the turn to the next seat. Caller holds the lock.
func (r *Room) completeTurn() {
	if len(r.immediate) > 0 {
		r.retired = append(r.retired, r.past...)
		r.past = r.immediate
		r.immediate = nil
	}
	r.turnsElapsed++
	r.activeIdx = (r.activeIdx + 1) % len(r.players)
	r.stage = StageDiscard
	r.armTurnTimer()
	r.pushState()
	r.notifyChange()
	r.scheduleBotTurn()
}

// requireActive checks phase, turn ownership and sub-phase for a turn
// action. Caller holds the lock.
func (r *Room) requireActive(playerID string, stage TurnStage) error {
	switch r.phase {
	case PhasePlaying:
	case PhaseDeclared:
		return apperrors.ErrDeclarationInProgress
	default:
		return apperrors.ErrGameNotActive
	}
	p := r.playerByID(playerID)
	if p == nil {
		return apperrors.ErrNotInRoom
	}
	if r.activePlayer() != p || r.stage != stage {
		return apperrors.ErrNotYourTurn
	}
	return nil
}

// armTurnTimer restarts the per-turn deadline. Bumping turnSeq strands
// any callback already scheduled for the previous turn.
func (r *Room) armTurnTimer() {
	r.turnSeq++
	seq := r.turnSeq
	if r.turnTimer != nil {
		r.turnTimer.Stop()
	}
	r.turnDeadline = time.Now().Add(r.turnDuration)
	r.turnTimer = time.AfterFunc(r.turnDuration+timerGrace, func() {
		r.handleTurnTimeout(seq)
	})
}

// handleTurnTimeout plays the expired turn on the player's behalf:
// highest card out, one card drawn, turn passed. A stale seq means the
// turn already moved on and the callback does nothing.
func (r *Room) handleTurnTimeout(seq int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if seq != r.turnSeq || r.phase != PhasePlaying {
		return
	}
	r.touch()
	p := r.activePlayer()
	logger.LogInfo("Room %s: %s timed out, auto-playing", r.Code, p.Name)

	if r.stage == StageDiscard && len(p.Hand) > 0 {
		highest := 0
		for i, c := range p.Hand {
			if c.Value() > p.Hand[highest].Value() {
				highest = i
			}
		}
		r.immediate = []card.Card{p.Hand[highest]}
		p.Hand = append(p.Hand[:highest], p.Hand[highest+1:]...)
		r.stage = StageDraw
	}

	// auto-draw comes from the stock only; an exhausted stock just
	// passes the turn with the shorter hand
	if len(r.stock) > 0 || r.tryReshuffle() {
		p.Hand = append(p.Hand, r.popStock())
	}

	r.completeTurn()
}

// scheduleBotTurn queues the active bot's move after the pacing delay.
// The bot acts through the same validated paths as a human; a stale seq
// means the table changed and the move is abandoned.
func (r *Room) scheduleBotTurn() {
	if r.phase != PhasePlaying {
		return
	}
	p := r.activePlayer()
	if p == nil || !p.IsBot {
		return
	}
	seq := r.turnSeq
	time.AfterFunc(r.botDelay, func() {
		r.runBotTurn(seq)
	})
}

func (r *Room) runBotTurn(seq int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if seq != r.turnSeq || r.phase != PhasePlaying {
		return
	}
	p := r.activePlayer()
	if p == nil || !p.IsBot || r.stage != StageDiscard {
		return
	}
	r.touch()

	view := bot.View{
		Hand:       append([]card.Card(nil), p.Hand...),
		StockCount: len(r.stock),
		PastCount:  len(r.past),
		CanDeclare: r.turnsElapsed >= 1,
	}
	if len(r.past) > 0 {
		top := r.past[len(r.past)-1]
		view.PastTop = &top
	}

	d := p.Brain.Decide(view)
	if d.Declare {
		if err := r.declareLocked(p.ID); err == nil {
			return
		}
		// call rejected, play a normal turn instead
		view.CanDeclare = false
		d = p.Brain.Decide(view)
	}

	if err := r.discardLocked(p.ID, d.DiscardIndices); err != nil {
		logger.LogError("Room %s: bot %s discard rejected: %v", r.Code, p.Name, err)
		return // the deadline timer finishes the turn
	}
	if err := r.drawLocked(p.ID, d.DrawSource); err != nil {
		other := SourceStock
		if d.DrawSource == SourceStock {
			other = SourcePast
		}
		if err := r.drawLocked(p.ID, other); err != nil {
			logger.LogError("Room %s: bot %s cannot draw: %v", r.Code, p.Name, err)
		}
	}
}
