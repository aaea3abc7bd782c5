package room

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manty98/lakdi/internal/apperrors"
	"github.com/manty98/lakdi/internal/game/bot"
	"github.com/manty98/lakdi/internal/game/card"
)

func TestStartRound(t *testing.T) {
	r, _ := newTestRoom(t, "alice", "bob", "carol")

	assert.ErrorIs(t, r.StartRound("p2", StartOptions{}), apperrors.ErrNotHost)
	require.NoError(t, r.StartRound("p1", StartOptions{}))
	assert.ErrorIs(t, r.StartRound("p1", StartOptions{}), apperrors.ErrGameStarted)

	r.mu.Lock()
	defer r.mu.Unlock()
	assert.Equal(t, PhasePlaying, r.phase)
	assert.Equal(t, 1, r.round)
	assert.Equal(t, 0, r.activeIdx)
	assert.Equal(t, StageDiscard, r.stage)
	for _, p := range r.players {
		assert.Len(t, p.Hand, 5)
	}
	// one deck, three hands of five, one seed card for the past pile
	assert.Len(t, r.stock, 52-15-1)
	assert.Len(t, r.past, 1)
}

func TestStartRoundNeedsTwoPlayers(t *testing.T) {
	r, _ := newTestRoom(t, "alice")
	assert.ErrorIs(t, r.StartRound("p1", StartOptions{}), apperrors.ErrInsufficientPlayers)
}

func TestStartRoundOptions(t *testing.T) {
	r, _ := newTestRoom(t, "alice", "bob")
	require.NoError(t, r.StartRound("p1", StartOptions{HandSize: 7, TurnSeconds: 300, EndThreshold: 300}))

	r.mu.Lock()
	defer r.mu.Unlock()
	assert.Len(t, r.players[0].Hand, 7)
	assert.Equal(t, 90*time.Second, r.turnDuration) // clamped
	assert.Equal(t, 300, r.endThreshold)
}

func TestDiscardDrawCycle(t *testing.T) {
	r, _ := newTestRoom(t, "alice", "bob", "carol")
	require.NoError(t, r.StartRound("p1", StartOptions{}))
	setHand(r, "p1", card.Rank9, card.Rank9, card.Rank2, card.Rank5, card.RankK)

	r.mu.Lock()
	seed := append([]card.Card(nil), r.past...)
	r.mu.Unlock()

	// only the active player may act
	assert.ErrorIs(t, r.Discard("p2", []int{0}), apperrors.ErrNotYourTurn)
	// draw before discard is out of order
	assert.ErrorIs(t, r.Draw("p1", SourceStock), apperrors.ErrNotYourTurn)

	require.NoError(t, r.Discard("p1", []int{0, 1}))

	r.mu.Lock()
	assert.Equal(t, StageDraw, r.stage)
	assert.Len(t, r.players[0].Hand, 3)
	assert.Equal(t, []card.Card{c(card.Rank9), c(card.Rank9)}, r.immediate)
	assert.Equal(t, seed, r.past) // replacement waits for the draw
	r.mu.Unlock()

	// discarding twice in one turn is out of order
	assert.ErrorIs(t, r.Discard("p1", []int{0}), apperrors.ErrNotYourTurn)

	require.NoError(t, r.Draw("p1", SourceStock))

	r.mu.Lock()
	defer r.mu.Unlock()
	assert.Len(t, r.players[0].Hand, 4)
	assert.Equal(t, 1, r.activeIdx)
	assert.Equal(t, StageDiscard, r.stage)
	assert.Equal(t, 1, r.turnsElapsed)
	assert.Empty(t, r.immediate)
	assert.Equal(t, []card.Card{c(card.Rank9), c(card.Rank9)}, r.past)
	assert.Equal(t, seed, r.retired)
}

func TestDiscardValidation(t *testing.T) {
	r, _ := newTestRoom(t, "alice", "bob")
	require.NoError(t, r.StartRound("p1", StartOptions{}))
	setHand(r, "p1", card.Rank9, card.Rank9, card.Rank2, card.Rank5, card.RankK)

	tests := []struct {
		name    string
		indices []int
	}{
		{"empty", nil},
		{"too many", []int{0, 1, 2, 3}},
		{"duplicate", []int{0, 0}},
		{"out of range", []int{0, 7}},
		{"negative", []int{-1}},
		{"mixed ranks", []int{0, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, r.Discard("p1", tt.indices), apperrors.ErrInvalidDiscard)
		})
	}

	// a failed discard leaves the turn untouched
	r.mu.Lock()
	defer r.mu.Unlock()
	assert.Equal(t, StageDiscard, r.stage)
	assert.Len(t, r.players[0].Hand, 5)
}

func TestDrawFromPastPile(t *testing.T) {
	r, _ := newTestRoom(t, "alice", "bob")
	require.NoError(t, r.StartRound("p1", StartOptions{}))

	r.mu.Lock()
	r.past = []card.Card{c(card.Rank3)}
	r.mu.Unlock()

	require.NoError(t, r.Discard("p1", []int{0}))
	require.NoError(t, r.Draw("p1", SourcePast))

	r.mu.Lock()
	defer r.mu.Unlock()
	assert.Contains(t, r.players[0].Hand, c(card.Rank3))
	// the drained seed pile was replaced by the discard, nothing retired
	assert.Len(t, r.past, 1)
	assert.Empty(t, r.retired)
}

func TestDrawStockEmpty(t *testing.T) {
	r, _ := newTestRoom(t, "alice", "bob")
	require.NoError(t, r.StartRound("p1", StartOptions{}))

	r.mu.Lock()
	r.stock = nil
	r.mu.Unlock()

	require.NoError(t, r.Discard("p1", []int{0}))
	assert.ErrorIs(t, r.Draw("p1", SourceStock), apperrors.ErrStockEmpty)
	// the past pile still works
	require.NoError(t, r.Draw("p1", SourcePast))
}

func TestDrawPastEmpty(t *testing.T) {
	r, _ := newTestRoom(t, "alice", "bob")
	require.NoError(t, r.StartRound("p1", StartOptions{}))

	r.mu.Lock()
	r.past = nil
	r.mu.Unlock()

	require.NoError(t, r.Discard("p1", []int{0}))
	assert.ErrorIs(t, r.Draw("p1", SourcePast), apperrors.ErrPastEmpty)
}

func TestReshuffleVariant(t *testing.T) {
	r, _ := newTestRoom(t, "alice", "bob")
	require.NoError(t, r.StartRound("p1", StartOptions{}))

	r.mu.Lock()
	r.reshuffle = true
	r.stock = nil
	r.past = []card.Card{c(card.Rank2), c(card.Rank5), c(card.Rank8)}
	r.mu.Unlock()

	require.NoError(t, r.Discard("p1", []int{0}))
	require.NoError(t, r.Draw("p1", SourceStock))

	r.mu.Lock()
	defer r.mu.Unlock()
	// two cards went back to the stock, one was drawn
	assert.Len(t, r.stock, 1)
	// the visible top card never moved; the pile was then replaced
	assert.Len(t, r.past, 1)
	assert.Equal(t, []card.Card{c(card.Rank8)}, r.retired)
}

func cardCensus(r *Room) map[card.Card]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := make(map[card.Card]int)
	add := func(cards []card.Card) {
		for _, cd := range cards {
			counts[cd]++
		}
	}
	add(r.stock)
	add(r.immediate)
	add(r.past)
	add(r.retired)
	for _, p := range r.players {
		add(p.Hand)
	}
	return counts
}

func TestCardConservation(t *testing.T) {
	r, _ := newTestRoom(t, "alice", "bob", "carol")
	require.NoError(t, r.StartRound("p1", StartOptions{}))

	dealt := cardCensus(r)

	moves := []struct {
		player string
		source string
	}{
		{"p1", SourceStock},
		{"p2", SourcePast},
		{"p3", SourceStock},
		{"p1", SourcePast},
	}
	for _, mv := range moves {
		require.NoError(t, r.Discard(mv.player, []int{0}))
		assert.Equal(t, dealt, cardCensus(r), "census drifted mid-turn of %s", mv.player)
		require.NoError(t, r.Draw(mv.player, mv.source))
		assert.Equal(t, dealt, cardCensus(r), "census drifted after %s drew", mv.player)
	}
}

func TestStockNeverGrows(t *testing.T) {
	r, _ := newTestRoom(t, "alice", "bob")
	require.NoError(t, r.StartRound("p1", StartOptions{}))

	prev := len(r.stock)
	players := []string{"p1", "p2", "p1", "p2"}
	sources := []string{SourceStock, SourcePast, SourceStock, SourcePast}
	for i, id := range players {
		require.NoError(t, r.Discard(id, []int{0}))
		require.NoError(t, r.Draw(id, sources[i]))

		r.mu.Lock()
		cur := len(r.stock)
		r.mu.Unlock()
		assert.LessOrEqual(t, cur, prev)
		prev = cur
	}
}

func TestAutoPlayOnTimeout(t *testing.T) {
	r, _ := newTestRoom(t, "alice", "bob")
	r.mu.Lock()
	r.turnDuration = 50 * time.Millisecond
	r.mu.Unlock()
	require.NoError(t, r.StartRound("p1", StartOptions{}))

	dealt := cardCensus(r)

	require.Eventually(t, func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.turnsElapsed == 1
	}, time.Second, 5*time.Millisecond)

	r.mu.Lock()
	assert.Equal(t, 1, r.activeIdx)
	assert.Equal(t, StageDiscard, r.stage)
	// one card out, one card in
	assert.Len(t, r.players[0].Hand, 5)
	assert.Len(t, r.past, 1)
	r.mu.Unlock()

	assert.Equal(t, dealt, cardCensus(r))
}

func TestTimeoutAfterDiscardOnlyDraws(t *testing.T) {
	r, _ := newTestRoom(t, "alice", "bob")
	r.mu.Lock()
	r.turnDuration = 80 * time.Millisecond
	r.mu.Unlock()
	require.NoError(t, r.StartRound("p1", StartOptions{}))
	setHand(r, "p1", card.Rank9, card.Rank9, card.Rank2, card.Rank5, card.RankK)

	require.NoError(t, r.Discard("p1", []int{0, 1}))

	require.Eventually(t, func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.turnsElapsed == 1
	}, time.Second, 5*time.Millisecond)

	r.mu.Lock()
	defer r.mu.Unlock()
	// the voluntary pair discard stood; the timeout only drew for them
	assert.Len(t, r.players[0].Hand, 4)
	assert.Equal(t, []card.Card{c(card.Rank9), c(card.Rank9)}, r.past)
}

func TestTimeoutWithEmptyStockSkipsDraw(t *testing.T) {
	r, _ := newTestRoom(t, "alice", "bob")
	require.NoError(t, r.StartRound("p1", StartOptions{}))

	r.mu.Lock()
	r.stock = nil
	pastBefore := len(r.past)
	seq := r.turnSeq
	r.mu.Unlock()

	// fire the deadline callback by hand
	r.handleTurnTimeout(seq)

	r.mu.Lock()
	defer r.mu.Unlock()
	// the auto-discard stood, but nothing was taken from the past pile
	assert.Len(t, r.players[0].Hand, 4)
	assert.Equal(t, pastBefore, len(r.past))
	assert.Equal(t, 1, r.turnsElapsed)
	assert.Equal(t, 1, r.activeIdx)
}

func TestStaleTimerDoesNothing(t *testing.T) {
	r, _ := newTestRoom(t, "alice", "bob")
	require.NoError(t, r.StartRound("p1", StartOptions{}))

	r.mu.Lock()
	staleSeq := r.turnSeq
	r.mu.Unlock()

	require.NoError(t, r.Discard("p1", []int{0}))
	require.NoError(t, r.Draw("p1", SourceStock))

	// replay the previous turn's timeout callback by hand
	r.handleTurnTimeout(staleSeq)

	r.mu.Lock()
	defer r.mu.Unlock()
	assert.Equal(t, 1, r.turnsElapsed)
	assert.Equal(t, 1, r.activeIdx)
}

func TestBotPlaysItsTurn(t *testing.T) {
	r, _ := newTestRoom(t, "alice")
	require.NoError(t, r.AddBot("p1", bot.Easy))
	require.NoError(t, r.StartRound("p1", StartOptions{}))

	require.NoError(t, r.Discard("p1", []int{0}))
	require.NoError(t, r.Draw("p1", SourceStock))

	require.Eventually(t, func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.turnsElapsed == 2
	}, time.Second, 5*time.Millisecond)

	r.mu.Lock()
	defer r.mu.Unlock()
	assert.Equal(t, 0, r.activeIdx)
	assert.Len(t, r.players[1].Hand, 5)
}
