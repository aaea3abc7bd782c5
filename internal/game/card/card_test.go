package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRankValue(t *testing.T) {
	assert.Equal(t, 1, RankA.Value())
	assert.Equal(t, 2, Rank2.Value())
	assert.Equal(t, 10, Rank10.Value())
	assert.Equal(t, 11, RankJ.Value())
	assert.Equal(t, 12, RankQ.Value())
	assert.Equal(t, 13, RankK.Value())
}

func TestNewDeck(t *testing.T) {
	deck := NewDeck()
	assert.Len(t, deck, 52)

	// 13 ranks x 4 suits, every combination exactly once
	seen := make(map[Card]int)
	for _, c := range deck {
		seen[c]++
	}
	assert.Len(t, seen, 52)
	for c, n := range seen {
		assert.Equal(t, 1, n, "card %s appears %d times", c, n)
	}
}

func TestDecksFor(t *testing.T) {
	tests := []struct {
		players int
		decks   int
	}{
		{1, 1},
		{2, 1},
		{6, 1},
		{7, 2},
		{12, 2},
		{13, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.decks, DecksFor(tt.players), "players=%d", tt.players)
	}
}

func TestBuildDecksPreservesMultiset(t *testing.T) {
	deck := BuildDecks(2)
	assert.Len(t, deck, 52)

	counts := make(map[Card]int)
	for _, c := range deck {
		counts[c]++
	}
	for _, want := range NewDeck() {
		assert.Equal(t, 1, counts[want])
	}
}

func TestTotal(t *testing.T) {
	hand := []Card{
		{Suit: Spade, Rank: RankA},
		{Suit: Heart, Rank: RankK},
		{Suit: Club, Rank: Rank7},
	}
	assert.Equal(t, 21, Total(hand))
	assert.Equal(t, 0, Total(nil))
}

func TestSameRank(t *testing.T) {
	assert.False(t, SameRank(nil))
	assert.True(t, SameRank([]Card{{Suit: Spade, Rank: Rank7}}))
	assert.True(t, SameRank([]Card{
		{Suit: Spade, Rank: Rank7},
		{Suit: Heart, Rank: Rank7},
	}))
	assert.False(t, SameRank([]Card{
		{Suit: Spade, Rank: Rank7},
		{Suit: Heart, Rank: Rank8},
	}))
}
