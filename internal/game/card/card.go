package card

import (
	"math/rand"
	"strconv"
)

// Suit is cosmetic only; it never affects legality or scoring.
type Suit int

// Rank is the card face value.
type Rank int

const (
	Spade Suit = iota
	Heart
	Club
	Diamond
)

// suitSymbols maps suits to display symbols
var suitSymbols = map[Suit]string{
	Spade:   "♠",
	Heart:   "♥",
	Club:    "♣",
	Diamond: "♦",
}

func (s Suit) String() string {
	if symbol, ok := suitSymbols[s]; ok {
		return symbol
	}
	return ""
}

const (
	RankA Rank = iota + 1
	Rank2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
	Rank9
	Rank10
	RankJ
	RankQ
	RankK
)

// rankNames maps ranks to display strings
var rankNames = map[Rank]string{
	RankA:  "A",
	Rank2:  "2",
	Rank3:  "3",
	Rank4:  "4",
	Rank5:  "5",
	Rank6:  "6",
	Rank7:  "7",
	Rank8:  "8",
	Rank9:  "9",
	Rank10: "10",
	RankJ:  "J",
	RankQ:  "Q",
	RankK:  "K",
}

func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return strconv.Itoa(int(r))
}

// Value returns the scoring points: A=1, 2-10 face value, J=11, Q=12, K=13.
func (r Rank) Value() int {
	return int(r)
}

// Card is an immutable rank/suit pair.
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// Value returns the scoring points of this card.
func (c Card) Value() int {
	return c.Rank.Value()
}

func (c Card) String() string {
	return c.Suit.String() + c.Rank.String()
}

// Deck is an ordered stack of cards; the end of the slice is the top.
type Deck []Card

// NewDeck creates a standard 52-card deck, unshuffled.
func NewDeck() Deck {
	deck := make(Deck, 0, 52)
	for s := Spade; s <= Diamond; s++ {
		for r := RankA; r <= RankK; r++ {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

// DecksFor returns how many 52-card decks are merged for a player count:
// ceil(playerCount / 6).
func DecksFor(playerCount int) int {
	n := (playerCount + 5) / 6
	if n < 1 {
		n = 1
	}
	return n
}

// BuildDecks merges DecksFor(playerCount) decks and shuffles them.
func BuildDecks(playerCount int) Deck {
	n := DecksFor(playerCount)
	deck := make(Deck, 0, n*52)
	for i := 0; i < n; i++ {
		deck = append(deck, NewDeck()...)
	}
	deck.Shuffle()
	return deck
}

// Shuffle shuffles the deck uniformly at random.
func (d Deck) Shuffle() {
	rand.Shuffle(len(d), func(i, j int) {
		d[i], d[j] = d[j], d[i]
	})
}

// Total sums the scoring points of a set of cards.
func Total(cards []Card) int {
	sum := 0
	for _, c := range cards {
		sum += c.Value()
	}
	return sum
}

// SameRank reports whether a non-empty set of cards shares one rank.
func SameRank(cards []Card) bool {
	if len(cards) == 0 {
		return false
	}
	for _, c := range cards[1:] {
		if c.Rank != cards[0].Rank {
			return false
		}
	}
	return true
}
