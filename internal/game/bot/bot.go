package bot

import (
	"github.com/manty98/lakdi/internal/game/card"
)

// Difficulty selects a decision policy.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// ParseDifficulty normalizes a wire string, defaulting to Medium.
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(s) {
	case Easy, Medium, Hard:
		return Difficulty(s)
	default:
		return Medium
	}
}

// Draw sources, matching the wire strings the room accepts.
const (
	SourceStock = "stock"
	SourcePast  = "past"
)

// View is everything a bot may look at: its own hand plus public pile
// state. Opponent hands never appear here.
type View struct {
	Hand       []card.Card
	PastTop    *card.Card // top of the past discard pile, nil if empty
	StockCount int
	PastCount  int
	CanDeclare bool // at least one full turn has elapsed this round
}

// Decision is a full turn plan: either declare, or discard the chosen
// indices and then draw from the chosen source.
type Decision struct {
	Declare        bool
	DiscardIndices []int
	DrawSource     string // "stock" or "past"
}

// Brain decides a bot's turn from its view of the table.
type Brain interface {
	Decide(v View) Decision
	Level() Difficulty
}

// New returns the strategy for a difficulty level.
func New(d Difficulty) Brain {
	switch d {
	case Easy:
		return &strategy{level: Easy, declareAt: 5, maxDiscard: 1}
	case Hard:
		return &strategy{level: Hard, declareAt: 10, maxDiscard: 3}
	default:
		return &strategy{level: Medium, declareAt: 7, maxDiscard: 2}
	}
}
