package bot

import (
	"github.com/manty98/lakdi/internal/game/card"
)

// strategy is the shared policy; difficulty only moves its knobs.
// declareAt is the hand total at or below which the bot calls Lakdi
// and maxDiscard caps how many cards of the chosen rank it sheds.
type strategy struct {
	level      Difficulty
	declareAt  int
	maxDiscard int
}

func (s *strategy) Level() Difficulty {
	return s.level
}

func (s *strategy) Decide(v View) Decision {
	if v.CanDeclare && card.Total(v.Hand) <= s.declareAt {
		return Decision{Declare: true}
	}

	indices := s.pickDiscard(v.Hand)
	return Decision{
		DiscardIndices: indices,
		DrawSource:     s.pickSource(v, indices),
	}
}

// pickDiscard chooses the largest same-rank group, ties broken by the
// higher rank value, then sheds up to maxDiscard cards of it.
func (s *strategy) pickDiscard(hand []card.Card) []int {
	if len(hand) == 0 {
		return nil
	}

	byRank := make(map[card.Rank][]int)
	for i, c := range hand {
		byRank[c.Rank] = append(byRank[c.Rank], i)
	}

	var (
		bestRank card.Rank
		best     []int
	)
	for rank, idxs := range byRank {
		if len(idxs) > len(best) || (len(idxs) == len(best) && rank.Value() > bestRank.Value()) {
			bestRank = rank
			best = idxs
		}
	}

	if len(best) > s.maxDiscard {
		best = best[:s.maxDiscard]
	}
	return best
}

// pickSource takes the past pile when its visible card matches the rank
// just discarded, rebuilding the group for the next turn.
func (s *strategy) pickSource(v View, discarded []int) string {
	if v.StockCount == 0 {
		return SourcePast
	}
	if v.PastTop == nil || len(discarded) == 0 {
		return SourceStock
	}
	if v.Hand[discarded[0]].Rank == v.PastTop.Rank {
		return SourcePast
	}
	return SourceStock
}
