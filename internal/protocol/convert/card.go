package convert

import (
	"github.com/manty98/lakdi/internal/game/card"
	"github.com/manty98/lakdi/internal/protocol"
)

// CardToInfo converts a card to its wire form.
func CardToInfo(c card.Card) protocol.CardInfo {
	return protocol.CardInfo{
		Rank:  c.Rank.String(),
		Suit:  c.Suit.String(),
		Value: c.Value(),
	}
}

// CardsToInfos converts a slice of cards to wire form. Nil input yields
// an empty slice so JSON renders [] rather than null.
func CardsToInfos(cards []card.Card) []protocol.CardInfo {
	infos := make([]protocol.CardInfo, len(cards))
	for i, c := range cards {
		infos[i] = CardToInfo(c)
	}
	return infos
}
