package handler

import (
	"context"
	"time"

	"github.com/manty98/lakdi/internal/protocol"
	"github.com/manty98/lakdi/internal/types"
)

const statsQueryTimeout = 3 * time.Second

func (h *Handler) handleGetOnlineCount(client types.ClientInterface) {
	client.SendMessage(protocol.MustNewMessage(protocol.MsgOnlineCount, protocol.OnlineCountPayload{
		Count: h.server.GetOnlineCount(),
	}))
}

// handleGetLeaderboard answers with the cross-room win tally. Without a
// Redis mirror the board is simply empty.
func (h *Handler) handleGetLeaderboard(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.GetLeaderboardPayload](msg)
	if err != nil || payload.Limit <= 0 || payload.Limit > 50 {
		payload = &protocol.GetLeaderboardPayload{Limit: 10}
	}

	entries := make([]protocol.LeaderboardEntry, 0, payload.Limit)
	if h.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), statsQueryTimeout)
		defer cancel()

		top, err := h.store.TopPlayers(ctx, payload.Limit)
		if err != nil {
			client.SendMessage(protocol.NewErrorMessageWithText(protocol.ErrCodeUnknown, "leaderboard unavailable"))
			return
		}
		for i, e := range top {
			entries = append(entries, protocol.LeaderboardEntry{Rank: i + 1, Name: e.Name, Wins: e.Wins})
		}
	}

	client.SendMessage(protocol.MustNewMessage(protocol.MsgLeaderboard, protocol.LeaderboardPayload{
		Entries: entries,
	}))
}
