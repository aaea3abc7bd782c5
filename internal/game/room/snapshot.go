package room

import (
	"github.com/manty98/lakdi/internal/protocol"
	"github.com/manty98/lakdi/internal/protocol/convert"
)

// broadcast sends a message to every connected human seat.
func (r *Room) broadcast(msg *protocol.Message) {
	for _, p := range r.players {
		if p.Client != nil && p.Connected {
			p.Client.SendMessage(msg)
		}
	}
}

// pushState sends the public snapshot to everyone, followed by each
// player's private hand. Called after every accepted mutation so
// clients never need to diff events. Caller holds the lock.
func (r *Room) pushState() {
	stateMsg := protocol.MustNewMessage(protocol.MsgRoomState, r.buildState())
	for _, p := range r.players {
		if p.Client == nil || !p.Connected {
			continue
		}
		p.Client.SendMessage(stateMsg)
		p.Client.SendMessage(protocol.MustNewMessage(protocol.MsgYourHand, protocol.HandPayload{
			Cards: convert.CardsToInfos(p.Hand),
		}))
	}
}

// buildState assembles the public snapshot: hand counts and pile counts
// only, never another player's cards. The one exception is the caller's
// hand, which goes public the moment Lakdi is called.
func (r *Room) buildState() protocol.RoomStatePayload {
	players := make([]protocol.PlayerInfo, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, protocol.PlayerInfo{
			ID:        p.ID,
			Name:      p.Name,
			Score:     p.Score,
			HandCount: len(p.Hand),
			Connected: p.Connected,
			IsHost:    p.IsHost,
			IsBot:     p.IsBot,
		})
	}

	state := protocol.RoomStatePayload{
		RoomCode:       r.Code,
		Phase:          r.phase.String(),
		Players:        players,
		StockCount:     len(r.stock),
		ImmediateCount: len(r.immediate),
		PastCount:      len(r.past),
		Round:          r.round,
		EndThreshold:   r.endThreshold,
	}

	if len(r.past) > 0 {
		top := convert.CardToInfo(r.past[len(r.past)-1])
		state.PastTop = &top
	}

	switch r.phase {
	case PhasePlaying:
		if p := r.activePlayer(); p != nil {
			state.ActivePlayerID = p.ID
		}
		state.TurnStage = r.stage.String()
		state.TurnDeadlineMs = r.turnDeadline.UnixMilli()
	case PhaseDeclared:
		if d := r.declaration; d != nil {
			caller := r.playerByID(d.CallerID)
			info := &protocol.DeclarationInfo{
				CallerID:   d.CallerID,
				DeadlineMs: d.Deadline.UnixMilli(),
			}
			if caller != nil {
				info.CallerHand = convert.CardsToInfos(caller.Hand)
			}
			for id := range d.Responded {
				info.Responded = append(info.Responded, id)
			}
			state.Declaration = info
		}
	}

	return state
}
