package handler

import (
	"github.com/manty98/lakdi/internal/game/room"
	"github.com/manty98/lakdi/internal/protocol"
	"github.com/manty98/lakdi/internal/types"
)

func (h *Handler) handleDiscard(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.DiscardPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}
	r, ok := h.currentRoom(client)
	if !ok {
		return
	}
	if err := r.Discard(client.GetID(), payload.CardIndices); err != nil {
		h.sendError(client, err)
	}
}

func (h *Handler) handleDraw(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.DrawPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}
	if payload.Source != room.SourceStock && payload.Source != room.SourcePast {
		client.SendMessage(protocol.NewErrorMessageWithText(protocol.ErrCodeInvalidMsg, "draw source must be stock or past"))
		return
	}
	r, ok := h.currentRoom(client)
	if !ok {
		return
	}
	if err := r.Draw(client.GetID(), payload.Source); err != nil {
		h.sendError(client, err)
	}
}

func (h *Handler) handleCallLakdi(client types.ClientInterface) {
	r, ok := h.currentRoom(client)
	if !ok {
		return
	}
	if err := r.Declare(client.GetID()); err != nil {
		h.sendError(client, err)
	}
}

func (h *Handler) handleRespond(client types.ClientInterface, cut bool) {
	r, ok := h.currentRoom(client)
	if !ok {
		return
	}
	if err := r.Respond(client.GetID(), cut); err != nil {
		h.sendError(client, err)
	}
}
