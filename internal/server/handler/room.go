package handler

import (
	"strings"
	"time"

	"github.com/manty98/lakdi/internal/game/bot"
	"github.com/manty98/lakdi/internal/game/room"
	"github.com/manty98/lakdi/internal/protocol"
	"github.com/manty98/lakdi/internal/types"
)

const maxNameLength = 20

func (h *Handler) handlePing(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.PingPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}
	client.SendMessage(protocol.MustNewMessage(protocol.MsgPong, protocol.PongPayload{
		ClientTimestamp: payload.Timestamp,
		ServerTimestamp: time.Now().UnixMilli(),
	}))
}

// cleanName normalizes a requested display name; empty means invalid.
func cleanName(name string) string {
	name = strings.TrimSpace(name)
	if len(name) > maxNameLength {
		name = name[:maxNameLength]
	}
	return name
}

func (h *Handler) handleCreateRoom(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.CreateRoomPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}
	name := cleanName(payload.Name)
	if name == "" {
		client.SendMessage(protocol.NewErrorMessageWithText(protocol.ErrCodeInvalidMsg, "a display name is required"))
		return
	}
	if client.GetRoom() != "" {
		client.SendMessage(protocol.NewErrorMessageWithText(protocol.ErrCodeInvalidMsg, "already in a room"))
		return
	}

	if _, err := h.rooms.CreateRoom(client, name); err != nil {
		h.sendError(client, err)
		return
	}
	client.SetName(name)
}

func (h *Handler) handleJoinRoom(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.JoinRoomPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}
	name := cleanName(payload.Name)
	if name == "" || payload.RoomCode == "" {
		client.SendMessage(protocol.NewErrorMessageWithText(protocol.ErrCodeInvalidMsg, "room code and display name are required"))
		return
	}
	if client.GetRoom() != "" {
		client.SendMessage(protocol.NewErrorMessageWithText(protocol.ErrCodeInvalidMsg, "already in a room"))
		return
	}

	if _, err := h.rooms.JoinRoom(client, payload.RoomCode, name); err != nil {
		h.sendError(client, err)
		return
	}
	client.SetName(name)
}

func (h *Handler) handleAddBot(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.AddBotPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}
	r, ok := h.currentRoom(client)
	if !ok {
		return
	}
	if err := r.AddBot(client.GetID(), bot.ParseDifficulty(payload.Difficulty)); err != nil {
		h.sendError(client, err)
	}
}

func (h *Handler) handleStartGame(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.StartGamePayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}
	r, ok := h.currentRoom(client)
	if !ok {
		return
	}
	opts := room.StartOptions{
		HandSize:     payload.HandSize,
		TurnSeconds:  payload.TurnSeconds,
		EndThreshold: payload.EndThreshold,
	}
	if err := r.StartRound(client.GetID(), opts); err != nil {
		h.sendError(client, err)
	}
}

func (h *Handler) handleNextRound(client types.ClientInterface) {
	r, ok := h.currentRoom(client)
	if !ok {
		return
	}
	if err := r.NextRound(client.GetID()); err != nil {
		h.sendError(client, err)
	}
}
