package handler

import (
	"errors"
	"log"

	"github.com/manty98/lakdi/internal/apperrors"
	"github.com/manty98/lakdi/internal/game/room"
	"github.com/manty98/lakdi/internal/protocol"
	"github.com/manty98/lakdi/internal/server/storage"
	"github.com/manty98/lakdi/internal/types"
)

// Deps are the handler's collaborators. Store may be nil when the
// server runs without a Redis mirror.
type Deps struct {
	Server types.ServerInterface
	Rooms  *room.Manager
	Store  *storage.RedisStore
}

// Handler routes decoded messages to room operations. It owns no game
// state; every rejection flows back to the acting client as an error
// message while the rest of the room hears nothing.
type Handler struct {
	server   types.ServerInterface
	rooms    *room.Manager
	store    *storage.RedisStore
	handlers map[protocol.MessageType]handlerFunc
}

type handlerFunc func(client types.ClientInterface, msg *protocol.Message)

// New creates the handler with its routing table.
func New(deps Deps) *Handler {
	h := &Handler{
		server: deps.Server,
		rooms:  deps.Rooms,
		store:  deps.Store,
	}
	h.initHandlers()
	return h
}

func (h *Handler) initHandlers() {
	h.handlers = map[protocol.MessageType]handlerFunc{
		protocol.MsgPing: h.handlePing,

		// Room operations
		protocol.MsgCreateRoom: h.handleCreateRoom,
		protocol.MsgJoinRoom:   h.handleJoinRoom,
		protocol.MsgAddBot:     h.handleAddBot,
		protocol.MsgStartGame:  h.handleStartGame,
		protocol.MsgNextRound:  func(c types.ClientInterface, _ *protocol.Message) { h.handleNextRound(c) },

		// Game actions
		protocol.MsgDiscard:   h.handleDiscard,
		protocol.MsgDraw:      h.handleDraw,
		protocol.MsgCallLakdi: func(c types.ClientInterface, _ *protocol.Message) { h.handleCallLakdi(c) },
		protocol.MsgCut:       func(c types.ClientInterface, _ *protocol.Message) { h.handleRespond(c, true) },
		protocol.MsgPassCut:   func(c types.ClientInterface, _ *protocol.Message) { h.handleRespond(c, false) },

		// Info queries
		protocol.MsgGetOnlineCount: func(c types.ClientInterface, _ *protocol.Message) { h.handleGetOnlineCount(c) },
		protocol.MsgGetLeaderboard: h.handleGetLeaderboard,
	}
}

// Handle dispatches one message.
func (h *Handler) Handle(client types.ClientInterface, msg *protocol.Message) {
	if fn, ok := h.handlers[msg.Type]; ok {
		fn(client, msg)
		return
	}

	log.Printf("⚠️ Unknown message type '%s' from %s", msg.Type, client.GetID())
	client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
}

// sendError translates a rejection into a wire error for the acting
// client only.
func (h *Handler) sendError(client types.ClientInterface, err error) {
	var gameErr *apperrors.GameError
	if errors.As(err, &gameErr) {
		client.SendMessage(protocol.NewErrorMessage(gameErr.Code))
		return
	}
	client.SendMessage(protocol.NewErrorMessageWithText(protocol.ErrCodeUnknown, err.Error()))
}

// currentRoom resolves the client's room, reporting NotInRoom when it
// has none.
func (h *Handler) currentRoom(client types.ClientInterface) (*room.Room, bool) {
	code := client.GetRoom()
	if code == "" {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeNotInRoom))
		return nil, false
	}
	r, err := h.rooms.GetRoom(code)
	if err != nil {
		h.sendError(client, err)
		return nil, false
	}
	return r, true
}
