package apperrors

import (
	"github.com/manty98/lakdi/internal/protocol"
)

// GameError is a locally recoverable rejection. The room state is left
// unchanged; the code is sent to the acting player only.
type GameError struct {
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

// Predefined errors
var (
	ErrRoomNotFound = &GameError{Code: protocol.ErrCodeRoomNotFound, Message: "room not found"}
	ErrRoomFull     = &GameError{Code: protocol.ErrCodeRoomFull, Message: "room is full"}
	ErrNotInRoom    = &GameError{Code: protocol.ErrCodeNotInRoom, Message: "you are not in a room"}
	ErrNameTaken    = &GameError{Code: protocol.ErrCodeNameTaken, Message: "name already taken"}
	ErrGameStarted  = &GameError{Code: protocol.ErrCodeGameStarted, Message: "game already started"}
	ErrNotHost      = &GameError{Code: protocol.ErrCodeNotHost, Message: "only the host can do that"}

	ErrInsufficientPlayers   = &GameError{Code: protocol.ErrCodeInsufficientPlayers, Message: "need at least 2 players"}
	ErrGameNotActive         = &GameError{Code: protocol.ErrCodeGameNotActive, Message: "game is not active"}
	ErrNotYourTurn           = &GameError{Code: protocol.ErrCodeNotYourTurn, Message: "not your turn"}
	ErrInvalidDiscard        = &GameError{Code: protocol.ErrCodeInvalidDiscard, Message: "select 1-3 cards of the same rank"}
	ErrStockEmpty            = &GameError{Code: protocol.ErrCodeStockEmpty, Message: "stock is empty"}
	ErrPastEmpty             = &GameError{Code: protocol.ErrCodePastEmpty, Message: "past discard is empty"}
	ErrDeclarationInProgress = &GameError{Code: protocol.ErrCodeDeclarationInProgress, Message: "a Lakdi call is being contested"}
	ErrTooEarly              = &GameError{Code: protocol.ErrCodeTooEarly, Message: "cannot call Lakdi on the first turn"}
	ErrAlreadyResponded      = &GameError{Code: protocol.ErrCodeAlreadyResponded, Message: "you already responded"}
	ErrWindowClosed          = &GameError{Code: protocol.ErrCodeWindowClosed, Message: "cut window closed"}
)
