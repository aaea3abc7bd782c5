package protocol

// Error codes.
const (
	ErrCodeUnknown    = 1000
	ErrCodeInvalidMsg = 1001

	// Join errors
	ErrCodeRoomNotFound = 2001
	ErrCodeRoomFull     = 2002
	ErrCodeNotInRoom    = 2003
	ErrCodeNameTaken    = 2004
	ErrCodeGameStarted  = 2005
	ErrCodeNotHost      = 2006

	// Game errors
	ErrCodeGameNotActive         = 3001
	ErrCodeNotYourTurn           = 3002
	ErrCodeInvalidDiscard        = 3003
	ErrCodeStockEmpty            = 3004
	ErrCodePastEmpty             = 3005
	ErrCodeDeclarationInProgress = 3006
	ErrCodeTooEarly              = 3007
	ErrCodeAlreadyResponded      = 3008
	ErrCodeWindowClosed          = 3009
	ErrCodeInsufficientPlayers   = 3010
)

// ErrorMessages maps error codes to user-facing text.
var ErrorMessages = map[int]string{
	ErrCodeUnknown:               "unknown error",
	ErrCodeInvalidMsg:            "invalid message format",
	ErrCodeRoomNotFound:          "room not found",
	ErrCodeRoomFull:              "room is full",
	ErrCodeNotInRoom:             "you are not in a room",
	ErrCodeNameTaken:             "name already taken",
	ErrCodeGameStarted:           "game already started",
	ErrCodeNotHost:               "only the host can do that",
	ErrCodeGameNotActive:         "game is not active",
	ErrCodeNotYourTurn:           "not your turn",
	ErrCodeInvalidDiscard:        "select 1-3 cards of the same rank",
	ErrCodeStockEmpty:            "stock is empty",
	ErrCodePastEmpty:             "past discard is empty",
	ErrCodeDeclarationInProgress: "a Lakdi call is being contested",
	ErrCodeTooEarly:              "cannot call Lakdi on the first turn",
	ErrCodeAlreadyResponded:      "you already responded",
	ErrCodeWindowClosed:          "cut window closed",
	ErrCodeInsufficientPlayers:   "need at least 2 players",
}
