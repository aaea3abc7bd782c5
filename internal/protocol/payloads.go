package protocol

// CardInfo is the wire form of a card.
type CardInfo struct {
	Rank  string `json:"rank"`
	Suit  string `json:"suit"`
	Value int    `json:"value"`
}

// PlayerInfo is the public view of a player. Hand contents are never
// included here; only the count.
type PlayerInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Score     int    `json:"score"`
	HandCount int    `json:"hand_count"`
	Connected bool   `json:"connected"`
	IsHost    bool   `json:"is_host"`
	IsBot     bool   `json:"is_bot"`
}

// DeclarationInfo is the public metadata of an open Lakdi call.
type DeclarationInfo struct {
	CallerID   string     `json:"caller_id"`
	CallerHand []CardInfo `json:"caller_hand"`
	DeadlineMs int64      `json:"deadline_ms"` // unix millis
	Responded  []string   `json:"responded"`   // player IDs that already acted
}

// Declaration outcomes carried in RoundResultPayload.
const (
	OutcomeValidCut    = "valid_cut"
	OutcomeInvalidCut  = "invalid_cut"
	OutcomeUncontested = "uncontested"
)

// --- Client request payloads ---

// PingPayload keepalive request.
type PingPayload struct {
	Timestamp int64 `json:"timestamp"` // client clock, unix millis
}

// CreateRoomPayload creates a room; the creator becomes host.
type CreateRoomPayload struct {
	Name string `json:"name"`
}

// JoinRoomPayload joins a room by its code.
type JoinRoomPayload struct {
	RoomCode string `json:"room_code"`
	Name     string `json:"name"`
}

// AddBotPayload adds a bot seat (host only).
type AddBotPayload struct {
	Difficulty string `json:"difficulty"` // easy / medium / hard
}

// StartGamePayload deals the first round (host only). Zero fields fall
// back to server configuration.
type StartGamePayload struct {
	HandSize     int `json:"hand_size,omitempty"`
	TurnSeconds  int `json:"turn_seconds,omitempty"`
	EndThreshold int `json:"end_threshold,omitempty"` // 200 or 300
}

// DiscardPayload discards 1-3 same-rank cards, referenced by hand index.
type DiscardPayload struct {
	CardIndices []int `json:"card_indices"`
}

// DrawPayload draws one card after a discard.
type DrawPayload struct {
	Source string `json:"source"` // "stock" or "past"
}

// --- Server response payloads ---

// PongPayload keepalive response.
type PongPayload struct {
	ClientTimestamp int64 `json:"client_timestamp"`
	ServerTimestamp int64 `json:"server_timestamp"`
}

// ConnectedPayload is sent once after the WebSocket upgrade.
type ConnectedPayload struct {
	PlayerID string `json:"player_id"`
}

// RoomStatePayload is the public room snapshot pushed after every
// accepted mutation.
type RoomStatePayload struct {
	RoomCode       string           `json:"room_code"`
	Phase          string           `json:"phase"` // lobby/playing/declared/round_over/game_over
	Players        []PlayerInfo     `json:"players"`
	ActivePlayerID string           `json:"active_player_id,omitempty"`
	TurnStage      string           `json:"turn_stage,omitempty"` // discard / draw
	StockCount     int              `json:"stock_count"`
	ImmediateCount int              `json:"immediate_count"`
	PastCount      int              `json:"past_count"`
	PastTop        *CardInfo        `json:"past_top,omitempty"`
	TurnDeadlineMs int64            `json:"turn_deadline_ms,omitempty"` // unix millis
	Round          int              `json:"round"`
	EndThreshold   int              `json:"end_threshold"`
	Declaration    *DeclarationInfo `json:"declaration,omitempty"`
}

// HandPayload is the private addendum carrying one player's exact hand.
type HandPayload struct {
	Cards []CardInfo `json:"cards"`
}

// LakdiCalledPayload announces an opened declaration.
type LakdiCalledPayload struct {
	CallerID   string     `json:"caller_id"`
	CallerName string     `json:"caller_name"`
	CallerHand []CardInfo `json:"caller_hand"`
	DeadlineMs int64      `json:"deadline_ms"`
}

// PlayerScore is one player's line in a round result.
type PlayerScore struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	HandTotal  int    `json:"hand_total"` // snapshot total at declaration
	RoundScore int    `json:"round_score"`
	TotalScore int    `json:"total_score"` // cumulative
}

// RoundResultPayload announces a resolved declaration.
type RoundResultPayload struct {
	Outcome  string        `json:"outcome"` // valid_cut / invalid_cut / uncontested
	CallerID string        `json:"caller_id"`
	CutterID string        `json:"cutter_id,omitempty"`
	Scores   []PlayerScore `json:"scores"`
}

// GameOverPayload announces the end of the game.
type GameOverPayload struct {
	WinnerID   string        `json:"winner_id"`
	WinnerName string        `json:"winner_name"`
	Scores     []PlayerScore `json:"scores"`
}

// OnlineCountPayload reports how many clients are connected.
type OnlineCountPayload struct {
	Count int `json:"count"`
}

// GetLeaderboardPayload asks for the cross-room win tally.
type GetLeaderboardPayload struct {
	Limit int `json:"limit"`
}

// LeaderboardEntry is one line of the win tally.
type LeaderboardEntry struct {
	Rank int    `json:"rank"`
	Name string `json:"name"`
	Wins int    `json:"wins"`
}

// LeaderboardPayload answers a leaderboard query, best first.
type LeaderboardPayload struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// ErrorPayload carries a rejection to the acting client only.
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
