package protocol

import "encoding/json"

// Message is the wire envelope for every client/server exchange.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType identifies a message.
type MessageType string

// Client -> server message types.
const (
	MsgPing MessageType = "ping" // keepalive

	// Room operations
	MsgCreateRoom MessageType = "create_room" // create a room and join as host
	MsgJoinRoom   MessageType = "join_room"   // join an existing room by code
	MsgAddBot     MessageType = "add_bot"     // host adds a bot seat
	MsgStartGame  MessageType = "start_game"  // host deals the first round
	MsgNextRound  MessageType = "next_round"  // host deals the next round

	// Game actions
	MsgDiscard   MessageType = "discard"    // discard 1-3 same-rank cards
	MsgDraw      MessageType = "draw"       // draw from stock or past pile
	MsgCallLakdi MessageType = "call_lakdi" // declare the lowest hand
	MsgCut       MessageType = "cut"        // contest an open declaration
	MsgPassCut   MessageType = "pass_cut"   // decline to contest

	// Info queries
	MsgGetOnlineCount MessageType = "get_online_count"
	MsgGetLeaderboard MessageType = "get_leaderboard"
)

// Server -> client message types.
const (
	MsgPong      MessageType = "pong"
	MsgConnected MessageType = "connected" // connection identity assigned

	MsgRoomState MessageType = "room_state" // public room snapshot
	MsgYourHand  MessageType = "your_hand"  // private hand addendum

	MsgLakdiCalled MessageType = "lakdi_called" // declaration opened
	MsgRoundResult MessageType = "round_result" // declaration resolved, scores applied
	MsgGameOver    MessageType = "game_over"    // end threshold reached

	MsgOnlineCount MessageType = "online_count"
	MsgLeaderboard MessageType = "leaderboard"

	MsgError MessageType = "error"
)
