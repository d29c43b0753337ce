package protocol

import (
	"encoding/json"

	"github.com/playmesh/connectfour-backend/internal/entity"
)

// Inbound command names.
const (
	ActionJoinRoom        = "join_room"
	ActionInvite          = "invite"
	ActionUninvite        = "uninvite"
	ActionGameStart       = "game_start"
	ActionSendChatMessage = "send_chat_message"
	ActionPlayToken       = "play_token"
)

// Outbound event names.
const (
	EventJoinRoomResponse        = "join_room_response"
	EventInviteResponse          = "invite_response"
	EventInvited                 = "invited"
	EventUninvited               = "uninvited"
	EventGameStartResponse       = "game_start_response"
	EventPlayerDisconnected      = "player_disconnected"
	EventSendChatMessageResponse = "send_chat_message_response"
	EventGameUpdate              = "game_update"
	EventPlayTokenResponse       = "play_token_response"
	EventGameOver                = "game_over"
)

const (
	ResultSuccess = "success"
	ResultFail    = "fail"
)

// LobbyRoom is the chat-only room; every other room name is a game identifier.
const LobbyRoom = "Lobby"

// Message is the envelope every websocket frame carries.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Inbound payloads use pointer fields so an absent field is distinguishable
// from a zero value, mirroring the protocol's undefined/null checks.

type JoinRoomPayload struct {
	Room     *string `json:"room"`
	Username *string `json:"username"`
}

// InvitePayload is shared by invite, uninvite and game_start; requested_user
// is the target's connection id.
type InvitePayload struct {
	RequestedUser *string `json:"requested_user"`
}

type ChatPayload struct {
	Room     *string `json:"room"`
	Username *string `json:"username"`
	Message  *string `json:"message"`
}

type PlayTokenPayload struct {
	Row    *int    `json:"row"`
	Column *int    `json:"column"`
	Color  *string `json:"color"`
}

// FailResponse is the shape of every failed command result.
type FailResponse struct {
	Result  string `json:"result"`
	Message string `json:"message"`
}

func NewFail(message string) FailResponse {
	return FailResponse{Result: ResultFail, Message: message}
}

type JoinRoomResponse struct {
	Result   string `json:"result"`
	SocketID string `json:"socket_id"`
	Room     string `json:"room"`
	Username string `json:"username"`
	Count    int    `json:"count"`
}

// HandshakeResponse serves invite_response, invited and uninvited events.
type HandshakeResponse struct {
	Result   string `json:"result"`
	SocketID string `json:"socket_id"`
}

type GameStartResponse struct {
	Result   string `json:"result"`
	GameID   string `json:"game_id"`
	SocketID string `json:"socket_id"`
}

type PlayerDisconnectedEvent struct {
	Username string `json:"username"`
	Room     string `json:"room"`
	Count    int    `json:"count"`
	SocketID string `json:"socket_id"`
}

type ChatResponse struct {
	Result   string `json:"result"`
	Username string `json:"username"`
	Room     string `json:"room"`
	Message  string `json:"message"`
}

type PlayTokenResponse struct {
	Result string `json:"result"`
}

// GameUpdate carries a full snapshot of the game; clients hold no
// authoritative state and reconcile against this.
type GameUpdate struct {
	Result  string      `json:"result"`
	GameID  string      `json:"game_id"`
	Game    entity.Game `json:"game"`
	Message string      `json:"message"`
}

type GameOverEvent struct {
	Result string      `json:"result"`
	GameID string      `json:"game_id"`
	Game   entity.Game `json:"game"`
	WhoWon string      `json:"who_won"`
}
