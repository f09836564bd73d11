/*
Package game contains the core logic for realtime drawing rooms: membership,
turn rotation, canvas synchronization, guessing, scoring, and reconnection.

This file defines the wire protocol: every WebSocket frame is an Envelope with
a closed set of event types and a typed payload per event. The event names and
payload shapes of the original client are preserved for compatibility,
including the historical "recieve-message" spelling.
*/
package game

import (
	"encoding/json"
	"fmt"
)

// EventType tags an Envelope with its payload kind.
type EventType string

// Client-to-server events.
const (
	EventJoinRoom  EventType = "joinRoom"
	EventDraw      EventType = "draw"
	EventUndo      EventType = "undo"
	EventRedo      EventType = "redo"
	EventChat      EventType = "message"
	EventStartGame EventType = "start-game"
)

// Server-to-client events.
const (
	EventRoomJoined     EventType = "roomJoined"
	EventRoomJoinError  EventType = "roomJoinError"
	EventRoomState      EventType = "room-state"
	EventUserJoined     EventType = "userJoined"
	EventUserLeft       EventType = "userLeft"
	EventReceiveMessage EventType = "recieve-message"
	EventSwitchTurn     EventType = "switch-turn"
	EventGameEnded      EventType = "game-ended"
	EventGameCancelled  EventType = "game-cancelled"
	EventYourWord       EventType = "your-word"
	EventTurnResult     EventType = "turn-result"
	EventCorrectGuess   EventType = "correct-guess"
	EventCloseGuess     EventType = "close-guess"
	EventError          EventType = "error"
)

// Envelope is the frame exchanged over the WebSocket in both directions.
type Envelope struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEnvelope marshals payload into an Envelope of the given type.
func NewEnvelope(eventType EventType, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}

	return Envelope{Type: eventType, Payload: raw}, nil
}

// Line is one continuous drawing or erasing action on the canvas.
// Points is a flat sequence of x,y coordinate pairs, matching the client's
// canvas representation verbatim.
type Line struct {
	Tool   string    `json:"tool"`
	Points []float64 `json:"points"`
	Color  string    `json:"color"`
	Size   int       `json:"size"`
}

// Line tool kinds.
const (
	ToolPen    = "pen"
	ToolEraser = "eraser"
)

// JoinRoomPayload is sent as the first frame after connecting. A fresh join
// carries the identity token (and password for private rooms); a reconnect
// carries the session key issued by a prior roomJoined.
type JoinRoomPayload struct {
	UserIDToken string `json:"userIdToken,omitempty"`
	RoomID      string `json:"roomId"`
	Password    string `json:"password,omitempty"`
	UserAuthkey string `json:"userAuthkey,omitempty"`
}

// DrawPayload carries one stroke delta from the drawer; it is relayed to all
// other members verbatim.
type DrawPayload struct {
	RoomID string `json:"roomId"`
	Line   Line   `json:"line"`
}

// UndoRedoPayload is used for both undo and redo. Inbound, UpdatedLines is
// advisory; the server applies its own stroke log and broadcasts the
// authoritative result in the same shape.
type UndoRedoPayload struct {
	RoomID       string `json:"roomId"`
	UpdatedLines []Line `json:"updatedLines"`
}

// ChatPayload carries a chat message or a guess.
type ChatPayload struct {
	RoomID      string `json:"roomId"`
	Message     string `json:"message"`
	UserAuthkey string `json:"userAuthkey"`
}

// StartGamePayload is the inbound creator-only request to leave the lobby.
type StartGamePayload struct {
	RoomID string `json:"roomId"`
}

// RoomJoinedPayload acknowledges a successful join and issues the session key.
type RoomJoinedPayload struct {
	RoomID      string `json:"roomId"`
	UserAuthkey string `json:"userAuthkey"`
	Nickname    string `json:"nickname"`
}

// RoomJoinErrorPayload reports a failed join to the requester only.
type RoomJoinErrorPayload struct {
	RoomID  string `json:"roomId"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Member describes one participant in membership broadcasts and snapshots.
type Member struct {
	Nickname  string `json:"nickname"`
	Connected bool   `json:"connected"`
	Score     int    `json:"score"`
	IsCreator bool   `json:"isCreator"`
}

// MembershipPayload is broadcast whenever the member list changes.
type MembershipPayload struct {
	RoomID   string   `json:"roomId"`
	Nickname string   `json:"nickname"`
	Members  []Member `json:"members"`
}

// RoomStatePayload is the full snapshot sent to a joining or reconnecting
// client, bounding recovery cost to state size rather than event history.
type RoomStatePayload struct {
	RoomID             string         `json:"roomId"`
	Lines              []Line         `json:"lines"`
	Phase              string         `json:"phase"`
	CurrentPlayerIndex int            `json:"currentPlayerIndex"`
	RemainingTicks     int            `json:"remainingTicks"`
	TurnIndex          int            `json:"turnIndex"`
	IsTurnOver         bool           `json:"isTurnOver"`
	Scores             map[string]int `json:"scores"`
	Members            []Member       `json:"members"`
}

// ReceiveMessagePayload broadcasts a chat message with the server-assigned
// timestamp (unix milliseconds).
type ReceiveMessagePayload struct {
	RoomID    string `json:"roomId"`
	Nickname  string `json:"nickname"`
	Message   string `json:"message"`
	TimeStamp int64  `json:"timeStamp"`
}

// StartGameBroadcast announces the transition out of the lobby.
type StartGameBroadcast struct {
	RoomID             string `json:"roomId"`
	Message            string `json:"message"`
	CurrentPlayerIndex int    `json:"currentPlayerIndex"`
	IsTurnOver         bool   `json:"isTurnOver"`
}

// SwitchTurnPayload announces the next drawer along with current scores,
// keyed by nickname.
type SwitchTurnPayload struct {
	RoomID             string         `json:"roomId"`
	Scores             map[string]int `json:"scores"`
	CurrentPlayerIndex int            `json:"currentPlayerIndex"`
}

// GameEndedPayload announces the winner and final score.
type GameEndedPayload struct {
	RoomID string `json:"roomId"`
	Winner string `json:"winner"`
	Score  int    `json:"score"`
}

// GameCancelledPayload announces a forced return to the lobby, e.g. when too
// few participants remain to keep playing.
type GameCancelledPayload struct {
	RoomID  string `json:"roomId"`
	Message string `json:"message"`
}

// YourWordPayload privately tells the drawer their secret word.
type YourWordPayload struct {
	RoomID    string `json:"roomId"`
	Word      string `json:"word"`
	TurnIndex int    `json:"turnIndex"`
}

// TurnResultPayload reveals the word and per-guesser score deltas at the end
// of a turn.
type TurnResultPayload struct {
	RoomID string         `json:"roomId"`
	Word   string         `json:"word"`
	Deltas map[string]int `json:"deltas"`
}

// CorrectGuessPayload announces that a participant guessed the word, without
// revealing it.
type CorrectGuessPayload struct {
	RoomID   string `json:"roomId"`
	Nickname string `json:"nickname"`
}

// CloseGuessPayload privately tells a guesser how close their attempt was.
type CloseGuessPayload struct {
	RoomID   string `json:"roomId"`
	Distance int    `json:"distance"`
}

// ErrorPayload carries a targeted error to a single client.
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
