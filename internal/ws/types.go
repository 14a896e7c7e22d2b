package ws

import (
	"encoding/json"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	MessageTypeSelect    MessageType = "select"
	MessageTypePromote   MessageType = "promote"
	MessageTypeTakeback  MessageType = "takeback"
	MessageTypeResign    MessageType = "resign"
	MessageTypeGameState MessageType = "gameState"
	MessageTypeError     MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// SelectPayload is a click on the board, as a square name like "e2".
type SelectPayload struct {
	Square string `json:"square"`
}

// PromotePayload names the promotion piece: queen, rook, bishop or knight.
type PromotePayload struct {
	Kind string `json:"kind"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}
