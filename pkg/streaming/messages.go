// Package streaming defines the messages a campaign streams to a save
// server over WebSocket.
package streaming

import "encoding/json"

// Message type constants matching the streaming protocol.
const (
	TypeHello  = "hello"
	TypeSave   = "save"
	TypeStatus = "status"
	TypeAck    = "ack"
)

// Envelope wraps all messages sent over the WebSocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// AckMessage is the server's acknowledgement response.
type AckMessage struct {
	Type  string `json:"type"`         // always "ack"
	For   string `json:"for"`          // the message type being acknowledged
	ID    string `json:"id,omitempty"` // save id for save acks
	Error string `json:"error,omitempty"`
}

// HelloPayload identifies the campaign on (re)connect.
type HelloPayload struct {
	Application string `json:"application"`
	Seed        int64  `json:"seed"`
	Version     int    `json:"version"`
}

// StatusPayload carries the daily campaign status.
type StatusPayload struct {
	Seed   int64           `json:"seed"`
	Status json.RawMessage `json:"status"`
}
