package live

import (
	"encoding/json"
	"fmt"
)

// EnvelopeType tags a live frame so the client knows how to read Data.
type EnvelopeType string

const (
	EnvelopeConnected             EnvelopeType = "connected"
	EnvelopeHistoricNotifications EnvelopeType = "historic_notifications"
	EnvelopeNotification          EnvelopeType = "notification"
)

// Comment markers carry no payload; clients ignore them.
const (
	CommentInitialConnection = "initial-connection"
	CommentKeepAlive         = "keep-alive"
)

// Envelope is built fresh for every push and never stored.
type Envelope struct {
	Type EnvelopeType `json:"type"`
	Data any          `json:"data"`
}

// ConnectedData is the payload of the first envelope on a new connection.
type ConnectedData struct {
	ConnectionID string `json:"connection_id"`
}

// Frame renders the envelope as a single "data: <json>\n\n" frame.
func (e Envelope) Frame() ([]byte, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", e.Type, err)
	}
	frame := make([]byte, 0, len(body)+8)
	frame = append(frame, "data: "...)
	frame = append(frame, body...)
	frame = append(frame, "\n\n"...)
	return frame, nil
}

// CommentFrame renders a comment-only frame, e.g. ":keep-alive\n\n".
func CommentFrame(text string) []byte {
	return []byte(":" + text + "\n\n")
}
