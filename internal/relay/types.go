// Package relay talks to the chat relay: a websocket feed of room
// messages in, JSON replies out over HTTP or the same socket.
package relay

// Message is one inbound chat line.
type Message struct {
	Room   string `json:"room"`
	Sender string `json:"sender,omitempty"`
	Msg    string `json:"msg"`
}

// ReplyRequest is the outbound frame for both transports. Image data is
// base64-encoded PNG.
type ReplyRequest struct {
	Type string `json:"type"`
	Room string `json:"room"`
	Data string `json:"data"`
}

const (
	ReplyText  = "text"
	ReplyImage = "image"
)

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

type WebSocketState string

const (
	WSStateDisconnected WebSocketState = "disconnected"
	WSStateConnecting   WebSocketState = "connecting"
	WSStateConnected    WebSocketState = "connected"
	WSStateReconnecting WebSocketState = "reconnecting"
	WSStateFailed       WebSocketState = "failed"
)

type staticErr string

func (e staticErr) Error() string { return string(e) }

const (
	ErrNotConnected      = staticErr("relay websocket not connected")
	ErrEgressUnavailable = staticErr("relay egress not available")
)
