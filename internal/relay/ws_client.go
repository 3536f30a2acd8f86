package relay

import "context"

// WSClient is the ingress surface the bot runs on.
type WSClient interface {
	Connect(ctx context.Context) error
	OnMessage(cb MessageCallback) int
	OnStateChange(cb StateCallback) int
	Close(ctx context.Context) error
}

var _ WSClient = (*WebSocket)(nil)
