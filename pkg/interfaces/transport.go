// pkg/interfaces/transport.go
package interfaces

import (
	"context"
	"errors"
)

var (
	ErrConnectionFailed    = errors.New("connection failed")
	ErrNotConnected        = errors.New("not connected")
	ErrUnsupportedProtocol = errors.New("unsupported protocol")
)

// TransportProtocol is the link to the fitness server. One instance maps to
// one physical connection; a reconnect creates a fresh instance.
type TransportProtocol interface {
	Connect(ctx context.Context) error
	Send(data []byte) error
	// Receive returns the inbound frame channel. The channel is closed when
	// the connection is lost or Close is called, which is the only
	// loss-of-connection signal a consumer gets.
	Receive() <-chan Message
	Close() error
	ProtocolType() string
}

// Message is one complete frame received from the server.
type Message struct {
	Payload []byte
}
