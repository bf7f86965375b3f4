package transport

import (
	"fmt"

	"audioctl/internal/transport/udp"
)

// Transport defines a generic interface for sending snapshots or events.
// Implementations should be thread-safe.
type Transport interface {
	Send(data any) error
	Close() error
}

// Open creates the transport named by kind: "log", "websocket" (listening
// on address, serving path) or "udp" (sending to address).
func Open(kind, address, path string) (Transport, error) {
	switch kind {
	case "", "log":
		return NewLoggingTransport(), nil
	case "websocket":
		return NewWebSocketTransport(address, path)
	case "udp":
		return udp.NewUDPSender(address)
	}
	return nil, fmt.Errorf("unknown transport %q", kind)
}

var _ Transport = (*udp.UDPSender)(nil)
