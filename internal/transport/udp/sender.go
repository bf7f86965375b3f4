package udp

import (
	"encoding/json"
	"fmt"
	"net"
	"sync"

	applog "audioctl/internal/log"
)

// MaxDatagramSize is the largest payload Send will put in one datagram.
const MaxDatagramSize = 65507

// UDPSender sends payloads to one address as JSON datagrams.
type UDPSender struct {
	conn       *net.UDPConn
	targetAddr *net.UDPAddr
	mu         sync.Mutex // Protects conn during Close
	closed     bool
}

// NewUDPSender creates a new UDPSender targeting the specified address.
// The address should be in the format "host:port", e.g., "127.0.0.1:9090".
func NewUDPSender(targetAddress string) (*UDPSender, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", targetAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve UDP target address '%s': %w", targetAddress, err)
	}

	// We don't need to bind to a specific local port for sending,
	// so we use nil for the local address in DialUDP.
	conn, err := net.DialUDP("udp", nil, udpAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial UDP for target '%s': %w", targetAddress, err)
	}

	applog.Infof("UDP Sender: Connection established to %s", conn.RemoteAddr().String())

	return &UDPSender{
		conn:       conn,
		targetAddr: udpAddr,
	}, nil
}

// Send marshals data to JSON and transmits it as one datagram. A []byte is
// sent unchanged. It is safe for concurrent use.
func (s *UDPSender) Send(data any) error {
	packet, ok := data.([]byte)
	if !ok {
		var err error
		if packet, err = json.Marshal(data); err != nil {
			return fmt.Errorf("failed to encode UDP payload: %w", err)
		}
	}
	if len(packet) > MaxDatagramSize {
		return fmt.Errorf("UDP payload of %d bytes exceeds %d", len(packet), MaxDatagramSize)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return fmt.Errorf("UDP sender is closed")
	}
	_, err := s.conn.Write(packet)
	s.mu.Unlock()

	if err != nil {
		applog.Warnf("UDP Sender: Error sending packet: %v", err)
		return fmt.Errorf("failed to send UDP packet: %w", err)
	}
	return nil
}

// Close closes the underlying UDP connection.
func (s *UDPSender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil // Already closed
	}

	s.closed = true
	if s.conn != nil {
		applog.Debugf("UDP Sender: Closing connection to %s", s.conn.RemoteAddr().String())
		err := s.conn.Close()
		s.conn = nil // Prevent further use
		if err != nil {
			return fmt.Errorf("failed to close UDP connection: %w", err)
		}
	}
	return nil
}
