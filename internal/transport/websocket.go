package transport

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	applog "audioctl/internal/log"
)

// WebSocketTransport implements the Transport interface for WebSocket
// connections. Every client receives the most recent payload when it
// connects and each later one as it is sent.
type WebSocketTransport struct {
	listener  net.Listener
	upgrader  websocket.Upgrader
	clients   map[*websocket.Conn]bool
	clientsMu sync.Mutex // guards clients and last; held for every write
	last      any
	broadcast chan any
	done      chan struct{}
	closeOnce sync.Once
	server    *http.Server
}

// NewWebSocketTransport listens on addr and serves WebSocket upgrades on
// path.
func NewWebSocketTransport(addr, path string) (*WebSocketTransport, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	wst := &WebSocketTransport{
		listener: listener,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Local tool; any origin may subscribe
			},
		},
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan any, 256),
		done:      make(chan struct{}),
	}
	wst.start(path)
	return wst, nil
}

// Addr returns the address the server listens on.
func (wst *WebSocketTransport) Addr() net.Addr {
	return wst.listener.Addr()
}

// start begins the WebSocket server
func (wst *WebSocketTransport) start(path string) {
	mux := http.NewServeMux()
	mux.HandleFunc(path, wst.handleWebSocket)

	wst.server = &http.Server{Handler: mux}

	go func() {
		applog.Infof("WebSocketTransport: Serving ws://%s%s", wst.listener.Addr(), path)
		if err := wst.server.Serve(wst.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			applog.Errorf("WebSocketTransport: Server error: %v", err)
		}
	}()

	go wst.handleBroadcasts()
}

// handleWebSocket upgrades HTTP connections to WebSocket
func (wst *WebSocketTransport) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := wst.upgrader.Upgrade(w, r, nil)
	if err != nil {
		applog.Warnf("WebSocketTransport: Upgrade error: %v", err)
		return
	}

	wst.clientsMu.Lock()
	wst.clients[conn] = true
	total := len(wst.clients)
	if wst.last != nil {
		if err := conn.WriteJSON(wst.last); err != nil {
			applog.Warnf("WebSocketTransport: Error sending to client: %v", err)
		}
	}
	wst.clientsMu.Unlock()
	applog.Debugf("WebSocketTransport: Client connected, total: %d", total)

	// Clients only listen; the first read error means they went away.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		wst.clientsMu.Lock()
		delete(wst.clients, conn)
		total := len(wst.clients)
		wst.clientsMu.Unlock()
		conn.Close()
		applog.Debugf("WebSocketTransport: Client disconnected, total: %d", total)
	}()
}

// handleBroadcasts sends messages to all connected clients
func (wst *WebSocketTransport) handleBroadcasts() {
	for {
		select {
		case data := <-wst.broadcast:
			wst.clientsMu.Lock()
			wst.last = data
			for client := range wst.clients {
				if err := client.WriteJSON(data); err != nil {
					applog.Warnf("WebSocketTransport: Error sending to client: %v", err)
					client.Close()
					delete(wst.clients, client)
				}
			}
			wst.clientsMu.Unlock()
		case <-wst.done:
			return
		}
	}
}

// Send queues data for every connected client. When the queue is full the
// payload is dropped.
func (wst *WebSocketTransport) Send(data any) error {
	select {
	case <-wst.done:
		return errors.New("websocket transport is closed")
	default:
	}
	select {
	case wst.broadcast <- data:
	default:
		applog.Debugf("WebSocketTransport: Broadcast queue full, dropping payload")
	}
	return nil
}

// Close shuts down the WebSocket server
func (wst *WebSocketTransport) Close() error {
	var err error
	wst.closeOnce.Do(func() {
		applog.Debugf("WebSocketTransport: Closing server")
		close(wst.done)

		wst.clientsMu.Lock()
		for client := range wst.clients {
			client.Close()
		}
		wst.clients = make(map[*websocket.Conn]bool)
		wst.clientsMu.Unlock()

		err = wst.server.Close()
	})
	return err
}

// Ensure WebSocketTransport satisfies the interface
var _ Transport = (*WebSocketTransport)(nil)
