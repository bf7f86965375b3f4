package transport

import (
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebSocketTransport_Broadcast(t *testing.T) {
	wst, err := NewWebSocketTransport("127.0.0.1:0", "/snapshot")
	require.NoError(t, err)
	t.Cleanup(func() { _ = wst.Close() })

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+wst.Addr().String()+"/snapshot", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, wst.Send(map[string]int{"seq": 1}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got map[string]int
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, 1, got["seq"])
}

func TestWebSocketTransport_LatestOnConnect(t *testing.T) {
	wst, err := NewWebSocketTransport("127.0.0.1:0", "/snapshot")
	require.NoError(t, err)
	t.Cleanup(func() { _ = wst.Close() })

	require.NoError(t, wst.Send(map[string]int{"seq": 7}))
	require.Eventually(t, func() bool {
		wst.clientsMu.Lock()
		defer wst.clientsMu.Unlock()
		return wst.last != nil
	}, time.Second, time.Millisecond)

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+wst.Addr().String()+"/snapshot", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got map[string]int
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, 7, got["seq"])
}

func TestWebSocketTransport_SendAfterClose(t *testing.T) {
	wst, err := NewWebSocketTransport("127.0.0.1:0", "/snapshot")
	require.NoError(t, err)

	require.NoError(t, wst.Close())
	require.NoError(t, wst.Close())
	assert.Error(t, wst.Send("late"))
}

func TestOpen(t *testing.T) {
	tr, err := Open("log", "", "")
	require.NoError(t, err)
	assert.IsType(t, &LoggingTransport{}, tr)
	assert.NoError(t, tr.Send(map[string]string{"k": "v"}))
	assert.NoError(t, tr.Send(func() {}), "unmarshalable payloads are still logged")
	assert.NoError(t, tr.Close())

	_, err = Open("smoke-signal", "", "")
	assert.Error(t, err)
}
