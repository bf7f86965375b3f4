package udp

import (
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listen(t *testing.T) *net.UDPConn {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readDatagram(t *testing.T, conn *net.UDPConn) []byte {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, MaxDatagramSize)
	n, _, err := conn.ReadFromUDP(buf)
	require.NoError(t, err)
	return buf[:n]
}

func TestUDPSender_SendJSON(t *testing.T) {
	server := listen(t)
	sender, err := NewUDPSender(server.LocalAddr().String())
	require.NoError(t, err)
	defer sender.Close()

	require.NoError(t, sender.Send(map[string]any{"pid": 42}))

	var got map[string]any
	require.NoError(t, json.Unmarshal(readDatagram(t, server), &got))
	assert.Equal(t, float64(42), got["pid"])
}

func TestUDPSender_SendRawBytes(t *testing.T) {
	server := listen(t)
	sender, err := NewUDPSender(server.LocalAddr().String())
	require.NoError(t, err)
	defer sender.Close()

	require.NoError(t, sender.Send([]byte("raw")))
	assert.Equal(t, "raw", string(readDatagram(t, server)))
}

func TestUDPSender_Errors(t *testing.T) {
	_, err := NewUDPSender("not an address")
	assert.Error(t, err)

	server := listen(t)
	sender, err := NewUDPSender(server.LocalAddr().String())
	require.NoError(t, err)

	assert.ErrorContains(t, sender.Send(make([]byte, MaxDatagramSize+1)), "exceeds")
	assert.ErrorContains(t, sender.Send(func() {}), "encode")

	require.NoError(t, sender.Close())
	require.NoError(t, sender.Close())
	assert.ErrorContains(t, sender.Send("late"), "closed")
}
