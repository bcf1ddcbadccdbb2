package network

import (
	"context"
	"errors"
	"net"
	"runtime"
	"strings"
	"testing"
	"time"

	"objgram/codec"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listenLoopback(t *testing.T) (*net.UDPConn, int) {
	t.Helper()
	conn, err := Listen(0, false)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	return conn, localPort(conn)
}

// 受信ソケットが開くまで送り続ける
func sendUntilDone(t *testing.T, payload any, port int, done <-chan struct{}) {
	t.Helper()
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for {
		require.NoError(t, Send(payload, "127.0.0.1", port))
		select {
		case <-done:
			return
		case <-ticker.C:
		}
	}
}

func TestSendReceiveConn(t *testing.T) {
	conn, port := listenLoopback(t)

	payload := codec.Payload{"device": "pos-010", "x": "12.5", "y": "-3"}
	require.NoError(t, Send(payload, "127.0.0.1", port))

	got, err := ReceiveConn(conn, 4096)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestPingScenario(t *testing.T) {
	const port = 9999
	payload := map[string]string{"cmd": "ping", "seq": "1"}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var (
		got  any
		rerr error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		got, rerr = ReceiveContext(ctx, port, 4096)
	}()

	sendUntilDone(t, payload, port, done)

	require.NoError(t, rerr)
	assert.Equal(t, payload, got)

	p, err := codec.AsPayload(got)
	require.NoError(t, err)
	assert.Equal(t, codec.Payload{"cmd": "ping", "seq": "1"}, p)
}

func TestReceiveMapByPort(t *testing.T) {
	conn, port := listenLoopback(t)
	require.NoError(t, conn.Close())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var (
		got  codec.Payload
		rerr error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		v, err := std.ReceiveContext(ctx, port, 4096)
		if err != nil {
			rerr = err
			return
		}
		got, rerr = codec.AsPayload(v)
	}()

	sendUntilDone(t, codec.Payload{"a": "b"}, port, done)

	require.NoError(t, rerr)
	assert.Equal(t, codec.Payload{"a": "b"}, got)

	// ソケットは閉じているので同じポートを再びバインドできる
	again, err := Listen(port, false)
	require.NoError(t, err)
	again.Close()
}

func TestSocketReuse(t *testing.T) {
	conn, port := listenLoopback(t)

	first := codec.Payload{"seq": "1"}
	second := codec.Payload{"seq": "2", "extra": "yes"}

	require.NoError(t, Send(first, "127.0.0.1", port))
	got, err := ReceiveConnMap(conn, 4096)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	require.NoError(t, Send(second, "127.0.0.1", port))
	got, err = ReceiveConnMap(conn, 4096)
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestReceiveFromReportsSender(t *testing.T) {
	conn, port := listenLoopback(t)

	require.NoError(t, Send(codec.Payload{"k": "v"}, "127.0.0.1", port))
	_, addr, err := ReceiveFrom(conn, 4096)
	require.NoError(t, err)

	udpAddr, ok := addr.(*net.UDPAddr)
	require.True(t, ok)
	assert.True(t, udpAddr.IP.IsLoopback())
	assert.NotEqual(t, port, udpAddr.Port)
}

func TestTruncatedDatagram(t *testing.T) {
	conn, port := listenLoopback(t)

	payload := codec.Payload{"cmd": "ping", "body": strings.Repeat("x", 200)}
	require.NoError(t, Send(payload, "127.0.0.1", port))

	v, err := ReceiveConn(conn, 16)
	assert.ErrorIs(t, err, ErrDecode)
	assert.Nil(t, v)
	if runtime.GOOS == "linux" {
		assert.ErrorIs(t, err, ErrTruncated)
	}

	// 切り捨ての後も同じソケットで受信できる
	require.NoError(t, Send(codec.Payload{"seq": "2"}, "127.0.0.1", port))
	got, err := ReceiveConnMap(conn, 4096)
	require.NoError(t, err)
	assert.Equal(t, codec.Payload{"seq": "2"}, got)
}

func TestMalformedDatagram(t *testing.T) {
	conn, port := listenLoopback(t)

	raw, err := net.DialUDP("udp4", nil, &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: port})
	require.NoError(t, err)
	defer raw.Close()

	_, err = raw.Write([]byte("not a serialized object"))
	require.NoError(t, err)

	v, err := ReceiveConn(conn, 4096)
	assert.ErrorIs(t, err, ErrDecode)
	assert.Nil(t, v)
}

func TestReceiveConnMapWrongShape(t *testing.T) {
	conn, port := listenLoopback(t)

	require.NoError(t, Send([]string{"not", "a", "map"}, "127.0.0.1", port))
	_, err := ReceiveConnMap(conn, 4096)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestSendErrors(t *testing.T) {
	_, port := listenLoopback(t)

	testCases := []struct {
		name     string
		payload  any
		address  string
		port     int
		expected error
	}{
		{name: "empty address", payload: codec.Payload{}, address: "", port: port, expected: ErrResolve},
		{name: "port zero", payload: codec.Payload{}, address: "127.0.0.1", port: 0, expected: ErrResolve},
		{name: "port too large", payload: codec.Payload{}, address: "127.0.0.1", port: 70000, expected: ErrResolve},
		{name: "bad address", payload: codec.Payload{}, address: "no such host!", port: port, expected: ErrResolve},
		{name: "unsupported value", payload: func() {}, address: "127.0.0.1", port: port, expected: ErrEncode},
		{name: "datagram too large", payload: codec.Payload{"body": strings.Repeat("x", 70000)}, address: "127.0.0.1", port: port, expected: ErrSend},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			err := Send(tt.payload, tt.address, tt.port)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestReceivePortInUse(t *testing.T) {
	_, port := listenLoopback(t)

	_, err := Receive(port, 4096)
	assert.ErrorIs(t, err, ErrSocket)
}

func TestReceiveInvalidBuffer(t *testing.T) {
	conn, _ := listenLoopback(t)

	_, err := ReceiveConn(conn, 0)
	assert.ErrorIs(t, err, ErrReceive)
}

func TestReceiveConnContextCancel(t *testing.T) {
	conn, port := listenLoopback(t)
	require.NoError(t, conn.SetReadDeadline(time.Time{}))

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	_, err := ReceiveConnContext(ctx, conn, 4096)
	assert.ErrorIs(t, err, ErrReceive)
	assert.ErrorIs(t, err, context.Canceled)

	// デッドラインは解除されている
	require.NoError(t, Send(codec.Payload{"after": "cancel"}, "127.0.0.1", port))
	got, err := ReceiveConnMap(conn, 4096)
	require.NoError(t, err)
	assert.Equal(t, codec.Payload{"after": "cancel"}, got)
}

func TestReceiveClosedSocket(t *testing.T) {
	conn, _ := listenLoopback(t)
	require.NoError(t, conn.SetReadDeadline(time.Time{}))

	time.AfterFunc(50*time.Millisecond, func() { conn.Close() })

	_, err := ReceiveConn(conn, 4096)
	assert.ErrorIs(t, err, ErrReceive)
	assert.True(t, errors.Is(err, net.ErrClosed))
}

func TestCompressedTransfer(t *testing.T) {
	conn, port := listenLoopback(t)

	c, err := codec.ByName(codec.NameGob, codec.ModeHigh)
	require.NoError(t, err)
	tr := New(c)

	payload := codec.Payload{"body": strings.Repeat("abc", 10000)}
	require.NoError(t, tr.Send(payload, "127.0.0.1", port))

	got, err := tr.ReceiveConnMap(conn, 4096)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestBroadcastDelivery(t *testing.T) {
	bcasts, err := BroadcastAddrs()
	require.NoError(t, err)
	if len(bcasts) == 0 {
		t.Skip("no broadcast capable interface")
	}

	first, err := Listen(0, true)
	require.NoError(t, err)
	defer first.Close()
	port := localPort(first)

	second, err := Listen(port, true)
	require.NoError(t, err)
	defer second.Close()

	payload := codec.Payload{"cmd": "hello", "from": "test"}
	if err := Send(payload, bcasts[0].String(), port); err != nil {
		t.Skipf("broadcast send not permitted here: %v", err)
	}

	require.NoError(t, first.SetReadDeadline(time.Now().Add(2*time.Second)))
	got, err := ReceiveConnMap(first, 4096)
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		t.Skip("broadcast not looped back on this host")
	}
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	require.NoError(t, second.SetReadDeadline(time.Now().Add(2*time.Second)))
	got, err = ReceiveConnMap(second, 4096)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}
