package network

import (
	"context"
	"fmt"
	"net"
	"time"

	"objgram/codec"

	"github.com/sirupsen/logrus"
)

// Transfer sends and receives one encoded value per UDP datagram.
// There is no acknowledgement, retry or framing on top of the codec output.
type Transfer struct {
	Codec codec.Codec
	Log   logrus.FieldLogger
}

func New(c codec.Codec) *Transfer {
	return &Transfer{Codec: c, Log: logrus.StandardLogger()}
}

var std = New(codec.Default())

func (t *Transfer) codecOrDefault() codec.Codec {
	if t.Codec == nil {
		return codec.Default()
	}
	return t.Codec
}

func (t *Transfer) log() logrus.FieldLogger {
	if t.Log == nil {
		return logrus.StandardLogger()
	}
	return t.Log
}

// Send encodes payload and sends it to address:port as one datagram.
// address may be a subnet broadcast address such as 192.168.1.255.
func (t *Transfer) Send(payload any, address string, port int) error {
	raddr, err := resolve(address, port)
	if err != nil {
		return err
	}

	data, err := codec.Encode(t.codecOrDefault(), payload)
	if err != nil {
		return err
	}

	conn, err := listenSender(raddr)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.WriteToUDP(data, raddr); err != nil {
		return fmt.Errorf("%w: %w", ErrSend, err)
	}

	t.log().Debugf("sent %d bytes to %s", len(data), raddr)
	return nil
}

// Receive binds port, waits for one datagram and closes the socket again.
// It blocks until a datagram arrives.
func (t *Transfer) Receive(port, bufferSize int) (any, error) {
	return t.ReceiveContext(context.Background(), port, bufferSize)
}

func (t *Transfer) ReceiveContext(ctx context.Context, port, bufferSize int) (any, error) {
	conn, err := Listen(port, false)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	v, _, err := t.receive(ctx, conn, bufferSize)
	return v, err
}

// ReceiveConn waits for one datagram on a socket owned by the caller.
// The socket is left open.
func (t *Transfer) ReceiveConn(conn net.PacketConn, bufferSize int) (any, error) {
	v, _, err := t.receive(context.Background(), conn, bufferSize)
	return v, err
}

// ReceiveConnContext is ReceiveConn with cancellation. If ctx ends first the
// read is interrupted and the read deadline of conn is cleared afterwards.
func (t *Transfer) ReceiveConnContext(ctx context.Context, conn net.PacketConn, bufferSize int) (any, error) {
	v, _, err := t.receive(ctx, conn, bufferSize)
	return v, err
}

// ReceiveFrom also returns the sender address.
func (t *Transfer) ReceiveFrom(conn net.PacketConn, bufferSize int) (any, net.Addr, error) {
	return t.receive(context.Background(), conn, bufferSize)
}

func (t *Transfer) ReceiveMap(port, bufferSize int) (codec.Payload, error) {
	v, err := t.Receive(port, bufferSize)
	if err != nil {
		return nil, err
	}
	return codec.AsPayload(v)
}

func (t *Transfer) ReceiveConnMap(conn net.PacketConn, bufferSize int) (codec.Payload, error) {
	v, err := t.ReceiveConn(conn, bufferSize)
	if err != nil {
		return nil, err
	}
	return codec.AsPayload(v)
}

func (t *Transfer) receive(ctx context.Context, conn net.PacketConn, bufferSize int) (any, net.Addr, error) {
	if ctx.Done() != nil {
		fired := make(chan struct{})
		stop := context.AfterFunc(ctx, func() {
			conn.SetReadDeadline(time.Unix(1, 0))
			close(fired)
		})
		defer func() {
			if !stop() {
				<-fired
				conn.SetReadDeadline(time.Time{})
			}
		}()
	}

	data, addr, err := read(conn, bufferSize)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrReceive, ctx.Err())
		}
		return nil, addr, err
	}

	t.log().Debugf("received %d bytes from %s", len(data), addr)

	v, err := codec.Decode(t.codecOrDefault(), data, 0, len(data))
	if err != nil {
		return nil, addr, err
	}
	return v, addr, nil
}

func read(conn net.PacketConn, bufferSize int) ([]byte, net.Addr, error) {
	if bufferSize <= 0 {
		return nil, nil, fmt.Errorf("%w: invalid buffer size %d", ErrReceive, bufferSize)
	}
	buffer := make([]byte, bufferSize)

	uc, ok := conn.(*net.UDPConn)
	if !ok {
		n, addr, err := conn.ReadFrom(buffer)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrReceive, err)
		}
		return buffer[:n], addr, nil
	}

	n, _, flags, addr, err := uc.ReadMsgUDP(buffer, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrReceive, err)
	}
	if truncated(flags) {
		return nil, addr, fmt.Errorf("%w: %w: datagram larger than %d bytes", ErrDecode, ErrTruncated, bufferSize)
	}
	return buffer[:n], addr, nil
}

func Send(payload any, address string, port int) error {
	return std.Send(payload, address, port)
}

func Receive(port, bufferSize int) (any, error) {
	return std.Receive(port, bufferSize)
}

func ReceiveContext(ctx context.Context, port, bufferSize int) (any, error) {
	return std.ReceiveContext(ctx, port, bufferSize)
}

func ReceiveConn(conn net.PacketConn, bufferSize int) (any, error) {
	return std.ReceiveConn(conn, bufferSize)
}

func ReceiveConnContext(ctx context.Context, conn net.PacketConn, bufferSize int) (any, error) {
	return std.ReceiveConnContext(ctx, conn, bufferSize)
}

func ReceiveFrom(conn net.PacketConn, bufferSize int) (any, net.Addr, error) {
	return std.ReceiveFrom(conn, bufferSize)
}

func ReceiveMap(port, bufferSize int) (codec.Payload, error) {
	return std.ReceiveMap(port, bufferSize)
}

func ReceiveConnMap(conn net.PacketConn, bufferSize int) (codec.Payload, error) {
	return std.ReceiveConnMap(conn, bufferSize)
}
