package network

import (
	"context"
	"net"

	"objgram/codec"
)

// NewConnection binds config.LocalPort and keeps the socket for repeated receives.
func NewConnection(config ConnectionConfig, t *Transfer) (*Connection, error) {
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultBufferSize
	}
	if t == nil {
		t = std
	}

	udpConn, err := Listen(config.LocalPort, config.Reuse)
	if err != nil {
		return nil, err
	}

	return &Connection{
		conn:     udpConn,
		config:   config,
		transfer: t,
	}, nil
}

// Receive waits for the next datagram. A zero Timeout waits forever.
func (c *Connection) Receive(ctx context.Context) (any, net.Addr, error) {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	return c.transfer.receive(ctx, c.conn, c.config.BufferSize)
}

func (c *Connection) ReceiveMap(ctx context.Context) (codec.Payload, net.Addr, error) {
	v, addr, err := c.Receive(ctx)
	if err != nil {
		return nil, addr, err
	}

	p, err := codec.AsPayload(v)
	if err != nil {
		return nil, addr, err
	}
	return p, addr, nil
}

func (c *Connection) Conn() *net.UDPConn {
	return c.conn
}

func (c *Connection) LocalPort() int {
	return localPort(c.conn)
}

func (c *Connection) Close() error {
	return c.conn.Close()
}
