package network

import (
	"net"
	"time"
)

const (
	// IPv4 UDP の最大ペイロード
	MaxDatagramSize   = 65507
	DefaultBufferSize = 4096
)

type ConnectionConfig struct {
	LocalPort  int
	BufferSize int
	// 0 なら無期限に待つ
	Timeout time.Duration
	// 同じポートで複数のリスナーを許可する
	Reuse bool
}

// Connection owns one bound socket and decodes every datagram read from it.
type Connection struct {
	conn     *net.UDPConn
	config   ConnectionConfig
	transfer *Transfer
}
