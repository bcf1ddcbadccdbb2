package network

import (
	"context"
	"fmt"
	"net"
	"strconv"
)

// Listen binds an IPv4 UDP socket on all interfaces. The caller owns the socket.
// With reuse set, other sockets may bind the same port and every one of them
// gets a copy of each broadcast datagram.
func Listen(port int, reuse bool) (*net.UDPConn, error) {
	if port < 0 || port > 65535 {
		return nil, fmt.Errorf("%w: invalid port %d", ErrSocket, port)
	}

	addr := net.UDPAddr{
		IP:   net.IPv4zero,
		Port: port,
	}
	cfg := net.ListenConfig{Control: control(false, reuse)}
	pc, err := cfg.ListenPacket(context.Background(), "udp4", addr.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSocket, err)
	}
	return pc.(*net.UDPConn), nil
}

// 送信用のソケット。送信元ポートはOSに任せる
func listenSender(raddr *net.UDPAddr) (*net.UDPConn, error) {
	network := "udp6"
	if raddr.IP.To4() != nil {
		network = "udp4"
	}

	cfg := net.ListenConfig{Control: control(true, false)}
	pc, err := cfg.ListenPacket(context.Background(), network, ":0")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSocket, err)
	}
	return pc.(*net.UDPConn), nil
}

func resolve(address string, port int) (*net.UDPAddr, error) {
	if address == "" {
		return nil, fmt.Errorf("%w: empty address", ErrResolve)
	}
	if port < 1 || port > 65535 {
		return nil, fmt.Errorf("%w: invalid port %d", ErrResolve, port)
	}

	raddr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(address, strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResolve, err)
	}
	return raddr, nil
}

func localPort(conn net.PacketConn) int {
	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		return addr.Port
	}
	return 0
}
