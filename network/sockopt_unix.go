//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package network

import (
	"syscall"

	"golang.org/x/sys/unix"
)

func control(broadcast, reuse bool) func(network, address string, c syscall.RawConn) error {
	return func(network, address string, c syscall.RawConn) error {
		var err error
		cerr := c.Control(func(fd uintptr) {
			if broadcast {
				err = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_BROADCAST, 1)
				if err != nil {
					return
				}
			}
			if reuse {
				err = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
				if err != nil {
					return
				}
				err = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
			}
		})
		if cerr != nil {
			return cerr
		}
		return err
	}
}

// カーネルがバッファに収まらない部分を捨てたか
func truncated(flags int) bool {
	return flags&unix.MSG_TRUNC != 0
}
