//go:build !(linux || darwin || dragonfly || freebsd || netbsd || openbsd)

package network

import (
	"errors"
	"syscall"
)

func control(broadcast, reuse bool) func(network, address string, c syscall.RawConn) error {
	return func(network, address string, c syscall.RawConn) error {
		if reuse {
			return errors.New("port reuse is not supported on this platform")
		}
		return nil
	}
}

// truncation is left to the decoder here
func truncated(flags int) bool {
	return false
}
