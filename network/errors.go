package network

import (
	"errors"

	"objgram/codec"
)

// Error kinds. Every returned error wraps exactly one of these and the underlying cause.
var (
	ErrResolve   = errors.New("address resolution failed")
	ErrSocket    = errors.New("socket setup failed")
	ErrSend      = errors.New("send failed")
	ErrReceive   = errors.New("receive failed")
	ErrEncode    = codec.ErrEncode
	ErrDecode    = codec.ErrDecode
	ErrTruncated = errors.New("datagram truncated")
)
