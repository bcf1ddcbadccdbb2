package codec

import (
	"errors"
	"fmt"
)

var (
	ErrEncode = errors.New("encode failed")
	ErrDecode = errors.New("decode failed")
)

// Codec converts a value to the bytes of one datagram and back.
type Codec interface {
	Name() string
	Encode(v any) ([]byte, error)
	Decode(b []byte) (any, error)
}

const (
	NameGob  = "gob"
	NameCBOR = "cbor"
)

// Default is the codec used when none is configured.
func Default() Codec {
	return Gob{}
}

// ByName builds a codec from config strings. mode is a compression mode, "" or "none" disables it.
func ByName(name, mode string) (Codec, error) {
	var c Codec
	switch name {
	case "", NameGob:
		c = Gob{}
	case NameCBOR:
		c = CBOR{}
	default:
		return nil, fmt.Errorf("unknown codec: %s", name)
	}

	if mode == "" || mode == ModeNone {
		return c, nil
	}
	if !ValidMode(mode) {
		return nil, fmt.Errorf("unknown compression mode: %s", mode)
	}
	return Compressed{Codec: c, Mode: mode}, nil
}

func Encode(c Codec, v any) ([]byte, error) {
	b, err := c.Encode(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return b, nil
}

// Decode は bytes[offset:offset+length] を復元する
func Decode(c Codec, b []byte, offset, length int) (any, error) {
	if offset < 0 || length < 0 || offset+length > len(b) {
		return nil, fmt.Errorf("%w: range %d+%d out of %d bytes", ErrDecode, offset, length, len(b))
	}
	if length == 0 {
		return nil, fmt.Errorf("%w: empty datagram", ErrDecode)
	}

	v, err := c.Decode(b[offset : offset+length])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return v, nil
}
