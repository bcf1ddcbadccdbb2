package codec

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
)

const (
	ModeHigh   = "high"
	ModeMedium = "medium"
	ModeLow    = "low"
	ModeNone   = "none"
)

// 1データグラムの上限より大きい展開は不要
const maxDecodedSize = 1 << 20

func ValidMode(mode string) bool {
	switch mode {
	case ModeHigh, ModeMedium, ModeLow, ModeNone:
		return true
	}
	return false
}

// Compressed wraps another codec and compresses its output.
type Compressed struct {
	Codec Codec
	Mode  string
}

func (c Compressed) Name() string { return c.Codec.Name() + "+" + c.Mode }

func (c Compressed) Encode(v any) ([]byte, error) {
	raw, err := c.Codec.Encode(v)
	if err != nil {
		return nil, err
	}
	return Compress(raw, c.Mode)
}

func (c Compressed) Decode(b []byte) (any, error) {
	raw, err := Decompress(b, c.Mode)
	if err != nil {
		return nil, err
	}
	return c.Codec.Decode(raw)
}

func Compress(raw []byte, mode string) ([]byte, error) {
	switch mode {
	case ModeHigh:
		// zstd (level 19)
		encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			return nil, err
		}
		defer encoder.Close()
		return encoder.EncodeAll(raw, make([]byte, 0, len(raw))), nil

	case ModeMedium:
		// gzip (BestSpeed)
		var buf bytes.Buffer
		w, err := gzip.NewWriterLevel(&buf, gzip.BestSpeed)
		if err != nil {
			return nil, err
		}
		if _, err = w.Write(raw); err != nil {
			return nil, err
		}
		if err = w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil

	case ModeLow:
		// snappy
		return snappy.Encode(nil, raw), nil

	case ModeNone:
		return raw, nil

	default:
		return nil, fmt.Errorf("unknown compression mode: %s", mode)
	}
}

func Decompress(data []byte, mode string) ([]byte, error) {
	switch mode {
	case ModeHigh:
		decoder, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxDecodedSize))
		if err != nil {
			return nil, err
		}
		defer decoder.Close()
		return decoder.DecodeAll(data, nil)

	case ModeMedium:
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(io.LimitReader(r, maxDecodedSize))

	case ModeLow:
		n, err := snappy.DecodedLen(data)
		if err != nil {
			return nil, err
		}
		if n > maxDecodedSize {
			return nil, fmt.Errorf("snappy: decoded length %d too large", n)
		}
		return snappy.Decode(nil, data)

	case ModeNone:
		return data, nil

	default:
		return nil, fmt.Errorf("unknown compression mode: %s", mode)
	}
}
