package utils

import (
	"errors"
	"io"
	"strings"

	"objgram/codec"

	"github.com/mattn/go-tty"
	"github.com/sirupsen/logrus"
)

func SetUpLogrus(level string) error {
	//logrus setup
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:          true,
		TimestampFormat:        "2006-01-02 15:04:05",
		DisableLevelTruncation: true,
		PadLevelText:           true,
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logrus.SetLevel(lvl)
	return nil
}

func OpenTty() (*tty.TTY, error) {
	t, err := tty.Open()
	if err != nil {
		return nil, err
	}
	ttyHandler = t
	return ttyHandler, nil
}

func UseTty() (*tty.TTY, error) {
	if ttyHandler == nil {
		return OpenTty()
	}
	return ttyHandler, nil
}

func CloseTty() error {
	if ttyHandler == nil {
		return nil
	}
	err := ttyHandler.Close()
	ttyHandler = nil
	return err
}

// ReadPayload reads key=value lines until an empty line.
// It returns io.EOF once the exit command is read with nothing pending.
func ReadPayload(r LineReader) (codec.Payload, error) {
	p := codec.Payload{}
	for {
		line, err := r.ReadString()
		if err != nil {
			if errors.Is(err, io.EOF) && len(p) > 0 {
				return p, nil
			}
			return nil, err
		}

		line = strings.TrimSpace(line)
		switch {
		case line == ExitCommand:
			if len(p) > 0 {
				return p, nil
			}
			return nil, io.EOF
		case line == "":
			if len(p) > 0 {
				return p, nil
			}
			// 空のブロックは無視
		default:
			k, v, err := codec.ParsePair(line)
			if err != nil {
				logrus.Warn(err)
				continue
			}
			p[k] = v
		}
	}
}
