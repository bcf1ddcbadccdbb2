package codec

import (
	"bytes"
	"encoding/gob"
)

// envelope carries the value in an interface field so the concrete type name goes on the wire.
type envelope struct {
	Value any
}

func init() {
	Register(Payload{})
	Register(map[string]string{})
	Register(map[string]any{})
	Register([]any{})
	Register([]string{})
	Register("")
	Register(false)
	Register(0)
	Register(int64(0))
	Register(float64(0))
	Register([]byte{})
}

// Register adds a concrete type to the set the gob codec can carry.
// Sender and receiver both have to register it.
func Register(v any) {
	gob.Register(v)
}

// Gob is the default codec. The stream is self-describing, so a receiver
// rebuilds the sender's concrete type as long as it is registered.
type Gob struct{}

func (Gob) Name() string { return NameGob }

func (Gob) Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&envelope{Value: v}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (Gob) Decode(b []byte) (any, error) {
	var env envelope
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&env); err != nil {
		return nil, err
	}
	return env.Value, nil
}
