package codec

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

var cborDecMode = func() cbor.DecMode {
	dm, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic(err)
	}
	return dm
}()

// CBOR is for peers that are not written in Go. Type names are not carried,
// maps come back as map[string]any.
type CBOR struct{}

func (CBOR) Name() string { return NameCBOR }

func (CBOR) Encode(v any) ([]byte, error) {
	return cbor.Marshal(v)
}

func (CBOR) Decode(b []byte) (any, error) {
	var v any
	if err := cborDecMode.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return v, nil
}
