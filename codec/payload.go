package codec

import (
	"fmt"
	"sort"
	"strings"
)

// Payload is the message shape exchanged between devices.
type Payload map[string]string

// AsPayload checks that a decoded value is a string to string mapping.
func AsPayload(v any) (Payload, error) {
	switch m := v.(type) {
	case Payload:
		return m, nil
	case map[string]string:
		return Payload(m), nil
	case map[string]any:
		p := make(Payload, len(m))
		for k, val := range m {
			s, ok := val.(string)
			if !ok {
				return nil, fmt.Errorf("%w: value of %q is %T, not string", ErrDecode, k, val)
			}
			p[k] = s
		}
		return p, nil
	default:
		return nil, fmt.Errorf("%w: got %T, want string map", ErrDecode, v)
	}
}

// ParsePair splits "key=value". The key must not be empty.
func ParsePair(s string) (string, string, error) {
	k, v, ok := strings.Cut(s, "=")
	if !ok || k == "" {
		return "", "", fmt.Errorf("invalid pair %q, want key=value", s)
	}
	return k, v, nil
}

func ParsePairs(pairs []string) (Payload, error) {
	p := make(Payload, len(pairs))
	for _, s := range pairs {
		k, v, err := ParsePair(s)
		if err != nil {
			return nil, err
		}
		p[k] = v
	}
	return p, nil
}

// Keys returns the keys in sorted order.
func (p Payload) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
