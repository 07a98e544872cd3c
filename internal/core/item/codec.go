package item

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// envelope is the wire shape of a serialized payload.
type envelope struct {
	Kind Kind            `cbor:"kind"`
	Data cbor.RawMessage `cbor:"data"`
}

// libraryWire is Library with its template encoded as a nested envelope.
type libraryWire struct {
	Name     string          `cbor:"name"`
	Template cbor.RawMessage `cbor:"template"`
}

// Encode serializes a payload for the persistence layer.
func Encode(p Payload) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("cannot encode nil payload")
	}

	var body any = p
	if lib, ok := p.(Library); ok {
		tmpl, err := Encode(lib.Template)
		if err != nil {
			return nil, fmt.Errorf("failed to encode library template: %w", err)
		}
		body = libraryWire{Name: lib.Name, Template: tmpl}
	}

	data, err := cbor.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", p.Kind(), err)
	}
	return cbor.Marshal(envelope{Kind: p.Kind(), Data: data})
}

// Decode is the inverse of Encode.
func Decode(b []byte) (Payload, error) {
	var env envelope
	if err := cbor.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("failed to decode payload envelope: %w", err)
	}

	switch env.Kind {
	case KindText:
		return decodeAs[Text](env)
	case KindRichText:
		return decodeAs[RichText](env)
	case KindMedia:
		return decodeAs[Media](env)
	case KindLinks:
		return decodeAs[Links](env)
	case KindLibrary:
		var w libraryWire
		if err := unmarshal(env, &w); err != nil {
			return nil, err
		}
		tmpl, err := Decode(w.Template)
		if err != nil {
			return nil, fmt.Errorf("failed to decode library template: %w", err)
		}
		return Library{Name: w.Name, Template: tmpl}, nil
	}
	return nil, fmt.Errorf("unknown payload kind %q", env.Kind)
}

func decodeAs[T Payload](env envelope) (Payload, error) {
	var v T
	if err := unmarshal(env, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func unmarshal(env envelope, v any) error {
	if err := cbor.Unmarshal(env.Data, v); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", env.Kind, err)
	}
	return nil
}
