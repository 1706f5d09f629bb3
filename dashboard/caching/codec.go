package caching

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/shamaton/msgpack/v2"
)

var ErrUnknownCodec = errors.New("unknown codec")

// Codec turns cached values into bytes and back.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// NewCodec returns the codec registered under name: "msgpack" or "json".
func NewCodec(name string) (Codec, error) {
	switch name {
	case "msgpack":
		return msgpackCodec{}, nil
	case "json":
		return jsonCodec{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}

type msgpackCodec struct{}

func (msgpackCodec) Marshal(v any) ([]byte, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal msgpack: %w", err)
	}
	return data, nil
}

func (msgpackCodec) Unmarshal(data []byte, v any) error {
	if err := msgpack.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal msgpack: %w", err)
	}
	return nil
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
