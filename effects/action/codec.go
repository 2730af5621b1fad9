package action

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Codec encodes actions for collaborators that exchange them.
type Codec interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

var (
	JSON Codec = jsonCodec{}
	YAML Codec = yamlCodec{}
)

type jsonCodec struct{}

func (jsonCodec) Name() string                       { return "json" }
func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

type yamlCodec struct{}

func (yamlCodec) Name() string                       { return "yaml" }
func (yamlCodec) Marshal(v any) ([]byte, error)      { return yaml.Marshal(v) }
func (yamlCodec) Unmarshal(data []byte, v any) error { return yaml.Unmarshal(data, v) }

// Encode writes a in the wire shape of c.
func Encode[P any](c Codec, a Action[P]) ([]byte, error) {
	if a.Type == "" {
		return nil, ErrMissingType
	}
	data, err := c.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encode %s action %q: %w", c.Name(), a.Type, err)
	}
	return data, nil
}

// Decode reads an action of payload type P. The discriminant is mandatory.
func Decode[P any](c Codec, data []byte) (Action[P], error) {
	var a Action[P]
	if err := c.Unmarshal(data, &a); err != nil {
		return Action[P]{}, fmt.Errorf("decode %s action: %w", c.Name(), err)
	}
	if a.Type == "" {
		return Action[P]{}, ErrMissingType
	}
	return a, nil
}

// Peek reads only the discriminant of an encoded action.
func Peek(c Codec, data []byte) (string, error) {
	var head struct {
		Type string `json:"type" yaml:"type"`
	}
	if err := c.Unmarshal(data, &head); err != nil {
		return "", fmt.Errorf("peek %s action: %w", c.Name(), err)
	}
	if head.Type == "" {
		return "", ErrMissingType
	}
	return head.Type, nil
}
