// Package codec provides deserializer/serializer pairs for common config file
// formats. A Codec's Decode and Encode methods have the shapes of
// graze.Deserializer and graze.Serializer, so method values can be passed to
// the graze load functions directly:
//
//	c := codec.YAML[Cfg]()
//	cfg, err := graze.LoadOrWriteDefault("app.yaml", c.Decode, graze.Value(Cfg{}), c.Encode)
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/sblinch/kdl-go"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnsupportedFileType = errors.New("unsupported config file type")
	ErrDecode              = errors.New("decode config")
	ErrEncode              = errors.New("encode config")
)

// Codec decodes and encodes values of type T in one format.
type Codec[T any] struct {
	name      string
	unmarshal func([]byte, any) error
	marshal   func(any) ([]byte, error)
}

// Name returns the format name, e.g. "yaml".
func (c Codec[T]) Name() string { return c.name }

// Decode parses data into a new T.
func (c Codec[T]) Decode(data []byte) (T, error) {
	var v T
	if err := c.unmarshal(data, &v); err != nil {
		var zero T
		return zero, fmt.Errorf("%w as %s: %w", ErrDecode, c.name, err)
	}
	return v, nil
}

// Encode formats v.
func (c Codec[T]) Encode(v T) ([]byte, error) {
	data, err := c.marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w as %s: %w", ErrEncode, c.name, err)
	}
	return data, nil
}

// YAML returns a codec backed by gopkg.in/yaml.v3.
func YAML[T any]() Codec[T] {
	return Codec[T]{name: "yaml", unmarshal: yaml.Unmarshal, marshal: yaml.Marshal}
}

// JSON returns a codec backed by encoding/json. Output is indented with two
// spaces.
func JSON[T any]() Codec[T] {
	return Codec[T]{name: "json", unmarshal: json.Unmarshal, marshal: marshalJSON}
}

func marshalJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// TOML returns a codec backed by github.com/pelletier/go-toml/v2.
func TOML[T any]() Codec[T] {
	return Codec[T]{name: "toml", unmarshal: toml.Unmarshal, marshal: toml.Marshal}
}

// KDL returns a codec backed by github.com/sblinch/kdl-go.
func KDL[T any]() Codec[T] {
	return Codec[T]{name: "kdl", unmarshal: kdl.Unmarshal, marshal: kdl.Marshal}
}

// ForPath picks a codec from the extension of path: .yaml/.yml, .json, .toml
// or .kdl. A path without an extension gets YAML.
func ForPath[T any](path string) (Codec[T], error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case "", ".yaml", ".yml":
		return YAML[T](), nil
	case ".json":
		return JSON[T](), nil
	case ".toml":
		return TOML[T](), nil
	case ".kdl":
		return KDL[T](), nil
	default:
		return Codec[T]{}, fmt.Errorf("%w: %s", ErrUnsupportedFileType, ext)
	}
}
