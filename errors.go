package graze

import (
	"errors"
	"fmt"
)

// Exported error categories. Every error returned by LoadFromPath, LoadOrDefault
// and LoadOrWriteDefault is a *LoadError that matches exactly one of them with
// errors.Is:
//   - ErrIO: reading, creating or writing the config file failed.
//   - ErrDeserialize: the deserializer rejected the contents of an existing file.
//   - ErrSerialize: the serializer failed (or panicked) on the default value.
//   - ErrDefault: the default value could not be constructed (see WithModel).
var (
	ErrIO          = errors.New("config file i/o")
	ErrDeserialize = errors.New("deserialize config")
	ErrSerialize   = errors.New("serialize default config")
	ErrDefault     = errors.New("construct default config")

	// ErrInvalidEncoding is wrapped in an ErrIO error when the file is not valid UTF-8.
	ErrInvalidEncoding = errors.New("invalid utf-8 encoding")
)

// Kind tells which stage of a load failed.
type Kind int

const (
	KindIO Kind = iota + 1
	KindDeserialize
	KindSerialize
	KindDefault
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindDeserialize:
		return "deserialize"
	case KindSerialize:
		return "serialize"
	case KindDefault:
		return "default"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindIO:
		return ErrIO
	case KindDeserialize:
		return ErrDeserialize
	case KindSerialize:
		return ErrSerialize
	case KindDefault:
		return ErrDefault
	default:
		return nil
	}
}

// LoadError is the error type returned by all load operations.
//
// Op names the step that failed ("read", "deserialize", "default",
// "serialize" or "write"), Path is the config file path and Err is the
// underlying cause: an *fs.PathError for I/O failures, or whatever the
// caller-supplied function returned.
type LoadError struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%v: %s %s: %v", e.Kind.sentinel(), e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel of e's Kind.
func (e *LoadError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

func newError(kind Kind, op, path string, err error) *LoadError {
	return &LoadError{Kind: kind, Op: op, Path: path, Err: err}
}
