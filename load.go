package graze

import (
	"errors"
	"fmt"
	"io/fs"

	modellib "github.com/ygrebnov/model"

	"github.com/ygrebnov/graze/streams"
)

// Deserializer turns the raw contents of a config file into a T.
type Deserializer[T any] func(data []byte) (T, error)

// Serializer turns a T into bytes that a compatible Deserializer can read back.
type Serializer[T any] func(v T) ([]byte, error)

// DefaultFn produces the value used when the config file does not exist.
// It is only called on that path. A nil DefaultFn produces the zero value of T.
type DefaultFn[T any] func() T

// Value returns a DefaultFn that always yields v.
func Value[T any](v T) DefaultFn[T] {
	return func() T { return v }
}

// ModelInit binds a model.Model[T] to the default value produced by a DefaultFn.
type ModelInit[T any] func(*T) (*modellib.Model[T], error)

type options[T any] struct {
	streams   streams.IOStreams
	fileMode  fs.FileMode
	binary    bool
	modelInit ModelInit[T]
}

// Option configures a single load call. Options can be passed in any order.
type Option[T any] func(*options[T])

// WithStreams wires user-facing message streams. A one-line notice is written
// to Out() after every successful load ("loaded", "using defaults" or
// "created"). Without streams the load functions print nothing.
func WithStreams[T any](s streams.IOStreams) Option[T] {
	return func(o *options[T]) {
		o.streams = s
	}
}

// WithFileMode sets the permissions of a file created by LoadOrWriteDefault.
// The default is 0600. The process umask still applies.
func WithFileMode[T any](mode fs.FileMode) Option[T] {
	return func(o *options[T]) {
		o.fileMode = mode.Perm()
	}
}

// AllowBinary disables the UTF-8 check on the file contents so that binary
// formats can be loaded.
func AllowBinary[T any]() Option[T] {
	return func(o *options[T]) {
		o.binary = true
	}
}

// WithModel enables integration with github.com/ygrebnov/model for the default
// value. When the file is absent, init is called with a pointer to the value
// produced by the DefaultFn and SetDefaults() fills its zero fields from
// `default` struct tags before the value is returned or written.
// A value loaded from an existing file is never touched.
//
// Panics if init is nil.
func WithModel[T any](init ModelInit[T]) Option[T] {
	if init == nil {
		panic("graze: WithModel: init cannot be nil")
	}
	return func(o *options[T]) {
		o.modelInit = init
	}
}

func newOptions[T any](opts []Option[T]) *options[T] {
	o := &options[T]{fileMode: defaultFileMode}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *options[T]) notify(format string, args ...any) {
	if o.streams != nil && o.streams.Out() != nil {
		fmt.Fprintf(o.streams.Out(), "graze: "+format+"\n", args...)
	}
}

// LoadFromPath reads the file at path and parses it with deserialize.
//
// Any read failure, including a missing file, is returned as an ErrIO error.
// A deserializer failure is returned as an ErrDeserialize error. The file is
// never created or modified.
//
// Panics if deserialize is nil.
func LoadFromPath[T any](path string, deserialize Deserializer[T], opts ...Option[T]) (T, error) {
	if deserialize == nil {
		panic("graze: LoadFromPath: deserializer cannot be nil")
	}
	o := newOptions(opts)

	v, err := load(path, deserialize, o)
	if err != nil {
		var zero T
		return zero, err
	}
	o.notify("loaded %s", path)
	return v, nil
}

// LoadOrDefault reads the file at path and parses it with deserialize. If the
// file does not exist, the value produced by def is returned instead.
//
// Only the operating system's "not found" condition selects the default; any
// other read failure is an ErrIO error, and a file that exists but cannot be
// parsed is an ErrDeserialize error. Nothing is ever written.
//
// Panics if deserialize is nil.
func LoadOrDefault[T any](
	path string,
	deserialize Deserializer[T],
	def DefaultFn[T],
	opts ...Option[T],
) (T, error) {
	if deserialize == nil {
		panic("graze: LoadOrDefault: deserializer cannot be nil")
	}
	o := newOptions(opts)
	var zero T

	v, err := load(path, deserialize, o)
	switch {
	case err == nil:
		o.notify("loaded %s", path)
		return v, nil
	case !isNotExist(err):
		return zero, err
	}

	v, err = o.makeDefault(path, def)
	if err != nil {
		return zero, err
	}
	o.notify("%s not found, using defaults", path)
	return v, nil
}

// LoadOrWriteDefault behaves like LoadOrDefault, but when the file does not
// exist the default value is serialized and written to path before it is
// returned.
//
// The file is created exclusively: an existing file is never truncated or
// replaced, and parent directories are not created. If serialization fails
// the error is ErrSerialize and nothing is written. If the file cannot be
// created or written the error is ErrIO and the path is left absent, so a
// default is only ever returned once it is on disk.
//
// Concurrent first-run calls on the same path are not coordinated. The loser
// of such a race gets an ErrIO error wrapping fs.ErrExist.
//
// Panics if deserialize or serialize is nil.
func LoadOrWriteDefault[T any](
	path string,
	deserialize Deserializer[T],
	def DefaultFn[T],
	serialize Serializer[T],
	opts ...Option[T],
) (T, error) {
	if deserialize == nil {
		panic("graze: LoadOrWriteDefault: deserializer cannot be nil")
	}
	if serialize == nil {
		panic("graze: LoadOrWriteDefault: serializer cannot be nil")
	}
	o := newOptions(opts)
	var zero T

	v, err := load(path, deserialize, o)
	switch {
	case err == nil:
		o.notify("loaded %s", path)
		return v, nil
	case !isNotExist(err):
		return zero, err
	}

	v, err = o.makeDefault(path, def)
	if err != nil {
		return zero, err
	}
	if err := o.persist(path, v, serialize); err != nil {
		return zero, err
	}
	o.notify("created %s with defaults", path)
	return v, nil
}

func load[T any](path string, deserialize Deserializer[T], o *options[T]) (T, error) {
	var zero T
	data, err := readFile(path, o.binary)
	if err != nil {
		return zero, newError(KindIO, "read", path, err)
	}
	v, err := deserialize(data)
	if err != nil {
		return zero, newError(KindDeserialize, "deserialize", path, err)
	}
	return v, nil
}

func (o *options[T]) makeDefault(path string, def DefaultFn[T]) (T, error) {
	var v T
	if def != nil {
		v = def()
	}
	if o.modelInit == nil {
		return v, nil
	}

	var zero T
	mdl, err := o.modelInit(&v)
	if err != nil {
		return zero, newError(KindDefault, "default", path, err)
	}
	if mdl == nil {
		return zero, newError(KindDefault, "default", path, errors.New("model init returned nil model"))
	}
	if err := mdl.SetDefaults(); err != nil {
		return zero, newError(KindDefault, "default", path, err)
	}
	return v, nil
}

func (o *options[T]) persist(path string, v T, s Serializer[T]) error {
	data, err := serialize(s, v)
	if err != nil {
		return newError(KindSerialize, "serialize", path, err)
	}
	if err := createFile(path, data, o.fileMode); err != nil {
		return newError(KindIO, "write", path, err)
	}
	return nil
}

// isNotExist reports whether err is a read failure caused by a missing file.
func isNotExist(err error) bool {
	var le *LoadError
	return errors.As(err, &le) && le.Kind == KindIO && errors.Is(le.Err, fs.ErrNotExist)
}
