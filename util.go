package graze

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"unicode/utf8"
)

const defaultFileMode fs.FileMode = 0o600

// readFile reads the whole file at path. Unless binary is set, the contents
// must be valid UTF-8.
func readFile(path string, binary bool) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !binary && !utf8.Valid(data) {
		return nil, &fs.PathError{Op: "read", Path: path, Err: ErrInvalidEncoding}
	}
	return data, nil
}

// createFile writes data to a new file at path. It fails if anything already
// exists at path, including a dangling symlink. If the file was created but
// could not be fully written, it is removed again.
func createFile(path string, data []byte, perm fs.FileMode) (retErr error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return err
	}
	defer func() {
		if retErr == nil {
			return
		}
		if re := os.Remove(path); re != nil && !errors.Is(re, fs.ErrNotExist) {
			retErr = errors.Join(retErr, fmt.Errorf("remove partially written file: %w", re))
		}
	}()

	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// serialize runs s on v. Encoders may panic on unsupported kinds (e.g. yaml on
// a func field), so a panic is turned into an error.
func serialize[T any](s Serializer[T], v T) (data []byte, retErr error) {
	defer func() {
		if r := recover(); r != nil {
			retErr = fmt.Errorf("serializer panicked: %v", r)
		}
	}()
	return s(v)
}
