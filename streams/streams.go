// Package streams provides IOStreams sinks for the notices printed by the graze
// load functions. Output can go to stdout/stderr, be discarded, be captured in
// memory buffers, or be forwarded to a slog or zap logger.
package streams

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// IOStreams is the contract accepted by graze.WithStreams. Informational
// notices go to Out, warnings to ErrOut. In is unused by graze but kept so
// that CLI stream bundles satisfy the interface as they are.
type IOStreams interface {
	In() io.Reader
	Out() io.Writer
	ErrOut() io.Writer
}

// BasicIOStreams forwards writes to fixed io.Writer targets.
type BasicIOStreams struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

func (s BasicIOStreams) In() io.Reader     { return s.in }
func (s BasicIOStreams) Out() io.Writer    { return s.out }
func (s BasicIOStreams) ErrOut() io.Writer { return s.errOut }

// DefaultIOStreams returns streams backed by os.Stdin, os.Stdout and os.Stderr.
func DefaultIOStreams() BasicIOStreams {
	return BasicIOStreams{in: os.Stdin, out: os.Stdout, errOut: os.Stderr}
}

// Writers returns streams writing Out to out and ErrOut to err. In is os.Stdin.
func Writers(out, err io.Writer) BasicIOStreams {
	return BasicIOStreams{in: os.Stdin, out: out, errOut: err}
}

// Discard returns streams that drop all output.
func Discard() BasicIOStreams {
	return Writers(io.Discard, io.Discard)
}

// BuffersStreams captures output in bytes.Buffers. It is not safe for
// concurrent writers; see ThreadSafeBuffersStreams.
type BuffersStreams struct {
	InR    io.Reader
	OutBuf *bytes.Buffer
	ErrBuf *bytes.Buffer
}

// Buffers creates a BuffersStreams with empty buffers.
func Buffers() *BuffersStreams {
	return &BuffersStreams{
		InR:    os.Stdin,
		OutBuf: &bytes.Buffer{},
		ErrBuf: &bytes.Buffer{},
	}
}

func (b *BuffersStreams) In() io.Reader     { return b.InR }
func (b *BuffersStreams) Out() io.Writer    { return b.OutBuf }
func (b *BuffersStreams) ErrOut() io.Writer { return b.ErrBuf }

// Strings returns the captured Out and ErrOut contents.
func (b *BuffersStreams) Strings() (out, err string) {
	return b.OutBuf.String(), b.ErrBuf.String()
}

// Reset clears both buffers.
func (b *BuffersStreams) Reset() {
	b.OutBuf.Reset()
	b.ErrBuf.Reset()
}

type lockedBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (l *lockedBuffer) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func (l *lockedBuffer) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.String()
}

func (l *lockedBuffer) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.b.Reset()
}

// ThreadSafeBuffersStreams captures output in mutex-protected buffers.
type ThreadSafeBuffersStreams struct {
	InR    io.Reader
	OutBuf *lockedBuffer
	ErrBuf *lockedBuffer
}

// ThreadSafeBuffers creates a ThreadSafeBuffersStreams with empty buffers.
func ThreadSafeBuffers() *ThreadSafeBuffersStreams {
	return &ThreadSafeBuffersStreams{
		InR:    os.Stdin,
		OutBuf: &lockedBuffer{},
		ErrBuf: &lockedBuffer{},
	}
}

func (b *ThreadSafeBuffersStreams) In() io.Reader     { return b.InR }
func (b *ThreadSafeBuffersStreams) Out() io.Writer    { return b.OutBuf }
func (b *ThreadSafeBuffersStreams) ErrOut() io.Writer { return b.ErrBuf }

// Strings returns the captured Out and ErrOut contents.
func (b *ThreadSafeBuffersStreams) Strings() (out, err string) {
	return b.OutBuf.String(), b.ErrBuf.String()
}

// Reset clears both buffers.
func (b *ThreadSafeBuffersStreams) Reset() {
	b.OutBuf.Reset()
	b.ErrBuf.Reset()
}

// trimNewline drops one trailing newline so each Write becomes one log record.
func trimNewline(p []byte) string {
	if n := len(p); n > 0 && p[n-1] == '\n' {
		p = p[:n-1]
	}
	return string(p)
}

type slogWriter struct {
	l     *slog.Logger
	level slog.Level
}

func (w slogWriter) Write(p []byte) (int, error) {
	w.l.Log(context.Background(), w.level, trimNewline(p))
	return len(p), nil
}

// Slog returns streams that log Out writes at level info and ErrOut writes at
// level err on l.
func Slog(l *slog.Logger, info, err slog.Level) BasicIOStreams {
	return BasicIOStreams{
		in:     os.Stdin,
		out:    slogWriter{l: l, level: info},
		errOut: slogWriter{l: l, level: err},
	}
}

type zapWriter struct {
	l     *zap.Logger
	level zapcore.Level
}

func (w zapWriter) Write(p []byte) (int, error) {
	if ce := w.l.Check(w.level, trimNewline(p)); ce != nil {
		ce.Write()
	}
	return len(p), nil
}

// Zap returns streams that log Out writes at level info and ErrOut writes at
// level err on l. A nil logger is replaced with zap.NewNop().
func Zap(l *zap.Logger, info, err zapcore.Level) BasicIOStreams {
	if l == nil {
		l = zap.NewNop()
	}
	return BasicIOStreams{
		in:     os.Stdin,
		out:    zapWriter{l: l, level: info},
		errOut: zapWriter{l: l, level: err},
	}
}
