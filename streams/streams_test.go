package streams

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDefaultIOStreams(t *testing.T) {
	s := DefaultIOStreams()

	require.Equal(t, io.Reader(os.Stdin), s.In())
	require.Equal(t, io.Writer(os.Stdout), s.Out())
	require.Equal(t, io.Writer(os.Stderr), s.ErrOut())
}

func TestWriters(t *testing.T) {
	var outBuf, errBuf bytes.Buffer
	s := Writers(&outBuf, &errBuf)

	n, err := s.Out().Write([]byte("hello out\n"))
	require.NoError(t, err)
	require.Equal(t, len("hello out\n"), n)

	_, err = s.ErrOut().Write([]byte("hello err\n"))
	require.NoError(t, err)

	require.Equal(t, "hello out\n", outBuf.String())
	require.Equal(t, "hello err\n", errBuf.String())
}

func TestDiscard(t *testing.T) {
	s := Discard()

	for _, w := range []io.Writer{s.Out(), s.ErrOut()} {
		n, err := w.Write([]byte("dropped\n"))
		require.NoError(t, err)
		require.Equal(t, len("dropped\n"), n)
	}
}

func TestBuffersStreams(t *testing.T) {
	bs := Buffers()

	_, err := bs.Out().Write([]byte("info 1\n"))
	require.NoError(t, err)
	_, err = bs.ErrOut().Write([]byte("err 1\n"))
	require.NoError(t, err)

	out, errS := bs.Strings()
	require.Equal(t, "info 1\n", out)
	require.Equal(t, "err 1\n", errS)

	bs.Reset()
	out, errS = bs.Strings()
	require.Empty(t, out)
	require.Empty(t, errS)
	require.Equal(t, io.Reader(os.Stdin), bs.In())
}

func TestThreadSafeBuffersStreams(t *testing.T) {
	ts := ThreadSafeBuffers()

	var wg sync.WaitGroup
	wg.Add(200)
	for i := 0; i < 100; i++ {
		go func() {
			defer wg.Done()
			_, _ = ts.Out().Write([]byte("O"))
		}()
		go func() {
			defer wg.Done()
			_, _ = ts.ErrOut().Write([]byte("E"))
		}()
	}
	wg.Wait()

	out, errS := ts.Strings()
	require.Equal(t, strings.Repeat("O", 100), out)
	require.Equal(t, strings.Repeat("E", 100), errS)

	ts.Reset()
	out, errS = ts.Strings()
	require.Empty(t, out)
	require.Empty(t, errS)
}

func TestSlog(t *testing.T) {
	var buf bytes.Buffer
	th := slog.NewTextHandler(&buf, &slog.HandlerOptions{
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})
	s := Slog(slog.New(th), slog.LevelInfo, slog.LevelError)

	n, err := s.Out().Write([]byte("hello info\n"))
	require.NoError(t, err)
	require.Equal(t, len("hello info\n"), n)
	_, err = s.ErrOut().Write([]byte("boom err\n"))
	require.NoError(t, err)

	got := buf.String()
	require.Contains(t, got, `level=INFO msg="hello info"`)
	require.Contains(t, got, `level=ERROR msg="boom err"`)
}

func TestZap(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := Zap(zap.New(core), zapcore.InfoLevel, zapcore.WarnLevel)

	n, err := s.Out().Write([]byte("graze: loaded app.yaml\n"))
	require.NoError(t, err)
	require.Equal(t, len("graze: loaded app.yaml\n"), n)
	_, err = s.ErrOut().Write([]byte("graze: careful\n"))
	require.NoError(t, err)

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	require.Equal(t, zapcore.InfoLevel, entries[0].Level)
	require.Equal(t, "graze: loaded app.yaml", entries[0].Message)
	require.Equal(t, zapcore.WarnLevel, entries[1].Level)
	require.Equal(t, "graze: careful", entries[1].Message)
}

func TestZapLevelFiltering(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	s := Zap(zap.New(core), zapcore.DebugLevel, zapcore.ErrorLevel)

	_, err := s.Out().Write([]byte("filtered\n"))
	require.NoError(t, err)
	_, err = s.ErrOut().Write([]byte("kept\n"))
	require.NoError(t, err)

	require.Equal(t, 1, logs.Len())
	require.Equal(t, "kept", logs.All()[0].Message)
}

func TestZapNilLogger(t *testing.T) {
	s := Zap(nil, zapcore.InfoLevel, zapcore.ErrorLevel)

	n, err := s.Out().Write([]byte("nowhere\n"))
	require.NoError(t, err)
	require.Equal(t, len("nowhere\n"), n)
}
