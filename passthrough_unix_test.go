//go:build linux || darwin
// +build linux darwin

package ingest

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	errors "golang.org/x/xerrors"
)

func TestOpenLocalFileRoundTrip(t *testing.T) {
	data := binaryBody(188 * 100)
	path := filepath.Join(t.TempDir(), "capture.ts")
	require.NoError(t, os.WriteFile(path, data, 0644))

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	got, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, len(data), len(got))
	assert.Equal(t, data, got)
}

func TestOpenLocalFileNotFound(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.ts"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestOpenLocalDirectory(t *testing.T) {
	// Opening a directory succeeds, reading it does not.
	f, err := Open(t.TempDir())
	require.NoError(t, err)
	defer f.Close()

	_, err = io.ReadAll(f)
	assert.Error(t, err)
}

func TestOpenLocalPermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	path := filepath.Join(t.TempDir(), "secret.ts")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0000))

	_, err := Open(path)
	assert.Equal(t, TransportError, KindOf(err))
	assert.True(t, errors.Is(err, os.ErrPermission))
}

func TestOpenStdin(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)

	o := NewOpener(Config{Stdin: r})
	for _, source := range []string{"", "-"} {
		f, err := o.Open(source)
		require.NoError(t, err)
		f.Close()
	}

	f, err := o.Open("")
	require.NoError(t, err)
	defer f.Close()

	// The handle does not depend on the original descriptor.
	require.NoError(t, r.Close())

	data := binaryBody(188 * 3)
	go func() {
		w.Write(data)
		w.Close()
	}()

	got, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestOpenStdinClosed(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	w.Close()
	r.Close()

	_, err = NewOpener(Config{Stdin: r}).Open("")
	assert.Equal(t, TransportError, KindOf(err))
}
