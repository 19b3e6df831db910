package ingest

import (
	"io"
	"os"
	"syscall"

	"go.uber.org/multierr"
	errors "golang.org/x/xerrors"
)

// Allocate a pipe and return its read end. In a background goroutine, pump
// writes the payload to the write end; afterwards release runs and the write
// end is closed, so the reader observes EOF once drained.
//
// The write cannot happen before returning: a pipe holds only a bounded
// amount of data in the kernel, and nobody reads until the caller gets the
// handle.
func (o *Opener) relay(d *Descriptor, pump func(w io.Writer) (int64, error), release func() error) (*os.File, error) {
	r, w, err := os.Pipe()
	if err != nil {
		if release != nil {
			err = multierr.Append(err, release())
		}
		return nil, transport(d.Raw, "pipe", err)
	}

	go func() {
		n, err := pump(w)
		if release != nil {
			err = multierr.Append(err, release())
		}
		err = multierr.Append(err, w.Close())
		switch {
		case errors.Is(err, syscall.EPIPE):
			// The caller closed the handle before the end of the stream.
			o.log.Debug("Relay of %q stopped by reader after %d bytes", d.Raw, n)
		case err != nil:
			o.log.Warn("Relay of %q failed after %d bytes, stream truncated: %v", d.Raw, n, err)
		default:
			o.log.Debug("Relay of %q finished, %d bytes", d.Raw, n)
		}
	}()

	return r, nil
}
