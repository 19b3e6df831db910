//go:build !linux && !darwin
// +build !linux,!darwin

package ingest

import (
	"os"
)

func (o *Opener) openLocal(d *Descriptor) (*os.File, error) {
	return nil, transport(d.Raw, "open", ErrNotSupported)
}

func (o *Opener) openStdin() (*os.File, error) {
	return nil, transport("", "dup stdin", ErrNotSupported)
}
