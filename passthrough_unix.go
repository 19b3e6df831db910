//go:build linux || darwin
// +build linux darwin

package ingest

import (
	"os"

	errors "golang.org/x/xerrors"
)

// Open a local file read-only and return a duplicate of its descriptor. The
// original *os.File is closed before returning.
func (o *Opener) openLocal(d *Descriptor) (*os.File, error) {
	f, err := os.Open(d.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &Error{NotFound, "open", d.Raw, err}
		}
		return nil, transport(d.Raw, "open", err)
	}
	defer f.Close()

	h, err := dupFile(f)
	if err != nil {
		return nil, transport(d.Raw, "dup", err)
	}
	return h, nil
}

func (o *Opener) openStdin() (*os.File, error) {
	h, err := dupFile(o.stdin)
	if err != nil {
		return nil, transport("", "dup stdin", err)
	}
	return h, nil
}

func dupFile(f *os.File) (*os.File, error) {
	rc, err := f.SyscallConn()
	if err != nil {
		return nil, err
	}

	var nfd int
	var dupErr error
	if err := rc.Control(func(fd uintptr) {
		nfd, dupErr = dupCloseOnExec(int(fd))
	}); err != nil {
		return nil, err
	}
	if dupErr != nil {
		return nil, dupErr
	}
	return os.NewFile(uintptr(nfd), f.Name()), nil
}
