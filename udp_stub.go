//go:build !linux && !darwin
// +build !linux,!darwin

package ingest

import (
	"net"
	"os"
)

func (o *Opener) openDatagram(d *Descriptor, group, ip net.IP) (*os.File, error) {
	return nil, transport(d.Raw, "socket", ErrNotSupported)
}
