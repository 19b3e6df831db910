//go:build linux || darwin
// +build linux darwin

package ingest

import (
	"net"
	"os"

	"go.uber.org/multierr"
	"golang.org/x/sys/unix"
)

func (o *Opener) openDatagram(d *Descriptor, group, ip net.IP) (*os.File, error) {
	fd, cfg, err := buildDatagramSocket(d.Raw, group)
	if err != nil {
		return nil, err
	}
	// The caller receives a duplicate; this descriptor is always released.
	defer unix.Close(fd)

	if err := bindDatagramSocket(fd, ip, d.Port); err != nil {
		return nil, transport(d.Raw, "bind", err)
	}
	o.log.Debug("Bound %s:%d (rcvbuf=%d reuse=%v group=%v)", ip, d.Port, cfg.RecvBuffer, cfg.ReusePort, cfg.Group)

	f, err := socketHandle(fd, d.Raw)
	if err != nil {
		return nil, transport(d.Raw, "dup", err)
	}
	return f, nil
}

// Create an unbound IPv4 datagram socket with a doubled receive buffer and
// port reuse enabled. If group is non-nil, join it on the wildcard interface.
// Joining happens here, before the caller binds.
func buildDatagramSocket(uri string, group net.IP) (int, SocketConfig, error) {
	var cfg SocketConfig

	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM, unix.IPPROTO_UDP)
	if err != nil {
		return -1, cfg, transport(uri, "socket", err)
	}
	unix.CloseOnExec(fd)

	fail := func(op string, err error) (int, SocketConfig, error) {
		if cerr := unix.Close(fd); cerr != nil {
			err = multierr.Append(err, cerr)
		}
		return -1, cfg, transport(uri, op, err)
	}

	// An undersized buffer silently drops datagrams later, so failing to
	// resize it is fatal.
	size, err := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_RCVBUF)
	if err != nil {
		return fail("get SO_RCVBUF", err)
	}
	cfg.RecvBuffer = 2 * size
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_RCVBUF, cfg.RecvBuffer); err != nil {
		return fail("set SO_RCVBUF", err)
	}

	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		return fail("set SO_REUSEADDR", err)
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEPORT, 1); err != nil {
		return fail("set SO_REUSEPORT", err)
	}
	cfg.ReusePort = true

	if group != nil {
		// Interface is left zeroed, i.e. 0.0.0.0.
		mreq := &unix.IPMreq{}
		copy(mreq.Multiaddr[:], group.To4())
		if err := unix.SetsockoptIPMreq(fd, unix.IPPROTO_IP, unix.IP_ADD_MEMBERSHIP, mreq); err != nil {
			return fail("join "+group.String(), err)
		}
		cfg.Group = group
	}

	return fd, cfg, nil
}

func bindDatagramSocket(fd int, ip net.IP, port int) error {
	sa := &unix.SockaddrInet4{Port: port}
	copy(sa.Addr[:], ip.To4())
	return unix.Bind(fd, sa)
}

// Duplicate a socket descriptor into a pollable *os.File, so reads on the
// handle honor deadlines.
func socketHandle(fd int, name string) (*os.File, error) {
	nfd, err := dupCloseOnExec(fd)
	if err != nil {
		return nil, err
	}
	if err := unix.SetNonblock(nfd, true); err != nil {
		unix.Close(nfd)
		return nil, err
	}
	return os.NewFile(uintptr(nfd), name), nil
}

func dupCloseOnExec(fd int) (int, error) {
	return unix.FcntlInt(uintptr(fd), unix.F_DUPFD_CLOEXEC, 0)
}
