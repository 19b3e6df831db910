//go:build linux || darwin
// +build linux darwin

package ingest

import (
	"net"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/ipv4"
	"golang.org/x/sys/unix"
	errors "golang.org/x/xerrors"
)

// Return the local address a socket handle is bound to.
func boundAddr(t *testing.T, f *os.File) *unix.SockaddrInet4 {
	rc, err := f.SyscallConn()
	require.NoError(t, err)

	var sa unix.Sockaddr
	var saErr error
	require.NoError(t, rc.Control(func(fd uintptr) {
		sa, saErr = unix.Getsockname(int(fd))
	}))
	require.NoError(t, saErr)

	sa4, ok := sa.(*unix.SockaddrInet4)
	require.True(t, ok, "not an IPv4 socket: %T", sa)
	return sa4
}

func getsockoptInt(t *testing.T, f *os.File, level, opt int) int {
	rc, err := f.SyscallConn()
	require.NoError(t, err)

	var v int
	var optErr error
	require.NoError(t, rc.Control(func(fd uintptr) {
		v, optErr = unix.GetsockoptInt(int(fd), level, opt)
	}))
	require.NoError(t, optErr)
	return v
}

func TestBuildDatagramSocketDoublesRecvBuffer(t *testing.T) {
	// A fresh, unmodified socket reports the OS default.
	fresh, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM, unix.IPPROTO_UDP)
	require.NoError(t, err)
	defer unix.Close(fresh)
	def, err := unix.GetsockoptInt(fresh, unix.SOL_SOCKET, unix.SO_RCVBUF)
	require.NoError(t, err)

	fd, cfg, err := buildDatagramSocket("test", nil)
	require.NoError(t, err)
	defer unix.Close(fd)

	assert.Equal(t, 2*def, cfg.RecvBuffer)
	assert.True(t, cfg.ReusePort)
	assert.Nil(t, cfg.Group)

	// Kernels may round or cap the value (Linux doubles it, within rmem_max),
	// but never shrink it below the default.
	actual, err := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_RCVBUF)
	require.NoError(t, err)
	assert.True(t, actual >= def, "SO_RCVBUF %d < default %d", actual, def)

	reuse, err := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEPORT)
	require.NoError(t, err)
	assert.NotZero(t, reuse)
}

func TestOpenUnicast(t *testing.T) {
	f, err := Open("udp://127.0.0.1:0")
	require.NoError(t, err)
	defer f.Close()

	sa := boundAddr(t, f)
	assert.Equal(t, [4]byte{127, 0, 0, 1}, sa.Addr)
	assert.NotZero(t, sa.Port)
	assert.NotZero(t, getsockoptInt(t, f, unix.SOL_SOCKET, unix.SO_REUSEPORT))

	conn, err := net.Dial("udp4", net.JoinHostPort("127.0.0.1", strconv.Itoa(sa.Port)))
	require.NoError(t, err)
	defer conn.Close()

	packet := binaryBody(188)
	_, err = conn.Write(packet)
	require.NoError(t, err)

	require.NoError(t, f.SetReadDeadline(time.Now().Add(5*time.Second)))
	buf := make([]byte, 2048)
	n, err := f.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, packet, buf[:n])
}

func TestOpenUnicastPortReuse(t *testing.T) {
	f1, err := Open("udp://127.0.0.1:0")
	require.NoError(t, err)
	defer f1.Close()

	port := boundAddr(t, f1).Port
	f2, err := Open("udp://127.0.0.1:" + strconv.Itoa(port))
	require.NoError(t, err)
	defer f2.Close()

	assert.Equal(t, port, boundAddr(t, f2).Port)
}

func TestOpenUnicastBindFailure(t *testing.T) {
	// TEST-NET-1 is never a local address.
	_, err := Open("udp://192.0.2.1:4310")
	require.Error(t, err)
	assert.Equal(t, TransportError, KindOf(err))

	var errno unix.Errno
	assert.True(t, errors.As(err, &errno))
}

func TestOpenMulticastRejectsUnicastGroup(t *testing.T) {
	_, err := Open("udp://@127.0.0.1:4310")
	assert.True(t, errors.Is(err, ErrMalformedURI))
}

func TestOpenMulticast(t *testing.T) {
	const source = "udp://@227.1.3.10:4310"
	group := net.IPv4(227, 1, 3, 10)

	f, err := Open(source)
	if errors.Is(err, unix.ENODEV) || errors.Is(err, unix.ENETUNREACH) {
		t.Skip("no multicast route:", err)
	}
	require.NoError(t, err)
	defer f.Close()

	sa := boundAddr(t, f)
	assert.Equal(t, [4]byte{0, 0, 0, 0}, sa.Addr)
	assert.Equal(t, 4310, sa.Port)

	// Joining the same group twice on one socket fails, which shows the
	// membership is in place.
	rc, err := f.SyscallConn()
	require.NoError(t, err)
	var joinErr error
	require.NoError(t, rc.Control(func(fd uintptr) {
		mreq := &unix.IPMreq{}
		copy(mreq.Multiaddr[:], group.To4())
		joinErr = unix.SetsockoptIPMreq(int(fd), unix.IPPROTO_IP, unix.IP_ADD_MEMBERSHIP, mreq)
	}))
	assert.Equal(t, unix.EADDRINUSE, joinErr)

	// Send one transport stream packet to the group and read it back.
	conn, err := net.ListenPacket("udp4", "0.0.0.0:0")
	require.NoError(t, err)
	defer conn.Close()

	p := ipv4.NewPacketConn(conn)
	require.NoError(t, p.SetMulticastLoopback(true))
	require.NoError(t, p.SetMulticastTTL(1))

	packet := binaryBody(188)
	if _, err := p.WriteTo(packet, nil, &net.UDPAddr{IP: group, Port: 4310}); err != nil {
		t.Skip("cannot send multicast:", err)
	}

	require.NoError(t, f.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 188)
	n, err := f.Read(buf)
	if errors.Is(err, os.ErrDeadlineExceeded) {
		t.Skip("multicast loopback not delivered on this host")
	}
	require.NoError(t, err)
	assert.Equal(t, packet, buf[:n])
}
