package ingest

import (
	"net"
	"os"
)

// SocketConfig records the options applied to a datagram socket when it was
// created. They are never changed afterwards.
type SocketConfig struct {
	// Requested SO_RCVBUF, twice the size the OS assigned by default.
	RecvBuffer int

	// SO_REUSEADDR and SO_REUSEPORT.
	ReusePort bool

	// Joined multicast group, on the wildcard interface. Nil for unicast.
	Group net.IP
}

func (o *Opener) openMulticast(d *Descriptor) (*os.File, error) {
	group, err := d.groupIP()
	if err != nil {
		return nil, err
	}
	// Bind the wildcard address rather than the group, so that group traffic
	// is received whichever interface it arrives on.
	return o.openDatagram(d, group, net.IPv4zero)
}

func (o *Opener) openUnicast(d *Descriptor) (*os.File, error) {
	ip, err := d.hostIP()
	if err != nil {
		return nil, err
	}
	return o.openDatagram(d, nil, ip)
}
