package ingest

import (
	"net"
	"strconv"
	"strings"

	errors "golang.org/x/xerrors"
)

// SourceKind identifies the transport a source string selects.
type SourceKind int

const (
	Stdin SourceKind = iota
	Multicast
	Unicast
	HTTP
	WebSocket
	File
)

func (k SourceKind) String() string {
	switch k {
	case Stdin:
		return "stdin"
	case Multicast:
		return "multicast"
	case Unicast:
		return "unicast"
	case HTTP:
		return "http"
	case WebSocket:
		return "websocket"
	case File:
		return "file"
	default:
		return "SourceKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Scheme prefixes, in the order they are tested. "udp://@" must precede
// "udp://", since every multicast source string also starts with the unicast
// prefix.
const (
	multicastPrefix = "udp://@"
	unicastPrefix   = "udp://"
)

var (
	httpPrefixes      = []string{"http://", "https://"}
	websocketPrefixes = []string{"ws://", "wss://"}
)

// Descriptor is a parsed source string.
type Descriptor struct {
	Kind SourceKind

	// The string as passed to ParseDescriptor.
	Raw string

	// Multicast group or unicast host, and port. UDP only.
	Host string
	Port int

	// Fetchable URL. HTTP and WebSocket only.
	URL string

	// Local filesystem path. File only.
	Path string
}

// ParseDescriptor classifies a source string. An empty string or "-" selects
// stdin; anything without a recognized scheme prefix is a file path.
func ParseDescriptor(s string) (Descriptor, error) {
	d := Descriptor{Raw: s}

	switch {
	case s == "" || s == "-":
		d.Kind = Stdin

	case strings.HasPrefix(s, multicastPrefix):
		d.Kind = Multicast
		if err := d.parseHostPort(strings.TrimPrefix(s, multicastPrefix)); err != nil {
			return d, err
		}

	case strings.HasPrefix(s, unicastPrefix):
		d.Kind = Unicast
		if err := d.parseHostPort(strings.TrimPrefix(s, unicastPrefix)); err != nil {
			return d, err
		}

	case hasAnyPrefix(s, httpPrefixes):
		d.Kind = HTTP
		d.URL = s

	case hasAnyPrefix(s, websocketPrefixes):
		d.Kind = WebSocket
		d.URL = s

	default:
		d.Kind = File
		d.Path = s
	}

	return d, nil
}

// Split "host:port" once, on the last colon.
func (d *Descriptor) parseHostPort(rest string) error {
	i := strings.LastIndexByte(rest, ':')
	if i < 0 {
		return malformed(d.Raw, "parse", errors.New("missing port"))
	}
	d.Host = rest[:i]
	if d.Host == "" {
		return malformed(d.Raw, "parse", errors.New("missing host"))
	}

	port, err := strconv.ParseUint(rest[i+1:], 10, 16)
	if err != nil {
		return malformed(d.Raw, "parse port", err)
	}
	d.Port = int(port)
	return nil
}

// Return the group address, which must be an IPv4 multicast literal.
func (d *Descriptor) groupIP() (net.IP, error) {
	ip := net.ParseIP(d.Host).To4()
	if ip == nil {
		return nil, malformed(d.Raw, "parse group", errors.Errorf("invalid IPv4 address %q", d.Host))
	}
	if !ip.IsMulticast() {
		return nil, malformed(d.Raw, "parse group", errors.Errorf("%s is not a multicast address", ip))
	}
	return ip, nil
}

// Return the unicast bind address. Hostnames resolve to their first IPv4
// address.
func (d *Descriptor) hostIP() (net.IP, error) {
	if ip := net.ParseIP(d.Host); ip != nil {
		if ip4 := ip.To4(); ip4 != nil {
			return ip4, nil
		}
		return nil, malformed(d.Raw, "parse host", errors.Errorf("invalid IPv4 address %q", d.Host))
	}
	if strings.Trim(d.Host, "0123456789.") == "" {
		// Looks like an IPv4 literal, but isn't one.
		return nil, malformed(d.Raw, "parse host", errors.Errorf("invalid IPv4 address %q", d.Host))
	}

	addr, err := net.ResolveIPAddr("ip4", d.Host)
	if err != nil {
		return nil, transport(d.Raw, "resolve", err)
	}
	return addr.IP.To4(), nil
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
