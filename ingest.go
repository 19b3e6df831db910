// Package ingest opens URI-addressed byte-stream sources: UDP unicast and
// multicast sockets, HTTP(S) and WebSocket resources, local files, and
// standard input. Every source is returned as an *os.File that the caller
// owns and must close.
package ingest

import (
	"context"
	"net/http"
	"os"

	"github.com/gorilla/websocket"

	"github.com/lanikai/ingest/internal/logging"
)

var log = logging.DefaultLogger.WithTag("ingest")

// Opener opens sources according to its Config. The zero value is not
// usable; use NewOpener.
type Opener struct {
	client *http.Client
	mode   HTTPMode
	dialer *websocket.Dialer
	stdin  *os.File
	log    *logging.Logger
}

func NewOpener(config Config) *Opener {
	o := &Opener{
		client: config.HTTPClient,
		mode:   config.HTTPMode,
		dialer: config.WebSocketDialer,
		stdin:  config.Stdin,
		log:    config.Logger,
	}
	if o.client == nil {
		o.client = http.DefaultClient
	}
	if o.dialer == nil {
		o.dialer = websocket.DefaultDialer
	}
	if o.stdin == nil {
		o.stdin = os.Stdin
	}
	if o.log == nil {
		o.log = log
	}
	return o
}

// Open opens source with the default configuration. See Opener.Open.
func Open(source string) (*os.File, error) {
	return NewOpener(Config{}).Open(source)
}

// Open returns a readable handle for source. The handle is a duplicate of
// whatever descriptor was created to serve it, and belongs to the caller.
//
//	""  or "-"              duplicate of standard input
//	udp://@<group>:<port>   multicast socket bound to 0.0.0.0:<port>
//	udp://<host>:<port>     unicast socket bound to <host>:<port>
//	http://..., https://... response body, relayed through a pipe
//	ws://..., wss://...     message payloads, relayed through a pipe
//	anything else           local file, opened read-only
//
// Open blocks until the handle is ready. Failures are reported as *Error.
func (o *Opener) Open(source string) (*os.File, error) {
	return o.OpenContext(context.Background(), source)
}

// OpenContext is like Open, but ctx bounds the HTTP request or WebSocket
// handshake.
func (o *Opener) OpenContext(ctx context.Context, source string) (*os.File, error) {
	d, err := ParseDescriptor(source)
	if err != nil {
		return nil, err
	}
	o.log.Debug("Opening %s source %q", d.Kind, source)

	switch d.Kind {
	case Stdin:
		return o.openStdin()
	case Multicast:
		return o.openMulticast(&d)
	case Unicast:
		return o.openUnicast(&d)
	case HTTP:
		return o.fetchAsHandle(ctx, &d)
	case WebSocket:
		return o.openWebSocket(ctx, &d)
	default:
		return o.openLocal(&d)
	}
}
