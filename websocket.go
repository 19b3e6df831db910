package ingest

import (
	"context"
	"io"
	"os"

	"github.com/gorilla/websocket"
	errors "golang.org/x/xerrors"
)

// Dial a WebSocket server and relay the payload of every message it sends, in
// order, through a pipe. A normal close from the server ends the stream.
func (o *Opener) openWebSocket(ctx context.Context, d *Descriptor) (*os.File, error) {
	ws, resp, err := o.dialer.DialContext(ctx, d.URL, nil)
	if err != nil {
		if resp != nil {
			err = errors.Errorf("%s: %w", resp.Status, err)
		}
		return nil, transport(d.Raw, "dial", err)
	}
	o.log.Debug("WebSocket connected to %s", ws.RemoteAddr())

	return o.relay(d, func(w io.Writer) (int64, error) {
		var total int64
		for {
			_, r, err := ws.NextReader()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					return total, nil
				}
				return total, err
			}
			n, err := io.Copy(w, r)
			total += n
			if err != nil {
				return total, err
			}
		}
	}, ws.Close)
}
