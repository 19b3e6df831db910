package ingest

import (
	"context"
	"io"
	"net/http"
	"os"
)

// Fetch an HTTP(S) resource and expose the response body as a pipe's read
// end. In HTTPBuffered mode the whole body is in memory before the handle is
// returned. The body is relayed as raw bytes; it is never decoded as text.
func (o *Opener) fetchAsHandle(ctx context.Context, d *Descriptor) (*os.File, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.URL, nil)
	if err != nil {
		return nil, malformed(d.Raw, "parse url", err)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, transport(d.Raw, "get", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, transport(d.Raw, "get", &StatusError{resp.StatusCode, resp.Status})
	}
	o.log.Debug("GET %s: %s (%d bytes, %s mode)", d.URL, resp.Status, resp.ContentLength, o.mode)

	if o.mode == HTTPStreaming {
		return o.relay(d, func(w io.Writer) (int64, error) {
			return io.Copy(w, resp.Body)
		}, resp.Body.Close)
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, transport(d.Raw, "read body", err)
	}

	return o.relay(d, func(w io.Writer) (int64, error) {
		n, err := w.Write(body)
		return int64(n), err
	}, nil)
}
