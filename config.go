//////////////////////////////////////////////////////////////////////////////
//
// Config contains configuration data for Opener
//
// Copyright 2019 Lanikai Labs. All rights reserved.
//
//////////////////////////////////////////////////////////////////////////////

package ingest

import (
	"net/http"
	"os"

	"github.com/gorilla/websocket"

	"github.com/lanikai/ingest/internal/logging"
)

// HTTPMode selects how the HTTP bridge relays a response body.
type HTTPMode int

const (
	// HTTPBuffered reads the entire response body into memory before the
	// handle is returned. Memory use and open latency grow with the size of
	// the response, so this is unsuitable for unbounded live streams.
	HTTPBuffered HTTPMode = iota

	// HTTPStreaming returns the handle as soon as response headers arrive,
	// and relays the body through the pipe as it is received. A failure
	// partway through the body shows up to the reader as an early end of
	// stream; it is logged at Warn level.
	HTTPStreaming
)

func (m HTTPMode) String() string {
	if m == HTTPStreaming {
		return "streaming"
	}
	return "buffered"
}

type Config struct {
	// Client used for http:// and https:// sources. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client

	HTTPMode HTTPMode

	// Dialer used for ws:// and wss:// sources. Defaults to
	// websocket.DefaultDialer.
	WebSocketDialer *websocket.Dialer

	// Standard input, duplicated for empty source strings. Defaults to
	// os.Stdin.
	Stdin *os.File

	// Defaults to the "ingest" tagged logger.
	Logger *logging.Logger
}
