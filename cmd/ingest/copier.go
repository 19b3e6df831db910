package main

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/lanikai/ingest"
	"github.com/lanikai/ingest/internal/logging"
	"github.com/lanikai/ingest/internal/packet"
)

// copier copies a source to an output in fixed-size chunks.
type copier struct {
	opener *ingest.Opener

	chunkSize int
	readSize  int

	// Maximum number of chunks, or 0 for no limit.
	count int

	// Bound on opening the source, or 0 for none.
	timeout time.Duration

	log *logging.Logger
}

type copyStats struct {
	chunks int
	bytes  int64
}

func (c *copier) run(ctx context.Context, source string, out io.Writer) (stats copyStats, err error) {
	// openCtx stays attached to a streaming HTTP body after OpenContext
	// returns, so the timeout is stopped once the open completes rather than
	// left to cancel the stream mid-copy.
	openCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	var timer *time.Timer
	if c.timeout > 0 {
		timer = time.AfterFunc(c.timeout, cancel)
	}

	f, err := c.opener.OpenContext(openCtx, source)
	if timer != nil && !timer.Stop() && err == nil {
		// The timer fired just as the open completed.
		f.Close()
		return stats, errors.Wrap(context.DeadlineExceeded, "open "+source)
	}
	if err != nil {
		return stats, err
	}

	// Closing the handle unblocks a pending read when ctx is canceled.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			f.Close()
		case <-done:
			f.Close()
		}
	}()

	cr := packet.NewChunkReader(f, c.chunkSize, c.readSize)
	for c.count == 0 || stats.chunks < c.count {
		chunk, err := cr.Next()
		if err == io.EOF {
			return stats, nil
		}
		if err == io.ErrUnexpectedEOF {
			c.log.Warn("Discarding trailing %d bytes", len(chunk))
			return stats, nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return stats, nil
			}
			return stats, err
		}

		if _, err := out.Write(chunk); err != nil {
			return stats, errors.Wrap(err, "write output")
		}
		stats.chunks++
		stats.bytes += int64(len(chunk))
		c.log.Trace(5, "Chunk %d", stats.chunks)
	}
	return stats, nil
}
