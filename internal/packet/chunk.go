package packet

import (
	"io"

	"github.com/pkg/errors"
)

const (
	// Size of an MPEG transport stream packet.
	TSPacketSize = 188

	// Largest UDP payload. Reading a datagram socket with a smaller buffer
	// truncates the datagram.
	MaxDatagramSize = 65535
)

// ChunkReader splits a byte stream into fixed-size chunks. The underlying
// source is read with a buffer of its own size, independent of the chunk
// size, so that datagram sources deliver whole datagrams.
type ChunkReader struct {
	src  io.Reader
	size int

	buf   []byte
	cur   *Reader
	chunk []byte

	// Error returned by src together with data, reported once the data is
	// consumed.
	err error
}

// NewChunkReader returns a reader of size-byte chunks, reading src readSize
// bytes at a time. readSize is raised to size if smaller.
func NewChunkReader(src io.Reader, size, readSize int) *ChunkReader {
	if size <= 0 {
		panic("packet: chunk size must be positive")
	}
	if readSize < size {
		readSize = size
	}
	return &ChunkReader{
		src:   src,
		size:  size,
		buf:   make([]byte, readSize),
		cur:   NewReader(nil),
		chunk: make([]byte, 0, size),
	}
}

// Next returns the next chunk, which is only valid until the following call.
// At the end of the stream Next returns io.EOF, or the trailing partial chunk
// with io.ErrUnexpectedEOF.
func (c *ChunkReader) Next() ([]byte, error) {
	c.chunk = c.chunk[:0]
	for len(c.chunk) < c.size {
		if c.cur.Remaining() == 0 {
			if err := c.fill(); err != nil {
				if err != io.EOF {
					return c.chunk, errors.Wrap(err, "read source")
				}
				if len(c.chunk) == 0 {
					return nil, io.EOF
				}
				return c.chunk, io.ErrUnexpectedEOF
			}
			continue
		}

		n := c.size - len(c.chunk)
		if r := c.cur.Remaining(); r < n {
			n = r
		}
		c.chunk = append(c.chunk, c.cur.ReadSlice(n)...)
	}
	return c.chunk, nil
}

func (c *ChunkReader) fill() error {
	if c.err != nil {
		return c.err
	}
	n, err := c.src.Read(c.buf)
	c.cur = NewReader(c.buf[:n])
	if err != nil {
		if n == 0 {
			return err
		}
		c.err = err
	}
	return nil
}
