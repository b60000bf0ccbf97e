package document

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
)

type Compression string

const (
	CompressionNone   Compression = "none"
	CompressionGzip   Compression = "gzip"
	CompressionSnappy Compression = "snappy"
)

var (
	gzipMagic   = []byte{0x1f, 0x8b}
	snappyMagic = []byte("\xff\x06\x00\x00sNaPpY")
)

func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return CompressionNone, nil
	case "gzip", "gz":
		return CompressionGzip, nil
	case "snappy", "sz":
		return CompressionSnappy, nil
	}

	return "", fmt.Errorf("unknown compression %q", s)
}

// Extension returns the file name suffix for c, including the json part.
func (c Compression) Extension() string {
	switch c {
	case CompressionGzip:
		return ".json.gz"
	case CompressionSnappy:
		return ".json.sz"
	}

	return ".json"
}

// CompressionFromPath picks a compression from the file extension.
func CompressionFromPath(path string) Compression {
	switch {
	case strings.HasSuffix(path, ".gz"):
		return CompressionGzip
	case strings.HasSuffix(path, ".sz"):
		return CompressionSnappy
	}

	return CompressionNone
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// NewWriter wraps w with the compressor for c. Closing the returned writer
// flushes the compressor but does not close w.
func NewWriter(w io.Writer, c Compression) io.WriteCloser {
	switch c {
	case CompressionGzip:
		return gzip.NewWriter(w)
	case CompressionSnappy:
		return snappy.NewBufferedWriter(w)
	}

	return nopWriteCloser{w}
}

// OpenReader returns a reader that transparently decompresses gzip and
// snappy framed input, detected by their magic prefixes.
func OpenReader(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)

	head, err := br.Peek(len(snappyMagic))
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("document.OpenReader: %w", err)
	}

	switch {
	case bytes.HasPrefix(head, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("document.OpenReader: gzip: %w", err)
		}
		return zr, nil
	case bytes.HasPrefix(head, snappyMagic):
		return io.NopCloser(snappy.NewReader(br)), nil
	}

	return io.NopCloser(br), nil
}
