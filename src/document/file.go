package document

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jiaming2012/protocol-backup/src/protocolmodels"
)

// Write encodes p to w using compression c.
func Write(w io.Writer, p *protocolmodels.Protocol, c Compression) error {
	zw := NewWriter(w, c)
	if err := Encode(zw, p); err != nil {
		zw.Close()
		return err
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("document.Write: failed to flush %s stream: %w", c, err)
	}

	return nil
}

// Bytes returns the compressed document for p.
func Bytes(p *protocolmodels.Protocol, c Compression) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, p, c); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Read decodes a possibly compressed document from r.
func Read(r io.Reader, loc *time.Location) (*protocolmodels.Protocol, error) {
	zr, err := OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	return Decode(zr, loc)
}

// ReadFile decodes the document stored at path.
func ReadFile(path string, loc *time.Location) (*protocolmodels.Protocol, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("document.ReadFile: %w", err)
	}
	defer f.Close()

	p, err := Read(f, loc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return p, nil
}

// WriteFile writes p to path, compressed according to the file extension.
func WriteFile(path string, p *protocolmodels.Protocol) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("document.WriteFile: %w", err)
	}

	if err := Write(f, p, CompressionFromPath(path)); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}

	return f.Close()
}
