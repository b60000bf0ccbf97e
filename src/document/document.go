// Package document reads and writes the portable export format of a protocol.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tidwall/gjson"

	"github.com/jiaming2012/protocol-backup/src/protocolmodels"
)

var requiredFields = []string{"name", "begin", "end", "protocol_data", "data"}

// Encode writes p as a document to w.
func Encode(w io.Writer, p *protocolmodels.Protocol) error {
	if err := json.NewEncoder(w).Encode(p.ToDTO()); err != nil {
		return fmt.Errorf("document.Encode: %w", err)
	}

	return nil
}

// Marshal returns the document for p. The output is identical to Encode.
func Marshal(p *protocolmodels.Protocol) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, p); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decode reads a document from r. Naive timestamps are read in loc.
func Decode(r io.Reader, loc *time.Location) (*protocolmodels.Protocol, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("document.Decode: failed to read document: %w", err)
	}

	return Unmarshal(data, loc)
}

// Unmarshal decodes a document. Unknown top level keys are ignored; every
// entry of data must have exactly the four record fields.
func Unmarshal(data []byte, loc *time.Location) (*protocolmodels.Protocol, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("document.Unmarshal: %w: document is not valid JSON", protocolmodels.ErrInvalidFormat)
	}

	for i, field := range gjson.GetManyBytes(data, requiredFields...) {
		if !field.Exists() {
			return nil, fmt.Errorf("document.Unmarshal: %w: missing field %q", protocolmodels.ErrInvalidFormat, requiredFields[i])
		}
	}

	var dto protocolmodels.ProtocolDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		if errors.Is(err, protocolmodels.ErrInvalidRecordShape) {
			return nil, fmt.Errorf("document.Unmarshal: %w", err)
		}

		return nil, fmt.Errorf("document.Unmarshal: %w: %v", protocolmodels.ErrInvalidFormat, err)
	}

	p, err := dto.ToModel(loc)
	if err != nil {
		return nil, fmt.Errorf("document.Unmarshal: %w", err)
	}

	return p, nil
}
