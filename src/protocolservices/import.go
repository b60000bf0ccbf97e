package protocolservices

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/protocol-backup/src/document"
	"github.com/jiaming2012/protocol-backup/src/protocolmodels"
)

// Opener opens a document location for reading.
type Opener func(ctx context.Context, location string) (io.ReadCloser, error)

type ImportOptions struct {
	// Start re-anchors the protocol to begin at this time. Only valid for a single source.
	Start *time.Time

	// StopOnConflict aborts the batch at the first overlapping protocol.
	StopOnConflict bool

	// ContinueOnError keeps importing after a failed source.
	ContinueOnError bool

	// Open defaults to reading local files.
	Open Opener
}

// Import saves each source as a new protocol and reports a result per source.
// Overlapping protocols are reported with ImportStatusConflict and skipped.
// The returned error is set when the batch stopped early.
func (s *ProtocolService) Import(ctx context.Context, sources []string, opts ImportOptions) ([]protocolmodels.ImportResult, error) {
	if opts.Start != nil && len(sources) != 1 {
		return nil, fmt.Errorf("ProtocolService.Import: %w: a new start requires exactly one source, found %d", protocolmodels.ErrInvalidState, len(sources))
	}

	if opts.Open == nil {
		opts.Open = openFile
	}

	logger := log.WithField("batch", uuid.New().String())

	results := make([]protocolmodels.ImportResult, 0, len(sources))
	for _, source := range sources {
		result := s.importOne(ctx, source, opts)
		results = append(results, result)

		entry := logger.WithFields(log.Fields{
			"source": source,
			"status": result.Status,
		})

		switch result.Status {
		case protocolmodels.ImportStatusOK:
			entry.Infof("Imported protocol %q as id %d", result.Name, result.ProtocolID)
		case protocolmodels.ImportStatusConflict:
			entry.Warnf("Skipping protocol %q: %v", result.Name, result.Err)
			if opts.StopOnConflict {
				return results, result.Err
			}
		case protocolmodels.ImportStatusFailed:
			entry.Errorf("Failed to import: %v", result.Err)
			if !opts.ContinueOnError {
				return results, result.Err
			}
		}
	}

	return results, nil
}

func (s *ProtocolService) importOne(ctx context.Context, source string, opts ImportOptions) protocolmodels.ImportResult {
	result := protocolmodels.ImportResult{Source: source}

	p, err := s.readDocument(ctx, source, opts.Open)
	if err != nil {
		result.Status = protocolmodels.ImportStatusFailed
		result.Err = err
		return result
	}

	result.Name = p.Name
	result.Samples = len(p.Samples)

	if opts.Start != nil {
		delta := p.ShiftTo(*opts.Start)
		log.Infof("Shifted protocol %q by %v to begin at %s", p.Name, delta, p.Begin)
	}

	id, err := s.Save(ctx, p)
	switch {
	case err == nil:
		result.Status = protocolmodels.ImportStatusOK
		result.ProtocolID = id
	case errors.Is(err, protocolmodels.ErrProtocolOverlap):
		result.Status = protocolmodels.ImportStatusConflict
		result.Err = err
	default:
		result.Status = protocolmodels.ImportStatusFailed
		result.Err = err
	}

	return result
}

func openFile(_ context.Context, path string) (io.ReadCloser, error) {
	return os.Open(path)
}

func (s *ProtocolService) readDocument(ctx context.Context, source string, open Opener) (*protocolmodels.Protocol, error) {
	r, err := open(ctx, source)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	p, err := document.Read(r, s.loc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	return p, nil
}
