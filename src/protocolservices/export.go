package protocolservices

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jiaming2012/protocol-backup/src/backupsink"
	"github.com/jiaming2012/protocol-backup/src/document"
	"github.com/jiaming2012/protocol-backup/src/protocolmodels"
)

// Export writes the protocol with the given id to path. The file extension
// selects the compression.
func (s *ProtocolService) Export(ctx context.Context, id int64, path string) (*protocolmodels.Protocol, error) {
	p, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := document.WriteFile(path, p); err != nil {
		return nil, fmt.Errorf("ProtocolService.Export: protocol %d: %w", id, err)
	}

	return p, nil
}

// BackupName is the object name used for a protocol in a backup sink.
func BackupName(summary protocolmodels.ProtocolSummary, c document.Compression) string {
	return fmt.Sprintf("protocol_%d_%s%s", summary.ID, summary.Begin.Format("20060102_150405"), c.Extension())
}

type BackupResult struct {
	Written []string
	Skipped []string
}

// BackupAll exports every stored protocol to sink. Protocols whose backup
// object already exists are skipped.
func (s *ProtocolService) BackupAll(ctx context.Context, sink backupsink.Sink, c document.Compression) (BackupResult, error) {
	ctx, span := tracer.Start(ctx, "ProtocolService.BackupAll", trace.WithAttributes(attribute.String("sink", sink.String())))
	defer span.End()

	logger := log.WithFields(log.Fields{
		"batch": uuid.New().String(),
		"sink":  sink.String(),
	})

	summaries, err := s.List(ctx)
	if err != nil {
		return BackupResult{}, err
	}

	var result BackupResult
	for _, summary := range summaries {
		name := BackupName(summary, c)

		exists, err := sink.Exists(ctx, name)
		if err != nil {
			return result, fmt.Errorf("ProtocolService.BackupAll: %w", err)
		}

		if exists {
			logger.Infof("Skipping protocol %d: %s already exists", summary.ID, name)
			result.Skipped = append(result.Skipped, name)
			continue
		}

		p, err := s.Load(ctx, summary.ID)
		if err != nil {
			return result, err
		}

		data, err := document.Bytes(p, c)
		if err != nil {
			return result, fmt.Errorf("ProtocolService.BackupAll: protocol %d: %w", summary.ID, err)
		}

		if err := sink.Write(ctx, name, data); err != nil {
			return result, fmt.Errorf("ProtocolService.BackupAll: protocol %d: %w", summary.ID, err)
		}

		logger.WithField("samples", len(p.Samples)).Infof("Exported protocol %d to %s", summary.ID, name)
		result.Written = append(result.Written, name)
	}

	span.SetAttributes(attribute.Int("backup.written", len(result.Written)), attribute.Int("backup.skipped", len(result.Skipped)))
	return result, nil
}
