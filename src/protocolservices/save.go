package protocolservices

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jiaming2012/protocol-backup/src/dbutils"
	"github.com/jiaming2012/protocol-backup/src/protocolmodels"
	"github.com/jiaming2012/protocol-backup/src/unixtime"
)

// Save stores p after checking that neither a stored protocol nor stored
// samples overlap its range. Checks and inserts run in one transaction, so
// either every row of p is written or none is. On success the new id is
// assigned to p.
//
// Ranges are compared inclusively: a protocol beginning exactly where a
// stored one ends is rejected.
func (s *ProtocolService) Save(ctx context.Context, p *protocolmodels.Protocol) (int64, error) {
	ctx, span := tracer.Start(ctx, "ProtocolService.Save", trace.WithAttributes(
		attribute.String("protocol.name", p.Name),
		attribute.Int("protocol.samples", len(p.Samples)),
	))
	defer span.End()

	if err := p.Validate(); err != nil {
		return 0, fmt.Errorf("ProtocolService.Save: %w", err)
	}

	var id int64
	err := dbutils.WithTx(ctx, s.db, func(tx dbutils.DBTX) error {
		q := s.query(tx)

		if err := s.checkProtocolOverlap(ctx, q, p); err != nil {
			return err
		}

		if err := s.checkSampleOverlap(ctx, q, p); err != nil {
			return err
		}

		var err error
		id, err = s.insert(ctx, q, p)
		return err
	})

	if err != nil {
		if overlapErr, ok := asOverlapError(err); ok {
			s.overlapRejected.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", string(overlapErr.Reason))))
		}

		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("ProtocolService.Save: protocol %q: %w", p.Name, err)
	}

	p.ID = id
	for i := range p.Links {
		p.Links[i].ProtocolID = id
	}

	s.savedSamples.Add(ctx, int64(len(p.Samples)))
	span.SetAttributes(attribute.Int64("protocol.id", id))

	log.WithFields(log.Fields{
		"id":      id,
		"name":    p.Name,
		"links":   len(p.Links),
		"samples": len(p.Samples),
	}).Info("Saved protocol")

	return id, nil
}

func (s *ProtocolService) checkProtocolOverlap(ctx context.Context, q dbutils.DBTX, p *protocolmodels.Protocol) error {
	rows, err := q.QueryContext(ctx, `SELECT id, name, "begin", "end" FROM protocols WHERE "begin" <= ? AND "end" >= ? ORDER BY id`,
		unixtime.Encode(p.End), unixtime.Encode(p.Begin))
	if err != nil {
		return fmt.Errorf("failed to query conflicting protocols: %w", err)
	}
	defer rows.Close()

	var conflicts []protocolmodels.ProtocolSummary
	for rows.Next() {
		var c protocolmodels.ProtocolSummary
		if err := rows.Scan(&c.ID, &c.Name, unixtime.Into(&c.Begin, s.loc), unixtime.Into(&c.End, s.loc)); err != nil {
			return fmt.Errorf("failed to scan conflicting protocol: %w", err)
		}

		log.Warnf("Conflicting protocol id:%d %s - %s", c.ID, c.Begin, c.End)
		conflicts = append(conflicts, c)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to query conflicting protocols: %w", err)
	}

	if len(conflicts) > 0 {
		return &protocolmodels.OverlapError{
			Reason:    protocolmodels.OverlapReasonProtocol,
			Conflicts: conflicts,
		}
	}

	return nil
}

func (s *ProtocolService) checkSampleOverlap(ctx context.Context, q dbutils.DBTX, p *protocolmodels.Protocol) error {
	var n int64
	err := q.QueryRowContext(ctx, `SELECT count(*) FROM data WHERE datetime >= ? AND datetime <= ?`,
		unixtime.Encode(p.Begin), unixtime.Encode(p.End)).Scan(&n)
	if err != nil {
		return fmt.Errorf("failed to count conflicting data: %w", err)
	}

	if n > 0 {
		return &protocolmodels.OverlapError{
			Reason:      protocolmodels.OverlapReasonSamples,
			SampleCount: n,
		}
	}

	return nil
}

func (s *ProtocolService) insert(ctx context.Context, q dbutils.DBTX, p *protocolmodels.Protocol) (int64, error) {
	res, err := q.ExecContext(ctx, `INSERT INTO protocols(name, "begin", "end") VALUES (?, ?, ?)`,
		p.Name, unixtime.Encode(p.Begin), unixtime.Encode(p.End))
	if err != nil {
		return 0, fmt.Errorf("failed to insert protocol: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read protocol id: %w", err)
	}

	for _, l := range p.Links {
		if _, err := q.ExecContext(ctx, `INSERT INTO protocols_data(protocol_id, record_id) VALUES (?, ?)`, id, l.RecordID); err != nil {
			return 0, fmt.Errorf("failed to insert link to record %d: %w", l.RecordID, err)
		}
	}

	for i, r := range p.Samples {
		if _, err := q.ExecContext(ctx, `INSERT INTO data(record_id, datetime, value, d_value) VALUES (?, ?, ?, ?)`,
			r.RecordID, unixtime.Encode(r.Datetime), r.Value, r.DValue); err != nil {
			return 0, fmt.Errorf("failed to insert sample %d: %w", i, err)
		}
	}

	return id, nil
}
