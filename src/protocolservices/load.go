package protocolservices

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jiaming2012/protocol-backup/src/dbutils"
	"github.com/jiaming2012/protocol-backup/src/protocolmodels"
	"github.com/jiaming2012/protocol-backup/src/unixtime"
)

// Load fetches the protocol with the given id together with its links and
// every sample strictly inside its range.
func (s *ProtocolService) Load(ctx context.Context, id int64) (*protocolmodels.Protocol, error) {
	return s.load(ctx, id, true)
}

// LoadMeta is Load without the samples.
func (s *ProtocolService) LoadMeta(ctx context.Context, id int64) (*protocolmodels.Protocol, error) {
	return s.load(ctx, id, false)
}

func (s *ProtocolService) load(ctx context.Context, id int64, withSamples bool) (*protocolmodels.Protocol, error) {
	ctx, span := tracer.Start(ctx, "ProtocolService.Load", trace.WithAttributes(
		attribute.Int64("protocol.id", id),
		attribute.Bool("protocol.with_samples", withSamples),
	))
	defer span.End()

	q := s.query(s.db)
	p := &protocolmodels.Protocol{ID: id}

	err := s.loadMeta(ctx, q, p)
	if err == nil {
		p.Links, err = s.loadLinks(ctx, q, id)
	}

	if err == nil && withSamples {
		var samples protocolmodels.Records
		if samples, err = s.loadSamples(ctx, q, p); err == nil {
			p.SetSamples(samples)
		}
	}

	if err != nil {
		p.ID = 0
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("ProtocolService.Load: protocol %d: %w", id, err)
	}

	span.SetAttributes(attribute.Int("protocol.samples", len(p.Samples)))
	return p, nil
}

func (s *ProtocolService) loadMeta(ctx context.Context, q dbutils.DBTX, p *protocolmodels.Protocol) error {
	row := q.QueryRowContext(ctx, `SELECT name, "begin", "end" FROM protocols WHERE id = ?`, p.ID)

	err := row.Scan(&p.Name, unixtime.Into(&p.Begin, s.loc), unixtime.Into(&p.End, s.loc))
	if errors.Is(err, sql.ErrNoRows) {
		return protocolmodels.ErrProtocolNotFound
	}

	if err != nil {
		return fmt.Errorf("failed to load metadata: %w", err)
	}

	return nil
}

func (s *ProtocolService) loadLinks(ctx context.Context, q dbutils.DBTX, id int64) ([]protocolmodels.ProtocolLink, error) {
	rows, err := q.QueryContext(ctx, `SELECT protocol_id, record_id FROM protocols_data WHERE protocol_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load links: %w", err)
	}
	defer rows.Close()

	links := []protocolmodels.ProtocolLink{}
	for rows.Next() {
		var l protocolmodels.ProtocolLink
		if err := rows.Scan(&l.ProtocolID, &l.RecordID); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, l)
	}

	return links, rows.Err()
}

// loadSamples returns the samples in store order; no sorting is applied.
func (s *ProtocolService) loadSamples(ctx context.Context, q dbutils.DBTX, p *protocolmodels.Protocol) (protocolmodels.Records, error) {
	rows, err := q.QueryContext(ctx, `SELECT record_id, datetime, value, d_value FROM data WHERE datetime > ? AND datetime < ?`,
		unixtime.Encode(p.Begin), unixtime.Encode(p.End))
	if err != nil {
		return nil, fmt.Errorf("failed to load samples: %w", err)
	}
	defer rows.Close()

	samples := protocolmodels.Records{}
	for rows.Next() {
		var r protocolmodels.Record
		var value, dValue sql.NullFloat64
		if err := rows.Scan(&r.RecordID, unixtime.Into(&r.Datetime, s.loc), &value, &dValue); err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}

		r.Value = value.Float64
		r.DValue = dValue.Float64
		samples = append(samples, r)
	}

	return samples, rows.Err()
}
