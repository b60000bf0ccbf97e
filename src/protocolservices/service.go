package protocolservices

import (
	"database/sql"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/jiaming2012/protocol-backup/src/dbutils"
)

const instrumentationName = "github.com/jiaming2012/protocol-backup/src/protocolservices"

var (
	tracer = otel.Tracer(instrumentationName)
	meter  = otel.Meter(instrumentationName)
)

// ProtocolService loads and stores protocols. It does not own the database
// handle; the caller opens and closes it.
type ProtocolService struct {
	db     *sql.DB
	tracer dbutils.Tracer
	loc    *time.Location

	savedSamples    metric.Int64Counter
	overlapRejected metric.Int64Counter
}

type ProtocolServiceConfig struct {
	// Location is used for loaded timestamps and naive document timestamps.
	Location *time.Location

	// SQLTracer receives every executed statement when set.
	SQLTracer dbutils.Tracer
}

func NewProtocolService(db *sql.DB, config ProtocolServiceConfig) *ProtocolService {
	loc := config.Location
	if loc == nil {
		loc = time.Local
	}

	s := &ProtocolService{
		db:     db,
		tracer: config.SQLTracer,
		loc:    loc,
	}

	s.savedSamples, _ = meter.Int64Counter("protocol_backup.samples_saved", metric.WithDescription("Samples inserted by protocol saves"))
	s.overlapRejected, _ = meter.Int64Counter("protocol_backup.overlap_rejected", metric.WithDescription("Protocol saves rejected because of overlapping data"))

	return s
}

func (s *ProtocolService) Location() *time.Location {
	return s.loc
}

func (s *ProtocolService) query(q dbutils.DBTX) dbutils.DBTX {
	return dbutils.Traced(q, s.tracer)
}
