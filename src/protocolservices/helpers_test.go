package protocolservices

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/protocol-backup/src/dbutils"
	"github.com/jiaming2012/protocol-backup/src/protocolmodels"
	"github.com/jiaming2012/protocol-backup/src/unixtime"
)

func setupService(t *testing.T) (*ProtocolService, *sql.DB) {
	t.Helper()

	db, err := dbutils.InitSqlite(context.Background(), dbutils.DefaultSqliteConfig(filepath.Join(t.TempDir(), "protocols.db")))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewProtocolService(db, ProtocolServiceConfig{Location: time.UTC}), db
}

// seedProtocol inserts a protocol row, one link per record id and one sample per timestamp.
func seedProtocol(t *testing.T, db *sql.DB, name string, begin, end float64, recordIDs []int64, samples []float64) int64 {
	t.Helper()

	res, err := db.Exec(`INSERT INTO protocols(name, "begin", "end") VALUES (?, ?, ?)`, name, begin, end)
	require.NoError(t, err)

	id, err := res.LastInsertId()
	require.NoError(t, err)

	for _, recordID := range recordIDs {
		_, err := db.Exec(`INSERT INTO protocols_data(protocol_id, record_id) VALUES (?, ?)`, id, recordID)
		require.NoError(t, err)
	}

	seedSamples(t, db, samples)
	return id
}

func seedSamples(t *testing.T, db *sql.DB, samples []float64) {
	t.Helper()

	for i, ts := range samples {
		_, err := db.Exec(`INSERT INTO data(record_id, datetime, value, d_value) VALUES (?, ?, ?, ?)`, 1, ts, float64(i), 0.5)
		require.NoError(t, err)
	}
}

// evenSamples returns n timestamps spread evenly inside (begin, end).
func evenSamples(begin, end float64, n int) []float64 {
	step := (end - begin) / float64(n)
	out := make([]float64, n)
	for i := range out {
		out[i] = begin + step*(float64(i)+0.5)
	}
	return out
}

type tableCounts struct {
	protocols, links, samples int
}

func countRows(t *testing.T, db *sql.DB) tableCounts {
	t.Helper()

	var c tableCounts
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM protocols`).Scan(&c.protocols))
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM protocols_data`).Scan(&c.links))
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM data`).Scan(&c.samples))
	return c
}

// newCandidate builds an unsaved protocol spanning [begin, end] seconds with n samples inside.
func newCandidate(name string, begin, end float64, n int) *protocolmodels.Protocol {
	p := protocolmodels.NewProtocol(name, unixtime.FromSeconds(begin).UTC(), unixtime.FromSeconds(end).UTC())
	p.Links = []protocolmodels.ProtocolLink{{RecordID: 1}, {RecordID: 2}}

	samples := make(protocolmodels.Records, 0, n)
	for i, ts := range evenSamples(begin, end, n) {
		samples = append(samples, protocolmodels.Record{
			RecordID: int64(1 + i%2),
			Datetime: unixtime.FromSeconds(ts).UTC(),
			Value:    float64(i) * 1.5,
			DValue:   0.25,
		})
	}

	p.SetSamples(samples)
	return p
}
