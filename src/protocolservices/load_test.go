package protocolservices

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/protocol-backup/src/protocolmodels"
)

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("loads metadata links and samples strictly inside the range", func(t *testing.T) {
		s, db := setupService(t)
		id := seedProtocol(t, db, "A", 1000, 2000, []int64{3, 1}, []float64{999.5, 1000, 1000.25, 1500, 1999.999, 2000, 2100})

		p, err := s.Load(ctx, id)
		require.NoError(t, err)

		assert.Equal(t, id, p.ID)
		assert.Equal(t, "A", p.Name)
		assert.Equal(t, int64(1000), p.Begin.Unix())
		assert.Equal(t, int64(2000), p.End.Unix())
		assert.Equal(t, []protocolmodels.ProtocolLink{{ProtocolID: id, RecordID: 3}, {ProtocolID: id, RecordID: 1}}, p.Links)

		require.Len(t, p.Samples, 3)
		for _, r := range p.Samples {
			assert.True(t, r.Datetime.After(p.Begin) && r.Datetime.Before(p.End), "sample at %v", r.Datetime)
		}
		assert.Equal(t, int64(1000250), p.Samples[0].Datetime.UnixMilli())
		assert.Equal(t, int64(1999999), p.Samples[2].Datetime.UnixMilli())

		n, ok := p.LoadedSampleCount()
		assert.True(t, ok)
		assert.Equal(t, 3, n)
	})

	t.Run("null values load as zero", func(t *testing.T) {
		s, db := setupService(t)
		id := seedProtocol(t, db, "A", 1000, 2000, nil, nil)
		_, err := db.Exec(`INSERT INTO data(record_id, datetime, value, d_value) VALUES (1, 1500, NULL, NULL)`)
		require.NoError(t, err)

		p, err := s.Load(ctx, id)
		require.NoError(t, err)

		require.Len(t, p.Samples, 1)
		assert.Equal(t, 0.0, p.Samples[0].Value)
		assert.Empty(t, p.Links)
	})

	t.Run("missing protocol", func(t *testing.T) {
		s, _ := setupService(t)

		p, err := s.Load(ctx, 42)
		assert.ErrorIs(t, err, protocolmodels.ErrProtocolNotFound)
		assert.Nil(t, p)
	})

	t.Run("malformed stored timestamp fails the whole load", func(t *testing.T) {
		s, db := setupService(t)
		id := seedProtocol(t, db, "A", 1000, 2000, []int64{1}, nil)
		_, err := db.Exec(`UPDATE protocols SET "end" = 'later' WHERE id = ?`, id)
		require.NoError(t, err)

		p, err := s.Load(ctx, id)
		assert.ErrorIs(t, err, protocolmodels.ErrInvalidFormat)
		assert.Nil(t, p)
	})
}

func TestLoadMetaAndSampleCount(t *testing.T) {
	ctx := context.Background()
	s, db := setupService(t)
	id := seedProtocol(t, db, "A", 1000, 2000, []int64{1}, evenSamples(1000, 2000, 50))
	seedSamples(t, db, []float64{2500, 900})

	p, err := s.LoadMeta(ctx, id)
	require.NoError(t, err)

	assert.Nil(t, p.Samples)
	_, loaded := p.LoadedSampleCount()
	assert.False(t, loaded)
	assert.Len(t, p.Links, 1)

	n, err := s.SampleCount(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, 50, n)

	full, err := s.Load(ctx, id)
	require.NoError(t, err)

	n, err = s.SampleCount(ctx, full)
	require.NoError(t, err)
	assert.Equal(t, 50, n)
}

func TestSampleCountWithoutSource(t *testing.T) {
	s, _ := setupService(t)
	p := protocolmodels.NewProtocol("unsaved", time.Unix(1000, 0), time.Unix(2000, 0))

	_, err := s.SampleCount(context.Background(), p)
	assert.ErrorIs(t, err, protocolmodels.ErrInvalidState)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	s, db := setupService(t)

	empty, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	seedProtocol(t, db, "A", 1000, 2000, nil, nil)
	seedProtocol(t, db, "B", 3000, 4000.5, nil, nil)

	summaries, err := s.List(ctx)
	require.NoError(t, err)

	require.Len(t, summaries, 2)
	assert.Equal(t, "A", summaries[0].Name)
	assert.Equal(t, "B", summaries[1].Name)
	assert.Equal(t, int64(4000500), summaries[1].End.UnixMilli())
}
