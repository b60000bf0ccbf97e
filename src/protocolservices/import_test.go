package protocolservices

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/protocol-backup/src/backupsink"
	"github.com/jiaming2012/protocol-backup/src/document"
	"github.com/jiaming2012/protocol-backup/src/protocolmodels"
	"github.com/jiaming2012/protocol-backup/src/unixtime"
)

func exportCandidate(t *testing.T, dir, name string, begin, end float64, n int) string {
	t.Helper()

	path := filepath.Join(dir, name+".json")
	require.NoError(t, document.WriteFile(path, newCandidate(name, begin, end, n)))
	return path
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	s, _ := setupService(t)

	id, err := s.Save(ctx, newCandidate("A", 1000, 2000, 4))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "a.json.gz")
	p, err := s.Export(ctx, id, path)
	require.NoError(t, err)
	assert.Len(t, p.Samples, 4)

	read, err := document.ReadFile(path, s.Location())
	require.NoError(t, err)
	assert.Equal(t, "A", read.Name)
	assert.Len(t, read.Samples, 4)

	_, err = s.Export(ctx, id+1, filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, protocolmodels.ErrProtocolNotFound)
}

func TestImport(t *testing.T) {
	ctx := context.Background()

	t.Run("reports a status per source", func(t *testing.T) {
		s, db := setupService(t)
		dir := t.TempDir()
		a := exportCandidate(t, dir, "A", 1000, 2000, 10)
		b := exportCandidate(t, dir, "B", 1500, 2500, 10)
		c := exportCandidate(t, dir, "C", 3000, 4000, 10)
		missing := filepath.Join(dir, "missing.json")

		results, err := s.Import(ctx, []string{a, b, missing, c}, ImportOptions{ContinueOnError: true})
		require.NoError(t, err)

		require.Len(t, results, 4)
		assert.Equal(t, protocolmodels.ImportStatusOK, results[0].Status)
		assert.Equal(t, protocolmodels.ImportStatusConflict, results[1].Status)
		assert.ErrorIs(t, results[1].Err, protocolmodels.ErrProtocolOverlap)
		assert.Equal(t, protocolmodels.ImportStatusFailed, results[2].Status)
		assert.ErrorIs(t, results[2].Err, os.ErrNotExist)
		assert.Equal(t, protocolmodels.ImportStatusOK, results[3].Status)
		assert.Equal(t, "C", results[3].Name)
		assert.Equal(t, 10, results[3].Samples)

		assert.Equal(t, tableCounts{protocols: 2, links: 4, samples: 20}, countRows(t, db))
	})

	t.Run("stops at the first failure by default", func(t *testing.T) {
		s, db := setupService(t)
		dir := t.TempDir()
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{"name": "broken"}`), 0o644))
		a := exportCandidate(t, dir, "A", 1000, 2000, 10)

		results, err := s.Import(ctx, []string{bad, a}, ImportOptions{})
		require.Error(t, err)

		require.Len(t, results, 1)
		assert.Equal(t, protocolmodels.ImportStatusFailed, results[0].Status)
		assert.Equal(t, tableCounts{}, countRows(t, db))
	})

	t.Run("conflicts continue unless asked to stop", func(t *testing.T) {
		s, _ := setupService(t)
		dir := t.TempDir()
		a := exportCandidate(t, dir, "A", 1000, 2000, 10)
		c := exportCandidate(t, dir, "C", 3000, 4000, 10)

		_, err := s.Import(ctx, []string{a}, ImportOptions{})
		require.NoError(t, err)

		results, err := s.Import(ctx, []string{a, c}, ImportOptions{})
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, protocolmodels.ImportStatusConflict, results[0].Status)
		assert.Equal(t, protocolmodels.ImportStatusOK, results[1].Status)

		results, err = s.Import(ctx, []string{a, c}, ImportOptions{StopOnConflict: true})
		assert.ErrorIs(t, err, protocolmodels.ErrProtocolOverlap)
		assert.Len(t, results, 1)
	})

	t.Run("start shifts a single protocol", func(t *testing.T) {
		s, _ := setupService(t)
		a := exportCandidate(t, t.TempDir(), "A", 1000, 2000, 10)

		start := unixtime.FromSeconds(100000)
		results, err := s.Import(ctx, []string{a}, ImportOptions{Start: &start})
		require.NoError(t, err)
		require.Equal(t, protocolmodels.ImportStatusOK, results[0].Status)

		p, err := s.Load(ctx, results[0].ProtocolID)
		require.NoError(t, err)
		assert.Equal(t, int64(100000), p.Begin.Unix())
		assert.Equal(t, int64(101000), p.End.Unix())
		assert.Len(t, p.Samples, 10)
	})

	t.Run("start with several sources", func(t *testing.T) {
		s, _ := setupService(t)
		start := unixtime.FromSeconds(100000)

		_, err := s.Import(ctx, []string{"a.json", "b.json"}, ImportOptions{Start: &start})
		assert.ErrorIs(t, err, protocolmodels.ErrInvalidState)
	})

	t.Run("custom opener", func(t *testing.T) {
		s, _ := setupService(t)
		data, err := document.Bytes(newCandidate("remote", 1000, 2000, 3), document.CompressionSnappy)
		require.NoError(t, err)

		open := func(_ context.Context, location string) (io.ReadCloser, error) {
			assert.Equal(t, "s3://bucket/remote.json.sz", location)
			return io.NopCloser(bytes.NewReader(data)), nil
		}

		results, err := s.Import(ctx, []string{"s3://bucket/remote.json.sz"}, ImportOptions{Open: open})
		require.NoError(t, err)
		assert.Equal(t, protocolmodels.ImportStatusOK, results[0].Status)
		assert.Equal(t, 3, results[0].Samples)
	})
}

func TestBackupAll(t *testing.T) {
	ctx := context.Background()
	s, _ := setupService(t)

	for _, p := range []*protocolmodels.Protocol{
		newCandidate("A", 1000, 2000, 5),
		newCandidate("B", 3000, 4000, 7),
	} {
		_, err := s.Save(ctx, p)
		require.NoError(t, err)
	}

	dir := t.TempDir()
	sink, err := backupsink.NewDirSink(dir)
	require.NoError(t, err)

	result, err := s.BackupAll(ctx, sink, document.CompressionGzip)
	require.NoError(t, err)
	assert.Equal(t, []string{"protocol_1_19700101_001640.json.gz", "protocol_2_19700101_005000.json.gz"}, result.Written)
	assert.Empty(t, result.Skipped)

	p, err := document.ReadFile(filepath.Join(dir, result.Written[1]), s.Location())
	require.NoError(t, err)
	assert.Equal(t, "B", p.Name)
	assert.Len(t, p.Samples, 7)

	again, err := s.BackupAll(ctx, sink, document.CompressionGzip)
	require.NoError(t, err)
	assert.Empty(t, again.Written)
	assert.Equal(t, result.Written, again.Skipped)

	plain, err := s.BackupAll(ctx, sink, document.CompressionNone)
	require.NoError(t, err)
	assert.Len(t, plain.Written, 2)
}
