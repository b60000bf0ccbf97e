package protocolservices

import (
	"context"
	"fmt"

	"github.com/jiaming2012/protocol-backup/src/protocolmodels"
	"github.com/jiaming2012/protocol-backup/src/unixtime"
)

// SampleCount returns the number of samples of p. Loaded samples are counted
// in memory; otherwise the stored rows inside the range of p are counted.
func (s *ProtocolService) SampleCount(ctx context.Context, p *protocolmodels.Protocol) (int, error) {
	if n, ok := p.LoadedSampleCount(); ok {
		return n, nil
	}

	if !p.HasID() {
		return 0, fmt.Errorf("ProtocolService.SampleCount: %w: protocol %q has neither loaded samples nor a stored id", protocolmodels.ErrInvalidState, p.Name)
	}

	var n int
	err := s.query(s.db).QueryRowContext(ctx, `SELECT count(*) FROM data WHERE datetime > ? AND datetime < ?`,
		unixtime.Encode(p.Begin), unixtime.Encode(p.End)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("ProtocolService.SampleCount: protocol %d: %w", p.ID, err)
	}

	return n, nil
}
