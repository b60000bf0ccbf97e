package protocolservices

import (
	"context"
	"fmt"

	"github.com/jiaming2012/protocol-backup/src/protocolmodels"
	"github.com/jiaming2012/protocol-backup/src/unixtime"
)

// List returns every stored protocol ordered by id.
func (s *ProtocolService) List(ctx context.Context) ([]protocolmodels.ProtocolSummary, error) {
	rows, err := s.query(s.db).QueryContext(ctx, `SELECT id, name, "begin", "end" FROM protocols ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("ProtocolService.List: %w", err)
	}
	defer rows.Close()

	var out []protocolmodels.ProtocolSummary
	for rows.Next() {
		var p protocolmodels.ProtocolSummary
		if err := rows.Scan(&p.ID, &p.Name, unixtime.Into(&p.Begin, s.loc), unixtime.Into(&p.End, s.loc)); err != nil {
			return nil, fmt.Errorf("ProtocolService.List: failed to scan protocol: %w", err)
		}
		out = append(out, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ProtocolService.List: %w", err)
	}

	return out, nil
}
