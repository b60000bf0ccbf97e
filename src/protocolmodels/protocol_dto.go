package protocolmodels

import (
	"fmt"
	"time"

	"github.com/jiaming2012/protocol-backup/src/unixtime"
)

// ProtocolDTO is the document form of a Protocol.
type ProtocolDTO struct {
	Name         string            `json:"name"`
	Begin        string            `json:"begin"`
	End          string            `json:"end"`
	ProtocolData []ProtocolLinkDTO `json:"protocol_data"`
	Data         []RecordDTO       `json:"data"`
}

// ToModel converts the document into a Protocol without an id. Naive
// timestamps are read in loc.
func (dto *ProtocolDTO) ToModel(loc *time.Location) (*Protocol, error) {
	begin, err := unixtime.ParseISO(dto.Begin, loc)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}

	end, err := unixtime.ParseISO(dto.End, loc)
	if err != nil {
		return nil, fmt.Errorf("end: %w", err)
	}

	if !begin.Before(end) {
		return nil, fmt.Errorf("protocol %q: %w: begin %s is not before end %s", dto.Name, ErrInvalidRange, dto.Begin, dto.End)
	}

	p := NewProtocol(dto.Name, begin, end)

	p.Links = make([]ProtocolLink, len(dto.ProtocolData))
	for i, l := range dto.ProtocolData {
		p.Links[i] = l.ToModel()
	}

	samples := make(Records, len(dto.Data))
	for i, r := range dto.Data {
		if samples[i], err = r.ToModel(loc); err != nil {
			return nil, fmt.Errorf("data[%d]: %w", i, err)
		}
	}

	p.SetSamples(samples)
	return p, nil
}

func formatTime(t time.Time) string {
	return unixtime.FormatISO(t)
}
