package protocolmodels

import (
	"time"

	"github.com/jiaming2012/protocol-backup/src/unixtime"
)

// ProtocolSummary is one row of the protocols table.
type ProtocolSummary struct {
	ID    int64
	Name  string
	Begin time.Time
	End   time.Time
}

func (s ProtocolSummary) Duration() time.Duration {
	return s.End.Sub(s.Begin)
}

func (s ProtocolSummary) ToCsvDTO() *ProtocolSummaryCsvDTO {
	return &ProtocolSummaryCsvDTO{
		ID:    s.ID,
		Name:  s.Name,
		Begin: unixtime.FormatISO(s.Begin),
		End:   unixtime.FormatISO(s.End),
	}
}

type ProtocolSummaryCsvDTO struct {
	ID    int64  `csv:"id"`
	Name  string `csv:"name"`
	Begin string `csv:"begin"`
	End   string `csv:"end"`
}
