package run

import (
	"context"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/jiaming2012/protocol-backup/src/protocolmodels"
)

const (
	FormatTable = "table"
	FormatCsv   = "csv"
)

type ListArgs struct {
	Format string
}

func RunList(ctx context.Context, env *Env, args ListArgs, w io.Writer) ([]protocolmodels.ProtocolSummary, error) {
	summaries, err := env.Service.List(ctx)
	if err != nil {
		return nil, err
	}

	switch args.Format {
	case FormatTable, "":
		table := newTable(w, "ID", "Name", "Begin", "End", "Duration")
		for _, s := range summaries {
			table.Append([]string{fmt.Sprintf("%d", s.ID), s.Name, formatTime(s.Begin), formatTime(s.End), formatDuration(s.Duration())})
		}
		table.Render()
	case FormatCsv:
		rows := make([]*protocolmodels.ProtocolSummaryCsvDTO, 0, len(summaries))
		for _, s := range summaries {
			rows = append(rows, s.ToCsvDTO())
		}

		if err := gocsv.Marshal(&rows, w); err != nil {
			return nil, fmt.Errorf("failed to write csv: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown format %q, expected %s or %s", args.Format, FormatTable, FormatCsv)
	}

	return summaries, nil
}
