package run

import (
	"context"
	"fmt"
	"io"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/protocol-backup/src/backupsink"
	"github.com/jiaming2012/protocol-backup/src/protocolmodels"
	"github.com/jiaming2012/protocol-backup/src/protocolservices"
	"github.com/jiaming2012/protocol-backup/src/unixtime"
)

type ImportArgs struct {
	Inputs          []string
	Start           string
	ContinueOnError bool
	StopOnConflict  bool
}

type ImportOutput struct {
	Results   []protocolmodels.ImportResult
	Imported  int
	Conflicts int
	Failed    int
}

// RunImport imports every input, which may be a local path or an s3:// object.
// Conflicting protocols are reported and skipped.
func RunImport(ctx context.Context, env *Env, args ImportArgs, w io.Writer) (ImportOutput, error) {
	if len(args.Inputs) == 0 {
		return ImportOutput{}, fmt.Errorf("at least one input file is required")
	}

	opts := protocolservices.ImportOptions{
		ContinueOnError: args.ContinueOnError,
		StopOnConflict:  args.StopOnConflict,
		Open: func(ctx context.Context, location string) (io.ReadCloser, error) {
			return backupsink.OpenLocation(ctx, location, env.Config.S3)
		},
	}

	if args.Start != "" {
		start, err := parseStart(args.Start, env.Service.Location())
		if err != nil {
			return ImportOutput{}, err
		}
		opts.Start = &start
	}

	results, err := env.Service.Import(ctx, args.Inputs, opts)

	out := ImportOutput{Results: results}
	table := newTable(w, "Source", "Name", "Status", "ID", "Samples", "Detail")
	for _, r := range results {
		switch r.Status {
		case protocolmodels.ImportStatusOK:
			out.Imported++
		case protocolmodels.ImportStatusConflict:
			out.Conflicts++
		case protocolmodels.ImportStatusFailed:
			out.Failed++
		}

		id, detail := "", ""
		if r.ProtocolID > 0 {
			id = fmt.Sprintf("%d", r.ProtocolID)
		}
		if r.Err != nil {
			detail = r.Err.Error()
		}

		table.Append([]string{r.Source, r.Name, string(r.Status), id, printer.Sprintf("%d", r.Samples), detail})
	}
	table.Render()

	log.Infof("Imported %d protocols, %d conflicts, %d failed", out.Imported, out.Conflicts, out.Failed)

	if err != nil {
		return out, err
	}

	if out.Failed > 0 {
		return out, fmt.Errorf("%d of %d inputs failed", out.Failed, len(args.Inputs))
	}

	return out, nil
}

func parseStart(text string, loc *time.Location) (time.Time, error) {
	start, err := unixtime.ParseISO(text, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --start, expected format %q: %w", unixtime.StartLayout, err)
	}

	return start, nil
}
