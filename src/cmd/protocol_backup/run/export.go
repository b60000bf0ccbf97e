package run

import (
	"context"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
)

type ExportArgs struct {
	ID     int64
	Output string
}

type ExportOutput struct {
	Name    string
	Samples int
}

func RunExport(ctx context.Context, env *Env, args ExportArgs, w io.Writer) (ExportOutput, error) {
	log.Infof("Exporting protocol %d", args.ID)

	p, err := env.Service.Export(ctx, args.ID, args.Output)
	if err != nil {
		return ExportOutput{}, err
	}

	fmt.Fprintf(w, "Exported protocol %d (%s, %s samples) to %s\n", args.ID, p.Name, printer.Sprintf("%d", len(p.Samples)), args.Output)

	return ExportOutput{
		Name:    p.Name,
		Samples: len(p.Samples),
	}, nil
}
