package run

import (
	"context"
	"fmt"
	"io"

	"github.com/jiaming2012/protocol-backup/src/backupsink"
	"github.com/jiaming2012/protocol-backup/src/document"
	"github.com/jiaming2012/protocol-backup/src/protocolservices"
)

type BackupAllArgs struct {
	// OutputDir is a local directory or s3://bucket/prefix.
	OutputDir string
	Compress  string
}

func RunBackupAll(ctx context.Context, env *Env, args BackupAllArgs, w io.Writer) (protocolservices.BackupResult, error) {
	c, err := document.ParseCompression(args.Compress)
	if err != nil {
		return protocolservices.BackupResult{}, err
	}

	sink, err := backupsink.New(ctx, args.OutputDir, env.Config.S3)
	if err != nil {
		return protocolservices.BackupResult{}, fmt.Errorf("failed to open %s: %w", args.OutputDir, err)
	}

	result, err := env.Service.BackupAll(ctx, sink, c)

	for _, name := range result.Written {
		fmt.Fprintf(w, "written  %s\n", name)
	}
	for _, name := range result.Skipped {
		fmt.Fprintf(w, "skipped  %s\n", name)
	}

	if err != nil {
		return result, err
	}

	fmt.Fprintf(w, "%s written, %s already present in %s\n",
		printer.Sprintf("%d", len(result.Written)), printer.Sprintf("%d", len(result.Skipped)), sink)

	return result, nil
}
