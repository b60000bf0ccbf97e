package main

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jiaming2012/protocol-backup/src/cmd/protocol_backup/run"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export one protocol to a JSON document",
	Long:  `Writes the protocol with the given id, its links and samples to a JSON document. A .gz or .sz suffix compresses the output.`,
	Run: func(cmd *cobra.Command, args []string) {
		id, err := cmd.Flags().GetInt64("id")
		if err != nil {
			log.Fatalf("error getting id: %v", err)
		}

		output, err := cmd.Flags().GetString("output")
		if err != nil {
			log.Fatalf("error getting output: %v", err)
		}

		if !cmd.Flags().Changed("id") {
			log.Fatal("ID of exported protocol is required")
		}

		if output == "" {
			log.Fatal("Path to output file is required")
		}

		withEnv(cmd, func(ctx context.Context, env *run.Env) error {
			_, err := run.RunExport(ctx, env, run.ExportArgs{ID: id, Output: output}, os.Stdout)
			return err
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import PATH...",
	Short: "Import protocols from JSON documents",
	Long: `Imports each document as a new protocol. Documents may be local paths or s3://bucket/key objects.
Protocols that overlap stored protocols or samples are reported and skipped.`,
	Run: func(cmd *cobra.Command, args []string) {
		inputs, err := cmd.Flags().GetStringSlice("input")
		if err != nil {
			log.Fatalf("error getting input: %v", err)
		}
		inputs = append(inputs, args...)

		if len(inputs) == 0 {
			log.Fatal("Path to input file is required")
		}

		start, err := cmd.Flags().GetString("start")
		if err != nil {
			log.Fatalf("error getting start: %v", err)
		}

		if start != "" && len(inputs) > 1 {
			log.Fatal("--start can only be used with a single input file")
		}

		continueOnError, err := cmd.Flags().GetBool("continue-on-error")
		if err != nil {
			log.Fatalf("error getting continue-on-error: %v", err)
		}

		stopOnConflict, err := cmd.Flags().GetBool("stop-on-conflict")
		if err != nil {
			log.Fatalf("error getting stop-on-conflict: %v", err)
		}

		withEnv(cmd, func(ctx context.Context, env *run.Env) error {
			_, err := run.RunImport(ctx, env, run.ImportArgs{
				Inputs:          inputs,
				Start:           start,
				ContinueOnError: continueOnError,
				StopOnConflict:  stopOnConflict,
			}, os.Stdout)
			return err
		})
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored protocols",
	Run: func(cmd *cobra.Command, args []string) {
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			log.Fatalf("error getting format: %v", err)
		}

		withEnv(cmd, func(ctx context.Context, env *run.Env) error {
			_, err := run.RunList(ctx, env, run.ListArgs{Format: format}, os.Stdout)
			return err
		})
	},
}

var backupAllCmd = &cobra.Command{
	Use:   "backup_all",
	Short: "Export every stored protocol",
	Long:  `Exports every stored protocol to a directory or an s3://bucket/prefix. Protocols whose backup already exists are skipped, so the command can be rerun.`,
	Run: func(cmd *cobra.Command, args []string) {
		outputDir, err := cmd.Flags().GetString("output-dir")
		if err != nil {
			log.Fatalf("error getting output-dir: %v", err)
		}

		if outputDir == "" {
			log.Fatal("Output directory is required")
		}

		compress, err := cmd.Flags().GetString("compress")
		if err != nil {
			log.Fatalf("error getting compress: %v", err)
		}

		withEnv(cmd, func(ctx context.Context, env *run.Env) error {
			_, err := run.RunBackupAll(ctx, env, run.BackupAllArgs{OutputDir: outputDir, Compress: compress}, os.Stdout)
			return err
		})
	},
}

var listProblemsCmd = &cobra.Command{
	Use:   "list_problems",
	Short: "List protocols whose sample rate is off",
	Long:  `Flags protocols whose samples per second fall outside [sps/(1+tolerance), sps*(1+tolerance)].`,
	Run: func(cmd *cobra.Command, args []string) {
		sps, err := cmd.Flags().GetFloat64("sps")
		if err != nil {
			log.Fatalf("error getting sps: %v", err)
		}

		tolerance, err := cmd.Flags().GetFloat64("sps_tolerance")
		if err != nil {
			log.Fatalf("error getting sps_tolerance: %v", err)
		}

		withEnv(cmd, func(ctx context.Context, env *run.Env) error {
			rate := env.Config.SampleRate
			if cmd.Flags().Changed("sps") {
				rate.Expected = sps
			}
			if cmd.Flags().Changed("sps_tolerance") {
				rate.Tolerance = tolerance
			}

			if rate.Expected <= 0 {
				return fmt.Errorf("expected samples per second (--sps) is required")
			}

			_, err := run.RunListProblems(ctx, env, run.ListProblemsArgs{
				SamplesPerSecond: rate.Expected,
				Tolerance:        rate.Tolerance,
			}, os.Stdout)
			return err
		})
	},
}

func init() {
	exportCmd.Flags().Int64("id", 0, "ID of the protocol to export. This flag is required.")
	exportCmd.Flags().StringP("output", "o", "", "Path of the output document. This flag is required.")

	importCmd.Flags().StringSliceP("input", "i", nil, "Input document, in addition to positional paths.")
	importCmd.Flags().String("start", "", "Re-anchor a single protocol to begin at this time, e.g. '2024-05-01 09:30:00'.")
	importCmd.Flags().Bool("continue-on-error", false, "Keep importing after a document fails to load or save.")
	importCmd.Flags().Bool("stop-on-conflict", false, "Stop at the first overlapping protocol instead of skipping it.")

	listCmd.Flags().String("format", run.FormatTable, "Output format: table or csv.")

	backupAllCmd.Flags().String("output-dir", "", "Directory or s3://bucket/prefix for the backups. This flag is required.")
	backupAllCmd.Flags().String("compress", "none", "Compression: none, gzip or snappy.")

	listProblemsCmd.Flags().Float64("sps", 0, "Expected samples per second. Falls back to sample_rate.expected in the config file.")
	listProblemsCmd.Flags().Float64("sps_tolerance", 0.05, "Accepted deviation ratio from the expected rate.")
}
