package main

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jiaming2012/protocol-backup/src/cmd/protocol_backup/run"
	"github.com/jiaming2012/protocol-backup/src/config"
	"github.com/jiaming2012/protocol-backup/src/utils"
)

var rootCmd = &cobra.Command{
	Use:   "protocol_backup",
	Short: "Export and import protocols of a recorder database",
	Long: `protocol_backup exports protocols with their samples to portable JSON documents
and imports them back, refusing any protocol whose time range overlaps data
that is already stored.`,
}

// resolveConfig layers the env file, the config file, PROTOCOL_BACKUP_* variables
// and explicitly set flags, in that order.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()

	envFile, _ := flags.GetString("env-file")
	if err := utils.InitEnvironmentVariables(envFile); err != nil {
		return config.Config{}, err
	}

	configPath, _ := flags.GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}

	cfg.ApplyEnv()

	if flags.Changed("db") {
		cfg.Database, _ = flags.GetString("db")
	}

	if flags.Changed("timezone") {
		cfg.Timezone, _ = flags.GetString("timezone")
	}

	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}

	if flags.Changed("otel") {
		cfg.Otel, _ = flags.GetBool("otel")
	}

	return cfg, nil
}

// withEnv runs fn with an open environment and exits with status 1 on any error.
func withEnv(cmd *cobra.Command, fn func(ctx context.Context, env *run.Env) error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	ctx := cmd.Context()
	env, err := run.Setup(ctx, cfg)
	if err != nil {
		log.Fatalf("error setting up: %v", err)
	}

	err = fn(ctx, env)

	if closeErr := env.Close(context.Background()); closeErr != nil {
		log.Errorf("error closing: %v", closeErr)
	}

	if err != nil {
		log.Fatalf("error running %s: %v", cmd.Name(), err)
	}
}

func main() {
	rootCmd.PersistentFlags().String("db", "", "Path to the SQLite database. Overrides PROTOCOL_BACKUP_DB and the config file.")
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file.")
	rootCmd.PersistentFlags().String("env-file", "", "Path to a .env file. Defaults to .env in the working directory, if present.")
	rootCmd.PersistentFlags().StringP("timezone", "t", "", "Timezone of naive timestamps, e.g. Europe/Prague. Defaults to local time.")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error.")
	rootCmd.PersistentFlags().Bool("otel", false, "Export traces and metrics over OTLP/HTTP.")

	rootCmd.AddCommand(exportCmd, importCmd, listCmd, backupAllCmd, listProblemsCmd)

	cobra.CheckErr(rootCmd.Execute())
}
