package run

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/protocol-backup/src/config"
	"github.com/jiaming2012/protocol-backup/src/dbutils"
	"github.com/jiaming2012/protocol-backup/src/logger"
	"github.com/jiaming2012/protocol-backup/src/protocolservices"
	"github.com/jiaming2012/protocol-backup/src/telemetry"
)

// Env holds the resources of one command invocation.
type Env struct {
	Config  config.Config
	DB      *sql.DB
	Service *protocolservices.ProtocolService

	shutdown telemetry.ShutdownFunc
}

// Setup opens the database named by cfg and builds the protocol service.
// The caller must Close the returned Env.
func Setup(ctx context.Context, cfg config.Config) (*Env, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	if err := logger.Setup(cfg.LogLevel, cfg.LogJSON); err != nil {
		return nil, err
	}

	shutdown, err := telemetry.Setup(ctx, cfg.Otel)
	if err != nil {
		return nil, fmt.Errorf("failed to set up telemetry: %w", err)
	}

	sqliteConfig := dbutils.DefaultSqliteConfig(cfg.Database)
	if cfg.BusyTimeoutMs > 0 {
		sqliteConfig.BusyTimeoutMs = cfg.BusyTimeoutMs
	}

	db, err := dbutils.InitSqlite(ctx, sqliteConfig)
	if err != nil {
		return nil, errors.Join(err, shutdown(ctx))
	}

	log.Debugf("Opened database %s", cfg.Database)

	service := protocolservices.NewProtocolService(db, protocolservices.ProtocolServiceConfig{
		Location:  loc,
		SQLTracer: logger.NewSQLTracer(log.StandardLogger(), cfg.SlowQueryThreshold),
	})

	return &Env{
		Config:   cfg,
		DB:       db,
		Service:  service,
		shutdown: shutdown,
	}, nil
}

func (e *Env) Close(ctx context.Context) error {
	return errors.Join(e.DB.Close(), e.shutdown(ctx))
}
