package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"tradedesk/internal/common"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

type MigrateOpts struct {
	Connection *sql.DB

	// Steps runs that many migrations when positive and rolls back
	// that many when negative, zero applies everything pending
	Steps       int
	ServiceLogs chan<- common.ServiceLog
}

type MigrateOutput struct {
	PreviousVersion uint
	CurrentVersion  uint
	IsChanged       bool
}

func MigrateMysql(opts MigrateOpts) (*MigrateOutput, error) {
	if opts.ServiceLogs == nil {
		opts.ServiceLogs = common.GetNoopServiceLog()
	}
	driver, err := mysql.WithInstance(opts.Connection, &mysql.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create mysql driver: %w", err)
	}
	opts.ServiceLogs <- common.ServiceLogf(common.LogLevelDebug, "established database connection")

	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to create iofs source: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "mysql", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator instance: %w", err)
	}
	opts.ServiceLogs <- common.ServiceLogf(common.LogLevelDebug, "created migrator instance")

	version, isDirty, err := migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return nil, fmt.Errorf("failed to get version of current migration: %w", err)
	}
	if isDirty {
		return nil, fmt.Errorf("failed to get a clean slate to run migrations on (current dirty version: %v)", version)
	}
	output := &MigrateOutput{PreviousVersion: version, CurrentVersion: version}
	opts.ServiceLogs <- common.ServiceLogf(common.LogLevelDebug, "migrator version: %v (dirty: %v)", version, isDirty)

	if opts.Steps != 0 {
		opts.ServiceLogs <- common.ServiceLogf(common.LogLevelInfo, "running %v steps of migrations", opts.Steps)
		err = migrator.Steps(opts.Steps)
	} else {
		opts.ServiceLogs <- common.ServiceLogf(common.LogLevelInfo, "running all pending migrations")
		err = migrator.Up()
	}
	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			opts.ServiceLogs <- common.ServiceLogf(common.LogLevelInfo, "no change detected")
			return output, nil
		}
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	if current, _, err := migrator.Version(); err == nil {
		output.CurrentVersion = current
	} else if errors.Is(err, migrate.ErrNilVersion) {
		output.CurrentVersion = 0
	}
	output.IsChanged = output.CurrentVersion != output.PreviousVersion
	opts.ServiceLogs <- common.ServiceLogf(common.LogLevelInfo, "migrated from version %v to %v", output.PreviousVersion, output.CurrentVersion)
	return output, nil
}
