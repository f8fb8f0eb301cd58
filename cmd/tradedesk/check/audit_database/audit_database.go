package audit_database

import (
	"context"
	"fmt"
	"time"
	"tradedesk/internal/audit"
	"tradedesk/internal/cli"
	"tradedesk/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var flags cli.Flags = cli.Flags{}.
	Append(config.GetMongoFlags())

var Command = cli.NewCommand(cli.CommandOpts{
	Name:    "check.audit_database",
	Flags:   flags,
	Use:     "audit-database",
	Aliases: []string{"adb"},
	Short:   "Checks connectivity with the audit database (MongoDB)",
	Run: func(cmd *cobra.Command, opts *cli.Command, args []string) error {
		serviceLogs := opts.GetServiceLogs()

		logrus.Infof("verifying audit database connectivity...")
		mongoInstance := config.NewMongoFromFlags(opts.GetFullname(), &serviceLogs)
		if err := mongoInstance.Init(); err != nil {
			return fmt.Errorf("failed to connect to mongo: %w", err)
		}
		opts.AddShutdownProcess("mongo", mongoInstance.Shutdown)
		if err := audit.InitMongo(mongoInstance.GetClient()); err != nil {
			return fmt.Errorf("failed to initialise audit module: %w", err)
		}
		ctx, cancel := context.WithTimeout(opts.GetContext(), 5*time.Second)
		defer cancel()
		entityId := fmt.Sprintf("%v@%s", opts.GetUserId(), opts.GetHostname())
		entries, err := audit.GetByEntity(ctx, entityId, audit.ControllerEntity, time.Now(), 1)
		if err != nil {
			return fmt.Errorf("failed to query audit logs: %w", err)
		}
		cli.PrintBoxedSuccessMessage(fmt.Sprintf(
			"Successfully connected to audit database (%v recent entries from this host)",
			len(entries),
		))
		return nil
	},
})
