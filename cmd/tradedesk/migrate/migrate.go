package migrate

import (
	"fmt"
	"tradedesk/internal/cli"
	"tradedesk/internal/config"
	"tradedesk/internal/database"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var flags cli.Flags = cli.Flags{
	{
		Name:         "steps",
		DefaultValue: 0,
		Usage:        "number of migrations to apply, negative values roll back, zero applies everything pending",
		Type:         cli.FlagTypeInteger,
	},
	{
		Name:         "yes",
		Short:        'y',
		DefaultValue: false,
		Usage:        "skips the confirmation shown before rolling back",
		Type:         cli.FlagTypeBool,
	},
}.
	Append(config.GetMysqlFlags())

var Command = cli.NewCommand(cli.CommandOpts{
	Name:    "migrate",
	Flags:   flags,
	Use:     "migrate",
	Aliases: []string{"m"},
	Short:   "Runs the database migrations",
	Run: func(cmd *cobra.Command, opts *cli.Command, args []string) error {
		serviceLogs := opts.GetServiceLogs()
		steps := viper.GetInt("steps")
		if steps < 0 && !viper.GetBool("yes") {
			if err := cli.ShowWarningWithConfirmation(
				fmt.Sprintf("This rolls back %v migration(s) and may drop data, continue?", -steps),
				false,
			); err != nil {
				return err
			}
		}

		logrus.Debugf("connecting to mysql...")
		mysqlInstance := config.NewMysqlFromFlags(opts.GetFullname(), &serviceLogs)
		if err := mysqlInstance.Init(); err != nil {
			return fmt.Errorf("failed to connect to mysql: %w", err)
		}
		opts.AddShutdownProcess("mysql", mysqlInstance.Shutdown)

		output, err := database.MigrateMysql(database.MigrateOpts{
			Connection:  mysqlInstance.GetClient(),
			Steps:       steps,
			ServiceLogs: serviceLogs,
		})
		if err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		if !output.IsChanged {
			cli.PrintBoxedInfoMessage(fmt.Sprintf("Database is already at version[%v]", output.CurrentVersion))
			return nil
		}
		cli.PrintBoxedSuccessMessage(fmt.Sprintf(
			"Database migrated from version[%v] to version[%v]",
			output.PreviousVersion,
			output.CurrentVersion,
		))
		return nil
	},
})
