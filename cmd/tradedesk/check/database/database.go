package database

import (
	"fmt"
	"tradedesk/internal/cli"
	"tradedesk/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var flags cli.Flags = cli.Flags{}.
	Append(config.GetMysqlFlags())

var Command = cli.NewCommand(cli.CommandOpts{
	Name:    "check.database",
	Flags:   flags,
	Use:     "database",
	Aliases: []string{"db"},
	Short:   "Checks connectivity with the platform database (MySQL)",
	Run: func(cmd *cobra.Command, opts *cli.Command, args []string) error {
		serviceLogs := opts.GetServiceLogs()

		logrus.Infof("verifying database connectivity...")
		mysqlInstance := config.NewMysqlFromFlags(opts.GetFullname(), &serviceLogs)
		if err := mysqlInstance.Init(); err != nil {
			return fmt.Errorf("failed to connect to mysql: %w", err)
		}
		opts.AddShutdownProcess("mysql", mysqlInstance.Shutdown)
		cli.PrintBoxedSuccessMessage(fmt.Sprintf(
			"Successfully connected to platform database at url[%s:%s]",
			viper.GetString(config.MysqlHost),
			viper.GetString(config.MysqlPort),
		))
		return nil
	},
})
