package queue

import (
	"fmt"
	"tradedesk/internal/cli"
	"tradedesk/internal/config"
	"tradedesk/internal/queue"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var flags cli.Flags = cli.Flags{}.
	Append(config.GetNatsFlags())

var Command = cli.NewCommand(cli.CommandOpts{
	Name:    "check.queue",
	Flags:   flags,
	Use:     "queue",
	Aliases: []string{"q"},
	Short:   "Checks queue connectivity (NATS JetStream)",
	Run: func(cmd *cobra.Command, opts *cli.Command, args []string) error {
		serviceLogs := opts.GetServiceLogs()

		logrus.Infof("verifying queue connectivity...")
		natsInstance, err := config.NewNatsFromFlags(opts.GetFullname(), &serviceLogs)
		if err != nil {
			return err
		}
		if err := natsInstance.Init(); err != nil {
			return fmt.Errorf("failed to connect to nats: %w", err)
		}
		opts.AddShutdownProcess("nats", natsInstance.Shutdown)
		if _, err := queue.InitNats(queue.InitNatsOpts{
			NatsConnection: natsInstance,
			ServiceLogs:    serviceLogs,
		}); err != nil {
			return fmt.Errorf("failed to initialise queue: %w", err)
		}
		cli.PrintBoxedSuccessMessage(fmt.Sprintf(
			"Successfully connected to queue at address[%s]",
			viper.GetString(config.NatsAddr),
		))
		return nil
	},
})
