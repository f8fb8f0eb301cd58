package worker

import (
	"context"
	"fmt"
	"tradedesk/internal/audit"
	"tradedesk/internal/cache"
	"tradedesk/internal/cli"
	"tradedesk/internal/config"
	"tradedesk/internal/controller/models"
	"tradedesk/internal/email"
	"tradedesk/internal/queue"
	"tradedesk/internal/reminders"
	"tradedesk/internal/vendorcredit"
	"tradedesk/internal/worker"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var flags cli.Flags = cli.Flags{
	{
		Name:         "consumer-id",
		DefaultValue: worker.DefaultConsumerId,
		Usage:        "the durable consumer name used to pull import jobs, workers sharing it share the work",
		Type:         cli.FlagTypeString,
	},
	{
		Name:         "disable-reminders",
		DefaultValue: false,
		Usage:        "when set, this worker only consumes import jobs",
		Type:         cli.FlagTypeBool,
	},
	{
		Name:         "disable-imports",
		DefaultValue: false,
		Usage:        "when set, this worker only runs the reminder cycle",
		Type:         cli.FlagTypeBool,
	},
}.
	Append(config.GetListenAddrFlags(13372)).
	Append(config.GetWorkerFlags()).
	Append(config.GetMysqlFlags()).
	Append(config.GetNatsFlags()).
	Append(config.GetRedisFlags()).
	Append(config.GetSmtpFlags())

var Command = cli.NewCommand(cli.CommandOpts{
	Name:    "start.worker",
	Flags:   flags,
	Use:     "worker",
	Aliases: []string{"w"},
	Short:   "Starts the background worker",
	Long:    "Starts the background worker which sends due reminders on an interval and materialises vendor credit import jobs pushed by the controller",
	Run: func(cmd *cobra.Command, opts *cli.Command, args []string) error {
		appName := opts.GetFullname()
		serviceLogs := opts.GetServiceLogs()
		audit.Init(audit.NewMemory())

		logrus.Infof("initialising database connection...")
		mysqlInstance := config.NewMysqlFromFlags(appName, &serviceLogs)
		if err := mysqlInstance.Init(); err != nil {
			return fmt.Errorf("failed to connect to mysql: %w", err)
		}
		opts.AddShutdownProcess("mysql", mysqlInstance.Shutdown)

		logrus.Infof("initialising cache connection...")
		redisInstance := config.NewRedisFromFlags(appName, &serviceLogs)
		if err := redisInstance.Init(); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		opts.AddShutdownProcess("redis", redisInstance.Shutdown)
		cacheInstance, err := cache.InitRedis(cache.InitRedisOpts{
			RedisConnection: redisInstance,
			ServiceLogs:     serviceLogs,
		})
		if err != nil {
			return fmt.Errorf("failed to initialise cache: %w", err)
		}

		healthcheckProbes := []func() error{
			mysqlInstance.GetStatus().GetError,
			redisInstance.GetStatus().GetError,
		}
		workerOpts := worker.NewOpts{
			ConsumerId:       viper.GetString("consumer-id"),
			HttpAddr:         viper.GetString("listen-addr"),
			ReminderInterval: viper.GetDuration(config.ReminderInterval),
			ServiceLogs:      serviceLogs,
		}

		if !viper.GetBool("disable-reminders") {
			smtpConfig, sender, err := config.NewSmtpConfigFromFlags()
			if err != nil {
				return err
			}
			runner, err := reminders.NewRunner(reminders.RunnerOpts{
				Store:       models.ReminderStore{Db: mysqlInstance.GetClient()},
				Sender:      email.NewSender(smtpConfig, sender, serviceLogs),
				Cache:       cacheInstance,
				ServiceLogs: serviceLogs,
			})
			if err != nil {
				return fmt.Errorf("failed to initialise reminder runner: %w", err)
			}
			workerOpts.Reminders = runner
		}

		if !viper.GetBool("disable-imports") {
			logrus.Infof("initialising queue connection...")
			natsInstance, err := config.NewNatsFromFlags(appName, &serviceLogs)
			if err != nil {
				return err
			}
			if err := natsInstance.Init(); err != nil {
				return fmt.Errorf("failed to connect to nats: %w", err)
			}
			opts.AddShutdownProcess("nats", natsInstance.Shutdown)
			queueInstance, err := queue.InitNats(queue.InitNatsOpts{
				NatsConnection: natsInstance,
				ServiceLogs:    serviceLogs,
			})
			if err != nil {
				return fmt.Errorf("failed to initialise queue: %w", err)
			}
			healthcheckProbes = append(healthcheckProbes, natsInstance.GetStatus().GetError)
			workerOpts.Queue = queueInstance
			workerOpts.Importer = vendorcredit.NewImporter(vendorcredit.ImporterOpts{
				Store:       models.VendorCreditStore{Db: mysqlInstance.GetClient()},
				Cache:       cacheInstance,
				ServiceLogs: serviceLogs,
			})
		}
		workerOpts.LivenessChecks = healthcheckProbes
		workerOpts.ReadinessChecks = healthcheckProbes

		workerInstance, err := worker.New(workerOpts)
		if err != nil {
			return fmt.Errorf("failed to initialise worker: %w", err)
		}
		opts.IsReady()

		audit.Log(context.Background(), audit.LogEntry{
			EntityId:   fmt.Sprintf("%v@%s", opts.GetUserId(), opts.GetHostname()),
			EntityType: audit.WorkerEntity,
			Verb:       audit.Start,
			ResourceId: workerOpts.ConsumerId,
		})
		logrus.Infof("starting worker...")
		if err := workerInstance.Start(opts.GetContext()); err != nil {
			return fmt.Errorf("worker stopped unexpectedly: %w", err)
		}
		return nil
	},
})
