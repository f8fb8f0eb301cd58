package controller

import (
	"context"
	"fmt"
	"time"
	"tradedesk/internal/audit"
	"tradedesk/internal/cli"
	"tradedesk/internal/common"
	"tradedesk/internal/config"
	"tradedesk/internal/controller"
	"tradedesk/internal/email"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const shutdownTimeout = 10 * time.Second

var flags cli.Flags = cli.Flags{
	{
		Name:         "audit-enabled",
		DefaultValue: true,
		Usage:        "when false, audit logs are kept in memory instead of MongoDB",
		Type:         cli.FlagTypeBool,
	},
}.
	Append(config.GetListenAddrFlags(13371)).
	Append(config.GetControllerFlags()).
	Append(config.GetMysqlFlags()).
	Append(config.GetMongoFlags()).
	Append(config.GetNatsFlags()).
	Append(config.GetRedisFlags()).
	Append(config.GetSmtpFlags())

var Command = cli.NewCommand(cli.CommandOpts{
	Name:    "start.controller",
	Flags:   flags,
	Use:     "controller",
	Aliases: []string{"c"},
	Short:   "Starts the controller component",
	Long:    "Starts the controller component which serves the JSON API of the filters, solar and vendorcredit apps",
	Run: func(cmd *cobra.Command, opts *cli.Command, args []string) error {
		appName := opts.GetFullname()
		serviceLogs := opts.GetServiceLogs()
		entityId := fmt.Sprintf("%v@%s", opts.GetUserId(), opts.GetHostname())

		//
		// audit module
		//

		logrus.Infof("initialising audit module...")
		audit.Init(audit.NewMemory())
		if viper.GetBool("audit-enabled") {
			mongoInstance := config.NewMongoFromFlags(appName, &serviceLogs)
			if err := mongoInstance.Init(); err != nil {
				return fmt.Errorf("failed to connect to mongo: %w", err)
			}
			opts.AddShutdownProcess("mongo", mongoInstance.Shutdown)
			if err := audit.InitMongo(mongoInstance.GetClient()); err != nil {
				return fmt.Errorf("failed to initialise audit module: %w", err)
			}
			logrus.Infof("initialised audit module with mongodb")
		} else {
			logrus.Warnf("audit logs are kept in memory and will be lost on restart")
		}

		//
		// database
		//

		logrus.Infof("initialising database connection...")
		mysqlInstance := config.NewMysqlFromFlags(appName, &serviceLogs)
		if err := mysqlInstance.Init(); err != nil {
			return fmt.Errorf("failed to connect to mysql: %w", err)
		}
		opts.AddShutdownProcess("mysql", mysqlInstance.Shutdown)
		logrus.Infof("initialised database connection")

		//
		// queue
		//

		logrus.Infof("initialising queue connection...")
		natsInstance, err := config.NewNatsFromFlags(appName, &serviceLogs)
		if err != nil {
			return err
		}
		if err := natsInstance.Init(); err != nil {
			return fmt.Errorf("failed to connect to nats: %w", err)
		}
		opts.AddShutdownProcess("nats", natsInstance.Shutdown)
		logrus.Infof("initialised queue connection")

		//
		// cache
		//

		logrus.Infof("initialising cache connection...")
		redisInstance := config.NewRedisFromFlags(appName, &serviceLogs)
		if err := redisInstance.Init(); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		opts.AddShutdownProcess("redis", redisInstance.Shutdown)
		logrus.Infof("initialised cache connection")

		//
		// email
		//

		smtpConfig, sender, err := config.NewSmtpConfigFromFlags()
		if err != nil {
			return err
		}
		if smtpConfig.IsSet() {
			if err := smtpConfig.VerifyConnection(); err != nil {
				logrus.Warnf("failed to verify smtp server[%s]: %s", smtpConfig.Hostname, err)
			}
		}
		emailSender := email.NewSender(smtpConfig, sender, serviceLogs)

		healthcheckProbes := []func() error{
			mysqlInstance.GetStatus().GetError,
			natsInstance.GetStatus().GetError,
			redisInstance.GetStatus().GetError,
		}

		logrus.Infof("initialising web application...")
		handler, err := controller.GetHttpApplication(controller.HttpApplicationOpts{
			CacheConnection:     redisInstance,
			CronSecret:          viper.GetString(config.CronSecret),
			DatabaseConnection:  mysqlInstance,
			EmailSender:         emailSender,
			ImportBatchSize:     viper.GetInt(config.ImportBatchSize),
			LivenessChecks:      healthcheckProbes,
			ReadinessChecks:     healthcheckProbes,
			PublicServerUrl:     viper.GetString(config.PublicServerUrl),
			QueueConnection:     natsInstance,
			ServiceLogs:         serviceLogs,
			SessionSigningToken: viper.GetString(config.SessionSigningToken),
		})
		if err != nil {
			return fmt.Errorf("failed to initialise web application: %w", err)
		}

		serverOpts := common.NewHttpServerOpts{
			Addr:        viper.GetString("listen-addr"),
			Handler:     handler,
			ServiceLogs: serviceLogs,
		}
		if allowedIps := viper.GetStringSlice(config.AllowedIps); len(allowedIps) > 0 {
			serverOpts.IpAllowlist = &common.NewHttpServerIpAllowlistOpts{AllowedIps: allowedIps}
		}
		httpServer, err := common.NewHttpServer(serverOpts)
		if err != nil {
			return fmt.Errorf("failed to create http server: %w", err)
		}
		opts.AddShutdownProcess("http", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return httpServer.Shutdown(ctx)
		})
		opts.IsReady()

		audit.Log(context.Background(), audit.LogEntry{
			EntityId:   entityId,
			EntityType: audit.ControllerEntity,
			Verb:       audit.Start,
			ResourceId: viper.GetString("listen-addr"),
		})
		logrus.Infof("starting web application on address[%s]...", serverOpts.Addr)
		if err := httpServer.Start(); err != nil {
			return fmt.Errorf("failed to start http server: %w", err)
		}
		return nil
	},
})
