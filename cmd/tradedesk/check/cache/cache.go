package cache

import (
	"fmt"
	"time"
	"tradedesk/internal/cache"
	"tradedesk/internal/cli"
	"tradedesk/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var flags cli.Flags = cli.Flags{}.
	Append(config.GetRedisFlags())

var Command = cli.NewCommand(cli.CommandOpts{
	Name:    "check.cache",
	Flags:   flags,
	Use:     "cache",
	Aliases: []string{"c"},
	Short:   "Checks cache connectivity (Redis)",
	Run: func(cmd *cobra.Command, opts *cli.Command, args []string) error {
		serviceLogs := opts.GetServiceLogs()

		logrus.Infof("verifying cache connectivity...")
		redisInstance := config.NewRedisFromFlags(opts.GetFullname(), &serviceLogs)
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
		key := fmt.Sprintf("check:%s", opts.GetHostname())
		if err := cacheInstance.Set(key, "ok", time.Minute); err != nil {
			return fmt.Errorf("failed to write to cache: %w", err)
		}
		if err := cacheInstance.Del(key); err != nil {
			return fmt.Errorf("failed to delete from cache: %w", err)
		}
		cli.PrintBoxedSuccessMessage(fmt.Sprintf(
			"Successfully connected to cache at address[%s]",
			viper.GetString(config.RedisAddr),
		))
		return nil
	},
})
