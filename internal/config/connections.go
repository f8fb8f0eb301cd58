package config

import (
	"fmt"
	"net"
	"tradedesk/internal/common"
	"tradedesk/internal/email"
	"tradedesk/internal/persistence"

	"github.com/spf13/viper"
)

// NewMysqlFromFlags builds an unconnected MySQL instance from the flags
// returned by GetMysqlFlags
func NewMysqlFromFlags(appName string, serviceLogs *chan common.ServiceLog) *persistence.Mysql {
	return persistence.NewMysql(
		persistence.MysqlConnectionOpts{
			AppName:  appName,
			Host:     net.JoinHostPort(viper.GetString(MysqlHost), viper.GetString(MysqlPort)),
			Database: viper.GetString(MysqlDatabase),
		},
		persistence.MysqlAuthOpts{
			Password: viper.GetString(MysqlPassword),
			Username: viper.GetString(MysqlUsername),
		},
		serviceLogs,
	)
}

// NewMongoFromFlags builds an unconnected MongoDB instance, --mongo-hosts
// wins over --mongo-host and --mongo-port when it is set
func NewMongoFromFlags(appName string, serviceLogs *chan common.ServiceLog) *persistence.Mongo {
	hosts := viper.GetStringSlice(MongoHosts)
	if len(hosts) == 0 {
		hosts = []string{net.JoinHostPort(viper.GetString(MongoHost), viper.GetString(MongoPort))}
	}
	return persistence.NewMongo(
		persistence.MongoConnectionOpts{
			AppName:  appName,
			Hosts:    hosts,
			IsDirect: len(hosts) == 1,
		},
		persistence.MongoAuthOpts{
			Password: viper.GetString(MongoPassword),
			Username: viper.GetString(MongoUsername),
		},
		serviceLogs,
	)
}

func NewNatsFromFlags(appName string, serviceLogs *chan common.ServiceLog) (*persistence.Nats, error) {
	authOpts := persistence.NatsAuthOpts{}
	if nkey := viper.GetString(NatsNkeyValue); nkey != "" {
		authOpts.NKey = nkey
	} else {
		authOpts.Username = viper.GetString(NatsUsername)
		authOpts.Password = viper.GetString(NatsPassword)
	}
	natsInstance, err := persistence.NewNats(
		persistence.NatsConnectionOpts{
			AppName: appName,
			Host:    viper.GetString(NatsAddr),
		},
		authOpts,
		serviceLogs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create nats client: %w", err)
	}
	return natsInstance, nil
}

func NewRedisFromFlags(appName string, serviceLogs *chan common.ServiceLog) *persistence.Redis {
	return persistence.NewRedis(
		persistence.RedisConnectionOpts{
			AppName: appName,
			Addr:    viper.GetString(RedisAddr),
		},
		persistence.RedisAuthOpts{
			Username: viper.GetString(RedisUsername),
			Password: viper.GetString(RedisPassword),
		},
		serviceLogs,
	)
}

// NewSmtpConfigFromFlags returns the smtp server config and the sender
// parsed from the flags returned by GetSmtpFlags
func NewSmtpConfigFromFlags() (email.SmtpConfig, email.User, error) {
	smtpConfig := email.SmtpConfig{
		Hostname: viper.GetString(SmtpHostname),
		Port:     viper.GetInt(SmtpPort),
		Username: viper.GetString(SmtpUsername),
		Password: viper.GetString(SmtpPassword),
	}
	sender, err := email.ParseUser(viper.GetString(SmtpSender))
	if err != nil {
		return smtpConfig, email.User{}, fmt.Errorf("failed to parse --%s: %w", SmtpSender, err)
	}
	return smtpConfig, sender, nil
}
