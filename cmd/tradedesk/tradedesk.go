package tradedesk

import (
	"fmt"
	"os"
	"strings"
	"tradedesk/cmd/tradedesk/add"
	"tradedesk/cmd/tradedesk/check"
	"tradedesk/cmd/tradedesk/create"
	"tradedesk/cmd/tradedesk/export"
	"tradedesk/cmd/tradedesk/get"
	"tradedesk/cmd/tradedesk/imports"
	"tradedesk/cmd/tradedesk/login"
	"tradedesk/cmd/tradedesk/logout"
	"tradedesk/cmd/tradedesk/migrate"
	"tradedesk/cmd/tradedesk/register"
	"tradedesk/cmd/tradedesk/start"
	"tradedesk/cmd/tradedesk/validate"
	"tradedesk/internal/cli"
	"tradedesk/internal/common"
	"tradedesk/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var availableOutputs = []string{
	common.OutputFormatText,
	common.OutputFormatJson,
}

var availableLogLevels = []string{
	string(common.LogLevelTrace),
	string(common.LogLevelDebug),
	string(common.LogLevelInfo),
	string(common.LogLevelWarn),
	string(common.LogLevelError),
}

var persistentFlags cli.Flags = cli.Flags{
	{
		Name:         "config",
		Short:        'C',
		DefaultValue: "~/.tradedesk/config",
		Usage:        "Defines the location of the global configuration used",
		Type:         cli.FlagTypeString,
	},
	{
		Name:         "log-level",
		Short:        'l',
		DefaultValue: "info",
		Usage:        fmt.Sprintf("Sets the log level (one of [%s])", strings.Join(availableLogLevels, ", ")),
		Type:         cli.FlagTypeString,
	},
	{
		Name:         "output",
		Short:        'o',
		DefaultValue: common.OutputFormatText,
		Usage:        fmt.Sprintf("Sets the output format where applicable (one of [%s])", strings.Join(availableOutputs, ", ")),
		Type:         cli.FlagTypeString,
	},
}

func init() {
	Command.AddCommand(add.Command)
	Command.AddCommand(check.Command)
	Command.AddCommand(create.Command)
	Command.AddCommand(export.Command)
	Command.AddCommand(get.Command)
	Command.AddCommand(imports.Command)
	Command.AddCommand(login.Command.Get())
	Command.AddCommand(logout.Command.Get())
	Command.AddCommand(migrate.Command.Get())
	Command.AddCommand(register.Command.Get())
	Command.AddCommand(start.Command)
	Command.AddCommand(validate.Command)
	Command.SilenceErrors = true
	Command.SilenceUsage = true

	persistentFlags.AddToCommand(Command, true)

	logrus.SetOutput(os.Stderr)
	cobra.OnInitialize(func() {
		persistentFlags.BindViper(Command, true)
		cli.InitLogging(viper.GetString("log-level"))
		configPath := expandHome(viper.GetString("config"))
		logrus.Debugf("using configuration at path[%s]", configPath)
		if err := config.LoadGlobal(configPath); err != nil {
			logrus.Warnf("failed to load configuration at path[%s]: %s", configPath, err)
		}
	})

	cli.InitConfig()
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	userHomeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return userHomeDir + path[1:]
}

var Command = &cobra.Command{
	Use:     cli.AppName,
	Short:   "Back-office tools for HVAC filters, solar permits and vendor credits",
	Version: config.GetVersion(),
	Long: "Tradedesk hosts three small back-office applications for trade businesses: " +
		"an HVAC filter catalogue, a solar permit tracker and a vendor credit/RMA tracker",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}
