package check

import (
	"errors"
	"fmt"
	"strings"
	"tradedesk/cmd/tradedesk/check/audit_database"
	"tradedesk/cmd/tradedesk/check/cache"
	"tradedesk/cmd/tradedesk/check/database"
	"tradedesk/cmd/tradedesk/check/email"
	"tradedesk/cmd/tradedesk/check/queue"
	"tradedesk/internal/cli"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var flags cli.Flags = cli.Flags{
	{
		Name:         "all",
		DefaultValue: false,
		Usage:        "When this is defined, all checks are ran",
		Type:         cli.FlagTypeBool,
	},
}

func init() {
	Command.AddCommand(audit_database.Command.Get())
	Command.AddCommand(cache.Command.Get())
	Command.AddCommand(database.Command.Get())
	Command.AddCommand(email.Command.Get())
	Command.AddCommand(queue.Command.Get())

	flags.AddToCommand(Command)
}

var Command = &cobra.Command{
	Use:   "check",
	Short: "Runs connectivity checks on the services Tradedesk depends on",
	PreRun: func(cmd *cobra.Command, args []string) {
		flags.BindViper(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if !viper.GetBool("all") {
			return cmd.Help()
		}
		errs := []error{}
		erroredCommands := []string{}
		commandNames := []string{}
		for _, command := range cmd.Commands() {
			commandNames = append(commandNames, command.Name())
		}
		for _, commandName := range commandNames {
			rootCmd := cmd.Root()
			rootCmd.SetArgs([]string{"check", commandName})
			if _, err := rootCmd.ExecuteC(); err != nil {
				errs = append(errs, err)
				erroredCommands = append(erroredCommands, commandName)
			}
		}
		if len(errs) > 0 {
			cli.PrintBoxedErrorMessage(fmt.Sprintf(
				"You may be experiencing reduced functionality!\n\n"+
					"The following checks failed:\n- %s",
				strings.Join(erroredCommands, "\n- "),
			))
			return errors.Join(errs...)
		}
		cli.PrintBoxedSuccessMessage("All checks passed")
		return nil
	},
}
