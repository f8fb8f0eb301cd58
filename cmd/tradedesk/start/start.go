package start

import (
	"tradedesk/cmd/tradedesk/start/controller"
	"tradedesk/cmd/tradedesk/start/worker"

	"github.com/spf13/cobra"
)

func init() {
	Command.AddCommand(controller.Command.Get())
	Command.AddCommand(worker.Command.Get())
}

var Command = &cobra.Command{
	Use:     "start",
	Aliases: []string{"st"},
	Short:   "Starts one of Tradedesk's services",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}
