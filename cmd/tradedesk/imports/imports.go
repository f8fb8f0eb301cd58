package imports

import (
	"tradedesk/cmd/tradedesk/imports/filters"

	"github.com/spf13/cobra"
)

func init() {
	Command.AddCommand(filters.Command.Get())
}

var Command = &cobra.Command{
	Use:     "import",
	Aliases: []string{"i"},
	Short:   "Uploads csv files into the controller",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}
