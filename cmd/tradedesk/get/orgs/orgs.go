package orgs

import (
	"fmt"
	"tradedesk/internal/cli"
	"tradedesk/internal/common"
	"tradedesk/internal/config"
	"tradedesk/pkg/controller"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var flags cli.Flags = cli.Flags{
	{
		Name:         "app",
		DefaultValue: "",
		Usage:        "only lists organisations of this app",
		Type:         cli.FlagTypeString,
	},
}.
	Append(config.GetControllerUrlFlags())

var Command = cli.NewCommand(cli.CommandOpts{
	Name:    "get.orgs",
	Flags:   flags,
	Use:     "orgs",
	Aliases: []string{"org", "o"},
	Short:   "Lists the organisations you are a member of",
	Run: func(cmd *cobra.Command, opts *cli.Command, args []string) error {
		client, _, err := cli.RequireAuth(viper.GetString(config.ControllerUrl), opts.GetFullname())
		if err != nil {
			return err
		}
		input := controller.ListOrgsV1Input{}
		if app := viper.GetString("app"); app != "" {
			appFilter := common.App(app)
			input.App = &appFilter
		}
		output, err := client.ListOrgsV1(input)
		if err != nil {
			return fmt.Errorf("failed to list orgs: %w", err)
		}
		return cli.PrintOutput(viper.GetString("output"), output.Data, func() *cli.Table {
			return cli.NewTable(cli.NewTableOpts{
				Headers: []string{"id", "app", "name", "role", "plan", "timezone"},
				Rows: func(t *cli.Table) error {
					for _, org := range output.Data {
						if err := t.NewRow(org.Id, string(org.App), org.Name, org.Role, org.Plan, org.Timezone); err != nil {
							return err
						}
					}
					return nil
				},
			})
		})
	},
})
