package members

import (
	"fmt"
	"tradedesk/internal/cli"
	"tradedesk/internal/config"
	"tradedesk/pkg/controller"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var flags cli.Flags = cli.Flags{}.
	Append(config.GetControllerUrlFlags()).
	Append(config.GetOrgFlags())

var Command = cli.NewCommand(cli.CommandOpts{
	Name:    "get.members",
	Flags:   flags,
	Use:     "members",
	Aliases: []string{"m"},
	Short:   "Lists the members of an organisation",
	Run: func(cmd *cobra.Command, opts *cli.Command, args []string) error {
		client, _, err := cli.RequireAuth(viper.GetString(config.ControllerUrl), opts.GetFullname())
		if err != nil {
			return err
		}
		orgId := viper.GetString(config.OrgId)
		if orgId == "" {
			return fmt.Errorf("%w: --%s is required", cli.ErrorInvalidInput, config.OrgId)
		}
		output, err := client.ListOrgMembersV1(controller.ListOrgMembersV1Input{OrgId: orgId})
		if err != nil {
			return fmt.Errorf("failed to list members of org[%s]: %w", orgId, err)
		}
		return cli.PrintOutput(viper.GetString("output"), output.Data, func() *cli.Table {
			return cli.NewTable(cli.NewTableOpts{
				Headers: []string{"user id", "email", "name", "role", "joined"},
				Rows: func(t *cli.Table) error {
					for _, member := range output.Data {
						if err := t.NewRow(member.UserId, member.Email, member.Name, member.Role, member.CreatedAt); err != nil {
							return err
						}
					}
					return nil
				},
			})
		})
	},
})
