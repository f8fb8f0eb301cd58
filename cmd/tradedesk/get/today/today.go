package today

import (
	"fmt"
	"tradedesk/internal/cli"
	"tradedesk/internal/common"
	"tradedesk/internal/config"
	"tradedesk/pkg/controller"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var flags cli.Flags = cli.Flags{}.
	Append(config.GetControllerUrlFlags()).
	Append(config.GetOrgFlags())

var Command = cli.NewCommand(cli.CommandOpts{
	Name:  "get.today",
	Flags: flags,
	Use:   "today",
	Short: "Lists today's permit follow-ups, inspections and due tasks",
	Run: func(cmd *cobra.Command, opts *cli.Command, args []string) error {
		client, session, err := cli.RequireAuth(viper.GetString(config.ControllerUrl), opts.GetFullname())
		if err != nil {
			return err
		}
		orgId, err := cli.ResolveOrgId(viper.GetString(config.OrgId), session, common.AppSolar)
		if err != nil {
			return err
		}
		output, err := client.GetSolarTodayV1(controller.GetSolarTodayV1Input{OrgId: orgId})
		if err != nil {
			return fmt.Errorf("failed to get today's view: %w", err)
		}
		today := output.Data
		return cli.PrintOutput(viper.GetString("output"), today, func() *cli.Table {
			return cli.NewTable(cli.NewTableOpts{
				Headers: []string{"kind", "id", "customer", "detail", "when"},
				Rows: func(t *cli.Table) error {
					for _, permit := range today.FollowUpsDue {
						if err := t.NewRow("follow-up", permit.Id, permit.CustomerName, permit.JurisdictionName, permit.NextFollowUpAt); err != nil {
							return err
						}
					}
					for _, inspection := range today.InspectionsToday {
						if err := t.NewRow("inspection", inspection.Id, inspection.CustomerName, string(inspection.Type), inspection.ScheduledFor); err != nil {
							return err
						}
					}
					for _, task := range today.TasksDue {
						if err := t.NewRow("task", task.Id, task.CustomerName, task.Title, task.DueAt); err != nil {
							return err
						}
					}
					return nil
				},
			})
		})
	},
})
