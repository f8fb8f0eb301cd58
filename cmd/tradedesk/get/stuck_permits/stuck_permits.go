package stuck_permits

import (
	"fmt"
	"time"
	"tradedesk/internal/cli"
	"tradedesk/internal/common"
	"tradedesk/internal/config"
	"tradedesk/internal/solar"
	"tradedesk/pkg/controller"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var flags cli.Flags = cli.Flags{
	{
		Name:         "stale-days",
		DefaultValue: 0,
		Usage:        "days without contact before a submitted permit counts as stuck, the server default applies when zero",
		Type:         cli.FlagTypeInteger,
	},
}.
	Append(config.GetControllerUrlFlags()).
	Append(config.GetOrgFlags())

var Command = cli.NewCommand(cli.CommandOpts{
	Name:    "get.stuck_permits",
	Flags:   flags,
	Use:     "stuck-permits",
	Aliases: []string{"stuck"},
	Short:   "Lists submitted solar permits that need a follow-up",
	Run: func(cmd *cobra.Command, opts *cli.Command, args []string) error {
		client, session, err := cli.RequireAuth(viper.GetString(config.ControllerUrl), opts.GetFullname())
		if err != nil {
			return err
		}
		orgId, err := cli.ResolveOrgId(viper.GetString(config.OrgId), session, common.AppSolar)
		if err != nil {
			return err
		}
		output, err := client.ListStuckPermitsV1(controller.ListStuckPermitsV1Input{
			OrgId:     orgId,
			StaleDays: viper.GetInt("stale-days"),
		})
		if err != nil {
			return fmt.Errorf("failed to list stuck permits: %w", err)
		}
		now := time.Now()
		return cli.PrintOutput(viper.GetString("output"), output.Data, func() *cli.Table {
			return cli.NewTable(cli.NewTableOpts{
				Headers: []string{"id", "jurisdiction", "customer", "status", "last contact", "days idle"},
				Rows: func(t *cli.Table) error {
					for _, permit := range output.Data {
						if err := t.NewRow(
							permit.Id,
							permit.JurisdictionName,
							permit.CustomerName,
							string(permit.Status),
							permit.LastContactAt,
							idleDays(permit, now),
						); err != nil {
							return err
						}
					}
					return nil
				},
			})
		})
	},
})

func idleDays(permit solar.Permit, now time.Time) string {
	since := permit.LastContactAt
	if since == nil {
		since = permit.SubmittedAt
	}
	if since == nil {
		return "-"
	}
	return fmt.Sprintf("%v", int(now.Sub(*since).Hours()/24))
}
