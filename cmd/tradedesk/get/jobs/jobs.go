package jobs

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
		Name:         "status",
		DefaultValue: "",
		Usage:        "only list jobs in this status",
		Type:         cli.FlagTypeString,
	},
	{
		Name:         "query",
		Short:        'q',
		DefaultValue: "",
		Usage:        "matches the customer name or site address",
		Type:         cli.FlagTypeString,
	},
	{
		Name:         "city",
		DefaultValue: "",
		Usage:        "matches the job's city",
		Type:         cli.FlagTypeString,
	},
	{
		Name:         "from",
		DefaultValue: "",
		Usage:        "only list jobs updated on or after this YYYY-MM-DD date",
		Type:         cli.FlagTypeString,
	},
	{
		Name:         "to",
		DefaultValue: "",
		Usage:        "only list jobs updated on or before the start of this YYYY-MM-DD date",
		Type:         cli.FlagTypeString,
	},
	{
		Name:         "sort",
		DefaultValue: "updated_desc",
		Usage:        "one of updated_desc, updated_asc or days_stuck",
		Type:         cli.FlagTypeString,
	},
}.
	Append(config.GetControllerUrlFlags()).
	Append(config.GetOrgFlags())

var Command = cli.NewCommand(cli.CommandOpts{
	Name:  "get.jobs",
	Flags: flags,
	Use:   "jobs",
	Short: "Lists solar jobs on the job board",
	Run: func(cmd *cobra.Command, opts *cli.Command, args []string) error {
		client, session, err := cli.RequireAuth(viper.GetString(config.ControllerUrl), opts.GetFullname())
		if err != nil {
			return err
		}
		orgId, err := cli.ResolveOrgId(viper.GetString(config.OrgId), session, common.AppSolar)
		if err != nil {
			return err
		}
		output, err := client.ListJobsV1(controller.ListJobsV1Input{
			OrgId:  orgId,
			Status: viper.GetString("status"),
			Query:  viper.GetString("query"),
			City:   viper.GetString("city"),
			From:   viper.GetString("from"),
			To:     viper.GetString("to"),
			Sort:   viper.GetString("sort"),
		})
		if err != nil {
			return fmt.Errorf("failed to list jobs: %w", err)
		}
		return cli.PrintOutput(viper.GetString("output"), output.Data, func() *cli.Table {
			return cli.NewTable(cli.NewTableOpts{
				Headers: []string{"id", "customer", "site address", "city", "status", "days in status", "updated"},
				Rows: func(t *cli.Table) error {
					for _, job := range output.Data {
						if err := t.NewRow(
							job.Id,
							job.CustomerName,
							job.SiteAddress,
							job.City,
							string(job.Status),
							job.DaysInStatus,
							job.UpdatedAt,
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
