package member

import (
	"errors"
	"fmt"
	"tradedesk/internal/cli"
	"tradedesk/internal/config"
	"tradedesk/internal/validate"
	"tradedesk/pkg/controller"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var flags cli.Flags = cli.Flags{
	{
		Name:         "role",
		DefaultValue: "",
		Usage:        "the role granted to the member, roles depend on the organisation's app",
		Type:         cli.FlagTypeString,
	},
}.
	Append(config.GetControllerUrlFlags()).
	Append(config.GetOrgFlags())

var Command = cli.NewCommand(cli.CommandOpts{
	Name:  "add.member",
	Flags: flags,
	Use:   "member <email>",
	Short: "Grants a user access to an organisation",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, opts *cli.Command, args []string) error {
		email := args[0]
		if err := validate.Email(email); err != nil {
			return fmt.Errorf("%w: email[%s] is not valid: %w", cli.ErrorInvalidInput, email, err)
		}
		orgId := viper.GetString(config.OrgId)
		if orgId == "" {
			return fmt.Errorf("%w: --%s is required", cli.ErrorInvalidInput, config.OrgId)
		}
		role := viper.GetString("role")
		if role == "" {
			return fmt.Errorf("%w: --role is required", cli.ErrorInvalidInput)
		}
		client, _, err := cli.RequireAuth(viper.GetString(config.ControllerUrl), opts.GetFullname())
		if err != nil {
			return err
		}
		output, err := client.AddOrgMemberV1(controller.AddOrgMemberV1Input{
			OrgId: orgId,
			Email: email,
			Role:  role,
		})
		if err != nil {
			switch {
			case errors.Is(err, controller.ErrorSeatLimitReached):
				return fmt.Errorf("org[%s] has no seats left on its plan", orgId)
			case errors.Is(err, controller.ErrorInsufficientPermissions):
				return fmt.Errorf("you are not allowed to add members to org[%s]", orgId)
			}
			return fmt.Errorf("failed to add member: %w", err)
		}
		cli.PrintBoxedSuccessMessage(fmt.Sprintf("User %s (%s) was added to org[%s]", output.Data.Email, output.Data.Id, orgId))
		return nil
	},
})
