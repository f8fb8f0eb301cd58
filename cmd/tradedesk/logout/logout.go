package logout

import (
	"errors"
	"fmt"
	"tradedesk/internal/cli"
	"tradedesk/internal/config"
	"tradedesk/pkg/controller"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var flags cli.Flags = cli.Flags{
	{
		Name:         "yes",
		Short:        'y',
		DefaultValue: false,
		Usage:        "skips the confirmation prompt",
		Type:         cli.FlagTypeBool,
	},
}.
	Append(config.GetControllerUrlFlags())

var Command = cli.NewCommand(cli.CommandOpts{
	Name:  "logout",
	Flags: flags,
	Use:   "logout",
	Short: "Logs out of Tradedesk from your terminal",
	Run: func(cmd *cobra.Command, opts *cli.Command, args []string) error {
		sessionToken, sessionFilePath, err := controller.GetSessionToken()
		if err != nil {
			if errors.Is(err, controller.ErrorNoCurrentSession) {
				cli.PrintBoxedInfoMessage("You are not logged in")
				return nil
			}
			return fmt.Errorf("failed to get a session token: %w", err)
		}
		if !viper.GetBool("yes") {
			if err := cli.ShowConfirmation(cli.ShowConfirmationOpts{
				Title:        "Logout",
				Message:      "Your session will be closed on this device",
				ConfirmLabel: "Logout",
			}); err != nil {
				return err
			}
		}

		client, err := controller.NewClient(controller.NewClientOpts{
			ControllerUrl: viper.GetString(config.ControllerUrl),
			BearerAuth: &controller.NewClientBearerAuthOpts{
				Token: sessionToken,
			},
			Id: opts.GetFullname(),
		})
		if err != nil {
			return fmt.Errorf("%w: %w", cli.ErrorClientUnavailable, err)
		}
		output, err := client.DeleteSessionV1()
		if err != nil {
			if !errors.Is(err, controller.ErrorAuthRequired) {
				return fmt.Errorf("failed to delete session: %w", err)
			}
			logrus.Infof("existing session was already invalid")
		}

		if err := controller.DeleteSessionToken(); err != nil {
			return fmt.Errorf("failed to remove file at path[%s], please do it yourself: %w", sessionFilePath, err)
		}
		message := "Session is now closed, see you again"
		if output != nil && output.Data.SessionId != "" {
			message = fmt.Sprintf("Session[%s] is now closed, see you again", output.Data.SessionId)
		}
		cli.PrintBoxedSuccessMessage(message)
		return nil
	},
})
