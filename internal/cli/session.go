package cli

import (
	"errors"
	"fmt"
	"tradedesk/internal/common"
	"tradedesk/pkg/controller"
)

// RequireAuth loads the locally stored session token and verifies it
// against the controller, the stale token is removed when the
// controller rejects it
func RequireAuth(controllerUrl string, methodId string) (*controller.Client, *controller.ValidateSessionV1OutputData, error) {
	sessionToken, _, err := controller.GetSessionToken()
	if err != nil {
		fmt.Printf("You must be logged-in to run this command, use `%s login`\n", AppName)
		return nil, nil, ErrorNotAuthenticated
	}

	client, err := controller.NewClient(controller.NewClientOpts{
		ControllerUrl: controllerUrl,
		BearerAuth: &controller.NewClientBearerAuthOpts{
			Token: sessionToken,
		},
		Id: methodId,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrorClientUnavailable, err)
	}

	output, err := client.ValidateSessionV1()
	if err != nil {
		if !errors.Is(err, controller.ErrorAuthRequired) {
			return nil, nil, fmt.Errorf("%w: %w", ErrorControllerUnavailable, err)
		}
		if err := controller.DeleteSessionToken(); err != nil {
			fmt.Printf("We failed to remove the session token for you, please do it yourself\n")
		}
		fmt.Printf("Please login again using `%s login`\n", AppName)
		return nil, nil, ErrorAuthError
	}

	return client, &output.Data, nil
}

// ResolveOrgId returns orgId when it is set, otherwise the only org of
// app that the session's user belongs to
func ResolveOrgId(orgId string, session *controller.ValidateSessionV1OutputData, app common.App) (string, error) {
	if orgId != "" {
		return orgId, nil
	}
	candidates := []string{}
	for _, org := range session.Orgs {
		if org.App == app {
			candidates = append(candidates, org.Id)
		}
	}
	switch len(candidates) {
	case 0:
		return "", fmt.Errorf("%w: you do not belong to any %s organisation", ErrorInvalidInput, app)
	case 1:
		return candidates[0], nil
	}
	return "", fmt.Errorf("%w: you belong to %v %s organisations, specify one with --org-id", ErrorInvalidInput, len(candidates), app)
}
