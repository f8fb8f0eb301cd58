package controller

import (
	"testing"
	"tradedesk/internal/testutils"
	"tradedesk/pkg/controller"
)

func TestSdkContracts(t *testing.T) {
	contracts := []struct {
		handlerInput any
		sdkInput     any
	}{
		{handlerInput: handleCreateSessionV1Input{}, sdkInput: controller.CreateSessionV1Input{}},
		{handlerInput: handleCreateUserV1Input{}, sdkInput: controller.CreateUserV1Input{}},
		{handlerInput: handleCreateOrgV1Input{}, sdkInput: controller.CreateOrgV1Input{}},
		{handlerInput: handleAddMemberV1Input{}, sdkInput: controller.AddOrgMemberV1Input{}},
		{handlerInput: handleCreateSessionV1Output{}, sdkInput: controller.CreateSessionV1OutputData{}},
		{handlerInput: handleGetSessionV1Output{}, sdkInput: controller.ValidateSessionV1OutputData{}},
		{handlerInput: handleDeleteSessionV1Output{}, sdkInput: controller.DeleteSessionV1OutputData{}},
		{handlerInput: handleCreateOrgV1Output{}, sdkInput: controller.CreateOrgV1OutputData{}},
		{handlerInput: handleCreateUserV1Output{}, sdkInput: controller.CreateUserV1OutputData{}},
	}
	for _, contract := range contracts {
		testutils.ValidateModelContract(t, contract.handlerInput, contract.sdkInput)
	}
}
