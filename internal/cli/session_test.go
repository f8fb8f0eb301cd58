package cli

import (
	"testing"
	"tradedesk/internal/common"
	"tradedesk/internal/controller/models"
	"tradedesk/pkg/controller"

	"github.com/stretchr/testify/require"
)

func TestResolveOrgId(t *testing.T) {
	session := &controller.ValidateSessionV1OutputData{
		Orgs: []models.Org{
			{Id: "solar-1", App: common.AppSolar},
			{Id: "vc-1", App: common.AppVendorCredit},
			{Id: "vc-2", App: common.AppVendorCredit},
		},
	}

	orgId, err := ResolveOrgId("explicit", session, common.AppSolar)
	require.NoError(t, err)
	require.Equal(t, "explicit", orgId)

	orgId, err = ResolveOrgId("", session, common.AppSolar)
	require.NoError(t, err)
	require.Equal(t, "solar-1", orgId)

	_, err = ResolveOrgId("", session, common.AppVendorCredit)
	require.ErrorIs(t, err, ErrorInvalidInput)
	require.Contains(t, err.Error(), "--org-id")

	_, err = ResolveOrgId("", session, common.AppFilters)
	require.ErrorIs(t, err, ErrorInvalidInput)
}
