package vendorcredit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	allowed := [][2]CaseStatus{
		{CaseStatusNew, CaseStatusReadyToSubmit},
		{CaseStatusReadyToSubmit, CaseStatusSubmitted},
		{CaseStatusSubmitted, CaseStatusDenied},
		{CaseStatusDenied, CaseStatusNeedsInfo},
		{CaseStatusApproved, CaseStatusCreditReceived},
		{CaseStatusClosed, CaseStatusClosed},
	}
	for _, pair := range allowed {
		require.True(t, CanTransition(pair[0], pair[1]), "%s -> %s", pair[0], pair[1])
	}
	blocked := [][2]CaseStatus{
		{CaseStatusNew, CaseStatusSubmitted},
		{CaseStatusClosed, CaseStatusNew},
		{CaseStatusCreditReceived, CaseStatusApproved},
		{CaseStatusNeedsInfo, CaseStatusSubmitted},
	}
	for _, pair := range blocked {
		require.False(t, CanTransition(pair[0], pair[1]), "%s -> %s", pair[0], pair[1])
	}
}

func TestOpenStatuses(t *testing.T) {
	open := OpenStatuses()
	require.Len(t, open, 6)
	require.NotContains(t, open, CaseStatusCreditReceived)
	require.NotContains(t, open, CaseStatusClosed)

	open[0] = CaseStatusClosed
	require.True(t, CaseStatusNew.IsOpen(), "OpenStatuses must return a copy")
}

func TestCheckReadiness(t *testing.T) {
	unitCost := 10.0
	serial := "SN-1"
	result := CheckReadiness(ReadinessInput{
		RequiredFieldKeys: []string{"serialNumber", "sku", "unitCost", "expectedCredit", "receipt", "photo", "unknown"},
		Case: Case{
			SerialNumber: &serial,
			UnitCost:     &unitCost,
			Qty:          1,
		},
		EvidenceTypes:            []EvidenceType{EvidenceTypePhoto},
		RequiredChecklistPending: 0,
	})
	require.False(t, result.Ok)
	require.Equal(t, []string{"sku", "expectedCredit"}, result.MissingFields)
	require.Equal(t, []string{"RECEIPT"}, result.MissingEvidence)

	sku := "ABC"
	expected := 12.5
	reason := "dead on arrival"
	result = CheckReadiness(ReadinessInput{
		RequiredFieldKeys: []string{"serialNumber", "sku", "qty", "expectedCredit", "failureDescription", "receipt"},
		Case: Case{
			SerialNumber:         &serial,
			Sku:                  &sku,
			Qty:                  2,
			ExpectedCredit:       &expected,
			CustomerReturnReason: &reason,
		},
		EvidenceTypes: []EvidenceType{EvidenceTypeReceipt},
	})
	require.True(t, result.Ok)
	require.Empty(t, result.MissingFields)
	require.Empty(t, result.MissingEvidence)

	result = CheckReadiness(ReadinessInput{RequiredChecklistPending: 2})
	require.False(t, result.Ok)
	require.Equal(t, 2, result.MissingChecklistSteps)
}

func TestPendingRequiredSteps(t *testing.T) {
	done := time.Now()
	items := []ChecklistItem{
		{Required: true},
		{Required: true, CompletedAt: &done},
		{Required: false},
	}
	require.Equal(t, 1, PendingRequiredSteps(items))
}

func TestRolesAndPlans(t *testing.T) {
	require.True(t, RoleAdmin.CanManageBilling())
	require.False(t, RoleStaff.CanManageBilling())
	require.True(t, RoleStaff.CanManageTemplates())
	require.True(t, RoleStaff.CanEditCase())
	require.False(t, RoleViewer.CanEditCase())

	require.Equal(t, 3, PlanStarter.SeatLimit())
	require.Equal(t, 15, PlanPro.SeatLimit())
	require.Equal(t, UnlimitedSeats, PlanBusiness.SeatLimit())
	require.Equal(t, 0, Plan("FREE").SeatLimit())
	require.True(t, PlanStarter.HasSeatFor(2))
	require.False(t, PlanStarter.HasSeatFor(3))

	require.True(t, HasBillingAccess("Active"))
	require.True(t, HasBillingAccess("TRIALING"))
	require.False(t, HasBillingAccess("past_due"))
	require.False(t, HasBillingAccess(""))
}
