package controller

import (
	"net/http"
	"strings"
	"tradedesk/internal/audit"
	"tradedesk/internal/common"
	"tradedesk/internal/controller/models"
	"tradedesk/internal/reminders"
	"tradedesk/internal/solar"

	"github.com/gorilla/mux"
)

func registerReminderRoutes(opts RouteRegistrationOpts) {
	app := common.AppSolar
	v1 := getOrgRouter(opts, "/v1/solar/orgs/{orgId}/reminders", orgAutherOpts{App: &app, ServiceLogs: opts.ServiceLogs})

	v1.HandleFunc("/policies", handleListReminderPoliciesV1).Methods(http.MethodGet)
	v1.HandleFunc("/policies", handleCreateReminderPolicyV1).Methods(http.MethodPost)
	v1.HandleFunc("/policies/{policyId}", handleUpdateReminderPolicyV1).Methods(http.MethodPatch)
	v1.HandleFunc("/policies/{policyId}", handleDeleteReminderPolicyV1).Methods(http.MethodDelete)
	v1.HandleFunc("/logs", handleListReminderLogsV1).Methods(http.MethodGet)
}

func canManageReminders(role string) bool {
	return solar.Role(role).CanManageReminderPolicies()
}

func handleListReminderPoliciesV1(w http.ResponseWriter, r *http.Request) {
	policies, err := models.ListReminderPoliciesV1(r.Context(), models.ListReminderPoliciesV1Opts{
		Db:    dbInstance,
		OrgId: getOrgAccess(r).Org.Id,
	})
	if err != nil {
		sendModelError(w, r, "failed to list reminder policies", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", policies)
}

type handleReminderPolicyV1Input struct {
	Name        *string                `json:"name"`
	TriggerType *reminders.TriggerType `json:"triggerType"`
	Channel     *reminders.Channel     `json:"channel"`
	OffsetHours *int                   `json:"offsetHours"`
	Enabled     *bool                  `json:"enabled"`
}

// applyTo overlays the fields present in the request onto policy
func (i handleReminderPolicyV1Input) applyTo(policy reminders.Policy) reminders.Policy {
	if i.Name != nil {
		policy.Name = strings.TrimSpace(*i.Name)
	}
	if i.TriggerType != nil {
		policy.TriggerType = *i.TriggerType
	}
	if i.Channel != nil {
		policy.Channel = *i.Channel
	}
	if i.OffsetHours != nil {
		policy.OffsetHours = *i.OffsetHours
	}
	if i.Enabled != nil {
		policy.Enabled = *i.Enabled
	}
	return policy
}

type handleCreateReminderPolicyV1Output struct {
	Id string `json:"id"`
}

func handleCreateReminderPolicyV1(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, canManageReminders) {
		return
	}
	var input handleReminderPolicyV1Input
	if err := readJsonBody(r, &input); err != nil {
		sendBodyError(w, r, err)
		return
	}
	policy := input.applyTo(reminders.Policy{
		OrgId:   getOrgAccess(r).Org.Id,
		Channel: reminders.ChannelEmail,
		Enabled: true,
	})
	policyId, err := models.CreateReminderPolicyV1(r.Context(), models.CreateReminderPolicyV1Opts{
		Db:     dbInstance,
		Policy: policy,
	})
	if err != nil {
		sendModelError(w, r, "failed to create reminder policy", err)
		return
	}
	auditRequest(r, audit.LogEntry{
		Verb:         audit.Create,
		ResourceId:   policyId,
		ResourceType: audit.ReminderPolicyResource,
		Data:         map[string]any{"triggerType": policy.TriggerType, "offsetHours": policy.OffsetHours},
	})
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", handleCreateReminderPolicyV1Output{Id: policyId})
}

func handleUpdateReminderPolicyV1(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, canManageReminders) {
		return
	}
	var input handleReminderPolicyV1Input
	if err := readJsonBody(r, &input); err != nil {
		sendBodyError(w, r, err)
		return
	}
	existing, err := models.GetReminderPolicyV1(r.Context(), models.GetReminderPolicyV1Opts{
		Db:    dbInstance,
		OrgId: getOrgAccess(r).Org.Id,
		Id:    mux.Vars(r)["policyId"],
	})
	if err != nil {
		sendModelError(w, r, "failed to retrieve reminder policy", err)
		return
	}
	policy := input.applyTo(*existing)
	if err := models.UpdateReminderPolicyV1(r.Context(), models.UpdateReminderPolicyV1Opts{
		Db:     dbInstance,
		Policy: policy,
	}); err != nil {
		sendModelError(w, r, "failed to update reminder policy", err)
		return
	}
	verb := audit.Update
	if input.Enabled != nil && *input.Enabled != existing.Enabled {
		verb = audit.Disable
		if *input.Enabled {
			verb = audit.Enable
		}
	}
	auditRequest(r, audit.LogEntry{
		Verb:         verb,
		ResourceId:   policy.Id,
		ResourceType: audit.ReminderPolicyResource,
	})
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", policy)
}

func handleDeleteReminderPolicyV1(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, canManageReminders) {
		return
	}
	policyId := mux.Vars(r)["policyId"]
	if err := models.DeleteReminderPolicyV1(r.Context(), models.DeleteReminderPolicyV1Opts{
		Db:    dbInstance,
		OrgId: getOrgAccess(r).Org.Id,
		Id:    policyId,
	}); err != nil {
		sendModelError(w, r, "failed to delete reminder policy", err)
		return
	}
	auditRequest(r, audit.LogEntry{
		Verb:         audit.Delete,
		ResourceId:   policyId,
		ResourceType: audit.ReminderPolicyResource,
	})
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok")
}

func handleListReminderLogsV1(w http.ResponseWriter, r *http.Request) {
	logs, err := models.ListReminderLogsV1(r.Context(), models.ListReminderLogsV1Opts{
		Db:    dbInstance,
		OrgId: getOrgAccess(r).Org.Id,
		Limit: queryInt(r, "limit", 50),
	})
	if err != nil {
		sendModelError(w, r, "failed to list reminder logs", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", logs)
}
