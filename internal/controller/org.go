package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
	"tradedesk/internal/audit"
	"tradedesk/internal/common"
	"tradedesk/internal/controller/models"
	"tradedesk/internal/email"
	"tradedesk/internal/validate"

	"github.com/gorilla/mux"
)

func registerOrgRoutes(opts RouteRegistrationOpts) {
	requiresAuth := getRouteAuther(opts.ServiceLogs)

	v1 := opts.Router.PathPrefix("/v1/orgs").Subrouter()
	v1.Handle("", requiresAuth(http.HandlerFunc(handleCreateOrgV1))).Methods(http.MethodPost)
	v1.Handle("", requiresAuth(http.HandlerFunc(handleListOrgsV1))).Methods(http.MethodGet)

	org := getOrgRouter(opts, "/v1/orgs/{orgId}", orgAutherOpts{ServiceLogs: opts.ServiceLogs})
	org.HandleFunc("", handleGetOrgV1).Methods(http.MethodGet)
	org.HandleFunc("", handleUpdateOrgV1).Methods(http.MethodPatch)
	org.HandleFunc("/members", handleListMembersV1).Methods(http.MethodGet)
	org.HandleFunc("/members", handleAddMemberV1).Methods(http.MethodPost)
	org.HandleFunc("/members/{userId}", handleUpdateMemberV1).Methods(http.MethodPatch)
	org.HandleFunc("/members/{userId}", handleDeleteMemberV1).Methods(http.MethodDelete)
	org.HandleFunc("/invitations", handleListInvitationsV1).Methods(http.MethodGet)
	org.HandleFunc("/invitations", handleCreateInvitationV1).Methods(http.MethodPost)

	invitations := opts.Router.PathPrefix("/v1/invitations/{token}").Subrouter()
	invitations.HandleFunc("", handleGetInvitationV1).Methods(http.MethodGet)
	invitations.HandleFunc("/accept", handleAcceptInvitationV1).Methods(http.MethodPost)
}

// getOrgRouter returns a subrouter whose routes require a session and a
// membership of the org in the `{orgId}` path variable
func getOrgRouter(opts RouteRegistrationOpts, pathPrefix string, autherOpts orgAutherOpts) *mux.Router {
	router := opts.Router.PathPrefix(pathPrefix).Subrouter()
	router.Use(getRouteAuther(opts.ServiceLogs))
	router.Use(getOrgAuther(autherOpts))
	return router
}

type handleCreateOrgV1Input struct {
	// App is the product the org is created for, one of solar or vendorcredit
	App common.App `json:"app"`

	// Name is the display name of the org
	Name string `json:"name"`

	// Timezone is an IANA timezone name
	Timezone string `json:"timezone"`
}

type handleCreateOrgV1Output struct {
	Id string `json:"id"`
}

// handleCreateOrgV1 creates a new org and assigns the caller the most
// privileged role of the org's app
func handleCreateOrgV1(w http.ResponseWriter, r *http.Request) {
	log := common.GetRequestLogger(r)
	identity := getIdentity(r)
	var input handleCreateOrgV1Input
	if err := readJsonBody(r, &input); err != nil {
		sendBodyError(w, r, err)
		return
	}
	log(common.LogLevelDebug, "successfully parsed body into expected input class")
	if input.Timezone == "" {
		input.Timezone = "UTC"
	}

	orgId, err := models.CreateOrgV1(r.Context(), models.CreateOrgV1Opts{
		Db:       dbInstance,
		App:      input.App,
		Name:     input.Name,
		Timezone: input.Timezone,
		UserId:   identity.UserId,
	})
	if err != nil {
		sendModelError(w, r, "failed to create org", err)
		return
	}
	log(common.LogLevelInfo, fmt.Sprintf("user[%s] created %s org[%s]", identity.UserId, input.App, orgId))
	auditRequest(r, audit.LogEntry{
		OrgId:        orgId,
		Verb:         audit.Create,
		ResourceId:   orgId,
		ResourceType: audit.OrgResource,
		Data:         map[string]any{"app": input.App, "name": input.Name},
	})
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", handleCreateOrgV1Output{Id: orgId})
}

func handleListOrgsV1(w http.ResponseWriter, r *http.Request) {
	identity := getIdentity(r)
	listOpts := models.ListUserOrgsV1Opts{Db: dbInstance, UserId: identity.UserId}
	if app := queryString(r, "app"); app != nil {
		appFilter := common.App(*app)
		if !appFilter.IsValid() {
			common.SendHttpFailResponse(w, r, http.StatusBadRequest, fmt.Sprintf("unknown app[%s]", *app), ErrorInvalidInput)
			return
		}
		listOpts.App = &appFilter
	}
	orgs, err := models.ListUserOrgsV1(r.Context(), listOpts)
	if err != nil {
		sendModelError(w, r, "failed to list orgs", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", orgs)
}

type handleGetOrgV1Output struct {
	models.Org
	SeatLimit        int  `json:"seatLimit"`
	HasBillingAccess bool `json:"hasBillingAccess"`
}

func handleGetOrgV1(w http.ResponseWriter, r *http.Request) {
	access := getOrgAccess(r)
	org := access.Org
	role := access.Role()
	org.Role = &role
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", handleGetOrgV1Output{
		Org:              org,
		SeatLimit:        org.SeatLimit(),
		HasBillingAccess: org.HasBillingAccess(),
	})
}

type handleUpdateOrgV1Input struct {
	Name     string `json:"name"`
	Timezone string `json:"timezone"`
}

func handleUpdateOrgV1(w http.ResponseWriter, r *http.Request) {
	access := getOrgAccess(r)
	if !requireRole(w, r, func(role string) bool { return models.CanManageMembers(access.Org.App, role) }) {
		return
	}
	var input handleUpdateOrgV1Input
	if err := readJsonBody(r, &input); err != nil {
		sendBodyError(w, r, err)
		return
	}
	if err := models.UpdateOrgV1(r.Context(), models.UpdateOrgV1Opts{
		Db:       dbInstance,
		Id:       access.Org.Id,
		Name:     input.Name,
		Timezone: input.Timezone,
	}); err != nil {
		sendModelError(w, r, "failed to update org", err)
		return
	}
	auditRequest(r, audit.LogEntry{
		Verb:         audit.Update,
		ResourceId:   access.Org.Id,
		ResourceType: audit.OrgResource,
		Data:         map[string]any{"name": input.Name, "timezone": input.Timezone},
	})
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok")
}

func handleListMembersV1(w http.ResponseWriter, r *http.Request) {
	memberships, err := models.ListMembershipsV1(r.Context(), models.ListMembershipsV1Opts{
		Db:    dbInstance,
		OrgId: getOrgAccess(r).Org.Id,
	})
	if err != nil {
		sendModelError(w, r, "failed to list members", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", memberships)
}

type handleAddMemberV1Input struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (i handleAddMemberV1Input) validate(app common.App) error {
	errs := []error{}
	if err := validate.Email(models.NormalizeEmail(i.Email)); err != nil {
		errs = append(errs, fmt.Errorf("email: %w", err))
	}
	if !models.IsRoleValidForApp(app, i.Role) {
		errs = append(errs, fmt.Errorf("role[%s] is not valid for app[%s]", i.Role, app))
	}
	return errors.Join(errs...)
}

// checkSeat refuses a new member when the org's plan has no seat left;
// only vendorcredit plans carry a seat limit
func checkSeat(ctx context.Context, org models.Org) error {
	seatLimit := org.SeatLimit()
	count, err := models.CountMembershipsV1(ctx, models.CountMembershipsV1Opts{Db: dbInstance, OrgId: org.Id})
	if err != nil {
		return err
	}
	if count >= seatLimit {
		return fmt.Errorf("org[%s] has %v of %v seats in use: %w", org.Id, count, seatLimit, ErrorSeatLimitReached)
	}
	return nil
}

// handleAddMemberV1 adds the user with the given email to the org,
// creating a placeholder user when needed. Adding an existing member
// only changes their role
func handleAddMemberV1(w http.ResponseWriter, r *http.Request) {
	access := getOrgAccess(r)
	if !requireRole(w, r, func(role string) bool { return models.CanManageMembers(access.Org.App, role) }) {
		return
	}
	var input handleAddMemberV1Input
	if err := readJsonBody(r, &input); err != nil {
		sendBodyError(w, r, err)
		return
	}
	if err := input.validate(access.Org.App); err != nil {
		common.SendHttpFailResponse(w, r, http.StatusBadRequest, fmt.Sprintf("failed to validate member: %s", err), ErrorInvalidInput)
		return
	}

	user, err := models.UpsertUserByEmailV1(r.Context(), models.UpsertUserByEmailV1Opts{Db: dbInstance, Email: input.Email})
	if err != nil {
		sendModelError(w, r, "failed to resolve user", err)
		return
	}
	_, err = models.GetMembershipV1(r.Context(), models.GetMembershipV1Opts{Db: dbInstance, OrgId: access.Org.Id, UserId: user.Id})
	switch {
	case errors.Is(err, models.ErrorNotFound):
		if err := checkSeat(r.Context(), access.Org); err != nil {
			if errors.Is(err, ErrorSeatLimitReached) {
				common.SendHttpFailResponse(w, r, http.StatusForbidden, "seat limit reached for current plan", ErrorSeatLimitReached)
				return
			}
			sendModelError(w, r, "failed to count members", err)
			return
		}
	case err != nil:
		sendModelError(w, r, "failed to retrieve membership", err)
		return
	}

	if err := models.UpsertMembershipV1(r.Context(), models.UpsertMembershipV1Opts{
		Db:     dbInstance,
		OrgId:  access.Org.Id,
		UserId: user.Id,
		Role:   input.Role,
	}); err != nil {
		sendModelError(w, r, "failed to add member", err)
		return
	}
	auditRequest(r, audit.LogEntry{
		Verb:         audit.Create,
		ResourceId:   user.Id,
		ResourceType: audit.MembershipResource,
		Data:         map[string]any{"email": user.Email, "role": input.Role},
	})
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", user)
}

type handleUpdateMemberV1Input struct {
	Role string `json:"role"`
}

func handleUpdateMemberV1(w http.ResponseWriter, r *http.Request) {
	access := getOrgAccess(r)
	if !requireRole(w, r, func(role string) bool { return models.CanManageMembers(access.Org.App, role) }) {
		return
	}
	userId := mux.Vars(r)["userId"]
	var input handleUpdateMemberV1Input
	if err := readJsonBody(r, &input); err != nil {
		sendBodyError(w, r, err)
		return
	}
	if !models.IsRoleValidForApp(access.Org.App, input.Role) {
		common.SendHttpFailResponse(w, r, http.StatusBadRequest, fmt.Sprintf("role[%s] is not valid for app[%s]", input.Role, access.Org.App), ErrorInvalidInput)
		return
	}
	if _, err := models.GetMembershipV1(r.Context(), models.GetMembershipV1Opts{Db: dbInstance, OrgId: access.Org.Id, UserId: userId}); err != nil {
		sendModelError(w, r, "failed to retrieve membership", err)
		return
	}
	if err := models.UpsertMembershipV1(r.Context(), models.UpsertMembershipV1Opts{
		Db:     dbInstance,
		OrgId:  access.Org.Id,
		UserId: userId,
		Role:   input.Role,
	}); err != nil {
		sendModelError(w, r, "failed to update member", err)
		return
	}
	auditRequest(r, audit.LogEntry{
		Verb:         audit.Update,
		ResourceId:   userId,
		ResourceType: audit.MembershipResource,
		Data:         map[string]any{"role": input.Role},
	})
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok")
}

func handleDeleteMemberV1(w http.ResponseWriter, r *http.Request) {
	access := getOrgAccess(r)
	if !requireRole(w, r, func(role string) bool { return models.CanManageMembers(access.Org.App, role) }) {
		return
	}
	userId := mux.Vars(r)["userId"]
	if userId == getIdentity(r).UserId {
		common.SendHttpFailResponse(w, r, http.StatusBadRequest, "members cannot remove themselves", ErrorInvalidInput)
		return
	}
	if err := models.DeleteMembershipV1(r.Context(), models.DeleteMembershipV1Opts{
		Db:     dbInstance,
		OrgId:  access.Org.Id,
		UserId: userId,
	}); err != nil {
		sendModelError(w, r, "failed to remove member", err)
		return
	}
	auditRequest(r, audit.LogEntry{
		Verb:         audit.Delete,
		ResourceId:   userId,
		ResourceType: audit.MembershipResource,
	})
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok")
}

func handleListInvitationsV1(w http.ResponseWriter, r *http.Request) {
	invitations, err := models.ListInvitationsV1(r.Context(), models.ListInvitationsV1Opts{
		Db:    dbInstance,
		OrgId: getOrgAccess(r).Org.Id,
	})
	if err != nil {
		sendModelError(w, r, "failed to list invitations", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", invitations)
}

type handleCreateInvitationV1Output struct {
	Id        string    `json:"id"`
	ExpiresAt time.Time `json:"expiresAt"`
	Link      string    `json:"link"`
}

func getInvitationLink(token string) string {
	if publicServerUrl == nil {
		return "/invite/" + token
	}
	return publicServerUrl.JoinPath("invite", token).String()
}

// handleCreateInvitationV1 creates an invitation and emails its link to
// the invitee
func handleCreateInvitationV1(w http.ResponseWriter, r *http.Request) {
	log := common.GetRequestLogger(r)
	access := getOrgAccess(r)
	if !requireRole(w, r, func(role string) bool { return models.CanManageMembers(access.Org.App, role) }) {
		return
	}
	var input handleAddMemberV1Input
	if err := readJsonBody(r, &input); err != nil {
		sendBodyError(w, r, err)
		return
	}
	if err := input.validate(access.Org.App); err != nil {
		common.SendHttpFailResponse(w, r, http.StatusBadRequest, fmt.Sprintf("failed to validate invitation: %s", err), ErrorInvalidInput)
		return
	}
	if err := checkSeat(r.Context(), access.Org); err != nil {
		if errors.Is(err, ErrorSeatLimitReached) {
			common.SendHttpFailResponse(w, r, http.StatusForbidden, "seat limit reached for current plan", ErrorSeatLimitReached)
			return
		}
		sendModelError(w, r, "failed to count members", err)
		return
	}

	invitation, err := models.CreateInvitationV1(r.Context(), models.CreateInvitationV1Opts{
		Db:        dbInstance,
		OrgId:     access.Org.Id,
		Email:     input.Email,
		Role:      input.Role,
		CreatedBy: getIdentity(r).UserId,
		Now:       nowUtc(),
	})
	if err != nil {
		sendModelError(w, r, "failed to create invitation", err)
		return
	}
	link := getInvitationLink(invitation.Token)
	if err := emailSender.Send(r.Context(), email.Outgoing{
		To:    []email.User{{Address: invitation.Email}},
		Title: fmt.Sprintf("You're invited to %s", access.Org.Name),
		Body:  fmt.Sprintf("You were invited to join %s as %s. Accept invite: %s", access.Org.Name, invitation.Role, link),
	}); err != nil {
		log(common.LogLevelWarn, fmt.Sprintf("failed to send invitation[%s]: %s", invitation.Id, err))
	}
	auditRequest(r, audit.LogEntry{
		Verb:         audit.Create,
		ResourceId:   invitation.Id,
		ResourceType: audit.InvitationResource,
		Data:         map[string]any{"email": invitation.Email, "role": invitation.Role},
	})
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", handleCreateInvitationV1Output{
		Id:        invitation.Id,
		ExpiresAt: invitation.ExpiresAt,
		Link:      link,
	})
}

type handleGetInvitationV1Output struct {
	OrgName   string `json:"orgName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	IsExpired bool   `json:"isExpired"`
	Accepted  bool   `json:"accepted"`
}

func handleGetInvitationV1(w http.ResponseWriter, r *http.Request) {
	invitation, err := models.GetInvitationByTokenV1(r.Context(), models.GetInvitationByTokenV1Opts{
		Db:    dbInstance,
		Token: mux.Vars(r)["token"],
	})
	if err != nil {
		sendModelError(w, r, "failed to retrieve invitation", err)
		return
	}
	org, err := models.GetOrgV1(r.Context(), models.GetOrgV1Opts{Db: dbInstance, Id: invitation.OrgId})
	if err != nil {
		sendModelError(w, r, "failed to retrieve org", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", handleGetInvitationV1Output{
		OrgName:   org.Name,
		Email:     invitation.Email,
		Role:      invitation.Role,
		IsExpired: invitation.IsExpired(nowUtc()),
		Accepted:  invitation.AcceptedAt != nil,
	})
}

type handleAcceptInvitationV1Input struct {
	Name     *string `json:"name"`
	Password string  `json:"password"`
}

type handleAcceptInvitationV1Output struct {
	OrgId  string `json:"orgId"`
	UserId string `json:"userId"`
	Email  string `json:"email"`
}

func handleAcceptInvitationV1(w http.ResponseWriter, r *http.Request) {
	log := common.GetRequestLogger(r)
	var input handleAcceptInvitationV1Input
	if err := readJsonBody(r, &input); err != nil {
		sendBodyError(w, r, err)
		return
	}
	if err := validate.Password(input.Password); err != nil {
		common.SendHttpFailResponse(w, r, http.StatusBadRequest, fmt.Sprintf("failed to validate password: %s", err), ErrorInvalidInput)
		return
	}
	output, err := models.AcceptInvitationV1(r.Context(), models.AcceptInvitationV1Opts{
		Db:       dbInstance,
		Token:    mux.Vars(r)["token"],
		Name:     input.Name,
		Password: input.Password,
		Now:      nowUtc(),
	})
	if err != nil {
		sendModelError(w, r, "failed to accept invitation", err)
		return
	}
	log(common.LogLevelInfo, fmt.Sprintf("user[%s] joined org[%s]", output.UserId, output.OrgId))
	auditRequest(r, audit.LogEntry{
		EntityId:     output.UserId,
		EntityType:   audit.UserEntity,
		OrgId:        output.OrgId,
		Verb:         audit.Accept,
		ResourceType: audit.InvitationResource,
	})
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", handleAcceptInvitationV1Output{
		OrgId:  output.OrgId,
		UserId: output.UserId,
		Email:  output.Email,
	})
}
