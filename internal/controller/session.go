package controller

import (
	"errors"
	"fmt"
	"net/http"
	"time"
	"tradedesk/internal/audit"
	"tradedesk/internal/auth"
	"tradedesk/internal/common"
	"tradedesk/internal/controller/models"
	"tradedesk/internal/validate"

	"github.com/google/uuid"
)

func registerSessionRoutes(opts RouteRegistrationOpts) {
	requireAuth := getRouteAuther(opts.ServiceLogs)

	v1 := opts.Router.PathPrefix("/v1/session").Subrouter()
	v1.HandleFunc("", handleCreateSessionV1).Methods(http.MethodPost)
	v1.Handle("", requireAuth(http.HandlerFunc(handleGetSessionV1))).Methods(http.MethodGet)
	v1.Handle("", requireAuth(http.HandlerFunc(handleDeleteSessionV1))).Methods(http.MethodDelete)

	users := opts.Router.PathPrefix("/v1/users").Subrouter()
	users.HandleFunc("", handleCreateUserV1).Methods(http.MethodPost)
}

type handleCreateSessionV1Input struct {
	// Email is the user's email address
	Email string `json:"email"`

	// Password is the user's password
	Password string `json:"password"`
}

type handleCreateSessionV1Output struct {
	SessionId    string      `json:"sessionId"`
	SessionToken string      `json:"sessionToken"`
	ExpiresAt    time.Time   `json:"expiresAt"`
	User         models.User `json:"user"`
}

// handleCreateSessionV1 exchanges an email and password for a signed
// session token
func handleCreateSessionV1(w http.ResponseWriter, r *http.Request) {
	log := common.GetRequestLogger(r)
	var input handleCreateSessionV1Input
	if err := readJsonBody(r, &input); err != nil {
		sendBodyError(w, r, err)
		return
	}
	log(common.LogLevelDebug, "successfully parsed body into expected input class")

	if input.Email == "" || input.Password == "" {
		common.SendHttpFailResponse(w, r, http.StatusBadRequest, "failed to receive an email and password", ErrorInvalidInput)
		return
	}

	user, err := models.ValidateUserCredentialsV1(r.Context(), models.ValidateUserCredentialsV1Opts{
		Db:       dbInstance,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		if errors.Is(err, models.ErrorCredentialsAuthenticationFailed) {
			auditRequest(r, audit.LogEntry{
				EntityId:     models.NormalizeEmail(input.Email),
				EntityType:   audit.UserEntity,
				Verb:         audit.Login,
				ResourceType: audit.SessionResource,
				Status:       audit.Failed,
			})
		}
		sendModelError(w, r, "failed to create session", err)
		return
	}

	sessionId := uuid.NewString()
	sessionToken, err := auth.GenerateJwt(auth.GenerateJwtOpts{
		Email:     user.Email,
		Secret:    sessionSigningToken,
		SessionId: sessionId,
		Ttl:       sessionTtl,
		UserId:    user.Id,
	})
	if err != nil {
		common.SendHttpFailResponse(w, r, http.StatusInternalServerError, "failed to sign session token", ErrorGeneric)
		return
	}
	if err := cacheInstance.Set(auth.SessionKey(user.Id, sessionId), user.Email, sessionTtl); err != nil {
		log(common.LogLevelError, fmt.Sprintf("failed to store session: %s", err))
		common.SendHttpFailResponse(w, r, http.StatusInternalServerError, "failed to store session", ErrorGeneric)
		return
	}
	log(common.LogLevelDebug, fmt.Sprintf("issued session[%s] to user[%s]", sessionId, user.Id))
	auditRequest(r, audit.LogEntry{
		EntityId:     user.Id,
		EntityType:   audit.UserEntity,
		Verb:         audit.Login,
		ResourceId:   sessionId,
		ResourceType: audit.SessionResource,
	})

	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", handleCreateSessionV1Output{
		SessionId:    sessionId,
		SessionToken: sessionToken,
		ExpiresAt:    nowUtc().Add(sessionTtl),
		User:         *user,
	})
}

type handleGetSessionV1Output struct {
	SessionId string       `json:"sessionId"`
	User      models.User  `json:"user"`
	Orgs      []models.Org `json:"orgs"`
}

func handleGetSessionV1(w http.ResponseWriter, r *http.Request) {
	identity := getIdentity(r)
	user, err := models.GetUserV1(r.Context(), models.GetUserV1Opts{Db: dbInstance, Id: &identity.UserId})
	if err != nil {
		sendModelError(w, r, "failed to retrieve user", err)
		return
	}
	orgs, err := models.ListUserOrgsV1(r.Context(), models.ListUserOrgsV1Opts{Db: dbInstance, UserId: user.Id})
	if err != nil {
		sendModelError(w, r, "failed to retrieve orgs", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", handleGetSessionV1Output{
		SessionId: identity.SessionId,
		User:      *user,
		Orgs:      orgs,
	})
}

type handleDeleteSessionV1Output struct {
	SessionId    string `json:"sessionId"`
	IsSuccessful bool   `json:"isSuccessful"`
}

func handleDeleteSessionV1(w http.ResponseWriter, r *http.Request) {
	log := common.GetRequestLogger(r)
	identity := getIdentity(r)
	if err := cacheInstance.Del(auth.SessionKey(identity.UserId, identity.SessionId)); err != nil {
		log(common.LogLevelWarn, fmt.Sprintf("failed to delete session: %s", err))
		common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", handleDeleteSessionV1Output{
			SessionId:    "",
			IsSuccessful: false,
		})
		return
	}
	log(common.LogLevelDebug, fmt.Sprintf("session[%s] has been deleted", identity.SessionId))
	auditRequest(r, audit.LogEntry{
		Verb:         audit.Logout,
		ResourceId:   identity.SessionId,
		ResourceType: audit.SessionResource,
	})
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", handleDeleteSessionV1Output{
		SessionId:    identity.SessionId,
		IsSuccessful: true,
	})
}

type handleCreateUserV1Input struct {
	Email    string  `json:"email"`
	Name     *string `json:"name"`
	Password string  `json:"password"`
}

type handleCreateUserV1Output struct {
	Id    string `json:"id"`
	Email string `json:"email"`
}

// handleCreateUserV1 registers a new account. Emails held by placeholder
// users must be claimed through their invitation instead
func handleCreateUserV1(w http.ResponseWriter, r *http.Request) {
	var input handleCreateUserV1Input
	if err := readJsonBody(r, &input); err != nil {
		sendBodyError(w, r, err)
		return
	}
	email := models.NormalizeEmail(input.Email)
	if err := errors.Join(validate.Email(email), validate.Password(input.Password)); err != nil {
		common.SendHttpFailResponse(w, r, http.StatusBadRequest, fmt.Sprintf("failed to validate user: %s", err), ErrorInvalidInput)
		return
	}
	userId, err := models.CreateUserV1(r.Context(), models.CreateUserV1Opts{
		Db:       dbInstance,
		Email:    email,
		Name:     input.Name,
		Password: input.Password,
	})
	if err != nil {
		if errors.Is(err, models.ErrorDuplicateEntry) {
			common.SendHttpFailResponse(w, r, http.StatusConflict, "failed to create user", ErrorUserExists)
			return
		}
		sendModelError(w, r, "failed to create user", err)
		return
	}
	auditRequest(r, audit.LogEntry{
		EntityId:     userId,
		EntityType:   audit.UserEntity,
		Verb:         audit.Create,
		ResourceId:   userId,
		ResourceType: audit.UserResource,
	})
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", handleCreateUserV1Output{
		Id:    userId,
		Email: email,
	})
}
