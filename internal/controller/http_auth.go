package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"tradedesk/internal/auth"
	"tradedesk/internal/cache"
	"tradedesk/internal/common"
	"tradedesk/internal/controller/models"

	"github.com/gorilla/mux"
)

const userAuthRequestContext common.HttpContextKey = "controller-auth"
const orgAuthRequestContext common.HttpContextKey = "org-auth"

type userIdentity struct {
	// SessionId is the id of the cached session the bearer token points to
	SessionId string `json:"sessionId"`

	// SourceIp is the IP address that the request came from
	SourceIp string `json:"sourceIp"`

	// UserAgent is the user agent of the request
	UserAgent string `json:"userAgent"`

	// UserId is the ID of the current caller
	UserId string `json:"userId"`

	// Username is the email of the current caller
	Username string `json:"username"`
}

// orgAccess is what the org auther resolved for the `{orgId}` path
// variable of the current request
type orgAccess struct {
	Org        models.Org
	Membership models.Membership
}

func (o orgAccess) Role() string {
	return o.Membership.Role
}

func getIdentity(r *http.Request) userIdentity {
	identity, _ := r.Context().Value(userAuthRequestContext).(userIdentity)
	return identity
}

func getOrgAccess(r *http.Request) orgAccess {
	access, _ := r.Context().Value(orgAuthRequestContext).(orgAccess)
	return access
}

func contextWithOrgAccess(r *http.Request, access orgAccess) context.Context {
	return context.WithValue(r.Context(), orgAuthRequestContext, access)
}

func getBearerToken(r *http.Request) (string, bool) {
	authorizationHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authorizationHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authorizationHeader, "Bearer "))
	return token, token != ""
}

// getRouteAuther validates the bearer JWT and requires its session to
// still be present in the cache so that logouts take effect before the
// token expires
func getRouteAuther(serviceLogs chan<- common.ServiceLog) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := common.GetRequestLogger(r)
			serviceLogs <- common.ServiceLogf(common.LogLevelTrace, "auth middleware is executing")
			bearerToken, ok := getBearerToken(r)
			if !ok {
				common.SendHttpFailResponse(w, r, http.StatusUnauthorized, "failed to receive an authorization header", ErrorAuthRequired)
				return
			}
			claims, err := auth.ValidateJWT(sessionSigningToken, bearerToken)
			if err != nil {
				log(common.LogLevelDebug, fmt.Sprintf("failed to validate session token: %s", err))
				common.SendHttpFailResponse(w, r, http.StatusUnauthorized, "failed to validate session", ErrorAuthRequired)
				return
			}
			if _, err := cacheInstance.Get(auth.SessionKey(claims.UserId, claims.GetSessionId())); err != nil {
				if !errors.Is(err, cache.ErrorKeyNotFound) {
					log(common.LogLevelError, fmt.Sprintf("failed to retrieve session: %s", err))
				}
				common.SendHttpFailResponse(w, r, http.StatusUnauthorized, "failed to retrieve session", ErrorAuthRequired)
				return
			}
			log(common.LogLevelInfo, fmt.Sprintf("processing request from user[%s]", claims.UserId))
			identityInstance := userIdentity{
				SessionId: claims.GetSessionId(),
				SourceIp:  r.RemoteAddr,
				UserAgent: r.UserAgent(),
				UserId:    claims.UserId,
				Username:  claims.Email,
			}
			authContext := context.WithValue(r.Context(), userAuthRequestContext, identityInstance)
			authContext = context.WithValue(authContext, common.HttpContextIdentity, claims.UserId)
			next.ServeHTTP(w, r.WithContext(authContext))
		})
	}
}

type orgAutherOpts struct {
	// App restricts the org to a single app, nil accepts any app
	App *common.App

	// RequireBilling refuses orgs whose subscription is not active
	RequireBilling bool

	ServiceLogs chan<- common.ServiceLog
}

// getOrgAuther resolves the caller's membership of the org named by the
// `{orgId}` path variable; it must run after getRouteAuther
func getOrgAuther(opts orgAutherOpts) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := common.GetRequestLogger(r)
			opts.ServiceLogs <- common.ServiceLogf(common.LogLevelTrace, "org auth middleware is executing")
			identity := getIdentity(r)
			if err := validatePathIds(r); err != nil {
				log(common.LogLevelDebug, fmt.Sprintf("rejected path: %s", err))
				common.SendHttpFailResponse(w, r, http.StatusBadRequest, err.Error(), ErrorInvalidInput)
				return
			}
			orgId := mux.Vars(r)["orgId"]
			org, err := models.GetOrgV1(r.Context(), models.GetOrgV1Opts{Db: dbInstance, Id: orgId})
			if err != nil {
				sendModelError(w, r, "failed to retrieve org", err)
				return
			}
			if opts.App != nil && org.App != *opts.App {
				log(common.LogLevelDebug, fmt.Sprintf("org[%s] belongs to app[%s] not app[%s]", org.Id, org.App, *opts.App))
				common.SendHttpFailResponse(w, r, http.StatusNotFound, "failed to retrieve org", ErrorWrongApp)
				return
			}
			membership, err := models.GetMembershipV1(r.Context(), models.GetMembershipV1Opts{
				Db:     dbInstance,
				OrgId:  org.Id,
				UserId: identity.UserId,
			})
			if err != nil {
				if errors.Is(err, models.ErrorNotFound) {
					common.SendHttpFailResponse(w, r, http.StatusForbidden, "failed to find a membership for the org", ErrorInsufficientPermissions)
					return
				}
				sendModelError(w, r, "failed to retrieve membership", err)
				return
			}
			if opts.RequireBilling && !org.HasBillingAccess() {
				log(common.LogLevelDebug, fmt.Sprintf("org[%s] has subscription status[%s]", org.Id, org.SubscriptionStatus))
				common.SendHttpFailResponse(w, r, http.StatusPaymentRequired, "inactive billing", ErrorBillingRequired)
				return
			}
			next.ServeHTTP(w, r.WithContext(contextWithOrgAccess(r, orgAccess{
				Org:        *org,
				Membership: *membership,
			})))
		})
	}
}

// getAdminAuther only lets through users flagged as platform admins; it
// must run after getRouteAuther
func getAdminAuther(serviceLogs chan<- common.ServiceLog) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			serviceLogs <- common.ServiceLogf(common.LogLevelTrace, "admin auth middleware is executing")
			identity := getIdentity(r)
			user, err := models.GetUserV1(r.Context(), models.GetUserV1Opts{Db: dbInstance, Id: &identity.UserId})
			if err != nil {
				sendModelError(w, r, "failed to retrieve user", err)
				return
			}
			if !user.IsAdmin {
				common.SendHttpFailResponse(w, r, http.StatusForbidden, "admin access is required", ErrorInsufficientPermissions)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// getCronAuther guards the cron endpoints with the cron secret, the
// endpoints are disabled when no secret was configured
func getCronAuther(serviceLogs chan<- common.ServiceLog) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if cronSecret == "" {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				common.SendHttpFailResponse(w, r, http.StatusServiceUnavailable, "cron endpoints are disabled", ErrorCronDisabled)
			})
		}
		return common.GetBearerAuthMiddleware(serviceLogs, cronSecret)(next)
	}
}

// requireRole answers 403 when allowed rejects the caller's org role
func requireRole(w http.ResponseWriter, r *http.Request, allowed func(role string) bool) bool {
	access := getOrgAccess(r)
	if allowed(access.Role()) {
		return true
	}
	common.GetRequestLogger(r)(common.LogLevelDebug, fmt.Sprintf("role[%s] is not allowed to %s %s", access.Role(), r.Method, r.URL.Path))
	common.SendHttpFailResponse(w, r, http.StatusForbidden, "insufficient permissions", ErrorInsufficientPermissions)
	return false
}
