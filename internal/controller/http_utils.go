package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
	"tradedesk/internal/audit"
	"tradedesk/internal/common"
	"tradedesk/internal/controller/models"
	"tradedesk/internal/reminders"
	"tradedesk/internal/solar"
	"tradedesk/internal/validate"
	"tradedesk/internal/vendorcredit"

	"github.com/gorilla/mux"
)

func readJsonBody(r *http.Request, target any) error {
	bodyData, err := io.ReadAll(r.Body)
	if err != nil {
		return fmt.Errorf("failed to read body data: %w", err)
	}
	if err := json.Unmarshal(bodyData, target); err != nil {
		return fmt.Errorf("failed to parse body data: %w", err)
	}
	return nil
}

// sendBodyError answers a request whose body could not be read
func sendBodyError(w http.ResponseWriter, r *http.Request, err error) {
	common.SendHttpFailResponse(w, r, http.StatusBadRequest, err.Error(), ErrorInvalidInput)
}

// sendModelError maps errors returned by the models and domain packages
// onto a status code and one of the controller's error codes
func sendModelError(w http.ResponseWriter, r *http.Request, message string, err error) {
	log := common.GetRequestLogger(r)
	log(common.LogLevelDebug, fmt.Sprintf("%s: %s", message, err))
	switch {
	case errors.Is(err, models.ErrorNotFound),
		errors.Is(err, vendorcredit.ErrorImportJobNotFound):
		common.SendHttpFailResponse(w, r, http.StatusNotFound, message, ErrorNotFound)
	case errors.Is(err, models.ErrorInvalidInput),
		errors.Is(err, solar.ErrorInvalidInput),
		errors.Is(err, reminders.ErrorInvalidPolicy),
		errors.Is(err, vendorcredit.ErrorInvalidInput),
		errors.Is(err, vendorcredit.ErrorInvalidTemplate),
		errors.Is(err, vendorcredit.ErrorImportFileEmpty),
		errors.Is(err, vendorcredit.ErrorImportMappingMissing):
		common.SendHttpFailResponse(w, r, http.StatusBadRequest, fmt.Sprintf("%s: %s", message, err), ErrorInvalidInput)
	case errors.Is(err, solar.ErrorInvalidTransition),
		errors.Is(err, vendorcredit.ErrorInvalidTransition),
		errors.Is(err, vendorcredit.ErrorImportJobNotReady),
		errors.Is(err, models.ErrorCaseNotReady):
		common.SendHttpFailResponse(w, r, http.StatusConflict, fmt.Sprintf("%s: %s", message, err), ErrorInvalidTransition)
	case errors.Is(err, models.ErrorDuplicateEntry):
		common.SendHttpFailResponse(w, r, http.StatusConflict, message, ErrorDuplicateEntry)
	case errors.Is(err, models.ErrorSeatLimitReached),
		errors.Is(err, vendorcredit.ErrorSeatLimitReached):
		common.SendHttpFailResponse(w, r, http.StatusForbidden, message, ErrorSeatLimitReached)
	case errors.Is(err, models.ErrorInvitationAccepted),
		errors.Is(err, models.ErrorInvitationExpired):
		common.SendHttpFailResponse(w, r, http.StatusGone, message, ErrorInvitationUnusable)
	case errors.Is(err, models.ErrorUserExists):
		common.SendHttpFailResponse(w, r, http.StatusConflict, message, ErrorUserExists)
	case errors.Is(err, models.ErrorCredentialsAuthenticationFailed):
		common.SendHttpFailResponse(w, r, http.StatusUnauthorized, message, ErrorInvalidCredentials)
	default:
		log(common.LogLevelError, fmt.Sprintf("%s: %s", message, err))
		common.SendHttpFailResponse(w, r, http.StatusInternalServerError, message, ErrorDatabaseIssue)
	}
}

// auditRequest records a mutation made by the caller of r. Failing to
// write the audit trail never fails the request
func auditRequest(r *http.Request, entry audit.LogEntry) {
	identity := getIdentity(r)
	if entry.EntityId == "" {
		entry.EntityId = identity.UserId
		entry.EntityType = audit.UserEntity
	}
	if entry.OrgId == "" {
		entry.OrgId = getOrgAccess(r).Org.Id
	}
	if entry.Status == "" {
		entry.Status = audit.Success
	}
	srcIp := r.RemoteAddr
	srcUa := r.UserAgent()
	entry.SrcIp = &srcIp
	entry.SrcUa = &srcUa
	entry.Timestamp = now().UTC()
	if err := audit.Log(r.Context(), entry); err != nil {
		common.GetRequestLogger(r)(common.LogLevelWarn, fmt.Sprintf("failed to write audit log: %s", err))
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	value, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return fallback
	}
	return value
}

// validatePathIds checks every `{...Id}` path variable, all of them are
// uuids generated by the models
func validatePathIds(r *http.Request) error {
	for key, value := range mux.Vars(r) {
		if !strings.HasSuffix(key, "Id") {
			continue
		}
		if err := validate.Uuid(value); err != nil {
			return fmt.Errorf("%s[%s] is not a valid id: %w", key, value, err)
		}
	}
	return nil
}

func queryString(r *http.Request, key string) *string {
	value := r.URL.Query().Get(key)
	if value == "" {
		return nil
	}
	return &value
}

func nowUtc() time.Time {
	return now().UTC()
}
