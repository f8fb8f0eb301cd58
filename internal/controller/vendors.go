package controller

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"tradedesk/internal/audit"
	"tradedesk/internal/common"
	"tradedesk/internal/controller/models"
	"tradedesk/internal/vendorcredit"

	"github.com/gorilla/mux"
)

const vendorCreditOrgPrefix = "/v1/vendorcredit/orgs/{orgId}"

// getVendorCreditRouter returns an org router for the vendor credit app,
// every route on it requires an active subscription
func getVendorCreditRouter(opts RouteRegistrationOpts) *mux.Router {
	app := common.AppVendorCredit
	return getOrgRouter(opts, vendorCreditOrgPrefix, orgAutherOpts{
		App:            &app,
		RequireBilling: true,
		ServiceLogs:    opts.ServiceLogs,
	})
}

func registerVendorRoutes(opts RouteRegistrationOpts) {
	v1 := getVendorCreditRouter(opts)

	v1.HandleFunc("/vendors", handleListVendorsV1).Methods(http.MethodGet)
	v1.HandleFunc("/vendors", handleCreateVendorV1).Methods(http.MethodPost)
	v1.HandleFunc("/vendors/{vendorId}", handleGetVendorV1).Methods(http.MethodGet)
	v1.HandleFunc("/vendors/{vendorId}", handleUpdateVendorV1).Methods(http.MethodPatch)
	v1.HandleFunc("/vendors/{vendorId}", handleDeleteVendorV1).Methods(http.MethodDelete)

	v1.HandleFunc("/templates", handleListClaimTemplatesV1).Methods(http.MethodGet)
	v1.HandleFunc("/templates", handleCreateClaimTemplateV1).Methods(http.MethodPost)
	v1.HandleFunc("/templates/{templateId}", handleGetClaimTemplateV1).Methods(http.MethodGet)
	v1.HandleFunc("/templates/{templateId}", handleUpdateClaimTemplateV1).Methods(http.MethodPut)
	v1.HandleFunc("/templates/{templateId}", handleDeleteClaimTemplateV1).Methods(http.MethodDelete)
}

func canEditCase(role string) bool {
	return vendorcredit.Role(role).CanEditCase()
}

func canManageTemplates(role string) bool {
	return vendorcredit.Role(role).CanManageTemplates()
}

func handleListVendorsV1(w http.ResponseWriter, r *http.Request) {
	vendors, err := models.ListVendorsV1(r.Context(), models.ListVendorsV1Opts{
		Db:    dbInstance,
		OrgId: getOrgAccess(r).Org.Id,
	})
	if err != nil {
		sendModelError(w, r, "failed to list vendors", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", vendors)
}

func handleGetVendorV1(w http.ResponseWriter, r *http.Request) {
	vendor, err := models.GetVendorV1(r.Context(), models.GetVendorV1Opts{
		Db:    dbInstance,
		OrgId: getOrgAccess(r).Org.Id,
		Id:    mux.Vars(r)["vendorId"],
	})
	if err != nil {
		sendModelError(w, r, "failed to retrieve vendor", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", vendor)
}

func readVendorInput(w http.ResponseWriter, r *http.Request) (*vendorcredit.VendorInput, bool) {
	var input vendorcredit.VendorInput
	if err := readJsonBody(r, &input); err != nil {
		sendBodyError(w, r, err)
		return nil, false
	}
	input.Normalize()
	if err := input.Validate(); err != nil {
		sendModelError(w, r, "failed to validate vendor", err)
		return nil, false
	}
	return &input, true
}

type handleCreateVendorV1Output struct {
	Id string `json:"id"`
}

func handleCreateVendorV1(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, canEditCase) {
		return
	}
	input, ok := readVendorInput(w, r)
	if !ok {
		return
	}
	vendorId, err := models.CreateVendorV1(r.Context(), models.CreateVendorV1Opts{
		Db:     dbInstance,
		Vendor: input.ToVendor(getOrgAccess(r).Org.Id),
	})
	if err != nil {
		sendModelError(w, r, "failed to create vendor", err)
		return
	}
	auditRequest(r, audit.LogEntry{
		Verb:         audit.Create,
		ResourceId:   vendorId,
		ResourceType: audit.VendorResource,
		Data:         map[string]any{"name": input.Name},
	})
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", handleCreateVendorV1Output{Id: vendorId})
}

func handleUpdateVendorV1(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, canEditCase) {
		return
	}
	input, ok := readVendorInput(w, r)
	if !ok {
		return
	}
	orgId := getOrgAccess(r).Org.Id
	vendorId := mux.Vars(r)["vendorId"]
	vendor := input.ToVendor(orgId)
	vendor.Id = vendorId
	if err := models.UpdateVendorV1(r.Context(), models.UpdateVendorV1Opts{
		Db:     dbInstance,
		Vendor: vendor,
	}); err != nil {
		sendModelError(w, r, "failed to update vendor", err)
		return
	}
	auditRequest(r, audit.LogEntry{
		Verb:         audit.Update,
		ResourceId:   vendorId,
		ResourceType: audit.VendorResource,
	})
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok")
}

func handleDeleteVendorV1(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, canEditCase) {
		return
	}
	orgId := getOrgAccess(r).Org.Id
	vendorId := mux.Vars(r)["vendorId"]
	cases, err := models.ListCasesV1(r.Context(), models.ListCasesV1Opts{
		Db:       dbInstance,
		OrgId:    orgId,
		VendorId: &vendorId,
	})
	if err != nil {
		sendModelError(w, r, "failed to list vendor cases", err)
		return
	}
	if len(cases) > 0 {
		common.SendHttpFailResponse(w, r, http.StatusConflict, fmt.Sprintf("vendor still has %v cases", len(cases)), ErrorVendorInUse)
		return
	}
	if err := models.DeleteVendorV1(r.Context(), models.DeleteVendorV1Opts{
		Db:    dbInstance,
		OrgId: orgId,
		Id:    vendorId,
	}); err != nil {
		sendModelError(w, r, "failed to delete vendor", err)
		return
	}
	auditRequest(r, audit.LogEntry{
		Verb:         audit.Delete,
		ResourceId:   vendorId,
		ResourceType: audit.VendorResource,
	})
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok")
}

func handleListClaimTemplatesV1(w http.ResponseWriter, r *http.Request) {
	templates, err := models.ListClaimTemplatesV1(r.Context(), models.ListClaimTemplatesV1Opts{
		Db:       dbInstance,
		OrgId:    getOrgAccess(r).Org.Id,
		VendorId: queryString(r, "vendorId"),
	})
	if err != nil {
		sendModelError(w, r, "failed to list templates", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", templates)
}

func handleGetClaimTemplateV1(w http.ResponseWriter, r *http.Request) {
	template, err := models.GetClaimTemplateV1(r.Context(), models.GetClaimTemplateV1Opts{
		Db:    dbInstance,
		OrgId: getOrgAccess(r).Org.Id,
		Id:    mux.Vars(r)["templateId"],
	})
	if err != nil {
		sendModelError(w, r, "failed to retrieve template", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", template)
}

type handleClaimTemplateV1Input struct {
	VendorId *string                   `json:"vendorId"`
	Spec     vendorcredit.TemplateSpec `json:"spec"`
}

// readClaimTemplateInput accepts either a JSON body or a YAML template
// document; with YAML the vendor is taken from the `vendorId` query
// parameter
func readClaimTemplateInput(w http.ResponseWriter, r *http.Request) (*handleClaimTemplateV1Input, bool) {
	var input handleClaimTemplateV1Input
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			sendBodyError(w, r, err)
			return nil, false
		}
		document, err := vendorcredit.ParseTemplateDocument(data)
		if err != nil {
			sendModelError(w, r, "failed to parse template", err)
			return nil, false
		}
		input.VendorId = queryString(r, "vendorId")
		input.Spec = document.Spec
	} else if err := readJsonBody(r, &input); err != nil {
		sendBodyError(w, r, err)
		return nil, false
	}
	if err := input.Spec.Validate(); err != nil {
		sendModelError(w, r, "failed to validate template", err)
		return nil, false
	}
	if input.VendorId != nil {
		if _, err := models.GetVendorV1(r.Context(), models.GetVendorV1Opts{
			Db:    dbInstance,
			OrgId: getOrgAccess(r).Org.Id,
			Id:    *input.VendorId,
		}); err != nil {
			sendModelError(w, r, "failed to retrieve vendor", err)
			return nil, false
		}
	}
	return &input, true
}

type handleCreateClaimTemplateV1Output struct {
	Id string `json:"id"`
}

func handleCreateClaimTemplateV1(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, canManageTemplates) {
		return
	}
	input, ok := readClaimTemplateInput(w, r)
	if !ok {
		return
	}
	templateId, err := models.CreateClaimTemplateV1(r.Context(), models.CreateClaimTemplateV1Opts{
		Db:       dbInstance,
		OrgId:    getOrgAccess(r).Org.Id,
		VendorId: input.VendorId,
		Spec:     input.Spec,
	})
	if err != nil {
		sendModelError(w, r, "failed to create template", err)
		return
	}
	auditRequest(r, audit.LogEntry{
		Verb:         audit.Create,
		ResourceId:   templateId,
		ResourceType: audit.ClaimTemplateResource,
		Data:         map[string]any{"name": input.Spec.Name},
	})
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", handleCreateClaimTemplateV1Output{Id: templateId})
}

type handleUpdateClaimTemplateV1Output struct {
	Id            string `json:"id"`
	CasesNotified int    `json:"casesNotified"`
}

// handleUpdateClaimTemplateV1 replaces a template. Checklists of cases
// already built from it are left as they are
func handleUpdateClaimTemplateV1(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, canManageTemplates) {
		return
	}
	input, ok := readClaimTemplateInput(w, r)
	if !ok {
		return
	}
	templateId := mux.Vars(r)["templateId"]
	notified, err := models.UpdateClaimTemplateV1(r.Context(), models.UpdateClaimTemplateV1Opts{
		Db:          dbInstance,
		OrgId:       getOrgAccess(r).Org.Id,
		Id:          templateId,
		ActorUserId: getIdentity(r).UserId,
		Spec:        input.Spec,
	})
	if err != nil {
		sendModelError(w, r, "failed to update template", err)
		return
	}
	auditRequest(r, audit.LogEntry{
		Verb:         audit.Update,
		ResourceId:   templateId,
		ResourceType: audit.ClaimTemplateResource,
		Data:         map[string]any{"casesNotified": notified},
	})
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", handleUpdateClaimTemplateV1Output{
		Id:            templateId,
		CasesNotified: notified,
	})
}

func handleDeleteClaimTemplateV1(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, canManageTemplates) {
		return
	}
	templateId := mux.Vars(r)["templateId"]
	if err := models.DeleteClaimTemplateV1(r.Context(), models.DeleteClaimTemplateV1Opts{
		Db:    dbInstance,
		OrgId: getOrgAccess(r).Org.Id,
		Id:    templateId,
	}); err != nil {
		sendModelError(w, r, "failed to delete template", err)
		return
	}
	auditRequest(r, audit.LogEntry{
		Verb:         audit.Delete,
		ResourceId:   templateId,
		ResourceType: audit.ClaimTemplateResource,
	})
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok")
}
