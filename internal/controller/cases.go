package controller

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"tradedesk/internal/common"
	"tradedesk/internal/controller/models"
	"tradedesk/internal/packet"
	"tradedesk/internal/vendorcredit"

	"github.com/gorilla/mux"
)

const casesReportFilename = "cases-report.csv"

func registerCaseRoutes(opts RouteRegistrationOpts) {
	v1 := getVendorCreditRouter(opts)

	v1.HandleFunc("/dashboard", handleGetVendorCreditDashboardV1).Methods(http.MethodGet)
	v1.HandleFunc("/reports/cases.csv", handleGetCasesReportV1).Methods(http.MethodGet)

	v1.HandleFunc("/cases", handleListCasesV1).Methods(http.MethodGet)
	v1.HandleFunc("/cases", handleCreateCaseV1).Methods(http.MethodPost)
	v1.HandleFunc("/cases/bulk-status", handleBulkUpdateCaseStatusV1).Methods(http.MethodPost)
	v1.HandleFunc("/cases/{caseId}", handleGetCaseV1).Methods(http.MethodGet)
	v1.HandleFunc("/cases/{caseId}", handleUpdateCaseV1).Methods(http.MethodPatch)
	v1.HandleFunc("/cases/{caseId}/status", handleUpdateCaseStatusV1).Methods(http.MethodPost)
	v1.HandleFunc("/cases/{caseId}/readiness", handleGetCaseReadinessV1).Methods(http.MethodGet)
	v1.HandleFunc("/cases/{caseId}/events", handleListCaseEventsV1).Methods(http.MethodGet)
	v1.HandleFunc("/cases/{caseId}/checklist/{itemId}", handleToggleChecklistItemV1).Methods(http.MethodPost)
	v1.HandleFunc("/cases/{caseId}/evidence", handleListEvidenceFilesV1).Methods(http.MethodGet)
	v1.HandleFunc("/cases/{caseId}/evidence", handleCreateEvidenceFileV1).Methods(http.MethodPost)
	v1.HandleFunc("/cases/{caseId}/evidence/{evidenceId}", handleDeleteEvidenceFileV1).Methods(http.MethodDelete)
	v1.HandleFunc("/cases/{caseId}/packet", handleGetCasePacketV1).Methods(http.MethodGet)
}

func handleGetVendorCreditDashboardV1(w http.ResponseWriter, r *http.Request) {
	dashboard, err := models.GetVendorCreditDashboardV1(r.Context(), models.GetVendorCreditDashboardV1Opts{
		Db:    dbInstance,
		OrgId: getOrgAccess(r).Org.Id,
		Now:   nowUtc(),
	})
	if err != nil {
		sendModelError(w, r, "failed to build dashboard", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", dashboard)
}

// handleGetCasesReportV1 exports the org's cases as CSV, filtered by
// the `start`, `end`, `vendorId` and `status` query parameters
func handleGetCasesReportV1(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter, err := vendorcredit.ParseReportFilter(query.Get("start"), query.Get("end"), query.Get("vendorId"), query.Get("status"))
	if err != nil {
		sendModelError(w, r, "failed to parse report filter", err)
		return
	}
	cases, err := models.ListCasesV1(r.Context(), models.ListCasesV1Opts{
		Db:             dbInstance,
		OrgId:          getOrgAccess(r).Org.Id,
		Status:         filter.Status,
		VendorId:       filter.VendorId,
		Start:          filter.Start,
		End:            filter.End,
		OrderByCreated: true,
	})
	if err != nil {
		sendModelError(w, r, "failed to list cases", err)
		return
	}
	var report bytes.Buffer
	if err := vendorcredit.WriteCasesReport(&report, cases); err != nil {
		common.SendHttpFailResponse(w, r, http.StatusInternalServerError, "failed to write report", ErrorGeneric)
		return
	}
	common.SendHttpAttachmentResponse(w, r, "text/csv", casesReportFilename, report.Bytes())
}

func handleListCasesV1(w http.ResponseWriter, r *http.Request) {
	listOpts := models.ListCasesV1Opts{
		Db:       dbInstance,
		OrgId:    getOrgAccess(r).Org.Id,
		VendorId: queryString(r, "vendorId"),
		Query:    r.URL.Query().Get("q"),
		OpenOnly: r.URL.Query().Get("open") == "true",
	}
	if status := queryString(r, "status"); status != nil {
		caseStatus := vendorcredit.CaseStatus(*status)
		if !caseStatus.IsValid() {
			common.SendHttpFailResponse(w, r, http.StatusBadRequest, fmt.Sprintf("status[%s] is not a case status", *status), ErrorInvalidInput)
			return
		}
		listOpts.Status = &caseStatus
	}
	cases, err := models.ListCasesV1(r.Context(), listOpts)
	if err != nil {
		sendModelError(w, r, "failed to list cases", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", cases)
}

func handleCreateCaseV1(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, canEditCase) {
		return
	}
	var input vendorcredit.CaseInput
	if err := readJsonBody(r, &input); err != nil {
		sendBodyError(w, r, err)
		return
	}
	input.Normalize()
	if err := input.Validate(); err != nil {
		sendModelError(w, r, "failed to validate case", err)
		return
	}
	userId := getIdentity(r).UserId
	newCase := input.ToCase(getOrgAccess(r).Org.Id)
	newCase.CreatedBy = &userId
	created, err := models.CreateCaseV1(r.Context(), models.CreateCaseV1Opts{
		Db:   dbInstance,
		Case: newCase,
		Now:  nowUtc(),
	})
	if err != nil {
		sendModelError(w, r, "failed to create case", err)
		return
	}
	common.GetRequestLogger(r)(common.LogLevelDebug, fmt.Sprintf("created case[%s] for vendor[%s]", created.Id, created.VendorId))
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", created)
}

type handleGetCaseV1Output struct {
	Case       vendorcredit.Case            `json:"case"`
	NextStatus []vendorcredit.CaseStatus    `json:"nextStatus"`
	Readiness  *vendorcredit.Readiness      `json:"readiness"`
	Checklist  []vendorcredit.ChecklistItem `json:"checklist"`
	Evidence   []vendorcredit.EvidenceFile  `json:"evidence"`
	Events     []vendorcredit.Event         `json:"events"`
}

// handleGetCaseV1 returns the case detail page in one call
func handleGetCaseV1(w http.ResponseWriter, r *http.Request) {
	orgId := getOrgAccess(r).Org.Id
	caseId := mux.Vars(r)["caseId"]
	found, err := models.GetCaseV1(r.Context(), models.GetCaseV1Opts{Db: dbInstance, OrgId: orgId, Id: caseId})
	if err != nil {
		sendModelError(w, r, "failed to retrieve case", err)
		return
	}
	readiness, err := models.GetCaseReadinessV1(r.Context(), models.GetCaseReadinessV1Opts{Db: dbInstance, OrgId: orgId, Id: caseId})
	if err != nil {
		sendModelError(w, r, "failed to check readiness", err)
		return
	}
	checklist, err := models.ListChecklistItemsV1(r.Context(), models.ListChecklistItemsV1Opts{Db: dbInstance, OrgId: orgId, CaseId: caseId})
	if err != nil {
		sendModelError(w, r, "failed to list checklist", err)
		return
	}
	evidence, err := models.ListEvidenceFilesV1(r.Context(), models.ListEvidenceFilesV1Opts{Db: dbInstance, OrgId: orgId, CaseId: caseId})
	if err != nil {
		sendModelError(w, r, "failed to list evidence", err)
		return
	}
	events, err := models.ListCaseEventsV1(r.Context(), models.ListCaseEventsV1Opts{Db: dbInstance, OrgId: orgId, CaseId: caseId})
	if err != nil {
		sendModelError(w, r, "failed to list events", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", handleGetCaseV1Output{
		Case:       *found,
		NextStatus: vendorcredit.NextStatuses(found.Status),
		Readiness:  readiness,
		Checklist:  checklist,
		Evidence:   evidence,
		Events:     events,
	})
}

func handleUpdateCaseV1(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, canEditCase) {
		return
	}
	var input vendorcredit.UpdateCaseInput
	if err := readJsonBody(r, &input); err != nil {
		sendBodyError(w, r, err)
		return
	}
	input.Normalize()
	if err := input.Validate(); err != nil {
		sendModelError(w, r, "failed to validate case", err)
		return
	}
	updated, err := models.UpdateCaseV1(r.Context(), models.UpdateCaseV1Opts{
		Db:          dbInstance,
		OrgId:       getOrgAccess(r).Org.Id,
		Id:          mux.Vars(r)["caseId"],
		ActorUserId: getIdentity(r).UserId,
		Input:       input,
	})
	if err != nil {
		sendModelError(w, r, "failed to update case", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", updated)
}

type handleUpdateCaseStatusV1Input struct {
	Status vendorcredit.CaseStatus `json:"status"`
}

func handleUpdateCaseStatusV1(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, canEditCase) {
		return
	}
	var input handleUpdateCaseStatusV1Input
	if err := readJsonBody(r, &input); err != nil {
		sendBodyError(w, r, err)
		return
	}
	updated, err := models.UpdateCaseStatusV1(r.Context(), models.UpdateCaseStatusV1Opts{
		Db:          dbInstance,
		OrgId:       getOrgAccess(r).Org.Id,
		Id:          mux.Vars(r)["caseId"],
		ActorUserId: getIdentity(r).UserId,
		Status:      input.Status,
	})
	if err != nil {
		sendModelError(w, r, "failed to update case status", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", updated)
}

type handleBulkUpdateCaseStatusV1Input struct {
	CaseIds []string                `json:"caseIds"`
	Status  vendorcredit.CaseStatus `json:"status"`
}

// handleBulkUpdateCaseStatusV1 moves many cases at once, cases that may
// not take the status are reported back instead of failing the request
func handleBulkUpdateCaseStatusV1(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, canEditCase) {
		return
	}
	var input handleBulkUpdateCaseStatusV1Input
	if err := readJsonBody(r, &input); err != nil {
		sendBodyError(w, r, err)
		return
	}
	output, err := models.BulkUpdateCaseStatusV1(r.Context(), models.BulkUpdateCaseStatusV1Opts{
		Db:          dbInstance,
		OrgId:       getOrgAccess(r).Org.Id,
		CaseIds:     input.CaseIds,
		ActorUserId: getIdentity(r).UserId,
		Status:      input.Status,
	})
	if err != nil {
		sendModelError(w, r, "failed to update cases", err)
		return
	}
	common.GetRequestLogger(r)(common.LogLevelDebug, fmt.Sprintf("bulk status[%s]: updated %v, skipped %v", input.Status, len(output.Updated), len(output.Skipped)))
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", output)
}

func handleGetCaseReadinessV1(w http.ResponseWriter, r *http.Request) {
	readiness, err := models.GetCaseReadinessV1(r.Context(), models.GetCaseReadinessV1Opts{
		Db:    dbInstance,
		OrgId: getOrgAccess(r).Org.Id,
		Id:    mux.Vars(r)["caseId"],
	})
	if err != nil {
		sendModelError(w, r, "failed to check readiness", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", readiness)
}

func handleListCaseEventsV1(w http.ResponseWriter, r *http.Request) {
	events, err := models.ListCaseEventsV1(r.Context(), models.ListCaseEventsV1Opts{
		Db:     dbInstance,
		OrgId:  getOrgAccess(r).Org.Id,
		CaseId: mux.Vars(r)["caseId"],
	})
	if err != nil {
		sendModelError(w, r, "failed to list events", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", events)
}

type handleToggleChecklistItemV1Input struct {
	Completed bool `json:"completed"`
}

func handleToggleChecklistItemV1(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, canEditCase) {
		return
	}
	var input handleToggleChecklistItemV1Input
	if err := readJsonBody(r, &input); err != nil {
		sendBodyError(w, r, err)
		return
	}
	vars := mux.Vars(r)
	item, err := models.ToggleChecklistItemV1(r.Context(), models.ToggleChecklistItemV1Opts{
		Db:          dbInstance,
		OrgId:       getOrgAccess(r).Org.Id,
		CaseId:      vars["caseId"],
		ItemId:      vars["itemId"],
		ActorUserId: getIdentity(r).UserId,
		Completed:   input.Completed,
		Now:         nowUtc(),
	})
	if err != nil {
		sendModelError(w, r, "failed to update checklist item", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", item)
}

func handleListEvidenceFilesV1(w http.ResponseWriter, r *http.Request) {
	files, err := models.ListEvidenceFilesV1(r.Context(), models.ListEvidenceFilesV1Opts{
		Db:     dbInstance,
		OrgId:  getOrgAccess(r).Org.Id,
		CaseId: mux.Vars(r)["caseId"],
	})
	if err != nil {
		sendModelError(w, r, "failed to list evidence", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", files)
}

type handleCreateEvidenceFileV1Output struct {
	Id string `json:"id"`
}

// handleCreateEvidenceFileV1 records an already stored upload against a
// case, the file itself never passes through the controller
func handleCreateEvidenceFileV1(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, canEditCase) {
		return
	}
	var input vendorcredit.EvidenceInput
	if err := readJsonBody(r, &input); err != nil {
		sendBodyError(w, r, err)
		return
	}
	input.Filename = strings.TrimSpace(input.Filename)
	input.MimeType = strings.TrimSpace(input.MimeType)
	if err := input.Validate(); err != nil {
		sendModelError(w, r, "failed to validate evidence", err)
		return
	}
	orgId := getOrgAccess(r).Org.Id
	caseId := mux.Vars(r)["caseId"]
	if _, err := models.GetCaseV1(r.Context(), models.GetCaseV1Opts{Db: dbInstance, OrgId: orgId, Id: caseId}); err != nil {
		sendModelError(w, r, "failed to retrieve case", err)
		return
	}
	userId := getIdentity(r).UserId
	fileId, err := models.CreateEvidenceFileV1(r.Context(), models.CreateEvidenceFileV1Opts{
		Db:   dbInstance,
		File: input.ToEvidenceFile(orgId, caseId, &userId),
	})
	if err != nil {
		sendModelError(w, r, "failed to record evidence", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", handleCreateEvidenceFileV1Output{Id: fileId})
}

func handleDeleteEvidenceFileV1(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, canEditCase) {
		return
	}
	vars := mux.Vars(r)
	if err := models.DeleteEvidenceFileV1(r.Context(), models.DeleteEvidenceFileV1Opts{
		Db:     dbInstance,
		OrgId:  getOrgAccess(r).Org.Id,
		CaseId: vars["caseId"],
		Id:     vars["evidenceId"],
	}); err != nil {
		sendModelError(w, r, "failed to delete evidence", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok")
}

// handleGetCasePacketV1 renders the claim packet PDF for a case
func handleGetCasePacketV1(w http.ResponseWriter, r *http.Request) {
	access := getOrgAccess(r)
	caseId := mux.Vars(r)["caseId"]
	found, err := models.GetCaseV1(r.Context(), models.GetCaseV1Opts{Db: dbInstance, OrgId: access.Org.Id, Id: caseId})
	if err != nil {
		sendModelError(w, r, "failed to retrieve case", err)
		return
	}
	checklist, err := models.ListChecklistItemsV1(r.Context(), models.ListChecklistItemsV1Opts{Db: dbInstance, OrgId: access.Org.Id, CaseId: caseId})
	if err != nil {
		sendModelError(w, r, "failed to list checklist", err)
		return
	}
	evidence, err := models.ListEvidenceFilesV1(r.Context(), models.ListEvidenceFilesV1Opts{Db: dbInstance, OrgId: access.Org.Id, CaseId: caseId})
	if err != nil {
		sendModelError(w, r, "failed to list evidence", err)
		return
	}
	var document bytes.Buffer
	if err := packet.Render(&document, packet.Input{
		OrgName:   access.Org.Name,
		Case:      *found,
		Checklist: checklist,
		Evidence:  evidence,
	}); err != nil {
		common.GetRequestLogger(r)(common.LogLevelError, fmt.Sprintf("failed to render packet for case[%s]: %s", caseId, err))
		common.SendHttpFailResponse(w, r, http.StatusInternalServerError, "failed to render packet", ErrorGeneric)
		return
	}
	common.SendHttpAttachmentResponse(w, r, packet.ContentType, packet.Filename(caseId), document.Bytes())
}
