package controller

import (
	"fmt"
	"net/http"
	"tradedesk/internal/audit"
	"tradedesk/internal/common"
	"tradedesk/internal/controller/models"
	"tradedesk/internal/queue"
	"tradedesk/internal/vendorcredit"

	"github.com/gorilla/mux"
)

const importTemplateFilename = "vendorcredit-import-template.csv"

func registerImportRoutes(opts RouteRegistrationOpts) {
	v1 := getVendorCreditRouter(opts)

	v1.HandleFunc("/imports", handleListImportJobsV1).Methods(http.MethodGet)
	v1.HandleFunc("/imports", handleCreateImportJobV1).Methods(http.MethodPost)
	v1.HandleFunc("/imports/template", handleGetImportTemplateV1).Methods(http.MethodGet)
	v1.HandleFunc("/imports/{importId}", handleGetImportJobV1).Methods(http.MethodGet)
	v1.HandleFunc("/imports/{importId}/mapping", handleSaveImportMappingV1).Methods(http.MethodPut)
	v1.HandleFunc("/imports/{importId}/confirm", handleConfirmImportJobV1).Methods(http.MethodPost)
}

func handleGetImportTemplateV1(w http.ResponseWriter, r *http.Request) {
	common.SendHttpAttachmentResponse(w, r, "text/csv", importTemplateFilename, []byte(vendorcredit.ImportTemplateCsv))
}

func handleListImportJobsV1(w http.ResponseWriter, r *http.Request) {
	jobs, err := models.ListImportJobsV1(r.Context(), models.ListImportJobsV1Opts{
		Db:    dbInstance,
		OrgId: getOrgAccess(r).Org.Id,
	})
	if err != nil {
		sendModelError(w, r, "failed to list import jobs", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", jobs)
}

type handleCreateImportJobV1Output struct {
	Id      string              `json:"id"`
	Headers []string            `json:"headers"`
	Preview []map[string]string `json:"preview"`
	Rows    int                 `json:"rows"`
}

// handleCreateImportJobV1 stores an uploaded CSV as an UPLOADED job and
// returns its headers with a preview so that a mapping can be chosen.
// The dedupe mode is read from the `dedupeMode` form or query value
func handleCreateImportJobV1(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, canEditCase) {
		return
	}
	file, filename, err := readUploadedCsv(w, r)
	if err != nil {
		sendBodyError(w, r, err)
		return
	}
	defer file.Close()

	headers, rows, err := vendorcredit.ParseCsv(file)
	if err != nil {
		sendModelError(w, r, "failed to parse csv", err)
		return
	}
	dedupeMode := vendorcredit.DedupeMode(r.FormValue("dedupeMode"))
	if !dedupeMode.IsValid() {
		dedupeMode = vendorcredit.DedupeModeSkip
	}
	jobId, err := models.CreateImportJobV1(r.Context(), models.CreateImportJobV1Opts{
		Db:         dbInstance,
		OrgId:      getOrgAccess(r).Org.Id,
		CreatedBy:  getIdentity(r).UserId,
		Filename:   filename,
		DedupeMode: dedupeMode,
		Headers:    headers,
		Rows:       rows,
	})
	if err != nil {
		sendModelError(w, r, "failed to create import job", err)
		return
	}
	auditRequest(r, audit.LogEntry{
		Verb:         audit.Create,
		ResourceId:   jobId,
		ResourceType: audit.ImportJobResource,
		Data:         map[string]any{"filename": filename, "rows": len(rows)},
	})
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", handleCreateImportJobV1Output{
		Id:      jobId,
		Headers: headers,
		Preview: vendorcredit.Preview(rows),
		Rows:    len(rows),
	})
}

type handleGetImportJobV1Output struct {
	Job  vendorcredit.ImportJob   `json:"job"`
	Rows []vendorcredit.ImportRow `json:"rows"`
}

// handleGetImportJobV1 returns the job with its first rows, after
// processing the rows carry the action taken for each
func handleGetImportJobV1(w http.ResponseWriter, r *http.Request) {
	orgId := getOrgAccess(r).Org.Id
	job, err := models.GetImportJobV1(r.Context(), models.GetImportJobV1Opts{
		Db:    dbInstance,
		OrgId: &orgId,
		Id:    mux.Vars(r)["importId"],
	})
	if err != nil {
		sendModelError(w, r, "failed to retrieve import job", err)
		return
	}
	rows, err := models.ListImportRowsV1(r.Context(), models.ListImportRowsV1Opts{
		Db:    dbInstance,
		JobId: job.Id,
		Limit: queryInt(r, "rows", vendorcredit.ImportPreviewRows),
	})
	if err != nil {
		sendModelError(w, r, "failed to list import rows", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", handleGetImportJobV1Output{
		Job:  *job,
		Rows: rows,
	})
}

type handleSaveImportMappingV1Input struct {
	Mapping    vendorcredit.Mapping     `json:"mapping"`
	DedupeMode *vendorcredit.DedupeMode `json:"dedupeMode"`
}

func handleSaveImportMappingV1(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, canEditCase) {
		return
	}
	var input handleSaveImportMappingV1Input
	if err := readJsonBody(r, &input); err != nil {
		sendBodyError(w, r, err)
		return
	}
	importId := mux.Vars(r)["importId"]
	if err := models.SaveImportMappingV1(r.Context(), models.SaveImportMappingV1Opts{
		Db:         dbInstance,
		OrgId:      getOrgAccess(r).Org.Id,
		Id:         importId,
		Mapping:    input.Mapping,
		DedupeMode: input.DedupeMode,
	}); err != nil {
		sendModelError(w, r, "failed to save mapping", err)
		return
	}
	auditRequest(r, audit.LogEntry{
		Verb:         audit.Update,
		ResourceId:   importId,
		ResourceType: audit.ImportJobResource,
	})
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok")
}

type handleConfirmImportJobV1Output struct {
	Id      string                      `json:"id"`
	Queued  bool                        `json:"queued"`
	Summary *vendorcredit.ImportSummary `json:"summary,omitempty"`
}

// handleConfirmImportJobV1 hands a READY job to the workers through the
// queue. Without a queue the job is processed before responding
func handleConfirmImportJobV1(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, canEditCase) {
		return
	}
	log := common.GetRequestLogger(r)
	orgId := getOrgAccess(r).Org.Id
	job, err := models.GetImportJobV1(r.Context(), models.GetImportJobV1Opts{
		Db:    dbInstance,
		OrgId: &orgId,
		Id:    mux.Vars(r)["importId"],
	})
	if err != nil {
		sendModelError(w, r, "failed to retrieve import job", err)
		return
	}
	if job.Status != vendorcredit.ImportJobStatusReady {
		sendModelError(w, r, "failed to confirm import job", fmt.Errorf("%w: status[%s]", vendorcredit.ErrorImportJobNotReady, job.Status))
		return
	}
	auditRequest(r, audit.LogEntry{
		Verb:         audit.Import,
		ResourceId:   job.Id,
		ResourceType: audit.ImportJobResource,
	})

	if queueInstance != nil {
		output, err := queueInstance.Push(queue.PushOpts{
			Data:  []byte(job.Id),
			Key:   orgId,
			Queue: queue.ImportJobs,
		})
		if err == nil {
			log(common.LogLevelDebug, fmt.Sprintf("queued import job[%s] on subject[%s]", job.Id, output.Subject))
			common.SendHttpSuccessResponse(w, r, http.StatusAccepted, "ok", handleConfirmImportJobV1Output{
				Id:     job.Id,
				Queued: true,
			})
			return
		}
		log(common.LogLevelWarn, fmt.Sprintf("failed to queue import job[%s], processing inline: %s", job.Id, err))
	}

	summary, err := importer.ProcessJob(r.Context(), job.Id)
	if err != nil {
		sendModelError(w, r, "failed to process import job", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", handleConfirmImportJobV1Output{
		Id:      job.Id,
		Summary: summary,
	})
}
