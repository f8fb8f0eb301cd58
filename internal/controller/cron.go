package controller

import (
	"errors"
	"fmt"
	"net/http"
	"tradedesk/internal/audit"
	"tradedesk/internal/common"
	"tradedesk/internal/controller/models"
	"tradedesk/internal/reminders"
	"tradedesk/internal/vendorcredit"
)

func registerCronRoutes(opts RouteRegistrationOpts) {
	v1 := opts.Router.PathPrefix("/v1/cron").Subrouter()
	v1.Use(getCronAuther(opts.ServiceLogs))
	v1.HandleFunc("/reminders", handleRunReminderCycleV1).Methods(http.MethodGet, http.MethodPost)
	v1.HandleFunc("/imports", handleProcessImportJobsV1).Methods(http.MethodGet, http.MethodPost)
}

func auditCron(r *http.Request, entry audit.LogEntry) {
	entry.EntityId = "cron"
	entry.EntityType = audit.ControllerEntity
	auditRequest(r, entry)
}

// handleRunReminderCycleV1 runs one reminder cycle across every org, a
// cycle already running elsewhere answers 409
func handleRunReminderCycleV1(w http.ResponseWriter, r *http.Request) {
	result, err := reminderRunner.RunCycle(r.Context(), nowUtc())
	if err != nil {
		if errors.Is(err, reminders.ErrorCycleInProgress) {
			common.SendHttpFailResponse(w, r, http.StatusConflict, "a reminder cycle is already running", ErrorCycleInProgress)
			return
		}
		auditCron(r, audit.LogEntry{
			Verb:         audit.Execute,
			ResourceType: audit.ReminderCycleResource,
			Status:       audit.Failed,
		})
		sendModelError(w, r, "failed to run reminder cycle", err)
		return
	}
	auditCron(r, audit.LogEntry{
		Verb:         audit.Execute,
		ResourceType: audit.ReminderCycleResource,
		Data:         map[string]any{"sent": result.Sent, "skipped": result.Skipped, "failed": result.Failed},
	})
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", result)
}

type handleProcessImportJobsV1Output struct {
	Processed []vendorcredit.ImportSummary `json:"processed"`
	Failed    map[string]string            `json:"failed"`
}

// handleProcessImportJobsV1 sweeps READY import jobs of every org, one
// failing job does not stop the rest of the batch
func handleProcessImportJobsV1(w http.ResponseWriter, r *http.Request) {
	log := common.GetRequestLogger(r)
	jobs, err := models.ListReadyImportJobsV1(r.Context(), models.ListReadyImportJobsV1Opts{
		Db:    dbInstance,
		Limit: importBatchSize,
	})
	if err != nil {
		sendModelError(w, r, "failed to list ready import jobs", err)
		return
	}
	output := handleProcessImportJobsV1Output{
		Processed: []vendorcredit.ImportSummary{},
		Failed:    map[string]string{},
	}
	for _, job := range jobs {
		summary, err := importer.ProcessJob(r.Context(), job.Id)
		if err != nil {
			log(common.LogLevelWarn, fmt.Sprintf("failed to process import job[%s]: %s", job.Id, err))
			output.Failed[job.Id] = err.Error()
			continue
		}
		output.Processed = append(output.Processed, *summary)
		auditCron(r, audit.LogEntry{
			Verb:         audit.Import,
			OrgId:        job.OrgId,
			ResourceId:   job.Id,
			ResourceType: audit.ImportJobResource,
		})
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", output)
}
