package controller

import (
	"fmt"
	"net/http"
	"tradedesk/internal/common"
	"tradedesk/internal/controller/models"
	"tradedesk/internal/solar"

	"github.com/gorilla/mux"
)

func registerSolarRoutes(opts RouteRegistrationOpts) {
	app := common.AppSolar
	v1 := getOrgRouter(opts, "/v1/solar/orgs/{orgId}", orgAutherOpts{App: &app, ServiceLogs: opts.ServiceLogs})

	v1.HandleFunc("/dashboard", handleGetSolarDashboardV1).Methods(http.MethodGet)
	v1.HandleFunc("/today", handleGetSolarTodayV1).Methods(http.MethodGet)

	v1.HandleFunc("/jobs", handleListJobsV1).Methods(http.MethodGet)
	v1.HandleFunc("/jobs", handleCreateJobV1).Methods(http.MethodPost)
	v1.HandleFunc("/jobs/{jobId}", handleGetJobV1).Methods(http.MethodGet)
	v1.HandleFunc("/jobs/{jobId}", handleUpdateJobV1).Methods(http.MethodPatch)
	v1.HandleFunc("/jobs/{jobId}/status", handleUpdateJobStatusV1).Methods(http.MethodPost)
	v1.HandleFunc("/jobs/{jobId}/activity", handleListJobActivityV1).Methods(http.MethodGet)
	v1.HandleFunc("/jobs/{jobId}/permits", handleCreatePermitV1).Methods(http.MethodPost)
	v1.HandleFunc("/jobs/{jobId}/inspections", handleCreateInspectionV1).Methods(http.MethodPost)

	v1.HandleFunc("/permits", handleListPermitsV1).Methods(http.MethodGet)
	v1.HandleFunc("/permits/stuck", handleListStuckPermitsV1).Methods(http.MethodGet)
	v1.HandleFunc("/permits/{permitId}", handleGetPermitV1).Methods(http.MethodGet)
	v1.HandleFunc("/permits/{permitId}", handleUpdatePermitV1).Methods(http.MethodPatch)
	v1.HandleFunc("/permits/{permitId}/actions/{action}", handlePermitQuickActionV1).Methods(http.MethodPost)

	v1.HandleFunc("/inspections", handleListInspectionsV1).Methods(http.MethodGet)
	v1.HandleFunc("/inspections/{inspectionId}", handleUpdateInspectionV1).Methods(http.MethodPatch)

	v1.HandleFunc("/tasks", handleListTasksV1).Methods(http.MethodGet)
	v1.HandleFunc("/tasks", handleCreateTaskV1).Methods(http.MethodPost)
	v1.HandleFunc("/tasks/{taskId}", handleUpdateTaskV1).Methods(http.MethodPatch)
	v1.HandleFunc("/tasks/{taskId}/complete", handleCompleteTaskV1).Methods(http.MethodPost)
}

func canEditSolar(role string) bool {
	return solar.Role(role).CanEditJobDetails()
}

func handleGetSolarDashboardV1(w http.ResponseWriter, r *http.Request) {
	dashboard, err := models.GetSolarDashboardV1(r.Context(), models.GetSolarDashboardV1Opts{
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

func handleGetSolarTodayV1(w http.ResponseWriter, r *http.Request) {
	today, err := models.GetSolarTodayV1(r.Context(), models.GetSolarTodayV1Opts{
		Db:    dbInstance,
		OrgId: getOrgAccess(r).Org.Id,
		Now:   nowUtc(),
	})
	if err != nil {
		sendModelError(w, r, "failed to build today view", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", today)
}

func handleListJobsV1(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter, err := solar.ParseJobListFilter(
		query.Get("status"),
		query.Get("q"),
		query.Get("city"),
		query.Get("from"),
		query.Get("to"),
		query.Get("sort"),
	)
	if err != nil {
		common.SendHttpFailResponse(w, r, http.StatusBadRequest, err.Error(), ErrorInvalidInput)
		return
	}
	jobs, err := models.ListJobsV1(r.Context(), models.ListJobsV1Opts{
		Db:     dbInstance,
		OrgId:  getOrgAccess(r).Org.Id,
		Filter: filter,
	})
	if err != nil {
		sendModelError(w, r, "failed to list jobs", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", jobs)
}

type handleCreateJobV1Output struct {
	Id string `json:"id"`
}

func handleCreateJobV1(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, canEditSolar) {
		return
	}
	var input solar.JobInput
	if err := readJsonBody(r, &input); err != nil {
		sendBodyError(w, r, err)
		return
	}
	input.Normalize()
	if err := input.Validate(); err != nil {
		sendModelError(w, r, "failed to validate job", err)
		return
	}
	orgId := getOrgAccess(r).Org.Id
	jobId, err := models.CreateJobV1(r.Context(), models.CreateJobV1Opts{
		Db:  dbInstance,
		Job: input.ToJob(orgId),
	})
	if err != nil {
		sendModelError(w, r, "failed to create job", err)
		return
	}
	common.GetRequestLogger(r)(common.LogLevelDebug, fmt.Sprintf("created job[%s] in org[%s]", jobId, orgId))
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", handleCreateJobV1Output{Id: jobId})
}

type handleGetJobV1Output struct {
	Job         solar.Job          `json:"job"`
	NextStatus  []solar.JobStatus  `json:"nextStatus"`
	Permits     []solar.Permit     `json:"permits"`
	Inspections []solar.Inspection `json:"inspections"`
	Tasks       []solar.Task       `json:"tasks"`
}

// handleGetJobV1 returns the job with everything hanging off it and the
// statuses it may move to next
func handleGetJobV1(w http.ResponseWriter, r *http.Request) {
	orgId := getOrgAccess(r).Org.Id
	jobId := mux.Vars(r)["jobId"]
	job, err := models.GetJobV1(r.Context(), models.GetJobV1Opts{Db: dbInstance, OrgId: orgId, Id: jobId})
	if err != nil {
		sendModelError(w, r, "failed to retrieve job", err)
		return
	}
	permits, err := models.ListPermitsV1(r.Context(), models.ListPermitsV1Opts{Db: dbInstance, OrgId: orgId, JobId: &jobId})
	if err != nil {
		sendModelError(w, r, "failed to list permits", err)
		return
	}
	inspections, err := models.ListInspectionsV1(r.Context(), models.ListInspectionsV1Opts{Db: dbInstance, OrgId: orgId, JobId: &jobId})
	if err != nil {
		sendModelError(w, r, "failed to list inspections", err)
		return
	}
	tasks, err := models.ListTasksV1(r.Context(), models.ListTasksV1Opts{Db: dbInstance, OrgId: orgId, JobId: &jobId})
	if err != nil {
		sendModelError(w, r, "failed to list tasks", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", handleGetJobV1Output{
		Job:         *job,
		NextStatus:  solar.NextJobStatuses(job.Status),
		Permits:     permits,
		Inspections: inspections,
		Tasks:       tasks,
	})
}

func handleUpdateJobV1(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, canEditSolar) {
		return
	}
	orgId := getOrgAccess(r).Org.Id
	jobId := mux.Vars(r)["jobId"]
	var input solar.JobInput
	if err := readJsonBody(r, &input); err != nil {
		sendBodyError(w, r, err)
		return
	}
	input.Normalize()
	if err := input.Validate(); err != nil {
		sendModelError(w, r, "failed to validate job", err)
		return
	}
	if _, err := models.GetJobV1(r.Context(), models.GetJobV1Opts{Db: dbInstance, OrgId: orgId, Id: jobId}); err != nil {
		sendModelError(w, r, "failed to retrieve job", err)
		return
	}
	if err := models.UpdateJobV1(r.Context(), models.UpdateJobV1Opts{
		Db:    dbInstance,
		OrgId: orgId,
		Id:    jobId,
		Input: input,
	}); err != nil {
		sendModelError(w, r, "failed to update job", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok")
}

type handleUpdateJobStatusV1Input struct {
	Status solar.JobStatus `json:"status"`
}

func handleUpdateJobStatusV1(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, canEditSolar) {
		return
	}
	var input handleUpdateJobStatusV1Input
	if err := readJsonBody(r, &input); err != nil {
		sendBodyError(w, r, err)
		return
	}
	job, err := models.UpdateJobStatusV1(r.Context(), models.UpdateJobStatusV1Opts{
		Db:          dbInstance,
		OrgId:       getOrgAccess(r).Org.Id,
		Id:          mux.Vars(r)["jobId"],
		ActorUserId: getIdentity(r).UserId,
		Status:      input.Status,
	})
	if err != nil {
		sendModelError(w, r, "failed to update job status", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", job)
}

func handleListJobActivityV1(w http.ResponseWriter, r *http.Request) {
	activity, err := models.ListJobActivityV1(r.Context(), models.ListJobActivityV1Opts{
		Db:    dbInstance,
		OrgId: getOrgAccess(r).Org.Id,
		JobId: mux.Vars(r)["jobId"],
	})
	if err != nil {
		sendModelError(w, r, "failed to list activity", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", activity)
}

func handleListPermitsV1(w http.ResponseWriter, r *http.Request) {
	permits, err := models.ListPermitsV1(r.Context(), models.ListPermitsV1Opts{
		Db:    dbInstance,
		OrgId: getOrgAccess(r).Org.Id,
		JobId: queryString(r, "jobId"),
	})
	if err != nil {
		sendModelError(w, r, "failed to list permits", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", permits)
}

// handleListStuckPermitsV1 lists permits waiting on the jurisdiction that
// need a follow-up, `staleDays` overrides the stale contact threshold
func handleListStuckPermitsV1(w http.ResponseWriter, r *http.Request) {
	permits, err := models.ListStuckPermitsV1(r.Context(), models.ListStuckPermitsV1Opts{
		Db:    dbInstance,
		OrgId: getOrgAccess(r).Org.Id,
		Criteria: solar.StuckPermitCriteria{
			Today:            solar.StartOfDay(nowUtc()),
			StaleContactDays: queryInt(r, "staleDays", solar.DefaultStaleContactDays),
		},
	})
	if err != nil {
		sendModelError(w, r, "failed to list stuck permits", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", permits)
}

func handleGetPermitV1(w http.ResponseWriter, r *http.Request) {
	permit, err := models.GetPermitV1(r.Context(), models.GetPermitV1Opts{
		Db:    dbInstance,
		OrgId: getOrgAccess(r).Org.Id,
		Id:    mux.Vars(r)["permitId"],
	})
	if err != nil {
		sendModelError(w, r, "failed to retrieve permit", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", permit)
}

func handleCreatePermitV1(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, canEditSolar) {
		return
	}
	var input solar.PermitInput
	if err := readJsonBody(r, &input); err != nil {
		sendBodyError(w, r, err)
		return
	}
	input.Normalize()
	if err := input.Validate(); err != nil {
		sendModelError(w, r, "failed to validate permit", err)
		return
	}
	permit, err := models.CreatePermitV1(r.Context(), models.CreatePermitV1Opts{
		Db:          dbInstance,
		ActorUserId: getIdentity(r).UserId,
		Permit:      input.ToPermit(getOrgAccess(r).Org.Id, mux.Vars(r)["jobId"]),
	})
	if err != nil {
		sendModelError(w, r, "failed to create permit", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", permit)
}

func handleUpdatePermitV1(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, canEditSolar) {
		return
	}
	var input solar.PermitInput
	if err := readJsonBody(r, &input); err != nil {
		sendBodyError(w, r, err)
		return
	}
	input.Normalize()
	if err := input.Validate(); err != nil {
		sendModelError(w, r, "failed to validate permit", err)
		return
	}
	orgId := getOrgAccess(r).Org.Id
	permit, err := models.UpdatePermitV1(r.Context(), models.UpdatePermitV1Opts{
		Db:          dbInstance,
		OrgId:       orgId,
		Id:          mux.Vars(r)["permitId"],
		ActorUserId: getIdentity(r).UserId,
		Update: func(existing solar.Permit) (solar.Permit, error) {
			next := input.ToPermit(orgId, existing.JobId)
			next.Id = existing.Id
			return next, nil
		},
	})
	if err != nil {
		sendModelError(w, r, "failed to update permit", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", permit)
}

// handlePermitQuickActionV1 applies one of the one-click follow-up
// shortcuts to a permit
func handlePermitQuickActionV1(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, canEditSolar) {
		return
	}
	vars := mux.Vars(r)
	action := solar.PermitQuickAction(vars["action"])
	permit, err := models.UpdatePermitV1(r.Context(), models.UpdatePermitV1Opts{
		Db:          dbInstance,
		OrgId:       getOrgAccess(r).Org.Id,
		Id:          vars["permitId"],
		ActorUserId: getIdentity(r).UserId,
		Update: func(existing solar.Permit) (solar.Permit, error) {
			return action.Apply(existing, nowUtc())
		},
	})
	if err != nil {
		sendModelError(w, r, fmt.Sprintf("failed to apply quick action[%s]", action), err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", permit)
}

func handleListInspectionsV1(w http.ResponseWriter, r *http.Request) {
	inspections, err := models.ListInspectionsV1(r.Context(), models.ListInspectionsV1Opts{
		Db:    dbInstance,
		OrgId: getOrgAccess(r).Org.Id,
		JobId: queryString(r, "jobId"),
	})
	if err != nil {
		sendModelError(w, r, "failed to list inspections", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", inspections)
}

func handleCreateInspectionV1(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, canEditSolar) {
		return
	}
	var input solar.InspectionInput
	if err := readJsonBody(r, &input); err != nil {
		sendBodyError(w, r, err)
		return
	}
	input.Normalize()
	if err := input.Validate(); err != nil {
		sendModelError(w, r, "failed to validate inspection", err)
		return
	}
	inspection, err := models.CreateInspectionV1(r.Context(), models.CreateInspectionV1Opts{
		Db:          dbInstance,
		ActorUserId: getIdentity(r).UserId,
		Inspection:  input.ToInspection(getOrgAccess(r).Org.Id, mux.Vars(r)["jobId"], solar.InspectionStatusNotScheduled),
		Now:         nowUtc(),
	})
	if err != nil {
		sendModelError(w, r, "failed to create inspection", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", inspection)
}

func handleUpdateInspectionV1(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, canEditSolar) {
		return
	}
	var input solar.InspectionInput
	if err := readJsonBody(r, &input); err != nil {
		sendBodyError(w, r, err)
		return
	}
	input.Normalize()
	if err := input.Validate(); err != nil {
		sendModelError(w, r, "failed to validate inspection", err)
		return
	}
	inspection, err := models.UpdateInspectionV1(r.Context(), models.UpdateInspectionV1Opts{
		Db:          dbInstance,
		OrgId:       getOrgAccess(r).Org.Id,
		Id:          mux.Vars(r)["inspectionId"],
		ActorUserId: getIdentity(r).UserId,
		Input:       input,
		Now:         nowUtc(),
	})
	if err != nil {
		sendModelError(w, r, "failed to update inspection", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", inspection)
}

func handleListTasksV1(w http.ResponseWriter, r *http.Request) {
	listOpts := models.ListTasksV1Opts{
		Db:    dbInstance,
		OrgId: getOrgAccess(r).Org.Id,
		JobId: queryString(r, "jobId"),
	}
	if status := queryString(r, "status"); status != nil {
		taskStatus := solar.TaskStatus(*status)
		if !taskStatus.IsValid() {
			common.SendHttpFailResponse(w, r, http.StatusBadRequest, fmt.Sprintf("status[%s] is not a task status", *status), ErrorInvalidInput)
			return
		}
		listOpts.Status = &taskStatus
	}
	tasks, err := models.ListTasksV1(r.Context(), listOpts)
	if err != nil {
		sendModelError(w, r, "failed to list tasks", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", tasks)
}

// readTaskInput also checks that the job and assignee named by the task
// belong to the caller's org
func readTaskInput(w http.ResponseWriter, r *http.Request) (*solar.TaskInput, bool) {
	var input solar.TaskInput
	if err := readJsonBody(r, &input); err != nil {
		sendBodyError(w, r, err)
		return nil, false
	}
	input.Normalize()
	if err := input.Validate(); err != nil {
		sendModelError(w, r, "failed to validate task", err)
		return nil, false
	}
	orgId := getOrgAccess(r).Org.Id
	if input.JobId != nil {
		if _, err := models.GetJobV1(r.Context(), models.GetJobV1Opts{Db: dbInstance, OrgId: orgId, Id: *input.JobId}); err != nil {
			sendModelError(w, r, "failed to retrieve job", err)
			return nil, false
		}
	}
	if input.AssigneeUserId != nil {
		if _, err := models.GetMembershipV1(r.Context(), models.GetMembershipV1Opts{Db: dbInstance, OrgId: orgId, UserId: *input.AssigneeUserId}); err != nil {
			sendModelError(w, r, "failed to retrieve assignee", err)
			return nil, false
		}
	}
	return &input, true
}

type handleCreateTaskV1Output struct {
	Id string `json:"id"`
}

func handleCreateTaskV1(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, canEditSolar) {
		return
	}
	input, ok := readTaskInput(w, r)
	if !ok {
		return
	}
	taskId, err := models.CreateTaskV1(r.Context(), models.CreateTaskV1Opts{
		Db:          dbInstance,
		ActorUserId: getIdentity(r).UserId,
		Task:        input.ToTask(getOrgAccess(r).Org.Id),
	})
	if err != nil {
		sendModelError(w, r, "failed to create task", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", handleCreateTaskV1Output{Id: taskId})
}

func handleUpdateTaskV1(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, canEditSolar) {
		return
	}
	input, ok := readTaskInput(w, r)
	if !ok {
		return
	}
	orgId := getOrgAccess(r).Org.Id
	task, err := models.UpdateTaskV1(r.Context(), models.UpdateTaskV1Opts{
		Db:          dbInstance,
		OrgId:       orgId,
		Id:          mux.Vars(r)["taskId"],
		ActorUserId: getIdentity(r).UserId,
		Update: func(existing solar.Task) (solar.Task, error) {
			next := input.ToTask(orgId)
			next.Id = existing.Id
			return next, nil
		},
	})
	if err != nil {
		sendModelError(w, r, "failed to update task", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", task)
}

func handleCompleteTaskV1(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, canEditSolar) {
		return
	}
	task, err := models.UpdateTaskV1(r.Context(), models.UpdateTaskV1Opts{
		Db:          dbInstance,
		OrgId:       getOrgAccess(r).Org.Id,
		Id:          mux.Vars(r)["taskId"],
		ActorUserId: getIdentity(r).UserId,
		Update: func(existing solar.Task) (solar.Task, error) {
			existing.Status = solar.TaskStatusDone
			return existing, nil
		},
	})
	if err != nil {
		sendModelError(w, r, "failed to complete task", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", task)
}
