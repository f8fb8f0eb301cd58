package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"tradedesk/internal/audit"
	"tradedesk/internal/common"
	"tradedesk/internal/controller/models"
	"tradedesk/internal/filters"

	"github.com/gorilla/mux"
)

func registerFilterRoutes(opts RouteRegistrationOpts) {
	requiresAuth := getRouteAuther(opts.ServiceLogs)
	requiresAdmin := getAdminAuther(opts.ServiceLogs)
	admin := func(handler http.HandlerFunc) http.Handler {
		return requiresAuth(requiresAdmin(handler))
	}

	v1 := opts.Router.PathPrefix("/v1/filters").Subrouter()
	v1.HandleFunc("", handleListFiltersV1).Methods(http.MethodGet)
	v1.HandleFunc("/search", handleSearchFiltersV1).Methods(http.MethodGet)
	v1.HandleFunc("/{filterId}", handleGetFilterV1).Methods(http.MethodGet)

	v1.Handle("", admin(handleCreateFilterV1)).Methods(http.MethodPost)
	v1.Handle("/import", admin(handleImportFiltersV1)).Methods(http.MethodPost)
	v1.Handle("/{filterId}", admin(handleUpdateFilterV1)).Methods(http.MethodPut)
	v1.Handle("/{filterId}", admin(handleDeleteFilterV1)).Methods(http.MethodDelete)
	v1.Handle("/{filterId}/aliases", admin(handleCreateFilterAliasV1)).Methods(http.MethodPost)
	v1.Handle("/{filterId}/aliases/{aliasId}", admin(handleDeleteFilterAliasV1)).Methods(http.MethodDelete)
}

type handleSearchFiltersV1Output struct {
	Query   string           `json:"query"`
	Size    *filters.Size    `json:"size"`
	Filters []filters.Filter `json:"filters"`
}

// handleSearchFiltersV1 looks filters up by free text, the `size` query
// parameter (or a size typed into `q`) narrows the match to a WxHxT
func handleSearchFiltersV1(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	size := filters.ParseSize(r.URL.Query().Get("size"))
	if size == nil {
		size = filters.ParseSize(query)
	}
	results, err := models.SearchFiltersV1(r.Context(), models.SearchFiltersV1Opts{
		Db:    dbInstance,
		Query: query,
		Size:  size,
	})
	if err != nil {
		sendModelError(w, r, "failed to search filters", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", handleSearchFiltersV1Output{
		Query:   query,
		Size:    size,
		Filters: results,
	})
}

func handleListFiltersV1(w http.ResponseWriter, r *http.Request) {
	output, err := models.ListFiltersV1(r.Context(), models.ListFiltersV1Opts{
		Db:   dbInstance,
		Page: queryInt(r, "page", 1),
	})
	if err != nil {
		sendModelError(w, r, "failed to list filters", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", output)
}

func handleGetFilterV1(w http.ResponseWriter, r *http.Request) {
	filter, err := models.GetFilterV1(r.Context(), models.GetFilterV1Opts{
		Db: dbInstance,
		Id: mux.Vars(r)["filterId"],
	})
	if err != nil {
		sendModelError(w, r, "failed to retrieve filter", err)
		return
	}
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", filter)
}

// readFilterInput parses an admin form posted as a flat JSON object keyed
// by the catalog's column names
func readFilterInput(w http.ResponseWriter, r *http.Request) (*filters.Input, bool) {
	values := map[string]string{}
	if err := readJsonBody(r, &values); err != nil {
		sendBodyError(w, r, err)
		return nil, false
	}
	input, err := filters.ParseInput(values)
	if err != nil {
		var inputError *filters.InputError
		if errors.As(err, &inputError) {
			common.SendHttpFailResponse(w, r, http.StatusBadRequest, inputError.Message, ErrorInvalidInput)
			return nil, false
		}
		sendBodyError(w, r, err)
		return nil, false
	}
	return input, true
}

type handleCreateFilterV1Output struct {
	Id string `json:"id"`
}

func handleCreateFilterV1(w http.ResponseWriter, r *http.Request) {
	input, ok := readFilterInput(w, r)
	if !ok {
		return
	}
	ids, err := models.CreateFiltersV1(r.Context(), models.CreateFiltersV1Opts{
		Db:     dbInstance,
		Inputs: []filters.Input{*input},
	})
	if err != nil {
		sendModelError(w, r, "failed to create filter", err)
		return
	}
	auditRequest(r, audit.LogEntry{
		Verb:         audit.Create,
		ResourceId:   ids[0],
		ResourceType: audit.FilterResource,
		Data:         map[string]any{"sku": input.Sku},
	})
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", handleCreateFilterV1Output{Id: ids[0]})
}

func handleUpdateFilterV1(w http.ResponseWriter, r *http.Request) {
	filterId := mux.Vars(r)["filterId"]
	input, ok := readFilterInput(w, r)
	if !ok {
		return
	}
	if err := models.UpdateFilterV1(r.Context(), models.UpdateFilterV1Opts{
		Db:    dbInstance,
		Id:    filterId,
		Input: *input,
	}); err != nil {
		sendModelError(w, r, "failed to update filter", err)
		return
	}
	auditRequest(r, audit.LogEntry{
		Verb:         audit.Update,
		ResourceId:   filterId,
		ResourceType: audit.FilterResource,
	})
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok")
}

func handleDeleteFilterV1(w http.ResponseWriter, r *http.Request) {
	filterId := mux.Vars(r)["filterId"]
	if err := models.DeleteFilterV1(r.Context(), models.DeleteFilterV1Opts{
		Db: dbInstance,
		Id: filterId,
	}); err != nil {
		sendModelError(w, r, "failed to delete filter", err)
		return
	}
	auditRequest(r, audit.LogEntry{
		Verb:         audit.Delete,
		ResourceId:   filterId,
		ResourceType: audit.FilterResource,
	})
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok")
}

type handleCreateFilterAliasV1Input struct {
	Alias string `json:"alias"`
}

func handleCreateFilterAliasV1(w http.ResponseWriter, r *http.Request) {
	filterId := mux.Vars(r)["filterId"]
	var input handleCreateFilterAliasV1Input
	if err := readJsonBody(r, &input); err != nil {
		sendBodyError(w, r, err)
		return
	}
	alias := strings.TrimSpace(input.Alias)
	if alias == "" {
		common.SendHttpFailResponse(w, r, http.StatusBadRequest, "alias is required.", ErrorInvalidInput)
		return
	}
	aliasId, err := models.CreateFilterAliasV1(r.Context(), models.CreateFilterAliasV1Opts{
		Db:       dbInstance,
		FilterId: filterId,
		Alias:    alias,
	})
	if err != nil {
		sendModelError(w, r, "failed to create alias", err)
		return
	}
	auditRequest(r, audit.LogEntry{
		Verb:         audit.Create,
		ResourceId:   aliasId,
		ResourceType: audit.FilterAliasResource,
		Data:         map[string]any{"filterId": filterId, "alias": alias},
	})
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", filters.Alias{Id: aliasId, Alias: alias, FilterId: filterId})
}

func handleDeleteFilterAliasV1(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := models.DeleteFilterAliasV1(r.Context(), models.DeleteFilterAliasV1Opts{
		Db:       dbInstance,
		FilterId: vars["filterId"],
		AliasId:  vars["aliasId"],
	}); err != nil {
		sendModelError(w, r, "failed to delete alias", err)
		return
	}
	auditRequest(r, audit.LogEntry{
		Verb:         audit.Delete,
		ResourceId:   vars["aliasId"],
		ResourceType: audit.FilterAliasResource,
	})
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok")
}

// readUploadedCsv returns the CSV sent either as the `file` part of a
// multipart form or as the raw request body
func readUploadedCsv(w http.ResponseWriter, r *http.Request) (io.ReadCloser, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSizeBytes)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadSizeBytes); err != nil {
			return nil, "", fmt.Errorf("failed to parse upload: %w", err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, "", fmt.Errorf("failed to receive a csv file: %w", err)
		}
		return file, header.Filename, nil
	}
	return r.Body, "upload.csv", nil
}

// handleImportFiltersV1 bulk-loads catalog rows from a CSV; the response
// always succeeds at the HTTP level and reports row failures in its body
func handleImportFiltersV1(w http.ResponseWriter, r *http.Request) {
	log := common.GetRequestLogger(r)
	file, filename, err := readUploadedCsv(w, r)
	if err != nil {
		sendBodyError(w, r, err)
		return
	}
	defer file.Close()

	result := filters.Import(r.Context(), file, func(ctx context.Context, inputs []filters.Input) error {
		_, err := models.CreateFiltersV1(ctx, models.CreateFiltersV1Opts{Db: dbInstance, Inputs: inputs})
		return err
	})
	log(common.LogLevelInfo, fmt.Sprintf("filter import of file[%s]: %s", filename, filters.FormatImportSummary(result)))
	auditRequest(r, audit.LogEntry{
		Verb:         audit.Import,
		ResourceType: audit.FilterResource,
		Data: map[string]any{
			"filename": filename,
			"inserted": result.Inserted,
			"failed":   result.Failed,
		},
	})
	common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok", result)
}
