package vendorcredit

import (
	"context"
	"fmt"
	"time"
	"tradedesk/internal/cache"
	"tradedesk/internal/common"
)

const (
	importLockKeyPrefix = "vendorcredit:import:lock:"
	importLockTtl       = 15 * time.Minute
)

// ImportStore is the persistence the import pipeline needs, lookups
// that find nothing return a nil pointer and a nil error
type ImportStore interface {
	GetImportJob(ctx context.Context, jobId string) (*ImportJob, error)
	ListImportRows(ctx context.Context, jobId string) ([]ImportRow, error)
	SetImportJobStatus(ctx context.Context, jobId string, status ImportJobStatus, errorMessage *string) error
	UpdateImportRow(ctx context.Context, row ImportRow) error

	UpsertVendorByName(ctx context.Context, orgId, name string) (*Vendor, error)
	GetOldestVendor(ctx context.Context, orgId string) (*Vendor, error)

	FindImportedCase(ctx context.Context, orgId, receiptId string, sku *string, returnDate *time.Time) (*Case, error)
	CreateCase(ctx context.Context, c Case) (*Case, error)
	// UpdateCaseFromImport overwrites the imported fields and moves the
	// case back to NEEDS_INFO
	UpdateCaseFromImport(ctx context.Context, caseId string, row MappedRow, returnDate *time.Time) error
	CreateEvent(ctx context.Context, event Event) error
}

type ImporterOpts struct {
	Store ImportStore

	// Cache is optional, when set a job is locked while it is processed
	// so that the queue consumer and the cron sweep never share one
	Cache       cache.Cache
	ServiceLogs chan<- common.ServiceLog
}

func NewImporter(opts ImporterOpts) *Importer {
	serviceLogs := opts.ServiceLogs
	if serviceLogs == nil {
		serviceLogs = common.GetNoopServiceLog()
	}
	return &Importer{
		store:       opts.Store,
		cache:       opts.Cache,
		serviceLogs: serviceLogs,
	}
}

type Importer struct {
	store       ImportStore
	cache       cache.Cache
	serviceLogs chan<- common.ServiceLog
}

type ImportSummary struct {
	JobId   string `json:"jobId"`
	Created int    `json:"created"`
	Updated int    `json:"updated"`
	Skipped int    `json:"skipped"`
}

// ProcessJob materialises the rows of a READY import job into cases.
// Any error after the job has been picked up marks it FAILED
func (i *Importer) ProcessJob(ctx context.Context, jobId string) (*ImportSummary, error) {
	if i.store == nil {
		return nil, ErrorStoreUndefined
	}
	if i.cache != nil {
		lockKey := importLockKeyPrefix + jobId
		isLocked, err := i.cache.SetNX(lockKey, time.Now().UTC().Format(time.RFC3339), importLockTtl)
		if err != nil {
			i.serviceLogs <- common.ServiceLogf(common.LogLevelWarn, "failed to lock import job[%s], continuing without it: %s", jobId, err)
		} else if !isLocked {
			return nil, fmt.Errorf("%w: import job[%s] is already being processed", ErrorImportJobNotReady, jobId)
		} else {
			defer i.cache.Del(lockKey)
		}
	}
	job, err := i.store.GetImportJob(ctx, jobId)
	if err != nil {
		return nil, fmt.Errorf("failed to get import job[%s]: %w", jobId, err)
	} else if job == nil {
		return nil, fmt.Errorf("%w: import job[%s]", ErrorImportJobNotFound, jobId)
	}
	if job.Status != ImportJobStatusReady {
		return nil, fmt.Errorf("%w: import job[%s] has status[%s]", ErrorImportJobNotReady, jobId, job.Status)
	}

	summary, processErr := i.process(ctx, job)
	if processErr != nil {
		message := processErr.Error()
		if err := i.store.SetImportJobStatus(ctx, job.Id, ImportJobStatusFailed, &message); err != nil {
			i.serviceLogs <- common.ServiceLogf(common.LogLevelError, "failed to mark import job[%s] as failed: %s", job.Id, err)
		}
		return nil, processErr
	}
	if err := i.store.SetImportJobStatus(ctx, job.Id, ImportJobStatusCompleted, nil); err != nil {
		return nil, fmt.Errorf("failed to complete import job[%s]: %w", job.Id, err)
	}
	i.serviceLogs <- common.ServiceLogf(
		common.LogLevelInfo,
		"import job[%s] completed: created[%v] updated[%v] skipped[%v]",
		job.Id, summary.Created, summary.Updated, summary.Skipped,
	)
	return summary, nil
}

func (i *Importer) process(ctx context.Context, job *ImportJob) (*ImportSummary, error) {
	if job.Mapping == nil {
		return nil, fmt.Errorf("%w: import job[%s]", ErrorImportMappingMissing, job.Id)
	}
	if err := i.store.SetImportJobStatus(ctx, job.Id, ImportJobStatusProcessing, nil); err != nil {
		return nil, fmt.Errorf("failed to start import job[%s]: %w", job.Id, err)
	}
	rows, err := i.store.ListImportRows(ctx, job.Id)
	if err != nil {
		return nil, fmt.Errorf("failed to list rows of import job[%s]: %w", job.Id, err)
	}
	dedupeMode := job.DedupeMode
	if !dedupeMode.IsValid() {
		dedupeMode = DedupeModeSkip
	}

	summary := &ImportSummary{JobId: job.Id}
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		action, err := i.processRow(ctx, job, dedupeMode, row)
		if err != nil {
			return nil, fmt.Errorf("failed to process row[%v] of import job[%s]: %w", row.RowNumber, job.Id, err)
		}
		importRowsTotal.WithLabelValues(string(action)).Inc()
		switch action {
		case ImportRowActionCreated:
			summary.Created++
		case ImportRowActionUpdated:
			summary.Updated++
		default:
			summary.Skipped++
		}
	}
	return summary, nil
}

func (i *Importer) processRow(ctx context.Context, job *ImportJob, mode DedupeMode, row ImportRow) (ImportRowAction, error) {
	parsed := MapRow(row.Raw, *job.Mapping)
	receiptId := NormalizeReceiptId(parsed.ReceiptId)
	returnDate := ParseIsoDate(parsed.ReturnDate)
	row.Parsed = &parsed

	vendor, err := i.resolveVendor(ctx, job.OrgId, parsed.VendorName)
	if err != nil {
		return "", err
	}
	if vendor == nil {
		message := MessageNoVendorForRow
		return i.finishRow(ctx, row, ImportRowActionSkipped, nil, &message)
	}

	var existing *Case
	if receiptId != nil {
		existing, err = i.store.FindImportedCase(ctx, job.OrgId, *receiptId, parsed.Sku, returnDate)
		if err != nil {
			return "", fmt.Errorf("failed to look up existing case: %w", err)
		}
	}

	switch ChooseDecision(existing != nil, mode) {
	case DecisionSkip:
		return i.finishRow(ctx, row, ImportRowActionSkipped, &existing.Id, nil)

	case DecisionUpdate:
		if err := i.store.UpdateCaseFromImport(ctx, existing.Id, parsed, returnDate); err != nil {
			return "", fmt.Errorf("failed to update case[%s]: %w", existing.Id, err)
		}
		if _, err := i.finishRow(ctx, row, ImportRowActionUpdated, &existing.Id, nil); err != nil {
			return "", err
		}
		if err := i.store.CreateEvent(ctx, Event{
			OrgId:       job.OrgId,
			CaseId:      existing.Id,
			ActorUserId: job.CreatedBy,
			Type:        EventTypeCaseUpdated,
			Message:     MessageCaseReimported,
		}); err != nil {
			return "", fmt.Errorf("failed to log event for case[%s]: %w", existing.Id, err)
		}
		return ImportRowActionUpdated, nil
	}

	created, err := i.store.CreateCase(ctx, Case{
		OrgId:                job.OrgId,
		VendorId:             vendor.Id,
		Status:               CaseStatusNew,
		Sku:                  parsed.Sku,
		ReceiptId:            receiptId,
		ReturnDate:           returnDate,
		CustomerReturnReason: parsed.CustomerReturnReason,
		InternalNotes:        parsed.Description,
		UnitCost:             parsed.UnitCost,
		Qty:                  parsed.Qty,
		ExpectedCredit:       parsed.ExpectedCredit,
		SerialNumber:         parsed.SerialNumber,
		Brand:                parsed.Brand,
		CreatedBy:            job.CreatedBy,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create case: %w", err)
	}
	if _, err := i.finishRow(ctx, row, ImportRowActionCreated, &created.Id, nil); err != nil {
		return "", err
	}
	if err := i.store.CreateEvent(ctx, Event{
		OrgId:       job.OrgId,
		CaseId:      created.Id,
		ActorUserId: job.CreatedBy,
		Type:        EventTypeImportCreated,
		Message:     MessageCaseImported,
	}); err != nil {
		return "", fmt.Errorf("failed to log event for case[%s]: %w", created.Id, err)
	}
	return ImportRowActionCreated, nil
}

// resolveVendor upserts the named vendor, rows without a vendor fall
// back to the org's oldest vendor
func (i *Importer) resolveVendor(ctx context.Context, orgId string, vendorName *string) (*Vendor, error) {
	if vendorName != nil && *vendorName != "" {
		vendor, err := i.store.UpsertVendorByName(ctx, orgId, *vendorName)
		if err != nil {
			return nil, fmt.Errorf("failed to upsert vendor[%s]: %w", *vendorName, err)
		}
		if vendor != nil {
			return vendor, nil
		}
	}
	vendor, err := i.store.GetOldestVendor(ctx, orgId)
	if err != nil {
		return nil, fmt.Errorf("failed to get default vendor: %w", err)
	}
	return vendor, nil
}

func (i *Importer) finishRow(ctx context.Context, row ImportRow, action ImportRowAction, linkedCaseId, errorMessage *string) (ImportRowAction, error) {
	row.Action = &action
	row.LinkedCaseId = linkedCaseId
	row.Error = errorMessage
	if err := i.store.UpdateImportRow(ctx, row); err != nil {
		return "", fmt.Errorf("failed to update import row[%s]: %w", row.Id, err)
	}
	return action, nil
}
