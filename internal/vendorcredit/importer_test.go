package vendorcredit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
	"tradedesk/internal/cache"

	"github.com/stretchr/testify/require"
)

type fakeImportStore struct {
	job      *ImportJob
	rows     []ImportRow
	statuses []ImportJobStatus
	jobError *string

	vendors []Vendor
	cases   []Case
	updated map[string]MappedRow
	events  []Event

	failCreate bool
}

func (f *fakeImportStore) GetImportJob(ctx context.Context, jobId string) (*ImportJob, error) {
	if f.job == nil || f.job.Id != jobId {
		return nil, nil
	}
	return f.job, nil
}

func (f *fakeImportStore) ListImportRows(ctx context.Context, jobId string) ([]ImportRow, error) {
	return f.rows, nil
}

func (f *fakeImportStore) SetImportJobStatus(ctx context.Context, jobId string, status ImportJobStatus, errorMessage *string) error {
	f.statuses = append(f.statuses, status)
	f.jobError = errorMessage
	return nil
}

func (f *fakeImportStore) UpdateImportRow(ctx context.Context, row ImportRow) error {
	for i := range f.rows {
		if f.rows[i].Id == row.Id {
			f.rows[i] = row
			return nil
		}
	}
	return fmt.Errorf("row[%s] not found", row.Id)
}

func (f *fakeImportStore) UpsertVendorByName(ctx context.Context, orgId, name string) (*Vendor, error) {
	for _, vendor := range f.vendors {
		if vendor.OrgId == orgId && vendor.Name == name {
			return &vendor, nil
		}
	}
	vendor := Vendor{Id: fmt.Sprintf("vendor-%v", len(f.vendors)+1), OrgId: orgId, Name: name}
	f.vendors = append(f.vendors, vendor)
	return &vendor, nil
}

func (f *fakeImportStore) GetOldestVendor(ctx context.Context, orgId string) (*Vendor, error) {
	for _, vendor := range f.vendors {
		if vendor.OrgId == orgId {
			return &vendor, nil
		}
	}
	return nil, nil
}

func (f *fakeImportStore) FindImportedCase(ctx context.Context, orgId, receiptId string, sku *string, returnDate *time.Time) (*Case, error) {
	for _, c := range f.cases {
		if c.OrgId != orgId || c.ReceiptId == nil || *c.ReceiptId != receiptId {
			continue
		}
		if stringOrEmpty(c.Sku) != stringOrEmpty(sku) {
			continue
		}
		if (c.ReturnDate == nil) != (returnDate == nil) || (c.ReturnDate != nil && !c.ReturnDate.Equal(*returnDate)) {
			continue
		}
		return &c, nil
	}
	return nil, nil
}

func (f *fakeImportStore) CreateCase(ctx context.Context, c Case) (*Case, error) {
	if f.failCreate {
		return nil, errors.New("insert failed")
	}
	c.Id = fmt.Sprintf("case-%v", len(f.cases)+1)
	f.cases = append(f.cases, c)
	return &c, nil
}

func (f *fakeImportStore) UpdateCaseFromImport(ctx context.Context, caseId string, row MappedRow, returnDate *time.Time) error {
	if f.updated == nil {
		f.updated = map[string]MappedRow{}
	}
	f.updated[caseId] = row
	return nil
}

func (f *fakeImportStore) CreateEvent(ctx context.Context, event Event) error {
	f.events = append(f.events, event)
	return nil
}

func newImportFixture(mode DedupeMode) *fakeImportStore {
	createdBy := "user-1"
	return &fakeImportStore{
		job: &ImportJob{
			Id:         "job-1",
			OrgId:      "org-1",
			CreatedBy:  &createdBy,
			Status:     ImportJobStatusReady,
			DedupeMode: mode,
			Mapping: &Mapping{
				Sku:        "sku",
				Vendor:     "vendor",
				ReceiptId:  "receipt",
				ReturnDate: "returned",
				Qty:        "qty",
			},
		},
		rows: []ImportRow{
			{Id: "row-1", JobId: "job-1", RowNumber: 1, Raw: map[string]string{"sku": "A", "vendor": "Acme", "receipt": "R-1", "returned": "2026-02-01", "qty": "2"}},
			{Id: "row-2", JobId: "job-1", RowNumber: 2, Raw: map[string]string{"sku": "B", "vendor": "", "receipt": "", "returned": "", "qty": ""}},
		},
	}
}

func TestProcessJobCreatesCases(t *testing.T) {
	store := newImportFixture(DedupeModeSkip)
	summary, err := NewImporter(ImporterOpts{Store: store}).ProcessJob(context.Background(), "job-1")
	require.NoError(t, err)
	require.Equal(t, 2, summary.Created)
	require.Equal(t, []ImportJobStatus{ImportJobStatusProcessing, ImportJobStatusCompleted}, store.statuses)

	require.Len(t, store.cases, 2)
	require.Equal(t, CaseStatusNew, store.cases[0].Status)
	require.Equal(t, 2, store.cases[0].Qty)
	require.Equal(t, "vendor-1", store.cases[1].VendorId, "rows without a vendor fall back to the oldest vendor")
	require.Nil(t, store.cases[1].ReceiptId)

	require.Len(t, store.events, 2)
	require.Equal(t, EventTypeImportCreated, store.events[0].Type)
	require.Equal(t, "user-1", *store.events[0].ActorUserId)
	require.Equal(t, ImportRowActionCreated, *store.rows[0].Action)
	require.Equal(t, "case-1", *store.rows[0].LinkedCaseId)
}

func TestProcessJobDedupe(t *testing.T) {
	returned := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	existing := Case{Id: "case-9", OrgId: "org-1", ReceiptId: strPtr("R-1"), Sku: strPtr("A"), ReturnDate: &returned}

	store := newImportFixture(DedupeModeSkip)
	store.cases = []Case{existing}
	store.rows = store.rows[:1]
	summary, err := NewImporter(ImporterOpts{Store: store}).ProcessJob(context.Background(), "job-1")
	require.NoError(t, err)
	require.Equal(t, 1, summary.Skipped)
	require.Equal(t, ImportRowActionSkipped, *store.rows[0].Action)
	require.Equal(t, "case-9", *store.rows[0].LinkedCaseId)
	require.Empty(t, store.events)

	store = newImportFixture(DedupeModeUpdate)
	store.cases = []Case{existing}
	store.rows = store.rows[:1]
	summary, err = NewImporter(ImporterOpts{Store: store}).ProcessJob(context.Background(), "job-1")
	require.NoError(t, err)
	require.Equal(t, 1, summary.Updated)
	require.Contains(t, store.updated, "case-9")
	require.Equal(t, EventTypeCaseUpdated, store.events[0].Type)
	require.Equal(t, MessageCaseReimported, store.events[0].Message)
}

func TestProcessJobSkipsRowsWithoutVendor(t *testing.T) {
	store := newImportFixture(DedupeModeSkip)
	store.rows = store.rows[1:]
	summary, err := NewImporter(ImporterOpts{Store: store}).ProcessJob(context.Background(), "job-1")
	require.NoError(t, err)
	require.Equal(t, 1, summary.Skipped)
	require.Equal(t, MessageNoVendorForRow, *store.rows[0].Error)
	require.Empty(t, store.cases)
}

func TestProcessJobFailures(t *testing.T) {
	importer := NewImporter(ImporterOpts{Store: newImportFixture(DedupeModeSkip)})
	_, err := importer.ProcessJob(context.Background(), "job-404")
	require.ErrorIs(t, err, ErrorImportJobNotFound)

	store := newImportFixture(DedupeModeSkip)
	store.job.Status = ImportJobStatusCompleted
	_, err = NewImporter(ImporterOpts{Store: store}).ProcessJob(context.Background(), "job-1")
	require.ErrorIs(t, err, ErrorImportJobNotReady)

	store = newImportFixture(DedupeModeSkip)
	store.job.Mapping = nil
	_, err = NewImporter(ImporterOpts{Store: store}).ProcessJob(context.Background(), "job-1")
	require.ErrorIs(t, err, ErrorImportMappingMissing)
	require.Equal(t, []ImportJobStatus{ImportJobStatusFailed}, store.statuses)

	store = newImportFixture(DedupeModeSkip)
	store.failCreate = true
	_, err = NewImporter(ImporterOpts{Store: store}).ProcessJob(context.Background(), "job-1")
	require.Error(t, err)
	require.Equal(t, []ImportJobStatus{ImportJobStatusProcessing, ImportJobStatusFailed}, store.statuses)
	require.True(t, strings.Contains(*store.jobError, "insert failed"))

	_, err = NewImporter(ImporterOpts{}).ProcessJob(context.Background(), "job-1")
	require.ErrorIs(t, err, ErrorStoreUndefined)
}

func TestProcessJobHoldsLock(t *testing.T) {
	memory := cache.NewMemory()
	isSet, err := memory.SetNX(importLockKeyPrefix+"job-1", "held", time.Minute)
	require.NoError(t, err)
	require.True(t, isSet)

	store := newImportFixture(DedupeModeSkip)
	importer := NewImporter(ImporterOpts{Store: store, Cache: memory})
	_, err = importer.ProcessJob(context.Background(), "job-1")
	require.ErrorIs(t, err, ErrorImportJobNotReady)
	require.Empty(t, store.statuses)

	require.NoError(t, memory.Del(importLockKeyPrefix+"job-1"))
	summary, err := importer.ProcessJob(context.Background(), "job-1")
	require.NoError(t, err)
	require.Equal(t, "job-1", summary.JobId)
	_, err = memory.Get(importLockKeyPrefix + "job-1")
	require.ErrorIs(t, err, cache.ErrorKeyNotFound)
}
