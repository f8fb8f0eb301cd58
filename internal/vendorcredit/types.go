package vendorcredit

import "time"

type CaseStatus string

const (
	CaseStatusNew            CaseStatus = "NEW"
	CaseStatusNeedsInfo      CaseStatus = "NEEDS_INFO"
	CaseStatusReadyToSubmit  CaseStatus = "READY_TO_SUBMIT"
	CaseStatusSubmitted      CaseStatus = "SUBMITTED"
	CaseStatusApproved       CaseStatus = "APPROVED"
	CaseStatusDenied         CaseStatus = "DENIED"
	CaseStatusCreditReceived CaseStatus = "CREDIT_RECEIVED"
	CaseStatusClosed         CaseStatus = "CLOSED"
)

var CaseStatuses = []CaseStatus{
	CaseStatusNew,
	CaseStatusNeedsInfo,
	CaseStatusReadyToSubmit,
	CaseStatusSubmitted,
	CaseStatusApproved,
	CaseStatusDenied,
	CaseStatusCreditReceived,
	CaseStatusClosed,
}

type EvidenceType string

const (
	EvidenceTypeReceipt EvidenceType = "RECEIPT"
	EvidenceTypePhoto   EvidenceType = "PHOTO"
	EvidenceTypeInvoice EvidenceType = "INVOICE"
	EvidenceTypeOther   EvidenceType = "OTHER"
)

var EvidenceTypes = []EvidenceType{
	EvidenceTypeReceipt,
	EvidenceTypePhoto,
	EvidenceTypeInvoice,
	EvidenceTypeOther,
}

type EventType string

const (
	EventTypeCaseCreated      EventType = "CASE_CREATED"
	EventTypeCaseUpdated      EventType = "CASE_UPDATED"
	EventTypeEvidenceUploaded EventType = "EVIDENCE_UPLOADED"
	EventTypeImportCreated    EventType = "IMPORT_CREATED"
	EventTypeStatusChanged    EventType = "STATUS_CHANGED"
	EventTypeTemplateUpdated  EventType = "TEMPLATE_UPDATED"
)

type DedupeMode string

const (
	DedupeModeSkip   DedupeMode = "SKIP"
	DedupeModeUpdate DedupeMode = "UPDATE"
)

type ImportJobStatus string

const (
	ImportJobStatusUploaded   ImportJobStatus = "UPLOADED"
	ImportJobStatusReady      ImportJobStatus = "READY"
	ImportJobStatusProcessing ImportJobStatus = "PROCESSING"
	ImportJobStatusCompleted  ImportJobStatus = "COMPLETED"
	ImportJobStatusFailed     ImportJobStatus = "FAILED"
)

type ImportRowAction string

const (
	ImportRowActionCreated ImportRowAction = "CREATED"
	ImportRowActionUpdated ImportRowAction = "UPDATED"
	ImportRowActionSkipped ImportRowAction = "SKIPPED"
)

type Vendor struct {
	Id           string    `json:"id"`
	OrgId        string    `json:"orgId"`
	Name         string    `json:"name"`
	ContactEmail *string   `json:"contactEmail"`
	PortalUrl    *string   `json:"portalUrl"`
	Notes        *string   `json:"notes"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Case struct {
	Id                   string     `json:"id"`
	OrgId                string     `json:"orgId"`
	VendorId             string     `json:"vendorId"`
	VendorName           string     `json:"vendorName,omitempty"`
	TemplateId           *string    `json:"templateId"`
	Status               CaseStatus `json:"status"`
	PurchaseDate         *time.Time `json:"purchaseDate"`
	ReturnDate           *time.Time `json:"returnDate"`
	ReceiptId            *string    `json:"receiptId"`
	Sku                  *string    `json:"sku"`
	Upc                  *string    `json:"upc"`
	Brand                *string    `json:"brand"`
	Model                *string    `json:"model"`
	SerialNumber         *string    `json:"serialNumber"`
	Qty                  int        `json:"qty"`
	UnitCost             *float64   `json:"unitCost"`
	ExpectedCredit       *float64   `json:"expectedCredit"`
	ActualCredit         *float64   `json:"actualCredit"`
	CustomerReturnReason *string    `json:"customerReturnReason"`
	InternalNotes        *string    `json:"internalNotes"`
	DueDate              *time.Time `json:"dueDate"`
	CreatedBy            *string    `json:"createdBy"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

type ChecklistItem struct {
	Id             string     `json:"id"`
	OrgId          string     `json:"orgId"`
	CaseId         string     `json:"caseId"`
	StepId         string     `json:"stepId"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Required       bool       `json:"required"`
	FieldsNeeded   []string   `json:"fieldsNeeded"`
	DefaultDueDays *int       `json:"defaultDueDays"`
	CompletedAt    *time.Time `json:"completedAt"`
	CompletedBy    *string    `json:"completedBy"`
}

func (c ChecklistItem) IsCompleted() bool {
	return c.CompletedAt != nil
}

type EvidenceFile struct {
	Id         string       `json:"id"`
	OrgId      string       `json:"orgId"`
	CaseId     string       `json:"caseId"`
	Type       EvidenceType `json:"type"`
	Filename   string       `json:"filename"`
	MimeType   string       `json:"mimeType"`
	Size       int64        `json:"size"`
	Url        string       `json:"url"`
	UploadedBy *string      `json:"uploadedBy"`
	CreatedAt  time.Time    `json:"createdAt"`
}

type Event struct {
	Id          string    `json:"id"`
	OrgId       string    `json:"orgId"`
	CaseId      string    `json:"caseId"`
	ActorUserId *string   `json:"actorUserId"`
	Type        EventType `json:"type"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ImportJob struct {
	Id          string          `json:"id"`
	OrgId       string          `json:"orgId"`
	CreatedBy   *string         `json:"createdBy"`
	Filename    string          `json:"filename"`
	Status      ImportJobStatus `json:"status"`
	DedupeMode  DedupeMode      `json:"dedupeMode"`
	Mapping     *Mapping        `json:"mapping"`
	Headers     []string        `json:"headers"`
	RowCount    int             `json:"rowCount"`
	Error       *string         `json:"error"`
	CreatedAt   time.Time       `json:"createdAt"`
	CompletedAt *time.Time      `json:"completedAt"`
}

type ImportRow struct {
	Id           string            `json:"id"`
	JobId        string            `json:"jobId"`
	RowNumber    int               `json:"rowNumber"`
	Raw          map[string]string `json:"raw"`
	Parsed       *MappedRow        `json:"parsed"`
	Action       *ImportRowAction  `json:"action"`
	LinkedCaseId *string           `json:"linkedCaseId"`
	Error        *string           `json:"error"`
}
