package vendorcredit

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"tradedesk/internal/validate"
)

const (
	EvidenceFilenameMaxLength = 255
	EvidenceMimeTypeMaxLength = 255
	EvidenceMaxSizeBytes      = 20 * 1024 * 1024
)

type VendorInput struct {
	Name         string  `json:"name"`
	ContactEmail *string `json:"contactEmail"`
	PortalUrl    *string `json:"portalUrl"`
	Notes        *string `json:"notes"`
}

// Normalize trims every field and turns blank optionals into nil
func (v *VendorInput) Normalize() {
	v.Name = strings.TrimSpace(v.Name)
	v.ContactEmail = trimOptional(v.ContactEmail)
	v.PortalUrl = trimOptional(v.PortalUrl)
	v.Notes = trimOptional(v.Notes)
}

func (v VendorInput) Validate() error {
	errs := []error{}
	if err := validate.VendorName(v.Name); err != nil {
		errs = append(errs, fmt.Errorf("name is invalid: %w", err))
	}
	if v.ContactEmail != nil {
		if err := validate.Email(*v.ContactEmail); err != nil {
			errs = append(errs, fmt.Errorf("contactEmail is invalid: %w", err))
		}
	}
	if v.PortalUrl != nil {
		if parsed, err := url.ParseRequestURI(*v.PortalUrl); err != nil || parsed.Host == "" {
			errs = append(errs, fmt.Errorf("portalUrl[%s] is not a valid url", *v.PortalUrl))
		}
	}
	if len(errs) > 0 {
		errs = append([]error{ErrorInvalidInput}, errs...)
		return errors.Join(errs...)
	}
	return nil
}

func (v VendorInput) ToVendor(orgId string) Vendor {
	return Vendor{
		OrgId:        orgId,
		Name:         v.Name,
		ContactEmail: v.ContactEmail,
		PortalUrl:    v.PortalUrl,
		Notes:        v.Notes,
	}
}

type CaseInput struct {
	VendorId             string   `json:"vendorId"`
	TemplateId           *string  `json:"templateId"`
	PurchaseDate         *string  `json:"purchaseDate"`
	ReturnDate           *string  `json:"returnDate"`
	ReceiptId            *string  `json:"receiptId"`
	Sku                  *string  `json:"sku"`
	Upc                  *string  `json:"upc"`
	Brand                *string  `json:"brand"`
	Model                *string  `json:"model"`
	SerialNumber         *string  `json:"serialNumber"`
	Qty                  *int     `json:"qty"`
	UnitCost             *float64 `json:"unitCost"`
	ExpectedCredit       *float64 `json:"expectedCredit"`
	CustomerReturnReason *string  `json:"customerReturnReason"`
	InternalNotes        *string  `json:"internalNotes"`
}

func (c *CaseInput) Normalize() {
	c.VendorId = strings.TrimSpace(c.VendorId)
	for _, field := range []**string{
		&c.TemplateId,
		&c.PurchaseDate,
		&c.ReturnDate,
		&c.ReceiptId,
		&c.Sku,
		&c.Upc,
		&c.Brand,
		&c.Model,
		&c.SerialNumber,
		&c.CustomerReturnReason,
		&c.InternalNotes,
	} {
		*field = trimOptional(*field)
	}
	if c.Qty == nil {
		qty := 1
		c.Qty = &qty
	}
}

func (c CaseInput) Validate() error {
	errs := []error{}
	if c.VendorId == "" {
		errs = append(errs, fmt.Errorf("vendorId is required"))
	}
	if c.Qty != nil && *c.Qty < 1 {
		errs = append(errs, fmt.Errorf("qty must be at least 1"))
	}
	if c.UnitCost != nil && *c.UnitCost < 0 {
		errs = append(errs, fmt.Errorf("unitCost must not be negative"))
	}
	if c.ExpectedCredit != nil && *c.ExpectedCredit < 0 {
		errs = append(errs, fmt.Errorf("expectedCredit must not be negative"))
	}
	if c.PurchaseDate != nil && ParseIsoDate(c.PurchaseDate) == nil {
		errs = append(errs, fmt.Errorf("purchaseDate[%s] is not a valid date", *c.PurchaseDate))
	}
	if c.ReturnDate != nil && ParseIsoDate(c.ReturnDate) == nil {
		errs = append(errs, fmt.Errorf("returnDate[%s] is not a valid date", *c.ReturnDate))
	}
	if len(errs) > 0 {
		errs = append([]error{ErrorInvalidInput}, errs...)
		return errors.Join(errs...)
	}
	return nil
}

// ToCase builds a NEW case, the caller applies template defaults
func (c CaseInput) ToCase(orgId string) Case {
	qty := 1
	if c.Qty != nil {
		qty = *c.Qty
	}
	return Case{
		OrgId:                orgId,
		VendorId:             c.VendorId,
		TemplateId:           c.TemplateId,
		Status:               CaseStatusNew,
		PurchaseDate:         ParseIsoDate(c.PurchaseDate),
		ReturnDate:           ParseIsoDate(c.ReturnDate),
		ReceiptId:            c.ReceiptId,
		Sku:                  c.Sku,
		Upc:                  c.Upc,
		Brand:                c.Brand,
		Model:                c.Model,
		SerialNumber:         c.SerialNumber,
		Qty:                  qty,
		UnitCost:             c.UnitCost,
		ExpectedCredit:       c.ExpectedCredit,
		CustomerReturnReason: c.CustomerReturnReason,
		InternalNotes:        c.InternalNotes,
	}
}

type UpdateCaseInput struct {
	CaseInput
	Status       *CaseStatus `json:"status"`
	ActualCredit *float64    `json:"actualCredit"`
}

func (u UpdateCaseInput) Validate() error {
	errs := []error{}
	if err := u.CaseInput.Validate(); err != nil {
		errs = append(errs, err)
	}
	if u.Status != nil && !u.Status.IsValid() {
		errs = append(errs, fmt.Errorf("status[%s] is not a valid case status", *u.Status))
	}
	if u.ActualCredit != nil && *u.ActualCredit < 0 {
		errs = append(errs, fmt.Errorf("actualCredit must not be negative"))
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Apply merges the update into existing and returns the result. A
// status change is checked against the transition table
func (u UpdateCaseInput) Apply(existing Case) (Case, error) {
	updated := u.ToCase(existing.OrgId)
	updated.Id = existing.Id
	updated.Status = existing.Status
	updated.DueDate = existing.DueDate
	updated.CreatedBy = existing.CreatedBy
	updated.CreatedAt = existing.CreatedAt
	updated.ActualCredit = u.ActualCredit
	if u.Status != nil {
		if !CanTransition(existing.Status, *u.Status) {
			return existing, fmt.Errorf("%w: from[%s] to[%s]", ErrorInvalidTransition, existing.Status, *u.Status)
		}
		updated.Status = *u.Status
	}
	return updated, nil
}

type EvidenceInput struct {
	Filename string       `json:"filename"`
	MimeType string       `json:"mimeType"`
	Size     int64        `json:"size"`
	Type     EvidenceType `json:"type"`
	Key      string       `json:"key"`
}

func (e EvidenceInput) Validate() error {
	errs := []error{}
	if e.Filename == "" || len(e.Filename) > EvidenceFilenameMaxLength {
		errs = append(errs, fmt.Errorf("filename must be between 1 and %v characters", EvidenceFilenameMaxLength))
	}
	if e.MimeType == "" || len(e.MimeType) > EvidenceMimeTypeMaxLength {
		errs = append(errs, fmt.Errorf("mimeType must be between 1 and %v characters", EvidenceMimeTypeMaxLength))
	}
	if e.Size <= 0 || e.Size > EvidenceMaxSizeBytes {
		errs = append(errs, fmt.Errorf("size must be between 1 and %v bytes", EvidenceMaxSizeBytes))
	}
	if !e.Type.IsValid() {
		errs = append(errs, fmt.Errorf("type[%s] is not a valid evidence type", e.Type))
	}
	if strings.TrimSpace(e.Key) == "" {
		errs = append(errs, fmt.Errorf("key is required"))
	}
	if len(errs) > 0 {
		errs = append([]error{ErrorInvalidInput}, errs...)
		return errors.Join(errs...)
	}
	return nil
}

func (e EvidenceInput) ToEvidenceFile(orgId, caseId string, uploadedBy *string) EvidenceFile {
	return EvidenceFile{
		OrgId:      orgId,
		CaseId:     caseId,
		Type:       e.Type,
		Filename:   e.Filename,
		MimeType:   e.MimeType,
		Size:       e.Size,
		Url:        e.Key,
		UploadedBy: uploadedBy,
	}
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
