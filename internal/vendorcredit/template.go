package vendorcredit

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"
	"tradedesk/internal/common"
	"tradedesk/internal/validate"

	"gopkg.in/yaml.v3"
)

const (
	TemplateResourceType  = "ClaimTemplate"
	TemplateNameMinLength = 2
	TemplateSlaDaysMin    = 1
	TemplateSlaDaysMax    = 365
)

// Step is a single checklist step of a claim template. Required
// defaults to true when the field is absent from the document
type Step struct {
	Id             string   `json:"id" yaml:"id"`
	Title          string   `json:"title" yaml:"title"`
	Description    string   `json:"description" yaml:"description"`
	Required       bool     `json:"required" yaml:"required"`
	FieldsNeeded   []string `json:"fieldsNeeded" yaml:"fieldsNeeded"`
	DefaultDueDays *int     `json:"defaultDueDays,omitempty" yaml:"defaultDueDays,omitempty"`
}

func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	type plain Step
	raw := plain{Required: true}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*s = Step(raw)
	return nil
}

func (s *Step) UnmarshalJSON(data []byte) error {
	type plain Step
	raw := plain{Required: true}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Step(raw)
	return nil
}

type TemplateSpec struct {
	Name           string   `json:"name" yaml:"name"`
	SlaDays        int      `json:"slaDays" yaml:"slaDays"`
	RequiredFields []string `json:"requiredFields" yaml:"requiredFields"`
	Steps          []Step   `json:"steps" yaml:"steps"`
}

func (t TemplateSpec) Validate() error {
	errs := []error{}
	if len(strings.TrimSpace(t.Name)) < TemplateNameMinLength {
		errs = append(errs, fmt.Errorf("name must be at least %v characters", TemplateNameMinLength))
	}
	if t.SlaDays < TemplateSlaDaysMin || t.SlaDays > TemplateSlaDaysMax {
		errs = append(errs, fmt.Errorf("slaDays must be between %v and %v", TemplateSlaDaysMin, TemplateSlaDaysMax))
	}
	if len(t.Steps) == 0 {
		errs = append(errs, fmt.Errorf("at least one step is required"))
	}
	seen := map[string]struct{}{}
	for i, step := range t.Steps {
		if err := validate.StepKey(step.Id); err != nil {
			errs = append(errs, fmt.Errorf("steps[%v].id[%s] is invalid: %w", i, step.Id, err))
		}
		if _, ok := seen[step.Id]; ok {
			errs = append(errs, fmt.Errorf("steps[%v].id[%s] is duplicated", i, step.Id))
		}
		seen[step.Id] = struct{}{}
		if strings.TrimSpace(step.Title) == "" {
			errs = append(errs, fmt.Errorf("steps[%v].title is required", i))
		}
		if step.DefaultDueDays != nil && *step.DefaultDueDays < 0 {
			errs = append(errs, fmt.Errorf("steps[%v].defaultDueDays must not be negative", i))
		}
	}
	if len(errs) > 0 {
		errs = append([]error{ErrorInvalidTemplate}, errs...)
		return errors.Join(errs...)
	}
	return nil
}

// ComputeDueDate adds the larger of the SLA and the longest step
// default to base
func (t TemplateSpec) ComputeDueDate(base time.Time) time.Time {
	maxDays := max(t.SlaDays, 0)
	for _, step := range t.Steps {
		if step.DefaultDueDays != nil && *step.DefaultDueDays > maxDays {
			maxDays = *step.DefaultDueDays
		}
	}
	return base.AddDate(0, 0, maxDays)
}

// CollectRequiredFields merges the template's required fields with the
// fields needed by its required steps, first occurrence wins the order
func (t TemplateSpec) CollectRequiredFields() []string {
	output := []string{}
	add := func(fields []string) {
		for _, field := range fields {
			if !slices.Contains(output, field) {
				output = append(output, field)
			}
		}
	}
	add(t.RequiredFields)
	for _, step := range t.Steps {
		if step.Required {
			add(step.FieldsNeeded)
		}
	}
	return output
}

// BuildChecklistItems copies the template steps onto a case
func (t TemplateSpec) BuildChecklistItems(orgId, caseId string) []ChecklistItem {
	output := make([]ChecklistItem, 0, len(t.Steps))
	for _, step := range t.Steps {
		fieldsNeeded := slices.Clone(step.FieldsNeeded)
		if fieldsNeeded == nil {
			fieldsNeeded = []string{}
		}
		output = append(output, ChecklistItem{
			OrgId:          orgId,
			CaseId:         caseId,
			StepId:         step.Id,
			Title:          step.Title,
			Description:    step.Description,
			Required:       step.Required,
			FieldsNeeded:   fieldsNeeded,
			DefaultDueDays: step.DefaultDueDays,
		})
	}
	return output
}

// ClaimTemplate is a template as stored for an org, optionally scoped
// to a single vendor
type ClaimTemplate struct {
	Id        string    `json:"id"`
	OrgId     string    `json:"orgId"`
	VendorId  *string   `json:"vendorId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	TemplateSpec
}

// TemplateDocument is the YAML form of a claim template
type TemplateDocument struct {
	common.Resource `json:"resource" yaml:",inline"`
	Spec            TemplateSpec `json:"spec" yaml:"spec"`
}

func (d *TemplateDocument) ToYaml() ([]byte, error) {
	return yaml.Marshal(d)
}

// ParseTemplateDocument decodes and validates a YAML claim template
func ParseTemplateDocument(data []byte) (*TemplateDocument, error) {
	var document TemplateDocument
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("failed to parse template yaml: %w", err)
	}
	if document.Type != TemplateResourceType {
		return nil, fmt.Errorf("%w: expected type[%s] but got[%s]", ErrorInvalidTemplate, TemplateResourceType, document.Type)
	}
	if err := document.Spec.Validate(); err != nil {
		return nil, err
	}
	return &document, nil
}

// LoadTemplateFromFile reads a YAML claim template from disk
func LoadTemplateFromFile(path string) (*TemplateDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template at path[%s]: %w", path, err)
	}
	return ParseTemplateDocument(data)
}
