package vendorcredit

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func intPtr(value int) *int {
	return &value
}

func TestComputeDueDate(t *testing.T) {
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	spec := TemplateSpec{
		SlaDays: 10,
		Steps: []Step{
			{Id: "a", Title: "A", Required: true, DefaultDueDays: intPtr(3)},
			{Id: "b", Title: "B", Required: true, DefaultDueDays: intPtr(14)},
		},
	}
	require.Equal(t, time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC), spec.ComputeDueDate(base))

	spec.Steps[1].DefaultDueDays = nil
	require.Equal(t, time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC), spec.ComputeDueDate(base))
}

func TestCollectRequiredFields(t *testing.T) {
	spec := TemplateSpec{
		RequiredFields: []string{"serialNumber", "receipt"},
		Steps: []Step{
			{Id: "a", Title: "Collect photo", Required: true, FieldsNeeded: []string{"photo", "receipt"}},
			{Id: "b", Title: "Optional note", Required: false, FieldsNeeded: []string{"ignoredField"}},
		},
	}
	require.Equal(t, []string{"serialNumber", "receipt", "photo"}, spec.CollectRequiredFields())

	duplicated := TemplateSpec{
		RequiredFields: []string{"sku", "sku"},
		Steps:          []Step{{Id: "a", Title: "Scan", Required: true, FieldsNeeded: []string{"sku", "serial", "serial"}}},
	}
	require.Equal(t, []string{"sku", "serial"}, duplicated.CollectRequiredFields())
	require.Equal(t, []string{}, TemplateSpec{}.CollectRequiredFields())
}

func TestBuildChecklistItems(t *testing.T) {
	spec := TemplateSpec{
		Steps: []Step{
			{Id: "step-1", Title: "Attach receipt", Required: true, FieldsNeeded: []string{"receipt"}, DefaultDueDays: intPtr(2)},
		},
	}
	items := spec.BuildChecklistItems("org-1", "case-1")
	require.Len(t, items, 1)
	require.Equal(t, "org-1", items[0].OrgId)
	require.Equal(t, "case-1", items[0].CaseId)
	require.Equal(t, "step-1", items[0].StepId)
	require.Equal(t, "Attach receipt", items[0].Title)
	require.True(t, items[0].Required)
	require.Nil(t, items[0].CompletedAt)
}

func TestParseTemplateDocument(t *testing.T) {
	document, err := ParseTemplateDocument([]byte(`
apiVersion: v1
type: ClaimTemplate
metadata:
  name: acme-returns
spec:
  name: Acme returns
  slaDays: 30
  requiredFields: [serialNumber]
  steps:
    - id: attach-receipt
      title: Attach the receipt
      fieldsNeeded: [receipt]
    - id: vendor-portal
      title: File on the vendor portal
      required: false
      defaultDueDays: 5
`))
	require.NoError(t, err)
	require.Equal(t, "acme-returns", document.Metadata.Name)
	require.Equal(t, 30, document.Spec.SlaDays)
	require.Len(t, document.Spec.Steps, 2)
	require.True(t, document.Spec.Steps[0].Required, "required defaults to true")
	require.False(t, document.Spec.Steps[1].Required)
	require.Equal(t, 5, *document.Spec.Steps[1].DefaultDueDays)
}

func TestTemplateValidate(t *testing.T) {
	err := TemplateSpec{
		Name:    "A",
		SlaDays: 400,
		Steps: []Step{
			{Id: "  ", Title: "x", DefaultDueDays: intPtr(-1)},
			{Id: "dup", Title: ""},
			{Id: "dup", Title: "y"},
		},
	}.Validate()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrorInvalidTemplate))
	for _, fragment := range []string{"name", "slaDays", "steps[0].id", "steps[0].defaultDueDays", "steps[1].title", "steps[2].id[dup] is duplicated"} {
		require.ErrorContains(t, err, fragment)
	}

	require.ErrorContains(t, TemplateSpec{Name: "Acme", SlaDays: 5}.Validate(), "at least one step")

	require.NoError(t, TemplateSpec{
		Name:    "Acme returns",
		SlaDays: 5,
		Steps: []Step{
			{Id: "Upload receipt", Title: "Upload the receipt", Required: true},
			{Id: "-photo", Title: "Photograph the unit"},
		},
	}.Validate())

	_, err = ParseTemplateDocument([]byte("type: Automation\nspec: {}\n"))
	require.ErrorIs(t, err, ErrorInvalidTemplate)
}

func TestStepUnmarshalJSONDefaultsRequired(t *testing.T) {
	var step Step
	require.NoError(t, step.UnmarshalJSON([]byte(`{"id":"a","title":"A"}`)))
	require.True(t, step.Required)
	require.NoError(t, step.UnmarshalJSON([]byte(`{"id":"a","title":"A","required":false}`)))
	require.False(t, step.Required)
}
