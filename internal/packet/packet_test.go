package packet

import (
	"bytes"
	"fmt"
	"testing"
	"time"
	"tradedesk/internal/vendorcredit"

	"github.com/stretchr/testify/require"
)

func newInput() Input {
	expected := 120.5
	done := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	return Input{
		OrgName: "Northwind Supply",
		Case: vendorcredit.Case{
			Id:             "case-1",
			VendorName:     "Acme",
			Status:         vendorcredit.CaseStatusSubmitted,
			ExpectedCredit: &expected,
			CreatedAt:      time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		},
		Checklist: []vendorcredit.ChecklistItem{
			{Title: "Attach receipt", CompletedAt: &done},
			{Title: "Photograph the unit"},
		},
		Evidence: []vendorcredit.EvidenceFile{
			{Filename: "receipt.pdf", Url: "org-1/case-1/receipt.pdf"},
		},
	}
}

func texts(lines []Line) []string {
	output := make([]string, 0, len(lines))
	for _, line := range lines {
		output = append(output, line.Text)
	}
	return output
}

func TestLayout(t *testing.T) {
	lines := Layout(newInput())
	require.Equal(t, []string{
		Title,
		"Northwind Supply | Case case-1",
		"Created Mar 1, 2026",
		"Summary",
		"Vendor: Acme",
		"Status: SUBMITTED",
		"Expected credit: 120.5",
		"Actual credit: -",
		"Due date: -",
		"Checklist",
		"- [x] Attach receipt",
		"- [ ] Photograph the unit",
		"Evidence",
		"- receipt.pdf",
		"  stored-key://org-1/case-1/receipt.pdf",
		"Notes",
		"No internal notes.",
	}, texts(lines))

	require.Equal(t, 760.0, lines[0].Y)
	require.True(t, lines[0].Bold)
	require.Equal(t, 760.0-22, lines[1].Y)
	require.Equal(t, lines[2].Y-17-8, lines[3].Y, "sections add extra spacing")
}

func TestLayoutStopsAtBottomMargin(t *testing.T) {
	input := newInput()
	input.Checklist = nil
	for i := 0; i < 60; i++ {
		input.Checklist = append(input.Checklist, vendorcredit.ChecklistItem{Title: fmt.Sprintf("step %v", i)})
	}
	for i := 0; i < 15; i++ {
		input.Evidence = append(input.Evidence, vendorcredit.EvidenceFile{Filename: fmt.Sprintf("file-%v.jpg", i)})
	}
	lines := Layout(input)
	checklistLines := 0
	evidenceLines := 0
	for _, line := range lines {
		if len(line.Text) > 4 && line.Text[:4] == "- [ " {
			checklistLines++
		}
		if len(line.Text) > 7 && line.Text[:7] == "- file-" {
			evidenceLines++
		}
	}
	require.Less(t, checklistLines, 60)
	require.LessOrEqual(t, evidenceLines, 1, "evidence starts below the floor after a full checklist")
}

func TestLayoutLimitsEvidence(t *testing.T) {
	input := newInput()
	input.Evidence = nil
	for i := 0; i < 15; i++ {
		input.Evidence = append(input.Evidence, vendorcredit.EvidenceFile{Filename: fmt.Sprintf("f%v", i)})
	}
	input.Checklist = nil
	count := 0
	for _, line := range Layout(input) {
		if len(line.Text) > 3 && line.Text[:3] == "- f" {
			count++
		}
	}
	require.Equal(t, 10, count)
}

func TestRender(t *testing.T) {
	var buffer bytes.Buffer
	require.NoError(t, Render(&buffer, newInput()))
	require.True(t, bytes.HasPrefix(buffer.Bytes(), []byte("%PDF-")))
	require.Equal(t, "claim-packet-case-1.pdf", Filename("case-1"))
}
