package packet

import (
	"fmt"
	"io"
	"strconv"
	"time"
	"tradedesk/internal/vendorcredit"

	"github.com/go-pdf/fpdf"
)

const (
	ContentType = "application/pdf"
	Title       = "VendorCredit Radar - Claim Packet"

	PageWidth  = 612.0
	PageHeight = 792.0

	marginLeft     = 40.0
	cursorStart    = 760.0
	cursorFloor    = 90.0
	sectionSpacing = 8.0
	lineSpacing    = 6.0
	bodySize       = 11.0
	titleSize      = 16.0
	fontFamily     = "Helvetica"

	maxEvidenceFiles = 10
	dateLabelLayout  = "Jan 2, 2006"
	emptyLabel       = "-"
	noNotesLabel     = "No internal notes."
	storedKeyScheme  = "stored-key://"
)

// Input is everything a claim packet shows, Case.VendorName must be
// populated by the caller
type Input struct {
	OrgName   string
	Case      vendorcredit.Case
	Checklist []vendorcredit.ChecklistItem
	Evidence  []vendorcredit.EvidenceFile
}

// Line is a single line of text positioned with Y measured from the
// bottom edge of the page
type Line struct {
	Text string
	Bold bool
	Size float64
	Y    float64
}

func Filename(caseId string) string {
	return fmt.Sprintf("claim-packet-%s.pdf", caseId)
}

type layout struct {
	cursor float64
	lines  []Line
}

func (l *layout) draw(text string, bold bool, size float64) {
	l.lines = append(l.lines, Line{Text: text, Bold: bold, Size: size, Y: l.cursor})
	l.cursor -= size + lineSpacing
}

func (l *layout) line(text string) {
	l.draw(text, false, bodySize)
}

func (l *layout) heading(text string) {
	l.draw(text, true, bodySize)
}

func (l *layout) section() {
	l.cursor -= sectionSpacing
}

// Layout computes the lines of a single page packet. The checklist and
// evidence sections stop early once the cursor passes the bottom margin
func Layout(input Input) []Line {
	c := input.Case
	l := &layout{cursor: cursorStart}

	l.draw(Title, true, titleSize)
	l.line(fmt.Sprintf("%s | Case %s", input.OrgName, c.Id))
	l.line("Created " + dateLabel(&c.CreatedAt))
	l.section()

	l.heading("Summary")
	l.line("Vendor: " + c.VendorName)
	l.line("Status: " + string(c.Status))
	l.line("Expected credit: " + moneyLabel(c.ExpectedCredit))
	l.line("Actual credit: " + moneyLabel(c.ActualCredit))
	l.line("Due date: " + dateLabel(c.DueDate))
	l.section()

	l.heading("Checklist")
	for _, item := range input.Checklist {
		mark := " "
		if item.IsCompleted() {
			mark = "x"
		}
		l.line(fmt.Sprintf("- [%s] %s", mark, item.Title))
		if l.cursor < cursorFloor {
			break
		}
	}
	l.section()

	l.heading("Evidence")
	evidence := input.Evidence
	if len(evidence) > maxEvidenceFiles {
		evidence = evidence[:maxEvidenceFiles]
	}
	for _, file := range evidence {
		l.line("- " + file.Filename)
		l.line("  " + storedKeyScheme + file.Url)
		if l.cursor < cursorFloor {
			break
		}
	}
	l.section()

	l.heading("Notes")
	notes := noNotesLabel
	if c.InternalNotes != nil {
		notes = *c.InternalNotes
	}
	l.line(notes)
	return l.lines
}

// Render writes the packet as a PDF to w
func Render(w io.Writer, input Input) error {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: PageWidth, Ht: PageHeight},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(Title, true)
	pdf.AddPage()
	pdf.SetTextColor(26, 26, 26)
	translate := pdf.UnicodeTranslatorFromDescriptor("")

	for _, line := range Layout(input) {
		style := ""
		if line.Bold {
			style = "B"
		}
		pdf.SetFont(fontFamily, style, line.Size)
		pdf.Text(marginLeft, PageHeight-line.Y, translate(line.Text))
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render claim packet for case[%s]: %w", input.Case.Id, err)
	}
	return nil
}

func dateLabel(value *time.Time) string {
	if value == nil || value.IsZero() {
		return emptyLabel
	}
	return value.UTC().Format(dateLabelLayout)
}

func moneyLabel(value *float64) string {
	if value == nil {
		return emptyLabel
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}
