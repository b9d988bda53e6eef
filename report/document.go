package report

import (
	"fmt"
	"strings"
)

// Plain-text document layout constants: a fixed column width and a fixed
// number of text lines per page. Pages are separated by form feeds.
const (
	docWidth        = 108
	docLinesPerPage = 54
	// Minimum lines that must remain on the page before the AI output
	// section starts; otherwise the section begins on a fresh page.
	docSectionReserve = 12
)

// document accumulates wrapped lines and breaks them into pages.
type document struct {
	pages   []string
	current []string
}

func (d *document) add(lines ...string) {
	for _, line := range lines {
		if len(d.current) >= docLinesPerPage {
			d.breakPage()
		}
		d.current = append(d.current, line)
	}
}

func (d *document) breakPage() {
	d.pages = append(d.pages, strings.Join(d.current, "\n"))
	d.current = nil
}

func (d *document) remaining() int {
	return docLinesPerPage - len(d.current)
}

func (d *document) String() string {
	if len(d.current) > 0 {
		d.breakPage()
	}
	return strings.Join(d.pages, "\n\f\n")
}

// ExportDocument renders a stored report as a paginated plain-text document:
// header, patient input echo, question/answer echo and the full raw AI
// output, wrapped at a fixed column width.
func ExportDocument(reportID uint, payload AssessmentPayload, aiReport, username, createdLabel string) string {
	doc := &document{}

	doc.add("HealthSignal AI - Assessment Report")
	doc.add("")
	doc.add(fmt.Sprintf("Report ID: %d", reportID))
	doc.add(fmt.Sprintf("User: %s", username))
	doc.add(fmt.Sprintf("Created: %s", createdLabel))
	doc.add("")

	doc.add("Patient Input")
	doc.add(wrapText(fmt.Sprintf("Age: %d | Gender: %s | Duration: %s", payload.Age, payload.Gender, payload.SymptomDuration), docWidth)...)
	doc.add(wrapText(fmt.Sprintf("Additional notes: %s", payload.AdditionalNotes), docWidth)...)
	doc.add("")

	doc.add("Question Answers")
	for _, qa := range payload.QuestionAnswers {
		doc.add(wrapText(fmt.Sprintf("Q: %s", qa.Question), docWidth)...)
		answer := qa.Answer
		if answer == "" {
			answer = "-"
		}
		doc.add(wrapText(fmt.Sprintf("A: %s", answer), docWidth)...)
		doc.add("")
	}

	if doc.remaining() < docSectionReserve {
		doc.breakPage()
	}
	doc.add("AI Assessment Output")
	doc.add(wrapText(aiReport, docWidth)...)

	return doc.String()
}

// wrapText wraps text at the given column width, breaking at the last space
// in each chunk when possible. Blank lines in the input are preserved.
func wrapText(text string, width int) []string {
	var lines []string
	paragraphs := strings.Split(text, "\n")
	if len(paragraphs) == 0 {
		paragraphs = []string{""}
	}
	for _, paragraph := range paragraphs {
		// Wrap on runes so a multibyte character never straddles the
		// column boundary and gets split into invalid UTF-8.
		runes := []rune(strings.TrimSpace(paragraph))
		if len(runes) == 0 {
			lines = append(lines, "")
			continue
		}
		for len(runes) > width {
			chunk := string(runes[:width])
			splitAt := strings.LastIndex(chunk, " ")
			if splitAt <= 0 {
				splitAt = width
			} else {
				splitAt = len([]rune(chunk[:splitAt]))
			}
			lines = append(lines, strings.TrimSpace(string(runes[:splitAt])))
			runes = []rune(strings.TrimSpace(string(runes[splitAt:])))
		}
		lines = append(lines, string(runes))
	}
	return lines
}
