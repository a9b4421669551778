// Package preview projects a draft into a display document.
//
// Rendering is a pure projection: no validation, no mutation, deterministic
// section order, and any section whose backing field is empty is omitted.
package preview

import (
	"strings"

	"github.com/ronaldsalkes/cvmaster/internal/draft"
)

// Section is one titled block of the rendered résumé.
type Section struct {
	Title string
	Lines []string

	// Beside pairs a companion section to be laid out alongside this one
	// (skills and languages share a row).
	Beside *Section
}

// Document is the rendered résumé.
type Document struct {
	Name     string
	Title    string
	Contacts []string
	Sections []Section
}

// Empty reports whether the document has nothing to show.
func (doc Document) Empty() bool {
	return doc.Name == "" && doc.Title == "" && len(doc.Contacts) == 0 && len(doc.Sections) == 0
}

// Render projects the draft into a document. Field order is fixed:
// identity/contact header, summary, experience, education,
// skills + languages, courses, availability.
func Render(d draft.Draft) Document {
	doc := Document{
		Name:  strings.TrimSpace(d.Name),
		Title: strings.TrimSpace(d.Title),
	}

	for _, contact := range []string{d.City, d.Phone, d.Email, d.LinkedIn} {
		if c := strings.TrimSpace(contact); c != "" {
			doc.Contacts = append(doc.Contacts, c)
		}
	}

	addSection(&doc, "Professional Summary", textLines(d.Summary))
	addSection(&doc, "Work Experience", textLines(d.Experience))
	addSection(&doc, "Education", textLines(d.Education))

	skills := skillLines(d.Skills)
	languages := textLines(d.Languages)
	switch {
	case len(skills) > 0:
		section := Section{Title: "Skills", Lines: skills}
		if len(languages) > 0 {
			section.Beside = &Section{Title: "Languages", Lines: languages}
		}
		doc.Sections = append(doc.Sections, section)
	case len(languages) > 0:
		doc.Sections = append(doc.Sections, Section{Title: "Languages", Lines: languages})
	}

	addSection(&doc, "Courses & Certifications", textLines(d.Courses))
	addSection(&doc, "Availability", textLines(d.Availability))

	return doc
}

func addSection(doc *Document, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	doc.Sections = append(doc.Sections, Section{Title: title, Lines: lines})
}

// textLines splits free text into trimmed, non-blank lines.
func textLines(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

// skillLines splits the comma-delimited skills field into one line per skill.
func skillLines(skills string) []string {
	var lines []string
	for _, skill := range strings.Split(skills, ",") {
		if trimmed := strings.TrimSpace(skill); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
