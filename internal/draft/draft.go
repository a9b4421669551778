// Package draft provides the résumé draft record that the wizard edits.
// There is exactly one live draft per session; it has no identity of its own.
package draft

import (
	"strings"
	"time"
)

// DefaultDriversLicense is the sentinel value for the driver's-license field.
// Every other field defaults to the empty string.
const DefaultDriversLicense = "none held"

// Draft is the in-memory résumé draft. All fields are free text; Skills is a
// comma-delimited list.
type Draft struct {
	Name           string `json:"name"`
	Title          string `json:"title"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	City           string `json:"city"`
	LinkedIn       string `json:"linkedin"`
	Summary        string `json:"summary"`
	Experience     string `json:"experience"`
	Education      string `json:"education"`
	Skills         string `json:"skills"`
	Courses        string `json:"courses"`
	Languages      string `json:"languages"`
	DriversLicense string `json:"drivers_license"`
	Availability   string `json:"availability"`
	TargetJob      string `json:"target_job"`
}

// Default returns a draft with all fields empty except the driver's-license
// sentinel.
func Default() Draft {
	return Draft{DriversLicense: DefaultDriversLicense}
}

// HasData reports whether the user has started filling in the draft.
// The dashboard uses this to decide whether a saved-draft notice is shown.
func (d Draft) HasData() bool {
	return strings.TrimSpace(d.Name) != "" || strings.TrimSpace(d.Title) != ""
}

// Patch is a partial draft. Nil fields are left untouched when applied.
type Patch struct {
	Name           *string
	Title          *string
	Phone          *string
	Email          *string
	City           *string
	LinkedIn       *string
	Summary        *string
	Experience     *string
	Education      *string
	Skills         *string
	Courses        *string
	Languages      *string
	DriversLicense *string
	Availability   *string
	TargetJob      *string
}

// Apply overwrites only the fields the patch carries and returns the result.
func (d Draft) Apply(p Patch) Draft {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&d.Name, p.Name)
	set(&d.Title, p.Title)
	set(&d.Phone, p.Phone)
	set(&d.Email, p.Email)
	set(&d.City, p.City)
	set(&d.LinkedIn, p.LinkedIn)
	set(&d.Summary, p.Summary)
	set(&d.Experience, p.Experience)
	set(&d.Education, p.Education)
	set(&d.Skills, p.Skills)
	set(&d.Courses, p.Courses)
	set(&d.Languages, p.Languages)
	set(&d.DriversLicense, p.DriversLicense)
	set(&d.Availability, p.Availability)
	set(&d.TargetJob, p.TargetJob)
	return d
}

// String returns a pointer to s, for building patches inline.
func String(s string) *string {
	return &s
}

// PDFFileName builds the export file name for a draft:
// CV-<name-with-spaces-replaced-by-dashes>-<ISO-date>.pdf.
func PDFFileName(name string, now time.Time) string {
	joined := strings.Join(strings.Fields(name), "-")
	return "CV-" + joined + "-" + now.Format("2006-01-02") + ".pdf"
}
