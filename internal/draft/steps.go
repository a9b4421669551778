package draft

// The wizard walks eleven data-entry steps (0–10). Values past the last data
// step are control states: the final preview, the dashboard, and payment.
const (
	StepWelcome      = 0
	StepPersonal     = 1
	StepContact      = 2
	StepTargetJob    = 3
	StepSummary      = 4
	StepExperience   = 5
	StepEducation    = 6
	StepSkills       = 7
	StepCourses      = 8
	StepLanguages    = 9
	StepAvailability = 10

	// LastDataStep is the final data-entry step; advancing past it opens the
	// final preview.
	LastDataStep = StepAvailability
)

// StepLabels maps each data-entry step index to its human label.
var StepLabels = [11]string{
	"Welcome",
	"Personal Details",
	"Contact Channels",
	"Target Job",
	"Professional Summary",
	"Work Experience",
	"Education",
	"Skills",
	"Courses & Certifications",
	"Languages",
	"Availability",
}

// IsDataStep reports whether step is within the editable data-entry range.
func IsDataStep(step int) bool {
	return step >= StepWelcome && step <= LastDataStep
}
