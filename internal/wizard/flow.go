package wizard

import (
	"fmt"

	"github.com/ronaldsalkes/cvmaster/internal/draft"
)

// Flow is the wizard position: a data-entry step (0–10) or a control state.
type Flow int

// Control states live past the last data step. The dashboard is the initial
// state on a fresh load; the first-time flow reaches Welcome by explicit
// user action from there.
const (
	FlowWelcome      Flow = Flow(draft.StepWelcome)
	FlowFinalPreview Flow = 11
	FlowDashboard    Flow = 12
	FlowPayment      Flow = 13
)

// IsDataStep reports whether the flow sits in the editable step range.
func (f Flow) IsDataStep() bool {
	return draft.IsDataStep(int(f))
}

func (f Flow) String() string {
	switch f {
	case FlowFinalPreview:
		return "final-preview"
	case FlowDashboard:
		return "dashboard"
	case FlowPayment:
		return "payment"
	}
	if f.IsDataStep() {
		return fmt.Sprintf("step %d (%s)", int(f), draft.StepLabels[int(f)])
	}
	return fmt.Sprintf("flow(%d)", int(f))
}
