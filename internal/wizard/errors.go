package wizard

import "errors"

// Optimize preconditions and outcomes surfaced to the UI.
var (
	// ErrNotInFinalPreview is returned when optimize is requested from any
	// state other than the final preview.
	ErrNotInFinalPreview = errors.New("optimization is only available from the final preview")

	// ErrTargetJobRequired is returned when the target-job description is
	// empty; no collaborator call is made.
	ErrTargetJobRequired = errors.New("fill in the target job description (step 3) so the résumé can be optimized")

	// ErrOptimizeInFlight is returned while a previous call is still pending.
	ErrOptimizeInFlight = errors.New("an optimization is already running")

	// ErrStaleResult is returned when the collaborator answered after the
	// draft changed; the late result is dropped instead of overwriting
	// newer edits.
	ErrStaleResult = errors.New("draft changed while optimizing; result discarded")
)
