// Package wizard drives the résumé builder's step state machine.
//
// The controller is the sole writer of the draft and the flow position.
// Validation, autosave, preview, and optimization all work on values it
// hands out; none of them hold their own copy.
package wizard

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ronaldsalkes/cvmaster/internal/autosave"
	"github.com/ronaldsalkes/cvmaster/internal/draft"
	"github.com/ronaldsalkes/cvmaster/internal/logging"
	"github.com/ronaldsalkes/cvmaster/internal/optimize"
	"github.com/ronaldsalkes/cvmaster/internal/store"
	"github.com/ronaldsalkes/cvmaster/internal/validation"
)

// Config wires the controller's collaborators.
type Config struct {
	Store          store.Store
	Collaborator   optimize.Collaborator
	AutosaveWindow time.Duration
	Logger         logging.Logger
}

// Controller owns the draft and the wizard position.
type Controller struct {
	store        store.Store
	collaborator optimize.Collaborator
	sched        *autosave.Scheduler
	log          logging.Logger

	mu          sync.Mutex
	d           draft.Draft
	flow        Flow
	fieldErrors map[string]string
	optimizing  bool

	// gen counts draft mutations. An optimize call captures it at start and
	// only merges its result while it is still current, so a late response
	// cannot overwrite newer edits.
	gen uint64
}

// New creates a controller, hydrating the draft from the store. The initial
// flow state is the dashboard.
func New(ctx context.Context, cfg Config) *Controller {
	log := cfg.Logger
	if log == nil {
		log = logging.Nop{}
	}

	c := &Controller{
		store:        cfg.Store,
		collaborator: cfg.Collaborator,
		sched:        autosave.NewScheduler(cfg.Store, cfg.AutosaveWindow, log),
		log:          log,
		flow:         FlowDashboard,
	}
	c.d = cfg.Store.Load(ctx)
	return c
}

// Draft returns a snapshot of the current draft.
func (c *Controller) Draft() draft.Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.d
}

// Flow returns the current wizard position.
func (c *Controller) Flow() Flow {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flow
}

// FieldErrors returns the per-field messages from the last failed advance.
func (c *Controller) FieldErrors() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]string, len(c.fieldErrors))
	for k, v := range c.fieldErrors {
		out[k] = v
	}
	return out
}

// Saving reports whether an autosave write is pending or running.
func (c *Controller) Saving() bool {
	return c.sched.Saving()
}

// Optimizing reports whether a collaborator call is in flight.
func (c *Controller) Optimizing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.optimizing
}

// Update applies a partial edit to the draft and schedules an autosave when
// the wizard sits in the editable range. Field errors for the edited fields
// are cleared so the user sees them disappear as they type.
func (c *Controller) Update(ctx context.Context, p draft.Patch) {
	c.mu.Lock()
	c.d = c.d.Apply(p)
	c.gen++
	c.clearErrorsFor(p)
	d, flow := c.d, c.flow
	c.mu.Unlock()

	c.sched.DraftChanged(ctx, d, int(flow))
}

// Advance moves one step forward. From Welcome it moves unconditionally;
// from a data step it first validates, staying put with the failure
// surfaced when invalid; from the last data step it opens the final
// preview. In control states it is a no-op.
func (c *Controller) Advance(ctx context.Context) validation.Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.flow.IsDataStep() {
		return validation.Result{Valid: true}
	}
	if c.flow == FlowWelcome {
		c.flow = Flow(draft.StepPersonal)
		return validation.Result{Valid: true}
	}

	result := validation.Validate(int(c.flow), c.d)
	if !result.Valid {
		c.fieldErrors = result.Fields
		c.log.Debug(ctx, "advance blocked by validation", "flow", c.flow.String(), "message", result.Message)
		return result
	}

	c.fieldErrors = nil
	if int(c.flow) == draft.LastDataStep {
		c.toFlowLocked(ctx, FlowFinalPreview)
	} else {
		c.flow++
	}
	return result
}

// Back moves one step backwards, floored at Welcome. Outside the data-entry
// range it is a no-op.
func (c *Controller) Back() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.flow.IsDataStep() && c.flow > FlowWelcome {
		c.flow--
	}
}

// OpenDashboard jumps to the dashboard from any state. There is no
// validation gate: abandoning mid-entry loses nothing, the draft stays in
// memory and in the slot.
func (c *Controller) OpenDashboard(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.toFlowLocked(ctx, FlowDashboard)
}

// OpenFinalPreview jumps straight to the final preview, used to resume a
// saved draft.
func (c *Controller) OpenFinalPreview(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.toFlowLocked(ctx, FlowFinalPreview)
}

// OpenPayment enters the payment state. The checkout itself is an external
// link; no callback is handled here.
func (c *Controller) OpenPayment(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.toFlowLocked(ctx, FlowPayment)
}

// StartNew resets the draft to defaults, clears the slot, and opens the
// welcome step.
func (c *Controller) StartNew(ctx context.Context) {
	c.resetDraft(ctx, FlowWelcome)
}

// Reset wipes the draft and the slot and returns to the dashboard.
func (c *Controller) Reset(ctx context.Context) {
	c.resetDraft(ctx, FlowDashboard)
}

func (c *Controller) resetDraft(ctx context.Context, next Flow) {
	c.sched.Stop()

	c.mu.Lock()
	c.d = draft.Default()
	c.gen++
	c.fieldErrors = nil
	c.flow = next
	c.mu.Unlock()

	if err := c.store.Clear(ctx); err != nil {
		c.log.Error(ctx, "failed to clear draft slot", "error", err)
	}
}

// Optimize calls the collaborator with the current draft and merges the
// returned fields back in. The call blocks; run it from a goroutine to keep
// the UI responsive. Re-entry is rejected until the in-flight call
// resolves. Preconditions: the wizard must sit in the final preview and the
// target-job description must be non-empty (no call is made otherwise).
func (c *Controller) Optimize(ctx context.Context) error {
	c.mu.Lock()
	if c.flow != FlowFinalPreview {
		c.mu.Unlock()
		return ErrNotInFinalPreview
	}
	if strings.TrimSpace(c.d.TargetJob) == "" {
		c.mu.Unlock()
		return ErrTargetJobRequired
	}
	if c.optimizing {
		c.mu.Unlock()
		return ErrOptimizeInFlight
	}
	c.optimizing = true
	snapshot := c.d
	gen := c.gen
	c.mu.Unlock()

	rewrite, err := c.collaborator.Optimize(ctx, snapshot)

	c.mu.Lock()
	c.optimizing = false
	if err != nil {
		c.mu.Unlock()
		c.log.Error(ctx, "optimization failed", "error", err)
		return fmt.Errorf("optimization failed: %w", err)
	}
	if c.gen != gen {
		c.mu.Unlock()
		c.log.Warn(ctx, "dropping stale optimization result")
		return ErrStaleResult
	}
	c.d = rewrite.ApplyTo(c.d)
	c.gen++
	merged := c.d
	c.mu.Unlock()

	// Persist directly: the final preview sits outside the autosave range.
	if err := c.store.Save(ctx, merged); err != nil {
		c.log.Error(ctx, "failed to persist optimized draft", "error", err)
	}
	return nil
}

// Close flushes any pending autosave write. Call on shutdown.
func (c *Controller) Close() {
	c.sched.Flush()
}

// toFlowLocked switches control state, flushing a pending autosave when
// leaving the editable range so trailing edits reach the slot.
func (c *Controller) toFlowLocked(ctx context.Context, next Flow) {
	leavingEdit := c.flow.IsDataStep() && !next.IsDataStep()
	c.flow = next
	if leavingEdit {
		c.sched.Flush()
	}
	c.log.Debug(ctx, "flow changed", "flow", next.String())
}

func (c *Controller) clearErrorsFor(p draft.Patch) {
	if len(c.fieldErrors) == 0 {
		return
	}
	clear := func(field string, set *string) {
		if set != nil {
			delete(c.fieldErrors, field)
		}
	}
	clear("name", p.Name)
	clear("title", p.Title)
	clear("phone", p.Phone)
	clear("email", p.Email)
	clear("city", p.City)
	clear("summary", p.Summary)
	clear("experience", p.Experience)
	clear("education", p.Education)
	clear("skills", p.Skills)
}
