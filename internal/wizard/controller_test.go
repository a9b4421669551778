package wizard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ronaldsalkes/cvmaster/internal/draft"
	"github.com/ronaldsalkes/cvmaster/internal/optimize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory slot for controller tests.
type memStore struct {
	mu     sync.Mutex
	slot   *draft.Draft
	saves  int
	clears int
}

func (m *memStore) Load(context.Context) draft.Draft {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.slot == nil {
		return draft.Default()
	}
	return *m.slot
}

func (m *memStore) Save(_ context.Context, d draft.Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slot = &d
	m.saves++
	return nil
}

func (m *memStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slot = nil
	m.clears++
	return nil
}

func (m *memStore) stored() (draft.Draft, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.slot == nil {
		return draft.Draft{}, false
	}
	return *m.slot, true
}

// fakeCollab is a scriptable collaborator.
type fakeCollab struct {
	mu      sync.Mutex
	calls   int
	rewrite optimize.Rewrite
	err     error
	block   chan struct{} // when set, Optimize waits for it to close
	started chan struct{} // when set, closed once Optimize begins
}

func (f *fakeCollab) Optimize(context.Context, draft.Draft) (optimize.Rewrite, error) {
	f.mu.Lock()
	f.calls++
	block, started := f.block, f.started
	f.mu.Unlock()

	if started != nil {
		close(started)
	}
	if block != nil {
		<-block
	}
	return f.rewrite, f.err
}

func (f *fakeCollab) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func str(s string) *string { return &s }

func newController(st *memStore, collab *fakeCollab) *Controller {
	return New(context.Background(), Config{
		Store:          st,
		Collaborator:   collab,
		AutosaveWindow: 20 * time.Millisecond,
	})
}

func validDraftPatch() []draft.Patch {
	return []draft.Patch{
		{Name: str("Ana Clara Souza"), Title: str("Account Executive")},
		{Email: str("ana@example.com"), Phone: str("+55 51 99999-0000"), City: str("Porto Alegre")},
		{TargetJob: str("B2B account executive opening with CRM focus.")},
		{Summary: str(strings.Repeat("Experienced B2B sales professional. ", 2))},
		{Experience: str("Tech Solutions | Sales Manager | 2020 - Present")},
		{Education: str("BA in Business Administration")},
		{Skills: str("Negotiation, CRM, Forecasting")},
	}
}

func TestNew_StartsAtDashboardWithHydratedDraft(t *testing.T) {
	saved := draft.Default()
	saved.Name = "Ana"
	st := &memStore{slot: &saved}

	c := newController(st, &fakeCollab{})

	assert.Equal(t, FlowDashboard, c.Flow())
	assert.Equal(t, "Ana", c.Draft().Name)
}

func TestAdvance_FromWelcomeIsUnconditional(t *testing.T) {
	c := newController(&memStore{}, &fakeCollab{})
	ctx := context.Background()

	c.StartNew(ctx)
	require.Equal(t, FlowWelcome, c.Flow())

	result := c.Advance(ctx)

	assert.True(t, result.Valid)
	assert.Equal(t, Flow(draft.StepPersonal), c.Flow())
}

func TestAdvance_InvalidStepStaysAndSurfacesMessage(t *testing.T) {
	c := newController(&memStore{}, &fakeCollab{})
	ctx := context.Background()

	c.StartNew(ctx)
	c.Advance(ctx) // welcome -> step 1

	result := c.Advance(ctx)

	assert.False(t, result.Valid)
	assert.Equal(t, "Name is required", result.Message)
	assert.Equal(t, Flow(draft.StepPersonal), c.Flow())
	assert.Equal(t, "Title is required", c.FieldErrors()["title"])
}

func TestUpdate_ClearsFieldErrorForEditedField(t *testing.T) {
	c := newController(&memStore{}, &fakeCollab{})
	ctx := context.Background()

	c.StartNew(ctx)
	c.Advance(ctx)
	c.Advance(ctx) // fails: name and title missing
	require.Len(t, c.FieldErrors(), 2)

	c.Update(ctx, draft.Patch{Name: str("Ana")})

	errs := c.FieldErrors()
	assert.NotContains(t, errs, "name")
	assert.Contains(t, errs, "title")
}

func TestAdvance_WalksAllStepsToFinalPreview(t *testing.T) {
	c := newController(&memStore{}, &fakeCollab{})
	ctx := context.Background()

	c.StartNew(ctx)
	for _, p := range validDraftPatch() {
		c.Update(ctx, p)
	}

	for i := 0; i < 11; i++ {
		result := c.Advance(ctx)
		require.True(t, result.Valid, "advance %d from %s: %s", i, c.Flow(), result.Message)
	}

	// From step 10 a valid advance opens the final preview; there is no
	// data step 11.
	assert.Equal(t, FlowFinalPreview, c.Flow())
}

func TestAdvance_NoOpInControlStates(t *testing.T) {
	c := newController(&memStore{}, &fakeCollab{})
	ctx := context.Background()

	for _, open := range []func(context.Context){c.OpenDashboard, c.OpenFinalPreview, c.OpenPayment} {
		open(ctx)
		before := c.Flow()
		result := c.Advance(ctx)
		assert.True(t, result.Valid)
		assert.Equal(t, before, c.Flow())
	}
}

func TestBack_FlooredAtWelcome(t *testing.T) {
	c := newController(&memStore{}, &fakeCollab{})
	ctx := context.Background()

	c.StartNew(ctx)
	c.Advance(ctx) // step 1

	c.Back()
	assert.Equal(t, FlowWelcome, c.Flow())
	c.Back()
	assert.Equal(t, FlowWelcome, c.Flow())
}

func TestBack_NoOpOutsideDataSteps(t *testing.T) {
	c := newController(&memStore{}, &fakeCollab{})
	c.OpenDashboard(context.Background())

	c.Back()

	assert.Equal(t, FlowDashboard, c.Flow())
}

func TestOpenDashboard_NoValidationGate(t *testing.T) {
	c := newController(&memStore{}, &fakeCollab{})
	ctx := context.Background()

	c.StartNew(ctx)
	c.Advance(ctx) // step 1, nothing filled in

	c.OpenDashboard(ctx)

	assert.Equal(t, FlowDashboard, c.Flow())
}

func TestUpdate_AutosavesWhileEditing(t *testing.T) {
	st := &memStore{}
	c := newController(st, &fakeCollab{})
	ctx := context.Background()

	c.StartNew(ctx)
	c.Advance(ctx)
	c.Update(ctx, draft.Patch{Name: str("Ana")})
	assert.True(t, c.Saving())

	require.Eventually(t, func() bool {
		d, ok := st.stored()
		return ok && d.Name == "Ana"
	}, 2*time.Second, 5*time.Millisecond)
	assert.False(t, c.Saving())
}

func TestOpenDashboard_FlushesPendingAutosave(t *testing.T) {
	st := &memStore{}
	c := New(context.Background(), Config{
		Store:          st,
		Collaborator:   &fakeCollab{},
		AutosaveWindow: time.Hour, // would never fire on its own
	})
	ctx := context.Background()

	c.StartNew(ctx)
	c.Advance(ctx)
	c.Update(ctx, draft.Patch{Name: str("Ana")})

	c.OpenDashboard(ctx)

	d, ok := st.stored()
	require.True(t, ok)
	assert.Equal(t, "Ana", d.Name)
}

func TestReset_DefaultsAndClearedSlot(t *testing.T) {
	st := &memStore{}
	c := newController(st, &fakeCollab{})
	ctx := context.Background()

	c.StartNew(ctx)
	c.Advance(ctx)
	c.Update(ctx, draft.Patch{Name: str("Ana")})
	c.OpenDashboard(ctx) // flush so the slot holds data

	c.Reset(ctx)

	assert.Equal(t, draft.Default(), c.Draft())
	assert.Equal(t, FlowDashboard, c.Flow())
	_, ok := st.stored()
	assert.False(t, ok)
}

func TestStartNew_ResetsAndOpensWelcome(t *testing.T) {
	saved := draft.Default()
	saved.Name = "Old Draft"
	st := &memStore{slot: &saved}
	c := newController(st, &fakeCollab{})

	c.StartNew(context.Background())

	assert.Equal(t, FlowWelcome, c.Flow())
	assert.Equal(t, draft.Default(), c.Draft())
	_, ok := st.stored()
	assert.False(t, ok)
}

func optimizeReady(t *testing.T, c *Controller) {
	t.Helper()
	ctx := context.Background()
	c.Update(ctx, draft.Patch{
		Summary:    str("Original summary."),
		Experience: str("Original experience."),
		Skills:     str("Original, Skills"),
		TargetJob:  str("Target job description."),
	})
	c.OpenFinalPreview(ctx)
}

func TestOptimize_OnlyFromFinalPreview(t *testing.T) {
	collab := &fakeCollab{}
	c := newController(&memStore{}, collab)

	err := c.Optimize(context.Background())

	assert.ErrorIs(t, err, ErrNotInFinalPreview)
	assert.Zero(t, collab.callCount())
}

func TestOptimize_EmptyTargetJobMakesNoCall(t *testing.T) {
	collab := &fakeCollab{}
	c := newController(&memStore{}, collab)
	ctx := context.Background()

	c.Update(ctx, draft.Patch{TargetJob: str("   ")})
	c.OpenFinalPreview(ctx)

	err := c.Optimize(ctx)

	assert.ErrorIs(t, err, ErrTargetJobRequired)
	assert.Zero(t, collab.callCount())
}

func TestOptimize_MergesOnlyReturnedFields(t *testing.T) {
	collab := &fakeCollab{rewrite: optimize.Rewrite{Summary: str("X")}}
	c := newController(&memStore{}, collab)
	optimizeReady(t, c)

	require.NoError(t, c.Optimize(context.Background()))

	d := c.Draft()
	assert.Equal(t, "X", d.Summary)
	assert.Equal(t, "Original experience.", d.Experience)
	assert.Equal(t, "Original, Skills", d.Skills)
	assert.False(t, c.Optimizing())
}

func TestOptimize_PersistsMergedDraft(t *testing.T) {
	st := &memStore{}
	collab := &fakeCollab{rewrite: optimize.Rewrite{Summary: str("X")}}
	c := newController(st, collab)
	optimizeReady(t, c)

	require.NoError(t, c.Optimize(context.Background()))

	d, ok := st.stored()
	require.True(t, ok)
	assert.Equal(t, "X", d.Summary)
}

func TestOptimize_FailureLeavesDraftUnchangedAndAllowsRetry(t *testing.T) {
	collab := &fakeCollab{err: errors.New("network down")}
	c := newController(&memStore{}, collab)
	optimizeReady(t, c)
	before := c.Draft()

	err := c.Optimize(context.Background())

	assert.Error(t, err)
	assert.Equal(t, before, c.Draft())
	assert.False(t, c.Optimizing())

	// The flag cleared, so a retry reaches the collaborator again.
	_ = c.Optimize(context.Background())
	assert.Equal(t, 2, collab.callCount())
}

func TestOptimize_RejectsReentrantCall(t *testing.T) {
	collab := &fakeCollab{
		rewrite: optimize.Rewrite{Summary: str("X")},
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}
	c := newController(&memStore{}, collab)
	optimizeReady(t, c)

	firstDone := make(chan error, 1)
	go func() { firstDone <- c.Optimize(context.Background()) }()
	<-collab.started
	assert.True(t, c.Optimizing())

	err := c.Optimize(context.Background())
	assert.ErrorIs(t, err, ErrOptimizeInFlight)

	close(collab.block)
	require.NoError(t, <-firstDone)
	assert.Equal(t, 1, collab.callCount())
}

func TestOptimize_StaleResultIsDropped(t *testing.T) {
	collab := &fakeCollab{
		rewrite: optimize.Rewrite{Summary: str("stale rewrite")},
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}
	c := newController(&memStore{}, collab)
	optimizeReady(t, c)

	done := make(chan error, 1)
	go func() { done <- c.Optimize(context.Background()) }()
	<-collab.started

	// The draft changes while the collaborator is still thinking.
	c.Update(context.Background(), draft.Patch{Summary: str("edited meanwhile")})
	close(collab.block)

	assert.ErrorIs(t, <-done, ErrStaleResult)
	assert.Equal(t, "edited meanwhile", c.Draft().Summary)
}
