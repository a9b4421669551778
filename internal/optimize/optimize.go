// Package optimize rewrites a draft's summary, experience, and skills to
// match the target job description.
//
// The same Collaborator contract is used on both sides of the wire: the
// wizard talks to a remote endpoint through HTTPClient, and the server
// fulfills the endpoint with an LLM-backed or stub engine.
package optimize

import (
	"context"

	"github.com/ronaldsalkes/cvmaster/internal/draft"
)

// Rewrite is the partial result of an optimization. Nil fields were not
// returned by the collaborator and must leave the draft untouched.
type Rewrite struct {
	Summary    *string `json:"summary,omitempty"`
	Experience *string `json:"experience,omitempty"`
	Skills     *string `json:"skills,omitempty"`
}

// Collaborator produces a rewrite for a draft. The draft's TargetJob field
// carries the job description the rewrite is aimed at.
type Collaborator interface {
	Optimize(ctx context.Context, d draft.Draft) (Rewrite, error)
}

// ApplyTo merges the rewrite into the draft, overwriting only the fields the
// collaborator returned.
func (r Rewrite) ApplyTo(d draft.Draft) draft.Draft {
	return d.Apply(draft.Patch{
		Summary:    r.Summary,
		Experience: r.Experience,
		Skills:     r.Skills,
	})
}

// Empty reports whether the rewrite carries no fields at all.
func (r Rewrite) Empty() bool {
	return r.Summary == nil && r.Experience == nil && r.Skills == nil
}
