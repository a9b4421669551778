package optimize

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ronaldsalkes/cvmaster/internal/draft"
	"github.com/ronaldsalkes/cvmaster/internal/llm"
)

// LLMEngine fulfills the collaborator contract with a language model.
type LLMEngine struct {
	client llm.Client
}

// NewLLMEngine wraps an LLM client as a Collaborator.
func NewLLMEngine(client llm.Client) *LLMEngine {
	return &LLMEngine{client: client}
}

// Optimize prompts the model and decodes its JSON answer into a Rewrite.
func (e *LLMEngine) Optimize(ctx context.Context, d draft.Draft) (Rewrite, error) {
	text, err := e.client.GenerateJSON(ctx, buildPrompt(d))
	if err != nil {
		return Rewrite{}, &CallError{Message: "model call failed", Cause: err}
	}

	var rewrite Rewrite
	if err := json.Unmarshal([]byte(text), &rewrite); err != nil {
		return Rewrite{}, &CallError{Message: "model returned malformed JSON", Cause: err}
	}
	if rewrite.Empty() {
		return Rewrite{}, &CallError{Message: "model returned no usable fields"}
	}
	return rewrite, nil
}

// StubEngine is the no-model fallback: it annotates the existing fields
// instead of rewriting them, so the full flow works without an API key.
type StubEngine struct{}

// targetExcerptLen is how much of the job posting the stub quotes back.
const targetExcerptLen = 100

// Optimize returns the placeholder transform.
func (StubEngine) Optimize(_ context.Context, d draft.Draft) (Rewrite, error) {
	excerpt := d.TargetJob
	if runes := []rune(excerpt); len(runes) > targetExcerptLen {
		excerpt = string(runes[:targetExcerptLen])
	}

	summary := fmt.Sprintf("%s\n\n[AI-optimized for the posting: %s...]", d.Summary, excerpt)
	experience := d.Experience + "\n\n[Experience reordered and highlighted by AI]"
	skills := d.Skills + ", [AI-prioritized skills]"

	return Rewrite{
		Summary:    &summary,
		Experience: &experience,
		Skills:     &skills,
	}, nil
}
