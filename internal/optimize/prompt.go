package optimize

import (
	"fmt"
	"strings"

	"github.com/ronaldsalkes/cvmaster/internal/draft"
)

// buildPrompt asks the model for a JSON-only partial rewrite of the draft,
// keyed to the target job description.
func buildPrompt(d draft.Draft) string {
	var sb strings.Builder

	sb.WriteString("You are a recruitment and selection specialist. ")
	sb.WriteString("Optimize the résumé below for the following job posting.\n\n")

	sb.WriteString("JOB POSTING:\n")
	sb.WriteString(d.TargetJob)
	sb.WriteString("\n\nCURRENT RESUME:\n")
	fmt.Fprintf(&sb, "Name: %s\n", d.Name)
	fmt.Fprintf(&sb, "Desired title: %s\n", d.Title)
	fmt.Fprintf(&sb, "Summary: %s\n", d.Summary)
	fmt.Fprintf(&sb, "Experience: %s\n", d.Experience)
	fmt.Fprintf(&sb, "Skills: %s\n", d.Skills)

	sb.WriteString(`
Return a JSON object with these keys:
- "summary": optimized professional summary (at most 150 words)
- "experience": experience rewritten to highlight achievements relevant to the posting
- "skills": skills reordered by relevance to the posting, comma-delimited

Guidelines:
1. Use keywords from the job posting
2. Quantify results wherever possible
3. Highlight the most relevant competencies
4. Use strong action verbs
5. Keep a professional, objective tone

Return ONLY the JSON object, no extra commentary.`)

	return sb.String()
}
