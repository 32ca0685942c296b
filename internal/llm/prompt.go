package llm

import (
	"fmt"
	"strings"

	"github.com/ixanadu/saa/internal/model"
)

// maxPromptFindings caps how many findings are listed in the prompt.
// Beyond this the severity counts carry the signal; listing every
// instance of a template-wide problem adds tokens, not information.
const maxPromptFindings = 200

const systemPrompt = `You are a website audit assistant. You write a short narrative
summary of an automated site audit for the site operator.

Rules:
- Ground every statement in the findings provided. Do not invent
  problems, pages, or data that are not listed.
- Follow the audit plan below for tone, structure, and priorities.
- Output plain markdown body text: no top-level heading, no code
  fences, no preamble about being an assistant.`

// buildPrompt renders the user message: audit context, severity
// counts, and the findings digest, framed by the plan.
func buildPrompt(req Request) string {
	var b strings.Builder

	b.WriteString("## Audit plan\n\n")
	b.WriteString(strings.TrimSpace(req.Plan))
	b.WriteString("\n\n## Audit context\n\n")
	fmt.Fprintf(&b, "- Site: %s\n", req.Result.StartURL)
	fmt.Fprintf(&b, "- Mode: %s\n", req.Result.Mode)
	fmt.Fprintf(&b, "- Pages fetched: %d (%d failed)\n",
		req.Result.PagesCrawled(), req.Result.PagesFailed())
	if req.Result.Incomplete {
		b.WriteString("- The crawl was interrupted; results are partial.\n")
	}

	b.WriteString("\n## Findings by severity\n\n")
	for _, sev := range []model.Severity{model.SeverityCritical, model.SeverityWarning, model.SeverityInfo} {
		fmt.Fprintf(&b, "- %s: %d\n", sev, req.Result.CountBySeverity(sev))
	}

	b.WriteString("\n## Findings\n\n")
	if len(req.Findings) == 0 {
		b.WriteString("No issues were found.\n")
	}
	for i, f := range req.Findings {
		if i == maxPromptFindings {
			fmt.Fprintf(&b, "… and %d more findings omitted.\n", len(req.Findings)-i)
			break
		}
		fmt.Fprintf(&b, "- [%s] %s at %s: %s\n", f.Severity, f.CheckID, f.URL, f.Message)
	}

	b.WriteString("\nWrite the narrative summary now.\n")
	return b.String()
}
