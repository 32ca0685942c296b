package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ixanadu/saa/internal/llm"
	"github.com/ixanadu/saa/internal/model"
)

// Compose builds the Report for an audit result. With no client the
// narrative section is omitted entirely; a client that fails leaves a
// visible degradation note instead. Synthesis failure never fails the
// audit; the structured report stands on its own.
func Compose(ctx context.Context, result *model.AuditResult, client llm.Client, planText string, logger *slog.Logger) *Report {
	if logger == nil {
		logger = slog.Default()
	}

	rep := &Report{Result: result}

	if client == nil {
		return rep
	}
	rep.Model = client.Model()

	narrative, err := client.Synthesize(ctx, llm.Request{
		Plan:     planText,
		Result:   result,
		Findings: result.Findings,
	})
	if err != nil {
		if errors.Is(err, llm.ErrUnavailable) {
			logger.Warn("narrative synthesis unavailable", "model", client.Model(), "error", err)
		} else {
			logger.Error("narrative synthesis failed", "model", client.Model(), "error", err)
		}
		rep.NarrativeNote = fmt.Sprintf("Narrative synthesis was unavailable: %v. The structured findings below are complete.", err)
		return rep
	}

	rep.Narrative = narrative
	return rep
}
