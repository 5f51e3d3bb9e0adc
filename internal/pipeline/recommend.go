package pipeline

import (
	"context"
	"strings"

	"github.com/dvloznov/vendorscope/internal/domain"
	"github.com/dvloznov/vendorscope/internal/llm"
	"github.com/dvloznov/vendorscope/internal/logger"
)

// RecommendStep asks the model for a portfolio action per vendor. Every
// request carries the full portfolio summary so recommendations are made
// with complete visibility. Replies are parsed at the boundary; consolidate
// targets must name another vendor in the portfolio.
type RecommendStep struct {
	Generator  llm.Generator
	Checkpoint *Checkpoint
}

func (s *RecommendStep) Execute(ctx context.Context, state *State) error {
	log := logger.FromContext(ctx)

	summary := portfolioSummary(state.Records)

	names := make(map[string]string, len(state.Records))
	for _, r := range state.Records {
		names[strings.ToLower(r.Name)] = r.Name
	}

	for i := range state.Records {
		rec := &state.Records[i]

		prompt, err := renderRecommendationPrompt(summary, *rec)
		if err != nil {
			return err
		}
		reply, err := s.Generator.Generate(ctx, prompt)
		if err != nil {
			return err
		}

		action, err := domain.ParseAction(llm.StripFences(reply))
		if err != nil {
			return err
		}

		if action.Kind == domain.ActionConsolidate {
			canonical, ok := names[action.Target]
			if !ok {
				return &domain.MalformedResponseError{
					Stage:    "recommendation",
					Response: reply,
					Reason:   "consolidate target " + action.Target + " is not a vendor in the portfolio",
				}
			}
			if canonical == rec.Name {
				return &domain.MalformedResponseError{
					Stage:    "recommendation",
					Response: reply,
					Reason:   "vendor cannot consolidate with itself",
				}
			}
		}

		rec.Action = action

		if err := s.Checkpoint.Append("recommend", rec.Name, action.String()); err != nil {
			return err
		}

		log.Info().
			Str("vendor", rec.Name).
			Str("action", action.String()).
			Msg("recommended action")
	}

	return nil
}
