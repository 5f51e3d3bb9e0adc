package pipeline

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dvloznov/vendorscope/internal/domain"
	"github.com/dvloznov/vendorscope/internal/ledger"
	"github.com/dvloznov/vendorscope/internal/llm"
	"github.com/dvloznov/vendorscope/internal/logger"
)

// EnrichStep derives a service description and a department category for
// every vendor in the ledger. Each vendor's model calls are independent of
// other vendors', so the work runs on a bounded worker pool; results are
// written back by input position, which preserves ledger order regardless of
// completion order. Workers=1 processes vendors strictly in sequence.
type EnrichStep struct {
	Generator  llm.Generator
	Searcher   llm.Searcher
	Workers    int
	Checkpoint *Checkpoint
}

func (s *EnrichStep) Execute(ctx context.Context, state *State) error {
	log := logger.FromContext(ctx)

	records := make([]domain.VendorRecord, len(state.Entries))

	g, ctx := errgroup.WithContext(ctx)
	workers := s.Workers
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)

	for i, entry := range state.Entries {
		g.Go(func() error {
			// A failed vendor cancels the group; don't start work for
			// vendors queued behind it.
			if err := ctx.Err(); err != nil {
				return err
			}

			rec, err := s.enrichVendor(ctx, entry)
			if err != nil {
				return err
			}
			records[i] = rec

			if err := s.Checkpoint.Append("enrich", rec.Name, map[string]string{
				"amount":      rec.Amount.String(),
				"description": rec.Description,
				"category":    rec.Category,
			}); err != nil {
				return err
			}

			log.Info().
				Str("vendor", rec.Name).
				Str("category", rec.Category).
				Str("description", rec.Description).
				Msg("classified vendor")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	state.Records = records
	return nil
}

// enrichVendor runs the per-vendor chain: search query generation, web
// search, one-sentence summary, department classification.
func (s *EnrichStep) enrichVendor(ctx context.Context, entry ledger.Entry) (domain.VendorRecord, error) {
	var rec domain.VendorRecord

	amount, err := domain.ParseAmount(entry.Amount)
	if err != nil {
		return rec, err
	}

	queryPrompt, err := renderQueryPrompt(entry.Vendor)
	if err != nil {
		return rec, err
	}
	query, err := s.Generator.Generate(ctx, queryPrompt)
	if err != nil {
		return rec, err
	}

	searchResults, err := s.Searcher.Search(ctx, strings.TrimSpace(query))
	if err != nil {
		return rec, err
	}

	summaryPrompt, err := renderSummaryPrompt(searchResults)
	if err != nil {
		return rec, err
	}
	description, err := s.Generator.Generate(ctx, summaryPrompt)
	if err != nil {
		return rec, err
	}
	description = strings.TrimSpace(description)

	classPrompt, err := renderClassificationPrompt(description)
	if err != nil {
		return rec, err
	}
	label, err := s.Generator.Generate(ctx, classPrompt)
	if err != nil {
		return rec, err
	}

	category, ok := domain.ResolveDepartment(llm.StripFences(label))
	if !ok {
		return rec, &domain.MalformedResponseError{
			Stage:    "classification",
			Response: label,
			Reason:   "category is not in the department taxonomy",
		}
	}

	return domain.VendorRecord{
		Name:        entry.Vendor,
		Amount:      amount,
		Description: description,
		Category:    category,
	}, nil
}
