package pipeline

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dvloznov/vendorscope/internal/domain"
	"github.com/dvloznov/vendorscope/internal/llm"
	"github.com/dvloznov/vendorscope/internal/logger"
)

const maxOpportunities = 3

// OpportunityStep issues one request over the whole portfolio and expects at
// most three quoted-CSV rows of vendor, action, explanation. The raw reply
// is kept on the state for persistence; the parsed rows are validated here.
type OpportunityStep struct {
	Generator  llm.Generator
	Checkpoint *Checkpoint
}

func (s *OpportunityStep) Execute(ctx context.Context, state *State) error {
	log := logger.FromContext(ctx)
	log.Info().Int("vendors", len(state.Records)).Msg("identifying opportunities")

	prompt, err := renderOpportunityPrompt(vendorActionLines(state.Records))
	if err != nil {
		return err
	}
	reply, err := s.Generator.Generate(ctx, prompt)
	if err != nil {
		return err
	}
	state.OpportunityText = reply

	rows, err := parseOpportunities(llm.StripFences(reply))
	if err != nil {
		return err
	}
	state.Opportunities = rows

	if err := s.Checkpoint.Append("opportunities", "", reply); err != nil {
		return err
	}

	log.Info().Int("opportunities", len(rows)).Msg("opportunity ranking complete")
	return nil
}

// parseOpportunities validates the model's CSV text: at most three data
// rows, exactly three fields each. Blank rows are permitted and skipped.
func parseOpportunities(text string) ([]domain.OpportunityRow, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1

	var rows []domain.OpportunityRow
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &domain.MalformedResponseError{
				Stage:    "opportunities",
				Response: text,
				Reason:   fmt.Sprintf("invalid CSV: %v", err),
			}
		}

		if isBlankRow(record) {
			continue
		}
		if len(record) != 3 {
			return nil, &domain.MalformedResponseError{
				Stage:    "opportunities",
				Response: text,
				Reason:   fmt.Sprintf("row has %d fields, want 3", len(record)),
			}
		}

		rows = append(rows, domain.OpportunityRow{
			Vendor:      strings.TrimSpace(record[0]),
			Action:      strings.TrimSpace(record[1]),
			Explanation: strings.TrimSpace(record[2]),
		})
	}

	if len(rows) > maxOpportunities {
		return nil, &domain.MalformedResponseError{
			Stage:    "opportunities",
			Response: text,
			Reason:   fmt.Sprintf("%d data rows, want at most %d", len(rows), maxOpportunities),
		}
	}
	return rows, nil
}

func isBlankRow(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
