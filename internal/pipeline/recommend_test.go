package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/vendorscope/internal/domain"
)

func enrichedRecords() []domain.VendorRecord {
	return []domain.VendorRecord{
		{
			Name:        "AWS",
			Amount:      decimal.RequireFromString("1200"),
			Description: "Cloud infrastructure and managed services.",
			Category:    "Engineering",
		},
		{
			Name:        "Zoom",
			Amount:      decimal.RequireFromString("500"),
			Description: "Video conferencing for distributed teams.",
			Category:    "SaaS",
		},
	}
}

func TestRecommendStep_AssignsActions(t *testing.T) {
	replies := map[string]string{
		"AWS":  "optimize",
		"Zoom": "Consolidate: AWS", // case and trimming normalized at the boundary
	}
	gen := &mockGenerator{GenerateFunc: func(_ context.Context, prompt string) (string, error) {
		for vendor, reply := range replies {
			if strings.Contains(prompt, "Recommendation for "+vendor) {
				return "  " + reply + "\n", nil
			}
		}
		return "", errors.New("unexpected prompt")
	}}

	state := &State{Records: enrichedRecords()}
	step := &RecommendStep{Generator: gen}

	if err := step.Execute(context.Background(), state); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if got := state.Records[0].Action; got != (domain.Action{Kind: domain.ActionOptimize}) {
		t.Errorf("AWS action = %+v, want optimize", got)
	}
	want := domain.Action{Kind: domain.ActionConsolidate, Target: "aws"}
	if got := state.Records[1].Action; got != want {
		t.Errorf("Zoom action = %+v, want %+v", got, want)
	}
}

func TestRecommendStep_EveryRequestCarriesFullPortfolio(t *testing.T) {
	gen := scriptedGenerator()
	state := &State{Records: enrichedRecords()}

	if err := (&RecommendStep{Generator: gen}).Execute(context.Background(), state); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	for _, prompt := range gen.Prompts() {
		if !strings.Contains(prompt, "AWS ($1200, Engineering)") ||
			!strings.Contains(prompt, "Zoom ($500, SaaS)") {
			t.Errorf("recommendation prompt missing portfolio context:\n%s", prompt)
		}
	}
}

func TestRecommendStep_MalformedReply(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"free text", "you should probably renegotiate"},
		{"consolidate with unknown vendor", "consolidate: salesforce"},
		{"consolidate with itself", "consolidate: aws"},
		{"empty reply trimmed to nothing", "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &mockGenerator{GenerateFunc: func(_ context.Context, prompt string) (string, error) {
				if strings.Contains(prompt, "Recommendation for AWS") {
					return tt.reply, nil
				}
				return "optimize", nil
			}}

			state := &State{Records: enrichedRecords()}
			err := (&RecommendStep{Generator: gen}).Execute(context.Background(), state)

			var merr *domain.MalformedResponseError
			if !errors.As(err, &merr) {
				t.Fatalf("Execute error = %v, want *MalformedResponseError", err)
			}
		})
	}
}

func TestRecommendStep_GenerationFailureAborts(t *testing.T) {
	gen := &mockGenerator{GenerateFunc: func(_ context.Context, _ string) (string, error) {
		return "", errors.New("model unavailable")
	}}
	state := &State{Records: enrichedRecords()}

	if err := (&RecommendStep{Generator: gen}).Execute(context.Background(), state); err == nil {
		t.Fatal("Execute expected error")
	}
	if !state.Records[0].Action.IsZero() {
		t.Error("action assigned despite failure")
	}
}
