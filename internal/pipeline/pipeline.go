// Package pipeline implements the four-stage vendor analysis: enrichment,
// recommendation, opportunity ranking, and persistence. Stages run strictly
// forward; the first error aborts the run.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dvloznov/vendorscope/internal/domain"
	"github.com/dvloznov/vendorscope/internal/ledger"
	"github.com/dvloznov/vendorscope/internal/llm"
	"github.com/dvloznov/vendorscope/internal/logger"
)

// Step is a single step in the analysis pipeline.
type Step interface {
	Execute(ctx context.Context, state *State) error
}

// State holds the shared state across all pipeline steps.
type State struct {
	RunID     string
	InputPath string

	Entries []ledger.Entry
	Records []domain.VendorRecord

	// OpportunityText is the raw model output for the opportunity ranking;
	// it is persisted as-is. Opportunities is its validated form.
	OpportunityText string
	Opportunities   []domain.OpportunityRow

	ResultsPath       string
	OpportunitiesPath string
}

// RunRecorder records run lifecycle events in the audit store.
type RunRecorder interface {
	StartRun(ctx context.Context, runID, inputFile string, vendorCount int) error
	MarkRunSucceeded(ctx context.Context, runID string) error
	MarkRunFailed(ctx context.Context, runID string, runErr error)
}

// Archiver copies an output artifact to long-term storage.
type Archiver interface {
	ArchiveFile(ctx context.Context, runID, path string) error
}

// Publisher pushes the final records to an external reporting surface.
type Publisher interface {
	PublishRecords(ctx context.Context, records []domain.VendorRecord) error
}

// Deps carries everything the pipeline calls out to. Generator and Searcher
// are required; the sinks are optional and skipped when nil.
type Deps struct {
	Generator  llm.Generator
	Searcher   llm.Searcher
	Recorder   RunRecorder
	Archiver   Archiver
	Publisher  Publisher
	Checkpoint *Checkpoint

	Workers   int
	OutputDir string
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []Step
}

// NewPipeline creates a new pipeline with the given steps.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps sequentially; the first error aborts the pipeline.
func (p *Pipeline) Execute(ctx context.Context, state *State) error {
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d failed: %w", i+1, err)
		}
	}
	return nil
}

// NewAnalysisPipeline assembles the standard steps for one ledger analysis.
func NewAnalysisPipeline(deps Deps) *Pipeline {
	return NewPipeline(
		&ReadLedgerStep{},
		&StartRunStep{Recorder: deps.Recorder},
		&EnrichStep{
			Generator:  deps.Generator,
			Searcher:   deps.Searcher,
			Workers:    deps.Workers,
			Checkpoint: deps.Checkpoint,
		},
		&RecommendStep{Generator: deps.Generator, Checkpoint: deps.Checkpoint},
		&OpportunityStep{Generator: deps.Generator, Checkpoint: deps.Checkpoint},
		&PersistStep{OutputDir: deps.OutputDir},
		&ArchiveStep{Archiver: deps.Archiver},
		&PublishStep{Publisher: deps.Publisher},
	)
}

// Analyze runs the full pipeline over the ledger at inputPath and records
// the outcome with the run recorder. An empty runID gets a fresh UUID.
func Analyze(ctx context.Context, runID, inputPath string, deps Deps) (*State, error) {
	if runID == "" {
		runID = uuid.NewString()
	}
	state := &State{
		RunID:     runID,
		InputPath: inputPath,
	}

	log := logger.FromContext(ctx)
	log.Info().Str("run_id", state.RunID).Str("input", inputPath).Msg("starting analysis")

	if err := NewAnalysisPipeline(deps).Execute(ctx, state); err != nil {
		if deps.Recorder != nil {
			deps.Recorder.MarkRunFailed(ctx, state.RunID, err)
		}
		return state, err
	}

	if deps.Recorder != nil {
		if err := deps.Recorder.MarkRunSucceeded(ctx, state.RunID); err != nil {
			return state, err
		}
	}

	log.Info().
		Str("run_id", state.RunID).
		Int("vendors", len(state.Records)).
		Str("results", state.ResultsPath).
		Str("opportunities", state.OpportunitiesPath).
		Msg("analysis complete")
	return state, nil
}

// ReadLedgerStep reads the input ledger into state.Entries.
type ReadLedgerStep struct{}

func (s *ReadLedgerStep) Execute(ctx context.Context, state *State) error {
	entries, err := ledger.ReadEntries(state.InputPath)
	if err != nil {
		return err
	}
	state.Entries = entries
	return nil
}

// StartRunStep records the run in the audit store once the vendor count is
// known. Skipped when no recorder is configured.
type StartRunStep struct {
	Recorder RunRecorder
}

func (s *StartRunStep) Execute(ctx context.Context, state *State) error {
	if s.Recorder == nil {
		return nil
	}
	return s.Recorder.StartRun(ctx, state.RunID, state.InputPath, len(state.Entries))
}

// PersistStep writes the results CSV and the opportunities text file.
type PersistStep struct {
	OutputDir string
}

func (s *PersistStep) Execute(ctx context.Context, state *State) error {
	now := time.Now()

	resultsPath, err := ledger.WriteResults(s.OutputDir, state.Records, now)
	if err != nil {
		return err
	}
	state.ResultsPath = resultsPath

	oppPath, err := ledger.WriteOpportunities(s.OutputDir, state.OpportunityText, now)
	if err != nil {
		return err
	}
	state.OpportunitiesPath = oppPath
	return nil
}

// ArchiveStep uploads the output artifacts. Skipped when no archiver is
// configured.
type ArchiveStep struct {
	Archiver Archiver
}

func (s *ArchiveStep) Execute(ctx context.Context, state *State) error {
	if s.Archiver == nil {
		return nil
	}
	for _, path := range []string{state.ResultsPath, state.OpportunitiesPath} {
		if err := s.Archiver.ArchiveFile(ctx, state.RunID, path); err != nil {
			return err
		}
	}
	return nil
}

// PublishStep pushes the final records to the configured reporting surface.
// Skipped when no publisher is configured.
type PublishStep struct {
	Publisher Publisher
}

func (s *PublishStep) Execute(ctx context.Context, state *State) error {
	if s.Publisher == nil {
		return nil
	}
	return s.Publisher.PublishRecords(ctx, state.Records)
}
