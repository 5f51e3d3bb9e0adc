package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/dvloznov/vendorscope/internal/config"
	"github.com/dvloznov/vendorscope/internal/gcsarchive"
	infra "github.com/dvloznov/vendorscope/internal/infra/bigquery"
	"github.com/dvloznov/vendorscope/internal/llm"
	"github.com/dvloznov/vendorscope/internal/logger"
	"github.com/dvloznov/vendorscope/internal/notionsync"
	"github.com/dvloznov/vendorscope/internal/pipeline"
)

func main() {
	// API keys and tokens usually live in a local .env during development.
	_ = godotenv.Load()

	input := flag.String("input", "vendors.csv", "path to the vendor spend ledger CSV")
	notionDryRun := flag.Bool("notion-dry-run", false, "log Notion changes without applying them")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("info")
		fallback.Fatal().Err(err).Msg("loading configuration")
	}

	log := logger.New(cfg.LogLevel)

	// Per-vendor model calls add up on large ledgers; cap the whole run.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	client, err := llm.NewClient(ctx, llm.Options{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		APIKey:      cfg.APIKey,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("creating Gemini client")
	}

	runID := uuid.NewString()

	checkpoint, err := pipeline.NewCheckpoint(cfg.CheckpointDir, runID)
	if err != nil {
		log.Fatal().Err(err).Msg("creating checkpoint file")
	}
	defer checkpoint.Close()

	deps := pipeline.Deps{
		Generator:  client,
		Searcher:   client,
		Checkpoint: checkpoint,
		Workers:    cfg.Workers,
		OutputDir:  cfg.OutputDir,
	}
	if cfg.BigQueryProject != "" {
		deps.Recorder = infra.NewRecorder(cfg.BigQueryProject, cfg.BigQueryDataset)
	}
	if cfg.GCSBucket != "" {
		deps.Archiver = gcsarchive.NewUploader(cfg.GCSBucket)
	}
	if cfg.NotionToken != "" && cfg.NotionDatabaseID != "" {
		deps.Publisher = notionsync.NewPublisher(
			notionsync.NewNotionClient(cfg.NotionToken),
			cfg.NotionDatabaseID,
			*notionDryRun,
		)
	}

	state, err := pipeline.Analyze(ctx, runID, *input, deps)
	if err != nil {
		log.Fatal().Err(err).Str("checkpoint", checkpoint.Path()).Msg("analysis failed")
	}

	fmt.Printf("Results saved to %s\n", state.ResultsPath)
	fmt.Printf("Opportunities saved to %s\n", state.OpportunitiesPath)
}
