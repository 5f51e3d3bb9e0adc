package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/joho/godotenv"

	"github.com/dvloznov/vendorscope/internal/config"
	infra "github.com/dvloznov/vendorscope/internal/infra/bigquery"
	"github.com/dvloznov/vendorscope/internal/logger"
)

func main() {
	_ = godotenv.Load()

	limit := flag.Int("limit", 10, "number of recent runs to list")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("info")
		fallback.Fatal().Err(err).Msg("loading configuration")
	}

	log := logger.New(cfg.LogLevel)

	if cfg.BigQueryProject == "" {
		log.Fatal().Msg("run auditing is disabled: VENDORSCOPE_BIGQUERY_PROJECT is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	recorder := infra.NewRecorder(cfg.BigQueryProject, cfg.BigQueryDataset)
	rows, err := recorder.ListRecentRuns(ctx, *limit)
	if err != nil {
		log.Fatal().Err(err).Msg("listing runs")
	}

	for _, row := range rows {
		finished := "-"
		if row.FinishedTS.Valid {
			finished = row.FinishedTS.Timestamp.Format(time.RFC3339)
		}
		fmt.Printf("%s  %-7s  vendors=%-4d  started=%s  finished=%s  %s\n",
			row.RunID,
			row.Status,
			row.VendorCount,
			row.StartedTS.Format(time.RFC3339),
			finished,
			row.InputFile,
		)
		if row.ErrorMessage != "" {
			fmt.Printf("    error: %s\n", row.ErrorMessage)
		}
	}
}
