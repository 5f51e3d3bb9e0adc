package bigquery

import (
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
)

const analysisRunsTable = "analysis_runs"

// AnalysisRunRow is one row of the analysis_runs audit table.
type AnalysisRunRow struct {
	RunID       string `bigquery:"run_id"`       // REQUIRED
	InputFile   string `bigquery:"input_file"`   // NULLABLE
	VendorCount int64  `bigquery:"vendor_count"` // NULLABLE

	// RunDate is the partition column.
	RunDate civil.Date `bigquery:"run_date"` // REQUIRED

	StartedTS  time.Time              `bigquery:"started_ts"`  // REQUIRED
	FinishedTS bigquery.NullTimestamp `bigquery:"finished_ts"` // NULLABLE

	Status       string `bigquery:"status"`        // RUNNING | SUCCESS | FAILED
	ErrorMessage string `bigquery:"error_message"` // NULLABLE
}
