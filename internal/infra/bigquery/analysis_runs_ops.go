package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"google.golang.org/api/iterator"

	"github.com/dvloznov/vendorscope/internal/logger"
)

// Recorder writes analysis run audit rows to BigQuery. Project and dataset
// come from configuration; the zero value is not usable.
type Recorder struct {
	ProjectID string
	Dataset   string
}

// NewRecorder creates a Recorder for the given project and dataset.
func NewRecorder(projectID, dataset string) *Recorder {
	return &Recorder{ProjectID: projectID, Dataset: dataset}
}

// StartRun inserts an analysis_runs row with status=RUNNING.
func (r *Recorder) StartRun(ctx context.Context, runID, inputFile string, vendorCount int) error {
	client, err := bigquery.NewClient(ctx, r.ProjectID)
	if err != nil {
		return fmt.Errorf("StartRun: bigquery client: %w", err)
	}
	defer client.Close()

	now := time.Now()
	row := &AnalysisRunRow{
		RunID:       runID,
		InputFile:   inputFile,
		VendorCount: int64(vendorCount),
		RunDate:     civil.DateOf(now),
		StartedTS:   now,
		Status:      "RUNNING",
	}

	inserter := client.Dataset(r.Dataset).Table(analysisRunsTable).Inserter()
	if err := inserter.Put(ctx, row); err != nil {
		return fmt.Errorf("StartRun: inserting row: %w", err)
	}
	return nil
}

// MarkRunSucceeded updates an analysis_runs row to status=SUCCESS.
func (r *Recorder) MarkRunSucceeded(ctx context.Context, runID string) error {
	client, err := bigquery.NewClient(ctx, r.ProjectID)
	if err != nil {
		return fmt.Errorf("MarkRunSucceeded: bigquery client: %w", err)
	}
	defer client.Close()

	q := client.Query(fmt.Sprintf(`
		UPDATE %s.%s
		SET status = @status,
		    finished_ts = @finished_ts,
		    error_message = ""
		WHERE run_id = @run_id
	`, r.Dataset, analysisRunsTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "status", Value: "SUCCESS"},
		{Name: "finished_ts", Value: time.Now()},
		{Name: "run_id", Value: runID},
	}

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("MarkRunSucceeded: running update query: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("MarkRunSucceeded: waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("MarkRunSucceeded: job error: %w", err)
	}
	return nil
}

// MarkRunFailed updates an analysis_runs row to status=FAILED. The run is
// already failing, so errors here are logged rather than returned.
func (r *Recorder) MarkRunFailed(ctx context.Context, runID string, runErr error) {
	log := logger.FromContext(ctx)

	client, err := bigquery.NewClient(ctx, r.ProjectID)
	if err != nil {
		log.Error().Err(err).Str("run_id", runID).Msg("MarkRunFailed: bigquery client")
		return
	}
	defer client.Close()

	errMsg := ""
	if runErr != nil {
		errMsg = runErr.Error()
		const maxLen = 2000
		if len(errMsg) > maxLen {
			errMsg = errMsg[:maxLen]
		}
	}

	q := client.Query(fmt.Sprintf(`
		UPDATE %s.%s
		SET status = @status,
		    finished_ts = @finished_ts,
		    error_message = @error_message
		WHERE run_id = @run_id
	`, r.Dataset, analysisRunsTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "status", Value: "FAILED"},
		{Name: "finished_ts", Value: time.Now()},
		{Name: "error_message", Value: errMsg},
		{Name: "run_id", Value: runID},
	}

	job, err := q.Run(ctx)
	if err != nil {
		log.Error().Err(err).Str("run_id", runID).Msg("MarkRunFailed: running update query")
		return
	}
	status, err := job.Wait(ctx)
	if err != nil {
		log.Error().Err(err).Str("run_id", runID).Msg("MarkRunFailed: waiting for job")
		return
	}
	if err := status.Err(); err != nil {
		log.Error().Err(err).Str("run_id", runID).Msg("MarkRunFailed: job completed with error")
	}
}

// ListRecentRuns returns the most recent analysis runs, newest first.
func (r *Recorder) ListRecentRuns(ctx context.Context, limit int) ([]AnalysisRunRow, error) {
	client, err := bigquery.NewClient(ctx, r.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("ListRecentRuns: bigquery client: %w", err)
	}
	defer client.Close()

	q := client.Query(fmt.Sprintf(`
		SELECT run_id, input_file, vendor_count, run_date, started_ts, finished_ts, status, error_message
		FROM %s.%s
		ORDER BY started_ts DESC
		LIMIT @limit
	`, r.Dataset, analysisRunsTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "limit", Value: int64(limit)},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListRecentRuns: read: %w", err)
	}

	var rows []AnalysisRunRow
	for {
		var row AnalysisRunRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListRecentRuns: iterate: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
