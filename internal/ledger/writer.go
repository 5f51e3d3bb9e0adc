package ledger

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dvloznov/vendorscope/internal/domain"
)

// resultColumns is the fixed column set of the results file.
var resultColumns = []string{"Vendor", "Amount", "Description", "Category", "Action"}

// WriteResults writes the analyzed records to results_<YYYYMMDD_HHMMSS>.csv
// in dir, one row per vendor in the order given, and returns the file path.
func WriteResults(dir string, records []domain.VendorRecord, ts time.Time) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("results_%s.csv", ts.Format("20060102_150405")))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("WriteResults: create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(resultColumns); err != nil {
		return "", fmt.Errorf("WriteResults: write header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			rec.Name,
			rec.Amount.String(),
			rec.Description,
			rec.Category,
			rec.Action.String(),
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("WriteResults: write row for %s: %w", rec.Name, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("WriteResults: flush: %w", err)
	}
	return path, nil
}

// WriteOpportunities writes the raw opportunity text to
// opportunities_<YYYY-MM-DD_HH-MM-SS>.txt in dir and returns the file path.
// The text is persisted exactly as the model returned it.
func WriteOpportunities(dir, text string, ts time.Time) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("opportunities_%s.txt", ts.Format("2006-01-02_15-04-05")))

	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("WriteOpportunities: write %s: %w", path, err)
	}
	return path, nil
}
