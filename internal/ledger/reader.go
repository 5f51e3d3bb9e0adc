// Package ledger reads the vendor spend ledger and writes the analysis
// artifacts as flat files.
package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Entry is one raw row of the input ledger. Amount stays a string here;
// it is parsed exactly once by the enrichment stage.
type Entry struct {
	Vendor string
	Amount string
}

// ReadEntries reads the input ledger CSV. The file must have a header row
// with Vendor and Amount columns; extra columns are ignored. Row order is
// preserved.
func ReadEntries(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ReadEntries: open %s: %w", path, err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("readEntries: ledger is empty, header row required")
	}
	if err != nil {
		return nil, fmt.Errorf("readEntries: read header: %w", err)
	}

	vendorIdx, amountIdx := -1, -1
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case "Vendor":
			vendorIdx = i
		case "Amount":
			amountIdx = i
		}
	}
	if vendorIdx == -1 || amountIdx == -1 {
		return nil, fmt.Errorf("readEntries: header %v missing required Vendor and Amount columns", header)
	}

	var entries []Entry
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("readEntries: read row: %w", err)
		}
		entries = append(entries, Entry{
			Vendor: strings.TrimSpace(row[vendorIdx]),
			Amount: row[amountIdx],
		})
	}

	return entries, nil
}
