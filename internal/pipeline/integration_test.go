package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/dvloznov/vendorscope/internal/domain"
)

type mockArchiver struct {
	mu    sync.Mutex
	paths []string
}

func (m *mockArchiver) ArchiveFile(_ context.Context, runID, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paths = append(m.paths, path)
	return nil
}

type mockPublisher struct {
	records []domain.VendorRecord
}

func (m *mockPublisher) PublishRecords(_ context.Context, records []domain.VendorRecord) error {
	m.records = append([]domain.VendorRecord(nil), records...)
	return nil
}

func writeLedger(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vendors.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAnalyze_EndToEnd(t *testing.T) {
	input := writeLedger(t, "Vendor,Amount\nAWS,\"$1,200.00\"\nZoom,500\n")
	outDir := t.TempDir()

	recorder := newMockRecorder()
	archiver := &mockArchiver{}
	publisher := &mockPublisher{}

	ckpt, err := NewCheckpoint(t.TempDir(), "e2e-run")
	if err != nil {
		t.Fatal(err)
	}
	defer ckpt.Close()

	deps := Deps{
		Generator:  scriptedGenerator(),
		Searcher:   echoSearcher(),
		Recorder:   recorder,
		Archiver:   archiver,
		Publisher:  publisher,
		Checkpoint: ckpt,
		Workers:    1,
		OutputDir:  outDir,
	}

	state, err := Analyze(context.Background(), "e2e-run", input, deps)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if len(state.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(state.Records))
	}
	if state.Records[0].Name != "AWS" || state.Records[1].Name != "Zoom" {
		t.Errorf("record order = %s, %s; want AWS, Zoom", state.Records[0].Name, state.Records[1].Name)
	}
	if state.Records[0].Amount.String() != "1200" || state.Records[1].Amount.String() != "500" {
		t.Errorf("amounts = %s, %s; want 1200, 500", state.Records[0].Amount, state.Records[1].Amount)
	}
	for i, rec := range state.Records {
		if rec.Description == "" || rec.Category == "" || rec.Action.IsZero() {
			t.Errorf("record %d incomplete: %+v", i, rec)
		}
	}

	// Output files exist and the results file preserves order.
	data, err := os.ReadFile(state.ResultsPath)
	if err != nil {
		t.Fatalf("reading results file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("results file has %d lines, want header + 2", len(lines))
	}
	if lines[0] != "Vendor,Amount,Description,Category,Action" {
		t.Errorf("results header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "AWS,1200,") || !strings.HasPrefix(lines[2], "Zoom,500,") {
		t.Errorf("results rows out of order or malformed:\n%s", string(data))
	}

	if _, err := os.Stat(state.OpportunitiesPath); err != nil {
		t.Errorf("opportunities file missing: %v", err)
	}

	// Sinks saw the run.
	if len(recorder.started) != 1 || !strings.HasSuffix(recorder.started[0], ":2") {
		t.Errorf("recorder.started = %v, want one start with 2 vendors", recorder.started)
	}
	if len(recorder.succeeded) != 1 {
		t.Errorf("recorder.succeeded = %v, want one success", recorder.succeeded)
	}
	if len(archiver.paths) != 2 {
		t.Errorf("archiver received %d files, want 2", len(archiver.paths))
	}
	if len(publisher.records) != 2 {
		t.Errorf("publisher received %d records, want 2", len(publisher.records))
	}

	// Checkpoint captured per-vendor progress.
	ckptData, err := os.ReadFile(ckpt.Path())
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(ckptData), "\n"); n != 5 { // 2 enrich + 2 recommend + 1 opportunities
		t.Errorf("checkpoint has %d lines, want 5", n)
	}
}

func TestAnalyze_HeaderOnlyLedger(t *testing.T) {
	input := writeLedger(t, "Vendor,Amount\n")
	outDir := t.TempDir()

	deps := Deps{
		Generator: scriptedGenerator(),
		Searcher:  echoSearcher(),
		Workers:   1,
		OutputDir: outDir,
	}

	state, err := Analyze(context.Background(), "", input, deps)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if state.RunID == "" {
		t.Error("Analyze did not assign a run ID")
	}
	if len(state.Records) != 0 {
		t.Errorf("got %d records, want 0", len(state.Records))
	}

	data, err := os.ReadFile(state.ResultsPath)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != "Vendor,Amount,Description,Category,Action" {
		t.Errorf("header-only ledger should produce header-only results, got %q", string(data))
	}
}

func TestAnalyze_SearchFailureWritesNoOutput(t *testing.T) {
	input := writeLedger(t, "Vendor,Amount\nAWS,100\nZoom,200\nSlack,300\n")
	outDir := t.TempDir()

	searcher := &mockSearcher{}
	searcher.SearchFunc = func(_ context.Context, query string) (string, error) {
		if searcher.CallCount() == 2 {
			return "", errors.New("search backend unavailable")
		}
		return "Search results: " + query, nil
	}

	recorder := newMockRecorder()
	deps := Deps{
		Generator: scriptedGenerator(),
		Searcher:  searcher,
		Recorder:  recorder,
		Workers:   1,
		OutputDir: outDir,
	}

	_, err := Analyze(context.Background(), "fail-run", input, deps)
	if err == nil {
		t.Fatal("Analyze expected error")
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("output dir should be empty after mid-run failure, found %d files", len(entries))
	}

	if _, ok := recorder.failed["fail-run"]; !ok {
		t.Error("recorder was not told the run failed")
	}
	if len(recorder.succeeded) != 0 {
		t.Error("recorder marked a failed run as succeeded")
	}
}
