package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// mockGenerator is a test double for llm.Generator.
type mockGenerator struct {
	GenerateFunc func(ctx context.Context, prompt string) (string, error)

	mu      sync.Mutex
	prompts []string
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	return m.GenerateFunc(ctx, prompt)
}

func (m *mockGenerator) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// mockSearcher is a test double for llm.Searcher.
type mockSearcher struct {
	SearchFunc func(ctx context.Context, query string) (string, error)

	mu      sync.Mutex
	queries []string
}

func (m *mockSearcher) Search(ctx context.Context, query string) (string, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()
	return m.SearchFunc(ctx, query)
}

func (m *mockSearcher) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queries)
}

// mockRecorder is a test double for RunRecorder.
type mockRecorder struct {
	mu        sync.Mutex
	started   []string
	succeeded []string
	failed    map[string]error
}

func newMockRecorder() *mockRecorder {
	return &mockRecorder{failed: make(map[string]error)}
}

func (m *mockRecorder) StartRun(ctx context.Context, runID, inputFile string, vendorCount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = append(m.started, fmt.Sprintf("%s:%d", inputFile, vendorCount))
	return nil
}

func (m *mockRecorder) MarkRunSucceeded(ctx context.Context, runID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.succeeded = append(m.succeeded, runID)
	return nil
}

func (m *mockRecorder) MarkRunFailed(ctx context.Context, runID string, runErr error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed[runID] = runErr
}

// scriptedGenerator answers each prompt kind deterministically. The vendor
// name is threaded through the search query so descriptions stay unique per
// vendor.
func scriptedGenerator() *mockGenerator {
	return &mockGenerator{GenerateFunc: scriptedReply}
}

func scriptedReply(_ context.Context, prompt string) (string, error) {
	switch {
	case strings.HasPrefix(prompt, "Generate a search query"):
		vendor := vendorFromQueryPrompt(prompt)
		return "what services does " + vendor + " provide", nil
	case strings.Contains(prompt, "Description of Services:"):
		return "Provides " + wordAfter(prompt, "does ") + " managed services to businesses.", nil
	case strings.Contains(prompt, "Available Categories:"):
		return "Engineering", nil
	case strings.Contains(prompt, "Recommendation for"):
		return "optimize", nil
	case strings.Contains(prompt, "TOP 3 cost-saving opportunities"):
		return "\"AWS\",\"optimize\",\"$90K via contract renegotiation\"\n", nil
	}
	return "", fmt.Errorf("scriptedReply: unexpected prompt: %s", prompt)
}

// vendorFromQueryPrompt pulls the vendor name back out of the rendered
// query prompt.
func vendorFromQueryPrompt(prompt string) string {
	s := strings.TrimPrefix(prompt, "Generate a search query to find what services ")
	return strings.TrimSuffix(s, " provides.")
}

func wordAfter(s, marker string) string {
	idx := strings.Index(s, marker)
	if idx == -1 {
		return ""
	}
	rest := s[idx+len(marker):]
	if sp := strings.IndexAny(rest, " \n"); sp != -1 {
		return rest[:sp]
	}
	return rest
}

// echoSearcher returns a canned result embedding the query.
func echoSearcher() *mockSearcher {
	return &mockSearcher{SearchFunc: func(_ context.Context, query string) (string, error) {
		return "Search results: " + query, nil
	}}
}
