// Package llm wraps the Gemini API behind the two capabilities the
// pipeline needs: free-text generation and grounded web search.
package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/dvloznov/vendorscope/internal/domain"
)

// Generator produces free text from a filled prompt string.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Searcher executes a web search query and returns unstructured result text.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// Options configures the Gemini client. APIKey may be empty, in which case
// the client falls back to the GEMINI_API_KEY environment variable.
type Options struct {
	Model       string
	Temperature float64
	APIKey      string
}

// Client implements Generator and Searcher on top of Gemini. Search uses the
// Google Search grounding tool so result text reflects live web content.
type Client struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewClient creates a Gemini-backed client.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	cc := &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	}
	if opts.APIKey != "" {
		cc.APIKey = opts.APIKey
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("NewClient: create genai client: %w", err)
	}
	return &Client{
		client:      client,
		model:       opts.Model,
		temperature: float32(opts.Temperature),
	}, nil
}

// Generate sends the prompt to the model and returns the response text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.temperature),
	}
	return c.call(ctx, "generate", prompt, cfg)
}

// Search runs the query through the model with Google Search grounding
// enabled and returns the grounded answer text.
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.temperature),
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
	}
	return c.call(ctx, "search", query, cfg)
}

func (c *Client) call(ctx context.Context, capability, prompt string, cfg *genai.GenerateContentConfig) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", &domain.ExternalCallError{Capability: capability, Err: err}
	}

	text := resp.Text()
	if text == "" {
		return "", &domain.ExternalCallError{
			Capability: capability,
			Err:        fmt.Errorf("empty response from model"),
		}
	}
	return text, nil
}
