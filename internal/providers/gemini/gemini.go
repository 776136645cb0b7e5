// Package gemini provides a client for the Google Gemini generateContent API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"

	"advisor/internal/core"
	"advisor/internal/httpclient"
)

const (
	// defaultBaseURL is the native Gemini API endpoint
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultModel is the model used when none is configured
	DefaultModel = "gemini-1.5-flash"
)

// generatedTextPath is where the generated text lives in a generateContent
// response. Absence of any level of this path is a failure.
const generatedTextPath = "candidates.0.content.parts.0.text"

// Client implements core.Completer against the Gemini generateContent API.
type Client struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
}

// generateRequest is the generateContent request body
type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// generationConfig bounds the completion: low-variance sampling and a capped
// output length keep both cost and latency predictable.
type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// New creates a new Gemini client. An empty model selects DefaultModel.
func New(apiKey, model string) *Client {
	return NewWithHTTPClient(apiKey, model, "", httpclient.NewDefault())
}

// NewWithHTTPClient creates a Gemini client with a custom HTTP client and
// base URL, primarily for testing. Empty model and baseURL select defaults.
func NewWithHTTPClient(apiKey, model, baseURL string, client *http.Client) *Client {
	if model == "" {
		model = DefaultModel
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = httpclient.NewDefault()
	}
	return &Client{
		httpClient: client,
		apiKey:     apiKey,
		model:      model,
		baseURL:    baseURL,
	}
}

// Generate submits the prompt to the generateContent endpoint and returns
// the generated text. Transport failures, non-2xx statuses and responses
// missing the generated-text path all return a provider error; the call is
// never retried.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     0.7,
			TopK:            1,
			TopP:            1,
			MaxOutputTokens: 1024,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	// The native Gemini API authenticates via an API key query parameter.
	q := httpReq.URL.Query()
	q.Add("key", c.apiKey)
	httpReq.URL.RawQuery = q.Encode()

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", core.NewProviderError(0, "failed to reach Gemini API", err)
	}
	defer func() {
		_ = resp.Body.Close() //nolint:errcheck
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", core.NewProviderError(0, "failed to read Gemini response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", core.NewProviderError(resp.StatusCode,
			fmt.Sprintf("Gemini API error (status %d): %s", resp.StatusCode, string(respBody)), nil)
	}

	text := gjson.GetBytes(respBody, generatedTextPath)
	if !text.Exists() {
		return "", core.NewProviderError(0, "Gemini response has no generated text", nil)
	}

	return text.String(), nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}
