// Package cohere provides a generation service adapter using the Cohere API.
//
// Responses are normalised at the client boundary: a missing or empty
// "generations" attribute and an unparseable body become degraded
// GenerationResult values rather than errors, so callers always get a
// displayable answer for a delivered response.
package cohere

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/meridian-labs/grounded/internal/core/domain"
	"github.com/meridian-labs/grounded/internal/core/ports/driven"
)

// Ensure GenerationService implements the interface.
var _ driven.GenerationService = (*GenerationService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.cohere.com"
	DefaultModel   = "command"
	DefaultTimeout = 120 * time.Second
)

// Config holds configuration for the Cohere generation service.
type Config struct {
	// APIKey is the Cohere API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.cohere.com).
	BaseURL string

	// Model is the generation model to use (default: command).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// GenerationService produces text completions using the Cohere API.
type GenerationService struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// generateRequest is the Cohere /v1/generate request format.
type generateRequest struct {
	Model          string  `json:"model"`
	Prompt         string  `json:"prompt"`
	MaxTokens      int     `json:"max_tokens,omitempty"`
	Temperature    float64 `json:"temperature"`
	NumGenerations int     `json:"num_generations,omitempty"`
	Truncate       string  `json:"truncate,omitempty"`
}

// generateResponse is the Cohere /v1/generate response format. Generations
// is kept raw so an absent attribute can be told apart from an empty one.
type generateResponse struct {
	Generations json.RawMessage `json:"generations"`
	Message     string          `json:"message,omitempty"`
}

// generation is a single entry of the generations array.
type generation struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// NewGenerationService creates a new Cohere generation service.
func NewGenerationService(cfg Config) (*GenerationService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("cohere: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &GenerationService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// Generate produces a text completion from a prompt.
func (s *GenerationService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (domain.GenerationResult, error) {
	reqBody := generateRequest{
		Model:          s.model,
		Prompt:         prompt,
		Temperature:    opts.Temperature,
		NumGenerations: 1,
		Truncate:       "END",
	}
	if opts.MaxTokens > 0 {
		reqBody.MaxTokens = opts.MaxTokens
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return domain.GenerationResult{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/v1/generate",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return domain.GenerationResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return domain.GenerationResult{}, fmt.Errorf("cohere: %w: %v", domain.ErrGenerationService, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.GenerationResult{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr generateResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			return domain.GenerationResult{}, fmt.Errorf("cohere: %w: %s", domain.ErrGenerationService, apiErr.Message)
		}
		return domain.GenerationResult{}, fmt.Errorf("cohere: %w: status %d: %s", domain.ErrGenerationService, resp.StatusCode, string(body))
	}

	return normalise(body), nil
}

// normalise maps a delivered 200 response body onto a GenerationResult.
func normalise(body []byte) domain.GenerationResult {
	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return domain.MalformedGeneration(err.Error())
	}

	if genResp.Generations == nil {
		return domain.MissingGenerations()
	}

	var gens []generation
	if err := json.Unmarshal(genResp.Generations, &gens); err != nil {
		return domain.MalformedGeneration(err.Error())
	}
	if len(gens) == 0 {
		return domain.EmptyGeneration()
	}

	texts := make([]string, len(gens))
	for i, g := range gens {
		texts[i] = g.Text
	}
	return domain.Candidates(texts)
}

// ModelName returns the name of the generation model being used.
func (s *GenerationService) ModelName() string {
	return s.model
}

// Ping validates the service is reachable by checking the /v1/models endpoint.
func (s *GenerationService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/v1/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("cohere: failed to create ping request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("cohere: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("cohere: API returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("cohere: API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Close releases resources.
func (s *GenerationService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
