// Package opensearch provides a vector index adapter backed by an
// OpenSearch cluster with the k-NN plugin.
package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/meridian-labs/grounded/internal/core/domain"
	"github.com/meridian-labs/grounded/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Default configuration values.
const (
	DefaultAddress = "https://localhost:9200"
	DefaultIndex   = "documents"
	DefaultTimeout = 30 * time.Second
)

// Config holds configuration for the OpenSearch index adapter.
type Config struct {
	// Address is the cluster endpoint (default: https://localhost:9200).
	Address string

	// Username and Password are the basic auth credentials. Both empty
	// disables authentication.
	Username string
	Password string

	// Index is the index name (default: documents).
	Index string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Index stores and searches embedding vectors in an OpenSearch k-NN index.
type Index struct {
	client   *http.Client
	address  string
	username string
	password string
	index    string

	// mu guards dimensions, which is set by EnsureSchema or resolved
	// lazily from the live mapping.
	mu         sync.Mutex
	dimensions int
}

// indexRecord is the stored document shape.
type indexRecord struct {
	ID         string    `json:"id"`
	PageNumber int       `json:"page_number"`
	Body       string    `json:"body"`
	Embedding  []float32 `json:"embedding"`
}

// searchResponse is the OpenSearch _search response shape.
type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string  `json:"_id"`
			Score  float64 `json:"_score"`
			Source struct {
				ID         string `json:"id"`
				PageNumber int    `json:"page_number"`
				Body       string `json:"body"`
			} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// errorResponse is the OpenSearch error envelope.
type errorResponse struct {
	Error struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
}

// New creates a new OpenSearch index adapter.
func New(cfg Config) (*Index, error) {
	if cfg.Address == "" {
		cfg.Address = DefaultAddress
	}
	if cfg.Index == "" {
		cfg.Index = DefaultIndex
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if _, err := url.Parse(cfg.Address); err != nil {
		return nil, fmt.Errorf("opensearch: invalid address %q: %w", cfg.Address, err)
	}

	return &Index{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		address:  strings.TrimRight(cfg.Address, "/"),
		username: cfg.Username,
		password: cfg.Password,
		index:    cfg.Index,
	}, nil
}

// EnsureSchema creates the k-NN index if it does not exist, or verifies
// the existing mapping has the expected embedding dimension.
func (i *Index) EnsureSchema(ctx context.Context, dimensions int) error {
	if dimensions <= 0 {
		return fmt.Errorf("%w: dimensions must be positive", domain.ErrInvalidInput)
	}

	exists, err := i.indexExists(ctx)
	if err != nil {
		return err
	}
	if exists {
		got, err := i.mappedDimension(ctx)
		if err != nil {
			return err
		}
		if got != dimensions {
			return &domain.SchemaMismatchError{Index: i.index, Want: dimensions, Got: got}
		}
		i.setDimensions(dimensions)
		return nil
	}

	if err := i.createIndex(ctx, dimensions); err != nil {
		return err
	}
	i.setDimensions(dimensions)
	return nil
}

func (i *Index) setDimensions(dimensions int) {
	i.mu.Lock()
	i.dimensions = dimensions
	i.mu.Unlock()
}

// resolveDimensions returns the embedding dimension, reading it from
// the live mapping on first use. A process that only queries never
// calls EnsureSchema, but can still search an index created elsewhere.
func (i *Index) resolveDimensions(ctx context.Context) (int, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.dimensions != 0 {
		return i.dimensions, nil
	}

	exists, err := i.indexExists(ctx)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, fmt.Errorf("index %q: %w: schema not created", i.index, domain.ErrSchemaMismatch)
	}
	got, err := i.mappedDimension(ctx)
	if err != nil {
		return 0, err
	}
	i.dimensions = got
	return got, nil
}

func (i *Index) indexExists(ctx context.Context) (bool, error) {
	resp, err := i.do(ctx, http.MethodHead, "/"+i.index, nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("opensearch: unexpected status %d checking index %q", resp.StatusCode, i.index)
	}
}

func (i *Index) createIndex(ctx context.Context, dimensions int) error {
	body := map[string]any{
		"settings": map[string]any{
			"index": map[string]any{
				"knn": true,
			},
		},
		"mappings": map[string]any{
			"properties": map[string]any{
				"id":          map[string]any{"type": "keyword"},
				"page_number": map[string]any{"type": "integer"},
				"body":        map[string]any{"type": "text"},
				"embedding": map[string]any{
					"type":      "knn_vector",
					"dimension": dimensions,
				},
			},
		},
	}

	resp, err := i.do(ctx, http.MethodPut, "/"+i.index, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return nil
	}

	raw, _ := io.ReadAll(resp.Body)
	var apiErr errorResponse
	if json.Unmarshal(raw, &apiErr) == nil &&
		apiErr.Error.Type == "resource_already_exists_exception" {
		// Lost a create race; the index is there.
		return nil
	}
	return fmt.Errorf("opensearch: create index %q: status %d: %s", i.index, resp.StatusCode, string(raw))
}

// mappedDimension reads the embedding dimension from the live mapping.
func (i *Index) mappedDimension(ctx context.Context) (int, error) {
	resp, err := i.do(ctx, http.MethodGet, "/"+i.index+"/_mapping", nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("opensearch: get mapping for %q: status %d: %s", i.index, resp.StatusCode, string(raw))
	}

	// Response is keyed by index name:
	// {"<index>":{"mappings":{"properties":{"embedding":{"dimension":N}}}}}
	var mapping map[string]struct {
		Mappings struct {
			Properties struct {
				Embedding struct {
					Dimension int `json:"dimension"`
				} `json:"embedding"`
			} `json:"properties"`
		} `json:"mappings"`
	}
	if err := json.Unmarshal(raw, &mapping); err != nil {
		return 0, fmt.Errorf("opensearch: decode mapping: %w", err)
	}

	entry, ok := mapping[i.index]
	if !ok {
		// Aliased index; take the single entry.
		for _, v := range mapping {
			entry = v
			ok = true
			break
		}
	}
	if !ok || entry.Mappings.Properties.Embedding.Dimension == 0 {
		return 0, fmt.Errorf("opensearch: index %q has no embedding mapping", i.index)
	}
	return entry.Mappings.Properties.Embedding.Dimension, nil
}

// Upsert stores a record under its key, replacing any previous version.
func (i *Index) Upsert(ctx context.Context, record domain.IndexedRecord) error {
	dimensions, err := i.resolveDimensions(ctx)
	if err != nil {
		return err
	}
	if len(record.Embedding) != dimensions {
		return fmt.Errorf("index %q: %w: got %d, want %d",
			i.index, domain.ErrDimensionMismatch, len(record.Embedding), dimensions)
	}

	body := indexRecord{
		ID:         record.DocumentID,
		PageNumber: record.PageNumber,
		Body:       record.Body,
		Embedding:  record.Embedding,
	}

	resp, err := i.do(ctx, http.MethodPut, "/"+i.index+"/_doc/"+url.PathEscape(record.Key), body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("opensearch: upsert %q: status %d: %s", record.Key, resp.StatusCode, string(raw))
	}
	return nil
}

// Search runs a k-NN query and returns up to k hits by descending score.
func (i *Index) Search(ctx context.Context, vector []float32, k int) ([]driven.IndexHit, error) {
	dimensions, err := i.resolveDimensions(ctx)
	if err != nil {
		return nil, err
	}
	if len(vector) != dimensions {
		return nil, fmt.Errorf("index %q: %w: query vector has %d, want %d",
			i.index, domain.ErrDimensionMismatch, len(vector), dimensions)
	}
	if k <= 0 {
		return nil, nil
	}

	body := map[string]any{
		"size":    k,
		"_source": []string{"id", "page_number", "body"},
		"query": map[string]any{
			"knn": map[string]any{
				"embedding": map[string]any{
					"vector": vector,
					"k":      k,
				},
			},
		},
	}

	resp, err := i.do(ctx, http.MethodPost, "/"+i.index+"/_search", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("opensearch: search %q: status %d: %s", i.index, resp.StatusCode, string(raw))
	}

	var searchResp searchResponse
	if err := json.Unmarshal(raw, &searchResp); err != nil {
		return nil, fmt.Errorf("opensearch: decode search response: %w", err)
	}

	hits := make([]driven.IndexHit, 0, len(searchResp.Hits.Hits))
	for _, h := range searchResp.Hits.Hits {
		hits = append(hits, driven.IndexHit{
			Key:        h.ID,
			DocumentID: h.Source.ID,
			PageNumber: h.Source.PageNumber,
			Body:       h.Source.Body,
			Score:      h.Score,
		})
	}
	return hits, nil
}

// do sends a JSON request to the cluster with auth headers applied.
func (i *Index) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, i.address+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if i.username != "" || i.password != "" {
		req.SetBasicAuth(i.username, i.password)
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("opensearch: request failed: %w", err)
	}
	return resp, nil
}

// Close releases resources.
func (i *Index) Close() error {
	return nil
}
