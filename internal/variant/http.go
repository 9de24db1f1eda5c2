package variant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/certogo-tech/meilisearch-thai-sub004/internal/models"
)

// HTTPSource fetches variants from a tokenization service over HTTP.
type HTTPSource struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSource creates a source for the tokenizer at baseURL.
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &HTTPSource{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type tokenizeRequest struct {
	Text string `json:"text"`
}

type tokenizeResponse struct {
	Variants []struct {
		Text   string  `json:"text"`
		Kind   string  `json:"kind"`
		Engine string  `json:"engine"`
		Weight float64 `json:"weight"`
	} `json:"variants"`
}

// Variants calls the tokenizer and maps its response to query variants. The
// original query is always included first; services that omit it get it
// prepended at full weight.
func (s *HTTPSource) Variants(ctx context.Context, query string) ([]models.QueryVariant, error) {
	reqBody, err := json.Marshal(tokenizeRequest{Text: query})
	if err != nil {
		return nil, fmt.Errorf("failed to encode tokenize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/tokenize", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to build tokenize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tokenize request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("tokenizer returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed tokenizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode tokenize response: %w", err)
	}

	variants := make([]models.QueryVariant, 0, len(parsed.Variants)+1)
	hasOriginal := false
	for _, v := range parsed.Variants {
		if v.Text == "" {
			continue
		}
		kind := models.ParseVariantKind(v.Kind)
		if kind == models.VariantOriginal {
			hasOriginal = true
		}
		weight := v.Weight
		if weight <= 0 || weight > 1 {
			weight = 1.0
		}
		variants = append(variants, models.QueryVariant{
			Text:   v.Text,
			Kind:   kind,
			Engine: v.Engine,
			Weight: weight,
		})
	}
	if !hasOriginal {
		variants = append([]models.QueryVariant{
			{Text: query, Kind: models.VariantOriginal, Engine: "none", Weight: 1.0},
		}, variants...)
	}
	return variants, nil
}
