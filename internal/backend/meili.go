package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/certogo-tech/meilisearch-thai-sub004/internal/models"
)

// MeiliBackend is a minimal client for a Meilisearch-compatible search API.
type MeiliBackend struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewMeiliBackend creates a client for the engine at baseURL. apiKey may be
// empty for unsecured instances.
func NewMeiliBackend(baseURL, apiKey string, timeout time.Duration) *MeiliBackend {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &MeiliBackend{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type meiliSearchRequest struct {
	Q                     string   `json:"q"`
	Limit                 int      `json:"limit"`
	AttributesToHighlight []string `json:"attributesToHighlight,omitempty"`
	ShowRankingScore      bool     `json:"showRankingScore"`
}

type meiliSearchResponse struct {
	Hits               []map[string]interface{} `json:"hits"`
	EstimatedTotalHits int64                    `json:"estimatedTotalHits"`
	ProcessingTimeMs   int64                    `json:"processingTimeMs"`
	Query              string                   `json:"query"`
}

// Search runs one query against one index.
func (m *MeiliBackend) Search(ctx context.Context, index, query string, limit int) (*Response, error) {
	reqBody, err := json.Marshal(meiliSearchRequest{
		Q:                     query,
		Limit:                 limit,
		AttributesToHighlight: []string{"*"},
		ShowRankingScore:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/indexes/%s/search", m.baseURL, url.PathEscape(index))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if m.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+m.apiKey)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("search returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed meiliSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	return convertMeiliResponse(&parsed), nil
}

func convertMeiliResponse(parsed *meiliSearchResponse) *Response {
	out := &Response{
		TotalHits:        parsed.EstimatedTotalHits,
		ProcessingTimeMs: parsed.ProcessingTimeMs,
		Metadata:         map[string]interface{}{"engine": "meilisearch"},
	}
	for rank, raw := range parsed.Hits {
		hit := convertMeiliHit(raw, rank)
		if hit != nil {
			out.Hits = append(out.Hits, hit)
		}
	}
	return out
}

// convertMeiliHit maps one raw engine hit to a models.Hit. The "_formatted"
// object becomes highlights, "_rankingScore" the raw score, and remaining
// fields the document. Hits without an id are dropped.
func convertMeiliHit(raw map[string]interface{}, rank int) *models.Hit {
	id := documentID(raw["id"])
	if id == "" {
		return nil
	}

	hit := &models.Hit{
		ID:       id,
		Document: make(map[string]interface{}, len(raw)),
	}

	for key, value := range raw {
		switch key {
		case "_rankingScore":
			if score, ok := value.(float64); ok {
				hit.Score = score
			}
		case "_formatted":
			if formatted, ok := value.(map[string]interface{}); ok {
				hit.Highlight = make(map[string]string, len(formatted))
				for field, frag := range formatted {
					if s, ok := frag.(string); ok {
						hit.Highlight[field] = s
					}
				}
			}
		default:
			hit.Document[key] = value
		}
	}

	// Engines that withhold ranking scores still need a usable raw score;
	// fall back to a rank-derived one.
	if hit.Score == 0 {
		hit.Score = 1.0 / float64(rank+1)
	}
	return hit
}

// documentID coerces a document id to a string. Meilisearch permits numeric
// ids, which arrive as float64 after JSON decoding.
func documentID(v interface{}) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		if id == math.Trunc(id) {
			return strconv.FormatInt(int64(id), 10)
		}
		return strconv.FormatFloat(id, 'f', -1, 64)
	}
	return ""
}
