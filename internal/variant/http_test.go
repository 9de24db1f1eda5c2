package variant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/certogo-tech/meilisearch-thai-sub004/internal/models"
)

func TestHTTPSourceVariants(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tokenize" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req tokenizeRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Text != "ค้นหาเอกสาร" {
			t.Errorf("request text = %q", req.Text)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"variants": []map[string]interface{}{
				{"text": "ค้นหาเอกสาร", "kind": "original", "engine": "none", "weight": 0.8},
				{"text": "ค้นหา เอกสาร", "kind": "tokenized", "engine": "pythainlp", "weight": 1.0},
				{"text": "ค้น หา เอกสาร", "kind": "compound_split", "engine": "pythainlp", "weight": 0.9},
			},
		})
	}))
	defer srv.Close()

	source := NewHTTPSource(srv.URL, time.Second)
	vs, err := source.Variants(context.Background(), "ค้นหาเอกสาร")
	if err != nil {
		t.Fatalf("variants failed: %v", err)
	}
	if len(vs) != 3 {
		t.Fatalf("expected 3 variants, got %d", len(vs))
	}
	if vs[0].Kind != models.VariantOriginal || vs[0].Weight != 0.8 {
		t.Errorf("original variant not mapped: %+v", vs[0])
	}
	if vs[1].Kind != models.VariantTokenized || vs[1].Engine != "pythainlp" {
		t.Errorf("tokenized variant not mapped: %+v", vs[1])
	}
	if vs[2].Kind != models.VariantCompoundSplit {
		t.Errorf("compound variant not mapped: %+v", vs[2])
	}
}

func TestHTTPSourcePrependsMissingOriginal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"variants": []map[string]interface{}{
				{"text": "ค้นหา เอกสาร", "kind": "tokenized", "engine": "pythainlp", "weight": 1.0},
			},
		})
	}))
	defer srv.Close()

	source := NewHTTPSource(srv.URL, time.Second)
	vs, err := source.Variants(context.Background(), "ค้นหาเอกสาร")
	if err != nil {
		t.Fatalf("variants failed: %v", err)
	}
	if len(vs) != 2 {
		t.Fatalf("expected prepended original, got %d variants", len(vs))
	}
	if vs[0].Kind != models.VariantOriginal || vs[0].Text != "ค้นหาเอกสาร" || vs[0].Weight != 1.0 {
		t.Errorf("first variant should be the original query: %+v", vs[0])
	}
}

func TestHTTPSourceErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	source := NewHTTPSource(srv.URL, time.Second)
	if _, err := source.Variants(context.Background(), "q"); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestHTTPSourceInvalidWeightClamped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"variants": []map[string]interface{}{
				{"text": "ก", "kind": "original", "weight": -3.0},
			},
		})
	}))
	defer srv.Close()

	source := NewHTTPSource(srv.URL, time.Second)
	vs, err := source.Variants(context.Background(), "ก")
	if err != nil {
		t.Fatalf("variants failed: %v", err)
	}
	if vs[0].Weight != 1.0 {
		t.Errorf("out-of-range weight should clamp to 1.0, got %f", vs[0].Weight)
	}
}
