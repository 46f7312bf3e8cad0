// Package chroma is a minimal REST client to a Chroma server, implementing
// domain.Index. Collections are created with cosine distance, so returned
// distances are 1 - cosine similarity.
package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"policyrag/internal/domain"
)

// Store talks to one named Chroma collection. The collection name is resolved
// to its server-side id once and cached.
type Store struct {
	url        string
	collection string
	client     *http.Client

	mu           sync.Mutex
	collectionID string
}

// Config contains connection details for a Chroma server.
type Config struct {
	URL        string
	Collection string
	Timeout    time.Duration
}

// NewStore creates a client for the configured server and collection.
func NewStore(cfg Config) *Store {
	if cfg.URL == "" {
		cfg.URL = "http://localhost:8000"
	}
	if cfg.Collection == "" {
		cfg.Collection = "policies"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Store{
		url:        cfg.URL,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

// EnsureCollection creates the collection if it does not exist yet, using
// cosine space for the HNSW index.
func (s *Store) EnsureCollection(ctx context.Context) error {
	body := map[string]any{
		"name":          s.collection,
		"metadata":      map[string]any{"hnsw:space": "cosine"},
		"get_or_create": true,
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := s.postJSON(ctx, s.url+"/api/v1/collections", body, &out); err != nil {
		return fmt.Errorf("creating collection %q: %w", s.collection, err)
	}
	s.mu.Lock()
	s.collectionID = out.ID
	s.mu.Unlock()
	return nil
}

// Upsert writes entries keyed by id; entries sharing an id are overwritten.
func (s *Store) Upsert(ctx context.Context, ids []string, vectors [][]float64, texts []string, metadatas []map[string]any) error {
	if len(ids) != len(vectors) || len(ids) != len(texts) || len(ids) != len(metadatas) {
		return fmt.Errorf("%w: mismatched upsert array lengths", domain.ErrInvalidInput)
	}
	id, err := s.resolveID(ctx)
	if err != nil {
		return err
	}
	body := map[string]any{
		"ids":        ids,
		"embeddings": vectors,
		"documents":  texts,
		"metadatas":  metadatas,
	}
	return s.postJSON(ctx, fmt.Sprintf("%s/api/v1/collections/%s/upsert", s.url, id), body, nil)
}

// Query returns up to k neighbours ordered ascending by distance.
func (s *Store) Query(ctx context.Context, vector []float64, k int) (domain.QueryResult, error) {
	if k <= 0 {
		k = 5
	}
	id, err := s.resolveID(ctx)
	if err != nil {
		return domain.QueryResult{}, err
	}
	body := map[string]any{
		"query_embeddings": [][]float64{vector},
		"n_results":        k,
		"include":          []string{"documents", "metadatas", "distances"},
	}
	var resp struct {
		Documents [][]string         `json:"documents"`
		Metadatas [][]map[string]any `json:"metadatas"`
		Distances [][]float64        `json:"distances"`
	}
	if err := s.postJSON(ctx, fmt.Sprintf("%s/api/v1/collections/%s/query", s.url, id), body, &resp); err != nil {
		return domain.QueryResult{}, err
	}
	var out domain.QueryResult
	if len(resp.Documents) > 0 {
		out.Documents = resp.Documents[0]
	}
	if len(resp.Metadatas) > 0 {
		out.Metadatas = resp.Metadatas[0]
	}
	if len(resp.Distances) > 0 {
		out.Distances = resp.Distances[0]
	}
	return out, nil
}

// resolveID looks up the collection id by name. A missing collection maps to
// domain.ErrIndexNotFound so callers can tell "never ingested" apart from
// "no matches".
func (s *Store) resolveID(ctx context.Context) (string, error) {
	s.mu.Lock()
	cached := s.collectionID
	s.mu.Unlock()
	if cached != "" {
		return cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api/v1/collections/%s", s.url, s.collection), nil)
	if err != nil {
		return "", err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusBadRequest {
		return "", fmt.Errorf("collection %q: %w", s.collection, domain.ErrIndexNotFound)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("chroma GET collection %q failed: %s", s.collection, resp.Status)
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	s.mu.Lock()
	s.collectionID = out.ID
	s.mu.Unlock()
	return out.ID, nil
}

func (s *Store) postJSON(ctx context.Context, url string, body any, out any) error {
	data, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("chroma POST %s failed: %s", url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
