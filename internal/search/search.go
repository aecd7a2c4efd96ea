// Package search provides fuzzy product search over an Elasticsearch index.
// The index is a derived convenience view; the entity store stays the single
// source of truth and the resolver never consults the index.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/craftline/orderdesk/internal/models"
)

const ProductIndex = "products"

type Service struct {
	ES    *elasticsearch.Client
	Index string
}

func NewService(client *elasticsearch.Client) *Service {
	return &Service{ES: client, Index: ProductIndex}
}

func (s *Service) Enabled() bool {
	return s != nil && s.ES != nil
}

// Products runs a fuzzy multi-field query, name weighted over description.
func (s *Service) Products(ctx context.Context, query string, from, size int) (int64, []models.Product, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, err
	}

	res, err := s.ES.Search(
		s.ES.Search.WithContext(ctx),
		s.ES.Search.WithIndex(s.Index),
		s.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return 0, nil, fmt.Errorf("search: %s: %s", res.Status(), msg)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	products := make([]models.Product, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		products[i] = hit.Source
	}
	return r.Hits.Total.Value, products, nil
}

// IndexProduct upserts one product document. Indexing is best-effort and
// must never fail a mutation.
func (s *Service) IndexProduct(ctx context.Context, p *models.Product) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return err
	}
	res, err := s.ES.Index(
		s.Index,
		strings.NewReader(string(doc)),
		s.ES.Index.WithDocumentID(p.ID.String()),
		s.ES.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("search: index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return fmt.Errorf("search: index: %s: %s", res.Status(), msg)
	}
	return nil
}

// DeleteProduct removes a product document. Missing documents are fine.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.ES.Delete(s.Index, id, s.ES.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("search: delete: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		msg, _ := io.ReadAll(res.Body)
		return fmt.Errorf("search: delete: %s: %s", res.Status(), msg)
	}
	return nil
}
