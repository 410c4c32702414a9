// Package seed fetches the public demo catalog used to populate an empty store.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/junaidrashid-git/storefront/models"
)

// remoteProduct is the fakestoreapi.com product shape.
type remoteProduct struct {
	ID          json.Number `json:"id"`
	Title       string      `json:"title"`
	Price       float64     `json:"price"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Image       string      `json:"image"`
	Rating      struct {
		Rate  float64 `json:"rate"`
		Count int     `json:"count"`
	} `json:"rating"`
}

type Fetcher struct {
	URL        string
	HTTPClient *http.Client
}

func NewFetcher(url string) *Fetcher {
	return &Fetcher{URL: url, HTTPClient: &http.Client{Timeout: 15 * time.Second}}
}

// Fetch downloads the catalog. Returned products carry the remote id as ID
// so callers can decide whether to keep or replace it.
func (f *Fetcher) Fetch(ctx context.Context) ([]models.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch seed catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch seed catalog: unexpected status %d", resp.StatusCode)
	}

	var remote []remoteProduct
	if err := json.NewDecoder(resp.Body).Decode(&remote); err != nil {
		return nil, fmt.Errorf("decode seed catalog: %w", err)
	}

	products := make([]models.Product, 0, len(remote))
	for _, p := range remote {
		products = append(products, models.Product{
			ID:          p.ID.String(),
			Title:       p.Title,
			Price:       p.Price,
			Description: p.Description,
			Category:    p.Category,
			Image:       p.Image,
			Rating:      models.Rating{Average: p.Rating.Rate, Count: p.Rating.Count},
		})
	}
	return products, nil
}
