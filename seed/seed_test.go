package seed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/junaidrashid-git/storefront/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 1, "title": "Backpack", "price": 109.95, "description": "fits laptops",
			 "category": "men's clothing", "image": "https://img/1.png", "rating": {"rate": 3.9, "count": 120}},
			{"id": 2, "title": "T-Shirt", "price": 22.3, "description": "slim fit",
			 "category": "men's clothing", "image": "https://img/2.png", "rating": {"rate": 4.1, "count": 259}}
		]`))
	}))
	defer srv.Close()

	products, err := NewFetcher(srv.URL).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, models.Product{
		ID:          "1",
		Title:       "Backpack",
		Price:       109.95,
		Description: "fits laptops",
		Category:    "men's clothing",
		Image:       "https://img/1.png",
		Rating:      models.Rating{Average: 3.9, Count: 120},
	}, products[0])
	assert.Equal(t, "2", products[1].ID)
}

func TestFetcher_Failures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken" {
			_, _ = w.Write([]byte(`{not json`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewFetcher(srv.URL).Fetch(context.Background())
	assert.ErrorContains(t, err, "unexpected status 500")

	_, err = NewFetcher(srv.URL + "/broken").Fetch(context.Background())
	assert.ErrorContains(t, err, "decode seed catalog")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewFetcher(srv.URL).Fetch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
