package storefront

import (
	"context"
	"log"

	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/storefront/client"
	"github.com/junaidrashid-git/storefront/storefront/localstore"
	"github.com/junaidrashid-git/storefront/store"
)

// AddReview appends a review and updates the product's rating in the same
// step. Authoritative products are reviewed through the backend; local-only
// products, and any product while the backend is unavailable, are reviewed
// locally.
func (a *App) AddReview(ctx context.Context, ref models.ProductRef, rating int, comment string) (models.Review, error) {
	a.ops.Lock()
	defer a.ops.Unlock()

	sess, err := a.currentSession()
	if err != nil {
		return models.Review{}, err
	}
	in := models.ReviewInput{Rating: rating, Comment: comment}
	if err := in.Validate(); err != nil {
		return models.Review{}, err
	}
	if _, ok := a.Product(ref); !ok {
		return models.Review{}, store.ErrNotFound
	}
	key := ref.String()

	if ref.IsAuthoritative() {
		review, product, err := a.backend.AddReview(ctx, sess.Token, ref.ID, in)
		switch {
		case err == nil:
			a.mu.Lock()
			defer a.mu.Unlock()
			a.reviews[key] = append(a.reviews[key], *review)
			if i := a.indexLocked(ref); i >= 0 {
				a.catalog[i] = authoritativeProduct(*product)
			}
			return *review, a.persistReviewsLocked()
		case !client.IsUnavailable(err):
			return models.Review{}, err
		}
		log.Printf("⚠️ backend unavailable, review for %s kept locally", ref)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.indexLocked(ref)
	if i < 0 {
		return models.Review{}, store.ErrNotFound
	}
	review := models.Review{
		ID:         a.newID(),
		ProductID:  ref.ID,
		UserID:     sess.User.ID,
		AuthorName: sess.User.Name,
		Rating:     rating,
		Comment:    comment,
		CreatedAt:  a.now(),
	}
	list := append(a.reviews[key], review)
	a.reviews[key] = list
	a.catalog[i].Rating = nextRating(a.catalog[i].Rating, list)
	return review, a.persistReviewsLocked()
}

func (a *App) persistReviewsLocked() error {
	if err := a.persist(localstore.Reviews, a.reviews); err != nil {
		return err
	}
	return a.persist(localstore.Products, a.catalog)
}

// nextRating derives the rating after the last review in list was added.
// When list holds every review the product has, the mean is recomputed from
// scratch; otherwise the previous aggregate is extended incrementally.
func nextRating(prev models.Rating, list []models.Review) models.Rating {
	if len(list) == prev.Count+1 {
		return models.AggregateRating(models.RatingsOf(list))
	}
	r := float64(list[len(list)-1].Rating)
	c := float64(prev.Count)
	return models.Rating{
		Average: models.Round1((prev.Average*c + r) / (c + 1)),
		Count:   prev.Count + 1,
	}
}

// ListReviews returns the reviews held for ref, oldest first.
func (a *App) ListReviews(ref models.ProductRef) []models.Review {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]models.Review(nil), a.reviews[ref.String()]...)
}

// RefreshReviews reloads an authoritative product's reviews from the
// backend, keeping any that were only recorded locally.
func (a *App) RefreshReviews(ctx context.Context, ref models.ProductRef) ([]models.Review, error) {
	a.ops.Lock()
	defer a.ops.Unlock()

	key := ref.String()
	if !ref.IsAuthoritative() {
		return a.ListReviews(ref), nil
	}
	remote, err := a.backend.ListReviews(ctx, ref.ID)
	if err != nil {
		if client.IsUnavailable(err) {
			return a.ListReviews(ref), nil
		}
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	seen := make(map[string]bool, len(remote))
	merged := append([]models.Review{}, remote...)
	for _, r := range remote {
		seen[r.ID] = true
	}
	for _, r := range a.reviews[key] {
		if !seen[r.ID] {
			merged = append(merged, r)
		}
	}
	a.reviews[key] = merged
	if err := a.persist(localstore.Reviews, a.reviews); err != nil {
		return nil, err
	}
	return append([]models.Review(nil), merged...), nil
}
