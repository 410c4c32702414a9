package models

import (
	"strings"
	"time"
)

type Rating struct {
	Average float64 `gorm:"default:0" bson:"average" json:"average"`
	Count   int     `gorm:"default:0" bson:"count" json:"count"`
}

type Product struct {
	ID          string    `gorm:"primaryKey;size:64" bson:"_id" json:"id"`
	Title       string    `gorm:"not null" bson:"title" json:"title"`
	Price       float64   `gorm:"not null" bson:"price" json:"price"` // source currency
	Description string    `gorm:"type:text" bson:"description" json:"description"`
	Category    string    `gorm:"index;size:100" bson:"category" json:"category"`
	Image       string    `bson:"image" json:"image"`
	Rating      Rating    `gorm:"embedded;embeddedPrefix:rating_" bson:"rating" json:"rating"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// ProductInput is the writable part of a product, shared by create and update.
type ProductInput struct {
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
}

func (in ProductInput) Validate() error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return &ValidationError{Field: "title", Message: "title is required"}
	case in.Price <= 0:
		return &ValidationError{Field: "price", Message: "price must be positive"}
	case strings.TrimSpace(in.Description) == "":
		return &ValidationError{Field: "description", Message: "description is required"}
	case strings.TrimSpace(in.Category) == "":
		return &ValidationError{Field: "category", Message: "category is required"}
	case strings.TrimSpace(in.Image) == "":
		return &ValidationError{Field: "image", Message: "image is required"}
	}
	return nil
}

// Apply copies the input onto p, leaving identity and rating untouched.
func (in ProductInput) Apply(p *Product) {
	p.Title = strings.TrimSpace(in.Title)
	p.Price = in.Price
	p.Description = in.Description
	p.Category = strings.TrimSpace(in.Category)
	p.Image = in.Image
}

func (p Product) Input() ProductInput {
	return ProductInput{
		Title:       p.Title,
		Price:       p.Price,
		Description: p.Description,
		Category:    p.Category,
		Image:       p.Image,
	}
}

// ProductQuery carries the catalog filter and sort accepted by GET /products.
type ProductQuery struct {
	Search   string
	Category string
	Sort     string
}

const (
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortName      = "name"
	SortNewest    = "newest"
)

// CategoryFilter returns the category to filter on, treating "" and "all" as no filter.
func (q ProductQuery) CategoryFilter() string {
	if strings.EqualFold(q.Category, "all") {
		return ""
	}
	return q.Category
}

// MatchesSearch reports whether the title or description contain the search
// term, case-insensitively.
func (q ProductQuery) MatchesSearch(p Product) bool {
	if q.Search == "" {
		return true
	}
	term := strings.ToLower(q.Search)
	return strings.Contains(strings.ToLower(p.Title), term) ||
		strings.Contains(strings.ToLower(p.Description), term)
}

func (q ProductQuery) Matches(p Product) bool {
	if c := q.CategoryFilter(); c != "" && p.Category != c {
		return false
	}
	return q.MatchesSearch(p)
}

// Less orders two products according to q.Sort.
func (q ProductQuery) Less(a, b Product) bool {
	switch q.Sort {
	case SortPriceLow:
		return a.Price < b.Price
	case SortPriceHigh:
		return a.Price > b.Price
	case SortName:
		return a.Title < b.Title
	default:
		return a.CreatedAt.After(b.CreatedAt)
	}
}
