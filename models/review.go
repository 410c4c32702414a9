package models

import (
	"math"
	"strings"
	"time"
)

type Review struct {
	ID         string    `gorm:"primaryKey;size:64" bson:"_id" json:"id"`
	ProductID  string    `gorm:"index;size:64;not null" bson:"product_id" json:"product_id"`
	UserID     string    `gorm:"size:64;not null" bson:"user_id" json:"user_id"`
	AuthorName string    `bson:"author_name" json:"author_name"`
	Rating     int       `gorm:"not null" bson:"rating" json:"rating"`
	Comment    string    `gorm:"type:text" bson:"comment" json:"comment"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}

type ReviewInput struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (in ReviewInput) Validate() error {
	if in.Rating < 1 || in.Rating > 5 {
		return &ValidationError{Field: "rating", Message: "rating must be between 1 and 5"}
	}
	if strings.TrimSpace(in.Comment) == "" {
		return &ValidationError{Field: "comment", Message: "comment is required"}
	}
	return nil
}

// AggregateRating recomputes a product rating from every rating it has:
// the mean rounded to one decimal, and the count.
func AggregateRating(ratings []int) Rating {
	if len(ratings) == 0 {
		return Rating{}
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return Rating{
		Average: Round1(float64(sum) / float64(len(ratings))),
		Count:   len(ratings),
	}
}

func RatingsOf(reviews []Review) []int {
	out := make([]int, len(reviews))
	for i, r := range reviews {
		out[i] = r.Rating
	}
	return out
}

// Round1 rounds half away from zero to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
