package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Cart struct {
	CartID    uint       `gorm:"primaryKey" bson:"-" json:"-"`
	UserID    string     `gorm:"uniqueIndex;size:64" bson:"_id" json:"user_id"`                          // Enforces ONE cart per user
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" bson:"items" json:"items"` // Cascade delete items if cart is deleted
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
}

type CartItem struct {
	ID        uint    `gorm:"primaryKey" bson:"-" json:"-"`
	CartID    uint    `gorm:"index" bson:"-" json:"-"`
	ProductID string  `gorm:"size:64" bson:"product_id" json:"product_id"`
	Title     string  `bson:"title" json:"title"`
	Price     float64 `bson:"price" json:"price"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	Image     string  `bson:"image" json:"image"`
	Category  string  `bson:"category" json:"category"`
}

// NormalizeItems enforces the cart invariants on a wholesale replacement:
// one line per product (duplicates are summed, first position kept) and
// lines with quantity <= 0 dropped.
func NormalizeItems(items []CartItem) []CartItem {
	out := make([]CartItem, 0, len(items))
	index := make(map[string]int, len(items))
	for _, it := range items {
		if i, ok := index[it.ProductID]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		it.ID, it.CartID = 0, 0
		index[it.ProductID] = len(out)
		out = append(out, it)
	}
	kept := out[:0]
	for _, it := range out {
		if it.Quantity > 0 {
			kept = append(kept, it)
		}
	}
	return kept
}

func ValidateItems(items []CartItem) error {
	for _, it := range items {
		if it.ProductID == "" {
			return &ValidationError{Field: "product_id", Message: "product_id is required"}
		}
		if it.Price <= 0 {
			return &ValidationError{Field: "price", Message: "price must be positive"}
		}
	}
	return nil
}

// LineTotal is price*quantity in the source currency.
func LineTotal(price float64, quantity int) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(quantity)))
}

// CartTotal sums price*quantity over items and converts with rate at read time.
func CartTotal(items []CartItem, rate float64) float64 {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(LineTotal(it.Price, it.Quantity))
	}
	return sum.Mul(decimal.NewFromFloat(rate)).InexactFloat64()
}

func CartCount(items []CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}
