package models

import (
	"regexp"
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"   // Order placed, awaiting confirmation
	OrderStatusConfirmed OrderStatus = "confirmed" // Default for a freshly placed order
	OrderStatusShipped   OrderStatus = "shipped"   // Out for delivery
	OrderStatusDelivered OrderStatus = "delivered" // Customer received the items
)

// ParseOrderStatus maps a string onto one of the four statuses.
func ParseOrderStatus(status string) (OrderStatus, error) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case string(OrderStatusPending):
		return OrderStatusPending, nil
	case string(OrderStatusConfirmed):
		return OrderStatusConfirmed, nil
	case string(OrderStatusShipped):
		return OrderStatusShipped, nil
	case string(OrderStatusDelivered):
		return OrderStatusDelivered, nil
	default:
		return "", ErrInvalidStatus
	}
}

type ShippingInfo struct {
	FullName string `bson:"full_name" json:"full_name"`
	Email    string `bson:"email" json:"email"`
	Phone    string `bson:"phone" json:"phone"`
	Address  string `bson:"address" json:"address"`
	City     string `bson:"city" json:"city"`
	ZipCode  string `bson:"zip_code" json:"zip_code"`
}

var (
	emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	zipPattern   = regexp.MustCompile(`^\d{6}$`)
	phonePattern = regexp.MustCompile(`^\d{10}$`)
)

// ValidEmail applies the loose address pattern used by the checkout form.
func ValidEmail(email string) bool { return emailPattern.MatchString(email) }

func (s ShippingInfo) Validate() error {
	switch {
	case strings.TrimSpace(s.FullName) == "":
		return &ValidationError{Field: "full_name", Message: "name required"}
	case !emailPattern.MatchString(s.Email):
		return &ValidationError{Field: "email", Message: "valid email required"}
	case strings.TrimSpace(s.Address) == "":
		return &ValidationError{Field: "address", Message: "address required"}
	case strings.TrimSpace(s.City) == "":
		return &ValidationError{Field: "city", Message: "city required"}
	case !zipPattern.MatchString(s.ZipCode):
		return &ValidationError{Field: "zip_code", Message: "6-digit postal code required"}
	case !phonePattern.MatchString(s.Phone):
		return &ValidationError{Field: "phone", Message: "10-digit phone required"}
	}
	return nil
}

type Order struct {
	ID        string       `gorm:"primaryKey;size:64" bson:"_id" json:"id"`
	UserID    string       `gorm:"index;size:64;not null" bson:"user_id" json:"user_id"`
	Items     []OrderItem  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" bson:"items" json:"items"`
	Total     float64      `bson:"total" json:"total"` // display currency
	Currency  string       `gorm:"size:8" bson:"currency" json:"currency"`
	Shipping  ShippingInfo `gorm:"embedded;embeddedPrefix:shipping_" bson:"shipping_info" json:"shipping_info"`
	Status    OrderStatus  `gorm:"type:VARCHAR(20);default:'confirmed'" bson:"status" json:"status"`
	CreatedAt time.Time    `bson:"created_at" json:"created_at"`
}

type OrderItem struct {
	ID        uint    `gorm:"primaryKey" bson:"-" json:"-"`
	OrderID   string  `gorm:"index;size:64" bson:"-" json:"-"`
	ProductID string  `gorm:"size:64" bson:"product_id" json:"product_id"`
	Title     string  `bson:"title" json:"title"`
	Price     float64 `bson:"price" json:"price"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	Image     string  `bson:"image" json:"image"`
}

// Pricing is the fixed-rate display conversion applied to totals.
type Pricing struct {
	Rate     float64
	Currency string
}

// NewOrder snapshots items into a confirmed order. The items are copied so
// later cart edits never reach the order.
func NewOrder(id, userID string, items []CartItem, shipping ShippingInfo, pricing Pricing, now time.Time) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	if err := shipping.Validate(); err != nil {
		return nil, err
	}
	snapshot := make([]OrderItem, 0, len(items))
	for _, it := range items {
		snapshot = append(snapshot, OrderItem{
			OrderID:   id,
			ProductID: it.ProductID,
			Title:     it.Title,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Image:     it.Image,
		})
	}
	return &Order{
		ID:        id,
		UserID:    userID,
		Items:     snapshot,
		Total:     CartTotal(items, pricing.Rate),
		Currency:  pricing.Currency,
		Shipping:  shipping,
		Status:    OrderStatusConfirmed,
		CreatedAt: now,
	}, nil
}
