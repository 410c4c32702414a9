package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validShipping() ShippingInfo {
	return ShippingInfo{
		FullName: "Jane Doe",
		Email:    "jane@x.com",
		Phone:    "9876543210",
		Address:  "12 Market Road",
		City:     "Kochi",
		ZipCode:  "682001",
	}
}

func TestParseOrderStatus(t *testing.T) {
	for _, s := range []string{"pending", "confirmed", "shipped", "delivered", " Shipped "} {
		_, err := ParseOrderStatus(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseOrderStatus("cancelled")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	_, err = ParseOrderStatus("")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestShippingInfo_Validate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*ShippingInfo)
		field string
	}{
		{name: "valid", edit: func(*ShippingInfo) {}},
		{name: "missing name", edit: func(s *ShippingInfo) { s.FullName = "  " }, field: "full_name"},
		{name: "bad email", edit: func(s *ShippingInfo) { s.Email = "jane@x" }, field: "email"},
		{name: "missing address", edit: func(s *ShippingInfo) { s.Address = "" }, field: "address"},
		{name: "missing city", edit: func(s *ShippingInfo) { s.City = "" }, field: "city"},
		{name: "short zip", edit: func(s *ShippingInfo) { s.ZipCode = "68200" }, field: "zip_code"},
		{name: "letters in zip", edit: func(s *ShippingInfo) { s.ZipCode = "68200a" }, field: "zip_code"},
		{name: "short phone", edit: func(s *ShippingInfo) { s.Phone = "98765" }, field: "phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validShipping()
			tt.edit(&s)
			err := s.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var v *ValidationError
			require.ErrorAs(t, err, &v)
			assert.Equal(t, tt.field, v.Field)
		})
	}
}

func TestNewOrder_SnapshotsItems(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	items := []CartItem{{ProductID: "p1", Title: "Lamp", Price: 10, Quantity: 2, Image: "lamp.png"}}

	order, err := NewOrder("o1", "u1", items, validShipping(), Pricing{Rate: 83, Currency: "INR"}, now)
	require.NoError(t, err)

	items[0].Quantity = 9
	items[0].Title = "changed"

	assert.Equal(t, OrderStatusConfirmed, order.Status)
	assert.Equal(t, 1660.0, order.Total)
	assert.Equal(t, "INR", order.Currency)
	assert.Equal(t, now, order.CreatedAt)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, "Lamp", order.Items[0].Title)
}

func TestNewOrder_Rejects(t *testing.T) {
	_, err := NewOrder("o1", "u1", nil, validShipping(), Pricing{Rate: 1}, time.Now())
	assert.ErrorIs(t, err, ErrEmptyCart)

	bad := validShipping()
	bad.Phone = ""
	_, err = NewOrder("o1", "u1", []CartItem{{ProductID: "p", Price: 1, Quantity: 1}}, bad, Pricing{Rate: 1}, time.Now())
	assert.True(t, IsValidation(err))
}
