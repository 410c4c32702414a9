package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/storefront"
)

const (
	fieldFullName = iota
	fieldEmail
	fieldPhone
	fieldAddress
	fieldCity
	fieldZip
)

type checkoutScreen struct {
	app  *storefront.App
	form form
	busy bool
}

func newCheckoutScreen(app *storefront.App) *checkoutScreen {
	f := newForm("Full name", "Email", "Phone", "Address", "City", "Postal code")
	if user, ok := app.Identity(); ok {
		f.set(fieldFullName, user.Name)
		f.set(fieldEmail, user.Email)
	}
	return &checkoutScreen{app: app, form: f}
}

func (s *checkoutScreen) Init() tea.Cmd { return nil }

func (s *checkoutScreen) shipping() models.ShippingInfo {
	return models.ShippingInfo{
		FullName: s.form.value(fieldFullName),
		Email:    s.form.value(fieldEmail),
		Phone:    s.form.value(fieldPhone),
		Address:  s.form.value(fieldAddress),
		City:     s.form.value(fieldCity),
		ZipCode:  s.form.value(fieldZip),
	}
}

func (s *checkoutScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		s.busy = false
		return s, nil
	case tea.KeyMsg:
		if msg.String() == "esc" {
			return s, Navigate(ViewCart)
		}
		if s.busy {
			return s, nil
		}
		submitted, cmd := s.form.Update(msg)
		if !submitted {
			return s, cmd
		}
		s.busy = true
		app, shipping := s.app, s.shipping()
		return s, func() tea.Msg {
			order, err := app.PlaceOrder(context.Background(), shipping)
			if err != nil {
				return report("", err)
			}
			return reportThen(fmt.Sprintf("Order %s placed", shortID(order.ID)), nil, ViewOrders)
		}
	}
	return s, nil
}

func (s *checkoutScreen) View() string {
	summary := fmt.Sprintf("%d items • %s", s.app.CartCount(), money(s.app.Pricing(), s.app.CartTotal()))
	return lipgloss.JoinVertical(lipgloss.Left,
		subtitleStyle.Render("Shipping details"),
		boxStyle.Render(s.form.View()),
		infoStyle.Render(summary),
		helpLine("tab", "next field", "enter", "place order", "esc", "back to cart"),
	)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
