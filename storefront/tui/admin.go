package tui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/storefront"
)

type adminMode int

const (
	adminProducts adminMode = iota
	adminOrders
	adminEditing
	adminConfirm
)

var statusCycle = []models.OrderStatus{
	models.OrderStatusPending,
	models.OrderStatusConfirmed,
	models.OrderStatusShipped,
	models.OrderStatusDelivered,
}

// nextStatus returns the status after s in the fulfilment cycle.
func nextStatus(s models.OrderStatus) models.OrderStatus {
	for i, st := range statusCycle {
		if st == s {
			return statusCycle[(i+1)%len(statusCycle)]
		}
	}
	return models.OrderStatusConfirmed
}

type adminOrdersMsg struct {
	orders []models.Order
	err    error
}

type productSavedMsg struct{ err error }

type adminScreen struct {
	app          *storefront.App
	mode         adminMode
	products     table.Model
	catalog      []storefront.Product
	orders       table.Model
	orderList    []models.Order
	form         form
	editing      *models.ProductRef
	confirmation ConfirmationDialog
}

func newAdminScreen(app *storefront.App) *adminScreen {
	products := table.New(
		table.WithColumns([]table.Column{
			{Title: "Title", Width: 38},
			{Title: "Category", Width: 18},
			{Title: "Price (src)", Width: 12},
			{Title: "Source", Width: 14},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	products.SetStyles(tableStyles())

	s := &adminScreen{app: app, products: products, orders: orderTable(12)}
	s.reloadProducts()
	return s
}

func (s *adminScreen) Init() tea.Cmd { return s.loadOrders() }

func (s *adminScreen) loadOrders() tea.Cmd {
	app := s.app
	return func() tea.Msg {
		list, err := app.AllOrders(context.Background())
		return adminOrdersMsg{orders: list, err: err}
	}
}

func (s *adminScreen) reloadProducts() {
	s.catalog = s.app.Products()
	rows := make([]table.Row, 0, len(s.catalog))
	for _, p := range s.catalog {
		rows = append(rows, table.Row{p.Title, p.Category, strconv.FormatFloat(p.Price, 'f', 2, 64), string(p.Ref.Kind)})
	}
	s.products.SetRows(rows)
}

func (s *adminScreen) selectedProduct() (storefront.Product, bool) {
	i := s.products.Cursor()
	if i < 0 || i >= len(s.catalog) {
		return storefront.Product{}, false
	}
	return s.catalog[i], true
}

func (s *adminScreen) openForm(p *storefront.Product) tea.Cmd {
	s.form = newForm("Title", "Price", "Description", "Category", "Image URL")
	s.editing = nil
	if p != nil {
		ref := p.Ref
		s.editing = &ref
		s.form.set(0, p.Title)
		s.form.set(1, strconv.FormatFloat(p.Price, 'f', -1, 64))
		s.form.set(2, p.Description)
		s.form.set(3, p.Category)
		s.form.set(4, p.Image)
	}
	s.mode = adminEditing
	return nil
}

func (s *adminScreen) save() tea.Cmd {
	value, err := strconv.ParseFloat(s.form.value(1), 64)
	if err != nil {
		return func() tea.Msg {
			return report("", &models.ValidationError{Field: "price", Message: "price must be positive"})
		}
	}
	in := models.ProductInput{
		Title:       s.form.value(0),
		Price:       value,
		Description: s.form.value(2),
		Category:    s.form.value(3),
		Image:       s.form.value(4),
	}
	app, editing := s.app, s.editing
	return func() tea.Msg {
		var err error
		if editing != nil {
			_, err = app.UpdateProduct(context.Background(), *editing, in)
		} else {
			_, err = app.CreateProduct(context.Background(), in)
		}
		return productSavedMsg{err: err}
	}
}

func (s *adminScreen) confirmDelete(p storefront.Product) {
	s.confirmation = NewConfirmationDialog("Delete product", fmt.Sprintf("Delete %q?", p.Title))
	app, ref := s.app, p.Ref
	s.confirmation.OnConfirm = func() tea.Cmd {
		s.mode = adminProducts
		return func() tea.Msg {
			return productSavedMsg{err: app.DeleteProduct(context.Background(), ref)}
		}
	}
	s.confirmation.OnCancel = func() tea.Cmd {
		s.mode = adminProducts
		return nil
	}
	s.mode = adminConfirm
}

func (s *adminScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case adminOrdersMsg:
		if msg.err != nil {
			return s, func() tea.Msg { return report("", msg.err) }
		}
		s.orderList = msg.orders
		s.orders.SetRows(orderRows(s.orderList))
		return s, nil

	case productSavedMsg:
		if msg.err != nil {
			return s, func() tea.Msg { return report("", msg.err) }
		}
		s.mode = adminProducts
		s.reloadProducts()
		return s, func() tea.Msg { return report("Catalog updated", nil) }

	case tea.KeyMsg:
		switch s.mode {
		case adminEditing:
			if msg.String() == "esc" {
				s.mode = adminProducts
				return s, nil
			}
			submitted, cmd := s.form.Update(msg)
			if submitted {
				return s, s.save()
			}
			return s, cmd

		case adminConfirm:
			if msg.String() == "esc" {
				s.mode = adminProducts
				return s, nil
			}
			return s, s.confirmation.Update(msg)

		case adminProducts:
			switch msg.String() {
			case "esc", "q":
				return s, Navigate(ViewCatalog)
			case "tab":
				s.mode = adminOrders
				return s, s.loadOrders()
			case "n":
				return s, s.openForm(nil)
			case "e":
				if p, ok := s.selectedProduct(); ok {
					return s, s.openForm(&p)
				}
				return s, nil
			case "d":
				if p, ok := s.selectedProduct(); ok {
					s.confirmDelete(p)
				}
				return s, nil
			}
			var cmd tea.Cmd
			s.products, cmd = s.products.Update(msg)
			return s, cmd

		case adminOrders:
			switch msg.String() {
			case "esc", "q":
				return s, Navigate(ViewCatalog)
			case "tab":
				s.mode = adminProducts
				s.reloadProducts()
				return s, nil
			case "s":
				i := s.orders.Cursor()
				if i < 0 || i >= len(s.orderList) {
					return s, nil
				}
				o := s.orderList[i]
				next := nextStatus(o.Status)
				app := s.app
				return s, func() tea.Msg {
					_, err := app.UpdateOrderStatus(context.Background(), o.ID, string(next))
					if err != nil {
						return report("", err)
					}
					list, err := app.AllOrders(context.Background())
					return adminOrdersMsg{orders: list, err: err}
				}
			}
			var cmd tea.Cmd
			s.orders, cmd = s.orders.Update(msg)
			return s, cmd
		}
	}
	return s, nil
}

func (s *adminScreen) View() string {
	productsTab, ordersTab := inactiveTabStyle.Render("Products"), inactiveTabStyle.Render("Orders")
	if s.mode == adminOrders {
		ordersTab = activeTabStyle.Render("Orders")
	} else {
		productsTab = activeTabStyle.Render("Products")
	}
	tabs := lipgloss.JoinHorizontal(lipgloss.Left, productsTab, " ", ordersTab)

	switch s.mode {
	case adminEditing:
		title := "New product"
		if s.editing != nil {
			title = "Edit product"
		}
		return lipgloss.JoinVertical(lipgloss.Left,
			tabs,
			subtitleStyle.Render(title),
			boxStyle.Render(s.form.View()),
			helpLine("tab", "next field", "enter", "save", "esc", "cancel"),
		)
	case adminConfirm:
		return lipgloss.JoinVertical(lipgloss.Left, tabs, s.confirmation.View())
	case adminOrders:
		detail := ""
		if i := s.orders.Cursor(); i >= 0 && i < len(s.orderList) {
			detail = orderDetail(s.orderList[i])
		}
		return lipgloss.JoinVertical(lipgloss.Left,
			tabs,
			s.orders.View(),
			detail,
			helpLine("s", "advance status", "tab", "products", "esc", "back"),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		tabs,
		s.products.View(),
		helpLine("n", "new", "e", "edit", "d", "delete", "tab", "orders", "esc", "back"),
	)
}
