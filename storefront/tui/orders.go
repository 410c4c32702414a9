package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/storefront"
)

type ordersLoadedMsg struct {
	orders []models.Order
	err    error
}

func orderTable(height int) table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Order", Width: 10},
			{Title: "Placed", Width: 17},
			{Title: "Items", Width: 6},
			{Title: "Total", Width: 16},
			{Title: "Status", Width: 14},
		}),
		table.WithFocused(true),
		table.WithHeight(height),
	)
	t.SetStyles(tableStyles())
	return t
}

func orderRows(orders []models.Order) []table.Row {
	rows := make([]table.Row, 0, len(orders))
	for _, o := range orders {
		count := 0
		for _, it := range o.Items {
			count += it.Quantity
		}
		rows = append(rows, table.Row{
			shortID(o.ID),
			o.CreatedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprint(count),
			money(models.Pricing{Currency: o.Currency}, o.Total),
			string(o.Status),
		})
	}
	return rows
}

type ordersScreen struct {
	app    *storefront.App
	table  table.Model
	orders []models.Order
}

func newOrdersScreen(app *storefront.App) *ordersScreen {
	s := &ordersScreen{app: app, table: orderTable(12), orders: app.Orders()}
	s.table.SetRows(orderRows(s.orders))
	return s
}

func (s *ordersScreen) Init() tea.Cmd {
	app := s.app
	return func() tea.Msg {
		list, err := app.RefreshOrders(context.Background())
		return ordersLoadedMsg{orders: list, err: err}
	}
}

func (s *ordersScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case ordersLoadedMsg:
		if msg.err != nil {
			return s, func() tea.Msg { return report("", msg.err) }
		}
		s.orders = msg.orders
		s.table.SetRows(orderRows(s.orders))
		return s, nil
	case tea.KeyMsg:
		if msg.String() == "esc" || msg.String() == "q" {
			return s, Navigate(ViewCatalog)
		}
	}
	var cmd tea.Cmd
	s.table, cmd = s.table.Update(msg)
	return s, cmd
}

func (s *ordersScreen) View() string {
	if len(s.orders) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			boxStyle.Render(mutedStyle.Render("No orders yet")),
			helpLine("esc", "back"),
		)
	}
	detail := ""
	if i := s.table.Cursor(); i >= 0 && i < len(s.orders) {
		detail = orderDetail(s.orders[i])
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		s.table.View(),
		detail,
		helpLine("↑/↓", "select", "esc", "back"),
	)
}

func orderDetail(o models.Order) string {
	lines := []string{FormatStatus(o.Status) + "  " + mutedStyle.Render(o.Shipping.FullName+", "+o.Shipping.City)}
	for _, it := range o.Items {
		lines = append(lines, fmt.Sprintf("  %d × %s", it.Quantity, it.Title))
	}
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
