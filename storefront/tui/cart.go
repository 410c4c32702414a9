package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/storefront"
)

type cartScreen struct {
	app   *storefront.App
	table table.Model
	lines []storefront.LineItem
}

func newCartScreen(app *storefront.App) *cartScreen {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Item", Width: 38},
			{Title: "Qty", Width: 5},
			{Title: "Price", Width: 14},
			{Title: "Line total", Width: 16},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(tableStyles())
	s := &cartScreen{app: app, table: t}
	s.reload()
	return s
}

func (s *cartScreen) Init() tea.Cmd { return nil }

func (s *cartScreen) reload() {
	s.lines = s.app.Cart()
	pricing := s.app.Pricing()
	rows := make([]table.Row, 0, len(s.lines))
	for _, l := range s.lines {
		line := models.LineTotal(l.Price, l.Quantity).InexactFloat64()
		rows = append(rows, table.Row{l.Title, fmt.Sprint(l.Quantity), price(pricing, l.Price), price(pricing, line)})
	}
	s.table.SetRows(rows)
	if c := s.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		s.table.SetCursor(len(rows) - 1)
	}
}

func (s *cartScreen) selected() (storefront.LineItem, bool) {
	i := s.table.Cursor()
	if i < 0 || i >= len(s.lines) {
		return storefront.LineItem{}, false
	}
	return s.lines[i], true
}

func (s *cartScreen) apply(err error) tea.Cmd {
	s.reload()
	if err != nil {
		return func() tea.Msg { return report("", err) }
	}
	return nil
}

func (s *cartScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		line, has := s.selected()
		switch key.String() {
		case "esc", "q":
			return s, Navigate(ViewCatalog)
		case "+", "=":
			if has {
				return s, s.apply(s.app.SetQuantity(line.Ref, line.Quantity+1))
			}
			return s, nil
		case "-":
			if has {
				return s, s.apply(s.app.SetQuantity(line.Ref, line.Quantity-1))
			}
			return s, nil
		case "d":
			if has {
				return s, s.apply(s.app.RemoveItem(line.Ref))
			}
			return s, nil
		case "x":
			return s, s.apply(s.app.ClearCart())
		case "enter":
			if len(s.lines) == 0 {
				return s, func() tea.Msg { return report("", models.ErrEmptyCart) }
			}
			return s, Navigate(ViewCheckout)
		}
	}
	var cmd tea.Cmd
	s.table, cmd = s.table.Update(msg)
	return s, cmd
}

func (s *cartScreen) View() string {
	if len(s.lines) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			boxStyle.Render(mutedStyle.Render("Your cart is empty")),
			helpLine("esc", "back"),
		)
	}
	total := fmt.Sprintf("Total: %s  (%d items)", money(s.app.Pricing(), s.app.CartTotal()), s.app.CartCount())
	return lipgloss.JoinVertical(lipgloss.Left,
		s.table.View(),
		successStyle.Render(total),
		helpLine("+/-", "quantity", "d", "remove", "x", "clear", "enter", "checkout", "esc", "back"),
	)
}
