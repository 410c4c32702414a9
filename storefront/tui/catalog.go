package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/storefront"
)

var sortOrder = []string{models.SortNewest, models.SortPriceLow, models.SortPriceHigh, models.SortName}

type catalogLoadedMsg struct{ err error }

type catalogScreen struct {
	app       *storefront.App
	table     table.Model
	search    textinput.Model
	searching bool
	query     models.ProductQuery
	sortIdx   int
	catIdx    int // 0 is every category
	products  []storefront.Product
}

func newCatalogScreen(app *storefront.App) *catalogScreen {
	search := textinput.New()
	search.Placeholder = "search titles"
	search.Prompt = "/ "
	search.Width = 30

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Title", Width: 38},
			{Title: "Category", Width: 18},
			{Title: "Price", Width: 14},
			{Title: "Rating", Width: 10},
			{Title: "", Width: 6},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	t.SetStyles(tableStyles())

	s := &catalogScreen{app: app, table: t, search: search}
	s.query.Sort = sortOrder[0]
	s.reload()
	return s
}

func (s *catalogScreen) Init() tea.Cmd { return nil }

func (s *catalogScreen) refresh() tea.Cmd {
	app := s.app
	return func() tea.Msg {
		_, err := app.LoadCatalog(context.Background())
		return catalogLoadedMsg{err: err}
	}
}

func (s *catalogScreen) reload() {
	categories := s.app.Categories()
	if s.catIdx > len(categories) {
		s.catIdx = 0
	}
	s.query.Category = ""
	if s.catIdx > 0 {
		s.query.Category = categories[s.catIdx-1]
	}

	s.products = s.app.Filter(s.query)
	pricing := s.app.Pricing()
	rows := make([]table.Row, 0, len(s.products))
	for _, p := range s.products {
		origin := ""
		if !p.Ref.IsAuthoritative() {
			origin = "local"
		}
		rows = append(rows, table.Row{
			p.Title,
			p.Category,
			price(pricing, p.Price),
			fmt.Sprintf("%.1f (%d)", p.Rating.Average, p.Rating.Count),
			origin,
		})
	}
	s.table.SetRows(rows)
}

func (s *catalogScreen) selected() (storefront.Product, bool) {
	i := s.table.Cursor()
	if i < 0 || i >= len(s.products) {
		return storefront.Product{}, false
	}
	return s.products[i], true
}

func (s *catalogScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Height > 12 {
			s.table.SetHeight(msg.Height - 12)
		}
		return s, nil

	case catalogLoadedMsg:
		s.reload()
		if msg.err != nil {
			return s, func() tea.Msg { return report("", msg.err) }
		}
		return s, func() tea.Msg { return report(fmt.Sprintf("%d products", len(s.products)), nil) }

	case tea.KeyMsg:
		if s.searching {
			switch msg.String() {
			case "enter", "esc":
				s.searching = false
				s.search.Blur()
				s.table.Focus()
				return s, nil
			}
			var cmd tea.Cmd
			s.search, cmd = s.search.Update(msg)
			s.query.Search = s.search.Value()
			s.reload()
			return s, cmd
		}

		switch msg.String() {
		case "q":
			return s, tea.Quit
		case "/":
			s.searching = true
			s.table.Blur()
			return s, s.search.Focus()
		case "s":
			s.sortIdx = (s.sortIdx + 1) % len(sortOrder)
			s.query.Sort = sortOrder[s.sortIdx]
			s.reload()
			return s, nil
		case "c":
			s.catIdx = (s.catIdx + 1) % (len(s.app.Categories()) + 1)
			s.reload()
			return s, nil
		case "R":
			return s, s.refresh()
		case "enter":
			if p, ok := s.selected(); ok {
				return s, ShowProduct(p)
			}
			return s, nil
		case "a":
			p, ok := s.selected()
			if !ok {
				return s, nil
			}
			app := s.app
			return s, func() tea.Msg { return report("Added "+p.Title, app.AddItem(p)) }
		case "v":
			return s, Navigate(ViewCart)
		case "o":
			return s, Navigate(ViewOrders)
		case "m":
			return s, Navigate(ViewAdmin)
		case "r":
			return s, Navigate(ViewRegister)
		case "l":
			if _, ok := s.app.Identity(); ok {
				app := s.app
				return s, func() tea.Msg { return report("Signed out", app.Logout()) }
			}
			return s, Navigate(ViewLogin)
		}
	}

	var cmd tea.Cmd
	s.table, cmd = s.table.Update(msg)
	return s, cmd
}

func (s *catalogScreen) View() string {
	filters := []string{"sort: " + s.query.Sort}
	if s.query.Category != "" {
		filters = append(filters, "category: "+s.query.Category)
	}
	if s.query.Search != "" {
		filters = append(filters, "search: "+s.query.Search)
	}

	top := mutedStyle.Render(strings.Join(filters, "  "))
	if s.searching {
		top = s.search.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		top,
		s.table.View(),
		helpLine("enter", "details", "a", "add to cart", "/", "search", "s", "sort", "c", "category",
			"v", "cart", "o", "orders", "l", "login/out", "r", "register", "m", "admin", "R", "reload", "q", "quit"),
	)
}
