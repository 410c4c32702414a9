package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/storefront"
)

type reviewsLoadedMsg struct {
	reviews []models.Review
	err     error
}

type reviewAddedMsg struct{ err error }

type productScreen struct {
	app     *storefront.App
	product storefront.Product
	reviews []models.Review
	writing bool
	form    form
}

func newProductScreen(app *storefront.App, p storefront.Product) *productScreen {
	return &productScreen{
		app:     app,
		product: p,
		reviews: app.ListReviews(p.Ref),
	}
}

func (s *productScreen) Init() tea.Cmd {
	app, ref := s.app, s.product.Ref
	return func() tea.Msg {
		list, err := app.RefreshReviews(context.Background(), ref)
		return reviewsLoadedMsg{reviews: list, err: err}
	}
}

func (s *productScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case reviewsLoadedMsg:
		if msg.err != nil {
			return s, func() tea.Msg { return report("", msg.err) }
		}
		s.reviews = msg.reviews
		return s, nil

	case reviewAddedMsg:
		if msg.err != nil {
			return s, func() tea.Msg { return report("", msg.err) }
		}
		s.writing = false
		if p, ok := s.app.Product(s.product.Ref); ok {
			s.product = p
		}
		s.reviews = s.app.ListReviews(s.product.Ref)
		return s, func() tea.Msg { return report("Review added", nil) }

	case tea.KeyMsg:
		if s.writing {
			if msg.String() == "esc" {
				s.writing = false
				return s, nil
			}
			submitted, cmd := s.form.Update(msg)
			if submitted {
				return s, s.submit()
			}
			return s, cmd
		}

		switch msg.String() {
		case "esc", "q":
			return s, Navigate(ViewCatalog)
		case "a":
			app, p := s.app, s.product
			return s, func() tea.Msg { return report("Added "+p.Title, app.AddItem(p)) }
		case "w":
			s.writing = true
			s.form = newForm("Rating (1-5)", "Comment")
			return s, nil
		case "v":
			return s, Navigate(ViewCart)
		}
	}
	return s, nil
}

func (s *productScreen) submit() tea.Cmd {
	rating, err := strconv.Atoi(s.form.value(0))
	if err != nil {
		return func() tea.Msg {
			return report("", &models.ValidationError{Field: "rating", Message: "rating must be between 1 and 5"})
		}
	}
	app, ref, comment := s.app, s.product.Ref, s.form.value(1)
	return func() tea.Msg {
		_, err := app.AddReview(context.Background(), ref, rating, comment)
		return reviewAddedMsg{err: err}
	}
}

func (s *productScreen) View() string {
	p := s.product
	var b strings.Builder
	b.WriteString(titleStyle.Render(p.Title))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(price(s.app.Pricing(), p.Price)))
	b.WriteString("  ")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%s • ★ %.1f (%d reviews)", p.Category, p.Rating.Average, p.Rating.Count)))
	b.WriteString("\n\n")
	b.WriteString(p.Description)
	if p.Image != "" {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(p.Image))
	}

	reviews := []string{subtitleStyle.Render("Reviews")}
	if len(s.reviews) == 0 {
		reviews = append(reviews, mutedStyle.Render("No reviews yet"))
	}
	for _, r := range s.reviews {
		reviews = append(reviews, fmt.Sprintf("%s %s  %s",
			warningStyle.Render(strings.Repeat("★", r.Rating)),
			infoStyle.Render(r.AuthorName),
			r.Comment,
		))
	}

	parts := []string{boxStyle.Render(b.String()), lipgloss.JoinVertical(lipgloss.Left, reviews...)}
	if s.writing {
		parts = append(parts,
			boxStyle.Render(s.form.View()),
			helpLine("tab", "next field", "enter", "submit", "esc", "cancel"))
	} else {
		parts = append(parts, helpLine("a", "add to cart", "w", "write review", "v", "cart", "esc", "back"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
