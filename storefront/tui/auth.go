package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/junaidrashid-git/storefront/storefront"
)

// authScreen serves both login and registration. Every identity, admin
// included, is verified by the backend.
type authScreen struct {
	app      *storefront.App
	register bool
	form     form
	busy     bool
}

func newLoginScreen(app *storefront.App) *authScreen {
	f := newForm("Email", "Password")
	f.mask(1)
	return &authScreen{app: app, form: f}
}

func newRegisterScreen(app *storefront.App) *authScreen {
	f := newForm("Name", "Email", "Password")
	f.mask(2)
	return &authScreen{app: app, register: true, form: f}
}

func (s *authScreen) Init() tea.Cmd { return nil }

func (s *authScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		s.busy = false
		return s, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, Navigate(ViewCatalog)
		case "ctrl+r":
			if s.register {
				return s, Navigate(ViewLogin)
			}
			return s, Navigate(ViewRegister)
		}
		if s.busy {
			return s, nil
		}
		submitted, cmd := s.form.Update(msg)
		if !submitted {
			return s, cmd
		}
		s.busy = true
		return s, s.submit()
	}
	return s, nil
}

func (s *authScreen) submit() tea.Cmd {
	app := s.app
	if s.register {
		name, email, password := s.form.value(0), s.form.value(1), s.form.raw(2)
		return func() tea.Msg {
			user, err := app.Register(context.Background(), name, email, password)
			if err != nil {
				return report("", err)
			}
			return reportThen("Welcome, "+user.Name, nil, ViewCatalog)
		}
	}
	email, password := s.form.value(0), s.form.raw(1)
	return func() tea.Msg {
		user, err := app.Login(context.Background(), email, password)
		if err != nil {
			return report("", err)
		}
		return reportThen("Signed in as "+user.Email, nil, ViewCatalog)
	}
}

func (s *authScreen) View() string {
	title, other := "Sign in", "create account"
	if s.register {
		title, other = "Create account", "sign in instead"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		subtitleStyle.Render(title),
		boxStyle.Render(s.form.View()),
		helpLine("tab", "next field", "enter", "submit", "ctrl+r", other, "esc", "back"),
	)
}
