// Package tui is the terminal shop front. A Model routes between screens,
// each of which reads and mutates the shared storefront.App.
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/junaidrashid-git/storefront/storefront"
)

// View selects a screen.
type View int

const (
	ViewCatalog View = iota
	ViewProduct
	ViewCart
	ViewCheckout
	ViewOrders
	ViewLogin
	ViewRegister
	ViewAdmin
)

var viewNames = [...]string{"catalog", "product", "cart", "checkout", "orders", "login", "register", "admin"}

func (v View) String() string {
	if v < 0 || int(v) >= len(viewNames) {
		return fmt.Sprintf("view(%d)", int(v))
	}
	return viewNames[v]
}

// Resolve applies the access rules to a requested view. Signed-out users
// asking for their cart or orders are sent to login; non-admins never
// reach the admin screen.
func Resolve(v View, signedIn, admin, hasProduct bool) View {
	switch v {
	case ViewCatalog, ViewLogin, ViewRegister:
		return v
	case ViewProduct:
		if !hasProduct {
			return ViewCatalog
		}
		return v
	case ViewCart, ViewCheckout, ViewOrders:
		if !signedIn {
			return ViewLogin
		}
		return v
	case ViewAdmin:
		if !signedIn {
			return ViewLogin
		}
		if !admin {
			return ViewCatalog
		}
		return v
	default:
		return ViewCatalog
	}
}

// Screen is one routed view.
type Screen interface {
	Init() tea.Cmd
	Update(tea.Msg) (Screen, tea.Cmd)
	View() string
}

// Messages
type navigateMsg struct {
	view    View
	product *storefront.Product
}

type resultMsg struct {
	text string
	err  error
	next *View
}

// Navigate switches to v.
func Navigate(v View) tea.Cmd {
	return func() tea.Msg { return navigateMsg{view: v} }
}

// ShowProduct opens the detail view for p.
func ShowProduct(p storefront.Product) tea.Cmd {
	return func() tea.Msg { return navigateMsg{view: ViewProduct, product: &p} }
}

func report(text string, err error) tea.Msg {
	return resultMsg{text: text, err: err}
}

func reportThen(text string, err error, next View) tea.Msg {
	return resultMsg{text: text, err: err, next: &next}
}

// Model is the root Bubbletea model.
type Model struct {
	app      *storefront.App
	view     View
	screen   Screen
	selected *storefront.Product
	status   string
	failed   bool
	width    int
	height   int
}

func NewModel(app *storefront.App) Model {
	m := Model{app: app, view: ViewCatalog}
	m.screen = m.Route(ViewCatalog)
	return m
}

// Route maps a view to a fresh screen. Callers resolve access first.
func (m Model) Route(v View) Screen {
	switch v {
	case ViewProduct:
		if m.selected != nil {
			return newProductScreen(m.app, *m.selected)
		}
	case ViewCart:
		return newCartScreen(m.app)
	case ViewCheckout:
		return newCheckoutScreen(m.app)
	case ViewOrders:
		return newOrdersScreen(m.app)
	case ViewLogin:
		return newLoginScreen(m.app)
	case ViewRegister:
		return newRegisterScreen(m.app)
	case ViewAdmin:
		return newAdminScreen(m.app)
	}
	return newCatalogScreen(m.app)
}

// CurrentView reports which screen is shown.
func (m Model) CurrentView() View { return m.view }

func (m Model) Init() tea.Cmd {
	return m.screen.Init()
}

func (m Model) navigate(v View) (Model, tea.Cmd) {
	_, signedIn := m.app.Identity()
	v = Resolve(v, signedIn, m.app.IsAdmin(), m.selected != nil)
	m.view = v
	m.screen = m.Route(v)
	cmds := []tea.Cmd{m.screen.Init()}
	if m.width > 0 {
		w, h := m.width, m.height
		cmds = append(cmds, func() tea.Msg { return tea.WindowSizeMsg{Width: w, Height: h} })
	}
	return m, tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case navigateMsg:
		if msg.product != nil {
			m.selected = msg.product
		}
		m.status, m.failed = "", false
		return m.navigate(msg.view)

	case resultMsg:
		if msg.err != nil {
			m.status, m.failed = describe(msg.err), true
			break
		}
		m.status, m.failed = msg.text, false
		if msg.next != nil {
			next, cmd := m.navigate(*msg.next)
			next.status = m.status
			return next, cmd
		}
	}

	var cmd tea.Cmd
	m.screen, cmd = m.screen.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	header := titleStyle.Render("Storefront") + "  " + subtitleStyle.Render(m.view.String())
	if user, ok := m.app.Identity(); ok {
		header += "  " + infoStyle.Render(fmt.Sprintf("%s (%s)", user.Name, user.Role))
		header += "  " + mutedStyle.Render(fmt.Sprintf("cart: %d", m.app.CartCount()))
	} else {
		header += "  " + mutedStyle.Render("signed out")
	}

	status := ""
	if m.status != "" {
		if m.failed {
			status = dangerStyle.Render("✗ " + m.status)
		} else {
			status = successStyle.Render("✓ " + m.status)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, m.screen.View(), status)
}

// Run starts the shop UI on the alternate screen.
func Run(app *storefront.App) error {
	p := tea.NewProgram(NewModel(app), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
