package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/junaidrashid-git/storefront/auth"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/storefront"
	"github.com/junaidrashid-git/storefront/store"
	"github.com/shopspring/decimal"
)

// ConfirmationDialog represents a yes/no confirmation dialog
type ConfirmationDialog struct {
	Title       string
	Message     string
	YesSelected bool
	OnConfirm   func() tea.Cmd
	OnCancel    func() tea.Cmd
}

func NewConfirmationDialog(title, message string) ConfirmationDialog {
	return ConfirmationDialog{Title: title, Message: message}
}

// Update handles confirmation dialog keys
func (d *ConfirmationDialog) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch key.String() {
	case "left", "h":
		d.YesSelected = true
	case "right", "l":
		d.YesSelected = false
	case "enter":
		if d.YesSelected && d.OnConfirm != nil {
			return d.OnConfirm()
		}
		if !d.YesSelected && d.OnCancel != nil {
			return d.OnCancel()
		}
	}
	return nil
}

func (d ConfirmationDialog) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(d.Title))
	b.WriteString("\n\n")
	b.WriteString(d.Message)
	b.WriteString("\n\n")

	yes := inactiveTabStyle.Render("Yes")
	no := inactiveTabStyle.Render("No")
	if d.YesSelected {
		yes = activeTabStyle.Render("Yes")
	} else {
		no = activeTabStyle.Render("No")
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Left, yes, "  ", no))
	b.WriteString(helpLine("←/→", "choose", "enter", "confirm", "esc", "cancel"))

	return boxStyle.Render(b.String())
}

type field struct {
	label string
	input textinput.Model
}

// form is a column of labelled text inputs with one focused at a time.
type form struct {
	fields []field
	focus  int
}

func newForm(labels ...string) form {
	f := form{fields: make([]field, len(labels))}
	for i, label := range labels {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 512
		in.Width = 40
		f.fields[i] = field{label: label, input: in}
	}
	if len(f.fields) > 0 {
		f.fields[0].input.Focus()
	}
	return f
}

func (f *form) mask(i int) {
	f.fields[i].input.EchoMode = textinput.EchoPassword
	f.fields[i].input.EchoCharacter = '•'
}

func (f *form) set(i int, v string) { f.fields[i].input.SetValue(v) }

func (f form) value(i int) string { return strings.TrimSpace(f.fields[i].input.Value()) }

// raw returns the value without trimming, for passwords.
func (f form) raw(i int) string { return f.fields[i].input.Value() }

func (f *form) move(delta int) tea.Cmd {
	f.fields[f.focus].input.Blur()
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	return f.fields[f.focus].input.Focus()
}

// Update reports submitted when enter is pressed on the last field.
func (f *form) Update(msg tea.Msg) (submitted bool, cmd tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			return false, f.move(1)
		case "shift+tab", "up":
			return false, f.move(-1)
		case "enter":
			if f.focus == len(f.fields)-1 {
				return true, nil
			}
			return false, f.move(1)
		}
	}
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return false, cmd
}

func (f form) View() string {
	rows := make([]string, 0, len(f.fields))
	for i, fl := range f.fields {
		label := labelStyle.Render(fl.label)
		if i == f.focus {
			label = labelStyle.Foreground(colorPrimary).Bold(true).Render(fl.label)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Left, label, fl.input.View()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// money renders an amount already converted to the display currency.
func money(p models.Pricing, amount float64) string {
	return p.Currency + " " + decimal.NewFromFloat(amount).StringFixed(2)
}

// price converts a source currency price for display.
func price(p models.Pricing, source float64) string {
	return money(p, decimal.NewFromFloat(source).Mul(decimal.NewFromFloat(p.Rate)).InexactFloat64())
}

// describe turns an error into the line shown to the user.
func describe(err error) string {
	var v *models.ValidationError
	switch {
	case errors.As(err, &v):
		return v.Message
	case errors.Is(err, storefront.ErrNotPermitted):
		return "Sign in to use the cart"
	case errors.Is(err, storefront.ErrMissingIdentity):
		return "Sign in first"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, store.ErrDuplicateEmail):
		return "Email already registered"
	case errors.Is(err, auth.ErrForbidden):
		return "forbidden"
	case errors.Is(err, models.ErrEmptyCart):
		return "Cart is empty"
	case errors.Is(err, store.ErrNotFound):
		return "Not found"
	default:
		return err.Error()
	}
}
