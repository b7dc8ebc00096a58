// Package tui implements the interactive register screen: a product
// list on the left, the growing cart on the right, checkout at the
// bottom.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tillpos/till/internal/model"
	"github.com/tillpos/till/internal/register"
)

// Storage is the slice of the persistence layer the register screen
// needs. *storage.Store satisfies it.
type Storage interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	SaveOrder(ctx context.Context, order *model.Order) (*model.Order, error)
}

// registerPayments are the methods the register screen can complete on
// its own. Card payments need a card number, which only the sell
// command collects.
var registerPayments = []model.PaymentMethod{model.PaymentCash, model.PaymentMobile}

type checkoutDoneMsg struct {
	order  *model.Order
	result *model.PaymentResult
}

type errMsg struct{ err error }

var (
	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#666666")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F4A259"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	statusOKStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8CB369"))

	statusErrStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#BC4B51"))
)

// Model is the bubbletea model for the register screen.
type Model struct {
	store    Storage
	cart     *register.Cart
	settings model.Settings
	keys     KeyMap
	help     help.Model
	customer textinput.Model

	categories []model.Category
	products   []model.Product
	visible    []model.Product

	categoryIdx int // 0 = all categories
	cursor      int
	paymentIdx  int
	width       int
	height      int

	editingCustomer bool
	status          string
	statusIsError   bool
	quitting        bool
}

// New creates the register screen. Products and categories must already
// be loaded; the screen itself only writes orders.
func New(store Storage, settings model.Settings, categories []model.Category, products []model.Product) Model {
	ti := textinput.New()
	ti.Placeholder = "Walk-in"
	ti.CharLimit = 60

	return Model{
		store:      store,
		cart:       register.NewCart(settings.TaxRate),
		settings:   settings,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		customer:   ti,
		categories: categories,
		products:   products,
		visible:    products,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case checkoutDoneMsg:
		change := ""
		if msg.result != nil && msg.result.Change.IsPositive() {
			change = fmt.Sprintf(", change %s%s", m.settings.CurrencySymbol, msg.result.Change.StringFixed(2))
		}
		m.setStatus(fmt.Sprintf("order %s saved%s", msg.order.Reference, change), false)
		m.customer.SetValue("")
		return m, nil

	case errMsg:
		m.setStatus(msg.err.Error(), true)
		return m, nil

	case tea.KeyMsg:
		if m.editingCustomer {
			return m.updateCustomerInput(msg)
		}
		return m.updateBrowsing(msg)
	}

	return m, nil
}

func (m Model) updateCustomerInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.editingCustomer = false
		m.customer.Blur()
		return m, nil
	default:
		var cmd tea.Cmd
		m.customer, cmd = m.customer.Update(msg)
		return m, cmd
	}
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ForceQuit), key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.NextCategory):
		m.categoryIdx = (m.categoryIdx + 1) % (len(m.categories) + 1)
		m.applyCategoryFilter()

	case key.Matches(msg, m.keys.Add):
		if m.cursor < len(m.visible) {
			p := m.visible[m.cursor]
			if err := m.cart.AddProduct(&p, 1); err != nil {
				m.setStatus(err.Error(), true)
			} else {
				m.setStatus(fmt.Sprintf("added %s", p.Name), false)
			}
		}

	case key.Matches(msg, m.keys.Remove):
		if m.cursor < len(m.visible) {
			p := m.visible[m.cursor]
			if err := m.cart.RemoveProduct(p.ID, 1); err != nil {
				m.setStatus(err.Error(), true)
			}
		}

	case key.Matches(msg, m.keys.ClearAll):
		m.cart.Clear()
		m.setStatus("cart cleared", false)

	case key.Matches(msg, m.keys.Customer):
		m.editingCustomer = true
		m.customer.Focus()

	case key.Matches(msg, m.keys.Payment):
		m.paymentIdx = (m.paymentIdx + 1) % len(registerPayments)

	case key.Matches(msg, m.keys.Checkout):
		return m, m.checkoutCmd()

	case key.Matches(msg, m.keys.ToggleHelp):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

func (m *Model) applyCategoryFilter() {
	m.cursor = 0
	if m.categoryIdx == 0 {
		m.visible = m.products
		return
	}
	want := m.categories[m.categoryIdx-1].ID
	filtered := make([]model.Product, 0, len(m.products))
	for _, p := range m.products {
		if p.CategoryID == want {
			filtered = append(filtered, p)
		}
	}
	m.visible = filtered
}

func (m *Model) setStatus(text string, isError bool) {
	m.status = text
	m.statusIsError = isError
}

// checkoutCmd processes the cart as a tea.Cmd so the save happens off
// the update loop. Card payments are entered through the
// non-interactive sell command; cash here means exact tender.
func (m Model) checkoutCmd() tea.Cmd {
	cart := m.cart
	store := m.store
	customer := m.customer.Value()
	method := registerPayments[m.paymentIdx]

	return func() tea.Msg {
		order, result, err := cart.Checkout(context.Background(), store, customer, model.Payment{
			Method: method,
		})
		if err != nil {
			return errMsg{err}
		}
		return checkoutDoneMsg{order: order, result: result}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	left := m.productPane()
	right := m.cartPane()
	panes := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)

	status := ""
	if m.status != "" {
		if m.statusIsError {
			status = statusErrStyle.Render(m.status)
		} else {
			status = statusOKStyle.Render(m.status)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		panes,
		m.checkoutBar(),
		status,
		m.help.View(m.keys),
	)
}

func (m Model) productPane() string {
	var b strings.Builder

	title := "All products"
	if m.categoryIdx > 0 {
		title = m.categories[m.categoryIdx-1].Name
	}
	b.WriteString(selectedStyle.Render(title) + "\n\n")

	if len(m.visible) == 0 {
		b.WriteString(dimStyle.Render("no products"))
	}
	for i, p := range m.visible {
		line := fmt.Sprintf("%-24s %s%s", truncate(p.Name, 24), m.settings.CurrencySymbol, p.Price.StringFixed(2))
		if !p.IsAvailable {
			line += dimStyle.Render("  (unavailable)")
		}
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	return paneStyle.Render(b.String())
}

func (m Model) cartPane() string {
	var b strings.Builder
	b.WriteString(selectedStyle.Render("Cart") + "\n\n")

	lines := m.cart.Lines()
	if len(lines) == 0 {
		b.WriteString(dimStyle.Render("empty") + "\n")
	}
	for _, line := range lines {
		b.WriteString(fmt.Sprintf("%dx %-20s %s%s\n",
			line.Quantity, truncate(line.ProductName, 20),
			m.settings.CurrencySymbol, line.Subtotal.StringFixed(2)))
	}

	totals := m.cart.Totals()
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Subtotal  %s%s\n", m.settings.CurrencySymbol, totals.Subtotal.StringFixed(2)))
	b.WriteString(fmt.Sprintf("Tax       %s%s\n", m.settings.CurrencySymbol, totals.Tax.StringFixed(2)))
	b.WriteString(selectedStyle.Render(
		fmt.Sprintf("Total     %s%s", m.settings.CurrencySymbol, totals.Total.StringFixed(2))))

	return paneStyle.Render(b.String())
}

func (m Model) checkoutBar() string {
	customer := m.customer.Value()
	if customer == "" {
		customer = "Walk-in"
	}
	if m.editingCustomer {
		return "Customer: " + m.customer.View()
	}
	return fmt.Sprintf("Customer: %s   Payment: %s",
		customer, selectedStyle.Render(string(registerPayments[m.paymentIdx])))
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}

// Run loads the menu and starts the register screen.
func Run(ctx context.Context, store Storage, settings model.Settings) error {
	categories, err := store.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}
	products, err := store.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}

	program := tea.NewProgram(New(store, settings, categories, products), tea.WithAltScreen())
	_, err = program.Run()
	return err
}
