package tui

import (
	"context"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tillpos/till/internal/model"
)

type fakeStorage struct {
	categories []model.Category
	products   []model.Product
	saved      *model.Order
}

func (f *fakeStorage) ListCategories(context.Context) ([]model.Category, error) {
	return f.categories, nil
}

func (f *fakeStorage) ListProducts(context.Context) ([]model.Product, error) {
	return f.products, nil
}

func (f *fakeStorage) SaveOrder(_ context.Context, order *model.Order) (*model.Order, error) {
	saved := *order
	saved.ID = 1
	saved.Reference = "tui-ref"
	saved.RecalculateTotal()
	f.saved = &saved
	return &saved, nil
}

func testModel() (Model, *fakeStorage) {
	store := &fakeStorage{
		categories: []model.Category{
			{ID: 1, Name: "Burgers"},
			{ID: 2, Name: "Drinks"},
		},
		products: []model.Product{
			{ID: 1, Name: "Cheeseburger", Price: decimal.RequireFromString("5.50"), CategoryID: 1, IsAvailable: true},
			{ID: 2, Name: "Cola", Price: decimal.RequireFromString("1.75"), CategoryID: 2, IsAvailable: true},
		},
	}
	return New(store, model.DefaultSettings(), store.categories, store.products), store
}

func pressKey(t *testing.T, m Model, key string) Model {
	t.Helper()
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	next, ok := updated.(Model)
	require.True(t, ok)
	return next
}

func TestAddToCart(t *testing.T) {
	m, _ := testModel()

	m = pressKey(t, m, "+")
	m = pressKey(t, m, "+")

	assert.Equal(t, 2, m.cart.ItemCount())
	assert.Contains(t, m.View(), "Cheeseburger")
}

func TestRemoveFromCart(t *testing.T) {
	m, _ := testModel()

	m = pressKey(t, m, "+")
	m = pressKey(t, m, "-")

	assert.True(t, m.cart.IsEmpty())
}

func pressTab(t *testing.T, m Model) Model {
	t.Helper()
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	next, ok := updated.(Model)
	require.True(t, ok)
	return next
}

func TestCategoryFilter(t *testing.T) {
	m, _ := testModel()

	// Tab to the first category (Burgers).
	m = pressTab(t, m)
	require.Len(t, m.visible, 1)
	assert.Equal(t, "Cheeseburger", m.visible[0].Name)

	// Tab through Drinks and back to all.
	m = pressTab(t, m)
	m = pressTab(t, m)
	assert.Len(t, m.visible, 2)
}

func TestPaymentCycling(t *testing.T) {
	m, _ := testModel()

	assert.Equal(t, 0, m.paymentIdx)
	m = pressKey(t, m, "p")
	assert.Equal(t, 1, m.paymentIdx)

	for i := 0; i < len(registerPayments)-1; i++ {
		m = pressKey(t, m, "p")
	}
	assert.Equal(t, 0, m.paymentIdx, "cycling wraps around")
}

func TestPaymentCyclingSkipsCardMethods(t *testing.T) {
	m, _ := testModel()

	// Card payments need a number the screen never asks for, so the
	// cycle must only ever land on methods that can complete here.
	for i := 0; i < 2*len(model.PaymentMethods); i++ {
		method := registerPayments[m.paymentIdx]
		assert.NotEqual(t, model.PaymentCreditCard, method)
		assert.NotEqual(t, model.PaymentDebitCard, method)
		m = pressKey(t, m, "p")
	}
}

func TestCheckoutCommand(t *testing.T) {
	m, store := testModel()

	m = pressKey(t, m, "+")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	m = updated.(Model)
	require.NotNil(t, cmd)

	msg := cmd()
	done, ok := msg.(checkoutDoneMsg)
	require.True(t, ok, "expected checkoutDoneMsg, got %T", msg)
	assert.Equal(t, "tui-ref", done.order.Reference)
	require.NotNil(t, store.saved)
	assert.Len(t, store.saved.Items, 1)

	updated, _ = m.Update(msg)
	m = updated.(Model)
	assert.Contains(t, m.status, "tui-ref")
	assert.True(t, m.cart.IsEmpty())
}

func TestCheckoutEmptyCartReportsError(t *testing.T) {
	m, _ := testModel()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	require.NotNil(t, cmd)

	msg := cmd()
	_, ok := msg.(errMsg)
	assert.True(t, ok, "expected errMsg, got %T", msg)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{name: "short ascii untouched", in: "Fries", max: 10, want: "Fries"},
		{name: "long ascii shortened", in: "Double Stack Burger", max: 8, want: "Double …"},
		{name: "arabic name shortened on runes", in: "شاورما دجاج مشوي", max: 8, want: "شاورما …"},
		{name: "short arabic untouched", in: "شاورما", max: 10, want: "شاورما"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.max)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestQuit(t *testing.T) {
	m, _ := testModel()

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m = updated.(Model)
	assert.True(t, m.quitting)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
