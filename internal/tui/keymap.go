package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the register screen's keyboard shortcuts.
type KeyMap struct {
	// Navigation
	Up   key.Binding
	Down key.Binding

	// Cart actions
	Add      key.Binding
	Remove   key.Binding
	ClearAll key.Binding

	// Checkout
	Customer key.Binding
	Payment  key.Binding
	Checkout key.Binding

	// Application
	NextCategory key.Binding
	ToggleHelp   key.Binding
	Quit         key.Binding
	ForceQuit    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),

		Add: key.NewBinding(
			key.WithKeys("enter", "+"),
			key.WithHelp("Enter/+", "add to cart"),
		),
		Remove: key.NewBinding(
			key.WithKeys("-", "backspace"),
			key.WithHelp("-", "remove from cart"),
		),
		ClearAll: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("Ctrl+X", "clear cart"),
		),

		Customer: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "customer name"),
		),
		Payment: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "cycle payment method"),
		),
		Checkout: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "checkout"),
		),

		NextCategory: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "next category"),
		),
		ToggleHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q/Esc", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("Ctrl+C", "force quit"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Remove, k.Checkout, k.ToggleHelp, k.Quit}
}

// FullHelp returns all key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextCategory},
		{k.Add, k.Remove, k.ClearAll},
		{k.Customer, k.Payment, k.Checkout},
		{k.ToggleHelp, k.Quit},
	}
}
