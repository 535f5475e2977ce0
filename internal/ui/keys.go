package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the dashboard.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	ShiftTab   key.Binding

	// View switching
	ViewDevice        key.Binding
	ViewApps          key.Binding
	ViewNotifications key.Binding

	// Navigation
	Up   key.Binding
	Down key.Binding

	// Device actions
	NextApp     key.Binding
	PreviousApp key.Binding
	Activate    key.Binding
	Dismiss     key.Binding
	Compose     key.Binding

	// Compose input
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next view"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous view"),
		),

		ViewDevice: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Device view"),
		),
		ViewApps: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Apps view"),
		),
		ViewNotifications: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Notifications view"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),

		NextApp: key.NewBinding(
			key.WithKeys("n", "right"),
			key.WithHelp("n", "Next app"),
		),
		PreviousApp: key.NewBinding(
			key.WithKeys("p", "left"),
			key.WithHelp("p", "Previous app"),
		),
		Activate: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Show widget"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "Dismiss notification"),
		),
		Compose: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Send notification"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Send"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Cancel"),
		),
	}
}

// ShortHelp returns key bindings for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.NextApp, k.PreviousApp, k.Compose, k.Help, k.Quit}
}

// FullHelp returns key bindings for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Views
		{k.Tab, k.ShiftTab, k.ViewDevice, k.ViewApps, k.ViewNotifications},
		{k.Up, k.Down},
		// Device
		{k.NextApp, k.PreviousApp, k.Activate, k.Dismiss, k.Compose},
		// General
		{k.CycleTheme, k.Help, k.Quit},
	}
}
