package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/lametric/internal/prefs"
	"github.com/five82/lametric/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewDevice View = iota
	ViewApps
	ViewNotifications
)

var viewNames = []string{"device", "apps", "notifications"}

func (v View) String() string {
	if int(v) >= 0 && int(v) < len(viewNames) {
		return viewNames[v]
	}
	return "device"
}

func parseView(name string) View {
	for i, n := range viewNames {
		if n == name {
			return View(i)
		}
	}
	return ViewDevice
}

// Controller performs the device actions offered by the dashboard.
type Controller interface {
	NextApp(ctx context.Context) error
	PreviousApp(ctx context.Context) error
	ActivateWidget(ctx context.Context, pkg, widgetID string) error
	Dismiss(ctx context.Context, notificationID string) error
	Notify(ctx context.Context, text string) (string, error)
}

// Options configures the UI.
type Options struct {
	Context    context.Context
	Controller Controller
	Store      *state.Store
	Target     string // shown in the header, e.g. http://LM1234.local:8080
	PollTick   time.Duration
	ThemeName  string
	ViewName   string
	PrefsPath  string
}

const actionTimeout = 10 * time.Second

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx        context.Context
	controller Controller
	store      *state.Store
	target     string
	prefsPath  string
	pollTick   time.Duration

	// UI state
	theme       Theme
	keys        keyMap
	help        help.Model
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	selected    [3]int

	// Data state
	snapshot    state.Snapshot
	lastUpdated time.Time

	// Last action outcome, shown in the footer
	status    string
	statusErr bool

	viewport  viewport.Model
	composing bool
	input     textinput.Model
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = time.Second
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	input := textinput.New()
	input.Placeholder = "Notification text"
	input.CharLimit = 200
	input.Prompt = "> "

	return Model{
		ctx:         ctx,
		controller:  opts.Controller,
		store:       opts.Store,
		target:      opts.Target,
		prefsPath:   prefsPath,
		pollTick:    pollTick,
		theme:       GetTheme(opts.ThemeName),
		keys:        DefaultKeyMap(),
		help:        help.New(),
		currentView: parseView(opts.ViewName),
		input:       input,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if !m.ready {
			m.viewport = viewport.New(msg.Width, m.contentHeight())
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = m.contentHeight()
		}
		m.ready = true
		m.syncViewport()
		return m, nil

	case tickMsg:
		var cmds []tea.Cmd
		if m.store != nil {
			cmds = append(cmds, fetchSnapshotCmd(m.store))
		}
		cmds = append(cmds, tickCmd(m.pollTick))
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.lastUpdated = time.Now()
		m.clampSelection()
		m.syncViewport()
		return m, nil

	case actionResultMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			m.statusErr = true
		} else {
			m.status = msg.text
			m.statusErr = false
		}
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.composing {
		return m.handleComposeKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.syncViewport()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		m.setView((m.currentView + 1) % 3)
		return m, nil

	case key.Matches(msg, m.keys.ShiftTab):
		m.setView((m.currentView + 2) % 3)
		return m, nil

	case key.Matches(msg, m.keys.ViewDevice):
		m.setView(ViewDevice)
		return m, nil

	case key.Matches(msg, m.keys.ViewApps):
		m.setView(ViewApps)
		return m, nil

	case key.Matches(msg, m.keys.ViewNotifications):
		m.setView(ViewNotifications)
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)
		return m, nil

	case key.Matches(msg, m.keys.NextApp):
		return m, m.actionCmd("next app", "switched to next app", func(ctx context.Context, c Controller) (string, error) {
			return "", c.NextApp(ctx)
		})

	case key.Matches(msg, m.keys.PreviousApp):
		return m, m.actionCmd("previous app", "switched to previous app", func(ctx context.Context, c Controller) (string, error) {
			return "", c.PreviousApp(ctx)
		})

	case key.Matches(msg, m.keys.Compose):
		m.composing = true
		m.input.SetValue("")
		cmd := m.input.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Activate) && m.currentView == ViewApps:
		row, ok := m.selectedWidget()
		if !ok {
			return m, nil
		}
		return m, m.actionCmd("activate widget", "activated "+row.WidgetID, func(ctx context.Context, c Controller) (string, error) {
			return "", c.ActivateWidget(ctx, row.Package, row.WidgetID)
		})

	case key.Matches(msg, m.keys.Dismiss) && m.currentView == ViewNotifications:
		items := m.snapshot.Notifications
		idx := m.selected[ViewNotifications]
		if idx < 0 || idx >= len(items) {
			return m, nil
		}
		id := items[idx].ID
		return m, m.actionCmd("dismiss", "dismissed notification "+id, func(ctx context.Context, c Controller) (string, error) {
			return "", c.Dismiss(ctx, id)
		})
	}

	return m, nil
}

// handleComposeKey routes keys to the notification text input.
func (m Model) handleComposeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.composing = false
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		text := strings.TrimSpace(m.input.Value())
		m.composing = false
		m.input.Blur()
		if text == "" {
			return m, nil
		}
		return m, m.actionCmd("send notification", "sent notification", func(ctx context.Context, c Controller) (string, error) {
			id, err := c.Notify(ctx, text)
			if err != nil {
				return "", err
			}
			return "sent notification " + id, nil
		})
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) setView(v View) {
	m.currentView = v
	m.savePrefs()
	m.syncViewport()
}

func (m *Model) savePrefs() {
	if m.prefsPath != "" {
		_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, View: m.currentView.String()})
	}
}

// rowCount returns the number of selectable rows of the current view.
func (m Model) rowCount() int {
	switch m.currentView {
	case ViewApps:
		return len(m.snapshot.Widgets())
	case ViewNotifications:
		return len(m.snapshot.Notifications)
	default:
		return 0
	}
}

func (m *Model) moveSelection(delta int) {
	count := m.rowCount()
	if count == 0 {
		return
	}
	next := m.selected[m.currentView] + delta
	if next < 0 {
		next = 0
	}
	if next > count-1 {
		next = count - 1
	}
	m.selected[m.currentView] = next
	m.syncViewport()
}

// clampSelection keeps selections inside the rows of a new snapshot.
func (m *Model) clampSelection() {
	counts := map[View]int{
		ViewApps:          len(m.snapshot.Widgets()),
		ViewNotifications: len(m.snapshot.Notifications),
	}
	for v, count := range counts {
		if m.selected[v] >= count {
			m.selected[v] = max(count-1, 0)
		}
	}
}

func (m Model) selectedWidget() (state.WidgetRow, bool) {
	rows := m.snapshot.Widgets()
	idx := m.selected[ViewApps]
	if idx < 0 || idx >= len(rows) {
		return state.WidgetRow{}, false
	}
	return rows[idx], true
}

// contentHeight is the terminal height minus header, tab bar and footer.
func (m Model) contentHeight() int {
	return max(m.height-3, 1)
}

// syncViewport re-renders the current view and scrolls the selection into sight.
func (m *Model) syncViewport() {
	if !m.ready {
		return
	}
	content, selectedLine := m.renderContent()
	m.viewport.SetContent(content)
	if selectedLine < 0 {
		return
	}
	if selectedLine < m.viewport.YOffset {
		m.viewport.SetYOffset(selectedLine)
	} else if selectedLine >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(selectedLine - m.viewport.Height + 1)
	}
}

// actionCmd runs a controller call off the UI goroutine. done is the footer
// text on success unless fn returns its own.
func (m Model) actionCmd(action, done string, fn func(context.Context, Controller) (string, error)) tea.Cmd {
	if m.controller == nil {
		return nil
	}
	parent := m.ctx
	c := m.controller
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, actionTimeout)
		defer cancel()
		text, err := fn(ctx, c)
		if err != nil {
			return actionResultMsg{err: fmt.Errorf("%s: %w", action, err)}
		}
		if text == "" {
			text = done
		}
		return actionResultMsg{text: text}
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type actionResultMsg struct {
	text string
	err  error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context is cancelled.
func Run(opts Options) error {
	if opts.Store == nil {
		return fmt.Errorf("ui requires a data store")
	}
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if err != nil && m.ctx.Err() != nil {
		return nil
	}
	return err
}
