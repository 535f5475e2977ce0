package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/lametric"
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	parts := []string{bg.Render("lametric", styles.Logo)}

	if !m.snapshot.HasDevice {
		if m.snapshot.LastError != nil {
			parts = append(parts,
				bg.Render("DEVICE "+classifyConnectionError(m.snapshot.LastError), styles.DangerText),
				bg.Render("Retrying...", styles.WarningText.Bold(true)),
			)
		} else {
			parts = append(parts, bg.Render("Connecting to "+m.targetLabel()+"...", styles.WarningText.Bold(true)))
		}
		return styles.Header.Width(m.width).Render(bg.Join(parts, sep))
	}

	device := m.snapshot.Device
	parts = append(parts,
		bg.Render(device.Name, styles.Text.Bold(true)),
		styles.BadgeStyle(string(device.Mode)).Render(strings.ToUpper(string(device.Mode))),
		bg.Render("Brightness:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d%%", device.Display.Brightness), styles.Text),
		bg.Render("Notifications:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", len(m.snapshot.Notifications)), styles.Text),
	)

	if ts := m.formatTimestamp(); ts != "" {
		parts = append(parts, bg.Render(ts, styles.MutedText))
	}

	if m.snapshot.IsOffline() {
		parts = append(parts, bg.Render("OFFLINE", styles.DangerText))
	} else if m.snapshot.LastError != nil {
		maxErr := 60
		if m.width < 100 {
			maxErr = 30
		}
		parts = append(parts,
			bg.Render("ERROR", styles.DangerText)+bg.Space()+
				bg.Render(truncate(m.snapshot.LastError.Error(), maxErr), styles.DangerText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, sep))
}

// renderTabs renders the view selector line.
func (m Model) renderTabs() string {
	styles := m.theme.Styles()
	labels := []string{"1 Device", "2 Apps", "3 Notifications"}
	tabs := make([]string, 0, len(labels))
	for i, label := range labels {
		if View(i) == m.currentView {
			tabs = append(tabs, styles.Selected.Padding(0, 1).Render(label))
		} else {
			tabs = append(tabs, styles.MutedText.Padding(0, 1).Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// renderFooter renders the compose input, the last action result or the
// short help.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	switch {
	case m.composing:
		return styles.Footer.Width(m.width).Render(m.input.View())
	case m.status != "" && m.statusErr:
		return styles.Footer.Width(m.width).Render(styles.DangerText.Render(truncate(m.status, max(m.width-2, 10))))
	case m.status != "":
		return styles.Footer.Width(m.width).Render(styles.SuccessText.Render(truncate(m.status, max(m.width-2, 10))))
	default:
		return styles.Footer.Width(m.width).Render(m.help.ShortHelpView(m.keys.ShortHelp()))
	}
}

// renderHelp renders the full key binding overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	title := styles.AccentText.Bold(true).Render("Keyboard shortcuts")
	body := m.help.FullHelpView(m.keys.FullHelp())
	hint := styles.FaintText.Render("press any key to close")
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Render(title + "\n\n" + body + "\n\n" + hint)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// renderContent renders the current view. It returns the line of the
// selected row, or -1 when the view has no selection.
func (m Model) renderContent() (string, int) {
	switch m.currentView {
	case ViewApps:
		return m.renderApps()
	case ViewNotifications:
		return m.renderNotifications()
	default:
		return m.renderDevice(), -1
	}
}

func (m Model) renderDevice() string {
	styles := m.theme.Styles()
	if !m.snapshot.HasDevice {
		return styles.MutedText.Render("Waiting for device state...")
	}

	d := m.snapshot.Device
	disp := d.Display
	rows := [][2]string{
		{"Name", d.Name},
		{"Model", d.Model},
		{"Serial", d.SerialNumber},
		{"OS version", d.OSVersion},
		{"ID", d.ID},
		{"Mode", string(d.Mode)},
		{"Brightness", fmt.Sprintf("%d%% (%s, range %d-%d)", disp.Brightness, disp.BrightnessMode, disp.BrightnessRange.Min, disp.BrightnessRange.Max)},
		{"Display", fmt.Sprintf("%dx%d %s", disp.Width, disp.Height, disp.Type)},
	}
	if ss := disp.Screensaver; ss != nil {
		rows = append(rows, [2]string{"Screensaver", describeScreensaver(*ss)})
	}

	var b strings.Builder
	for _, row := range rows {
		b.WriteString(styles.MutedText.Render(padRight(row[0], 12)))
		b.WriteString(styles.Text.Render(row[1]))
		b.WriteString("\n")
	}
	return b.String()
}

func describeScreensaver(ss lametric.Screensaver) string {
	if !ss.Enabled {
		return "off"
	}
	var modes []string
	if ss.Modes.WhenDark.Enabled {
		modes = append(modes, "when dark")
	}
	if tb := ss.Modes.TimeBased; tb.Enabled {
		modes = append(modes, fmt.Sprintf("%s-%s GMT", tb.StartTime, tb.EndTime))
	}
	if len(modes) == 0 {
		return "on"
	}
	return "on, " + strings.Join(modes, ", ")
}

func (m Model) renderApps() (string, int) {
	styles := m.theme.Styles()
	rows := m.snapshot.Widgets()
	if len(rows) == 0 {
		return styles.MutedText.Render("No apps reported"), -1
	}

	var b strings.Builder
	b.WriteString(styles.FaintText.Render(padRight("PACKAGE", 32) + padRight("WIDGET", 36) + "INDEX"))
	b.WriteString("\n")
	selected := m.selected[ViewApps]
	for i, row := range rows {
		line := padRight(truncate(row.Package, 30), 32) + padRight(truncate(row.WidgetID, 34), 36) + fmt.Sprintf("%d", row.Index)
		if row.Visible {
			line += "  ● on screen"
		}
		if i == selected {
			b.WriteString(styles.Selected.Render(padRight(line, m.width)))
		} else {
			b.WriteString(styles.Text.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String(), selected + 1
}

func (m Model) renderNotifications() (string, int) {
	styles := m.theme.Styles()
	items := m.snapshot.Notifications
	if len(items) == 0 {
		return styles.MutedText.Render("Notification queue is empty"), -1
	}

	var b strings.Builder
	selected := m.selected[ViewNotifications]
	for i, item := range items {
		badge := styles.BadgeStyle(string(item.Priority)).Render(padRight(string(item.Priority), 8))
		line := padRight(item.ID, 8) + padRight(string(item.Type), 10) + truncate(summarizeModel(item.Model), 60)
		if i == selected {
			line = styles.Selected.Render(padRight(line, max(m.width-12, 0)))
		} else {
			line = styles.Text.Render(line)
		}
		b.WriteString(badge + " " + line)
		b.WriteString("\n")
	}
	return b.String(), selected
}

// summarizeModel describes the first frame of a notification.
func summarizeModel(model lametric.Model) string {
	if len(model.Frames) == 0 {
		return "(no frames)"
	}
	f := model.Frames[0]
	var summary string
	switch f.Kind() {
	case lametric.FrameGoal:
		g, _ := f.Goal()
		summary = fmt.Sprintf("goal %d/%d %s", g.Current, g.End, g.Unit)
	case lametric.FrameChart:
		data, _ := f.ChartData()
		summary = fmt.Sprintf("chart (%d points)", len(data))
	default:
		if text, ok := f.Text(); ok {
			summary = text
		} else if icon, ok := f.Icon(); ok {
			summary = "icon " + icon
		}
	}
	if extra := len(model.Frames) - 1; extra > 0 {
		summary += fmt.Sprintf(" (+%d frames)", extra)
	}
	return summary
}

// formatTimestamp formats the last update time with a staleness hint.
func (m Model) formatTimestamp() string {
	if m.lastUpdated.IsZero() || m.snapshot.LastUpdated.IsZero() {
		return ""
	}
	ts := m.snapshot.LastUpdated.Format("15:04:05")
	if age := time.Since(m.snapshot.LastUpdated); age > 10*time.Second {
		return fmt.Sprintf("%s (%ds ago)", ts, int(age.Seconds()))
	}
	return ts
}

func (m Model) targetLabel() string {
	if m.target == "" {
		return "device"
	}
	return m.target
}

// classifyConnectionError returns a short description of the connection error.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timed out"), strings.Contains(msg, "timeout"):
		return "TIMEOUT"
	case strings.Contains(msg, "status code: 401"), strings.Contains(msg, "status code: 403"):
		return "UNAUTHORIZED"
	default:
		return "ERROR"
	}
}
