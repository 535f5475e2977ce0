package cli

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/five82/lametric"
)

func deviceInfo(e *env, args []string) error {
	fs := e.flagSet()
	if _, err := e.parse(fs, args, 0, 0); err != nil {
		return err
	}
	client, _, err := e.connect(true)
	if err != nil {
		return err
	}

	resp, err := client.Device().State(e.ctx)
	if err != nil {
		return err
	}
	state, err := resp.Required()
	if err != nil {
		return err
	}

	e.out.Success("%s info:", state.Name)
	e.out.Fields([][2]string{
		{"ID", state.ID},
		{"Name", state.Name},
		{"Serial number", state.SerialNumber},
		{"OS version", state.OSVersion},
		{"Model", state.Model},
		{"Mode", string(state.Mode)},
	})
	e.out.Heading("Display:")
	e.out.Fields(displayFields(state.Display))
	return nil
}

func deviceSetMode(e *env, args []string) error {
	fs := e.flagSet()
	pos, err := e.parse(fs, args, 1, 1)
	if err != nil {
		return err
	}
	mode := lametric.Mode(strings.ToLower(pos[0]))
	if !slices.Contains(lametric.Modes, mode) {
		return usagef("unknown mode %q (want auto, manual, schedule or kiosk)", pos[0])
	}

	client, _, err := e.connect(true)
	if err != nil {
		return err
	}
	resp, err := client.Device().SetMode(e.ctx, mode)
	if err != nil {
		return err
	}
	result, err := resp.Required()
	if err != nil {
		return err
	}
	e.out.Success("Device mode set to '%s' successfully", result.Success.Data.Mode)
	return nil
}

func listEndpoints(e *env, args []string) error {
	fs := e.flagSet()
	if _, err := e.parse(fs, args, 0, 0); err != nil {
		return err
	}
	client, _, err := e.connect(true)
	if err != nil {
		return err
	}

	resp, err := client.ListEndpoints(e.ctx)
	if err != nil {
		return err
	}
	list, err := resp.Required()
	if err != nil {
		return err
	}

	e.out.Success("API version %s", list.APIVersion)
	names := make([]string, 0, len(list.Endpoints))
	width := 0
	for name := range list.Endpoints {
		names = append(names, name)
		width = max(width, len(name))
	}
	sort.Strings(names)
	for _, name := range names {
		e.out.Line("  %-*s %s", width, name, list.Endpoints[name])
	}
	return nil
}

func displayFields(d lametric.Display) [][2]string {
	rows := [][2]string{
		{"Brightness", fmt.Sprintf("%d%% (%s)", d.Brightness, d.BrightnessMode)},
		{"Brightness range", fmt.Sprintf("%d-%d", d.BrightnessRange.Min, d.BrightnessRange.Max)},
		{"Brightness limit", fmt.Sprintf("%d-%d", d.BrightnessLimit.Min, d.BrightnessLimit.Max)},
		{"Size", fmt.Sprintf("%dx%d", d.Width, d.Height)},
		{"Type", string(d.Type)},
	}
	if ss := d.Screensaver; ss != nil {
		rows = append(rows, [2]string{"Screensaver", describeScreensaver(*ss)})
	}
	return rows
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
		modes = append(modes, fmt.Sprintf("from %s to %s GMT", tb.StartTime, tb.EndTime))
	}
	if len(modes) == 0 {
		return "on"
	}
	return "on, " + strings.Join(modes, ", ")
}
