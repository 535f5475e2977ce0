package cli

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"sort"
	"strings"

	"github.com/five82/lametric"
)

func appsList(e *env, args []string) error {
	fs := e.flagSet()
	if _, err := e.parse(fs, args, 0, 0); err != nil {
		return err
	}
	client, _, err := e.connect(true)
	if err != nil {
		return err
	}

	resp, err := client.Apps().List(e.ctx)
	if err != nil {
		return err
	}
	apps, err := resp.Required()
	if err != nil {
		return err
	}

	if e.verbose {
		e.out.Payload("Installed apps:", resp.PrettyPrinted())
	}

	e.out.Success("Installed apps (%d):", len(apps))
	e.out.Blank()
	packages := make([]string, 0, len(apps))
	for pkg := range apps {
		packages = append(packages, pkg)
	}
	sort.Strings(packages)
	for _, pkg := range packages {
		app := apps[pkg]
		e.out.Heading("%s", pkg)
		e.out.Line("   Vendor: %s", app.Vendor)
		e.out.Line("   Version: %s", app.Version)
		e.out.Line("   Widgets: %d", len(app.Widgets))
		for _, id := range app.WidgetIDs() {
			w := app.Widgets[id]
			e.out.Line("      - %s, index %d%s", id, w.Index, visibleSuffix(w))
		}
		e.out.Blank()
	}
	return nil
}

func appsGet(e *env, args []string) error {
	fs := e.flagSet()
	pos, err := e.parse(fs, args, 1, 1)
	if err != nil {
		return err
	}
	client, _, err := e.connect(true)
	if err != nil {
		return err
	}

	resp, err := client.Apps().Get(e.ctx, pos[0])
	if err != nil {
		return err
	}
	app, err := resp.Required()
	if err != nil {
		return err
	}

	if e.verbose {
		e.out.Payload(pos[0]+" details:", resp.PrettyPrinted())
	}

	e.out.Success("%s", app.Package)
	e.out.Line("Vendor: %s", app.Vendor)
	e.out.Line("Version: %s (code: %s)", app.Version, app.VersionCode)
	e.out.Blank()

	e.out.Heading("Widgets (%d):", len(app.Widgets))
	for _, id := range app.WidgetIDs() {
		w := app.Widgets[id]
		e.out.Line("  - %s%s", id, visibleSuffix(w))
		e.out.Line("    Index: %d", w.Index)
	}

	if ids := app.ActionIDs(); len(ids) > 0 {
		e.out.Blank()
		e.out.Heading("Available actions:")
		for _, id := range ids {
			e.out.Line("  - %s%s", id, describeParams(app.Actions[id]))
		}
	}
	return nil
}

func visibleSuffix(w lametric.Widget) string {
	if w.IsVisible() {
		return " (visible)"
	}
	return ""
}

// describeParams renders an action's parameters, e.g. " (duration int, start_now bool?)".
func describeParams(params map[string]lametric.Action) string {
	if len(params) == 0 {
		return ""
	}
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		p := params[name]
		part := name + " " + string(p.DataType)
		if !p.Required {
			part += "?"
		}
		parts = append(parts, part)
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

func appsNext(e *env, args []string) error {
	return switchApp(e, args, true)
}

func appsPrevious(e *env, args []string) error {
	return switchApp(e, args, false)
}

func switchApp(e *env, args []string, next bool) error {
	fs := e.flagSet()
	if _, err := e.parse(fs, args, 0, 0); err != nil {
		return err
	}
	client, _, err := e.connect(true)
	if err != nil {
		return err
	}

	var resp lametric.Response[lametric.SwitchAppResponse]
	direction := "next"
	if next {
		resp, err = client.Apps().Next(e.ctx)
	} else {
		direction = "previous"
		resp, err = client.Apps().Previous(e.ctx)
	}
	if err != nil {
		return err
	}
	if _, err := resp.Required(); err != nil {
		return err
	}
	e.out.Success("Switched to %s app", direction)
	return nil
}

func appsActivate(e *env, args []string) error {
	fs := e.flagSet()
	pos, err := e.parse(fs, args, 2, 2)
	if err != nil {
		return err
	}
	pkg, widgetID := pos[0], pos[1]

	client, _, err := e.connect(true)
	if err != nil {
		return err
	}
	resp, err := client.Apps().ActivateWidget(e.ctx, pkg, widgetID)
	if err != nil {
		return err
	}
	if _, err := resp.Required(); err != nil {
		return err
	}
	e.out.Success("Activated widget %s in %s", widgetID, pkg)
	return nil
}

func appsAction(e *env, args []string) error {
	fs := e.flagSet()
	rawParams := fs.String("params", "", `action parameters as a JSON object, e.g. '{"duration":90}'`)
	activate := fs.Bool("activate", false, "bring the widget on screen")
	pos, err := e.parse(fs, args, 3, 3)
	if err != nil {
		return err
	}
	pkg, widgetID, actionID := pos[0], pos[1], pos[2]

	params, err := parseParams(*rawParams)
	if err != nil {
		return &usageError{err: err}
	}
	action := lametric.AppAction{ID: actionID, Params: params}
	if *activate {
		action.Activate = lametric.Ptr(true)
	}

	client, _, err := e.connect(true)
	if err != nil {
		return err
	}
	resp, err := client.Apps().SendAction(e.ctx, pkg, widgetID, action)
	if err != nil {
		return err
	}
	if _, err := resp.Required(); err != nil {
		return err
	}
	e.out.Success("Action '%s' sent to %s", actionID, pkg)
	return nil
}

// parseParams decodes a flat JSON object of bool, number and string values.
func parseParams(raw string) (map[string]lametric.Value, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var params map[string]lametric.Value
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	if err := dec.Decode(&params); err != nil {
		return nil, fmt.Errorf("invalid JSON parameters: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("invalid JSON parameters: trailing data")
	}
	if params == nil {
		return nil, fmt.Errorf("invalid JSON parameters: expected an object")
	}
	return params, nil
}

// widgetFor returns the widget named on the command line, or the first
// widget of pkg when none was given.
func (e *env) widgetFor(client *lametric.Client, pkg string, pos []string) (string, error) {
	if len(pos) > 0 {
		return pos[0], nil
	}
	resp, err := client.Apps().Get(e.ctx, pkg)
	if err != nil {
		return "", err
	}
	app, err := resp.Required()
	if err != nil {
		return "", fmt.Errorf("look up %s widget: %w", pkg, err)
	}
	ids := app.WidgetIDs()
	if len(ids) == 0 {
		return "", fmt.Errorf("%s has no widgets", pkg)
	}
	e.log.WithField("widget", ids[0]).Debugf("using first widget of %s", pkg)
	return ids[0], nil
}

func appsAlarm(e *env, args []string) error {
	fs := e.flagSet()
	at := fs.String("time", "", "local alarm time, HH:MM or HH:MM:SS")
	enable := fs.Bool("enable", false, "turn the alarm on")
	disable := fs.Bool("disable", false, "turn the alarm off")
	wakeWithRadio := fs.Bool("wake-with-radio", false, "play the radio instead of the alarm sound")
	pos, err := e.parse(fs, args, 0, 1)
	if err != nil {
		return err
	}

	if *enable && *disable {
		return usagef("-enable and -disable are mutually exclusive")
	}
	var settings lametric.AlarmSettings
	switch {
	case *enable:
		settings.Enabled = lametric.Ptr(true)
	case *disable:
		settings.Enabled = lametric.Ptr(false)
	}
	if *at != "" {
		t, err := normalizeClock(*at)
		if err != nil {
			return usagef("-time: %v", err)
		}
		settings.Time = lametric.Ptr(t)
	}
	if isSet(fs, "wake-with-radio") {
		settings.WakeWithRadio = lametric.Ptr(*wakeWithRadio)
	}
	if settings == (lametric.AlarmSettings{}) {
		return usagef("nothing to change; use -time, -enable, -disable or -wake-with-radio")
	}

	client, _, err := e.connect(true)
	if err != nil {
		return err
	}
	widgetID, err := e.widgetFor(client, lametric.PackageClock, pos)
	if err != nil {
		return err
	}
	resp, err := client.Apps().ConfigureAlarm(e.ctx, widgetID, settings)
	if err != nil {
		return err
	}
	if _, err := resp.Required(); err != nil {
		return err
	}
	e.out.Success("Alarm updated on widget %s", widgetID)
	return nil
}

var radioActions = map[string]lametric.RadioAction{
	"play":     lametric.RadioPlay,
	"stop":     lametric.RadioStop,
	"next":     lametric.RadioNext,
	"previous": lametric.RadioPrevious,
}

func appsRadio(e *env, args []string) error {
	fs := e.flagSet()
	pos, err := e.parse(fs, args, 1, 2)
	if err != nil {
		return err
	}
	action, ok := radioActions[pos[0]]
	if !ok {
		return usagef("unknown radio action %q (want play, stop, next or previous)", pos[0])
	}

	client, _, err := e.connect(true)
	if err != nil {
		return err
	}
	widgetID, err := e.widgetFor(client, lametric.PackageRadio, pos[1:])
	if err != nil {
		return err
	}
	resp, err := client.Apps().ControlRadio(e.ctx, widgetID, action)
	if err != nil {
		return err
	}
	if _, err := resp.Required(); err != nil {
		return err
	}
	e.out.Success("Radio %s sent to widget %s", pos[0], widgetID)
	return nil
}

var timerActions = map[string]lametric.TimerAction{
	"start": lametric.TimerStart,
	"pause": lametric.TimerPause,
	"reset": lametric.TimerReset,
}

func appsCountdown(e *env, args []string) error {
	fs := e.flagSet()
	duration := fs.Int("duration", 0, "countdown length in seconds (configure)")
	startNow := fs.Bool("start-now", false, "start right after configuring")
	pos, err := e.parse(fs, args, 1, 2)
	if err != nil {
		return err
	}

	verb := pos[0]
	var settings lametric.CountdownSettings
	action, isTimer := timerActions[verb]
	switch {
	case verb == "configure":
		if *duration <= 0 {
			return usagef("configure needs a positive -duration")
		}
		settings.Duration = lametric.Ptr(*duration)
		if isSet(fs, "start-now") {
			settings.StartNow = lametric.Ptr(*startNow)
		}
	case !isTimer:
		return usagef("unknown countdown action %q (want configure, start, pause or reset)", verb)
	}

	client, _, err := e.connect(true)
	if err != nil {
		return err
	}
	widgetID, err := e.widgetFor(client, lametric.PackageCountdown, pos[1:])
	if err != nil {
		return err
	}

	var resp lametric.Response[lametric.ActionResponse]
	if verb == "configure" {
		resp, err = client.Apps().ConfigureCountdown(e.ctx, widgetID, settings)
	} else {
		resp, err = client.Apps().ControlCountdown(e.ctx, widgetID, action)
	}
	if err != nil {
		return err
	}
	if _, err := resp.Required(); err != nil {
		return err
	}
	e.out.Success("Countdown %s sent to widget %s", verb, widgetID)
	return nil
}

func appsStopwatch(e *env, args []string) error {
	fs := e.flagSet()
	pos, err := e.parse(fs, args, 1, 2)
	if err != nil {
		return err
	}
	action, ok := timerActions[pos[0]]
	if !ok {
		return usagef("unknown stopwatch action %q (want start, pause or reset)", pos[0])
	}

	client, _, err := e.connect(true)
	if err != nil {
		return err
	}
	widgetID, err := e.widgetFor(client, lametric.PackageStopwatch, pos[1:])
	if err != nil {
		return err
	}
	resp, err := client.Apps().ControlStopwatch(e.ctx, widgetID, action)
	if err != nil {
		return err
	}
	if _, err := resp.Required(); err != nil {
		return err
	}
	e.out.Success("Stopwatch %s sent to widget %s", pos[0], widgetID)
	return nil
}

func appsWeather(e *env, args []string) error {
	fs := e.flagSet()
	pos, err := e.parse(fs, args, 0, 1)
	if err != nil {
		return err
	}

	client, _, err := e.connect(true)
	if err != nil {
		return err
	}
	widgetID, err := e.widgetFor(client, lametric.PackageWeather, pos)
	if err != nil {
		return err
	}
	resp, err := client.Apps().ShowWeatherForecast(e.ctx, widgetID)
	if err != nil {
		return err
	}
	if _, err := resp.Required(); err != nil {
		return err
	}
	e.out.Success("Showing the weather forecast on widget %s", widgetID)
	return nil
}

func isSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
